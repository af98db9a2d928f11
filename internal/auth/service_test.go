package auth

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/i474232898/soil-health-map/internal/common"
	"github.com/i474232898/soil-health-map/internal/store"
)

type memFarmers struct {
	mu      sync.Mutex
	nextID  int64
	byName  map[string]store.Farmer
	hashes  map[string]string
	touched []int64
}

func newMemFarmers() *memFarmers {
	return &memFarmers{byName: map[string]store.Farmer{}, hashes: map[string]string{}}
}

func (m *memFarmers) CreateFarmer(_ context.Context, nf store.NewFarmer) (store.Farmer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byName[nf.Username]; ok {
		return store.Farmer{}, store.ErrUsernameTaken
	}
	m.nextID++
	f := store.Farmer{
		ID: m.nextID, Username: nf.Username, PostalCode: nf.PostalCode,
		DistrictID: nf.DistrictID, District: nf.District, State: nf.State,
		FullName: nf.FullName, Phone: nf.Phone,
	}
	m.byName[nf.Username] = f
	m.hashes[nf.Username] = nf.PasswordHash
	return f, nil
}

func (m *memFarmers) FarmerByUsername(_ context.Context, username string) (store.Farmer, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.byName[username]
	if !ok {
		return store.Farmer{}, "", store.ErrNotFound
	}
	return f, m.hashes[username], nil
}

func (m *memFarmers) TouchLastLogin(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.touched = append(m.touched, id)
	return nil
}

func newTestService() (*Service, *memFarmers) {
	farmers := newMemFarmers()
	svc := NewService(farmers, NewStaticLocator(nil), NewTokens("secret", time.Hour))
	svc.cost = bcrypt.MinCost
	return svc, farmers
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newTestService()

	cases := []struct {
		name string
		req  RegisterRequest
		want string
	}{
		{"short username", RegisterRequest{Username: "ab", Password: "secret1", PostalCode: "110001"}, "Username must be at least 3 characters"},
		{"short password", RegisterRequest{Username: "ravi", Password: "12345", PostalCode: "110001"}, "Password must be at least 6 characters"},
		{"short postal code", RegisterRequest{Username: "ravi", Password: "secret1", PostalCode: "1100"}, "Valid 6-digit postal code required"},
		{"non-numeric postal code", RegisterRequest{Username: "ravi", Password: "secret1", PostalCode: "11000A"}, "Valid 6-digit postal code required"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), c.req)
			var verr *common.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Message != c.want {
				t.Fatalf("got %q, want %q", verr.Message, c.want)
			}
		})
	}
}

func TestRegisterAndLogin(t *testing.T) {
	svc, farmers := newTestService()
	ctx := context.Background()

	f, err := svc.Register(ctx, RegisterRequest{Username: "ravi", Password: "secret1", PostalCode: "141001"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if f.District != "Ludhiana" || f.State != "Punjab" {
		t.Fatalf("unexpected placement %+v", f)
	}
	if farmers.hashes["ravi"] == "secret1" {
		t.Fatal("password stored in clear text")
	}

	session, err := svc.Login(ctx, LoginRequest{Username: "ravi", Password: "secret1"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if session.Farmer.FullName != "ravi" {
		t.Fatalf("full name should default to username, got %q", session.Farmer.FullName)
	}
	if len(farmers.touched) != 1 || farmers.touched[0] != f.ID {
		t.Fatalf("last login not recorded: %v", farmers.touched)
	}

	claims, err := svc.Verify(session.Token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.FarmerID != f.ID || claims.District != "Ludhiana" {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc, _ := newTestService()
	req := RegisterRequest{Username: "ravi", Password: "secret1", PostalCode: "110001"}

	if _, err := svc.Register(context.Background(), req); err != nil {
		t.Fatalf("Register: %v", err)
	}
	_, err := svc.Register(context.Background(), req)
	var verr *common.ValidationError
	if !errors.As(err, &verr) || verr.Message != "Username already exists" {
		t.Fatalf("expected duplicate username error, got %v", err)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterRequest{Username: "ravi", Password: "secret1", PostalCode: "110001"}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	for _, req := range []LoginRequest{
		{Username: "ravi", Password: "wrong-password"},
		{Username: "nobody", Password: "secret1"},
	} {
		if _, err := svc.Login(ctx, req); !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("Login(%s): expected ErrInvalidCredentials, got %v", req.Username, err)
		}
	}
}
