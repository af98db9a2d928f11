package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/i474232898/soil-health-map/internal/common"
	"github.com/i474232898/soil-health-map/internal/store"
)

// ErrInvalidCredentials is returned when the username or password is wrong.
var ErrInvalidCredentials = errors.New("invalid username or password")

var validate = validator.New()

// FarmerStore persists farmers.
type FarmerStore interface {
	CreateFarmer(ctx context.Context, nf store.NewFarmer) (store.Farmer, error)
	FarmerByUsername(ctx context.Context, username string) (store.Farmer, string, error)
	TouchLastLogin(ctx context.Context, farmerID int64) error
}

// RegisterRequest is the registration payload.
type RegisterRequest struct {
	Username   string `json:"username" validate:"min=3"`
	Password   string `json:"password" validate:"min=6"`
	PostalCode string `json:"postalCode" validate:"len=6,number"`
	FullName   string `json:"fullName"`
	Phone      string `json:"phone"`
}

// LoginRequest is the login payload.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Session is a successful login.
type Session struct {
	Token  string
	Farmer store.Farmer
}

var fieldMessages = map[string]common.ValidationError{
	"Username":   {Field: "username", Message: "Username must be at least 3 characters"},
	"Password":   {Field: "password", Message: "Password must be at least 6 characters"},
	"PostalCode": {Field: "postalCode", Message: "Valid 6-digit postal code required"},
}

// Service registers and authenticates farmers.
type Service struct {
	farmers FarmerStore
	locator Locator
	tokens  *Tokens
	cost    int
}

// NewService creates a new Service.
func NewService(farmers FarmerStore, locator Locator, tokens *Tokens) *Service {
	return &Service{
		farmers: farmers,
		locator: locator,
		tokens:  tokens,
		cost:    bcrypt.DefaultCost,
	}
}

func validationError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		if ve, ok := fieldMessages[verrs[0].StructField()]; ok {
			return common.Invalid(ve.Field, ve.Message)
		}
	}
	return common.Invalid("", err.Error())
}

// Register validates req, resolves the farmer's district from the postal
// code and stores the farmer with a bcrypt password hash.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (store.Farmer, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.PostalCode = strings.TrimSpace(req.PostalCode)
	if err := validate.Struct(req); err != nil {
		return store.Farmer{}, validationError(err)
	}

	placement, err := s.locator.Locate(ctx, req.PostalCode)
	if err != nil {
		return store.Farmer{}, fmt.Errorf("locate postal code: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		return store.Farmer{}, fmt.Errorf("hash password: %w", err)
	}

	f, err := s.farmers.CreateFarmer(ctx, store.NewFarmer{
		Username:     req.Username,
		PasswordHash: string(hash),
		PostalCode:   req.PostalCode,
		DistrictID:   placement.DistrictID,
		District:     placement.District,
		State:        placement.State,
		FullName:     strings.TrimSpace(req.FullName),
		Phone:        strings.TrimSpace(req.Phone),
	})
	if errors.Is(err, store.ErrUsernameTaken) {
		return store.Farmer{}, common.Invalid("username", "Username already exists")
	}
	if err != nil {
		return store.Farmer{}, err
	}

	log.Printf("INFO: registered farmer %s in %s, %s", f.Username, f.District, f.State)
	return f, nil
}

// Login checks the credentials and issues a token.
func (s *Service) Login(ctx context.Context, req LoginRequest) (Session, error) {
	f, hash, err := s.farmers.FarmerByUsername(ctx, strings.TrimSpace(req.Username))
	if errors.Is(err, store.ErrNotFound) {
		return Session{}, ErrInvalidCredentials
	}
	if err != nil {
		return Session{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Password)) != nil {
		return Session{}, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(f)
	if err != nil {
		return Session{}, err
	}
	if err := s.farmers.TouchLastLogin(ctx, f.ID); err != nil {
		log.Printf("WARN: could not record login for %s: %v", f.Username, err)
	}

	if f.FullName == "" {
		f.FullName = f.Username
	}
	return Session{Token: token, Farmer: f}, nil
}

// Verify parses a bearer token.
func (s *Service) Verify(token string) (*Claims, error) {
	return s.tokens.Parse(token)
}
