package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/i474232898/soil-health-map/internal/store"
)

// ErrInvalidToken is returned for missing, malformed, expired or forged tokens.
var ErrInvalidToken = errors.New("invalid token")

const issuer = "soil-health-map"

// Claims are the JWT claims issued at login.
type Claims struct {
	FarmerID int64  `json:"farmerId"`
	District string `json:"district,omitempty"`
	State    string `json:"state,omitempty"`
	jwt.RegisteredClaims
}

// Tokens signs and verifies HS256 farmer tokens.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokens creates a token issuer. ttl defaults to 24h.
func NewTokens(secret string, ttl time.Duration) *Tokens {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Tokens{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue creates a signed token for f.
func (t *Tokens) Issue(f store.Farmer) (string, error) {
	now := t.now()
	claims := Claims{
		FarmerID: f.ID,
		District: f.District,
		State:    f.State,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   f.Username,
			Issuer:    issuer,
			ID:        strconv.FormatInt(f.ID, 10) + "-" + strconv.FormatInt(now.UnixNano(), 36),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Parse validates raw and returns its claims.
func (t *Tokens) Parse(raw string) (*Claims, error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(tok *jwt.Token) (interface{}, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil || !tok.Valid {
		return nil, ErrInvalidToken
	}
	if claims.FarmerID == 0 || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
