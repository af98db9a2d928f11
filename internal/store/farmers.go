package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// ErrUsernameTaken is returned when registering a username that exists.
var ErrUsernameTaken = errors.New("username already exists")

// uniqueViolation is the PostgreSQL SQLSTATE for a unique constraint breach.
const uniqueViolation = "23505"

// CreateFarmer inserts a farmer and returns the stored profile.
func (s *PostgresStore) CreateFarmer(ctx context.Context, nf NewFarmer) (Farmer, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var (
		f               Farmer
		district, state sql.NullString
	)
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO farmers (username, password_hash, postal_code, district_id,
		                     district_name, state_name, full_name, phone)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, username, postal_code, district_name, state_name`,
		nf.Username, nf.PasswordHash, nf.PostalCode, nf.DistrictID,
		nullString(nf.District), nullString(nf.State), nullString(nf.FullName), nullString(nf.Phone)).
		Scan(&f.ID, &f.Username, &f.PostalCode, &district, &state)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return Farmer{}, ErrUsernameTaken
		}
		return Farmer{}, fmt.Errorf("insert farmer: %w", err)
	}

	f.DistrictID = nf.DistrictID
	f.District = district.String
	f.State = state.String
	f.FullName = nf.FullName
	f.Phone = nf.Phone
	return f, nil
}

// FarmerByUsername returns the farmer and the stored password hash.
func (s *PostgresStore) FarmerByUsername(ctx context.Context, username string) (Farmer, string, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var (
		f                         Farmer
		hash                      string
		districtID                sql.NullInt64
		district, state, fullName sql.NullString
		phone                     sql.NullString
		lastLogin                 sql.NullTime
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, username, password_hash, postal_code, district_id,
		       district_name, state_name, full_name, phone, last_login
		FROM farmers
		WHERE username = $1`, username).
		Scan(&f.ID, &f.Username, &hash, &f.PostalCode, &districtID,
			&district, &state, &fullName, &phone, &lastLogin)
	if errors.Is(err, sql.ErrNoRows) {
		return Farmer{}, "", ErrNotFound
	}
	if err != nil {
		return Farmer{}, "", fmt.Errorf("query farmer: %w", err)
	}

	if districtID.Valid {
		id := districtID.Int64
		f.DistrictID = &id
	}
	if lastLogin.Valid {
		t := lastLogin.Time
		f.LastLogin = &t
	}
	f.District = district.String
	f.State = state.String
	f.FullName = fullName.String
	f.Phone = phone.String
	return f, hash, nil
}

// TouchLastLogin records a successful login.
func (s *PostgresStore) TouchLastLogin(ctx context.Context, farmerID int64) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if _, err := s.db.ExecContext(ctx, `UPDATE farmers SET last_login = CURRENT_TIMESTAMP WHERE id = $1`, farmerID); err != nil {
		return fmt.Errorf("update last login: %w", err)
	}
	return nil
}

// FindDistrict resolves a district by a case-insensitive partial match on its
// name or state.
func (s *PostgresStore) FindDistrict(ctx context.Context, name, state string) (District, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var d District
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, state_name
		FROM districts
		WHERE name ILIKE $1 OR state_name ILIKE $2
		ORDER BY (name ILIKE $1) DESC, id
		LIMIT 1`, "%"+name+"%", "%"+state+"%").Scan(&d.ID, &d.Name, &d.State)
	if errors.Is(err, sql.ErrNoRows) {
		return District{}, ErrNotFound
	}
	if err != nil {
		return District{}, fmt.Errorf("query district: %w", err)
	}
	return d, nil
}

// SaveRecommendation stores a recommendation document for a farmer and
// returns its id.
func (s *PostgresStore) SaveRecommendation(ctx context.Context, farmerID int64, payload json.RawMessage) (uuid.UUID, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	id := uuid.New()
	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO saved_recommendations (id, farmer_id, payload)
		VALUES ($1, $2, $3)`, id.String(), farmerID, string(payload)); err != nil {
		return uuid.Nil, fmt.Errorf("save recommendation: %w", err)
	}
	return id, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
