package profile

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// ErrNotFound maps the store's "no matching row" condition. Callers
// must treat it as an empty result, not a failure.
var ErrNotFound = errors.New("row not found")

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetProfile(ctx context.Context, userID int) (*Profile, error) {
	query := `
		SELECT user_id, full_name, address, contact_number, emergency_contact, goals, created_at
		FROM profiles
		WHERE user_id = $1
	`

	var p Profile
	err := r.db.GetContext(ctx, &p, query, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &p, nil
}

func (r *repository) InsertProfile(ctx context.Context, p *Profile) (*Profile, error) {
	query := `
		INSERT INTO profiles (user_id, full_name, address, contact_number, emergency_contact, goals)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING user_id, full_name, address, contact_number, emergency_contact, goals, created_at
	`

	goals := p.Goals
	if goals == nil {
		goals = pq.StringArray{}
	}

	var created Profile
	err := r.db.GetContext(ctx, &created, query,
		p.UserID, p.FullName, p.Address, p.ContactNumber, p.EmergencyContact, goals)
	if err != nil {
		return nil, err
	}

	return &created, nil
}

func (r *repository) GetMembership(ctx context.Context, userID int) (*Membership, error) {
	query := `
		SELECT id, user_id, tier, status, current_period_start, current_period_end, created_at
		FROM memberships
		WHERE user_id = $1
	`

	var m Membership
	err := r.db.GetContext(ctx, &m, query, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &m, nil
}

func (r *repository) InsertMembership(ctx context.Context, userID int, tier string, periodStart, periodEnd time.Time) (*Membership, error) {
	query := `
		INSERT INTO memberships (user_id, tier, status, current_period_start, current_period_end)
		VALUES ($1, $2, 'active', $3, $4)
		RETURNING id, user_id, tier, status, current_period_start, current_period_end, created_at
	`

	var m Membership
	err := r.db.GetContext(ctx, &m, query, userID, tier, periodStart, periodEnd)
	if err != nil {
		return nil, err
	}

	return &m, nil
}
