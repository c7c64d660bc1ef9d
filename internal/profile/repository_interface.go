package profile

import (
	"context"
	"time"
)

type Repository interface {
	GetProfile(ctx context.Context, userID int) (*Profile, error)
	InsertProfile(ctx context.Context, p *Profile) (*Profile, error)
	GetMembership(ctx context.Context, userID int) (*Membership, error)
	InsertMembership(ctx context.Context, userID int, tier string, periodStart, periodEnd time.Time) (*Membership, error)
}
