package profile

import (
	"time"

	"github.com/lib/pq"
)

const (
	TierBasic   = "basic"
	TierPremium = "premium"
	TierVIP     = "vip"

	StatusActive = "active"

	// MaxGoals caps the goal labels stored on a profile.
	MaxGoals = 5
)

func ValidTier(tier string) bool {
	switch tier {
	case TierBasic, TierPremium, TierVIP:
		return true
	}
	return false
}

// OnboardingForm carries the optional sign-up fields. The identity
// provider's loosely-typed metadata bag is replaced by this struct;
// absent fields stay zero-valued.
type OnboardingForm struct {
	FullName         string   `json:"full_name"`
	Address          string   `json:"address"`
	ContactNumber    string   `json:"contact_number"`
	EmergencyContact string   `json:"emergency_contact"`
	Goals            []string `json:"goals"`
	Tier             string   `json:"tier" binding:"omitempty,membership_tier"`
}

// Identity is the authenticated account the reconciler works on.
// Metadata is whatever form data was stored at sign-up, if any.
type Identity struct {
	ID       int
	Email    string
	Metadata *OnboardingForm
}

type Profile struct {
	UserID           int            `db:"user_id" json:"user_id"`
	FullName         string         `db:"full_name" json:"full_name"`
	Address          string         `db:"address" json:"address"`
	ContactNumber    string         `db:"contact_number" json:"contact_number"`
	EmergencyContact string         `db:"emergency_contact" json:"emergency_contact"`
	Goals            pq.StringArray `db:"goals" json:"goals" swaggertype:"array,string"`
	CreatedAt        time.Time      `db:"created_at" json:"created_at"`
}

type Membership struct {
	ID                 int        `db:"id" json:"id"`
	UserID             int        `db:"user_id" json:"user_id"`
	Tier               string     `db:"tier" json:"tier"`
	Status             string     `db:"status" json:"status"`
	CurrentPeriodStart *time.Time `db:"current_period_start" json:"current_period_start,omitempty"`
	CurrentPeriodEnd   *time.Time `db:"current_period_end" json:"current_period_end,omitempty"`
	CreatedAt          time.Time  `db:"created_at" json:"created_at"`
}

// DashboardResponse is the GET /me payload. A missing profile or
// membership renders as null, not as an error.
type DashboardResponse struct {
	Email      string      `json:"email"`
	Profile    *Profile    `json:"profile"`
	Membership *Membership `json:"membership"`
}
