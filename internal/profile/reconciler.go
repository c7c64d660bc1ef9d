package profile

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"classfit/internal/metrics"
)

var ErrUnknownTier = errors.New("unknown membership tier")

// Reconciler guarantees that an authenticated account has a profile
// row and, when a tier is known, a membership row. It only ever
// inserts: repeat calls are no-ops.
type Reconciler struct {
	repo Repository
}

func NewReconciler(repo Repository) *Reconciler {
	return &Reconciler{repo: repo}
}

// resolve merges just-submitted form data over metadata stored at
// sign-up. Form fields win; absent fields fall back to metadata, then
// to the zero value.
func resolve(metadata, form *OnboardingForm) OnboardingForm {
	pick := func(formVal, metaVal string) string {
		if formVal != "" {
			return formVal
		}
		return metaVal
	}

	var meta OnboardingForm
	if metadata != nil {
		meta = *metadata
	}
	var f OnboardingForm
	if form != nil {
		f = *form
	}

	goals := f.Goals
	if goals == nil {
		goals = meta.Goals
	}
	if goals == nil {
		goals = []string{}
	}
	if len(goals) > MaxGoals {
		goals = goals[:MaxGoals]
	}

	return OnboardingForm{
		FullName:         pick(f.FullName, meta.FullName),
		Address:          pick(f.Address, meta.Address),
		ContactNumber:    pick(f.ContactNumber, meta.ContactNumber),
		EmergencyContact: pick(f.EmergencyContact, meta.EmergencyContact),
		Goals:            goals,
		Tier:             pick(f.Tier, meta.Tier),
	}
}

// Ensure is idempotent: at most one profile insert and one membership
// insert per call, never an update or delete. Any store error other
// than a missing row aborts the whole operation.
func (rc *Reconciler) Ensure(ctx context.Context, identity Identity, form *OnboardingForm) error {
	resolved := resolve(identity.Metadata, form)

	existing, err := rc.repo.GetProfile(ctx, identity.ID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("onboarding: check profile: %w", err)
	}

	if existing == nil {
		fullName := resolved.FullName
		if fullName == "" {
			fullName = identity.Email
		}

		_, err := rc.repo.InsertProfile(ctx, &Profile{
			UserID:           identity.ID,
			FullName:         fullName,
			Address:          resolved.Address,
			ContactNumber:    resolved.ContactNumber,
			EmergencyContact: resolved.EmergencyContact,
			Goals:            resolved.Goals,
		})
		if err != nil {
			return fmt.Errorf("onboarding: insert profile: %w", err)
		}
		metrics.RecordProfileCreated()
	}

	tier := strings.ToLower(strings.TrimSpace(resolved.Tier))
	if tier == "" {
		return nil
	}
	if !ValidTier(tier) {
		return fmt.Errorf("%w: %q", ErrUnknownTier, tier)
	}

	membership, err := rc.repo.GetMembership(ctx, identity.ID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("onboarding: check membership: %w", err)
	}

	if membership == nil {
		now := time.Now()
		if _, err := rc.repo.InsertMembership(ctx, identity.ID, tier, now, now.AddDate(0, 1, 0)); err != nil {
			return fmt.Errorf("onboarding: insert membership: %w", err)
		}
		metrics.RecordMembershipCreated(tier)
	}

	return nil
}
