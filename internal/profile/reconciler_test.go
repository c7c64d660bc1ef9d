package profile

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockRepo struct{ mock.Mock }

func (m *MockRepo) GetProfile(ctx context.Context, userID int) (*Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Profile), args.Error(1)
}

func (m *MockRepo) InsertProfile(ctx context.Context, p *Profile) (*Profile, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Profile), args.Error(1)
}

func (m *MockRepo) GetMembership(ctx context.Context, userID int) (*Membership, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Membership), args.Error(1)
}

func (m *MockRepo) InsertMembership(ctx context.Context, userID int, tier string, periodStart, periodEnd time.Time) (*Membership, error) {
	args := m.Called(ctx, userID, tier, periodStart, periodEnd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Membership), args.Error(1)
}

func identity(id int, email string, meta *OnboardingForm) Identity {
	return Identity{ID: id, Email: email, Metadata: meta}
}

func TestEnsureCreatesProfileAndMembership(t *testing.T) {
	repo := new(MockRepo)
	rc := NewReconciler(repo)

	form := &OnboardingForm{
		FullName: "Jane Doe",
		Address:  "1 Main St",
		Goals:    []string{"strength", "cardio"},
		Tier:     "Premium",
	}

	repo.On("GetProfile", mock.Anything, 1).Return(nil, ErrNotFound)
	repo.On("InsertProfile", mock.Anything, mock.MatchedBy(func(p *Profile) bool {
		return p.UserID == 1 && p.FullName == "Jane Doe" && len(p.Goals) == 2
	})).Return(&Profile{UserID: 1}, nil)
	repo.On("GetMembership", mock.Anything, 1).Return(nil, ErrNotFound)
	repo.On("InsertMembership", mock.Anything, 1, "premium", mock.Anything, mock.Anything).
		Return(&Membership{ID: 5, UserID: 1, Tier: "premium", Status: "active"}, nil)

	err := rc.Ensure(context.Background(), identity(1, "jane@example.com", nil), form)
	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestEnsureIsIdempotent(t *testing.T) {
	repo := new(MockRepo)
	rc := NewReconciler(repo)

	// both rows already exist: no insert calls at all
	repo.On("GetProfile", mock.Anything, 1).Return(&Profile{UserID: 1, FullName: "Jane"}, nil)
	repo.On("GetMembership", mock.Anything, 1).Return(&Membership{ID: 5, UserID: 1, Tier: "basic"}, nil)

	form := &OnboardingForm{FullName: "Changed Name", Tier: "basic"}
	err := rc.Ensure(context.Background(), identity(1, "jane@example.com", nil), form)
	assert.NoError(t, err)

	// second call behaves identically
	err = rc.Ensure(context.Background(), identity(1, "jane@example.com", nil), form)
	assert.NoError(t, err)

	repo.AssertNotCalled(t, "InsertProfile", mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "InsertMembership", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestEnsureNameFallsBackToEmail(t *testing.T) {
	repo := new(MockRepo)
	rc := NewReconciler(repo)

	repo.On("GetProfile", mock.Anything, 2).Return(nil, ErrNotFound)
	repo.On("InsertProfile", mock.Anything, mock.MatchedBy(func(p *Profile) bool {
		return p.FullName == "noname@example.com"
	})).Return(&Profile{UserID: 2}, nil)

	err := rc.Ensure(context.Background(), identity(2, "noname@example.com", nil), nil)
	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestEnsureSkipsMembershipWithoutTier(t *testing.T) {
	repo := new(MockRepo)
	rc := NewReconciler(repo)

	repo.On("GetProfile", mock.Anything, 3).Return(&Profile{UserID: 3}, nil)

	err := rc.Ensure(context.Background(), identity(3, "m@example.com", nil), &OnboardingForm{})
	assert.NoError(t, err)

	repo.AssertNotCalled(t, "GetMembership", mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "InsertMembership", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestEnsureLowercasesTier(t *testing.T) {
	repo := new(MockRepo)
	rc := NewReconciler(repo)

	repo.On("GetProfile", mock.Anything, 4).Return(&Profile{UserID: 4}, nil)
	repo.On("GetMembership", mock.Anything, 4).Return(nil, ErrNotFound)
	repo.On("InsertMembership", mock.Anything, 4, "vip", mock.Anything, mock.Anything).
		Return(&Membership{ID: 9, UserID: 4, Tier: "vip"}, nil)

	err := rc.Ensure(context.Background(), identity(4, "v@example.com", nil), &OnboardingForm{Tier: "VIP"})
	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestEnsureRejectsUnknownTier(t *testing.T) {
	repo := new(MockRepo)
	rc := NewReconciler(repo)

	repo.On("GetProfile", mock.Anything, 5).Return(&Profile{UserID: 5}, nil)

	err := rc.Ensure(context.Background(), identity(5, "x@example.com", nil), &OnboardingForm{Tier: "platinum"})
	assert.ErrorIs(t, err, ErrUnknownTier)
}

func TestEnsurePropagatesUnexpectedStoreError(t *testing.T) {
	repo := new(MockRepo)
	rc := NewReconciler(repo)

	boom := errors.New("connection reset")
	repo.On("GetProfile", mock.Anything, 6).Return(nil, boom)

	err := rc.Ensure(context.Background(), identity(6, "e@example.com", nil), nil)
	assert.ErrorIs(t, err, boom)
	repo.AssertNotCalled(t, "InsertProfile", mock.Anything, mock.Anything)
}

func TestResolvePrecedence(t *testing.T) {
	meta := &OnboardingForm{FullName: "Meta Name", Address: "Meta Rd", Tier: "basic"}
	form := &OnboardingForm{FullName: "Form Name"}

	resolved := resolve(meta, form)
	assert.Equal(t, "Form Name", resolved.FullName)
	assert.Equal(t, "Meta Rd", resolved.Address)
	assert.Equal(t, "basic", resolved.Tier)
	assert.Empty(t, resolved.Goals)
}

func TestResolveCapsGoals(t *testing.T) {
	form := &OnboardingForm{Goals: []string{"a", "b", "c", "d", "e", "f", "g"}}
	resolved := resolve(nil, form)
	assert.Len(t, resolved.Goals, MaxGoals)
}
