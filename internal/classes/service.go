package classes

import "context"

type Service interface {
	ListClassTypes(ctx context.Context) ([]ClassInfo, error)
	ListSchedules(ctx context.Context, q ScheduleQuery) ([]Schedule, error)
	GetScheduleByID(ctx context.Context, id int) (*Schedule, error)
	InvalidateSchedules(ctx context.Context)
}

type service struct {
	repo  Repository
	cache ScheduleCache
}

func NewService(repo Repository, cache ScheduleCache) Service {
	if cache == nil {
		cache = NewNoopCache()
	}
	return &service{repo: repo, cache: cache}
}

func (s *service) ListClassTypes(ctx context.Context) ([]ClassInfo, error) {
	return s.repo.ListClassTypes(ctx)
}

func (s *service) ListSchedules(ctx context.Context, q ScheduleQuery) ([]Schedule, error) {
	f, err := q.Normalize()
	if err != nil {
		return nil, err
	}

	if cached, ok := s.cache.Get(ctx, f); ok {
		return cached, nil
	}

	schedules, err := s.repo.ListSchedules(ctx, f)
	if err != nil {
		return nil, err
	}

	s.cache.Set(ctx, f, schedules)
	return schedules, nil
}

func (s *service) GetScheduleByID(ctx context.Context, id int) (*Schedule, error) {
	return s.repo.GetScheduleByID(ctx, id)
}

func (s *service) InvalidateSchedules(ctx context.Context) {
	s.cache.Invalidate(ctx)
}
