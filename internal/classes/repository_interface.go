package classes

import "context"

type Repository interface {
	ListClassTypes(ctx context.Context) ([]ClassInfo, error)
	ListSchedules(ctx context.Context, f Filter) ([]Schedule, error)
	GetScheduleByID(ctx context.Context, id int) (*Schedule, error)
}
