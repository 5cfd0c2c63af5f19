package service

import (
	"context"

	"github.com/24045990CaseyRP/sg-green-plan-server/internal/model"
	"github.com/24045990CaseyRP/sg-green-plan-server/internal/queue"
	"github.com/24045990CaseyRP/sg-green-plan-server/internal/repository"
)

// The store interfaces below are implemented by the MySQL repositories and
// by in-memory fakes in tests.  They report outcomes with the repository
// sentinels (repository.ErrNotFound and friends).

type UserStore interface {
	Create(ctx context.Context, u *model.User) error
	GetByUsername(ctx context.Context, username string) (model.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
}

type PointStore interface {
	List(ctx context.Context) ([]model.DropOffPoint, error)
	Create(ctx context.Context, p *model.DropOffPoint, materialIDs []uint64) error
	Update(ctx context.Context, p *model.DropOffPoint, materialIDs []uint64, replaceMaterials bool) error
	Delete(ctx context.Context, id uint64) error
}

type MaterialStore interface {
	List(ctx context.Context) ([]model.MaterialType, error)
	Create(ctx context.Context, m *model.MaterialType) error
	Update(ctx context.Context, m *model.MaterialType) error
	Delete(ctx context.Context, id uint64) error
}

// LogStore runs the existence check, the authorize callback and the write of
// Update and Delete in one transaction.
type LogStore interface {
	ListRecent(ctx context.Context, limit int) ([]model.LogEntry, error)
	GetEntry(ctx context.Context, id uint64) (model.LogEntry, error)
	Create(ctx context.Context, l *model.RecyclingLog) error
	Update(ctx context.Context, l *model.RecyclingLog, authorize repository.Authorizer) error
	Delete(ctx context.Context, id uint64, authorize repository.Authorizer) (uint64, error)
}

// EventPublisher receives activity events after a successful log mutation.
type EventPublisher interface {
	Publish(ctx context.Context, ev queue.ActivityEvent) error
}
