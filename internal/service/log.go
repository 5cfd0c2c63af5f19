package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/24045990CaseyRP/sg-green-plan-server/internal/auth"
	"github.com/24045990CaseyRP/sg-green-plan-server/internal/authz"
	"github.com/24045990CaseyRP/sg-green-plan-server/internal/model"
	"github.com/24045990CaseyRP/sg-green-plan-server/internal/queue"
	"github.com/24045990CaseyRP/sg-green-plan-server/internal/repository"
)

// RecentLogLimit caps GET /logs.
const RecentLogLimit = 50

// Weight bounds of the weight_kg DECIMAL(10,2) column.  Anything smaller
// would be stored as 0.00, anything larger is out of range.
const (
	MinWeightKg = 0.01
	MaxWeightKg = 99999999.99
)

// LogInput is the body of POST and PUT /logs.  Any user id in the body is
// ignored; the owner is always the authenticated caller.
type LogInput struct {
	PointID    uint64  `json:"point_id"`
	MaterialID uint64  `json:"material_id"`
	WeightKg   float64 `json:"weight_kg"`
}

func (in LogInput) validate() error {
	switch {
	case in.PointID == 0:
		return invalid("Invalid point_id")
	case in.MaterialID == 0:
		return invalid("Invalid material_id")
	case !(in.WeightKg >= MinWeightKg):
		return invalid("weight_kg must be at least 0.01")
	case in.WeightKg > MaxWeightKg:
		return invalid("weight_kg must be at most 99999999.99")
	}
	return nil
}

// LogService manages recycling logs and enforces ownership on writes.
type LogService struct {
	logs   LogStore
	events EventPublisher
	now    func() time.Time
}

// NewLogService returns a service publishing to events.  A nil publisher
// disables activity events.
func NewLogService(logs LogStore, events EventPublisher) *LogService {
	if events == nil {
		events = queue.NopPublisher{}
	}
	return &LogService{logs: logs, events: events, now: time.Now}
}

func (s *LogService) ListRecent(ctx context.Context) ([]model.LogEntry, error) {
	return s.logs.ListRecent(ctx, RecentLogLimit)
}

func (s *LogService) Get(ctx context.Context, id uint64) (model.LogEntry, error) {
	e, err := s.logs.GetEntry(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return model.LogEntry{}, notFound("Log not found")
	}
	return e, err
}

// Create records a log owned by actor.
func (s *LogService) Create(ctx context.Context, actor auth.Identity, in LogInput) (model.RecyclingLog, error) {
	if err := in.validate(); err != nil {
		return model.RecyclingLog{}, err
	}
	l := model.RecyclingLog{PointID: in.PointID, MaterialID: in.MaterialID, WeightKg: in.WeightKg, UserID: actor.ID}
	if err := s.logs.Create(ctx, &l); err != nil {
		return model.RecyclingLog{}, logError(err, "create")
	}
	s.publish(ctx, queue.LogCreated, actor, l)
	return l, nil
}

// Update rewrites log id when actor owns it or is an admin.  The owner
// stays unchanged.
func (s *LogService) Update(ctx context.Context, actor auth.Identity, id uint64, in LogInput) (model.RecyclingLog, error) {
	if err := in.validate(); err != nil {
		return model.RecyclingLog{}, err
	}
	l := model.RecyclingLog{ID: id, PointID: in.PointID, MaterialID: in.MaterialID, WeightKg: in.WeightKg}
	err := s.logs.Update(ctx, &l, func(owner uint64) error { return authz.CanModifyLog(actor, owner) })
	if err != nil {
		return model.RecyclingLog{}, logError(err, "update")
	}
	s.publish(ctx, queue.LogUpdated, actor, l)
	return l, nil
}

// Delete removes log id when actor owns it or is an admin.
func (s *LogService) Delete(ctx context.Context, actor auth.Identity, id uint64) error {
	owner, err := s.logs.Delete(ctx, id, func(owner uint64) error { return authz.CanModifyLog(actor, owner) })
	if err != nil {
		return logError(err, "delete")
	}
	s.publish(ctx, queue.LogDeleted, actor, model.RecyclingLog{ID: id, UserID: owner})
	return nil
}

// publish emits an activity event.  The write has already committed, so a
// broker failure is only logged by the publisher.
func (s *LogService) publish(ctx context.Context, typ string, actor auth.Identity, l model.RecyclingLog) {
	_ = s.events.Publish(ctx, queue.ActivityEvent{
		Type:       typ,
		LogID:      l.ID,
		UserID:     l.UserID,
		Actor:      actor.Username,
		PointID:    l.PointID,
		MaterialID: l.MaterialID,
		WeightKg:   l.WeightKg,
		OccurredAt: s.now().UTC(),
	})
}

func logError(err error, op string) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return notFound("Log not found")
	case errors.Is(err, authz.ErrForbidden):
		return forbidden(fmt.Sprintf("Not authorized to %s this log", op))
	case errors.Is(err, repository.ErrUnknownPoint):
		return invalid("Invalid point_id")
	case errors.Is(err, repository.ErrUnknownMaterial):
		return invalid("Invalid material_id")
	}
	return fmt.Errorf("log store: %w", err)
}
