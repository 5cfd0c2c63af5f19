package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/24045990CaseyRP/sg-green-plan-server/internal/model"
	"github.com/24045990CaseyRP/sg-green-plan-server/internal/repository"
)

// PointInput is the body of POST and PUT /points.  Materials is a pointer
// so that an omitted field (keep associations) can be told apart from an
// empty list (clear them).
type PointInput struct {
	Name       string    `json:"name"`
	Address    string    `json:"address"`
	PostalCode string    `json:"postal_code"`
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	Status     string    `json:"status"`
	Materials  *[]uint64 `json:"materials"`
}

func (in PointInput) validate() error {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Address) == "" {
		return invalid("Name and address are required")
	}
	if in.Latitude < -90 || in.Latitude > 90 {
		return invalid("Latitude must be between -90 and 90")
	}
	if in.Longitude < -180 || in.Longitude > 180 {
		return invalid("Longitude must be between -180 and 180")
	}
	return nil
}

func (in PointInput) point() model.DropOffPoint {
	return model.DropOffPoint{
		Name:       strings.TrimSpace(in.Name),
		Address:    strings.TrimSpace(in.Address),
		PostalCode: strings.TrimSpace(in.PostalCode),
		Latitude:   in.Latitude,
		Longitude:  in.Longitude,
		Status:     strings.TrimSpace(in.Status),
	}
}

// materialIDs returns the de-duplicated ids in first-seen order and whether
// the field was present at all.
func (in PointInput) materialIDs() ([]uint64, bool) {
	if in.Materials == nil {
		return nil, false
	}
	seen := make(map[uint64]bool, len(*in.Materials))
	out := make([]uint64, 0, len(*in.Materials))
	for _, id := range *in.Materials {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out, true
}

// PointService manages drop-off points.  Role checks happen at the route.
type PointService struct {
	points PointStore
}

func NewPointService(points PointStore) *PointService { return &PointService{points: points} }

func (s *PointService) List(ctx context.Context) ([]model.DropOffPoint, error) {
	return s.points.List(ctx)
}

// Create stores a new point and its material associations.
func (s *PointService) Create(ctx context.Context, in PointInput) (model.DropOffPoint, error) {
	if err := in.validate(); err != nil {
		return model.DropOffPoint{}, err
	}
	p := in.point()
	if p.Status == "" {
		p.Status = model.DefaultPointStatus
	}
	ids, _ := in.materialIDs()
	if err := s.points.Create(ctx, &p, ids); err != nil {
		return model.DropOffPoint{}, pointError(err)
	}
	return p, nil
}

// Update overwrites point id.  When in.Materials is present the association
// set is replaced in the same transaction.
func (s *PointService) Update(ctx context.Context, id uint64, in PointInput) (model.DropOffPoint, error) {
	if err := in.validate(); err != nil {
		return model.DropOffPoint{}, err
	}
	p := in.point()
	p.ID = id
	ids, replace := in.materialIDs()
	if err := s.points.Update(ctx, &p, ids, replace); err != nil {
		return model.DropOffPoint{}, pointError(err)
	}
	return p, nil
}

func (s *PointService) Delete(ctx context.Context, id uint64) error {
	return pointError(s.points.Delete(ctx, id))
}

func pointError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return notFound("Point not found")
	case errors.Is(err, repository.ErrUnknownMaterial):
		return invalid("Invalid material id")
	case errors.Is(err, repository.ErrReferenced):
		return conflict("Cannot delete point that has recycling logs")
	}
	return fmt.Errorf("point store: %w", err)
}
