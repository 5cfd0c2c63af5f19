package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/24045990CaseyRP/sg-green-plan-server/internal/model"
	"github.com/24045990CaseyRP/sg-green-plan-server/internal/repository"
)

// MaterialInput is the body of POST and PUT /materials.
type MaterialInput struct {
	MaterialName string  `json:"material_name"`
	IconURL      *string `json:"icon_url"`
}

func (in MaterialInput) material() (model.MaterialType, error) {
	name := strings.TrimSpace(in.MaterialName)
	if name == "" {
		return model.MaterialType{}, invalid("Material name is required")
	}
	m := model.MaterialType{MaterialName: name}
	if in.IconURL != nil {
		if icon := strings.TrimSpace(*in.IconURL); icon != "" {
			m.IconURL = &icon
		}
	}
	return m, nil
}

// MaterialService manages recyclable material types.
type MaterialService struct {
	materials MaterialStore
}

func NewMaterialService(materials MaterialStore) *MaterialService {
	return &MaterialService{materials: materials}
}

func (s *MaterialService) List(ctx context.Context) ([]model.MaterialType, error) {
	return s.materials.List(ctx)
}

func (s *MaterialService) Create(ctx context.Context, in MaterialInput) (model.MaterialType, error) {
	m, err := in.material()
	if err != nil {
		return model.MaterialType{}, err
	}
	if err := s.materials.Create(ctx, &m); err != nil {
		return model.MaterialType{}, materialError(err)
	}
	return m, nil
}

func (s *MaterialService) Update(ctx context.Context, id uint64, in MaterialInput) (model.MaterialType, error) {
	m, err := in.material()
	if err != nil {
		return model.MaterialType{}, err
	}
	m.ID = id
	if err := s.materials.Update(ctx, &m); err != nil {
		return model.MaterialType{}, materialError(err)
	}
	return m, nil
}

func (s *MaterialService) Delete(ctx context.Context, id uint64) error {
	return materialError(s.materials.Delete(ctx, id))
}

func materialError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return notFound("Material not found")
	case errors.Is(err, repository.ErrDuplicate):
		return invalid("Material already exists")
	case errors.Is(err, repository.ErrReferenced):
		return conflict("Cannot delete material that is in use")
	}
	return fmt.Errorf("material store: %w", err)
}
