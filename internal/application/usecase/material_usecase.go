package usecase

import (
	"time"

	"github.com/google/uuid"

	"github.com/obracore/inventario-obras/internal/domain"
	"github.com/obracore/inventario-obras/internal/domain/entity"
	"github.com/obracore/inventario-obras/internal/domain/repository"
)

// MaterialUseCase operaciones mínimas del maestro de materiales.
type MaterialUseCase struct {
	repo repository.MaterialRepository
}

// NewMaterialUseCase construye el caso de uso.
func NewMaterialUseCase(repo repository.MaterialRepository) *MaterialUseCase {
	return &MaterialUseCase{repo: repo}
}

// Create registra un material.
func (uc *MaterialUseCase) Create(code, name, unit, category string) (*entity.Material, error) {
	if code == "" || name == "" || unit == "" {
		return nil, domain.ErrInvalidInput
	}
	material := &entity.Material{
		ID:        uuid.New().String(),
		Code:      code,
		Name:      name,
		Unit:      unit,
		Category:  category,
		CreatedAt: time.Now(),
	}
	if err := uc.repo.Create(material); err != nil {
		return nil, err
	}
	return material, nil
}

// GetByID devuelve un material por ID.
func (uc *MaterialUseCase) GetByID(id string) (*entity.Material, error) {
	material, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if material == nil {
		return nil, domain.ErrNotFound
	}
	return material, nil
}

// List lista materiales con paginación.
func (uc *MaterialUseCase) List(limit, offset int) ([]*entity.Material, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return uc.repo.List(limit, offset)
}
