package usecase

import (
	"time"

	"github.com/google/uuid"

	"github.com/obracore/inventario-obras/internal/domain"
	"github.com/obracore/inventario-obras/internal/domain/entity"
	"github.com/obracore/inventario-obras/internal/domain/repository"
)

// SiteUseCase operaciones mínimas del maestro de obras. El CRUD completo vive
// en otro sistema; aquí solo lo necesario para que los movimientos tengan
// referentes resolubles.
type SiteUseCase struct {
	repo repository.SiteRepository
}

// NewSiteUseCase construye el caso de uso.
func NewSiteUseCase(repo repository.SiteRepository) *SiteUseCase {
	return &SiteUseCase{repo: repo}
}

// Create registra una obra.
func (uc *SiteUseCase) Create(code, name, address string) (*entity.Site, error) {
	if code == "" || name == "" {
		return nil, domain.ErrInvalidInput
	}
	site := &entity.Site{
		ID:        uuid.New().String(),
		Code:      code,
		Name:      name,
		Address:   address,
		Active:    true,
		CreatedAt: time.Now(),
	}
	if err := uc.repo.Create(site); err != nil {
		return nil, err
	}
	return site, nil
}

// GetByID devuelve una obra por ID.
func (uc *SiteUseCase) GetByID(id string) (*entity.Site, error) {
	site, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if site == nil {
		return nil, domain.ErrNotFound
	}
	return site, nil
}

// List lista obras con paginación.
func (uc *SiteUseCase) List(limit, offset int) ([]*entity.Site, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return uc.repo.List(limit, offset)
}
