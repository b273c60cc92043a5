package repository

import "github.com/obracore/inventario-obras/internal/domain/entity"

// SiteRepository define el puerto de persistencia para obras.
type SiteRepository interface {
	Create(site *entity.Site) error
	GetByID(id string) (*entity.Site, error)
	List(limit, offset int) ([]*entity.Site, error)
}
