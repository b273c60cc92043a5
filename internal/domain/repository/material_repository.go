package repository

import "github.com/obracore/inventario-obras/internal/domain/entity"

// MaterialRepository define el puerto de persistencia para materiales.
type MaterialRepository interface {
	Create(material *entity.Material) error
	GetByID(id string) (*entity.Material, error)
	List(limit, offset int) ([]*entity.Material, error)
}
