package repository

import (
	"github.com/shopspring/decimal"

	"github.com/obracore/inventario-obras/internal/domain/entity"
)

// DocumentRepository define el puerto de persistencia para los documentos
// padre de movimientos y sus líneas de detalle.
type DocumentRepository interface {
	CreateDocument(doc *entity.MovementDocument) error
	CreateLine(line *entity.MovementLine) error

	// UpdateTotal fija el monto total del encabezado una vez procesadas las líneas.
	UpdateTotal(documentID string, total decimal.Decimal) error

	GetByID(id string) (*entity.MovementDocument, []*entity.MovementLine, error)
}
