package repository

import "github.com/obracore/inventario-obras/internal/domain/entity"

// BalanceRepository define el puerto de persistencia para los saldos por
// (obra, material). Solo la ruta de costeo escribe en él; el resto del código
// únicamente lee.
type BalanceRepository interface {
	// Get devuelve el saldo del par o nil si nunca ha tenido movimientos.
	Get(siteID, materialID string) (*entity.MaterialBalance, error)

	// GetForUpdate devuelve el saldo bloqueando la fila (SELECT FOR UPDATE)
	// para serializar el ciclo leer-calcular-escribir. Nil si no existe.
	GetForUpdate(siteID, materialID string) (*entity.MaterialBalance, error)

	// Upsert inserta o reemplaza el saldo del par.
	Upsert(balance *entity.MaterialBalance) error

	// ListBySite lista los saldos de una obra.
	ListBySite(siteID string, limit, offset int) ([]*entity.MaterialBalance, error)
}
