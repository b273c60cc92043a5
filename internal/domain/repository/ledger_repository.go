package repository

import "github.com/obracore/inventario-obras/internal/domain/entity"

// LedgerRepository define el puerto de persistencia del stock_ledger.
// Solo admite append y lecturas: las filas son inmutables.
type LedgerRepository interface {
	// Append agrega una fila al ledger y devuelve su ID.
	Append(entry *entity.LedgerEntry) (string, error)

	// ListByPair devuelve las filas del par (obra, material) en orden de
	// commit, paginadas.
	ListByPair(siteID, materialID string, limit, offset int) ([]*entity.LedgerEntry, error)

	// ListAllByPair devuelve el historial completo del par en orden de
	// commit, para replay y auditoría.
	ListAllByPair(siteID, materialID string) ([]*entity.LedgerEntry, error)

	// SiteHasEntries indica si la obra tiene ALGUNA fila en el ledger, sin
	// importar el material. Alimenta el flag de bootstrap, que se evalúa una
	// sola vez por request antes de procesar la primera línea.
	SiteHasEntries(siteID string) (bool, error)
}
