package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MaterialBalance representa el saldo actual de un material en una obra.
// Es una caché derivada del stock_ledger: se crea con el primer movimiento del
// par (obra, material), se actualiza con cada movimiento posterior y nunca se
// borra. Reproducir el ledger en orden debe regenerarla exactamente.
type MaterialBalance struct {
	SiteID            string
	MaterialID        string
	ClosingStock      decimal.Decimal // cantidad, 4 decimales
	ClosingValue      decimal.Decimal // valor, 2 decimales
	UnitRate          decimal.Decimal // derivado, 4 decimales
	LastMovementLabel string          // etiqueta de auditoría del último movimiento
	UpdatedAt         time.Time
}
