package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de documento que originan movimientos en el ledger.
const (
	DocTypeOpeningStock     = "OPENING STOCK"
	DocTypeInwardReceipt    = "INWARD RECEIPT"
	DocTypeOutwardTransfer  = "OUTWARD TRANSFER"
	DocTypeDailyConsumption = "DAILY CONSUMPTION"
	DocTypeStockAdjustment  = "STOCK ADJUSTMENT"
)

// LedgerEntry representa un movimiento de cantidad en el stock_ledger.
// Las filas son inmutables: nunca se editan ni se borran; las correcciones
// son movimientos nuevos. ReceivedQty e IssuedQty son excluyentes por fila:
// una línea de ajuste que recibe y entrega genera dos filas.
type LedgerEntry struct {
	ID              string
	SiteID          string
	MaterialID      string
	DocumentID      string
	DocumentType    string
	TransactionDate time.Time
	ReceivedQty     *decimal.Decimal
	IssuedQty       *decimal.Decimal
	UnitRate        decimal.Decimal // tarifa usada por esta fila
	Seq             int64           // orden de commit dentro del par (obra, material)
	CreatedAt       time.Time
	CreatedBy       string
}
