package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// BalanceResponse saldo actual de un material en una obra.
type BalanceResponse struct {
	SiteID            string          `json:"site_id"`
	MaterialID        string          `json:"material_id"`
	ClosingStock      decimal.Decimal `json:"closing_stock"`
	ClosingValue      decimal.Decimal `json:"closing_value"`
	UnitRate          decimal.Decimal `json:"unit_rate"`
	LastMovementLabel string          `json:"last_movement_label"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// LedgerEntryResponse fila del stock_ledger.
type LedgerEntryResponse struct {
	ID              string           `json:"id"`
	SiteID          string           `json:"site_id"`
	MaterialID      string           `json:"material_id"`
	DocumentID      string           `json:"document_id"`
	DocumentType    string           `json:"document_type"`
	TransactionDate time.Time        `json:"transaction_date"`
	ReceivedQty     *decimal.Decimal `json:"received_qty,omitempty"`
	IssuedQty       *decimal.Decimal `json:"issued_qty,omitempty"`
	UnitRate        decimal.Decimal  `json:"unit_rate"`
	CreatedAt       time.Time        `json:"created_at"`
	CreatedBy       string           `json:"created_by,omitempty"`
}

// RebuildRequest body para POST /api/inventory/balances/rebuild.
type RebuildRequest struct {
	SiteID     string `json:"site_id"`
	MaterialID string `json:"material_id"`
	Apply      bool   `json:"apply"`
}

// RebuildSnapshot saldo en una respuesta de rebuild.
type RebuildSnapshot struct {
	ClosingStock decimal.Decimal `json:"closing_stock"`
	ClosingValue decimal.Decimal `json:"closing_value"`
	UnitRate     decimal.Decimal `json:"unit_rate"`
}

// RebuildResponse respuesta de la verificación/reconstrucción de un saldo.
type RebuildResponse struct {
	SiteID     string           `json:"site_id"`
	MaterialID string           `json:"material_id"`
	Stored     *RebuildSnapshot `json:"stored,omitempty"`
	Recomputed *RebuildSnapshot `json:"recomputed,omitempty"`
	InSync     bool             `json:"in_sync"`
	Applied    bool             `json:"applied"`
}

// ValuationLineResponse línea de valorización de una obra.
type ValuationLineResponse struct {
	MaterialID   string          `json:"material_id"`
	MaterialCode string          `json:"material_code"`
	MaterialName string          `json:"material_name"`
	Unit         string          `json:"unit"`
	ClosingStock decimal.Decimal `json:"closing_stock"`
	UnitRate     decimal.Decimal `json:"unit_rate"`
	ClosingValue decimal.Decimal `json:"closing_value"`
}

// ValuationResponse valorización de inventario de una obra.
type ValuationResponse struct {
	SiteID     string                  `json:"site_id"`
	TotalValue decimal.Decimal         `json:"total_value"`
	Lines      []ValuationLineResponse `json:"lines"`
}
