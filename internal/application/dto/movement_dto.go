package dto

import "github.com/shopspring/decimal"

// ConsumptionLineRequest línea de consumo diario.
type ConsumptionLineRequest struct {
	MaterialID string          `json:"material_id"`
	Quantity   decimal.Decimal `json:"quantity"`
}

// RegisterConsumptionRequest body para POST /api/inventory/consumptions.
type RegisterConsumptionRequest struct {
	SiteID  string                   `json:"site_id"`
	Date    string                   `json:"date"` // YYYY-MM-DD
	Remarks string                   `json:"remarks,omitempty"`
	Lines   []ConsumptionLineRequest `json:"lines"`
}

// AdjustmentLineRequest línea de ajuste: puede recibir, entregar o ambas.
type AdjustmentLineRequest struct {
	MaterialID  string          `json:"material_id"`
	ReceivedQty decimal.Decimal `json:"received_qty"`
	IssuedQty   decimal.Decimal `json:"issued_qty"`
	UnitRate    decimal.Decimal `json:"unit_rate"`
	Amount      decimal.Decimal `json:"amount"`
	Remark      string          `json:"remark,omitempty"`
}

// RegisterAdjustmentRequest body para POST /api/inventory/adjustments.
type RegisterAdjustmentRequest struct {
	SiteID  string                  `json:"site_id"`
	Date    string                  `json:"date"`
	Remarks string                  `json:"remarks,omitempty"`
	Lines   []AdjustmentLineRequest `json:"lines"`
}

// ReceiptLineRequest línea de entrada de material o stock inicial.
type ReceiptLineRequest struct {
	MaterialID string          `json:"material_id"`
	Quantity   decimal.Decimal `json:"quantity"`
	UnitRate   decimal.Decimal `json:"unit_rate"`
}

// RegisterReceiptRequest body para POST /api/inventory/receipts y
// /api/inventory/opening-stocks.
type RegisterReceiptRequest struct {
	SiteID  string               `json:"site_id"`
	Date    string               `json:"date"`
	Remarks string               `json:"remarks,omitempty"`
	Lines   []ReceiptLineRequest `json:"lines"`
}

// TransferLineRequest línea de traslado entre obras.
type TransferLineRequest struct {
	MaterialID string          `json:"material_id"`
	Quantity   decimal.Decimal `json:"quantity"`
}

// RegisterTransferRequest body para POST /api/inventory/transfers.
type RegisterTransferRequest struct {
	SourceSiteID string                `json:"source_site_id"`
	DestSiteID   string                `json:"dest_site_id"`
	Date         string                `json:"date"`
	Remarks      string                `json:"remarks,omitempty"`
	Lines        []TransferLineRequest `json:"lines"`
}

// MovementResponse respuesta de un movimiento confirmado.
type MovementResponse struct {
	DocumentID  string          `json:"document_id"`
	Code        string          `json:"code"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}
