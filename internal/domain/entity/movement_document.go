package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementDocument es el documento padre de un movimiento de inventario
// (consumo diario, ajuste, entrada, traslado o stock inicial).
// Code es el consecutivo legible asignado por el colaborador de numeración.
type MovementDocument struct {
	ID              string
	Code            string
	DocumentType    string
	SiteID          string
	DestSiteID      string // solo OUTWARD TRANSFER: obra destino
	TransactionDate time.Time
	TotalAmount     decimal.Decimal
	Remarks         string
	CreatedAt       time.Time
	CreatedBy       string
}

// MovementLine es una línea de detalle de un MovementDocument.
type MovementLine struct {
	ID          string
	DocumentID  string
	MaterialID  string
	ReceivedQty decimal.Decimal
	IssuedQty   decimal.Decimal
	UnitRate    decimal.Decimal
	Amount      decimal.Decimal
	Remark      string
}
