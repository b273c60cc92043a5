package repository

import (
	"context"

	"github.com/shopspring/decimal"
)

// ValuationLine resultado crudo del repositorio para la valorización de un
// material en una obra.
type ValuationLine struct {
	MaterialID   string
	MaterialCode string
	MaterialName string
	Unit         string
	ClosingStock decimal.Decimal
	UnitRate     decimal.Decimal
	ClosingValue decimal.Decimal
}

// ValuationRepository define el puerto de consultas agregadas de valorización
// sobre los saldos materializados (solo lectura).
type ValuationRepository interface {
	// SiteValuation devuelve una línea por material con saldo en la obra,
	// ordenadas por valor descendente, más el total de la obra.
	SiteValuation(ctx context.Context, siteID string) ([]ValuationLine, decimal.Decimal, error)
}
