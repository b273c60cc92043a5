package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/obracore/inventario-obras/internal/domain/repository"
)

var _ repository.ValuationRepository = (*ValuationRepo)(nil)

// ValuationRepo consultas de valorización sobre los saldos materializados.
// Solo lectura: opera sobre el pool, nunca dentro de una transacción de movimiento.
type ValuationRepo struct {
	q Querier
}

// NewValuationRepository construye el adaptador.
func NewValuationRepository(q Querier) *ValuationRepo {
	return &ValuationRepo{q: q}
}

// SiteValuation devuelve una línea por material con saldo en la obra, ordenadas
// por valor descendente, más el valor total de la obra.
func (r *ValuationRepo) SiteValuation(ctx context.Context, siteID string) ([]repository.ValuationLine, decimal.Decimal, error) {
	query := `
		SELECT b.material_id, m.code, m.name, m.unit,
		       b.closing_stock, b.unit_rate, b.closing_value
		FROM material_balances b
		JOIN materials m ON m.id = b.material_id
		WHERE b.site_id = $1
		ORDER BY b.closing_value DESC, m.code`
	rows, err := r.q.Query(ctx, query, siteID)
	if err != nil {
		return nil, decimal.Zero, fmt.Errorf("site valuation: %w", err)
	}
	defer rows.Close()

	var lines []repository.ValuationLine
	total := decimal.Zero
	for rows.Next() {
		var l repository.ValuationLine
		if err := rows.Scan(&l.MaterialID, &l.MaterialCode, &l.MaterialName, &l.Unit,
			&l.ClosingStock, &l.UnitRate, &l.ClosingValue); err != nil {
			return nil, decimal.Zero, fmt.Errorf("scan valuation line: %w", err)
		}
		total = total.Add(l.ClosingValue)
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, decimal.Zero, err
	}
	return lines, total, nil
}
