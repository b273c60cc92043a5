package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/obracore/inventario-obras/internal/domain/entity"
	"github.com/obracore/inventario-obras/internal/domain/repository"
)

var _ repository.BalanceRepository = (*BalanceRepo)(nil)

// BalanceRepo implementación de BalanceRepository sobre PostgreSQL (usable con pool o tx).
type BalanceRepo struct {
	q Querier
}

// NewBalanceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBalanceRepository(q Querier) *BalanceRepo {
	return &BalanceRepo{q: q}
}

const balanceColumns = `site_id, material_id, closing_stock, closing_value, unit_rate, last_movement_label, updated_at`

// Get devuelve el saldo del par o nil si nunca ha tenido movimientos.
func (r *BalanceRepo) Get(siteID, materialID string) (*entity.MaterialBalance, error) {
	query := `
		SELECT ` + balanceColumns + `
		FROM material_balances WHERE site_id = $1 AND material_id = $2`
	return r.scanOne(query, siteID, materialID)
}

// GetForUpdate devuelve el saldo bloqueando la fila (SELECT FOR UPDATE) para
// serializar el ciclo leer-calcular-escribir. Nil si el par no existe aún.
func (r *BalanceRepo) GetForUpdate(siteID, materialID string) (*entity.MaterialBalance, error) {
	query := `
		SELECT ` + balanceColumns + `
		FROM material_balances WHERE site_id = $1 AND material_id = $2
		FOR UPDATE`
	return r.scanOne(query, siteID, materialID)
}

func (r *BalanceRepo) scanOne(query, siteID, materialID string) (*entity.MaterialBalance, error) {
	var b entity.MaterialBalance
	err := r.q.QueryRow(context.Background(), query, siteID, materialID).Scan(
		&b.SiteID, &b.MaterialID, &b.ClosingStock, &b.ClosingValue, &b.UnitRate,
		&b.LastMovementLabel, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get balance: %w", err)
	}
	return &b, nil
}

// Upsert inserta o reemplaza el saldo del par.
func (r *BalanceRepo) Upsert(balance *entity.MaterialBalance) error {
	query := `
		INSERT INTO material_balances (site_id, material_id, closing_stock, closing_value, unit_rate, last_movement_label, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())
		ON CONFLICT (site_id, material_id)
		DO UPDATE SET closing_stock = EXCLUDED.closing_stock,
		              closing_value = EXCLUDED.closing_value,
		              unit_rate = EXCLUDED.unit_rate,
		              last_movement_label = EXCLUDED.last_movement_label,
		              updated_at = now()`
	_, err := r.q.Exec(context.Background(), query,
		balance.SiteID, balance.MaterialID, balance.ClosingStock, balance.ClosingValue,
		balance.UnitRate, balance.LastMovementLabel,
	)
	if err != nil {
		return fmt.Errorf("upsert balance: %w", err)
	}
	return nil
}

// ListBySite lista los saldos de una obra.
func (r *BalanceRepo) ListBySite(siteID string, limit, offset int) ([]*entity.MaterialBalance, error) {
	query := `
		SELECT ` + balanceColumns + `
		FROM material_balances WHERE site_id = $1
		ORDER BY material_id LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, siteID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list balances by site: %w", err)
	}
	defer rows.Close()
	var list []*entity.MaterialBalance
	for rows.Next() {
		var b entity.MaterialBalance
		if err := rows.Scan(&b.SiteID, &b.MaterialID, &b.ClosingStock, &b.ClosingValue,
			&b.UnitRate, &b.LastMovementLabel, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan balance: %w", err)
		}
		list = append(list, &b)
	}
	return list, rows.Err()
}
