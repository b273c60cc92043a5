package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/obracore/inventario-obras/internal/domain/entity"
	"github.com/obracore/inventario-obras/internal/domain/repository"
)

var _ repository.LedgerRepository = (*LedgerRepo)(nil)

// LedgerRepo implementación de LedgerRepository sobre PostgreSQL.
// La tabla stock_ledger solo recibe INSERT: no hay UPDATE ni DELETE en ninguna
// ruta de código; las correcciones son movimientos nuevos.
type LedgerRepo struct {
	q Querier
}

// NewLedgerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLedgerRepository(q Querier) *LedgerRepo {
	return &LedgerRepo{q: q}
}

const ledgerColumns = `id, site_id, material_id, document_id, document_type, transaction_date,
	received_qty, issued_qty, unit_rate, seq, created_at, created_by`

// Append agrega una fila al ledger y devuelve su ID.
func (r *LedgerRepo) Append(entry *entity.LedgerEntry) (string, error) {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_ledger (id, site_id, material_id, document_id, document_type, transaction_date,
			received_qty, issued_qty, unit_rate, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING seq`
	createdBy := (*string)(nil)
	if entry.CreatedBy != "" {
		createdBy = &entry.CreatedBy
	}
	err := r.q.QueryRow(context.Background(), query,
		entry.ID, entry.SiteID, entry.MaterialID, entry.DocumentID, entry.DocumentType,
		entry.TransactionDate, entry.ReceivedQty, entry.IssuedQty, entry.UnitRate,
		entry.CreatedAt, createdBy,
	).Scan(&entry.Seq)
	if err != nil {
		return "", fmt.Errorf("append ledger entry: %w", err)
	}
	return entry.ID, nil
}

// ListByPair devuelve las filas del par (obra, material) en orden de commit, paginadas.
func (r *LedgerRepo) ListByPair(siteID, materialID string, limit, offset int) ([]*entity.LedgerEntry, error) {
	query := `
		SELECT ` + ledgerColumns + `
		FROM stock_ledger WHERE site_id = $1 AND material_id = $2
		ORDER BY seq LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(context.Background(), query, siteID, materialID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list ledger by pair: %w", err)
	}
	return r.scanEntries(rows)
}

// ListAllByPair devuelve el historial completo del par en orden de commit,
// para replay y auditoría.
func (r *LedgerRepo) ListAllByPair(siteID, materialID string) ([]*entity.LedgerEntry, error) {
	query := `
		SELECT ` + ledgerColumns + `
		FROM stock_ledger WHERE site_id = $1 AND material_id = $2
		ORDER BY seq`
	rows, err := r.q.Query(context.Background(), query, siteID, materialID)
	if err != nil {
		return nil, fmt.Errorf("list ledger history: %w", err)
	}
	return r.scanEntries(rows)
}

// SiteHasEntries indica si la obra tiene alguna fila en el ledger (cualquier
// material). Alimenta el flag de bootstrap del costeo.
func (r *LedgerRepo) SiteHasEntries(siteID string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(context.Background(),
		`SELECT EXISTS(SELECT 1 FROM stock_ledger WHERE site_id = $1)`, siteID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("site has ledger entries: %w", err)
	}
	return exists, nil
}

func (r *LedgerRepo) scanEntries(rows pgx.Rows) ([]*entity.LedgerEntry, error) {
	defer rows.Close()
	var list []*entity.LedgerEntry
	for rows.Next() {
		var e entity.LedgerEntry
		var createdBy *string
		if err := rows.Scan(&e.ID, &e.SiteID, &e.MaterialID, &e.DocumentID, &e.DocumentType,
			&e.TransactionDate, &e.ReceivedQty, &e.IssuedQty, &e.UnitRate, &e.Seq,
			&e.CreatedAt, &createdBy); err != nil {
			return nil, fmt.Errorf("scan ledger entry: %w", err)
		}
		if createdBy != nil {
			e.CreatedBy = *createdBy
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}
