package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/obracore/inventario-obras/internal/domain/entity"
	"github.com/obracore/inventario-obras/internal/domain/repository"
)

var _ repository.DocumentRepository = (*DocumentRepo)(nil)

// DocumentRepo implementación de DocumentRepository sobre PostgreSQL.
type DocumentRepo struct {
	q Querier
}

// NewDocumentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDocumentRepository(q Querier) *DocumentRepo {
	return &DocumentRepo{q: q}
}

// CreateDocument persiste el encabezado de un movimiento.
func (r *DocumentRepo) CreateDocument(doc *entity.MovementDocument) error {
	if doc.ID == "" {
		doc.ID = uuid.New().String()
	}
	query := `
		INSERT INTO movement_documents (id, code, document_type, site_id, dest_site_id, transaction_date, total_amount, remarks, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	destSiteID := (*string)(nil)
	if doc.DestSiteID != "" {
		destSiteID = &doc.DestSiteID
	}
	createdBy := (*string)(nil)
	if doc.CreatedBy != "" {
		createdBy = &doc.CreatedBy
	}
	_, err := r.q.Exec(context.Background(), query,
		doc.ID, doc.Code, doc.DocumentType, doc.SiteID, destSiteID,
		doc.TransactionDate, doc.TotalAmount, doc.Remarks, doc.CreatedAt, createdBy,
	)
	if err != nil {
		return fmt.Errorf("create movement document: %w", err)
	}
	return nil
}

// CreateLine persiste una línea de detalle.
func (r *DocumentRepo) CreateLine(line *entity.MovementLine) error {
	if line.ID == "" {
		line.ID = uuid.New().String()
	}
	query := `
		INSERT INTO movement_lines (id, document_id, material_id, received_qty, issued_qty, unit_rate, amount, remark)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		line.ID, line.DocumentID, line.MaterialID, line.ReceivedQty, line.IssuedQty,
		line.UnitRate, line.Amount, line.Remark,
	)
	if err != nil {
		return fmt.Errorf("create movement line: %w", err)
	}
	return nil
}

// UpdateTotal fija el monto total del encabezado una vez procesadas las líneas.
func (r *DocumentRepo) UpdateTotal(documentID string, total decimal.Decimal) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE movement_documents SET total_amount = $2 WHERE id = $1`, documentID, total)
	if err != nil {
		return fmt.Errorf("update document total: %w", err)
	}
	return nil
}

// GetByID obtiene un documento con sus líneas. Nil si no existe.
func (r *DocumentRepo) GetByID(id string) (*entity.MovementDocument, []*entity.MovementLine, error) {
	query := `
		SELECT id, code, document_type, site_id, dest_site_id, transaction_date, total_amount, remarks, created_at, created_by
		FROM movement_documents WHERE id = $1`
	var d entity.MovementDocument
	var destSiteID, createdBy *string
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&d.ID, &d.Code, &d.DocumentType, &d.SiteID, &destSiteID,
		&d.TransactionDate, &d.TotalAmount, &d.Remarks, &d.CreatedAt, &createdBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("get movement document: %w", err)
	}
	if destSiteID != nil {
		d.DestSiteID = *destSiteID
	}
	if createdBy != nil {
		d.CreatedBy = *createdBy
	}

	rows, err := r.q.Query(context.Background(), `
		SELECT id, document_id, material_id, received_qty, issued_qty, unit_rate, amount, remark
		FROM movement_lines WHERE document_id = $1 ORDER BY id`, id)
	if err != nil {
		return nil, nil, fmt.Errorf("list movement lines: %w", err)
	}
	defer rows.Close()
	var lines []*entity.MovementLine
	for rows.Next() {
		var l entity.MovementLine
		if err := rows.Scan(&l.ID, &l.DocumentID, &l.MaterialID, &l.ReceivedQty,
			&l.IssuedQty, &l.UnitRate, &l.Amount, &l.Remark); err != nil {
			return nil, nil, fmt.Errorf("scan movement line: %w", err)
		}
		lines = append(lines, &l)
	}
	return &d, lines, rows.Err()
}
