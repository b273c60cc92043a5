package postgres

import (
	"context"
	"fmt"

	"github.com/obracore/inventario-obras/internal/domain/entity"
	"github.com/obracore/inventario-obras/internal/domain/repository"
)

var _ repository.SequenceRepository = (*SequenceRepo)(nil)

// Prefijos de los consecutivos legibles por tipo de documento.
var sequencePrefixes = map[string]string{
	entity.DocTypeOpeningStock:     "OS",
	entity.DocTypeInwardReceipt:    "IR",
	entity.DocTypeOutwardTransfer:  "OT",
	entity.DocTypeDailyConsumption: "DC",
	entity.DocTypeStockAdjustment:  "SA",
}

// SequenceRepo numeración de documentos sobre PostgreSQL. El contador vive en
// document_sequences y avanza en la misma transacción que crea el documento:
// la fila del contador queda bloqueada hasta el commit, lo que garantiza
// consecutivos sin huecos por tipo.
type SequenceRepo struct {
	q Querier
}

// NewSequenceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSequenceRepository(q Querier) *SequenceRepo {
	return &SequenceRepo{q: q}
}

// Next entrega el siguiente consecutivo legible para el tipo de documento.
func (r *SequenceRepo) Next(documentType string) (string, error) {
	var n int64
	err := r.q.QueryRow(context.Background(), `
		INSERT INTO document_sequences (document_type, next_value)
		VALUES ($1, 1)
		ON CONFLICT (document_type)
		DO UPDATE SET next_value = document_sequences.next_value + 1
		RETURNING next_value`, documentType,
	).Scan(&n)
	if err != nil {
		return "", fmt.Errorf("next document number: %w", err)
	}
	prefix, ok := sequencePrefixes[documentType]
	if !ok {
		prefix = "DOC"
	}
	return fmt.Sprintf("%s-%06d", prefix, n), nil
}
