package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/obracore/inventario-obras/internal/application/movement"
	"github.com/obracore/inventario-obras/internal/domain/repository"
)

var _ movement.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL. Es el
// coordinador de transacciones del motor de inventario: appends al ledger,
// upserts de saldo y documento padre se confirman juntos o no se confirman.
// El aislamiento de la BD más el SELECT FOR UPDATE del saldo serializan los
// ciclos leer-calcular-escribir concurrentes sobre el mismo par.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace
// Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(
	ledgerRepo repository.LedgerRepository,
	balanceRepo repository.BalanceRepository,
	docRepo repository.DocumentRepository,
	seqRepo repository.SequenceRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	ledgerRepo := NewLedgerRepository(tx)
	balanceRepo := NewBalanceRepository(tx)
	docRepo := NewDocumentRepository(tx)
	seqRepo := NewSequenceRepository(tx)

	if err := fn(ledgerRepo, balanceRepo, docRepo, seqRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
