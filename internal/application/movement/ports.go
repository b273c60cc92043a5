package movement

import (
	"context"

	"github.com/obracore/inventario-obras/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Un movimiento completo (appends al ledger,
// upserts de saldo y documento padre) se confirma o se revierte como unidad;
// el traslado entre obras toca los saldos de ambas obras en la MISMA tx.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		ledgerRepo repository.LedgerRepository,
		balanceRepo repository.BalanceRepository,
		docRepo repository.DocumentRepository,
		seqRepo repository.SequenceRepository,
	) error) error
}
