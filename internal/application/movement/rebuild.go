package movement

import (
	"context"
	"time"

	"github.com/obracore/inventario-obras/internal/domain"
	"github.com/obracore/inventario-obras/internal/domain/costing"
	"github.com/obracore/inventario-obras/internal/domain/entity"
	"github.com/obracore/inventario-obras/internal/domain/repository"
)

// Etiqueta de auditoría para saldos regenerados desde el ledger.
const rebuildLabel = "LEDGER REBUILD"

// RebuildResult compara el saldo almacenado contra el recalculado desde el
// ledger. Ambos pueden ser nil cuando el par nunca ha tenido movimientos.
type RebuildResult struct {
	Stored     *costing.Snapshot
	Recomputed *costing.Snapshot
	InSync     bool
	Applied    bool
}

// RebuildBalanceUseCase regenera el saldo de un par (obra, material)
// reproduciendo su historial del ledger a través del motor de costeo. El
// saldo es una caché derivada: ante una sospecha de corrupción este caso de
// uso la audita (verify) o la reconstruye (apply).
type RebuildBalanceUseCase struct {
	txRunner    TxRunner
	ledgerRepo  repository.LedgerRepository
	balanceRepo repository.BalanceRepository
}

// NewRebuildBalanceUseCase construye el caso de uso. ledgerRepo y balanceRepo
// van atados al pool (solo lectura); las escrituras pasan por el txRunner.
func NewRebuildBalanceUseCase(txRunner TxRunner, ledgerRepo repository.LedgerRepository, balanceRepo repository.BalanceRepository) *RebuildBalanceUseCase {
	return &RebuildBalanceUseCase{txRunner: txRunner, ledgerRepo: ledgerRepo, balanceRepo: balanceRepo}
}

// Verify recalcula el saldo desde el ledger y lo compara con el almacenado,
// sin escribir nada.
func (uc *RebuildBalanceUseCase) Verify(ctx context.Context, siteID, materialID string) (*RebuildResult, error) {
	if siteID == "" || materialID == "" {
		return nil, domain.ErrInvalidInput
	}
	entries, err := uc.ledgerRepo.ListAllByPair(siteID, materialID)
	if err != nil {
		return nil, err
	}
	bal, err := uc.balanceRepo.Get(siteID, materialID)
	if err != nil {
		return nil, err
	}
	res := &RebuildResult{Recomputed: costing.Replay(entries)}
	if bal != nil {
		res.Stored = &costing.Snapshot{Stock: bal.ClosingStock, Value: bal.ClosingValue, Rate: bal.UnitRate}
	}
	res.InSync = snapshotsEqual(res.Stored, res.Recomputed)
	return res, nil
}

// Apply regenera el saldo desde el ledger y lo persiste, bloqueando la fila
// del saldo mientras reproduce el historial para que ningún movimiento
// concurrente se cuele entre la lectura y la escritura.
func (uc *RebuildBalanceUseCase) Apply(ctx context.Context, siteID, materialID string) (*RebuildResult, error) {
	if siteID == "" || materialID == "" {
		return nil, domain.ErrInvalidInput
	}
	var res *RebuildResult
	err := uc.txRunner.Run(ctx, func(
		ledgerRepo repository.LedgerRepository,
		balanceRepo repository.BalanceRepository,
		_ repository.DocumentRepository,
		_ repository.SequenceRepository,
	) error {
		bal, err := balanceRepo.GetForUpdate(siteID, materialID)
		if err != nil {
			return err
		}
		entries, err := ledgerRepo.ListAllByPair(siteID, materialID)
		if err != nil {
			return err
		}
		res = &RebuildResult{Recomputed: costing.Replay(entries)}
		if bal != nil {
			res.Stored = &costing.Snapshot{Stock: bal.ClosingStock, Value: bal.ClosingValue, Rate: bal.UnitRate}
		}
		res.InSync = snapshotsEqual(res.Stored, res.Recomputed)
		if res.Recomputed == nil {
			// Sin historial no hay nada que reconstruir: el saldo, si existe,
			// se deja intacto.
			return nil
		}
		if err := balanceRepo.Upsert(&entity.MaterialBalance{
			SiteID:            siteID,
			MaterialID:        materialID,
			ClosingStock:      res.Recomputed.Stock,
			ClosingValue:      res.Recomputed.Value,
			UnitRate:          res.Recomputed.Rate,
			LastMovementLabel: rebuildLabel,
			UpdatedAt:         time.Now(),
		}); err != nil {
			return err
		}
		res.Applied = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func snapshotsEqual(a, b *costing.Snapshot) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Stock.Equal(b.Stock) && a.Value.Equal(b.Value) && a.Rate.Equal(b.Rate)
}
