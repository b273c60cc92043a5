// Package movement implementa los casos de uso que originan movimientos de
// inventario: consumo diario, ajuste de stock, entrada, traslado entre obras
// y stock inicial. Cada caso de uso valida el request completo, pide al motor
// de costeo el nuevo saldo y confirma ledger + saldo + documento padre en una
// sola transacción (todo o nada).
package movement

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/obracore/inventario-obras/internal/domain"
	"github.com/obracore/inventario-obras/internal/domain/costing"
	"github.com/obracore/inventario-obras/internal/domain/entity"
	"github.com/obracore/inventario-obras/internal/domain/repository"
)

// Result resultado de un movimiento confirmado.
type Result struct {
	DocumentID  string
	Code        string
	TotalAmount decimal.Decimal
}

// movementLabel arma la etiqueta de auditoría que queda en el saldo.
func movementLabel(docType, code string) string {
	return docType + " " + code
}

// zeroIfNil devuelve el snapshot o un saldo en ceros si el par no existe aún.
func zeroIfNil(s *costing.Snapshot) costing.Snapshot {
	if s == nil {
		return costing.Snapshot{Stock: decimal.Zero, Value: decimal.Zero, Rate: decimal.Zero}
	}
	return *s
}

// resolveRefs valida que la obra y todos los materiales referenciados existan.
// Cualquier referencia rota se reporta como ErrNotFound antes de abrir la tx.
func resolveRefs(siteRepo repository.SiteRepository, materialRepo repository.MaterialRepository, siteID string, materialIDs []string) error {
	site, err := siteRepo.GetByID(siteID)
	if err != nil {
		return err
	}
	if site == nil {
		return domain.ErrNotFound
	}
	seen := make(map[string]bool, len(materialIDs))
	for _, id := range materialIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		mat, err := materialRepo.GetByID(id)
		if err != nil {
			return err
		}
		if mat == nil {
			return domain.ErrNotFound
		}
	}
	return nil
}

// workingBalances cachea los saldos de una obra bloqueados durante una tx.
// El primer acceso a un material hace GetForUpdate; los siguientes devuelven
// el snapshot en curso, de modo que varias líneas del mismo material se
// aplican en secuencia sobre el saldo ya calculado.
type workingBalances struct {
	repo   repository.BalanceRepository
	siteID string
	snaps  map[string]*costing.Snapshot
}

func newWorkingBalances(repo repository.BalanceRepository, siteID string) *workingBalances {
	return &workingBalances{repo: repo, siteID: siteID, snaps: make(map[string]*costing.Snapshot)}
}

// current devuelve el saldo en curso del material, o nil si el par nunca ha
// tenido movimientos.
func (w *workingBalances) current(materialID string) (*costing.Snapshot, error) {
	if s, ok := w.snaps[materialID]; ok {
		return s, nil
	}
	bal, err := w.repo.GetForUpdate(w.siteID, materialID)
	if err != nil {
		return nil, err
	}
	if bal == nil {
		w.snaps[materialID] = nil
		return nil, nil
	}
	s := &costing.Snapshot{Stock: bal.ClosingStock, Value: bal.ClosingValue, Rate: bal.UnitRate}
	w.snaps[materialID] = s
	return s, nil
}

// apply fija el nuevo saldo del material y lo persiste.
func (w *workingBalances) apply(materialID string, s costing.Snapshot, label string, now time.Time) error {
	snap := s
	w.snaps[materialID] = &snap
	return w.repo.Upsert(&entity.MaterialBalance{
		SiteID:            w.siteID,
		MaterialID:        materialID,
		ClosingStock:      s.Stock,
		ClosingValue:      s.Value,
		UnitRate:          s.Rate,
		LastMovementLabel: label,
		UpdatedAt:         now,
	})
}
