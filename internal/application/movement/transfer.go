package movement

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/obracore/inventario-obras/internal/domain"
	"github.com/obracore/inventario-obras/internal/domain/costing"
	"github.com/obracore/inventario-obras/internal/domain/entity"
	"github.com/obracore/inventario-obras/internal/domain/repository"
)

// TransferLine línea de un traslado: material y cantidad a mover.
type TransferLine struct {
	MaterialID string
	Quantity   decimal.Decimal
}

// TransferInput entrada para registrar un traslado entre obras.
type TransferInput struct {
	SourceSiteID string
	DestSiteID   string
	UserID       string
	Date         time.Time
	Remarks      string
	Lines        []TransferLine
}

// OutwardTransferUseCase registra traslados de material entre obras. Es el
// único movimiento que toca saldos de dos obras: la salida en origen y la
// entrada en destino se confirman en la MISMA transacción; si cualquiera de
// los dos lados falla la validación, ninguno se aplica.
type OutwardTransferUseCase struct {
	txRunner     TxRunner
	siteRepo     repository.SiteRepository
	materialRepo repository.MaterialRepository
}

// NewOutwardTransferUseCase construye el caso de uso.
func NewOutwardTransferUseCase(txRunner TxRunner, siteRepo repository.SiteRepository, materialRepo repository.MaterialRepository) *OutwardTransferUseCase {
	return &OutwardTransferUseCase{txRunner: txRunner, siteRepo: siteRepo, materialRepo: materialRepo}
}

// Register valida el traslado completo contra el stock de la obra origen y lo
// aplica: salida a tarifa promedio en origen, entrada a esa misma tarifa en
// destino (con el flag de bootstrap propio de la obra destino).
func (uc *OutwardTransferUseCase) Register(ctx context.Context, input TransferInput) (*Result, error) {
	if input.SourceSiteID == "" || input.DestSiteID == "" || len(input.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	if input.SourceSiteID == input.DestSiteID {
		return nil, domain.ErrInvalidInput
	}
	materialIDs := make([]string, 0, len(input.Lines))
	for _, l := range input.Lines {
		if l.MaterialID == "" || !l.Quantity.GreaterThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		materialIDs = append(materialIDs, l.MaterialID)
	}
	if err := resolveRefs(uc.siteRepo, uc.materialRepo, input.SourceSiteID, materialIDs); err != nil {
		return nil, err
	}
	if dest, err := uc.siteRepo.GetByID(input.DestSiteID); err != nil {
		return nil, err
	} else if dest == nil {
		return nil, domain.ErrNotFound
	}

	var res *Result
	err := uc.txRunner.Run(ctx, func(
		ledgerRepo repository.LedgerRepository,
		balanceRepo repository.BalanceRepository,
		docRepo repository.DocumentRepository,
		seqRepo repository.SequenceRepository,
	) error {
		now := time.Now()

		// Flag de bootstrap de la obra DESTINO, una vez por request.
		destHasHistory, err := ledgerRepo.SiteHasEntries(input.DestSiteID)
		if err != nil {
			return err
		}

		src := newWorkingBalances(balanceRepo, input.SourceSiteID)
		dst := newWorkingBalances(balanceRepo, input.DestSiteID)

		// Validación previa a cualquier escritura: el agregado por material
		// debe caber en el stock de cierre de la obra origen.
		requested := make(map[string]decimal.Decimal)
		var distinct []string
		for _, l := range input.Lines {
			if _, ok := requested[l.MaterialID]; !ok {
				distinct = append(distinct, l.MaterialID)
			}
			requested[l.MaterialID] = requested[l.MaterialID].Add(l.Quantity)
		}
		for _, materialID := range distinct {
			snap, err := src.current(materialID)
			if err != nil {
				return err
			}
			stock := decimal.Zero
			if snap != nil {
				stock = snap.Stock
			}
			if requested[materialID].GreaterThan(stock) {
				return domain.ErrInsufficientStock
			}
		}

		code, err := seqRepo.Next(entity.DocTypeOutwardTransfer)
		if err != nil {
			return err
		}
		doc := &entity.MovementDocument{
			ID:              uuid.New().String(),
			Code:            code,
			DocumentType:    entity.DocTypeOutwardTransfer,
			SiteID:          input.SourceSiteID,
			DestSiteID:      input.DestSiteID,
			TransactionDate: input.Date,
			Remarks:         input.Remarks,
			CreatedAt:       now,
			CreatedBy:       input.UserID,
		}
		if err := docRepo.CreateDocument(doc); err != nil {
			return err
		}

		label := movementLabel(entity.DocTypeOutwardTransfer, code)
		total := decimal.Zero

		for _, l := range input.Lines {
			snap, err := src.current(l.MaterialID)
			if err != nil {
				return err
			}
			prior := zeroIfNil(snap)
			rate := prior.Rate
			qty := costing.RoundQty(l.Quantity)

			// Salida en origen a la tarifa promedio vigente.
			nextSrc := costing.ConsumptionIssue(prior, l.Quantity)
			if _, err := ledgerRepo.Append(&entity.LedgerEntry{
				ID:              uuid.New().String(),
				SiteID:          input.SourceSiteID,
				MaterialID:      l.MaterialID,
				DocumentID:      doc.ID,
				DocumentType:    entity.DocTypeOutwardTransfer,
				TransactionDate: input.Date,
				IssuedQty:       &qty,
				UnitRate:        rate,
				CreatedAt:       now,
				CreatedBy:       input.UserID,
			}); err != nil {
				return err
			}
			if err := src.apply(l.MaterialID, nextSrc, label, now); err != nil {
				return err
			}

			// Entrada en destino a la misma tarifa.
			dsnap, err := dst.current(l.MaterialID)
			if err != nil {
				return err
			}
			nextDst := costing.Receive(dsnap, l.Quantity, rate, destHasHistory)
			if _, err := ledgerRepo.Append(&entity.LedgerEntry{
				ID:              uuid.New().String(),
				SiteID:          input.DestSiteID,
				MaterialID:      l.MaterialID,
				DocumentID:      doc.ID,
				DocumentType:    entity.DocTypeOutwardTransfer,
				TransactionDate: input.Date,
				ReceivedQty:     &qty,
				UnitRate:        rate,
				CreatedAt:       now,
				CreatedBy:       input.UserID,
			}); err != nil {
				return err
			}
			if err := dst.apply(l.MaterialID, nextDst, label, now); err != nil {
				return err
			}

			amount := costing.RoundMoney(qty.Mul(rate))
			if err := docRepo.CreateLine(&entity.MovementLine{
				ID:         uuid.New().String(),
				DocumentID: doc.ID,
				MaterialID: l.MaterialID,
				IssuedQty:  qty,
				UnitRate:   rate,
				Amount:     amount,
			}); err != nil {
				return err
			}
			total = total.Add(amount)
		}

		total = costing.RoundMoney(total)
		if err := docRepo.UpdateTotal(doc.ID, total); err != nil {
			return err
		}
		res = &Result{DocumentID: doc.ID, Code: code, TotalAmount: total}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}
