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

// AdjustmentLine línea de un ajuste de stock. Una misma línea puede recibir y
// entregar a la vez; en ese caso genera dos filas en el ledger y la salida se
// aplica sobre el saldo posterior a la entrada.
type AdjustmentLine struct {
	MaterialID  string
	ReceivedQty decimal.Decimal
	IssuedQty   decimal.Decimal
	UnitRate    decimal.Decimal
	Amount      decimal.Decimal
	Remark      string
}

// AdjustmentInput entrada para registrar un ajuste de stock.
type AdjustmentInput struct {
	SiteID  string
	UserID  string
	Date    time.Time
	Remarks string
	Lines   []AdjustmentLine
}

// StockAdjustmentUseCase registra correcciones manuales de inventario.
// A diferencia del consumo diario, el stock resultante puede quedar negativo:
// el ajuste es la herramienta de corrección y expone el resultado tal cual.
type StockAdjustmentUseCase struct {
	txRunner     TxRunner
	siteRepo     repository.SiteRepository
	materialRepo repository.MaterialRepository
}

// NewStockAdjustmentUseCase construye el caso de uso.
func NewStockAdjustmentUseCase(txRunner TxRunner, siteRepo repository.SiteRepository, materialRepo repository.MaterialRepository) *StockAdjustmentUseCase {
	return &StockAdjustmentUseCase{txRunner: txRunner, siteRepo: siteRepo, materialRepo: materialRepo}
}

// Register valida el ajuste y lo aplica línea a línea en una transacción.
// El flag de bootstrap (¿tiene la obra filas en el ledger?) se calcula UNA
// sola vez antes de la primera línea; es el comportamiento histórico por obra
// y se conserva aunque dentro del mismo request una línea posterior del mismo
// material vuelva a inicializar el saldo.
func (uc *StockAdjustmentUseCase) Register(ctx context.Context, input AdjustmentInput) (*Result, error) {
	if input.SiteID == "" || len(input.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	materialIDs := make([]string, 0, len(input.Lines))
	for _, l := range input.Lines {
		if l.MaterialID == "" || l.ReceivedQty.IsNegative() || l.IssuedQty.IsNegative() || l.UnitRate.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		if l.ReceivedQty.IsZero() && l.IssuedQty.IsZero() {
			return nil, domain.ErrInvalidInput
		}
		materialIDs = append(materialIDs, l.MaterialID)
	}
	if err := resolveRefs(uc.siteRepo, uc.materialRepo, input.SiteID, materialIDs); err != nil {
		return nil, err
	}

	var res *Result
	err := uc.txRunner.Run(ctx, func(
		ledgerRepo repository.LedgerRepository,
		balanceRepo repository.BalanceRepository,
		docRepo repository.DocumentRepository,
		seqRepo repository.SequenceRepository,
	) error {
		now := time.Now()

		// Flag de bootstrap: una vez por request, a nivel de obra.
		hasHistory, err := ledgerRepo.SiteHasEntries(input.SiteID)
		if err != nil {
			return err
		}

		code, err := seqRepo.Next(entity.DocTypeStockAdjustment)
		if err != nil {
			return err
		}
		doc := &entity.MovementDocument{
			ID:              uuid.New().String(),
			Code:            code,
			DocumentType:    entity.DocTypeStockAdjustment,
			SiteID:          input.SiteID,
			TransactionDate: input.Date,
			Remarks:         input.Remarks,
			CreatedAt:       now,
			CreatedBy:       input.UserID,
		}
		if err := docRepo.CreateDocument(doc); err != nil {
			return err
		}

		label := movementLabel(entity.DocTypeStockAdjustment, code)
		wb := newWorkingBalances(balanceRepo, input.SiteID)
		total := decimal.Zero

		for _, l := range input.Lines {
			working, err := wb.current(l.MaterialID)
			if err != nil {
				return err
			}
			rate := costing.RoundRate(l.UnitRate)

			if l.ReceivedQty.IsPositive() {
				qty := costing.RoundQty(l.ReceivedQty)
				next := costing.Receive(working, l.ReceivedQty, l.UnitRate, hasHistory)
				if _, err := ledgerRepo.Append(&entity.LedgerEntry{
					ID:              uuid.New().String(),
					SiteID:          input.SiteID,
					MaterialID:      l.MaterialID,
					DocumentID:      doc.ID,
					DocumentType:    entity.DocTypeStockAdjustment,
					TransactionDate: input.Date,
					ReceivedQty:     &qty,
					UnitRate:        rate,
					CreatedAt:       now,
					CreatedBy:       input.UserID,
				}); err != nil {
					return err
				}
				if err := wb.apply(l.MaterialID, next, label, now); err != nil {
					return err
				}
				working = &next
			}

			if l.IssuedQty.IsPositive() {
				qty := costing.RoundQty(l.IssuedQty)
				next := costing.AdjustmentIssue(zeroIfNil(working), l.IssuedQty, l.UnitRate)
				if _, err := ledgerRepo.Append(&entity.LedgerEntry{
					ID:              uuid.New().String(),
					SiteID:          input.SiteID,
					MaterialID:      l.MaterialID,
					DocumentID:      doc.ID,
					DocumentType:    entity.DocTypeStockAdjustment,
					TransactionDate: input.Date,
					IssuedQty:       &qty,
					UnitRate:        rate,
					CreatedAt:       now,
					CreatedBy:       input.UserID,
				}); err != nil {
					return err
				}
				if err := wb.apply(l.MaterialID, next, label, now); err != nil {
					return err
				}
			}

			amount := costing.RoundMoney(l.Amount)
			if err := docRepo.CreateLine(&entity.MovementLine{
				ID:          uuid.New().String(),
				DocumentID:  doc.ID,
				MaterialID:  l.MaterialID,
				ReceivedQty: costing.RoundQty(l.ReceivedQty),
				IssuedQty:   costing.RoundQty(l.IssuedQty),
				UnitRate:    rate,
				Amount:      amount,
				Remark:      l.Remark,
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
