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

// ReceiptLine línea de una entrada de material: cantidad y tarifa de compra.
type ReceiptLine struct {
	MaterialID string
	Quantity   decimal.Decimal
	UnitRate   decimal.Decimal
}

// ReceiptInput entrada para registrar una entrada de material o stock inicial.
type ReceiptInput struct {
	SiteID  string
	UserID  string
	Date    time.Time
	Remarks string
	Lines   []ReceiptLine
}

// ReceiptUseCase registra entradas de material: recepciones de proveedor
// (INWARD RECEIPT) y cargas de stock inicial (OPENING STOCK). Ambas son
// movimientos de entrada puros; solo cambia el tipo de documento.
type ReceiptUseCase struct {
	txRunner     TxRunner
	siteRepo     repository.SiteRepository
	materialRepo repository.MaterialRepository
}

// NewReceiptUseCase construye el caso de uso.
func NewReceiptUseCase(txRunner TxRunner, siteRepo repository.SiteRepository, materialRepo repository.MaterialRepository) *ReceiptUseCase {
	return &ReceiptUseCase{txRunner: txRunner, siteRepo: siteRepo, materialRepo: materialRepo}
}

// RegisterInward registra una recepción de proveedor.
func (uc *ReceiptUseCase) RegisterInward(ctx context.Context, input ReceiptInput) (*Result, error) {
	return uc.register(ctx, input, entity.DocTypeInwardReceipt)
}

// RegisterOpening registra una carga de stock inicial.
func (uc *ReceiptUseCase) RegisterOpening(ctx context.Context, input ReceiptInput) (*Result, error) {
	return uc.register(ctx, input, entity.DocTypeOpeningStock)
}

func (uc *ReceiptUseCase) register(ctx context.Context, input ReceiptInput, docType string) (*Result, error) {
	if input.SiteID == "" || len(input.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	materialIDs := make([]string, 0, len(input.Lines))
	for _, l := range input.Lines {
		if l.MaterialID == "" || !l.Quantity.GreaterThan(decimal.Zero) || l.UnitRate.IsNegative() {
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

		code, err := seqRepo.Next(docType)
		if err != nil {
			return err
		}
		doc := &entity.MovementDocument{
			ID:              uuid.New().String(),
			Code:            code,
			DocumentType:    docType,
			SiteID:          input.SiteID,
			TransactionDate: input.Date,
			Remarks:         input.Remarks,
			CreatedAt:       now,
			CreatedBy:       input.UserID,
		}
		if err := docRepo.CreateDocument(doc); err != nil {
			return err
		}

		label := movementLabel(docType, code)
		wb := newWorkingBalances(balanceRepo, input.SiteID)
		total := decimal.Zero

		for _, l := range input.Lines {
			working, err := wb.current(l.MaterialID)
			if err != nil {
				return err
			}
			qty := costing.RoundQty(l.Quantity)
			rate := costing.RoundRate(l.UnitRate)
			next := costing.Receive(working, l.Quantity, l.UnitRate, hasHistory)

			if _, err := ledgerRepo.Append(&entity.LedgerEntry{
				ID:              uuid.New().String(),
				SiteID:          input.SiteID,
				MaterialID:      l.MaterialID,
				DocumentID:      doc.ID,
				DocumentType:    docType,
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

			amount := costing.RoundMoney(qty.Mul(rate))
			if err := docRepo.CreateLine(&entity.MovementLine{
				ID:          uuid.New().String(),
				DocumentID:  doc.ID,
				MaterialID:  l.MaterialID,
				ReceivedQty: qty,
				UnitRate:    rate,
				Amount:      amount,
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
