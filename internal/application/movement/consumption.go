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

// ConsumptionLine línea de un consumo diario: material y cantidad entregada.
type ConsumptionLine struct {
	MaterialID string
	Quantity   decimal.Decimal
}

// ConsumptionInput entrada para registrar un consumo diario.
type ConsumptionInput struct {
	SiteID  string
	UserID  string
	Date    time.Time
	Remarks string
	Lines   []ConsumptionLine
}

// DailyConsumptionUseCase registra consumos diarios de material en obra.
// La validación cubre el request completo antes de escribir: la suma pedida
// por material no puede exceder el stock de cierre; cualquier violación
// rechaza todo el request sin dejar filas en el ledger.
type DailyConsumptionUseCase struct {
	txRunner     TxRunner
	siteRepo     repository.SiteRepository
	materialRepo repository.MaterialRepository
}

// NewDailyConsumptionUseCase construye el caso de uso.
func NewDailyConsumptionUseCase(txRunner TxRunner, siteRepo repository.SiteRepository, materialRepo repository.MaterialRepository) *DailyConsumptionUseCase {
	return &DailyConsumptionUseCase{txRunner: txRunner, siteRepo: siteRepo, materialRepo: materialRepo}
}

// Register valida el consumo, calcula los nuevos saldos con la tarifa promedio
// vigente y confirma ledger + saldos + documento en una transacción.
func (uc *DailyConsumptionUseCase) Register(ctx context.Context, input ConsumptionInput) (*Result, error) {
	if input.SiteID == "" || len(input.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	materialIDs := make([]string, 0, len(input.Lines))
	for _, l := range input.Lines {
		if l.MaterialID == "" || !l.Quantity.GreaterThan(decimal.Zero) {
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
		wb := newWorkingBalances(balanceRepo, input.SiteID)

		// Agregado por material en orden de primera aparición.
		requested := make(map[string]decimal.Decimal)
		var distinct []string
		for _, l := range input.Lines {
			if _, ok := requested[l.MaterialID]; !ok {
				distinct = append(distinct, l.MaterialID)
			}
			requested[l.MaterialID] = requested[l.MaterialID].Add(l.Quantity)
		}

		// Validación previa a cualquier escritura: bloquea los saldos y
		// verifica que lo pedido quepa en el stock de cierre.
		for _, materialID := range distinct {
			snap, err := wb.current(materialID)
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

		code, err := seqRepo.Next(entity.DocTypeDailyConsumption)
		if err != nil {
			return err
		}
		doc := &entity.MovementDocument{
			ID:              uuid.New().String(),
			Code:            code,
			DocumentType:    entity.DocTypeDailyConsumption,
			SiteID:          input.SiteID,
			TransactionDate: input.Date,
			Remarks:         input.Remarks,
			CreatedAt:       now,
			CreatedBy:       input.UserID,
		}
		if err := docRepo.CreateDocument(doc); err != nil {
			return err
		}

		label := movementLabel(entity.DocTypeDailyConsumption, code)
		total := decimal.Zero
		for _, l := range input.Lines {
			snap, err := wb.current(l.MaterialID)
			if err != nil {
				return err
			}
			prior := zeroIfNil(snap)
			// Tarifa de la fila: la del saldo al momento de validar.
			rate := prior.Rate
			qty := costing.RoundQty(l.Quantity)
			next := costing.ConsumptionIssue(prior, l.Quantity)

			if _, err := ledgerRepo.Append(&entity.LedgerEntry{
				ID:              uuid.New().String(),
				SiteID:          input.SiteID,
				MaterialID:      l.MaterialID,
				DocumentID:      doc.ID,
				DocumentType:    entity.DocTypeDailyConsumption,
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
