package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/obracore/inventario-obras/internal/application/dto"
	"github.com/obracore/inventario-obras/internal/domain"
	"github.com/obracore/inventario-obras/internal/domain/entity"
	"github.com/obracore/inventario-obras/internal/domain/repository"
)

// ValuationPDFGenerator puerto de salida para la representación imprimible de
// la valorización de una obra.
type ValuationPDFGenerator interface {
	GenerateValuationPDF(ctx context.Context, site *entity.Site, lines []repository.ValuationLine, total decimal.Decimal, asOf time.Time) ([]byte, error)
}

// ValuationUseCase valorización del inventario de una obra a partir de los
// saldos materializados.
type ValuationUseCase struct {
	siteRepo      repository.SiteRepository
	valuationRepo repository.ValuationRepository
	pdfGen        ValuationPDFGenerator
}

// NewValuationUseCase construye el caso de uso.
func NewValuationUseCase(siteRepo repository.SiteRepository, valuationRepo repository.ValuationRepository, pdfGen ValuationPDFGenerator) *ValuationUseCase {
	return &ValuationUseCase{siteRepo: siteRepo, valuationRepo: valuationRepo, pdfGen: pdfGen}
}

// SiteValuation devuelve la valorización de la obra, una línea por material.
func (uc *ValuationUseCase) SiteValuation(ctx context.Context, siteID string) (*dto.ValuationResponse, error) {
	if siteID == "" {
		return nil, domain.ErrInvalidInput
	}
	site, err := uc.siteRepo.GetByID(siteID)
	if err != nil {
		return nil, err
	}
	if site == nil {
		return nil, domain.ErrNotFound
	}
	lines, total, err := uc.valuationRepo.SiteValuation(ctx, siteID)
	if err != nil {
		return nil, err
	}
	resp := &dto.ValuationResponse{
		SiteID:     siteID,
		TotalValue: total,
		Lines:      make([]dto.ValuationLineResponse, 0, len(lines)),
	}
	for _, l := range lines {
		resp.Lines = append(resp.Lines, dto.ValuationLineResponse{
			MaterialID:   l.MaterialID,
			MaterialCode: l.MaterialCode,
			MaterialName: l.MaterialName,
			Unit:         l.Unit,
			ClosingStock: l.ClosingStock,
			UnitRate:     l.UnitRate,
			ClosingValue: l.ClosingValue,
		})
	}
	return resp, nil
}

// SiteValuationPDF genera el reporte PDF de valorización de la obra.
func (uc *ValuationUseCase) SiteValuationPDF(ctx context.Context, siteID string) ([]byte, error) {
	if siteID == "" {
		return nil, domain.ErrInvalidInput
	}
	site, err := uc.siteRepo.GetByID(siteID)
	if err != nil {
		return nil, err
	}
	if site == nil {
		return nil, domain.ErrNotFound
	}
	lines, total, err := uc.valuationRepo.SiteValuation(ctx, siteID)
	if err != nil {
		return nil, err
	}
	return uc.pdfGen.GenerateValuationPDF(ctx, site, lines, total, time.Now())
}
