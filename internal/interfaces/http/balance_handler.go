package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/obracore/inventario-obras/internal/application/dto"
	"github.com/obracore/inventario-obras/internal/application/movement"
	"github.com/obracore/inventario-obras/internal/domain"
	"github.com/obracore/inventario-obras/internal/domain/costing"
	"github.com/obracore/inventario-obras/internal/domain/repository"
)

// BalanceHandler consultas de saldos y kardex, más la reconstrucción de
// saldos desde el ledger (protegido).
type BalanceHandler struct {
	balanceRepo repository.BalanceRepository
	ledgerRepo  repository.LedgerRepository
	rebuild     *movement.RebuildBalanceUseCase
}

// NewBalanceHandler construye el handler. Los repos van atados al pool.
func NewBalanceHandler(balanceRepo repository.BalanceRepository, ledgerRepo repository.LedgerRepository, rebuild *movement.RebuildBalanceUseCase) *BalanceHandler {
	return &BalanceHandler{balanceRepo: balanceRepo, ledgerRepo: ledgerRepo, rebuild: rebuild}
}

// ListBySite godoc
// @Summary      Saldos de materiales de una obra
// @Tags         balances
// @Security     Bearer
// @Produce      json
// @Param        siteId  path   string  true   "ID de la obra"
// @Param        limit   query  int     false  "Máximo de filas (default 50)"
// @Param        offset  query  int     false  "Desplazamiento"
// @Success      200  {array}   dto.BalanceResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/sites/{siteId}/balances [get]
func (h *BalanceHandler) ListBySite(c *fiber.Ctx) error {
	siteID := c.Params("siteId")
	limit := c.QueryInt("limit", 50)
	offset := c.QueryInt("offset", 0)
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	balances, err := h.balanceRepo.ListBySite(siteID, limit, offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]dto.BalanceResponse, 0, len(balances))
	for _, b := range balances {
		out = append(out, dto.BalanceResponse{
			SiteID:            b.SiteID,
			MaterialID:        b.MaterialID,
			ClosingStock:      b.ClosingStock,
			ClosingValue:      b.ClosingValue,
			UnitRate:          b.UnitRate,
			LastMovementLabel: b.LastMovementLabel,
			UpdatedAt:         b.UpdatedAt,
		})
	}
	return c.JSON(out)
}

// GetBalance godoc
// @Summary      Saldo de un material en una obra
// @Tags         balances
// @Security     Bearer
// @Produce      json
// @Param        siteId      path  string  true  "ID de la obra"
// @Param        materialId  path  string  true  "ID del material"
// @Success      200  {object}  dto.BalanceResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sites/{siteId}/balances/{materialId} [get]
func (h *BalanceHandler) GetBalance(c *fiber.Ctx) error {
	siteID := c.Params("siteId")
	materialID := c.Params("materialId")
	b, err := h.balanceRepo.Get(siteID, materialID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	if b == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "el par obra/material no tiene movimientos"})
	}
	return c.JSON(dto.BalanceResponse{
		SiteID:            b.SiteID,
		MaterialID:        b.MaterialID,
		ClosingStock:      b.ClosingStock,
		ClosingValue:      b.ClosingValue,
		UnitRate:          b.UnitRate,
		LastMovementLabel: b.LastMovementLabel,
		UpdatedAt:         b.UpdatedAt,
	})
}

// ListLedger godoc
// @Summary      Kardex de un material en una obra
// @Description  Filas del ledger del par en orden de commit (paginadas).
// @Tags         balances
// @Security     Bearer
// @Produce      json
// @Param        siteId      path   string  true   "ID de la obra"
// @Param        materialId  path   string  true   "ID del material"
// @Param        limit       query  int     false  "Máximo de filas (default 100)"
// @Param        offset      query  int     false  "Desplazamiento"
// @Success      200  {array}   dto.LedgerEntryResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/sites/{siteId}/ledger/{materialId} [get]
func (h *BalanceHandler) ListLedger(c *fiber.Ctx) error {
	siteID := c.Params("siteId")
	materialID := c.Params("materialId")
	limit := c.QueryInt("limit", 100)
	offset := c.QueryInt("offset", 0)
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	entries, err := h.ledgerRepo.ListByPair(siteID, materialID, limit, offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]dto.LedgerEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.LedgerEntryResponse{
			ID:              e.ID,
			SiteID:          e.SiteID,
			MaterialID:      e.MaterialID,
			DocumentID:      e.DocumentID,
			DocumentType:    e.DocumentType,
			TransactionDate: e.TransactionDate,
			ReceivedQty:     e.ReceivedQty,
			IssuedQty:       e.IssuedQty,
			UnitRate:        e.UnitRate,
			CreatedAt:       e.CreatedAt,
			CreatedBy:       e.CreatedBy,
		})
	}
	return c.JSON(out)
}

// RebuildBalance godoc
// @Summary      Verificar o reconstruir el saldo de un par obra/material
// @Description  Recalcula el saldo reproduciendo el ledger. Con apply=false
//
//	solo compara; con apply=true sobrescribe el saldo almacenado.
//
// @Tags         balances
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RebuildRequest  true  "site_id, material_id, apply"
// @Success      200   {object}  dto.RebuildResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/inventory/balances/rebuild [post]
func (h *BalanceHandler) RebuildBalance(c *fiber.Ctx) error {
	var in dto.RebuildRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	var res *movement.RebuildResult
	var err error
	if in.Apply {
		res, err = h.rebuild.Apply(c.Context(), in.SiteID, in.MaterialID)
	} else {
		res, err = h.rebuild.Verify(c.Context(), in.SiteID, in.MaterialID)
	}
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "site_id y material_id son obligatorios"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(dto.RebuildResponse{
		SiteID:     in.SiteID,
		MaterialID: in.MaterialID,
		Stored:     rebuildSnapshot(res.Stored),
		Recomputed: rebuildSnapshot(res.Recomputed),
		InSync:     res.InSync,
		Applied:    res.Applied,
	})
}

func rebuildSnapshot(s *costing.Snapshot) *dto.RebuildSnapshot {
	if s == nil {
		return nil
	}
	return &dto.RebuildSnapshot{
		ClosingStock: s.Stock,
		ClosingValue: s.Value,
		UnitRate:     s.Rate,
	}
}
