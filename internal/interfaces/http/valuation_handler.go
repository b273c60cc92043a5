package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/obracore/inventario-obras/internal/application/dto"
	"github.com/obracore/inventario-obras/internal/application/usecase"
	"github.com/obracore/inventario-obras/internal/domain"
)

// ValuationHandler valorización del inventario por obra (protegido).
type ValuationHandler struct {
	uc *usecase.ValuationUseCase
}

// NewValuationHandler construye el handler.
func NewValuationHandler(uc *usecase.ValuationUseCase) *ValuationHandler {
	return &ValuationHandler{uc: uc}
}

// SiteValuation godoc
// @Summary      Valorización del inventario de una obra
// @Tags         valuation
// @Security     Bearer
// @Produce      json
// @Param        siteId  path  string  true  "ID de la obra"
// @Success      200  {object}  dto.ValuationResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sites/{siteId}/valuation [get]
func (h *ValuationHandler) SiteValuation(c *fiber.Ctx) error {
	res, err := h.uc.SiteValuation(c.Context(), c.Params("siteId"))
	if err != nil {
		return valuationError(c, err)
	}
	return c.JSON(res)
}

// SiteValuationPDF godoc
// @Summary      Reporte PDF de valorización de una obra
// @Tags         valuation
// @Security     Bearer
// @Produce      application/pdf
// @Param        siteId  path  string  true  "ID de la obra"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sites/{siteId}/valuation/pdf [get]
func (h *ValuationHandler) SiteValuationPDF(c *fiber.Ctx) error {
	data, err := h.uc.SiteValuationPDF(c.Context(), c.Params("siteId"))
	if err != nil {
		return valuationError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="valorizacion.pdf"`)
	return c.Send(data)
}

func valuationError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "obra no encontrada"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
