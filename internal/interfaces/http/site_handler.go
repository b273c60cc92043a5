package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/obracore/inventario-obras/internal/application/dto"
	"github.com/obracore/inventario-obras/internal/application/usecase"
	"github.com/obracore/inventario-obras/internal/domain"
	"github.com/obracore/inventario-obras/internal/domain/entity"
)

// SiteHandler maestro de obras (protegido).
type SiteHandler struct {
	uc *usecase.SiteUseCase
}

// NewSiteHandler construye el handler.
func NewSiteHandler(uc *usecase.SiteUseCase) *SiteHandler {
	return &SiteHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar una obra
// @Tags         sites
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSiteRequest  true  "code, name, address"
// @Success      201   {object}  dto.SiteResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/sites [post]
func (h *SiteHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSiteRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	site, err := h.uc.Create(in.Code, in.Name, in.Address)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "code y name son obligatorios"})
		}
		if errors.Is(err, domain.ErrDuplicate) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "ya existe una obra con ese código"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(siteResponse(site))
}

// GetByID godoc
// @Summary      Obtener una obra por ID
// @Tags         sites
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la obra"
// @Success      200  {object}  dto.SiteResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sites/{id} [get]
func (h *SiteHandler) GetByID(c *fiber.Ctx) error {
	site, err := h.uc.GetByID(c.Params("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "obra no encontrada"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(siteResponse(site))
}

// List godoc
// @Summary      Listar obras
// @Tags         sites
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Máximo de filas (default 50)"
// @Param        offset  query  int  false  "Desplazamiento"
// @Success      200  {array}   dto.SiteResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/sites [get]
func (h *SiteHandler) List(c *fiber.Ctx) error {
	sites, err := h.uc.List(c.QueryInt("limit", 50), c.QueryInt("offset", 0))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]dto.SiteResponse, 0, len(sites))
	for _, s := range sites {
		out = append(out, siteResponse(s))
	}
	return c.JSON(out)
}

func siteResponse(s *entity.Site) dto.SiteResponse {
	return dto.SiteResponse{
		ID:        s.ID,
		Code:      s.Code,
		Name:      s.Name,
		Address:   s.Address,
		Active:    s.Active,
		CreatedAt: s.CreatedAt,
	}
}
