package http

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/obracore/inventario-obras/internal/application/dto"
	"github.com/obracore/inventario-obras/internal/application/movement"
	"github.com/obracore/inventario-obras/internal/domain"
)

// MovementHandler maneja las peticiones HTTP de movimientos de inventario (protegido).
type MovementHandler struct {
	consumption *movement.DailyConsumptionUseCase
	adjustment  *movement.StockAdjustmentUseCase
	receipt     *movement.ReceiptUseCase
	transfer    *movement.OutwardTransferUseCase
}

// NewMovementHandler construye el handler.
func NewMovementHandler(
	consumption *movement.DailyConsumptionUseCase,
	adjustment *movement.StockAdjustmentUseCase,
	receipt *movement.ReceiptUseCase,
	transfer *movement.OutwardTransferUseCase,
) *MovementHandler {
	return &MovementHandler{
		consumption: consumption,
		adjustment:  adjustment,
		receipt:     receipt,
		transfer:    transfer,
	}
}

// RegisterConsumption godoc
// @Summary      Registrar consumo diario de materiales
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterConsumptionRequest  true  "site_id, date (YYYY-MM-DD), lines [{material_id, quantity}]"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/consumptions [post]
func (h *MovementHandler) RegisterConsumption(c *fiber.Ctx) error {
	var in dto.RegisterConsumptionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	date, err := parseDate(in.Date)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "fecha inválida, formato YYYY-MM-DD"})
	}
	input := movement.ConsumptionInput{
		SiteID:  in.SiteID,
		UserID:  GetUserID(c),
		Date:    date,
		Remarks: in.Remarks,
	}
	for _, l := range in.Lines {
		input.Lines = append(input.Lines, movement.ConsumptionLine{MaterialID: l.MaterialID, Quantity: l.Quantity})
	}
	res, err := h.consumption.Register(c.Context(), input)
	if err != nil {
		return movementError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(movementResponse(res))
}

// RegisterAdjustment godoc
// @Summary      Registrar ajuste de stock
// @Description  Corrección manual: cada línea puede recibir, entregar o ambas.
//
//	La salida de ajuste no está limitada por el stock; el saldo puede
//	quedar negativo.
//
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterAdjustmentRequest  true  "site_id, date, lines [{material_id, received_qty, issued_qty, unit_rate, amount}]"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory/adjustments [post]
func (h *MovementHandler) RegisterAdjustment(c *fiber.Ctx) error {
	var in dto.RegisterAdjustmentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	date, err := parseDate(in.Date)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "fecha inválida, formato YYYY-MM-DD"})
	}
	input := movement.AdjustmentInput{
		SiteID:  in.SiteID,
		UserID:  GetUserID(c),
		Date:    date,
		Remarks: in.Remarks,
	}
	for _, l := range in.Lines {
		input.Lines = append(input.Lines, movement.AdjustmentLine{
			MaterialID:  l.MaterialID,
			ReceivedQty: l.ReceivedQty,
			IssuedQty:   l.IssuedQty,
			UnitRate:    l.UnitRate,
			Amount:      l.Amount,
			Remark:      l.Remark,
		})
	}
	res, err := h.adjustment.Register(c.Context(), input)
	if err != nil {
		return movementError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(movementResponse(res))
}

// RegisterReceipt godoc
// @Summary      Registrar entrada de material (recepción de proveedor)
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterReceiptRequest  true  "site_id, date, lines [{material_id, quantity, unit_rate}]"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory/receipts [post]
func (h *MovementHandler) RegisterReceipt(c *fiber.Ctx) error {
	return h.registerReceipt(c, h.receipt.RegisterInward)
}

// RegisterOpeningStock godoc
// @Summary      Cargar stock inicial de una obra
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterReceiptRequest  true  "site_id, date, lines [{material_id, quantity, unit_rate}]"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory/opening-stocks [post]
func (h *MovementHandler) RegisterOpeningStock(c *fiber.Ctx) error {
	return h.registerReceipt(c, h.receipt.RegisterOpening)
}

func (h *MovementHandler) registerReceipt(c *fiber.Ctx, register func(ctx context.Context, input movement.ReceiptInput) (*movement.Result, error)) error {
	var in dto.RegisterReceiptRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	date, err := parseDate(in.Date)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "fecha inválida, formato YYYY-MM-DD"})
	}
	input := movement.ReceiptInput{
		SiteID:  in.SiteID,
		UserID:  GetUserID(c),
		Date:    date,
		Remarks: in.Remarks,
	}
	for _, l := range in.Lines {
		input.Lines = append(input.Lines, movement.ReceiptLine{MaterialID: l.MaterialID, Quantity: l.Quantity, UnitRate: l.UnitRate})
	}
	res, err := register(c.Context(), input)
	if err != nil {
		return movementError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(movementResponse(res))
}

// RegisterTransfer godoc
// @Summary      Registrar traslado de material entre obras
// @Description  Salida en la obra origen y entrada en la obra destino a la
//
//	misma tarifa promedio, confirmadas en una sola transacción.
//
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterTransferRequest  true  "source_site_id, dest_site_id, date, lines [{material_id, quantity}]"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/transfers [post]
func (h *MovementHandler) RegisterTransfer(c *fiber.Ctx) error {
	var in dto.RegisterTransferRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	date, err := parseDate(in.Date)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "fecha inválida, formato YYYY-MM-DD"})
	}
	input := movement.TransferInput{
		SourceSiteID: in.SourceSiteID,
		DestSiteID:   in.DestSiteID,
		UserID:       GetUserID(c),
		Date:         date,
		Remarks:      in.Remarks,
	}
	for _, l := range in.Lines {
		input.Lines = append(input.Lines, movement.TransferLine{MaterialID: l.MaterialID, Quantity: l.Quantity})
	}
	res, err := h.transfer.Register(c.Context(), input)
	if err != nil {
		return movementError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(movementResponse(res))
}

// ── helpers ───────────────────────────────────────────────────────────────────

func parseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}

func movementResponse(res *movement.Result) dto.MovementResponse {
	return dto.MovementResponse{
		DocumentID:  res.DocumentID,
		Code:        res.Code,
		TotalAmount: res.TotalAmount,
	}
}

// movementError traduce errores de dominio a códigos HTTP.
func movementError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "obra o material no encontrado"})
	case errors.Is(err, domain.ErrInsufficientStock):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "stock insuficiente"})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: "conflicto de concurrencia"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
