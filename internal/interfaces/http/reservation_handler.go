package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/dcamposl/negocio-api/internal/application/dto"
	appres "github.com/dcamposl/negocio-api/internal/application/reservation"
	"github.com/dcamposl/negocio-api/internal/application/stock"
	"github.com/dcamposl/negocio-api/internal/domain"
	"github.com/dcamposl/negocio-api/internal/domain/entity"
	"github.com/dcamposl/negocio-api/internal/domain/repository"
	"github.com/dcamposl/negocio-api/internal/domain/reservation"
)

// ReservationHandler maneja las peticiones HTTP de reservas (protegido).
type ReservationHandler struct {
	uc       *appres.UseCase
	stockSvc *stock.Service
}

// NewReservationHandler construye el handler.
func NewReservationHandler(uc *appres.UseCase, stockSvc *stock.Service) *ReservationHandler {
	return &ReservationHandler{uc: uc, stockSvc: stockSvc}
}

// Create godoc
// @Summary      Crear una reserva
// @Description  Chequea disponibilidad y crea la reserva en ACTIVE, apartando
//
//	la cantidad en qty_reserved del saldo.
//
// @Tags         reservations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateReservationRequest  true  "product_id, location_id, qty, due_at"
// @Success      201   {object}  dto.ReservationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.AvailabilityResponse
// @Router       /api/reservations [post]
func (h *ReservationHandler) Create(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var req dto.CreateReservationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}

	// Chequeo de disponibilidad antes de crear. No hay lock entre el chequeo
	// y el commit: dos requests simultáneos pueden pasar ambos.
	avail, err := h.stockSvc.CheckAvailability(c.Context(), req.ProductID, req.LocationID, req.Qty)
	if err != nil {
		if err == domain.ErrInvalidInput {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "product_id, location_id y qty > 0 son requeridos"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	if !avail.Available {
		return c.Status(fiber.StatusConflict).JSON(avail)
	}

	res, err := h.uc.Create(c.Context(), appres.CreateInput{
		ProductID:  req.ProductID,
		CustomerID: req.CustomerID,
		LocationID: req.LocationID,
		Qty:        req.Qty,
		DueAt:      req.DueAt,
		Notes:      req.Notes,
		UserID:     userID,
	})
	if err != nil {
		if err == domain.ErrInvalidInput {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
		}
		if err == domain.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "producto o cliente no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(toReservationResponse(res))
}

// List godoc
// @Summary      Listar reservas
// @Tags         reservations
// @Security     Bearer
// @Produce      json
// @Param        status       query  string  false  "ACTIVE, DUE_SOON, OVERDUE, RETURNED, CANCELED"
// @Param        product_id   query  string  false  "filtrar por producto"
// @Param        customer_id  query  string  false  "filtrar por cliente"
// @Param        location_id  query  string  false  "filtrar por sucursal"
// @Param        due_from     query  string  false  "due_at desde (RFC3339)"
// @Param        due_to       query  string  false  "due_at hasta (RFC3339)"
// @Success      200  {object}  map[string]interface{}
// @Router       /api/reservations [get]
func (h *ReservationHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()

	status := reservation.Status(c.Query("status"))
	if status != "" && !status.IsValid() {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "status desconocido"})
	}

	f := repository.ReservationFilter{
		Status:        status,
		ProductID:     c.Query("product_id"),
		CustomerID:    c.Query("customer_id"),
		SalespersonID: c.Query("salesperson_id"),
		LocationID:    c.Query("location_id"),
		Limit:         page.Limit,
		Offset:        page.Offset,
	}
	if from, err := parseTimeQuery(c, "due_from"); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "due_from inválido, usar RFC3339"})
	} else if from != nil {
		f.DueFrom = from
	}
	if to, err := parseTimeQuery(c, "due_to"); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "due_to inválido, usar RFC3339"})
	} else if to != nil {
		f.DueTo = to
	}

	list, total, err := h.uc.List(c.Context(), f)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}

	items := make([]dto.ReservationResponse, 0, len(list))
	for _, r := range list {
		items = append(items, toReservationDetailResponse(r))
	}
	return c.JSON(fiber.Map{
		"reservations": items,
		"page":         dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	})
}

// GetByID godoc
// @Summary      Detalle de una reserva
// @Tags         reservations
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "UUID de la reserva"
// @Success      200  {object}  dto.ReservationResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/reservations/{id} [get]
func (h *ReservationHandler) GetByID(c *fiber.Ctx) error {
	res, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	if res == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "reserva no encontrada"})
	}
	return c.JSON(toReservationDetailResponse(res))
}

// ListEvents godoc
// @Summary      Bitácora de eventos de una reserva
// @Tags         reservations
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "UUID de la reserva"
// @Success      200  {object}  map[string]interface{}
// @Router       /api/reservations/{id}/events [get]
func (h *ReservationHandler) ListEvents(c *fiber.Ctx) error {
	events, err := h.uc.ListEvents(c.Context(), c.Params("id"))
	if err != nil {
		if err == domain.ErrInvalidInput {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id requerido"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	items := make([]dto.ReservationEventResponse, 0, len(events))
	for _, e := range events {
		items = append(items, dto.ReservationEventResponse{
			ID:        e.ID,
			EventType: e.EventType,
			OldStatus: string(e.OldStatus),
			NewStatus: string(e.NewStatus),
			Notes:     e.Notes,
			CreatedBy: e.CreatedBy,
			CreatedAt: e.CreatedAt,
		})
	}
	return c.JSON(fiber.Map{"events": items})
}

// Update godoc
// @Summary      Actualizar fecha límite y/o notas de una reserva
// @Tags         reservations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "UUID de la reserva"
// @Param        body  body  dto.UpdateReservationRequest  true  "due_at y/o notes"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/reservations/{id} [put]
func (h *ReservationHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateReservationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	found, err := h.uc.Update(c.Context(), c.Params("id"), req.DueAt, req.Notes)
	if err != nil {
		if err == domain.ErrInvalidInput {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "nada para actualizar"})
		}
		if err == domain.ErrReservaFinalizada {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "RESERVA_FINALIZADA", Message: err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	if !found {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "reserva no encontrada"})
	}
	return c.JSON(fiber.Map{"message": "reserva actualizada"})
}

// Return godoc
// @Summary      Registrar devolución de una reserva
// @Tags         reservations
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "UUID de la reserva"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reservations/{id}/return [post]
func (h *ReservationHandler) Return(c *fiber.Ctx) error {
	return h.finalize(c, h.uc.Return, "reserva devuelta")
}

// Cancel godoc
// @Summary      Cancelar una reserva
// @Tags         reservations
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "UUID de la reserva"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reservations/{id}/cancel [post]
func (h *ReservationHandler) Cancel(c *fiber.Ctx) error {
	return h.finalize(c, h.uc.Cancel, "reserva cancelada")
}

// finalize ejecuta Return o Cancel con el manejo de errores común.
func (h *ReservationHandler) finalize(c *fiber.Ctx, op func(ctx context.Context, id, actor string) error, okMessage string) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	err := op(c.Context(), c.Params("id"), userID)
	if err != nil {
		if err == domain.ErrInvalidInput {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id requerido"})
		}
		if err == domain.ErrReservaFinalizada {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "RESERVA_FINALIZADA", Message: err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(fiber.Map{"message": okMessage})
}

func toReservationResponse(r *entity.Reservation) dto.ReservationResponse {
	return dto.ReservationResponse{
		ID:            r.ID,
		ProductID:     r.ProductID,
		CustomerID:    r.CustomerID,
		SalespersonID: r.SalespersonID,
		LocationID:    r.LocationID,
		Qty:           r.Qty,
		Status:        string(r.Status),
		DueAt:         r.DueAt,
		Notes:         r.Notes,
		CreatedAt:     r.CreatedAt,
		ReturnedAt:    r.ReturnedAt,
	}
}

func toReservationDetailResponse(r *entity.ReservationDetail) dto.ReservationResponse {
	resp := toReservationResponse(&r.Reservation)
	resp.ProductCode = r.ProductCode
	resp.ProductName = r.ProductName
	resp.CustomerName = r.CustomerName
	resp.SalespersonName = r.SalespersonName
	return resp
}
