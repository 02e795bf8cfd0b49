package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/dcamposl/negocio-api/internal/application/dto"
	"github.com/dcamposl/negocio-api/internal/application/stock"
	"github.com/dcamposl/negocio-api/internal/domain"
	"github.com/dcamposl/negocio-api/internal/domain/entity"
	"github.com/dcamposl/negocio-api/internal/domain/repository"
)

// StockHandler maneja las peticiones HTTP de saldos y movimientos de stock (protegido).
type StockHandler struct {
	svc *stock.Service
}

// NewStockHandler construye el handler.
func NewStockHandler(svc *stock.Service) *StockHandler {
	return &StockHandler{svc: svc}
}

// GetAvailability godoc
// @Summary      Consultar disponibilidad de un producto en una sucursal
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        product_id   query  string  true  "UUID del producto"
// @Param        location_id  query  string  true  "UUID de la sucursal"
// @Param        qty          query  string  true  "cantidad solicitada"
// @Success      200  {object}  dto.AvailabilityResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stock/availability [get]
func (h *StockHandler) GetAvailability(c *fiber.Ctx) error {
	qty, err := decimal.NewFromString(c.Query("qty"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "qty inválido"})
	}
	resp, err := h.svc.CheckAvailability(c.Context(), c.Query("product_id"), c.Query("location_id"), qty)
	if err != nil {
		if err == domain.ErrInvalidInput {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "product_id, location_id y qty > 0 son requeridos"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(resp)
}

// RegisterMovement godoc
// @Summary      Registrar movimiento de stock
// @Description  ENTRY y ADJUSTMENT suman a qty_on_hand; EXIT resta. Los
//
//	movimientos de reserva no entran por aquí.
//
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterMovementRequest  true  "product_id, location_id, type, qty"
// @Success      201   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/stock/movements [post]
func (h *StockHandler) RegisterMovement(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var req dto.RegisterMovementRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	id, err := h.svc.PostMovement(c.Context(), stock.MovementInput{
		ProductID:  req.ProductID,
		LocationID: req.LocationID,
		Type:       req.Type,
		Qty:        req.Qty,
		RefType:    req.RefType,
		RefID:      req.RefID,
		Notes:      req.Notes,
		UserID:     userID,
	})
	if err != nil {
		if err == domain.ErrInvalidInput {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id, "message": "movimiento registrado"})
}

// ListBalances godoc
// @Summary      Listar saldos de stock
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        product_id   query  string  false  "filtrar por producto"
// @Param        location_id  query  string  false  "filtrar por sucursal"
// @Success      200  {object}  map[string]interface{}
// @Router       /api/stock/balances [get]
func (h *StockHandler) ListBalances(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()

	balances, total, err := h.svc.ListBalances(c.Context(), repository.BalanceFilter{
		ProductID:  c.Query("product_id"),
		LocationID: c.Query("location_id"),
		Limit:      page.Limit,
		Offset:     page.Offset,
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}

	items := make([]dto.BalanceResponse, 0, len(balances))
	for _, b := range balances {
		items = append(items, dto.BalanceResponse{
			ProductID:    b.ProductID,
			LocationID:   b.LocationID,
			QtyOnHand:    b.QtyOnHand,
			QtyReserved:  b.QtyReserved,
			QtyPending:   b.QtyPending,
			QtyAvailable: b.QtyAvailable(),
			UpdatedAt:    b.UpdatedAt,
		})
	}
	return c.JSON(fiber.Map{
		"balances": items,
		"page":     dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	})
}

// ListMovements godoc
// @Summary      Listar movimientos de stock
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        product_id   query  string  false  "filtrar por producto"
// @Param        location_id  query  string  false  "filtrar por sucursal"
// @Param        type         query  string  false  "ENTRY, EXIT, ADJUSTMENT, RESERVE, RESERVE_RETURN"
// @Param        from         query  string  false  "RFC3339"
// @Param        to           query  string  false  "RFC3339"
// @Success      200  {object}  map[string]interface{}
// @Router       /api/stock/movements [get]
func (h *StockHandler) ListMovements(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()

	f := repository.MovementFilter{
		ProductID:  c.Query("product_id"),
		LocationID: c.Query("location_id"),
		Type:       c.Query("type"),
		Limit:      page.Limit,
		Offset:     page.Offset,
	}
	if from, err := parseTimeQuery(c, "from"); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from inválido (RFC3339)"})
	} else if from != nil {
		f.From = from
	}
	if to, err := parseTimeQuery(c, "to"); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to inválido (RFC3339)"})
	} else if to != nil {
		f.To = to
	}

	movements, total, err := h.svc.ListMovements(c.Context(), f)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}

	items := make([]dto.MovementResponse, 0, len(movements))
	for _, m := range movements {
		items = append(items, toMovementResponse(m))
	}
	return c.JSON(fiber.Map{
		"movements": items,
		"page":      dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	})
}

func toMovementResponse(m *entity.StockMovement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:         m.ID,
		ProductID:  m.ProductID,
		LocationID: m.LocationID,
		Type:       m.Type,
		Qty:        m.Qty,
		QtyBefore:  m.QtyBefore,
		QtyAfter:   m.QtyAfter,
		RefType:    m.RefType,
		RefID:      m.RefID,
		Notes:      m.Notes,
		CreatedBy:  m.CreatedBy,
		CreatedAt:  m.CreatedAt,
	}
}

func parseTimeQuery(c *fiber.Ctx, key string) (*time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
