package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/dcamposl/negocio-api/internal/application/dto"
	"github.com/dcamposl/negocio-api/internal/domain/repository"
)

// LocationHandler lectura de sucursales (protegido). Solo lectura: el alta de
// sucursales se administra fuera de esta API.
type LocationHandler struct {
	repo repository.LocationRepository
}

// NewLocationHandler construye el handler.
func NewLocationHandler(repo repository.LocationRepository) *LocationHandler {
	return &LocationHandler{repo: repo}
}

// List godoc
// @Summary      Listar sucursales
// @Tags         locations
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /api/locations [get]
func (h *LocationHandler) List(c *fiber.Ctx) error {
	locations, err := h.repo.List(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	items := make([]dto.LocationResponse, 0, len(locations))
	for _, l := range locations {
		items = append(items, dto.LocationResponse{ID: l.ID, Name: l.Name, CreatedAt: l.CreatedAt})
	}
	return c.JSON(fiber.Map{"locations": items})
}

// GetByID godoc
// @Summary      Detalle de una sucursal
// @Tags         locations
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "UUID de la sucursal"
// @Success      200  {object}  dto.LocationResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/locations/{id} [get]
func (h *LocationHandler) GetByID(c *fiber.Ctx) error {
	l, err := h.repo.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	if l == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "sucursal no encontrada"})
	}
	return c.JSON(dto.LocationResponse{ID: l.ID, Name: l.Name, CreatedAt: l.CreatedAt})
}
