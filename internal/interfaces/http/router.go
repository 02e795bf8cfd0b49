package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/dcamposl/negocio-api/internal/application/auth"
	appres "github.com/dcamposl/negocio-api/internal/application/reservation"
	"github.com/dcamposl/negocio-api/internal/application/stock"
	"github.com/dcamposl/negocio-api/internal/domain/entity"
	"github.com/dcamposl/negocio-api/internal/domain/repository"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC        *auth.UseCase
	StockSvc      *stock.Service
	ReservationUC *appres.UseCase
	LocationRepo  repository.LocationRepository
	JWTSecret     string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Stock (protegido)
	stockGroup := protected.Group("/stock")
	stockHandler := NewStockHandler(deps.StockSvc)
	stockGroup.Get("/availability", stockHandler.GetAvailability)
	stockGroup.Get("/balances", stockHandler.ListBalances)
	stockGroup.Get("/movements", stockHandler.ListMovements)
	// Solo admin y gerente registran movimientos directos
	stockGroup.Post("/movements",
		RequireRole(entity.RoleAdmin, entity.RoleGerente),
		stockHandler.RegisterMovement)

	// Locations (protegido, solo lectura)
	locations := protected.Group("/locations")
	locationHandler := NewLocationHandler(deps.LocationRepo)
	locations.Get("/", locationHandler.List)
	locations.Get("/:id", locationHandler.GetByID)

	// Reservations (protegido; cualquier rol autenticado puede operar)
	reservations := protected.Group("/reservations")
	reservationHandler := NewReservationHandler(deps.ReservationUC, deps.StockSvc)
	reservations.Post("/", reservationHandler.Create)
	reservations.Get("/", reservationHandler.List)
	reservations.Get("/:id", reservationHandler.GetByID)
	reservations.Get("/:id/events", reservationHandler.ListEvents)
	reservations.Put("/:id", reservationHandler.Update)
	reservations.Post("/:id/return", reservationHandler.Return)
	// Cancelar queda restringido a gerente/admin
	reservations.Post("/:id/cancel",
		RequireRole(entity.RoleAdmin, entity.RoleGerente),
		reservationHandler.Cancel)
}
