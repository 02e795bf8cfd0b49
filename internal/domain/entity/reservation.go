package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/dcamposl/negocio-api/internal/domain/reservation"
)

// Reservation es un apartado temporal de Qty unidades de un producto en una
// sucursal, a nombre de un cliente (opcional), creado por un vendedor y con
// fecha límite DueAt. Mientras la reserva esté en un estado abierto aporta su
// Qty a qty_reserved del saldo; en estado terminal aporta cero.
// Nunca se borra físicamente.
type Reservation struct {
	ID            string
	ProductID     string
	CustomerID    string // vacío = sin cliente asociado
	SalespersonID string
	LocationID    string
	Qty           decimal.Decimal
	Status        reservation.Status
	DueAt         time.Time
	Notes         string
	CreatedBy     string
	CreatedAt     time.Time
	ReturnedAt    *time.Time
}

// ReservationDetail es la reserva con campos denormalizados para presentación
// (nombre/código de producto, cliente y vendedor). No agrega invariantes.
type ReservationDetail struct {
	Reservation
	ProductCode     string
	ProductName     string
	CustomerName    string
	SalespersonName string
}
