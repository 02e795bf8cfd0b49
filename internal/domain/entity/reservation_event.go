package entity

import (
	"time"

	"github.com/dcamposl/negocio-api/internal/domain/reservation"
)

// Tipos de evento de reserva.
const (
	EventCREATED       = "CREATED"
	EventRETURNED      = "RETURNED"
	EventCANCELED      = "CANCELED"
	EventSTATUSCHANGED = "STATUS_CHANGED"
)

// ReservationEvent es el registro inmutable de una transición de estado de una
// reserva. Cumple para las reservas el mismo rol de auditoría que
// StockMovement para los saldos: se escribe una vez y nunca se modifica.
type ReservationEvent struct {
	ID            string
	ReservationID string
	EventType     string
	OldStatus     reservation.Status
	NewStatus     reservation.Status
	Notes         string
	CreatedBy     string
	CreatedAt     time.Time
}
