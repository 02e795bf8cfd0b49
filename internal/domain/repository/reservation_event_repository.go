package repository

import (
	"context"

	"github.com/dcamposl/negocio-api/internal/domain/entity"
)

// ReservationEventRepository define el puerto de la bitácora de eventos de
// reserva (append-only).
type ReservationEventRepository interface {
	Create(ctx context.Context, event *entity.ReservationEvent) error
	ListByReservation(ctx context.Context, reservationID string) ([]*entity.ReservationEvent, error)
}
