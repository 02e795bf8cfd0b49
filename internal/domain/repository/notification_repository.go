package repository

import (
	"context"
	"time"

	"github.com/dcamposl/negocio-api/internal/domain/entity"
	"github.com/dcamposl/negocio-api/internal/domain/reservation"
)

// NotificationRepository define el puerto del sink de notificaciones y de su
// registro de dedup: a lo sumo una notificación de cada tipo por destinatario,
// por reserva y por día calendario.
type NotificationRepository interface {
	Create(ctx context.Context, n *entity.Notification) error
	WasSentToday(ctx context.Context, reservationID, userID string, kind reservation.NotificationKind, day time.Time) (bool, error)
	LogSent(ctx context.Context, reservationID, userID string, kind reservation.NotificationKind, day time.Time) error
}
