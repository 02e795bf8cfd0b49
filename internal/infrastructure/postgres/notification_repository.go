package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dcamposl/negocio-api/internal/domain/entity"
	"github.com/dcamposl/negocio-api/internal/domain/repository"
	"github.com/dcamposl/negocio-api/internal/domain/reservation"
)

var _ repository.NotificationRepository = (*NotificationRepo)(nil)

// NotificationRepo implementación del sink de notificaciones y su dedup log
// sobre PostgreSQL.
type NotificationRepo struct {
	q Querier
}

// NewNotificationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewNotificationRepository(q Querier) *NotificationRepo {
	return &NotificationRepo{q: q}
}

// Create persiste una notificación para un usuario.
func (r *NotificationRepo) Create(ctx context.Context, n *entity.Notification) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	query := `
		INSERT INTO notifications (id, user_id, type, title, message, metadata, read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, false, $7)`
	_, err := r.q.Exec(ctx, query,
		n.ID, n.UserID, n.Type, n.Title, n.Message, n.Metadata, n.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create notification: %w", err)
	}
	return nil
}

// WasSentToday consulta el dedup log: true si ya se envió esa notificación a
// ese usuario por esa reserva en el día calendario indicado.
func (r *NotificationRepo) WasSentToday(ctx context.Context, reservationID, userID string, kind reservation.NotificationKind, day time.Time) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM notification_sent_log
			WHERE reservation_id = $1 AND user_id = $2 AND notification_type = $3 AND sent_date = $4
		)`
	var exists bool
	err := r.q.QueryRow(ctx, query, reservationID, userID, string(kind), day.Format("2006-01-02")).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check notification sent: %w", err)
	}
	return exists, nil
}

// LogSent registra el envío en el dedup log. La PK cubre las cuatro columnas:
// un duplicado (otro tick del mismo día) no es error.
func (r *NotificationRepo) LogSent(ctx context.Context, reservationID, userID string, kind reservation.NotificationKind, day time.Time) error {
	query := `
		INSERT INTO notification_sent_log (reservation_id, user_id, notification_type, sent_date)
		VALUES ($1, $2, $3, $4)`
	_, err := r.q.Exec(ctx, query, reservationID, userID, string(kind), day.Format("2006-01-02"))
	if err != nil {
		if isUniqueViolation(err) {
			return nil
		}
		return fmt.Errorf("log notification sent: %w", err)
	}
	return nil
}
