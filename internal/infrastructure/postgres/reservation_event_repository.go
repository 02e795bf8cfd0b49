package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/dcamposl/negocio-api/internal/domain/entity"
	"github.com/dcamposl/negocio-api/internal/domain/repository"
	"github.com/dcamposl/negocio-api/internal/domain/reservation"
)

var _ repository.ReservationEventRepository = (*ReservationEventRepo)(nil)

// ReservationEventRepo bitácora de eventos de reserva sobre PostgreSQL
// (usable con pool o tx). Append-only.
type ReservationEventRepo struct {
	q Querier
}

// NewReservationEventRepository construye el adaptador. Pasar pool o tx
// (Querier).
func NewReservationEventRepository(q Querier) *ReservationEventRepo {
	return &ReservationEventRepo{q: q}
}

// Create persiste un evento de reserva.
func (r *ReservationEventRepo) Create(ctx context.Context, event *entity.ReservationEvent) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	query := `
		INSERT INTO reservation_events (id, reservation_id, event_type, old_status, new_status, notes, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		event.ID, event.ReservationID, event.EventType,
		nullIfEmpty(string(event.OldStatus)), string(event.NewStatus),
		event.Notes, nullIfEmpty(event.CreatedBy), event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create reservation event: %w", err)
	}
	return nil
}

// ListByReservation lista los eventos de una reserva en orden cronológico.
func (r *ReservationEventRepo) ListByReservation(ctx context.Context, reservationID string) ([]*entity.ReservationEvent, error) {
	query := `
		SELECT id, reservation_id, event_type, old_status, new_status, notes, created_by, created_at
		FROM reservation_events WHERE reservation_id = $1
		ORDER BY created_at ASC`
	rows, err := r.q.Query(ctx, query, reservationID)
	if err != nil {
		return nil, fmt.Errorf("list reservation events: %w", err)
	}
	defer rows.Close()

	var list []*entity.ReservationEvent
	for rows.Next() {
		var e entity.ReservationEvent
		var oldStatus, createdBy *string
		var newStatus string
		if err := rows.Scan(&e.ID, &e.ReservationID, &e.EventType, &oldStatus, &newStatus, &e.Notes, &createdBy, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan reservation event: %w", err)
		}
		e.NewStatus = reservation.Status(newStatus)
		if oldStatus != nil {
			e.OldStatus = reservation.Status(*oldStatus)
		}
		if createdBy != nil {
			e.CreatedBy = *createdBy
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}
