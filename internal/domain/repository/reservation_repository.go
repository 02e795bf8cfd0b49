package repository

import (
	"context"
	"time"

	"github.com/dcamposl/negocio-api/internal/domain/entity"
	"github.com/dcamposl/negocio-api/internal/domain/reservation"
)

// ReservationFilter filtros para el listado de reservas.
type ReservationFilter struct {
	Status        reservation.Status
	DueFrom       *time.Time
	DueTo         *time.Time
	CustomerID    string
	ProductID     string
	SalespersonID string
	LocationID    string
	Limit         int
	Offset        int
}

// ReservationRepository define el puerto de persistencia de reservas.
// Las mutaciones que tocan el saldo (crear, devolver, cancelar) se ejecutan
// con repos atados a la misma transacción vía TxRunner.
type ReservationRepository interface {
	Create(ctx context.Context, r *entity.Reservation) error
	GetByID(ctx context.Context, id string) (*entity.Reservation, error)
	// GetForUpdate bloquea la fila de la reserva (SELECT FOR UPDATE) para que
	// dos return/cancel concurrentes no liberen el saldo dos veces.
	GetForUpdate(ctx context.Context, id string) (*entity.Reservation, error)
	// GetDetail devuelve la reserva con campos denormalizados de presentación.
	GetDetail(ctx context.Context, id string) (*entity.ReservationDetail, error)
	// UpdateFields actualiza solo due_at y/o notas (nil = no tocar).
	// Devuelve false si la reserva no existe.
	UpdateFields(ctx context.Context, id string, dueAt *time.Time, notes *string) (bool, error)
	UpdateStatus(ctx context.Context, id string, status reservation.Status, returnedAt *time.Time) error
	List(ctx context.Context, f ReservationFilter) ([]*entity.ReservationDetail, int, error)
	// ListForStatusUpdate es la cola de trabajo del scheduler: reservas en
	// ACTIVE o DUE_SOON con due_at <= before (before = now + horizonte).
	ListForStatusUpdate(ctx context.Context, before time.Time) ([]*entity.ReservationDetail, error)
}
