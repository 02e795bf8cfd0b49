package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dcamposl/negocio-api/internal/domain/entity"
	"github.com/dcamposl/negocio-api/internal/domain/repository"
	"github.com/dcamposl/negocio-api/internal/domain/reservation"
)

var _ repository.ReservationRepository = (*ReservationRepo)(nil)

// ReservationRepo implementación de ReservationRepository sobre PostgreSQL
// (usable con pool o tx).
type ReservationRepo struct {
	q Querier
}

// NewReservationRepository construye el adaptador de reservas. Pasar pool o tx
// (Querier).
func NewReservationRepository(q Querier) *ReservationRepo {
	return &ReservationRepo{q: q}
}

// Create persiste una reserva nueva.
func (r *ReservationRepo) Create(ctx context.Context, res *entity.Reservation) error {
	if res.ID == "" {
		res.ID = uuid.New().String()
	}
	query := `
		INSERT INTO reservations (id, product_id, customer_id, salesperson_user_id, location_id, qty, status, due_at, notes, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		res.ID, res.ProductID, nullIfEmpty(res.CustomerID), res.SalespersonID,
		res.LocationID, res.Qty, string(res.Status), res.DueAt, res.Notes,
		nullIfEmpty(res.CreatedBy), res.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create reservation: %w", err)
	}
	return nil
}

const reservationColumns = `id, product_id, customer_id, salesperson_user_id, location_id, qty, status, due_at, notes, created_by, created_at, returned_at`

// GetByID obtiene una reserva por ID (nil si no existe).
func (r *ReservationRepo) GetByID(ctx context.Context, id string) (*entity.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1`
	res, err := scanReservation(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get reservation: %w", err)
	}
	return res, nil
}

// GetForUpdate obtiene la reserva y bloquea su fila (SELECT FOR UPDATE) para
// que dos return/cancel concurrentes no liberen el saldo dos veces.
func (r *ReservationRepo) GetForUpdate(ctx context.Context, id string) (*entity.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1 FOR UPDATE`
	res, err := scanReservation(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get reservation for update: %w", err)
	}
	return res, nil
}

const reservationDetailQuery = `
	SELECT r.id, r.product_id, r.customer_id, r.salesperson_user_id, r.location_id,
	       r.qty, r.status, r.due_at, r.notes, r.created_by, r.created_at, r.returned_at,
	       p.code, p.name, COALESCE(c.name, ''), COALESCE(u.name, '')
	FROM reservations r
	JOIN products p ON p.id = r.product_id
	LEFT JOIN customers c ON c.id = r.customer_id
	LEFT JOIN users u ON u.id = r.salesperson_user_id`

// GetDetail obtiene una reserva con campos denormalizados de presentación.
func (r *ReservationRepo) GetDetail(ctx context.Context, id string) (*entity.ReservationDetail, error) {
	query := reservationDetailQuery + ` WHERE r.id = $1`
	d, err := scanReservationDetail(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get reservation detail: %w", err)
	}
	return d, nil
}

// UpdateFields actualiza solo due_at y/o notas (nil = no tocar). Devuelve
// false si la reserva no existe o no hay campos que actualizar.
func (r *ReservationRepo) UpdateFields(ctx context.Context, id string, dueAt *time.Time, notes *string) (bool, error) {
	set := ""
	args := []any{}
	pos := 1
	if dueAt != nil {
		set += fmt.Sprintf("due_at = $%d", pos)
		args = append(args, *dueAt)
		pos++
	}
	if notes != nil {
		if set != "" {
			set += ", "
		}
		set += fmt.Sprintf("notes = $%d", pos)
		args = append(args, *notes)
		pos++
	}
	if set == "" {
		return false, nil
	}
	query := fmt.Sprintf("UPDATE reservations SET %s WHERE id = $%d", set, pos)
	args = append(args, id)
	tag, err := r.q.Exec(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("update reservation: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// UpdateStatus cambia el estado de la reserva; returnedAt se setea al pasar a
// RETURNED/CANCELED.
func (r *ReservationRepo) UpdateStatus(ctx context.Context, id string, status reservation.Status, returnedAt *time.Time) error {
	query := `UPDATE reservations SET status = $1, returned_at = COALESCE($2, returned_at) WHERE id = $3`
	_, err := r.q.Exec(ctx, query, string(status), returnedAt, id)
	if err != nil {
		return fmt.Errorf("update reservation status: %w", err)
	}
	return nil
}

// List lista reservas con filtros y paginación, ordenadas por vencimiento
// ascendente y creación descendente. Devuelve también el total.
func (r *ReservationRepo) List(ctx context.Context, f repository.ReservationFilter) ([]*entity.ReservationDetail, int, error) {
	where := " WHERE 1=1"
	args := []any{}
	pos := 1
	if f.Status != "" {
		where += fmt.Sprintf(" AND r.status = $%d", pos)
		args = append(args, string(f.Status))
		pos++
	}
	if f.DueFrom != nil {
		where += fmt.Sprintf(" AND r.due_at >= $%d", pos)
		args = append(args, *f.DueFrom)
		pos++
	}
	if f.DueTo != nil {
		where += fmt.Sprintf(" AND r.due_at <= $%d", pos)
		args = append(args, *f.DueTo)
		pos++
	}
	if f.CustomerID != "" {
		where += fmt.Sprintf(" AND r.customer_id = $%d", pos)
		args = append(args, f.CustomerID)
		pos++
	}
	if f.ProductID != "" {
		where += fmt.Sprintf(" AND r.product_id = $%d", pos)
		args = append(args, f.ProductID)
		pos++
	}
	if f.SalespersonID != "" {
		where += fmt.Sprintf(" AND r.salesperson_user_id = $%d", pos)
		args = append(args, f.SalespersonID)
		pos++
	}
	if f.LocationID != "" {
		where += fmt.Sprintf(" AND r.location_id = $%d", pos)
		args = append(args, f.LocationID)
		pos++
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM reservations r" + where
	if err := r.q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count reservations: %w", err)
	}

	query := reservationDetailQuery + where +
		fmt.Sprintf(" ORDER BY r.due_at ASC, r.created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, f.Limit, f.Offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list reservations: %w", err)
	}
	defer rows.Close()

	var list []*entity.ReservationDetail
	for rows.Next() {
		d, err := scanReservationDetail(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan reservation: %w", err)
		}
		list = append(list, d)
	}
	return list, total, rows.Err()
}

// ListForStatusUpdate devuelve la cola de trabajo del scheduler: reservas en
// ACTIVE o DUE_SOON con due_at <= before.
func (r *ReservationRepo) ListForStatusUpdate(ctx context.Context, before time.Time) ([]*entity.ReservationDetail, error) {
	query := reservationDetailQuery + `
		WHERE r.status IN ($1, $2) AND r.due_at <= $3
		ORDER BY r.due_at ASC`
	rows, err := r.q.Query(ctx, query,
		string(reservation.StatusActive), string(reservation.StatusDueSoon), before)
	if err != nil {
		return nil, fmt.Errorf("list reservations for status update: %w", err)
	}
	defer rows.Close()

	var list []*entity.ReservationDetail
	for rows.Next() {
		d, err := scanReservationDetail(rows)
		if err != nil {
			return nil, fmt.Errorf("scan reservation: %w", err)
		}
		list = append(list, d)
	}
	return list, rows.Err()
}

func scanReservation(row pgx.Row) (*entity.Reservation, error) {
	var res entity.Reservation
	var customerID, createdBy *string
	var status string
	err := row.Scan(
		&res.ID, &res.ProductID, &customerID, &res.SalespersonID, &res.LocationID,
		&res.Qty, &status, &res.DueAt, &res.Notes, &createdBy, &res.CreatedAt, &res.ReturnedAt,
	)
	if err != nil {
		return nil, err
	}
	res.Status = reservation.Status(status)
	if customerID != nil {
		res.CustomerID = *customerID
	}
	if createdBy != nil {
		res.CreatedBy = *createdBy
	}
	return &res, nil
}

func scanReservationDetail(row pgx.Row) (*entity.ReservationDetail, error) {
	var d entity.ReservationDetail
	var customerID, createdBy *string
	var status string
	err := row.Scan(
		&d.ID, &d.ProductID, &customerID, &d.SalespersonID, &d.LocationID,
		&d.Qty, &status, &d.DueAt, &d.Notes, &createdBy, &d.CreatedAt, &d.ReturnedAt,
		&d.ProductCode, &d.ProductName, &d.CustomerName, &d.SalespersonName,
	)
	if err != nil {
		return nil, err
	}
	d.Status = reservation.Status(status)
	if customerID != nil {
		d.CustomerID = *customerID
	}
	if createdBy != nil {
		d.CreatedBy = *createdBy
	}
	return &d, nil
}
