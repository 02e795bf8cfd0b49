package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	appreservation "github.com/dcamposl/negocio-api/internal/application/reservation"
	"github.com/dcamposl/negocio-api/internal/application/stock"
	"github.com/dcamposl/negocio-api/internal/domain/repository"
)

// Ensure TxRunner implements stock.TxRunner and reservation.TxRunner.
var _ stock.TxRunner = (*TxRunner)(nil)
var _ appreservation.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL, pasando
// repositorios atados a esa tx. Es la unidad de trabajo que garantiza el
// todo-o-nada entre saldo, movimiento, reserva y evento.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción con los repos de stock (saldo + movimientos) y
// hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(
	balanceRepo repository.StockBalanceRepository,
	movementRepo repository.StockMovementRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewStockBalanceRepository(tx), NewStockMovementRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunReservation inicia una transacción con los repos de reservas y de stock
// (para crear/devolver/cancelar reservas tocando el saldo en la misma tx).
func (r *TxRunner) RunReservation(ctx context.Context, fn func(
	resRepo repository.ReservationRepository,
	eventRepo repository.ReservationEventRepository,
	balanceRepo repository.StockBalanceRepository,
	movementRepo repository.StockMovementRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	err = fn(
		NewReservationRepository(tx),
		NewReservationEventRepository(tx),
		NewStockBalanceRepository(tx),
		NewStockMovementRepository(tx),
	)
	if err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
