package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/dcamposl/negocio-api/internal/domain/entity"
	"github.com/dcamposl/negocio-api/internal/domain/repository"
)

var _ repository.StockBalanceRepository = (*StockBalanceRepo)(nil)

// StockBalanceRepo implementación de StockBalanceRepository sobre PostgreSQL
// (usable con pool o tx).
type StockBalanceRepo struct {
	q Querier
}

// NewStockBalanceRepository construye el adaptador de saldos. Pasar pool o tx
// (Querier).
func NewStockBalanceRepository(q Querier) *StockBalanceRepo {
	return &StockBalanceRepo{q: q}
}

func zeroBalance(productID, locationID string) *entity.StockBalance {
	return &entity.StockBalance{
		ProductID:   productID,
		LocationID:  locationID,
		QtyOnHand:   decimal.Zero,
		QtyReserved: decimal.Zero,
		QtyPending:  decimal.Zero,
	}
}

// Get obtiene el saldo de un producto en una sucursal. Fila inexistente =
// saldo en cero, no es error.
func (r *StockBalanceRepo) Get(ctx context.Context, productID, locationID string) (*entity.StockBalance, error) {
	query := `
		SELECT product_id, location_id, qty_on_hand, qty_reserved, qty_pending, updated_at
		FROM stock_balances WHERE product_id = $1 AND location_id = $2`
	var b entity.StockBalance
	err := r.q.QueryRow(ctx, query, productID, locationID).Scan(
		&b.ProductID, &b.LocationID, &b.QtyOnHand, &b.QtyReserved, &b.QtyPending, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return zeroBalance(productID, locationID), nil
		}
		return nil, fmt.Errorf("get stock balance: %w", err)
	}
	return &b, nil
}

// GetForUpdate obtiene el saldo y bloquea la fila (SELECT FOR UPDATE) para
// serializar escritores concurrentes sobre el mismo (producto, sucursal).
// Si la fila no existe se inserta primero en cero: FOR UPDATE sobre cero filas
// no bloquea nada y dos escritores leerían el mismo estado inicial.
func (r *StockBalanceRepo) GetForUpdate(ctx context.Context, productID, locationID string) (*entity.StockBalance, error) {
	insert := `
		INSERT INTO stock_balances (product_id, location_id)
		VALUES ($1, $2)
		ON CONFLICT (product_id, location_id) DO NOTHING`
	if _, err := r.q.Exec(ctx, insert, productID, locationID); err != nil {
		return nil, fmt.Errorf("ensure stock balance row: %w", err)
	}

	query := `
		SELECT product_id, location_id, qty_on_hand, qty_reserved, qty_pending, updated_at
		FROM stock_balances WHERE product_id = $1 AND location_id = $2
		FOR UPDATE`
	var b entity.StockBalance
	err := r.q.QueryRow(ctx, query, productID, locationID).Scan(
		&b.ProductID, &b.LocationID, &b.QtyOnHand, &b.QtyReserved, &b.QtyPending, &b.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("get stock balance for update: %w", err)
	}
	return &b, nil
}

// Upsert inserta o actualiza el saldo (por producto y sucursal).
func (r *StockBalanceRepo) Upsert(ctx context.Context, balance *entity.StockBalance) error {
	query := `
		INSERT INTO stock_balances (product_id, location_id, qty_on_hand, qty_reserved, qty_pending, updated_at)
		VALUES ($1, $2, $3, $4, $5, now())
		ON CONFLICT (product_id, location_id)
		DO UPDATE SET qty_on_hand = EXCLUDED.qty_on_hand,
		              qty_reserved = EXCLUDED.qty_reserved,
		              qty_pending = EXCLUDED.qty_pending,
		              updated_at = now()`
	_, err := r.q.Exec(ctx, query,
		balance.ProductID, balance.LocationID,
		balance.QtyOnHand, balance.QtyReserved, balance.QtyPending,
	)
	if err != nil {
		return fmt.Errorf("upsert stock balance: %w", err)
	}
	return nil
}

// List lista saldos con filtros y paginación; devuelve también el total.
func (r *StockBalanceRepo) List(ctx context.Context, f repository.BalanceFilter) ([]*entity.StockBalance, int, error) {
	where := " WHERE 1=1"
	args := []any{}
	pos := 1
	if f.ProductID != "" {
		where += fmt.Sprintf(" AND product_id = $%d", pos)
		args = append(args, f.ProductID)
		pos++
	}
	if f.LocationID != "" {
		where += fmt.Sprintf(" AND location_id = $%d", pos)
		args = append(args, f.LocationID)
		pos++
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM stock_balances" + where
	if err := r.q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count stock balances: %w", err)
	}

	query := `
		SELECT product_id, location_id, qty_on_hand, qty_reserved, qty_pending, updated_at
		FROM stock_balances` + where +
		fmt.Sprintf(" ORDER BY updated_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, f.Limit, f.Offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list stock balances: %w", err)
	}
	defer rows.Close()

	var list []*entity.StockBalance
	for rows.Next() {
		var b entity.StockBalance
		if err := rows.Scan(&b.ProductID, &b.LocationID, &b.QtyOnHand, &b.QtyReserved, &b.QtyPending, &b.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan stock balance: %w", err)
		}
		list = append(list, &b)
	}
	return list, total, rows.Err()
}
