package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sqlCall registra una sentencia emitida por el repo: verbo y SQL con args.
type sqlCall struct {
	verb string
	sql  string
	args []any
}

// recordingQuerier guarda la secuencia de sentencias que emite un repo, para
// verificar orden y forma del SQL sin una base real.
type recordingQuerier struct {
	calls   []sqlCall
	execErr error
	row     pgx.Row
}

var _ Querier = (*recordingQuerier)(nil)

func (q *recordingQuerier) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	q.calls = append(q.calls, sqlCall{verb: "exec", sql: sql, args: args})
	return pgconn.CommandTag{}, q.execErr
}

func (q *recordingQuerier) Query(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
	q.calls = append(q.calls, sqlCall{verb: "query", sql: sql, args: args})
	return nil, errors.New("no implementado")
}

func (q *recordingQuerier) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	q.calls = append(q.calls, sqlCall{verb: "query_row", sql: sql, args: args})
	return q.row
}

type stubRow struct{ scan func(dest ...any) error }

func (r stubRow) Scan(dest ...any) error { return r.scan(dest...) }

// GetForUpdate debe asegurar la fila antes del SELECT FOR UPDATE: sobre cero
// filas el lock no agarra nada y dos transacciones concurrentes sobre un
// (producto, sucursal) nuevo partirían ambas del saldo en cero, pisando una el
// Upsert de la otra.
func TestBalanceGetForUpdate_AseguraLaFilaAntesDeBloquear(t *testing.T) {
	q := &recordingQuerier{row: stubRow{scan: func(dest ...any) error {
		*(dest[0].(*string)) = "p1"
		*(dest[1].(*string)) = "loc-1"
		*(dest[2].(*decimal.Decimal)) = decimal.Zero
		*(dest[3].(*decimal.Decimal)) = decimal.Zero
		*(dest[4].(*decimal.Decimal)) = decimal.Zero
		*(dest[5].(*time.Time)) = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
		return nil
	}}}
	repo := NewStockBalanceRepository(q)

	bal, err := repo.GetForUpdate(context.Background(), "p1", "loc-1")
	require.NoError(t, err)
	require.NotNil(t, bal)
	assert.Equal(t, "p1", bal.ProductID)
	assert.Equal(t, "loc-1", bal.LocationID)
	assert.True(t, bal.QtyOnHand.IsZero())
	assert.True(t, bal.QtyReserved.IsZero())

	require.Len(t, q.calls, 2)
	insert, sel := q.calls[0], q.calls[1]

	assert.Equal(t, "exec", insert.verb)
	assert.Contains(t, insert.sql, "INSERT INTO stock_balances")
	assert.Contains(t, insert.sql, "ON CONFLICT (product_id, location_id) DO NOTHING")
	assert.Equal(t, []any{"p1", "loc-1"}, insert.args)

	assert.Equal(t, "query_row", sel.verb)
	assert.Contains(t, sel.sql, "FOR UPDATE")
	assert.Equal(t, []any{"p1", "loc-1"}, sel.args)
}

// Si el insert que asegura la fila falla, no se intenta el SELECT.
func TestBalanceGetForUpdate_ErrorAlAsegurarFila(t *testing.T) {
	q := &recordingQuerier{execErr: errors.New("conexión caída")}
	repo := NewStockBalanceRepository(q)

	_, err := repo.GetForUpdate(context.Background(), "p1", "loc-1")
	require.Error(t, err)
	assert.ErrorContains(t, err, "ensure stock balance row")

	require.Len(t, q.calls, 1)
	assert.Equal(t, "exec", q.calls[0].verb)
}
