package repository

import (
	"context"

	"github.com/dcamposl/negocio-api/internal/domain/entity"
)

// BalanceFilter filtros para el listado de saldos.
type BalanceFilter struct {
	ProductID  string
	LocationID string
	Limit      int
	Offset     int
}

// StockBalanceRepository define el puerto para consultar/actualizar el saldo
// por (producto, sucursal). Las escrituras siempre ocurren dentro de una
// transacción, con la fila bloqueada vía GetForUpdate.
type StockBalanceRepository interface {
	// Get devuelve el saldo; si la fila no existe devuelve un saldo en cero
	// (no es error: producto aún sin movimientos en esa sucursal).
	Get(ctx context.Context, productID, locationID string) (*entity.StockBalance, error)
	// GetForUpdate igual que Get pero bloquea la fila (SELECT FOR UPDATE)
	// para serializar escritores concurrentes sobre el mismo saldo.
	GetForUpdate(ctx context.Context, productID, locationID string) (*entity.StockBalance, error)
	Upsert(ctx context.Context, balance *entity.StockBalance) error
	List(ctx context.Context, f BalanceFilter) ([]*entity.StockBalance, int, error)
}
