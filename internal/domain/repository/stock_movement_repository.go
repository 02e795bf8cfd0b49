package repository

import (
	"context"
	"time"

	"github.com/dcamposl/negocio-api/internal/domain/entity"
)

// MovementFilter filtros para el listado de movimientos.
type MovementFilter struct {
	ProductID  string
	LocationID string
	Type       string
	From       *time.Time
	To         *time.Time
	Limit      int
	Offset     int
}

// StockMovementRepository define el puerto de persistencia del libro de
// movimientos. Solo inserta y lee: los movimientos son inmutables.
type StockMovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	GetByID(ctx context.Context, id string) (*entity.StockMovement, error)
	List(ctx context.Context, f MovementFilter) ([]*entity.StockMovement, int, error)
}
