package repository

import (
	"context"

	"github.com/dcamposl/negocio-api/internal/domain/entity"
)

// LocationRepository puerto de lectura de sucursales.
type LocationRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Location, error)
	List(ctx context.Context) ([]*entity.Location, error)
}
