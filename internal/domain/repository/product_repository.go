package repository

import (
	"context"

	"github.com/dcamposl/negocio-api/internal/domain/entity"
)

// ProductRepository puerto de lectura del catálogo (el producto se administra
// fuera de este núcleo).
type ProductRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Product, error)
}
