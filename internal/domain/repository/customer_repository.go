package repository

import (
	"context"

	"github.com/dcamposl/negocio-api/internal/domain/entity"
)

// CustomerRepository puerto de lectura de clientes.
type CustomerRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Customer, error)
}
