package repository

import (
	"context"

	"github.com/dcamposl/negocio-api/internal/domain/entity"
)

// UserRepository define el puerto de lectura de usuarios que necesita el
// núcleo: autenticación y fan-out de notificaciones a gerentes.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	// GetManagers devuelve los usuarios activos con rol gerente.
	GetManagers(ctx context.Context) ([]*entity.User, error)
}
