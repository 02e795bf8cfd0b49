package auth

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"github.com/dcamposl/negocio-api/internal/application/dto"
	"github.com/dcamposl/negocio-api/internal/domain"
	"github.com/dcamposl/negocio-api/internal/domain/repository"
	"github.com/dcamposl/negocio-api/pkg/config"
	"github.com/dcamposl/negocio-api/pkg/jwt"
	"github.com/dcamposl/negocio-api/pkg/logger"
)

// UseCase autenticación: login con email/contraseña y emisión de JWT.
type UseCase struct {
	userRepo repository.UserRepository
	jwtCfg   config.JWTConfig
	log      *logger.Logger
}

// NewUseCase construye el caso de uso de autenticación.
func NewUseCase(userRepo repository.UserRepository, jwtCfg config.JWTConfig, log *logger.Logger) *UseCase {
	return &UseCase{userRepo: userRepo, jwtCfg: jwtCfg, log: log}
}

// Login verifica las credenciales y devuelve el token con el usuario.
// Usuario inexistente, inactivo o contraseña incorrecta responden lo mismo
// (ErrUnauthorized) para no filtrar cuáles emails existen.
func (uc *UseCase) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	if req.Email == "" || req.Password == "" {
		return nil, domain.ErrInvalidInput
	}

	user, err := uc.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.Active {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		uc.log.Warn().Str("email", req.Email).Msg("intento de login con contraseña incorrecta")
		return nil, domain.ErrUnauthorized
	}

	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.Role, user.Name, uc.jwtCfg.Issuer, uc.jwtCfg.Expiration)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		Token: token,
		User: dto.UserResponse{
			ID:        user.ID,
			Email:     user.Email,
			Name:      user.Name,
			Role:      user.Role,
			CreatedAt: user.CreatedAt,
		},
	}, nil
}
