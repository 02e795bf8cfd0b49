package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrUserNotFound      = errors.New("usuario no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrInsufficientStock = errors.New("stock insuficiente")
	// ErrReservaFinalizada cubre tanto reserva inexistente como reserva ya en
	// estado terminal: el contrato expone un solo mensaje para ambos casos.
	ErrReservaFinalizada = errors.New("reserva no encontrada o ya finalizada")
)
