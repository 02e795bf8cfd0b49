package reservation

import (
	"context"

	"github.com/dcamposl/negocio-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD con los repos
// de reservas y de stock atados a esa tx. Crear, devolver y cancelar una
// reserva tocan cuatro tablas (reserva, evento, saldo, movimiento) y deben
// aplicarse todo-o-nada.
type TxRunner interface {
	RunReservation(ctx context.Context, fn func(
		resRepo repository.ReservationRepository,
		eventRepo repository.ReservationEventRepository,
		balanceRepo repository.StockBalanceRepository,
		movementRepo repository.StockMovementRepository,
	) error) error
}
