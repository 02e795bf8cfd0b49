package reservation

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dcamposl/negocio-api/internal/domain"
	"github.com/dcamposl/negocio-api/internal/domain/entity"
	"github.com/dcamposl/negocio-api/internal/domain/repository"
	"github.com/dcamposl/negocio-api/internal/domain/reservation"
	"github.com/dcamposl/negocio-api/pkg/logger"
)

// UseCase es el ciclo de vida de las reservas: crear, actualizar, devolver,
// cancelar y consultar, manteniendo qty_reserved del saldo sincronizado con
// las reservas abiertas.
type UseCase struct {
	txRunner     TxRunner
	resRepo      repository.ReservationRepository
	eventRepo    repository.ReservationEventRepository
	productRepo  repository.ProductRepository
	customerRepo repository.CustomerRepository
	log          *logger.Logger
	now          func() time.Time
}

// NewUseCase construye el caso de uso de reservas.
func NewUseCase(
	txRunner TxRunner,
	resRepo repository.ReservationRepository,
	eventRepo repository.ReservationEventRepository,
	productRepo repository.ProductRepository,
	customerRepo repository.CustomerRepository,
	log *logger.Logger,
) *UseCase {
	return &UseCase{
		txRunner:     txRunner,
		resRepo:      resRepo,
		eventRepo:    eventRepo,
		productRepo:  productRepo,
		customerRepo: customerRepo,
		log:          log,
		now:          time.Now,
	}
}

// CreateInput entrada para crear una reserva.
type CreateInput struct {
	ProductID  string
	CustomerID string // opcional
	LocationID string
	Qty        decimal.Decimal
	DueAt      time.Time
	Notes      string
	UserID     string // vendedor que crea la reserva
}

// Create registra la reserva en estado ACTIVE y, en la misma transacción,
// incrementa qty_reserved del saldo, agrega el movimiento RESERVE (qty_on_hand
// no cambia: before == after) y el evento CREATED.
//
// El caller debe haber verificado disponibilidad con el Stock Service antes de
// llamar; aquí no se re-verifica. El chequeo y el commit están separados a
// propósito para que el controlador pueda responder "stock insuficiente" sin
// abrir una transacción; bajo carga concurrente dos requests pueden pasar el
// chequeo y sobre-reservar.
func (uc *UseCase) Create(ctx context.Context, in CreateInput) (*entity.Reservation, error) {
	if in.ProductID == "" || in.LocationID == "" || in.UserID == "" {
		return nil, domain.ErrInvalidInput
	}
	if !in.Qty.GreaterThan(decimal.Zero) || in.DueAt.IsZero() {
		return nil, domain.ErrInvalidInput
	}

	product, err := uc.productRepo.GetByID(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if in.CustomerID != "" {
		customer, err := uc.customerRepo.GetByID(ctx, in.CustomerID)
		if err != nil {
			return nil, err
		}
		if customer == nil {
			return nil, domain.ErrNotFound
		}
	}

	now := uc.now()
	res := &entity.Reservation{
		ProductID:     in.ProductID,
		CustomerID:    in.CustomerID,
		SalespersonID: in.UserID,
		LocationID:    in.LocationID,
		Qty:           in.Qty,
		Status:        reservation.StatusActive,
		DueAt:         in.DueAt,
		Notes:         in.Notes,
		CreatedBy:     in.UserID,
		CreatedAt:     now,
	}

	err = uc.txRunner.RunReservation(ctx, func(
		resRepo repository.ReservationRepository,
		eventRepo repository.ReservationEventRepository,
		balanceRepo repository.StockBalanceRepository,
		movementRepo repository.StockMovementRepository,
	) error {
		if err := resRepo.Create(ctx, res); err != nil {
			return err
		}
		// Bloquea la fila del saldo; si no existe se crea con on_hand en cero
		bal, err := balanceRepo.GetForUpdate(ctx, in.ProductID, in.LocationID)
		if err != nil {
			return err
		}
		bal.QtyReserved = bal.QtyReserved.Add(in.Qty)
		bal.UpdatedAt = now
		if err := balanceRepo.Upsert(ctx, bal); err != nil {
			return err
		}
		// Solo se movió qty_reserved: el snapshot de on_hand no cambia
		mov := &entity.StockMovement{
			ProductID:  in.ProductID,
			LocationID: in.LocationID,
			Type:       entity.MovementTypeRESERVE,
			Qty:        in.Qty,
			QtyBefore:  bal.QtyOnHand,
			QtyAfter:   bal.QtyOnHand,
			RefType:    entity.RefTypeReservation,
			RefID:      res.ID,
			CreatedBy:  in.UserID,
			CreatedAt:  now,
		}
		if err := movementRepo.Create(ctx, mov); err != nil {
			return err
		}
		event := &entity.ReservationEvent{
			ReservationID: res.ID,
			EventType:     entity.EventCREATED,
			NewStatus:     reservation.StatusActive,
			CreatedBy:     in.UserID,
			CreatedAt:     now,
		}
		return eventRepo.Create(ctx, event)
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Update actualiza solo due_at y/o notas de una reserva no terminal.
// Devuelve false si la reserva no existe. Lee con lock dentro de la misma
// transacción que escribe: un Return o Cancel concurrente no puede colarse
// entre el chequeo de estado terminal y la escritura.
func (uc *UseCase) Update(ctx context.Context, id string, dueAt *time.Time, notes *string) (bool, error) {
	if id == "" || (dueAt == nil && notes == nil) {
		return false, domain.ErrInvalidInput
	}

	var found bool
	err := uc.txRunner.RunReservation(ctx, func(
		resRepo repository.ReservationRepository,
		_ repository.ReservationEventRepository,
		_ repository.StockBalanceRepository,
		_ repository.StockMovementRepository,
	) error {
		res, err := resRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if res == nil {
			return nil
		}
		if res.Status.IsTerminal() {
			return domain.ErrReservaFinalizada
		}
		found, err = resRepo.UpdateFields(ctx, id, dueAt, notes)
		return err
	})
	if err != nil {
		return false, err
	}
	return found, nil
}

// Return marca la reserva como RETURNED y libera su cantidad del saldo.
func (uc *UseCase) Return(ctx context.Context, id, actor string) error {
	return uc.finalize(ctx, id, actor, reservation.StatusReturned, entity.EventRETURNED)
}

// Cancel marca la reserva como CANCELED y libera su cantidad del saldo.
func (uc *UseCase) Cancel(ctx context.Context, id, actor string) error {
	return uc.finalize(ctx, id, actor, reservation.StatusCanceled, entity.EventCANCELED)
}

// finalize cierra una reserva abierta: estado terminal + returned_at, resta
// qty_reserved, movimiento RESERVE_RETURN y evento. Todo en una transacción
// con las filas de reserva y saldo bloqueadas.
func (uc *UseCase) finalize(ctx context.Context, id, actor string, target reservation.Status, eventType string) error {
	if id == "" {
		return domain.ErrInvalidInput
	}
	now := uc.now()

	return uc.txRunner.RunReservation(ctx, func(
		resRepo repository.ReservationRepository,
		eventRepo repository.ReservationEventRepository,
		balanceRepo repository.StockBalanceRepository,
		movementRepo repository.StockMovementRepository,
	) error {
		res, err := resRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if res == nil || res.Status.IsTerminal() {
			return domain.ErrReservaFinalizada
		}
		oldStatus := res.Status

		if err := resRepo.UpdateStatus(ctx, id, target, &now); err != nil {
			return err
		}

		bal, err := balanceRepo.GetForUpdate(ctx, res.ProductID, res.LocationID)
		if err != nil {
			return err
		}
		newReserved := bal.QtyReserved.Sub(res.Qty)
		if newReserved.IsNegative() {
			// Liberación doble u otro desbalance heredado: se clampa en cero
			// para no corromper el saldo, pero queda registrado.
			uc.log.Warn().
				Str("reservation_id", id).
				Str("product_id", res.ProductID).
				Str("location_id", res.LocationID).
				Str("qty_reserved", newReserved.String()).
				Msg("qty_reserved quedaría negativo al liberar reserva; se clampa en cero")
			newReserved = decimal.Zero
		}
		bal.QtyReserved = newReserved
		bal.UpdatedAt = now
		if err := balanceRepo.Upsert(ctx, bal); err != nil {
			return err
		}

		mov := &entity.StockMovement{
			ProductID:  res.ProductID,
			LocationID: res.LocationID,
			Type:       entity.MovementTypeRESERVERETURN,
			Qty:        res.Qty,
			QtyBefore:  bal.QtyOnHand,
			QtyAfter:   bal.QtyOnHand,
			RefType:    entity.RefTypeReservation,
			RefID:      res.ID,
			CreatedBy:  actor,
			CreatedAt:  now,
		}
		if err := movementRepo.Create(ctx, mov); err != nil {
			return err
		}

		event := &entity.ReservationEvent{
			ReservationID: id,
			EventType:     eventType,
			OldStatus:     oldStatus,
			NewStatus:     target,
			CreatedBy:     actor,
			CreatedAt:     now,
		}
		return eventRepo.Create(ctx, event)
	})
}

// List proyección de reservas con filtros y paginación.
func (uc *UseCase) List(ctx context.Context, f repository.ReservationFilter) ([]*entity.ReservationDetail, int, error) {
	return uc.resRepo.List(ctx, f)
}

// GetByID devuelve la reserva con campos denormalizados (nil si no existe).
func (uc *UseCase) GetByID(ctx context.Context, id string) (*entity.ReservationDetail, error) {
	return uc.resRepo.GetDetail(ctx, id)
}

// ListEvents devuelve la bitácora de una reserva en orden cronológico.
func (uc *UseCase) ListEvents(ctx context.Context, id string) ([]*entity.ReservationEvent, error) {
	if id == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.eventRepo.ListByReservation(ctx, id)
}
