package stock

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dcamposl/negocio-api/internal/application/dto"
	"github.com/dcamposl/negocio-api/internal/domain"
	"github.com/dcamposl/negocio-api/internal/domain/entity"
	"github.com/dcamposl/negocio-api/internal/domain/repository"
	"github.com/dcamposl/negocio-api/pkg/logger"
	"github.com/dcamposl/negocio-api/pkg/metrics"
)

// Service es el único punto de entrada para cualquier cambio de qty_on_hand:
// toda mutación pasa por PostMovement, que actualiza el saldo y agrega el
// movimiento al libro en una sola transacción con la fila bloqueada
// (SELECT FOR UPDATE).
type Service struct {
	txRunner    TxRunner
	balanceRepo repository.StockBalanceRepository
	movRepo     repository.StockMovementRepository
	log         *logger.Logger
	now         func() time.Time
}

// NewService construye el servicio de stock. balanceRepo/movRepo van atados al
// pool (lecturas); las escrituras usan los repos de la tx del TxRunner.
func NewService(
	txRunner TxRunner,
	balanceRepo repository.StockBalanceRepository,
	movRepo repository.StockMovementRepository,
	log *logger.Logger,
) *Service {
	return &Service{
		txRunner:    txRunner,
		balanceRepo: balanceRepo,
		movRepo:     movRepo,
		log:         log,
		now:         time.Now,
	}
}

// CheckAvailability verifica si hay qty unidades disponibles del producto en
// la sucursal. Lectura pura; saldo inexistente = todo en cero.
func (s *Service) CheckAvailability(ctx context.Context, productID, locationID string, qty decimal.Decimal) (*dto.AvailabilityResponse, error) {
	if productID == "" || locationID == "" || !qty.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	bal, err := s.balanceRepo.Get(ctx, productID, locationID)
	if err != nil {
		return nil, err
	}
	available := bal.QtyAvailable()
	return &dto.AvailabilityResponse{
		Available:    available.GreaterThanOrEqual(qty),
		QtyAvailable: available,
		QtyOnHand:    bal.QtyOnHand,
		QtyReserved:  bal.QtyReserved,
		QtyPending:   bal.QtyPending,
		Requested:    qty,
	}, nil
}

// MovementInput entrada para registrar un movimiento directo de stock.
// Los tipos RESERVE/RESERVE_RETURN no se registran por aquí: los produce el
// ciclo de vida de reservas dentro de su propia transacción.
type MovementInput struct {
	ProductID  string
	LocationID string
	Type       string // ENTRY, EXIT, ADJUSTMENT
	Qty        decimal.Decimal
	RefType    string
	RefID      string
	Notes      string
	UserID     string
}

// PostMovement aplica un movimiento sobre qty_on_hand y agrega la entrada al
// libro, todo en una transacción con la fila del saldo bloqueada. ENTRY y
// ADJUSTMENT suman; EXIT resta. Para EXIT el servicio NO re-valida
// suficiencia: el caller debe haber pasado por CheckAvailability; si el
// resultado queda negativo se registra igual y se deja un warning.
// Devuelve el ID del movimiento creado.
func (s *Service) PostMovement(ctx context.Context, in MovementInput) (string, error) {
	switch in.Type {
	case entity.MovementTypeENTRY, entity.MovementTypeEXIT, entity.MovementTypeADJUSTMENT:
	default:
		return "", domain.ErrInvalidInput
	}
	if in.ProductID == "" || in.LocationID == "" || !in.Qty.GreaterThan(decimal.Zero) {
		return "", domain.ErrInvalidInput
	}

	now := s.now()
	var movementID string

	err := s.txRunner.Run(ctx, func(
		balanceRepo repository.StockBalanceRepository,
		movementRepo repository.StockMovementRepository,
	) error {
		// Bloquea la fila del saldo para serializar escritores concurrentes
		bal, err := balanceRepo.GetForUpdate(ctx, in.ProductID, in.LocationID)
		if err != nil {
			return err
		}
		before := bal.QtyOnHand
		var after decimal.Decimal
		if in.Type == entity.MovementTypeEXIT {
			after = before.Sub(in.Qty)
		} else {
			after = before.Add(in.Qty)
		}
		if after.IsNegative() {
			s.log.Warn().
				Str("product_id", in.ProductID).
				Str("location_id", in.LocationID).
				Str("qty_after", after.String()).
				Msg("movimiento deja qty_on_hand negativo")
		}

		bal.QtyOnHand = after
		bal.UpdatedAt = now
		if err := balanceRepo.Upsert(ctx, bal); err != nil {
			return err
		}

		mov := &entity.StockMovement{
			ProductID:  in.ProductID,
			LocationID: in.LocationID,
			Type:       in.Type,
			Qty:        in.Qty,
			QtyBefore:  before,
			QtyAfter:   after,
			RefType:    in.RefType,
			RefID:      in.RefID,
			Notes:      in.Notes,
			CreatedBy:  in.UserID,
			CreatedAt:  now,
		}
		if err := movementRepo.Create(ctx, mov); err != nil {
			return err
		}
		movementID = mov.ID
		return nil
	})
	if err != nil {
		return "", err
	}

	metrics.StockMovementsTotal.WithLabelValues(in.Type).Inc()
	return movementID, nil
}

// ListBalances proyección de solo lectura del listado de saldos.
func (s *Service) ListBalances(ctx context.Context, f repository.BalanceFilter) ([]*entity.StockBalance, int, error) {
	return s.balanceRepo.List(ctx, f)
}

// ListMovements proyección de solo lectura del libro de movimientos.
func (s *Service) ListMovements(ctx context.Context, f repository.MovementFilter) ([]*entity.StockMovement, int, error) {
	return s.movRepo.List(ctx, f)
}
