package reservation

import (
	"context"
	"sync"
	"time"

	"github.com/dcamposl/negocio-api/internal/domain/entity"
	"github.com/dcamposl/negocio-api/internal/domain/repository"
	"github.com/dcamposl/negocio-api/internal/domain/reservation"
	"github.com/dcamposl/negocio-api/pkg/logger"
	"github.com/dcamposl/negocio-api/pkg/metrics"
)

// Scheduler recorre periódicamente las reservas abiertas y aplica las
// transiciones por tiempo (ACTIVE -> DUE_SOON -> OVERDUE), notificando al
// vendedor y a los gerentes. Un solo goroutine por proceso; si un tick sigue
// corriendo cuando vence el intervalo, el siguiente se salta.
type Scheduler struct {
	txRunner TxRunner
	resRepo  repository.ReservationRepository
	notifier *Notifier
	log      *logger.Logger

	interval time.Duration
	horizon  time.Duration
	now      func() time.Time

	mu   sync.Mutex
	stop chan struct{}
	done chan struct{}
}

// NewScheduler construye el scheduler. horizon es la antelación con la que una
// reserva ACTIVE pasa a DUE_SOON; interval es el período entre ticks.
func NewScheduler(
	txRunner TxRunner,
	resRepo repository.ReservationRepository,
	notifier *Notifier,
	log *logger.Logger,
	interval, horizon time.Duration,
) *Scheduler {
	return &Scheduler{
		txRunner: txRunner,
		resRepo:  resRepo,
		notifier: notifier,
		log:      log,
		interval: interval,
		horizon:  horizon,
		now:      time.Now,
	}
}

// Start lanza el goroutine del scheduler con un tick inmediato al arrancar.
func (s *Scheduler) Start() {
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	go s.run()
	s.log.Info().
		Dur("interval", s.interval).
		Dur("horizon", s.horizon).
		Msg("scheduler de reservas iniciado")
}

// Stop detiene el scheduler y espera a que termine el tick en curso.
func (s *Scheduler) Stop() {
	close(s.stop)
	<-s.done
	s.log.Info().Msg("scheduler de reservas detenido")
}

func (s *Scheduler) run() {
	defer close(s.done)

	s.Tick(context.Background())

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.Tick(context.Background())
		}
	}
}

// Tick ejecuta una pasada completa: lista las reservas abiertas con vencimiento
// dentro del horizonte, aplica cada transición en su propia transacción y
// notifica. Si otro tick sigue corriendo, este se salta. Exportado para poder
// dispararlo a demanda.
func (s *Scheduler) Tick(ctx context.Context) {
	if !s.mu.TryLock() {
		s.log.Warn().Msg("tick anterior todavía en curso; se salta este")
		return
	}
	defer s.mu.Unlock()

	metrics.SchedulerTicksTotal.Inc()
	now := s.now()

	// ACTIVE y DUE_SOON con due_at dentro del horizonte; las OVERDUE ya no
	// tienen transición por tiempo pendiente.
	candidates, err := s.resRepo.ListForStatusUpdate(ctx, now.Add(s.horizon))
	if err != nil {
		s.log.Error().Err(err).Msg("no se pudieron listar las reservas por vencer")
		return
	}

	updated, notified := 0, 0
	for _, res := range candidates {
		tr, ok := reservation.Evaluate(res.Status, res.DueAt, now, s.horizon)
		if !ok {
			continue
		}
		if err := s.applyTransition(ctx, res, tr, now); err != nil {
			s.log.Error().Err(err).
				Str("reservation_id", res.ID).
				Str("new_status", string(tr.Next)).
				Msg("no se pudo aplicar la transición de la reserva")
			continue
		}
		updated++
		metrics.StatusUpdatesTotal.WithLabelValues(string(tr.Next)).Inc()
		notified += s.notifier.NotifyTransition(ctx, res, tr.Notify, now)
	}

	if updated > 0 || notified > 0 {
		s.log.Info().
			Int("candidates", len(candidates)).
			Int("updated", updated).
			Int("notified", notified).
			Msg("tick de reservas completado")
	}
}

// applyTransition persiste el cambio de estado y su evento en una transacción.
func (s *Scheduler) applyTransition(ctx context.Context, res *entity.ReservationDetail, tr reservation.Transition, now time.Time) error {
	return s.txRunner.RunReservation(ctx, func(
		resRepo repository.ReservationRepository,
		eventRepo repository.ReservationEventRepository,
		_ repository.StockBalanceRepository,
		_ repository.StockMovementRepository,
	) error {
		if err := resRepo.UpdateStatus(ctx, res.ID, tr.Next, nil); err != nil {
			return err
		}
		event := &entity.ReservationEvent{
			ReservationID: res.ID,
			EventType:     entity.EventSTATUSCHANGED,
			OldStatus:     res.Status,
			NewStatus:     tr.Next,
			CreatedBy:     "scheduler",
			CreatedAt:     now,
		}
		return eventRepo.Create(ctx, event)
	})
}
