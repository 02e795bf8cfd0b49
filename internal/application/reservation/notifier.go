package reservation

import (
	"context"
	"fmt"
	"time"

	"github.com/dcamposl/negocio-api/internal/domain/entity"
	"github.com/dcamposl/negocio-api/internal/domain/repository"
	"github.com/dcamposl/negocio-api/internal/domain/reservation"
	"github.com/dcamposl/negocio-api/pkg/logger"
	"github.com/dcamposl/negocio-api/pkg/metrics"
)

// Notifier envía las notificaciones de transición de reservas: primero al
// vendedor dueño de la reserva y después a todos los gerentes activos. Cada
// envío se deduplica por (reserva, destinatario, tipo, día calendario), así el
// scheduler puede correr cada hora sin repetir avisos el mismo día.
type Notifier struct {
	notifRepo repository.NotificationRepository
	userRepo  repository.UserRepository
	log       *logger.Logger
}

// NewNotifier construye el notificador de reservas.
func NewNotifier(notifRepo repository.NotificationRepository, userRepo repository.UserRepository, log *logger.Logger) *Notifier {
	return &Notifier{notifRepo: notifRepo, userRepo: userRepo, log: log}
}

// NotifyTransition envía el aviso de la transición al vendedor y a los
// gerentes. Los errores por destinatario se registran pero no se propagan:
// un fallo con un gerente no debe impedir avisar al resto ni abortar el tick.
// Devuelve cuántas notificaciones se enviaron de verdad (no deduplicadas).
func (n *Notifier) NotifyTransition(ctx context.Context, res *entity.ReservationDetail, kind reservation.NotificationKind, day time.Time) int {
	sent := 0

	if n.send(ctx, res, res.SalespersonID, kind, day) {
		sent++
	}

	managers, err := n.userRepo.GetManagers(ctx)
	if err != nil {
		n.log.Error().Err(err).
			Str("reservation_id", res.ID).
			Msg("no se pudieron listar los gerentes para notificar")
		metrics.NotificationFailuresTotal.Inc()
		return sent
	}
	managerKind := kind.ManagerKind()
	for _, m := range managers {
		// Si el vendedor también es gerente ya recibió el aviso directo
		if m.ID == res.SalespersonID {
			continue
		}
		if n.send(ctx, res, m.ID, managerKind, day) {
			sent++
		}
	}
	return sent
}

// send entrega una notificación a un destinatario si no se le envió hoy.
// Devuelve true solo cuando la notificación se creó.
func (n *Notifier) send(ctx context.Context, res *entity.ReservationDetail, userID string, kind reservation.NotificationKind, day time.Time) bool {
	already, err := n.notifRepo.WasSentToday(ctx, res.ID, userID, kind, day)
	if err != nil {
		n.logSendError(err, res.ID, userID, kind)
		return false
	}
	if already {
		return false
	}

	title, message := n.compose(res, kind)
	notif := &entity.Notification{
		UserID:  userID,
		Type:    string(kind),
		Title:   title,
		Message: message,
		Metadata: map[string]any{
			"reservation_id": res.ID,
			"product_id":     res.ProductID,
		},
		CreatedAt: day,
	}
	if err := n.notifRepo.Create(ctx, notif); err != nil {
		n.logSendError(err, res.ID, userID, kind)
		return false
	}
	if err := n.notifRepo.LogSent(ctx, res.ID, userID, kind, day); err != nil {
		// La notificación salió pero el dedup no quedó registrado; mañana el
		// día calendario cambia igual, solo hay riesgo de un duplicado hoy.
		n.logSendError(err, res.ID, userID, kind)
	}
	metrics.NotificationsSentTotal.WithLabelValues(string(kind)).Inc()
	return true
}

func (n *Notifier) compose(res *entity.ReservationDetail, kind reservation.NotificationKind) (title, message string) {
	who := res.CustomerName
	if who == "" {
		who = "cliente sin registrar"
	}
	switch kind {
	case reservation.NotifyOverdue, reservation.NotifyOverdue.ManagerKind():
		title = "Reserva vencida"
		message = fmt.Sprintf("La reserva de %s x %s (%s) para %s venció el %s.",
			res.Qty.String(), res.ProductName, res.ProductCode, who,
			res.DueAt.Format("02/01/2006 15:04"))
	default:
		title = "Reserva por vencer"
		message = fmt.Sprintf("La reserva de %s x %s (%s) para %s vence el %s.",
			res.Qty.String(), res.ProductName, res.ProductCode, who,
			res.DueAt.Format("02/01/2006 15:04"))
	}
	return title, message
}

func (n *Notifier) logSendError(err error, reservationID, userID string, kind reservation.NotificationKind) {
	n.log.Error().Err(err).
		Str("reservation_id", reservationID).
		Str("user_id", userID).
		Str("kind", string(kind)).
		Msg("no se pudo enviar la notificación de reserva")
	metrics.NotificationFailuresTotal.Inc()
}
