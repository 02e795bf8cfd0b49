package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SchedulerTicksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reservation_scheduler_ticks_total",
		Help: "Total de ticks ejecutados por el scheduler de reservas",
	})

	StatusUpdatesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reservation_status_updates_total",
		Help: "Total de reservas reclasificadas por estado destino",
	}, []string{"status"})

	NotificationsSentTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reservation_notifications_sent_total",
		Help: "Total de notificaciones de reserva enviadas por tipo",
	}, []string{"type"})

	NotificationFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reservation_notification_failures_total",
		Help: "Total de fallos al notificar (no abortan el tick)",
	})

	StockMovementsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stock_movements_total",
		Help: "Total de movimientos de stock registrados por tipo",
	}, []string{"type"})
)
