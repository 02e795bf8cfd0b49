package reservation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dcamposl/negocio-api/internal/domain/entity"
	domres "github.com/dcamposl/negocio-api/internal/domain/reservation"
	"github.com/dcamposl/negocio-api/pkg/logger"
)

func newSchedulerForTest(t *testing.T) (*Scheduler, *memStore, *memNotifications) {
	t.Helper()
	store := newMemStore()
	store.productNames["p1"] = "Taladro percutor"
	notifs := newMemNotifications()
	users := &memUsers{users: map[string]*entity.User{
		"vend-1": {ID: "vend-1", Name: "Juan", Role: entity.RoleVendedor, Active: true},
		"ger-1":  {ID: "ger-1", Name: "Ana", Role: entity.RoleGerente, Active: true},
	}}
	notifier := NewNotifier(notifs, users, logger.NewNop())
	sched := NewScheduler(&memTxRunner{store}, resRepoAdapter{store}, notifier, logger.NewNop(), time.Hour, 24*time.Hour)
	sched.now = func() time.Time { return testNow }
	return sched, store, notifs
}

func seedReservation(store *memStore, id string, status domres.Status, dueAt time.Time) {
	store.reservations[id] = &entity.Reservation{
		ID:            id,
		ProductID:     "p1",
		LocationID:    "loc-1",
		SalespersonID: "vend-1",
		Qty:           intDec(2),
		Status:        status,
		DueAt:         dueAt,
	}
}

func TestTickMarksDueSoon(t *testing.T) {
	sched, store, notifs := newSchedulerForTest(t)
	seedReservation(store, "res-1", domres.StatusActive, testNow.Add(23*time.Hour))

	sched.Tick(context.Background())

	assert.Equal(t, domres.StatusDueSoon, store.reservations["res-1"].Status)

	require.Len(t, store.events, 1)
	assert.Equal(t, entity.EventSTATUSCHANGED, store.events[0].EventType)
	assert.Equal(t, domres.StatusActive, store.events[0].OldStatus)
	assert.Equal(t, domres.StatusDueSoon, store.events[0].NewStatus)

	// Vendedor y gerente reciben cada uno su variante
	vend := notifs.forUser("vend-1")
	require.Len(t, vend, 1)
	assert.Equal(t, string(domres.NotifyDueSoon), vend[0].Type)

	ger := notifs.forUser("ger-1")
	require.Len(t, ger, 1)
	assert.Equal(t, string(domres.NotifyDueSoon.ManagerKind()), ger[0].Type)
}

func TestTickMarksOverdue(t *testing.T) {
	sched, store, notifs := newSchedulerForTest(t)
	seedReservation(store, "res-1", domres.StatusDueSoon, testNow.Add(-time.Minute))

	sched.Tick(context.Background())

	assert.Equal(t, domres.StatusOverdue, store.reservations["res-1"].Status)
	vend := notifs.forUser("vend-1")
	require.Len(t, vend, 1)
	assert.Equal(t, string(domres.NotifyOverdue), vend[0].Type)
	assert.Contains(t, vend[0].Message, "venció")
}

func TestTickIgnoresFarFutureAndTerminal(t *testing.T) {
	sched, store, notifs := newSchedulerForTest(t)
	seedReservation(store, "res-lejos", domres.StatusActive, testNow.Add(48*time.Hour))
	seedReservation(store, "res-devuelta", domres.StatusReturned, testNow.Add(-time.Hour))

	sched.Tick(context.Background())

	assert.Equal(t, domres.StatusActive, store.reservations["res-lejos"].Status)
	assert.Equal(t, domres.StatusReturned, store.reservations["res-devuelta"].Status)
	assert.Empty(t, store.events)
	assert.Empty(t, notifs.notifications)
}

func TestTickIsIdempotentWithinTheDay(t *testing.T) {
	sched, store, notifs := newSchedulerForTest(t)
	seedReservation(store, "res-1", domres.StatusActive, testNow.Add(23*time.Hour))

	sched.Tick(context.Background())
	sched.Tick(context.Background())

	// La segunda pasada no repite ni transición ni notificaciones
	assert.Len(t, store.events, 1)
	assert.Len(t, notifs.notifications, 2)
}

func TestNotifierDedupsPerDayAndResetsNextDay(t *testing.T) {
	_, store, notifs := newSchedulerForTest(t)
	seedReservation(store, "res-1", domres.StatusOverdue, testNow.Add(-time.Hour))
	users := &memUsers{users: map[string]*entity.User{
		"vend-1": {ID: "vend-1", Role: entity.RoleVendedor, Active: true},
	}}
	notifier := NewNotifier(notifs, users, logger.NewNop())
	detail := store.detail(store.reservations["res-1"])

	sent := notifier.NotifyTransition(context.Background(), detail, domres.NotifyOverdue, testNow)
	assert.Equal(t, 1, sent)

	// Mismo día: dedup
	sent = notifier.NotifyTransition(context.Background(), detail, domres.NotifyOverdue, testNow)
	assert.Equal(t, 0, sent)

	// Día siguiente: vuelve a avisar
	sent = notifier.NotifyTransition(context.Background(), detail, domres.NotifyOverdue, testNow.Add(24*time.Hour))
	assert.Equal(t, 1, sent)
	assert.Len(t, notifs.forUser("vend-1"), 2)
}

func TestNotifierSkipsSalespersonInManagerFanout(t *testing.T) {
	notifs := newMemNotifications()
	// El vendedor dueño de la reserva también es gerente
	users := &memUsers{users: map[string]*entity.User{
		"ger-vend": {ID: "ger-vend", Role: entity.RoleGerente, Active: true},
		"ger-2":    {ID: "ger-2", Role: entity.RoleGerente, Active: true},
	}}
	notifier := NewNotifier(notifs, users, logger.NewNop())
	detail := &entity.ReservationDetail{Reservation: entity.Reservation{
		ID: "res-1", ProductID: "p1", SalespersonID: "ger-vend",
		Qty: intDec(1), DueAt: testNow,
	}}

	sent := notifier.NotifyTransition(context.Background(), detail, domres.NotifyOverdue, testNow)
	assert.Equal(t, 2, sent)

	// Recibe solo la variante directa, no la de gerente
	own := notifs.forUser("ger-vend")
	require.Len(t, own, 1)
	assert.Equal(t, string(domres.NotifyOverdue), own[0].Type)

	other := notifs.forUser("ger-2")
	require.Len(t, other, 1)
	assert.Equal(t, string(domres.NotifyOverdue.ManagerKind()), other[0].Type)
}

func TestTickContinuesWhenNotificationFails(t *testing.T) {
	sched, store, notifs := newSchedulerForTest(t)
	notifs.createErr = errors.New("sink caído")
	seedReservation(store, "res-1", domres.StatusActive, testNow.Add(-time.Hour))

	sched.Tick(context.Background())

	// La transición se aplica aunque no se pueda notificar
	assert.Equal(t, domres.StatusOverdue, store.reservations["res-1"].Status)
	assert.Len(t, store.events, 1)
	assert.Empty(t, notifs.notifications)
}

func TestSchedulerStartStop(t *testing.T) {
	sched, store, _ := newSchedulerForTest(t)
	seedReservation(store, "res-1", domres.StatusActive, testNow.Add(23*time.Hour))

	sched.Start()
	sched.Stop()

	// El tick inmediato del arranque alcanzó a correr antes del Stop
	assert.Equal(t, domres.StatusDueSoon, store.reservations["res-1"].Status)
}
