package reservation

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dcamposl/negocio-api/internal/domain/entity"
	"github.com/dcamposl/negocio-api/internal/domain/repository"
	domres "github.com/dcamposl/negocio-api/internal/domain/reservation"
)

func intDec(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

// memStore implementa en memoria los cuatro repos que participan en las
// transacciones de reservas. Los tests verifican sobre sus slices/maps.
type memStore struct {
	reservations map[string]*entity.Reservation
	events       []*entity.ReservationEvent
	balances     map[string]*entity.StockBalance
	movements    []*entity.StockMovement

	productNames map[string]string
	seq          int
}

func newMemStore() *memStore {
	return &memStore{
		reservations: map[string]*entity.Reservation{},
		balances:     map[string]*entity.StockBalance{},
		productNames: map[string]string{},
	}
}

func balanceKey(productID, locationID string) string {
	return productID + "|" + locationID
}

func (s *memStore) setBalance(productID, locationID string, onHand, reserved int64) {
	s.balances[balanceKey(productID, locationID)] = &entity.StockBalance{
		ProductID:   productID,
		LocationID:  locationID,
		QtyOnHand:   intDec(onHand),
		QtyReserved: intDec(reserved),
	}
}

// --- ReservationRepository ---

func (s *memStore) Create(_ context.Context, r *entity.Reservation) error {
	s.seq++
	r.ID = fmt.Sprintf("res-%d", s.seq)
	cp := *r
	s.reservations[r.ID] = &cp
	return nil
}

func (s *memStore) GetByID(_ context.Context, id string) (*entity.Reservation, error) {
	r, ok := s.reservations[id]
	if !ok {
		return nil, nil
	}
	cp := *r
	return &cp, nil
}

func (s *memStore) GetForUpdate(ctx context.Context, id string) (*entity.Reservation, error) {
	return s.GetByID(ctx, id)
}

func (s *memStore) GetDetail(_ context.Context, id string) (*entity.ReservationDetail, error) {
	r, ok := s.reservations[id]
	if !ok {
		return nil, nil
	}
	return s.detail(r), nil
}

func (s *memStore) detail(r *entity.Reservation) *entity.ReservationDetail {
	return &entity.ReservationDetail{
		Reservation: *r,
		ProductCode: "COD-" + r.ProductID,
		ProductName: s.productNames[r.ProductID],
	}
}

func (s *memStore) UpdateFields(_ context.Context, id string, dueAt *time.Time, notes *string) (bool, error) {
	r, ok := s.reservations[id]
	if !ok {
		return false, nil
	}
	if dueAt != nil {
		r.DueAt = *dueAt
	}
	if notes != nil {
		r.Notes = *notes
	}
	return true, nil
}

func (s *memStore) UpdateStatus(_ context.Context, id string, status domres.Status, returnedAt *time.Time) error {
	r, ok := s.reservations[id]
	if !ok {
		return fmt.Errorf("reserva %s no existe", id)
	}
	r.Status = status
	if returnedAt != nil {
		r.ReturnedAt = returnedAt
	}
	return nil
}

func (s *memStore) List(_ context.Context, f repository.ReservationFilter) ([]*entity.ReservationDetail, int, error) {
	var out []*entity.ReservationDetail
	for _, r := range s.reservations {
		if f.Status != "" && r.Status != f.Status {
			continue
		}
		out = append(out, s.detail(r))
	}
	return out, len(out), nil
}

func (s *memStore) ListForStatusUpdate(_ context.Context, before time.Time) ([]*entity.ReservationDetail, error) {
	var out []*entity.ReservationDetail
	for _, r := range s.reservations {
		if r.Status != domres.StatusActive && r.Status != domres.StatusDueSoon {
			continue
		}
		if r.DueAt.After(before) {
			continue
		}
		out = append(out, s.detail(r))
	}
	return out, nil
}

// --- ReservationEventRepository ---

func (s *memStore) CreateEvent(_ context.Context, e *entity.ReservationEvent) error {
	s.seq++
	e.ID = fmt.Sprintf("evt-%d", s.seq)
	cp := *e
	s.events = append(s.events, &cp)
	return nil
}

func (s *memStore) ListByReservation(_ context.Context, reservationID string) ([]*entity.ReservationEvent, error) {
	var out []*entity.ReservationEvent
	for _, e := range s.events {
		if e.ReservationID == reservationID {
			out = append(out, e)
		}
	}
	return out, nil
}

// --- StockBalanceRepository ---

func (s *memStore) Get(_ context.Context, productID, locationID string) (*entity.StockBalance, error) {
	b, ok := s.balances[balanceKey(productID, locationID)]
	if !ok {
		return &entity.StockBalance{ProductID: productID, LocationID: locationID}, nil
	}
	cp := *b
	return &cp, nil
}

func (s *memStore) GetBalanceForUpdate(ctx context.Context, productID, locationID string) (*entity.StockBalance, error) {
	return s.Get(ctx, productID, locationID)
}

func (s *memStore) Upsert(_ context.Context, balance *entity.StockBalance) error {
	cp := *balance
	s.balances[balanceKey(balance.ProductID, balance.LocationID)] = &cp
	return nil
}

func (s *memStore) ListBalances(_ context.Context, _ repository.BalanceFilter) ([]*entity.StockBalance, int, error) {
	var out []*entity.StockBalance
	for _, b := range s.balances {
		out = append(out, b)
	}
	return out, len(out), nil
}

// --- StockMovementRepository ---

func (s *memStore) CreateMovement(_ context.Context, m *entity.StockMovement) error {
	s.seq++
	m.ID = fmt.Sprintf("mov-%d", s.seq)
	cp := *m
	s.movements = append(s.movements, &cp)
	return nil
}

func (s *memStore) GetMovementByID(_ context.Context, id string) (*entity.StockMovement, error) {
	for _, m := range s.movements {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, nil
}

func (s *memStore) ListMovements(_ context.Context, _ repository.MovementFilter) ([]*entity.StockMovement, int, error) {
	return s.movements, len(s.movements), nil
}

func (s *memStore) movementsOfType(typ string) []*entity.StockMovement {
	var out []*entity.StockMovement
	for _, m := range s.movements {
		if m.Type == typ {
			out = append(out, m)
		}
	}
	return out
}

// Adaptadores para presentar memStore bajo cada interfaz de repo sin chocar
// nombres de métodos.

type resRepoAdapter struct{ *memStore }

var _ repository.ReservationRepository = resRepoAdapter{}

type eventRepoAdapter struct{ *memStore }

func (a eventRepoAdapter) Create(ctx context.Context, e *entity.ReservationEvent) error {
	return a.CreateEvent(ctx, e)
}

var _ repository.ReservationEventRepository = eventRepoAdapter{}

type balanceRepoAdapter struct{ *memStore }

func (a balanceRepoAdapter) GetForUpdate(ctx context.Context, productID, locationID string) (*entity.StockBalance, error) {
	return a.GetBalanceForUpdate(ctx, productID, locationID)
}

func (a balanceRepoAdapter) List(ctx context.Context, f repository.BalanceFilter) ([]*entity.StockBalance, int, error) {
	return a.ListBalances(ctx, f)
}

var _ repository.StockBalanceRepository = balanceRepoAdapter{}

type movementRepoAdapter struct{ *memStore }

func (a movementRepoAdapter) Create(ctx context.Context, m *entity.StockMovement) error {
	return a.CreateMovement(ctx, m)
}

func (a movementRepoAdapter) GetByID(ctx context.Context, id string) (*entity.StockMovement, error) {
	return a.GetMovementByID(ctx, id)
}

func (a movementRepoAdapter) List(ctx context.Context, f repository.MovementFilter) ([]*entity.StockMovement, int, error) {
	return a.ListMovements(ctx, f)
}

var _ repository.StockMovementRepository = movementRepoAdapter{}

// memTxRunner pasa los repos en memoria a la función; no hay tx real.
type memTxRunner struct{ store *memStore }

func (t *memTxRunner) RunReservation(ctx context.Context, fn func(
	resRepo repository.ReservationRepository,
	eventRepo repository.ReservationEventRepository,
	balanceRepo repository.StockBalanceRepository,
	movementRepo repository.StockMovementRepository,
) error) error {
	return fn(
		resRepoAdapter{t.store},
		eventRepoAdapter{t.store},
		balanceRepoAdapter{t.store},
		movementRepoAdapter{t.store},
	)
}

// memProducts / memCustomers / memUsers

type memProducts struct{ products map[string]*entity.Product }

func (p *memProducts) GetByID(_ context.Context, id string) (*entity.Product, error) {
	return p.products[id], nil
}

type memCustomers struct{ customers map[string]*entity.Customer }

func (c *memCustomers) GetByID(_ context.Context, id string) (*entity.Customer, error) {
	return c.customers[id], nil
}

type memUsers struct{ users map[string]*entity.User }

func (u *memUsers) GetByID(_ context.Context, id string) (*entity.User, error) {
	return u.users[id], nil
}

func (u *memUsers) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, usr := range u.users {
		if usr.Email == email {
			return usr, nil
		}
	}
	return nil, nil
}

func (u *memUsers) GetManagers(_ context.Context) ([]*entity.User, error) {
	var out []*entity.User
	for _, usr := range u.users {
		if usr.Role == entity.RoleGerente && usr.Active {
			out = append(out, usr)
		}
	}
	return out, nil
}

// memNotifications guarda las notificaciones y el registro de dedup.
// createErr permite simular un sink que falla.
type memNotifications struct {
	notifications []*entity.Notification
	sentLog       map[string]bool
	createErr     error
}

func newMemNotifications() *memNotifications {
	return &memNotifications{sentLog: map[string]bool{}}
}

func dedupKey(reservationID, userID string, kind domres.NotificationKind, day time.Time) string {
	return reservationID + "|" + userID + "|" + string(kind) + "|" + day.Format("2006-01-02")
}

func (n *memNotifications) Create(_ context.Context, notif *entity.Notification) error {
	if n.createErr != nil {
		return n.createErr
	}
	cp := *notif
	n.notifications = append(n.notifications, &cp)
	return nil
}

func (n *memNotifications) WasSentToday(_ context.Context, reservationID, userID string, kind domres.NotificationKind, day time.Time) (bool, error) {
	return n.sentLog[dedupKey(reservationID, userID, kind, day)], nil
}

func (n *memNotifications) LogSent(_ context.Context, reservationID, userID string, kind domres.NotificationKind, day time.Time) error {
	n.sentLog[dedupKey(reservationID, userID, kind, day)] = true
	return nil
}

func (n *memNotifications) forUser(userID string) []*entity.Notification {
	var out []*entity.Notification
	for _, notif := range n.notifications {
		if notif.UserID == userID {
			out = append(out, notif)
		}
	}
	return out
}
