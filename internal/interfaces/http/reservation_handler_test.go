package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appres "github.com/dcamposl/negocio-api/internal/application/reservation"
	"github.com/dcamposl/negocio-api/internal/domain/entity"
	"github.com/dcamposl/negocio-api/internal/domain/repository"
	"github.com/dcamposl/negocio-api/internal/domain/reservation"
	apphttp "github.com/dcamposl/negocio-api/internal/interfaces/http"
	"github.com/dcamposl/negocio-api/pkg/logger"
)

// filterSpyRepo captura el filtro que el handler arma para el listado.
type filterSpyRepo struct {
	lastFilter repository.ReservationFilter
}

var _ repository.ReservationRepository = (*filterSpyRepo)(nil)

func (r *filterSpyRepo) Create(context.Context, *entity.Reservation) error { return nil }
func (r *filterSpyRepo) GetByID(context.Context, string) (*entity.Reservation, error) {
	return nil, nil
}
func (r *filterSpyRepo) GetForUpdate(context.Context, string) (*entity.Reservation, error) {
	return nil, nil
}
func (r *filterSpyRepo) GetDetail(context.Context, string) (*entity.ReservationDetail, error) {
	return nil, nil
}
func (r *filterSpyRepo) UpdateFields(context.Context, string, *time.Time, *string) (bool, error) {
	return false, nil
}
func (r *filterSpyRepo) UpdateStatus(context.Context, string, reservation.Status, *time.Time) error {
	return nil
}
func (r *filterSpyRepo) List(_ context.Context, f repository.ReservationFilter) ([]*entity.ReservationDetail, int, error) {
	r.lastFilter = f
	return nil, 0, nil
}
func (r *filterSpyRepo) ListForStatusUpdate(context.Context, time.Time) ([]*entity.ReservationDetail, error) {
	return nil, nil
}

func newReservationListApp(t *testing.T) (*fiber.App, *filterSpyRepo) {
	t.Helper()
	repo := &filterSpyRepo{}
	uc := appres.NewUseCase(nil, repo, nil, nil, nil, logger.NewNop())
	h := apphttp.NewReservationHandler(uc, nil)
	app := fiber.New()
	app.Get("/api/reservations", h.List)
	return app, repo
}

func TestReservationList_FiltraPorVentanaDeVencimiento(t *testing.T) {
	app, repo := newReservationListApp(t)

	req := httptest.NewRequest(http.MethodGet,
		"/api/reservations?status=ACTIVE&due_from=2026-03-01T00:00:00Z&due_to=2026-03-31T23:59:59Z", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	f := repo.lastFilter
	assert.Equal(t, reservation.StatusActive, f.Status)
	require.NotNil(t, f.DueFrom)
	require.NotNil(t, f.DueTo)
	assert.True(t, f.DueFrom.Equal(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, f.DueTo.Equal(time.Date(2026, 3, 31, 23, 59, 59, 0, time.UTC)))
}

func TestReservationList_SinVentana(t *testing.T) {
	app, repo := newReservationListApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/reservations?product_id=p1", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	assert.Nil(t, repo.lastFilter.DueFrom)
	assert.Nil(t, repo.lastFilter.DueTo)
	assert.Equal(t, "p1", repo.lastFilter.ProductID)
}

func TestReservationList_VentanaInvalida(t *testing.T) {
	app, _ := newReservationListApp(t)

	for _, query := range []string{"due_from=ayer", "due_to=2026-13-99"} {
		req := httptest.NewRequest(http.MethodGet, "/api/reservations?"+query, nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, "query %s", query)
	}
}
