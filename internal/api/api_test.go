package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"hotel-booking-backend/config"
	"hotel-booking-backend/internal/booking"
	"hotel-booking-backend/internal/metrics"
	"hotel-booking-backend/internal/model"
	"hotel-booking-backend/internal/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var today = time.Date(2026, time.October, 18, 0, 0, 0, 0, time.UTC)

// date returns today plus n days as it appears on the wire.
func date(n int) string {
	return today.AddDate(0, 0, n).Format(time.DateOnly)
}

type testEnv struct {
	router    *gin.Engine
	bookings  store.Repository[model.Booking]
	rooms     store.Repository[model.Room]
	customers store.Repository[model.Customer]
	metrics   *metrics.Metrics
}

type envOption func(*envConfig)

type envConfig struct {
	server  config.ServerConfig
	db      *gorm.DB
	webpush *webpush.Options
}

func withServerConfig(cfg config.ServerConfig) envOption {
	return func(c *envConfig) { c.server = cfg }
}

func withPush(db *gorm.DB, opts *webpush.Options) envOption {
	return func(c *envConfig) {
		c.db = db
		c.webpush = opts
	}
}

// newTestEnv builds the router over in-memory repositories with the given
// number of rooms and one customer.
func newTestEnv(t *testing.T, roomCount int, opts ...envOption) *testEnv {
	t.Helper()
	cfg := &envConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	env := &testEnv{
		bookings:  store.NewMemoryRepository[model.Booking](),
		rooms:     store.NewMemoryRepository[model.Room](),
		customers: store.NewMemoryRepository[model.Customer](),
		metrics:   metrics.New(),
	}
	ctx := context.Background()
	require.NoError(t, env.customers.Add(ctx, &model.Customer{Name: "Ada Lovelace", Email: "ada@example.com"}))
	for i := 0; i < roomCount; i++ {
		require.NoError(t, env.rooms.Add(ctx, &model.Room{Description: "Double"}))
	}

	manager := booking.NewManager(env.bookings, env.rooms, env.customers,
		booking.WithMetrics(env.metrics),
		booking.WithClock(func() time.Time { return today.Add(9 * time.Hour) }),
	)
	handler := NewHandler(manager, env.rooms, env.customers, cfg.db, cfg.webpush)
	env.router = NewRouter(handler, &cfg.server, env.metrics)
	return env
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func createBody(start, end int) gin.H {
	return gin.H{"start_date": date(start), "end_date": date(end), "customer_id": 1}
}
