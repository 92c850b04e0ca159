package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
	db "github.com/manokmart/manokmart-BE/internal/db"
	"github.com/manokmart/manokmart-BE/internal/delivery"
	"github.com/manokmart/manokmart-BE/internal/lalamove"
	"github.com/manokmart/manokmart-BE/internal/util"
	"github.com/stretchr/testify/require"
	"github.com/zpmep/hmacutil"
)

const testWebhookSecret = "whsec_test"

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// memStore holds one order and its delivery row, enough state for the
// handler tests.
type memStore struct {
	order    db.Order
	delivery *db.OrderDelivery
}

func (s *memStore) GetOrderByID(ctx context.Context, id string) (db.Order, error) {
	if s.order.ID != id {
		return db.Order{}, db.ErrRecordNotFound
	}
	return s.order, nil
}

func (s *memStore) UpdateOrderStatus(ctx context.Context, arg db.UpdateOrderStatusParams) (db.Order, error) {
	s.order.Status = arg.Status
	return s.order, nil
}

func (s *memStore) ListDeliveredOrdersBefore(ctx context.Context, cutoff time.Time) ([]db.Order, error) {
	return nil, nil
}

func (s *memStore) GetOrderDeliveryByOrderID(ctx context.Context, orderID string) (db.OrderDelivery, error) {
	if s.delivery == nil || s.delivery.OrderID != orderID {
		return db.OrderDelivery{}, db.ErrRecordNotFound
	}
	return *s.delivery, nil
}

func (s *memStore) GetOrderDeliveryByProviderOrderID(ctx context.Context, providerOrderID string) (db.OrderDelivery, error) {
	if s.delivery == nil || s.delivery.ProviderOrderID == nil || *s.delivery.ProviderOrderID != providerOrderID {
		return db.OrderDelivery{}, db.ErrRecordNotFound
	}
	return *s.delivery, nil
}

func (s *memStore) CreateOrderDelivery(ctx context.Context, arg db.CreateOrderDeliveryParams) (db.OrderDelivery, error) {
	if s.delivery != nil && s.delivery.OrderID == arg.OrderID {
		return db.OrderDelivery{}, &pgconn.PgError{Code: db.UniqueViolationCode, ConstraintName: db.UniqueOrderDeliveryConstraint}
	}
	return s.UpsertOrderDelivery(ctx, db.UpsertOrderDeliveryParams(arg))
}

func (s *memStore) UpsertOrderDelivery(ctx context.Context, arg db.UpsertOrderDeliveryParams) (db.OrderDelivery, error) {
	s.delivery = &db.OrderDelivery{
		ID:              1,
		OrderID:         arg.OrderID,
		ProviderOrderID: arg.ProviderOrderID,
		QuotationID:     arg.QuotationID,
		Status:          arg.Status,
		ServiceType:     arg.ServiceType,
		PriceAmount:     arg.PriceAmount,
		PriceCurrency:   arg.PriceCurrency,
		Reference:       arg.Reference,
	}
	return *s.delivery, nil
}

func (s *memStore) UpdateOrderDelivery(ctx context.Context, arg db.UpdateOrderDeliveryParams) (db.OrderDelivery, error) {
	if s.delivery == nil || s.delivery.ID != arg.ID {
		return db.OrderDelivery{}, db.ErrRecordNotFound
	}
	if arg.Status != nil {
		s.delivery.Status = arg.Status
	}
	if arg.DriverName != nil {
		s.delivery.DriverName = arg.DriverName
	}
	if arg.TrackingLat != nil {
		s.delivery.TrackingLat = arg.TrackingLat
	}
	if arg.TrackingLng != nil {
		s.delivery.TrackingLng = arg.TrackingLng
	}
	return *s.delivery, nil
}

func (s *memStore) GetActiveOrderDeliveries(ctx context.Context) ([]db.GetActiveOrderDeliveriesRow, error) {
	return nil, nil
}

func (s *memStore) CreateNotification(ctx context.Context, arg db.CreateNotificationParams) (db.Notification, error) {
	return db.Notification{}, nil
}

func (s *memStore) Ping(ctx context.Context) error {
	return nil
}

func newTestServer(t *testing.T) (*Server, *memStore) {
	t.Helper()

	store := &memStore{
		order: db.Order{
			ID:      "ord-0001",
			Code:    "MM2401",
			BuyerID: "buyer-1",
			Status:  db.OrderStatusPackaging,
		},
		delivery: &db.OrderDelivery{
			ID:              1,
			OrderID:         "ord-0001",
			ProviderOrderID: util.StringPointer("order-777"),
			Status:          util.StringPointer(lalamove.StatusAssigningDriver),
		},
	}

	config := &util.Config{
		AllowedOrigins:          []string{"http://localhost:3000"},
		LalamoveWebhookSecret:   testWebhookSecret,
		DeliveryRedispatchDelay: 5 * time.Minute,
	}

	orchestrator := delivery.NewOrchestrator(nil, store, nil, nil, nil, nil, config)
	server := NewServer(store, config, orchestrator, nil, nil, nil)
	return server, store
}

func postWebhook(t *testing.T, server *Server, payload lalamove.WebhookPayload, sign bool) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/webhook/lalamove/delivery", bytes.NewReader(body))
	if sign {
		signature := hmacutil.HexStringEncode(hmacutil.SHA256, testWebhookSecret, string(body))
		req.Header.Set(lalamove.WebhookSignatureHeader, signature)
	}

	recorder := httptest.NewRecorder()
	server.router.ServeHTTP(recorder, req)
	return recorder
}

func TestWebhookRejectsUnsignedRequests(t *testing.T) {
	server, store := newTestServer(t)

	payload := lalamove.WebhookPayload{
		Data: lalamove.WebhookData{OrderID: "order-777", Status: lalamove.StatusPickedUp},
	}

	recorder := postWebhook(t, server, payload, false)
	require.Equal(t, http.StatusUnauthorized, recorder.Code)
	require.Equal(t, lalamove.StatusAssigningDriver, *store.delivery.Status)
}

func TestWebhookRejectsTamperedBody(t *testing.T) {
	server, store := newTestServer(t)

	body, err := json.Marshal(lalamove.WebhookPayload{
		Data: lalamove.WebhookData{OrderID: "order-777", Status: lalamove.StatusPickedUp},
	})
	require.NoError(t, err)

	signature := hmacutil.HexStringEncode(hmacutil.SHA256, testWebhookSecret, string(body))
	tampered := bytes.Replace(body, []byte("PICKED_UP"), []byte("COMPLETED"), 1)

	req := httptest.NewRequest(http.MethodPost, "/webhook/lalamove/delivery", bytes.NewReader(tampered))
	req.Header.Set(lalamove.WebhookSignatureHeader, signature)

	recorder := httptest.NewRecorder()
	server.router.ServeHTTP(recorder, req)

	require.Equal(t, http.StatusUnauthorized, recorder.Code)
	require.Equal(t, lalamove.StatusAssigningDriver, *store.delivery.Status)
}

func TestWebhookAppliesStatusUpdate(t *testing.T) {
	server, store := newTestServer(t)

	payload := lalamove.WebhookPayload{
		Data: lalamove.WebhookData{
			OrderID: "order-777",
			Status:  lalamove.StatusPickedUp,
			Driver:  &lalamove.Driver{Name: "Ramon", Phone: "+639170001111"},
		},
	}

	recorder := postWebhook(t, server, payload, true)
	require.Equal(t, http.StatusOK, recorder.Code)
	require.Equal(t, lalamove.StatusPickedUp, *store.delivery.Status)
	require.Equal(t, "Ramon", *store.delivery.DriverName)
	require.Equal(t, db.OrderStatusDelivering, store.order.Status)
}

func TestWebhookReplayIsIdempotent(t *testing.T) {
	server, store := newTestServer(t)

	payload := lalamove.WebhookPayload{
		Data: lalamove.WebhookData{OrderID: "order-777", Status: lalamove.StatusPickedUp},
	}

	require.Equal(t, http.StatusOK, postWebhook(t, server, payload, true).Code)
	require.Equal(t, http.StatusOK, postWebhook(t, server, payload, true).Code)
	require.Equal(t, db.OrderStatusDelivering, store.order.Status)
}

func TestWebhookUnknownOrderReturns404(t *testing.T) {
	server, _ := newTestServer(t)

	payload := lalamove.WebhookPayload{
		Data: lalamove.WebhookData{OrderID: "order-999", Status: lalamove.StatusPickedUp},
	}

	recorder := postWebhook(t, server, payload, true)
	require.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestWebhookRejectsIncompletePayload(t *testing.T) {
	server, _ := newTestServer(t)

	payload := lalamove.WebhookPayload{
		Data: lalamove.WebhookData{OrderID: "order-777"},
	}

	recorder := postWebhook(t, server, payload, true)
	require.Equal(t, http.StatusBadRequest, recorder.Code)
}
