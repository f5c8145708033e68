package orders

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	internalorders "github.com/angelmondragon/cafepos-backend/internal/orders"
	pkgerrors "github.com/angelmondragon/cafepos-backend/pkg/errors"
	"github.com/angelmondragon/cafepos-backend/pkg/logger"
)

type stubOrdersService struct {
	create func(ctx context.Context, input internalorders.CartInput) (*internalorders.OrderDTO, error)
	quote  func(ctx context.Context, input internalorders.CartInput) (*internalorders.QuoteDTO, error)
	list   func(ctx context.Context, input internalorders.ListInput) ([]internalorders.OrderDTO, error)
	get    func(ctx context.Context, orderID uuid.UUID) (*internalorders.OrderDTO, error)
}

func (s *stubOrdersService) Create(ctx context.Context, input internalorders.CartInput) (*internalorders.OrderDTO, error) {
	return s.create(ctx, input)
}

func (s *stubOrdersService) Quote(ctx context.Context, input internalorders.CartInput) (*internalorders.QuoteDTO, error) {
	return s.quote(ctx, input)
}

func (s *stubOrdersService) List(ctx context.Context, input internalorders.ListInput) ([]internalorders.OrderDTO, error) {
	return s.list(ctx, input)
}

func (s *stubOrdersService) Get(ctx context.Context, orderID uuid.UUID) (*internalorders.OrderDTO, error) {
	return s.get(ctx, orderID)
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Level: logger.ParseLevel("debug"), Output: io.Discard})
}

func TestCreateMapsCartAndReturnsCreated(t *testing.T) {
	productID := uuid.New()
	variantID := uuid.New()
	addonID := uuid.New()
	orderID := uuid.New()

	var got internalorders.CartInput
	svc := &stubOrdersService{create: func(_ context.Context, input internalorders.CartInput) (*internalorders.OrderDTO, error) {
		got = input
		return &internalorders.OrderDTO{ID: orderID, OrderNumber: 1}, nil
	}}

	body := `{"items":[{"productId":"` + productID.String() + `","variantId":"` + variantID.String() + `","quantity":2,` +
		`"addons":[{"addonId":"` + addonID.String() + `","quantity":1}]}],"paid":"200","orderType":"take_out"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(body))
	rec := httptest.NewRecorder()
	Create(svc, testLogger()).ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, got.Items, 1)
	require.Equal(t, variantID, got.Items[0].VariantID)
	require.Equal(t, 2, got.Items[0].Quantity)
	require.Equal(t, []internalorders.CartAddon{{AddonID: addonID, Quantity: 1}}, got.Items[0].Addons)
	require.True(t, got.Paid.Equal(decimal.NewFromInt(200)))
	require.Nil(t, got.Total)
	require.Equal(t, "take_out", got.OrderType)

	var envelope struct {
		Data struct {
			ID uuid.UUID `json:"id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.Equal(t, orderID, envelope.Data.ID)
}

func TestCreateRejectsNonNumericPaid(t *testing.T) {
	svc := &stubOrdersService{create: func(context.Context, internalorders.CartInput) (*internalorders.OrderDTO, error) {
		t.Fatal("service must not be called")
		return nil, nil
	}}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(`{"items":[],"paid":"lots","orderType":"dine_in"}`))
	rec := httptest.NewRecorder()
	Create(svc, testLogger()).ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateSurfacesValidationFromService(t *testing.T) {
	svc := &stubOrdersService{create: func(context.Context, internalorders.CartInput) (*internalorders.OrderDTO, error) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid cart").
			WithDetails(map[string]string{"items": "must contain at least one line"})
	}}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(`{"items":[],"orderType":"dine_in"}`))
	rec := httptest.NewRecorder()
	Create(svc, testLogger()).ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "must contain at least one line")
}

func TestListPassesFilterQuery(t *testing.T) {
	var got internalorders.ListInput
	svc := &stubOrdersService{list: func(_ context.Context, input internalorders.ListInput) ([]internalorders.OrderDTO, error) {
		got = input
		return []internalorders.OrderDTO{}, nil
	}}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders?filter=range&start=2026-03-01&end=2026-03-07", nil)
	rec := httptest.NewRecorder()
	List(svc, testLogger()).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, internalorders.ListInput{Filter: "range", Start: "2026-03-01", End: "2026-03-07"}, got)
}

func TestDetail(t *testing.T) {
	orderID := uuid.New()
	svc := &stubOrdersService{get: func(_ context.Context, id uuid.UUID) (*internalorders.OrderDTO, error) {
		if id != orderID {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return &internalorders.OrderDTO{ID: id}, nil
	}}

	call := func(raw string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/"+raw, nil)
		routeCtx := chi.NewRouteContext()
		routeCtx.URLParams.Add("orderId", raw)
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
		rec := httptest.NewRecorder()
		Detail(svc, testLogger()).ServeHTTP(rec, req)
		return rec
	}

	require.Equal(t, http.StatusOK, call(orderID.String()).Code)
	require.Equal(t, http.StatusNotFound, call(uuid.NewString()).Code)
	require.Equal(t, http.StatusBadRequest, call("not-a-uuid").Code)
}

func TestQuote(t *testing.T) {
	svc := &stubOrdersService{quote: func(context.Context, internalorders.CartInput) (*internalorders.QuoteDTO, error) {
		return &internalorders.QuoteDTO{Total: decimal.NewFromInt(150)}, nil
	}}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders/quote", strings.NewReader(`{"items":[]}`))
	rec := httptest.NewRecorder()
	Quote(svc, testLogger()).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"total":"150"`)
}
