package controllers

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/cafepos-backend/internal/ingredients"
	productsvc "github.com/angelmondragon/cafepos-backend/internal/products"
	"github.com/angelmondragon/cafepos-backend/internal/stock"
	"github.com/angelmondragon/cafepos-backend/internal/uploads"
	"github.com/angelmondragon/cafepos-backend/pkg/config"
	"github.com/angelmondragon/cafepos-backend/pkg/db/models"
	"github.com/angelmondragon/cafepos-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/cafepos-backend/pkg/errors"
	"github.com/angelmondragon/cafepos-backend/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Level: logger.ParseLevel("debug"), Output: io.Discard})
}

func withParams(req *http.Request, params map[string]string) *http.Request {
	routeCtx := chi.NewRouteContext()
	for k, v := range params {
		routeCtx.URLParams.Add(k, v)
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}

type stubProductService struct {
	created  *productsvc.CreateProductInput
	updated  *productsvc.UpdateProductInput
	category *enums.ProductCategory
	delete   func(uuid.UUID) error
}

func (s *stubProductService) CreateProduct(_ context.Context, input productsvc.CreateProductInput) (*productsvc.ProductDTO, error) {
	s.created = &input
	return &productsvc.ProductDTO{ID: uuid.New(), Name: input.Name, Category: input.Category}, nil
}

func (s *stubProductService) UpdateProduct(_ context.Context, id uuid.UUID, input productsvc.UpdateProductInput) (*productsvc.ProductDTO, error) {
	s.updated = &input
	return &productsvc.ProductDTO{ID: id}, nil
}

func (s *stubProductService) DeleteProduct(_ context.Context, id uuid.UUID) error {
	return s.delete(id)
}

func (s *stubProductService) GetProduct(_ context.Context, id uuid.UUID) (*productsvc.ProductDTO, error) {
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
}

func (s *stubProductService) ListProducts(_ context.Context, category *enums.ProductCategory) ([]productsvc.ProductDTO, error) {
	s.category = category
	return []productsvc.ProductDTO{}, nil
}

func TestCreateProduct(t *testing.T) {
	beans := uuid.New()
	svc := &stubProductService{}

	body := `{"name":"  Latte ","category":"coffee","variants":[{"name":"12oz","price":"120",` +
		`"ingredients":[{"id":"` + beans.String() + `","quantityUsed":2}]}]}`
	rec := httptest.NewRecorder()
	CreateProduct(svc, testLogger()).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/products", strings.NewReader(body)))

	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, svc.created)
	require.Equal(t, "Latte", svc.created.Name)
	require.Equal(t, enums.ProductCategoryCoffee, svc.created.Category)
	require.Len(t, svc.created.Variants, 1)
	require.Equal(t, "120", svc.created.Variants[0].Price.String())
	require.Equal(t, []productsvc.RecipeInput{{ResourceID: beans, QuantityUsed: 2}}, svc.created.Variants[0].Ingredients)
}

func TestCreateProductValidation(t *testing.T) {
	cases := map[string]string{
		"bad category":   `{"name":"Latte","category":"soup","variants":[{"name":"12oz","price":"120"}]}`,
		"no variants":    `{"name":"Latte","category":"coffee","variants":[]}`,
		"missing price":  `{"name":"Latte","category":"coffee","variants":[{"name":"12oz"}]}`,
		"negative usage": `{"name":"Latte","category":"coffee","variants":[{"name":"12oz","price":"1","ingredients":[{"id":"` + uuid.NewString() + `","quantityUsed":-1}]}]}`,
		"price not num":  `{"name":"Latte","category":"coffee","variants":[{"name":"12oz","price":"cheap"}]}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			svc := &stubProductService{}
			rec := httptest.NewRecorder()
			CreateProduct(svc, testLogger()).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/products", strings.NewReader(body)))
			require.Equal(t, http.StatusBadRequest, rec.Code)
			require.Nil(t, svc.created)
		})
	}
}

func TestUpdateProductPassesVariantSet(t *testing.T) {
	svc := &stubProductService{}
	id := uuid.New()

	req := httptest.NewRequest(http.MethodPut, "/api/v1/products/"+id.String(), strings.NewReader(`{"name":"Flat White","variants":[{"name":"8oz","price":"95"}]}`))
	rec := httptest.NewRecorder()
	UpdateProduct(svc, testLogger()).ServeHTTP(rec, withParams(req, map[string]string{"id": id.String()}))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Flat White", *svc.updated.Name)
	require.Nil(t, svc.updated.Category)
	require.NotNil(t, svc.updated.Variants)
	require.Len(t, *svc.updated.Variants, 1)
}

func TestListProductsCategoryFilter(t *testing.T) {
	svc := &stubProductService{}

	rec := httptest.NewRecorder()
	ListProducts(svc, testLogger()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/products?category=pastry", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, enums.ProductCategoryPastry, *svc.category)

	rec = httptest.NewRecorder()
	ListProducts(svc, testLogger()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/products?category=soup", nil))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteProduct(t *testing.T) {
	sold := uuid.New()
	svc := &stubProductService{delete: func(id uuid.UUID) error {
		if id == sold {
			return pkgerrors.New(pkgerrors.CodeInUse, "product has order lines")
		}
		return nil
	}}

	call := func(raw string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodDelete, "/api/v1/products/"+raw, nil)
		rec := httptest.NewRecorder()
		DeleteProduct(svc, testLogger()).ServeHTTP(rec, withParams(req, map[string]string{"id": raw}))
		return rec
	}

	require.Equal(t, http.StatusNoContent, call(uuid.NewString()).Code)
	blocked := call(sold.String())
	require.Equal(t, http.StatusBadRequest, blocked.Code)
	require.Contains(t, blocked.Body.String(), "RESOURCE_IN_USE")
	require.Equal(t, http.StatusBadRequest, call("abc").Code)
}

func TestGetProductNotFound(t *testing.T) {
	id := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/"+id, nil)
	rec := httptest.NewRecorder()
	GetProduct(&stubProductService{}, testLogger()).ServeHTTP(rec, withParams(req, map[string]string{"id": id}))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

type stubIngredientService struct {
	ingredients.Service
	created *ingredients.CreateInput
}

func (s *stubIngredientService) Create(_ context.Context, input ingredients.CreateInput) (*ingredients.IngredientDTO, error) {
	s.created = &input
	return &ingredients.IngredientDTO{ID: uuid.New(), Name: input.Name}, nil
}

func TestCreateIngredientRequiresPrice(t *testing.T) {
	svc := &stubIngredientService{}

	rec := httptest.NewRecorder()
	CreateIngredient(svc, testLogger()).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/ingredients",
		strings.NewReader(`{"name":"Milk","unit":"ml"}`)))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Nil(t, svc.created)

	rec = httptest.NewRecorder()
	CreateIngredient(svc, testLogger()).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/ingredients",
		strings.NewReader(`{"name":"Milk","unit":"ml","pricePerPurchase":"95","unitsPerPurchase":1000,"stock":5000,"lowStockThreshold":500}`)))
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, 5000, svc.created.Stock)
	require.Equal(t, 1000, svc.created.UnitsPerPurchase)
}

type stubUploadService struct {
	received []byte
}

func (s *stubUploadService) Upload(_ context.Context, r io.Reader) (*uploads.Result, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	s.received = raw
	return &uploads.Result{Path: "/uploads/abc.png", MimeType: "image/png", Size: int64(len(raw))}, nil
}

func TestUpload(t *testing.T) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", "latte.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("pixels"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/upload", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	svc := &stubUploadService{}
	rec := httptest.NewRecorder()
	Upload(svc, 1<<20, testLogger()).ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Contains(t, rec.Body.String(), `"path":"/uploads/abc.png"`)
	require.Equal(t, []byte("pixels"), svc.received)
}

func TestUploadRequiresFileField(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/upload", strings.NewReader("nope"))
	req.Header.Set("Content-Type", "text/plain")
	rec := httptest.NewRecorder()
	Upload(&stubUploadService{}, 1<<20, testLogger()).ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

type pingerFunc func(context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealthReady(t *testing.T) {
	cfg := &config.Config{App: config.AppConfig{Env: "test"}}
	ok := pingerFunc(func(context.Context) error { return nil })
	down := pingerFunc(func(context.Context) error { return errors.New("connection refused") })

	rec := httptest.NewRecorder()
	HealthReady(cfg, testLogger(), map[string]Pinger{"db": ok, "storage": ok, "redis": nil}).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotContains(t, rec.Body.String(), "redis")

	rec = httptest.NewRecorder()
	HealthReady(cfg, testLogger(), map[string]Pinger{"db": down, "storage": ok}).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	require.Contains(t, rec.Body.String(), `"db":"down"`)
}

type stubStockReader struct{}

func (stubStockReader) ListLow(context.Context) ([]stock.LowStockItem, error) {
	return nil, nil
}

func (stubStockReader) ListMovements(_ context.Context, kind enums.StockResourceType, id uuid.UUID) ([]models.StockMovement, error) {
	return []models.StockMovement{{ResourceType: kind, ResourceID: id, Delta: -6, QuantityAfter: 94, Reason: enums.StockMovementSale}}, nil
}

func TestStockEndpoints(t *testing.T) {
	rec := httptest.NewRecorder()
	LowStock(stubStockReader{}, testLogger()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/stock/low", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"data":[]}`, rec.Body.String())

	id := uuid.NewString()
	req := withParams(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{"resourceType": "ingredient", "id": id})
	rec = httptest.NewRecorder()
	StockMovements(stubStockReader{}, testLogger()).ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"delta":-6`)

	req = withParams(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{"resourceType": "spoon", "id": id})
	rec = httptest.NewRecorder()
	StockMovements(stubStockReader{}, testLogger()).ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
