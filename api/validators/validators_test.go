package validators

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/angelmondragon/cafepos-backend/pkg/errors"
)

type lineBody struct {
	Quantity int `json:"quantity" validate:"required,min=1"`
}

type sampleBody struct {
	Name      string     `json:"name" validate:"required"`
	OrderType string     `json:"orderType" validate:"required,oneof=dine_in take_out delivery"`
	Items     []lineBody `json:"items" validate:"required,min=1,dive"`
}

func TestDecodeJSONBodyReportsFieldPaths(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"x","orderType":"drive_thru","items":[{"quantity":0}]}`))

	var body sampleBody
	err := DecodeJSONBody(req, &body)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeValidation, typed.Code())

	details, ok := typed.Details().(map[string]string)
	require.True(t, ok)
	require.Equal(t, "must be one of dine_in, take_out, delivery", details["orderType"])
	require.Equal(t, "is required", details["items[0].quantity"])
}

func TestDecodeJSONBodyRejectsEmptyAndUnknown(t *testing.T) {
	var body sampleBody
	err := DecodeJSONBody(httptest.NewRequest(http.MethodPost, "/", strings.NewReader("")), &body)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	require.Equal(t, "request body is required", pkgerrors.As(err).Message())

	err = DecodeJSONBody(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"bogus":1}`)), &body)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestDecodeJSONBodyAcceptsValidPayload(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"x","orderType":"take_out","items":[{"quantity":2}]}`))

	var body sampleBody
	require.NoError(t, DecodeJSONBody(req, &body))
	require.Equal(t, 2, body.Items[0].Quantity)
}

func withURLParam(req *http.Request, key, value string) *http.Request {
	rc := chi.NewRouteContext()
	rc.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rc))
}

func TestParseUUIDParam(t *testing.T) {
	id := uuid.New()
	req := withURLParam(httptest.NewRequest(http.MethodGet, "/", nil), "id", id.String())
	got, err := ParseUUIDParam(req, "id")
	require.NoError(t, err)
	require.Equal(t, id, got)

	req = withURLParam(httptest.NewRequest(http.MethodGet, "/", nil), "id", "nope")
	_, err = ParseUUIDParam(req, "id")
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestSanitizeString(t *testing.T) {
	require.Equal(t, "Latte", SanitizeString("  Latte ", 0))
	require.Equal(t, "Lat", SanitizeString("Latte", 3))
}
