package orders

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/cafepos-backend/api/responses"
	"github.com/angelmondragon/cafepos-backend/api/validators"
	internalorders "github.com/angelmondragon/cafepos-backend/internal/orders"
	pkgerrors "github.com/angelmondragon/cafepos-backend/pkg/errors"
	"github.com/angelmondragon/cafepos-backend/pkg/logger"
)

// cartRequest is decoded without validate tags: the order builder reports
// every cart problem at once with per-field details.
type cartRequest struct {
	Items       []cartItemRequest `json:"items"`
	Paid        *decimal.Decimal  `json:"paid"`
	Total       *decimal.Decimal  `json:"total,omitempty"`
	Change      *decimal.Decimal  `json:"change,omitempty"`
	OrderType   string            `json:"orderType"`
	OrderStatus *string           `json:"orderStatus,omitempty"`
}

type cartItemRequest struct {
	ProductID uuid.UUID          `json:"productId"`
	VariantID uuid.UUID          `json:"variantId"`
	Quantity  int                `json:"quantity"`
	Addons    []cartAddonRequest `json:"addons,omitempty"`
}

type cartAddonRequest struct {
	AddonID  uuid.UUID `json:"addonId"`
	Quantity int       `json:"quantity"`
}

func (c cartRequest) toInput() internalorders.CartInput {
	input := internalorders.CartInput{
		Items:       make([]internalorders.CartItem, 0, len(c.Items)),
		Paid:        c.Paid,
		Total:       c.Total,
		Change:      c.Change,
		OrderType:   validators.SanitizeString(c.OrderType, 0),
		OrderStatus: c.OrderStatus,
	}
	for _, item := range c.Items {
		line := internalorders.CartItem{
			ProductID: item.ProductID,
			VariantID: item.VariantID,
			Quantity:  item.Quantity,
		}
		for _, addon := range item.Addons {
			line.Addons = append(line.Addons, internalorders.CartAddon{AddonID: addon.AddonID, Quantity: addon.Quantity})
		}
		input.Items = append(input.Items, line)
	}
	return input
}

// Create places an order: the order, its stock deductions and its receipt
// commit together or not at all.
func Create(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		var payload cartRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Create(r.Context(), payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

// Quote prices a cart without persisting anything.
func Quote(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		var payload cartRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		quote, err := svc.Quote(r.Context(), payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, quote)
	}
}

// List returns orders newest first for ?filter=all|today|month|range|custom.
func List(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		list, err := svc.List(r.Context(), internalorders.ListInput{
			Filter: validators.QueryString(r, "filter"),
			Start:  validators.QueryString(r, "start"),
			End:    validators.QueryString(r, "end"),
			Date:   validators.QueryString(r, "date"),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func Detail(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		orderID, err := validators.ParseUUIDParam(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Get(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}
