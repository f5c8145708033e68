package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/cafepos-backend/api/responses"
	"github.com/angelmondragon/cafepos-backend/api/validators"
	"github.com/angelmondragon/cafepos-backend/internal/ingredients"
	pkgerrors "github.com/angelmondragon/cafepos-backend/pkg/errors"
	"github.com/angelmondragon/cafepos-backend/pkg/logger"
)

func ListIngredients(svc ingredients.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ingredient service unavailable"))
			return
		}
		list, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func GetIngredient(svc ingredients.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ingredient service unavailable"))
			return
		}
		id, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		ingredient, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, ingredient)
	}
}

// CreateIngredient stores an ingredient and its opening stock.
func CreateIngredient(svc ingredients.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ingredient service unavailable"))
			return
		}

		var payload createIngredientRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ingredient, err := svc.Create(r.Context(), ingredients.CreateInput{
			Name:              validators.SanitizeString(payload.Name, maxNameLength),
			Unit:              validators.SanitizeString(payload.Unit, 32),
			PricePerPurchase:  *payload.PricePerPurchase,
			UnitsPerPurchase:  payload.UnitsPerPurchase,
			Stock:             payload.Stock,
			LowStockThreshold: payload.LowStockThreshold,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, ingredient)
	}
}

// UpdateIngredient applies a partial update; stock is an absolute restock.
func UpdateIngredient(svc ingredients.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ingredient service unavailable"))
			return
		}
		id, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateIngredientRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ingredient, err := svc.Update(r.Context(), id, ingredients.UpdateInput{
			Name:              payload.Name,
			Unit:              payload.Unit,
			PricePerPurchase:  payload.PricePerPurchase,
			UnitsPerPurchase:  payload.UnitsPerPurchase,
			Stock:             payload.Stock,
			LowStockThreshold: payload.LowStockThreshold,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, ingredient)
	}
}

func DeleteIngredient(svc ingredients.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ingredient service unavailable"))
			return
		}
		id, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

type createIngredientRequest struct {
	Name              string           `json:"name" validate:"required"`
	Unit              string           `json:"unit" validate:"required"`
	PricePerPurchase  *decimal.Decimal `json:"pricePerPurchase" validate:"required"`
	UnitsPerPurchase  int              `json:"unitsPerPurchase" validate:"gte=0"`
	Stock             int              `json:"stock"`
	LowStockThreshold int              `json:"lowStockThreshold" validate:"gte=0"`
}

type updateIngredientRequest struct {
	Name              *string          `json:"name,omitempty"`
	Unit              *string          `json:"unit,omitempty"`
	PricePerPurchase  *decimal.Decimal `json:"pricePerPurchase,omitempty"`
	UnitsPerPurchase  *int             `json:"unitsPerPurchase,omitempty" validate:"omitempty,gte=0"`
	Stock             *int             `json:"stock,omitempty"`
	LowStockThreshold *int             `json:"lowStockThreshold,omitempty" validate:"omitempty,gte=0"`
}
