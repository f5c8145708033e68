package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/cafepos-backend/api/responses"
	"github.com/angelmondragon/cafepos-backend/api/validators"
	"github.com/angelmondragon/cafepos-backend/internal/addons"
	pkgerrors "github.com/angelmondragon/cafepos-backend/pkg/errors"
	"github.com/angelmondragon/cafepos-backend/pkg/logger"
)

func ListAddons(svc addons.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "addon service unavailable"))
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

func GetAddon(svc addons.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "addon service unavailable"))
			return
		}
		id, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		addon, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, addon)
	}
}

// CreateAddon stores an add-on and its opening stock.
func CreateAddon(svc addons.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "addon service unavailable"))
			return
		}

		var payload createAddonRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		addon, err := svc.Create(r.Context(), addons.CreateInput{
			Name:              validators.SanitizeString(payload.Name, maxNameLength),
			Price:             *payload.Price,
			Stock:             payload.Stock,
			LowStockThreshold: payload.LowStockThreshold,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, addon)
	}
}

func UpdateAddon(svc addons.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "addon service unavailable"))
			return
		}
		id, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateAddonRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		addon, err := svc.Update(r.Context(), id, addons.UpdateInput{
			Name:              payload.Name,
			Price:             payload.Price,
			Stock:             payload.Stock,
			LowStockThreshold: payload.LowStockThreshold,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, addon)
	}
}

func DeleteAddon(svc addons.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "addon service unavailable"))
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

type createAddonRequest struct {
	Name              string           `json:"name" validate:"required"`
	Price             *decimal.Decimal `json:"price" validate:"required"`
	Stock             int              `json:"stock"`
	LowStockThreshold int              `json:"lowStockThreshold" validate:"gte=0"`
}

type updateAddonRequest struct {
	Name              *string          `json:"name,omitempty"`
	Price             *decimal.Decimal `json:"price,omitempty"`
	Stock             *int             `json:"stock,omitempty"`
	LowStockThreshold *int             `json:"lowStockThreshold,omitempty" validate:"omitempty,gte=0"`
}
