package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/cafepos-backend/api/responses"
	"github.com/angelmondragon/cafepos-backend/api/validators"
	"github.com/angelmondragon/cafepos-backend/internal/materials"
	pkgerrors "github.com/angelmondragon/cafepos-backend/pkg/errors"
	"github.com/angelmondragon/cafepos-backend/pkg/logger"
)

func ListMaterials(svc materials.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "material service unavailable"))
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

func GetMaterial(svc materials.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "material service unavailable"))
			return
		}
		id, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		material, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, material)
	}
}

// CreateMaterial stores a material with its opening stock.
func CreateMaterial(svc materials.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "material service unavailable"))
			return
		}

		var payload createMaterialRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		material, err := svc.Create(r.Context(), materials.CreateInput{
			Name:              validators.SanitizeString(payload.Name, maxNameLength),
			IsPackage:         payload.IsPackage,
			PackagePrice:      decimalOrZero(payload.PackagePrice),
			UnitsPerPackage:   payload.UnitsPerPackage,
			PricePerPiece:     decimalOrZero(payload.PricePerPiece),
			Stock:             payload.Stock,
			LowStockThreshold: payload.LowStockThreshold,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, material)
	}
}

// UpdateMaterial switches pricing mode or restocks a material.
func UpdateMaterial(svc materials.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "material service unavailable"))
			return
		}
		id, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateMaterialRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		material, err := svc.Update(r.Context(), id, materials.UpdateInput{
			Name:              payload.Name,
			IsPackage:         payload.IsPackage,
			PackagePrice:      payload.PackagePrice,
			UnitsPerPackage:   payload.UnitsPerPackage,
			PricePerPiece:     payload.PricePerPiece,
			Stock:             payload.Stock,
			LowStockThreshold: payload.LowStockThreshold,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, material)
	}
}

func DeleteMaterial(svc materials.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "material service unavailable"))
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

// Package materials derive their piece price from packagePrice and
// unitsPerPackage; loose materials send pricePerPiece.
type createMaterialRequest struct {
	Name              string           `json:"name" validate:"required"`
	IsPackage         bool             `json:"isPackage"`
	PackagePrice      *decimal.Decimal `json:"packagePrice,omitempty" validate:"required_if=IsPackage true"`
	UnitsPerPackage   int              `json:"unitsPerPackage" validate:"gte=0"`
	PricePerPiece     *decimal.Decimal `json:"pricePerPiece,omitempty" validate:"required_if=IsPackage false"`
	Stock             int              `json:"stock"`
	LowStockThreshold int              `json:"lowStockThreshold" validate:"gte=0"`
}

type updateMaterialRequest struct {
	Name              *string          `json:"name,omitempty"`
	IsPackage         *bool            `json:"isPackage,omitempty"`
	PackagePrice      *decimal.Decimal `json:"packagePrice,omitempty"`
	UnitsPerPackage   *int             `json:"unitsPerPackage,omitempty" validate:"omitempty,gte=0"`
	PricePerPiece     *decimal.Decimal `json:"pricePerPiece,omitempty"`
	Stock             *int             `json:"stock,omitempty"`
	LowStockThreshold *int             `json:"lowStockThreshold,omitempty" validate:"omitempty,gte=0"`
}

func decimalOrZero(value *decimal.Decimal) decimal.Decimal {
	if value == nil {
		return decimal.Zero
	}
	return *value
}
