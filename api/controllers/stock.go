package controllers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/angelmondragon/cafepos-backend/api/responses"
	"github.com/angelmondragon/cafepos-backend/api/validators"
	"github.com/angelmondragon/cafepos-backend/internal/stock"
	"github.com/angelmondragon/cafepos-backend/pkg/db/models"
	"github.com/angelmondragon/cafepos-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/cafepos-backend/pkg/errors"
	"github.com/angelmondragon/cafepos-backend/pkg/logger"
)

// StockReader reads the stock ledger.
type StockReader interface {
	ListLow(ctx context.Context) ([]stock.LowStockItem, error)
	ListMovements(ctx context.Context, kind enums.StockResourceType, id uuid.UUID) ([]models.StockMovement, error)
}

// LowStock lists resources at or below their threshold.
func LowStock(repo StockReader, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if repo == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "stock repository unavailable"))
			return
		}
		items, err := repo.ListLow(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list low stock"))
			return
		}
		if items == nil {
			items = []stock.LowStockItem{}
		}
		responses.WriteSuccess(w, items)
	}
}

// StockMovements returns the ledger for /stock/{resourceType}/{id}/movements.
func StockMovements(repo StockReader, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if repo == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "stock repository unavailable"))
			return
		}
		kind, err := enums.ParseStockResourceType(chi.URLParam(r, "resourceType"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unknown resource type"))
			return
		}
		id, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		rows, err := repo.ListMovements(r.Context(), kind, id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list stock movements"))
			return
		}
		responses.WriteSuccess(w, stock.NewMovementDTOs(rows))
	}
}
