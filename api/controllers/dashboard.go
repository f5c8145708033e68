package controllers

import (
	"net/http"

	"github.com/angelmondragon/cafepos-backend/api/responses"
	"github.com/angelmondragon/cafepos-backend/internal/dashboard"
	pkgerrors "github.com/angelmondragon/cafepos-backend/pkg/errors"
	"github.com/angelmondragon/cafepos-backend/pkg/logger"
)

func Dashboard(svc dashboard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "dashboard service unavailable"))
			return
		}
		summary, err := svc.Summary(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, summary)
	}
}
