package routes

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/cafepos-backend/api/controllers"
	ordercontrollers "github.com/angelmondragon/cafepos-backend/api/controllers/orders"
	"github.com/angelmondragon/cafepos-backend/api/middleware"
	"github.com/angelmondragon/cafepos-backend/internal/addons"
	"github.com/angelmondragon/cafepos-backend/internal/dashboard"
	"github.com/angelmondragon/cafepos-backend/internal/ingredients"
	"github.com/angelmondragon/cafepos-backend/internal/materials"
	"github.com/angelmondragon/cafepos-backend/internal/orders"
	products "github.com/angelmondragon/cafepos-backend/internal/products"
	"github.com/angelmondragon/cafepos-backend/internal/receipts"
	"github.com/angelmondragon/cafepos-backend/internal/uploads"
	"github.com/angelmondragon/cafepos-backend/pkg/config"
	"github.com/angelmondragon/cafepos-backend/pkg/logger"
	"github.com/angelmondragon/cafepos-backend/pkg/metrics"
	pkgredis "github.com/angelmondragon/cafepos-backend/pkg/redis"
)

// Services groups the domain services the API exposes.
type Services struct {
	Products    products.Service
	Ingredients ingredients.Service
	Materials   materials.Service
	Addons      addons.Service
	Orders      orders.Service
	Receipts    receipts.Service
	Dashboard   dashboard.Service
	Uploads     uploads.Service
	Stock       controllers.StockReader
}

// Infra carries the cross-cutting dependencies of the router. Idempotency
// and Registry may be nil.
type Infra struct {
	Pingers     map[string]controllers.Pinger
	Idempotency pkgredis.IdempotencyStore
	Registry    *prometheus.Registry
}

func NewRouter(cfg *config.Config, logg *logger.Logger, infra Infra, svc Services) http.Handler {
	r := chi.NewRouter()

	var httpMetrics *metrics.HTTPMetrics
	if infra.Registry != nil && cfg.Metrics.Enabled {
		httpMetrics = metrics.NewHTTPMetrics(infra.Registry)
	}

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.HTTP.CORSOrigins),
	)
	if httpMetrics != nil {
		r.Use(middleware.Metrics(httpMetrics))
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, infra.Pingers))
	})

	if infra.Registry != nil && cfg.Metrics.Enabled {
		r.Handle("/metrics", promhttp.HandlerFor(infra.Registry, promhttp.HandlerOpts{}))
	}

	prefix := strings.TrimRight(cfg.Uploads.PublicPrefix, "/")
	if prefix == "" {
		prefix = "/uploads"
	}
	r.Handle(prefix+"/*", http.StripPrefix(prefix+"/", fileOnly(http.FileServer(http.Dir(cfg.Uploads.Dir)))))

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ListProducts(svc.Products, logg))
			r.Post("/", controllers.CreateProduct(svc.Products, logg))
			r.Get("/{id}", controllers.GetProduct(svc.Products, logg))
			r.Put("/{id}", controllers.UpdateProduct(svc.Products, logg))
			r.Delete("/{id}", controllers.DeleteProduct(svc.Products, logg))
		})

		r.Route("/ingredients", func(r chi.Router) {
			r.Get("/", controllers.ListIngredients(svc.Ingredients, logg))
			r.Post("/", controllers.CreateIngredient(svc.Ingredients, logg))
			r.Get("/{id}", controllers.GetIngredient(svc.Ingredients, logg))
			r.Put("/{id}", controllers.UpdateIngredient(svc.Ingredients, logg))
			r.Delete("/{id}", controllers.DeleteIngredient(svc.Ingredients, logg))
		})

		r.Route("/materials", func(r chi.Router) {
			r.Get("/", controllers.ListMaterials(svc.Materials, logg))
			r.Post("/", controllers.CreateMaterial(svc.Materials, logg))
			r.Get("/{id}", controllers.GetMaterial(svc.Materials, logg))
			r.Put("/{id}", controllers.UpdateMaterial(svc.Materials, logg))
			r.Delete("/{id}", controllers.DeleteMaterial(svc.Materials, logg))
		})

		r.Route("/addons", func(r chi.Router) {
			r.Get("/", controllers.ListAddons(svc.Addons, logg))
			r.Post("/", controllers.CreateAddon(svc.Addons, logg))
			r.Get("/{id}", controllers.GetAddon(svc.Addons, logg))
			r.Put("/{id}", controllers.UpdateAddon(svc.Addons, logg))
			r.Delete("/{id}", controllers.DeleteAddon(svc.Addons, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", ordercontrollers.List(svc.Orders, logg))
			r.With(middleware.Idempotency(infra.Idempotency, logg)).Post("/", ordercontrollers.Create(svc.Orders, logg))
			r.Post("/quote", ordercontrollers.Quote(svc.Orders, logg))
			r.Get("/{orderId}", ordercontrollers.Detail(svc.Orders, logg))
		})

		r.Route("/receipts", func(r chi.Router) {
			r.Get("/", controllers.ListReceipts(svc.Receipts, logg))
			r.Get("/{orderId}", controllers.GetReceipt(svc.Receipts, logg))
		})

		r.Route("/stock", func(r chi.Router) {
			r.Get("/low", controllers.LowStock(svc.Stock, logg))
			r.Get("/{resourceType}/{id}/movements", controllers.StockMovements(svc.Stock, logg))
		})

		r.Get("/dashboard", controllers.Dashboard(svc.Dashboard, logg))
		r.Post("/upload", controllers.Upload(svc.Uploads, cfg.Uploads.MaxBytes(), logg))
	})

	return r
}

// fileOnly hides directory listings of the uploads folder.
func fileOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "" || strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}
