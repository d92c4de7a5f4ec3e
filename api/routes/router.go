package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/atelierhq/studio-backend/api/controllers"
	"github.com/atelierhq/studio-backend/api/middleware"
	"github.com/atelierhq/studio-backend/internal/auth"
	"github.com/atelierhq/studio-backend/internal/blog"
	"github.com/atelierhq/studio-backend/internal/catalog"
	checkoutsvc "github.com/atelierhq/studio-backend/internal/checkout"
	"github.com/atelierhq/studio-backend/internal/inquiries"
	"github.com/atelierhq/studio-backend/internal/news"
	"github.com/atelierhq/studio-backend/internal/shop"
	"github.com/atelierhq/studio-backend/pkg/auth/session"
	"github.com/atelierhq/studio-backend/pkg/config"
	"github.com/atelierhq/studio-backend/pkg/logger"
	"github.com/atelierhq/studio-backend/pkg/metrics"
)

// Services bundles everything the router mounts.
type Services struct {
	Catalog   map[catalog.WorkType]*catalog.Service
	Blog      *blog.Service
	Shop      *shop.Service
	News      *news.Service
	Inquiries *inquiries.Service
	Checkout  *checkoutsvc.Service
	Auth      *auth.Service

	Sessions session.Verifier
	Uploader controllers.Uploader

	HealthDeps map[string]controllers.Pinger
	Metrics    *metrics.HTTPMetrics
}

// NewRouter wires the HTTP surface. Reads are public; every mutation sits
// behind the admin session guard.
func NewRouter(cfg *config.Config, logg *logger.Logger, svcs Services) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(svcs.Metrics),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, svcs.HealthDeps))
	})

	if svcs.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", svcs.Metrics.Handler())
	}

	adminOnly := middleware.AdminAuth(svcs.Sessions, logg)

	r.Route("/api/v1", func(r chi.Router) {
		for workType, svc := range svcs.Catalog {
			svc := svc
			r.Route("/"+workType.CollectionName(), func(r chi.Router) {
				r.Get("/", controllers.CatalogList(svc, logg))
				r.Get("/occupancy", controllers.CatalogOccupancy(svc, logg))
				r.Get("/{id}", controllers.CatalogGet(svc, logg))

				r.Group(func(r chi.Router) {
					r.Use(adminOnly)
					r.Post("/", controllers.CatalogCreate(svc, logg))
					r.Put("/", controllers.CatalogBulkReplace(svc, logg))
					r.Put("/{id}", controllers.CatalogUpdate(svc, logg))
					r.Delete("/{id}", controllers.CatalogDelete(svc, logg))
				})
			})
		}

		r.Route("/blog", func(r chi.Router) {
			r.Get("/", controllers.BlogList(svcs.Blog, logg))
			r.Get("/{id}", controllers.BlogGet(svcs.Blog, logg))

			r.Group(func(r chi.Router) {
				r.Use(adminOnly)
				r.Post("/", controllers.BlogCreate(svcs.Blog, logg))
				r.Put("/{id}", controllers.BlogUpdate(svcs.Blog, logg))
				r.Delete("/{id}", controllers.BlogDelete(svcs.Blog, logg))
			})
		})

		r.Route("/shop/products", func(r chi.Router) {
			r.Get("/", controllers.ShopList(svcs.Shop, logg))
			r.Get("/{id}", controllers.ShopGet(svcs.Shop, logg))

			r.Group(func(r chi.Router) {
				r.Use(adminOnly)
				r.Post("/", controllers.ShopCreate(svcs.Shop, logg))
				r.Put("/{id}", controllers.ShopUpdate(svcs.Shop, logg))
				r.Delete("/{id}", controllers.ShopDelete(svcs.Shop, logg))
			})
		})

		r.Route("/news", func(r chi.Router) {
			r.Get("/", controllers.NewsList(svcs.News, logg))

			r.Group(func(r chi.Router) {
				r.Use(adminOnly)
				r.Post("/", controllers.NewsCreate(svcs.News, logg))
				r.Put("/{id}", controllers.NewsUpdate(svcs.News, logg))
				r.Delete("/{id}", controllers.NewsDelete(svcs.News, logg))
			})
		})

		r.Route("/inquiries", func(r chi.Router) {
			r.Post("/", controllers.InquirySend(svcs.Inquiries, logg))
			r.With(adminOnly).Get("/", controllers.InquiryRecent(svcs.Inquiries, logg))
		})

		r.Route("/checkout/orders", func(r chi.Router) {
			r.Post("/", controllers.CheckoutCreateOrder(svcs.Checkout, logg))
			r.Post("/{orderID}/capture", controllers.CheckoutCaptureOrder(svcs.Checkout, logg))
		})

		r.Route("/admin", func(r chi.Router) {
			r.Post("/login", controllers.AdminLogin(svcs.Auth, logg))
			r.Post("/logout", controllers.AdminLogout(svcs.Auth, logg))
			r.With(adminOnly).Post("/upload", controllers.AdminUpload(svcs.Uploader, logg))
		})
	})

	return r
}
