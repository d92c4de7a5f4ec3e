package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/atelierhq/studio-backend/api/controllers"
	"github.com/atelierhq/studio-backend/api/routes"
	authsvc "github.com/atelierhq/studio-backend/internal/auth"
	"github.com/atelierhq/studio-backend/internal/blog"
	"github.com/atelierhq/studio-backend/internal/catalog"
	checkoutsvc "github.com/atelierhq/studio-backend/internal/checkout"
	"github.com/atelierhq/studio-backend/internal/inquiries"
	"github.com/atelierhq/studio-backend/internal/news"
	"github.com/atelierhq/studio-backend/internal/shop"
	"github.com/atelierhq/studio-backend/pkg/auth/session"
	"github.com/atelierhq/studio-backend/pkg/config"
	"github.com/atelierhq/studio-backend/pkg/db"
	"github.com/atelierhq/studio-backend/pkg/logger"
	"github.com/atelierhq/studio-backend/pkg/mailer"
	"github.com/atelierhq/studio-backend/pkg/metrics"
	"github.com/atelierhq/studio-backend/pkg/migrate"
	"github.com/atelierhq/studio-backend/pkg/paypal"
	redisclient "github.com/atelierhq/studio-backend/pkg/redis"
	"github.com/atelierhq/studio-backend/pkg/storage/gcs"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		// Logger is not up yet.
		panic(err)
	}

	logg := logger.New(logger.Options{
		ServiceName: "studio-api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
		WarnStack:   cfg.App.LogWarnStack,
	})
	ctx := context.Background()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "connecting to database", err)
		os.Exit(1)
	}
	defer func() { _ = dbClient.Close() }()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "running dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redisclient.New(ctx, cfg.Redis)
	if err != nil {
		logg.Error(ctx, "connecting to redis", err)
		os.Exit(1)
	}
	defer func() { _ = redisClient.Close() }()

	gcsClient, err := gcs.NewClient(ctx, cfg.GCS, cfg.GCP, logg)
	if err != nil {
		logg.Error(ctx, "initializing blob storage", err)
		os.Exit(1)
	}
	defer func() { _ = gcsClient.Close() }()

	paypalClient, err := paypal.NewClient(ctx, cfg.PayPal, logg)
	if err != nil {
		logg.Error(ctx, "initializing paypal client", err)
		os.Exit(1)
	}

	mailClient, err := mailer.NewClient(cfg.Mail, logg)
	if err != nil {
		logg.Error(ctx, "initializing mailer", err)
		os.Exit(1)
	}

	sessions, err := session.NewManager(redisClient, cfg.Admin)
	if err != nil {
		logg.Error(ctx, "initializing session manager", err)
		os.Exit(1)
	}

	catalogServices := make(map[catalog.WorkType]*catalog.Service, len(catalog.WorkTypes()))
	for _, workType := range catalog.WorkTypes() {
		store := redisclient.NewCollection[catalog.Entry](redisClient, workType.CollectionName())
		svc, err := catalog.NewService(workType, store, gcsClient, logg)
		if err != nil {
			logg.Error(ctx, "initializing catalog service", err)
			os.Exit(1)
		}
		catalogServices[workType] = svc
	}

	blogService, err := blog.NewService(redisclient.NewCollection[blog.Article](redisClient, "blog"), gcsClient, logg)
	if err != nil {
		logg.Error(ctx, "initializing blog service", err)
		os.Exit(1)
	}

	shopService, err := shop.NewService(redisclient.NewCollection[shop.Product](redisClient, "shop"), gcsClient, logg)
	if err != nil {
		logg.Error(ctx, "initializing shop service", err)
		os.Exit(1)
	}

	newsService, err := news.NewService(dbClient.DB(), logg)
	if err != nil {
		logg.Error(ctx, "initializing news service", err)
		os.Exit(1)
	}

	inquiryService, err := inquiries.NewService(mailClient, inquiries.NewGormAuditStore(dbClient.DB()), logg)
	if err != nil {
		logg.Error(ctx, "initializing inquiries service", err)
		os.Exit(1)
	}

	checkoutService, err := checkoutsvc.NewService(shopService, paypalClient, logg)
	if err != nil {
		logg.Error(ctx, "initializing checkout service", err)
		os.Exit(1)
	}

	authService, err := authsvc.NewService(cfg.Admin.PasswordHash, sessions, logg)
	if err != nil {
		logg.Error(ctx, "initializing auth service", err)
		os.Exit(1)
	}

	router := routes.NewRouter(cfg, logg, routes.Services{
		Catalog:   catalogServices,
		Blog:      blogService,
		Shop:      shopService,
		News:      newsService,
		Inquiries: inquiryService,
		Checkout:  checkoutService,
		Auth:      authService,
		Sessions:  sessions,
		Uploader:  gcsClient,
		HealthDeps: map[string]controllers.Pinger{
			"db":    dbClient,
			"redis": redisClient,
			"gcs":   gcsClient,
		},
		Metrics: metrics.NewHTTPMetrics(),
	})

	server := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logg.Info(logg.WithField(ctx, "port", cfg.App.Port), "api server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "server stopped", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logg.Info(ctx, "shutting down")
	shutdownCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logg.Error(ctx, "graceful shutdown failed", err)
	}
}
