package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/brokerlane/brokerlane-backend/api/routes"
	"github.com/brokerlane/brokerlane-backend/internal/applications"
	"github.com/brokerlane/brokerlane-backend/internal/companies"
	"github.com/brokerlane/brokerlane-backend/internal/documents"
	"github.com/brokerlane/brokerlane-backend/internal/inforequests"
	"github.com/brokerlane/brokerlane-backend/internal/intake"
	"github.com/brokerlane/brokerlane-backend/internal/lenders"
	"github.com/brokerlane/brokerlane-backend/internal/notify"
	"github.com/brokerlane/brokerlane-backend/internal/offers"
	"github.com/brokerlane/brokerlane-backend/internal/profiles"
	"github.com/brokerlane/brokerlane-backend/internal/registry"
	"github.com/brokerlane/brokerlane-backend/internal/submissions"
	"github.com/brokerlane/brokerlane-backend/pkg/config"
	"github.com/brokerlane/brokerlane-backend/pkg/db"
	"github.com/brokerlane/brokerlane-backend/pkg/logger"
	"github.com/brokerlane/brokerlane-backend/pkg/metrics"
	"github.com/brokerlane/brokerlane-backend/pkg/migrate"
	"github.com/brokerlane/brokerlane-backend/pkg/redis"
	"github.com/brokerlane/brokerlane-backend/pkg/storage/gcs"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	gcsClient, err := gcs.NewClient(context.Background(), cfg.GCS, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap blob storage", err)
		os.Exit(1)
	}

	promRegistry := prometheus.NewRegistry()
	lifecycleMetrics := metrics.NewLifecycleMetrics(promRegistry)

	gdb := dbClient.DB()
	profilesRepo := profiles.NewRepository(gdb)
	companiesRepo := companies.NewRepository(gdb)
	lendersRepo := lenders.NewRepository(gdb)
	applicationsRepo := applications.NewRepository(gdb)
	submissionsRepo := submissions.NewRepository(gdb)
	infoRequestsRepo := inforequests.NewRepository(gdb)
	documentsRepo := documents.NewRepository(gdb)
	offersRepo := offers.NewRepository(gdb)

	registryLookup := registry.NewClient(cfg.Registry, redisClient, logg)
	automationWebhook := notify.NewAutomationWebhook(cfg.Webhook, logg)
	lenderDeliverer := notify.NewLenderDeliverer(cfg.Delivery)

	applicationsSvc, err := applications.NewService(applications.ServiceParams{
		Repo:      applicationsRepo,
		Tx:        dbClient,
		Companies: companiesRepo,
		Documents: documentsRepo,
		Blobs:     gcsClient,
		Dependents: []applications.DependentRemover{
			documentsRepo,
			infoRequestsRepo,
			submissionsRepo,
			offersRepo,
		},
		Metrics: lifecycleMetrics,
		Logger:  logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create applications service", err)
		os.Exit(1)
	}

	submissionsSvc, err := submissions.NewService(submissions.ServiceParams{
		Repo:                     submissionsRepo,
		Applications:             applicationsRepo,
		Lenders:                  lendersRepo,
		Matcher:                  lenders.NewPanelMatcher(),
		Tx:                       dbClient,
		Delivery:                 lenderDeliverer,
		Automation:               automationWebhook,
		Metrics:                  lifecycleMetrics,
		Logger:                   logg,
		AllowTerminalSubmissions: cfg.Policy.AllowTerminalSubmissions,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create submissions service", err)
		os.Exit(1)
	}

	infoRequestsSvc, err := inforequests.NewService(inforequests.ServiceParams{
		Repo:         infoRequestsRepo,
		Applications: applicationsRepo,
		Logger:       logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create information requests service", err)
		os.Exit(1)
	}

	documentsSvc, err := documents.NewService(documents.ServiceParams{
		Repo:         documentsRepo,
		Applications: applicationsRepo,
		Blobs:        gcsClient,
		Logger:       logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create documents service", err)
		os.Exit(1)
	}

	companiesSvc, err := companies.NewService(companies.ServiceParams{
		Repo:     companiesRepo,
		Profiles: profilesRepo,
		Logger:   logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create companies service", err)
		os.Exit(1)
	}

	intakeSvc, err := intake.NewService(intake.ServiceParams{
		Profiles:     profilesRepo,
		Companies:    companiesRepo,
		Applications: applicationsRepo,
		Documents:    documentsRepo,
		Logger:       logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create intake service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	router := routes.NewRouter(cfg, logg,
		routes.Pingers{DB: dbClient, Redis: redisClient, GCS: gcsClient},
		routes.Services{
			Intake:       intakeSvc,
			Applications: applicationsSvc,
			Companies:    companiesSvc,
			Submissions:  submissionsSvc,
			InfoRequests: infoRequestsSvc,
			Documents:    documentsSvc,
			Registry:     registryLookup,
		},
		promRegistry,
	)

	server := &http.Server{Addr: addr, Handler: router}
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
