package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/minio/minio-go/v7"

	"github.com/collabglam/contractflow/internal/export"
	"github.com/collabglam/contractflow/internal/platform/auth"
	"github.com/collabglam/contractflow/internal/platform/env"
	"github.com/collabglam/contractflow/internal/platform/httpserver"
	"github.com/collabglam/contractflow/internal/platform/metrics"
	"github.com/collabglam/contractflow/internal/platform/objectstore"
	"github.com/collabglam/contractflow/internal/platform/postgres"
	"github.com/collabglam/contractflow/internal/render"
	pgrepo "github.com/collabglam/contractflow/internal/repo/postgres"
	"github.com/collabglam/contractflow/internal/service/contracts"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	ctx := context.Background()
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := render.ValidateTemplate(render.DefaultTemplateText); err != nil {
		logger.Error("default template invalid", "error", err)
		os.Exit(2)
	}

	addr := env.String("CONTRACTFLOW_HTTP_ADDR", ":8080")
	shutdownTimeout, err := env.Duration("CONTRACTFLOW_SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		logger.Error("invalid env", "error", err)
		os.Exit(2)
	}

	dbCfg, err := postgres.ConfigFromEnv()
	if err != nil {
		logger.Error("invalid database config", "error", err)
		os.Exit(2)
	}
	db, err := postgres.Open(ctx, dbCfg)
	if err != nil {
		logger.Error("database unavailable", "error", err)
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	if err := pgrepo.EnsureSchema(ctx, db); err != nil {
		logger.Error("schema migration failed", "error", err)
		os.Exit(1)
	}

	archiveEnabled, err := env.Bool("OBJECTSTORE_ENABLED", false)
	if err != nil {
		logger.Error("invalid env", "error", err)
		os.Exit(2)
	}
	var archiveClient *minio.Client
	var archiveCfg objectstore.Config
	if archiveEnabled {
		archiveCfg, err = objectstore.ConfigFromEnv()
		if err != nil {
			logger.Error("invalid objectstore config", "error", err)
			os.Exit(2)
		}
		archiveClient, err = objectstore.NewClient(archiveCfg)
		if err != nil {
			logger.Error("objectstore unavailable", "error", err)
			os.Exit(1)
		}
		if err := objectstore.EnsureBucket(ctx, archiveClient, archiveCfg); err != nil {
			logger.Error("archive bucket setup failed", "error", err)
			os.Exit(1)
		}
	}

	exportCfg, err := export.ConfigFromEnv()
	if err != nil {
		logger.Error("invalid export config", "error", err)
		os.Exit(2)
	}
	exportHTTP := exportCfg.HTTPClient(ctx)

	m := metrics.New()
	deps := contracts.Deps{
		Contracts: pgrepo.NewContractStore(db),
		Directory: pgrepo.NewDirectoryStore(db),
		Audit:     db,
		Metrics:   m,
		Logger:    logger,
	}
	if c := export.NewCampaignSyncClient(exportCfg.CampaignSyncURL, exportHTTP); c != nil {
		deps.CampaignSync = c
	}
	if c := export.NewDocumentClient(exportCfg.DocumentURL, exportHTTP); c != nil {
		deps.Documents = c
	}
	if a := export.NewArchiver(archiveClient, archiveCfg.BucketArchive); a != nil {
		deps.Archiver = a
	}
	svc, err := contracts.New(deps)
	if err != nil {
		logger.Error("service init failed", "error", err)
		os.Exit(2)
	}

	authCfg, err := auth.ConfigFromEnv()
	if err != nil {
		logger.Error("invalid auth config", "error", err)
		os.Exit(2)
	}
	var authenticator auth.Authenticator
	switch authCfg.Mode {
	case auth.ModeDev:
		authenticator = auth.NewDevAuthenticator(authCfg)
	case auth.ModeOIDC:
		authenticator, err = auth.NewOIDCAuthenticator(ctx, authCfg)
		if err != nil {
			logger.Error("oidc init failed", "error", err)
			os.Exit(1)
		}
	case auth.ModeDisabled:
		authenticator = nil
	}
	protected := func(handler http.Handler) http.Handler {
		if authenticator == nil {
			return handler
		}
		return auth.Middleware{Logger: logger, Authenticator: authenticator}.Wrap(handler)
	}

	readiness := []httpserver.ReadinessCheck{{
		Name: "postgres",
		Check: func(ctx context.Context) error {
			checkCtx, cancel := context.WithTimeout(ctx, 750*time.Millisecond)
			defer cancel()
			return db.PingContext(checkCtx)
		},
	}}
	if archiveClient != nil {
		readiness = append(readiness, httpserver.ReadinessCheck{
			Name: "objectstore",
			Check: func(ctx context.Context) error {
				checkCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
				defer cancel()
				return objectstore.CheckBucket(checkCtx, archiveClient, archiveCfg)
			},
		})
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", httpserver.Healthz("contractflow"))
	mux.HandleFunc("GET /readyz", httpserver.ReadyzWithChecks("contractflow", readiness...))
	mux.Handle("GET /metrics", m.Handler())

	api := &apiHandler{service: svc}
	api.register(mux, protected)

	handler := httpserver.Wrap(logger, "contractflow", mux)
	if err := httpserver.Run(ctx, logger, httpserver.Config{
		Service:         "contractflow",
		Addr:            addr,
		ShutdownTimeout: shutdownTimeout,
	}, handler); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
