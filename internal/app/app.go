package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/veldran/kingdom-manager/internal/config"
	"github.com/veldran/kingdom-manager/internal/infrastructure/auth"
	"github.com/veldran/kingdom-manager/internal/infrastructure/patchnotes"
	"github.com/veldran/kingdom-manager/internal/infrastructure/repository/sqlite"
	"github.com/veldran/kingdom-manager/internal/infrastructure/tenantstore"
	"github.com/veldran/kingdom-manager/internal/interfaces/httpapi"
	"github.com/veldran/kingdom-manager/internal/platform/logging"
	"github.com/veldran/kingdom-manager/internal/usecase"
)

// NewHTTPServer wires stores, services, and the HTTP router. The returned
// cleanup closes every open store handle and must run after Shutdown.
func NewHTTPServer(ctx context.Context, cfg config.Config, logger *logging.Logger) (*http.Server, func(context.Context) error, error) {
	if logger == nil {
		logger = logging.Default()
	}

	registry, err := tenantstore.Open(ctx, cfg.DataDir, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("open store registry: %w", err)
	}
	cleanup := func(ctx context.Context) error {
		return registry.Close(ctx)
	}

	playerRepo := sqlite.NewPlayerRepository(registry, logger)
	eventRepo := sqlite.NewEventRepository(registry)
	allianceRepo := sqlite.NewAllianceRepository(registry)
	userRepo := sqlite.NewUserRepository(registry)
	feedbackRepo := sqlite.NewFeedbackRepository(registry)
	dashboardRepo := sqlite.NewDashboardRepository(registry)

	tokens, err := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		_ = cleanup(ctx)
		return nil, nil, fmt.Errorf("build token manager: %w", err)
	}

	authSvc := usecase.NewAuthService(userRepo, tokens, auth.Hasher{}, registry, logger)
	if err := authSvc.BootstrapAdmin(ctx, cfg.AdminPassword); err != nil {
		_ = cleanup(ctx)
		return nil, nil, fmt.Errorf("bootstrap admin account: %w", err)
	}

	handler := httpapi.NewHandler(
		authSvc,
		usecase.NewPlayerService(playerRepo, eventRepo),
		usecase.NewEventService(eventRepo, playerRepo, allianceRepo),
		usecase.NewAllianceService(allianceRepo, eventRepo),
		usecase.NewDashboardService(dashboardRepo),
		usecase.NewFeedbackService(feedbackRepo),
		usecase.NewPatchNotesService(patchnotes.NewStore(cfg.PatchNotesPath)),
		usecase.NewMaintenanceService(registry, cfg.MaintenanceWorkers, logger),
		logger,
	)
	router := httpapi.NewRouter(handler, tokens, logger, cfg.CORSAllowedOrigins)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		_ = cleanup(ctx)
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, cleanup, nil
}
