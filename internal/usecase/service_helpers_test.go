package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/veldran/kingdom-manager/internal/domain/user"
	"github.com/veldran/kingdom-manager/internal/infrastructure/auth"
	"github.com/veldran/kingdom-manager/internal/infrastructure/repository/sqlite"
	"github.com/veldran/kingdom-manager/internal/infrastructure/tenantstore"
	"github.com/veldran/kingdom-manager/internal/platform/logging"
	"github.com/veldran/kingdom-manager/internal/usecase"
)

// testEnv wires the services against real temp stores so behavior is
// exercised end to end, not against mocks.
type testEnv struct {
	registry    *tenantstore.Registry
	userRepo    user.Repository
	players     *usecase.PlayerService
	events      *usecase.EventService
	alliances   *usecase.AllianceService
	auth        *usecase.AuthService
	feedback    *usecase.FeedbackService
	dashboard   *usecase.DashboardService
	maintenance *usecase.MaintenanceService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := logging.NewNop()
	registry, err := tenantstore.Open(context.Background(), t.TempDir(), logger)
	if err != nil {
		t.Fatalf("open registry: %v", err)
	}
	t.Cleanup(func() {
		if err := registry.Close(context.Background()); err != nil {
			t.Errorf("close registry: %v", err)
		}
	})

	playerRepo := sqlite.NewPlayerRepository(registry, logger)
	eventRepo := sqlite.NewEventRepository(registry)
	allianceRepo := sqlite.NewAllianceRepository(registry)
	userRepo := sqlite.NewUserRepository(registry)
	feedbackRepo := sqlite.NewFeedbackRepository(registry)
	dashboardRepo := sqlite.NewDashboardRepository(registry)

	tokens, err := auth.NewTokenManager("test-secret-test-secret-test-secret", time.Hour)
	if err != nil {
		t.Fatalf("token manager: %v", err)
	}

	return &testEnv{
		registry:    registry,
		userRepo:    userRepo,
		players:     usecase.NewPlayerService(playerRepo, eventRepo),
		events:      usecase.NewEventService(eventRepo, playerRepo, allianceRepo),
		alliances:   usecase.NewAllianceService(allianceRepo, eventRepo),
		auth:        usecase.NewAuthService(userRepo, tokens, auth.Hasher{}, registry, logger),
		feedback:    usecase.NewFeedbackService(feedbackRepo),
		dashboard:   usecase.NewDashboardService(dashboardRepo),
		maintenance: usecase.NewMaintenanceService(registry, 0, logger),
	}
}
