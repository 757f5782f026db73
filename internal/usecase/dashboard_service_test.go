package usecase_test

import (
	"context"
	"testing"
)

func TestDashboardService_Get(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	aria, err := env.players.CreatePlayer(ctx, testUserID, "Aria")
	if err != nil {
		t.Fatalf("create player: %v", err)
	}
	if _, err := env.players.CreatePlayer(ctx, testUserID, "Borin"); err != nil {
		t.Fatalf("create player: %v", err)
	}
	siege, err := env.events.CreateEvent(ctx, testUserID, "Siege of Dawn", nil)
	if err != nil {
		t.Fatalf("create event: %v", err)
	}
	if _, err := env.alliances.CreateAlliance(ctx, testUserID, "Iron Wolves", ""); err != nil {
		t.Fatalf("create alliance: %v", err)
	}
	if _, err := env.players.AssignMvp(ctx, testUserID, aria.ID, &siege.ID); err != nil {
		t.Fatalf("assign mvp: %v", err)
	}

	dashboard, err := env.dashboard.Get(ctx, testUserID)
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if dashboard.TotalPlayers != 2 || dashboard.TotalEvents != 1 || dashboard.TotalAlliances != 1 {
		t.Fatalf("unexpected totals: %+v", dashboard)
	}
	if len(dashboard.RecentMvps) != 1 || dashboard.RecentMvps[0].Name != "Aria" {
		t.Fatalf("unexpected recent mvps: %+v", dashboard.RecentMvps)
	}
	if len(dashboard.RecentEvents) != 1 || len(dashboard.RecentAlliances) != 1 {
		t.Fatalf("unexpected recent activity: %+v", dashboard)
	}
}

func TestDashboardService_GetEmptyTenant(t *testing.T) {
	env := newTestEnv(t)

	dashboard, err := env.dashboard.Get(context.Background(), testUserID)
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if dashboard.TotalPlayers != 0 || dashboard.TotalEvents != 0 || dashboard.TotalAlliances != 0 {
		t.Fatalf("expected zero totals, got %+v", dashboard)
	}
}
