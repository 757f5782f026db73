package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/veldran/kingdom-manager/internal/usecase"
)

const testUserID = int64(1)

func TestPlayerService_CreateRequiresName(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.players.CreatePlayer(context.Background(), testUserID, "   ")
	if !errors.Is(err, usecase.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestPlayerService_AssignMvpBumpsCounterAndLinksEvent(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	aria, err := env.players.CreatePlayer(ctx, testUserID, "Aria")
	if err != nil {
		t.Fatalf("create player: %v", err)
	}
	siege, err := env.events.CreateEvent(ctx, testUserID, "Siege of Dawn", nil)
	if err != nil {
		t.Fatalf("create event: %v", err)
	}

	crowned, err := env.players.AssignMvp(ctx, testUserID, aria.ID, &siege.ID)
	if err != nil {
		t.Fatalf("assign mvp: %v", err)
	}
	if crowned.MvpCount != 1 {
		t.Fatalf("expected mvp count 1, got %d", crowned.MvpCount)
	}
	if crowned.LastMvpDate == nil {
		t.Fatalf("expected last mvp date to be set")
	}

	players, err := env.players.ListPlayers(ctx, testUserID)
	if err != nil {
		t.Fatalf("list players: %v", err)
	}
	if len(players) != 1 || !players[0].IsMvp || players[0].MvpEvent != "Siege of Dawn" {
		t.Fatalf("expected Aria flagged as mvp of Siege of Dawn, got %+v", players)
	}
}

func TestPlayerService_CounterSurvivesEventRemoval(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	aria, err := env.players.CreatePlayer(ctx, testUserID, "Aria")
	if err != nil {
		t.Fatalf("create player: %v", err)
	}
	siege, err := env.events.CreateEvent(ctx, testUserID, "Siege of Dawn", nil)
	if err != nil {
		t.Fatalf("create event: %v", err)
	}
	if _, err := env.players.AssignMvp(ctx, testUserID, aria.ID, &siege.ID); err != nil {
		t.Fatalf("assign mvp: %v", err)
	}

	if err := env.events.DeleteEvent(ctx, testUserID, siege.ID); err != nil {
		t.Fatalf("delete event: %v", err)
	}

	reloaded, err := env.players.GetPlayer(ctx, testUserID, aria.ID)
	if err != nil {
		t.Fatalf("get player: %v", err)
	}
	if reloaded.MvpCount != 1 {
		t.Fatalf("expected counter to survive event removal, got %d", reloaded.MvpCount)
	}

	history, err := env.players.MvpHistory(ctx, testUserID, aria.ID)
	if err != nil {
		t.Fatalf("mvp history: %v", err)
	}
	if len(history) != 0 {
		t.Fatalf("expected empty history after event removal, got %+v", history)
	}
}

func TestPlayerService_AssignMvpMissingEventStillBumps(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	aria, err := env.players.CreatePlayer(ctx, testUserID, "Aria")
	if err != nil {
		t.Fatalf("create player: %v", err)
	}

	missingEvent := int64(99)
	_, err = env.players.AssignMvp(ctx, testUserID, aria.ID, &missingEvent)
	if !errors.Is(err, usecase.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	// The counter moves before the event link, so the failed link leaves
	// the bump in place.
	reloaded, err := env.players.GetPlayer(ctx, testUserID, aria.ID)
	if err != nil {
		t.Fatalf("get player: %v", err)
	}
	if reloaded.MvpCount != 1 {
		t.Fatalf("expected mvp count 1 after failed event link, got %d", reloaded.MvpCount)
	}
}

func TestPlayerService_HistoryFollowsReassignment(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	aria, err := env.players.CreatePlayer(ctx, testUserID, "Aria")
	if err != nil {
		t.Fatalf("create player: %v", err)
	}
	borin, err := env.players.CreatePlayer(ctx, testUserID, "Borin")
	if err != nil {
		t.Fatalf("create player: %v", err)
	}
	siege, err := env.events.CreateEvent(ctx, testUserID, "Siege of Dawn", nil)
	if err != nil {
		t.Fatalf("create event: %v", err)
	}

	if _, err := env.players.AssignMvp(ctx, testUserID, aria.ID, &siege.ID); err != nil {
		t.Fatalf("assign aria: %v", err)
	}
	if _, err := env.players.AssignMvp(ctx, testUserID, borin.ID, &siege.ID); err != nil {
		t.Fatalf("assign borin: %v", err)
	}

	ariaHistory, err := env.players.MvpHistory(ctx, testUserID, aria.ID)
	if err != nil {
		t.Fatalf("aria history: %v", err)
	}
	if len(ariaHistory) != 0 {
		t.Fatalf("expected the reassigned event to leave aria's history, got %+v", ariaHistory)
	}

	borinHistory, err := env.players.MvpHistory(ctx, testUserID, borin.ID)
	if err != nil {
		t.Fatalf("borin history: %v", err)
	}
	if len(borinHistory) != 1 || borinHistory[0].EventName != "Siege of Dawn" {
		t.Fatalf("expected borin to hold the event, got %+v", borinHistory)
	}

	// Aria's counter still records the crowning.
	reloaded, err := env.players.GetPlayer(ctx, testUserID, aria.ID)
	if err != nil {
		t.Fatalf("get player: %v", err)
	}
	if reloaded.MvpCount != 1 {
		t.Fatalf("expected aria's counter untouched, got %d", reloaded.MvpCount)
	}
}

func TestPlayerService_RotationStatus(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	names := []string{"Aria", "Borin", "Cora"}
	ids := make(map[string]int64, len(names))
	for _, name := range names {
		created, err := env.players.CreatePlayer(ctx, testUserID, name)
		if err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
		ids[name] = created.ID
	}

	if _, err := env.players.AssignMvp(ctx, testUserID, ids["Borin"], nil); err != nil {
		t.Fatalf("assign borin: %v", err)
	}

	status, err := env.players.RotationStatus(ctx, testUserID)
	if err != nil {
		t.Fatalf("rotation status: %v", err)
	}
	if status.TotalPlayers != 3 || status.PlayersWithMvp != 1 {
		t.Fatalf("unexpected rotation tallies: %+v", status)
	}
	if status.NeedsReset {
		t.Fatalf("rotation should not need a reset yet")
	}
	if status.NextMvp == nil || status.NextMvp.Name == "Borin" {
		t.Fatalf("expected an uncrowned player next, got %+v", status.NextMvp)
	}

	for _, name := range []string{"Aria", "Cora"} {
		if _, err := env.players.AssignMvp(ctx, testUserID, ids[name], nil); err != nil {
			t.Fatalf("assign %s: %v", name, err)
		}
	}

	status, err = env.players.RotationStatus(ctx, testUserID)
	if err != nil {
		t.Fatalf("rotation status: %v", err)
	}
	if !status.NeedsReset {
		t.Fatalf("expected a full cycle to need a reset: %+v", status)
	}

	if err := env.players.ResetRotation(ctx, testUserID); err != nil {
		t.Fatalf("reset rotation: %v", err)
	}

	status, err = env.players.RotationStatus(ctx, testUserID)
	if err != nil {
		t.Fatalf("rotation status: %v", err)
	}
	if status.PlayersWithMvp != 0 || status.NeedsReset {
		t.Fatalf("expected a clean slate after reset: %+v", status)
	}
}

func TestPlayerService_RotationStatusEmptyTenant(t *testing.T) {
	env := newTestEnv(t)

	status, err := env.players.RotationStatus(context.Background(), testUserID)
	if err != nil {
		t.Fatalf("rotation status: %v", err)
	}
	if status.NeedsReset || status.NextMvp != nil || status.TotalPlayers != 0 {
		t.Fatalf("expected an idle rotation for an empty tenant, got %+v", status)
	}
}

func TestPlayerService_UpdateDoesNotMoveCounter(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	aria, err := env.players.CreatePlayer(ctx, testUserID, "Aria")
	if err != nil {
		t.Fatalf("create player: %v", err)
	}
	if _, err := env.players.AssignMvp(ctx, testUserID, aria.ID, nil); err != nil {
		t.Fatalf("assign mvp: %v", err)
	}

	updated, err := env.players.UpdatePlayer(ctx, testUserID, aria.ID, usecase.UpdatePlayerInput{
		Name:         "Aria the Bold",
		Role:         "elite",
		IsOnHolidays: true,
	})
	if err != nil {
		t.Fatalf("update player: %v", err)
	}
	if updated.MvpCount != 1 || updated.LastMvpDate == nil {
		t.Fatalf("profile edit must not touch mvp state: %+v", updated)
	}
	if updated.Name != "Aria the Bold" || !updated.IsOnHolidays {
		t.Fatalf("unexpected profile state: %+v", updated)
	}
}

func TestPlayerService_DeleteLeavesEventLink(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	aria, err := env.players.CreatePlayer(ctx, testUserID, "Aria")
	if err != nil {
		t.Fatalf("create player: %v", err)
	}
	siege, err := env.events.CreateEvent(ctx, testUserID, "Siege of Dawn", &aria.ID)
	if err != nil {
		t.Fatalf("create event: %v", err)
	}

	if err := env.players.DeletePlayer(ctx, testUserID, aria.ID); err != nil {
		t.Fatalf("delete player: %v", err)
	}

	reloaded, err := env.events.GetEvent(ctx, testUserID, siege.ID)
	if err != nil {
		t.Fatalf("get event: %v", err)
	}
	if reloaded.MvpPlayerID == nil || *reloaded.MvpPlayerID != aria.ID {
		t.Fatalf("expected the event to keep its stale player link, got %+v", reloaded)
	}

	events, err := env.events.ListEvents(ctx, testUserID)
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	if len(events) != 1 || events[0].MvpPlayerName != nil {
		t.Fatalf("expected the stale link to resolve no name, got %+v", events)
	}
}
