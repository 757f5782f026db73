package usecase_test

import (
	"context"
	"testing"
)

func TestMaintenanceService_SweepSequences(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	for userID := int64(1); userID <= 3; userID++ {
		if _, err := env.players.CreatePlayer(ctx, userID, "Aria"); err != nil {
			t.Fatalf("seed user %d: %v", userID, err)
		}
	}

	// Knock one store's counter out of line.
	db, err := env.registry.Tenant(ctx, 2)
	if err != nil {
		t.Fatalf("tenant: %v", err)
	}
	if _, err := db.ExecContext(ctx,
		`UPDATE sqlite_sequence SET seq = 0 WHERE name = 'players'`); err != nil {
		t.Fatalf("corrupt sequence: %v", err)
	}

	report, err := env.maintenance.SweepSequences(ctx, 2)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if report.FileCount != 3 || report.RepairedCount != 3 || report.FailedCount != 0 {
		t.Fatalf("unexpected report: %+v", report)
	}
	if report.WorkerCount != 2 {
		t.Fatalf("expected the requested worker bound, got %d", report.WorkerCount)
	}

	var seq int64
	if err := db.GetContext(ctx, &seq,
		`SELECT seq FROM sqlite_sequence WHERE name = 'players'`); err != nil {
		t.Fatalf("read sequence: %v", err)
	}
	if seq != 1 {
		t.Fatalf("expected repaired sequence 1, got %d", seq)
	}

	// New inserts continue past the repaired counter.
	created, err := env.players.CreatePlayer(ctx, 2, "Borin")
	if err != nil {
		t.Fatalf("create after sweep: %v", err)
	}
	if created.ID != 2 {
		t.Fatalf("expected id 2 after repair, got %d", created.ID)
	}
}

func TestMaintenanceService_SweepEmptyDataDir(t *testing.T) {
	env := newTestEnv(t)

	report, err := env.maintenance.SweepSequences(context.Background(), 0)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if report.FileCount != 0 || len(report.Files) != 0 {
		t.Fatalf("expected an empty report, got %+v", report)
	}
}
