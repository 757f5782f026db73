package sqlite

import (
	"context"
	"testing"

	"github.com/veldran/kingdom-manager/internal/domain/feedback"
)

func strPtr(s string) *string { return &s }

func TestFeedbackRepository_CreateDefaultsToNew(t *testing.T) {
	ctx := context.Background()
	repo := NewFeedbackRepository(newTestRegistry(t))

	created, err := repo.Create(ctx, feedback.Feedback{
		Message: "siege planner crashes on empty roster",
		Type:    feedback.TypeBug,
		Name:    strPtr("anonymous knight"),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if created.Status != feedback.StatusNew {
		t.Fatalf("expected new status, got %q", created.Status)
	}
	if created.UpdatedAt != nil {
		t.Fatalf("fresh feedback must not carry updated_at")
	}
}

func TestFeedbackRepository_StatusLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := NewFeedbackRepository(newTestRegistry(t))

	created, err := repo.Create(ctx, feedback.Feedback{
		Message: "add co-leader notes",
		Type:    feedback.TypeFeature,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	found, err := repo.UpdateStatus(ctx, created.ID, feedback.StatusResolved, strPtr("shipped in last patch"))
	if err != nil {
		t.Fatalf("update status: %v", err)
	}
	if !found {
		t.Fatalf("expected feedback to exist")
	}

	list, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected one entry, got %d", len(list))
	}
	got := list[0]
	if got.Status != feedback.StatusResolved {
		t.Fatalf("status not applied: %+v", got)
	}
	if got.AdminNotes == nil || *got.AdminNotes != "shipped in last patch" {
		t.Fatalf("notes not applied: %+v", got)
	}
	if got.UpdatedAt == nil {
		t.Fatalf("expected updated_at after status change")
	}

	if found, err := repo.UpdateStatus(ctx, 999, feedback.StatusClosed, nil); err != nil || found {
		t.Fatalf("expected miss for absent feedback: found=%v err=%v", found, err)
	}
}

func TestFeedbackRepository_Stats(t *testing.T) {
	ctx := context.Background()
	repo := NewFeedbackRepository(newTestRegistry(t))

	empty, err := repo.Stats(ctx)
	if err != nil {
		t.Fatalf("stats on empty store: %v", err)
	}
	if empty.Total != 0 || empty.TotalDonations != 0 {
		t.Fatalf("expected zeroed stats, got %+v", empty)
	}

	amount := 12.5
	entries := []feedback.Feedback{
		{Message: "broken link", Type: feedback.TypeBug},
		{Message: "love it", Type: feedback.TypeGeneral, DonationAmount: &amount},
		{Message: "dark mode", Type: feedback.TypeFeature},
	}
	for _, f := range entries {
		if _, err := repo.Create(ctx, f); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	stats, err := repo.Stats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Total != 3 || stats.NewCount != 3 {
		t.Fatalf("unexpected totals: %+v", stats)
	}
	if stats.BugCount != 1 || stats.FeatureCount != 1 || stats.GeneralCount != 1 {
		t.Fatalf("unexpected type rollup: %+v", stats)
	}
	if stats.TotalDonations != 12.5 {
		t.Fatalf("unexpected donations: %v", stats.TotalDonations)
	}
}

func TestFeedbackRepository_Delete(t *testing.T) {
	ctx := context.Background()
	repo := NewFeedbackRepository(newTestRegistry(t))

	created, err := repo.Create(ctx, feedback.Feedback{Message: "spam", Type: feedback.TypeGeneral})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	found, err := repo.Delete(ctx, created.ID)
	if err != nil || !found {
		t.Fatalf("delete: found=%v err=%v", found, err)
	}
	found, err = repo.Delete(ctx, created.ID)
	if err != nil || found {
		t.Fatalf("second delete should miss: found=%v err=%v", found, err)
	}
}
