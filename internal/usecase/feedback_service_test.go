package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/veldran/kingdom-manager/internal/domain/feedback"
	"github.com/veldran/kingdom-manager/internal/usecase"
)

func TestFeedbackService_SubmitForcesNewStatus(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	created, err := env.feedback.Submit(ctx, feedback.Feedback{
		Message: "rotation page is great",
		Type:    feedback.TypeGeneral,
		Status:  feedback.StatusResolved,
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if created.Status != feedback.StatusNew {
		t.Fatalf("submissions must start as new, got %s", created.Status)
	}
}

func TestFeedbackService_SubmitValidation(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	if _, err := env.feedback.Submit(ctx, feedback.Feedback{Message: "  "}); !errors.Is(err, usecase.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for blank message, got %v", err)
	}
	if _, err := env.feedback.Submit(ctx, feedback.Feedback{Message: "hi", Type: "rant"}); !errors.Is(err, usecase.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown type, got %v", err)
	}
}

func TestFeedbackService_TriageLifecycle(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	created, err := env.feedback.Submit(ctx, feedback.Feedback{
		Message: "holiday flag resets on rename",
		Type:    feedback.TypeBug,
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	notes := "reproduced on main"
	if err := env.feedback.UpdateStatus(ctx, created.ID, feedback.StatusInProgress, &notes); err != nil {
		t.Fatalf("update status: %v", err)
	}
	if err := env.feedback.UpdateStatus(ctx, created.ID, "shelved", nil); !errors.Is(err, usecase.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown status, got %v", err)
	}
	if err := env.feedback.UpdateStatus(ctx, 42, feedback.StatusClosed, nil); !errors.Is(err, usecase.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	entries, err := env.feedback.ListFeedback(ctx)
	if err != nil {
		t.Fatalf("list feedback: %v", err)
	}
	if len(entries) != 1 || entries[0].Status != feedback.StatusInProgress {
		t.Fatalf("unexpected entries: %+v", entries)
	}
	if entries[0].AdminNotes == nil || *entries[0].AdminNotes != notes {
		t.Fatalf("expected admin notes to persist: %+v", entries[0])
	}

	if err := env.feedback.DeleteFeedback(ctx, created.ID); err != nil {
		t.Fatalf("delete feedback: %v", err)
	}
	if err := env.feedback.DeleteFeedback(ctx, created.ID); !errors.Is(err, usecase.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestFeedbackService_Stats(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	amount := 12.5
	submissions := []feedback.Feedback{
		{Message: "love it", Type: feedback.TypeGeneral, DonationAmount: &amount},
		{Message: "broken link", Type: feedback.TypeBug},
		{Message: "dark mode please", Type: feedback.TypeFeature},
	}
	for _, f := range submissions {
		if _, err := env.feedback.Submit(ctx, f); err != nil {
			t.Fatalf("submit %q: %v", f.Message, err)
		}
	}

	stats, err := env.feedback.FeedbackStats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Total != 3 || stats.BugCount != 1 || stats.FeatureCount != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if stats.NewCount != 3 {
		t.Fatalf("expected all entries in the new bucket: %+v", stats)
	}
	if stats.TotalDonations != 12.5 {
		t.Fatalf("unexpected donations: %+v", stats)
	}
}
