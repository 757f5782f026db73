package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/veldran/kingdom-manager/internal/domain/feedback"
)

type FeedbackService struct {
	feedbackRepo feedback.Repository
}

func NewFeedbackService(feedbackRepo feedback.Repository) *FeedbackService {
	return &FeedbackService{feedbackRepo: feedbackRepo}
}

// Submit stores a public submission. New entries always start in the
// "new" status regardless of input.
func (s *FeedbackService) Submit(ctx context.Context, f feedback.Feedback) (feedback.Feedback, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FeedbackService.Submit")
	defer span.End()

	f.Message = strings.TrimSpace(f.Message)
	if f.Type == "" {
		f.Type = feedback.TypeGeneral
	}
	f.Status = feedback.StatusNew
	if err := f.Validate(); err != nil {
		return feedback.Feedback{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	created, err := s.feedbackRepo.Create(ctx, f)
	if err != nil {
		return feedback.Feedback{}, fmt.Errorf("create feedback: %w", err)
	}

	return created, nil
}

func (s *FeedbackService) ListFeedback(ctx context.Context) ([]feedback.Feedback, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FeedbackService.ListFeedback")
	defer span.End()

	entries, err := s.feedbackRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}

	return entries, nil
}

func (s *FeedbackService) UpdateStatus(ctx context.Context, feedbackID int64, status feedback.Status, adminNotes *string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.FeedbackService.UpdateStatus")
	defer span.End()

	if _, ok := feedback.AllStatuses[status]; !ok {
		return fmt.Errorf("%w: invalid feedback status: %s", ErrInvalidInput, status)
	}

	exists, err := s.feedbackRepo.UpdateStatus(ctx, feedbackID, status, adminNotes)
	if err != nil {
		return fmt.Errorf("update feedback status: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: feedback=%d", ErrNotFound, feedbackID)
	}

	return nil
}

func (s *FeedbackService) DeleteFeedback(ctx context.Context, feedbackID int64) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.FeedbackService.DeleteFeedback")
	defer span.End()

	exists, err := s.feedbackRepo.Delete(ctx, feedbackID)
	if err != nil {
		return fmt.Errorf("delete feedback: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: feedback=%d", ErrNotFound, feedbackID)
	}

	return nil
}

func (s *FeedbackService) FeedbackStats(ctx context.Context) (feedback.Stats, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FeedbackService.FeedbackStats")
	defer span.End()

	stats, err := s.feedbackRepo.Stats(ctx)
	if err != nil {
		return feedback.Stats{}, fmt.Errorf("feedback stats: %w", err)
	}

	return stats, nil
}
