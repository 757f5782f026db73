package feedback

import "context"

// Repository describes feedback persistence against the shared store.
// Mutations report whether the target row existed.
type Repository interface {
	Create(ctx context.Context, f Feedback) (Feedback, error)
	List(ctx context.Context) ([]Feedback, error)
	UpdateStatus(ctx context.Context, feedbackID int64, status Status, adminNotes *string) (bool, error)
	Delete(ctx context.Context, feedbackID int64) (bool, error)
	Stats(ctx context.Context) (Stats, error)
}
