package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/veldran/kingdom-manager/internal/domain/feedback"
	"github.com/veldran/kingdom-manager/internal/infrastructure/tenantstore"
	qb "github.com/veldran/kingdom-manager/internal/platform/querybuilder"
)

// FeedbackRepository works against the shared store: feedback is not
// tenant data.
type FeedbackRepository struct {
	registry *tenantstore.Registry
	now      func() time.Time
}

var feedbackSelectColumns = []string{
	"id",
	"name",
	"email",
	"subject",
	"message",
	"feedback_type",
	"donation_amount",
	"status",
	"admin_notes",
	"created_at",
	"updated_at",
}

const feedbackStatsQuery = `
SELECT
	COUNT(*) AS total,
	COALESCE(SUM(CASE WHEN status = 'new' THEN 1 ELSE 0 END), 0) AS new_count,
	COALESCE(SUM(CASE WHEN status = 'in_progress' THEN 1 ELSE 0 END), 0) AS in_progress_count,
	COALESCE(SUM(CASE WHEN status = 'resolved' THEN 1 ELSE 0 END), 0) AS resolved_count,
	COALESCE(SUM(CASE WHEN status = 'closed' THEN 1 ELSE 0 END), 0) AS closed_count,
	COALESCE(SUM(CASE WHEN donation_amount > 0 THEN donation_amount ELSE 0 END), 0) AS total_donations,
	COALESCE(SUM(CASE WHEN feedback_type = 'bug' THEN 1 ELSE 0 END), 0) AS bug_count,
	COALESCE(SUM(CASE WHEN feedback_type = 'feature' THEN 1 ELSE 0 END), 0) AS feature_count,
	COALESCE(SUM(CASE WHEN feedback_type = 'improvement' THEN 1 ELSE 0 END), 0) AS improvement_count,
	COALESCE(SUM(CASE WHEN feedback_type = 'general' THEN 1 ELSE 0 END), 0) AS general_count
FROM feedback`

func NewFeedbackRepository(registry *tenantstore.Registry) *FeedbackRepository {
	return &FeedbackRepository{registry: registry, now: time.Now}
}

func (r *FeedbackRepository) Create(ctx context.Context, f feedback.Feedback) (feedback.Feedback, error) {
	query, args, err := qb.InsertInto("feedback").
		Columns("name", "email", "subject", "message", "feedback_type", "donation_amount").
		Values(
			ptrToAny(f.Name),
			ptrToAny(f.Email),
			ptrToAny(f.Subject),
			f.Message,
			string(f.Type),
			ptrToAny(f.DonationAmount),
		).
		ToSQL()
	if err != nil {
		return feedback.Feedback{}, fmt.Errorf("build insert feedback query: %w", err)
	}

	result, err := r.registry.Shared().ExecContext(ctx, query, args...)
	if err != nil {
		return feedback.Feedback{}, fmt.Errorf("insert feedback: %w", err)
	}

	rowID, err := result.LastInsertId()
	if err != nil {
		return feedback.Feedback{}, fmt.Errorf("resolve inserted feedback id: %w", err)
	}

	var row feedbackTableModel
	if err := r.registry.Shared().GetContext(ctx, &row,
		`SELECT id, name, email, subject, message, feedback_type, donation_amount,
		        status, admin_notes, created_at, updated_at
		 FROM feedback WHERE rowid = ?`, rowID,
	); err != nil {
		return feedback.Feedback{}, fmt.Errorf("read inserted feedback: %w", err)
	}

	return row.toDomain(), nil
}

func (r *FeedbackRepository) List(ctx context.Context) ([]feedback.Feedback, error) {
	query, args, err := qb.Select(feedbackSelectColumns...).From("feedback").
		OrderBy("created_at DESC", "id DESC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select feedback query: %w", err)
	}

	var rows []feedbackTableModel
	if err := r.registry.Shared().SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select feedback: %w", err)
	}

	out := make([]feedback.Feedback, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}

func (r *FeedbackRepository) UpdateStatus(ctx context.Context, feedbackID int64, status feedback.Status, adminNotes *string) (bool, error) {
	query, args, err := qb.Update("feedback").
		Set("status", string(status)).
		Set("admin_notes", ptrToAny(adminNotes)).
		Set("updated_at", formatTimestamp(r.now())).
		Where(qb.Eq("id", feedbackID)).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build update feedback status query: %w", err)
	}

	result, err := r.registry.Shared().ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("update feedback status: %w", err)
	}

	return rowsAffected(result), nil
}

func (r *FeedbackRepository) Delete(ctx context.Context, feedbackID int64) (bool, error) {
	query, args, err := qb.DeleteFrom("feedback").
		Where(qb.Eq("id", feedbackID)).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build delete feedback query: %w", err)
	}

	result, err := r.registry.Shared().ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("delete feedback: %w", err)
	}

	return rowsAffected(result), nil
}

func (r *FeedbackRepository) Stats(ctx context.Context) (feedback.Stats, error) {
	var row feedbackStatsModel
	if err := r.registry.Shared().GetContext(ctx, &row, feedbackStatsQuery); err != nil {
		return feedback.Stats{}, fmt.Errorf("select feedback stats: %w", err)
	}

	return row.toDomain(), nil
}
