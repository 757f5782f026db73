package sqlite

import (
	"database/sql"

	"github.com/veldran/kingdom-manager/internal/domain/feedback"
)

type feedbackTableModel struct {
	ID             int64           `db:"id"`
	Name           sql.NullString  `db:"name"`
	Email          sql.NullString  `db:"email"`
	Subject        sql.NullString  `db:"subject"`
	Message        string          `db:"message"`
	FeedbackType   string          `db:"feedback_type"`
	DonationAmount sql.NullFloat64 `db:"donation_amount"`
	Status         sql.NullString  `db:"status"`
	AdminNotes     sql.NullString  `db:"admin_notes"`
	CreatedAt      string          `db:"created_at"`
	UpdatedAt      sql.NullString  `db:"updated_at"`
}

type feedbackStatsModel struct {
	Total            int64   `db:"total"`
	NewCount         int64   `db:"new_count"`
	InProgressCount  int64   `db:"in_progress_count"`
	ResolvedCount    int64   `db:"resolved_count"`
	ClosedCount      int64   `db:"closed_count"`
	TotalDonations   float64 `db:"total_donations"`
	BugCount         int64   `db:"bug_count"`
	FeatureCount     int64   `db:"feature_count"`
	ImprovementCount int64   `db:"improvement_count"`
	GeneralCount     int64   `db:"general_count"`
}

func (m feedbackTableModel) toDomain() feedback.Feedback {
	status := feedback.StatusNew
	if m.Status.Valid && m.Status.String != "" {
		status = feedback.Status(m.Status.String)
	}

	return feedback.Feedback{
		ID:             m.ID,
		Name:           nullStringToPtr(m.Name),
		Email:          nullStringToPtr(m.Email),
		Subject:        nullStringToPtr(m.Subject),
		Message:        m.Message,
		Type:           feedback.Type(m.FeedbackType),
		DonationAmount: nullFloat64ToPtr(m.DonationAmount),
		Status:         status,
		AdminNotes:     nullStringToPtr(m.AdminNotes),
		CreatedAt:      parseTimestamp(m.CreatedAt),
		UpdatedAt:      nullTimestampToPtr(m.UpdatedAt),
	}
}

func (m feedbackStatsModel) toDomain() feedback.Stats {
	return feedback.Stats{
		Total:            m.Total,
		NewCount:         m.NewCount,
		InProgressCount:  m.InProgressCount,
		ResolvedCount:    m.ResolvedCount,
		ClosedCount:      m.ClosedCount,
		TotalDonations:   m.TotalDonations,
		BugCount:         m.BugCount,
		FeatureCount:     m.FeatureCount,
		ImprovementCount: m.ImprovementCount,
		GeneralCount:     m.GeneralCount,
	}
}
