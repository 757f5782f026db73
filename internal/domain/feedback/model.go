package feedback

import (
	"fmt"
	"time"
)

type Type string

const (
	TypeGeneral     Type = "general"
	TypeBug         Type = "bug"
	TypeFeature     Type = "feature"
	TypeImprovement Type = "improvement"
)

var AllTypes = map[Type]struct{}{
	TypeGeneral:     {},
	TypeBug:         {},
	TypeFeature:     {},
	TypeImprovement: {},
}

type Status string

const (
	StatusNew        Status = "new"
	StatusInProgress Status = "in_progress"
	StatusResolved   Status = "resolved"
	StatusClosed     Status = "closed"
)

var AllStatuses = map[Status]struct{}{
	StatusNew:        {},
	StatusInProgress: {},
	StatusResolved:   {},
	StatusClosed:     {},
}

// Feedback is a public submission stored in the shared store, triaged by
// administrators.
type Feedback struct {
	ID             int64
	Name           *string
	Email          *string
	Subject        *string
	Message        string
	Type           Type
	DonationAmount *float64
	Status         Status
	AdminNotes     *string
	CreatedAt      time.Time
	UpdatedAt      *time.Time
}

func (f Feedback) Validate() error {
	if f.Message == "" {
		return fmt.Errorf("feedback message is required")
	}
	if _, ok := AllTypes[f.Type]; !ok {
		return fmt.Errorf("invalid feedback type: %s", f.Type)
	}
	if f.DonationAmount != nil && *f.DonationAmount < 0 {
		return fmt.Errorf("donation amount must not be negative")
	}

	return nil
}

// Stats is the admin triage rollup.
type Stats struct {
	Total            int64
	NewCount         int64
	InProgressCount  int64
	ResolvedCount    int64
	ClosedCount      int64
	TotalDonations   float64
	BugCount         int64
	FeatureCount     int64
	ImprovementCount int64
	GeneralCount     int64
}
