package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/veldran/kingdom-manager/internal/domain/alliance"
	"github.com/veldran/kingdom-manager/internal/domain/event"
	"github.com/veldran/kingdom-manager/internal/domain/feedback"
	"github.com/veldran/kingdom-manager/internal/domain/player"
	"github.com/veldran/kingdom-manager/internal/domain/user"
	"github.com/veldran/kingdom-manager/internal/infrastructure/patchnotes"
	"github.com/veldran/kingdom-manager/internal/usecase"
)

func writeUnauthenticated(ctx context.Context, w http.ResponseWriter) {
	writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

func decodeRequest(r *http.Request, into any) error {
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(into); err != nil {
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}

func parsePathID(r *http.Request, name string) (int64, error) {
	raw := r.PathValue(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid %s: %q", usecase.ErrInvalidInput, name, raw)
	}
	return id, nil
}

// Requests.

type loginRequest struct {
	Username string `json:"username" validate:"required,max=100"`
	Password string `json:"password" validate:"required"`
}

type registerRequest struct {
	Username string `json:"username" validate:"required,max=100"`
	Password string `json:"password" validate:"required,min=6"`
	IsAdmin  bool   `json:"is_admin"`
}

type updateUserRequest struct {
	Username string `json:"username" validate:"required,max=100"`
	Password string `json:"password" validate:"omitempty,min=6"`
	IsAdmin  bool   `json:"is_admin"`
}

type createPlayerRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

type updatePlayerRequest struct {
	Name         string `json:"name" validate:"required,max=100"`
	Description  string `json:"description" validate:"max=500"`
	Role         string `json:"role" validate:"omitempty,oneof=leader co-leader elite normal"`
	IsOnHolidays bool   `json:"is_on_holidays"`
}

type assignMvpRequest struct {
	EventID *int64 `json:"event_id" validate:"omitempty,gt=0"`
}

type eventRequest struct {
	Name        string `json:"name" validate:"required,max=200"`
	MvpPlayerID *int64 `json:"mvp_player_id" validate:"omitempty,gt=0"`
}

type allianceRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"max=500"`
}

type blacklistRequest struct {
	IsBlacklisted bool `json:"is_blacklisted"`
}

type linkAllianceRequest struct {
	AllianceID int64 `json:"alliance_id" validate:"required,gt=0"`
}

type submitFeedbackRequest struct {
	Name           *string  `json:"name" validate:"omitempty,max=100"`
	Email          *string  `json:"email" validate:"omitempty,email,max=200"`
	Subject        *string  `json:"subject" validate:"omitempty,max=200"`
	Message        string   `json:"message" validate:"required,max=5000"`
	Type           string   `json:"type" validate:"omitempty,oneof=general bug feature improvement"`
	DonationAmount *float64 `json:"donation_amount" validate:"omitempty,gte=0"`
}

type updateFeedbackStatusRequest struct {
	Status     string  `json:"status" validate:"required,oneof=new in_progress resolved closed"`
	AdminNotes *string `json:"admin_notes" validate:"omitempty,max=2000"`
}

type publishPatchNotesRequest struct {
	Content string `json:"content" validate:"required"`
}

type sweepSequencesRequest struct {
	MaxWorkers int `json:"max_workers" validate:"omitempty,gte=0,lte=32"`
}

// DTOs.

type identityDTO struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	IsAdmin  bool   `json:"isAdmin"`
}

type userDTO struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	IsAdmin      bool      `json:"isAdmin"`
	DatabaseName *string   `json:"databaseName,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

func userToDTO(u user.User) userDTO {
	return userDTO{
		ID:        u.ID,
		Username:  u.Username,
		IsAdmin:   u.IsAdmin,
		CreatedAt: u.CreatedAt,
	}
}

func userWithDatabaseToDTO(u user.WithDatabase) userDTO {
	dto := userToDTO(u.User)
	dto.DatabaseName = u.DatabaseName
	return dto
}

type loginDTO struct {
	Token string  `json:"token"`
	User  userDTO `json:"user"`
}

type playerDTO struct {
	ID           int64      `json:"id"`
	Name         string     `json:"name"`
	Description  string     `json:"description,omitempty"`
	Role         string     `json:"role"`
	IsOnHolidays bool       `json:"isOnHolidays"`
	MvpCount     int64      `json:"mvpCount"`
	LastMvpDate  *time.Time `json:"lastMvpDate,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
}

func playerToDTO(p player.Player) playerDTO {
	return playerDTO{
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description,
		Role:         string(p.Role),
		IsOnHolidays: p.IsOnHolidays,
		MvpCount:     p.MvpCount,
		LastMvpDate:  p.LastMvpDate,
		CreatedAt:    p.CreatedAt,
	}
}

type playerStatusDTO struct {
	playerDTO
	IsMvp    bool   `json:"isMvp"`
	MvpEvent string `json:"mvpEvent,omitempty"`
}

func playerStatusToDTO(p player.WithStatus) playerStatusDTO {
	return playerStatusDTO{
		playerDTO: playerToDTO(p.Player),
		IsMvp:     p.IsMvp,
		MvpEvent:  p.MvpEvent,
	}
}

type mvpHistoryDTO struct {
	EventName    string    `json:"eventName"`
	AssignedDate time.Time `json:"assignedDate"`
}

type rotationDTO struct {
	Players        []playerDTO `json:"players"`
	TotalPlayers   int         `json:"totalPlayers"`
	PlayersWithMvp int         `json:"playersWithMvp"`
	NeedsReset     bool        `json:"needsReset"`
	NextMvp        *playerDTO  `json:"nextMvp,omitempty"`
}

func rotationToDTO(status player.RotationStatus) rotationDTO {
	players := make([]playerDTO, 0, len(status.Players))
	for _, p := range status.Players {
		players = append(players, playerToDTO(p))
	}

	dto := rotationDTO{
		Players:        players,
		TotalPlayers:   status.TotalPlayers,
		PlayersWithMvp: status.PlayersWithMvp,
		NeedsReset:     status.NeedsReset,
	}
	if status.NextMvp != nil {
		next := playerToDTO(*status.NextMvp)
		dto.NextMvp = &next
	}
	return dto
}

type eventDTO struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	MvpPlayerID   *int64    `json:"mvpPlayerId,omitempty"`
	MvpPlayerName *string   `json:"mvpPlayerName,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

func eventToDTO(e event.Event) eventDTO {
	return eventDTO{
		ID:          e.ID,
		Name:        e.Name,
		MvpPlayerID: e.MvpPlayerID,
		CreatedAt:   e.CreatedAt,
	}
}

func eventWithMvpNameToDTO(e event.WithMvpName) eventDTO {
	dto := eventToDTO(e.Event)
	dto.MvpPlayerName = e.MvpPlayerName
	return dto
}

type allianceDTO struct {
	ID            int64      `json:"id"`
	Name          string     `json:"name"`
	Description   string     `json:"description,omitempty"`
	IsBlacklisted bool       `json:"isBlacklisted"`
	EventName     *string    `json:"eventName,omitempty"`
	AssignedAt    *time.Time `json:"assignedAt,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
}

func allianceToDTO(a alliance.Alliance) allianceDTO {
	return allianceDTO{
		ID:            a.ID,
		Name:          a.Name,
		Description:   a.Description,
		IsBlacklisted: a.IsBlacklisted,
		CreatedAt:     a.CreatedAt,
	}
}

func allianceWithEventToDTO(a alliance.WithEvent) allianceDTO {
	dto := allianceToDTO(a.Alliance)
	dto.EventName = a.EventName
	dto.AssignedAt = a.AssignedAt
	return dto
}

type allianceLinkDTO struct {
	ID         int64     `json:"id"`
	EventID    int64     `json:"eventId"`
	AllianceID int64     `json:"allianceId"`
	CreatedAt  time.Time `json:"createdAt"`
}

type feedbackDTO struct {
	ID             int64      `json:"id"`
	Name           *string    `json:"name,omitempty"`
	Email          *string    `json:"email,omitempty"`
	Subject        *string    `json:"subject,omitempty"`
	Message        string     `json:"message"`
	Type           string     `json:"type"`
	DonationAmount *float64   `json:"donationAmount,omitempty"`
	Status         string     `json:"status"`
	AdminNotes     *string    `json:"adminNotes,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      *time.Time `json:"updatedAt,omitempty"`
}

func feedbackToDTO(f feedback.Feedback) feedbackDTO {
	return feedbackDTO{
		ID:             f.ID,
		Name:           f.Name,
		Email:          f.Email,
		Subject:        f.Subject,
		Message:        f.Message,
		Type:           string(f.Type),
		DonationAmount: f.DonationAmount,
		Status:         string(f.Status),
		AdminNotes:     f.AdminNotes,
		CreatedAt:      f.CreatedAt,
		UpdatedAt:      f.UpdatedAt,
	}
}

type feedbackStatsDTO struct {
	Total            int64   `json:"total"`
	NewCount         int64   `json:"newCount"`
	InProgressCount  int64   `json:"inProgressCount"`
	ResolvedCount    int64   `json:"resolvedCount"`
	ClosedCount      int64   `json:"closedCount"`
	TotalDonations   float64 `json:"totalDonations"`
	BugCount         int64   `json:"bugCount"`
	FeatureCount     int64   `json:"featureCount"`
	ImprovementCount int64   `json:"improvementCount"`
	GeneralCount     int64   `json:"generalCount"`
}

func feedbackStatsToDTO(s feedback.Stats) feedbackStatsDTO {
	return feedbackStatsDTO(s)
}

type patchNotesDTO struct {
	PatchNotes string    `json:"patchNotes"`
	UpdatedAt  time.Time `json:"updatedAt"`
	UpdatedBy  string    `json:"updatedBy,omitempty"`
}

func patchNotesToDTO(doc patchnotes.Document) patchNotesDTO {
	return patchNotesDTO{
		PatchNotes: doc.PatchNotes,
		UpdatedAt:  doc.UpdatedAt,
		UpdatedBy:  doc.UpdatedBy,
	}
}

type dashboardDTO struct {
	TotalPlayers    int64             `json:"totalPlayers"`
	TotalEvents     int64             `json:"totalEvents"`
	TotalAlliances  int64             `json:"totalAlliances"`
	RecentMvps      []playerStatusDTO `json:"recentMvps"`
	RecentEvents    []eventDTO        `json:"recentEvents"`
	RecentAlliances []allianceDTO     `json:"recentAlliances"`
}

func dashboardToDTO(d usecase.Dashboard) dashboardDTO {
	mvps := make([]playerStatusDTO, 0, len(d.RecentMvps))
	for _, p := range d.RecentMvps {
		mvps = append(mvps, playerStatusToDTO(p))
	}
	events := make([]eventDTO, 0, len(d.RecentEvents))
	for _, e := range d.RecentEvents {
		events = append(events, eventWithMvpNameToDTO(e))
	}
	alliances := make([]allianceDTO, 0, len(d.RecentAlliances))
	for _, a := range d.RecentAlliances {
		alliances = append(alliances, allianceWithEventToDTO(a))
	}

	return dashboardDTO{
		TotalPlayers:    d.TotalPlayers,
		TotalEvents:     d.TotalEvents,
		TotalAlliances:  d.TotalAlliances,
		RecentMvps:      mvps,
		RecentEvents:    events,
		RecentAlliances: alliances,
	}
}

type sweepReportDTO struct {
	FileCount     int                  `json:"fileCount"`
	WorkerCount   int                  `json:"workerCount"`
	RepairedCount int                  `json:"repairedCount"`
	FailedCount   int                  `json:"failedCount"`
	Files         []sweepFileResultDTO `json:"files"`
}

type sweepFileResultDTO struct {
	File       string `json:"file"`
	Status     string `json:"status"`
	Message    string `json:"message,omitempty"`
	DurationMs int64  `json:"durationMs"`
}

func sweepReportToDTO(report usecase.SweepReport) sweepReportDTO {
	files := make([]sweepFileResultDTO, 0, len(report.Files))
	for _, f := range report.Files {
		files = append(files, sweepFileResultDTO{
			File:       f.File,
			Status:     f.Status,
			Message:    f.Message,
			DurationMs: f.DurationMs,
		})
	}

	return sweepReportDTO{
		FileCount:     report.FileCount,
		WorkerCount:   report.WorkerCount,
		RepairedCount: report.RepairedCount,
		FailedCount:   report.FailedCount,
		Files:         files,
	}
}
