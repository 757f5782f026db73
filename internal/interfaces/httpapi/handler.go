package httpapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/veldran/kingdom-manager/internal/platform/logging"
	"github.com/veldran/kingdom-manager/internal/usecase"
)

type Handler struct {
	authService        *usecase.AuthService
	playerService      *usecase.PlayerService
	eventService       *usecase.EventService
	allianceService    *usecase.AllianceService
	dashboardService   *usecase.DashboardService
	feedbackService    *usecase.FeedbackService
	patchNotesService  *usecase.PatchNotesService
	maintenanceService *usecase.MaintenanceService
	logger             *logging.Logger
	validator          *validator.Validate
}

func NewHandler(
	authService *usecase.AuthService,
	playerService *usecase.PlayerService,
	eventService *usecase.EventService,
	allianceService *usecase.AllianceService,
	dashboardService *usecase.DashboardService,
	feedbackService *usecase.FeedbackService,
	patchNotesService *usecase.PatchNotesService,
	maintenanceService *usecase.MaintenanceService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.NewNop()
	}

	return &Handler{
		authService:        authService,
		playerService:      playerService,
		eventService:       eventService,
		allianceService:    allianceService,
		dashboardService:   dashboardService,
		feedbackService:    feedbackService,
		patchNotesService:  patchNotesService,
		maintenanceService: maintenanceService,
		logger:             logger,
		validator:          validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetDashboard")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeUnauthenticated(ctx, w)
		return
	}

	dashboard, err := h.dashboardService.Get(ctx, principal.UserID)
	if err != nil {
		h.logger.ErrorContext(ctx, "get dashboard failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, dashboardToDTO(dashboard))
}
