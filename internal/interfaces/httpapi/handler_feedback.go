package httpapi

import (
	"net/http"

	"github.com/veldran/kingdom-manager/internal/domain/feedback"
)

func (h *Handler) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SubmitFeedback")
	defer span.End()

	var req submitFeedbackRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	created, err := h.feedbackService.Submit(ctx, feedback.Feedback{
		Name:           req.Name,
		Email:          req.Email,
		Subject:        req.Subject,
		Message:        req.Message,
		Type:           feedback.Type(req.Type),
		DonationAmount: req.DonationAmount,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "submit feedback failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, feedbackToDTO(created))
}

func (h *Handler) ListFeedback(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListFeedback")
	defer span.End()

	entries, err := h.feedbackService.ListFeedback(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list feedback failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]feedbackDTO, 0, len(entries))
	for _, entry := range entries {
		items = append(items, feedbackToDTO(entry))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetFeedbackStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetFeedbackStats")
	defer span.End()

	stats, err := h.feedbackService.FeedbackStats(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "feedback stats failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, feedbackStatsToDTO(stats))
}

func (h *Handler) UpdateFeedbackStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateFeedbackStatus")
	defer span.End()

	feedbackID, err := parsePathID(r, "feedbackID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req updateFeedbackStatusRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	if err := h.feedbackService.UpdateStatus(ctx, feedbackID, feedback.Status(req.Status), req.AdminNotes); err != nil {
		h.logger.WarnContext(ctx, "update feedback status failed", "feedback_id", feedbackID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "updated"})
}

func (h *Handler) DeleteFeedback(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteFeedback")
	defer span.End()

	feedbackID, err := parsePathID(r, "feedbackID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	if err := h.feedbackService.DeleteFeedback(ctx, feedbackID); err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "deleted"})
}
