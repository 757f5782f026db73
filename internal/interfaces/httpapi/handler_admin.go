package httpapi

import (
	"net/http"
)

func (h *Handler) GetPatchNotes(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPatchNotes")
	defer span.End()

	doc, err := h.patchNotesService.Get(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "get patch notes failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, patchNotesToDTO(doc))
}

func (h *Handler) PublishPatchNotes(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.PublishPatchNotes")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeUnauthenticated(ctx, w)
		return
	}

	var req publishPatchNotesRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	doc, err := h.patchNotesService.Publish(ctx, req.Content, principal.Username)
	if err != nil {
		h.logger.WarnContext(ctx, "publish patch notes failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, patchNotesToDTO(doc))
}

func (h *Handler) RunSequenceSweep(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunSequenceSweep")
	defer span.End()

	var req sweepSequencesRequest
	if r.ContentLength > 0 {
		if err := decodeRequest(r, &req); err != nil {
			writeError(ctx, w, err)
			return
		}
		if err := h.validateRequest(ctx, req); err != nil {
			writeError(ctx, w, err)
			return
		}
	}

	report, err := h.maintenanceService.SweepSequences(ctx, req.MaxWorkers)
	if err != nil {
		h.logger.ErrorContext(ctx, "sequence sweep failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, sweepReportToDTO(report))
}
