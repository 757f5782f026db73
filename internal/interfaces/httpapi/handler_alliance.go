package httpapi

import (
	"net/http"
)

func (h *Handler) ListAlliances(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListAlliances")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeUnauthenticated(ctx, w)
		return
	}

	alliances, err := h.allianceService.ListAlliances(ctx, principal.UserID)
	if err != nil {
		h.logger.ErrorContext(ctx, "list alliances failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]allianceDTO, 0, len(alliances))
	for _, a := range alliances {
		items = append(items, allianceWithEventToDTO(a))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetAlliance(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetAlliance")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeUnauthenticated(ctx, w)
		return
	}

	allianceID, err := parsePathID(r, "allianceID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.allianceService.GetAlliance(ctx, principal.UserID, allianceID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, allianceToDTO(item))
}

func (h *Handler) CreateAlliance(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateAlliance")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeUnauthenticated(ctx, w)
		return
	}

	var req allianceRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	created, err := h.allianceService.CreateAlliance(ctx, principal.UserID, req.Name, req.Description)
	if err != nil {
		h.logger.WarnContext(ctx, "create alliance failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, allianceToDTO(created))
}

func (h *Handler) UpdateAlliance(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateAlliance")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeUnauthenticated(ctx, w)
		return
	}

	allianceID, err := parsePathID(r, "allianceID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req allianceRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	updated, err := h.allianceService.UpdateAlliance(ctx, principal.UserID, allianceID, req.Name, req.Description)
	if err != nil {
		h.logger.WarnContext(ctx, "update alliance failed", "user_id", principal.UserID, "alliance_id", allianceID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, allianceToDTO(updated))
}

func (h *Handler) DeleteAlliance(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteAlliance")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeUnauthenticated(ctx, w)
		return
	}

	allianceID, err := parsePathID(r, "allianceID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	if err := h.allianceService.DeleteAlliance(ctx, principal.UserID, allianceID); err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) SetAllianceBlacklist(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SetAllianceBlacklist")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeUnauthenticated(ctx, w)
		return
	}

	allianceID, err := parsePathID(r, "allianceID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req blacklistRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	updated, err := h.allianceService.SetBlacklisted(ctx, principal.UserID, allianceID, req.IsBlacklisted)
	if err != nil {
		h.logger.WarnContext(ctx, "set alliance blacklist failed", "user_id", principal.UserID, "alliance_id", allianceID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, allianceToDTO(updated))
}

func (h *Handler) ListAllianceEvents(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListAllianceEvents")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeUnauthenticated(ctx, w)
		return
	}

	allianceID, err := parsePathID(r, "allianceID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	events, err := h.allianceService.ListAllianceEvents(ctx, principal.UserID, allianceID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items := make([]eventDTO, 0, len(events))
	for _, e := range events {
		items = append(items, eventWithMvpNameToDTO(e))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}
