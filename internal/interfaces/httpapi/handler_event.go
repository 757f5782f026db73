package httpapi

import (
	"net/http"
)

func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListEvents")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeUnauthenticated(ctx, w)
		return
	}

	events, err := h.eventService.ListEvents(ctx, principal.UserID)
	if err != nil {
		h.logger.ErrorContext(ctx, "list events failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]eventDTO, 0, len(events))
	for _, e := range events {
		items = append(items, eventWithMvpNameToDTO(e))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetEvent(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetEvent")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeUnauthenticated(ctx, w)
		return
	}

	eventID, err := parsePathID(r, "eventID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.eventService.GetEvent(ctx, principal.UserID, eventID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, eventToDTO(item))
}

func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateEvent")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeUnauthenticated(ctx, w)
		return
	}

	var req eventRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	created, err := h.eventService.CreateEvent(ctx, principal.UserID, req.Name, req.MvpPlayerID)
	if err != nil {
		h.logger.WarnContext(ctx, "create event failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, eventToDTO(created))
}

func (h *Handler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateEvent")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeUnauthenticated(ctx, w)
		return
	}

	eventID, err := parsePathID(r, "eventID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req eventRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	updated, err := h.eventService.UpdateEvent(ctx, principal.UserID, eventID, req.Name, req.MvpPlayerID)
	if err != nil {
		h.logger.WarnContext(ctx, "update event failed", "user_id", principal.UserID, "event_id", eventID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, eventToDTO(updated))
}

func (h *Handler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteEvent")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeUnauthenticated(ctx, w)
		return
	}

	eventID, err := parsePathID(r, "eventID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	if err := h.eventService.DeleteEvent(ctx, principal.UserID, eventID); err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) ListEventAlliances(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListEventAlliances")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeUnauthenticated(ctx, w)
		return
	}

	eventID, err := parsePathID(r, "eventID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	alliances, err := h.eventService.ListEventAlliances(ctx, principal.UserID, eventID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items := make([]allianceDTO, 0, len(alliances))
	for _, a := range alliances {
		items = append(items, allianceToDTO(a))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) LinkEventAlliance(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.LinkEventAlliance")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeUnauthenticated(ctx, w)
		return
	}

	eventID, err := parsePathID(r, "eventID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req linkAllianceRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	link, err := h.eventService.LinkAlliance(ctx, principal.UserID, eventID, req.AllianceID)
	if err != nil {
		h.logger.WarnContext(ctx, "link alliance failed", "user_id", principal.UserID, "event_id", eventID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, allianceLinkDTO{
		ID:         link.ID,
		EventID:    link.EventID,
		AllianceID: link.AllianceID,
		CreatedAt:  link.CreatedAt,
	})
}

func (h *Handler) UnlinkEventAlliance(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UnlinkEventAlliance")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeUnauthenticated(ctx, w)
		return
	}

	eventID, err := parsePathID(r, "eventID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	allianceID, err := parsePathID(r, "allianceID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	if err := h.eventService.UnlinkAlliance(ctx, principal.UserID, eventID, allianceID); err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "unlinked"})
}
