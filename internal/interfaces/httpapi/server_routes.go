package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerPublicRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("POST /v1/auth/login", handler.Login)
	mux.HandleFunc("POST /v1/feedback", handler.SubmitFeedback)
	mux.HandleFunc("GET /v1/patch-notes", handler.GetPatchNotes)
}

func registerAuthorizedRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	authorized := func(h http.HandlerFunc) http.Handler {
		return RequireAuth(verifier, h)
	}

	mux.Handle("GET /v1/auth/me", authorized(handler.Me))
	mux.Handle("GET /v1/dashboard", authorized(handler.GetDashboard))

	mux.Handle("GET /v1/players", authorized(handler.ListPlayers))
	mux.Handle("POST /v1/players", authorized(handler.CreatePlayer))
	mux.Handle("GET /v1/players/mvp/rotation", authorized(handler.GetMvpRotation))
	mux.Handle("POST /v1/players/mvp/reset", authorized(handler.ResetMvpRotation))
	mux.Handle("GET /v1/players/{playerID}", authorized(handler.GetPlayer))
	mux.Handle("PUT /v1/players/{playerID}", authorized(handler.UpdatePlayer))
	mux.Handle("DELETE /v1/players/{playerID}", authorized(handler.DeletePlayer))
	mux.Handle("POST /v1/players/{playerID}/mvp", authorized(handler.AssignMvp))
	mux.Handle("GET /v1/players/{playerID}/mvp-history", authorized(handler.GetMvpHistory))

	mux.Handle("GET /v1/events", authorized(handler.ListEvents))
	mux.Handle("POST /v1/events", authorized(handler.CreateEvent))
	mux.Handle("GET /v1/events/{eventID}", authorized(handler.GetEvent))
	mux.Handle("PUT /v1/events/{eventID}", authorized(handler.UpdateEvent))
	mux.Handle("DELETE /v1/events/{eventID}", authorized(handler.DeleteEvent))
	mux.Handle("GET /v1/events/{eventID}/alliances", authorized(handler.ListEventAlliances))
	mux.Handle("POST /v1/events/{eventID}/alliances", authorized(handler.LinkEventAlliance))
	mux.Handle("DELETE /v1/events/{eventID}/alliances/{allianceID}", authorized(handler.UnlinkEventAlliance))

	mux.Handle("GET /v1/alliances", authorized(handler.ListAlliances))
	mux.Handle("POST /v1/alliances", authorized(handler.CreateAlliance))
	mux.Handle("GET /v1/alliances/{allianceID}", authorized(handler.GetAlliance))
	mux.Handle("PUT /v1/alliances/{allianceID}", authorized(handler.UpdateAlliance))
	mux.Handle("DELETE /v1/alliances/{allianceID}", authorized(handler.DeleteAlliance))
	mux.Handle("PUT /v1/alliances/{allianceID}/blacklist", authorized(handler.SetAllianceBlacklist))
	mux.Handle("GET /v1/alliances/{allianceID}/events", authorized(handler.ListAllianceEvents))
}

func registerAdminRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	admin := func(h http.HandlerFunc) http.Handler {
		return RequireAuth(verifier, RequireAdmin(h))
	}

	mux.Handle("POST /v1/auth/register", admin(handler.Register))
	mux.Handle("GET /v1/admin/users", admin(handler.ListUsers))
	mux.Handle("PUT /v1/admin/users/{userID}", admin(handler.UpdateUser))
	mux.Handle("DELETE /v1/admin/users/{userID}", admin(handler.DeleteUser))

	mux.Handle("GET /v1/admin/feedback", admin(handler.ListFeedback))
	mux.Handle("GET /v1/admin/feedback/stats", admin(handler.GetFeedbackStats))
	mux.Handle("PUT /v1/admin/feedback/{feedbackID}/status", admin(handler.UpdateFeedbackStatus))
	mux.Handle("DELETE /v1/admin/feedback/{feedbackID}", admin(handler.DeleteFeedback))

	mux.Handle("PUT /v1/patch-notes", admin(handler.PublishPatchNotes))
	mux.Handle("POST /v1/admin/maintenance/sweep-sequences", admin(handler.RunSequenceSweep))
}
