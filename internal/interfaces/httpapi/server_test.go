package httpapi_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/veldran/kingdom-manager/internal/infrastructure/auth"
	"github.com/veldran/kingdom-manager/internal/infrastructure/patchnotes"
	"github.com/veldran/kingdom-manager/internal/infrastructure/repository/sqlite"
	"github.com/veldran/kingdom-manager/internal/infrastructure/tenantstore"
	"github.com/veldran/kingdom-manager/internal/interfaces/httpapi"
	"github.com/veldran/kingdom-manager/internal/platform/logging"
	"github.com/veldran/kingdom-manager/internal/usecase"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	logger := logging.NewNop()
	dataDir := t.TempDir()
	registry, err := tenantstore.Open(context.Background(), dataDir, logger)
	if err != nil {
		t.Fatalf("open registry: %v", err)
	}
	t.Cleanup(func() {
		if err := registry.Close(context.Background()); err != nil {
			t.Errorf("close registry: %v", err)
		}
	})

	tokens, err := auth.NewTokenManager("test-secret-test-secret-test-secret", time.Hour)
	if err != nil {
		t.Fatalf("token manager: %v", err)
	}

	playerRepo := sqlite.NewPlayerRepository(registry, logger)
	eventRepo := sqlite.NewEventRepository(registry)
	allianceRepo := sqlite.NewAllianceRepository(registry)
	userRepo := sqlite.NewUserRepository(registry)
	feedbackRepo := sqlite.NewFeedbackRepository(registry)
	dashboardRepo := sqlite.NewDashboardRepository(registry)

	authService := usecase.NewAuthService(userRepo, tokens, auth.Hasher{}, registry, logger)
	if err := authService.BootstrapAdmin(context.Background(), "first-light"); err != nil {
		t.Fatalf("bootstrap admin: %v", err)
	}

	handler := httpapi.NewHandler(
		authService,
		usecase.NewPlayerService(playerRepo, eventRepo),
		usecase.NewEventService(eventRepo, playerRepo, allianceRepo),
		usecase.NewAllianceService(allianceRepo, eventRepo),
		usecase.NewDashboardService(dashboardRepo),
		usecase.NewFeedbackService(feedbackRepo),
		usecase.NewPatchNotesService(patchnotes.NewStore(dataDir+"/patch-notes.json")),
		usecase.NewMaintenanceService(registry, 0, logger),
		logger,
	)

	return httpapi.NewRouter(handler, tokens, logger, []string{"*"})
}

func doJSON(t *testing.T, router http.Handler, method, path, token string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	var body *bytes.Buffer
	if payload != nil {
		raw, err := sonic.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewBuffer(raw)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, into any) {
	t.Helper()

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := sonic.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal envelope: %v (body: %s)", err, rec.Body.String())
	}
	if err := sonic.Unmarshal(envelope.Data, into); err != nil {
		t.Fatalf("unmarshal data: %v (body: %s)", err, rec.Body.String())
	}
}

func loginAs(t *testing.T, router http.Handler, username, password string) string {
	t.Helper()

	rec := doJSON(t, router, http.MethodPost, "/v1/auth/login", "", map[string]string{
		"username": username,
		"password": password,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login returned %d: %s", rec.Code, rec.Body.String())
	}

	var data struct {
		Token string `json:"token"`
	}
	decodeData(t, rec, &data)
	if data.Token == "" {
		t.Fatalf("expected a token in login response")
	}
	return data.Token
}

func TestRouter_Healthz(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/healthz", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRouter_RequiresAuth(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/v1/players", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without a token, got %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodGet, "/v1/players", "not-a-token", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for a bogus token, got %d", rec.Code)
	}
}

func TestRouter_AdminRoutesRejectMembers(t *testing.T) {
	router := newTestRouter(t)
	adminToken := loginAs(t, router, "admin", "first-light")

	rec := doJSON(t, router, http.MethodPost, "/v1/auth/register", adminToken, map[string]any{
		"username": "brynn",
		"password": "valiant-heart",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register returned %d: %s", rec.Code, rec.Body.String())
	}

	memberToken := loginAs(t, router, "brynn", "valiant-heart")
	rec = doJSON(t, router, http.MethodGet, "/v1/admin/users", memberToken, nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for a member on an admin route, got %d", rec.Code)
	}
}

// Full pass through the kingdom workflow: provision a fresh account,
// raise a player and an event, crown the player and read the state back.
func TestRouter_MvpWorkflow(t *testing.T) {
	router := newTestRouter(t)
	adminToken := loginAs(t, router, "admin", "first-light")

	rec := doJSON(t, router, http.MethodPost, "/v1/auth/register", adminToken, map[string]any{
		"username": "brynn",
		"password": "valiant-heart",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register returned %d: %s", rec.Code, rec.Body.String())
	}
	token := loginAs(t, router, "brynn", "valiant-heart")

	rec = doJSON(t, router, http.MethodPost, "/v1/players", token, map[string]string{"name": "Aria"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create player returned %d: %s", rec.Code, rec.Body.String())
	}
	var created struct {
		ID int64 `json:"id"`
	}
	decodeData(t, rec, &created)

	rec = doJSON(t, router, http.MethodPost, "/v1/events", token, map[string]string{"name": "Siege of Dawn"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create event returned %d: %s", rec.Code, rec.Body.String())
	}
	var siege struct {
		ID int64 `json:"id"`
	}
	decodeData(t, rec, &siege)

	rec = doJSON(t, router, http.MethodPost, fmt.Sprintf("/v1/players/%d/mvp", created.ID), token, map[string]any{
		"event_id": siege.ID,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("assign mvp returned %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, router, http.MethodGet, "/v1/players", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list players returned %d: %s", rec.Code, rec.Body.String())
	}
	var players []struct {
		Name     string `json:"name"`
		IsMvp    bool   `json:"isMvp"`
		MvpEvent string `json:"mvpEvent"`
		MvpCount int64  `json:"mvpCount"`
	}
	decodeData(t, rec, &players)
	if len(players) != 1 {
		t.Fatalf("expected one player, got %+v", players)
	}
	if !players[0].IsMvp || players[0].MvpEvent != "Siege of Dawn" || players[0].MvpCount != 1 {
		t.Fatalf("unexpected mvp state: %+v", players[0])
	}

	// Tenants are isolated: the admin sees an empty roster.
	rec = doJSON(t, router, http.MethodGet, "/v1/players", adminToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list players as admin returned %d: %s", rec.Code, rec.Body.String())
	}
	var adminPlayers []struct {
		Name string `json:"name"`
	}
	decodeData(t, rec, &adminPlayers)
	if len(adminPlayers) != 0 {
		t.Fatalf("expected an empty roster for the admin tenant, got %+v", adminPlayers)
	}
}

func TestRouter_DuplicateAllianceLinkConflicts(t *testing.T) {
	router := newTestRouter(t)
	token := loginAs(t, router, "admin", "first-light")

	rec := doJSON(t, router, http.MethodPost, "/v1/events", token, map[string]string{"name": "Siege of Dawn"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create event returned %d: %s", rec.Code, rec.Body.String())
	}
	var siege struct {
		ID int64 `json:"id"`
	}
	decodeData(t, rec, &siege)

	rec = doJSON(t, router, http.MethodPost, "/v1/alliances", token, map[string]string{"name": "Iron Wolves"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create alliance returned %d: %s", rec.Code, rec.Body.String())
	}
	var wolves struct {
		ID int64 `json:"id"`
	}
	decodeData(t, rec, &wolves)

	path := fmt.Sprintf("/v1/events/%d/alliances", siege.ID)
	rec = doJSON(t, router, http.MethodPost, path, token, map[string]any{"alliance_id": wolves.ID})
	if rec.Code != http.StatusCreated {
		t.Fatalf("link alliance returned %d: %s", rec.Code, rec.Body.String())
	}
	rec = doJSON(t, router, http.MethodPost, path, token, map[string]any{"alliance_id": wolves.ID})
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for a duplicate link, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestRouter_PublicFeedbackAndPatchNotes(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/v1/feedback", "", map[string]any{
		"message": "love the rotation page",
		"type":    "general",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("submit feedback returned %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, router, http.MethodGet, "/v1/patch-notes", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get patch notes returned %d: %s", rec.Code, rec.Body.String())
	}

	adminToken := loginAs(t, router, "admin", "first-light")
	rec = doJSON(t, router, http.MethodPut, "/v1/patch-notes", adminToken, map[string]string{
		"content": "## v1.0\n- first release",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("publish patch notes returned %d: %s", rec.Code, rec.Body.String())
	}

	var notes struct {
		PatchNotes string `json:"patchNotes"`
		UpdatedBy  string `json:"updatedBy"`
	}
	rec = doJSON(t, router, http.MethodGet, "/v1/patch-notes", "", nil)
	decodeData(t, rec, &notes)
	if notes.PatchNotes == "" || notes.UpdatedBy != "admin" {
		t.Fatalf("unexpected patch notes: %+v", notes)
	}
}

func TestRouter_MeEchoesTokenIdentity(t *testing.T) {
	router := newTestRouter(t)
	token := loginAs(t, router, "admin", "first-light")

	rec := doJSON(t, router, http.MethodGet, "/v1/auth/me", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("me returned %d: %s", rec.Code, rec.Body.String())
	}

	var identity struct {
		Username string `json:"username"`
		IsAdmin  bool   `json:"isAdmin"`
	}
	decodeData(t, rec, &identity)
	if identity.Username != "admin" || !identity.IsAdmin {
		t.Fatalf("unexpected identity: %+v", identity)
	}
}
