package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"tarc-profile-bot/internal/api"
	"tarc-profile-bot/internal/config"
	"tarc-profile-bot/internal/domain"
	"tarc-profile-bot/internal/repository"
	"tarc-profile-bot/internal/service"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

// fakeRoblox knows one user, "Rex" (1439310935), who sits in two divisions.
func fakeRoblox(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/usernames/users", func(w http.ResponseWriter, r *http.Request) {
		var req api.UsernamesRequest
		json.NewDecoder(r.Body).Decode(&req)
		data := []map[string]any{}
		if len(req.Usernames) == 1 && req.Usernames[0] == "Rex" {
			data = append(data, map[string]any{"id": 1439310935, "name": "Rex"})
		}
		json.NewEncoder(w).Encode(map[string]any{"data": data})
	})
	mux.HandleFunc("GET /v1/users/{id}", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"id": 1439310935, "name": "Rex"})
	})
	mux.HandleFunc("GET /v2/users/{id}/groups/roles", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"data": []map[string]any{
			{"group": map[string]any{"id": 16282238, "name": "Jedi"}, "role": map[string]any{"name": "Padawan", "rank": 5}},
			{"group": map[string]any{"id": 35324584, "name": "TARC"}, "role": map[string]any{"name": "Captain", "rank": 100}},
		}})
	})
	mux.HandleFunc("POST /v1/presence/users", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestServer(t *testing.T, secret string) (http.Handler, *repository.StatsCache) {
	t.Helper()
	roblox := fakeRoblox(t)
	cfg := &config.Config{
		SharedSecret:      secret,
		HomeGroupID:       35324584,
		RobloxUsersURL:    roblox.URL,
		RobloxGroupsURL:   roblox.URL,
		RobloxPresenceURL: roblox.URL,
		IdentityTimeout:   time.Second,
	}
	logger := zerolog.Nop()
	cache := repository.NewStatsCache(logger)
	client := api.NewRobloxClient(cfg)
	srv := NewProfileServer(
		service.NewIngestService(cache, cfg, logger),
		service.NewProfileService(client, cache, cfg, logger),
		cache,
		client,
		logger,
	)
	return srv.Handler(), cache
}

func do(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestIngestEndpoint(t *testing.T) {
	tests := []struct {
		name      string
		secret    string
		body      string
		status    int
		wantError string
	}{
		{"accepted", "s3cret", `{"secret":"s3cret","userId":1439310935,"xp":10,"kills":2,"playTimeSeconds":65}`, http.StatusOK, ""},
		{"malformed stats still accepted", "s3cret", `{"secret":"s3cret","userId":"42","xp":"many","kills":null,"playTimeSeconds":-1}`, http.StatusOK, ""},
		{"wrong secret", "s3cret", `{"secret":"nope","userId":42}`, http.StatusUnauthorized, "Invalid secret"},
		{"no secret configured", "", `{"secret":"","userId":42}`, http.StatusUnauthorized, "Invalid secret"},
		{"bad key", "s3cret", `{"secret":"s3cret","userId":0}`, http.StatusBadRequest, "Bad userId"},
		{"missing key", "s3cret", `{"secret":"s3cret"}`, http.StatusBadRequest, "Bad userId"},
		{"not json", "s3cret", `secret=s3cret`, http.StatusBadRequest, "Bad request body"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := newTestServer(t, tt.secret)
			rec := do(h, http.MethodPost, "/ingest", tt.body)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.status, rec.Body)
			}
			var resp struct {
				OK      bool   `json:"ok"`
				Receipt string `json:"receipt"`
				Error   string `json:"error"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode response: %v", err)
			}
			if resp.OK != (tt.status == http.StatusOK) || resp.Error != tt.wantError {
				t.Errorf("response = %+v", resp)
			}
			if resp.OK && resp.Receipt == "" {
				t.Error("accepted ingest has no receipt")
			}
		})
	}
}

func TestProfileEndpoint(t *testing.T) {
	h, _ := newTestServer(t, "s3cret")

	rec := do(h, http.MethodGet, "/profile/Rex", "")
	if rec.Code != http.StatusNotFound || !strings.Contains(rec.Body.String(), "no_game_data") {
		t.Fatalf("before ingest: %d %s, want 404 no_game_data", rec.Code, rec.Body)
	}

	rec = do(h, http.MethodPost, "/ingest", `{"secret":"s3cret","userId":1439310935,"xp":1200,"kills":37,"playTimeSeconds":3661}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("ingest status = %d", rec.Code)
	}

	rec = do(h, http.MethodGet, "/profile/Rex", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	var profile domain.ProfileResult
	if err := json.Unmarshal(rec.Body.Bytes(), &profile); err != nil {
		t.Fatalf("decode profile: %v", err)
	}
	if profile.DisplayName != "Rex" || profile.MainRank.Role != "Captain" || profile.PlayTime != "1h 1m 1s" {
		t.Errorf("profile = %+v", profile)
	}
	if len(profile.Divisions) != 2 || profile.Divisions[0].DisplayName != "Republic Army" || profile.Divisions[1].DisplayName != "The Jedi Order" {
		t.Errorf("divisions = %+v", profile.Divisions)
	}
	if profile.OnDuty {
		t.Error("OnDuty = true while presence lookup is failing")
	}
	if profile.Stats.XP != 1200 || profile.Stats.Kills != 37 {
		t.Errorf("stats = %+v", profile.Stats)
	}
	if len(profile.Medals) != 2 {
		t.Errorf("medals = %v", profile.Medals)
	}
}

func TestProfileEndpointUnknownUser(t *testing.T) {
	h, _ := newTestServer(t, "s3cret")
	rec := do(h, http.MethodGet, "/profile/Cody", "")
	if rec.Code != http.StatusNotFound || !strings.Contains(rec.Body.String(), "user_not_found") {
		t.Fatalf("got %d %s, want 404 user_not_found", rec.Code, rec.Body)
	}
}

func TestHealthAndRoot(t *testing.T) {
	h, cache := newTestServer(t, "s3cret")
	cache.Upsert(1, 1, 1, 1, time.Now())

	rec := do(h, http.MethodGet, "/healthz", "")
	var health struct {
		OK      bool `json:"ok"`
		Players int  `json:"players"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &health); err != nil || !health.OK || health.Players != 1 {
		t.Fatalf("healthz = %s (%v)", rec.Body, err)
	}

	rec = do(h, http.MethodGet, "/", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "running") {
		t.Fatalf("root = %d %s", rec.Code, rec.Body)
	}

	if rec := do(h, http.MethodGet, "/ingest", ""); rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET /ingest = %d, want 405", rec.Code)
	}
}
