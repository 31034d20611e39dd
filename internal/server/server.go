package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"tarc-profile-bot/internal/api"
	"tarc-profile-bot/internal/constants"
	"tarc-profile-bot/internal/middleware"
	"tarc-profile-bot/internal/repository"
	"tarc-profile-bot/internal/service"

	"github.com/rs/cors"
	"github.com/rs/zerolog"
)

type ProfileServer struct {
	ingestSvc  *service.IngestService
	profileSvc *service.ProfileService
	cache      *repository.StatsCache
	roblox     *api.RobloxClient
	logger     zerolog.Logger
}

func NewProfileServer(
	ingestSvc *service.IngestService,
	profileSvc *service.ProfileService,
	cache *repository.StatsCache,
	roblox *api.RobloxClient,
	logger zerolog.Logger,
) *ProfileServer {
	return &ProfileServer{
		ingestSvc:  ingestSvc,
		profileSvc: profileSvc,
		cache:      cache,
		roblox:     roblox,
		logger:     logger,
	}
}

// Handler returns the full HTTP surface with request ids, panic recovery and CORS applied.
func (s *ProfileServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /ingest", s.handleIngest)
	mux.HandleFunc("GET /profile/{username}", s.handleProfile)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /{$}", s.handleRoot)

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	})

	return middleware.RequestID(s.logger)(middleware.Recover(s.logger)(c.Handler(mux)))
}

type ingestResponse struct {
	OK      bool   `json:"ok"`
	Receipt string `json:"receipt,omitempty"`
	Error   string `json:"error,omitempty"`
}

func (s *ProfileServer) handleIngest(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, constants.MaxIngestBodyBytes)

	var req service.IngestRequest
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ingestResponse{Error: "Bad request body"})
		return
	}

	ack, err := s.ingestSvc.Ingest(r.Context(), req)
	switch {
	case errors.Is(err, service.ErrUnauthorized):
		writeJSON(w, http.StatusUnauthorized, ingestResponse{Error: "Invalid secret"})
	case errors.Is(err, service.ErrInvalidKey):
		writeJSON(w, http.StatusBadRequest, ingestResponse{Error: "Bad userId"})
	case err != nil:
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("ingest failed")
		writeJSON(w, http.StatusInternalServerError, ingestResponse{})
	default:
		writeJSON(w, http.StatusOK, ingestResponse{OK: true, Receipt: ack.Receipt})
	}
}

func (s *ProfileServer) handleProfile(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("username")

	profile, err := s.profileSvc.BuildProfile(r.Context(), username)
	if err != nil {
		var noData *service.NoGameDataError
		switch {
		case errors.As(err, &noData):
			writeJSON(w, http.StatusNotFound, map[string]any{
				"error":       "no_game_data",
				"userId":      noData.PlayerID,
				"displayName": noData.DisplayName,
			})
		case errors.Is(err, service.ErrUserNotFound):
			writeError(w, http.StatusNotFound, "user_not_found")
		default:
			zerolog.Ctx(r.Context()).Error().Err(err).Str("username", username).Msg("profile failed")
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (s *ProfileServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":                true,
		"players":           s.cache.Len(),
		"identityRateLimit": s.roblox.GetRateLimitInfo(),
	})
}

func (s *ProfileServer) handleRoot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("TARC Profile Bot running"))
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
