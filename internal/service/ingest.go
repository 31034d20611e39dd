package service

import (
	"context"
	"crypto/subtle"
	"fmt"
	"tarc-profile-bot/internal/config"
	"tarc-profile-bot/internal/constants"
	"tarc-profile-bot/internal/domain"
	"tarc-profile-bot/internal/repository"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

// IngestRequest is one telemetry report as sent by the game server. Fields
// stay untyped so a malformed stat can be coerced instead of failing the decode.
type IngestRequest struct {
	Secret          any `json:"secret"`
	UserID          any `json:"userId"`
	XP              any `json:"xp"`
	Kills           any `json:"kills"`
	PlayTimeSeconds any `json:"playTimeSeconds"`
}

type Ack struct {
	Receipt string
	Record  domain.StatsRecord
}

type IngestService struct {
	cache  *repository.StatsCache
	secret string
	now    func() time.Time
	logger zerolog.Logger
}

func NewIngestService(cache *repository.StatsCache, cfg *config.Config, logger zerolog.Logger) *IngestService {
	return &IngestService{
		cache:  cache,
		secret: cfg.SharedSecret,
		now:    func() time.Time { return time.Now().UTC() },
		logger: logger,
	}
}

func (s *IngestService) Ingest(ctx context.Context, req IngestRequest) (*Ack, error) {
	log := loggerFrom(ctx, s.logger)

	if !s.authorized(req.Secret) {
		log.Warn().Msg("ingest rejected: invalid secret")
		return nil, ErrUnauthorized
	}

	id, err := parseKey(req.UserID)
	if err != nil {
		log.Warn().Interface("user_id", req.UserID).Msg("ingest rejected: bad userId")
		return nil, err
	}

	receipt, err := gonanoid.New(constants.ReceiptLength)
	if err != nil {
		return nil, fmt.Errorf("failed to generate receipt: %w", err)
	}

	record := s.cache.Upsert(id,
		coerceCount(req.XP),
		coerceCount(req.Kills),
		coerceCount(req.PlayTimeSeconds),
		s.now(),
	)

	log.Info().Stringer("user_id", id).Str("receipt", receipt).Msg("stats ingested")
	return &Ack{Receipt: receipt, Record: record}, nil
}

// authorized fails closed: with no configured secret nothing matches.
func (s *IngestService) authorized(given any) bool {
	if s.secret == "" {
		return false
	}
	secret, ok := given.(string)
	if !ok {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(secret), []byte(s.secret)) == 1
}

func loggerFrom(ctx context.Context, fallback zerolog.Logger) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return &fallback
}
