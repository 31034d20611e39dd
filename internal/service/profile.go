package service

import (
	"context"
	"errors"
	"fmt"
	"tarc-profile-bot/internal/api"
	"tarc-profile-bot/internal/config"
	"tarc-profile-bot/internal/constants"
	"tarc-profile-bot/internal/domain"
	"tarc-profile-bot/internal/repository"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// IdentityClient is the external identity service. Only ResolveUserID can
// fail; the other lookups hand back a usable default alongside their error.
type IdentityClient interface {
	ResolveUserID(ctx context.Context, username string) (domain.PlayerID, error)
	ResolveDisplayName(ctx context.Context, id domain.PlayerID) api.Lookup[string]
	GetRoles(ctx context.Context, id domain.PlayerID) api.Lookup[[]domain.GroupRole]
	GetPresence(ctx context.Context, id domain.PlayerID) api.Lookup[domain.Presence]
}

type StatsReader interface {
	Get(id domain.PlayerID) (domain.StatsRecord, bool)
}

var _ StatsReader = (*repository.StatsCache)(nil)

type ProfileService struct {
	identity    IdentityClient
	stats       StatsReader
	homeGroupID int64
	logger      zerolog.Logger
}

func NewProfileService(identity IdentityClient, cache *repository.StatsCache, cfg *config.Config, logger zerolog.Logger) *ProfileService {
	return &ProfileService{
		identity:    identity,
		stats:       cache,
		homeGroupID: cfg.HomeGroupID,
		logger:      logger,
	}
}

// BuildProfile assembles a fresh profile for username. It fails with
// ErrUserNotFound when the name does not resolve and with ErrNoGameData
// (as *NoGameDataError) when the player has never reported stats. Any other
// lookup failure degrades to that field's default.
func (s *ProfileService) BuildProfile(ctx context.Context, username string) (*domain.ProfileResult, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	queryID, err := gonanoid.New(constants.QueryIDLength)
	if err != nil {
		return nil, fmt.Errorf("failed to generate query id: %w", err)
	}
	log := loggerFrom(ctx, s.logger).With().Str("query_id", queryID).Str("username", username).Logger()

	id, err := s.identity.ResolveUserID(ctx, username)
	if err != nil {
		if errors.Is(err, api.ErrUserNotFound) {
			log.Info().Msg("username did not resolve")
		} else {
			log.Warn().Err(err).Msg("username lookup failed")
		}
		return nil, fmt.Errorf("%w: %w", ErrUserNotFound, err)
	}
	log = log.With().Stringer("user_id", id).Logger()

	var (
		displayName api.Lookup[string]
		roles       api.Lookup[[]domain.GroupRole]
		presence    api.Lookup[domain.Presence]
		stats       domain.StatsRecord
		hasStats    bool
	)

	g, gctx := errgroup.WithContext(ctx)
	goSafe(g, "display name", func() {
		displayName = s.identity.ResolveDisplayName(gctx, id)
	})
	goSafe(g, "roles", func() {
		roles = s.identity.GetRoles(gctx, id)
	})
	goSafe(g, "presence", func() {
		presence = s.identity.GetPresence(gctx, id)
	})
	goSafe(g, "stats", func() {
		stats, hasStats = s.stats.Get(id)
	})
	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("profile aggregation failed")
		return nil, err
	}

	logDegraded(&log, "display name", displayName.Err)
	logDegraded(&log, "roles", roles.Err)
	logDegraded(&log, "presence", presence.Err)

	if !hasStats {
		log.Info().Msg("player has no game data")
		return nil, &NoGameDataError{PlayerID: id, DisplayName: displayName.Value}
	}

	profile := &domain.ProfileResult{
		PlayerID:    id,
		DisplayName: displayName.Value,
		MainRank:    domain.MainRankFor(roles.Value, s.homeGroupID),
		Divisions:   domain.DivisionsFor(roles.Value),
		OnDuty:      presence.Value == domain.PresenceInGame,
		Stats:       stats,
		PlayTime:    domain.FormatDuration(stats.PlayTimeSeconds),
		Medals:      domain.MedalsFor(id),
	}

	log.Info().
		Int("divisions", len(profile.Divisions)).
		Bool("on_duty", profile.OnDuty).
		Bool("degraded", displayName.Degraded() || roles.Degraded() || presence.Degraded()).
		Msg("profile built")
	return profile, nil
}

// goSafe runs fn on g, turning a panic into an error so one bad lookup
// cannot take down the process.
func goSafe(g *errgroup.Group, name string, fn func()) {
	g.Go(func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("%s lookup panicked: %v", name, r)
			}
		}()
		fn()
		return nil
	})
}

func logDegraded(log *zerolog.Logger, op string, err error) {
	if err == nil {
		return
	}
	log.Warn().Err(err).Str("lookup", op).Msg("external lookup degraded, using default")
}
