package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/riskibarqy/cricket-hub/internal/domain/match"
	"github.com/riskibarqy/cricket-hub/internal/platform/id"
	"github.com/riskibarqy/cricket-hub/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
)

const (
	DefaultListLimit = 10
	MaxListLimit     = 100
)

// Scorecard is a match with its innings rows.
type Scorecard struct {
	Match   match.Match
	Innings []match.Innings
}

// MatchService answers match reads by preferring the upstream feed and
// falling back to the stored working copy.
type MatchService struct {
	feed   match.Feed
	repo   match.Repository
	flags  *FeatureFlags
	ids    id.Generator
	logger *logging.Logger
}

func NewMatchService(
	feed match.Feed,
	repo match.Repository,
	flags *FeatureFlags,
	ids id.Generator,
	logger *logging.Logger,
) *MatchService {
	if logger == nil {
		logger = logging.Default()
	}
	if ids == nil {
		ids = id.NewUUIDGenerator()
	}
	return &MatchService{
		feed:   feed,
		repo:   repo,
		flags:  flags,
		ids:    ids,
		logger: logger,
	}
}

// List returns up to limit matches for view. An upstream success is returned
// as is; otherwise the stored copy is filtered, sorted and limited.
func (s *MatchService) List(ctx context.Context, view match.View, limit int) (_ []match.Match, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.List", attribute.String("view", string(view)))
	defer func() { endSpan(span, err) }()

	if err := validateView(view); err != nil {
		return nil, err
	}
	if limit < 1 || limit > MaxListLimit {
		return nil, invalidInputf("limit must be between 1 and %d", MaxListLimit)
	}

	if items, ok := s.fromUpstream(ctx, view); ok {
		return match.Limit(items, limit), nil
	}

	s.logger.InfoContext(ctx, "serving matches from store", "view", string(view), "limit", limit)
	items, err := s.repo.Find(ctx, view.StoreQuery(limit))
	if err != nil {
		return nil, fmt.Errorf("find stored %s matches: %w", view, err)
	}
	return items, nil
}

// Get resolves a match by external or internal id: store first, then the
// upstream detail endpoint, then a scan of the upstream upcoming list.
func (s *MatchService) Get(ctx context.Context, matchID string) (_ match.Match, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Get", attribute.String("match_id", matchID))
	defer func() { endSpan(span, err) }()

	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return match.Match{}, invalidInputf("match id is required")
	}

	stored, exists, storeErr := s.repo.GetByID(ctx, matchID)
	if storeErr != nil {
		s.logger.WarnContext(ctx, "get stored match failed, trying upstream", "match_id", matchID, "error", storeErr)
	} else if exists {
		return stored, nil
	}

	if s.detailsEnabled() {
		if item, ok := s.feed.FetchDetail(ctx, matchID); ok {
			return s.persistOne(ctx, item), nil
		}
		if item, ok := s.scanUpcoming(ctx, matchID); ok {
			return s.persistOne(ctx, item), nil
		}
	}

	if storeErr != nil {
		return match.Match{}, fmt.Errorf("get match id=%s: %w", matchID, storeErr)
	}
	return match.Match{}, notFound("match", matchID)
}

func (s *MatchService) Scorecard(ctx context.Context, matchID string) (_ Scorecard, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Scorecard", attribute.String("match_id", matchID))
	defer func() { endSpan(span, err) }()

	item, err := s.Get(ctx, matchID)
	if err != nil {
		return Scorecard{}, err
	}

	out := Scorecard{Match: item, Innings: []match.Innings{}}
	if s.detailsEnabled() {
		if innings, ok := s.feed.FetchScorecard(ctx, item.MatchID); ok {
			out.Innings = innings
		}
	}
	return out, nil
}

// SyncDetails refreshes one match from upstream. Without fresh data the
// stored copy is returned.
func (s *MatchService) SyncDetails(ctx context.Context, matchID string) (_ match.Match, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.SyncDetails", attribute.String("match_id", matchID))
	defer func() { endSpan(span, err) }()

	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return match.Match{}, invalidInputf("match id is required")
	}

	stored, exists, err := s.repo.GetByID(ctx, matchID)
	if err != nil {
		return match.Match{}, fmt.Errorf("get match id=%s: %w", matchID, err)
	}

	upstreamID := matchID
	if exists {
		upstreamID = stored.MatchID
	}
	if s.detailsEnabled() {
		if item, ok := s.feed.FetchDetail(ctx, upstreamID); ok {
			return s.persistOne(ctx, item), nil
		}
	}

	if !exists {
		return match.Match{}, notFound("match", matchID)
	}
	s.logger.InfoContext(ctx, "upstream detail unavailable, returning stored match", "match_id", matchID)
	return stored, nil
}

// Refresh pulls one view from upstream into the store without any fallback.
// It reports how many matches were stored; a disabled view stores none.
func (s *MatchService) Refresh(ctx context.Context, view match.View) (_ int, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Refresh", attribute.String("view", string(view)))
	defer func() { endSpan(span, err) }()

	if err := validateView(view); err != nil {
		return 0, err
	}
	if !s.flags.Enabled(ViewFlag(view)) || !s.feed.ListConfigured(view) {
		return 0, nil
	}

	items, ok := s.feed.FetchList(ctx, view)
	if !ok {
		return 0, unavailablef("upstream %s matches", view)
	}
	items = match.Dedupe(items)
	if len(items) == 0 {
		return 0, nil
	}

	stored, err := s.upsert(ctx, items)
	if err != nil {
		return 0, fmt.Errorf("upsert %s matches: %w", view, err)
	}
	return len(stored), nil
}

func (s *MatchService) fromUpstream(ctx context.Context, view match.View) ([]match.Match, bool) {
	if !s.flags.Enabled(ViewFlag(view)) || !s.feed.ListConfigured(view) {
		return nil, false
	}

	items, ok := s.feed.FetchList(ctx, view)
	if !ok || len(items) == 0 {
		s.logger.InfoContext(ctx, "upstream returned no matches", "view", string(view), "ok", ok)
		return nil, false
	}

	items = match.Dedupe(items)
	stored, err := s.upsert(ctx, items)
	if err != nil {
		s.logger.WarnContext(ctx, "upsert upstream matches failed", "view", string(view), "count", len(items), "error", err)
		return items, true
	}
	return stored, true
}

func (s *MatchService) scanUpcoming(ctx context.Context, matchID string) (match.Match, bool) {
	if !s.feed.ListConfigured(match.ViewUpcoming) {
		return match.Match{}, false
	}
	items, ok := s.feed.FetchList(ctx, match.ViewUpcoming)
	if !ok {
		return match.Match{}, false
	}
	for _, item := range items {
		if item.MatchID == matchID {
			return item, true
		}
	}
	return match.Match{}, false
}

func (s *MatchService) persistOne(ctx context.Context, item match.Match) match.Match {
	stored, err := s.upsert(ctx, []match.Match{item})
	if err != nil || len(stored) == 0 {
		s.logger.WarnContext(ctx, "upsert upstream match failed", "match_id", item.MatchID, "error", err)
		return item
	}
	return stored[0]
}

// upsert gives new records a candidate internal id. The store keeps the
// existing id of records it already has.
func (s *MatchService) upsert(ctx context.Context, items []match.Match) ([]match.Match, error) {
	candidates := make([]match.Match, len(items))
	for i, item := range items {
		if item.ID == "" {
			newID, err := s.ids.NewID()
			if err != nil {
				return nil, fmt.Errorf("generate match id: %w", err)
			}
			item.ID = newID
		}
		candidates[i] = item
	}
	return s.repo.UpsertMany(ctx, candidates)
}

func (s *MatchService) detailsEnabled() bool {
	return s.flags.Enabled(FlagMatchDetails) && s.feed.DetailConfigured()
}

func validateView(view match.View) error {
	switch view {
	case match.ViewLive, match.ViewRecent, match.ViewUpcoming:
		return nil
	default:
		return invalidInputf("unknown match view %q", view)
	}
}
