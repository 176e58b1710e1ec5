package match

import "context"

// Repository is the persisted working copy of matches keyed by MatchID.
type Repository interface {
	Find(ctx context.Context, query Query) ([]Match, error)
	// GetByID resolves either the external match id or the internal id.
	GetByID(ctx context.Context, id string) (Match, bool, error)
	// UpsertMany inserts or refreshes items by MatchID and returns them as
	// stored. An existing record keeps its internal ID; a new one takes the
	// ID carried by the item.
	UpsertMany(ctx context.Context, items []Match) ([]Match, error)
}

// Feed is the upstream source of matches. Every fetch reports ok=false
// instead of an error when fresh data is unavailable.
type Feed interface {
	ListConfigured(view View) bool
	FetchList(ctx context.Context, view View) ([]Match, bool)
	DetailConfigured() bool
	FetchDetail(ctx context.Context, matchID string) (Match, bool)
	FetchScorecard(ctx context.Context, matchID string) ([]Innings, bool)
}
