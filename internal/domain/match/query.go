package match

import (
	"sort"
	"strings"
)

type View string

const (
	ViewLive     View = "live"
	ViewRecent   View = "recent"
	ViewUpcoming View = "upcoming"
)

// Status is the match status implied by a list view.
func (v View) Status() Status {
	switch v {
	case ViewLive:
		return StatusLive
	case ViewRecent:
		return StatusCompleted
	default:
		return StatusUpcoming
	}
}

// StoreQuery is the persisted-store filter used when upstream data is unavailable.
func (v View) StoreQuery(limit int) Query {
	switch v {
	case ViewLive:
		return Query{StatusKeyword: "live", IncludeLiveFlag: true, Limit: limit}
	case ViewRecent:
		return Query{StatusKeyword: "complete", Limit: limit}
	default:
		return Query{StatusKeyword: "upcoming", Ascending: true, Limit: limit}
	}
}

// Query filters stored matches by a case-insensitive status keyword,
// optionally also accepting any match flagged live.
type Query struct {
	StatusKeyword   string
	IncludeLiveFlag bool
	Ascending       bool
	Limit           int
}

func (q Query) Matches(m Match) bool {
	if q.IncludeLiveFlag && m.IsLive {
		return true
	}
	keyword := strings.ToLower(strings.TrimSpace(q.StatusKeyword))
	if keyword == "" {
		return true
	}
	return strings.Contains(strings.ToLower(string(m.Status)), keyword)
}

// Apply filters, orders by start date and limits items in memory.
func (q Query) Apply(items []Match) []Match {
	out := make([]Match, 0, len(items))
	for _, item := range items {
		if q.Matches(item) {
			out = append(out, item)
		}
	}
	SortByStartDate(out, q.Ascending)
	return Limit(out, q.Limit)
}

func SortByStartDate(items []Match, ascending bool) {
	sort.SliceStable(items, func(i, j int) bool {
		if ascending {
			return items[i].StartDate.Before(items[j].StartDate)
		}
		return items[i].StartDate.After(items[j].StartDate)
	})
}

func Limit(items []Match, limit int) []Match {
	if limit <= 0 || len(items) <= limit {
		return items
	}
	return items[:limit]
}

// Dedupe drops repeated match ids keeping the first occurrence.
func Dedupe(items []Match) []Match {
	seen := make(map[string]struct{}, len(items))
	out := make([]Match, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item.MatchID]; ok {
			continue
		}
		seen[item.MatchID] = struct{}{}
		out = append(out, item)
	}
	return out
}
