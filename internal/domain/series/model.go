package series

import (
	"sort"
	"strings"
	"time"
)

type Status string

const (
	StatusUpcoming  Status = "UPCOMING"
	StatusOngoing   Status = "ONGOING"
	StatusCompleted Status = "COMPLETED"
)

const TypeInternational = "INTERNATIONAL"

// Series is a tournament or tour. Status and IsActive are derived from the
// date range and should be refreshed with Derive before being served.
type Series struct {
	SeriesID   string
	Name       string
	ShortName  string
	SeriesType string
	StartDate  time.Time
	EndDate    time.Time
	Status     Status
	IsActive   bool
	Priority   int
	Standings  []TeamStanding
	UpdatedAt  time.Time
}

type TeamStanding struct {
	TeamID     string
	TeamName   string
	Played     int
	Won        int
	Lost       int
	NoResult   int
	Points     int
	NetRunRate float64
}

// DeriveStatus places now against the inclusive [start, end] range.
// A zero end date leaves the series open ended.
func DeriveStatus(now, start, end time.Time) Status {
	switch {
	case now.Before(start):
		return StatusUpcoming
	case !end.IsZero() && now.After(end):
		return StatusCompleted
	default:
		return StatusOngoing
	}
}

// Derive returns a copy with Status and IsActive computed for now.
func (s Series) Derive(now time.Time) Series {
	s.Status = DeriveStatus(now, s.StartDate, s.EndDate)
	s.IsActive = s.Status == StatusOngoing
	return s
}

// SortStandings orders by points then net run rate, both descending.
func SortStandings(items []TeamStanding) []TeamStanding {
	out := append([]TeamStanding(nil), items...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Points != out[j].Points {
			return out[i].Points > out[j].Points
		}
		return out[i].NetRunRate > out[j].NetRunRate
	})
	return out
}

func NormalizeType(value string) string {
	return strings.ToUpper(strings.TrimSpace(value))
}
