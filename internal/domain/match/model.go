package match

import (
	"math"
	"strings"
	"time"
)

type Format string

const (
	FormatTest    Format = "TEST"
	FormatODI     Format = "ODI"
	FormatT20     Format = "T20"
	FormatUnknown Format = "UNKNOWN"
)

type Status string

const (
	StatusUpcoming  Status = "UPCOMING"
	StatusLive      Status = "LIVE"
	StatusCompleted Status = "COMPLETED"
	StatusAbandoned Status = "ABANDONED"
	StatusCancelled Status = "CANCELLED"
)

// HasScore reports whether a match in this status can carry innings data.
func (s Status) HasScore() bool {
	return s == StatusLive || s == StatusCompleted
}

func ParseFormat(value string) Format {
	normalized := strings.ToUpper(strings.TrimSpace(value))
	switch {
	case normalized == "":
		return FormatUnknown
	case normalized == "TEST":
		return FormatTest
	case normalized == "ODI":
		return FormatODI
	case strings.HasPrefix(normalized, "T20"):
		return FormatT20
	default:
		return FormatUnknown
	}
}

// ScoreSource records how a team's score was attributed.
type ScoreSource string

const (
	ScoreSourceNone       ScoreSource = ""
	ScoreSourceName       ScoreSource = "name"
	ScoreSourcePositional ScoreSource = "positional"
	ScoreSourceSummary    ScoreSource = "summary"
)

// ScoreLine is one team's aggregate batting line. Values are never negative.
type ScoreLine struct {
	Runs            int
	Wickets         int
	Overs           float64
	Balls           int
	RunRate         float64
	RequiredRunRate float64
}

func (s ScoreLine) IsZero() bool {
	return s == ScoreLine{}
}

// RunRateFor returns runs per over rounded to two decimals, or 0 without overs.
func RunRateFor(runs int, overs float64) float64 {
	if overs <= 0 {
		return 0
	}
	return Round(float64(runs)/overs, 2)
}

func Round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

type TeamEntry struct {
	TeamID        string
	TeamName      string
	TeamShortName string
	Score         ScoreLine
	ScoreSource   ScoreSource
	IsWinner      bool
}

type Venue struct {
	Name    string
	City    string
	Country string
}

type SeriesRef struct {
	ID         string
	Name       string
	SeriesType string
}

// Match is the normalized form of one upstream match record.
// Teams keeps upstream team1/team2 order.
type Match struct {
	ID         string
	MatchID    string
	Title      string
	ShortTitle string
	Format     Format
	Status     Status
	IsLive     bool
	Teams      [2]TeamEntry
	Venue      Venue
	Series     SeriesRef
	StartDate  time.Time
	UpdatedAt  time.Time
	Raw        []byte
}

// SetStatus keeps IsLive in step with Status.
func (m *Match) SetStatus(status Status) {
	m.Status = status
	m.IsLive = status == StatusLive
}

// Innings is one batting turn as reported by a scorecard.
type Innings struct {
	InningsID   int
	BattingTeam string
	Runs        int
	Wickets     int
	Overs       float64
	RunRate     float64
}
