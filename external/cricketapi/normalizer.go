package cricketapi

import (
	"context"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/cricket-hub/internal/domain/match"
	"github.com/riskibarqy/cricket-hub/internal/domain/series"
	"github.com/riskibarqy/cricket-hub/internal/platform/logging"
)

const (
	defaultVenueName  = "TBD"
	defaultSeriesName = "Unknown Series"
)

// Normalizer turns one upstream match record into a match.Match.
type Normalizer struct {
	logger *logging.Logger
	now    func() time.Time
}

func NewNormalizer(logger *logging.Logger) *Normalizer {
	if logger == nil {
		logger = logging.Default()
	}
	return &Normalizer{logger: logger, now: time.Now}
}

// Normalize converts raw with the given target status. ok is false when the
// record has no match-info block or no match id; callers skip such records.
func (n *Normalizer) Normalize(ctx context.Context, raw map[string]any, status match.Status) (match.Match, bool) {
	return n.NormalizeInGroup(ctx, raw, status, "")
}

// NormalizeInGroup is Normalize for a record listed under a match-type group
// such as "International" or "League", which becomes the series type.
func (n *Normalizer) NormalizeInGroup(ctx context.Context, raw map[string]any, status match.Status, groupType string) (match.Match, bool) {
	info := firstMap(raw, matchInfoKeys...)
	if info == nil {
		n.logger.DebugContext(ctx, "skip upstream record without match info")
		return match.Match{}, false
	}

	matchID := firstString(info, "matchId", "matchid", "id")
	if matchID == "" {
		n.logger.WarnContext(ctx, "skip upstream record without match id")
		return match.Match{}, false
	}

	teams := [2]teamRef{
		parseTeam(firstMap(info, "team1")),
		parseTeam(firstMap(info, "team2")),
	}

	m := match.Match{
		MatchID: matchID,
		Format:  match.ParseFormat(firstString(info, "matchFormat", "matchformat")),
		Venue:   parseVenue(info),
		Series: match.SeriesRef{
			ID:         firstString(info, "seriesId", "seriesid"),
			Name:       orDefault(firstString(info, seriesNameKeys...), defaultSeriesName),
			SeriesType: orDefault(series.NormalizeType(groupType), series.TypeInternational),
		},
		StartDate: n.startDate(ctx, matchID, info),
	}
	m.SetStatus(status)

	m.Title = firstString(info, titleKeys...)
	if m.Title == "" {
		m.Title = teams[0].name + " vs " + teams[1].name
	}
	m.ShortTitle = orDefault(firstString(info, shortTitleKeys...), m.Title)

	var scores [2]teamScore
	if status.HasScore() {
		scores = scoreExtractor{logger: n.logger, matchID: matchID}.extract(ctx, raw, teams)
	}

	winnerID := ""
	if status == match.StatusCompleted {
		winnerID = firstString(firstMap(info, "result"), winningTeamIDKeys...)
		if winnerID == "" {
			winnerID = firstString(info, winningTeamIDKeys...)
		}
	}

	for slot, team := range teams {
		m.Teams[slot] = match.TeamEntry{
			TeamID:        team.id,
			TeamName:      team.name,
			TeamShortName: team.shortName,
			Score:         scores[slot].line,
			ScoreSource:   scores[slot].source,
			IsWinner:      winnerID != "" && winnerID == team.id,
		}
	}

	if encoded, err := sonic.Marshal(raw); err == nil {
		m.Raw = encoded
	} else {
		n.logger.WarnContext(ctx, "encode raw upstream record failed", "match_id", matchID, "error", err)
	}

	return m, true
}

// Innings lists scorecard innings in upstream order, resolving score aliases.
func (n *Normalizer) Innings(raw map[string]any) []match.Innings {
	lines := scorecardInnings(raw)
	out := make([]match.Innings, 0, len(lines))
	for i, line := range lines {
		id := line.id
		if id <= 0 {
			id = i + 1
		}
		score := aggregate([]inningsLine{line})
		out = append(out, match.Innings{
			InningsID:   id,
			BattingTeam: line.battingTeam,
			Runs:        score.Runs,
			Wickets:     score.Wickets,
			Overs:       score.Overs,
			RunRate:     score.RunRate,
		})
	}
	return out
}

// StatusOf classifies the state text of a detail record.
func (n *Normalizer) StatusOf(raw map[string]any) match.Status {
	info := firstMap(raw, matchInfoKeys...)
	if info == nil {
		return match.StatusUpcoming
	}
	texts := make([]string, 0, len(statusTextKeys))
	for _, key := range statusTextKeys {
		texts = append(texts, asString(info[key]))
	}
	return ClassifyStatus(texts...)
}

func (n *Normalizer) startDate(ctx context.Context, matchID string, info map[string]any) time.Time {
	for _, key := range startDateKeys {
		ms, ok := asNumber(info[key])
		if ok && ms > 0 {
			return time.UnixMilli(int64(ms)).UTC()
		}
	}
	n.logger.DebugContext(ctx, "upstream start date missing, using current time", "match_id", matchID)
	return n.now().UTC()
}

func parseTeam(src map[string]any) teamRef {
	return teamRef{
		id:        firstString(src, teamIDKeys...),
		name:      firstString(src, teamNameKeys...),
		shortName: firstString(src, teamShortKeys...),
	}
}

func parseVenue(info map[string]any) match.Venue {
	venue := firstMap(info, venueKeys...)
	return match.Venue{
		Name:    orDefault(firstString(venue, "ground", "name"), defaultVenueName),
		City:    firstString(venue, "city"),
		Country: firstString(venue, "country"),
	}
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
