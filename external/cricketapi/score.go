package cricketapi

import (
	"context"
	"sort"
	"strings"

	"github.com/riskibarqy/cricket-hub/internal/domain/match"
	"github.com/riskibarqy/cricket-hub/internal/platform/logging"
)

// teamRef is what the normalizer knows about one team slot.
type teamRef struct {
	id        string
	name      string
	shortName string
}

// inningsLine is one scorecard innings with score fields resolved.
type inningsLine struct {
	id          int
	battingTeam string
	runs        float64
	wickets     float64
	overs       float64
	balls       float64
	rrr         float64
}

type attributionKind int

const (
	unmatched attributionKind = iota
	matched
)

// attribution is the result of joining one innings to a team slot.
type attribution struct {
	kind    attributionKind
	slot    int
	innings inningsLine
}

// teamScore is the extraction result for one slot.
type teamScore struct {
	line   match.ScoreLine
	source match.ScoreSource
}

type scoreExtractor struct {
	logger  *logging.Logger
	matchID string
}

// extract resolves both team scores from a raw record. Scorecard innings are
// joined by batting team name; a slot with no scorecard innings falls back to
// the inline matchScore summary and then to the zero line.
func (e scoreExtractor) extract(ctx context.Context, raw map[string]any, teams [2]teamRef) [2]teamScore {
	var out [2]teamScore

	innings := scorecardInnings(raw)
	if len(innings) > 0 {
		out = e.fromScorecard(ctx, innings, teams)
	}

	summary := firstMap(raw, matchScoreKeys...)
	for slot := range out {
		if out[slot].source != match.ScoreSourceNone {
			continue
		}
		if line, ok := summaryScore(summary, slot); ok {
			out[slot] = teamScore{line: line, source: match.ScoreSourceSummary}
		}
	}

	for slot := range out {
		if out[slot].line.Wickets > 10 {
			e.logger.WarnContext(ctx, "score has more than ten wickets",
				"match_id", e.matchID,
				"team", teams[slot].name,
				"wickets", out[slot].line.Wickets,
			)
		}
	}
	return out
}

func (e scoreExtractor) fromScorecard(ctx context.Context, innings []inningsLine, teams [2]teamRef) [2]teamScore {
	var out [2]teamScore

	attributions := make([]attribution, 0, len(innings))
	anyMatched := false
	for _, inn := range innings {
		a := attribute(inn, teams)
		if a.kind == matched {
			anyMatched = true
		}
		attributions = append(attributions, a)
	}

	if !anyMatched {
		e.logger.WarnContext(ctx, "no innings matched a team name, attributing by position",
			"match_id", e.matchID,
			"innings", len(innings),
			"team1", teams[0].name,
			"team2", teams[1].name,
		)
		for slot := 0; slot < 2 && slot < len(innings); slot++ {
			out[slot] = teamScore{line: aggregate([]inningsLine{innings[slot]}), source: match.ScoreSourcePositional}
		}
		return out
	}

	var bySlot [2][]inningsLine
	for _, a := range attributions {
		if a.kind != matched {
			e.logger.WarnContext(ctx, "dropping innings with unknown batting team",
				"match_id", e.matchID,
				"innings_id", a.innings.id,
				"batting_team", a.innings.battingTeam,
			)
			continue
		}
		bySlot[a.slot] = append(bySlot[a.slot], a.innings)
	}
	for slot := range bySlot {
		if len(bySlot[slot]) == 0 {
			continue
		}
		out[slot] = teamScore{line: aggregate(bySlot[slot]), source: match.ScoreSourceName}
	}
	return out
}

// attribute matches an innings to a slot by case-insensitive name containment.
// When both names fit, an exact match wins, then the longer team name.
func attribute(inn inningsLine, teams [2]teamRef) attribution {
	batting := strings.ToLower(strings.TrimSpace(inn.battingTeam))
	if batting == "" {
		return attribution{kind: unmatched, innings: inn}
	}

	best, bestRank := -1, 0
	for slot, team := range teams {
		rank := nameRank(batting, team)
		if rank > bestRank {
			best, bestRank = slot, rank
		}
	}
	if best < 0 {
		return attribution{kind: unmatched, innings: inn}
	}
	return attribution{kind: matched, slot: best, innings: inn}
}

// nameRank scores how well a batting label fits a team. 0 means no match.
func nameRank(batting string, team teamRef) int {
	name := strings.ToLower(strings.TrimSpace(team.name))
	short := strings.ToLower(strings.TrimSpace(team.shortName))
	switch {
	case name != "" && batting == name:
		return 1 << 20
	case short != "" && batting == short:
		return 1 << 19
	case name != "" && strings.Contains(batting, name):
		return len(name)
	default:
		return 0
	}
}

// aggregate totals innings for one team: runs, overs and balls add up,
// wickets take the max since they count wickets down, not dismissals.
func aggregate(innings []inningsLine) match.ScoreLine {
	var runs, wickets, overs, balls, rrr float64
	for _, inn := range innings {
		runs += nonNegative(inn.runs)
		overs += nonNegative(inn.overs)
		balls += nonNegative(inn.balls)
		if w := nonNegative(inn.wickets); w > wickets {
			wickets = w
		}
		if inn.rrr > 0 {
			rrr = inn.rrr
		}
	}

	line := match.ScoreLine{
		Runs:            int(runs),
		Wickets:         int(wickets),
		Overs:           match.Round(overs, 1),
		Balls:           int(balls),
		RequiredRunRate: match.Round(rrr, 2),
	}
	line.RunRate = match.RunRateFor(line.Runs, line.Overs)
	return line
}

// scorecardInnings reads scorecard.scorecard[] (or a bare scorecard list).
func scorecardInnings(raw map[string]any) []inningsLine {
	var items []any
	for _, key := range scorecardKeys {
		switch v := raw[key].(type) {
		case []any:
			items = v
		case map[string]any:
			items = firstList(v, scorecardKeys...)
		}
		if len(items) > 0 {
			break
		}
	}

	out := make([]inningsLine, 0, len(items))
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		out = append(out, parseInnings(obj))
	}
	return out
}

func parseInnings(obj map[string]any) inningsLine {
	inn := inningsLine{
		id:          int(firstNumber(obj, inningsIDKeys...)),
		battingTeam: firstString(obj, battingTeamKeys...),
	}

	src := obj
	if details := firstMap(obj, "batTeamDetails"); details != nil {
		src = details
		if inn.battingTeam == "" {
			inn.battingTeam = firstString(details, battingTeamKeys...)
		}
	}
	inn.runs = scoreValue(src, fieldRuns)
	inn.wickets = scoreValue(src, fieldWickets)
	inn.overs = scoreValue(src, fieldOvers)
	inn.balls = scoreValue(src, fieldBalls)
	inn.rrr = scoreValue(src, fieldRequiredRunRate)
	return inn
}

// summaryScore reads the inline matchScore block for a slot. The team block
// either nests innings under inngs*/inning* keys or carries fields directly.
func summaryScore(summary map[string]any, slot int) (match.ScoreLine, bool) {
	if summary == nil {
		return match.ScoreLine{}, false
	}

	keys := []string{"team1Score", "team1", "t1s"}
	if slot == 1 {
		keys = []string{"team2Score", "team2", "t2s"}
	}
	teamBlock := firstMap(summary, keys...)
	if teamBlock == nil {
		return match.ScoreLine{}, false
	}

	inningsKeys := make([]string, 0, 2)
	for key := range teamBlock {
		if strings.HasPrefix(key, "inngs") || strings.HasPrefix(key, "inning") {
			inningsKeys = append(inningsKeys, key)
		}
	}
	sort.Strings(inningsKeys)

	innings := make([]inningsLine, 0, len(inningsKeys))
	for _, key := range inningsKeys {
		obj, ok := teamBlock[key].(map[string]any)
		if !ok {
			continue
		}
		innings = append(innings, parseInnings(obj))
	}
	if len(innings) == 0 {
		innings = append(innings, parseInnings(teamBlock))
	}

	line := aggregate(innings)
	if line.IsZero() {
		return match.ScoreLine{}, false
	}
	return line, true
}
