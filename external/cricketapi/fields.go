package cricketapi

import (
	"strconv"
	"strings"
)

type scoreField int

const (
	fieldRuns scoreField = iota
	fieldWickets
	fieldOvers
	fieldBalls
	fieldRunRate
	fieldRequiredRunRate
)

// scoreAliases lists every spelling the feed has used for a score concept,
// in lookup order.
var scoreAliases = map[scoreField][]string{
	fieldRuns:            {"r", "runs", "score", "totalRuns", "totalruns"},
	fieldWickets:         {"w", "wkts", "wickets", "totalWickets", "totalwickets"},
	fieldOvers:           {"o", "overs", "totalOvers", "totalovers"},
	fieldBalls:           {"b", "balls", "totalBalls", "totalballs"},
	fieldRunRate:         {"rr", "runRate", "runrate"},
	fieldRequiredRunRate: {"rrr", "requiredRunRate", "requiredrunrate"},
}

var (
	matchInfoKeys     = []string{"matchInfo", "matchHeader"}
	matchScoreKeys    = []string{"matchScore", "score", "scr"}
	scorecardKeys     = []string{"scorecard", "scoreCard"}
	battingTeamKeys   = []string{"batTeamName", "batteamname", "batTeamSName", "batteamsname"}
	teamIDKeys        = []string{"teamId", "teamid", "id"}
	teamNameKeys      = []string{"teamName", "teamname", "name"}
	teamShortKeys     = []string{"teamSName", "teamSname", "shortName"}
	titleKeys         = []string{"matchDesc", "matchDescription"}
	shortTitleKeys    = []string{"shortDesc", "shortDescription"}
	venueKeys         = []string{"venueInfo", "venue"}
	seriesNameKeys    = []string{"seriesName", "seriesDesc"}
	startDateKeys     = []string{"startDate", "matchStartTimestamp"}
	inningsIDKeys     = []string{"inningsId", "inningsid"}
	statusTextKeys    = []string{"state", "status", "stateTitle"}
	winningTeamIDKeys = []string{"winningTeamId", "winningteamId", "winningteamid"}
)

func scoreValue(src map[string]any, field scoreField) float64 {
	return firstNumber(src, scoreAliases[field]...)
}

func firstNumber(src map[string]any, keys ...string) float64 {
	for _, key := range keys {
		if v, ok := asNumber(src[key]); ok && v != 0 {
			return v
		}
	}
	return 0
}

func firstString(src map[string]any, keys ...string) string {
	for _, key := range keys {
		if v := asString(src[key]); v != "" {
			return v
		}
	}
	return ""
}

func firstMap(src map[string]any, keys ...string) map[string]any {
	for _, key := range keys {
		if v, ok := src[key].(map[string]any); ok {
			return v
		}
	}
	return nil
}

func firstList(src map[string]any, keys ...string) []any {
	for _, key := range keys {
		if v, ok := src[key].([]any); ok {
			return v
		}
	}
	return nil
}

func asNumber(value any) (float64, bool) {
	switch typed := value.(type) {
	case float64:
		return typed, true
	case float32:
		return float64(typed), true
	case int:
		return float64(typed), true
	case int64:
		return float64(typed), true
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(typed), 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}

// asString renders ids that arrive as numbers without a trailing ".0".
func asString(value any) string {
	switch typed := value.(type) {
	case string:
		return strings.TrimSpace(typed)
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64)
	case int:
		return strconv.Itoa(typed)
	case int64:
		return strconv.FormatInt(typed, 10)
	default:
		return ""
	}
}

func nonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
