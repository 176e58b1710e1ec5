package cricketapi

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/riskibarqy/cricket-hub/internal/domain/match"
	"github.com/riskibarqy/cricket-hub/internal/domain/series"
	"github.com/riskibarqy/cricket-hub/internal/platform/logging"
	"github.com/riskibarqy/cricket-hub/internal/platform/ratelimit"
)

const (
	headerAPIKey  = "x-rapidapi-key"
	headerAPIHost = "x-rapidapi-host"
)

// Executor issues one governed GET and returns the decoded body or nil.
type Executor interface {
	Execute(ctx context.Context, req ratelimit.Request) map[string]any
}

type ClientConfig struct {
	Key         string
	Host        string
	LiveURL     string
	RecentURL   string
	UpcomingURL string
	InfoURL     string
	SeriesURL   string
	Logger      *logging.Logger
}

// Client reads the RapidAPI cricket feed through the shared rate limiter.
type Client struct {
	key        string
	host       string
	listURLs   map[match.View]string
	infoURL    string
	seriesURL  string
	limiter    Executor
	normalizer *Normalizer
	logger     *logging.Logger
}

func NewClient(cfg ClientConfig, limiter Executor) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	return &Client{
		key:  strings.TrimSpace(cfg.Key),
		host: strings.TrimSpace(cfg.Host),
		listURLs: map[match.View]string{
			match.ViewLive:     trimURL(cfg.LiveURL),
			match.ViewRecent:   trimURL(cfg.RecentURL),
			match.ViewUpcoming: trimURL(cfg.UpcomingURL),
		},
		infoURL:    trimURL(cfg.InfoURL),
		seriesURL:  trimURL(cfg.SeriesURL),
		limiter:    limiter,
		normalizer: NewNormalizer(logger),
		logger:     logger,
	}
}

func (c *Client) hasCredentials() bool {
	return c.key != "" && c.host != "" && c.limiter != nil
}

func (c *Client) ListConfigured(view match.View) bool {
	return c.hasCredentials() && c.listURLs[view] != ""
}

func (c *Client) DetailConfigured() bool {
	return c.hasCredentials() && c.infoURL != ""
}

func (c *Client) SeriesConfigured() bool {
	return c.hasCredentials() && c.seriesURL != ""
}

// FetchList returns the normalized matches of a view. ok is false when the
// limiter gave up or the payload had no typeMatches list.
func (c *Client) FetchList(ctx context.Context, view match.View) ([]match.Match, bool) {
	if !c.ListConfigured(view) {
		return nil, false
	}

	payload := c.get(ctx, c.listURLs[view])
	if payload == nil {
		return nil, false
	}
	groups, ok := payload["typeMatches"].([]any)
	if !ok {
		c.logger.WarnContext(ctx, "upstream list payload has no typeMatches", "view", string(view))
		return nil, false
	}

	status := view.Status()
	out := make([]match.Match, 0, 32)
	skipped := 0
	walkMatchList(groups, func(groupType string, raw map[string]any) {
		m, ok := c.normalizer.NormalizeInGroup(ctx, raw, status, groupType)
		if !ok {
			skipped++
			return
		}
		out = append(out, m)
	})
	if skipped > 0 {
		c.logger.InfoContext(ctx, "skipped unusable upstream records", "view", string(view), "skipped", skipped)
	}
	return out, true
}

// FetchDetail loads one match by upstream id and, for live or finished
// matches, merges its scorecard so team scores can be extracted.
func (c *Client) FetchDetail(ctx context.Context, matchID string) (match.Match, bool) {
	if !c.DetailConfigured() || strings.TrimSpace(matchID) == "" {
		return match.Match{}, false
	}

	payload := c.get(ctx, c.infoURL+"/"+url.PathEscape(matchID))
	if payload == nil {
		return match.Match{}, false
	}

	status := c.normalizer.StatusOf(payload)
	if status.HasScore() {
		if card := c.get(ctx, c.scorecardURL(matchID)); card != nil {
			merged := make(map[string]any, len(payload)+1)
			for k, v := range payload {
				merged[k] = v
			}
			merged["scorecard"] = card
			payload = merged
		}
	}

	return c.normalizer.Normalize(ctx, payload, status)
}

func (c *Client) FetchScorecard(ctx context.Context, matchID string) ([]match.Innings, bool) {
	if !c.DetailConfigured() || strings.TrimSpace(matchID) == "" {
		return nil, false
	}

	card := c.get(ctx, c.scorecardURL(matchID))
	if card == nil {
		return nil, false
	}
	return c.normalizer.Innings(map[string]any{"scorecard": card}), true
}

// FetchSeries reads the series schedule, shaped as
// {seriesMapProto: [{date, series: [{id, name, startDt, endDt}]}]}.
func (c *Client) FetchSeries(ctx context.Context) ([]series.Series, bool) {
	if !c.SeriesConfigured() {
		return nil, false
	}

	payload := c.get(ctx, c.seriesURL)
	if payload == nil {
		return nil, false
	}
	months, ok := payload["seriesMapProto"].([]any)
	if !ok {
		c.logger.WarnContext(ctx, "upstream series payload has no seriesMapProto")
		return nil, false
	}

	out := make([]series.Series, 0, 32)
	for _, month := range months {
		monthObj, ok := month.(map[string]any)
		if !ok {
			continue
		}
		for _, item := range firstList(monthObj, "series") {
			obj, ok := item.(map[string]any)
			if !ok {
				continue
			}
			s, ok := parseSeries(obj)
			if !ok {
				continue
			}
			out = append(out, s)
		}
	}
	return out, true
}

func (c *Client) get(ctx context.Context, rawURL string) map[string]any {
	header := http.Header{}
	header.Set(headerAPIKey, c.key)
	header.Set(headerAPIHost, c.host)
	return c.limiter.Execute(ctx, ratelimit.Request{URL: rawURL, Header: header})
}

func (c *Client) scorecardURL(matchID string) string {
	return c.infoURL + "/" + url.PathEscape(matchID) + "/scard"
}

// walkMatchList visits typeMatches[].seriesMatches[].seriesAdWrapper.matches[].
// Series entries without seriesAdWrapper are ad slots and are skipped.
func walkMatchList(groups []any, visit func(groupType string, raw map[string]any)) {
	for _, group := range groups {
		groupObj, ok := group.(map[string]any)
		if !ok {
			continue
		}
		groupType := firstString(groupObj, "matchType")
		for _, entry := range firstList(groupObj, "seriesMatches") {
			entryObj, ok := entry.(map[string]any)
			if !ok {
				continue
			}
			wrapper := firstMap(entryObj, "seriesAdWrapper")
			if wrapper == nil {
				continue
			}
			for _, item := range firstList(wrapper, "matches") {
				if raw, ok := item.(map[string]any); ok {
					visit(groupType, raw)
				}
			}
		}
	}
}

func parseSeries(obj map[string]any) (series.Series, bool) {
	id := firstString(obj, "id", "seriesId")
	name := firstString(obj, "name", "seriesName")
	if id == "" || name == "" {
		return series.Series{}, false
	}
	return series.Series{
		SeriesID:   id,
		Name:       name,
		ShortName:  name,
		SeriesType: series.TypeInternational,
		StartDate:  epochMillis(obj["startDt"]),
		EndDate:    epochMillis(obj["endDt"]),
	}, true
}

func epochMillis(value any) time.Time {
	ms, ok := asNumber(value)
	if !ok || ms <= 0 {
		return time.Time{}
	}
	return time.UnixMilli(int64(ms)).UTC()
}

func trimURL(raw string) string {
	return strings.TrimRight(strings.TrimSpace(raw), "/")
}
