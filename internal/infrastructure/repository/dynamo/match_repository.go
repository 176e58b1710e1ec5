package dynamo

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/riskibarqy/cricket-hub/internal/domain/match"
)

const matchKey = "matchId"

type matchItem struct {
	MatchID    string        `dynamodbav:"matchId"`
	ID         string        `dynamodbav:"id"`
	Title      string        `dynamodbav:"title"`
	ShortTitle string        `dynamodbav:"shortTitle"`
	Format     string        `dynamodbav:"format"`
	Status     string        `dynamodbav:"status"`
	IsLive     bool          `dynamodbav:"isLive"`
	Teams      []teamItem    `dynamodbav:"teams"`
	Venue      venueItem     `dynamodbav:"venue"`
	Series     seriesRefItem `dynamodbav:"series"`
	StartDate  time.Time     `dynamodbav:"startDate"`
	UpdatedAt  time.Time     `dynamodbav:"updatedAt"`
	Raw        []byte        `dynamodbav:"raw,omitempty"`
}

type teamItem struct {
	TeamID          string  `dynamodbav:"teamId"`
	TeamName        string  `dynamodbav:"teamName"`
	TeamShortName   string  `dynamodbav:"teamShortName"`
	Runs            int     `dynamodbav:"runs"`
	Wickets         int     `dynamodbav:"wickets"`
	Overs           float64 `dynamodbav:"overs"`
	Balls           int     `dynamodbav:"balls"`
	RunRate         float64 `dynamodbav:"runRate"`
	RequiredRunRate float64 `dynamodbav:"requiredRunRate"`
	ScoreSource     string  `dynamodbav:"scoreSource"`
	IsWinner        bool    `dynamodbav:"isWinner"`
}

type venueItem struct {
	Name    string `dynamodbav:"name"`
	City    string `dynamodbav:"city"`
	Country string `dynamodbav:"country"`
}

type seriesRefItem struct {
	ID         string `dynamodbav:"id"`
	Name       string `dynamodbav:"name"`
	SeriesType string `dynamodbav:"seriesType"`
}

type MatchRepository struct {
	api   API
	table string
	now   func() time.Time
}

func NewMatchRepository(api API, table string) *MatchRepository {
	return &MatchRepository{api: api, table: table, now: time.Now}
}

// Find scans the table and applies ordering and limit in process.
func (r *MatchRepository) Find(ctx context.Context, q match.Query) ([]match.Match, error) {
	input := &dynamodb.ScanInput{TableName: aws.String(r.table)}
	if keyword := strings.TrimSpace(q.StatusKeyword); keyword != "" {
		filter := "contains(#status, :status)"
		input.ExpressionAttributeNames = map[string]string{"#status": "status"}
		input.ExpressionAttributeValues = map[string]types.AttributeValue{
			":status": &types.AttributeValueMemberS{Value: strings.ToUpper(keyword)},
		}
		if q.IncludeLiveFlag {
			filter += " OR #isLive = :live"
			input.ExpressionAttributeNames["#isLive"] = "isLive"
			input.ExpressionAttributeValues[":live"] = &types.AttributeValueMemberBOOL{Value: true}
		}
		input.FilterExpression = aws.String(filter)
	}

	rows, err := scanAll(ctx, r.api, input)
	if err != nil {
		return nil, fmt.Errorf("scan matches: %w", err)
	}

	out := make([]match.Match, 0, len(rows))
	for _, row := range rows {
		item, err := decodeMatch(row)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return q.Apply(out), nil
}

func (r *MatchRepository) GetByID(ctx context.Context, id string) (match.Match, bool, error) {
	got, err := r.api.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.table),
		Key:       map[string]types.AttributeValue{matchKey: &types.AttributeValueMemberS{Value: id}},
	})
	if err != nil {
		return match.Match{}, false, fmt.Errorf("get match id=%s: %w", id, err)
	}
	if len(got.Item) > 0 {
		item, err := decodeMatch(got.Item)
		if err != nil {
			return match.Match{}, false, err
		}
		return item, true, nil
	}

	rows, err := scanAll(ctx, r.api, &dynamodb.ScanInput{
		TableName:                 aws.String(r.table),
		FilterExpression:          aws.String("#id = :id"),
		ExpressionAttributeNames:  map[string]string{"#id": "id"},
		ExpressionAttributeValues: map[string]types.AttributeValue{":id": &types.AttributeValueMemberS{Value: id}},
	})
	if err != nil {
		return match.Match{}, false, fmt.Errorf("scan match id=%s: %w", id, err)
	}
	if len(rows) == 0 {
		return match.Match{}, false, nil
	}

	item, err := decodeMatch(rows[0])
	if err != nil {
		return match.Match{}, false, err
	}
	return item, true, nil
}

// UpsertMany writes each item with UpdateItem. The internal id is guarded by
// if_not_exists so the first stored id survives later refreshes.
func (r *MatchRepository) UpsertMany(ctx context.Context, items []match.Match) ([]match.Match, error) {
	now := r.now().UTC()
	out := make([]match.Match, 0, len(items))
	for _, item := range items {
		if strings.TrimSpace(item.MatchID) == "" {
			continue
		}
		if item.UpdatedAt.IsZero() {
			item.UpdatedAt = now
		}

		attrs, err := attributevalue.MarshalMap(newMatchItem(item))
		if err != nil {
			return nil, fmt.Errorf("marshal match=%s: %w", item.MatchID, err)
		}
		delete(attrs, matchKey)
		if item.ID == "" {
			delete(attrs, "id")
		}

		expr, names, values := setExpression(attrs, "id")
		updated, err := r.api.UpdateItem(ctx, &dynamodb.UpdateItemInput{
			TableName:                 aws.String(r.table),
			Key:                       map[string]types.AttributeValue{matchKey: &types.AttributeValueMemberS{Value: item.MatchID}},
			UpdateExpression:          aws.String(expr),
			ExpressionAttributeNames:  names,
			ExpressionAttributeValues: values,
			ReturnValues:              types.ReturnValueAllNew,
		})
		if err != nil {
			return nil, fmt.Errorf("update match=%s: %w", item.MatchID, err)
		}

		stored, err := decodeMatch(updated.Attributes)
		if err != nil {
			return nil, err
		}
		out = append(out, stored)
	}
	return out, nil
}

func newMatchItem(m match.Match) matchItem {
	teams := make([]teamItem, 0, len(m.Teams))
	for _, t := range m.Teams {
		teams = append(teams, teamItem{
			TeamID:          t.TeamID,
			TeamName:        t.TeamName,
			TeamShortName:   t.TeamShortName,
			Runs:            t.Score.Runs,
			Wickets:         t.Score.Wickets,
			Overs:           t.Score.Overs,
			Balls:           t.Score.Balls,
			RunRate:         t.Score.RunRate,
			RequiredRunRate: t.Score.RequiredRunRate,
			ScoreSource:     string(t.ScoreSource),
			IsWinner:        t.IsWinner,
		})
	}

	return matchItem{
		MatchID:    m.MatchID,
		ID:         m.ID,
		Title:      m.Title,
		ShortTitle: m.ShortTitle,
		Format:     string(m.Format),
		Status:     string(m.Status),
		IsLive:     m.IsLive,
		Teams:      teams,
		Venue:      venueItem(m.Venue),
		Series:     seriesRefItem(m.Series),
		StartDate:  m.StartDate.UTC(),
		UpdatedAt:  m.UpdatedAt.UTC(),
		Raw:        m.Raw,
	}
}

func decodeMatch(attrs map[string]types.AttributeValue) (match.Match, error) {
	var row matchItem
	if err := attributevalue.UnmarshalMap(attrs, &row); err != nil {
		return match.Match{}, fmt.Errorf("unmarshal match item: %w", err)
	}

	out := match.Match{
		ID:         row.ID,
		MatchID:    row.MatchID,
		Title:      row.Title,
		ShortTitle: row.ShortTitle,
		Format:     match.Format(row.Format),
		Status:     match.Status(row.Status),
		IsLive:     row.IsLive,
		Venue:      match.Venue(row.Venue),
		Series:     match.SeriesRef(row.Series),
		StartDate:  row.StartDate,
		UpdatedAt:  row.UpdatedAt,
		Raw:        row.Raw,
	}
	for i := 0; i < len(row.Teams) && i < len(out.Teams); i++ {
		t := row.Teams[i]
		out.Teams[i] = match.TeamEntry{
			TeamID:        t.TeamID,
			TeamName:      t.TeamName,
			TeamShortName: t.TeamShortName,
			Score: match.ScoreLine{
				Runs:            t.Runs,
				Wickets:         t.Wickets,
				Overs:           t.Overs,
				Balls:           t.Balls,
				RunRate:         t.RunRate,
				RequiredRunRate: t.RequiredRunRate,
			},
			ScoreSource: match.ScoreSource(t.ScoreSource),
			IsWinner:    t.IsWinner,
		}
	}
	return out, nil
}

func sortedKeys(attrs map[string]types.AttributeValue) []string {
	keys := make([]string, 0, len(attrs))
	for key := range attrs {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
