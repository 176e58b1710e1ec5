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
	"github.com/riskibarqy/cricket-hub/internal/domain/series"
)

const seriesKey = "seriesId"

type seriesItem struct {
	SeriesID   string         `dynamodbav:"seriesId"`
	Name       string         `dynamodbav:"name"`
	ShortName  string         `dynamodbav:"shortName"`
	SeriesType string         `dynamodbav:"seriesType"`
	StartDate  time.Time      `dynamodbav:"startDate"`
	EndDate    *time.Time     `dynamodbav:"endDate,omitempty"`
	Priority   int            `dynamodbav:"priority"`
	Standings  []standingItem `dynamodbav:"standings"`
	UpdatedAt  time.Time      `dynamodbav:"updatedAt"`
}

type standingItem struct {
	TeamID     string  `dynamodbav:"teamId"`
	TeamName   string  `dynamodbav:"teamName"`
	Played     int     `dynamodbav:"played"`
	Won        int     `dynamodbav:"won"`
	Lost       int     `dynamodbav:"lost"`
	NoResult   int     `dynamodbav:"noResult"`
	Points     int     `dynamodbav:"points"`
	NetRunRate float64 `dynamodbav:"netRunRate"`
}

type SeriesRepository struct {
	api   API
	table string
	now   func() time.Time
}

func NewSeriesRepository(api API, table string) *SeriesRepository {
	return &SeriesRepository{api: api, table: table, now: time.Now}
}

func (r *SeriesRepository) List(ctx context.Context, limit int) ([]series.Series, error) {
	rows, err := scanAll(ctx, r.api, &dynamodb.ScanInput{TableName: aws.String(r.table)})
	if err != nil {
		return nil, fmt.Errorf("scan series: %w", err)
	}

	out := make([]series.Series, 0, len(rows))
	for _, row := range rows {
		item, err := decodeSeries(row)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].StartDate.Equal(out[j].StartDate) {
			return out[i].StartDate.After(out[j].StartDate)
		}
		return out[i].SeriesID < out[j].SeriesID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *SeriesRepository) GetByID(ctx context.Context, seriesID string) (series.Series, bool, error) {
	got, err := r.api.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.table),
		Key:       map[string]types.AttributeValue{seriesKey: &types.AttributeValueMemberS{Value: seriesID}},
	})
	if err != nil {
		return series.Series{}, false, fmt.Errorf("get series id=%s: %w", seriesID, err)
	}
	if len(got.Item) == 0 {
		return series.Series{}, false, nil
	}

	item, err := decodeSeries(got.Item)
	if err != nil {
		return series.Series{}, false, err
	}
	return item, true, nil
}

func (r *SeriesRepository) UpsertMany(ctx context.Context, items []series.Series) error {
	now := r.now().UTC()
	for _, item := range items {
		if strings.TrimSpace(item.SeriesID) == "" {
			continue
		}
		if item.UpdatedAt.IsZero() {
			item.UpdatedAt = now
		}

		attrs, err := attributevalue.MarshalMap(newSeriesItem(item))
		if err != nil {
			return fmt.Errorf("marshal series=%s: %w", item.SeriesID, err)
		}
		if _, err := r.api.PutItem(ctx, &dynamodb.PutItemInput{
			TableName: aws.String(r.table),
			Item:      attrs,
		}); err != nil {
			return fmt.Errorf("put series=%s: %w", item.SeriesID, err)
		}
	}
	return nil
}

func newSeriesItem(s series.Series) seriesItem {
	standings := make([]standingItem, 0, len(s.Standings))
	for _, st := range s.Standings {
		standings = append(standings, standingItem(st))
	}

	out := seriesItem{
		SeriesID:   s.SeriesID,
		Name:       s.Name,
		ShortName:  s.ShortName,
		SeriesType: s.SeriesType,
		StartDate:  s.StartDate.UTC(),
		Priority:   s.Priority,
		Standings:  standings,
		UpdatedAt:  s.UpdatedAt.UTC(),
	}
	if !s.EndDate.IsZero() {
		end := s.EndDate.UTC()
		out.EndDate = &end
	}
	return out
}

func decodeSeries(attrs map[string]types.AttributeValue) (series.Series, error) {
	var row seriesItem
	if err := attributevalue.UnmarshalMap(attrs, &row); err != nil {
		return series.Series{}, fmt.Errorf("unmarshal series item: %w", err)
	}

	out := series.Series{
		SeriesID:   row.SeriesID,
		Name:       row.Name,
		ShortName:  row.ShortName,
		SeriesType: row.SeriesType,
		StartDate:  row.StartDate,
		Priority:   row.Priority,
		UpdatedAt:  row.UpdatedAt,
	}
	if row.EndDate != nil {
		out.EndDate = *row.EndDate
	}
	for _, st := range row.Standings {
		out.Standings = append(out.Standings, series.TeamStanding(st))
	}
	return out, nil
}
