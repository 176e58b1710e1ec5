package dynamo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/riskibarqy/cricket-hub/internal/domain/match"
	"github.com/riskibarqy/cricket-hub/internal/domain/series"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	pages   [][]map[string]types.AttributeValue
	scans   []*dynamodb.ScanInput
	items   map[string]map[string]types.AttributeValue
	updates []*dynamodb.UpdateItemInput
	puts    []*dynamodb.PutItemInput
	stored  map[string]types.AttributeValue
	err     error
}

func (f *fakeAPI) GetItem(_ context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, v := range in.Key {
		if s, ok := v.(*types.AttributeValueMemberS); ok {
			return &dynamodb.GetItemOutput{Item: f.items[s.Value]}, nil
		}
	}
	return &dynamodb.GetItemOutput{}, nil
}

func (f *fakeAPI) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.puts = append(f.puts, in)
	return &dynamodb.PutItemOutput{}, f.err
}

func (f *fakeAPI) UpdateItem(_ context.Context, in *dynamodb.UpdateItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.updates = append(f.updates, in)
	return &dynamodb.UpdateItemOutput{Attributes: f.stored}, nil
}

func (f *fakeAPI) Scan(_ context.Context, in *dynamodb.ScanInput, _ ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	copied := *in
	f.scans = append(f.scans, &copied)

	page := len(f.scans) - 1
	if page >= len(f.pages) {
		return &dynamodb.ScanOutput{}, nil
	}
	out := &dynamodb.ScanOutput{Items: f.pages[page]}
	if page < len(f.pages)-1 {
		out.LastEvaluatedKey = map[string]types.AttributeValue{matchKey: &types.AttributeValueMemberS{Value: "cursor"}}
	}
	return out, nil
}

func mustMatchItem(t *testing.T, m match.Match) map[string]types.AttributeValue {
	t.Helper()
	attrs, err := attributevalue.MarshalMap(newMatchItem(m))
	require.NoError(t, err)
	return attrs
}

func TestMatchRepository_FindScansAllPagesAndOrders(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	api := &fakeAPI{pages: [][]map[string]types.AttributeValue{
		{mustMatchItem(t, match.Match{ID: "a", MatchID: "1", Status: match.StatusUpcoming, StartDate: base.Add(2 * time.Hour)})},
		{mustMatchItem(t, match.Match{ID: "b", MatchID: "2", Status: match.StatusUpcoming, StartDate: base})},
	}}
	repo := NewMatchRepository(api, "matches")

	got, err := repo.Find(context.Background(), match.ViewUpcoming.StoreQuery(10))
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "2", got[0].MatchID)
	require.Equal(t, "1", got[1].MatchID)

	require.Len(t, api.scans, 2)
	require.Equal(t, "contains(#status, :status)", aws.ToString(api.scans[0].FilterExpression))
	require.Equal(t, &types.AttributeValueMemberS{Value: "UPCOMING"}, api.scans[0].ExpressionAttributeValues[":status"])
	require.NotNil(t, api.scans[1].ExclusiveStartKey)
}

func TestMatchRepository_FindLiveIncludesFlag(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{}
	repo := NewMatchRepository(api, "matches")

	_, err := repo.Find(context.Background(), match.ViewLive.StoreQuery(5))
	require.NoError(t, err)
	require.Equal(t, "contains(#status, :status) OR #isLive = :live", aws.ToString(api.scans[0].FilterExpression))
	require.Equal(t, "isLive", api.scans[0].ExpressionAttributeNames["#isLive"])
}

func TestMatchRepository_GetByIDFallsBackToInternalID(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{
		items: map[string]map[string]types.AttributeValue{},
		pages: [][]map[string]types.AttributeValue{
			{mustMatchItem(t, match.Match{ID: "internal-1", MatchID: "77", Title: "A vs B"})},
		},
	}
	repo := NewMatchRepository(api, "matches")

	got, ok, err := repo.GetByID(context.Background(), "internal-1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "77", got.MatchID)
	require.Equal(t, "#id = :id", aws.ToString(api.scans[0].FilterExpression))
}

func TestMatchRepository_GetByIDMatchKey(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{items: map[string]map[string]types.AttributeValue{
		"77": mustMatchItem(t, match.Match{ID: "internal-1", MatchID: "77", Teams: [2]match.TeamEntry{
			{TeamID: "2", TeamName: "India", Score: match.ScoreLine{Runs: 180, Wickets: 4, Overs: 20}},
			{TeamID: "10", TeamName: "West Indies"},
		}}),
	}}
	repo := NewMatchRepository(api, "matches")

	got, ok, err := repo.GetByID(context.Background(), "77")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "India", got.Teams[0].TeamName)
	require.Equal(t, 180, got.Teams[0].Score.Runs)
	require.Empty(t, api.scans)
}

func TestMatchRepository_GetByIDMissing(t *testing.T) {
	t.Parallel()

	repo := NewMatchRepository(&fakeAPI{}, "matches")
	_, ok, err := repo.GetByID(context.Background(), "nope")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMatchRepository_UpsertGuardsInternalID(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{stored: mustMatchItem(t, match.Match{ID: "existing", MatchID: "9", Status: match.StatusLive, IsLive: true})}
	repo := NewMatchRepository(api, "matches")

	got, err := repo.UpsertMany(context.Background(), []match.Match{
		{ID: "candidate", MatchID: "9", Status: match.StatusLive, IsLive: true},
		{ID: "skipped"},
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "existing", got[0].ID)

	require.Len(t, api.updates, 1)
	in := api.updates[0]
	require.Equal(t, types.ReturnValueAllNew, in.ReturnValues)
	require.Equal(t, &types.AttributeValueMemberS{Value: "9"}, in.Key[matchKey])
	require.Contains(t, aws.ToString(in.UpdateExpression), "if_not_exists(")
	for _, name := range in.ExpressionAttributeNames {
		require.NotEqual(t, matchKey, name)
	}
}

func TestMatchRepository_PropagatesErrors(t *testing.T) {
	t.Parallel()

	repo := NewMatchRepository(&fakeAPI{err: errors.New("throttled")}, "matches")
	_, err := repo.Find(context.Background(), match.Query{})
	require.ErrorContains(t, err, "throttled")

	_, err = repo.UpsertMany(context.Background(), []match.Match{{MatchID: "1"}})
	require.ErrorContains(t, err, "throttled")
}

func TestSetExpression(t *testing.T) {
	t.Parallel()

	expr, names, values := setExpression(map[string]types.AttributeValue{
		"title": &types.AttributeValueMemberS{Value: "x"},
		"id":    &types.AttributeValueMemberS{Value: "y"},
	}, "id")

	require.Equal(t, "SET #f0 = if_not_exists(#f0, :v0), #f1 = :v1", expr)
	require.Equal(t, map[string]string{"#f0": "id", "#f1": "title"}, names)
	require.Len(t, values, 2)
}

func TestSeriesRepository_RoundTrip(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	api := &fakeAPI{}
	repo := NewSeriesRepository(api, "series")

	err := repo.UpsertMany(context.Background(), []series.Series{
		{SeriesID: "s1", Name: "Tri Series", StartDate: start, Standings: []series.TeamStanding{{TeamID: "t1", Points: 4}}},
		{Name: "missing id"},
	})
	require.NoError(t, err)
	require.Len(t, api.puts, 1)

	api.items = map[string]map[string]types.AttributeValue{"s1": api.puts[0].Item}
	got, ok, err := repo.GetByID(context.Background(), "s1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "Tri Series", got.Name)
	require.True(t, got.EndDate.IsZero())
	require.Equal(t, 4, got.Standings[0].Points)
}

func TestSeriesRepository_ListNewestFirst(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	item := func(id string, start time.Time) map[string]types.AttributeValue {
		attrs, err := attributevalue.MarshalMap(newSeriesItem(series.Series{SeriesID: id, StartDate: start}))
		require.NoError(t, err)
		return attrs
	}
	api := &fakeAPI{pages: [][]map[string]types.AttributeValue{{
		item("old", base),
		item("new", base.AddDate(0, 1, 0)),
	}}}
	repo := NewSeriesRepository(api, "series")

	got, err := repo.List(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "new", got[0].SeriesID)
}
