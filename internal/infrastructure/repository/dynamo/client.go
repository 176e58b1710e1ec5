package dynamo

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// API is the subset of the DynamoDB client used by the repositories.
type API interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

// NewClient loads the default AWS credential chain for region. A non-empty
// endpoint points the client at a local DynamoDB.
func NewClient(ctx context.Context, region, endpoint string) (*dynamodb.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	endpoint = strings.TrimSpace(endpoint)
	return dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	}), nil
}

// scanAll follows LastEvaluatedKey until the table is exhausted.
func scanAll(ctx context.Context, api API, input *dynamodb.ScanInput) ([]map[string]types.AttributeValue, error) {
	var out []map[string]types.AttributeValue
	for {
		page, err := api.Scan(ctx, input)
		if err != nil {
			return nil, err
		}
		out = append(out, page.Items...)
		if len(page.LastEvaluatedKey) == 0 {
			return out, nil
		}
		input.ExclusiveStartKey = page.LastEvaluatedKey
	}
}

// setExpression renders "SET #f0 = :v0, ..." over attrs in sorted key order.
// Keys listed in guarded are written with if_not_exists so an existing value wins.
func setExpression(attrs map[string]types.AttributeValue, guarded ...string) (string, map[string]string, map[string]types.AttributeValue) {
	keep := make(map[string]struct{}, len(guarded))
	for _, key := range guarded {
		keep[key] = struct{}{}
	}

	keys := sortedKeys(attrs)
	names := make(map[string]string, len(keys))
	values := make(map[string]types.AttributeValue, len(keys))
	parts := make([]string, 0, len(keys))
	for i, key := range keys {
		name := fmt.Sprintf("#f%d", i)
		value := fmt.Sprintf(":v%d", i)
		names[name] = key
		values[value] = attrs[key]
		if _, ok := keep[key]; ok {
			parts = append(parts, fmt.Sprintf("%s = if_not_exists(%s, %s)", name, name, value))
			continue
		}
		parts = append(parts, name+" = "+value)
	}

	return "SET " + strings.Join(parts, ", "), names, values
}
