package repository

import (
	"context"
	"errors"
	"time"

	"checkout_service/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/shopspring/decimal"
)

// dynamoAPI is the part of *dynamodb.Client the repositories call.
type dynamoAPI interface {
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	Query(ctx context.Context, in *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	Scan(ctx context.Context, in *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

var _ dynamoAPI = (*dynamodb.Client)(nil)

func strAttr(v string) types.AttributeValue {
	return &types.AttributeValueMemberS{Value: v}
}

// put writes item, mapping a lost condition onto interfaces.ErrConditionFailed.
func put(ctx context.Context, ddb dynamoAPI, table string, item any, condition string, names map[string]string, values map[string]types.AttributeValue) error {
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return err
	}
	in := &dynamodb.PutItemInput{
		TableName: aws.String(table),
		Item:      av,
	}
	if condition != "" {
		in.ConditionExpression = aws.String(condition)
		in.ExpressionAttributeNames = names
		if len(values) > 0 {
			in.ExpressionAttributeValues = values
		}
	}
	if _, err := ddb.PutItem(ctx, in); err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return interfaces.ErrConditionFailed
		}
		return err
	}
	return nil
}

// insert puts item unless keyAttr already exists.
func insert(ctx context.Context, ddb dynamoAPI, table string, item any, keyAttr string) error {
	return put(ctx, ddb, table, item, "attribute_not_exists(#pk)", map[string]string{"#pk": keyAttr}, nil)
}

// replaceIf overwrites item while attr still holds expected.
func replaceIf(ctx context.Context, ddb dynamoAPI, table string, item any, attr, expected string) error {
	return put(ctx, ddb, table, item, "#attr = :expected",
		map[string]string{"#attr": attr},
		map[string]types.AttributeValue{":expected": strAttr(expected)})
}

// getItem returns found=false when no item exists under key.
func getItem[T any](ctx context.Context, ddb dynamoAPI, table, keyAttr, key string) (T, bool, error) {
	var it T
	out, err := ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(table),
		Key:            map[string]types.AttributeValue{keyAttr: strAttr(key)},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return it, false, err
	}
	if len(out.Item) == 0 {
		return it, false, nil
	}
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return it, false, err
	}
	return it, true, nil
}

// indexQuery selects the items of a GSI whose hash key equals value. Items
// come back in ascending range key order; upTo bounds the range key
// inclusively when set.
type indexQuery struct {
	index     string
	keyAttr   string
	value     string
	rangeAttr string
	upTo      string
}

// queryIndex pages through q until limit items (0 = all).
func queryIndex[T any](ctx context.Context, ddb dynamoAPI, table string, q indexQuery, limit int32) ([]T, error) {
	cond := "#k = :v"
	names := map[string]string{"#k": q.keyAttr}
	values := map[string]types.AttributeValue{":v": strAttr(q.value)}
	if q.rangeAttr != "" && q.upTo != "" {
		cond += " AND #r <= :upto"
		names["#r"] = q.rangeAttr
		values[":upto"] = strAttr(q.upTo)
	}
	in := &dynamodb.QueryInput{
		TableName:                 aws.String(table),
		IndexName:                 aws.String(q.index),
		KeyConditionExpression:    aws.String(cond),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
		ScanIndexForward:          aws.Bool(true),
	}
	var items []T
	for {
		if limit > 0 {
			in.Limit = aws.Int32(limit - int32(len(items)))
		}
		out, err := ddb.Query(ctx, in)
		if err != nil {
			return nil, err
		}
		for _, raw := range out.Items {
			var it T
			if err := attributevalue.UnmarshalMap(raw, &it); err != nil {
				return nil, err
			}
			items = append(items, it)
		}
		if len(out.LastEvaluatedKey) == 0 || (limit > 0 && int32(len(items)) >= limit) {
			return items, nil
		}
		in.ExclusiveStartKey = out.LastEvaluatedKey
	}
}

// scanAll streams every item of table to fn.
func scanAll[T any](ctx context.Context, ddb dynamoAPI, table string, fn func(T) error) error {
	in := &dynamodb.ScanInput{TableName: aws.String(table)}
	for {
		out, err := ddb.Scan(ctx, in)
		if err != nil {
			return err
		}
		for _, raw := range out.Items {
			var it T
			if err := attributevalue.UnmarshalMap(raw, &it); err != nil {
				return err
			}
			if err := fn(it); err != nil {
				return err
			}
		}
		if len(out.LastEvaluatedKey) == 0 {
			return nil
		}
		in.ExclusiveStartKey = out.LastEvaluatedKey
	}
}

// sortableTime has a fixed width so stored timestamps order as strings;
// index range keys rely on it.
const sortableTime = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(sortableTime)
}

func parseTime(v string) time.Time {
	t, _ := time.Parse(time.RFC3339Nano, v)
	return t
}

func formatTimePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return formatTime(*t)
}

func parseTimePtr(v string) *time.Time {
	if v == "" {
		return nil
	}
	t := parseTime(v)
	if t.IsZero() {
		return nil
	}
	return &t
}

func parseDecimal(v string) decimal.Decimal {
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero
	}
	return d
}
