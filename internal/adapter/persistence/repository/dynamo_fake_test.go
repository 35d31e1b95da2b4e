package repository

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// fakeDynamo understands the handful of expressions the repositories emit.
type fakeDynamo struct {
	mu   sync.Mutex
	keys map[string]string
	// ranges maps an index name to its range key attribute.
	ranges map[string]string
	tables map[string]map[string]map[string]types.AttributeValue
	// pageSize > 0 splits Query and Scan answers into pages.
	pageSize int
	err      error
}

func newFakeDynamo(keys map[string]string) *fakeDynamo {
	return &fakeDynamo{
		keys: keys,
		ranges: map[string]string{
			intentsExpiryIndex:  "expires_at",
			purchasesStateIndex: "updated_at",
			invoicesStatusIndex: "updated_at",
		},
		tables: map[string]map[string]map[string]types.AttributeValue{},
	}
}

func sval(av types.AttributeValue) string {
	if s, ok := av.(*types.AttributeValueMemberS); ok {
		return s.Value
	}
	return ""
}

func (f *fakeDynamo) table(name string) map[string]map[string]types.AttributeValue {
	t, ok := f.tables[name]
	if !ok {
		t = map[string]map[string]types.AttributeValue{}
		f.tables[name] = t
	}
	return t
}

func (f *fakeDynamo) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	t := f.table(aws.ToString(in.TableName))
	pk := sval(in.Item[f.keys[aws.ToString(in.TableName)]])
	existing, exists := t[pk]
	switch aws.ToString(in.ConditionExpression) {
	case "":
	case "attribute_not_exists(#pk)":
		if exists {
			return nil, &types.ConditionalCheckFailedException{Message: aws.String("exists")}
		}
	case "#attr = :expected":
		attr := in.ExpressionAttributeNames["#attr"]
		if !exists || sval(existing[attr]) != sval(in.ExpressionAttributeValues[":expected"]) {
			return nil, &types.ConditionalCheckFailedException{Message: aws.String("mismatch")}
		}
	default:
		return nil, errors.New("unsupported condition " + aws.ToString(in.ConditionExpression))
	}
	t[pk] = in.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeDynamo) GetItem(_ context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	var pk string
	for _, v := range in.Key {
		pk = sval(v)
	}
	return &dynamodb.GetItemOutput{Item: f.table(aws.ToString(in.TableName))[pk]}, nil
}

func (f *fakeDynamo) Query(_ context.Context, in *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	attr := in.ExpressionAttributeNames["#k"]
	want := sval(in.ExpressionAttributeValues[":v"])
	rangeAttr := f.ranges[aws.ToString(in.IndexName)]
	upTo, bounded := in.ExpressionAttributeValues[":upto"]
	var matched []map[string]types.AttributeValue
	for _, item := range f.sorted(aws.ToString(in.TableName)) {
		if sval(item[attr]) != want {
			continue
		}
		if rangeAttr != "" {
			// Items without the range key are not projected into the index.
			rv := sval(item[rangeAttr])
			if rv == "" || (bounded && rv > sval(upTo)) {
				continue
			}
		}
		matched = append(matched, item)
	}
	if rangeAttr != "" {
		sort.SliceStable(matched, func(i, j int) bool { return sval(matched[i][rangeAttr]) < sval(matched[j][rangeAttr]) })
	}
	items, last := f.page(aws.ToString(in.TableName), matched, in.ExclusiveStartKey, aws.ToInt32(in.Limit))
	return &dynamodb.QueryOutput{Items: items, LastEvaluatedKey: last}, nil
}

func (f *fakeDynamo) Scan(_ context.Context, in *dynamodb.ScanInput, _ ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	items, last := f.page(aws.ToString(in.TableName), f.sorted(aws.ToString(in.TableName)), in.ExclusiveStartKey, 0)
	return &dynamodb.ScanOutput{Items: items, LastEvaluatedKey: last}, nil
}

func (f *fakeDynamo) sorted(table string) []map[string]types.AttributeValue {
	t := f.table(table)
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]map[string]types.AttributeValue, 0, len(keys))
	for _, k := range keys {
		out = append(out, t[k])
	}
	return out
}

func (f *fakeDynamo) page(table string, items []map[string]types.AttributeValue, start map[string]types.AttributeValue, limit int32) ([]map[string]types.AttributeValue, map[string]types.AttributeValue) {
	pkAttr := f.keys[table]
	if len(start) > 0 {
		after := sval(start[pkAttr])
		for i, it := range items {
			if sval(it[pkAttr]) == after {
				items = items[i+1:]
				break
			}
		}
	}
	size := f.pageSize
	if limit > 0 && (size == 0 || int(limit) < size) {
		size = int(limit)
	}
	if size == 0 || len(items) <= size {
		return items, nil
	}
	page := items[:size]
	return page, map[string]types.AttributeValue{pkAttr: page[size-1][pkAttr]}
}
