package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// fakeStore is a function-field Store double. Tests set only the methods a
// flow touches; an unexpected call fails loudly instead of silently passing.
type fakeStore struct {
	putItem            func(ctx context.Context, tableName string, item interface{}) error
	putItemConditional func(ctx context.Context, tableName string, item interface{}, condition string, values map[string]types.AttributeValue) error
	getItem            func(ctx context.Context, tableName string, key map[string]types.AttributeValue) (map[string]types.AttributeValue, error)
	queryItems         func(ctx context.Context, tableName, keyCondition string, values map[string]types.AttributeValue, names map[string]string, limit int32) ([]map[string]types.AttributeValue, error)
	queryWithOptions   func(ctx context.Context, tableName, keyCondition string, values map[string]types.AttributeValue, names map[string]string, limit int32, latestFirst bool) ([]map[string]types.AttributeValue, error)
	queryWithIndex     func(ctx context.Context, tableName, indexName, keyCondition string, values map[string]types.AttributeValue, names map[string]string, limit int32) ([]map[string]types.AttributeValue, error)
	queryWithFilters   func(ctx context.Context, tableName, keyCondition string, values map[string]types.AttributeValue, names map[string]string, filter string) ([]map[string]types.AttributeValue, error)
	updateItem         func(ctx context.Context, tableName, updateExpression string, key, values map[string]types.AttributeValue, names map[string]string) (map[string]types.AttributeValue, error)
	deleteItem         func(ctx context.Context, tableName string, key map[string]types.AttributeValue) error
	deleteConditional  func(ctx context.Context, tableName string, key map[string]types.AttributeValue, condition string, values map[string]types.AttributeValue, names map[string]string) error
	scanWithFilter     func(ctx context.Context, tableName string, filterFunc func(map[string]types.AttributeValue) bool, excludeFields map[string]string, result interface{}) error
}

var _ Store = (*fakeStore)(nil)

func (f *fakeStore) PutItem(ctx context.Context, tableName string, item interface{}) error {
	if f.putItem == nil {
		return fmt.Errorf("unexpected PutItem on %s", tableName)
	}
	return f.putItem(ctx, tableName, item)
}

func (f *fakeStore) PutItemConditional(ctx context.Context, tableName string, item interface{}, condition string, values map[string]types.AttributeValue) error {
	if f.putItemConditional == nil {
		return fmt.Errorf("unexpected PutItemConditional on %s", tableName)
	}
	return f.putItemConditional(ctx, tableName, item, condition, values)
}

func (f *fakeStore) GetItem(ctx context.Context, tableName string, key map[string]types.AttributeValue) (map[string]types.AttributeValue, error) {
	if f.getItem == nil {
		return nil, fmt.Errorf("unexpected GetItem on %s", tableName)
	}
	return f.getItem(ctx, tableName, key)
}

func (f *fakeStore) QueryItems(ctx context.Context, tableName, keyCondition string, values map[string]types.AttributeValue, names map[string]string, limit int32) ([]map[string]types.AttributeValue, error) {
	if f.queryItems == nil {
		return nil, fmt.Errorf("unexpected QueryItems on %s", tableName)
	}
	return f.queryItems(ctx, tableName, keyCondition, values, names, limit)
}

func (f *fakeStore) QueryItemsWithOptions(ctx context.Context, tableName, keyCondition string, values map[string]types.AttributeValue, names map[string]string, limit int32, latestFirst bool) ([]map[string]types.AttributeValue, error) {
	if f.queryWithOptions == nil {
		return nil, fmt.Errorf("unexpected QueryItemsWithOptions on %s", tableName)
	}
	return f.queryWithOptions(ctx, tableName, keyCondition, values, names, limit, latestFirst)
}

func (f *fakeStore) QueryItemsWithIndex(ctx context.Context, tableName, indexName, keyCondition string, values map[string]types.AttributeValue, names map[string]string, limit int32) ([]map[string]types.AttributeValue, error) {
	if f.queryWithIndex == nil {
		return nil, fmt.Errorf("unexpected QueryItemsWithIndex on %s/%s", tableName, indexName)
	}
	return f.queryWithIndex(ctx, tableName, indexName, keyCondition, values, names, limit)
}

func (f *fakeStore) QueryItemsWithFilters(ctx context.Context, tableName, keyCondition string, values map[string]types.AttributeValue, names map[string]string, filter string) ([]map[string]types.AttributeValue, error) {
	if f.queryWithFilters == nil {
		return nil, fmt.Errorf("unexpected QueryItemsWithFilters on %s", tableName)
	}
	return f.queryWithFilters(ctx, tableName, keyCondition, values, names, filter)
}

func (f *fakeStore) UpdateItem(ctx context.Context, tableName, updateExpression string, key, values map[string]types.AttributeValue, names map[string]string) (map[string]types.AttributeValue, error) {
	if f.updateItem == nil {
		return nil, fmt.Errorf("unexpected UpdateItem on %s", tableName)
	}
	return f.updateItem(ctx, tableName, updateExpression, key, values, names)
}

func (f *fakeStore) DeleteItem(ctx context.Context, tableName string, key map[string]types.AttributeValue) error {
	if f.deleteItem == nil {
		return fmt.Errorf("unexpected DeleteItem on %s", tableName)
	}
	return f.deleteItem(ctx, tableName, key)
}

func (f *fakeStore) DeleteItemConditional(ctx context.Context, tableName string, key map[string]types.AttributeValue, condition string, values map[string]types.AttributeValue, names map[string]string) error {
	if f.deleteConditional == nil {
		return fmt.Errorf("unexpected DeleteItemConditional on %s", tableName)
	}
	return f.deleteConditional(ctx, tableName, key, condition, values, names)
}

func (f *fakeStore) ScanWithFilter(ctx context.Context, tableName string, filterFunc func(map[string]types.AttributeValue) bool, excludeFields map[string]string, result interface{}) error {
	if f.scanWithFilter == nil {
		return fmt.Errorf("unexpected ScanWithFilter on %s", tableName)
	}
	return f.scanWithFilter(ctx, tableName, filterFunc, excludeFields, result)
}

// conditionFailed fabricates the error shape a failed ConditionExpression
// produces, wrapped the way DynamoService wraps it.
func conditionFailed() error {
	return fmt.Errorf("operation failed: %w", &types.ConditionalCheckFailedException{})
}

// marshalOne is a test helper for building stored-item fixtures
func marshalOne(t *testing.T, item interface{}) map[string]types.AttributeValue {
	t.Helper()
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		t.Fatalf("failed to marshal fixture: %v", err)
	}
	return av
}
