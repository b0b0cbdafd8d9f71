package dynamo

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// fakeAPI is an in-memory stand-in for the DynamoDB client. It stores raw
// attribute maps keyed by the string value of the table's partition key and
// records the inputs it received so tests can assert on index usage.
type fakeAPI struct {
	keyAttr string
	items   map[string]map[string]types.AttributeValue

	lastPut    *dynamodb.PutItemInput
	lastQuery  *dynamodb.QueryInput
	lastScan   *dynamodb.ScanInput
	lastCreate *dynamodb.CreateTableInput

	putErr    error
	getErr    error
	queryErr  error
	scanErr   error
	deleteErr error
	createErr error

	// queryResult is returned verbatim from Query since the fake does not
	// evaluate key condition expressions.
	queryResult []map[string]types.AttributeValue
}

func newFakeAPI(keyAttr string) *fakeAPI {
	return &fakeAPI{
		keyAttr: keyAttr,
		items:   make(map[string]map[string]types.AttributeValue),
	}
}

func keyString(item map[string]types.AttributeValue, attr string) string {
	if v, ok := item[attr].(*types.AttributeValueMemberS); ok {
		return v.Value
	}
	return ""
}

func (f *fakeAPI) PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	f.lastPut = params
	key := keyString(params.Item, f.keyAttr)
	if params.ConditionExpression != nil {
		if _, exists := f.items[key]; exists {
			return nil, &types.ConditionalCheckFailedException{}
		}
	}
	f.items[key] = params.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeAPI) GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	key := keyString(params.Key, f.keyAttr)
	item, ok := f.items[key]
	if !ok {
		return &dynamodb.GetItemOutput{}, nil
	}
	return &dynamodb.GetItemOutput{Item: item}, nil
}

func (f *fakeAPI) Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	f.lastQuery = params
	return &dynamodb.QueryOutput{Items: f.queryResult}, nil
}

func (f *fakeAPI) Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	if f.scanErr != nil {
		return nil, f.scanErr
	}
	f.lastScan = params
	var items []map[string]types.AttributeValue
	for _, item := range f.items {
		items = append(items, item)
	}
	return &dynamodb.ScanOutput{Items: items}, nil
}

func (f *fakeAPI) DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	if f.deleteErr != nil {
		return nil, f.deleteErr
	}
	delete(f.items, keyString(params.Key, f.keyAttr))
	return &dynamodb.DeleteItemOutput{}, nil
}

func (f *fakeAPI) CreateTable(ctx context.Context, params *dynamodb.CreateTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.lastCreate = params
	return &dynamodb.CreateTableOutput{}, nil
}
