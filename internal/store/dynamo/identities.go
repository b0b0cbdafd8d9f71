package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/kozaktomas/face-attendance/internal/store"
)

// IdentityRepository implements store.IdentityStore on a DynamoDB table
// keyed by faceId, with a GSI on rekognitionFaceId for verification lookups.
type IdentityRepository struct {
	client API
	table  string
}

var _ store.IdentityStore = &IdentityRepository{}

// NewIdentityRepository creates an identity repository for the given table.
func NewIdentityRepository(client API, table string) *IdentityRepository {
	return &IdentityRepository{client: client, table: table}
}

// Put inserts or overwrites an identity by face id.
func (r *IdentityRepository) Put(ctx context.Context, identity *store.Identity) error {
	item, err := attributevalue.MarshalMap(identity)
	if err != nil {
		return fmt.Errorf("marshal identity: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.table),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("put identity %s: %w", identity.FaceID, err)
	}
	return nil
}

// Get retrieves an identity by face id.
func (r *IdentityRepository) Get(ctx context.Context, faceID string) (*store.Identity, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.table),
		Key: map[string]types.AttributeValue{
			"faceId": &types.AttributeValueMemberS{Value: faceID},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("get identity %s: %w", faceID, err)
	}
	if out.Item == nil {
		return nil, store.ErrNotFound
	}
	var identity store.Identity
	if err := attributevalue.UnmarshalMap(out.Item, &identity); err != nil {
		return nil, fmt.Errorf("unmarshal identity: %w", err)
	}
	return &identity, nil
}

// GetByRekognitionFaceID finds the identity enrolled under the given
// recognition face id using the rekognitionFaceId GSI.
func (r *IdentityRepository) GetByRekognitionFaceID(ctx context.Context, rekognitionFaceID string) (*store.Identity, error) {
	keyCond := expression.KeyEqual(expression.Key("rekognitionFaceId"), expression.Value(rekognitionFaceID))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, fmt.Errorf("build key condition: %w", err)
	}

	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.table),
		IndexName:                 aws.String(indexByRekognition),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		Limit:                     aws.Int32(1),
	})
	if err != nil {
		return nil, fmt.Errorf("query identity by rekognition face id: %w", err)
	}
	if len(out.Items) == 0 {
		return nil, store.ErrNotFound
	}
	var identity store.Identity
	if err := attributevalue.UnmarshalMap(out.Items[0], &identity); err != nil {
		return nil, fmt.Errorf("unmarshal identity: %w", err)
	}
	return &identity, nil
}

// List returns all identities in the table.
func (r *IdentityRepository) List(ctx context.Context) ([]store.Identity, error) {
	return r.scan(ctx, nil)
}

// ListUnindexed returns identities whose enrollment never succeeded.
func (r *IdentityRepository) ListUnindexed(ctx context.Context) ([]store.Identity, error) {
	filter := expression.Name("status").NotEqual(expression.Value(store.StatusIndexed))
	return r.scan(ctx, &filter)
}

func (r *IdentityRepository) scan(ctx context.Context, filter *expression.ConditionBuilder) ([]store.Identity, error) {
	input := &dynamodb.ScanInput{TableName: aws.String(r.table)}
	if filter != nil {
		expr, err := expression.NewBuilder().WithFilter(*filter).Build()
		if err != nil {
			return nil, fmt.Errorf("build filter: %w", err)
		}
		input.FilterExpression = expr.Filter()
		input.ExpressionAttributeNames = expr.Names()
		input.ExpressionAttributeValues = expr.Values()
	}

	var identities []store.Identity
	for {
		out, err := r.client.Scan(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("scan identities: %w", err)
		}
		var page []store.Identity
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return nil, fmt.Errorf("unmarshal identities: %w", err)
		}
		identities = append(identities, page...)
		if out.LastEvaluatedKey == nil {
			break
		}
		input.ExclusiveStartKey = out.LastEvaluatedKey
	}
	return identities, nil
}

// Delete removes an identity. Deleting a missing identity is a no-op.
func (r *IdentityRepository) Delete(ctx context.Context, faceID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.table),
		Key: map[string]types.AttributeValue{
			"faceId": &types.AttributeValueMemberS{Value: faceID},
		},
	})
	if err != nil {
		return fmt.Errorf("delete identity %s: %w", faceID, err)
	}
	return nil
}
