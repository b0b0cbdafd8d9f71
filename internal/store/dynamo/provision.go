package dynamo

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// ProvisionIdentityTable creates the identity table with its
// rekognitionFaceId GSI. Creating an existing table is a no-op.
func ProvisionIdentityTable(ctx context.Context, client API, table string) error {
	_, err := client.CreateTable(ctx, &dynamodb.CreateTableInput{
		TableName:   aws.String(table),
		BillingMode: types.BillingModePayPerRequest,
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String("faceId"), KeyType: types.KeyTypeHash},
		},
		AttributeDefinitions: []types.AttributeDefinition{
			{AttributeName: aws.String("faceId"), AttributeType: types.ScalarAttributeTypeS},
			{AttributeName: aws.String("rekognitionFaceId"), AttributeType: types.ScalarAttributeTypeS},
		},
		GlobalSecondaryIndexes: []types.GlobalSecondaryIndex{
			{
				IndexName: aws.String(indexByRekognition),
				KeySchema: []types.KeySchemaElement{
					{AttributeName: aws.String("rekognitionFaceId"), KeyType: types.KeyTypeHash},
				},
				Projection: &types.Projection{ProjectionType: types.ProjectionTypeAll},
			},
		},
	})
	return ignoreExisting(err, table)
}

// ProvisionAttendanceTable creates the attendance table with its date and
// faceId GSIs, both sorted by timestamp. Creating an existing table is a
// no-op.
func ProvisionAttendanceTable(ctx context.Context, client API, table string) error {
	_, err := client.CreateTable(ctx, &dynamodb.CreateTableInput{
		TableName:   aws.String(table),
		BillingMode: types.BillingModePayPerRequest,
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String("attendanceId"), KeyType: types.KeyTypeHash},
		},
		AttributeDefinitions: []types.AttributeDefinition{
			{AttributeName: aws.String("attendanceId"), AttributeType: types.ScalarAttributeTypeS},
			{AttributeName: aws.String("faceId"), AttributeType: types.ScalarAttributeTypeS},
			{AttributeName: aws.String("date"), AttributeType: types.ScalarAttributeTypeS},
			{AttributeName: aws.String("timestamp"), AttributeType: types.ScalarAttributeTypeS},
		},
		GlobalSecondaryIndexes: []types.GlobalSecondaryIndex{
			{
				IndexName: aws.String(indexByFace),
				KeySchema: []types.KeySchemaElement{
					{AttributeName: aws.String("faceId"), KeyType: types.KeyTypeHash},
					{AttributeName: aws.String("timestamp"), KeyType: types.KeyTypeRange},
				},
				Projection: &types.Projection{ProjectionType: types.ProjectionTypeAll},
			},
			{
				IndexName: aws.String(indexByDate),
				KeySchema: []types.KeySchemaElement{
					{AttributeName: aws.String("date"), KeyType: types.KeyTypeHash},
					{AttributeName: aws.String("timestamp"), KeyType: types.KeyTypeRange},
				},
				Projection: &types.Projection{ProjectionType: types.ProjectionTypeAll},
			},
		},
	})
	return ignoreExisting(err, table)
}

func ignoreExisting(err error, table string) error {
	if err == nil {
		return nil
	}
	var inUse *types.ResourceInUseException
	if errors.As(err, &inUse) {
		return nil
	}
	return fmt.Errorf("create table %s: %w", table, err)
}
