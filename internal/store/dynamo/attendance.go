package dynamo

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/kozaktomas/face-attendance/internal/store"
)

// AttendanceRepository implements store.AttendanceLog on a DynamoDB table
// keyed by attendanceId, with GSIs on (date, timestamp) and
// (faceId, timestamp). Date queries use the date index instead of a full
// table scan so the cost is bounded by one day's records.
type AttendanceRepository struct {
	client API
	table  string
}

var _ store.AttendanceLog = &AttendanceRepository{}

// NewAttendanceRepository creates an attendance repository for the given table.
func NewAttendanceRepository(client API, table string) *AttendanceRepository {
	return &AttendanceRepository{client: client, table: table}
}

// Put appends one record. The conditional write keeps the log append-only:
// an existing record is never overwritten. A retried write that produced
// the same attendance id is treated as already applied.
func (r *AttendanceRepository) Put(ctx context.Context, record *store.AttendanceRecord) error {
	item, err := attributevalue.MarshalMap(record)
	if err != nil {
		return fmt.Errorf("marshal attendance record: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.table),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(attendanceId)"),
	})
	if err != nil {
		var conditionFailed *types.ConditionalCheckFailedException
		if errors.As(err, &conditionFailed) {
			return nil
		}
		return fmt.Errorf("put attendance record %s: %w", record.AttendanceID, err)
	}
	return nil
}

// QueryByDate returns one day's records via the date index, newest first.
func (r *AttendanceRepository) QueryByDate(ctx context.Context, date string, limit int) ([]store.AttendanceRecord, error) {
	return r.query(ctx, indexByDate, "date", date, limit)
}

// QueryByFace returns one identity's records via the face index, newest first.
func (r *AttendanceRepository) QueryByFace(ctx context.Context, faceID string, limit int) ([]store.AttendanceRecord, error) {
	return r.query(ctx, indexByFace, "faceId", faceID, limit)
}

func (r *AttendanceRepository) query(ctx context.Context, index, keyName, keyValue string, limit int) ([]store.AttendanceRecord, error) {
	keyCond := expression.KeyEqual(expression.Key(keyName), expression.Value(keyValue))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, fmt.Errorf("build key condition: %w", err)
	}

	input := &dynamodb.QueryInput{
		TableName:                 aws.String(r.table),
		IndexName:                 aws.String(index),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		// timestamp is the index sort key, so descending pages arrive
		// newest first already.
		ScanIndexForward: aws.Bool(false),
	}

	var records []store.AttendanceRecord
	for {
		out, err := r.client.Query(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("query attendance by %s: %w", keyName, err)
		}
		var page []store.AttendanceRecord
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return nil, fmt.Errorf("unmarshal attendance records: %w", err)
		}
		records = append(records, page...)
		if limit > 0 && len(records) >= limit {
			records = records[:limit]
			break
		}
		if out.LastEvaluatedKey == nil {
			break
		}
		input.ExclusiveStartKey = out.LastEvaluatedKey
	}

	store.SortNewestFirst(records)
	return records, nil
}

// Scan reads the whole log, newest first. Prefer the date or face queries;
// this exists for unfiltered listings and admin tooling.
func (r *AttendanceRepository) Scan(ctx context.Context, limit int) ([]store.AttendanceRecord, error) {
	input := &dynamodb.ScanInput{TableName: aws.String(r.table)}

	var records []store.AttendanceRecord
	for {
		out, err := r.client.Scan(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("scan attendance records: %w", err)
		}
		var page []store.AttendanceRecord
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return nil, fmt.Errorf("unmarshal attendance records: %w", err)
		}
		records = append(records, page...)
		if out.LastEvaluatedKey == nil {
			break
		}
		input.ExclusiveStartKey = out.LastEvaluatedKey
	}

	store.SortNewestFirst(records)
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}
