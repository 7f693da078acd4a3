package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/Simplici0/movequote/internal/pricing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const DefaultChargesTable = "job_charges"

// DynamoDBAPI is the subset of *dynamodb.Client the charge repository calls.
type DynamoDBAPI interface {
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Scan(ctx context.Context, in *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

type chargeItem struct {
	JobID     string `dynamodbav:"job_id"`
	ItemsJSON string `dynamodbav:"items_json"`
	Total     string `dynamodbav:"total"`
	ItemCount int    `dynamodbav:"item_count"`
	CreatedAt string `dynamodbav:"created_at"`
	UpdatedAt string `dynamodbav:"updated_at"`
}

// DynamoCharges persists charge sets in DynamoDB.
//
// Table requirements:
//   - PK: job_id (string)
type DynamoCharges struct {
	ddb       DynamoDBAPI
	tableName string
	now       func() time.Time
}

var _ ChargeRepository = (*DynamoCharges)(nil)

func NewDynamoCharges(ddb DynamoDBAPI, tableName string) *DynamoCharges {
	if tableName == "" {
		tableName = DefaultChargesTable
	}
	return &DynamoCharges{ddb: ddb, tableName: tableName, now: time.Now}
}

func (r *DynamoCharges) Save(ctx context.Context, data pricing.JobChargeData) error {
	if data.JobID == "" {
		return errors.New("save charges: empty job id")
	}
	itemsJSON, err := encodeItems(data.Items)
	if err != nil {
		return err
	}

	now := formatTime(r.now())
	createdAt := now
	existing, err := r.get(ctx, data.JobID)
	if err != nil {
		return err
	}
	if existing != nil && existing.CreatedAt != "" {
		createdAt = existing.CreatedAt
	}

	av, err := attributevalue.MarshalMap(chargeItem{
		JobID:     data.JobID,
		ItemsJSON: itemsJSON,
		Total:     floatToString(data.Total()),
		ItemCount: len(data.Items),
		CreatedAt: createdAt,
		UpdatedAt: now,
	})
	if err != nil {
		return fmt.Errorf("marshal charges %s: %w", data.JobID, err)
	}

	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	})
	if err != nil {
		return fmt.Errorf("put charges %s: %w", data.JobID, err)
	}
	return nil
}

func (r *DynamoCharges) Get(ctx context.Context, jobID string) (pricing.JobChargeData, error) {
	it, err := r.get(ctx, jobID)
	if err != nil {
		return pricing.JobChargeData{}, err
	}
	if it == nil {
		return pricing.JobChargeData{}, ErrNotFound
	}
	items, err := decodeItems(it.ItemsJSON)
	if err != nil {
		return pricing.JobChargeData{}, err
	}
	return pricing.JobChargeData{JobID: it.JobID, Items: items}, nil
}

func (r *DynamoCharges) List(ctx context.Context) ([]ChargeSummary, error) {
	out := []ChargeSummary{}
	var startKey map[string]types.AttributeValue
	for {
		page, err := r.ddb.Scan(ctx, &dynamodb.ScanInput{
			TableName:         aws.String(r.tableName),
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, fmt.Errorf("scan charges: %w", err)
		}
		var items []chargeItem
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &items); err != nil {
			return nil, fmt.Errorf("unmarshal charge list: %w", err)
		}
		for _, it := range items {
			total, _ := strconv.ParseFloat(it.Total, 64)
			out = append(out, ChargeSummary{
				JobID:     it.JobID,
				Total:     total,
				Items:     it.ItemCount,
				CreatedAt: parseTime(it.CreatedAt),
				UpdatedAt: parseTime(it.UpdatedAt),
			})
		}
		if len(page.LastEvaluatedKey) == 0 {
			break
		}
		startKey = page.LastEvaluatedKey
	}

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].UpdatedAt.After(out[j].UpdatedAt)
		}
		return out[i].JobID < out[j].JobID
	})
	return out, nil
}

func (r *DynamoCharges) get(ctx context.Context, jobID string) (*chargeItem, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"job_id": &types.AttributeValueMemberS{Value: jobID},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("get charges %s: %w", jobID, err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}

	var it chargeItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return nil, fmt.Errorf("unmarshal charges %s: %w", jobID, err)
	}
	return &it, nil
}

func floatToString(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
