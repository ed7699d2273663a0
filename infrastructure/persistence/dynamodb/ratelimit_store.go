package dynamodb

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"mangalearn-api/application/ports"
)

// RateLimitStore persists rate limit windows, one document per
// (strategy, identifier) key. Unlike CacheStore it surfaces errors; the
// limiter owns the fail-open decision.
type RateLimitStore struct {
	client    *dynamodb.Client
	tableName string
	logger    *zap.Logger
	now       func() time.Time
}

// rateLimitDocument is how a rate limit record is stored in DynamoDB
type rateLimitDocument struct {
	Key       string `dynamodbav:"PK"`
	Count     int    `dynamodbav:"RequestCount"`
	ResetTime int64  `dynamodbav:"ResetTime"`
	CreatedAt int64  `dynamodbav:"CreatedAt"`
	TTL       int64  `dynamodbav:"TTL"` // native DynamoDB TTL, epoch seconds
}

// NewRateLimitStore creates a DynamoDB rate limit store
func NewRateLimitStore(client *dynamodb.Client, tableName string, logger *zap.Logger) *RateLimitStore {
	return &RateLimitStore{
		client:    client,
		tableName: tableName,
		logger:    logger,
		now:       time.Now,
	}
}

// Get returns the record at key, or nil when absent
func (s *RateLimitStore) Get(ctx context.Context, key string) (*ports.RateLimitRecord, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: key},
		},
	})
	if err != nil {
		return nil, storeError("rate limit get", err)
	}
	if out.Item == nil {
		return nil, nil
	}

	var doc rateLimitDocument
	if err := attributevalue.UnmarshalMap(out.Item, &doc); err != nil {
		return nil, storeError("rate limit unmarshal", err)
	}

	return &ports.RateLimitRecord{
		Count:     doc.Count,
		ResetTime: doc.ResetTime,
		CreatedAt: doc.CreatedAt,
	}, nil
}

// Put overwrites the record at key
func (s *RateLimitStore) Put(ctx context.Context, key string, record ports.RateLimitRecord) error {
	doc := rateLimitDocument{
		Key:       key,
		Count:     record.Count,
		ResetTime: record.ResetTime,
		CreatedAt: record.CreatedAt,
		TTL:       record.ResetTime/1000 + int64(nativeTTLSlack.Seconds()),
	}

	item, err := attributevalue.MarshalMap(doc)
	if err != nil {
		return storeError("rate limit marshal", err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      item,
	})
	if err != nil {
		return storeError("rate limit put", err)
	}
	return nil
}

// Delete removes the record at key regardless of window state
func (s *RateLimitStore) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: key},
		},
	})
	if err != nil {
		return storeError("rate limit delete", err)
	}
	return nil
}

// DeleteExpired bulk-removes every record whose window has lapsed
func (s *RateLimitStore) DeleteExpired(ctx context.Context) (int, error) {
	var keys []string
	var startKey map[string]types.AttributeValue

	for {
		out, err := s.client.Scan(ctx, &dynamodb.ScanInput{
			TableName:        aws.String(s.tableName),
			FilterExpression: aws.String("ResetTime < :now"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":now": &types.AttributeValueMemberN{Value: formatMillis(s.now())},
			},
			ProjectionExpression: aws.String("PK"),
			ExclusiveStartKey:    startKey,
		})
		if err != nil {
			return 0, storeError("rate limit cleanup scan", err)
		}

		for _, item := range out.Items {
			if pk, ok := item["PK"].(*types.AttributeValueMemberS); ok {
				keys = append(keys, pk.Value)
			}
		}

		if out.LastEvaluatedKey == nil {
			break
		}
		startKey = out.LastEvaluatedKey
	}

	removed, err := batchDelete(ctx, s.client, s.tableName, keys)
	if err != nil {
		return removed, err
	}

	s.logger.Info("rate limit cleanup completed", zap.Int("removed", removed))
	return removed, nil
}
