// Package dynamodb implements the durable store tier on DynamoDB: one
// document per cache key and one per rate-limit window.
package dynamodb

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"mangalearn-api/application/ports"
)

// DynamoDB limits batch writes to 25 items.
const batchDeleteSize = 25

// nativeTTLSlack keeps a document physically present for an hour past its
// logical expiry so diagnostics can still count it before DynamoDB's own
// TTL reaper removes it.
const nativeTTLSlack = time.Hour

// CacheStore persists cache entries, one document per key. It never
// propagates I/O failures on the read/write path: failed reads behave as
// misses and failed writes report false, with the error logged, so the
// rest of the system sees a store that is sometimes empty but never broken.
type CacheStore struct {
	client    *dynamodb.Client
	tableName string
	logger    *zap.Logger
	now       func() time.Time
}

// cacheDocument is how a cache entry is stored in DynamoDB
type cacheDocument struct {
	Key        string `dynamodbav:"PK"`
	Payload    string `dynamodbav:"Payload"`
	FetchedAt  int64  `dynamodbav:"FetchedAt"`
	ExpiresAt  int64  `dynamodbav:"ExpiresAt"`
	TTLSeconds int    `dynamodbav:"TTLSeconds"`
	TTL        int64  `dynamodbav:"TTL"` // native DynamoDB TTL, epoch seconds
}

// NewCacheStore creates a DynamoDB cache store
func NewCacheStore(client *dynamodb.Client, tableName string, logger *zap.Logger) *CacheStore {
	return &CacheStore{
		client:    client,
		tableName: tableName,
		logger:    logger,
		now:       time.Now,
	}
}

// Read returns the entry at key, or absent on a miss, an expired entry, or
// any underlying failure
func (s *CacheStore) Read(ctx context.Context, key string) (ports.CacheEntry, bool) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: key},
		},
	})
	if err != nil {
		s.logger.Error("cache store read failed", zap.String("key", key), zap.Error(err))
		return ports.CacheEntry{}, false
	}
	if out.Item == nil {
		return ports.CacheEntry{}, false
	}

	var doc cacheDocument
	if err := attributevalue.UnmarshalMap(out.Item, &doc); err != nil {
		s.logger.Error("cache store unmarshal failed", zap.String("key", key), zap.Error(err))
		return ports.CacheEntry{}, false
	}

	entry := ports.CacheEntry{
		Key:        doc.Key,
		Payload:    json.RawMessage(doc.Payload),
		FetchedAt:  doc.FetchedAt,
		ExpiresAt:  doc.ExpiresAt,
		TTLSeconds: doc.TTLSeconds,
	}

	// Stale data is never served from this tier; the row stays until swept.
	if entry.Expired(s.now()) {
		return ports.CacheEntry{}, false
	}

	return entry, true
}

// Write overwrites the entry at key. Returns false on failure.
func (s *CacheStore) Write(ctx context.Context, key string, payload json.RawMessage, ttlSeconds int) bool {
	now := s.now()
	entry := ports.NewCacheEntry(key, payload, ttlSeconds, now)

	doc := cacheDocument{
		Key:        entry.Key,
		Payload:    string(entry.Payload),
		FetchedAt:  entry.FetchedAt,
		ExpiresAt:  entry.ExpiresAt,
		TTLSeconds: entry.TTLSeconds,
		TTL:        now.Add(time.Duration(ttlSeconds)*time.Second + nativeTTLSlack).Unix(),
	}

	item, err := attributevalue.MarshalMap(doc)
	if err != nil {
		s.logger.Error("cache store marshal failed", zap.String("key", key), zap.Error(err))
		return false
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      item,
	})
	if err != nil {
		s.logger.Error("cache store write failed", zap.String("key", key), zap.Error(err))
		return false
	}

	return true
}

// Stats scans all cache documents and buckets them by the key's leading
// segment before the first colon
func (s *CacheStore) Stats(ctx context.Context) (ports.CacheStats, error) {
	stats := ports.CacheStats{CountsByType: make(map[string]int)}
	now := s.now()

	var startKey map[string]types.AttributeValue
	for {
		out, err := s.client.Scan(ctx, &dynamodb.ScanInput{
			TableName:         aws.String(s.tableName),
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return ports.CacheStats{}, storeError("stats scan", err)
		}

		for _, item := range out.Items {
			var doc cacheDocument
			if err := attributevalue.UnmarshalMap(item, &doc); err != nil {
				continue
			}

			stats.TotalEntries++
			if now.UnixMilli() > doc.ExpiresAt {
				stats.ExpiredEntries++
			} else {
				stats.ActiveEntries++
			}

			prefix := doc.Key
			if idx := strings.Index(prefix, ":"); idx != -1 {
				prefix = prefix[:idx]
			}
			stats.CountsByType[prefix]++
		}

		if out.LastEvaluatedKey == nil {
			break
		}
		startKey = out.LastEvaluatedKey
	}

	return stats, nil
}

// SweepExpired deletes all expired cache documents and returns how many
// were removed. Best-effort; safe to run alongside reads and writes.
func (s *CacheStore) SweepExpired(ctx context.Context) (int, error) {
	keys, err := s.expiredKeys(ctx)
	if err != nil {
		return 0, err
	}

	removed, err := batchDelete(ctx, s.client, s.tableName, keys)
	if err != nil {
		return removed, err
	}

	s.logger.Info("cache sweep completed", zap.Int("removed", removed))
	return removed, nil
}

func (s *CacheStore) expiredKeys(ctx context.Context) ([]string, error) {
	var keys []string
	var startKey map[string]types.AttributeValue

	for {
		out, err := s.client.Scan(ctx, &dynamodb.ScanInput{
			TableName:        aws.String(s.tableName),
			FilterExpression: aws.String("ExpiresAt < :now"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":now": &types.AttributeValueMemberN{Value: formatMillis(s.now())},
			},
			ProjectionExpression: aws.String("PK"),
			ExclusiveStartKey:    startKey,
		})
		if err != nil {
			return nil, storeError("sweep scan", err)
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

	return keys, nil
}
