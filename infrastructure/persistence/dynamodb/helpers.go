package dynamodb

import (
	"context"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	apperrors "mangalearn-api/pkg/errors"
)

// maxBatchRetries bounds re-submission of unprocessed batch write items
const maxBatchRetries = 3

// batchWriter is the slice of the DynamoDB client that batchDelete needs
type batchWriter interface {
	BatchWriteItem(ctx context.Context, input *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error)
}

func storeError(operation string, err error) error {
	return apperrors.NewDatabaseError(operation, err)
}

func formatMillis(t time.Time) string {
	return strconv.FormatInt(t.UnixMilli(), 10)
}

// batchDelete removes the given keys in chunks of the DynamoDB batch
// write limit, returning how many deletes actually went through. Items
// DynamoDB reports back as unprocessed are re-submitted; whatever is
// still unprocessed after maxBatchRetries is left uncounted.
func batchDelete(ctx context.Context, client batchWriter, tableName string, keys []string) (int, error) {
	removed := 0

	for start := 0; start < len(keys); start += batchDeleteSize {
		end := start + batchDeleteSize
		if end > len(keys) {
			end = len(keys)
		}

		requests := make([]types.WriteRequest, 0, end-start)
		for _, key := range keys[start:end] {
			requests = append(requests, types.WriteRequest{
				DeleteRequest: &types.DeleteRequest{
					Key: map[string]types.AttributeValue{
						"PK": &types.AttributeValueMemberS{Value: key},
					},
				},
			})
		}

		for attempt := 0; len(requests) > 0 && attempt <= maxBatchRetries; attempt++ {
			out, err := client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
				RequestItems: map[string][]types.WriteRequest{
					tableName: requests,
				},
			})
			if err != nil {
				return removed, storeError("batch delete", err)
			}

			unprocessed := out.UnprocessedItems[tableName]
			removed += len(requests) - len(unprocessed)
			requests = unprocessed
		}
	}

	return removed, nil
}
