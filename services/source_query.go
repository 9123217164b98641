package services

import (
	"context"
	"fmt"

	"cove_server/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// querySourceRecent fetches the most recent records of one kind in one
// cove through the source-createdAt-index GSI, newest first. limit == 0
// means no cap.
func querySourceRecent(ctx context.Context, ds *DynamoService, sourceKey string, limit int32) ([]map[string]types.AttributeValue, error) {
	keyCond := expression.Key("sourceKey").Equal(expression.Value(sourceKey))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build source query: %w", err)
	}

	tableName := models.CoveMemoriesTable
	indexName := models.SourceCreatedAtIndex
	input := &dynamodb.QueryInput{
		TableName:                 &tableName,
		IndexName:                 &indexName,
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ScanIndexForward:          aws.Bool(false),
	}
	if limit > 0 {
		input.Limit = &limit
	}

	return ds.QueryItemsWithQueryInput(ctx, input)
}
