package services

import (
	"context"
	"fmt"
	"log"

	"cove_server/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// ReactionService is the generic "toggle my reaction to X" engine, shared
// by quote upvotes and story likes. The per-(target, user) record is the
// source of truth; the counter attribute on the target is a cache that is
// only ever mutated in the same atomic transaction as the record, so the
// two can never be observed out of step.
type ReactionService struct {
	Dynamo *DynamoService
}

// HasReacted reports whether a reaction record exists for the pair
func (s *ReactionService) HasReacted(ctx context.Context, coveID, targetSK, userID string) (bool, error) {
	key := map[string]types.AttributeValue{
		"coveId": &types.AttributeValueMemberS{Value: coveID},
		"sk":     &types.AttributeValueMemberS{Value: models.ReactionSK(targetSK, userID)},
	}
	_, err := s.Dynamo.GetItem(ctx, models.CoveMemoriesTable, key)
	if err == ErrNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// CountReactions counts the reaction records of one target. Used for
// reconciliation checks; normal reads use the denormalized counter.
func (s *ReactionService) CountReactions(ctx context.Context, coveID, targetSK string) (int, error) {
	items, err := s.Dynamo.QueryItems(ctx,
		models.CoveMemoriesTable,
		"coveId = :c AND begins_with(sk, :p)",
		map[string]types.AttributeValue{
			":c": &types.AttributeValueMemberS{Value: coveID},
			":p": &types.AttributeValueMemberS{Value: models.SKPrefixReaction + targetSK + "#"},
		},
		nil, 0)
	if err != nil {
		return 0, err
	}
	return len(items), nil
}

// Toggle flips the caller's reaction on a target and moves the counter by
// the matching delta, as one all-or-nothing transaction. The record's
// existence is re-verified by condition expressions inside the transaction,
// so a stale in-memory read never produces a mismatched delta: if the
// record state changed between the read and the write, the transaction is
// rejected untouched and retried once in the other direction.
//
// Returns the caller's reaction state after the toggle.
func (s *ReactionService) Toggle(ctx context.Context, coveID, targetSK, counterField, userID string) (bool, error) {
	// the target must exist before anything is toggled on it
	targetKey := map[string]types.AttributeValue{
		"coveId": &types.AttributeValueMemberS{Value: coveID},
		"sk":     &types.AttributeValueMemberS{Value: targetSK},
	}
	if _, err := s.Dynamo.GetItem(ctx, models.CoveMemoriesTable, targetKey); err != nil {
		return false, err
	}

	reacted, err := s.HasReacted(ctx, coveID, targetSK, userID)
	if err != nil {
		return false, err
	}

	err = s.applyToggle(ctx, coveID, targetSK, counterField, userID, reacted)
	if err == ErrConditionFailed {
		// record existence changed under us; recompute by inverting
		reacted = !reacted
		err = s.applyToggle(ctx, coveID, targetSK, counterField, userID, reacted)
	}
	if err != nil {
		return false, err
	}

	log.Printf("reaction toggled on %s by %s (reacted=%v)", targetSK, userID, !reacted)
	return !reacted, nil
}

// applyToggle issues the two-write transaction for one toggle direction.
// reacted is the direction assumption: true removes, false adds.
func (s *ReactionService) applyToggle(ctx context.Context, coveID, targetSK, counterField, userID string, reacted bool) error {
	tableName := models.CoveMemoriesTable
	recordKey := map[string]types.AttributeValue{
		"coveId": &types.AttributeValueMemberS{Value: coveID},
		"sk":     &types.AttributeValueMemberS{Value: models.ReactionSK(targetSK, userID)},
	}
	targetKey := map[string]types.AttributeValue{
		"coveId": &types.AttributeValueMemberS{Value: coveID},
		"sk":     &types.AttributeValueMemberS{Value: targetSK},
	}
	counterNames := map[string]string{"#c": counterField}

	var items []types.TransactWriteItem
	if reacted {
		items = []types.TransactWriteItem{
			{
				Delete: &types.Delete{
					TableName:           &tableName,
					Key:                 recordKey,
					ConditionExpression: aws.String("attribute_exists(sk)"),
				},
			},
			{
				Update: &types.Update{
					TableName:                &tableName,
					Key:                      targetKey,
					UpdateExpression:         aws.String("ADD #c :d"),
					ConditionExpression:      aws.String("attribute_exists(sk)"),
					ExpressionAttributeNames: counterNames,
					ExpressionAttributeValues: map[string]types.AttributeValue{
						":d": &types.AttributeValueMemberN{Value: "-1"},
					},
				},
			},
		}
	} else {
		record := models.ReactionRecord{
			CoveID:    coveID,
			SK:        models.ReactionSK(targetSK, userID),
			TargetSK:  targetSK,
			UserID:    userID,
			CreatedAt: nowTimestamp(),
		}
		item, err := attributevalue.MarshalMap(record)
		if err != nil {
			return fmt.Errorf("failed to marshal reaction record: %w", err)
		}

		items = []types.TransactWriteItem{
			{
				Put: &types.Put{
					TableName:           &tableName,
					Item:                item,
					ConditionExpression: aws.String("attribute_not_exists(sk)"),
				},
			},
			{
				Update: &types.Update{
					TableName:                &tableName,
					Key:                      targetKey,
					UpdateExpression:         aws.String("ADD #c :d"),
					ConditionExpression:      aws.String("attribute_exists(sk)"),
					ExpressionAttributeNames: counterNames,
					ExpressionAttributeValues: map[string]types.AttributeValue{
						":d": &types.AttributeValueMemberN{Value: "1"},
					},
				},
			},
		}
	}

	return s.Dynamo.TransactWriteItems(ctx, items)
}

// DeleteTargetReactions removes every reaction record of a target. Called
// from the target's own delete path so records never outlive their target.
func (s *ReactionService) DeleteTargetReactions(ctx context.Context, coveID, targetSK string) error {
	items, err := s.Dynamo.QueryItems(ctx,
		models.CoveMemoriesTable,
		"coveId = :c AND begins_with(sk, :p)",
		map[string]types.AttributeValue{
			":c": &types.AttributeValueMemberS{Value: coveID},
			":p": &types.AttributeValueMemberS{Value: models.SKPrefixReaction + targetSK + "#"},
		},
		nil, 0)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}

	return s.Dynamo.BatchWriteItems(ctx, models.CoveMemoriesTable, DeleteRequestsForKeys(items))
}
