package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"

	"cove_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
)

// QuoteSort orders a quote listing
type QuoteSort string

const (
	QuoteSortRecent  QuoteSort = "recent"
	QuoteSortUpvoted QuoteSort = "upvoted"
)

// QuoteService handles the quotes wall: short posts, threaded replies and
// upvotes (through the reaction ledger).
type QuoteService struct {
	Dynamo    *DynamoService
	Coves     *CoveService
	Reactions *ReactionService
}

// CreateQuote posts a quote to the cove wall
func (s *QuoteService) CreateQuote(ctx context.Context, identity models.Identity, coveID, content string) (*models.Quote, error) {
	if _, err := s.Coves.RequireMember(ctx, coveID, identity.ID); err != nil {
		return nil, err
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, errors.New("quote content cannot be empty")
	}

	quote := models.Quote{
		CoveID:       coveID,
		ID:           uuid.New().String(),
		AuthorID:     identity.ID,
		AuthorName:   identity.DisplayName,
		Content:      content,
		UpvotesCount: 0,
		SourceKey:    models.SourceKey(coveID, models.SKPrefixQuote),
		CreatedAt:    nowTimestamp(),
	}
	quote.SK = models.QuoteSK(quote.ID)

	if err := s.Dynamo.PutItem(ctx, models.CoveMemoriesTable, quote); err != nil {
		return nil, err
	}
	return &quote, nil
}

// ListQuotes returns quotes for a cove, newest first or by upvote count
func (s *QuoteService) ListQuotes(ctx context.Context, identity models.Identity, coveID string, sortBy QuoteSort) ([]models.Quote, error) {
	if _, err := s.Coves.RequireMember(ctx, coveID, identity.ID); err != nil {
		return nil, err
	}

	items, err := querySourceRecent(ctx, s.Dynamo, models.SourceKey(coveID, models.SKPrefixQuote), 0)
	if err != nil {
		return nil, err
	}

	quotes := make([]models.Quote, 0, len(items))
	if err := attributevalue.UnmarshalListOfMaps(items, &quotes); err != nil {
		return nil, fmt.Errorf("failed to parse quotes: %w", err)
	}

	if sortBy == QuoteSortUpvoted {
		sort.SliceStable(quotes, func(i, j int) bool {
			return quotes[i].UpvotesCount > quotes[j].UpvotesCount
		})
	}
	return quotes, nil
}

// ToggleUpvote flips the caller's upvote on a quote
func (s *QuoteService) ToggleUpvote(ctx context.Context, identity models.Identity, coveID, quoteID string) (bool, error) {
	if _, err := s.Coves.RequireMember(ctx, coveID, identity.ID); err != nil {
		return false, err
	}
	return s.Reactions.Toggle(ctx, coveID, models.QuoteSK(quoteID), models.CounterUpvotes, identity.ID)
}

// HasUpvoted reports the caller's upvote state for a quote
func (s *QuoteService) HasUpvoted(ctx context.Context, identity models.Identity, coveID, quoteID string) (bool, error) {
	return s.Reactions.HasReacted(ctx, coveID, models.QuoteSK(quoteID), identity.ID)
}

// DeleteQuote removes a quote together with its upvote records and replies.
// Allowed for the quote's author and the cove owner.
func (s *QuoteService) DeleteQuote(ctx context.Context, identity models.Identity, coveID, quoteID string) error {
	cove, err := s.Coves.RequireMember(ctx, coveID, identity.ID)
	if err != nil {
		return err
	}

	quote, err := s.getQuote(ctx, coveID, quoteID)
	if err != nil {
		return err
	}
	if quote.AuthorID != identity.ID && cove.OwnerID != identity.ID {
		return ErrUnauthorized
	}

	if err := s.Reactions.DeleteTargetReactions(ctx, coveID, models.QuoteSK(quoteID)); err != nil {
		return err
	}
	if err := s.deleteReplies(ctx, coveID, quoteID); err != nil {
		return err
	}

	key := map[string]types.AttributeValue{
		"coveId": &types.AttributeValueMemberS{Value: coveID},
		"sk":     &types.AttributeValueMemberS{Value: models.QuoteSK(quoteID)},
	}
	if err := s.Dynamo.DeleteItem(ctx, models.CoveMemoriesTable, key); err != nil {
		return err
	}

	log.Printf("quote %s deleted from cove %s by %s", quoteID, coveID, identity.ID)
	return nil
}

// AddReply appends a threaded reply to a quote
func (s *QuoteService) AddReply(ctx context.Context, identity models.Identity, coveID, quoteID, content string) (*models.QuoteReply, error) {
	if _, err := s.Coves.RequireMember(ctx, coveID, identity.ID); err != nil {
		return nil, err
	}
	if _, err := s.getQuote(ctx, coveID, quoteID); err != nil {
		return nil, err
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, errors.New("reply content cannot be empty")
	}

	reply := models.QuoteReply{
		CoveID:     coveID,
		ID:         uuid.New().String(),
		QuoteID:    quoteID,
		AuthorID:   identity.ID,
		AuthorName: identity.DisplayName,
		Content:    content,
		SourceKey:  models.SourceKey(coveID, models.SKPrefixReply+quoteID+"#"),
		CreatedAt:  nowTimestamp(),
	}
	reply.SK = models.ReplySK(quoteID, reply.ID)

	if err := s.Dynamo.PutItem(ctx, models.CoveMemoriesTable, reply); err != nil {
		return nil, err
	}
	return &reply, nil
}

// ListReplies returns a quote's replies, oldest first
func (s *QuoteService) ListReplies(ctx context.Context, identity models.Identity, coveID, quoteID string) ([]models.QuoteReply, error) {
	if _, err := s.Coves.RequireMember(ctx, coveID, identity.ID); err != nil {
		return nil, err
	}

	items, err := s.Dynamo.QueryItems(ctx,
		models.CoveMemoriesTable,
		"coveId = :c AND begins_with(sk, :p)",
		map[string]types.AttributeValue{
			":c": &types.AttributeValueMemberS{Value: coveID},
			":p": &types.AttributeValueMemberS{Value: models.SKPrefixReply + quoteID + "#"},
		},
		nil, 0)
	if err != nil {
		return nil, err
	}

	replies := make([]models.QuoteReply, 0, len(items))
	if err := attributevalue.UnmarshalListOfMaps(items, &replies); err != nil {
		return nil, fmt.Errorf("failed to parse replies: %w", err)
	}
	sort.SliceStable(replies, func(i, j int) bool {
		return replies[i].CreatedAt < replies[j].CreatedAt
	})
	return replies, nil
}

func (s *QuoteService) deleteReplies(ctx context.Context, coveID, quoteID string) error {
	items, err := s.Dynamo.QueryItems(ctx,
		models.CoveMemoriesTable,
		"coveId = :c AND begins_with(sk, :p)",
		map[string]types.AttributeValue{
			":c": &types.AttributeValueMemberS{Value: coveID},
			":p": &types.AttributeValueMemberS{Value: models.SKPrefixReply + quoteID + "#"},
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

func (s *QuoteService) getQuote(ctx context.Context, coveID, quoteID string) (*models.Quote, error) {
	key := map[string]types.AttributeValue{
		"coveId": &types.AttributeValueMemberS{Value: coveID},
		"sk":     &types.AttributeValueMemberS{Value: models.QuoteSK(quoteID)},
	}
	item, err := s.Dynamo.GetItem(ctx, models.CoveMemoriesTable, key)
	if err != nil {
		return nil, err
	}

	var quote models.Quote
	if err := attributevalue.UnmarshalMap(item, &quote); err != nil {
		return nil, fmt.Errorf("failed to parse quote: %w", err)
	}
	return &quote, nil
}
