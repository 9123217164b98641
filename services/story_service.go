package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"cove_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
)

// StoryService handles the "humans" section: personal stories with likes
// (through the reaction ledger), optional anonymity, and author-only edits.
type StoryService struct {
	Dynamo    *DynamoService
	Coves     *CoveService
	Reactions *ReactionService
}

// CreateStory posts a story. Anonymous stories keep the author id for
// permission checks but never expose the author name on reads.
func (s *StoryService) CreateStory(ctx context.Context, identity models.Identity, coveID, content string, isAnonymous bool) (*models.Story, error) {
	if _, err := s.Coves.RequireMember(ctx, coveID, identity.ID); err != nil {
		return nil, err
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, errors.New("story content cannot be empty")
	}

	story := models.Story{
		CoveID:      coveID,
		ID:          uuid.New().String(),
		AuthorID:    identity.ID,
		AuthorName:  identity.DisplayName,
		Content:     content,
		IsAnonymous: isAnonymous,
		LikesCount:  0,
		SourceKey:   models.SourceKey(coveID, models.SKPrefixStory),
		CreatedAt:   nowTimestamp(),
	}
	story.SK = models.StorySK(story.ID)

	if err := s.Dynamo.PutItem(ctx, models.CoveMemoriesTable, story); err != nil {
		return nil, err
	}
	return &story, nil
}

// ListStories returns a cove's stories newest first, anonymity applied
func (s *StoryService) ListStories(ctx context.Context, identity models.Identity, coveID string) ([]models.Story, error) {
	if _, err := s.Coves.RequireMember(ctx, coveID, identity.ID); err != nil {
		return nil, err
	}

	items, err := querySourceRecent(ctx, s.Dynamo, models.SourceKey(coveID, models.SKPrefixStory), 0)
	if err != nil {
		return nil, err
	}

	stories := make([]models.Story, 0, len(items))
	if err := attributevalue.UnmarshalListOfMaps(items, &stories); err != nil {
		return nil, fmt.Errorf("failed to parse stories: %w", err)
	}

	for i := range stories {
		if stories[i].IsAnonymous {
			stories[i].AuthorName = "Anonymous"
		}
	}
	return stories, nil
}

// EditStory replaces a story's content; author only
func (s *StoryService) EditStory(ctx context.Context, identity models.Identity, coveID, storyID, content string) error {
	if _, err := s.Coves.RequireMember(ctx, coveID, identity.ID); err != nil {
		return err
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return errors.New("story content cannot be empty")
	}

	story, err := s.getStory(ctx, coveID, storyID)
	if err != nil {
		return err
	}
	if story.AuthorID != identity.ID {
		return ErrUnauthorized
	}

	key := map[string]types.AttributeValue{
		"coveId": &types.AttributeValueMemberS{Value: coveID},
		"sk":     &types.AttributeValueMemberS{Value: models.StorySK(storyID)},
	}
	_, err = s.Dynamo.UpdateItem(ctx,
		models.CoveMemoriesTable,
		"SET content = :content",
		key,
		map[string]types.AttributeValue{
			":content": &types.AttributeValueMemberS{Value: content},
		},
		nil)
	return err
}

// DeleteStory removes a story and its like records; author or cove owner
func (s *StoryService) DeleteStory(ctx context.Context, identity models.Identity, coveID, storyID string) error {
	cove, err := s.Coves.RequireMember(ctx, coveID, identity.ID)
	if err != nil {
		return err
	}

	story, err := s.getStory(ctx, coveID, storyID)
	if err != nil {
		return err
	}
	if story.AuthorID != identity.ID && cove.OwnerID != identity.ID {
		return ErrUnauthorized
	}

	if err := s.Reactions.DeleteTargetReactions(ctx, coveID, models.StorySK(storyID)); err != nil {
		return err
	}

	key := map[string]types.AttributeValue{
		"coveId": &types.AttributeValueMemberS{Value: coveID},
		"sk":     &types.AttributeValueMemberS{Value: models.StorySK(storyID)},
	}
	if err := s.Dynamo.DeleteItem(ctx, models.CoveMemoriesTable, key); err != nil {
		return err
	}

	log.Printf("story %s deleted from cove %s by %s", storyID, coveID, identity.ID)
	return nil
}

// ToggleLike flips the caller's like on a story
func (s *StoryService) ToggleLike(ctx context.Context, identity models.Identity, coveID, storyID string) (bool, error) {
	if _, err := s.Coves.RequireMember(ctx, coveID, identity.ID); err != nil {
		return false, err
	}
	return s.Reactions.Toggle(ctx, coveID, models.StorySK(storyID), models.CounterLikes, identity.ID)
}

// HasLiked reports the caller's like state for a story
func (s *StoryService) HasLiked(ctx context.Context, identity models.Identity, coveID, storyID string) (bool, error) {
	return s.Reactions.HasReacted(ctx, coveID, models.StorySK(storyID), identity.ID)
}

func (s *StoryService) getStory(ctx context.Context, coveID, storyID string) (*models.Story, error) {
	key := map[string]types.AttributeValue{
		"coveId": &types.AttributeValueMemberS{Value: coveID},
		"sk":     &types.AttributeValueMemberS{Value: models.StorySK(storyID)},
	}
	item, err := s.Dynamo.GetItem(ctx, models.CoveMemoriesTable, key)
	if err != nil {
		return nil, err
	}

	var story models.Story
	if err := attributevalue.UnmarshalMap(item, &story); err != nil {
		return nil, fmt.Errorf("failed to parse story: %w", err)
	}
	return &story, nil
}
