package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"cove_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
)

// CapsuleService governs the time-lock state machine. A capsule is
// unlocked when wall-clock time has passed unlockAt or the owner flipped
// the emergency override; the predicate is evaluated on every read, never
// stored. Entry visibility is enforced here; the store is private to the
// server, so there is no client-side path around ListEntries.
type CapsuleService struct {
	Dynamo *DynamoService
	Coves  *CoveService

	// Now is the clock used for the unlock predicate; defaults to time.Now
	Now func() time.Time
}

func (s *CapsuleService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// CreateCapsule seals a new capsule for a cove; cove owner only
func (s *CapsuleService) CreateCapsule(ctx context.Context, identity models.Identity, coveID string, unlockAt time.Time, durationLabel string) (*models.TimeCapsule, error) {
	if _, err := s.Coves.RequireOwner(ctx, coveID, identity.ID); err != nil {
		return nil, err
	}
	if !unlockAt.After(s.now()) {
		return nil, errors.New("unlock time must be in the future")
	}

	capsule := models.TimeCapsule{
		CoveID:            coveID,
		ID:                uuid.New().String(),
		OwnerID:           identity.ID,
		UnlockAt:          formatTimestamp(unlockAt),
		IsEmergencyOpened: false,
		DurationLabel:     durationLabel,
		SourceKey:         models.SourceKey(coveID, models.SKPrefixCapsule),
		CreatedAt:         nowTimestamp(),
	}
	capsule.SK = models.CapsuleSK(capsule.ID)

	if err := s.Dynamo.PutItem(ctx, models.CoveMemoriesTable, capsule); err != nil {
		return nil, err
	}

	log.Printf("capsule %s created in cove %s, unlocks at %s", capsule.ID, coveID, capsule.UnlockAt)
	return &capsule, nil
}

// ActiveCapsule returns the most recently created capsule of a cove,
// the only one callers operate on.
func (s *CapsuleService) ActiveCapsule(ctx context.Context, identity models.Identity, coveID string) (*models.TimeCapsule, error) {
	if _, err := s.Coves.RequireMember(ctx, coveID, identity.ID); err != nil {
		return nil, err
	}
	return s.latestCapsule(ctx, coveID)
}

// AppendEntry seals a message into a capsule. Any member may write at any
// time; the lock only gates reading.
func (s *CapsuleService) AppendEntry(ctx context.Context, identity models.Identity, coveID, capsuleID, text string) (*models.CapsuleEntry, error) {
	if _, err := s.Coves.RequireMember(ctx, coveID, identity.ID); err != nil {
		return nil, err
	}
	if _, err := s.getCapsule(ctx, coveID, capsuleID); err != nil {
		return nil, err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errors.New("entry text cannot be empty")
	}

	entry := models.CapsuleEntry{
		CoveID:     coveID,
		ID:         uuid.New().String(),
		CapsuleID:  capsuleID,
		AuthorID:   identity.ID,
		AuthorName: identity.DisplayName,
		Text:       text,
		SourceKey:  models.SourceKey(coveID, models.SKPrefixEntry+capsuleID+"#"),
		CreatedAt:  nowTimestamp(),
	}
	entry.SK = models.EntrySK(capsuleID, entry.ID)

	if err := s.Dynamo.PutItem(ctx, models.CoveMemoriesTable, entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// ListEntries returns a capsule's entries, newest first, only while the
// capsule is unlocked. A locked capsule yields an empty list, not an error.
func (s *CapsuleService) ListEntries(ctx context.Context, identity models.Identity, coveID, capsuleID string) ([]models.CapsuleEntry, error) {
	if _, err := s.Coves.RequireMember(ctx, coveID, identity.ID); err != nil {
		return nil, err
	}

	capsule, err := s.getCapsule(ctx, coveID, capsuleID)
	if err != nil {
		return nil, err
	}
	if !capsule.IsUnlocked(s.now()) {
		return []models.CapsuleEntry{}, nil
	}

	return s.listEntries(ctx, coveID, capsuleID, 0)
}

// ToggleOverride flips the emergency override; cove owner only. Opening
// exposes entries immediately, closing before unlockAt re-hides them.
func (s *CapsuleService) ToggleOverride(ctx context.Context, identity models.Identity, coveID, capsuleID string) (*models.TimeCapsule, error) {
	if _, err := s.Coves.RequireOwner(ctx, coveID, identity.ID); err != nil {
		return nil, err
	}

	capsule, err := s.getCapsule(ctx, coveID, capsuleID)
	if err != nil {
		return nil, err
	}

	key := map[string]types.AttributeValue{
		"coveId": &types.AttributeValueMemberS{Value: coveID},
		"sk":     &types.AttributeValueMemberS{Value: models.CapsuleSK(capsuleID)},
	}
	attrs, err := s.Dynamo.UpdateItem(ctx,
		models.CoveMemoriesTable,
		"SET isEmergencyOpened = :v",
		key,
		map[string]types.AttributeValue{
			":v": &types.AttributeValueMemberBOOL{Value: !capsule.IsEmergencyOpened},
		},
		nil)
	if err != nil {
		return nil, err
	}

	var updated models.TimeCapsule
	if err := attributevalue.UnmarshalMap(attrs, &updated); err != nil {
		return nil, fmt.Errorf("failed to parse capsule: %w", err)
	}

	log.Printf("capsule %s emergency override set to %v by %s", capsuleID, updated.IsEmergencyOpened, identity.ID)
	return &updated, nil
}

func (s *CapsuleService) latestCapsule(ctx context.Context, coveID string) (*models.TimeCapsule, error) {
	items, err := querySourceRecent(ctx, s.Dynamo, models.SourceKey(coveID, models.SKPrefixCapsule), 1)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrNotFound
	}

	var capsule models.TimeCapsule
	if err := attributevalue.UnmarshalMap(items[0], &capsule); err != nil {
		return nil, fmt.Errorf("failed to parse capsule: %w", err)
	}
	return &capsule, nil
}

func (s *CapsuleService) getCapsule(ctx context.Context, coveID, capsuleID string) (*models.TimeCapsule, error) {
	key := map[string]types.AttributeValue{
		"coveId": &types.AttributeValueMemberS{Value: coveID},
		"sk":     &types.AttributeValueMemberS{Value: models.CapsuleSK(capsuleID)},
	}
	item, err := s.Dynamo.GetItem(ctx, models.CoveMemoriesTable, key)
	if err != nil {
		return nil, err
	}

	var capsule models.TimeCapsule
	if err := attributevalue.UnmarshalMap(item, &capsule); err != nil {
		return nil, fmt.Errorf("failed to parse capsule: %w", err)
	}
	return &capsule, nil
}

func (s *CapsuleService) listEntries(ctx context.Context, coveID, capsuleID string, limit int32) ([]models.CapsuleEntry, error) {
	items, err := querySourceRecent(ctx, s.Dynamo, models.SourceKey(coveID, models.SKPrefixEntry+capsuleID+"#"), limit)
	if err != nil {
		return nil, err
	}

	entries := make([]models.CapsuleEntry, 0, len(items))
	if err := attributevalue.UnmarshalListOfMaps(items, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse entries: %w", err)
	}
	return entries, nil
}
