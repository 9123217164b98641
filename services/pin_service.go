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

// PinService handles map memories
type PinService struct {
	Dynamo *DynamoService
	Coves  *CoveService
}

// CreatePinInput carries the fields of a new pin
type CreatePinInput struct {
	Title       string
	Description string
	Latitude    float64
	Longitude   float64
	MediaRef    string
}

// CreatePin drops a pin on the cove map
func (s *PinService) CreatePin(ctx context.Context, identity models.Identity, coveID string, input CreatePinInput) (*models.Pin, error) {
	if _, err := s.Coves.RequireMember(ctx, coveID, identity.ID); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, errors.New("pin title cannot be empty")
	}
	if input.Latitude < -90 || input.Latitude > 90 || input.Longitude < -180 || input.Longitude > 180 {
		return nil, errors.New("invalid coordinates")
	}

	pin := models.Pin{
		CoveID:      coveID,
		ID:          uuid.New().String(),
		Title:       title,
		Description: strings.TrimSpace(input.Description),
		Latitude:    input.Latitude,
		Longitude:   input.Longitude,
		AuthorID:    identity.ID,
		AuthorName:  identity.DisplayName,
		MediaRef:    input.MediaRef,
		SourceKey:   models.SourceKey(coveID, models.SKPrefixPin),
		CreatedAt:   nowTimestamp(),
	}
	pin.SK = models.PinSK(pin.ID)

	if err := s.Dynamo.PutItem(ctx, models.CoveMemoriesTable, pin); err != nil {
		return nil, err
	}
	return &pin, nil
}

// ListPins returns a cove's pins, newest first
func (s *PinService) ListPins(ctx context.Context, identity models.Identity, coveID string) ([]models.Pin, error) {
	if _, err := s.Coves.RequireMember(ctx, coveID, identity.ID); err != nil {
		return nil, err
	}

	items, err := querySourceRecent(ctx, s.Dynamo, models.SourceKey(coveID, models.SKPrefixPin), 0)
	if err != nil {
		return nil, err
	}

	pins := make([]models.Pin, 0, len(items))
	if err := attributevalue.UnmarshalListOfMaps(items, &pins); err != nil {
		return nil, fmt.Errorf("failed to parse pins: %w", err)
	}
	return pins, nil
}

// DeletePin removes a pin; author or cove owner
func (s *PinService) DeletePin(ctx context.Context, identity models.Identity, coveID, pinID string) error {
	cove, err := s.Coves.RequireMember(ctx, coveID, identity.ID)
	if err != nil {
		return err
	}

	key := map[string]types.AttributeValue{
		"coveId": &types.AttributeValueMemberS{Value: coveID},
		"sk":     &types.AttributeValueMemberS{Value: models.PinSK(pinID)},
	}
	item, err := s.Dynamo.GetItem(ctx, models.CoveMemoriesTable, key)
	if err != nil {
		return err
	}

	var pin models.Pin
	if err := attributevalue.UnmarshalMap(item, &pin); err != nil {
		return fmt.Errorf("failed to parse pin: %w", err)
	}
	if pin.AuthorID != identity.ID && cove.OwnerID != identity.ID {
		return ErrUnauthorized
	}

	if err := s.Dynamo.DeleteItem(ctx, models.CoveMemoriesTable, key); err != nil {
		return err
	}

	log.Printf("pin %s deleted from cove %s by %s", pinID, coveID, identity.ID)
	return nil
}
