package services

import (
	"context"
	"crypto/rand"
	"fmt"
	"log"
	"math/big"
	"strings"

	"cove_server/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
)

const joinCodeChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
const joinCodeLength = 6

// joinCodeRetries bounds how often CreateCove regenerates a colliding code
// before giving up. Collisions are rare (36^6 code space) but not impossible,
// so they are checked rather than assumed away.
const joinCodeRetries = 5

// CoveService owns cove lifecycle and membership
type CoveService struct {
	Dynamo *DynamoService
}

// GenerateJoinCode draws a 6-character code uniformly from [A-Z0-9].
// Uniqueness among active coves is checked by the caller, not guaranteed
// by construction.
func GenerateJoinCode() string {
	code := make([]byte, joinCodeLength)
	max := big.NewInt(int64(len(joinCodeChars)))
	for i := range code {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand only fails when the OS entropy source is broken
			panic(fmt.Sprintf("join code generation: %v", err))
		}
		code[i] = joinCodeChars[n.Int64()]
	}
	return string(code)
}

// NormalizeJoinCode trims and uppercases user input
func NormalizeJoinCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// ValidateJoinCode checks length and charset of a normalized code
func ValidateJoinCode(code string) bool {
	if len(code) != joinCodeLength {
		return false
	}
	for i := 0; i < len(code); i++ {
		if !strings.ContainsRune(joinCodeChars, rune(code[i])) {
			return false
		}
	}
	return true
}

// CreateCove creates a cove with the caller as owner and sole member.
// The join code is regenerated while it collides with an existing cove.
func (s *CoveService) CreateCove(ctx context.Context, identity models.Identity, name, description string) (*models.Cove, error) {
	code := ""
	for attempt := 0; attempt < joinCodeRetries; attempt++ {
		candidate := GenerateJoinCode()
		existing, err := s.findCoveByCode(ctx, candidate)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			code = candidate
			break
		}
		log.Printf("join code %s collided, regenerating", candidate)
	}
	if code == "" {
		return nil, ErrCodeCollision
	}

	cove := models.Cove{
		ID:          uuid.New().String(),
		Name:        strings.TrimSpace(name),
		Description: strings.TrimSpace(description),
		OwnerID:     identity.ID,
		JoinCode:    code,
		Members:     []string{identity.ID},
		CreatedAt:   nowTimestamp(),
		IsActive:    true,
	}

	err := s.Dynamo.PutItemWithCondition(ctx, models.CovesTable, cove, "attribute_not_exists(id)", nil)
	if err != nil {
		return nil, err
	}

	log.Printf("cove %s created by %s", cove.ID, identity.ID)
	return &cove, nil
}

// JoinCove adds the caller to the cove matching the given code. The member
// append is a single conditional update: "add to members unless present",
// so two concurrent joins by the same user collapse to one side effect.
func (s *CoveService) JoinCove(ctx context.Context, identity models.Identity, code string) (*models.Cove, error) {
	code = NormalizeJoinCode(code)
	if !ValidateJoinCode(code) {
		return nil, ErrNotFound
	}

	cove, err := s.findCoveByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if cove == nil {
		return nil, ErrNotFound
	}
	if cove.OwnerID == identity.ID {
		return nil, ErrAlreadyOwner
	}
	if cove.HasMember(identity.ID) {
		return nil, ErrAlreadyMember
	}

	key := map[string]types.AttributeValue{
		"id": &types.AttributeValueMemberS{Value: cove.ID},
	}
	expressionValues := map[string]types.AttributeValue{
		":u":   &types.AttributeValueMemberSS{Value: []string{identity.ID}},
		":uid": &types.AttributeValueMemberS{Value: identity.ID},
	}

	attrs, err := s.Dynamo.UpdateItemWithCondition(ctx,
		models.CovesTable,
		"ADD members :u",
		"attribute_exists(id) AND NOT contains(members, :uid)",
		key, expressionValues, nil)
	if err == ErrConditionFailed {
		// lost a race against our own duplicate request; membership is
		// already in place, which is the precondition error, not a failure
		return nil, ErrAlreadyMember
	}
	if err != nil {
		return nil, err
	}

	var updated models.Cove
	if err := attributevalue.UnmarshalMap(attrs, &updated); err != nil {
		return nil, fmt.Errorf("failed to parse updated cove: %w", err)
	}

	log.Printf("user %s joined cove %s", identity.ID, updated.ID)
	return &updated, nil
}

// GetCove fetches a cove by id
func (s *CoveService) GetCove(ctx context.Context, coveID string) (*models.Cove, error) {
	key := map[string]types.AttributeValue{
		"id": &types.AttributeValueMemberS{Value: coveID},
	}
	item, err := s.Dynamo.GetItem(ctx, models.CovesTable, key)
	if err != nil {
		return nil, err
	}

	var cove models.Cove
	if err := attributevalue.UnmarshalMap(item, &cove); err != nil {
		return nil, fmt.Errorf("failed to parse cove: %w", err)
	}
	return &cove, nil
}

// RequireMember loads a cove and checks the caller belongs to it
func (s *CoveService) RequireMember(ctx context.Context, coveID, userID string) (*models.Cove, error) {
	cove, err := s.GetCove(ctx, coveID)
	if err != nil {
		return nil, err
	}
	if !cove.HasMember(userID) {
		return nil, ErrNotMember
	}
	return cove, nil
}

// RequireOwner loads a cove and checks the caller owns it
func (s *CoveService) RequireOwner(ctx context.Context, coveID, userID string) (*models.Cove, error) {
	cove, err := s.GetCove(ctx, coveID)
	if err != nil {
		return nil, err
	}
	if cove.OwnerID != userID {
		return nil, ErrUnauthorized
	}
	return cove, nil
}

// ListCovesForUser returns the active coves the user belongs to.
// Membership lives in a string set, which DynamoDB cannot key on, so this
// is a filtered scan. Fine at the expected table size; revisit with a
// membership GSI if cove counts grow.
func (s *CoveService) ListCovesForUser(ctx context.Context, userID string) ([]models.Cove, error) {
	var coves []models.Cove
	err := s.Dynamo.ScanItems(ctx,
		models.CovesTable,
		"contains(members, :u) AND isActive = :active",
		map[string]types.AttributeValue{
			":u":      &types.AttributeValueMemberS{Value: userID},
			":active": &types.AttributeValueMemberBOOL{Value: true},
		},
		&coves)
	if err != nil {
		return nil, err
	}
	return coves, nil
}

// UpdateCoveSettings renames a cove; owner only
func (s *CoveService) UpdateCoveSettings(ctx context.Context, identity models.Identity, coveID, name, description string) error {
	if _, err := s.RequireOwner(ctx, coveID, identity.ID); err != nil {
		return err
	}

	key := map[string]types.AttributeValue{
		"id": &types.AttributeValueMemberS{Value: coveID},
	}
	_, err := s.Dynamo.UpdateItem(ctx,
		models.CovesTable,
		"SET #n = :name, description = :desc",
		key,
		map[string]types.AttributeValue{
			":name": &types.AttributeValueMemberS{Value: strings.TrimSpace(name)},
			":desc": &types.AttributeValueMemberS{Value: strings.TrimSpace(description)},
		},
		map[string]string{"#n": "name"})
	return err
}

// DeleteCove removes a cove and everything inside it: quotes, stories,
// pins, capsules, entries, replies and reaction records are batch-deleted
// before the cove document itself goes away, so no orphans are left behind.
func (s *CoveService) DeleteCove(ctx context.Context, identity models.Identity, coveID string) error {
	if _, err := s.RequireOwner(ctx, coveID, identity.ID); err != nil {
		return err
	}

	items, err := s.Dynamo.QueryAllItems(ctx, coveItemsQueryInput(coveID))
	if err != nil {
		return err
	}

	if requests := DeleteRequestsForKeys(items); len(requests) > 0 {
		if err := s.Dynamo.BatchWriteItems(ctx, models.CoveMemoriesTable, requests); err != nil {
			return err
		}
	}

	key := map[string]types.AttributeValue{
		"id": &types.AttributeValueMemberS{Value: coveID},
	}
	if err := s.Dynamo.DeleteItem(ctx, models.CovesTable, key); err != nil {
		return err
	}

	log.Printf("cove %s deleted by %s (%d records cascaded)", coveID, identity.ID, len(items))
	return nil
}

func coveItemsQueryInput(coveID string) *dynamodb.QueryInput {
	tableName := models.CoveMemoriesTable
	keyCondition := "coveId = :c"
	return &dynamodb.QueryInput{
		TableName:              &tableName,
		KeyConditionExpression: &keyCondition,
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":c": &types.AttributeValueMemberS{Value: coveID},
		},
		ProjectionExpression: aws.String("coveId, sk"),
	}
}

func (s *CoveService) findCoveByCode(ctx context.Context, code string) (*models.Cove, error) {
	items, err := s.Dynamo.QueryItemsWithIndex(ctx,
		models.CovesTable,
		models.JoinCodeIndex,
		"joinCode = :code",
		map[string]types.AttributeValue{
			":code": &types.AttributeValueMemberS{Value: code},
		},
		nil, 1)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}

	var cove models.Cove
	if err := attributevalue.UnmarshalMap(items[0], &cove); err != nil {
		return nil, fmt.Errorf("failed to parse cove: %w", err)
	}
	return &cove, nil
}
