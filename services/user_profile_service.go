package services

import (
	"context"
	"fmt"

	"cove_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// UserProfileService manages user profiles
type UserProfileService struct {
	Dynamo *DynamoService
}

// EnsureProfile upserts the caller's profile on sign-in so display names
// stay current for everyone else's reads.
func (s *UserProfileService) EnsureProfile(ctx context.Context, identity models.Identity, email, avatarURL string) (*models.UserProfile, error) {
	existing, err := s.GetProfile(ctx, identity.ID)
	if err != nil && err != ErrNotFound {
		return nil, err
	}

	profile := models.UserProfile{
		UserID:      identity.ID,
		DisplayName: identity.DisplayName,
		Email:       email,
		AvatarURL:   avatarURL,
		CreatedAt:   nowTimestamp(),
	}
	if existing != nil {
		profile.CreatedAt = existing.CreatedAt
	}

	if err := s.Dynamo.PutItem(ctx, models.UserProfilesTable, profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// GetProfile fetches a profile by user id
func (s *UserProfileService) GetProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	key := map[string]types.AttributeValue{
		"userId": &types.AttributeValueMemberS{Value: userID},
	}
	item, err := s.Dynamo.GetItem(ctx, models.UserProfilesTable, key)
	if err != nil {
		return nil, err
	}

	var profile models.UserProfile
	if err := attributevalue.UnmarshalMap(item, &profile); err != nil {
		return nil, fmt.Errorf("failed to parse profile: %w", err)
	}
	return &profile, nil
}

// GetProfiles resolves several user ids at once, skipping missing ones
func (s *UserProfileService) GetProfiles(ctx context.Context, userIDs []string) (map[string]models.UserProfile, error) {
	profiles := make(map[string]models.UserProfile, len(userIDs))
	for _, id := range userIDs {
		profile, err := s.GetProfile(ctx, id)
		if err == ErrNotFound {
			continue
		}
		if err != nil {
			return nil, err
		}
		profiles[id] = *profile
	}
	return profiles, nil
}
