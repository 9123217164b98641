package models

// UserProfile defines the structure for user profiles
type UserProfile struct {
	UserID      string `json:"userId" dynamodbav:"userId"`
	DisplayName string `json:"displayName" dynamodbav:"displayName"`
	Email       string `json:"email,omitempty" dynamodbav:"email,omitempty"`
	AvatarURL   string `json:"avatarUrl,omitempty" dynamodbav:"avatarUrl,omitempty"`
	CreatedAt   string `json:"createdAt" dynamodbav:"createdAt"`
}

// Identity is the authenticated caller, resolved by the auth middleware
// and passed explicitly into every service call.
type Identity struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
}

// UserProfilesTable is the DynamoDB table name for user profiles
const UserProfilesTable = "UserProfiles"
