package models

// Cove represents a private memory group owned by one creator
type Cove struct {
	ID          string   `json:"id" dynamodbav:"id"`
	Name        string   `json:"name" dynamodbav:"name"`
	Description string   `json:"description,omitempty" dynamodbav:"description,omitempty"`
	OwnerID     string   `json:"ownerId" dynamodbav:"ownerId"`
	JoinCode    string   `json:"joinCode" dynamodbav:"joinCode"`
	Members     []string `json:"members" dynamodbav:"members,stringset"`
	CreatedAt   string   `json:"createdAt" dynamodbav:"createdAt"`
	IsActive    bool     `json:"isActive" dynamodbav:"isActive"`
}

// HasMember reports whether userID is in the member set
func (c Cove) HasMember(userID string) bool {
	for _, m := range c.Members {
		if m == userID {
			return true
		}
	}
	return false
}

// CovesTable is the DynamoDB table name for coves
const CovesTable = "Coves"

// JoinCodeIndex is the GSI used to look a cove up by its join code
const JoinCodeIndex = "joinCode-index"
