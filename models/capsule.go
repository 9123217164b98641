package models

import "time"

// TimeCapsule gates a batch of entries behind a wall-clock lock. The cove
// owner may flip IsEmergencyOpened at any time; the flip is reversible.
type TimeCapsule struct {
	CoveID            string `json:"coveId" dynamodbav:"coveId"`
	SK                string `json:"sk" dynamodbav:"sk"`
	ID                string `json:"id" dynamodbav:"id"`
	OwnerID           string `json:"ownerId" dynamodbav:"ownerId"`
	UnlockAt          string `json:"unlockAt" dynamodbav:"unlockAt"`
	IsEmergencyOpened bool   `json:"isEmergencyOpened" dynamodbav:"isEmergencyOpened"`
	DurationLabel     string `json:"durationLabel,omitempty" dynamodbav:"durationLabel,omitempty"`
	SourceKey         string `json:"-" dynamodbav:"sourceKey"`
	CreatedAt         string `json:"createdAt" dynamodbav:"createdAt"`
}

// IsUnlocked evaluates the lock predicate at the given instant:
// unlocked = now >= unlockAt OR isEmergencyOpened. It is a pure read-time
// check, never a stored state.
func (c TimeCapsule) IsUnlocked(now time.Time) bool {
	if c.IsEmergencyOpened {
		return true
	}
	unlockAt, err := time.Parse(time.RFC3339Nano, c.UnlockAt)
	if err != nil {
		return false
	}
	return !now.Before(unlockAt)
}

// CapsuleEntry is one sealed message inside a capsule. Entries are
// append-only; nothing in the engine deletes them.
type CapsuleEntry struct {
	CoveID     string `json:"coveId" dynamodbav:"coveId"`
	SK         string `json:"sk" dynamodbav:"sk"`
	ID         string `json:"id" dynamodbav:"id"`
	CapsuleID  string `json:"capsuleId" dynamodbav:"capsuleId"`
	AuthorID   string `json:"authorId" dynamodbav:"authorId"`
	AuthorName string `json:"authorName" dynamodbav:"authorName"`
	Text       string `json:"text" dynamodbav:"text"`
	SourceKey  string `json:"-" dynamodbav:"sourceKey"`
	CreatedAt  string `json:"createdAt" dynamodbav:"createdAt"`
}
