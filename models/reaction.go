package models

// ReactionRecord exists once per (target, user) pair and is the source of
// truth for reaction state. The denormalized counter on the target must
// equal the number of these records after every completed toggle.
type ReactionRecord struct {
	CoveID    string `json:"coveId" dynamodbav:"coveId"`
	SK        string `json:"sk" dynamodbav:"sk"`
	TargetSK  string `json:"targetSk" dynamodbav:"targetSk"`
	UserID    string `json:"userId" dynamodbav:"userId"`
	CreatedAt string `json:"createdAt" dynamodbav:"createdAt"`
}
