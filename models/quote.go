package models

// Quote is a short post on the cove wall. UpvotesCount is denormalized;
// the per-user upvote records under SKPrefixReaction are authoritative.
type Quote struct {
	CoveID       string `json:"coveId" dynamodbav:"coveId"`
	SK           string `json:"sk" dynamodbav:"sk"`
	ID           string `json:"id" dynamodbav:"id"`
	AuthorID     string `json:"authorId" dynamodbav:"authorId"`
	AuthorName   string `json:"authorName" dynamodbav:"authorName"`
	Content      string `json:"content" dynamodbav:"content"`
	UpvotesCount int    `json:"upvotesCount" dynamodbav:"upvotesCount"`
	SourceKey    string `json:"-" dynamodbav:"sourceKey"`
	CreatedAt    string `json:"createdAt" dynamodbav:"createdAt"`
}

// QuoteReply is a threaded reply under a quote
type QuoteReply struct {
	CoveID     string `json:"coveId" dynamodbav:"coveId"`
	SK         string `json:"sk" dynamodbav:"sk"`
	ID         string `json:"id" dynamodbav:"id"`
	QuoteID    string `json:"quoteId" dynamodbav:"quoteId"`
	AuthorID   string `json:"authorId" dynamodbav:"authorId"`
	AuthorName string `json:"authorName" dynamodbav:"authorName"`
	Content    string `json:"content" dynamodbav:"content"`
	SourceKey  string `json:"-" dynamodbav:"sourceKey"`
	CreatedAt  string `json:"createdAt" dynamodbav:"createdAt"`
}

// CoveMemoriesTable holds every record that lives inside a cove:
// quotes, stories, pins, capsules, capsule entries, replies and
// reaction records. PK is the cove id, SK is typed by prefix.
const CoveMemoriesTable = "CoveMemories"

// SourceCreatedAtIndex is the GSI (sourceKey, createdAt) used for
// recency-ordered per-kind queries.
const SourceCreatedAtIndex = "source-createdAt-index"
