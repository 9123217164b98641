package models

// Sort-key prefixes for the CoveMemories table. Every record that lives
// inside a cove shares the cove id as partition key and is typed by its
// sort-key prefix.
const (
	SKPrefixQuote    = "QUOTE#"
	SKPrefixStory    = "STORY#"
	SKPrefixPin      = "PIN#"
	SKPrefixCapsule  = "CAPSULE#"
	SKPrefixReply    = "REPLY#"
	SKPrefixEntry    = "ENTRY#"
	SKPrefixReaction = "REACTION#"
)

// Counter attribute names on reaction targets
const (
	CounterUpvotes = "upvotesCount"
	CounterLikes   = "likesCount"
)

// QuoteSK builds the sort key for a quote
func QuoteSK(quoteID string) string { return SKPrefixQuote + quoteID }

// StorySK builds the sort key for a story
func StorySK(storyID string) string { return SKPrefixStory + storyID }

// PinSK builds the sort key for a pin
func PinSK(pinID string) string { return SKPrefixPin + pinID }

// CapsuleSK builds the sort key for a time capsule
func CapsuleSK(capsuleID string) string { return SKPrefixCapsule + capsuleID }

// ReplySK builds the sort key for a reply under a quote
func ReplySK(quoteID, replyID string) string {
	return SKPrefixReply + quoteID + "#" + replyID
}

// EntrySK builds the sort key for a capsule entry
func EntrySK(capsuleID, entryID string) string {
	return SKPrefixEntry + capsuleID + "#" + entryID
}

// ReactionSK builds the sort key for a (target, user) reaction record.
// Existence of this record is the source of truth for "has this user reacted";
// the counter on the target is a denormalized cache kept in lockstep.
func ReactionSK(targetSK, userID string) string {
	return SKPrefixReaction + targetSK + "#" + userID
}

// SourceKey builds the partition key of the source-createdAt-index GSI,
// which serves "most recent N records of one kind in one cove" queries.
func SourceKey(coveID, skPrefix string) string {
	return coveID + "#" + skPrefix
}
