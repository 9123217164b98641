package models

// MemorySource tags which collection a sampled memory came from
type MemorySource string

const (
	MemorySourceQuote   MemorySource = "quote"
	MemorySourcePin     MemorySource = "pin"
	MemorySourceStory   MemorySource = "story"
	MemorySourceCapsule MemorySource = "capsule"
)

// MemoryItem is a read-only view over the heterogeneous record kinds,
// used by the roulette and flashback queries. Never persisted.
type MemoryItem struct {
	Source     MemorySource `json:"source"`
	ID         string       `json:"id"`
	Content    string       `json:"content"`
	Title      string       `json:"title,omitempty"`
	AuthorName string       `json:"authorName,omitempty"`
	Latitude   float64      `json:"latitude,omitempty"`
	Longitude  float64      `json:"longitude,omitempty"`
	Year       int          `json:"year,omitempty"`
	CreatedAt  string       `json:"createdAt"`
}
