package models

// Pin is a map memory. MediaRef, when present, is an S3 object key; the
// client exchanges it for a presigned read URL.
type Pin struct {
	CoveID      string  `json:"coveId" dynamodbav:"coveId"`
	SK          string  `json:"sk" dynamodbav:"sk"`
	ID          string  `json:"id" dynamodbav:"id"`
	Title       string  `json:"title" dynamodbav:"title"`
	Description string  `json:"description" dynamodbav:"description"`
	Latitude    float64 `json:"latitude" dynamodbav:"latitude"`
	Longitude   float64 `json:"longitude" dynamodbav:"longitude"`
	AuthorID    string  `json:"authorId" dynamodbav:"authorId"`
	AuthorName  string  `json:"authorName" dynamodbav:"authorName"`
	MediaRef    string  `json:"mediaRef,omitempty" dynamodbav:"mediaRef,omitempty"`
	SourceKey   string  `json:"-" dynamodbav:"sourceKey"`
	CreatedAt   string  `json:"createdAt" dynamodbav:"createdAt"`
}
