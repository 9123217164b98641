package models

// Story is a longer personal post ("humans of the cove"). When IsAnonymous
// is set the author's name is withheld from reads but AuthorID is still
// stored so the author keeps edit and delete rights.
type Story struct {
	CoveID      string `json:"coveId" dynamodbav:"coveId"`
	SK          string `json:"sk" dynamodbav:"sk"`
	ID          string `json:"id" dynamodbav:"id"`
	AuthorID    string `json:"authorId" dynamodbav:"authorId"`
	AuthorName  string `json:"authorName" dynamodbav:"authorName"`
	Content     string `json:"content" dynamodbav:"content"`
	IsAnonymous bool   `json:"isAnonymous" dynamodbav:"isAnonymous"`
	LikesCount  int    `json:"likesCount" dynamodbav:"likesCount"`
	SourceKey   string `json:"-" dynamodbav:"sourceKey"`
	CreatedAt   string `json:"createdAt" dynamodbav:"createdAt"`
}

// DisplayName returns the author name respecting anonymity
func (s Story) DisplayName() string {
	if s.IsAnonymous {
		return "Anonymous"
	}
	return s.AuthorName
}
