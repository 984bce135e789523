package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AIResult holds the reflection produced for an entry: the full assistant
// text plus up to 3 follow-up questions extracted from it.
type AIResult struct {
	Content   string   `bson:"content" json:"content"`
	Questions []string `bson:"questions" json:"questions"`
}

// Entry is a single journal entry owned by a Firebase user.
// UserID is set from the verified token only and never changes.
type Entry struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    string             `bson:"userId" json:"userId"`
	Entry     string             `bson:"entry" json:"entry"`
	AI        *AIResult          `bson:"ai,omitempty" json:"ai,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt *time.Time         `bson:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}
