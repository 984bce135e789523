// Package store owns the entries collection. Every operation is scoped by
// the owner id from the verified token, so a key belonging to another user
// resolves as not-found rather than forbidden.
package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/homi-app/homi-backend/internal/apperrors"
	"github.com/homi-app/homi-backend/internal/database"
	"github.com/homi-app/homi-backend/internal/models"
)

const (
	collectionName = "entries"

	// DefaultListLimit applies when no limit query param is given.
	DefaultListLimit = 20
	// MaxListLimit caps a single page.
	MaxListLimit = 100
)

// EntryStore performs owner-scoped CRUD on journal entries over the cached
// Mongo connection.
type EntryStore struct{}

func NewEntryStore() *EntryStore {
	return &EntryStore{}
}

// Insert creates an entry with a server-set creation timestamp and returns
// the new id.
func (s *EntryStore) Insert(ctx context.Context, ownerID, text string, ai *models.AIResult) (string, error) {
	db, err := database.Mongo(ctx)
	if err != nil {
		return "", apperrors.ErrStoreUnavailable
	}

	entry := models.Entry{
		ID:        primitive.NewObjectID(),
		UserID:    ownerID,
		Entry:     text,
		AI:        ai,
		CreatedAt: time.Now(),
	}

	if _, err := db.Collection(collectionName).InsertOne(ctx, entry); err != nil {
		return "", err
	}
	return entry.ID.Hex(), nil
}

// List returns the owner's entries sorted by creation time descending.
// limit is clamped to [1, MaxListLimit].
func (s *EntryStore) List(ctx context.Context, ownerID string, limit int) ([]models.Entry, error) {
	db, err := database.Mongo(ctx)
	if err != nil {
		return nil, apperrors.ErrStoreUnavailable
	}

	limit = ClampLimit(limit)

	findOptions := options.Find()
	findOptions.SetSort(bson.M{"createdAt": -1})
	findOptions.SetLimit(int64(limit))

	cursor, err := db.Collection(collectionName).Find(ctx, bson.M{"userId": ownerID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	entries := make([]models.Entry, 0, limit)
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// Update replaces the entry text and stamps updatedAt. Matches on both id
// and owner; a mismatched owner is reported as ErrNotFound.
func (s *EntryStore) Update(ctx context.Context, ownerID, id, text string) error {
	db, err := database.Mongo(ctx)
	if err != nil {
		return apperrors.ErrStoreUnavailable
	}

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperrors.ErrNotFound
	}

	result, err := db.Collection(collectionName).UpdateOne(ctx,
		bson.M{"_id": objectID, "userId": ownerID},
		bson.M{"$set": bson.M{"entry": text, "updatedAt": time.Now()}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// Delete removes the entry. Same ownership-matching rule as Update.
func (s *EntryStore) Delete(ctx context.Context, ownerID, id string) error {
	db, err := database.Mongo(ctx)
	if err != nil {
		return apperrors.ErrStoreUnavailable
	}

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperrors.ErrNotFound
	}

	result, err := db.Collection(collectionName).DeleteOne(ctx, bson.M{"_id": objectID, "userId": ownerID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// ClampLimit bounds a requested page size to [1, MaxListLimit].
func ClampLimit(limit int) int {
	if limit < 1 {
		return 1
	}
	if limit > MaxListLimit {
		return MaxListLimit
	}
	return limit
}
