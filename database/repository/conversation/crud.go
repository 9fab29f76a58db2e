package conversationRepo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"calbot/models"
)

// Create inserts a new conversation record and returns its ID.
func (r *mongoConversationRepo) Create(ctx context.Context, record models.ConversationRecord) (string, error) {
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	record.CreatedAt = time.Now()

	_, err := r.coll.InsertOne(ctx, record)
	if err != nil {
		return "", err
	}
	return record.ID, nil
}

// GetByID returns a conversation record by its ID.
func (r *mongoConversationRepo) GetByID(ctx context.Context, id string) (*models.ConversationRecord, error) {
	var record models.ConversationRecord
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&record)
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// GetByUserID fetches all archived runs for a user, newest first.
func (r *mongoConversationRepo) GetByUserID(ctx context.Context, userID string) ([]models.ConversationRecord, error) {
	opts := options.Find().SetSort(bson.M{"created_at": -1})
	cursor, err := r.coll.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []models.ConversationRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// DeleteByID removes a conversation record by ID.
func (r *mongoConversationRepo) DeleteByID(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return errors.New("conversation record not found")
	}
	return nil
}
