package conversationRepo

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"

	"calbot/database"
	"calbot/models"
)

// Repository archives completed pipeline runs.
type Repository interface {
	Create(ctx context.Context, record models.ConversationRecord) (string, error)
	GetByID(ctx context.Context, id string) (*models.ConversationRecord, error)
	GetByUserID(ctx context.Context, userID string) ([]models.ConversationRecord, error)
	DeleteByID(ctx context.Context, id string) error
}

type mongoConversationRepo struct {
	coll *mongo.Collection
}

// NewMongoConversationRepo returns a Repository backed by MongoDB.
func NewMongoConversationRepo() Repository {
	db := database.MongoClient.Database("calbot")
	return &mongoConversationRepo{
		coll: db.Collection("conversations"),
	}
}
