package store

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mickiefender/campaign-website/internal/models"
)

type ContactStore struct {
	collection *mongo.Collection
}

func NewContactStore(db *mongo.Database) *ContactStore {
	return &ContactStore{collection: db.Collection("contact_messages")}
}

// Create inserts a contact message and returns its ID.
func (s *ContactStore) Create(ctx context.Context, msg *models.ContactMessage) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	msg.ID = primitive.NewObjectID()
	msg.Status = "new"
	msg.CreatedAt = time.Now()

	if _, err := s.collection.InsertOne(ctx, msg); err != nil {
		log.Printf("Failed to save contact message: %v", err)
		return "", fmt.Errorf("failed to save contact message: %v", err)
	}
	return msg.ID.Hex(), nil
}

// Count returns the number of messages created since the given time;
// the zero time counts everything.
func (s *ContactStore) Count(ctx context.Context, since time.Time) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	query := bson.M{}
	if !since.IsZero() {
		query["created_at"] = bson.M{"$gte": since}
	}
	return s.collection.CountDocuments(ctx, query)
}
