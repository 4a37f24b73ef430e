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

type AdminStore struct {
	collection *mongo.Collection
}

func NewAdminStore(db *mongo.Database) *AdminStore {
	return &AdminStore{collection: db.Collection("admin_users")}
}

// Create inserts an admin user and returns its ID.
func (s *AdminStore) Create(ctx context.Context, admin *models.AdminUser) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	admin.ID = primitive.NewObjectID()
	if admin.Role == "" {
		admin.Role = "admin"
	}
	admin.CreatedAt = time.Now()

	if _, err := s.collection.InsertOne(ctx, admin); err != nil {
		log.Printf("Failed to save admin user: %v", err)
		return "", fmt.Errorf("failed to save admin user: %v", err)
	}
	return admin.ID.Hex(), nil
}

// FindByEmail returns (nil, nil) when no admin has the given email.
func (s *AdminStore) FindByEmail(ctx context.Context, email string) (*models.AdminUser, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var admin models.AdminUser
	err := s.collection.FindOne(ctx, bson.M{"email": email}).Decode(&admin)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch admin user: %v", err)
	}
	return &admin, nil
}

// Count returns how many admin accounts exist.
func (s *AdminStore) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return s.collection.CountDocuments(ctx, bson.M{})
}
