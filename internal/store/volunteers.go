package store

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mickiefender/campaign-website/internal/models"
)

type VolunteerStore struct {
	collection *mongo.Collection
}

func NewVolunteerStore(db *mongo.Database) *VolunteerStore {
	return &VolunteerStore{collection: db.Collection("volunteers")}
}

// Create inserts a volunteer signup and returns its ID.
func (s *VolunteerStore) Create(ctx context.Context, volunteer *models.Volunteer) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	volunteer.ID = primitive.NewObjectID()
	volunteer.Status = "pending"
	volunteer.CreatedAt = time.Now()
	volunteer.UpdatedAt = volunteer.CreatedAt
	if volunteer.Skills == nil {
		volunteer.Skills = []string{}
	}
	if volunteer.InterestedRoles == nil {
		volunteer.InterestedRoles = []string{}
	}

	if _, err := s.collection.InsertOne(ctx, volunteer); err != nil {
		log.Printf("Failed to save volunteer: %v", err)
		return "", fmt.Errorf("failed to save volunteer: %v", err)
	}
	return volunteer.ID.Hex(), nil
}

// VolunteerListOptions filters the admin volunteer listing.
type VolunteerListOptions struct {
	Page   int
	Limit  int
	Region string
	Status string
}

// List returns a page of volunteers, newest first, plus the total count.
func (s *VolunteerStore) List(ctx context.Context, opts VolunteerListOptions) ([]models.Volunteer, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit < 1 {
		opts.Limit = 10
	}

	query := bson.M{}
	if opts.Region != "" && opts.Region != "all" {
		query["region"] = opts.Region
	}
	if opts.Status != "" && opts.Status != "all" {
		query["status"] = opts.Status
	}

	total, err := s.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count volunteers: %v", err)
	}

	findOpts := options.Find().
		SetSort(bson.M{"created_at": -1}).
		SetSkip(int64((opts.Page - 1) * opts.Limit)).
		SetLimit(int64(opts.Limit))

	cur, err := s.collection.Find(ctx, query, findOpts)
	if err != nil {
		log.Printf("Failed to fetch volunteers: %v", err)
		return nil, 0, fmt.Errorf("failed to fetch volunteers: %v", err)
	}
	defer cur.Close(ctx)

	volunteers := make([]models.Volunteer, 0, opts.Limit)
	if err := cur.All(ctx, &volunteers); err != nil {
		return nil, 0, fmt.Errorf("failed to decode volunteers: %v", err)
	}
	return volunteers, total, nil
}

// RegionCount is one bar of the region chart.
type RegionCount struct {
	Region string `bson:"_id" json:"region"`
	Count  int64  `bson:"count" json:"count"`
}

// RegionStats groups volunteers by region, largest regions first.
func (s *VolunteerStore) RegionStats(ctx context.Context) ([]RegionCount, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":   bson.M{"$ifNull": bson.A{"$region", "Unknown"}},
			"count": bson.M{"$sum": 1},
		}}},
		{{Key: "$sort", Value: bson.M{"count": -1}}},
	}

	cur, err := s.collection.Aggregate(ctx, pipeline)
	if err != nil {
		log.Printf("Failed to aggregate region stats: %v", err)
		return nil, 0, fmt.Errorf("failed to aggregate region stats: %v", err)
	}
	defer cur.Close(ctx)

	stats := make([]RegionCount, 0)
	if err := cur.All(ctx, &stats); err != nil {
		return nil, 0, fmt.Errorf("failed to decode region stats: %v", err)
	}

	var total int64
	for _, rc := range stats {
		total += rc.Count
	}
	return stats, total, nil
}

// Count returns the number of volunteers created since the given time;
// the zero time counts everything.
func (s *VolunteerStore) Count(ctx context.Context, since time.Time) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	query := bson.M{}
	if !since.IsZero() {
		query["created_at"] = bson.M{"$gte": since}
	}
	return s.collection.CountDocuments(ctx, query)
}
