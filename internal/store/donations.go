package store

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mickiefender/campaign-website/internal/models"
)

// DonationStore owns the donations collection. Status transitions go
// through TransitionStatus only, which enforces the terminal-state
// rules with a single conditional update; there is no in-process
// locking anywhere in the reconciliation path.
type DonationStore struct {
	collection *mongo.Collection
}

func NewDonationStore(db *mongo.Database) *DonationStore {
	return &DonationStore{collection: db.Collection("donations")}
}

// EnsureIndexes creates the indexes the reconciliation and admin
// queries depend on.
func (s *DonationStore) EnsureIndexes(ctx context.Context) error {
	indexModels := []mongo.IndexModel{
		{Keys: bson.M{"transaction_reference": 1}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.M{"created_at": -1}},
	}
	_, err := s.collection.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		log.Printf("Failed to create donation indexes: %v", err)
		return fmt.Errorf("failed to create donation indexes: %v", err)
	}
	return nil
}

// Create inserts a new donation in pending status and returns its ID.
func (s *DonationStore) Create(ctx context.Context, donation *models.Donation) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	donation.ID = primitive.NewObjectID()
	donation.Status = models.StatusPending
	donation.CreatedAt = time.Now()
	donation.UpdatedAt = donation.CreatedAt

	if _, err := s.collection.InsertOne(ctx, donation); err != nil {
		log.Printf("Failed to save donation: %v", err)
		return "", fmt.Errorf("failed to save donation: %v", err)
	}
	return donation.ID.Hex(), nil
}

// FindByReference resolves a donation by exact match on its stored
// transaction reference. A missing donation is (nil, nil), not an
// error; replayed or malformed references are expected traffic.
func (s *DonationStore) FindByReference(ctx context.Context, ref string) (*models.Donation, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var donation models.Donation
	err := s.collection.FindOne(ctx, bson.M{"transaction_reference": ref}).Decode(&donation)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		log.Printf("Failed to fetch donation for reference %s: %v", ref, err)
		return nil, fmt.Errorf("failed to fetch donation: %v", err)
	}
	return &donation, nil
}

// FindByID retrieves a donation by its hex ObjectID.
func (s *DonationStore) FindByID(ctx context.Context, id string) (*models.Donation, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid donation_id format: %v", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var donation models.Donation
	err = s.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&donation)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		log.Printf("Failed to fetch donation %s: %v", id, err)
		return nil, fmt.Errorf("failed to fetch donation: %v", err)
	}
	return &donation, nil
}

// TransitionStatus applies a guarded status transition as one atomic
// FindOneAndUpdate. The filter encodes the state machine rules:
//
//   - completed may overwrite any non-completed status (including the
//     cancelled-to-completed promotion)
//   - pending may only re-stamp a still-pending donation
//   - cancelled and failed may overwrite anything except completed
//
// ref and note are optional; when non-empty they stamp the transaction
// reference and the operator-visible status message. The bool result is
// false when the guard filtered the document out, which is how a caller
// learns it lost a race to a more final state (or that the donation
// does not exist); it then re-reads and short-circuits.
func (s *DonationStore) TransitionStatus(ctx context.Context, id string, to models.DonationStatus, ref, note string) (*models.Donation, bool, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, false, fmt.Errorf("invalid donation_id format: %v", err)
	}
	if !to.Valid() {
		return nil, false, fmt.Errorf("invalid target status %q", to)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"_id": objID}
	switch to {
	case models.StatusPending:
		filter["status"] = models.StatusPending
	default:
		filter["status"] = bson.M{"$ne": models.StatusCompleted}
	}

	set := bson.M{
		"status":     to,
		"updated_at": time.Now(),
	}
	if ref != "" {
		set["transaction_reference"] = ref
	}
	if note != "" {
		set["status_message"] = note
	}

	var updated models.Donation
	err = s.collection.FindOneAndUpdate(
		ctx,
		filter,
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err == mongo.ErrNoDocuments {
		return nil, false, nil
	}
	if err != nil {
		log.Printf("Failed to transition donation %s to %s: %v", id, to, err)
		return nil, false, fmt.Errorf("failed to update donation: %v", err)
	}

	log.Printf("Donation %s transitioned to %s", id, to)
	return &updated, true, nil
}

// ListOptions filters the admin donation listing.
type ListOptions struct {
	Page   int
	Limit  int
	Status string
	Search string
}

// List returns a page of donations, newest first, plus the total count
// for the active filter.
func (s *DonationStore) List(ctx context.Context, opts ListOptions) ([]models.Donation, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit < 1 {
		opts.Limit = 10
	}

	query := bson.M{}
	if opts.Status != "" && opts.Status != "all" {
		if !models.DonationStatus(opts.Status).Valid() {
			return nil, 0, fmt.Errorf("invalid status filter %q", opts.Status)
		}
		query["status"] = opts.Status
	}
	if opts.Search != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(opts.Search), Options: "i"}
		query["$or"] = bson.A{
			bson.M{"full_name": pattern},
			bson.M{"email": pattern},
		}
	}

	total, err := s.collection.CountDocuments(ctx, query)
	if err != nil {
		log.Printf("Failed to count donations: %v", err)
		return nil, 0, fmt.Errorf("failed to count donations: %v", err)
	}

	findOpts := options.Find().
		SetSort(bson.M{"created_at": -1}).
		SetSkip(int64((opts.Page - 1) * opts.Limit)).
		SetLimit(int64(opts.Limit))

	cur, err := s.collection.Find(ctx, query, findOpts)
	if err != nil {
		log.Printf("Failed to fetch donations: %v", err)
		return nil, 0, fmt.Errorf("failed to fetch donations: %v", err)
	}
	defer cur.Close(ctx)

	donations := make([]models.Donation, 0, opts.Limit)
	if err := cur.All(ctx, &donations); err != nil {
		log.Printf("Failed to decode donations: %v", err)
		return nil, 0, fmt.Errorf("failed to decode donations: %v", err)
	}
	return donations, total, nil
}

// DonationSummary is the slim projection the dashboard stats read.
type DonationSummary struct {
	Amount    float64               `bson:"amount"`
	Status    models.DonationStatus `bson:"status"`
	CreatedAt time.Time             `bson:"created_at"`
}

// Summaries returns amount/status/created_at for every donation.
func (s *DonationStore) Summaries(ctx context.Context) ([]DonationSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	projection := bson.M{"amount": 1, "status": 1, "created_at": 1}
	cur, err := s.collection.Find(ctx, bson.M{}, options.Find().SetProjection(projection))
	if err != nil {
		log.Printf("Failed to fetch donation summaries: %v", err)
		return nil, fmt.Errorf("failed to fetch donation summaries: %v", err)
	}
	defer cur.Close(ctx)

	var summaries []DonationSummary
	if err := cur.All(ctx, &summaries); err != nil {
		return nil, fmt.Errorf("failed to decode donation summaries: %v", err)
	}
	return summaries, nil
}
