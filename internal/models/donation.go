package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DonationStatus is the canonical status vocabulary used internally,
// regardless of what the payment gateway calls things.
type DonationStatus string

const (
	StatusPending   DonationStatus = "pending"
	StatusCompleted DonationStatus = "completed"
	StatusCancelled DonationStatus = "cancelled"
	StatusFailed    DonationStatus = "failed"
)

// Valid reports whether s is one of the four canonical statuses.
func (s DonationStatus) Valid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusCancelled, StatusFailed:
		return true
	}
	return false
}

// Donation represents a donation document in the MongoDB database.
// Amount is in currency-major units (GHS cedis).
type Donation struct {
	ID                   primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FullName             string             `bson:"full_name" json:"full_name"`
	Email                string             `bson:"email" json:"email"`
	Phone                string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Amount               float64            `bson:"amount" json:"amount"`
	IsAnonymous          bool               `bson:"is_anonymous" json:"is_anonymous"`
	Message              string             `bson:"message,omitempty" json:"message,omitempty"`
	TransactionReference string             `bson:"transaction_reference,omitempty" json:"transaction_reference,omitempty"`
	Status               DonationStatus     `bson:"status" json:"status"`
	StatusMessage        string             `bson:"status_message,omitempty" json:"status_message,omitempty"`
	CreatedAt            time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt            time.Time          `bson:"updated_at" json:"updated_at"`
}
