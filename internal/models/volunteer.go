package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Volunteer represents a volunteer signup document in the MongoDB database
type Volunteer struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FullName        string             `bson:"full_name" json:"full_name"`
	Email           string             `bson:"email" json:"email"`
	Phone           string             `bson:"phone" json:"phone"`
	Region          string             `bson:"region" json:"region"`
	Address         string             `bson:"address,omitempty" json:"address,omitempty"`
	City            string             `bson:"city,omitempty" json:"city,omitempty"`
	Skills          []string           `bson:"skills" json:"skills"`
	Availability    string             `bson:"availability" json:"availability"`
	InterestedRoles []string           `bson:"interested_roles" json:"interested_roles"`
	Status          string             `bson:"status" json:"status"`
	CreatedAt       time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time          `bson:"updated_at" json:"updated_at"`
}
