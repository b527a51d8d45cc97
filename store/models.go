// Package store holds the observation and location records and their bun
// repositories. The auth core only ever touches users (which live in the
// auth package); everything here is plain CRUD.
package store

import (
	"time"

	"github.com/uptrace/bun"
)

// Observation is a single recorded sighting. The location link is optional;
// free-standing coordinates are always present.
type Observation struct {
	bun.BaseModel `bun:"table:observations,alias:obs"`
	ID            int64      `bun:"id,pk,autoincrement" json:"id"`
	Species       string     `bun:"species,notnull" json:"species"`
	Date          time.Time  `bun:"date,notnull" json:"date"`
	Latitude      float64    `bun:"latitude,notnull" json:"latitude"`
	Longitude     float64    `bun:"longitude,notnull" json:"longitude"`
	Notes         *string    `bun:"notes" json:"notes,omitempty"`
	Category      string     `bun:"category,notnull" json:"category"`
	LocationID    *int64     `bun:"location_id" json:"location_id,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// Location is a named place observations can reference.
type Location struct {
	bun.BaseModel `bun:"table:locations,alias:loc"`
	ID            int64      `bun:"id,pk,autoincrement" json:"id"`
	Name          string     `bun:"name,notnull" json:"name"`
	Latitude      *float64   `bun:"latitude" json:"latitude,omitempty"`
	Longitude     *float64   `bun:"longitude" json:"longitude,omitempty"`
	Description   *string    `bun:"description" json:"description,omitempty"`
	Address       *string    `bun:"address" json:"address,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// LocationWithCount is the read model for location listings, carrying the
// number of observations referencing the location.
type LocationWithCount struct {
	Location
	ObservationCount int `json:"observation_count"`
}

// ObservationUpdate applies only the fields a client actually sent. Each
// present field is copied explicitly; there is no reflection-based merging.
type ObservationUpdate struct {
	Species    *string    `json:"species,omitempty"`
	Date       *time.Time `json:"date,omitempty"`
	Latitude   *float64   `json:"latitude,omitempty"`
	Longitude  *float64   `json:"longitude,omitempty"`
	Notes      *string    `json:"notes,omitempty"`
	Category   *string    `json:"category,omitempty"`
	LocationID *int64     `json:"location_id,omitempty"`
}

// Apply copies present fields onto the record.
func (u ObservationUpdate) Apply(record *Observation) {
	if u.Species != nil {
		record.Species = *u.Species
	}
	if u.Date != nil {
		record.Date = *u.Date
	}
	if u.Latitude != nil {
		record.Latitude = *u.Latitude
	}
	if u.Longitude != nil {
		record.Longitude = *u.Longitude
	}
	if u.Notes != nil {
		record.Notes = u.Notes
	}
	if u.Category != nil {
		record.Category = *u.Category
	}
	if u.LocationID != nil {
		record.LocationID = u.LocationID
	}
}

// LocationUpdate mirrors ObservationUpdate for locations.
type LocationUpdate struct {
	Name        *string  `json:"name,omitempty"`
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`
	Description *string  `json:"description,omitempty"`
	Address     *string  `json:"address,omitempty"`
}

// Apply copies present fields onto the record.
func (u LocationUpdate) Apply(record *Location) {
	if u.Name != nil {
		record.Name = *u.Name
	}
	if u.Latitude != nil {
		record.Latitude = u.Latitude
	}
	if u.Longitude != nil {
		record.Longitude = u.Longitude
	}
	if u.Description != nil {
		record.Description = u.Description
	}
	if u.Address != nil {
		record.Address = u.Address
	}
}
