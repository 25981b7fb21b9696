package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LinkStatus is one health-check row, keyed by URL. Rows are written by the
// link checker worker and read by the link health lookup; a URL with no row
// is treated as healthy (absence is not failure).
type LinkStatus struct {
	ID  primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	URL string             `bson:"url" json:"url"`

	Healthy    bool   `bson:"healthy" json:"healthy"`
	StatusCode int    `bson:"status_code,omitempty" json:"status_code,omitempty"`
	StatusText string `bson:"status_text,omitempty" json:"status_text,omitempty"`

	LastChecked time.Time `bson:"last_checked" json:"last_checked"`
	LastError   string    `bson:"last_error,omitempty" json:"last_error,omitempty"`
}

// HealthyStatus returns the advisory default for a URL with no recorded row.
func HealthyStatus(url string) LinkStatus {
	return LinkStatus{URL: url, Healthy: true}
}
