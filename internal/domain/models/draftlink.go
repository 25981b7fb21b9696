package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DraftLink is one synchronized resource-link row, written as a side effect
// of a successful autosave. The (DraftID, StepID, URL) triple is the natural
// key: re-attaching the same URL to the same step overwrites its row rather
// than duplicating it. Rows are never deleted by the sync pass; LastSynced
// lets a cleanup job identify stale rows later.
type DraftLink struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	DraftID primitive.ObjectID `bson:"draft_id" json:"draft_id"`
	StepID  string             `bson:"step_id" json:"step_id"`
	URL     string             `bson:"url" json:"url"`

	Label string `bson:"label,omitempty" json:"label,omitempty"`

	LastSynced time.Time `bson:"last_synced" json:"last_synced"`
}
