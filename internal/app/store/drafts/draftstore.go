// internal/app/store/drafts/draftstore.go
package draftstore

import (
	"context"
	"time"

	"github.com/dalemusser/lessondesk/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("drafts")}
}

// Upsert writes the full draft payload keyed by its id, inserting or
// replacing unconditionally (last write wins; there is a single logical
// writer per draft, so no concurrency token is read or checked).
func (s *Store) Upsert(ctx context.Context, d models.Draft) error {
	if d.ID.IsZero() {
		return mongo.ErrNilDocument
	}
	if d.UpdatedAt.IsZero() {
		d.UpdatedAt = time.Now().UTC()
	}

	opts := options.Replace().SetUpsert(true)
	_, err := s.c.ReplaceOne(ctx, bson.M{"_id": d.ID}, d, opts)
	return err
}

// GetByID returns a draft by its id.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Draft, error) {
	var d models.Draft
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&d)
	if err != nil {
		return models.Draft{}, err
	}
	return normalize(d), nil
}

// GetLatestByOwner returns the owner's most recently updated draft, or
// mongo.ErrNoDocuments when the owner has none yet.
func (s *Store) GetLatestByOwner(ctx context.Context, owner string) (models.Draft, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "updated_at", Value: -1}})
	var d models.Draft
	err := s.c.FindOne(ctx, bson.M{"owner": owner}, opts).Decode(&d)
	if err != nil {
		return models.Draft{}, err
	}
	return normalize(d), nil
}

// ListByOwner returns all of an owner's drafts, newest first.
func (s *Store) ListByOwner(ctx context.Context, owner string) ([]models.Draft, error) {
	opts := options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{"owner": owner}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Draft
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	for i := range out {
		out[i] = normalize(out[i])
	}
	return out, nil
}

// normalize repairs the optional shapes a stored row may come back with, so
// untyped nils never leak past the store boundary: a draft always has a
// non-nil step list and every step a non-nil resource list.
func normalize(d models.Draft) models.Draft {
	if d.Steps == nil {
		d.Steps = []models.Step{}
	}
	for i := range d.Steps {
		if d.Steps[i].Resources == nil {
			d.Steps[i].Resources = []models.ResourceLink{}
		}
	}
	return d
}
