// internal/app/store/draftlinks/linkstore.go
package draftlinkstore

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
	return &Store{c: db.Collection("draft_links")}
}

// Upsert writes one synchronized link row. The (draft_id, step_id, url)
// triple is the natural key: an existing row for the triple has its label
// and last_synced refreshed in place rather than gaining a duplicate.
func (s *Store) Upsert(ctx context.Context, row models.DraftLink) error {
	filter := bson.M{
		"draft_id": row.DraftID,
		"step_id":  row.StepID,
		"url":      row.URL,
	}
	update := bson.M{"$set": bson.M{
		"label":       row.Label,
		"last_synced": row.LastSynced,
	}}
	opts := options.Update().SetUpsert(true)
	_, err := s.c.UpdateOne(ctx, filter, update, opts)
	return err
}

// ListByDraft returns all synchronized rows for a draft.
func (s *Store) ListByDraft(ctx context.Context, draftID primitive.ObjectID) ([]models.DraftLink, error) {
	cur, err := s.c.Find(ctx, bson.M{"draft_id": draftID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.DraftLink
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CountStale returns how many rows were last refreshed before the cutoff.
func (s *Store) CountStale(ctx context.Context, cutoff time.Time) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"last_synced": bson.M{"$lt": cutoff}})
}

// DistinctURLs returns every URL currently referenced by any synced row.
// The link checker sweeps this set.
func (s *Store) DistinctURLs(ctx context.Context) ([]string, error) {
	vals, err := s.c.Distinct(ctx, "url", bson.M{})
	if err != nil {
		return nil, err
	}
	urls := make([]string, 0, len(vals))
	for _, v := range vals {
		if u, ok := v.(string); ok && u != "" {
			urls = append(urls, u)
		}
	}
	return urls, nil
}
