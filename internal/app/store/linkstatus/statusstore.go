// internal/app/store/linkstatus/statusstore.go
package linkstatusstore

import (
	"context"

	"github.com/dalemusser/lessondesk/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("link_status")}
}

// Upsert writes one health row keyed by URL, replacing any previous check
// result for that URL.
func (s *Store) Upsert(ctx context.Context, row models.LinkStatus) error {
	update := bson.M{"$set": bson.M{
		"healthy":      row.Healthy,
		"status_code":  row.StatusCode,
		"status_text":  row.StatusText,
		"last_checked": row.LastChecked,
		"last_error":   row.LastError,
	}}
	opts := options.Update().SetUpsert(true)
	_, err := s.c.UpdateOne(ctx, bson.M{"url": row.URL}, update, opts)
	return err
}

// GetByURLs returns the recorded rows for the given URLs in one query.
// URLs with no row are simply absent from the result; callers treat
// absence as healthy.
func (s *Store) GetByURLs(ctx context.Context, urls []string) ([]models.LinkStatus, error) {
	if len(urls) == 0 {
		return nil, nil
	}
	cur, err := s.c.Find(ctx, bson.M{"url": bson.M{"$in": urls}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.LinkStatus
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
