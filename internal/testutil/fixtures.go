package testutil

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/lessondesk/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateResource inserts a library resource with sensible defaults and the
// given title. Returns the stored record with its generated ID.
func (f *Fixtures) CreateResource(ctx context.Context, title string) models.Resource {
	f.t.Helper()

	now := time.Now().UTC()
	r := models.Resource{
		ID:        primitive.NewObjectID(),
		Title:     title,
		TitleCI:   text.Fold(title),
		URL:       fmt.Sprintf("https://example.org/resources/%s", primitive.NewObjectID().Hex()),
		Type:      models.ResourceTypeResource,
		Subject:   "Science",
		SubjectCI: text.Fold("Science"),
		Stage:     models.StageMiddle,
		Status:    "active",
		CreatedAt: now,
		UpdatedAt: &now,
	}

	if _, err := f.db.Collection("resources").InsertOne(ctx, r); err != nil {
		f.t.Fatalf("insert resource fixture: %v", err)
	}
	return r
}

// CreateDraft inserts a draft for the given owner with one empty step.
func (f *Fixtures) CreateDraft(ctx context.Context, owner, title string) models.Draft {
	f.t.Helper()

	d := models.Draft{
		ID:    primitive.NewObjectID(),
		Owner: owner,
		Title: title,
		Steps: []models.Step{{
			ID:        uuid.NewString(),
			Title:     "New step",
			Resources: []models.ResourceLink{},
		}},
		UpdatedAt: time.Now().UTC(),
	}

	if _, err := f.db.Collection("drafts").InsertOne(ctx, d); err != nil {
		f.t.Fatalf("insert draft fixture: %v", err)
	}
	return d
}

// CreateLinkStatus inserts a link health row for a URL.
func (f *Fixtures) CreateLinkStatus(ctx context.Context, url string, healthy bool, code int) models.LinkStatus {
	f.t.Helper()

	row := models.LinkStatus{
		ID:          primitive.NewObjectID(),
		URL:         url,
		Healthy:     healthy,
		StatusCode:  code,
		StatusText:  http.StatusText(code),
		LastChecked: time.Now().UTC(),
	}

	if _, err := f.db.Collection("link_status").InsertOne(ctx, row); err != nil {
		f.t.Fatalf("insert link status fixture: %v", err)
	}
	return row
}
