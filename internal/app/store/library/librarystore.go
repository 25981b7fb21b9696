// internal/app/store/library/librarystore.go
package librarystore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dalemusser/lessondesk/internal/app/system/htmlsanitize"
	"github.com/dalemusser/lessondesk/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/dalemusser/waffle/pantry/urlutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

var ErrDuplicateTitle = errors.New("a resource with this title already exists")

// DefaultPageSize is the search page size for the picker list.
const DefaultPageSize = 10

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("resources")}
}

// Create inserts a new library resource, setting TitleCI/SubjectCI and
// timestamps and sanitizing the rich-text fields. It lightly validates the
// URL, Status, and Type.
func (s *Store) Create(ctx context.Context, r models.Resource) (models.Resource, error) {
	now := time.Now().UTC()

	r.ID = primitive.NewObjectID()
	r.TitleCI = text.Fold(r.Title)
	if r.Subject != "" {
		r.SubjectCI = text.Fold(r.Subject)
	}
	if r.Status == "" {
		r.Status = "active"
	}
	if r.Type == "" {
		r.Type = models.DefaultResourceType
	}
	r.Description = htmlsanitize.Sanitize(r.Description)
	r.InstructionalNotes = htmlsanitize.Sanitize(r.InstructionalNotes)
	r.CreatedAt = now
	r.UpdatedAt = &now

	if strings.TrimSpace(r.Title) == "" {
		return models.Resource{}, mongo.CommandError{Message: "title is required"}
	}
	if !urlutil.IsValidAbsHTTPURL(r.URL) {
		return models.Resource{}, mongo.CommandError{Message: "url must be a valid http(s) URL"}
	}
	if !models.IsValidResourceType(r.Type) {
		return models.Resource{}, mongo.CommandError{Message: "type is not a recognized resource type"}
	}

	_, err := s.c.InsertOne(ctx, r)
	if err != nil {
		if wafflemongo.IsDup(err) {
			return models.Resource{}, ErrDuplicateTitle
		}
		return models.Resource{}, err
	}
	return r, nil
}

// Update modifies mutable fields and refreshes UpdatedAt.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, mut models.Resource) error {
	set := bson.M{}
	if strings.TrimSpace(mut.Title) != "" {
		set["title"] = mut.Title
		set["title_ci"] = text.Fold(mut.Title)
	}
	// Subject, description, tags, and notes can be cleared.
	set["subject"] = mut.Subject
	set["subject_ci"] = text.Fold(mut.Subject)
	set["description"] = htmlsanitize.Sanitize(mut.Description)
	set["instructional_notes"] = htmlsanitize.Sanitize(mut.InstructionalNotes)
	set["tags"] = mut.Tags
	set["stage"] = mut.Stage
	set["grade_level"] = mut.GradeLevel
	set["format"] = mut.Format

	if mut.URL != "" {
		if !urlutil.IsValidAbsHTTPURL(mut.URL) {
			return mongo.CommandError{Message: "url must be a valid http(s) URL"}
		}
		set["url"] = mut.URL
	}
	if mut.Status != "" {
		set["status"] = mut.Status
	}
	if strings.TrimSpace(mut.Type) != "" {
		if !models.IsValidResourceType(mut.Type) {
			return mongo.CommandError{Message: "type is not a recognized resource type"}
		}
		set["type"] = mut.Type
	}
	set["updated_at"] = time.Now().UTC()

	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		if wafflemongo.IsDup(err) {
			return ErrDuplicateTitle
		}
		return err
	}
	return nil
}

// GetByID returns one resource with all detail fields (including long-form
// instructional notes).
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Resource, error) {
	var r models.Resource
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&r)
	if err != nil {
		return models.Resource{}, err
	}
	return r, nil
}

// Search runs one filtered page query and the matching count. Pages are
// 1-based and sorted by (title_ci, _id) ascending, so positions are stable
// for a fixed filter; anchor (when non-zero) pins the result set to
// resources created at or before it, keeping rows inserted mid-session from
// shifting pages a picker has already loaded.
func (s *Store) Search(ctx context.Context, f models.FilterState, page, pageSize int, anchor time.Time) ([]models.Resource, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	filter := buildFilter(f, anchor)

	total, err := s.c.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	find := options.Find().
		SetSort(bson.D{{Key: "title_ci", Value: 1}, {Key: "_id", Value: 1}}).
		SetSkip(int64(page-1) * int64(pageSize)).
		SetLimit(int64(pageSize))

	cur, err := s.c.Find(ctx, filter, find)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	var items []models.Resource
	if err := cur.All(ctx, &items); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// buildFilter translates a FilterState into a Mongo filter: OR within a
// category, AND across categories, active resources only.
func buildFilter(f models.FilterState, anchor time.Time) bson.M {
	filter := bson.M{"status": "active"}

	if lo, hi := text.PrefixRange(f.Search); lo != "" {
		filter["$or"] = []bson.M{
			{"title_ci": bson.M{"$gte": lo, "$lt": hi}},
			{"subject_ci": bson.M{"$gte": lo, "$lt": hi}},
			{"tags": f.Search},
		}
	}
	if len(f.Types) > 0 {
		filter["type"] = bson.M{"$in": f.Types}
	}
	if len(f.Subjects) > 0 {
		folded := make([]string, 0, len(f.Subjects))
		for _, sub := range f.Subjects {
			folded = append(folded, text.Fold(sub))
		}
		filter["subject_ci"] = bson.M{"$in": folded}
	}
	if len(f.Stages) > 0 {
		filter["stage"] = bson.M{"$in": f.Stages}
	}
	if len(f.Tags) > 0 {
		filter["tags"] = bson.M{"$in": f.Tags}
	}
	if !anchor.IsZero() {
		filter["created_at"] = bson.M{"$lte": anchor}
	}

	return filter
}
