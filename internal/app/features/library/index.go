// internal/app/features/library/index.go
package library

import (
	"context"
	"time"

	librarystore "github.com/dalemusser/lessondesk/internal/app/store/library"
	"github.com/dalemusser/lessondesk/internal/app/system/discovery"
	"github.com/dalemusser/lessondesk/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Index adapts the resource store to the discovery session boundary.
// Page size is fixed per index so every page of a filter session has the
// same shape.
type Index struct {
	store    *librarystore.Store
	pageSize int
}

// NewIndex builds an Index over the resources collection. pageSize <= 0
// falls back to the store default.
func NewIndex(db *mongo.Database, pageSize int) *Index {
	if pageSize <= 0 {
		pageSize = librarystore.DefaultPageSize
	}
	return &Index{store: librarystore.New(db), pageSize: pageSize}
}

func (ix *Index) Search(ctx context.Context, f models.FilterState, page int, anchor time.Time) (discovery.Page, error) {
	items, total, err := ix.store.Search(ctx, f, page, ix.pageSize, anchor)
	if err != nil {
		return discovery.Page{}, err
	}
	return discovery.Page{Items: items, Total: int(total)}, nil
}

func (ix *Index) Get(ctx context.Context, id primitive.ObjectID) (models.Resource, error) {
	return ix.store.GetByID(ctx, id)
}
