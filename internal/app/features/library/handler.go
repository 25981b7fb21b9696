// internal/app/features/library/handler.go
package library

import (
	"context"

	"github.com/dalemusser/lessondesk/internal/app/system/discovery"
	"go.uber.org/zap"
)

// SearchSource hands out the search session and detail panel for one
// identity. The editing session owns that state; the library endpoints are
// only a window onto it, so a picker reopened mid-edit sees the filters it
// had before closing.
type SearchSource interface {
	Search(ctx context.Context, owner string) (*discovery.Session, *discovery.DetailPanel, error)
}

// Handler owns the library-facing search and detail endpoints.
type Handler struct {
	Log *zap.Logger
	src SearchSource
}

// NewHandler constructs a library Handler over the given session source.
func NewHandler(src SearchSource, logger *zap.Logger) *Handler {
	return &Handler{Log: logger, src: src}
}
