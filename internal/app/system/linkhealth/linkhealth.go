// Package linkhealth answers "is this URL still good?" for annotation and
// export. Results are advisory and read-only: they never mutate a draft.
package linkhealth

import (
	"context"

	"github.com/dalemusser/lessondesk/internal/domain/models"
)

// StatusStore fetches recorded health rows for a batch of URLs. URLs with
// no row are simply absent from the result.
type StatusStore interface {
	GetByURLs(ctx context.Context, urls []string) ([]models.LinkStatus, error)
}

// Service batches URL lookups against the health index.
type Service struct {
	store StatusStore
}

// New builds the lookup service.
func New(store StatusStore) *Service {
	return &Service{store: store}
}

// Lookup de-duplicates urls and returns a URL→status map from one batched
// query. An empty input returns an empty map without touching the store.
// URLs with no recorded status are left out of the map; use StatusFor to
// read with the healthy-by-default rule.
func (s *Service) Lookup(ctx context.Context, urls []string) (map[string]models.LinkStatus, error) {
	out := make(map[string]models.LinkStatus)
	if len(urls) == 0 {
		return out, nil
	}

	seen := make(map[string]bool, len(urls))
	distinct := urls[:0:0]
	for _, u := range urls {
		if u == "" || seen[u] {
			continue
		}
		seen[u] = true
		distinct = append(distinct, u)
	}
	if len(distinct) == 0 {
		return out, nil
	}

	rows, err := s.store.GetByURLs(ctx, distinct)
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.URL] = row
	}
	return out, nil
}

// StatusFor reads a URL from a lookup result, treating absence as healthy.
func StatusFor(statuses map[string]models.LinkStatus, url string) models.LinkStatus {
	if st, ok := statuses[url]; ok {
		return st
	}
	return models.HealthyStatus(url)
}

// DraftURLs collects every attached resource URL across a draft's steps, in
// step/resource order, without duplicates.
func DraftURLs(d models.Draft) []string {
	var urls []string
	seen := make(map[string]bool)
	for _, step := range d.Steps {
		for _, link := range step.Resources {
			if link.URL == "" || seen[link.URL] {
				continue
			}
			seen[link.URL] = true
			urls = append(urls, link.URL)
		}
	}
	return urls
}
