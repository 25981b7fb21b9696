package linkhealth_test

import (
	"context"
	"errors"
	"testing"

	"github.com/dalemusser/lessondesk/internal/app/system/linkhealth"
	"github.com/dalemusser/lessondesk/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeStatusStore struct {
	rows  []models.LinkStatus
	err   error
	calls [][]string
}

func (f *fakeStatusStore) GetByURLs(ctx context.Context, urls []string) ([]models.LinkStatus, error) {
	f.calls = append(f.calls, urls)
	return f.rows, f.err
}

func TestLookupEmptyInputSkipsStore(t *testing.T) {
	store := &fakeStatusStore{}
	svc := linkhealth.New(store)

	got, err := svc.Lookup(context.Background(), nil)
	if err != nil {
		t.Fatalf("empty lookup errored: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty map, got %v", got)
	}
	if len(store.calls) != 0 {
		t.Error("empty input must not reach the store")
	}

	// All-blank input is equally trivial.
	got, err = svc.Lookup(context.Background(), []string{"", ""})
	if err != nil || len(got) != 0 || len(store.calls) != 0 {
		t.Errorf("blank-only input must not reach the store: %v %v", got, err)
	}
}

func TestLookupDeduplicates(t *testing.T) {
	store := &fakeStatusStore{
		rows: []models.LinkStatus{{URL: "https://a.example", Healthy: false, StatusText: "Not Found"}},
	}
	svc := linkhealth.New(store)

	got, err := svc.Lookup(context.Background(),
		[]string{"https://a.example", "https://a.example", "https://b.example"})
	if err != nil {
		t.Fatalf("lookup errored: %v", err)
	}
	if len(store.calls) != 1 {
		t.Fatalf("expected one batched query, got %d", len(store.calls))
	}
	if len(store.calls[0]) != 2 {
		t.Errorf("duplicates should collapse, queried %v", store.calls[0])
	}
	if st, ok := got["https://a.example"]; !ok || st.Healthy {
		t.Errorf("recorded row should come through: %+v", got)
	}
	if _, ok := got["https://b.example"]; ok {
		t.Error("URLs with no row stay absent from the map")
	}
}

func TestLookupStoreFailure(t *testing.T) {
	store := &fakeStatusStore{err: errors.New("down")}
	svc := linkhealth.New(store)

	if _, err := svc.Lookup(context.Background(), []string{"https://a.example"}); err == nil {
		t.Fatal("store failure should propagate")
	}
}

func TestStatusForHealthyByDefault(t *testing.T) {
	statuses := map[string]models.LinkStatus{
		"https://bad.example": {URL: "https://bad.example", Healthy: false, StatusCode: 404},
	}

	if st := linkhealth.StatusFor(statuses, "https://bad.example"); st.Healthy {
		t.Error("recorded unhealthy row must come through")
	}
	st := linkhealth.StatusFor(statuses, "https://unknown.example")
	if !st.Healthy {
		t.Error("absence must be treated as healthy")
	}
	if st.URL != "https://unknown.example" {
		t.Errorf("default carries the URL, got %q", st.URL)
	}
}

func TestDraftURLsOrderedDedup(t *testing.T) {
	shared := "https://shared.example"
	d := models.Draft{Steps: []models.Step{
		{ID: "a", Resources: []models.ResourceLink{
			{ID: "1", ResourceID: primitive.NewObjectID(), URL: "https://one.example"},
			{ID: "2", ResourceID: primitive.NewObjectID(), URL: shared},
		}},
		{ID: "b", Resources: []models.ResourceLink{
			{ID: "3", ResourceID: primitive.NewObjectID(), URL: shared},
			{ID: "4", ResourceID: primitive.NewObjectID(), URL: ""},
			{ID: "5", ResourceID: primitive.NewObjectID(), URL: "https://two.example"},
		}},
	}}

	got := linkhealth.DraftURLs(d)
	want := []string{"https://one.example", shared, "https://two.example"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}
