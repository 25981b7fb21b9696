package draftlinkstore_test

import (
	"testing"
	"time"

	draftlinkstore "github.com/dalemusser/lessondesk/internal/app/store/draftlinks"
	"github.com/dalemusser/lessondesk/internal/domain/models"
	"github.com/dalemusser/lessondesk/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestUpsertKeyedByDraftStepURL(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := draftlinkstore.New(db)
	draftID := primitive.NewObjectID()

	first := models.DraftLink{
		DraftID:    draftID,
		StepID:     "step-1",
		URL:        "https://example.org/video",
		Label:      "Intro video",
		LastSynced: time.Now().UTC().Add(-time.Hour),
	}
	if err := store.Upsert(ctx, first); err != nil {
		t.Fatalf("first upsert failed: %v", err)
	}

	second := first
	second.Label = "Renamed video"
	second.LastSynced = time.Now().UTC()
	if err := store.Upsert(ctx, second); err != nil {
		t.Fatalf("second upsert failed: %v", err)
	}

	rows, err := store.ListByDraft(ctx, draftID)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("same (draft, step, url) must stay one row, got %d", len(rows))
	}
	if rows[0].Label != "Renamed video" {
		t.Errorf("upsert should refresh the label, got %q", rows[0].Label)
	}
	if rows[0].LastSynced.Before(second.LastSynced.Add(-time.Second)) {
		t.Errorf("upsert should refresh last_synced, got %v", rows[0].LastSynced)
	}

	// Same URL on a different step is a distinct row.
	third := first
	third.StepID = "step-2"
	if err := store.Upsert(ctx, third); err != nil {
		t.Fatalf("third upsert failed: %v", err)
	}
	rows, err = store.ListByDraft(ctx, draftID)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(rows) != 2 {
		t.Errorf("different step should create a second row, got %d", len(rows))
	}
}

func TestListByDraftScopesToDraft(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := draftlinkstore.New(db)
	mine := primitive.NewObjectID()
	theirs := primitive.NewObjectID()

	seed := []models.DraftLink{
		{DraftID: mine, StepID: "a", URL: "https://example.org/1", LastSynced: time.Now().UTC()},
		{DraftID: mine, StepID: "b", URL: "https://example.org/2", LastSynced: time.Now().UTC()},
		{DraftID: theirs, StepID: "a", URL: "https://example.org/3", LastSynced: time.Now().UTC()},
	}
	for _, l := range seed {
		if err := store.Upsert(ctx, l); err != nil {
			t.Fatalf("seed upsert failed: %v", err)
		}
	}

	rows, err := store.ListByDraft(ctx, mine)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(rows) != 2 {
		t.Errorf("expected 2 rows for the draft, got %d", len(rows))
	}
}

func TestDistinctURLsDeduplicates(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := draftlinkstore.New(db)
	d1 := primitive.NewObjectID()
	d2 := primitive.NewObjectID()

	seed := []models.DraftLink{
		{DraftID: d1, StepID: "a", URL: "https://example.org/shared", LastSynced: time.Now().UTC()},
		{DraftID: d2, StepID: "b", URL: "https://example.org/shared", LastSynced: time.Now().UTC()},
		{DraftID: d1, StepID: "a", URL: "https://example.org/only", LastSynced: time.Now().UTC()},
	}
	for _, l := range seed {
		if err := store.Upsert(ctx, l); err != nil {
			t.Fatalf("seed upsert failed: %v", err)
		}
	}

	urls, err := store.DistinctURLs(ctx)
	if err != nil {
		t.Fatalf("distinct failed: %v", err)
	}
	if len(urls) != 2 {
		t.Errorf("expected 2 distinct urls, got %d: %v", len(urls), urls)
	}
}

func TestCountStale(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := draftlinkstore.New(db)
	d := primitive.NewObjectID()

	old := models.DraftLink{DraftID: d, StepID: "a", URL: "https://example.org/old", LastSynced: time.Now().UTC().Add(-48 * time.Hour)}
	fresh := models.DraftLink{DraftID: d, StepID: "b", URL: "https://example.org/fresh", LastSynced: time.Now().UTC()}
	for _, l := range []models.DraftLink{old, fresh} {
		if err := store.Upsert(ctx, l); err != nil {
			t.Fatalf("seed upsert failed: %v", err)
		}
	}

	n, err := store.CountStale(ctx, time.Now().UTC().Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("count stale failed: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 stale row, got %d", n)
	}
}
