package workers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	draftlinkstore "github.com/dalemusser/lessondesk/internal/app/store/draftlinks"
	linkstatusstore "github.com/dalemusser/lessondesk/internal/app/store/linkstatus"
	"github.com/dalemusser/lessondesk/internal/app/system/workers"
	"github.com/dalemusser/lessondesk/internal/domain/models"
	"github.com/dalemusser/lessondesk/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func TestSweepRecordsProbeResults(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok":
			w.WriteHeader(http.StatusOK)
		case "/gone":
			w.WriteHeader(http.StatusNotFound)
		case "/no-head":
			// Rejects HEAD; the prober should fall back to GET.
			if r.Method == http.MethodHead {
				w.WriteHeader(http.StatusMethodNotAllowed)
				return
			}
			w.WriteHeader(http.StatusOK)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer srv.Close()

	links := draftlinkstore.New(db)
	statuses := linkstatusstore.New(db)
	draftID := primitive.NewObjectID()

	for _, path := range []string{"/ok", "/gone", "/no-head"} {
		row := models.DraftLink{
			DraftID:    draftID,
			StepID:     "step-1",
			URL:        srv.URL + path,
			LastSynced: time.Now().UTC(),
		}
		if err := links.Upsert(ctx, row); err != nil {
			t.Fatalf("seed link failed: %v", err)
		}
	}

	w := workers.NewLinkCheck(links, statuses, zap.NewNop(), time.Hour, 5*time.Second)
	w.Sweep(ctx)

	rows, err := statuses.GetByURLs(ctx, []string{srv.URL + "/ok", srv.URL + "/gone", srv.URL + "/no-head"})
	if err != nil {
		t.Fatalf("status lookup failed: %v", err)
	}
	byURL := make(map[string]models.LinkStatus, len(rows))
	for _, r := range rows {
		byURL[r.URL] = r
	}
	if len(byURL) != 3 {
		t.Fatalf("every swept url should have a status row, got %d", len(byURL))
	}

	if st := byURL[srv.URL+"/ok"]; !st.Healthy || st.StatusCode != http.StatusOK {
		t.Errorf("reachable url should be healthy, got %+v", st)
	}
	if st := byURL[srv.URL+"/gone"]; st.Healthy || st.StatusCode != http.StatusNotFound || st.LastError == "" {
		t.Errorf("404 url should be unhealthy with an error, got %+v", st)
	}
	if st := byURL[srv.URL+"/no-head"]; !st.Healthy || st.StatusCode != http.StatusOK {
		t.Errorf("HEAD-rejecting url should pass via GET, got %+v", st)
	}
}

func TestSweepUnreachableHost(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	links := draftlinkstore.New(db)
	statuses := linkstatusstore.New(db)

	dead := "http://127.0.0.1:1/unreachable"
	row := models.DraftLink{
		DraftID:    primitive.NewObjectID(),
		StepID:     "step-1",
		URL:        dead,
		LastSynced: time.Now().UTC(),
	}
	if err := links.Upsert(ctx, row); err != nil {
		t.Fatalf("seed link failed: %v", err)
	}

	w := workers.NewLinkCheck(links, statuses, zap.NewNop(), time.Hour, 2*time.Second)
	w.Sweep(ctx)

	rows, err := statuses.GetByURLs(ctx, []string{dead})
	if err != nil {
		t.Fatalf("status lookup failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("unreachable url should still get a row, got %d", len(rows))
	}
	if rows[0].Healthy || rows[0].LastError == "" {
		t.Errorf("connection failure should be unhealthy with an error, got %+v", rows[0])
	}
}
