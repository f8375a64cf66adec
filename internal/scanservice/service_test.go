package scanservice

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/starford/kitscan/internal/apperr"
	"github.com/starford/kitscan/internal/catalog"
	"github.com/starford/kitscan/internal/models"
	"github.com/starford/kitscan/internal/scanner"
	"github.com/starford/kitscan/internal/testutil"
)

func testService(t *testing.T, withCatalog bool) *Service {
	t.Helper()
	_, store := testutil.TestTree(t, testutil.SampleTree)
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	sc := scanner.New(store, scanner.WithLogger(logger))

	var db *catalog.DB
	if withCatalog {
		f, err := os.CreateTemp("", "kitscan-svc-test-*.db")
		if err != nil {
			t.Fatal(err)
		}
		f.Close()
		t.Cleanup(func() { os.Remove(f.Name()) })
		db, err = catalog.Open(f.Name())
		if err != nil {
			t.Fatal(err)
		}
		t.Cleanup(func() { db.Close() })
	}
	return NewService(sc, db)
}

func TestScan_Selector(t *testing.T) {
	svc := testService(t, false)
	res, err := svc.Scan(context.Background(), "skills", false)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(res.Selected) != 1 || res.Selected[0] != models.CategorySkills || len(res.Skills) != 2 {
		t.Errorf("res = %+v", res)
	}

	if _, err := svc.Scan(context.Background(), "plugins", false); !errors.Is(err, apperr.ErrUnknownCategory) {
		t.Errorf("expected ErrUnknownCategory, got %v", err)
	}
}

func TestComponents(t *testing.T) {
	svc := testService(t, false)
	got, err := svc.Components(context.Background(), "workflows")
	if err != nil {
		t.Fatalf("Components: %v", err)
	}
	wfs, ok := got.([]models.Workflow)
	if !ok || len(wfs) != 1 || wfs[0].Name != "launch" {
		t.Errorf("got %#v", got)
	}
}

func TestScenarios(t *testing.T) {
	svc := testService(t, false)
	got, err := svc.Scenarios(context.Background())
	if err != nil {
		t.Fatalf("Scenarios: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2 (/social and /youtube:social): %+v", len(got), got)
	}
}

func TestRecord_DisabledWithoutCatalog(t *testing.T) {
	svc := testService(t, false)
	if _, err := svc.Record(context.Background(), models.Result{}); !errors.Is(err, ErrRecordingDisabled) {
		t.Errorf("expected ErrRecordingDisabled, got %v", err)
	}
	if _, err := svc.History(context.Background(), 5); !errors.Is(err, ErrRecordingDisabled) {
		t.Errorf("expected ErrRecordingDisabled, got %v", err)
	}
}

func TestRecord_RoundTrip(t *testing.T) {
	svc := testService(t, true)
	ctx := context.Background()
	res, err := svc.Scan(ctx, models.SelectAll, false)
	if err != nil {
		t.Fatal(err)
	}
	ch, err := svc.Record(ctx, res)
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if len(ch.Added) != 8 {
		t.Errorf("added = %v, want 8 components", ch.Added)
	}
	ch, err = svc.Record(ctx, res)
	if err != nil {
		t.Fatal(err)
	}
	if !ch.Empty() {
		t.Errorf("second record should be empty: %+v", ch)
	}
	h, err := svc.History(ctx, 5)
	if err != nil || len(h) != 2 {
		t.Errorf("history = %+v, %v", h, err)
	}
}

func TestRecorded(t *testing.T) {
	ctx := context.Background()

	if _, err := testService(t, false).Recorded(ctx, "agents"); !errors.Is(err, ErrRecordingDisabled) {
		t.Errorf("expected ErrRecordingDisabled, got %v", err)
	}

	svc := testService(t, true)
	if _, err := svc.Recorded(ctx, "plugins"); !errors.Is(err, apperr.ErrUnknownCategory) {
		t.Errorf("expected ErrUnknownCategory, got %v", err)
	}

	rows, err := svc.Recorded(ctx, "agents")
	if err != nil {
		t.Fatalf("Recorded before any record: %v", err)
	}
	if rows == nil || len(rows) != 0 {
		t.Errorf("rows = %#v, want empty non-nil", rows)
	}

	res, err := svc.Scan(ctx, "all", false)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Record(ctx, res); err != nil {
		t.Fatal(err)
	}
	rows, err = svc.Recorded(ctx, "agents")
	if err != nil {
		t.Fatalf("Recorded: %v", err)
	}
	if len(rows) != 2 || rows[0].Name != "copywriter" || rows[1].Path != ".claude/agents/researcher.md" {
		t.Errorf("rows = %+v", rows)
	}
}
