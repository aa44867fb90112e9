package progress

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/FocuswithJustin/JuniperPractice/core/digest"
	coreerrors "github.com/FocuswithJustin/JuniperPractice/core/errors"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func result(ref, text string, finished time.Time, mistakes int, completed bool) Result {
	r := NewResult(digest.Passage(ref, text), ref, finished.Add(-2*time.Minute))
	r.FinishedAt = finished
	r.Rounds = 2
	r.WordsGuessed = 9
	r.Mistakes = mistakes
	r.Completed = completed
	r.Quit = !completed
	return r
}

func TestRecordRecent(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	first := result("John 11:35", "Jesus wept.", base, 1, true)
	second := result("John 3:16", "For God so loved the world", base.Add(time.Hour), 4, false)
	for _, r := range []Result{first, second} {
		if err := s.Record(ctx, r); err != nil {
			t.Fatalf("Record() error: %v", err)
		}
	}

	got, err := s.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent() error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Recent() returned %d results, want 2", len(got))
	}
	if got[0].ID != second.ID || got[1].ID != first.ID {
		t.Errorf("Recent() order = %s, %s; want newest first", got[0].Reference, got[1].Reference)
	}
	if diff := cmp.Diff(first, got[1], cmp.Comparer(func(a, b time.Time) bool { return a.Equal(b) })); diff != "" {
		t.Errorf("stored result mismatch (-want +got):\n%s", diff)
	}

	limited, err := s.Recent(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(limited) != 1 {
		t.Errorf("Recent(1) returned %d results", len(limited))
	}
}

func TestStats(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for i, r := range []Result{
		result("John 11:35", "Jesus wept.", base, 3, true),
		result("John 11:35", "Jesus wept.", base.Add(time.Hour), 1, true),
		result("John 11:35", "Jesus wept.", base.Add(2*time.Hour), 0, false),
		result("John 3:16", "For God", base, 0, true),
	} {
		if err := s.Record(ctx, r); err != nil {
			t.Fatalf("Record(%d) error: %v", i, err)
		}
	}

	st, err := s.Stats(ctx, digest.Passage("John 11:35", "Jesus wept."))
	if err != nil {
		t.Fatalf("Stats() error: %v", err)
	}
	if st.Sessions != 3 || st.Completed != 2 || st.BestMistakes != 1 {
		t.Errorf("Stats() = %+v", st)
	}
	if !st.LastPracticed.Equal(base.Add(2 * time.Hour)) {
		t.Errorf("LastPracticed = %v", st.LastPracticed)
	}

	empty, err := s.Stats(ctx, digest.Passage("Gen 1:1", "In the beginning"))
	if err != nil {
		t.Fatal(err)
	}
	if empty.Sessions != 0 || empty.BestMistakes != -1 || !empty.LastPracticed.IsZero() {
		t.Errorf("Stats() for unknown passage = %+v", empty)
	}
}

func TestRecordValidates(t *testing.T) {
	s := openStore(t)
	now := time.Now()

	bad := result("John 11:35", "Jesus wept.", now, 0, true)
	bad.ID = "not-a-uuid"
	if err := s.Record(context.Background(), bad); !errors.Is(err, coreerrors.ErrInvalidInput) {
		t.Errorf("Record() bad id error = %v", err)
	}

	bad = result("John 11:35", "Jesus wept.", now, 0, true)
	bad.Fingerprint = "abc"
	if err := s.Record(context.Background(), bad); !errors.Is(err, coreerrors.ErrInvalidInput) {
		t.Errorf("Record() bad fingerprint error = %v", err)
	}

	bad = result("John 11:35", "Jesus wept.", now, 0, true)
	bad.FinishedAt = bad.StartedAt.Add(-time.Second)
	if err := s.Record(context.Background(), bad); !errors.Is(err, coreerrors.ErrInvalidInput) {
		t.Errorf("Record() reversed times error = %v", err)
	}
}

func TestWriteHistory(t *testing.T) {
	now := time.Date(2026, 3, 1, 15, 0, 0, 0, time.UTC)
	var buf bytes.Buffer
	if err := WriteHistory(&buf, nil, now); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "No practice sessions recorded.\n" {
		t.Errorf("empty history = %q", buf.String())
	}

	buf.Reset()
	r := result("John 11:35", "Jesus wept.", now.Add(-3*time.Hour), 2, true)
	if err := WriteHistory(&buf, []Result{r}, now); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"3 hours ago", "John 11:35", "rounds=2", "mistakes=2", "completed", "(2m0s)"} {
		if !strings.Contains(out, want) {
			t.Errorf("history %q missing %q", out, want)
		}
	}
}

func TestOpenReadOnly(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "history.db")

	if _, err := OpenReadOnly(ctx, path); !errors.Is(err, coreerrors.ErrNotFound) {
		t.Fatalf("OpenReadOnly(missing) error = %v, want ErrNotFound", err)
	}

	rw, err := Open(ctx, path)
	if err != nil {
		t.Fatal(err)
	}
	r := result("John 11:35", "Jesus wept.", time.Now(), 0, true)
	if err := rw.Record(ctx, r); err != nil {
		t.Fatal(err)
	}
	rw.Close()

	ro, err := OpenReadOnly(ctx, path)
	if err != nil {
		t.Fatalf("OpenReadOnly() error: %v", err)
	}
	defer ro.Close()

	if ro.Path() != path {
		t.Errorf("Path() = %q, want %q", ro.Path(), path)
	}
	got, err := ro.Recent(ctx, 5)
	if err != nil {
		t.Fatalf("Recent() error: %v", err)
	}
	if len(got) != 1 || got[0].ID != r.ID {
		t.Errorf("Recent() = %+v", got)
	}
	if err := ro.Record(ctx, result("John 11:35", "Jesus wept.", time.Now(), 0, true)); err == nil {
		t.Error("Record() through a read-only store should fail")
	}
}

func TestWriteStats(t *testing.T) {
	now := time.Date(2026, 3, 1, 15, 0, 0, 0, time.UTC)
	tests := []struct {
		name  string
		stats Stats
		want  string
	}{
		{
			name:  "never",
			stats: Stats{BestMistakes: -1},
			want:  "John 11:35: not practiced yet.\n",
		},
		{
			name:  "none completed",
			stats: Stats{Sessions: 1, BestMistakes: -1, LastPracticed: now.Add(-2 * time.Hour)},
			want:  "John 11:35: practiced 1 time, completed 0, none completed, last 2 hours ago\n",
		},
		{
			name:  "completed",
			stats: Stats{Sessions: 3, Completed: 2, BestMistakes: 1, LastPracticed: now.Add(-2 * time.Hour)},
			want:  "John 11:35: practiced 3 times, completed 2, best 1 mistake, last 2 hours ago\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := WriteStats(&buf, "John 11:35", tt.stats, now); err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tt.want, buf.String()); diff != "" {
				t.Errorf("WriteStats() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
