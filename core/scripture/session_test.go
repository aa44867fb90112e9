package scripture

import (
	"bytes"
	"errors"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const john316 = "For God so loved the world, that he gave his only begotten Son, that whosoever believeth in him should not perish, but have everlasting life."

// lastPick makes the first pick of HideRandomWords the highest visible index.
func lastPick(n int) int { return n - 1 }

func hiddenByFlag(s *Session) []int {
	var out []int
	for i := 0; i < s.Len(); i++ {
		if s.Word(i).IsHidden() {
			out = append(out, i)
		}
	}
	return out
}

func TestNewSessionSplitsOnWhitespace(t *testing.T) {
	s := NewSession(NewReference("John", 11, 35), "  Jesus\twept.\n")
	if s.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", s.Len())
	}
	if got := s.Text(); got != "Jesus wept." {
		t.Errorf("Text() = %q, want %q", got, "Jesus wept.")
	}
}

func TestDisplayFullyVisibleRoundTrip(t *testing.T) {
	s := NewSession(NewReference("John", 3, 16), john316)
	var buf bytes.Buffer
	if err := s.Display(&buf); err != nil {
		t.Fatalf("Display() error: %v", err)
	}
	want := "John 3:16\n" + john316 + "\n"
	if got := buf.String(); got != want {
		t.Errorf("Display() mismatch (-want +got):\n%s", cmp.Diff(want, got))
	}
}

func TestJesusWept(t *testing.T) {
	s := NewSession(NewReference("John", 11, 35), "Jesus wept.")
	s.intN = lastPick

	if got := s.WordPosition(1); got != 2 {
		t.Fatalf("WordPosition(1) = %d, want 2", got)
	}

	hidden, err := s.HideRandomWords(1)
	if err != nil {
		t.Fatalf("HideRandomWords() error: %v", err)
	}
	if diff := cmp.Diff([]int{1}, hidden); diff != "" {
		t.Fatalf("hidden mismatch (-want +got):\n%s", diff)
	}

	var buf bytes.Buffer
	if err := s.Display(&buf); err != nil {
		t.Fatalf("Display() error: %v", err)
	}
	if got, want := buf.String(), "John 11:35\nJesus 2_____\n"; got != want {
		t.Errorf("Display() = %q, want %q", got, want)
	}

	buf.Reset()
	if err := s.DisplayMissingWordPositions(&buf); err != nil {
		t.Fatalf("DisplayMissingWordPositions() error: %v", err)
	}
	if got, want := buf.String(), "Missing words:\nWord 2: _____\n"; got != want {
		t.Errorf("DisplayMissingWordPositions() = %q, want %q", got, want)
	}
}

func TestWordPositionSkipsPunctuatedPredecessors(t *testing.T) {
	s := NewSession(NewReference("John", 3, 16), "For God so loved the world, that he gave")
	want := []int{1, 2, 3, 4, 5, 6, 6, 7, 8}
	got := make([]int, s.Len())
	for i := range got {
		got[i] = s.WordPosition(i)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("positions mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want, s.positions()); diff != "" {
		t.Errorf("positions() mismatch (-want +got):\n%s", diff)
	}
}

func TestWordPositionMonotonic(t *testing.T) {
	s := NewSession(NewReference("John", 3, 16), john316)
	prev := 0
	for i := 0; i < s.Len(); i++ {
		pos := s.WordPosition(i)
		if pos < prev {
			t.Fatalf("WordPosition(%d) = %d, below previous %d", i, pos, prev)
		}
		// Equal neighbours only happen right after a punctuated word.
		if pos == prev && !s.Word(i-1).endsWithPause() {
			t.Fatalf("WordPosition(%d) repeats %d without punctuation before it", i, pos)
		}
		prev = pos
	}
}

func TestHideRandomWordsCounts(t *testing.T) {
	for seed := uint64(0); seed < 25; seed++ {
		s := NewSession(NewReference("John", 3, 16), john316, WithSeed(seed))
		total := s.Len()

		for _, k := range []int{4, 5, 7, 100} {
			visible := s.VisibleCount()
			if visible == 0 {
				break
			}
			before := s.HiddenCount()

			picked, err := s.HideRandomWords(k)
			if err != nil {
				t.Fatalf("seed %d: HideRandomWords(%d) error: %v", seed, k, err)
			}
			want := min(k, visible)
			if len(picked) != want {
				t.Fatalf("seed %d: hid %d words, want %d", seed, len(picked), want)
			}
			if got := s.HiddenCount() - before; got != want {
				t.Fatalf("seed %d: hidden set grew by %d, want %d", seed, got, want)
			}
			seen := map[int]bool{}
			for _, idx := range picked {
				if idx < 0 || idx >= total {
					t.Fatalf("seed %d: index %d out of range", seed, idx)
				}
				if seen[idx] {
					t.Fatalf("seed %d: index %d hidden twice", seed, idx)
				}
				seen[idx] = true
			}
		}

		if _, err := s.HideRandomWords(1); !errors.Is(err, ErrAllHidden) {
			t.Fatalf("seed %d: HideRandomWords on fully hidden session error = %v, want ErrAllHidden", seed, err)
		}
	}
}

func TestHideRandomWordsZeroAndNegative(t *testing.T) {
	s := NewSession(NewReference("John", 11, 35), "Jesus wept.")
	for _, k := range []int{0, -3} {
		picked, err := s.HideRandomWords(k)
		if err != nil {
			t.Fatalf("HideRandomWords(%d) error: %v", k, err)
		}
		if len(picked) != 0 {
			t.Errorf("HideRandomWords(%d) hid %v", k, picked)
		}
	}
}

func TestHideRandomWordsEmptyText(t *testing.T) {
	s := NewSession(NewReference("John", 11, 35), "   ")
	if _, err := s.HideRandomWords(4); !errors.Is(err, ErrAllHidden) {
		t.Errorf("HideRandomWords on empty text error = %v, want ErrAllHidden", err)
	}
}

func TestSeedIsReproducible(t *testing.T) {
	a := NewSession(NewReference("John", 3, 16), john316, WithSeed(42))
	b := NewSession(NewReference("John", 3, 16), john316, WithSeed(42))
	pa, _ := a.HideRandomWords(6)
	pb, _ := b.HideRandomWords(6)
	if diff := cmp.Diff(pa, pb); diff != "" {
		t.Errorf("same seed hid different words (-a +b):\n%s", diff)
	}
}

func TestCheckGuess(t *testing.T) {
	s := NewSession(NewReference("1 John", 4, 8), "God is love. Love never faileth, loving")
	tests := []struct {
		input string
		index int
		want  bool
	}{
		{"love.", 2, true},
		{"LOVE.", 2, true},
		{"love", 2, false},
		{"LOVE", 3, true},
		{"love", 3, true},
		{"loving", 3, false},
		{"LOVE", 6, false},
		{"god", 0, true},
		{"god", -1, false},
		{"god", 99, false},
	}

	for _, tt := range tests {
		if got := s.CheckGuess(tt.input, tt.index); got != tt.want {
			t.Errorf("CheckGuess(%q, %d) = %v, want %v", tt.input, tt.index, got, tt.want)
		}
	}
}

func TestCheckGuessNormalizesUnicode(t *testing.T) {
	// Precomposed in the text, decomposed in the guess.
	s := NewSession(NewReference("Salmos", 23, 1), "Jehová es mi pastor")
	if !s.CheckGuess("JEHOVÁ", 0) {
		t.Error("CheckGuess should match canonically equivalent input")
	}
}

func TestResetHiddenIndicesMatchesFlags(t *testing.T) {
	s := NewSession(NewReference("John", 3, 16), john316, WithSeed(7))
	if _, err := s.HideRandomWords(4); err != nil {
		t.Fatal(err)
	}
	if _, err := s.RemoveMoreWords(5); err != nil {
		t.Fatal(err)
	}
	s.words[0].Hide() // hidden behind the session's back

	s.ResetHiddenIndices()
	if diff := cmp.Diff(hiddenByFlag(s), s.HiddenIndices()); diff != "" {
		t.Errorf("HiddenIndices mismatch (-flags +tracked):\n%s", diff)
	}
	if !slices.IsSorted(s.HiddenIndices()) {
		t.Error("ResetHiddenIndices should leave indices ascending")
	}
}

func TestHiddenIndicesIsSnapshot(t *testing.T) {
	s := NewSession(NewReference("John", 11, 35), "Jesus wept.")
	if _, err := s.HideRandomWords(1); err != nil {
		t.Fatal(err)
	}
	snap := s.HiddenIndices()
	snap[0] = 99
	if s.HiddenIndices()[0] == 99 {
		t.Error("HiddenIndices returned the session's own slice")
	}
}

func TestRenderHiddenWords(t *testing.T) {
	s := NewSession(NewReference("John", 3, 16), "For God so loved the world, that he")
	for _, i := range []int{7, 5, 6} {
		s.words[i].Hide()
	}
	s.ResetHiddenIndices()
	want := "For God so loved the 6______ 6____ 7__"
	if got := s.Render(); got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}

	var buf bytes.Buffer
	if err := s.DisplayMissingWordPositions(&buf); err != nil {
		t.Fatal(err)
	}
	wantList := "Missing words:\nWord 6: ______\nWord 6: ____\nWord 7: __\n"
	if got := buf.String(); got != wantList {
		t.Errorf("DisplayMissingWordPositions() = %q, want %q", got, wantList)
	}
}

func TestRenderSingleLetterWordKeepsMarker(t *testing.T) {
	s := NewSession(NewReference("Psalm", 23, 1), "The Lord is my shepherd; I shall not want.")
	s.words[5].Hide()
	s.ResetHiddenIndices()
	want := "The Lord is my shepherd; 5_ shall not want."
	if got := s.Render(); got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestSortByPosition(t *testing.T) {
	s := NewSession(NewReference("John", 3, 16), "For God so loved the world, that he")
	got := s.SortByPosition([]int{7, 0, 6, 5})
	if diff := cmp.Diff([]int{0, 5, 6, 7}, got); diff != "" {
		t.Errorf("SortByPosition mismatch (-want +got):\n%s", diff)
	}
}

func TestFingerprintStable(t *testing.T) {
	a := NewSession(NewReference("John", 11, 35), "Jesus wept.")
	b := NewSession(NewReference("John", 11, 35), "Jesus   wept.")
	if a.Fingerprint() != b.Fingerprint() {
		t.Error("fingerprint should not depend on whitespace runs")
	}
	if _, err := a.HideRandomWords(1); err != nil {
		t.Fatal(err)
	}
	if a.Fingerprint() != b.Fingerprint() {
		t.Error("fingerprint should not depend on hidden state")
	}
}
