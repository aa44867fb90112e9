package scripture

import (
	"cmp"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/FocuswithJustin/JuniperPractice/core/digest"
)

// ErrAllHidden is returned by HideRandomWords when no visible word remains.
var ErrAllHidden = errors.New("all words are hidden")

// Session is one passage being memorized: its reference, its words, and the
// indices of the words hidden so far. It is not safe for concurrent use.
type Session struct {
	ref    Reference
	words  []Word
	hidden []int
	intN   func(n int) int
}

// Option configures a Session.
type Option func(*Session)

// WithRand draws hidden words from r instead of the global source.
func WithRand(r *rand.Rand) Option {
	return func(s *Session) {
		s.intN = r.IntN
	}
}

// WithSeed draws hidden words from a PCG source seeded with seed, making
// the hiding order reproducible.
func WithSeed(seed uint64) Option {
	return WithRand(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
}

// NewSession splits text on whitespace and returns a session with every
// word visible.
func NewSession(ref Reference, text string, opts ...Option) *Session {
	fields := strings.Fields(text)
	s := &Session{
		ref:   ref,
		words: make([]Word, len(fields)),
		intN:  rand.IntN,
	}
	for i, f := range fields {
		s.words[i] = NewWord(f)
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Reference returns the passage reference.
func (s *Session) Reference() Reference {
	return s.ref
}

// Len returns the number of words.
func (s *Session) Len() int {
	return len(s.words)
}

// Word returns a copy of the word at index.
func (s *Session) Word(index int) Word {
	return s.words[index]
}

// Text returns the literal words joined by single spaces.
func (s *Session) Text() string {
	texts := make([]string, len(s.words))
	for i, w := range s.words {
		texts[i] = w.Text()
	}
	return strings.Join(texts, " ")
}

// Fingerprint identifies the passage in the practice history.
func (s *Session) Fingerprint() string {
	return digest.Passage(s.ref.String(), s.Text())
}

// HiddenCount returns the number of tracked hidden indices.
func (s *Session) HiddenCount() int {
	return len(s.hidden)
}

// VisibleCount returns the number of words not yet hidden.
func (s *Session) VisibleCount() int {
	n := 0
	for _, w := range s.words {
		if !w.IsHidden() {
			n++
		}
	}
	return n
}

// AllHidden reports whether every word is hidden.
func (s *Session) AllHidden() bool {
	return s.VisibleCount() == 0
}

// HideRandomWords hides up to count visible words chosen uniformly at random
// and returns their indices in the order they were chosen. It hides
// min(count, visible) words and never the same index twice. If no word is
// visible it hides nothing and returns ErrAllHidden.
func (s *Session) HideRandomWords(count int) ([]int, error) {
	visible := make([]int, 0, len(s.words))
	for i, w := range s.words {
		if !w.IsHidden() {
			visible = append(visible, i)
		}
	}
	if len(visible) == 0 {
		return nil, ErrAllHidden
	}

	n := max(min(count, len(visible)), 0)
	picked := make([]int, 0, n)
	// Partial Fisher-Yates: visible[:i] holds the picks so far.
	for i := 0; i < n; i++ {
		j := i + s.intN(len(visible)-i)
		visible[i], visible[j] = visible[j], visible[i]

		index := visible[i]
		s.words[index].Hide()
		s.hidden = append(s.hidden, index)
		picked = append(picked, index)
	}
	return picked, nil
}

// RemoveMoreWords hides count more words. It is HideRandomWords under the
// name the driver uses when escalating after a completed round.
func (s *Session) RemoveMoreWords(count int) ([]int, error) {
	return s.HideRandomWords(count)
}

// CheckGuess reports whether input equals the word at index, ignoring case.
// Trailing punctuation is part of the word and must be typed.
func (s *Session) CheckGuess(input string, index int) bool {
	if index < 0 || index >= len(s.words) {
		return false
	}
	return strings.EqualFold(norm.NFC.String(input), norm.NFC.String(s.words[index].Text()))
}

// WordPosition returns the 1-based number shown for the word at index.
func (s *Session) WordPosition(index int) int {
	position := 1
	for i := 0; i < index && i < len(s.words); i++ {
		if !s.words[i].endsWithPause() {
			position++
		}
	}
	return position
}

// positions computes WordPosition for every index in one pass.
func (s *Session) positions() []int {
	out := make([]int, len(s.words))
	position := 1
	for i, w := range s.words {
		out[i] = position
		if !w.endsWithPause() {
			position++
		}
	}
	return out
}

// SortByPosition returns a copy of indices ordered by display position,
// ties broken by sequence index.
func (s *Session) SortByPosition(indices []int) []int {
	sorted := slices.Clone(indices)
	slices.SortStableFunc(sorted, func(a, b int) int {
		if c := cmp.Compare(s.WordPosition(a), s.WordPosition(b)); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})
	return sorted
}

// HiddenIndices returns a snapshot of the tracked hidden indices.
func (s *Session) HiddenIndices() []int {
	return slices.Clone(s.hidden)
}

// ResetHiddenIndices rebuilds the tracked hidden indices from the words'
// hidden flags, in ascending order.
func (s *Session) ResetHiddenIndices() {
	s.hidden = s.hidden[:0]
	for i, w := range s.words {
		if w.IsHidden() {
			s.hidden = append(s.hidden, i)
		}
	}
}

// Render returns the word line: visible words as written, hidden words as
// their display position, an underscore, then one underscore per remaining
// character.
func (s *Session) Render() string {
	positions := s.positions()
	var sb strings.Builder
	for i, w := range s.words {
		if i > 0 {
			sb.WriteByte(' ')
		}
		if !w.IsHidden() {
			sb.WriteString(w.Text())
			continue
		}
		sb.WriteString(strconv.Itoa(positions[i]))
		sb.WriteByte('_')
		sb.WriteString(strings.Repeat("_", max(w.Len()-1, 0)))
	}
	return sb.String()
}

// Display writes the reference line and the word line.
func (s *Session) Display(w io.Writer) error {
	_, err := fmt.Fprintf(w, "%s\n%s\n", s.ref, s.Render())
	return err
}

// DisplayMissingWordPositions lists each hidden word's position with one
// underscore per character, in position order.
func (s *Session) DisplayMissingWordPositions(w io.Writer) error {
	if _, err := fmt.Fprintln(w, "Missing words:"); err != nil {
		return err
	}
	for _, index := range s.SortByPosition(s.hidden) {
		word := s.words[index]
		if _, err := fmt.Fprintf(w, "Word %d: %s\n", s.WordPosition(index), strings.Repeat("_", word.Len())); err != nil {
			return err
		}
	}
	return nil
}
