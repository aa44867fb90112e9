package scripture

import (
	"strings"
	"unicode/utf8"
)

// Word is one whitespace-delimited token of a passage, punctuation included.
type Word struct {
	text   string
	hidden bool
}

// NewWord creates a visible word.
func NewWord(text string) Word {
	return Word{text: text}
}

// Hide marks the word hidden. Hiding is never undone.
func (w *Word) Hide() {
	w.hidden = true
}

// IsHidden reports whether the word is hidden.
func (w Word) IsHidden() bool {
	return w.hidden
}

// Text returns the literal token regardless of whether it is hidden.
func (w Word) Text() string {
	return w.text
}

// Len returns the number of characters in the token.
func (w Word) Len() int {
	return utf8.RuneCountInString(w.text)
}

// Display returns the token, or one underscore per character once hidden.
func (w Word) Display() string {
	if w.hidden {
		return strings.Repeat("_", w.Len())
	}
	return w.text
}

// endsWithPause reports whether the token ends in one of : ; . ,
// Such tokens do not advance the display position of the words after them.
func (w Word) endsWithPause() bool {
	r, _ := utf8.DecodeLastRuneInString(w.text)
	switch r {
	case ':', ';', '.', ',':
		return true
	}
	return false
}
