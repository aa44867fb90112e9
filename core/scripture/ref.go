package scripture

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	// ErrMalformedReference means the text does not look like "Book Chapter:Verse".
	ErrMalformedReference = errors.New("malformed reference")
	// ErrMalformedRange means the numbers parsed but do not form a valid verse range.
	ErrMalformedRange = errors.New("malformed verse range")
)

// Reference identifies a verse or a contiguous verse range within one chapter.
type Reference struct {
	// Book is the display name of the book (e.g., "John", "1 Nephi").
	Book string `json:"book"`

	// Chapter is the chapter number (1-indexed).
	Chapter int `json:"chapter"`

	// VerseStart is the first verse of the reference.
	VerseStart int `json:"verse_start"`

	// VerseEnd is the last verse; equal to VerseStart for a single verse.
	VerseEnd int `json:"verse_end"`
}

// NewReference creates a single-verse reference.
func NewReference(book string, chapter, verse int) Reference {
	return Reference{Book: book, Chapter: chapter, VerseStart: verse, VerseEnd: verse}
}

// NewRangeReference creates a reference spanning verseStart through verseEnd.
func NewRangeReference(book string, chapter, verseStart, verseEnd int) Reference {
	return Reference{Book: book, Chapter: chapter, VerseStart: verseStart, VerseEnd: verseEnd}
}

// IsRange reports whether the reference spans more than one verse.
func (r Reference) IsRange() bool {
	return r.VerseEnd > r.VerseStart
}

// String renders "Book Chapter:Verse" or "Book Chapter:Start-End".
func (r Reference) String() string {
	if !r.IsRange() {
		return fmt.Sprintf("%s %d:%d", r.Book, r.Chapter, r.VerseStart)
	}
	return fmt.Sprintf("%s %d:%d-%d", r.Book, r.Chapter, r.VerseStart, r.VerseEnd)
}

// OSISID renders the reference in OSIS form, e.g. "John.3.16" or "1John.4.7-8".
// Spaces are dropped from the book name.
func (r Reference) OSISID() string {
	var sb strings.Builder
	sb.WriteString(strings.ReplaceAll(r.Book, " ", ""))
	sb.WriteString(".")
	sb.WriteString(strconv.Itoa(r.Chapter))
	sb.WriteString(".")
	sb.WriteString(strconv.Itoa(r.VerseStart))
	if r.IsRange() {
		sb.WriteString("-")
		sb.WriteString(strconv.Itoa(r.VerseEnd))
	}
	return sb.String()
}

// Validate checks that chapter and verses are positive and the range is ordered.
func (r Reference) Validate() error {
	if strings.TrimSpace(r.Book) == "" {
		return fmt.Errorf("%w: empty book name", ErrMalformedReference)
	}
	if r.Chapter < 1 {
		return fmt.Errorf("%w: chapter %d", ErrMalformedRange, r.Chapter)
	}
	if r.VerseStart < 1 {
		return fmt.Errorf("%w: verse %d", ErrMalformedRange, r.VerseStart)
	}
	if r.VerseEnd < r.VerseStart {
		return fmt.Errorf("%w: %d-%d ends before it starts", ErrMalformedRange, r.VerseStart, r.VerseEnd)
	}
	return nil
}

// displayGrammar is the participle grammar for human-readable references.
// Examples: "John 3:16", "1 Nephi 3:7", "Song of Solomon 2:1-4"
//
//nolint:govet // participle grammar tags are not standard struct tags
type displayGrammar struct {
	BookPrefix string   `@Int?`
	BookWords  []string `@Ident+`
	Chapter    int      `@Int`
	Verse      int      `":" @Int`
	Range      *int     `( "-" @Int )?`
}

// osisGrammar is the participle grammar for OSIS verse ids.
// Examples: "John.3.16", "1John.4.7-8"
//
//nolint:govet // participle grammar tags are not standard struct tags
type osisGrammar struct {
	BookPrefix string `@Int?`
	BookName   string `@Ident`
	Chapter    int    `"." @Int`
	Verse      int    `"." @Int`
	Range      *int   `( "-" @Int )?`
}

var displayLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "Ident", Pattern: `\p{L}[\p{L}&']*`},
	{Name: "Punct", Pattern: `[:\-]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var osisLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "Ident", Pattern: `[A-Za-z]+`},
	{Name: "Punct", Pattern: `[.\-]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var displayParser = participle.MustBuild[displayGrammar](
	participle.Lexer(displayLexer),
	participle.Elide("Whitespace"),
)

var osisParser = participle.MustBuild[osisGrammar](
	participle.Lexer(osisLexer),
	participle.Elide("Whitespace"),
)

// ParseReference parses a human-readable reference.
// Supported formats:
//   - "John 11:35" (single verse)
//   - "John 3:16-17" (verse range)
//   - "1 Nephi 3:7" (numbered book)
//   - "Song of Solomon 2:1" (multi-word book)
func ParseReference(s string) (Reference, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Reference{}, fmt.Errorf("%w: empty reference", ErrMalformedReference)
	}

	parsed, err := displayParser.ParseString("", s)
	if err != nil {
		return Reference{}, fmt.Errorf("%w: %q: %v", ErrMalformedReference, s, err)
	}

	book := strings.Join(parsed.BookWords, " ")
	if parsed.BookPrefix != "" {
		book = parsed.BookPrefix + " " + book
	}
	return buildReference(book, parsed.Chapter, parsed.Verse, parsed.Range)
}

// ParseOSISID parses an OSIS verse id such as "John.3.16" or "Matt.5.3-12".
// The book keeps its OSIS spelling.
func ParseOSISID(s string) (Reference, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Reference{}, fmt.Errorf("%w: empty osisID", ErrMalformedReference)
	}

	parsed, err := osisParser.ParseString("", s)
	if err != nil {
		return Reference{}, fmt.Errorf("%w: %q: %v", ErrMalformedReference, s, err)
	}
	return buildReference(parsed.BookPrefix+parsed.BookName, parsed.Chapter, parsed.Verse, parsed.Range)
}

func buildReference(book string, chapter, verse int, end *int) (Reference, error) {
	ref := NewReference(book, chapter, verse)
	if end != nil {
		ref.VerseEnd = *end
	}
	if err := ref.Validate(); err != nil {
		return Reference{}, err
	}
	return ref, nil
}
