// Package formats loads scripture sources into passages.
//
// Source handlers register themselves in init, the same way the embedded
// format plugins do; import internal/embedded to get every built-in
// handler. Load picks a handler by extension and falls back to sniffing
// the leading bytes, after undoing xz or gzip compression.
package formats

import (
	"bufio"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/ulikunitz/xz"

	"github.com/FocuswithJustin/JuniperPractice/core/errors"
	"github.com/FocuswithJustin/JuniperPractice/core/scripture"
	"github.com/FocuswithJustin/JuniperPractice/internal/validation"
)

// Problem kinds reported for individual source lines.
var (
	ErrMissingSeparator   = errors.New("missing '|' separator")
	ErrEmptyText          = errors.New("empty verse text")
	ErrTooLarge           = errors.New("source too large")
	ErrMalformedReference = scripture.ErrMalformedReference
	ErrMalformedRange     = scripture.ErrMalformedRange
)

// maxDecodedSize bounds a source after decompression.
var maxDecodedSize int64 = validation.MaxFileSize

// Passage is one reference with its verse text.
type Passage struct {
	Reference scripture.Reference `json:"reference"`
	Text      string              `json:"text"`
	Line      int                 `json:"line,omitempty"` // 1-based source line, 0 when the source has no lines
}

// LineError describes a source entry that could not be turned into a
// passage. The load continues past it.
type LineError struct {
	Line   int    // 1-based line, 0 for sources without lines
	Source string // offending line or element id
	Err    error
}

func (e *LineError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Source, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

// Decoded is what a handler produces from one stream.
type Decoded struct {
	Passages []Passage
	Problems []*LineError
}

// Handler decodes one source format.
type Handler interface {
	// Name identifies the format, e.g. "pipe" or "osis".
	Name() string

	// Detect reports whether a file with this name and leading bytes is
	// in the handler's format. Handlers trust a known extension over
	// content.
	Detect(name string, head []byte) bool

	// Decode reads every passage from r.
	Decode(r io.Reader) (*Decoded, error)
}

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Handler)
)

// Register adds a handler, replacing any handler with the same name.
func Register(h Handler) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[h.Name()] = h
}

// Get returns the handler registered under name, or nil.
func Get(name string) Handler {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return registry[name]
}

// Names returns the registered handler names in sorted order.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Detect returns the first handler, in name order, that claims the file.
func Detect(name string, head []byte) Handler {
	for _, n := range Names() {
		if h := Get(n); h != nil && h.Detect(name, head) {
			return h
		}
	}
	return nil
}

// Result is a loaded source.
type Result struct {
	Path     string
	Format   string
	Passages []Passage
	Problems []*LineError
}

// Lookup returns the first passage whose reference equals ref.
func (r *Result) Lookup(ref scripture.Reference) (Passage, bool) {
	for _, p := range r.Passages {
		if p.Reference == ref {
			return p, true
		}
	}
	return Passage{}, false
}

// Load reads the scripture source at path. A missing file yields a
// *errors.NotFoundError and an unreadable one an *errors.IOError.
// Malformed entries are returned in Result.Problems.
func Load(ctx context.Context, path string) (*Result, error) {
	if err := validation.ValidatePath(path); err != nil {
		return nil, &errors.ValidationError{Field: "source", Value: path, Message: err.Error(), Err: err}
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &errors.NotFoundError{Resource: "scripture source", ID: path, Err: errors.ErrNotFound}
		}
		return nil, errors.NewIO("stat", path, err)
	}
	if info.IsDir() {
		return nil, errors.NewIO("open", path, validation.ErrIsDirectory)
	}
	if info.Size() > validation.MaxFileSize {
		return nil, errors.NewValidation("source", fmt.Sprintf("file exceeds %d bytes", validation.MaxFileSize))
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewIO("open", path, err)
	}
	defer f.Close()

	return Decode(ctx, path, f)
}

// Decode reads a scripture source from r. name is used for extension based
// detection and in error messages.
func Decode(ctx context.Context, name string, r io.Reader) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	br := bufio.NewReaderSize(r, validation.SniffLen)
	reader, err := decompress(br)
	if err != nil {
		return nil, errors.NewIO("decompress", name, err)
	}
	defer reader.Close()

	limited := &limitReader{r: reader, remaining: maxDecodedSize}
	body := bufio.NewReaderSize(limited, validation.SniffLen)
	head, err := body.Peek(validation.SniffLen)
	if limited.exceeded {
		return nil, tooLarge(name)
	}
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, errors.NewIO("read", name, err)
	}

	base := filepath.Base(name)
	h := Detect(base, head)
	if h == nil {
		return nil, errors.NewUnsupported("scripture source", fmt.Sprintf("no handler recognizes %s", base))
	}

	decoded, err := h.Decode(body)
	if limited.exceeded {
		return nil, tooLarge(name)
	}
	if err != nil {
		return nil, &errors.ParseError{Format: h.Name(), Path: name, Message: err.Error(), Err: err}
	}

	return &Result{
		Path:     name,
		Format:   h.Name(),
		Passages: decoded.Passages,
		Problems: decoded.Problems,
	}, nil
}

// decompress undoes xz or gzip compression detected from magic bytes.
func decompress(br *bufio.Reader) (io.ReadCloser, error) {
	magic, err := br.Peek(16)
	if err != nil && err != io.EOF {
		return nil, err
	}

	switch validation.DetectFileType(magic) {
	case validation.FileTypeXZ:
		xr, err := xz.NewReader(br)
		if err != nil {
			return nil, err
		}
		return io.NopCloser(xr), nil
	case validation.FileTypeGzip:
		return gzip.NewReader(br)
	}
	return io.NopCloser(br), nil
}

func tooLarge(name string) error {
	return &errors.ValidationError{
		Field:   "source",
		Value:   name,
		Message: fmt.Sprintf("decoded content exceeds %d bytes", maxDecodedSize),
		Err:     ErrTooLarge,
	}
}

// limitReader fails once more than remaining bytes have been read, so a
// small compressed file cannot expand without bound.
type limitReader struct {
	r         io.Reader
	remaining int64
	exceeded  bool
}

func (l *limitReader) Read(p []byte) (int, error) {
	if l.exceeded {
		return 0, ErrTooLarge
	}
	if int64(len(p)) > l.remaining+1 {
		p = p[:l.remaining+1]
	}
	n, err := l.r.Read(p)
	l.remaining -= int64(n)
	if l.remaining < 0 {
		l.exceeded = true
		return n, ErrTooLarge
	}
	return n, err
}
