// Package pipe handles pipe-delimited scripture sources, one passage per
// line:
//
//	John 3:16|For God so loved the world, that he gave his only begotten Son
//
// Blank lines and lines starting with '#' are ignored.
package pipe

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/FocuswithJustin/JuniperPractice/core/scripture"
	"github.com/FocuswithJustin/JuniperPractice/internal/formats"
	"github.com/FocuswithJustin/JuniperPractice/internal/validation"
)

// Name is the registered format name.
const Name = "pipe"

// maxLine bounds a single source line.
const maxLine = 1 << 20

// Handler decodes pipe-delimited sources.
type Handler struct{}

func init() {
	formats.Register(&Handler{})
}

// Name implements formats.Handler.
func (h *Handler) Name() string { return Name }

// Detect implements formats.Handler.
func (h *Handler) Detect(name string, head []byte) bool {
	switch validation.FileTypeFromExtension(name) {
	case validation.FileTypeText:
		return true
	case validation.FileTypeUnknown:
		return validation.DetectFileType(head) == validation.FileTypeText
	}
	return false
}

// Decode implements formats.Handler.
func (h *Handler) Decode(r io.Reader) (*formats.Decoded, error) {
	out := &formats.Decoded{}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLine)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		raw := scanner.Text()
		if lineNum == 1 {
			raw = strings.TrimPrefix(raw, "\ufeff")
		}
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		p, err := ParseLine(line)
		if err != nil {
			out.Problems = append(out.Problems, &formats.LineError{Line: lineNum, Source: line, Err: err})
			continue
		}
		p.Line = lineNum
		out.Passages = append(out.Passages, p)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ParseLine parses one "Reference|Text" line.
func ParseLine(line string) (formats.Passage, error) {
	if n := strings.Count(line, "|"); n != 1 {
		return formats.Passage{}, fmt.Errorf("%w: found %d, want exactly one", formats.ErrMissingSeparator, n)
	}
	refPart, text, _ := strings.Cut(line, "|")

	ref, err := scripture.ParseReference(refPart)
	if err != nil {
		return formats.Passage{}, err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return formats.Passage{}, fmt.Errorf("%w: %s", formats.ErrEmptyText, ref)
	}
	return formats.Passage{Reference: ref, Text: text}, nil
}

// Encode writes passages in the pipe format.
func Encode(w io.Writer, passages []formats.Passage) error {
	bw := bufio.NewWriter(w)
	for _, p := range passages {
		if _, err := fmt.Fprintf(bw, "%s|%s\n", p.Reference, p.Text); err != nil {
			return err
		}
	}
	return bw.Flush()
}
