// Package osis handles OSIS XML scripture sources. Every verse element
// carrying an osisID becomes a passage. Both container verses
// (<verse osisID="...">text</verse>) and milestone verses
// (<verse sID="x" osisID="..."/>text<verse eID="x"/>) are read.
package osis

import (
	"fmt"
	"io"
	"strings"

	"github.com/FocuswithJustin/JuniperPractice/core/errors"
	"github.com/FocuswithJustin/JuniperPractice/core/scripture"
	"github.com/FocuswithJustin/JuniperPractice/core/xml"
	"github.com/FocuswithJustin/JuniperPractice/internal/formats"
	"github.com/FocuswithJustin/JuniperPractice/internal/validation"
)

// Name is the registered format name.
const Name = "osis"

const (
	verseXPath     = "//verse[@osisID]"
	milestoneXPath = "//verse[@sID]"
)

// ErrUnterminatedVerse is reported for a milestone verse whose matching
// eID never appears.
var ErrUnterminatedVerse = errors.New("verse start without matching end")

// Handler decodes OSIS documents.
type Handler struct{}

func init() {
	formats.Register(&Handler{})
}

// Name implements formats.Handler.
func (h *Handler) Name() string { return Name }

// Detect implements formats.Handler.
func (h *Handler) Detect(name string, head []byte) bool {
	switch validation.FileTypeFromExtension(name) {
	case validation.FileTypeXML:
		return true
	case validation.FileTypeUnknown:
		return validation.DetectFileType(head) == validation.FileTypeXML
	}
	return false
}

// Decode implements formats.Handler.
func (h *Handler) Decode(r io.Reader) (*formats.Decoded, error) {
	doc, err := xml.ParseReader(r)
	if err != nil {
		return nil, err
	}

	verses, err := doc.XPath(verseXPath)
	if err != nil {
		return nil, err
	}

	out := &formats.Decoded{}
	for _, v := range verses {
		if v.Attr("sID") != "" {
			continue
		}
		addVerse(out, v.Attr("osisID"), v.InnerText())
	}

	first, err := doc.XPathFirst(milestoneXPath)
	if err != nil {
		return nil, err
	}
	if first != nil {
		decodeMilestones(doc.Root(), out)
	}
	return out, nil
}

// addVerse turns one verse into a passage or a problem.
func addVerse(out *formats.Decoded, osisID, inner string) {
	ref, err := ParseVerseID(osisID)
	if err != nil {
		out.Problems = append(out.Problems, &formats.LineError{Source: osisID, Err: err})
		return
	}

	text := strings.Join(strings.Fields(inner), " ")
	if text == "" {
		out.Problems = append(out.Problems, &formats.LineError{Source: osisID, Err: fmt.Errorf("%w: %s", formats.ErrEmptyText, ref)})
		return
	}
	out.Passages = append(out.Passages, formats.Passage{Reference: ref, Text: text})
}

type milestone struct {
	sID    string
	osisID string
	text   strings.Builder
}

// decodeMilestones collects the text between each <verse sID/> and the
// <verse eID/> with the same id, in document order.
func decodeMilestones(root *xml.Node, out *formats.Decoded) {
	var open *milestone
	unterminated := func() {
		out.Problems = append(out.Problems, &formats.LineError{
			Source: open.osisID,
			Err:    fmt.Errorf("%w: sID %q", ErrUnterminatedVerse, open.sID),
		})
	}

	root.Walk(func(n *xml.Node) bool {
		if n.Name() != "verse" {
			return true
		}
		if sID := n.Attr("sID"); sID != "" {
			if open != nil {
				unterminated()
			}
			open = &milestone{sID: sID, osisID: n.Attr("osisID")}
			return false
		}
		if eID := n.Attr("eID"); eID != "" {
			if open != nil && open.sID == eID {
				addVerse(out, open.osisID, open.text.String())
				open = nil
			}
			return false
		}
		return true
	}, func(text string) {
		if open != nil {
			open.text.WriteString(text)
		}
	})

	if open != nil {
		unterminated()
	}
}

// ParseVerseID parses an osisID attribute. A space separated list of
// consecutive verses in one chapter ("John.3.16 John.3.17") becomes a range.
func ParseVerseID(osisID string) (scripture.Reference, error) {
	ids := strings.Fields(osisID)
	if len(ids) == 0 {
		return scripture.Reference{}, fmt.Errorf("%w: empty osisID", formats.ErrMalformedReference)
	}

	first, err := scripture.ParseOSISID(ids[0])
	if err != nil {
		return scripture.Reference{}, err
	}
	if len(ids) == 1 {
		return first, nil
	}

	last, err := scripture.ParseOSISID(ids[len(ids)-1])
	if err != nil {
		return scripture.Reference{}, err
	}
	if last.Book != first.Book || last.Chapter != first.Chapter {
		return scripture.Reference{}, fmt.Errorf("%w: %q spans chapters", formats.ErrMalformedRange, osisID)
	}

	ref := scripture.NewRangeReference(first.Book, first.Chapter, first.VerseStart, last.VerseEnd)
	if err := ref.Validate(); err != nil {
		return scripture.Reference{}, err
	}
	return ref, nil
}
