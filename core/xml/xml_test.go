package xml

import (
	"strings"
	"testing"
)

const sample = `<?xml version="1.0" encoding="UTF-8"?>
<osis>
  <osisText osisIDWork="KJV">
    <div type="book" osisID="John">
      <chapter osisID="John.11">
        <verse osisID="John.11.35">Jesus <w>wept</w>.</verse>
      </chapter>
    </div>
  </osisText>
</osis>`

func TestParseValidXML(t *testing.T) {
	doc, err := Parse([]byte(sample))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	root := doc.Root()
	if root == nil || root.Name() != "osis" {
		t.Fatalf("Root() = %v, want osis element", root)
	}
}

func TestWalk(t *testing.T) {
	doc, err := Parse([]byte(sample))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	var elements []string
	var text strings.Builder
	doc.Root().Walk(func(n *Node) bool {
		elements = append(elements, n.Name())
		return n.Name() != "w"
	}, func(s string) {
		text.WriteString(s)
	})

	want := []string{"osisText", "div", "chapter", "verse", "w"}
	if strings.Join(elements, ",") != strings.Join(want, ",") {
		t.Errorf("visited %v, want %v", elements, want)
	}
	if got := strings.Join(strings.Fields(text.String()), " "); got != "Jesus ." {
		t.Errorf("text = %q, want %q (content of <w> skipped)", got, "Jesus .")
	}
}

func TestParseInvalidXML(t *testing.T) {
	tests := []struct {
		name string
		xml  string
	}{
		{"unclosed tag", "<root><element></root>"},
		{"mismatched tags", "<root></other>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseReader(strings.NewReader(tt.xml)); err == nil {
				t.Error("Parse should fail for invalid XML")
			}
		})
	}
}

func TestXPath(t *testing.T) {
	doc, err := Parse([]byte(sample))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	verses, err := doc.XPath("//verse[@osisID]")
	if err != nil {
		t.Fatalf("XPath failed: %v", err)
	}
	if len(verses) != 1 {
		t.Fatalf("len(verses) = %d, want 1", len(verses))
	}
	if got := verses[0].Attr("osisID"); got != "John.11.35" {
		t.Errorf("Attr(osisID) = %q, want %q", got, "John.11.35")
	}
	if got := verses[0].InnerText(); got != "Jesus wept." {
		t.Errorf("InnerText() = %q, want %q", got, "Jesus wept.")
	}

	if _, err := doc.XPath("//verse[@"); err == nil {
		t.Error("XPath should reject an invalid expression")
	}
}

func TestXPathFirst(t *testing.T) {
	doc, err := Parse([]byte(sample))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	work, err := doc.XPathFirst("//osisText")
	if err != nil {
		t.Fatalf("XPathFirst failed: %v", err)
	}
	if got := work.Attr("osisIDWork"); got != "KJV" {
		t.Errorf("osisIDWork = %q, want KJV", got)
	}

	missing, err := doc.XPathFirst("//title")
	if err != nil {
		t.Fatalf("XPathFirst failed: %v", err)
	}
	if missing != nil {
		t.Error("XPathFirst should return nil when nothing matches")
	}
}
