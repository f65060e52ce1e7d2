package atlas

import (
	"go/doc/comment"
	"go/parser"
	"go/token"
	"testing"
)

// The package overview renders its section titles as godoc headings.
func TestPackageDoc_Headings(t *testing.T) {
	t.Parallel()

	f, err := parser.ParseFile(token.NewFileSet(), "doc.go", nil, parser.ParseComments|parser.PackageClauseOnly)
	if err != nil {
		t.Fatalf("parse doc.go: %v", err)
	}
	var p comment.Parser
	d := p.Parse(f.Doc.Text())

	got := map[string]bool{}
	for _, b := range d.Content {
		h, ok := b.(*comment.Heading)
		if !ok {
			continue
		}
		var title string
		for _, txt := range h.Text {
			if plain, ok := txt.(comment.Plain); ok {
				title += string(plain)
			}
		}
		got[title] = true
	}
	for _, want := range []string{"Geometry", "Invariants", "Errors"} {
		if !got[want] {
			t.Errorf("heading %q missing from package doc (have %v)", want, got)
		}
	}
}
