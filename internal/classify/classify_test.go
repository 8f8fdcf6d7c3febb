package classify

import (
	"testing"

	"github.com/hyperifyio/goconveyance/internal/enquiry"
	"github.com/hyperifyio/goconveyance/internal/unpack"
)

func doc(name, text string) *unpack.Document {
	return &unpack.Document{Name: name, Data: []byte(text)}
}

var defs = []enquiry.Definition{
	{ID: "q1", Prompt: "Are there any existing Planning Permissions?", Policy: enquiry.PolicyFreeText},
	{ID: "q2", Prompt: "Is the property in a Conservation Area?", Policy: enquiry.PolicyYesNo},
}

func TestClassify_MarkerAbsentShortCircuits(t *testing.T) {
	docs := []*unpack.Document{doc("lease.txt", "a lease with no marker")}
	cls := Classify(docs, defs, Options{})
	if cls.SearchPresent {
		t.Fatalf("expected SearchPresent=false")
	}
	if len(cls.Targets) != 0 {
		t.Fatalf("expected no targets on short-circuit, got %d", len(cls.Targets))
	}
}

func TestClassify_MarkerDocumentFirst(t *testing.T) {
	docs := []*unpack.Document{
		doc("a-lease.txt", "no marker here"),
		doc("b-search.txt", "REPLIES TO STANDARD ENQUIRIES follow"),
		doc("c-deeds.txt", "title deeds"),
	}
	cls := Classify(docs, defs, Options{})
	if !cls.SearchPresent || cls.MarkerDoc != "b-search.txt" {
		t.Fatalf("marker detection failed: %+v", cls)
	}
	got := cls.Targets["q1"]
	if len(got) != 3 {
		t.Fatalf("expected 3 candidates, got %d", len(got))
	}
	if got[0].Name != "b-search.txt" {
		t.Fatalf("marker document must come first, got %s", got[0].Name)
	}
	if got[1].Name != "a-lease.txt" || got[2].Name != "c-deeds.txt" {
		t.Fatalf("remaining candidates out of archive order: %s, %s", got[1].Name, got[2].Name)
	}
}

func TestClassify_FirstMarkerWins(t *testing.T) {
	docs := []*unpack.Document{
		doc("a-search.txt", "REPLIES TO STANDARD ENQUIRIES one"),
		doc("b-search.txt", "REPLIES TO STANDARD ENQUIRIES two"),
	}
	cls := Classify(docs, defs, Options{})
	if cls.MarkerDoc != "a-search.txt" {
		t.Fatalf("expected first marker document to win, got %s", cls.MarkerDoc)
	}
}

func TestClassify_CaseSensitiveByDefault(t *testing.T) {
	docs := []*unpack.Document{doc("search.txt", "replies to standard enquiries")}
	if cls := Classify(docs, defs, Options{}); cls.SearchPresent {
		t.Fatalf("lowercase marker must not match with default options")
	}
	if cls := Classify(docs, defs, Options{FoldCase: true}); !cls.SearchPresent {
		t.Fatalf("lowercase marker must match with FoldCase")
	}
}

func TestClassify_TargetGlobNarrows(t *testing.T) {
	narrowed := []enquiry.Definition{
		{ID: "q1", Prompt: "Planning?", Policy: enquiry.PolicyFreeText, Target: "search-*.txt"},
	}
	docs := []*unpack.Document{
		doc("search-2026.txt", "REPLIES TO STANDARD ENQUIRIES"),
		doc("lease.txt", "no marker"),
	}
	cls := Classify(docs, narrowed, Options{})
	got := cls.Targets["q1"]
	if len(got) != 1 || got[0].Name != "search-2026.txt" {
		t.Fatalf("glob narrowing failed: %+v", got)
	}
}

func TestClassify_UndecodableDocumentIgnored(t *testing.T) {
	docs := []*unpack.Document{
		doc("search.txt", "REPLIES TO STANDARD ENQUIRIES"),
		{Name: "photo.jpg", Data: []byte{0xff, 0xd8}},
	}
	cls := Classify(docs, defs, Options{})
	if !cls.SearchPresent {
		t.Fatalf("binary document must not affect the presence flag")
	}
	for _, c := range cls.Targets["q1"] {
		if c.Name == "photo.jpg" {
			t.Fatalf("undecodable document must never be a candidate")
		}
	}
}
