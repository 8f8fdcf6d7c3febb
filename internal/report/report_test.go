package report

import (
	"strings"
	"testing"

	"github.com/hyperifyio/goconveyance/internal/enquiry"
	"github.com/hyperifyio/goconveyance/internal/extract"
)

var defs = []enquiry.Definition{
	{ID: "q1", Prompt: "Are there any existing Planning Permissions?", Policy: enquiry.PolicyFreeText},
	{ID: "q2", Prompt: "Is the property in a Conservation Area?", Policy: enquiry.PolicyYesNo},
	{ID: "q3", Prompt: "Are there any outstanding enforcement notices?", Policy: enquiry.PolicyFreeText},
}

func TestBuild_NotConductedPreamble(t *testing.T) {
	md := Build(Input{Title: "bundle.zip", SearchPresent: false, Questions: defs})
	if !strings.Contains(md, PreambleNotConducted) {
		t.Fatalf("expected the not-conducted preamble")
	}
	if strings.Contains(md, "## Are") || strings.Contains(md, "## Is") {
		t.Fatalf("no question sections expected without a search document:\n%s", md)
	}
}

func TestBuild_BodyCardinalityEqualsFound(t *testing.T) {
	answers := []extract.Answer{
		{QuestionID: "q1", Status: extract.StatusFound, Text: "Yes, granted 2019."},
		{QuestionID: "q2", Status: extract.StatusNotFound},
		{QuestionID: "q3", Status: extract.StatusFound, Text: "None recorded."},
	}
	md := Build(Input{SearchPresent: true, Questions: defs, Answers: answers})
	if !strings.Contains(md, PreambleConducted) {
		t.Fatalf("expected the conducted preamble")
	}
	sections := strings.Count(md, "\n## ")
	if sections != 2 {
		t.Fatalf("body sections must equal found answers: want 2, got %d\n%s", sections, md)
	}
	if strings.Contains(md, "Conservation Area") {
		t.Fatalf("a not_found answer must contribute nothing, not even a mention:\n%s", md)
	}
}

func TestBuild_SectionOrderIsConfigurationOrder(t *testing.T) {
	answers := []extract.Answer{
		{QuestionID: "q1", Status: extract.StatusFound, Text: "first"},
		{QuestionID: "q2", Status: extract.StatusFound, Text: "second"},
		{QuestionID: "q3", Status: extract.StatusFound, Text: "third"},
	}
	md := Build(Input{SearchPresent: true, Questions: defs, Answers: answers})
	i1 := strings.Index(md, "Planning Permissions")
	i2 := strings.Index(md, "Conservation Area")
	i3 := strings.Index(md, "enforcement notices")
	if !(i1 >= 0 && i1 < i2 && i2 < i3) {
		t.Fatalf("sections out of configuration order: %d %d %d\n%s", i1, i2, i3, md)
	}
}

func TestBuild_SourceAppendix(t *testing.T) {
	md := Build(Input{
		SearchPresent: true,
		Sources: []Source{
			{Name: "search.txt", Text: "full search text"},
			{Name: "lease.txt", Text: "full lease text"},
		},
	})
	if !strings.Contains(md, "### Source: search.txt") || !strings.Contains(md, "### Source: lease.txt") {
		t.Fatalf("appendix sections missing:\n%s", md)
	}
	if !strings.Contains(md, "full lease text") {
		t.Fatalf("appendix text missing:\n%s", md)
	}
}

func TestBuild_Deterministic(t *testing.T) {
	in := Input{
		Title:         "bundle.zip",
		SearchPresent: true,
		Questions:     defs,
		Answers: []extract.Answer{
			{QuestionID: "q1", Status: extract.StatusFound, Text: "Yes."},
			{QuestionID: "q2", Status: extract.StatusNotFound},
			{QuestionID: "q3", Status: extract.StatusNotFound},
		},
	}
	if Build(in) != Build(in) {
		t.Fatalf("identical inputs must produce identical reports")
	}
}
