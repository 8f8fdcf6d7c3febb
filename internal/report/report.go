// Package report renders the collected answers into the final Markdown
// document. The report is a terminal, write-once artifact; it holds no
// reference back to the archive.
package report

import (
	"strings"

	"github.com/hyperifyio/goconveyance/internal/enquiry"
	"github.com/hyperifyio/goconveyance/internal/extract"
)

// The two fixed preamble templates, selected solely by the search presence
// flag.
const (
	PreambleConducted    = "A local authority search was conducted for this property. The replies to the standard enquiries are summarised below."
	PreambleNotConducted = "No local authority search was conducted for this property. None of the supplied documents contain replies to the standard enquiries."
)

// Source is one decoded document included in the optional source-text
// appendix.
type Source struct {
	Name string
	Text string
}

// Input carries everything the assembler needs. Questions and Answers are
// parallel slices in configuration order.
type Input struct {
	Title         string
	SearchPresent bool
	Questions     []enquiry.Definition
	Answers       []extract.Answer
	// Sources, when non-empty, adds a full-text appendix with one section
	// per decoded document.
	Sources []Source
}

// Build renders the report. The body holds one section per found answer in
// configuration order; not-found answers contribute nothing, so the section
// count always equals the found count.
func Build(in Input) string {
	var b strings.Builder
	b.WriteString("# Local authority search report")
	if strings.TrimSpace(in.Title) != "" {
		b.WriteString("\n\n")
		b.WriteString("Archive: ")
		b.WriteString(strings.TrimSpace(in.Title))
	}
	b.WriteString("\n\n")
	if in.SearchPresent {
		b.WriteString(PreambleConducted)
	} else {
		b.WriteString(PreambleNotConducted)
	}
	b.WriteString("\n")

	if in.SearchPresent {
		for i, q := range in.Questions {
			if i >= len(in.Answers) {
				break
			}
			a := in.Answers[i]
			if a.Status != extract.StatusFound {
				continue
			}
			b.WriteString("\n## ")
			b.WriteString(q.Prompt)
			b.WriteString("\n\n")
			b.WriteString(a.Text)
			b.WriteString("\n")
		}
	}

	if len(in.Sources) > 0 {
		b.WriteString("\n## Appendix. Source documents\n")
		for _, s := range in.Sources {
			b.WriteString("\n### Source: ")
			b.WriteString(s.Name)
			b.WriteString("\n\n")
			b.WriteString(s.Text)
			b.WriteString("\n")
		}
	}
	return b.String()
}
