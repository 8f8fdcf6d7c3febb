// Package extract applies each configured enquiry to its candidate documents
// and produces an answer per question. Matching is first-match-wins within a
// document and first-document-wins across candidates; nothing is merged
// across documents.
package extract

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/hyperifyio/goconveyance/internal/enquiry"
	"github.com/hyperifyio/goconveyance/internal/unpack"
)

// Status is the terminal state of one answer. Absence is a normal result,
// never an error.
type Status string

const (
	StatusFound    Status = "found"
	StatusNotFound Status = "not_found"
)

// Answer is the result of applying one question to the archive. It is
// created here, consumed by the report assembler, and never mutated.
type Answer struct {
	QuestionID string `json:"question_id"`
	Status     Status `json:"status"`
	Text       string `json:"text,omitempty"`
}

// DefaultWindow caps how far past a trigger the free-text policy reads when
// no section boundary intervenes.
const DefaultWindow = 480

// yesNoScanWindow bounds how far past a trigger the yes/no policy looks for
// the boolean token.
const yesNoScanWindow = 160

// boundaryRe matches the start of the next numbered enquiry, which ends a
// free-text answer. Blank lines end answers as well.
var boundaryRe = regexp.MustCompile(`(?m)^\s*\d+(\.\d+)*[.)]?\s`)

var yesNoRe = regexp.MustCompile(`(?i)\b(yes|no)\b`)

// Extractor evaluates questions against candidate documents. The zero value
// is usable; FoldCase mirrors the classifier's matching policy switch.
type Extractor struct {
	FoldCase bool
	Window   int
}

// Answer produces the answer for one question. Candidates are searched in
// classification order; the first document containing any trigger phrase
// decides the answer. Re-running against unchanged inputs yields an
// identical Answer.
func (e *Extractor) Answer(def enquiry.Definition, candidates []*unpack.Document) Answer {
	for _, doc := range candidates {
		text, err := doc.Text()
		if err != nil {
			continue
		}
		for _, trigger := range def.EffectiveTriggers() {
			idx := e.index(text, trigger)
			if idx < 0 {
				continue
			}
			rest := text[idx+len(trigger):]
			switch def.Policy {
			case enquiry.PolicyYesNo:
				return Answer{QuestionID: def.ID, Status: StatusFound, Text: verbalizeYesNo(def.Prompt, rest)}
			default:
				if body := e.clip(rest, def.Window); body != "" {
					return Answer{QuestionID: def.ID, Status: StatusFound, Text: body}
				}
				// Trigger matched but nothing follows before the boundary;
				// keep looking in later triggers and documents.
			}
		}
	}
	return Answer{QuestionID: def.ID, Status: StatusNotFound}
}

func (e *Extractor) index(text, trigger string) int {
	if e.FoldCase {
		return strings.Index(strings.ToLower(text), strings.ToLower(trigger))
	}
	return strings.Index(text, trigger)
}

// clip cuts the answer at the first section boundary after the trigger and
// caps it at the extraction window.
func (e *Extractor) clip(rest string, window int) string {
	if window <= 0 {
		window = e.Window
	}
	if window <= 0 {
		window = DefaultWindow
	}
	if cut := strings.Index(rest, "\n\n"); cut >= 0 {
		rest = rest[:cut]
	}
	if loc := boundaryRe.FindStringIndex(rest); loc != nil && loc[0] > 0 {
		rest = rest[:loc[0]]
	}
	if len(rest) > window {
		rest = rest[:window]
	}
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(rest), ":-–"))
}

// verbalizeYesNo renders the detected boolean as a full sentence. The token
// is searched in a short window after the trigger; when no explicit yes/no
// appears the answer defaults to No.
func verbalizeYesNo(prompt, rest string) string {
	window := rest
	if len(window) > yesNoScanWindow {
		window = window[:yesNoScanWindow]
	}
	verdict := "No"
	if m := yesNoRe.FindString(window); strings.EqualFold(m, "yes") {
		verdict = "Yes"
	}
	return fmt.Sprintf("The reply to %q is %s.", prompt, verdict)
}
