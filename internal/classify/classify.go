// Package classify decides whether a local authority search is present in
// the archive and resolves each question to the documents it should be
// evaluated against.
package classify

import (
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/goconveyance/internal/enquiry"
	"github.com/hyperifyio/goconveyance/internal/unpack"
)

// Marker is the literal text identifying a local-authority-search document.
const Marker = "REPLIES TO STANDARD ENQUIRIES"

// Options tunes matching. FoldCase switches marker detection to
// case-insensitive matching; the default is a literal, case-sensitive
// substring match.
type Options struct {
	FoldCase bool
}

// Classification is the classifier's output: the presence flag, which
// document carried the marker, and the ordered candidate documents per
// question. When SearchPresent is false Targets is empty and no question is
// evaluated.
type Classification struct {
	SearchPresent bool
	MarkerDoc     string
	Targets       map[string][]*unpack.Document
}

// Classify scans the decoded document texts for the search marker and, when
// found, builds per-question candidate lists: the marker document first, the
// remaining documents after it in archive order, narrowed by each question's
// target glob. Documents that failed to decode contribute no text and are
// never candidates. When several documents carry the marker the first wins.
func Classify(docs []*unpack.Document, defs []enquiry.Definition, opts Options) Classification {
	cls := Classification{Targets: make(map[string][]*unpack.Document, len(defs))}

	var marker *unpack.Document
	var readable []*unpack.Document
	for _, d := range docs {
		text, err := d.Text()
		if err != nil {
			// Already surfaced as a warning during decode; the document
			// simply contributes no text here.
			log.Debug().Str("doc", d.Name).Err(err).Msg("document excluded from classification")
			continue
		}
		readable = append(readable, d)
		if marker == nil && containsMarker(text, opts.FoldCase) {
			marker = d
		}
	}
	if marker == nil {
		return cls
	}
	cls.SearchPresent = true
	cls.MarkerDoc = marker.Name

	// Marker document first, then the rest in archive order.
	ordered := make([]*unpack.Document, 0, len(readable))
	ordered = append(ordered, marker)
	for _, d := range readable {
		if d != marker {
			ordered = append(ordered, d)
		}
	}

	for _, def := range defs {
		candidates := ordered
		if def.Target != "" {
			narrowed := make([]*unpack.Document, 0, len(ordered))
			for _, d := range ordered {
				if ok, _ := filepath.Match(def.Target, d.Name); ok {
					narrowed = append(narrowed, d)
				}
			}
			candidates = narrowed
		}
		cls.Targets[def.ID] = candidates
	}
	return cls
}

func containsMarker(text string, fold bool) bool {
	if fold {
		return strings.Contains(strings.ToLower(text), strings.ToLower(Marker))
	}
	return strings.Contains(text, Marker)
}
