package app

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/hyperifyio/goconveyance/internal/extract"
)

// manifest captures run details that aid traceability. Only the
// deterministic fields are embedded in the report itself, so byte-identical
// inputs keep producing byte-identical reports; run ID and timestamp go to
// the JSON sidecar only.
type manifest struct {
	RunID         string    `json:"run_id"`
	Archive       string    `json:"archive"`
	ArchiveSHA256 string    `json:"archive_sha256"`
	Documents     int       `json:"documents"`
	Skipped       int       `json:"skipped"`
	SearchPresent bool      `json:"search_present"`
	Found         int       `json:"found"`
	NotFound      int       `json:"not_found"`
	Version       string    `json:"version"`
	GeneratedAt   time.Time `json:"generated_at"`
}

func buildManifest(res *Result) manifest {
	m := manifest{
		RunID:         res.RunID.String(),
		Archive:       res.Archive.Name,
		ArchiveSHA256: computeSHA256Hex(res.Archive.Bytes()),
		Documents:     len(res.Archive.Documents),
		Skipped:       len(res.Archive.Skipped),
		SearchPresent: res.SearchPresent,
		Version:       BuildVersion,
		GeneratedAt:   res.GeneratedAt,
	}
	for _, a := range res.Answers {
		if a.Status == extract.StatusFound {
			m.Found++
		} else {
			m.NotFound++
		}
	}
	return m
}

// computeSHA256Hex returns a lowercase hex-encoded SHA-256 of the given bytes.
func computeSHA256Hex(b []byte) string {
	h := sha256.Sum256(b)
	return hex.EncodeToString(h[:])
}

// appendEmbeddedManifest appends a compact Markdown manifest section with the
// deterministic run details.
func appendEmbeddedManifest(markdown string, m manifest) string {
	var b strings.Builder
	b.WriteString(markdown)
	b.WriteString("\n## Manifest\n\n")
	b.WriteString("- Archive: ")
	b.WriteString(m.Archive)
	b.WriteString("\n- Archive SHA-256: ")
	b.WriteString(m.ArchiveSHA256)
	b.WriteString("\n- Documents: ")
	b.WriteString(strconv.Itoa(m.Documents))
	b.WriteString("\n- Skipped: ")
	b.WriteString(strconv.Itoa(m.Skipped))
	b.WriteString("\n- Search conducted: ")
	b.WriteString(boolToString(m.SearchPresent))
	b.WriteString("\n- Answers found: ")
	b.WriteString(strconv.Itoa(m.Found))
	b.WriteString("\n")
	return b.String()
}

func boolToString(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

// marshalManifestJSON renders the sidecar manifest, including the
// non-deterministic run ID and timestamp.
func marshalManifestJSON(m manifest) ([]byte, error) {
	return json.MarshalIndent(m, "", "  ")
}
