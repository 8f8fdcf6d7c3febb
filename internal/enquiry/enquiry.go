// Package enquiry holds the static question configuration: which standard
// enquiries the pipeline looks for, how each answer is extracted, and which
// documents each question may be evaluated against.
package enquiry

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	yaml "gopkg.in/yaml.v3"
)

// ErrInvalidDefinition is returned for any configuration problem in the
// question set. It is fatal at load time, before any document is processed.
var ErrInvalidDefinition = errors.New("invalid question definition")

// Policy selects how an answer is derived once a trigger phrase is located.
// The set is closed; anything else fails validation.
type Policy string

const (
	// PolicyFreeText extracts the text following the trigger up to the next
	// section boundary. Questions whose trigger never appears are omitted
	// from the report entirely.
	PolicyFreeText Policy = "free_text"
	// PolicyYesNo always contributes a sentence once the trigger is located,
	// regardless of the detected boolean. Only a missing trigger skips the
	// question.
	PolicyYesNo Policy = "yes_no"
)

// Definition is one configured enquiry. The prompt doubles as the primary
// trigger phrase; Triggers adds synonyms tried after it.
type Definition struct {
	ID       string   `yaml:"id" json:"id" validate:"required"`
	Prompt   string   `yaml:"prompt" json:"prompt" validate:"required"`
	Triggers []string `yaml:"triggers,omitempty" json:"triggers,omitempty" validate:"dive,required"`
	Policy   Policy   `yaml:"policy" json:"policy" validate:"required,oneof=free_text yes_no"`
	// Target optionally narrows the candidate documents to those whose file
	// name matches this glob. Empty means every document is a candidate.
	Target string `yaml:"target,omitempty" json:"target,omitempty"`
	// Window caps the extracted answer length in bytes; 0 uses the default.
	Window int `yaml:"window,omitempty" json:"window,omitempty" validate:"gte=0"`
}

// EffectiveTriggers returns the trigger phrases in match order: the prompt
// itself first, then any configured synonyms.
func (d Definition) EffectiveTriggers() []string {
	out := make([]string, 0, 1+len(d.Triggers))
	out = append(out, d.Prompt)
	out = append(out, d.Triggers...)
	return out
}

type fileSchema struct {
	Version   string       `yaml:"version" json:"version"`
	Questions []Definition `yaml:"questions" json:"questions" validate:"required,min=1,dive"`
}

// Load reads and validates the question set from a YAML file. The returned
// slice order is the report section order and is immutable for the run.
func Load(path string) ([]Definition, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read questions: %w", err)
	}
	return Parse(b)
}

// Parse decodes and validates a question set. All violations are reported as
// ErrInvalidDefinition so callers can fail the run before touching documents.
func Parse(b []byte) ([]Definition, error) {
	var fs fileSchema
	if err := yaml.Unmarshal(b, &fs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDefinition, err)
	}
	if err := validator.New().Struct(&fs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDefinition, err)
	}
	seen := make(map[string]struct{}, len(fs.Questions))
	for _, q := range fs.Questions {
		if _, dup := seen[q.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate id %q", ErrInvalidDefinition, q.ID)
		}
		seen[q.ID] = struct{}{}
		if q.Target != "" {
			if _, err := filepath.Match(q.Target, "probe"); err != nil {
				return nil, fmt.Errorf("%w: question %q target %q: %v", ErrInvalidDefinition, q.ID, q.Target, err)
			}
		}
	}
	return fs.Questions, nil
}
