package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	yaml "gopkg.in/yaml.v3"
)

// FileConfig represents the single-file configuration schema. Nested
// sections map naturally to flags.
type FileConfig struct {
	Archive   string `yaml:"archive" json:"archive"`
	Questions string `yaml:"questions" json:"questions"`

	Out struct {
		Dir    string `yaml:"dir" json:"dir"`
		Report string `yaml:"report" json:"report"`
		PDF    bool   `yaml:"pdf" json:"pdf"`
	} `yaml:"out" json:"out"`

	Matching struct {
		FoldCase bool `yaml:"foldCase" json:"foldCase"`
		Window   int  `yaml:"window" json:"window"`
	} `yaml:"matching" json:"matching"`

	SourceAppendix bool `yaml:"sourceAppendix" json:"sourceAppendix"`
	Concurrency    int  `yaml:"concurrency" json:"concurrency"`
	Verbose        bool `yaml:"verbose" json:"verbose"`
}

// LoadConfigFile reads YAML or JSON into FileConfig.
func LoadConfigFile(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse json: %w", err)
		}
	default:
		// Try YAML then JSON
		if err := yaml.Unmarshal(b, &fc); err != nil {
			if jerr := json.Unmarshal(b, &fc); jerr != nil {
				return fc, fmt.Errorf("parse config: %v (yaml) / %v (json)", err, jerr)
			}
		}
	}
	return fc, nil
}

// ApplyFileConfig overlays values from FileConfig into cfg for any fields
// left at their flag defaults. Flags should already have been parsed; file
// config supplies defaults without overriding explicit flags.
func ApplyFileConfig(cfg *Config, fc FileConfig) {
	if cfg == nil {
		return
	}
	const (
		questionsDefault = "enquiries.yaml"
		outDirDefault    = "out"
		reportDefault    = "report.md"
	)

	if cfg.ArchivePath == "" && fc.Archive != "" {
		cfg.ArchivePath = fc.Archive
	}
	if (cfg.QuestionsPath == "" || cfg.QuestionsPath == questionsDefault) && fc.Questions != "" {
		cfg.QuestionsPath = fc.Questions
	}
	if (cfg.OutDir == "" || cfg.OutDir == outDirDefault) && fc.Out.Dir != "" {
		cfg.OutDir = fc.Out.Dir
	}
	if (cfg.ReportName == "" || cfg.ReportName == reportDefault) && fc.Out.Report != "" {
		cfg.ReportName = fc.Out.Report
	}
	if !cfg.EnablePDF && fc.Out.PDF {
		cfg.EnablePDF = true
	}
	if !cfg.FoldCase && fc.Matching.FoldCase {
		cfg.FoldCase = true
	}
	if cfg.Window == 0 && fc.Matching.Window > 0 {
		cfg.Window = fc.Matching.Window
	}
	if !cfg.SourceAppendix && fc.SourceAppendix {
		cfg.SourceAppendix = true
	}
	if cfg.Concurrency == 0 && fc.Concurrency > 0 {
		cfg.Concurrency = fc.Concurrency
	}
	if !cfg.Verbose && fc.Verbose {
		cfg.Verbose = true
	}
}

// ValidateConfig performs minimal schema validation for required settings.
func ValidateConfig(cfg Config) error {
	if strings.TrimSpace(cfg.ArchivePath) == "" {
		return errors.New("config: archive path is required")
	}
	if strings.TrimSpace(cfg.QuestionsPath) == "" {
		return errors.New("config: questions path is required")
	}
	if strings.TrimSpace(cfg.OutDir) == "" {
		return errors.New("config: output directory is required")
	}
	if cfg.Window < 0 || cfg.Concurrency < 0 {
		return errors.New("config: negative limits are not allowed")
	}
	return nil
}
