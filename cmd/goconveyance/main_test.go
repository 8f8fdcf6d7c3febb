package main

import (
	"archive/zip"
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	apppkg "github.com/hyperifyio/goconveyance/internal/app"
	"github.com/hyperifyio/goconveyance/internal/unpack"
)

// Smoke test: ensure main.run publishes a report bundle with minimal config.
func TestRun_WritesBundle(t *testing.T) {
	dir := t.TempDir()
	arch := filepath.Join(dir, "bundle.zip")
	questions := filepath.Join(dir, "enquiries.yaml")
	out := filepath.Join(dir, "out")

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("search.txt")
	if err != nil {
		t.Fatalf("zip create: %v", err)
	}
	w.Write([]byte("REPLIES TO STANDARD ENQUIRIES\nConservation Area: No.\n"))
	zw.Close()
	if err := os.WriteFile(arch, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write archive: %v", err)
	}
	qs := "questions:\n  - id: conservation-area\n    prompt: \"Is the property in a Conservation Area?\"\n    triggers: [\"Conservation Area\"]\n    policy: yes_no\n"
	if err := os.WriteFile(questions, []byte(qs), 0o644); err != nil {
		t.Fatalf("write questions: %v", err)
	}

	cfg := apppkg.Config{
		ArchivePath:   arch,
		QuestionsPath: questions,
		OutDir:        out,
		ReportName:    "report.md",
	}
	if err := run(cfg); err != nil {
		t.Fatalf("run error: %v", err)
	}
	b, err := os.ReadFile(filepath.Join(out, "report.md"))
	if err != nil || len(b) == 0 {
		t.Fatalf("expected report file, err=%v", err)
	}
}

// Ensures the fatal archive error is surfaced from run() for the exit code
// policy.
func TestRun_UnreadableArchive_Error(t *testing.T) {
	dir := t.TempDir()
	arch := filepath.Join(dir, "corrupt.zip")
	questions := filepath.Join(dir, "enquiries.yaml")
	if err := os.WriteFile(arch, []byte("not a zip"), 0o644); err != nil {
		t.Fatalf("write archive: %v", err)
	}
	qs := "questions:\n  - id: q1\n    prompt: \"P\"\n    policy: free_text\n"
	if err := os.WriteFile(questions, []byte(qs), 0o644); err != nil {
		t.Fatalf("write questions: %v", err)
	}
	cfg := apppkg.Config{
		ArchivePath:   arch,
		QuestionsPath: questions,
		OutDir:        filepath.Join(dir, "out"),
		ReportName:    "report.md",
	}
	err := run(cfg)
	if !errors.Is(err, unpack.ErrArchiveUnreadable) {
		t.Fatalf("expected ErrArchiveUnreadable, got %v", err)
	}
}
