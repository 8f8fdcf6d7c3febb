package app

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// publish writes the run's output bundle: the rendered report, the original
// archive bytes republished unmodified, a JSON manifest sidecar, an optional
// PDF render, and a SHA256SUMS file over the bundle. Everything is staged in
// a scratch directory and moved into place only after every write succeeded,
// so a failed run publishes nothing and the report is never partial.
func (a *App) publish(res *Result) error {
	outDir := a.cfg.OutDir
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("mkdir out dir: %w", err)
	}
	stage, err := os.MkdirTemp(outDir, ".staging-")
	if err != nil {
		return fmt.Errorf("mkdir staging: %w", err)
	}
	defer os.RemoveAll(stage)

	reportName := a.cfg.ReportName
	if strings.TrimSpace(reportName) == "" {
		reportName = "report.md"
	}
	if err := os.WriteFile(filepath.Join(stage, reportName), []byte(res.Markdown), 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	// Republish the container byte-identical, co-located for traceability.
	archName := res.Archive.Name
	if strings.TrimSpace(archName) == "" {
		archName = "archive.zip"
	}
	companions := []string{archName}
	if err := os.WriteFile(filepath.Join(stage, archName), res.Archive.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write archive copy: %w", err)
	}

	manName := sidecarName(reportName, ".manifest.json")
	companions = append(companions, manName)
	data, err := marshalManifestJSON(buildManifest(res))
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	if err := os.WriteFile(filepath.Join(stage, manName), data, 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}

	if a.cfg.EnablePDF {
		pdfName := sidecarName(reportName, ".pdf")
		companions = append(companions, pdfName)
		if err := writeReportPDF(res.Markdown, filepath.Join(stage, pdfName)); err != nil {
			return fmt.Errorf("write pdf: %w", err)
		}
	}

	if err := writeSHA256SUMS(stage); err != nil {
		return err
	}
	companions = append(companions, "SHA256SUMS")

	// Companions move first; the report moves last so a failure partway
	// never leaves a published report without its artifacts.
	for _, name := range companions {
		if err := os.Rename(filepath.Join(stage, name), filepath.Join(outDir, name)); err != nil {
			return fmt.Errorf("publish %s: %w", name, err)
		}
	}
	if err := os.Rename(filepath.Join(stage, reportName), filepath.Join(outDir, reportName)); err != nil {
		return fmt.Errorf("publish %s: %w", reportName, err)
	}
	return nil
}

// sidecarName derives a companion filename from the report name, e.g.
// report.md -> report.manifest.json.
func sidecarName(reportName, suffix string) string {
	base := strings.TrimSuffix(reportName, filepath.Ext(reportName))
	if base == "" {
		base = "report"
	}
	return base + suffix
}

// writeSHA256SUMS writes digests for every file in the bundle directory.
func writeSHA256SUMS(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	var b strings.Builder
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		sum, err := sha256File(filepath.Join(dir, e.Name()))
		if err != nil {
			return err
		}
		b.WriteString(sum)
		b.WriteString("  ")
		b.WriteString(e.Name())
		b.WriteString("\n")
	}
	return os.WriteFile(filepath.Join(dir, "SHA256SUMS"), []byte(b.String()), 0o644)
}

func sha256File(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
