package unpack

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"
	"sync"
)

// ErrArchiveUnreadable indicates the archive container itself could not be
// opened. It aborts the whole run; no report is produced.
var ErrArchiveUnreadable = errors.New("archive unreadable")

// ErrUnsupportedFormat indicates a single document whose content cannot be
// decoded to text. The document is skipped; the run continues.
var ErrUnsupportedFormat = errors.New("unsupported document format")

// Document is one file recovered from the archive. The plain-text
// representation is computed on first use and cached for the lifetime of the
// run, so repeated reads are deterministic and cheap.
type Document struct {
	Name string
	Data []byte

	once sync.Once
	text string
	err  error
}

// Text returns the decoded plain text of the document. Decoding happens at
// most once; the result (or the decode error) is cached.
func (d *Document) Text() (string, error) {
	d.once.Do(func() {
		d.text, d.err = decode(d.Name, d.Data)
	})
	return d.text, d.err
}

// Skipped records a file that was present in the archive but contributed no
// text, either because its format is unsupported or its member entry could
// not be read.
type Skipped struct {
	Name   string
	Reason string
}

// Archive owns the set of source documents plus the untouched container
// bytes, which are republished alongside the final report.
type Archive struct {
	Name      string
	Documents []*Document
	Skipped   []Skipped

	raw []byte
}

// Bytes returns the original container bytes, unmodified.
func (a *Archive) Bytes() []byte { return a.raw }

// Open reads a compressed container into an Archive. Zip is the primary
// format; .tar.gz/.tgz are accepted as well. Documents are sorted by name so
// downstream stages see a stable order regardless of container layout.
// A container that cannot be opened returns an error wrapping
// ErrArchiveUnreadable and no partial archive.
func Open(name string, data []byte) (*Archive, error) {
	a := &Archive{Name: name, raw: data}

	var err error
	switch {
	case strings.HasSuffix(name, ".tar.gz") || strings.HasSuffix(name, ".tgz"):
		err = a.readTarGz(data)
	default:
		err = a.readZip(data)
	}
	if err != nil {
		return nil, err
	}

	sort.Slice(a.Documents, func(i, j int) bool { return a.Documents[i].Name < a.Documents[j].Name })
	return a, nil
}

func (a *Archive) readZip(data []byte) error {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrArchiveUnreadable, err)
	}
	for _, f := range zr.File {
		if f.FileInfo().IsDir() || !safeName(f.Name) {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			a.Skipped = append(a.Skipped, Skipped{Name: f.Name, Reason: "unreadable member: " + err.Error()})
			continue
		}
		b, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			a.Skipped = append(a.Skipped, Skipped{Name: f.Name, Reason: "unreadable member: " + err.Error()})
			continue
		}
		a.Documents = append(a.Documents, &Document{Name: path.Base(f.Name), Data: b})
	}
	return nil
}

func (a *Archive) readTarGz(data []byte) error {
	gz, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrArchiveUnreadable, err)
	}
	defer gz.Close()
	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%w: %v", ErrArchiveUnreadable, err)
		}
		if hdr.Typeflag != tar.TypeReg || !safeName(hdr.Name) {
			continue
		}
		b, err := io.ReadAll(tr)
		if err != nil {
			a.Skipped = append(a.Skipped, Skipped{Name: hdr.Name, Reason: "unreadable member: " + err.Error()})
			continue
		}
		a.Documents = append(a.Documents, &Document{Name: path.Base(hdr.Name), Data: b})
	}
}

// safeName rejects absolute and parent-traversing member names.
func safeName(name string) bool {
	if name == "" || strings.HasPrefix(name, "/") {
		return false
	}
	for _, part := range strings.Split(path.Clean(name), "/") {
		if part == ".." {
			return false
		}
	}
	return true
}

// decode dispatches on filename extension to the matching text decoder.
// Extensions outside the capability set are unsupported, not fatal.
func decode(name string, data []byte) (string, error) {
	switch ext := strings.ToLower(path.Ext(name)); ext {
	case ".txt", ".md", "":
		return decodePlain(data)
	case ".htm", ".html":
		return decodeHTML(data)
	case ".pdf":
		return decodePDF(data)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
}
