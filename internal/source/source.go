// Package source turns the files of an input directory into SourceDocuments.
package source

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/cleared-dev/parcelas/internal/model"
	"github.com/cleared-dev/parcelas/internal/pdftext"
)

// ErrUnreadable marks a document whose text could not be obtained.
var ErrUnreadable = errors.New("source unreadable")

// TextExtractor returns the plain text of a file.
type TextExtractor interface {
	Extension() string
	ExtractText(path string) (string, error)
}

// Registry holds text extractors keyed by file extension.
type Registry struct {
	extractors map[string]TextExtractor
}

// FileInfo describes a supported file in the input directory.
type FileInfo struct {
	Name string
	Path string
	Size int64
}

// NewRegistry creates an empty extractor registry.
func NewRegistry() *Registry {
	return &Registry{extractors: make(map[string]TextExtractor)}
}

// Register adds an extractor. Panics on duplicate extension.
func (r *Registry) Register(e TextExtractor) {
	key := strings.ToLower(e.Extension())
	if _, ok := r.extractors[key]; ok {
		panic("duplicate extractor extension: " + key)
	}
	r.extractors[key] = e
}

// Get returns the extractor for ext (".pdf"), or nil.
func (r *Registry) Get(ext string) TextExtractor {
	return r.extractors[strings.ToLower(ext)]
}

// Supports reports whether name has a registered extension.
func (r *Registry) Supports(name string) bool {
	return r.Get(filepath.Ext(name)) != nil
}

// DefaultRegistry returns a registry with the PDF and plain-text extractors.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(PDF{})
	r.Register(Text{})
	return r
}

// PDF extracts text from PDF documents.
type PDF struct{}

func (PDF) Extension() string { return ".pdf" }

func (PDF) ExtractText(path string) (string, error) { return pdftext.ExtractFile(path) }

// Text reads already-extracted text. Files that are not valid UTF-8 are read as Latin-1.
type Text struct{}

func (Text) Extension() string { return ".txt" }

func (Text) ExtractText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	if utf8.Valid(data) {
		return string(data), nil
	}
	out, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("decoding latin-1: %w", err)
	}
	return string(out), nil
}

// Scan returns the supported files in dir sorted by name.
func (r *Registry) Scan(dir string) ([]FileInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading input dir: %w", err)
	}

	var files []FileInfo
	for _, e := range entries {
		if e.IsDir() || !r.Supports(e.Name()) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		files = append(files, FileInfo{
			Name: e.Name(),
			Path: filepath.Join(dir, e.Name()),
			Size: info.Size(),
		})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}

// Read returns the document for a single file. Extraction failures are
// carried in ReadErr instead of being returned.
func (r *Registry) Read(path string) model.SourceDocument {
	doc := model.SourceDocument{Filename: filepath.Base(path)}
	e := r.Get(filepath.Ext(path))
	if e == nil {
		doc.ReadErr = fmt.Errorf("%w: no extractor for %q", ErrUnreadable, filepath.Ext(path))
		return doc
	}
	text, err := e.ExtractText(path)
	if err != nil {
		doc.ReadErr = fmt.Errorf("%w: %s: %v", ErrUnreadable, doc.Filename, err)
		return doc
	}
	doc.Text = text
	return doc
}

// Load reads every supported file in dir. It stops early with ctx.Err() when
// the context is cancelled, returning the documents read so far.
func (r *Registry) Load(ctx context.Context, dir string) ([]model.SourceDocument, error) {
	files, err := r.Scan(dir)
	if err != nil {
		return nil, err
	}
	docs := make([]model.SourceDocument, 0, len(files))
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return docs, err
		}
		docs = append(docs, r.Read(f.Path))
	}
	return docs, nil
}

// Load reads dir with the default registry.
func Load(ctx context.Context, dir string) ([]model.SourceDocument, error) {
	return DefaultRegistry().Load(ctx, dir)
}
