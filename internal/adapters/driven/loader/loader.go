package loader

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/custodia-labs/sercha-research/internal/core/domain"
)

// ErrUnsupportedFile is returned for files with an unknown extension.
var ErrUnsupportedFile = errors.New("unsupported file type")

// Format names recorded in document metadata.
const (
	FormatText     = "text"
	FormatMarkdown = "markdown"
	FormatPDF      = "pdf"
)

// formats maps lowercase extensions to formats.
var formats = map[string]string{
	".txt":      FormatText,
	".text":     FormatText,
	".md":       FormatMarkdown,
	".markdown": FormatMarkdown,
	".pdf":      FormatPDF,
}

// Supported reports whether the loader can read the file at path.
func Supported(path string) bool {
	_, ok := formats[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Loader reads documents from a directory tree.
type Loader struct {
	root string
}

// New creates a loader rooted at dir.
func New(dir string) *Loader {
	return &Loader{root: dir}
}

// Root returns the directory the loader reads from.
func (l *Loader) Root() string {
	return l.root
}

// Load reads every supported file under the root, skipping hidden entries.
// Documents are returned sorted by path. Files that cannot be read are
// reported in the returned FileErrors alongside the documents that loaded.
func (l *Loader) Load(ctx context.Context) ([]domain.Document, FileErrors, error) {
	info, err := os.Stat(l.root)
	if err != nil {
		return nil, nil, fmt.Errorf("corpus directory: %w", err)
	}
	if !info.IsDir() {
		return nil, nil, fmt.Errorf("corpus directory: %s is not a directory", l.root)
	}

	var paths []string
	err = filepath.WalkDir(l.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path != l.root && isHidden(d.Name()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.IsDir() && Supported(path) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("walking %s: %w", l.root, err)
	}
	sort.Strings(paths)

	docs := make([]domain.Document, 0, len(paths))
	var failed FileErrors
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		doc, err := LoadFile(path)
		if err != nil {
			failed = append(failed, FileError{Path: path, Err: err})
			continue
		}
		docs = append(docs, doc)
	}
	return docs, failed, nil
}

// LoadFile reads a single supported file into a document.
func LoadFile(path string) (domain.Document, error) {
	format, ok := formats[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return domain.Document{}, fmt.Errorf("%w: %s", ErrUnsupportedFile, path)
	}

	var content string
	switch format {
	case FormatPDF:
		text, err := readPDF(path)
		if err != nil {
			return domain.Document{}, err
		}
		content = text
	default:
		data, err := os.ReadFile(path)
		if err != nil {
			return domain.Document{}, fmt.Errorf("reading %s: %w", path, err)
		}
		content = string(data)
		if format == FormatMarkdown {
			content = stripMarkdown(content)
		}
	}

	name := filepath.Base(path)
	doc := domain.Document{
		ID:      strings.TrimSuffix(name, filepath.Ext(name)),
		Title:   name,
		Content: content,
		Metadata: map[string]any{
			"source": path,
			"format": format,
		},
	}
	if err := doc.Validate(); err != nil {
		return domain.Document{}, err
	}
	return doc, nil
}

// FileError records a file that could not be loaded.
type FileError struct {
	Path string
	Err  error
}

func (e FileError) Error() string {
	return e.Path + ": " + e.Err.Error()
}

func (e FileError) Unwrap() error {
	return e.Err
}

// FileErrors collects per-file load failures.
type FileErrors []FileError

// isHidden checks if a file or directory name starts with a dot.
func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}
