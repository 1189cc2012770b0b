package loader

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"docqa/internal/domain"
)

const (
	DefaultMaxFileSizeMB = 50
	DefaultCharsPerPage  = 3000
	minTextLen           = 10
)

// DefaultExtensions are the upload formats the loader understands.
var DefaultExtensions = []string{".txt", ".md", ".pdf", ".docx"}

var (
	ErrNotFound        = errors.New("file not found")
	ErrUnsupportedType = errors.New("unsupported file type")
	ErrFileTooLarge    = errors.New("file too large")
	ErrEmptyDocument   = errors.New("no readable text in document")
	ErrCorruptedFile   = errors.New("file is corrupted or unreadable")
	ErrEncrypted       = errors.New("document is password protected")
)

type extractor func(path string) (text string, pages int, err error)

// Loader turns files on disk into documents the engine can answer from.
type Loader struct {
	maxBytes     int64
	allowed      map[string]struct{}
	charsPerPage int
	logger       *zap.Logger
}

type Option func(*Loader)

// WithMaxFileSizeMB sets the size limit. Values <= 0 are ignored.
func WithMaxFileSizeMB(mb int) Option {
	return func(l *Loader) {
		if mb > 0 {
			l.maxBytes = int64(mb) << 20
		}
	}
}

// WithAllowedExtensions restricts the accepted extensions to a subset of the
// supported ones. Unknown extensions are dropped.
func WithAllowedExtensions(exts []string) Option {
	return func(l *Loader) {
		allowed := map[string]struct{}{}
		for _, e := range exts {
			e = strings.ToLower(strings.TrimSpace(e))
			if !strings.HasPrefix(e, ".") {
				e = "." + e
			}
			if _, ok := extractors[e]; ok {
				allowed[e] = struct{}{}
			}
		}
		if len(allowed) > 0 {
			l.allowed = allowed
		}
	}
}

func WithCharsPerPage(n int) Option {
	return func(l *Loader) {
		if n > 0 {
			l.charsPerPage = n
		}
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

var extractors = map[string]extractor{
	".txt":  readText,
	".md":   readText,
	".pdf":  readPDF,
	".docx": readDOCX,
}

func New(opts ...Option) *Loader {
	l := &Loader{
		maxBytes:     DefaultMaxFileSizeMB << 20,
		charsPerPage: DefaultCharsPerPage,
		logger:       zap.NewNop(),
	}
	WithAllowedExtensions(DefaultExtensions)(l)
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load validates path and extracts its text.
func (l *Loader) Load(path string) (domain.Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.Document{}, eris.Wrapf(ErrNotFound, "load %s", path)
		}
		return domain.Document{}, eris.Wrapf(err, "stat %s", path)
	}
	if !info.Mode().IsRegular() {
		return domain.Document{}, eris.Wrapf(ErrNotFound, "%s is not a regular file", path)
	}
	ext := strings.ToLower(filepath.Ext(path))
	if _, ok := l.allowed[ext]; !ok {
		return domain.Document{}, eris.Wrapf(ErrUnsupportedType, "extension %q", ext)
	}
	if info.Size() > l.maxBytes {
		return domain.Document{}, eris.Wrapf(ErrFileTooLarge, "%s is %d bytes, limit %d", path, info.Size(), l.maxBytes)
	}

	l.logger.Debug("extracting text", zap.String("path", path), zap.String("format", ext), zap.Int64("bytes", info.Size()))
	text, pages, err := extractors[ext](path)
	if err != nil {
		return domain.Document{}, eris.Wrapf(err, "extract %s", filepath.Base(path))
	}
	if len(strings.TrimSpace(text)) < minTextLen {
		return domain.Document{}, eris.Wrapf(ErrEmptyDocument, "%s", filepath.Base(path))
	}
	if pages <= 0 {
		pages = l.estimatePages(text)
	}
	l.logger.Debug("text extracted", zap.String("path", path), zap.Int("chars", len(text)), zap.Int("pages", pages))

	return domain.Document{
		ID:         uuid.NewString(),
		Name:       filepath.Base(path),
		Path:       path,
		Format:     strings.TrimPrefix(ext, "."),
		Content:    text,
		TotalPages: pages,
	}, nil
}

func (l *Loader) estimatePages(text string) int {
	n := int(math.Ceil(float64(len([]rune(text))) / float64(l.charsPerPage)))
	return max(n, 1)
}
