package filestore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/B3ttiK0nf3ti/studyprogram-dashboard/internal/domain"
	"github.com/B3ttiK0nf3ti/studyprogram-dashboard/internal/ports"
)

// Format is the on-disk encoding of the snapshot.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFor picks the format from the file extension. Anything that is not
// .yaml/.yml is JSON.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Store keeps the whole program in a single file.
type Store struct {
	path   string
	format Format
	tmpID  func() string
}

type Option func(*Store)

// WithFormat overrides the extension-derived format.
func WithFormat(f Format) Option {
	return func(s *Store) { s.format = f }
}

// WithTempID is useful for tests.
func WithTempID(fn func() string) Option {
	return func(s *Store) { s.tmpID = fn }
}

func New(path string, opts ...Option) *Store {
	s := &Store{
		path:   filepath.Clean(path),
		format: FormatFor(path),
		tmpID:  func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ ports.ProgramStore = (*Store)(nil)

func (s *Store) Path() string { return s.path }

func (s *Store) Load(ctx context.Context) (map[string]any, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	b, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, &domain.OpError{
			Op:   "filestore.read",
			Kind: domain.KindStorage,
			Path: s.path,
			Err:  fmt.Errorf("%w: %w", domain.ErrStorageUnavailable, err),
		}
	}

	if len(bytes.TrimSpace(b)) == 0 {
		return nil, false, nil
	}

	doc, err := s.unmarshal(b)
	if err != nil {
		return nil, false, &domain.OpError{
			Op:   "filestore.parse",
			Kind: domain.KindMalformed,
			Path: s.path,
			Err:  fmt.Errorf("%w: %w", domain.ErrMalformedData, err),
		}
	}
	return doc, true, nil
}

func (s *Store) Save(ctx context.Context, doc map[string]any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	b, err := s.marshal(doc)
	if err != nil {
		return &domain.OpError{
			Op:   "filestore.marshal",
			Kind: domain.KindStorage,
			Path: s.path,
			Err:  fmt.Errorf("%w: %w", domain.ErrStorageUnavailable, err),
		}
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return storageErr("filestore.mkdir", dir, err)
	}

	// Atomic-ish write: tmp then rename.
	tmp := fmt.Sprintf("%s.%s.tmp", s.path, s.tmpID())
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		_ = os.Remove(tmp)
		return storageErr("filestore.write", tmp, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return storageErr("filestore.rename", s.path, err)
	}
	return nil
}

func (s *Store) marshal(doc map[string]any) ([]byte, error) {
	if s.format == FormatYAML {
		return yaml.Marshal(doc)
	}
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}

func (s *Store) unmarshal(b []byte) (map[string]any, error) {
	var doc map[string]any
	if s.format == FormatYAML {
		if err := yaml.Unmarshal(b, &doc); err != nil {
			return nil, err
		}
		if doc == nil {
			return nil, errors.New("document is not a mapping")
		}
		return doc, nil
	}

	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, errors.New("document is null")
	}
	return doc, nil
}

func storageErr(op, path string, err error) error {
	return &domain.OpError{
		Op:   op,
		Kind: domain.KindStorage,
		Path: path,
		Err:  fmt.Errorf("%w: %w", domain.ErrStorageUnavailable, err),
	}
}
