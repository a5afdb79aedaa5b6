package document

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/goccy/go-yaml"

	errs "github.com/matzehuels/jsongraph/pkg/errors"
)

// FileStore keeps the document in a local file. Files ending in .yaml or
// .yml are converted to JSON on read and written back as YAML.
type FileStore struct {
	path string
	yaml bool

	mu   sync.Mutex
	meta Meta
}

// NewFileStore returns a store for path. The file does not need to exist yet.
func NewFileStore(path string) (*FileStore, error) {
	if err := errs.ValidateFilePath(path); err != nil {
		return nil, err
	}
	ext := strings.ToLower(filepath.Ext(path))
	return &FileStore{path: path, yaml: ext == ".yaml" || ext == ".yml"}, nil
}

// Path returns the file path.
func (s *FileStore) Path() string { return s.path }

// Text reads the file and returns it as JSON text.
func (s *FileStore) Text(ctx context.Context) (string, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return "", errs.Wrap(errs.ErrCodeFileNotFound, err, "document file %s", s.path)
	}
	if err != nil {
		return "", errs.Wrap(errs.ErrCodeInternal, err, "read %s", s.path)
	}
	if !s.yaml {
		return string(data), nil
	}

	converted, err := yaml.YAMLToJSON(data)
	if err != nil {
		return "", errs.Wrap(errs.ErrCodeInvalidDocument, err, "convert %s to JSON", s.path)
	}
	return string(converted), nil
}

// SetText writes text to the file, converting it to YAML for YAML files.
// The file is replaced atomically.
func (s *FileStore) SetText(ctx context.Context, text string, meta Meta) error {
	data := []byte(text)
	if s.yaml {
		converted, err := yaml.JSONToYAML(data)
		if err != nil {
			return errs.Wrap(errs.ErrCodeInvalidDocument, err, "convert document to YAML")
		}
		data = converted
	} else if !strings.HasSuffix(text, "\n") {
		data = append(data, '\n')
	}

	if err := writeAtomic(s.path, data); err != nil {
		return errs.Wrap(errs.ErrCodeInternal, err, "write %s", s.path)
	}

	s.mu.Lock()
	s.meta = meta
	s.mu.Unlock()
	return nil
}

// Meta returns the metadata of the last write made through this store.
func (s *FileStore) Meta(ctx context.Context) (Meta, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.meta, nil
}

// Backend returns "file".
func (s *FileStore) Backend() string { return "file" }

// Close does nothing.
func (s *FileStore) Close() error { return nil }

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

var (
	_ Store     = (*FileStore)(nil)
	_ MetaStore = (*FileStore)(nil)
)
