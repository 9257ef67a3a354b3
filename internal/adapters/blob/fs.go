package blob

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ianfmc/livewell-nadex/internal/ports"
)

var _ ports.BlobStore = (*FSStore)(nil)

// FSStore implementa ports.BlobStore sobre un directorio local.
// La key "a/b/c.csv" se guarda en <root>/a/b/c.csv. El content type no se persiste.
type FSStore struct {
	root string
}

// NewFSStore crea un store con raíz en dir. El directorio se crea al escribir.
func NewFSStore(dir string) *FSStore {
	return &FSStore{root: dir}
}

// Root devuelve el directorio raíz.
func (s *FSStore) Root() string {
	return s.root
}

// List implementa ports.BlobStore. Un directorio raíz inexistente equivale a vacío.
func (s *FSStore) List(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) && path == s.root {
				return filepath.SkipAll
			}
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() || strings.HasSuffix(d.Name(), ".tmp") {
			return nil
		}
		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("blob.FSStore.List %q: %w", prefix, err)
	}
	sort.Strings(keys)
	return keys, nil
}

// Get implementa ports.BlobStore.
func (s *FSStore) Get(_ context.Context, key string) ([]byte, error) {
	path, err := s.path(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("blob.FSStore.Get %q: %w", key, ports.ErrObjectNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("blob.FSStore.Get %q: %w", key, err)
	}
	return data, nil
}

// Put implementa ports.BlobStore. Escribe en un fichero temporal y renombra,
// así un lector nunca ve un objeto a medias.
func (s *FSStore) Put(_ context.Context, key string, body []byte, _ string) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("blob.FSStore.Put %q: mkdir: %w", key, err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, body, 0o644); err != nil {
		return fmt.Errorf("blob.FSStore.Put %q: write: %w", key, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("blob.FSStore.Put %q: rename: %w", key, err)
	}
	return nil
}

// path traduce una key a ruta local, rechazando keys que escapan de la raíz.
func (s *FSStore) path(key string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(key))
	if key == "" || filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("blob.FSStore: invalid key %q", key)
	}
	return filepath.Join(s.root, clean), nil
}
