package store

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/heysubinoy/kv/internal/logger"
	"github.com/heysubinoy/kv/pkg/kv"
	"github.com/sirupsen/logrus"
)

const defaultFileMode fs.FileMode = 0644

// FileStore keeps every entry in a single text file of key:value lines.
// Each operation loads the whole file, and mutations write it back in full
// by replacing the file atomically.
type FileStore struct {
	path string
}

// Compile-time check to ensure FileStore implements kv.Store.
var _ kv.Store = (*FileStore)(nil)

// NewFileStore returns a store backed by the file at path. The file is not
// touched until the first operation.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file location.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads and parses the store file, creating an empty one if it does
// not exist yet.
func (s *FileStore) Load() ([]kv.Entry, error) {
	mem, err := s.load()
	if err != nil {
		return nil, err
	}
	return mem.List()
}

// Save replaces the store file with entries. Readers see either the old
// file or the complete new one.
func (s *FileStore) Save(entries []kv.Entry) error {
	var buf bytes.Buffer
	if err := encodeEntries(&buf, entries); err != nil {
		return err
	}

	if err := s.writeAtomic(buf.Bytes()); err != nil {
		logger.Log.WithField("path", s.path).WithError(err).Debug("write failed")
		return kv.NewError(kv.KindIO, "save", "", err)
	}

	logger.Log.WithFields(logrus.Fields{
		"path":    s.path,
		"entries": len(entries),
	}).Debug("saved store")
	return nil
}

// Get returns the value stored for key.
func (s *FileStore) Get(key string) (string, error) {
	if err := kv.ValidateKey("get", key); err != nil {
		return "", err
	}

	mem, err := s.load()
	if err != nil {
		return "", err
	}
	return mem.Get(key)
}

// Set inserts or overwrites key and persists the store.
func (s *FileStore) Set(key, value string) error {
	if err := validate("set", key, value); err != nil {
		return err
	}

	return s.mutate(func(mem *MemStore) error {
		return mem.Set(key, value)
	})
}

// Add inserts key only if it is absent and persists the store.
func (s *FileStore) Add(key, value string) error {
	if err := validate("add", key, value); err != nil {
		return err
	}

	return s.mutate(func(mem *MemStore) error {
		return mem.Add(key, value)
	})
}

// Delete removes key and persists the store. The file is left untouched
// when the key does not exist.
func (s *FileStore) Delete(key string) error {
	if err := kv.ValidateKey("delete", key); err != nil {
		return err
	}

	return s.mutate(func(mem *MemStore) error {
		return mem.Delete(key)
	})
}

// List returns all entries in file order.
func (s *FileStore) List() ([]kv.Entry, error) {
	return s.Load()
}

// mutate loads the store, applies fn and saves the result if fn succeeded.
func (s *FileStore) mutate(fn func(mem *MemStore) error) error {
	mem, err := s.load()
	if err != nil {
		return err
	}
	if err := fn(mem); err != nil {
		return err
	}

	entries, err := mem.List()
	if err != nil {
		return err
	}
	return s.Save(entries)
}

func (s *FileStore) load() (*MemStore, error) {
	f, err := os.OpenFile(s.path, os.O_RDONLY|os.O_CREATE, defaultFileMode)
	if errors.Is(err, fs.ErrNotExist) {
		// parent directory is missing
		if mkErr := os.MkdirAll(filepath.Dir(s.path), 0755); mkErr != nil {
			return nil, kv.NewError(kv.KindIO, "load", "", mkErr)
		}
		f, err = os.OpenFile(s.path, os.O_RDONLY|os.O_CREATE, defaultFileMode)
	}
	if err != nil {
		return nil, kv.NewError(kv.KindIO, "load", "", err)
	}
	defer handleFileClose(f)

	entries, err := decodeEntries(f)
	if err != nil {
		return nil, kv.NewError(kv.KindIO, "load", "", fmt.Errorf("%s: %w", s.path, err))
	}

	logger.Log.WithFields(logrus.Fields{
		"path":    s.path,
		"entries": len(entries),
	}).Debug("loaded store")
	return NewMemStoreFrom(entries), nil
}

// writeAtomic replaces the file behind s.path. A symlinked store path is
// resolved first so the link survives and its target receives the write.
func (s *FileStore) writeAtomic(data []byte) error {
	target, err := filepath.EvalSymlinks(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		target = s.path
	} else if err != nil {
		return err
	}

	dir := filepath.Dir(target)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	mode := defaultFileMode
	if info, err := os.Stat(target); err == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(target)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		// no-op once the rename succeeded
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, mode); err != nil {
		return err
	}
	return os.Rename(tmpName, target)
}

func handleFileClose(f *os.File) {
	if err := f.Close(); err != nil {
		logger.Log.Errorln("Error closing file:", err)
	}
}
