package tokenstore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
)

var _ Store = (*FileStore)(nil)

// FileStore keeps a small JSON key/value document on disk, the terminal
// counterpart of browser local storage. Only TokenKey is used.
type FileStore struct {
	path string
	lock sync.Mutex
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (fs *FileStore) Path() string {
	return fs.path
}

func (fs *FileStore) Get() (string, error) {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	values, err := fs.read()
	if err != nil {
		return "", err
	}
	return values[TokenKey], nil
}

func (fs *FileStore) Set(token string) error {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	values, err := fs.read()
	if err != nil {
		return err
	}
	values[TokenKey] = token
	return fs.write(values)
}

func (fs *FileStore) Delete() error {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	values, err := fs.read()
	if err != nil {
		return err
	}
	if _, ok := values[TokenKey]; !ok {
		return nil
	}
	delete(values, TokenKey)
	return fs.write(values)
}

func (fs *FileStore) read() (map[string]string, error) {
	values := make(map[string]string)
	data, err := os.ReadFile(fs.path)
	if errors.Is(err, os.ErrNotExist) {
		return values, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "[FileStore.read] read file")
	}
	if len(data) == 0 {
		return values, nil
	}
	if err := json.Unmarshal(data, &values); err != nil {
		// A corrupt document is treated as empty storage; the next write
		// replaces it.
		return make(map[string]string), nil
	}
	return values, nil
}

// write replaces the document atomically through a temp file in the same
// directory.
func (fs *FileStore) write(values map[string]string) error {
	dir := filepath.Dir(fs.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return errors.Wrap(err, "[FileStore.write] create directory")
	}
	data, err := json.Marshal(values)
	if err != nil {
		return errors.Wrap(err, "[FileStore.write] marshal")
	}

	tmp, err := os.CreateTemp(dir, ".storage-*.json")
	if err != nil {
		return errors.Wrap(err, "[FileStore.write] create temp file")
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrap(err, "[FileStore.write] write temp file")
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return errors.Wrap(err, "[FileStore.write] chmod temp file")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "[FileStore.write] close temp file")
	}
	if err := os.Rename(tmpName, fs.path); err != nil {
		return errors.Wrap(err, "[FileStore.write] rename")
	}
	return nil
}
