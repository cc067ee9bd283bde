package dataset

import (
	"io"
	"io/fs"
	"os"
	"sync"

	"github.com/baldisbk/recstats/stats"
	"golang.org/x/xerrors"
	"gopkg.in/yaml.v3"
)

// FileBackend keeps the whole dataset as a YAML list in one file. The file is
// only rewritten on Sync.
type FileBackend struct {
	mu       sync.Mutex
	filename string
	records  []stats.Record
	dirty    bool
}

func OpenFile(filename string) (*FileBackend, error) {
	backend := &FileBackend{filename: filename}
	f, err := os.Open(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return backend, nil
		}
		return nil, xerrors.Errorf("open: %w", err)
	}
	defer f.Close()
	contents, err := io.ReadAll(f)
	if err != nil {
		return nil, xerrors.Errorf("read: %w", err)
	}
	if err := yaml.Unmarshal(contents, &backend.records); err != nil {
		return nil, xerrors.Errorf("unmarshal: %w", err)
	}
	return backend, nil
}

func (backend *FileBackend) Append(records ...stats.Record) error {
	backend.mu.Lock()
	defer backend.mu.Unlock()
	backend.records = append(backend.records, records...)
	backend.dirty = true
	return nil
}

func (backend *FileBackend) Iterate(fn func(stats.Record) error) error {
	backend.mu.Lock()
	records := backend.records
	backend.mu.Unlock()
	for _, rec := range records {
		if err := fn(rec); err != nil {
			return err
		}
	}
	return nil
}

func (backend *FileBackend) Len() int {
	backend.mu.Lock()
	defer backend.mu.Unlock()
	return len(backend.records)
}

func (backend *FileBackend) Sync() error {
	backend.mu.Lock()
	defer backend.mu.Unlock()
	if !backend.dirty {
		return nil
	}
	contents, err := encodeRecords(backend.records)
	if err != nil {
		return xerrors.Errorf("encode: %w", err)
	}
	if err := os.WriteFile(backend.filename, contents, fs.FileMode(0666)); err != nil {
		return xerrors.Errorf("write: %w", err)
	}
	backend.dirty = false
	return nil
}

func (backend *FileBackend) Close() error {
	return nil
}
