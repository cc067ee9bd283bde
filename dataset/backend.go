package dataset

import (
	"sync"

	"github.com/baldisbk/recstats/stats"
)

// Backend is append-only record storage. Iterate visits records in the
// order they were appended. Append stores all of its records or none of
// them; Sync makes appended records durable. Close releases the backend
// without syncing.
type Backend interface {
	Append(...stats.Record) error
	Iterate(func(stats.Record) error) error
	Len() int
	Sync() error
	Close() error
}

type MemoryBackend struct {
	mu      sync.Mutex
	records []stats.Record
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{}
}

func (backend *MemoryBackend) Append(records ...stats.Record) error {
	backend.mu.Lock()
	defer backend.mu.Unlock()
	backend.records = append(backend.records, records...)
	return nil
}

func (backend *MemoryBackend) Iterate(fn func(stats.Record) error) error {
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

func (backend *MemoryBackend) Len() int {
	backend.mu.Lock()
	defer backend.mu.Unlock()
	return len(backend.records)
}

func (backend *MemoryBackend) Sync() error {
	return nil
}

func (backend *MemoryBackend) Close() error {
	return nil
}
