// Package dataset keeps an append-only, persistent sequence of records
// together with a running accumulator over it.
package dataset

import (
	"sync"

	"github.com/baldisbk/recstats/stats"
	"go.uber.org/multierr"
	"golang.org/x/xerrors"
)

var ErrBroken = xerrors.New("dataset failed an earlier write")

type Dataset struct {
	mu      sync.Mutex
	backend Backend
	acc     *stats.Accumulator
	// set once a write or sync fails; the backend may then hold records
	// that never reached disk and must not be synced later
	broken error
}

// Open replays everything already in backend. The dataset owns backend from
// here on and closes it in Close.
func Open(backend Backend, field string) (*Dataset, error) {
	ds := &Dataset{
		backend: backend,
		acc:     stats.NewAccumulator(field),
	}
	err := backend.Iterate(func(rec stats.Record) error {
		ds.acc.Add(rec)
		return nil
	})
	if err != nil {
		return nil, xerrors.Errorf("replay: %w", err)
	}
	return ds, nil
}

func (ds *Dataset) Add(rec stats.Record) error {
	return ds.AddAll([]stats.Record{rec})
}

// AddAll appends records as one unit: either all of them are stored or none.
func (ds *Dataset) AddAll(records []stats.Record) error {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	if ds.broken != nil {
		return xerrors.Errorf("%v: %w", ds.broken, ErrBroken)
	}
	if err := ds.backend.Append(records...); err != nil {
		ds.broken = err
		return xerrors.Errorf("append: %w", err)
	}
	for _, rec := range records {
		ds.acc.Add(rec)
	}
	return nil
}

// Sync makes every record added so far durable.
func (ds *Dataset) Sync() error {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	if ds.broken != nil {
		return xerrors.Errorf("%v: %w", ds.broken, ErrBroken)
	}
	if err := ds.backend.Sync(); err != nil {
		ds.broken = err
		return xerrors.Errorf("sync: %w", err)
	}
	return nil
}

func (ds *Dataset) Summary() (stats.Summary, error) {
	return ds.acc.Summary()
}

func (ds *Dataset) Len() int {
	return ds.acc.Len()
}

func (ds *Dataset) Records() []stats.Record {
	return ds.acc.Records()
}

// Close syncs and releases the backend. A broken dataset is released without
// syncing.
func (ds *Dataset) Close() error {
	ds.mu.Lock()
	broken := ds.broken
	ds.mu.Unlock()
	var err error
	if broken == nil {
		err = ds.Sync()
	}
	return multierr.Append(err, ds.backend.Close())
}
