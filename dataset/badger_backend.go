package dataset

import (
	"encoding/binary"
	"sync"

	"github.com/baldisbk/recstats/stats"
	"github.com/dgraph-io/badger/v2"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/xerrors"
)

var recordPrefix = []byte("rec/")

// <prefix> <8 bytes big-endian sequence number>
func recordKey(seq uint64) []byte {
	buf := make([]byte, len(recordPrefix)+8)
	copy(buf, recordPrefix)
	binary.BigEndian.PutUint64(buf[len(recordPrefix):], seq)
	return buf
}

// badgerLogger routes badger's own logging into zap.
type badgerLogger struct {
	*zap.SugaredLogger
}

func (l badgerLogger) Warningf(format string, args ...interface{}) {
	l.Warnf(format, args...)
}

// BadgerBackend stores each record under its sequence number so that key
// order is append order.
type BadgerBackend struct {
	mu       sync.Mutex
	db       *badger.DB
	next     uint64
	inMemory bool
}

// OpenBadger opens (or creates) a badger directory at path. An empty path
// keeps everything in memory.
func OpenBadger(path string, sl *zap.SugaredLogger) (*BadgerBackend, error) {
	options := badger.DefaultOptions(path)
	if path == "" {
		options = options.WithInMemory(true)
	}
	if sl != nil {
		options = options.WithLogger(badgerLogger{sl.Named("badger")})
	} else {
		options = options.WithLogger(nil)
	}
	db, err := badger.Open(options)
	if err != nil {
		return nil, xerrors.Errorf("badger open: %w", err)
	}
	backend := &BadgerBackend{db: db, inMemory: path == ""}
	if err := backend.countKeys(); err != nil {
		return nil, multierr.Append(xerrors.Errorf("count: %w", err), db.Close())
	}
	return backend, nil
}

func (backend *BadgerBackend) countKeys() error {
	return backend.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = recordPrefix
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Seek(recordPrefix); it.ValidForPrefix(recordPrefix); it.Next() {
			backend.next++
		}
		return nil
	})
}

// Append writes all records in one transaction.
func (backend *BadgerBackend) Append(records ...stats.Record) error {
	bufs := make([][]byte, len(records))
	for i, rec := range records {
		buf, err := encodeRecord(rec)
		if err != nil {
			return xerrors.Errorf("record %d: %w", i, err)
		}
		bufs[i] = buf
	}
	backend.mu.Lock()
	defer backend.mu.Unlock()
	err := backend.db.Update(func(txn *badger.Txn) error {
		for i, buf := range bufs {
			if err := txn.Set(recordKey(backend.next+uint64(i)), buf); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return xerrors.Errorf("put: %w", err)
	}
	backend.next += uint64(len(records))
	return nil
}

func (backend *BadgerBackend) Iterate(fn func(stats.Record) error) error {
	return backend.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = recordPrefix
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Seek(recordPrefix); it.ValidForPrefix(recordPrefix); it.Next() {
			var rec stats.Record
			err := it.Item().Value(func(val []byte) error {
				var err error
				rec, err = decodeRecord(val)
				return err
			})
			if err != nil {
				return xerrors.Errorf("record %x: %w", it.Item().Key(), err)
			}
			if err := fn(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

func (backend *BadgerBackend) Len() int {
	backend.mu.Lock()
	defer backend.mu.Unlock()
	return int(backend.next)
}

func (backend *BadgerBackend) Sync() error {
	if backend.inMemory {
		return nil
	}
	if err := backend.db.Sync(); err != nil {
		return xerrors.Errorf("badger sync: %w", err)
	}
	return nil
}

func (backend *BadgerBackend) Close() error {
	return backend.db.Close()
}
