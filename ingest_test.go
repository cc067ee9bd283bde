package main

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/baldisbk/recstats/dataset"
	"github.com/baldisbk/recstats/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"golang.org/x/xerrors"
)

func newIngester(t *testing.T, root string, ds *dataset.Dataset, lib *Library) *Ingester {
	return &Ingester{
		Root:    root,
		Field:   stats.DefaultField,
		Dataset: ds,
		Library: lib,
		Log:     zaptest.NewLogger(t).Sugar(),
		Stdout:  bufio.NewWriter(io.Discard),
	}
}

func exists(name string) bool {
	_, err := os.Stat(name)
	return err == nil
}

func TestIngester_Run(t *testing.T) {
	root := t.TempDir()
	in := func(f string) string { return filepath.Join(root, IncomingFolder, f) }
	writeFile(t, in("a.yaml"), "- value: 10\n- value: 20\n")
	writeFile(t, in("sub/c.yaml"), "- value: 10\n- value: 20\n")
	writeFile(t, in("b.json"), `[{"name": "no value"}]`)
	writeFile(t, in("bad.yaml"), "- value: oops\n")
	writeFile(t, in("broken.yaml"), "[")

	ds, err := dataset.Open(dataset.NewMemoryBackend(), stats.DefaultField)
	require.NoError(t, err)
	var lib Library
	require.NoError(t, lib.Read(filepath.Join(root, LibraryFile)))

	cnt, err := newIngester(t, root, ds, &lib).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Counters{Total: 4, Ingested: 2, Records: 3, Duplicates: 1, Conflicts: 1, Failed: 1}, cnt)

	s, err := ds.Summary()
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"count": 3, "total": int64(30), "average": 10.0}, s.Map())

	assert.True(t, exists(filepath.Join(root, ProcessedFolder, "a.yaml")))
	assert.True(t, exists(filepath.Join(root, ProcessedFolder, "b.json")))
	assert.True(t, exists(filepath.Join(root, DuplicateFolder, "sub", "c.yaml")))
	assert.True(t, exists(filepath.Join(root, ConflictFolder, "bad.yaml")))
	assert.True(t, exists(in("broken.yaml")))
	assert.False(t, exists(in("a.yaml")))
	assert.Equal(t, 2, lib.Len())

	// a copy of an ingested file is recognised through the library
	libFile := filepath.Join(root, LibraryFile)
	require.NoError(t, lib.Sync(libFile))
	var reread Library
	require.NoError(t, reread.Read(libFile))
	assert.Equal(t, 2, reread.Len())

	writeFile(t, in("again.yaml"), "- value: 10\n- value: 20\n")
	cnt, err = newIngester(t, root, ds, &reread).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Counters{Total: 1, Duplicates: 1, Failed: 1}, cnt)
	assert.True(t, exists(filepath.Join(root, DuplicateFolder, "again.yaml")))
	assert.Equal(t, 3, ds.Len())
}

func TestIngester_NameClash(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ProcessedFolder, "a.yaml"), "- value: 1\n")
	writeFile(t, filepath.Join(root, IncomingFolder, "a.yaml"), "- value: 2\n")

	ds, err := dataset.Open(dataset.NewMemoryBackend(), stats.DefaultField)
	require.NoError(t, err)
	var lib Library
	cnt, err := newIngester(t, root, ds, &lib).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, cnt.Ingested)
	assert.True(t, exists(filepath.Join(root, ProcessedFolder, "a-1.yaml")))

	for _, e := range lib.contents {
		assert.Equal(t, filepath.Join(ProcessedFolder, "a-1.yaml"), e.Path)
		assert.Equal(t, 1, e.Records)
	}
}

func TestIngester_NoIncoming(t *testing.T) {
	ds, err := dataset.Open(dataset.NewMemoryBackend(), stats.DefaultField)
	require.NoError(t, err)
	var lib Library
	cnt, err := newIngester(t, t.TempDir(), ds, &lib).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Counters{}, cnt)
}

func TestIngester_Cancelled(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, IncomingFolder, "a.yaml"), "- value: 1\n")

	ds, err := dataset.Open(dataset.NewMemoryBackend(), stats.DefaultField)
	require.NoError(t, err)
	var lib Library
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	cnt, err := newIngester(t, root, ds, &lib).Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, cnt.Ingested)
	assert.Equal(t, 0, ds.Len())
}

// syncFailer lets the first `ok` syncs through and fails every later one.
type syncFailer struct {
	*dataset.MemoryBackend
	ok int
}

func (b *syncFailer) Sync() error {
	if b.ok == 0 {
		return xerrors.New("disk full")
	}
	b.ok--
	return nil
}

func TestIngester_DatasetSyncFailure(t *testing.T) {
	root := t.TempDir()
	in := func(f string) string { return filepath.Join(root, IncomingFolder, f) }
	writeFile(t, in("a.yaml"), "- value: 1\n")
	writeFile(t, in("b.yaml"), "- value: 2\n")

	backend := &syncFailer{MemoryBackend: dataset.NewMemoryBackend(), ok: 1}
	ds, err := dataset.Open(backend, stats.DefaultField)
	require.NoError(t, err)
	var lib Library

	cnt, err := newIngester(t, root, ds, &lib).Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, 1, cnt.Ingested)

	// a.yaml is durable and recorded, b.yaml stays for the next run
	assert.Equal(t, 1, lib.Len())
	assert.True(t, exists(filepath.Join(root, ProcessedFolder, "a.yaml")))
	assert.True(t, exists(in("b.yaml")))
	assert.False(t, exists(filepath.Join(root, ProcessedFolder, "b.yaml")))

	good, err := dataset.Open(dataset.NewMemoryBackend(), stats.DefaultField)
	require.NoError(t, err)
	cnt, err = newIngester(t, root, good, &lib).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Counters{Total: 1, Ingested: 1, Records: 1}, cnt)
	assert.Equal(t, 2, lib.Len())
}

func TestIngester_RejectsNonFinite(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, IncomingFolder, "inf.yaml"), "- value: .inf\n")
	writeFile(t, filepath.Join(root, IncomingFolder, "ok.yaml"), "- value: 2\n")

	ds, err := dataset.Open(dataset.NewMemoryBackend(), stats.DefaultField)
	require.NoError(t, err)
	var lib Library
	cnt, err := newIngester(t, root, ds, &lib).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, cnt.Conflicts)
	assert.Equal(t, 1, cnt.Ingested)
	assert.True(t, exists(filepath.Join(root, ConflictFolder, "inf.yaml")))

	s, err := ds.Summary()
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, WriteSummary(&buf, s, FormatJSON))
	assert.JSONEq(t, `{"count": 1, "total": 2, "average": 2}`, buf.String())
}
