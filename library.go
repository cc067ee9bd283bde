package main

import (
	"io"
	"io/fs"
	"os"
	"time"

	"golang.org/x/xerrors"
	"gopkg.in/yaml.v3"
)

// Entry is one ingested file, keyed by content hash in the library.
type Entry struct {
	Hash string `yaml:"-"`

	Path     string    `yaml:"path"`
	Records  int       `yaml:"records"`
	Ingested time.Time `yaml:"ingested"`
}

// Library remembers which files went into the dataset so a rerun never
// appends the same file twice.
type Library struct {
	contents map[string]*Entry
}

func (lib *Library) Read(filename string) error {
	lib.contents = map[string]*Entry{}

	f, err := os.Open(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return xerrors.Errorf("open: %w", err)
	}
	defer f.Close()
	contents, err := io.ReadAll(f)
	if err != nil {
		return xerrors.Errorf("read: %w", err)
	}
	if err := yaml.Unmarshal(contents, &lib.contents); err != nil {
		return xerrors.Errorf("unmarshal: %w", err)
	}
	for hash, e := range lib.contents {
		e.Hash = hash
	}
	return nil
}

func (lib *Library) Get(hash string) (*Entry, bool) {
	e, ok := lib.contents[hash]
	return e, ok
}

func (lib *Library) Put(e *Entry) {
	if lib.contents == nil {
		lib.contents = map[string]*Entry{}
	}
	lib.contents[e.Hash] = e
}

func (lib *Library) Len() int {
	return len(lib.contents)
}

func (lib *Library) Sync(filename string) error {
	contents, err := yaml.Marshal(lib.contents)
	if err != nil {
		return xerrors.Errorf("marshal: %w", err)
	}
	if err := os.WriteFile(filename, contents, fs.FileMode(0666)); err != nil {
		return xerrors.Errorf("write: %w", err)
	}
	return nil
}
