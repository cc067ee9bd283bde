package main

import (
	"crypto/sha256"
	"encoding/base32"
	"io"
	"os"

	"github.com/baldisbk/recstats/stats"
	"golang.org/x/xerrors"
	"gopkg.in/yaml.v3"
)

func ReadHash(name string) (string, error) {
	f, err := os.Open(name)
	if err != nil {
		return "", xerrors.Errorf("open: %w", err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", xerrors.Errorf("read: %w", err)
	}

	return base32.StdEncoding.EncodeToString(h.Sum([]byte{})), nil
}

// ReadRecords parses a record file: either a list of mappings or a single
// mapping. JSON files parse the same way.
func ReadRecords(name string) ([]stats.Record, error) {
	contents, err := os.ReadFile(name)
	if err != nil {
		return nil, xerrors.Errorf("read: %w", err)
	}
	var doc interface{}
	if err := yaml.Unmarshal(contents, &doc); err != nil {
		return nil, xerrors.Errorf("unmarshal: %w", err)
	}
	switch v := doc.(type) {
	case nil:
		return nil, nil
	case map[string]interface{}:
		return []stats.Record{v}, nil
	case []interface{}:
		res := make([]stats.Record, 0, len(v))
		for i, item := range v {
			m, ok := item.(map[string]interface{})
			if !ok {
				return nil, xerrors.Errorf("item %d is %T, not a mapping", i, item)
			}
			res = append(res, m)
		}
		return res, nil
	}
	return nil, xerrors.Errorf("document is %T, not a list of mappings", doc)
}
