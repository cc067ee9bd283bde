package main

import (
	"encoding/json"
	"io"

	"github.com/baldisbk/recstats/stats"
	"golang.org/x/xerrors"
	"gopkg.in/yaml.v3"
)

func WriteSummary(w io.Writer, s stats.Summary, format string) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(s); err != nil {
			return xerrors.Errorf("json: %w", err)
		}
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		if err := enc.Encode(s); err != nil {
			return xerrors.Errorf("yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return xerrors.Errorf("yaml: %w", err)
		}
	default:
		return xerrors.Errorf("unknown format %q", format)
	}
	return nil
}
