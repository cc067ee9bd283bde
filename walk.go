package main

import (
	"bufio"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"time"

	"github.com/baldisbk/recstats/stats"
	"golang.org/x/xerrors"
)

// File is one incoming record file.
type File struct {
	Path    string
	Hash    string
	Records []stats.Record
}

// Walk lists and parses every file under root/dir, grouping them by content
// hash. Files that fail to read or parse end up in errs, keyed by path.
func Walk(ctx context.Context, stdout *bufio.Writer, root, dir string) (res map[string][]File, num int, errs map[string]error) {
	res = map[string][]File{}
	errs = map[string]error{}
	prefix := path.Join(root, dir)
	if _, err := os.Stat(prefix); os.IsNotExist(err) {
		return
	}
	var files []string
	fmt.Fprintf(stdout, "Listing %q...\n", dir)
	stdout.Flush()
	fs.WalkDir(os.DirFS(prefix), ".", func(f string, d fs.DirEntry, errInp error) error {
		select {
		case <-ctx.Done():
			return fs.SkipAll
		default:
		}
		if errInp != nil {
			errs[f] = xerrors.Errorf("input: %w", errInp)
			return nil
		}
		if d.IsDir() {
			return nil
		}
		files = append(files, f)
		return nil
	})
	// scan time per file, in milliseconds
	var timing stats.Summary
	fmt.Fprintf(stdout, "Found %d entries in %q, scanning...\n", len(files), dir)
	stdout.Flush()
	for _, f := range files {
		select {
		case <-ctx.Done():
			fmt.Fprintln(stdout)
			return
		default:
		}
		n := time.Now()
		filename := path.Join(prefix, f)
		h, err := ReadHash(filename)
		if err != nil {
			errs[f] = xerrors.Errorf("hash: %w", err)
			continue
		}
		recs, err := ReadRecords(filename)
		if err != nil {
			errs[f] = xerrors.Errorf("records: %w", err)
			continue
		}

		res[h] = append(res[h], File{Path: f, Hash: h, Records: recs})
		num++
		timing.Observe(stats.Int(time.Since(n).Milliseconds()))
		fmt.Fprintf(stdout, "Scanned:\t%10d of %10d (avg time %2.3f)\r", num, len(files), timing.Average/1000.0)
		stdout.Flush()
	}
	fmt.Fprintln(stdout)
	return
}
