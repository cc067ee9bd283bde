package main

import (
	"bufio"
	"context"
	"fmt"
	"path"
	"path/filepath"
	"sort"
	"time"

	"github.com/baldisbk/recstats/dataset"
	"github.com/baldisbk/recstats/stats"
	"go.uber.org/zap"
	"golang.org/x/xerrors"
)

type Counters struct {
	Total      int
	Ingested   int
	Records    int
	Duplicates int
	Conflicts  int
	Failed     int
}

func (c Counters) String() string {
	return fmt.Sprintf("Total:\t%10d | new:\t%10d | rec\t%10d | dup\t%10d | con\t%10d | err\t%10d",
		c.Total, c.Ingested, c.Records, c.Duplicates, c.Conflicts, c.Failed)
}

// Ingester moves record files from Incoming into the dataset.
type Ingester struct {
	Root    string
	Field   string
	Dataset *dataset.Dataset
	Library *Library
	Log     *zap.SugaredLogger
	Stdout  *bufio.Writer
}

func (in *Ingester) incoming(f string) string {
	return path.Join(in.Root, IncomingFolder, f)
}

func (in *Ingester) moveTo(folder, f string) error {
	dir, file := path.Split(path.Join(in.Root, folder, f))
	name, err := FreeName(dir, file)
	if err != nil {
		return xerrors.Errorf("free name: %w", err)
	}
	return Move(in.Log, in.incoming(f), name)
}

// Run processes every incoming file once. Unparseable files stay in
// Incoming. The returned error is set only when the dataset itself fails;
// the library then holds exactly the files that were stored before it.
func (in *Ingester) Run(ctx context.Context) (Counters, error) {
	var cnt Counters
	input, num, errs := Walk(ctx, in.Stdout, in.Root, IncomingFolder)
	for p, err := range errs {
		cnt.Failed++
		in.Log.Errorf("Error reading incoming %s: %#v", p, err)
	}
	in.Log.Infof("Scanned %d incoming files in %d content groups", num, len(input))

	groups := make([][]File, 0, len(input))
	for _, files := range input {
		sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
		groups = append(groups, files)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i][0].Path < groups[j][0].Path })

	for _, files := range groups {
		select {
		case <-ctx.Done():
			return cnt, nil
		default:
		}
		fmt.Fprintf(in.Stdout, "%s\r", cnt)
		in.Stdout.Flush()
		cnt.Total += len(files)

		var filenames []string
		for _, f := range files {
			filenames = append(filenames, in.incoming(f.Path))
		}
		eq, err := SameGroup(filenames...)
		if err != nil {
			in.Log.Errorf("Error comparing incoming: %#v", err)
			continue
		}
		if !eq {
			// same hash, different bytes: leave the decision to a human
			for _, f := range files {
				cnt.Conflicts++
				if err := in.moveTo(ConflictFolder, f.Path); err != nil {
					in.Log.Errorf("Error moving: %#v", err)
				}
			}
			continue
		}

		// identical copies inside Incoming: keep the first
		for _, f := range files[1:] {
			cnt.Duplicates++
			if err := in.moveTo(DuplicateFolder, f.Path); err != nil {
				in.Log.Errorf("Error moving: %#v", err)
			}
		}
		file := files[0]

		if e, ok := in.Library.Get(file.Hash); ok {
			eq, err := SameContents(path.Join(in.Root, e.Path), in.incoming(file.Path))
			if err != nil {
				in.Log.Errorf("Error comparing with library: %#v", err)
				continue
			}
			folder := DuplicateFolder
			if eq {
				cnt.Duplicates++
			} else {
				folder = ConflictFolder
				cnt.Conflicts++
			}
			if err := in.moveTo(folder, file.Path); err != nil {
				in.Log.Errorf("Error moving: %#v", err)
			}
			continue
		}

		// a file the dataset could not summarize would poison every later summary
		if _, err := stats.SummarizeField(file.Records, in.Field); err != nil {
			in.Log.Errorf("Rejecting %s: %v", file.Path, err)
			cnt.Conflicts++
			if err := in.moveTo(ConflictFolder, file.Path); err != nil {
				in.Log.Errorf("Error moving: %#v", err)
			}
			continue
		}

		dir, name := path.Split(path.Join(in.Root, ProcessedFolder, file.Path))
		target, err := FreeName(dir, name)
		if err != nil {
			in.Log.Errorf("Error naming processed file: %#v", err)
			continue
		}
		// the file is recorded and moved only once its records are durable,
		// so a failure here leaves it in Incoming for the next run
		if err := in.Dataset.AddAll(file.Records); err != nil {
			return cnt, xerrors.Errorf("dataset %s: %w", file.Path, err)
		}
		if err := in.Dataset.Sync(); err != nil {
			return cnt, xerrors.Errorf("dataset %s: %w", file.Path, err)
		}
		cnt.Ingested++
		cnt.Records += len(file.Records)
		rel, err := filepath.Rel(in.Root, target)
		if err != nil {
			rel = target
		}
		in.Library.Put(&Entry{
			Hash:     file.Hash,
			Path:     rel,
			Records:  len(file.Records),
			Ingested: time.Now().UTC(),
		})
		if err := Move(in.Log, in.incoming(file.Path), target); err != nil {
			in.Log.Errorf("Error moving: %#v", err)
		}
	}
	fmt.Fprintf(in.Stdout, "%s\n", cnt)
	return cnt, nil
}
