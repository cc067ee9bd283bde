package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"path"
	"sync"
	"syscall"

	"github.com/baldisbk/recstats/dataset"
	"github.com/spf13/pflag"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/xerrors"
)

const (
	ConfigFile      = ".recstats.yaml"
	LibraryFile     = ".library.yaml"
	DatasetFile     = "dataset.yaml"
	DatasetDir      = "dataset.badger"
	IncomingFolder  = "Incoming"
	ProcessedFolder = "Processed"
	ConflictFolder  = "Conflicts"
	DuplicateFolder = "Duplicates"
)

// Flow:
// 	Incoming/*	-(ingest)->		dataset + Processed/*
//				-(ingest)->		Duplicates/*
//				-(ingest)->		Conflicts/*
// 	dataset		-(summary)->	stdout

type Options struct {
	Storage  string
	Config   string
	Backend  string
	Field    string
	Format   string
	LogPath  string
	NoIngest bool
}

func main() {
	if err := mainFunc(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed: %v\n", err)
		os.Exit(1)
	}
}

func ParseFlags(args []string) (Options, error) {
	var opts Options
	flags := pflag.NewFlagSet("recstats", pflag.ContinueOnError)
	flags.StringVarP(&opts.Storage, "storage", "s", ".", "Path to record storage")
	flags.StringVarP(&opts.Config, "config", "c", "", "Config file (default <storage>/"+ConfigFile+")")
	flags.StringVarP(&opts.Backend, "backend", "b", "", "Dataset backend: yaml, badger or memory")
	flags.StringVarP(&opts.Field, "field", "f", "", "Record field to summarize")
	flags.StringVarP(&opts.Format, "format", "o", "", "Summary output format: yaml or json")
	flags.StringVar(&opts.LogPath, "log", "", "Log file")
	flags.BoolVarP(&opts.NoIngest, "no-ingest", "n", false, "Only print the summary of the stored dataset")
	if err := flags.Parse(args); err != nil {
		return opts, xerrors.Errorf("flags: %w", err)
	}
	if opts.Config == "" {
		opts.Config = path.Join(opts.Storage, ConfigFile)
	}
	return opts, nil
}

// Resolve loads the config file and lets non-empty options override it.
func (opts Options) Resolve() (Config, error) {
	cfg, err := LoadConfig(opts.Config)
	if err != nil {
		return cfg, xerrors.Errorf("config: %w", err)
	}
	if opts.Backend != "" {
		cfg.Backend = opts.Backend
	}
	if opts.Field != "" {
		cfg.Field = opts.Field
	}
	if opts.Format != "" {
		cfg.Format = opts.Format
	}
	if opts.LogPath != "" {
		cfg.LogPath = opts.LogPath
	}
	if err := cfg.Validate(); err != nil {
		return cfg, xerrors.Errorf("config: %w", err)
	}
	return cfg, nil
}

func mainFunc() error {
	opts, err := ParseFlags(os.Args[1:])
	if err != nil {
		return err
	}
	cfg, err := opts.Resolve()
	if err != nil {
		return err
	}

	logcfg := zap.NewDevelopmentConfig()
	logcfg.OutputPaths = []string{cfg.LogPath}
	logger, err := logcfg.Build()
	if err != nil {
		return xerrors.Errorf("logger: %w", err)
	}
	defer logger.Sync()
	sl := logger.Sugar()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// break
	var wg sync.WaitGroup
	done := make(chan struct{})
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	wg.Add(1)
	go func() {
		defer wg.Done()
		select {
		case <-ctx.Done():
		case <-done:
		case <-signals:
			sl.Warn("Interrupted, finishing current file")
			cancel()
		}
	}()
	defer func() {
		close(done)
		wg.Wait()
	}()

	stdout := bufio.NewWriter(os.Stdout)
	defer stdout.Flush()

	return Run(ctx, cfg, opts, sl, stdout)
}

// Run ingests (unless disabled) and prints the dataset summary. The dataset
// is closed, and its close error returned, before anything is printed.
func Run(ctx context.Context, cfg Config, opts Options, sl *zap.SugaredLogger, stdout *bufio.Writer) (err error) {
	ds, err := openDataset(cfg, opts.Storage, sl)
	if err != nil {
		return xerrors.Errorf("dataset: %w", err)
	}
	closed := false
	defer func() {
		if closed {
			return
		}
		if closeErr := ds.Close(); closeErr != nil {
			sl.Errorf("Error closing dataset: %#v", closeErr)
			err = multierr.Append(err, xerrors.Errorf("dataset close: %w", closeErr))
		}
	}()
	sl.Infof("Opened %s dataset with %d records", cfg.Backend, ds.Len())

	if !opts.NoIngest {
		libraryFilename := path.Join(opts.Storage, LibraryFile)
		var lib Library
		if err := lib.Read(libraryFilename); err != nil {
			return xerrors.Errorf("library: %w", err)
		}
		in := &Ingester{
			Root:    opts.Storage,
			Field:   cfg.Field,
			Dataset: ds,
			Library: &lib,
			Log:     sl,
			Stdout:  stdout,
		}
		cnt, ingestErr := in.Run(ctx)
		// the library only lists files whose records were synced, so it is
		// written even when ingest stopped on a dataset failure
		if syncErr := lib.Sync(libraryFilename); syncErr != nil {
			ingestErr = multierr.Append(ingestErr, xerrors.Errorf("library: %w", syncErr))
		}
		if ingestErr != nil {
			return xerrors.Errorf("ingest: %w", ingestErr)
		}
		sl.Infof("Ingest done: %s", cnt)
	}

	summary, err := ds.Summary()
	if err != nil {
		return xerrors.Errorf("summary: %w", err)
	}
	closed = true
	if err := ds.Close(); err != nil {
		return xerrors.Errorf("dataset close: %w", err)
	}
	if err := WriteSummary(stdout, summary, cfg.Format); err != nil {
		return xerrors.Errorf("output: %w", err)
	}
	return nil
}

func openDataset(cfg Config, root string, sl *zap.SugaredLogger) (*dataset.Dataset, error) {
	var backend dataset.Backend
	switch cfg.Backend {
	case BackendYAML:
		b, err := dataset.OpenFile(path.Join(root, DatasetFile))
		if err != nil {
			return nil, xerrors.Errorf("file: %w", err)
		}
		backend = b
	case BackendBadger:
		b, err := dataset.OpenBadger(path.Join(root, DatasetDir), sl)
		if err != nil {
			return nil, xerrors.Errorf("badger: %w", err)
		}
		backend = b
	case BackendMemory:
		backend = dataset.NewMemoryBackend()
	default:
		return nil, xerrors.Errorf("unknown backend %q", cfg.Backend)
	}
	ds, err := dataset.Open(backend, cfg.Field)
	if err != nil {
		return nil, multierr.Append(err, backend.Close())
	}
	return ds, nil
}
