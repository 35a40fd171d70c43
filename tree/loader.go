package tree

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/nestmtx/config"
)

var (
	// ErrNotFound reports that the supplied path does not exist.
	ErrNotFound = errors.New("tree: path does not exist")

	// ErrNotDirectory reports that the supplied path exists but is not a
	// directory.
	ErrNotDirectory = errors.New("tree: path is not a directory")
)

// Source computes a configuration subtree programmatically, for values that
// cannot live in a static file. A source that returns an error produced by
// the config env loader aborts the whole load; any other error skips the
// source.
type Source func(ctx context.Context) (map[string]any, error)

// Skip records one input that failed to load and was left out of the tree.
type Skip struct {
	Name string
	Err  error
}

// Result couples the aggregated tree with the inputs that were skipped.
type Result struct {
	Tree    Tree
	Skipped []Skip
}

// Option configures Load.
type Option func(*loader)

type loader struct {
	parsers map[string]Parser
	sources map[string]Source
	logger  logrus.FieldLogger
}

// WithParser registers a parser for a file extension (including the dot),
// replacing any builtin for that extension.
func WithParser(ext string, parser Parser) Option {
	return func(l *loader) {
		if ext == "" || parser == nil {
			return
		}
		l.parsers[strings.ToLower(ext)] = parser
	}
}

// WithSource registers a programmatic source under the given top-level name.
// Sources run after all files, in sorted name order, and shadow a file with
// the same base name.
func WithSource(name string, source Source) Option {
	return func(l *loader) {
		if name == "" || source == nil {
			return
		}
		l.sources[name] = source
	}
}

// WithLogger makes Load log every skipped input at warn level. Without it
// skips are only reported through Result.Skipped.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(l *loader) {
		l.logger = logger
	}
}

// Load aggregates every parseable file directly under dir into one frozen
// tree. Files are visited in lexical name order; each lands under its base
// name, so of two files sharing a base name the later one wins. Files whose
// extension has no parser are ignored. Parse and read failures skip the file
// and continue — except failures originating from the config env loader,
// which are configuration errors and abort the load.
func Load(ctx context.Context, dir string, opts ...Option) (Result, error) {
	l := &loader{
		parsers: builtinParsers(),
		sources: make(map[string]Source),
	}
	for _, opt := range opts {
		opt(l)
	}

	info, err := os.Stat(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return Result{}, fmt.Errorf("%w: %s", ErrNotFound, dir)
	}
	if err != nil {
		return Result{}, err
	}
	if !info.IsDir() {
		return Result{}, fmt.Errorf("%w: %s", ErrNotDirectory, dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return Result{}, err
	}

	values := make(map[string]any)
	var skipped []Skip

	// skip records a recoverable failure; env-loader failures stay fatal.
	skip := func(name string, cause error) error {
		if config.IsLoaderError(cause) {
			return fmt.Errorf("tree: %s: %w", name, cause)
		}
		skipped = append(skipped, Skip{Name: name, Err: cause})
		if l.logger != nil {
			l.logger.WithField("source", name).WithError(cause).Warn("skipping config source")
		}
		return nil
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		parser, ok := l.parsers[strings.ToLower(filepath.Ext(name))]
		if !ok {
			continue
		}
		b, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			if err := skip(name, err); err != nil {
				return Result{}, err
			}
			continue
		}
		parsed, err := parser.Unmarshal(b)
		if err != nil {
			if err := skip(name, err); err != nil {
				return Result{}, err
			}
			continue
		}
		values[strings.TrimSuffix(name, filepath.Ext(name))] = parsed
	}

	for _, name := range sortedSourceNames(l.sources) {
		parsed, err := l.sources[name](ctx)
		if err != nil {
			if err := skip(name, err); err != nil {
				return Result{}, err
			}
			continue
		}
		values[name] = parsed
	}

	return Result{Tree: newTree(values), Skipped: skipped}, nil
}

func sortedSourceNames(sources map[string]Source) []string {
	names := make([]string, 0, len(sources))
	for name := range sources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
