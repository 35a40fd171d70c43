package config

import (
	"context"
	"os"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Provider fetches values for schema keys the environment does not set, from
// an external system such as AWS Secrets Manager, Vault, or GCP Secret
// Manager. Custom providers can be registered with WithProvider.
type Provider interface {
	Fetch(ctx context.Context, key string) (string, error)
}

// EnvironFunc supplies the environment table as "KEY=VALUE" entries. Override
// with WithEnviron when running in custom environments.
type EnvironFunc func() []string

// Loader holds one frozen snapshot of the process environment, cast and
// validated against a schema. Construction is the only operation that reads
// the environment; everything afterwards is a lookup.
type Loader struct {
	environ         EnvironFunc
	providers       map[string]Provider
	defaultProvider string
	prefixFunc      func() string
	suffixFunc      func() string
	validate        *validator.Validate

	snapshot Snapshot
}

// Load reads the environment once, casts every variable according to schema,
// and returns the frozen result. Variables without a schema entry are kept as
// plain strings. Any single failure — an unsupported kind, an unparseable
// value, a constraint violation, or a missing required variable — aborts
// construction; no partial snapshot is ever returned. With no providers
// configured, Load touches nothing beyond the environment table.
func Load(ctx context.Context, schema Schema, opts ...Option) (*Loader, error) {
	l := &Loader{
		environ:         os.Environ,
		providers:       make(map[string]Provider),
		defaultProvider: "aws",
		validate:        validator.New(),
	}
	for _, opt := range opts {
		opt(l)
	}

	env := parseEnviron(l.environ())
	values := make(map[string]any, len(env))

	// First pass: every environment key, dispatched through its rule when
	// one exists.
	for _, name := range sortedEnvKeys(env) {
		rule, declared := schema[name]
		if !declared {
			values[name] = env[name]
			continue
		}
		value, err := l.cast(name, env[name], rule)
		if err != nil {
			return nil, err
		}
		values[name] = value
	}

	// Second pass: every schema key. The first pass only ever visits
	// environment keys, so a declared variable the environment never set
	// would otherwise go unchecked.
	for _, name := range sortedSchemaKeys(schema) {
		rule := schema[name]
		if _, populated := values[name]; populated {
			continue
		}
		if !rule.Kind.Valid() {
			return nil, &UnsupportedKindError{Var: name, Kind: rule.Kind}
		}
		raw, ok, attempts := l.resolve(ctx, l.sourcesFor(name, rule, env))
		if ok {
			value, err := l.cast(name, raw, rule)
			if err != nil {
				return nil, err
			}
			values[name] = value
			continue
		}
		if rule.Required {
			return nil, &MissingError{Var: name, Attempts: attempts}
		}
	}

	l.snapshot = newSnapshot(values)
	return l, nil
}

// Lookup returns the value stored under key. Absent keys yield the fallback
// when one is supplied, nil otherwise. Lookup never fails and never recasts.
func (l *Loader) Lookup(key string, fallback ...any) any {
	if value, ok := l.snapshot.Get(key); ok {
		return value
	}
	if len(fallback) > 0 {
		return fallback[0]
	}
	return nil
}

// Snapshot returns the ordered read-only view of every variable.
func (l *Loader) Snapshot() Snapshot { return l.snapshot }

// Map returns the snapshot as a plain map. The map and any compound values
// inside it are copies; mutating them does not affect the loader, so Map and
// Snapshot cannot diverge.
func (l *Loader) Map() map[string]any {
	out := make(map[string]any, l.snapshot.Len())
	l.snapshot.Range(func(key string, value any) bool {
		out[key] = value
		return true
	})
	return out
}

func parseEnviron(entries []string) map[string]string {
	env := make(map[string]string, len(entries))
	for _, entry := range entries {
		name, value, ok := strings.Cut(entry, "=")
		if !ok || name == "" {
			continue
		}
		env[name] = value
	}
	return env
}

func sortedEnvKeys(env map[string]string) []string {
	keys := make([]string, 0, len(env))
	for key := range env {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func sortedSchemaKeys(schema Schema) []string {
	keys := make([]string, 0, len(schema))
	for key := range schema {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
