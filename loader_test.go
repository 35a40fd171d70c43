package config

import (
	"context"
	"errors"
	"testing"
)

type stubProvider struct {
	values map[string]string
	errs   map[string]error
}

func (s stubProvider) Fetch(ctx context.Context, key string) (string, error) {
	if err, ok := s.errs[key]; ok {
		return "", err
	}
	if value, ok := s.values[key]; ok {
		return value, nil
	}
	return "", errors.New("missing secret")
}

func environ(entries ...string) EnvironFunc {
	return func() []string { return entries }
}

func TestLoadRequiredNumberPresent(t *testing.T) {
	schema := Schema{"PORT": {Kind: KindNumber, Required: true}}
	env, err := Load(context.Background(), schema, WithEnviron(environ("PORT=8080")))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if got := env.Lookup("PORT"); got.(float64) != 8080 {
		t.Fatalf("Lookup(PORT) = %v, want 8080", got)
	}
}

func TestLoadRequiredMissing(t *testing.T) {
	schema := Schema{"PORT": {Kind: KindNumber, Required: true}}
	_, err := Load(context.Background(), schema, WithEnviron(environ()))
	var merr *MissingError
	if !errors.As(err, &merr) {
		t.Fatalf("expected MissingError, got %v", err)
	}
	if merr.Var != "PORT" {
		t.Fatalf("MissingError names %q, want PORT", merr.Var)
	}
}

func TestLoadOptionalAbsentUsesFallback(t *testing.T) {
	schema := Schema{"TIMEOUT": {Kind: KindNumber}}
	env, err := Load(context.Background(), schema, WithEnviron(environ()))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if got := env.Lookup("TIMEOUT", 30.0); got.(float64) != 30 {
		t.Fatalf("Lookup with fallback = %v, want 30", got)
	}
	if got := env.Lookup("TIMEOUT"); got != nil {
		t.Fatalf("Lookup without fallback = %v, want nil", got)
	}
}

func TestLoadUndeclaredKeysKeptAsStrings(t *testing.T) {
	env, err := Load(context.Background(), Schema{}, WithEnviron(environ("HOME=/root", "SHELL=/bin/sh")))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if got := env.Lookup("HOME"); got != "/root" {
		t.Fatalf("Lookup(HOME) = %v, want /root", got)
	}
	if env.Snapshot().Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", env.Snapshot().Len())
	}
}

func TestLoadAbortsOnFirstFailure(t *testing.T) {
	schema := Schema{"PORT": {Kind: KindNumber}}
	_, err := Load(context.Background(), schema, WithEnviron(environ("PORT=eighty", "OTHER=fine")))
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected ParseError, got %v", err)
	}
}

func TestLoadUnsupportedKindWithoutValue(t *testing.T) {
	schema := Schema{"MYSTERY": {Required: true}}
	_, err := Load(context.Background(), schema, WithEnviron(environ()))
	var kerr *UnsupportedKindError
	if !errors.As(err, &kerr) {
		t.Fatalf("expected UnsupportedKindError, got %v", err)
	}
	if kerr.Var != "MYSTERY" {
		t.Fatalf("unexpected var %q", kerr.Var)
	}
}

func TestLoadArrayItemScenario(t *testing.T) {
	schema := Schema{"ITEMS": {
		Kind:     KindArray,
		Required: true,
		Item:     &Rule{Kind: KindNumber, Constraint: "min=20"},
	}}
	_, err := Load(context.Background(), schema, WithEnviron(environ("ITEMS=1,2,3")))
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(verr.Violations) != 3 {
		t.Fatalf("expected 3 violations, got %d", len(verr.Violations))
	}
}

func TestLoadEnvWinsOverProvider(t *testing.T) {
	schema := Schema{"DATABASE_URL": {
		Kind:        KindString,
		Required:    true,
		Provider:    "vault",
		ProviderKey: "db-url",
	}}
	env, err := Load(context.Background(), schema,
		WithEnviron(environ("DATABASE_URL=postgres://env")),
		WithProvider("vault", stubProvider{values: map[string]string{"db-url": "postgres://provider"}}),
	)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if got := env.Lookup("DATABASE_URL"); got != "postgres://env" {
		t.Fatalf("expected env to win, got %v", got)
	}
}

func TestLoadProviderFallbackCastsValue(t *testing.T) {
	schema := Schema{"MAX_CONN": {
		Kind:        KindNumber,
		Required:    true,
		Provider:    "vault",
		ProviderKey: "max-conn",
	}}
	env, err := Load(context.Background(), schema,
		WithEnviron(environ()),
		WithProvider("vault", stubProvider{values: map[string]string{"max-conn": "25"}}),
	)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if got := env.Lookup("MAX_CONN"); got.(float64) != 25 {
		t.Fatalf("Lookup(MAX_CONN) = %v, want 25", got)
	}
}

func TestLoadProviderFailureRecordedOnMissing(t *testing.T) {
	schema := Schema{"TOKEN": {
		Kind:        KindString,
		Required:    true,
		Provider:    "vault",
		ProviderKey: "token",
	}}
	_, err := Load(context.Background(), schema,
		WithEnviron(environ()),
		WithProvider("vault", stubProvider{errs: map[string]error{"token": errors.New("boom")}}),
	)
	var merr *MissingError
	if !errors.As(err, &merr) {
		t.Fatalf("expected MissingError, got %v", err)
	}
	if len(merr.Attempts) != 2 {
		t.Fatalf("expected env and provider attempts, got %v", merr.Attempts)
	}
	if merr.Attempts[0].Source != SourceEnv || merr.Attempts[1].Source != SourceProvider {
		t.Fatalf("unexpected attempt order: %v", merr.Attempts)
	}
}

func TestLoadDefaultProviderIsAWS(t *testing.T) {
	schema := Schema{"SECRET": {Kind: KindString, Required: true, ProviderKey: "api/secret"}}
	env, err := Load(context.Background(), schema,
		WithEnviron(environ()),
		WithProvider("aws", stubProvider{values: map[string]string{"api/secret": "from-aws"}}),
	)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if got := env.Lookup("SECRET"); got != "from-aws" {
		t.Fatalf("expected default provider to be aws, got %v", got)
	}
}

func TestLoadProviderKeyPrefixSuffix(t *testing.T) {
	schema := Schema{"SECRET": {Kind: KindString, Required: true, Provider: "vault", ProviderKey: "secret"}}
	provider := stubProvider{values: map[string]string{"prod/secret/v2": "decorated"}}
	env, err := Load(context.Background(), schema,
		WithEnviron(environ()),
		WithProvider("vault", provider),
		WithProviderPrefix(func() string { return "prod/" }),
		WithProviderSuffix(func() string { return "/v2" }),
	)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if got := env.Lookup("SECRET"); got != "decorated" {
		t.Fatalf("expected decorated key to resolve, got %v", got)
	}
}

func TestLoadMapAndSnapshotAgree(t *testing.T) {
	schema := Schema{"PORT": {Kind: KindNumber, Required: true}}
	env, err := Load(context.Background(), schema, WithEnviron(environ("PORT=8080", "NAME=svc")))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	m := env.Map()
	if len(m) != 2 || m["PORT"].(float64) != 8080 || m["NAME"] != "svc" {
		t.Fatalf("unexpected map: %v", m)
	}
	snap := env.Snapshot()
	if snap.Len() != 2 {
		t.Fatalf("unexpected snapshot length %d", snap.Len())
	}
	// Mutating the exported map must not reach the snapshot.
	m["PORT"] = 0
	if got, _ := snap.Get("PORT"); got.(float64) != 8080 {
		t.Fatalf("snapshot changed after map mutation: %v", got)
	}
}

func TestLoadExportedCompoundValuesAreCopies(t *testing.T) {
	schema := Schema{"ITEMS": {Kind: KindArray}}
	env, err := Load(context.Background(), schema, WithEnviron(environ("ITEMS=a,b")))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	first := env.Lookup("ITEMS").([]any)
	first[0] = "mutated"
	second := env.Lookup("ITEMS").([]any)
	if second[0] != "a" {
		t.Fatalf("lookup returned shared slice: %v", second)
	}
}
