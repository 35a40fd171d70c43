package config

import (
	"context"
	"errors"
	"strings"
)

type valueSource interface {
	Source() ValueSource
	Identifier() string
	Fetch(ctx context.Context) (string, error)
}

type envSource struct {
	key string
	env map[string]string
}

func (e envSource) Source() ValueSource { return SourceEnv }

func (e envSource) Identifier() string { return e.key }

func (e envSource) Fetch(context.Context) (string, error) {
	if value, ok := e.env[e.key]; ok {
		return value, nil
	}
	return "", errors.New("not set")
}

type providerSource struct {
	identifier string
	fetchFunc  func(context.Context) (string, error)
}

func (p providerSource) Source() ValueSource { return SourceProvider }

func (p providerSource) Identifier() string { return p.identifier }

func (p providerSource) Fetch(ctx context.Context) (string, error) {
	return p.fetchFunc(ctx)
}

// sourcesFor builds the resolution chain for a schema key that needs a value:
// the environment snapshot first, then the rule's provider when one is named.
func (l *Loader) sourcesFor(name string, rule Rule, env map[string]string) []valueSource {
	sources := []valueSource{envSource{key: name, env: env}}
	if rule.ProviderKey != "" {
		sources = append(sources, l.newProviderSource(rule))
	}
	return sources
}

func (l *Loader) newProviderSource(rule Rule) valueSource {
	backendName := rule.Provider
	if backendName == "" {
		backendName = l.defaultProvider
	}
	identifier := backendName
	if identifier == "" {
		identifier = "(default)"
	}
	provider := l.providers[strings.ToLower(backendName)]
	if provider == nil {
		return providerSource{
			identifier: identifier,
			fetchFunc: func(context.Context) (string, error) {
				return "", errors.New("provider not registered")
			},
		}
	}
	key := rule.ProviderKey
	if l.prefixFunc != nil {
		key = l.prefixFunc() + key
	}
	if l.suffixFunc != nil {
		key += l.suffixFunc()
	}
	return providerSource{
		identifier: identifier + ":" + key,
		fetchFunc: func(ctx context.Context) (string, error) {
			raw, err := provider.Fetch(ctx, key)
			if err != nil {
				return "", err
			}
			if raw == "" {
				return "", errors.New("empty secret")
			}
			return raw, nil
		},
	}
}

// resolve walks the chain until a source yields a value, recording each miss.
func (l *Loader) resolve(ctx context.Context, sources []valueSource) (string, bool, []AttemptError) {
	var attempts []AttemptError
	for _, src := range sources {
		raw, err := src.Fetch(ctx)
		if err != nil {
			attempts = append(attempts, AttemptError{
				Source:     src.Source(),
				Identifier: src.Identifier(),
				Err:        err,
			})
			continue
		}
		return raw, true, nil
	}
	return "", false, attempts
}
