package config

import "strings"

// Option configures Load.
type Option func(*Loader)

// WithProvider registers a provider under the supplied name so rules can
// reference it via their Provider field.
func WithProvider(name string, provider Provider) Option {
	return func(l *Loader) {
		if name == "" || provider == nil {
			return
		}
		l.providers[strings.ToLower(name)] = provider
	}
}

// WithDefaultProvider picks which registered provider is used when a rule
// names a ProviderKey without a backend.
func WithDefaultProvider(name string) Option {
	return func(l *Loader) {
		l.defaultProvider = strings.ToLower(name)
	}
}

// WithEnviron overrides how the environment table is read. The supplied
// function is called exactly once, during Load.
func WithEnviron(fn EnvironFunc) Option {
	return func(l *Loader) {
		if fn != nil {
			l.environ = fn
		}
	}
}

// WithProviderPrefix supplies a function whose result is prepended to every
// provider key before lookup, for example to inject an environment name.
func WithProviderPrefix(fn func() string) Option {
	return func(l *Loader) {
		l.prefixFunc = fn
	}
}

// WithProviderSuffix supplies a function whose result is appended to every
// provider key before lookup.
func WithProviderSuffix(fn func() string) Option {
	return func(l *Loader) {
		l.suffixFunc = fn
	}
}
