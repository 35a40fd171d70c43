package config

// Rule declares how a single environment variable is cast and validated.
type Rule struct {
	// Kind selects the caster. It must name one of the supported kinds;
	// the zero value fails construction with an UnsupportedKindError.
	Kind Kind

	// Required marks the variable as mandatory. Construction fails with a
	// MissingError when a required variable is absent from the environment
	// and no provider produced a value for it.
	Required bool

	// Constraint is a validator tag expression evaluated against the cast
	// value, for example "min=1,max=65535" for a number or "url" for a
	// string. Empty means no additional constraints. Violations surface as
	// a ValidationError carrying one message per failed constraint.
	Constraint string

	// Item applies to every element of an array value, whether the value
	// arrived as JSON or was split on commas. String elements are recast
	// to Item.Kind before Item.Constraint runs; violations are reported at
	// the element's index. Nil leaves elements as they were parsed.
	Item *Rule

	// Keys lists keys that must be present after an object or any value
	// parses. Each missing key is reported as its own violation.
	Keys []string

	// Provider names the backend consulted when the environment does not
	// set the variable; empty falls back to the loader's default backend.
	// ProviderKey is the key fetched from that backend. Both are ignored
	// while ProviderKey is empty.
	Provider    string
	ProviderKey string
}

// Schema maps environment variable names to their rules. Names are
// case-sensitive. The schema is read once during Load and never retained.
type Schema map[string]Rule
