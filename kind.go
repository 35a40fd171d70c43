package config

import "fmt"

// Kind selects the caster applied to a raw environment value. The set is
// closed: schemas declaring anything else are rejected at construction.
type Kind int

const (
	// KindInvalid is the zero value. A Rule must declare its kind
	// explicitly; leaving it unset fails construction with an
	// UnsupportedKindError.
	KindInvalid Kind = iota

	// KindString keeps the raw value as-is.
	KindString

	// KindNumber parses a canonical decimal literal into a float64. The
	// parsed value must render back to the exact raw string, so literals
	// like "1e3" or "007" are rejected rather than silently normalized.
	KindNumber

	// KindBoolean matches the tokens true/yes/on/1 and false/no/off/0,
	// ignoring letter case.
	KindBoolean

	// KindDate parses an ISO-8601 timestamp into a time.Time.
	KindDate

	// KindArray parses a bracket-delimited value as JSON, otherwise splits
	// it on commas. Elements are recast per the rule's Item.
	KindArray

	// KindObject parses the value as a JSON object into a map[string]any.
	KindObject

	// KindAny parses the value as arbitrary JSON.
	KindAny
)

var kindNames = [...]string{
	KindInvalid: "invalid",
	KindString:  "string",
	KindNumber:  "number",
	KindBoolean: "boolean",
	KindDate:    "date",
	KindArray:   "array",
	KindObject:  "object",
	KindAny:     "any",
}

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// Valid reports whether k belongs to the supported set.
func (k Kind) Valid() bool {
	return k > KindInvalid && int(k) < len(kindNames)
}
