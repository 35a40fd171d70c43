package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// booleanTokens maps the recognized boolean spellings, lowercased.
var booleanTokens = map[string]bool{
	"true": true, "yes": true, "on": true, "1": true,
	"false": false, "no": false, "off": false, "0": false,
}

// dateLayouts are tried in order. RFC 3339 covers offsets and the UTC
// designator; the remaining layouts accept zone-less timestamps, which parse
// as UTC, and bare dates.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// cast routes a raw value through the caster matching the rule's kind and
// runs the rule's constraints against the result.
func (l *Loader) cast(name, raw string, rule Rule) (any, error) {
	if !rule.Kind.Valid() {
		return nil, &UnsupportedKindError{Var: name, Kind: rule.Kind}
	}

	var (
		value      any
		violations []Violation
		err        error
	)
	if rule.Kind == KindArray {
		value, violations, err = l.castArray(name, raw, rule)
	} else {
		value, err = convertScalar(name, raw, rule.Kind)
	}
	if err != nil {
		return nil, err
	}

	violations = append(violations, l.check(value, rule, "")...)
	if len(violations) > 0 {
		return nil, &ValidationError{Var: name, Violations: violations}
	}
	return value, nil
}

// convertScalar performs the conversion for every kind except array, without
// running constraints.
func convertScalar(name, raw string, kind Kind) (any, error) {
	switch kind {
	case KindString:
		return raw, nil

	case KindNumber:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, &ParseError{Var: name, Target: TargetNumber, Raw: raw, Err: err}
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, &ParseError{Var: name, Target: TargetNumber, Raw: raw, Err: errors.New("not a finite number")}
		}
		if canonical := strconv.FormatFloat(f, 'f', -1, 64); canonical != raw {
			return nil, &ParseError{
				Var: name, Target: TargetNumber, Raw: raw,
				Err: fmt.Errorf("literal is not canonical (parses as %q)", canonical),
			}
		}
		return f, nil

	case KindBoolean:
		b, ok := booleanTokens[strings.ToLower(raw)]
		if !ok {
			return nil, &ParseError{Var: name, Target: TargetBoolean, Raw: raw, Err: errors.New("unrecognized boolean token")}
		}
		return b, nil

	case KindDate:
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, raw); err == nil {
				return t, nil
			}
		}
		return nil, &ParseError{Var: name, Target: TargetDate, Raw: raw, Err: errors.New("unrecognized timestamp")}

	case KindObject:
		var obj map[string]any
		if err := json.Unmarshal([]byte(raw), &obj); err != nil {
			return nil, &ParseError{Var: name, Target: TargetJSON, Raw: raw, Err: err}
		}
		return obj, nil

	case KindAny:
		var v any
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			return nil, &ParseError{Var: name, Target: TargetJSON, Raw: raw, Err: err}
		}
		return v, nil

	default:
		return nil, &UnsupportedKindError{Var: name, Kind: kind}
	}
}

// castArray parses a bracket-delimited value as JSON and splits anything else
// on commas. When the rule carries an item rule, string elements are recast
// to the item kind and every element is checked against the item rule, with
// violations reported at the element's index.
func (l *Loader) castArray(name, raw string, rule Rule) ([]any, []Violation, error) {
	var items []any
	if strings.HasPrefix(strings.TrimSpace(raw), "[") {
		if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &items); err != nil {
			return nil, nil, &ParseError{Var: name, Target: TargetJSON, Raw: raw, Err: err}
		}
	} else {
		parts := strings.Split(raw, ",")
		items = make([]any, len(parts))
		for i, part := range parts {
			items[i] = part
		}
	}
	if rule.Item == nil {
		return items, nil, nil
	}

	var violations []Violation
	for i, item := range items {
		path := strconv.Itoa(i)
		if s, ok := item.(string); ok && rule.Item.Kind.Valid() && rule.Item.Kind != KindString {
			cast, err := convertScalar(name, s, rule.Item.Kind)
			if err != nil {
				violations = append(violations, Violation{
					Path:    path,
					Value:   item,
					Message: fmt.Sprintf("value %q cannot be cast to %s", s, rule.Item.Kind),
				})
				continue
			}
			items[i] = cast
			item = cast
		}
		violations = append(violations, l.check(item, *rule.Item, path)...)
	}
	return items, violations, nil
}

// check evaluates a rule's constraints against an already-cast value and
// translates every failure into a violation at the given path.
func (l *Loader) check(value any, rule Rule, path string) []Violation {
	var violations []Violation

	if rule.Constraint != "" {
		if err := l.validate.Var(value, rule.Constraint); err != nil {
			var fieldErrs validator.ValidationErrors
			if errors.As(err, &fieldErrs) {
				for _, fe := range fieldErrs {
					violations = append(violations, Violation{
						Path:    path,
						Value:   value,
						Message: fmt.Sprintf("value %s fails constraint %q", renderValue(value), constraintText(fe)),
					})
				}
			} else {
				violations = append(violations, Violation{Path: path, Value: value, Message: err.Error()})
			}
		}
	}

	if len(rule.Keys) > 0 {
		if obj, ok := value.(map[string]any); ok {
			for _, key := range rule.Keys {
				if _, present := obj[key]; !present {
					violations = append(violations, Violation{
						Path:    joinPath(path, key),
						Message: fmt.Sprintf("required key %q is missing", key),
					})
				}
			}
		} else {
			violations = append(violations, Violation{
				Path:    path,
				Value:   value,
				Message: fmt.Sprintf("value %s is not an object", renderValue(value)),
			})
		}
	}

	return violations
}

func constraintText(fe validator.FieldError) string {
	if fe.Param() == "" {
		return fe.Tag()
	}
	return fe.Tag() + "=" + fe.Param()
}

// renderValue formats a cast value for diagnostics. Strings are quoted so
// that whitespace-only values stay visible.
func renderValue(value any) string {
	switch v := value.(type) {
	case string:
		return strconv.Quote(v)
	case time.Time:
		return v.Format(time.RFC3339)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func joinPath(parent, child string) string {
	if parent == "" {
		return child
	}
	return parent + "." + child
}
