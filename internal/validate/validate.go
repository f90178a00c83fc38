// Package validate applies declarative field schemas to review and business
// records. Rules are data, not per-field code: every field runs through the
// same pipeline (required → default → type → length → range → pattern).
package validate

import (
	"fmt"
	"regexp"
	"strings"
)

type Result struct {
	Valid    bool           `json:"valid"`
	Errors   []string       `json:"errors,omitempty"`
	Warnings []string       `json:"warnings,omitempty"`
	Cleaned  map[string]any `json:"cleaned_data,omitempty"`
}

func (r *Result) addError(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
	r.Valid = false
}

func (r *Result) addWarning(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// Rule is one field's constraints.
type Rule struct {
	Field    string
	Type     string // string | int | float
	Required bool
	MinLen   int
	MaxLen   int
	Min      *float64
	Max      *float64
	Pattern  *regexp.Regexp
	Default  any
}

func fptr(f float64) *float64 { return &f }

var urlPattern = regexp.MustCompile(`^https?://\S+$`)

// ReviewRules is the review record schema. Length overruns above MaxLen are
// warnings, everything else listed here is a hard error.
var ReviewRules = []Rule{
	{Field: "id", Type: "string", Required: true},
	{Field: "author_name", Type: "string", Required: true, MinLen: 1, MaxLen: 100},
	{Field: "author_image", Type: "string", Pattern: urlPattern},
	{Field: "rating", Type: "int", Required: true, Min: fptr(1), Max: fptr(5)},
	{Field: "content", Type: "string", Required: true, MinLen: 1, MaxLen: 5000},
	{Field: "date", Type: "string"},
	{Field: "helpful_votes", Type: "int", Min: fptr(0), Default: 0},
	{Field: "owner_response", Type: "string", MaxLen: 2000},
	{Field: "language", Type: "string", Default: "en"},
}

// BusinessRules allows rating 0, meaning "no rating yet"; review ratings do
// not. The asymmetry is intentional.
var BusinessRules = []Rule{
	{Field: "name", Type: "string", Required: true, MinLen: 1, MaxLen: 200},
	{Field: "address", Type: "string", MaxLen: 500},
	{Field: "phone", Type: "string", MaxLen: 50},
	{Field: "website", Type: "string", Pattern: urlPattern},
	{Field: "rating", Type: "float", Min: fptr(0), Max: fptr(5)},
	{Field: "review_count", Type: "int", Min: fptr(0), Default: 0},
	{Field: "category", Type: "string", MaxLen: 100},
}

// Apply runs the schema over a raw field map and returns the outcome plus a
// cleaned copy with defaults filled in.
func Apply(rules []Rule, input map[string]any) Result {
	res := Result{Valid: true, Cleaned: make(map[string]any, len(input))}
	for _, rule := range rules {
		v, present := input[rule.Field]
		if !present || isEmpty(v) {
			if rule.Required {
				res.addError("%s is required", rule.Field)
				continue
			}
			if rule.Default != nil {
				res.Cleaned[rule.Field] = rule.Default
			}
			continue
		}

		switch rule.Type {
		case "string":
			s, ok := v.(string)
			if !ok {
				res.addError("%s must be a string", rule.Field)
				continue
			}
			if rule.MinLen > 0 && len(s) < rule.MinLen {
				res.addError("%s must be at least %d characters", rule.Field, rule.MinLen)
				continue
			}
			if rule.MaxLen > 0 && len(s) > rule.MaxLen {
				// overruns are advisory, the value is kept
				res.addWarning("%s exceeds %d characters", rule.Field, rule.MaxLen)
			}
			if rule.Pattern != nil && !rule.Pattern.MatchString(s) {
				res.addError("%s has an invalid format", rule.Field)
				continue
			}
			res.Cleaned[rule.Field] = s

		case "int":
			n, ok := toInt(v)
			if !ok {
				res.addError("%s must be an integer", rule.Field)
				continue
			}
			if rule.Min != nil && float64(n) < *rule.Min {
				res.addError("%s must be at least %g", rule.Field, *rule.Min)
				continue
			}
			if rule.Max != nil && float64(n) > *rule.Max {
				res.addError("%s must be at most %g", rule.Field, *rule.Max)
				continue
			}
			res.Cleaned[rule.Field] = n

		case "float":
			f, ok := toFloat(v)
			if !ok {
				res.addError("%s must be a number", rule.Field)
				continue
			}
			if rule.Min != nil && f < *rule.Min {
				res.addError("%s must be at least %g", rule.Field, *rule.Min)
				continue
			}
			if rule.Max != nil && f > *rule.Max {
				res.addError("%s must be at most %g", rule.Field, *rule.Max)
				continue
			}
			res.Cleaned[rule.Field] = f
		}
	}
	return res
}

func isEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	}
	return false
}

func toInt(v any) (int, bool) {
	switch t := v.(type) {
	case int:
		return t, true
	case int64:
		return int(t), true
	case float64:
		if t == float64(int(t)) {
			return int(t), true
		}
	}
	return 0, false
}

func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	}
	return 0, false
}
