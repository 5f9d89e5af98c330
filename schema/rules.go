package schema

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// rule checks one submitted value. present is false when the key is missing
// or holds a blank string.
type rule func(raw any, present bool) (value any, problems []string)

type ruleBuilder func(f Field) (rule, error)

// ruleBuilders is the dispatch table from field kind to validation rule.
// text, textarea and phone share the string bucket.
var ruleBuilders = map[Kind]ruleBuilder{
	KindNumber:   numberRule,
	KindEmail:    emailRule,
	KindCheckbox: checkboxRule,
	KindSelect:   selectRule,
	KindText:     stringRule,
	KindTextarea: stringRule,
	KindPhone:    stringRule,
}

var emailPattern = regexp.MustCompile(`^[A-Za-z0-9._%+\-]+@[A-Za-z0-9\-]+(\.[A-Za-z0-9\-]+)*\.[A-Za-z]{2,}$`)

func requiredMessage(label string) string {
	return label + " is required"
}

func numberRule(f Field) (rule, error) {
	c := f.Constraints
	if c.Min != nil && c.Max != nil && *c.Min > *c.Max {
		return nil, fmt.Errorf("min %s is greater than max %s", formatNumber(*c.Min), formatNumber(*c.Max))
	}
	label := f.DisplayLabel()
	required := f.Required

	return func(raw any, present bool) (any, []string) {
		if !present {
			if required {
				return nil, []string{requiredMessage(label)}
			}
			return nil, nil
		}

		n, ok := toNumber(raw)
		if !ok {
			return nil, []string{label + " must be a number"}
		}

		var problems []string
		if c.Min != nil && n < *c.Min {
			problems = append(problems, fmt.Sprintf("%s must be at least %s", label, formatNumber(*c.Min)))
		}
		if c.Max != nil && n > *c.Max {
			problems = append(problems, fmt.Sprintf("%s must be at most %s", label, formatNumber(*c.Max)))
		}
		if len(problems) > 0 {
			return nil, problems
		}
		return n, nil
	}, nil
}

func emailRule(f Field) (rule, error) {
	label := f.DisplayLabel()
	required := f.Required

	return func(raw any, present bool) (any, []string) {
		if !present {
			if required {
				return nil, []string{requiredMessage(label)}
			}
			return nil, nil
		}
		s, ok := raw.(string)
		if !ok || !emailPattern.MatchString(strings.TrimSpace(s)) {
			return nil, []string{label + " must be a valid email address"}
		}
		return strings.TrimSpace(s), nil
	}, nil
}

func checkboxRule(f Field) (rule, error) {
	label := f.DisplayLabel()

	return func(raw any, present bool) (any, []string) {
		if !present {
			return false, nil
		}
		switch v := raw.(type) {
		case bool:
			return v, nil
		case string:
			switch strings.ToLower(strings.TrimSpace(v)) {
			case "true", "on", "1", "yes":
				return true, nil
			case "false", "off", "0", "no":
				return false, nil
			}
		}
		return nil, []string{label + " must be true or false"}
	}, nil
}

func selectRule(f Field) (rule, error) {
	if f.Required && len(f.Options) == 0 {
		return nil, fmt.Errorf("required select has no options")
	}
	label := f.DisplayLabel()
	required := f.Required
	allowed := make(map[string]bool, len(f.Options))
	for _, o := range f.Options {
		allowed[o.Value] = true
	}
	choices := strings.Join(f.OptionValues(), ", ")

	return func(raw any, present bool) (any, []string) {
		if !present {
			if required {
				return nil, []string{requiredMessage(label)}
			}
			return nil, nil
		}
		s, ok := raw.(string)
		if !ok || !allowed[s] {
			return nil, []string{fmt.Sprintf("%s must be one of: %s", label, choices)}
		}
		return s, nil
	}, nil
}

func stringRule(f Field) (rule, error) {
	c := f.Constraints
	if c.MinLength != nil && *c.MinLength < 0 {
		return nil, fmt.Errorf("minLength must not be negative")
	}
	if c.MaxLength != nil && *c.MaxLength < 0 {
		return nil, fmt.Errorf("maxLength must not be negative")
	}
	if c.MinLength != nil && c.MaxLength != nil && *c.MinLength > *c.MaxLength {
		return nil, fmt.Errorf("minLength %d is greater than maxLength %d", *c.MinLength, *c.MaxLength)
	}
	var pattern *regexp.Regexp
	if c.Pattern != "" {
		compiled, err := regexp.Compile(c.Pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", c.Pattern, err)
		}
		pattern = compiled
	}
	label := f.DisplayLabel()
	required := f.Required

	return func(raw any, present bool) (any, []string) {
		if !present {
			if required {
				return nil, []string{requiredMessage(label)}
			}
			return nil, nil
		}
		s, ok := raw.(string)
		if !ok {
			return nil, []string{label + " must be text"}
		}

		var problems []string
		length := utf8.RuneCountInString(s)
		if c.MinLength != nil && length < *c.MinLength {
			problems = append(problems, fmt.Sprintf("%s must be at least %d characters", label, *c.MinLength))
		}
		if c.MaxLength != nil && length > *c.MaxLength {
			problems = append(problems, fmt.Sprintf("%s must be at most %d characters", label, *c.MaxLength))
		}
		if pattern != nil && !pattern.MatchString(s) {
			problems = append(problems, label+" format is invalid")
		}
		if len(problems) > 0 {
			return nil, problems
		}
		return s, nil
	}, nil
}

// isBlank reports whether a submitted value counts as absent.
func isBlank(raw any) bool {
	switch v := raw.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	}
	return false
}

func toNumber(raw any) (float64, bool) {
	var n float64
	switch v := raw.(type) {
	case float64:
		n = v
	case float32:
		n = float64(v)
	case int:
		n = float64(v)
	case int64:
		n = float64(v)
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, false
		}
		n = f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		n = f
	default:
		return 0, false
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
