package validation

import "fmt"

// Errors maps a field name to the messages collected for it.
type Errors map[string][]string

func (e Errors) Add(field, message string) {
	e[field] = append(e[field], message)
}

func (e Errors) Empty() bool {
	return len(e) == 0
}

// Rule is one declarative check over a request shape: a (field, message,
// predicate) tuple. When, if set, gates the rule; a gated-out rule is
// skipped entirely.
type Rule struct {
	Field   string
	Message string
	Valid   func() bool
	When    func() bool
}

// Run evaluates every applicable rule and aggregates failures per field.
// There is no global short-circuit: a request with several broken fields
// reports all of them at once.
func Run(rules []Rule) Errors {
	errs := Errors{}

	for _, rule := range rules {
		if rule.When != nil && !rule.When() {
			continue
		}

		if !rule.Valid() {
			errs.Add(rule.Field, rule.Message)
		}
	}

	return errs
}

// NotEmpty is the required-field rule. The message mirrors the wording the
// API has always produced, e.g. "'First Name' must not be empty.".
func NotEmpty(field, label string, value *string) Rule {
	return Rule{
		Field:   field,
		Message: fmt.Sprintf("'%s' must not be empty.", label),
		Valid:   func() bool { return value != nil && *value != "" },
	}
}

// NotEmptyWhen is NotEmpty gated by a presence predicate, used for
// conditional groups (dependent fields become required only once the
// trigger field is set).
func NotEmptyWhen(when func() bool, field, label string, value *string) Rule {
	r := NotEmpty(field, label, value)
	r.When = when
	return r
}
