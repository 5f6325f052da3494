package rules

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Rule yields Result when any of its keywords occurs in the text.
type Rule[T any] struct {
	Keywords []string
	Result   T
}

// List is evaluated top to bottom; the first matching rule wins.
type List[T any] []Rule[T]

// First returns the result of the first rule matching text. Text is lower-cased
// before matching; keywords are expected in lower case.
func (l List[T]) First(text string) (T, bool) {
	lowered := Lower(text)
	for _, rule := range l {
		if ContainsAny(lowered, rule.Keywords) {
			return rule.Result, true
		}
	}
	var zero T
	return zero, false
}

// Lower lower-cases s using Unicode default casing rules.
func Lower(s string) string {
	// cases.Caser is stateful, so one per call.
	return cases.Lower(language.Und).String(s)
}

// ContainsAny reports whether any keyword is a substring of text.
func ContainsAny(text string, keywords []string) bool {
	for _, keyword := range keywords {
		if keyword != "" && strings.Contains(text, keyword) {
			return true
		}
	}
	return false
}

// MatchesAny reports whether any pattern, lower-cased, is a substring of the
// lower-cased text.
func MatchesAny(text string, patterns []string) bool {
	lowered := Lower(text)
	for _, pattern := range patterns {
		p := Lower(pattern)
		if p != "" && strings.Contains(lowered, p) {
			return true
		}
	}
	return false
}
