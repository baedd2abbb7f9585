package models

import (
	"strings"
	"unicode"
)

// MatchesKeyword reports whether a lowercase keyword starts a word of name.
// Keywords holding a space or hyphen are matched as plain substrings.
func MatchesKeyword(name, keyword string) bool {
	name = strings.ToLower(name)
	if strings.ContainsAny(keyword, " -") {
		return strings.Contains(name, keyword)
	}
	for _, w := range strings.FieldsFunc(name, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		if strings.HasPrefix(w, keyword) {
			return true
		}
	}
	return false
}

// MatchesAny reports whether any keyword matches name.
func MatchesAny(name string, keywords []string) bool {
	for _, kw := range keywords {
		if MatchesKeyword(name, kw) {
			return true
		}
	}
	return false
}
