package schema

import (
	"strings"
	"unicode"
)

// EnvPrefix converts a CamelCase type or field name to the UPPER_SNAKE form
// used to prefix environment variable keys.
//
//	EnvPrefix("OAuth2TokenStore") == "O_AUTH2_TOKEN_STORE"
//	EnvPrefix("XMLParser") == "XML_PARSER"
//	EnvPrefix("HTTPServerResponse") == "HTTP_SERVER_RESPONSE"
func EnvPrefix(name string) string {
	words := splitCamel(name)
	for i, w := range words {
		words[i] = strings.ToUpper(w)
	}
	return strings.Join(words, "_")
}

// ToSnake converts a CamelCase name to its snake_case source key.
func ToSnake(name string) string {
	return strings.ToLower(EnvPrefix(name))
}

// splitCamel splits a CamelCase identifier into words. An uppercase run is
// kept together as an acronym, with its final letter starting the next word
// when followed by a lowercase letter.
func splitCamel(name string) []string {
	runes := []rune(name)
	var words []string
	var word []rune

	for i, r := range runes {
		boundary := false
		if i > 0 && unicode.IsUpper(r) {
			prev := runes[i-1]
			if !unicode.IsUpper(prev) {
				boundary = true
			} else if i+1 < len(runes) && unicode.IsLower(runes[i+1]) {
				boundary = true
			}
		}
		if boundary && len(word) > 0 {
			words = append(words, string(word))
			word = word[:0]
		}
		word = append(word, r)
	}
	if len(word) > 0 {
		words = append(words, string(word))
	}
	return words
}

// Alias computes the group alias for a set of candidate type names: the
// longest common contiguous substring shared by all of them. Ties are broken
// by the earliest occurrence within the first name. Returns "" when no
// non-empty overlap exists (or when names is empty).
func Alias(names []string) string {
	if len(names) == 0 {
		return ""
	}
	first := names[0]
	rest := names[1:]

	for length := len(first); length > 0; length-- {
		for start := 0; start+length <= len(first); start++ {
			candidate := first[start : start+length]
			if containedInAll(candidate, rest) {
				return candidate
			}
		}
	}
	return ""
}

func containedInAll(sub string, names []string) bool {
	for _, n := range names {
		if !strings.Contains(n, sub) {
			return false
		}
	}
	return true
}
