package util

import "strings"

// UniqueIdentifiers trims the identifiers and drops blanks, repeats and anything listed in skip.
// First-seen order is kept and the result is never nil.
func UniqueIdentifiers(identifiers []string, skip ...string) []string {
	seen := make(map[string]struct{}, len(identifiers)+len(skip))
	for _, identifier := range skip {
		seen[identifier] = struct{}{}
	}

	unique := make([]string, 0, len(identifiers))
	for _, identifier := range identifiers {
		identifier = strings.TrimSpace(identifier)
		if identifier == "" {
			continue
		}
		if _, ok := seen[identifier]; ok {
			continue
		}

		seen[identifier] = struct{}{}
		unique = append(unique, identifier)
	}

	return unique
}
