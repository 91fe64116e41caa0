// Package util provides shared utility functions used across the codebase.
package util

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// SplitCSV splits a comma-separated string into a slice, trimming whitespace
// and dropping empty parts. Returns nil for empty strings.
func SplitCSV(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			result = append(result, part)
		}
	}
	return result
}

// namedDelimiters lets users pass delimiters that are awkward on a command line.
var namedDelimiters = map[string]rune{
	"tab":       '\t',
	`\t`:        '\t',
	"pipe":      '|',
	"comma":     ',',
	"semicolon": ';',
	"space":     ' ',
}

// ParseDelimiter returns the single character named by s. s is either one
// character or one of tab, pipe, comma, semicolon, space. Quotes and line
// breaks are rejected since they delimit records, not fields.
func ParseDelimiter(s string) (rune, error) {
	r, err := ParseTokenDelimiter(s)
	if err != nil {
		return 0, err
	}
	if r == '\n' || r == '\r' || r == '"' {
		return 0, fmt.Errorf("delimiter %q is not allowed", s)
	}
	return r, nil
}

// ParseTokenDelimiter is ParseDelimiter for splitting inside a cell, where
// any single character is allowed.
func ParseTokenDelimiter(s string) (rune, error) {
	if r, ok := namedDelimiters[strings.ToLower(s)]; ok {
		return r, nil
	}
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError || size != len(s) {
		return 0, fmt.Errorf("delimiter %q must be a single character", s)
	}
	return r, nil
}
