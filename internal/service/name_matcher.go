package service

import (
	"regexp"
	"strings"
)

// uniqueSequence keeps the first occurrence of each value in insertion order.
type uniqueSequence struct {
	seen   map[string]struct{}
	values []string
}

func newUniqueSequence(capacity int) *uniqueSequence {
	return &uniqueSequence{
		seen:   make(map[string]struct{}, capacity),
		values: make([]string, 0, capacity),
	}
}

// Add appends value unless it was added before. Reports whether it was appended.
func (s *uniqueSequence) Add(value string) bool {
	if _, exists := s.seen[value]; exists {
		return false
	}
	s.seen[value] = struct{}{}
	s.values = append(s.values, value)
	return true
}

// Values returns the distinct values in the order they were first added.
func (s *uniqueSequence) Values() []string {
	return s.values
}

// NamePattern turns a name fragment into a case-insensitive-ready regular
// expression: whitespace runs become ".*" and everything else matches literally.
// Returns "" for a blank fragment.
func NamePattern(fragment string) string {
	words := strings.Fields(fragment)
	for i, w := range words {
		words[i] = regexp.QuoteMeta(w)
	}
	return strings.Join(words, ".*")
}

// BuildPatterns de-duplicates fragments and converts each to a name pattern.
// ok is false when there are no fragments or any fragment is blank.
func BuildPatterns(fragments []string) (patterns []string, ok bool) {
	if len(fragments) == 0 {
		return nil, false
	}

	distinct := newUniqueSequence(len(fragments))
	for _, fragment := range fragments {
		pattern := NamePattern(fragment)
		if pattern == "" {
			return nil, false
		}
		distinct.Add(pattern)
	}

	return distinct.Values(), true
}
