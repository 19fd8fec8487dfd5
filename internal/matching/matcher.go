package matching

import (
	"regexp"
	"strings"
)

var reSpaces = regexp.MustCompile(`\s+`)

// minPatternLen bounds false positives: shorter skills match on their full
// length instead.
const minPatternLen = 3

// Normalize canonicalizes a free-text skill for comparison: lowercase,
// trimmed, internal whitespace runs collapsed to a single space.
func Normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return reSpaces.ReplaceAllString(s, " ")
}

// PatternFor derives the partial-match pattern for a skill: the first three
// characters of the normalized form, or the whole string when shorter.
// Returns the empty string for blank skills.
func PatternFor(skill string) string {
	norm := Normalize(skill)
	if norm == "" {
		return ""
	}
	runes := []rune(norm)
	if len(runes) > minPatternLen {
		runes = runes[:minPatternLen]
	}
	return string(runes)
}

// Matcher holds derived patterns for a set of target skills. Matching is a
// case-insensitive substring test, not edit distance.
type Matcher struct {
	patterns []*regexp.Regexp
}

// NewMatcher builds a matcher from the target skill list. Blank skills are
// skipped.
func NewMatcher(skills []string) *Matcher {
	m := &Matcher{}
	for _, skill := range skills {
		pattern := PatternFor(skill)
		if pattern == "" {
			continue
		}
		re, err := regexp.Compile("(?i)" + regexp.QuoteMeta(pattern))
		if err != nil {
			continue
		}
		m.patterns = append(m.patterns, re)
	}
	return m
}

// Empty reports whether the matcher has no usable patterns.
func (m *Matcher) Empty() bool {
	return len(m.patterns) == 0
}

// Matches reports whether any candidate skill matches any derived pattern.
func (m *Matcher) Matches(candidateSkills []string) bool {
	for _, candidate := range candidateSkills {
		norm := Normalize(candidate)
		if norm == "" {
			continue
		}
		for _, re := range m.patterns {
			if re.MatchString(norm) {
				return true
			}
		}
	}
	return false
}
