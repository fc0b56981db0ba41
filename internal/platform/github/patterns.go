package github

import (
	"regexp"
	"strconv"
	"strings"
)

// issueKeyPattern matches issue keys like ABC-42 in PR titles and branch
// names.
var issueKeyPattern = regexp.MustCompile(`[A-Z][A-Z0-9]*-\d+`)

// closingKeywordPattern matches closing references in commit messages:
// "closes #42", "fixed: 42", "resolve #7", etc.
var closingKeywordPattern = regexp.MustCompile(`(?i)(close[sd]?|fix(e[sd])?|resolve[sd]?)\s*:?\s*#?(\d+)`)

// ExtractIssueKey returns the first issue key found in s, or "".
func ExtractIssueKey(s string) string {
	return issueKeyPattern.FindString(s)
}

// ExtractIssueKeys returns all issue keys found in s, deduplicated in
// order of first appearance.
func ExtractIssueKeys(s string) []string {
	matches := issueKeyPattern.FindAllString(s, -1)
	if matches == nil {
		return nil
	}
	seen := make(map[string]struct{}, len(matches))
	var keys []string
	for _, m := range matches {
		if _, dup := seen[m]; dup {
			continue
		}
		seen[m] = struct{}{}
		keys = append(keys, m)
	}
	return keys
}

// ExtractClosingReferences scans a commit message for closing-keyword
// references and returns the referenced issue numbers, deduplicated.
func ExtractClosingReferences(message string) []int {
	matches := closingKeywordPattern.FindAllStringSubmatch(message, -1)
	if matches == nil {
		return nil
	}
	seen := make(map[int]struct{}, len(matches))
	var numbers []int
	for _, m := range matches {
		n, err := strconv.Atoi(m[3])
		if err != nil {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		numbers = append(numbers, n)
	}
	return numbers
}

// KeyMatchesNumber reports whether an issue key's numeric suffix equals
// the referenced number (e.g. key "ABC-42" matches 42).
func KeyMatchesNumber(key string, number int) bool {
	idx := strings.LastIndex(key, "-")
	if idx < 0 {
		return false
	}
	n, err := strconv.Atoi(key[idx+1:])
	if err != nil {
		return false
	}
	return n == number
}
