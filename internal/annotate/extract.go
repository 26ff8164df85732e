package annotate

import (
	"regexp"
	"strings"
)

var (
	mentionRe = regexp.MustCompile(`@([A-Za-z0-9_]+)`)
	tagRe     = regexp.MustCompile(`#([A-Za-z0-9_]+)`)
)

// ExtractMentions returns the usernames referenced as @username in text,
// in order of appearance. Case is preserved and in-text duplicates are
// kept; deduplication happens at the persistence step.
func ExtractMentions(text string) []string {
	matches := mentionRe.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}

	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m[1])
	}
	return out
}

// ExtractTags returns the hashtag tokens referenced as #tag in text, in
// order of appearance, lowercased to the canonical form. In-text
// duplicates are kept.
func ExtractTags(text string) []string {
	matches := tagRe.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}

	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, strings.ToLower(m[1]))
	}
	return out
}

// uniqueInOrder drops duplicates while preserving first-seen order.
func uniqueInOrder(tokens []string) []string {
	if len(tokens) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(tokens))
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
