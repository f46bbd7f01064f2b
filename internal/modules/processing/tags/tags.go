// Package tags derives topical tags from free text without calling an AI
// provider: the most frequent long words that are not stop words.
package tags

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	// Default replaces an empty extraction result.
	Default = "General"

	maxTags      = 4
	minWordRunes = 5
)

var stopWords = func() map[string]struct{} {
	words := []string{
		"the", "a", "an", "and", "or", "but", "in", "on", "at", "to", "for",
		"of", "with", "by", "from", "is", "are", "was", "were", "be", "been",
		"being", "have", "has", "had", "do", "does", "did", "will", "would",
		"could", "should", "may", "might", "must", "can", "this", "that",
		"these", "those", "it", "its", "they", "them", "their", "we", "our",
		"you", "your", "i", "my", "me", "he", "she", "his", "her", "what",
		"which", "who", "when", "where", "why", "how", "all", "each", "every",
		"both", "few", "more", "most", "other", "some", "such", "no", "not",
		"only", "same", "so", "than", "too", "very", "just", "also", "now",
	}
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}()

var titleCaser = cases.Title(language.English)

// Extract returns up to four capitalized tags ranked by frequency. Ties keep
// the order of first occurrence. The result is never nil.
func Extract(text, title string) []string {
	words := strings.Fields(keepLetters(strings.ToLower(title + " " + text)))

	counts := make(map[string]int, len(words))
	order := make([]string, 0, len(words))
	for _, w := range words {
		if len(w) < minWordRunes {
			continue
		}
		if _, stop := stopWords[w]; stop {
			continue
		}
		if counts[w] == 0 {
			order = append(order, w)
		}
		counts[w]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > maxTags {
		order = order[:maxTags]
	}

	out := make([]string, len(order))
	for i, w := range order {
		out[i] = titleCaser.String(w)
	}
	return out
}

// OrDefault substitutes the single Default tag for an empty list.
func OrDefault(xs []string) []string {
	if len(xs) == 0 {
		return []string{Default}
	}
	return xs
}

// keepLetters drops every rune that is neither a-z nor whitespace.
func keepLetters(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
