// Package keywords derives single-word and two-word query terms from a question.
package keywords

import (
	"regexp"
	"strings"

	"docqa/internal/domain"
)

var nonAlnum = regexp.MustCompile(`[^a-z0-9\s]+`)

var stopwords = defaultStopwords()

// IsStopword reports whether w (lowercase) is a function or question word.
func IsStopword(w string) bool {
	_, ok := stopwords[w]
	return ok
}

// Tokens lowercases text, drops everything but ASCII letters, digits and
// whitespace, and splits on whitespace.
func Tokens(text string) []string {
	return strings.Fields(nonAlnum.ReplaceAllString(strings.ToLower(text), ""))
}

// Extract returns the distinct non-stopword words longer than two characters
// and the distinct adjacent-word bigrams in which both words are longer than
// two characters and at least one is not a stopword. Order follows the question.
func Extract(question string) domain.Keywords {
	words := Tokens(question)
	var kw domain.Keywords
	seen := make(map[string]struct{}, len(words)*2)
	for i, w := range words {
		if len(w) > 2 && !IsStopword(w) {
			if _, ok := seen[w]; !ok {
				seen[w] = struct{}{}
				kw.Singles = append(kw.Singles, w)
			}
		}
		if i+1 == len(words) {
			continue
		}
		next := words[i+1]
		if len(w) <= 2 || len(next) <= 2 || (IsStopword(w) && IsStopword(next)) {
			continue
		}
		phrase := w + " " + next
		if _, ok := seen[phrase]; !ok {
			seen[phrase] = struct{}{}
			kw.Phrases = append(kw.Phrases, phrase)
		}
	}
	return kw
}

func defaultStopwords() map[string]struct{} {
	words := []string{
		"a", "an", "the", "and", "or", "but", "if", "then", "else", "for", "to", "of", "in", "on", "at", "by",
		"with", "as", "is", "are", "was", "were", "be", "been", "being", "am", "do", "does", "did", "have", "has",
		"had", "it", "its", "this", "that", "these", "those", "from", "up", "down", "over", "under", "into",
		"about", "between", "through", "during", "before", "after", "so", "such", "than", "too", "very", "can",
		"will", "just", "should", "could", "would", "may", "might", "must", "shall", "what", "which", "who",
		"whom", "whose", "when", "where", "why", "how", "i", "me", "my", "we", "our", "you", "your", "he", "him",
		"his", "she", "her", "they", "them", "their", "there", "here", "any", "all", "some", "each", "other",
		"not", "no", "tell", "explain", "describe", "give", "show", "please", "document", "say", "says",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}
