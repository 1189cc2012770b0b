package answer

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"docqa/internal/domain"
	"docqa/internal/scoring"
)

const (
	ellipsis          = "..."
	wordBoundaryRatio = 0.6
	minSentenceLen    = 20
)

// Sections are the proportional position labels, first to last.
var Sections = []string{
	"Introduction",
	"Background",
	"Main Content",
	"Core Analysis",
	"Discussion",
	"Results",
	"Conclusion",
}

var sentenceRe = regexp.MustCompile(`[^.!?]+[.!?]+["')\]]*`)

// Truncate shortens s to at most limit bytes plus an ellipsis. It cuts at the
// last space before the limit when that space lies past 60% of the limit and
// hard-cuts otherwise. Strings within the limit are returned unchanged.
func Truncate(s string, limit int) string {
	if limit <= 0 || len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	if sp := strings.LastIndex(s[:cut], " "); sp > 0 && float64(sp) > float64(limit)*wordBoundaryRatio {
		cut = sp
	}
	return strings.TrimRightFunc(s[:cut], unicode.IsSpace) + ellipsis
}

// EstimatePage maps a chunk position onto a page number in [1, totalPages].
func EstimatePage(index, totalChunks, totalPages int) int {
	if totalPages < 1 {
		totalPages = 1
	}
	if totalChunks < 1 {
		return 1
	}
	page := index*totalPages/totalChunks + 1
	if page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}

// EstimateSection maps a chunk position onto one of Sections.
func EstimateSection(index, totalChunks int) string {
	if totalChunks < 1 || index < 0 {
		return Sections[0]
	}
	bucket := index * len(Sections) / totalChunks
	if bucket >= len(Sections) {
		bucket = len(Sections) - 1
	}
	return Sections[bucket]
}

// Sentences splits text on terminal punctuation. A trailing fragment without
// punctuation is kept as its own sentence.
func Sentences(text string) []string {
	var out []string
	last := 0
	for _, loc := range sentenceRe.FindAllStringIndex(text, -1) {
		if s := collapse(text[loc[0]:loc[1]]); s != "" {
			out = append(out, s)
		}
		last = loc[1]
	}
	if rest := collapse(text[last:]); rest != "" {
		out = append(out, rest)
	}
	return out
}

// BestSentence returns the sentence of text with the highest keyword-weighted
// score. Sentences shorter than 20 bytes are only considered when nothing
// longer exists; ties go to the earlier sentence.
func BestSentence(text string, kw domain.Keywords) string {
	sentences := Sentences(text)
	if len(sentences) == 0 {
		return collapse(text)
	}
	candidates := sentences[:0:0]
	for _, s := range sentences {
		if len(s) >= minSentenceLen {
			candidates = append(candidates, s)
		}
	}
	if len(candidates) == 0 {
		candidates = sentences
	}
	best, bestScore := candidates[0], -1.0
	for _, s := range candidates {
		if score := sentenceScore(s, kw); score > bestScore {
			best, bestScore = s, score
		}
	}
	return best
}

func sentenceScore(sentence string, kw domain.Keywords) float64 {
	lower := strings.ToLower(sentence)
	score := 0.0
	for _, w := range kw.Singles {
		score += float64(strings.Count(lower, w)) * scoring.Weight(w)
	}
	for _, p := range kw.Phrases {
		if strings.Contains(lower, p) {
			score += 8
		}
	}
	return score
}

// meaningfulLen counts letters and digits.
func meaningfulLen(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			n++
		}
	}
	return n
}

// collapse trims s and folds internal whitespace runs into single spaces.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
