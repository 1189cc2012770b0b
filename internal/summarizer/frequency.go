package summarizer

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"docqa/internal/keywords"
)

const (
	// DefaultMaxSentences is used when Summarize is asked for zero sentences.
	DefaultMaxSentences = 3
	minSentenceLen      = 25
)

var (
	tokenPattern    = regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*`)
	sentencePattern = regexp.MustCompile(`[^.!?]+[.!?]+`)
)

// FrequencySummarizer ranks sentences by normalised term frequency, skipping
// stopwords, and returns the best ones in document order.
type FrequencySummarizer struct{}

// NewFrequencySummarizer creates a frequency-based sentence ranker.
func NewFrequencySummarizer() *FrequencySummarizer {
	return &FrequencySummarizer{}
}

// Summarize returns up to maxSentences sentences of text.
func (s *FrequencySummarizer) Summarize(text string, maxSentences int) (string, error) {
	if maxSentences <= 0 {
		maxSentences = DefaultMaxSentences
	}
	var sentences []string
	for _, raw := range sentencePattern.FindAllString(text, -1) {
		sent := strings.Join(strings.Fields(raw), " ")
		if len(sent) >= minSentenceLen {
			sentences = append(sentences, sent)
		}
	}
	if len(sentences) == 0 {
		return strings.Join(strings.Fields(text), " "), nil
	}

	freq := map[string]float64{}
	for _, sent := range sentences {
		for _, tok := range tokens(sent) {
			freq[tok]++
		}
	}
	maxF := 0.0
	for _, v := range freq {
		maxF = math.Max(maxF, v)
	}
	if maxF > 0 {
		for k, v := range freq {
			freq[k] = v / maxF
		}
	}

	type pair struct {
		idx   int
		score float64
	}
	scores := make([]pair, len(sentences))
	for i, sent := range sentences {
		toks := tokens(sent)
		score := 0.0
		for _, tok := range toks {
			score += freq[tok]
		}
		// Normalize by sentence length to avoid bias
		if l := float64(len(toks)); l > 0 {
			score /= math.Sqrt(l)
		}
		scores[i] = pair{i, score}
	}
	sort.SliceStable(scores, func(i, j int) bool { return scores[i].score > scores[j].score })

	selected := make([]int, 0, maxSentences)
	seen := map[string]struct{}{}
	for _, p := range scores {
		if len(selected) == maxSentences {
			break
		}
		if _, dup := seen[sentences[p.idx]]; dup {
			continue
		}
		seen[sentences[p.idx]] = struct{}{}
		selected = append(selected, p.idx)
	}
	sort.Ints(selected)
	out := make([]string, 0, len(selected))
	for _, idx := range selected {
		out = append(out, sentences[idx])
	}
	return strings.Join(out, " "), nil
}

func tokens(text string) []string {
	raw := tokenPattern.FindAllString(strings.ToLower(text), -1)
	out := raw[:0]
	for _, t := range raw {
		if len(t) > 2 && !keywords.IsStopword(t) {
			out = append(out, t)
		}
	}
	return out
}
