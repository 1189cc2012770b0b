// Package scoring ranks chunks against extracted query terms.
package scoring

import (
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"docqa/internal/domain"
)

const (
	phraseWeight   = 8.0
	coverageWeight = 5.0
	nearGap        = 100
	farGap         = 200
	nearBonus      = 3.0
	farBonus       = 1.0

	// DefaultParallelThreshold is the chunk count from which Rank scores
	// chunks concurrently.
	DefaultParallelThreshold = 512
)

// Score is the additive relevance of text for kw: phrase hits, weighted
// keyword frequency, distinct-keyword coverage and keyword proximity.
// Matching is case-insensitive and literal.
func Score(text string, kw domain.Keywords) float64 {
	if kw.Empty() || text == "" {
		return 0
	}
	lower := strings.ToLower(text)
	score := 0.0

	for _, p := range kw.Phrases {
		if strings.Contains(lower, p) {
			score += phraseWeight
		}
	}

	var positions []int
	for _, w := range kw.Singles {
		n := strings.Count(lower, w)
		if n == 0 {
			continue
		}
		score += float64(n) * Weight(w)
		positions = append(positions, strings.Index(lower, w))
	}

	if len(kw.Singles) > 0 {
		score += coverageWeight * float64(len(positions)) / float64(len(kw.Singles))
	}

	if len(positions) >= 2 {
		sort.Ints(positions)
		for i := 1; i < len(positions); i++ {
			switch gap := positions[i] - positions[i-1]; {
			case gap < nearGap:
				score += nearBonus
			case gap < farGap:
				score += farBonus
			}
		}
	}
	return score
}

// Weight favours longer, more specific keywords.
func Weight(keyword string) float64 {
	switch {
	case len(keyword) > 6:
		return 3
	case len(keyword) > 4:
		return 2
	default:
		return 1
	}
}

// Ranker scores chunks and keeps the best matches.
type Ranker struct {
	parallelThreshold int
	workers           int
}

// NewRanker returns a Ranker that scores concurrently once a document has at
// least parallelThreshold chunks. A threshold <= 0 uses the default.
func NewRanker(parallelThreshold int) *Ranker {
	if parallelThreshold <= 0 {
		parallelThreshold = DefaultParallelThreshold
	}
	return &Ranker{parallelThreshold: parallelThreshold, workers: runtime.GOMAXPROCS(0)}
}

// Rank returns up to topK chunks with a positive score, highest first.
// Equal scores keep document order. topK <= 0 keeps every match.
func (r *Ranker) Rank(chunks []domain.Chunk, kw domain.Keywords, topK int) []domain.ScoredChunk {
	scores := make([]float64, len(chunks))
	if len(chunks) >= r.parallelThreshold && r.workers > 1 {
		var g errgroup.Group
		g.SetLimit(r.workers)
		for i := range chunks {
			g.Go(func() error {
				scores[i] = Score(chunks[i].Text, kw)
				return nil
			})
		}
		_ = g.Wait()
	} else {
		for i := range chunks {
			scores[i] = Score(chunks[i].Text, kw)
		}
	}

	var matched []domain.ScoredChunk
	for i, ch := range chunks {
		if scores[i] > 0 {
			matched = append(matched, domain.ScoredChunk{Chunk: ch, Score: scores[i]})
		}
	}
	sort.SliceStable(matched, func(i, j int) bool { return matched[i].Score > matched[j].Score })
	if topK > 0 && len(matched) > topK {
		matched = matched[:topK]
	}
	return matched
}
