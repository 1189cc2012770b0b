// Package answer turns a question and one document snapshot into a templated
// answer with estimated citations. It only reuses text from the document.
package answer

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"docqa/internal/chunker"
	"docqa/internal/domain"
	"docqa/internal/intent"
	"docqa/internal/keywords"
	"docqa/internal/scoring"
)

const (
	// DefaultTopK is how many scored chunks are kept per question.
	DefaultTopK = 6
	// DefaultCitedChunks is how many chunks are listed and cited.
	DefaultCitedChunks = 3

	minContentLen   = 10
	singleQuoteLen  = 400
	contextLen      = 300
	minContextChars = 30
	listQuoteLen    = 250
	condensedLen    = 120
	snippetLen      = 150
)

// Engine synthesizes answers. It holds no per-document state and is safe for
// concurrent use.
type Engine struct {
	chunker domain.Chunker
	ranker  *scoring.Ranker
	topK    int
	cited   int
	logger  *zap.Logger
}

// Option configures an Engine.
type Option func(*Engine)

func WithChunker(c domain.Chunker) Option {
	return func(e *Engine) {
		if c != nil {
			e.chunker = c
		}
	}
}

func WithRanker(r *scoring.Ranker) Option {
	return func(e *Engine) {
		if r != nil {
			e.ranker = r
		}
	}
}

func WithTopK(k int) Option {
	return func(e *Engine) {
		if k > 0 {
			e.topK = k
		}
	}
}

func WithCitedChunks(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.cited = n
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		chunker: chunker.NewParagraphChunker(),
		ranker:  scoring.NewRanker(0),
		topK:    DefaultTopK,
		cited:   DefaultCitedChunks,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Answer never fails: unusable documents, unmatched questions and internal
// errors all map to a templated fallback answer.
func (e *Engine) Answer(question string, doc domain.Document) (ans domain.Answer) {
	in := intent.Detect(question)
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("answer synthesis failed",
				zap.Any("panic", r),
				zap.String("document", doc.Name),
				zap.Int("question_len", len(question)),
			)
			ans = noContent(doc.Name)
			ans.Intent = in
		}
	}()

	if len(strings.TrimSpace(doc.Content)) < minContentLen {
		ans = noContent(doc.Name)
		ans.Intent = in
		return ans
	}
	chunks := e.chunker.Chunk(doc.Content)
	if len(chunks) == 0 {
		ans = noContent(doc.Name)
		ans.Intent = in
		return ans
	}

	v := view{name: doc.Name, pages: max(doc.TotalPages, 1), chunks: chunks}
	switch in {
	case domain.IntentSummary:
		return v.summary()
	case domain.IntentConclusion:
		return v.conclusion(e.cited)
	}

	kw := keywords.Extract(question)
	ranked := e.ranker.Rank(chunks, kw, e.topK)
	e.logger.Debug("ranked chunks",
		zap.String("intent", string(in)),
		zap.Strings("singles", kw.Singles),
		zap.Int("chunks", len(chunks)),
		zap.Int("matched", len(ranked)),
	)
	if len(ranked) == 0 {
		ans = v.notFound()
		ans.Intent = in
		return ans
	}
	return v.compose(in, ranked, e.cited, kw)
}

// view is one document's chunk list plus what is needed to cite from it.
type view struct {
	name   string
	pages  int
	chunks []domain.Chunk
}

func (v view) page(ch domain.Chunk) int { return EstimatePage(ch.Index, len(v.chunks), v.pages) }

func (v view) section(ch domain.Chunk) string { return EstimateSection(ch.Index, len(v.chunks)) }

func (v view) source(ch domain.Chunk) domain.Source {
	return domain.Source{Page: v.page(ch), Section: v.section(ch), Snippet: Truncate(collapse(ch.Text), snippetLen)}
}

func (v view) compose(in domain.Intent, ranked []domain.ScoredChunk, cited int, kw domain.Keywords) domain.Answer {
	top := ranked[:min(len(ranked), cited)]
	var b strings.Builder
	b.WriteString(intro(in, v.name))
	b.WriteString("\n\n")

	if len(ranked) == 1 {
		text := collapse(top[0].Text)
		best := BestSentence(text, kw)
		fmt.Fprintf(&b, "\"%s\"\n", Truncate(best, singleQuoteLen))
		rest := strings.TrimSpace(strings.Replace(text, best, "", 1))
		if meaningfulLen(rest) > minContextChars {
			fmt.Fprintf(&b, "\nAdditional context: %s\n", Truncate(rest, contextLen))
		}
	} else {
		for i, sc := range top {
			fmt.Fprintf(&b, "%d. %s (Page %d): \"%s\"\n",
				i+1, v.section(sc.Chunk), v.page(sc.Chunk), Truncate(BestSentence(sc.Text, kw), listQuoteLen))
		}
	}

	b.WriteString("\n**Summary:** ")
	b.WriteString(condense(top, kw))

	sources := make([]domain.Source, 0, len(top))
	for _, sc := range top {
		sources = append(sources, v.source(sc.Chunk))
	}
	return domain.Answer{Text: b.String(), Sources: sources, Intent: in}
}

// condense joins the best sentence of each chunk into one closing sentence.
func condense(top []domain.ScoredChunk, kw domain.Keywords) string {
	var parts []string
	seen := make(map[string]struct{}, len(top))
	for _, sc := range top {
		s := BestSentence(sc.Text, kw)
		if len(s) < minSentenceLen {
			continue
		}
		s = Truncate(strings.TrimRight(s, ".!? "), condensedLen)
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		parts = append(parts, s)
	}
	if len(parts) == 0 {
		return "The passages above are the closest matches the document contains for this question."
	}
	out := strings.Join(parts, "; ")
	if strings.HasSuffix(out, "...") {
		return out
	}
	return out + "."
}
