package chunker

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"docqa/internal/domain"
)

const (
	// DefaultChunkSize is the maximum chunk length in bytes.
	DefaultChunkSize = 600
	// DefaultOverlap is how many bytes consecutive windows of one paragraph share.
	DefaultOverlap = 150
	// DefaultMinParagraph is the shortest trimmed paragraph that becomes a chunk.
	DefaultMinParagraph = 15

	maxWindowIterations = 10000
	boundaryRatio       = 0.4
)

var (
	paragraphBreak = regexp.MustCompile(`\r?\n(?:[ \t]*\r?\n)+`)
	lineBreak      = regexp.MustCompile(`\r?\n`)
)

// ParagraphChunker splits text on blank lines and windows long paragraphs
// with overlap, snapping window ends to sentence or line boundaries.
type ParagraphChunker struct {
	chunkSize    int
	overlap      int
	minParagraph int
}

// Option configures a ParagraphChunker.
type Option func(*ParagraphChunker)

// WithChunkSize sets the window size in bytes.
func WithChunkSize(size int) Option {
	return func(c *ParagraphChunker) {
		if size > 0 {
			c.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between windows. An overlap at or above the
// window size is allowed; the window then advances one position at a time.
func WithOverlap(overlap int) Option {
	return func(c *ParagraphChunker) {
		if overlap >= 0 {
			c.overlap = overlap
		}
	}
}

// WithMinParagraph sets the minimum trimmed paragraph length.
func WithMinParagraph(n int) Option {
	return func(c *ParagraphChunker) {
		if n > 0 {
			c.minParagraph = n
		}
	}
}

func NewParagraphChunker(opts ...Option) *ParagraphChunker {
	c := &ParagraphChunker{
		chunkSize:    DefaultChunkSize,
		overlap:      DefaultOverlap,
		minParagraph: DefaultMinParagraph,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type segment struct {
	text  string
	start int
}

// Chunk returns at least one chunk for any input. Text shorter than the
// minimum paragraph length comes back as a single (possibly empty) chunk.
func (c *ParagraphChunker) Chunk(text string) []domain.Chunk {
	trimmed := strings.TrimSpace(text)
	if len(trimmed) < c.minParagraph {
		return []domain.Chunk{{Text: trimmed}}
	}

	var chunks []domain.Chunk
	for _, p := range split(text, paragraphBreak) {
		chunks = c.appendSegment(chunks, p, c.minParagraph)
	}

	// Few paragraph breaks: try single lines instead.
	if len(chunks) < 3 {
		var byLine []domain.Chunk
		for _, l := range split(text, lineBreak) {
			byLine = c.appendSegment(byLine, l, c.minParagraph+1)
		}
		if len(byLine) > len(chunks) {
			chunks = byLine
		}
	}

	if len(chunks) == 0 {
		head := strings.TrimSpace(trimmed[:runeFloor(trimmed, c.chunkSize)])
		chunks = []domain.Chunk{{Text: head, StartChar: strings.Index(text, trimmed)}}
	}

	for i := range chunks {
		chunks[i].Index = i
	}
	return chunks
}

func (c *ParagraphChunker) appendSegment(chunks []domain.Chunk, seg segment, minLen int) []domain.Chunk {
	if len(seg.text) < minLen {
		return chunks
	}
	if len(seg.text) <= c.chunkSize {
		return append(chunks, domain.Chunk{Text: seg.text, StartChar: seg.start})
	}
	return c.window(chunks, seg)
}

func (c *ParagraphChunker) window(chunks []domain.Chunk, seg segment) []domain.Chunk {
	text := seg.text
	start := 0
	for i := 0; i < maxWindowIterations && start < len(text); i++ {
		end := runeFloor(text, start+c.chunkSize)
		if end <= start {
			end = runeCeil(text, start+1)
		}
		piece := text[start:end]
		if end < len(text) {
			if cut := sentenceBoundary(piece); float64(cut) > float64(c.chunkSize)*boundaryRatio {
				piece = piece[:cut]
			}
		}
		if t := strings.TrimSpace(piece); t != "" {
			lead := len(piece) - len(strings.TrimLeftFunc(piece, unicode.IsSpace))
			chunks = append(chunks, domain.Chunk{Text: t, StartChar: seg.start + start + lead})
		}
		if start+len(piece) >= len(text) {
			break
		}
		step := len(piece) - c.overlap
		if step < 1 {
			step = 1
		}
		start = runeCeil(text, start+step)
	}
	return chunks
}

// sentenceBoundary returns the cut position just after the last ". " or at
// the last newline in s, or 0 when there is none.
func sentenceBoundary(s string) int {
	cut := strings.LastIndex(s, ". ") + 1
	if nl := strings.LastIndex(s, "\n"); nl > cut {
		cut = nl
	}
	return cut
}

// split cuts text at every match of sep and returns the trimmed pieces with
// the byte offset of their first non-space character.
func split(text string, sep *regexp.Regexp) []segment {
	locs := sep.FindAllStringIndex(text, -1)
	locs = append(locs, []int{len(text), len(text)})
	out := make([]segment, 0, len(locs))
	prev := 0
	for _, loc := range locs {
		raw := text[prev:loc[0]]
		left := strings.TrimLeftFunc(raw, unicode.IsSpace)
		out = append(out, segment{
			text:  strings.TrimRightFunc(left, unicode.IsSpace),
			start: prev + len(raw) - len(left),
		})
		prev = loc[1]
	}
	return out
}

func runeFloor(s string, i int) int {
	if i >= len(s) {
		return len(s)
	}
	for i > 0 && !utf8.RuneStart(s[i]) {
		i--
	}
	return i
}

func runeCeil(s string, i int) int {
	if i >= len(s) {
		return len(s)
	}
	for i < len(s) && !utf8.RuneStart(s[i]) {
		i++
	}
	return i
}
