package domain

// Document is the single active document the engine answers questions about.
// Content is the full extracted plain text; TotalPages is at least 1.
type Document struct {
	ID         string
	Name       string
	Path       string
	Format     string
	Content    string
	TotalPages int
}

// Chunk is a contiguous, bounded segment of document text.
// Index is the 0-based ordinal among all chunks of the document and is used to
// estimate page and section; StartChar is the byte offset in the source text.
type Chunk struct {
	Text      string `json:"text"`
	Index     int    `json:"index"`
	StartChar int    `json:"start_char"`
}

// Keywords are the query terms extracted from one question.
type Keywords struct {
	Singles []string `json:"singles"`
	Phrases []string `json:"phrases"`
}

// Empty reports whether no usable query term was extracted.
func (k Keywords) Empty() bool { return len(k.Singles) == 0 && len(k.Phrases) == 0 }

// ScoredChunk is a chunk with its relevance score for one question.
type ScoredChunk struct {
	Chunk
	Score float64 `json:"score"`
}

// Intent is the closed set of question categories used to pick an answer template.
type Intent string

const (
	IntentSummary    Intent = "summary"
	IntentConclusion Intent = "conclusion"
	IntentTopic      Intent = "topic"
	IntentHowTo      Intent = "howto"
	IntentList       Intent = "list"
	IntentDefinition Intent = "definition"
	IntentCompare    Intent = "compare"
	IntentReason     Intent = "reason"
	IntentTemporal   Intent = "temporal"
	IntentPerson     Intent = "person"
	IntentData       Intent = "data"
	IntentGeneral    Intent = "general"
)

// Source is a citation derived from one chunk. Page and Section are
// proportional estimates, not real page boundaries.
type Source struct {
	Page    int    `json:"page"`
	Section string `json:"section"`
	Snippet string `json:"snippet"`
}

// Answer is the result of one question-answering call.
type Answer struct {
	Text    string   `json:"text"`
	Sources []Source `json:"sources"`
	Intent  Intent   `json:"intent"`
}

// Chunker splits document text into ordered chunks.
type Chunker interface {
	Chunk(text string) []Chunk
}

// Summarizer produces a brief overview of the provided text.
type Summarizer interface {
	Summarize(text string, maxSentences int) (string, error)
}

// Answerer answers a question against one document snapshot.
type Answerer interface {
	Answer(question string, doc Document) Answer
}

// Loader reads a file into a Document.
type Loader interface {
	Load(path string) (Document, error)
}
