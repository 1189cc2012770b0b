package answer

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"docqa/internal/domain"
)

const mlDocument = "Introduction.\n\nMachine learning is a subset of artificial intelligence. " +
	"It enables systems to learn from data.\n\nConclusion: ML is foundational to modern AI."

func doc(name, content string, pages int) domain.Document {
	return domain.Document{Name: name, Content: content, TotalPages: pages}
}

func cookingDocument() string {
	dishes := []string{"lemon cake", "tomato soup", "garlic bread", "apple pie", "mushroom risotto"}
	var b strings.Builder
	for i := 0; i < 120; i++ {
		d := dishes[i%len(dishes)]
		fmt.Fprintf(&b, "Recipe %d for %s. Preheat the oven to 180 degrees and prepare a large bowl. "+
			"Whisk the eggs with sugar, then fold in the flour slowly. Season the %s with salt and pepper "+
			"before serving it warm to your guests.\n\n", i, d, d)
	}
	return b.String()
}

func TestAnswer_EndToEnd(t *testing.T) {
	ans := NewEngine().Answer("What is machine learning?", doc("ml.txt", mlDocument, 1))

	assert.GreaterOrEqual(t, len(ans.Sources), 1)
	assert.Contains(t, strings.ToLower(ans.Text), "machine learning")
	assert.Contains(t, []domain.Intent{domain.IntentDefinition, domain.IntentGeneral}, ans.Intent)
	assert.Contains(t, ans.Text, "**Summary:**")
	for _, src := range ans.Sources {
		assert.Equal(t, 1, src.Page)
	}
}

func TestAnswer_NoContent(t *testing.T) {
	e := NewEngine()
	for _, content := range []string{"", "abc", "   \n\n   ", "123456789"} {
		ans := e.Answer("What is this?", doc("scan.pdf", content, 3))
		assert.Contains(t, ans.Text, "could not extract")
		assert.Contains(t, ans.Text, "re-upload")
		assert.Contains(t, ans.Text, `"scan.pdf"`)
		assert.NotNil(t, ans.Sources)
		assert.Empty(t, ans.Sources)
	}
}

func TestAnswer_HugeSingleLine(t *testing.T) {
	content := strings.Repeat("plain filler words without any breaks ", 6000)[:200000]
	ans := NewEngine().Answer("What about filler words?", doc("big.txt", content, 80))

	assert.NotEmpty(t, ans.Text)
	assert.LessOrEqual(t, len(ans.Sources), DefaultCitedChunks)
	for _, src := range ans.Sources {
		assert.GreaterOrEqual(t, src.Page, 1)
		assert.LessOrEqual(t, src.Page, 80)
	}
}

func TestAnswer_NotFound(t *testing.T) {
	ans := NewEngine().Answer("What is the capital of Mars?", doc("recipes.txt", cookingDocument(), 10))

	assert.Contains(t, ans.Text, `was not found in "recipes.txt"`)
	assert.Contains(t, ans.Text, "outside the scope")
	assert.Contains(t, ans.Text, "Here is what the document covers")
	assert.Contains(t, ans.Text, "rephrasing")
	assert.LessOrEqual(t, len(ans.Sources), 2)
	require.NotEmpty(t, ans.Sources)
	assert.Equal(t, "Introduction", ans.Sources[0].Section)
	assert.Equal(t, domain.IntentDefinition, ans.Intent)
}

func TestAnswer_SummaryRouting(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"cooking", cookingDocument()},
		{"tiny", mlDocument},
		{"one paragraph", "This single paragraph is the whole document and has nothing else in it."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ans := NewEngine().Answer("Please summarize the quantum chromodynamics", doc("doc.txt", tt.content, 4))

			assert.Equal(t, domain.IntentSummary, ans.Intent)
			intro := strings.Index(ans.Text, "**Introduction**")
			middle := strings.Index(ans.Text, "**Main Content**")
			end := strings.Index(ans.Text, "**Conclusion**")
			require.True(t, intro >= 0 && middle > intro && end > middle, ans.Text)
			assert.Contains(t, ans.Text, "(4 pages)")
			assert.NotEmpty(t, ans.Sources)
			assert.LessOrEqual(t, len(ans.Sources), 3)
		})
	}
}

func TestAnswer_SummaryZonesCiteOncePerZone(t *testing.T) {
	ans := NewEngine().Answer("Give me an overview", doc("recipes.txt", cookingDocument(), 10))

	require.Len(t, ans.Sources, 3)
	assert.Equal(t, "Introduction", ans.Sources[0].Section)
	assert.Equal(t, "Main Content", ans.Sources[1].Section)
	assert.Equal(t, "Conclusion", ans.Sources[2].Section)
	assert.Equal(t, 1, ans.Sources[0].Page)
	assert.Equal(t, 10, ans.Sources[2].Page)
}

func TestAnswer_Conclusion(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 10; i++ {
		fmt.Fprintf(&b, "Paragraph number %d discusses topic %d in considerable detail for readers.\n\n", i, i)
	}
	ans := NewEngine().Answer("What is the conclusion?", doc("report.txt", b.String(), 5))

	assert.Equal(t, domain.IntentConclusion, ans.Intent)
	assert.Contains(t, ans.Text, "**Key Findings**")
	assert.Contains(t, ans.Text, "1. Paragraph number 8")
	assert.Contains(t, ans.Text, "2. Paragraph number 9")
	assert.NotContains(t, ans.Text, "Paragraph number 7")
	assert.Len(t, ans.Sources, 2)
}

func TestAnswer_ConclusionPadsShortZone(t *testing.T) {
	ans := NewEngine().Answer("What are the final outcomes?", doc("ml.txt", mlDocument, 1))

	assert.Equal(t, domain.IntentConclusion, ans.Intent)
	assert.Contains(t, ans.Text, "Machine learning is a subset of artificial intelligence.")
	assert.Contains(t, ans.Text, "Conclusion: ML is foundational to modern AI.")
}

func TestAnswer_MultipleChunks(t *testing.T) {
	content := strings.Join([]string{
		"Solar panels convert sunlight into electricity using photovoltaic cells.",
		"Wind turbines generate power from moving air in open fields.",
		"Solar energy adoption has grown quickly because solar panels became cheaper.",
		"Hydroelectric dams store water and release it through turbines.",
		"Many homes now combine solar panels with home batteries for storage.",
	}, "\n\n")
	ans := NewEngine().Answer("How do solar panels work?", doc("energy.txt", content, 2))

	assert.Equal(t, domain.IntentHowTo, ans.Intent)
	assert.Contains(t, ans.Text, `Here is how "energy.txt" describes the process:`)
	assert.Contains(t, ans.Text, "1. ")
	assert.Contains(t, ans.Text, "2. ")
	assert.Contains(t, ans.Text, "3. ")
	assert.Contains(t, ans.Text, "(Page ")
	assert.NotContains(t, ans.Text, "Wind turbines")
	assert.Contains(t, ans.Text, "**Summary:**")
	require.Len(t, ans.Sources, 3)
	for _, src := range ans.Sources {
		assert.LessOrEqual(t, len(src.Snippet), 150+len("..."))
		assert.Contains(t, strings.ToLower(src.Snippet), "solar")
	}
}

func TestAnswer_SingleChunkWithContext(t *testing.T) {
	content := "The museum opens at nine in the morning on weekdays. Tickets can be bought online or at the " +
		"entrance desk near the main hall. Children under twelve enter for free.\n\n" +
		"The gift shop sells postcards, books and small replicas of famous paintings.\n\n" +
		"Guided tours run every hour and last roughly forty five minutes each."
	ans := NewEngine().Answer("Where can I buy tickets?", doc("museum.txt", content, 1))

	assert.Equal(t, domain.IntentGeneral, ans.Intent)
	assert.Contains(t, ans.Text, `"Tickets can be bought online or at the entrance desk near the main hall."`)
	assert.Contains(t, ans.Text, "Additional context:")
	assert.Len(t, ans.Sources, 1)
}

func TestAnswer_Deterministic(t *testing.T) {
	e := NewEngine()
	d := doc("recipes.txt", cookingDocument(), 10)
	for _, q := range []string{"How do I bake the lemon cake?", "Summarize", "What is the capital of Mars?", "final result"} {
		assert.Equal(t, e.Answer(q, d), e.Answer(q, d), q)
	}
}

type panicChunker struct{}

func (panicChunker) Chunk(string) []domain.Chunk { panic("boom") }

type emptyChunker struct{}

func (emptyChunker) Chunk(string) []domain.Chunk { return nil }

func TestAnswer_RecoversInternalErrors(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	e := NewEngine(WithChunker(panicChunker{}), WithLogger(zap.New(core)))

	ans := e.Answer("What is machine learning?", doc("ml.txt", mlDocument, 1))

	assert.Contains(t, ans.Text, "could not extract")
	assert.Empty(t, ans.Sources)
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "answer synthesis failed", logs.All()[0].Message)
}

func TestAnswer_NoChunks(t *testing.T) {
	ans := NewEngine(WithChunker(emptyChunker{})).Answer("What is machine learning?", doc("ml.txt", mlDocument, 1))
	assert.Contains(t, ans.Text, "could not extract")
}

func TestAnswer_Options(t *testing.T) {
	e := NewEngine(WithTopK(2), WithCitedChunks(1), WithTopK(0), WithChunker(nil), WithLogger(nil), WithRanker(nil))
	assert.Equal(t, 2, e.topK)
	assert.Equal(t, 1, e.cited)
	assert.NotNil(t, e.chunker)
	assert.NotNil(t, e.logger)
	assert.NotNil(t, e.ranker)
}

func TestZones(t *testing.T) {
	intro, middle, end := zones(10)
	assert.Equal(t, [2]int{0, 2}, intro)
	assert.Equal(t, [2]int{4, 6}, middle)
	assert.Equal(t, [2]int{8, 10}, end)

	intro, middle, end = zones(1)
	assert.Equal(t, [2]int{0, 1}, intro)
	assert.Equal(t, [2]int{0, 1}, middle)
	assert.Equal(t, [2]int{0, 1}, end)
}

func TestCondense(t *testing.T) {
	kw := domain.Keywords{Singles: []string{"reactor"}}
	long := "The reactor cooling loop circulates water through three separate heat exchangers " +
		"before returning it to the primary vessel at a much lower temperature than before."
	short := "The reactor was commissioned in spring."

	t.Run("cut sentence keeps ellipsis", func(t *testing.T) {
		got := condense([]domain.ScoredChunk{{Chunk: domain.Chunk{Text: long}}}, kw)

		assert.True(t, strings.HasSuffix(got, "..."), got)
		assert.False(t, strings.HasSuffix(got, "...."), got)
		assert.LessOrEqual(t, len(got), condensedLen+3)
	})

	t.Run("complete sentences end with one period", func(t *testing.T) {
		got := condense([]domain.ScoredChunk{{Chunk: domain.Chunk{Text: short}}}, kw)

		assert.Equal(t, "The reactor was commissioned in spring.", got)
	})

	t.Run("cut sentence followed by complete one", func(t *testing.T) {
		got := condense([]domain.ScoredChunk{
			{Chunk: domain.Chunk{Text: long}},
			{Chunk: domain.Chunk{Text: short}},
		}, kw)

		assert.Contains(t, got, "...; The reactor was commissioned in spring.")
	})
}
