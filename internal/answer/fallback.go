package answer

import (
	"fmt"
	"sort"
	"strings"

	"docqa/internal/domain"
)

const (
	introZoneLen     = 300
	middleZoneLen    = 350
	endZoneLen       = 250
	previewChunks    = 2
	previewLen       = 150
	maxFindings      = 5
	minFindingLen    = 30
	findingsFallback = 400
)

// zones returns the index ranges [start, end) of the opening two chunks, the
// 40-60% slice and the closing two chunks.
func zones(n int) (intro, middle, end [2]int) {
	intro = [2]int{0, min(2, n)}
	ms, me := n*4/10, n*6/10
	if me <= ms {
		me = ms + 1
	}
	if ms >= n {
		ms, me = n-1, n
	}
	middle = [2]int{ms, min(me, n)}
	end = [2]int{max(0, n-2), n}
	return intro, middle, end
}

func (v view) joined(r [2]int) string {
	parts := make([]string, 0, r[1]-r[0])
	for _, ch := range v.chunks[r[0]:r[1]] {
		parts = append(parts, collapse(ch.Text))
	}
	return strings.Join(parts, " ")
}

// summary describes the whole document from three fixed zones and cites at
// most one chunk per zone.
func (v view) summary() domain.Answer {
	introZone, middleZone, endZone := zones(len(v.chunks))
	parts := []struct {
		title string
		r     [2]int
		limit int
	}{
		{"Introduction", introZone, introZoneLen},
		{"Main Content", middleZone, middleZoneLen},
		{"Conclusion", endZone, endZoneLen},
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s (%d %s):\n", intro(domain.IntentSummary, v.name), v.pages, plural(v.pages, "page", "pages"))
	var sources []domain.Source
	cited := make(map[int]struct{}, len(parts))
	for _, p := range parts {
		fmt.Fprintf(&b, "\n**%s**\n%s\n", p.title, Truncate(v.joined(p.r), p.limit))
		ch := v.chunks[p.r[0]]
		if _, ok := cited[ch.Index]; ok {
			continue
		}
		cited[ch.Index] = struct{}{}
		src := v.source(ch)
		src.Section = p.title
		sources = append(sources, src)
	}
	return domain.Answer{Text: b.String(), Sources: sources, Intent: domain.IntentSummary}
}

// conclusion numbers the first sentences of the closing 20% of the document,
// padding a short closing zone with the middle slice.
func (v view) conclusion(cited int) domain.Answer {
	n := len(v.chunks)
	start := n * 8 / 10
	if start >= n {
		start = n - 1
	}
	picked := make(map[int]struct{})
	for i := start; i < n; i++ {
		picked[i] = struct{}{}
	}
	if n-start < 2 {
		_, middle, _ := zones(n)
		for i := middle[0]; i < middle[1]; i++ {
			picked[i] = struct{}{}
		}
	}
	idx := make([]int, 0, len(picked))
	for i := range picked {
		idx = append(idx, i)
	}
	sort.Ints(idx)

	var findings []string
	var zoneText []string
	for _, i := range idx {
		text := collapse(v.chunks[i].Text)
		zoneText = append(zoneText, text)
		for _, s := range Sentences(text) {
			if len(s) > minFindingLen && len(findings) < maxFindings {
				findings = append(findings, s)
			}
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s:\n\n**Key Findings**\n", intro(domain.IntentConclusion, v.name))
	if len(findings) == 0 {
		fmt.Fprintf(&b, "%s\n", Truncate(strings.Join(zoneText, " "), findingsFallback))
	}
	for i, f := range findings {
		fmt.Fprintf(&b, "%d. %s\n", i+1, f)
	}

	sources := make([]domain.Source, 0, min(len(idx), cited))
	for _, i := range idx[max(0, len(idx)-cited):] {
		sources = append(sources, v.source(v.chunks[i]))
	}
	return domain.Answer{Text: b.String(), Sources: sources, Intent: domain.IntentConclusion}
}

// notFound admits the question is not covered and previews what is.
func (v view) notFound() domain.Answer {
	preview := v.chunks[:min(previewChunks, len(v.chunks))]
	var b strings.Builder
	fmt.Fprintf(&b, "The information you asked about was not found in %s. "+
		"The question may be outside the scope of this document.\n\n", quoteName(v.name))
	b.WriteString("Here is what the document covers:\n")
	sources := make([]domain.Source, 0, len(preview))
	for _, ch := range preview {
		src := v.source(ch)
		fmt.Fprintf(&b, "- %s (Page %d): %s\n", src.Section, src.Page, Truncate(collapse(ch.Text), previewLen))
		sources = append(sources, src)
	}
	b.WriteString("\nTry rephrasing your question with terms that appear in the document, " +
		"or ask for a summary of the whole document.")
	return domain.Answer{Text: b.String(), Sources: sources}
}

// noContent is returned when the document has no usable text. It has no sources.
func noContent(name string) domain.Answer {
	text := fmt.Sprintf("I could not extract any readable text from %s, so I cannot answer questions about it. "+
		"The file may be scanned, image-based, protected, or empty.\n\n"+
		"Please re-upload the document as a text-based PDF, a DOCX file, or a plain TXT file and ask again.",
		quoteName(name))
	return domain.Answer{Text: text, Sources: []domain.Source{}}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
