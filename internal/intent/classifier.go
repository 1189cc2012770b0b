// Package intent classifies a question into one of a fixed set of intents
// using an ordered table of pattern rules. The first matching rule wins.
package intent

import (
	"regexp"
	"strings"

	"docqa/internal/domain"
)

// Predicate matches a lowercased question.
type Predicate func(question string) bool

// Rule maps a predicate to the intent it selects.
type Rule struct {
	Intent domain.Intent
	Match  Predicate
}

// Rules is evaluated in order; IntentGeneral is returned when none match.
var Rules = []Rule{
	{domain.IntentSummary, containsAny("summarize", "summarise", "summary", "overview", "brief",
		"key points", "key insights", "main takeaways", "tl;dr", "tldr", "in short", "overall")},
	{domain.IntentConclusion, oneOf(
		containsAny("conclusion", "conclud", "result", "finding", "outcome", "final"),
		pattern(`\bwhat\b.*\b(?:say|says|suggest|suggests|recommend|recommends|propose|proposes)\b`),
	)},
	{domain.IntentTopic, containsAny("what is this about", "what's this about", "what is it about",
		"what is the document about", "main topic", "main idea", "topic", "subject", "theme", "about what")},
	{domain.IntentHowTo, containsAny("how to", "how do", "how can", "how should", "how does", "step by step",
		"steps", "process", "procedure", "method", "instructions", "guide")},
	{domain.IntentList, oneOf(
		words("list", "enumerate"),
		containsAny("what are the", "which are", "types of", "kinds of", "examples of", "name the", "name all"),
	)},
	{domain.IntentDefinition, oneOf(
		containsAny("what is", "what's", "what are", "define", "definition", "meaning of", "stands for"),
		pattern(`\bwhat does .+ mean\b`),
	)},
	{domain.IntentCompare, oneOf(
		containsAny("compare", "comparison", "difference", "differ", "versus", "similar", "contrast",
			"better than", "worse than"),
		words("vs"),
	)},
	{domain.IntentReason, words("why", "reason", "reasons", "cause", "causes", "because", "purpose", "motivation")},
	{domain.IntentTemporal, oneOf(
		words("when", "date", "dates", "year", "years", "timeline", "deadline", "period", "duration"),
		containsAny("how long", "what time"),
	)},
	{domain.IntentPerson, oneOf(
		words("who", "whom", "whose", "author", "authors", "person", "people"),
		containsAny("written by"),
	)},
	{domain.IntentData, oneOf(
		containsAny("how many", "how much", "number of", "percentage", "percent", "statistic", "amount",
			"figure", "total"),
		words("data", "cost", "costs", "price", "rate"),
	)},
}

// Detect returns the intent of question.
func Detect(question string) domain.Intent {
	q := strings.ToLower(strings.TrimSpace(question))
	for _, r := range Rules {
		if r.Match(q) {
			return r.Intent
		}
	}
	return domain.IntentGeneral
}

func containsAny(subs ...string) Predicate {
	return func(q string) bool {
		for _, s := range subs {
			if strings.Contains(q, s) {
				return true
			}
		}
		return false
	}
}

func words(ws ...string) Predicate {
	re := regexp.MustCompile(`\b(?:` + strings.Join(ws, "|") + `)\b`)
	return re.MatchString
}

func pattern(expr string) Predicate {
	return regexp.MustCompile(expr).MatchString
}

func oneOf(preds ...Predicate) Predicate {
	return func(q string) bool {
		for _, p := range preds {
			if p(q) {
				return true
			}
		}
		return false
	}
}
