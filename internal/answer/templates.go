package answer

import (
	"fmt"

	"docqa/internal/domain"
)

var intros = map[domain.Intent]string{
	domain.IntentSummary:    "Here is a summary of %s",
	domain.IntentConclusion: "Here are the conclusions drawn in %s",
	domain.IntentTopic:      "This is what %s is about, based on its most relevant passages:",
	domain.IntentHowTo:      "Here is how %s describes the process:",
	domain.IntentList:       "Here are the relevant items listed in %s:",
	domain.IntentDefinition: "Here is how %s defines it:",
	domain.IntentCompare:    "Here is what %s says when comparing these points:",
	domain.IntentReason:     "According to %s, the reasons are explained as follows:",
	domain.IntentTemporal:   "Here is the timing information found in %s:",
	domain.IntentPerson:     "Here is what %s says about the people involved:",
	domain.IntentData:       "Here are the figures reported in %s:",
	domain.IntentGeneral:    "Here is what I found in %s:",
}

func intro(in domain.Intent, name string) string {
	tmpl, ok := intros[in]
	if !ok {
		tmpl = intros[domain.IntentGeneral]
	}
	return fmt.Sprintf(tmpl, quoteName(name))
}

func quoteName(name string) string {
	if name == "" {
		return "the document"
	}
	return `"` + name + `"`
}
