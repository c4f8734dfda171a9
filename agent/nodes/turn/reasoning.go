package turnnode

import (
	"regexp"
	"strings"
)

var reasoningPattern = regexp.MustCompile(`(?s)<reasoning>(.*?)</reasoning>`)

// ExtractReasoning splits a model reply into its private reasoning and the
// customer-visible text. The model is prompted to lead with a
// <reasoning>...</reasoning> block; everything inside the tags goes to the
// audit log, everything outside is the reply. Replies without tags pass
// through unchanged.
func ExtractReasoning(text string) (reasoning, visible string) {
	matches := reasoningPattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return "", strings.TrimSpace(text)
	}

	parts := make([]string, 0, len(matches))
	for _, m := range matches {
		if trimmed := strings.TrimSpace(m[1]); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}

	visible = strings.TrimSpace(reasoningPattern.ReplaceAllString(text, ""))
	return strings.Join(parts, " "), visible
}
