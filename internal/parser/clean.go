package parser

import "strings"

// cleanModelText strips the decoration LLMs wrap around their payloads:
// markdown code fences and reasoning <think> blocks.
func cleanModelText(raw string) string {
	text := strings.TrimSpace(raw)

	if start := strings.Index(text, "<think>"); start != -1 {
		if end := strings.Index(text, "</think>"); end != -1 && end > start {
			text = text[:start] + text[end+len("</think>"):]
			text = strings.TrimSpace(text)
		}
	}

	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}
