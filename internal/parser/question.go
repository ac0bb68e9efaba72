package parser

import (
	"encoding/json"
	"regexp"
	"strings"

	"studybuddy/internal/domain"
)

// OptionCount is the number of answer choices every question carries.
const OptionCount = 4

// Question is a parsed multiple-choice question with exactly OptionCount options.
type Question struct {
	Text    string
	Options []string
}

var (
	letterOptionRe = regexp.MustCompile(`^[A-Da-d][).]\s*(.+)$`)
	numberOptionRe = regexp.MustCompile(`^[0-9]+[).]\s*(.+)$`)
)

// ParseQuestion extracts a question and its options from raw model text.
// It tries strict JSON first, then falls back to line-based extraction of
// lettered, numbered, or bulleted option lines. If either pass cannot produce
// a non-empty question with at least OptionCount options, generation has
// failed for good: the caller must apologize and return to idle, not retry.
func ParseQuestion(raw string) (*Question, error) {
	text := cleanModelText(raw)

	if q, ok := parseStructured(text); ok {
		return q, nil
	}
	if q, ok := parseLines(text); ok {
		return q, nil
	}
	return nil, domain.NewGenerationFailedError("model output did not contain a question with four options")
}

func parseStructured(text string) (*Question, bool) {
	var payload struct {
		Question string   `json:"question"`
		Options  []string `json:"options"`
	}
	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		return nil, false
	}
	return buildQuestion(payload.Question, payload.Options)
}

func parseLines(text string) (*Question, bool) {
	var questionParts []string
	var options []string

	for _, rawLine := range strings.Split(text, "\n") {
		line := strings.TrimSpace(rawLine)
		if line == "" {
			continue
		}

		if m := letterOptionRe.FindStringSubmatch(line); m != nil {
			options = append(options, strings.TrimSpace(m[1]))
			continue
		}
		if m := numberOptionRe.FindStringSubmatch(line); m != nil {
			options = append(options, strings.TrimSpace(m[1]))
			continue
		}
		if after, ok := strings.CutPrefix(line, "- "); ok {
			options = append(options, strings.TrimSpace(after))
			continue
		}

		// First non-option line starts the question; further ones extend it
		// until options begin, after which they count as unlabelled options.
		if len(options) == 0 {
			questionParts = append(questionParts, line)
		} else {
			options = append(options, line)
		}
	}

	return buildQuestion(strings.Join(questionParts, " "), options)
}

func buildQuestion(text string, options []string) (*Question, bool) {
	text = strings.TrimSpace(text)
	if text == "" || len(options) < OptionCount {
		return nil, false
	}
	// Extra options beyond the first four are ignored.
	picked := make([]string, OptionCount)
	copy(picked, options[:OptionCount])
	for _, option := range picked {
		if strings.TrimSpace(option) == "" {
			return nil, false
		}
	}
	return &Question{Text: text, Options: picked}, true
}
