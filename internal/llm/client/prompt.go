package client

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"sitesmith/internal/models"
)

var (
	promptOnce  sync.Once
	systemText  string
	framingText string
)

func loadPrompts() {
	promptOnce.Do(func() {
		sys, err := embeddedPrompts.ReadFile("prompts/system_prompt.txt")
		if err != nil {
			panic(fmt.Sprintf("embedded system prompt missing: %v", err))
		}
		framing, err := embeddedPrompts.ReadFile("prompts/task_framing.txt")
		if err != nil {
			panic(fmt.Sprintf("embedded task framing missing: %v", err))
		}
		systemText = strings.TrimRight(string(sys), "\n")
		framingText = strings.TrimRight(string(framing), "\n")
	})
}

// SystemPrompt returns the built-in persona message seeded into every new
// conversation.
func SystemPrompt() string {
	loadPrompts()
	return systemText
}

// BuildPrompt folds a conversation into the single prompt sent to the model:
// persona, the transcript minus system turns, and the output framing.
func BuildPrompt(messages []models.Message) string {
	loadPrompts()
	var transcript strings.Builder
	for _, m := range messages {
		if m.Role == models.RoleSystem {
			continue
		}
		if transcript.Len() > 0 {
			transcript.WriteString("\n\n")
		}
		transcript.WriteString(strings.ToUpper(string(m.Role)))
		transcript.WriteString(": ")
		transcript.WriteString(m.Content)
	}
	return systemText + "\n\nCONVERSATION CONTEXT:\n" + transcript.String() + "\n\n" + framingText
}

// FixPrompt asks the model to repair a runtime or parse fault in the current
// code. It is sent as a user turn through the normal generation flow.
func FixPrompt(errMsg string) string {
	return fmt.Sprintf(`There is an error in the code: "%s". Please fix this error and output the corrected complete HTML code.`, errMsg)
}

var (
	htmlFenceRe = regexp.MustCompile("(?i)```html\n?")
	fenceRe     = regexp.MustCompile("```\n?")
)

// StripFences removes markdown code fences the model sometimes wraps its
// output in despite the framing instructions.
func StripFences(raw string) string {
	out := htmlFenceRe.ReplaceAllString(raw, "")
	out = fenceRe.ReplaceAllString(out, "")
	return strings.TrimSpace(out)
}
