package panels

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Tutorial is the decoded step-by-step guide returned by the tutorial panel.
type Tutorial struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Steps       []TutorialStep `json:"steps"`
}

type TutorialStep struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Tip     string `json:"tip"`
	Action  string `json:"action"`
}

func tutorialPrompt(req Request) string {
	return fmt.Sprintf(`Create a comprehensive step-by-step tutorial for building a %[1]s website.

Generate a detailed tutorial with 5-7 steps covering:
1. Project setup and structure
2. Building the core components
3. Styling and design
4. Adding interactivity
5. Optimization and polish

For each step provide a clear title, a detailed explanation (2-3 paragraphs), code examples, practical tips, and an action prompt that can be sent to the AI to implement that step.

Format as JSON with this structure:
{
    "title": "Building a %[1]s Website",
    "description": "Complete guide description",
    "steps": [
        {
            "title": "Step title",
            "content": "Markdown content with explanations",
            "tip": "Helpful tip",
            "action": "AI prompt to implement this step"
        }
    ]
}

Output ONLY the JSON object, no markdown fences and no extra text.`, req.Detail)
}

func decodeTutorial(raw string, out *Outcome) error {
	cleaned := stripJSONFences(raw)
	var tut Tutorial
	if err := json.Unmarshal([]byte(cleaned), &tut); err != nil {
		return fmt.Errorf("decoding tutorial: %w", err)
	}
	if tut.Title == "" || len(tut.Steps) == 0 {
		return fmt.Errorf("tutorial is missing title or steps")
	}
	out.Tutorial = &tut
	return nil
}

// stripJSONFences trims markdown fencing the model may wrap around JSON.
func stripJSONFences(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```JSON")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
