package services

// QuickAction is a fixed instruction preset for common improvement requests.
type QuickAction struct {
	Label  string `json:"label"`
	Prompt string `json:"prompt"`
}

// QuickActions returns the built-in presets. They only make sense against
// existing code; callers reject them while the primary file is empty.
func QuickActions() []QuickAction {
	return []QuickAction{
		{Label: "AI Enhance", Prompt: "Enhance the design with better colors, animations, and modern UI elements"},
		{Label: "New Theme", Prompt: "Apply a completely new modern color theme with gradients"},
		{Label: "Mobile First", Prompt: "Optimize for mobile devices with perfect responsive design"},
		{Label: "Add Animations", Prompt: "Add smooth animations and transitions throughout"},
	}
}
