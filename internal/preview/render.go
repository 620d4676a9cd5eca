package preview

import "strings"

// ArchiveName is the file name offered for project downloads.
const ArchiveName = "website-project.zip"

// DevicePreset is a named viewport width for preview rendering. Zero means
// full width.
type DevicePreset struct {
	Name  string `json:"name"`
	Width int    `json:"width"`
}

// DevicePresets returns the supported preview viewports.
func DevicePresets() []DevicePreset {
	return []DevicePreset{
		{Name: "desktop", Width: 0},
		{Name: "tablet", Width: 768},
		{Name: "mobile", Width: 375},
	}
}

// WrapDocument embeds generated body code in a minimal HTML shell with a
// small reset so preview rendering matches a fresh browser tab.
func WrapDocument(code string) string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html><html><head><meta charset=\"UTF-8\">")
	b.WriteString("<meta name=\"viewport\" content=\"width=device-width, initial-scale=1.0\">")
	b.WriteString("<style>body { margin: 0; padding: 0; }</style>")
	b.WriteString("</head><body>")
	b.WriteString(code)
	b.WriteString("</body></html>")
	return b.String()
}

// StandaloneDocument produces a complete page suitable for saving to disk
// or opening in a new tab.
func StandaloneDocument(code string) string {
	if isCompleteDocument(code) {
		return code
	}
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n")
	b.WriteString("<meta charset=\"UTF-8\">\n")
	b.WriteString("<meta name=\"viewport\" content=\"width=device-width, initial-scale=1.0\">\n")
	b.WriteString("<title>My Website</title>\n")
	b.WriteString("</head>\n<body>\n")
	b.WriteString(code)
	b.WriteString("\n</body>\n</html>")
	return b.String()
}

func isCompleteDocument(code string) bool {
	head := strings.ToLower(strings.TrimSpace(code))
	return strings.HasPrefix(head, "<!doctype") || strings.HasPrefix(head, "<html")
}
