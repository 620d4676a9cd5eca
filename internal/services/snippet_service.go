package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/yargevad/filepathx"
)

// Snippet is a ready-to-insert block of HTML.
type Snippet struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Code     string `json:"code"`
}

// SnippetService serves the built-in snippet library plus any .html files
// found under a configured directory.
type SnippetService struct {
	dir string
	ctx context.Context
}

func NewSnippetService(dir string) *SnippetService {
	return &SnippetService{dir: dir}
}

func (s *SnippetService) Startup(ctx context.Context) {
	s.ctx = ctx
}

// List returns the built-in snippets followed by directory snippets sorted
// by name. A missing directory is not an error.
func (s *SnippetService) List() ([]Snippet, error) {
	snippets := builtinSnippets()
	if s.dir == "" {
		return snippets, nil
	}

	matches, err := filepathx.Glob(filepath.Join(s.dir, "**", "*.html"))
	if err != nil {
		return nil, fmt.Errorf("globbing snippet dir: %w", err)
	}
	var external []Snippet
	for _, path := range matches {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		name := strings.TrimSuffix(filepath.Base(path), ".html")
		external = append(external, Snippet{
			Name:     name,
			Category: "Library",
			Code:     string(data),
		})
	}
	sort.Slice(external, func(i, j int) bool { return external[i].Name < external[j].Name })
	return append(snippets, external...), nil
}

// InsertInstruction phrases a snippet as a build request so the engine
// weaves it into the current page.
func (s *SnippetService) InsertInstruction(snippet Snippet) string {
	return fmt.Sprintf("Insert this %s snippet into the website, integrating it with the existing design:\n\n%s", snippet.Name, snippet.Code)
}

func builtinSnippets() []Snippet {
	return []Snippet{
		{
			Name:     "Responsive Navbar",
			Category: "Navigation",
			Code: `<nav style="background: linear-gradient(135deg, #667eea 0%, #764ba2 100%); padding: 1rem; display: flex; justify-content: space-between; align-items: center;">
    <div style="color: white; font-size: 1.5rem; font-weight: bold;">Logo</div>
    <div style="display: flex; gap: 2rem;">
        <a href="#" style="color: white; text-decoration: none;">Home</a>
        <a href="#" style="color: white; text-decoration: none;">About</a>
        <a href="#" style="color: white; text-decoration: none;">Contact</a>
    </div>
</nav>`,
		},
		{
			Name:     "Card with Hover Effect",
			Category: "Components",
			Code: `<div style="width: 300px; padding: 2rem; background: white; border-radius: 1rem; box-shadow: 0 4px 6px rgba(0,0,0,0.1); transition: all 0.3s;" onmouseover="this.style.transform='translateY(-10px) scale(1.02)'; this.style.boxShadow='0 20px 40px rgba(0,0,0,0.2)'" onmouseout="this.style.transform='translateY(0) scale(1)'; this.style.boxShadow='0 4px 6px rgba(0,0,0,0.1)'">
    <h3 style="margin: 0 0 1rem 0;">Card Title</h3>
    <p style="color: #666;">This is a beautiful card with smooth hover effects.</p>
</div>`,
		},
		{
			Name:     "Gradient Button",
			Category: "Buttons",
			Code: `<button style="padding: 0.75rem 2rem; background: linear-gradient(135deg, #667eea 0%, #764ba2 100%); color: white; border: none; border-radius: 0.5rem; font-size: 1rem; cursor: pointer; transition: all 0.3s; box-shadow: 0 4px 15px rgba(102, 126, 234, 0.4);" onmouseover="this.style.transform='scale(1.05)'; this.style.boxShadow='0 6px 20px rgba(102, 126, 234, 0.6)'" onmouseout="this.style.transform='scale(1)'; this.style.boxShadow='0 4px 15px rgba(102, 126, 234, 0.4)'">
    Click Me
</button>`,
		},
		{
			Name:     "Loading Spinner",
			Category: "Animations",
			Code: `<div style="width: 50px; height: 50px; border: 4px solid #f3f3f3; border-top: 4px solid #667eea; border-radius: 50%; animation: spin 1s linear infinite;"></div>
<style>
@keyframes spin {
    0% { transform: rotate(0deg); }
    100% { transform: rotate(360deg); }
}
</style>`,
		},
		{
			Name:     "Glassmorphism Card",
			Category: "Components",
			Code: `<div style="padding: 2rem; background: rgba(255, 255, 255, 0.1); backdrop-filter: blur(10px); border-radius: 1rem; border: 1px solid rgba(255, 255, 255, 0.2); box-shadow: 0 8px 32px rgba(0, 0, 0, 0.1);">
    <h3 style="color: white; margin: 0 0 1rem 0;">Glassmorphism</h3>
    <p style="color: rgba(255, 255, 255, 0.8);">Modern glass effect design.</p>
</div>`,
		},
		{
			Name:     "Hero Section",
			Category: "Sections",
			Code: `<div style="min-height: 100vh; display: flex; flex-direction: column; justify-content: center; align-items: center; background: linear-gradient(135deg, #667eea 0%, #764ba2 100%); padding: 2rem; text-align: center;">
    <h1 style="color: white; font-size: 3rem; margin: 0 0 1rem 0;">Welcome to Our Website</h1>
    <p style="color: rgba(255,255,255,0.9); font-size: 1.25rem; margin: 0 0 2rem 0;">Create amazing experiences with beautiful design</p>
    <button style="padding: 1rem 3rem; background: white; color: #667eea; border: none; border-radius: 0.5rem; font-size: 1.1rem; font-weight: bold; cursor: pointer;">Get Started</button>
</div>`,
		},
	}
}
