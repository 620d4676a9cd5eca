// Package panels holds the one-shot analysis prompts: each panel formats a
// single prompt from the current code or a user-supplied detail, invokes the
// model once, and returns markdown plus an optional apply instruction the
// caller can feed back into the build engine.
package panels

import (
	"context"
	"fmt"
	"strings"

	"sitesmith/internal/apperr"
)

// Invoker sends one prompt and returns the full model reply.
type Invoker interface {
	Invoke(ctx context.Context, prompt string) (string, error)
}

// Request carries the inputs a panel can draw on. Code is the current
// primary file; Detail is panel-specific (error message, audience, feedback
// text, template name).
type Request struct {
	Code   string `json:"code"`
	Detail string `json:"detail"`
}

// Outcome is a finished panel run. Apply, when set, is an instruction the
// caller can submit as a chat turn to act on the analysis. Tutorial is set
// only by the tutorial panel.
type Outcome struct {
	Markdown string    `json:"markdown"`
	Apply    string    `json:"apply,omitempty"`
	Tutorial *Tutorial `json:"tutorial,omitempty"`
}

type panel struct {
	needsCode   bool
	needsDetail bool
	detailName  string
	prompt      func(req Request) string
	apply       func(req Request) string
	decode      func(raw string, out *Outcome) error
}

// Service runs registered panels against a shared invoker.
type Service struct {
	invoker Invoker
	panels  map[string]panel
}

func NewService(invoker Invoker) *Service {
	return &Service{invoker: invoker, panels: registry()}
}

// Names lists the registered panels.
func (s *Service) Names() []string {
	names := make([]string, 0, len(s.panels))
	for _, n := range panelOrder {
		if _, ok := s.panels[n]; ok {
			names = append(names, n)
		}
	}
	return names
}

// Run executes one panel and returns its outcome.
func (s *Service) Run(ctx context.Context, name string, req Request) (*Outcome, error) {
	p, ok := s.panels[name]
	if !ok {
		return nil, apperr.NewNotFound("panel", name)
	}
	if p.needsCode && strings.TrimSpace(req.Code) == "" {
		return nil, apperr.NewInvalidRequest("no code to analyze")
	}
	if p.needsDetail && strings.TrimSpace(req.Detail) == "" {
		return nil, apperr.NewInvalidRequest(p.detailName + " is required")
	}

	raw, err := s.invoker.Invoke(ctx, p.prompt(req))
	if err != nil {
		return nil, apperr.NewInvocationFailed(err)
	}

	out := &Outcome{Markdown: raw}
	if p.apply != nil {
		out.Apply = p.apply(req)
	}
	if p.decode != nil {
		if err := p.decode(raw, out); err != nil {
			return nil, apperr.NewInvalidRequest(fmt.Sprintf("panel %s returned malformed output: %v", name, err))
		}
	}
	return out, nil
}
