package services

import (
	"context"
	"fmt"

	"sitesmith/internal/models"
	"sitesmith/internal/repositories"
)

type TemplateService interface {
	GetTemplate(id uint) (*models.Template, error)
	ListTemplates() ([]*models.Template, error)
	CreateTemplate(t *models.Template) (*models.Template, error)
	UpdateTemplate(t *models.Template) (*models.Template, error)
	DeleteTemplate(id uint) error
	Startup(ctx context.Context) error
}

type templateService struct {
	repo repositories.TemplateRepository
	ctx  context.Context
}

func NewTemplateService(repo repositories.TemplateRepository) TemplateService {
	return &templateService{repo: repo}
}

// Startup seeds the built-in gallery on first run.
func (s *templateService) Startup(ctx context.Context) error {
	s.ctx = ctx
	count, err := s.repo.Count(ctx)
	if err != nil {
		return fmt.Errorf("service: count templates: %w", err)
	}
	if count > 0 {
		return nil
	}
	for _, tmpl := range builtinTemplates() {
		seed := tmpl
		if err := s.repo.Create(ctx, &seed); err != nil {
			return fmt.Errorf("service: seed template %s: %w", tmpl.Name, err)
		}
	}
	return nil
}

func (s *templateService) GetTemplate(id uint) (*models.Template, error) {
	tmpl, err := s.repo.Get(s.ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service: get template %d: %w", id, err)
	}
	return tmpl, nil
}

func (s *templateService) ListTemplates() ([]*models.Template, error) {
	list, err := s.repo.GetAll(s.ctx)
	if err != nil {
		return nil, fmt.Errorf("service: list templates: %w", err)
	}
	return list, nil
}

func (s *templateService) CreateTemplate(t *models.Template) (*models.Template, error) {
	if err := s.repo.Create(s.ctx, t); err != nil {
		return nil, fmt.Errorf("service: create template: %w", err)
	}
	return t, nil
}

func (s *templateService) UpdateTemplate(t *models.Template) (*models.Template, error) {
	if err := s.repo.Update(s.ctx, t); err != nil {
		return nil, fmt.Errorf("service: update template %d: %w", t.ID, err)
	}
	return t, nil
}

func (s *templateService) DeleteTemplate(id uint) error {
	if err := s.repo.Delete(s.ctx, id); err != nil {
		return fmt.Errorf("service: delete template %d: %w", id, err)
	}
	return nil
}

func builtinTemplates() []models.Template {
	return []models.Template{
		{
			Name:        "Portfolio",
			Description: "Professional portfolio showcase",
			Category:    "showcase",
			Prompt:      "Create a stunning professional portfolio website with animated hero section, about me with typing effect, interactive skills showcase with progress bars and icons, project gallery with 3D card flip effects on hover, testimonials slider, contact form with validation, smooth parallax scrolling, modern glassmorphism design, and floating particle background",
		},
		{
			Name:        "E-Commerce",
			Description: "Modern online store",
			Category:    "commerce",
			Prompt:      "Create a beautiful e-commerce product page with image gallery carousel, zoom on hover, add to cart with animation, product details with tabs, size and color selector with visual feedback, star ratings with reviews section, related products with lazy loading, wishlist functionality, shopping cart sidebar, quantity selector, and smooth checkout flow UI",
		},
		{
			Name:        "Game",
			Description: "Playable browser game",
			Category:    "interactive",
			Prompt:      "Create a fully playable browser game (choose: space shooter with enemy waves, snake with power-ups, or breakout with special bricks) featuring: score tracking with combo system, lives/health display, multiple power-ups, increasing difficulty levels, boss battles, particle effects, sound effects (visual indicators), game over screen with retry, high score leaderboard saved to localStorage, smooth 60fps animations using requestAnimationFrame, retro pixel art style with scanline effects",
		},
		{
			Name:        "Landing Page",
			Description: "High-converting marketing",
			Category:    "marketing",
			Prompt:      "Create a high-converting SaaS landing page with: animated hero section with gradient background and CTA buttons, features section with animated icons and hover effects, testimonials carousel with auto-play, pricing tables with toggle for monthly/yearly, FAQ accordion, email capture form with validation, trust badges, stats counter animation on scroll, footer with social links, smooth scroll animations throughout, modern gradient design, and sticky navigation",
		},
		{
			Name:        "Photography",
			Description: "Stunning image gallery",
			Category:    "showcase",
			Prompt:      "Create a stunning photography portfolio with: masonry grid layout with infinite scroll, lightbox image viewer with zoom and pan, category filters with smooth transitions, full-width parallax hero banner, photographer bio with animated timeline, Instagram-style grid, image lazy loading, smooth hover effects with overlay, search functionality, elegant dark theme with gold accents, and gallery statistics",
		},
		{
			Name:        "Music Player",
			Description: "Audio player UI",
			Category:    "interactive",
			Prompt:      "Create a beautiful Spotify-style music player with: album art display with blur background, animated play/pause button, progress bar with draggable scrubber, volume control with slider, dynamic playlist with queue, skip/previous buttons, shuffle and repeat modes, audio visualizer with canvas animation, search songs, like/favorite functionality, dark theme with neon glow effects, and smooth transitions",
		},
		{
			Name:        "Blog",
			Description: "Modern blogging platform",
			Category:    "content",
			Prompt:      "Create a modern blog website with: featured post hero with overlay, article cards grid with hover effects, category tags with filtering, sidebar with recent posts and trending, author bio with social links, comment section with nested replies, search bar with live results, newsletter signup with validation, reading time and progress indicator, table of contents, code syntax highlighting, share buttons, and minimalist typography-focused design",
		},
		{
			Name:        "Restaurant",
			Description: "Restaurant website",
			Category:    "marketing",
			Prompt:      "Create an appetizing restaurant website with: full-screen hero with food video/images, interactive menu with categories and filters, dish cards with images and prices, dietary tags (vegan, gluten-free), order online modal, table reservation system with calendar, embedded Google Maps, hours of operation, customer reviews with star ratings, chef profiles, Instagram feed integration, newsletter signup, and warm inviting color scheme with food photography",
		},
		{
			Name:        "Dashboard",
			Description: "Analytics dashboard",
			Category:    "interactive",
			Prompt:      "Create a professional analytics dashboard with: sidebar navigation, stat cards with icons and trends, interactive charts (line, bar, pie, area) using canvas, data tables with sorting and filtering, date range picker, export to CSV/PDF buttons, user profile dropdown, notifications panel, dark/light mode toggle, responsive grid layout, real-time data updates animation, and modern glassmorphism design",
		},
	}
}
