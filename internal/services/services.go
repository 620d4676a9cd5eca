package services

import (
	"context"

	"gorm.io/gorm"

	"sitesmith/internal/llm/client"
	"sitesmith/internal/repositories"
)

// DbServices aggregates all domain services backed by the database.
type DbServices struct {
	Conversations ConversationService
	Generation    GenerationService
	Templates     TemplateService
	AppSettings   AppSettingsService
	Models        ModelCatalogService
	Keyring       *KeyringService
	Snippets      *SnippetService

	Factory InvokerFactory
}

// Invoker resolves the configured model into a ready invoker. Panels use this
// for their one-shot prompts.
func (s *DbServices) Invoker(ctx context.Context) (Invoker, error) {
	return s.Factory(ctx)
}

// NewDbServices constructs the service container using repositories backed
// by db. The generation invoker is resolved per request from settings, the
// model catalog, and the keyring.
func NewDbServices(db *gorm.DB, snippetDir string) *DbServices {
	convRepo := repositories.NewConversationRepository(db)
	templateRepo := repositories.NewTemplateRepository(db)
	settingsRepo := repositories.NewAppSettingsRepository(db)

	catalog := NewModelCatalogService()
	keyring := NewKeyringService()
	conversations := NewConversationService(convRepo)
	settings := NewAppSettingsService(settingsRepo, catalog)

	factory := func(ctx context.Context) (Invoker, error) {
		mdl, err := resolveModel(settings, catalog)
		if err != nil {
			return nil, err
		}
		apiKey, err := keyring.GetAPIKey(mdl.ProviderID)
		if err != nil {
			return nil, err
		}
		return client.New(ctx, mdl.ProviderID, mdl.APIName, apiKey)
	}

	return &DbServices{
		Conversations: conversations,
		Generation:    NewGenerationService(convRepo, conversations.Workspace(), factory),
		Templates:     NewTemplateService(templateRepo),
		AppSettings:   settings,
		Models:        catalog,
		Keyring:       keyring,
		Snippets:      NewSnippetService(snippetDir),
		Factory:       factory,
	}
}

// resolveModel prefers the settings selection and falls back to the catalog
// default.
func resolveModel(settings AppSettingsService, catalog ModelCatalogService) (mdl *modelRef, err error) {
	current, err := settings.Get()
	if err == nil && current.DefaultModelKey != "" {
		if m, err := catalog.GetModel(current.DefaultModelKey); err == nil {
			return &modelRef{ProviderID: m.ProviderID, APIName: m.APIName}, nil
		}
	}
	m, err := catalog.DefaultModel()
	if err != nil {
		return nil, err
	}
	return &modelRef{ProviderID: m.ProviderID, APIName: m.APIName}, nil
}

type modelRef struct {
	ProviderID string
	APIName    string
}

// Startup runs every service's startup hook in dependency order.
func (s *DbServices) Startup(ctx context.Context) error {
	if err := s.Models.Startup(ctx); err != nil {
		return err
	}
	s.AppSettings.Startup(ctx)
	s.Snippets.Startup(ctx)
	s.Generation.Startup(ctx)
	if err := s.Templates.Startup(ctx); err != nil {
		return err
	}
	return s.Conversations.Startup(ctx)
}
