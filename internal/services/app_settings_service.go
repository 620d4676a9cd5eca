package services

import (
	"context"
	"time"

	"sitesmith/internal/apperr"
	"sitesmith/internal/models"
	"sitesmith/internal/repositories"
)

type AppSettingsService interface {
	Get() (*models.AppSettings, error)
	Update(theme, locale, defaultModelKey string) (*models.AppSettings, error)
	Startup(ctx context.Context)
}

type appSettingsService struct {
	appSettings repositories.AppSettingsRepository
	catalog     ModelCatalogService
	ctx         context.Context
}

func (s *appSettingsService) Startup(ctx context.Context) {
	s.ctx = ctx
}

func NewAppSettingsService(appSettings repositories.AppSettingsRepository, catalog ModelCatalogService) AppSettingsService {
	return &appSettingsService{appSettings: appSettings, catalog: catalog}
}

func (s *appSettingsService) Get() (*models.AppSettings, error) {
	settings, err := s.appSettings.Get(s.ctx)
	if err != nil {
		return nil, apperr.NewPersistenceFailed(err)
	}
	return settings, nil
}

func (s *appSettingsService) Update(theme, locale, defaultModelKey string) (*models.AppSettings, error) {
	if theme == "" {
		return nil, apperr.NewInvalidRequest("theme is required")
	}
	if locale == "" {
		return nil, apperr.NewInvalidRequest("locale is required")
	}
	if theme != "light" && theme != "dark" && theme != "system" {
		return nil, apperr.NewInvalidRequest("theme must be 'light', 'dark', or 'system'")
	}
	if defaultModelKey != "" {
		if _, err := s.catalog.GetModel(defaultModelKey); err != nil {
			return nil, err
		}
	}

	current, err := s.appSettings.Get(s.ctx)
	if err != nil {
		return nil, apperr.NewPersistenceFailed(err)
	}

	current.Theme = theme
	current.Locale = locale
	if defaultModelKey != "" {
		current.DefaultModelKey = defaultModelKey
	}
	current.UpdatedAt = time.Now()

	if err := s.appSettings.Update(s.ctx, current); err != nil {
		return nil, apperr.NewPersistenceFailed(err)
	}
	return current, nil
}
