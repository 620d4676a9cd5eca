package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"sitesmith/internal/apperr"
	"sitesmith/internal/assets"
	"sitesmith/internal/models"
)

type ModelCatalogService interface {
	Startup(ctx context.Context) error
	ListModelGroups() ([]models.LLMModelGroup, error)
	GetModel(modelKey string) (*models.LLMModel, error)
	DefaultModel() (*models.LLMModel, error)
}

type modelCatalogService struct {
	ctx context.Context

	mu            sync.RWMutex
	providerOrder []string
	providerNames map[string]string
	models        map[string]*models.LLMModel
	defaultKey    string
}

type rawModelFile struct {
	Providers []rawProvider `json:"providers"`
}

type rawProvider struct {
	ID          string     `json:"id"`
	DisplayName string     `json:"displayName"`
	Models      []rawModel `json:"models"`
}

type rawModel struct {
	DisplayName string `json:"displayName"`
	APIName     string `json:"apiName"`
	Default     bool   `json:"default,omitempty"`
}

func NewModelCatalogService() ModelCatalogService {
	return &modelCatalogService{
		models:        make(map[string]*models.LLMModel),
		providerNames: make(map[string]string),
	}
}

func (s *modelCatalogService) Startup(ctx context.Context) error {
	s.ctx = ctx

	var parsed rawModelFile
	if err := json.Unmarshal(assets.ModelsData, &parsed); err != nil {
		return fmt.Errorf("parse models asset: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.providerOrder = make([]string, 0, len(parsed.Providers))
	for _, provider := range parsed.Providers {
		providerID := strings.TrimSpace(provider.ID)
		if providerID == "" {
			continue
		}
		providerName := strings.TrimSpace(provider.DisplayName)
		s.providerNames[providerID] = providerName
		s.providerOrder = append(s.providerOrder, providerID)
		for _, mdl := range provider.Models {
			key := providerID + "|" + strings.TrimSpace(mdl.APIName)
			s.models[key] = &models.LLMModel{
				Key:          key,
				DisplayName:  strings.TrimSpace(mdl.DisplayName),
				APIName:      strings.TrimSpace(mdl.APIName),
				ProviderID:   providerID,
				ProviderName: providerName,
				Default:      mdl.Default,
			}
			if mdl.Default && s.defaultKey == "" {
				s.defaultKey = key
			}
		}
	}

	if len(s.models) == 0 {
		return fmt.Errorf("models asset contains no models")
	}
	return nil
}

func (s *modelCatalogService) ListModelGroups() ([]models.LLMModelGroup, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	groups := make([]models.LLMModelGroup, 0, len(s.providerOrder))
	for _, providerID := range s.providerOrder {
		group := models.LLMModelGroup{
			ProviderID:   providerID,
			ProviderName: s.providerNames[providerID],
		}
		var forProvider []models.LLMModel
		for _, mdl := range s.models {
			if mdl.ProviderID != providerID {
				continue
			}
			forProvider = append(forProvider, *mdl)
		}
		sort.SliceStable(forProvider, func(i, j int) bool {
			return strings.ToLower(forProvider[i].DisplayName) < strings.ToLower(forProvider[j].DisplayName)
		})
		group.Models = forProvider
		groups = append(groups, group)
	}
	return groups, nil
}

func (s *modelCatalogService) GetModel(modelKey string) (*models.LLMModel, error) {
	modelKey = strings.TrimSpace(modelKey)
	if modelKey == "" {
		return nil, apperr.NewInvalidRequest("model key is required")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	mdl, ok := s.models[modelKey]
	if !ok {
		return nil, apperr.NewNotFound("model", modelKey)
	}
	out := *mdl
	return &out, nil
}

// DefaultModel returns the catalog-wide default, the model generation falls
// back to when settings carry no selection.
func (s *modelCatalogService) DefaultModel() (*models.LLMModel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if mdl, ok := s.models[s.defaultKey]; ok {
		out := *mdl
		return &out, nil
	}
	return nil, apperr.NewInternal(fmt.Errorf("model catalog has no default"))
}
