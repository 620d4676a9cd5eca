package mocks

import (
	"context"

	"sitesmith/internal/models"
)

type ConversationRepositoryMock struct {
	ListFunc         func(ctx context.Context) ([]models.Conversation, error)
	GetFunc          func(ctx context.Context, id string) (*models.Conversation, error)
	CreateFunc       func(ctx context.Context, conv *models.Conversation) error
	UpdateFieldsFunc func(ctx context.Context, id string, updates map[string]interface{}) error
	DeleteFunc       func(ctx context.Context, id string) error
}

func (m *ConversationRepositoryMock) List(ctx context.Context) ([]models.Conversation, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return []models.Conversation{}, nil
}

func (m *ConversationRepositoryMock) Get(ctx context.Context, id string) (*models.Conversation, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	return nil, nil
}

func (m *ConversationRepositoryMock) Create(ctx context.Context, conv *models.Conversation) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, conv)
	}
	return nil
}

func (m *ConversationRepositoryMock) UpdateFields(ctx context.Context, id string, updates map[string]interface{}) error {
	if m.UpdateFieldsFunc != nil {
		return m.UpdateFieldsFunc(ctx, id, updates)
	}
	return nil
}

func (m *ConversationRepositoryMock) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}
