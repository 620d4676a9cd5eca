package repositories

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"sitesmith/internal/models"
)

type ConversationRepository interface {
	List(ctx context.Context) ([]models.Conversation, error)
	Get(ctx context.Context, id string) (*models.Conversation, error)
	Create(ctx context.Context, conv *models.Conversation) error
	UpdateFields(ctx context.Context, id string, updates map[string]interface{}) error
	Delete(ctx context.Context, id string) error
}

type conversationRepository struct {
	db *gorm.DB
}

func NewConversationRepository(db *gorm.DB) ConversationRepository {
	return &conversationRepository{db: db}
}

// List returns all conversations, most recently updated first.
func (r *conversationRepository) List(ctx context.Context) ([]models.Conversation, error) {
	var convs []models.Conversation
	res := r.db.WithContext(ctx).Order("updated_at desc").Find(&convs)
	if res.Error != nil {
		return nil, fmt.Errorf("listing conversations: %w", res.Error)
	}
	return convs, nil
}

// Get returns the conversation, or (nil, nil) when the id is unknown.
func (r *conversationRepository) Get(ctx context.Context, id string) (*models.Conversation, error) {
	var conv models.Conversation
	res := r.db.WithContext(ctx).Where("id = ?", id).Take(&conv)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("getting conversation %s: %w", id, res.Error)
	}
	return &conv, nil
}

func (r *conversationRepository) Create(ctx context.Context, conv *models.Conversation) error {
	if conv == nil || conv.ID == "" {
		return fmt.Errorf("conversation with id is required")
	}
	if err := r.db.WithContext(ctx).Create(conv).Error; err != nil {
		return fmt.Errorf("creating conversation: %w", err)
	}
	return nil
}

// UpdateFields replaces the given columns on one record. Whole-field replace,
// no merging of JSON documents.
func (r *conversationRepository) UpdateFields(ctx context.Context, id string, updates map[string]interface{}) error {
	res := r.db.WithContext(ctx).Model(&models.Conversation{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("updating conversation %s: %w", id, res.Error)
	}
	return nil
}

func (r *conversationRepository) Delete(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Conversation{}).Error; err != nil {
		return fmt.Errorf("deleting conversation %s: %w", id, err)
	}
	return nil
}
