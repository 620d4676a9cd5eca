package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"sitesmith/internal/apperr"
	"sitesmith/internal/builder"
	"sitesmith/internal/llm/client"
	"sitesmith/internal/models"
	"sitesmith/internal/repositories"
)

type ConversationService interface {
	Startup(ctx context.Context) error
	List() ([]models.Conversation, error)
	Get(id string) (*models.Conversation, error)
	Create(name string) (*models.Conversation, error)
	Select(id string) (*models.Conversation, error)
	Rename(id, name string) (*models.Conversation, error)
	Delete(id string) (*models.Conversation, error)
	ClearChat(id string) (*models.Conversation, error)
	AddFile(id, name string) error
	DeleteFile(id, name string) error
	SelectFile(id, name string) error
	WriteFile(id, name, content string) error
	Workspace() *builder.Workspace
}

type conversationService struct {
	repo      repositories.ConversationRepository
	workspace *builder.Workspace
	ctx       context.Context
}

func NewConversationService(repo repositories.ConversationRepository) ConversationService {
	s := &conversationService{repo: repo, ctx: context.Background()}
	s.workspace = builder.NewWorkspace(s.persistVersions)
	return s
}

// Startup ensures at least one conversation exists and hydrates the most
// recently updated one.
func (s *conversationService) Startup(ctx context.Context) error {
	s.ctx = ctx
	convs, err := s.repo.List(ctx)
	if err != nil {
		return apperr.NewPersistenceFailed(err)
	}
	if len(convs) == 0 {
		_, err := s.Create("")
		return err
	}
	_, err = s.Select(convs[0].ID)
	return err
}

func (s *conversationService) Workspace() *builder.Workspace {
	return s.workspace
}

func (s *conversationService) List() ([]models.Conversation, error) {
	convs, err := s.repo.List(s.ctx)
	if err != nil {
		return nil, apperr.NewPersistenceFailed(err)
	}
	return convs, nil
}

func (s *conversationService) Get(id string) (*models.Conversation, error) {
	conv, err := s.repo.Get(s.ctx, id)
	if err != nil {
		return nil, apperr.NewPersistenceFailed(err)
	}
	if conv == nil {
		return nil, apperr.NewNotFound("conversation", id)
	}
	return conv, nil
}

// Create seeds a conversation with the system persona and an empty primary
// file, then selects it.
func (s *conversationService) Create(name string) (*models.Conversation, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = "Chat " + time.Now().Format("3:04:05 PM")
	}
	conv := &models.Conversation{
		ID:   uuid.NewString(),
		Name: name,
		Messages: datatypes.NewJSONSlice([]models.Message{{
			Role:      models.RoleSystem,
			Content:   client.SystemPrompt(),
			Timestamp: time.Now(),
		}}),
		ActiveFile: models.PrimaryFile,
		Versions:   datatypes.NewJSONSlice([]models.Version{}),
	}
	conv.SetFiles(map[string]string{models.PrimaryFile: ""})
	if err := s.repo.Create(s.ctx, conv); err != nil {
		return nil, apperr.NewPersistenceFailed(err)
	}
	s.workspace.Hydrate(conv)
	return conv, nil
}

// Select hydrates the workspace with the stored conversation.
func (s *conversationService) Select(id string) (*models.Conversation, error) {
	conv, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	s.workspace.Hydrate(conv)
	return conv, nil
}

// Rename updates the conversation name. An empty name after trimming cancels
// the rename.
func (s *conversationService) Rename(id, name string) (*models.Conversation, error) {
	name = strings.TrimSpace(name)
	conv, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if name == "" || conv.Name == name {
		return conv, nil
	}
	if err := s.repo.UpdateFields(s.ctx, id, map[string]interface{}{"name": name}); err != nil {
		return nil, apperr.NewPersistenceFailed(err)
	}
	conv.Name = name
	return conv, nil
}

// Delete removes a conversation. When the selected one is deleted, selection
// moves to the most recently updated survivor, or a fresh conversation when
// none remain. Returns the now-selected conversation.
func (s *conversationService) Delete(id string) (*models.Conversation, error) {
	if _, err := s.Get(id); err != nil {
		return nil, err
	}
	if err := s.repo.Delete(s.ctx, id); err != nil {
		return nil, apperr.NewPersistenceFailed(err)
	}
	if s.workspace.ConversationID() != id {
		return s.Get(s.workspace.ConversationID())
	}
	s.workspace.Reset()
	remaining, err := s.repo.List(s.ctx)
	if err != nil {
		return nil, apperr.NewPersistenceFailed(err)
	}
	if len(remaining) == 0 {
		return s.Create("")
	}
	return s.Select(remaining[0].ID)
}

// ClearChat resets the transcript to the system persona and empties the
// project files. The version ledger is kept.
func (s *conversationService) ClearChat(id string) (*models.Conversation, error) {
	conv, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	conv.Messages = datatypes.NewJSONSlice([]models.Message{{
		Role:      models.RoleSystem,
		Content:   client.SystemPrompt(),
		Timestamp: time.Now(),
	}})
	conv.SetFiles(map[string]string{models.PrimaryFile: ""})
	conv.ActiveFile = models.PrimaryFile
	err = s.repo.UpdateFields(s.ctx, id, map[string]interface{}{
		"messages":    conv.Messages,
		"files":       conv.Files,
		"active_file": conv.ActiveFile,
	})
	if err != nil {
		return nil, apperr.NewPersistenceFailed(err)
	}
	if s.workspace.ConversationID() == id {
		s.workspace.Hydrate(conv)
	}
	return conv, nil
}

func (s *conversationService) AddFile(id, name string) error {
	if err := s.ensureSelected(id); err != nil {
		return err
	}
	if err := s.workspace.Files().Add(name); err != nil {
		return err
	}
	return s.persistFiles(id)
}

func (s *conversationService) DeleteFile(id, name string) error {
	if err := s.ensureSelected(id); err != nil {
		return err
	}
	if err := s.workspace.Files().Delete(name); err != nil {
		return err
	}
	return s.persistFiles(id)
}

func (s *conversationService) SelectFile(id, name string) error {
	if err := s.ensureSelected(id); err != nil {
		return err
	}
	if err := s.workspace.Files().Select(name); err != nil {
		return err
	}
	return s.persistFiles(id)
}

// WriteFile replaces a file's contents from the editor and persists the file
// map. Primary-file edits arm the workspace capture debouncer.
func (s *conversationService) WriteFile(id, name, content string) error {
	if err := s.ensureSelected(id); err != nil {
		return err
	}
	if err := s.workspace.WriteFile(name, content); err != nil {
		return err
	}
	return s.persistFiles(id)
}

func (s *conversationService) ensureSelected(id string) error {
	if s.workspace.ConversationID() == id {
		return nil
	}
	_, err := s.Select(id)
	return err
}

func (s *conversationService) persistFiles(id string) error {
	files := s.workspace.Files().Snapshot()
	err := s.repo.UpdateFields(s.ctx, id, map[string]interface{}{
		"files":       datatypes.NewJSONType(files),
		"active_file": s.workspace.Files().Active(),
	})
	if err != nil {
		return apperr.NewPersistenceFailed(err)
	}
	return nil
}

// persistVersions is the workspace capture hook.
func (s *conversationService) persistVersions(conversationID string, versions []models.Version) {
	_ = s.repo.UpdateFields(s.ctx, conversationID, map[string]interface{}{
		"versions": datatypes.NewJSONSlice(versions),
	})
}
