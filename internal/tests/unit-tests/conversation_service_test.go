package unit_tests

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"sitesmith/internal/apperr"
	"sitesmith/internal/models"
	"sitesmith/internal/services"
	"sitesmith/internal/tests/mocks"
)

func TestConversationService_Create_SeedsPersonaAndPrimaryFile(t *testing.T) {
	var created *models.Conversation
	repo := &mocks.ConversationRepositoryMock{
		CreateFunc: func(ctx context.Context, conv *models.Conversation) error {
			created = conv
			return nil
		},
	}
	svc := services.NewConversationService(repo)

	conv, err := svc.Create("My Site")

	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, "My Site", conv.Name)
	assert.NotEmpty(t, conv.ID)

	msgs := []models.Message(conv.Messages)
	require.Len(t, msgs, 1)
	assert.Equal(t, models.RoleSystem, msgs[0].Role)
	assert.NotEmpty(t, msgs[0].Content)

	files := conv.FileMap()
	assert.Equal(t, map[string]string{models.PrimaryFile: ""}, files)
	assert.Equal(t, models.PrimaryFile, conv.ActiveFile)

	assert.Equal(t, conv.ID, svc.Workspace().ConversationID())
}

func TestConversationService_Create_DefaultsName(t *testing.T) {
	repo := &mocks.ConversationRepositoryMock{}
	svc := services.NewConversationService(repo)

	conv, err := svc.Create("  ")

	require.NoError(t, err)
	assert.Contains(t, conv.Name, "Chat ")
}

func TestConversationService_Select_HydratesWorkspace(t *testing.T) {
	stored := &models.Conversation{
		ID:         "conv-9",
		Name:       "Stored",
		ActiveFile: "about.html",
		Versions:   datatypes.NewJSONSlice([]models.Version{{ID: 3, Code: "<h1>v</h1>"}}),
	}
	stored.SetFiles(map[string]string{
		models.PrimaryFile: "<h1>home</h1>",
		"about.html":       "<p>about</p>",
	})
	repo := &mocks.ConversationRepositoryMock{
		GetFunc: func(ctx context.Context, id string) (*models.Conversation, error) {
			if id == "conv-9" {
				return stored, nil
			}
			return nil, nil
		},
	}
	svc := services.NewConversationService(repo)

	_, err := svc.Select("conv-9")

	require.NoError(t, err)
	ws := svc.Workspace()
	assert.Equal(t, "conv-9", ws.ConversationID())
	assert.Equal(t, "about.html", ws.Files().Active())
	assert.Len(t, ws.Versions(), 1)
}

func TestConversationService_Select_Unknown(t *testing.T) {
	svc := services.NewConversationService(&mocks.ConversationRepositoryMock{})

	_, err := svc.Select("ghost")

	assert.True(t, apperr.Is(err, apperr.CodeNotFound))
}

func TestConversationService_Rename_EmptyNameCancels(t *testing.T) {
	stored := &models.Conversation{ID: "conv-1", Name: "Old"}
	renamed := map[string]interface{}{}
	repo := &mocks.ConversationRepositoryMock{
		GetFunc: func(ctx context.Context, id string) (*models.Conversation, error) {
			return stored, nil
		},
		UpdateFieldsFunc: func(ctx context.Context, id string, u map[string]interface{}) error {
			renamed = u
			return nil
		},
	}
	svc := services.NewConversationService(repo)

	// An all-whitespace name cancels the rename.
	conv, err := svc.Rename("conv-1", " ")
	require.NoError(t, err)
	assert.Equal(t, "Old", conv.Name)
	assert.Empty(t, renamed)

	conv, err = svc.Rename("conv-1", "New Name")
	require.NoError(t, err)
	assert.Equal(t, "New Name", conv.Name)
	assert.Equal(t, "New Name", renamed["name"])
}

func TestConversationService_Rename_SameNameIsNoop(t *testing.T) {
	stored := &models.Conversation{ID: "conv-1", Name: "Same"}
	called := false
	repo := &mocks.ConversationRepositoryMock{
		GetFunc: func(ctx context.Context, id string) (*models.Conversation, error) {
			return stored, nil
		},
		UpdateFieldsFunc: func(ctx context.Context, id string, u map[string]interface{}) error {
			called = true
			return nil
		},
	}
	svc := services.NewConversationService(repo)

	_, err := svc.Rename("conv-1", "Same")

	require.NoError(t, err)
	assert.False(t, called)
}

func TestConversationService_Delete_ReselectsSurvivor(t *testing.T) {
	first := &models.Conversation{ID: "conv-1", Name: "First"}
	second := &models.Conversation{ID: "conv-2", Name: "Second"}
	second.SetFiles(map[string]string{models.PrimaryFile: "<h1>two</h1>"})
	deleted := ""
	repo := &mocks.ConversationRepositoryMock{
		GetFunc: func(ctx context.Context, id string) (*models.Conversation, error) {
			switch id {
			case "conv-1":
				if deleted == "conv-1" {
					return nil, nil
				}
				return first, nil
			case "conv-2":
				return second, nil
			}
			return nil, nil
		},
		DeleteFunc: func(ctx context.Context, id string) error {
			deleted = id
			return nil
		},
		ListFunc: func(ctx context.Context) ([]models.Conversation, error) {
			if deleted == "conv-1" {
				return []models.Conversation{*second}, nil
			}
			return []models.Conversation{*first, *second}, nil
		},
	}
	svc := services.NewConversationService(repo)
	_, err := svc.Select("conv-1")
	require.NoError(t, err)

	selected, err := svc.Delete("conv-1")

	require.NoError(t, err)
	assert.Equal(t, "conv-2", selected.ID)
	assert.Equal(t, "conv-2", svc.Workspace().ConversationID())
}

func TestConversationService_Delete_LastCreatesFresh(t *testing.T) {
	only := &models.Conversation{ID: "conv-1", Name: "Only"}
	deleted := false
	repo := &mocks.ConversationRepositoryMock{
		GetFunc: func(ctx context.Context, id string) (*models.Conversation, error) {
			if id == "conv-1" && !deleted {
				return only, nil
			}
			return nil, nil
		},
		DeleteFunc: func(ctx context.Context, id string) error {
			deleted = true
			return nil
		},
	}
	svc := services.NewConversationService(repo)
	_, err := svc.Select("conv-1")
	require.NoError(t, err)

	selected, err := svc.Delete("conv-1")

	require.NoError(t, err)
	assert.NotEqual(t, "conv-1", selected.ID)
	assert.Equal(t, selected.ID, svc.Workspace().ConversationID())
}

func TestConversationService_ClearChat_ResetsTranscriptAndFiles(t *testing.T) {
	stored := &models.Conversation{
		ID: "conv-1",
		Messages: datatypes.NewJSONSlice([]models.Message{
			{Role: models.RoleSystem, Content: "persona"},
			{Role: models.RoleUser, Content: "build"},
			{Role: models.RoleAssistant, Content: "done"},
		}),
		ActiveFile: "about.html",
	}
	stored.SetFiles(map[string]string{models.PrimaryFile: "<h1>x</h1>", "about.html": "y"})
	var persisted map[string]interface{}
	repo := &mocks.ConversationRepositoryMock{
		GetFunc: func(ctx context.Context, id string) (*models.Conversation, error) {
			return stored, nil
		},
		UpdateFieldsFunc: func(ctx context.Context, id string, u map[string]interface{}) error {
			persisted = u
			return nil
		},
	}
	svc := services.NewConversationService(repo)
	_, err := svc.Select("conv-1")
	require.NoError(t, err)

	conv, err := svc.ClearChat("conv-1")

	require.NoError(t, err)
	msgs := []models.Message(conv.Messages)
	require.Len(t, msgs, 1)
	assert.Equal(t, models.RoleSystem, msgs[0].Role)
	assert.Equal(t, map[string]string{models.PrimaryFile: ""}, conv.FileMap())
	assert.Equal(t, models.PrimaryFile, conv.ActiveFile)
	assert.Contains(t, persisted, "messages")
	assert.Contains(t, persisted, "files")

	content, err := svc.Workspace().Files().Read(models.PrimaryFile)
	require.NoError(t, err)
	assert.Equal(t, "", content)
}

func TestConversationService_AddFile_PersistsSelection(t *testing.T) {
	stored := &models.Conversation{ID: "conv-1"}
	stored.SetFiles(map[string]string{models.PrimaryFile: "<h1>x</h1>"})
	var persisted map[string]interface{}
	repo := &mocks.ConversationRepositoryMock{
		GetFunc: func(ctx context.Context, id string) (*models.Conversation, error) {
			return stored, nil
		},
		UpdateFieldsFunc: func(ctx context.Context, id string, u map[string]interface{}) error {
			persisted = u
			return nil
		},
	}
	svc := services.NewConversationService(repo)
	_, err := svc.Select("conv-1")
	require.NoError(t, err)

	require.NoError(t, svc.AddFile("conv-1", "style.css"))

	assert.Equal(t, "style.css", svc.Workspace().Files().Active())
	assert.Equal(t, "style.css", persisted["active_file"])

	err = svc.AddFile("conv-1", "style.css")
	assert.True(t, apperr.Is(err, apperr.CodeDuplicateName))
}

func TestConversationService_WriteFile_PersistsContent(t *testing.T) {
	stored := &models.Conversation{ID: "conv-1"}
	stored.SetFiles(map[string]string{models.PrimaryFile: "<h1>old</h1>"})
	var persisted map[string]interface{}
	repo := &mocks.ConversationRepositoryMock{
		GetFunc: func(ctx context.Context, id string) (*models.Conversation, error) {
			return stored, nil
		},
		UpdateFieldsFunc: func(ctx context.Context, id string, u map[string]interface{}) error {
			persisted = u
			return nil
		},
	}
	svc := services.NewConversationService(repo)
	_, err := svc.Select("conv-1")
	require.NoError(t, err)

	require.NoError(t, svc.WriteFile("conv-1", models.PrimaryFile, "<h1>edited</h1>"))

	content, err := svc.Workspace().Files().Read(models.PrimaryFile)
	require.NoError(t, err)
	assert.Equal(t, "<h1>edited</h1>", content)
	assert.Contains(t, persisted, "files")

	err = svc.WriteFile("conv-1", "ghost.html", "x")
	assert.True(t, apperr.Is(err, apperr.CodeNotFound))
}

func TestConversationService_DeleteFile_LastRefused(t *testing.T) {
	stored := &models.Conversation{ID: "conv-1"}
	stored.SetFiles(map[string]string{models.PrimaryFile: ""})
	repo := &mocks.ConversationRepositoryMock{
		GetFunc: func(ctx context.Context, id string) (*models.Conversation, error) {
			return stored, nil
		},
	}
	svc := services.NewConversationService(repo)
	_, err := svc.Select("conv-1")
	require.NoError(t, err)

	err = svc.DeleteFile("conv-1", models.PrimaryFile)

	assert.True(t, apperr.Is(err, apperr.CodeLastFile))
}

func TestConversationService_Startup_CreatesWhenEmpty(t *testing.T) {
	created := false
	repo := &mocks.ConversationRepositoryMock{
		ListFunc: func(ctx context.Context) ([]models.Conversation, error) {
			return nil, nil
		},
		CreateFunc: func(ctx context.Context, conv *models.Conversation) error {
			created = true
			return nil
		},
	}
	svc := services.NewConversationService(repo)

	require.NoError(t, svc.Startup(context.Background()))
	assert.True(t, created)
	assert.NotEmpty(t, svc.Workspace().ConversationID())
}
