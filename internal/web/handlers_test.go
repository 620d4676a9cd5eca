package web

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"sitesmith/internal/events"
	"sitesmith/internal/models"
	"sitesmith/internal/services"
	"sitesmith/internal/tests/mocks"
)

type fakeImageGen struct {
	result string
	err    error
}

func (f *fakeImageGen) Generate(ctx context.Context, prompt string) (string, error) {
	return f.result, f.err
}

type testEnv struct {
	handler     http.Handler
	repo        *mocks.ConversationRepositoryMock
	invoker     *mocks.InvokerMock
	broadcaster *events.Broadcaster
	stored      *models.Conversation
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	stored := &models.Conversation{
		ID:   "conv-1",
		Name: "Site",
		Messages: datatypes.NewJSONSlice([]models.Message{
			{Role: models.RoleSystem, Content: "persona"},
		}),
		ActiveFile: models.PrimaryFile,
	}
	stored.SetFiles(map[string]string{models.PrimaryFile: "<h1>hello</h1>"})

	repo := &mocks.ConversationRepositoryMock{
		ListFunc: func(ctx context.Context) ([]models.Conversation, error) {
			return []models.Conversation{*stored}, nil
		},
		GetFunc: func(ctx context.Context, id string) (*models.Conversation, error) {
			if id == stored.ID {
				return stored, nil
			}
			return nil, nil
		},
	}

	invoker := &mocks.InvokerMock{
		InvokeFunc: func(ctx context.Context, prompt string) (string, error) {
			return "```html\n<h1>built</h1>\n```", nil
		},
	}
	factory := func(ctx context.Context) (services.Invoker, error) {
		return invoker, nil
	}

	catalog := services.NewModelCatalogService()
	require.NoError(t, catalog.Startup(context.Background()))
	conversations := services.NewConversationService(repo)

	svc := &services.DbServices{
		Conversations: conversations,
		Generation:    services.NewGenerationService(repo, conversations.Workspace(), factory),
		Templates:     services.NewTemplateService(&mocks.TemplateRepositoryMock{}),
		AppSettings:   services.NewAppSettingsService(&mocks.AppSettingsRepositoryMock{}, catalog),
		Models:        catalog,
		Keyring:       services.NewKeyringService(),
		Snippets:      services.NewSnippetService(""),
		Factory:       factory,
	}

	broadcaster := events.NewBroadcaster()
	srv := NewServer(svc, broadcaster, &fakeImageGen{result: "data:image/png;base64,abc"}, "127.0.0.1:0")

	return &testEnv{
		handler:     srv.Handler,
		repo:        repo,
		invoker:     invoker,
		broadcaster: broadcaster,
		stored:      stored,
	}
}

func (e *testEnv) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}

func TestHandleListConversations(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, "GET", "/api/conversations", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Conversations []models.Conversation `json:"conversations"`
	}
	decodeJSON(t, rec, &body)
	require.Len(t, body.Conversations, 1)
	assert.Equal(t, "conv-1", body.Conversations[0].ID)
}

func TestHandleCreateConversation(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, "POST", "/api/conversations", `{"name":"New Site"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	var conv models.Conversation
	decodeJSON(t, rec, &conv)
	assert.Equal(t, "New Site", conv.Name)
	assert.NotEmpty(t, conv.ID)
}

func TestHandleGetConversation_NotFound(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, "GET", "/api/conversations/ghost", "")

	require.Equal(t, http.StatusNotFound, rec.Code)
	var body errorBody
	decodeJSON(t, rec, &body)
	assert.Equal(t, "NOT_FOUND", body.Error.Code)
	assert.Contains(t, body.Error.Message, "ghost")
}

func TestHandleSendMessage_BuildsAndStripsFences(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, "POST", "/api/conversations/conv-1/messages", `{"content":"build a landing page"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var result services.GenerationResult
	decodeJSON(t, rec, &result)
	assert.Equal(t, "<h1>built</h1>", result.Code)
	assert.Equal(t, models.RoleAssistant, result.Reply.Role)
	require.Len(t, env.invoker.Prompts, 1)
	assert.Contains(t, env.invoker.Prompts[0], "USER: build a landing page")
}

func TestHandleSendMessage_EmptyContent(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, "POST", "/api/conversations/conv-1/messages", `{"content":"  "}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var body errorBody
	decodeJSON(t, rec, &body)
	assert.Equal(t, "INVALID_REQUEST", body.Error.Code)
}

func TestHandleAddFile_DuplicateConflicts(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, "POST", "/api/conversations/conv-1/files", `{"name":"about.html"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var state struct {
		Files  []string `json:"files"`
		Active string   `json:"active"`
	}
	decodeJSON(t, rec, &state)
	assert.Contains(t, state.Files, "about.html")
	assert.Equal(t, "about.html", state.Active)

	rec = env.do(t, "POST", "/api/conversations/conv-1/files", `{"name":"about.html"}`)
	require.Equal(t, http.StatusConflict, rec.Code)
	var body errorBody
	decodeJSON(t, rec, &body)
	assert.Equal(t, "DUPLICATE_NAME", body.Error.Code)
}

func TestHandleWriteFile_ReplacesContent(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, "PUT", "/api/conversations/conv-1/files/index.html", `{"content":"<h1>edited</h1>"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, "GET", "/preview/conv-1/standalone", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<h1>edited</h1>")
}

func TestHandleWriteFile_UnknownName(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, "PUT", "/api/conversations/conv-1/files/ghost.html", `{"content":"x"}`)

	require.Equal(t, http.StatusNotFound, rec.Code)
	var body errorBody
	decodeJSON(t, rec, &body)
	assert.Equal(t, "NOT_FOUND", body.Error.Code)
}

func TestHandleDeleteFile_LastRefused(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, "DELETE", "/api/conversations/conv-1/files/index.html", "")

	require.Equal(t, http.StatusConflict, rec.Code)
	var body errorBody
	decodeJSON(t, rec, &body)
	assert.Equal(t, "LAST_FILE", body.Error.Code)
}

func TestHandleVersions_RestoreRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	env.stored.Versions = datatypes.NewJSONSlice([]models.Version{
		{ID: 7, Code: "<h1>older</h1>", Description: "first cut"},
	})

	rec := env.do(t, "GET", "/api/conversations/conv-1/versions", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var listing struct {
		Versions []models.Version `json:"versions"`
	}
	decodeJSON(t, rec, &listing)
	require.Len(t, listing.Versions, 1)

	rec = env.do(t, "POST", "/api/conversations/conv-1/versions/7/restore", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var restored models.Version
	decodeJSON(t, rec, &restored)
	assert.Equal(t, int64(7), restored.ID)

	rec = env.do(t, "GET", "/preview/conv-1", "")
	assert.Contains(t, rec.Body.String(), "<h1>older</h1>")
}

func TestHandleVersions_DeleteUnknown(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, "DELETE", "/api/conversations/conv-1/versions/99", "")

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleExport_ZipAttachment(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, "GET", "/api/conversations/conv-1/export", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/zip", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "website-project.zip")
	// Zip local file header magic.
	assert.True(t, strings.HasPrefix(rec.Body.String(), "PK"))
}

func TestHandlePreview_SandboxedDocument(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, "GET", "/preview/conv-1", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "sandbox allow-scripts", rec.Header().Get("Content-Security-Policy"))
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "<h1>hello</h1>")
	assert.Contains(t, rec.Body.String(), "<!DOCTYPE html>")
}

func TestHandleStandalone_CompleteDocument(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, "GET", "/preview/conv-1/standalone", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `<html lang="en">`)
	assert.Contains(t, rec.Body.String(), "<h1>hello</h1>")
}

func TestHandleCheck_CleanCode(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, "GET", "/api/conversations/conv-1/check", "")

	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestHandleCheck_ReportsFaultWithFix(t *testing.T) {
	env := newTestEnv(t)
	env.stored.SetFiles(map[string]string{
		models.PrimaryFile: "<html><script>throw new Error('broken thing');</script></html>",
	})

	rec := env.do(t, "GET", "/api/conversations/conv-1/check", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Message string `json:"message"`
		Fix     string `json:"fix"`
	}
	decodeJSON(t, rec, &body)
	assert.Contains(t, body.Message, "broken thing")
	assert.Contains(t, body.Fix, "Please fix this error")
}

func TestHandlePanel_UnknownName(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, "POST", "/api/panels/ghost", `{}`)

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandlePanel_DefaultsToPrimaryFile(t *testing.T) {
	env := newTestEnv(t)
	env.invoker.InvokeFunc = func(ctx context.Context, prompt string) (string, error) {
		return "This page shows a greeting.", nil
	}
	// Hydrate the workspace first.
	env.do(t, "POST", "/api/conversations/conv-1/select", "")

	rec := env.do(t, "POST", "/api/panels/explain", `{}`)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, env.invoker.Prompts)
	assert.Contains(t, env.invoker.Prompts[len(env.invoker.Prompts)-1], "<h1>hello</h1>")
	var outcome struct {
		Markdown string `json:"markdown"`
	}
	decodeJSON(t, rec, &outcome)
	assert.Contains(t, outcome.Markdown, "greeting")
}

func TestHandleQuickActions_ListAndEmptyCodeRejected(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, "GET", "/api/quick-actions", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var listing struct {
		QuickActions []services.QuickAction `json:"quickActions"`
	}
	decodeJSON(t, rec, &listing)
	require.Len(t, listing.QuickActions, 4)

	env.stored.SetFiles(map[string]string{models.PrimaryFile: ""})
	rec = env.do(t, "POST", "/api/quick-actions", `{"conversationId":"conv-1","label":"AI Enhance"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	var body errorBody
	decodeJSON(t, rec, &body)
	assert.Equal(t, "INVALID_REQUEST", body.Error.Code)
}

func TestHandleQuickActions_RunsPreset(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, "POST", "/api/quick-actions", `{"conversationId":"conv-1","label":"New Theme"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, env.invoker.Prompts)
	assert.Contains(t, env.invoker.Prompts[0], "new modern color theme")
}

func TestHandleSnippets_InsertTriggersGeneration(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, "GET", "/api/snippets", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, "POST", "/api/snippets/insert", `{"conversationId":"conv-1","name":"Hero Section"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, env.invoker.Prompts)
	assert.Contains(t, env.invoker.Prompts[0], "Insert this Hero Section snippet")
}

func TestHandleGenerateImage(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, "POST", "/api/images", `{"prompt":"a sunset"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Image string `json:"image"`
	}
	decodeJSON(t, rec, &body)
	assert.Equal(t, "data:image/png;base64,abc", body.Image)

	rec = env.do(t, "POST", "/api/images", `{"prompt":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleListModels(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, "GET", "/api/models", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Providers []models.LLMModelGroup `json:"providers"`
	}
	decodeJSON(t, rec, &body)
	require.Len(t, body.Providers, 3)
}

func TestHandleUpdateSettings_InvalidTheme(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, "PUT", "/api/settings", `{"theme":"neon","locale":"en"}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleDevicePresets(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, "GET", "/api/preview/devices", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "desktop")
	assert.Contains(t, rec.Body.String(), "mobile")
}

func TestHandleEvents_StreamsPublishedEvents(t *testing.T) {
	env := newTestEnv(t)
	srv := httptest.NewServer(env.handler)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, "GET", srv.URL+"/api/events", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/event-stream")

	// Give the handler a moment to subscribe before publishing.
	time.Sleep(50 * time.Millisecond)
	env.broadcaster.Publish(events.BuildStatus, events.NewInfo("generating"))

	reader := bufio.NewReader(resp.Body)
	var eventLine, dataLine string
	for {
		line, err := reader.ReadString('\n')
		require.NoError(t, err)
		line = strings.TrimRight(line, "\n")
		if strings.HasPrefix(line, "event: ") {
			eventLine = line
		}
		if strings.HasPrefix(line, "data: ") {
			dataLine = line
			break
		}
	}
	assert.Equal(t, "event: "+events.BuildStatus, eventLine)
	assert.Contains(t, dataLine, "generating")
}
