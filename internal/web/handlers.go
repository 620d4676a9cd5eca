package web

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"sitesmith/internal/apperr"
	"sitesmith/internal/events"
	"sitesmith/internal/llm/client"
	"sitesmith/internal/models"
	"sitesmith/internal/panels"
	"sitesmith/internal/preview"
	"sitesmith/internal/sandbox"
	"sitesmith/internal/services"
)

// ImageGenerator produces an image data URL from a text prompt.
type ImageGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Handlers holds dependencies for the HTTP surface.
type Handlers struct {
	svc         *services.DbServices
	detector    *sandbox.Detector
	publisher   *preview.Publisher
	broadcaster *events.Broadcaster
	imageGen    ImageGenerator
	panels      *panels.Service
}

type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	var body errorBody
	status := http.StatusInternalServerError
	body.Error.Code = string(apperr.CodeInternal)
	body.Error.Message = err.Error()
	if e := apperr.From(err); e != nil {
		status = e.Status
		body.Error.Code = string(e.Code)
		body.Error.Message = e.Message
	}
	writeJSON(w, status, body)
}

func decodeBody(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return apperr.NewInvalidRequest("request body is required")
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperr.NewInvalidRequest("invalid JSON body: " + err.Error())
	}
	return nil
}

// ensureSelected hydrates the workspace with the requested conversation when
// a different one is selected.
func (h *Handlers) ensureSelected(id string) error {
	if h.svc.Conversations.Workspace().ConversationID() == id {
		return nil
	}
	_, err := h.svc.Conversations.Select(id)
	return err
}

// --- conversations ---

func (h *Handlers) HandleListConversations(w http.ResponseWriter, r *http.Request) {
	convs, err := h.svc.Conversations.List()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"conversations": convs,
		"selected":      h.svc.Conversations.Workspace().ConversationID(),
	})
}

func (h *Handlers) HandleCreateConversation(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, err)
		return
	}
	conv, err := h.svc.Conversations.Create(body.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, conv)
}

func (h *Handlers) HandleGetConversation(w http.ResponseWriter, r *http.Request) {
	conv, err := h.svc.Conversations.Get(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, conv)
}

func (h *Handlers) HandleRenameConversation(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, err)
		return
	}
	conv, err := h.svc.Conversations.Rename(r.PathValue("id"), body.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, conv)
}

func (h *Handlers) HandleDeleteConversation(w http.ResponseWriter, r *http.Request) {
	selected, err := h.svc.Conversations.Delete(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"selected": selected})
}

func (h *Handlers) HandleSelectConversation(w http.ResponseWriter, r *http.Request) {
	conv, err := h.svc.Conversations.Select(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, conv)
}

func (h *Handlers) HandleClearChat(w http.ResponseWriter, r *http.Request) {
	conv, err := h.svc.Conversations.ClearChat(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, conv)
}

// --- generation ---

func (h *Handlers) HandleSendMessage(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Content string `json:"content"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, err)
		return
	}
	result, err := h.svc.Generation.Generate(r.Context(), r.PathValue("id"), body.Content)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// --- files ---

func (h *Handlers) HandleAddFile(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, err)
		return
	}
	id := r.PathValue("id")
	if err := h.svc.Conversations.AddFile(id, body.Name); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, h.fileState())
}

func (h *Handlers) HandleWriteFile(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Content string `json:"content"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, err)
		return
	}
	if err := h.svc.Conversations.WriteFile(r.PathValue("id"), r.PathValue("name"), body.Content); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.fileState())
}

func (h *Handlers) HandleDeleteFile(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Conversations.DeleteFile(r.PathValue("id"), r.PathValue("name")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.fileState())
}

func (h *Handlers) HandleSelectFile(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Conversations.SelectFile(r.PathValue("id"), r.PathValue("name")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.fileState())
}

func (h *Handlers) fileState() map[string]interface{} {
	files := h.svc.Conversations.Workspace().Files()
	return map[string]interface{}{
		"files":  files.Names(),
		"active": files.Active(),
	}
}

// --- versions ---

func (h *Handlers) HandleListVersions(w http.ResponseWriter, r *http.Request) {
	if err := h.ensureSelected(r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	versions := h.svc.Conversations.Workspace().Versions()
	writeJSON(w, http.StatusOK, map[string]interface{}{"versions": versions})
}

func versionID(r *http.Request) (int64, error) {
	vid, err := strconv.ParseInt(r.PathValue("vid"), 10, 64)
	if err != nil {
		return 0, apperr.NewInvalidRequest("version id must be an integer")
	}
	return vid, nil
}

func (h *Handlers) HandleRestoreVersion(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.ensureSelected(id); err != nil {
		writeError(w, err)
		return
	}
	vid, err := versionID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	v, err := h.svc.Conversations.Workspace().Restore(vid)
	if err != nil {
		writeError(w, err)
		return
	}
	// The restored code replaces the primary file; persist the file set and
	// move selection back to it.
	if err := h.svc.Conversations.SelectFile(id, models.PrimaryFile); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (h *Handlers) HandleDeleteVersion(w http.ResponseWriter, r *http.Request) {
	if err := h.ensureSelected(r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	vid, err := versionID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.svc.Conversations.Workspace().DeleteVersion(vid); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- export, check, publish ---

func (h *Handlers) HandleExport(w http.ResponseWriter, r *http.Request) {
	if err := h.ensureSelected(r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	data, err := preview.Archive(h.svc.Conversations.Workspace().Files().Snapshot())
	if err != nil {
		writeError(w, apperr.NewInternal(err))
		return
	}
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", `attachment; filename="`+preview.ArchiveName+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (h *Handlers) HandleCheck(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.ensureSelected(id); err != nil {
		writeError(w, err)
		return
	}
	code, err := h.svc.Conversations.Workspace().Files().Read(models.PrimaryFile)
	if err != nil {
		writeError(w, err)
		return
	}
	result := h.detector.Inspect(r.Context(), code)
	if result == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	ctx := events.WithConversation(r.Context(), id)
	events.Emit(ctx, events.DetectorAlert, events.NewError(result.Message))
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": result.Message,
		"fix":     client.FixPrompt(result.Message),
	})
}

func (h *Handlers) HandlePublish(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Dir     string `json:"dir"`
		Message string `json:"message"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, err)
		return
	}
	if body.Dir == "" {
		writeError(w, apperr.NewInvalidRequest("dir is required"))
		return
	}
	if err := h.ensureSelected(r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	hash, err := h.publisher.Publish(body.Dir, h.svc.Conversations.Workspace().Files().Snapshot(), body.Message)
	if err != nil {
		writeError(w, apperr.NewInternal(err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"commit": hash})
}

// --- preview ---

func (h *Handlers) HandlePreview(w http.ResponseWriter, r *http.Request) {
	if err := h.ensureSelected(r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	code, err := h.svc.Conversations.Workspace().Files().Read(models.PrimaryFile)
	if err != nil {
		writeError(w, err)
		return
	}
	// Scripts run, but the document cannot navigate the host page or reach
	// host storage.
	w.Header().Set("Content-Security-Policy", "sandbox allow-scripts")
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(preview.WrapDocument(code)))
}

func (h *Handlers) HandleStandalone(w http.ResponseWriter, r *http.Request) {
	if err := h.ensureSelected(r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	code, err := h.svc.Conversations.Workspace().Files().Read(models.PrimaryFile)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(preview.StandaloneDocument(code)))
}

func (h *Handlers) HandleDevicePresets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"devices": preview.DevicePresets()})
}

// --- panels ---

func (h *Handlers) HandlePanel(w http.ResponseWriter, r *http.Request) {
	var req panels.Request
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Code == "" {
		// Default to the selected conversation's primary file.
		if code, err := h.svc.Conversations.Workspace().Files().Read(models.PrimaryFile); err == nil {
			req.Code = code
		}
	}
	outcome, err := h.panels.Run(r.Context(), r.PathValue("name"), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, outcome)
}

// --- templates, quick actions, snippets ---

func (h *Handlers) HandleListTemplates(w http.ResponseWriter, r *http.Request) {
	templates, err := h.svc.Templates.ListTemplates()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"templates": templates})
}

func (h *Handlers) HandleListQuickActions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"quickActions": services.QuickActions()})
}

func (h *Handlers) HandleRunQuickAction(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ConversationID string `json:"conversationId"`
		Label          string `json:"label"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, err)
		return
	}
	var action *services.QuickAction
	for _, a := range services.QuickActions() {
		if a.Label == body.Label {
			action = &a
			break
		}
	}
	if action == nil {
		writeError(w, apperr.NewNotFound("quick action", body.Label))
		return
	}
	if err := h.ensureSelected(body.ConversationID); err != nil {
		writeError(w, err)
		return
	}
	code, err := h.svc.Conversations.Workspace().Files().Read(models.PrimaryFile)
	if err != nil {
		writeError(w, err)
		return
	}
	if code == "" {
		writeError(w, apperr.NewInvalidRequest("quick actions need existing code; generate a website first"))
		return
	}
	result, err := h.svc.Generation.Generate(r.Context(), body.ConversationID, action.Prompt)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handlers) HandleListSnippets(w http.ResponseWriter, r *http.Request) {
	snippets, err := h.svc.Snippets.List()
	if err != nil {
		writeError(w, apperr.NewInternal(err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"snippets": snippets})
}

func (h *Handlers) HandleInsertSnippet(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ConversationID string `json:"conversationId"`
		Name           string `json:"name"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, err)
		return
	}
	snippets, err := h.svc.Snippets.List()
	if err != nil {
		writeError(w, apperr.NewInternal(err))
		return
	}
	var snippet *services.Snippet
	for _, s := range snippets {
		if s.Name == body.Name {
			snippet = &s
			break
		}
	}
	if snippet == nil {
		writeError(w, apperr.NewNotFound("snippet", body.Name))
		return
	}
	instruction := h.svc.Snippets.InsertInstruction(*snippet)
	result, err := h.svc.Generation.Generate(r.Context(), body.ConversationID, instruction)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// --- images ---

func (h *Handlers) HandleGenerateImage(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Prompt string `json:"prompt"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, err)
		return
	}
	if body.Prompt == "" {
		writeError(w, apperr.NewInvalidRequest("prompt is required"))
		return
	}
	if h.imageGen == nil {
		writeError(w, apperr.NewInvocationFailed(nil))
		return
	}
	dataURL, err := h.imageGen.Generate(r.Context(), body.Prompt)
	if err != nil {
		writeError(w, apperr.NewInvocationFailed(err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"image": dataURL})
}

// --- models and settings ---

func (h *Handlers) HandleListModels(w http.ResponseWriter, r *http.Request) {
	groups, err := h.svc.Models.ListModelGroups()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"providers": groups})
}

func (h *Handlers) HandleGetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.svc.AppSettings.Get()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"settings":       settings,
		"keyedProviders": h.svc.Keyring.ListProviders(),
	})
}

func (h *Handlers) HandleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Theme           string            `json:"theme"`
		Locale          string            `json:"locale"`
		DefaultModelKey string            `json:"defaultModelKey"`
		APIKeys         map[string]string `json:"apiKeys"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, err)
		return
	}
	for provider, key := range body.APIKeys {
		var err error
		if key == "" {
			err = h.svc.Keyring.DeleteAPIKey(provider)
		} else {
			err = h.svc.Keyring.StoreAPIKey(provider, key)
		}
		if err != nil {
			writeError(w, apperr.NewInternal(err))
			return
		}
	}
	settings, err := h.svc.AppSettings.Update(body.Theme, body.Locale, body.DefaultModelKey)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

// --- events ---

// HandleEvents streams build and detector events over SSE.
func (h *Handlers) HandleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, apperr.NewInternal(nil))
		return
	}
	ch, unsubscribe := h.broadcaster.Subscribe()
	defer unsubscribe()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case env, open := <-ch:
			if !open {
				return
			}
			data, err := json.Marshal(env.Event)
			if err != nil {
				continue
			}
			_, _ = w.Write([]byte("event: " + env.Name + "\ndata: " + string(data) + "\n\n"))
			flusher.Flush()
		}
	}
}
