package services

import (
	"context"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"gorm.io/datatypes"

	"sitesmith/internal/apperr"
	"sitesmith/internal/builder"
	"sitesmith/internal/events"
	"sitesmith/internal/llm/client"
	"sitesmith/internal/models"
	"sitesmith/internal/repositories"
)

// SuccessMessage is the assistant reply recorded after a generation lands.
const SuccessMessage = "I've generated your website! Check the Preview tab to see it live. Let me know if you'd like any changes!"

// failureMessage is recorded when the model invocation fails.
const failureMessage = "Sorry, there was an error generating the code. Please try again."

const (
	defaultChunkSize = 50
	defaultChunkStep = 10 * time.Millisecond
	descriptionLimit = 100
)

// Invoker sends one prompt and returns the full model reply.
type Invoker interface {
	Invoke(ctx context.Context, prompt string) (string, error)
}

// InvokerFactory resolves the configured model and credentials into a ready
// invoker. Resolved per generation so settings changes apply immediately.
type InvokerFactory func(ctx context.Context) (Invoker, error)

// GenerationResult is a completed build turn.
type GenerationResult struct {
	Reply models.Message `json:"reply"`
	Code  string         `json:"code"`
}

type GenerationService interface {
	Startup(ctx context.Context)
	Generate(ctx context.Context, conversationID, content string) (*GenerationResult, error)
}

type generationService struct {
	repo      repositories.ConversationRepository
	workspace *builder.Workspace
	factory   InvokerFactory

	chunkSize int
	chunkStep time.Duration

	mu       sync.Mutex
	inFlight map[string]struct{}

	ctx context.Context
}

func NewGenerationService(repo repositories.ConversationRepository, workspace *builder.Workspace, factory InvokerFactory) GenerationService {
	return &generationService{
		repo:      repo,
		workspace: workspace,
		factory:   factory,
		chunkSize: defaultChunkSize,
		chunkStep: defaultChunkStep,
		inFlight:  make(map[string]struct{}),
		ctx:       context.Background(),
	}
}

func (s *generationService) Startup(ctx context.Context) {
	s.ctx = ctx
}

// Generate runs one build turn: record the user message, invoke the model
// with the folded conversation, stream the cleaned code into the primary
// file, then record the assistant reply and a version snapshot.
func (s *generationService) Generate(ctx context.Context, conversationID, content string) (*GenerationResult, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperr.NewInvalidRequest("message content is required")
	}

	if !s.markInFlight(conversationID) {
		return nil, apperr.NewGenerationInFlight(conversationID)
	}
	defer s.clearInFlight(conversationID)

	conv, err := s.repo.Get(ctx, conversationID)
	if err != nil {
		return nil, apperr.NewPersistenceFailed(err)
	}
	if conv == nil {
		return nil, apperr.NewNotFound("conversation", conversationID)
	}
	if s.workspace.ConversationID() != conversationID {
		s.workspace.Hydrate(conv)
	}

	ctx = events.WithConversation(ctx, conversationID)

	// The user turn is durable before the model is consulted, so a failed
	// invocation never loses what the user asked for.
	userMsg := models.Message{Role: models.RoleUser, Content: content, Timestamp: time.Now()}
	messages := append([]models.Message(conv.Messages), userMsg)
	if err := s.persistMessages(ctx, conversationID, messages); err != nil {
		return nil, err
	}

	s.workspace.SetGenerating(true)
	defer s.workspace.SetGenerating(false)

	invoker, err := s.factory(ctx)
	if err != nil {
		return nil, s.recordFailure(ctx, conversationID, messages, err)
	}

	events.Emit(ctx, events.BuildStatus, events.NewInfo("generating"))

	raw, err := invoker.Invoke(ctx, client.BuildPrompt(messages))
	if err != nil {
		return nil, s.recordFailure(ctx, conversationID, messages, err)
	}

	code := client.StripFences(raw)
	s.streamCode(ctx, code)

	reply := models.Message{Role: models.RoleAssistant, Content: SuccessMessage, Timestamp: time.Now()}
	messages = append(messages, reply)
	if err := s.persistTurn(ctx, conversationID, messages); err != nil {
		return nil, err
	}

	s.workspace.CaptureForGeneration(truncate(content, descriptionLimit))
	s.workspace.SetDescription(truncate(content, descriptionLimit))

	events.Emit(ctx, events.BuildDone, events.NewSuccess(SuccessMessage))
	return &GenerationResult{Reply: reply, Code: code}, nil
}

// streamCode reveals the code in fixed-size chunks so clients can render
// progress, then writes the full text.
func (s *generationService) streamCode(ctx context.Context, code string) {
	ends := chunkEnds(code, s.chunkSize)
	_ = builder.RunInterval(ctx, s.chunkStep, len(ends), func(i int) {
		partial := code[:ends[i]]
		_ = s.workspace.WriteFile(models.PrimaryFile, partial)
		events.Emit(ctx, events.BuildChunk, events.NewChunk(partial))
	})
	_ = s.workspace.WriteFile(models.PrimaryFile, code)
}

// chunkEnds returns the byte offset closing each chunk of size runes. Cutting
// on rune starts keeps every streamed prefix valid UTF-8.
func chunkEnds(code string, size int) []int {
	var ends []int
	count := 0
	for i := range code {
		if count > 0 && count%size == 0 {
			ends = append(ends, i)
		}
		count++
	}
	if len(code) > 0 {
		ends = append(ends, len(code))
	}
	return ends
}

func (s *generationService) recordFailure(ctx context.Context, conversationID string, messages []models.Message, cause error) error {
	notice := models.Message{Role: models.RoleAssistant, Content: failureMessage, Timestamp: time.Now()}
	_ = s.persistMessages(ctx, conversationID, append(messages, notice))
	events.Emit(ctx, events.BuildError, events.NewError(cause.Error()))
	return apperr.NewInvocationFailed(cause)
}

func (s *generationService) persistMessages(ctx context.Context, conversationID string, messages []models.Message) error {
	err := s.repo.UpdateFields(ctx, conversationID, map[string]interface{}{
		"messages": datatypes.NewJSONSlice(messages),
	})
	if err != nil {
		return apperr.NewPersistenceFailed(err)
	}
	return nil
}

// persistTurn saves the finished transcript together with the streamed files.
func (s *generationService) persistTurn(ctx context.Context, conversationID string, messages []models.Message) error {
	err := s.repo.UpdateFields(ctx, conversationID, map[string]interface{}{
		"messages":    datatypes.NewJSONSlice(messages),
		"files":       datatypes.NewJSONType(s.workspace.Files().Snapshot()),
		"active_file": models.PrimaryFile,
	})
	if err != nil {
		return apperr.NewPersistenceFailed(err)
	}
	return nil
}

func (s *generationService) markInFlight(conversationID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[conversationID]; busy {
		return false
	}
	s.inFlight[conversationID] = struct{}{}
	return true
}

func (s *generationService) clearInFlight(conversationID string) {
	s.mu.Lock()
	delete(s.inFlight, conversationID)
	s.mu.Unlock()
}

// truncate caps s at limit runes, never splitting a multi-byte character.
func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit])
}
