package client

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/claude"
	"github.com/cloudwego/eino-ext/components/model/gemini"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"google.golang.org/genai"
)

const claudeMaxTokens = 8192

// LLMClient wraps a chat model behind a single-prompt invocation surface.
// The whole conversation is folded into one prompt string by the caller, so
// provider differences stay contained here.
type LLMClient struct {
	chatModel model.BaseChatModel
	provider  string
	modelName string
}

// New builds a client for the given provider and API-level model name.
// Supported providers are "openai", "claude", and "gemini".
func New(ctx context.Context, provider, modelName, apiKey string) (*LLMClient, error) {
	provider = strings.ToLower(strings.TrimSpace(provider))
	if apiKey == "" {
		return nil, fmt.Errorf("api key for provider %s is required", provider)
	}

	var (
		chatModel model.BaseChatModel
		err       error
	)
	switch provider {
	case "openai":
		chatModel, err = openai.NewChatModel(ctx, &openai.ChatModelConfig{
			APIKey: apiKey,
			Model:  modelName,
		})
	case "claude":
		chatModel, err = claude.NewChatModel(ctx, &claude.Config{
			APIKey:    apiKey,
			Model:     modelName,
			MaxTokens: claudeMaxTokens,
		})
	case "gemini":
		var genaiClient *genai.Client
		genaiClient, err = genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  apiKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err == nil {
			chatModel, err = gemini.NewChatModel(ctx, &gemini.Config{
				Client: genaiClient,
				Model:  modelName,
			})
		}
	default:
		return nil, fmt.Errorf("unknown provider: %s", provider)
	}
	if err != nil {
		return nil, fmt.Errorf("creating %s chat model: %w", provider, err)
	}

	return &LLMClient{chatModel: chatModel, provider: provider, modelName: modelName}, nil
}

// Provider returns the provider id this client was built for.
func (c *LLMClient) Provider() string { return c.provider }

// Model returns the API-level model name.
func (c *LLMClient) Model() string { return c.modelName }

// Invoke sends one prompt and returns the full assistant reply.
func (c *LLMClient) Invoke(ctx context.Context, prompt string) (string, error) {
	msg, err := c.chatModel.Generate(ctx, []*schema.Message{schema.UserMessage(prompt)})
	if err != nil {
		return "", fmt.Errorf("%s generate: %w", c.provider, err)
	}
	if msg == nil || msg.Content == "" {
		return "", fmt.Errorf("%s generate: empty response", c.provider)
	}
	return msg.Content, nil
}
