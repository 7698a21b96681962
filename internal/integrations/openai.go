package integrations

import (
	"context"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"coinchat-backend/internal/config"
	"coinchat-backend/internal/models"
	"coinchat-backend/internal/services"
)

// OpenAIGateway wraps a single outbound call to the chat-completion API with
// fixed model parameters and a hard per-call timeout. Retry is the caller's
// responsibility.
type OpenAIGateway struct {
	client      *openai.Client
	model       string
	temperature float32
	topP        float32
	maxTokens   int
	timeout     time.Duration
}

// NewOpenAIGateway creates a gateway configured from cfg.
func NewOpenAIGateway(cfg *config.Config) *OpenAIGateway {
	return &OpenAIGateway{
		client:      openai.NewClient(cfg.OpenAIKey),
		model:       cfg.OpenAIModel,
		temperature: cfg.Temperature,
		topP:        cfg.TopP,
		maxTokens:   cfg.MaxTokens,
		timeout:     cfg.UpstreamTimeout,
	}
}

// Complete sends the full transcript upstream and returns the assistant
// reply. Timeouts, non-2xx responses and malformed bodies all surface as
// services.ErrUpstream.
func (g *OpenAIGateway) Complete(ctx context.Context, transcript []models.Message) (models.Message, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       g.model,
		Temperature: g.temperature,
		TopP:        g.topP,
		MaxTokens:   g.maxTokens,
		Messages:    toAPIMessages(transcript),
	})
	if err != nil {
		return models.Message{}, fmt.Errorf("%w: %v", services.ErrUpstream, err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return models.Message{}, fmt.Errorf("%w: empty completion response", services.ErrUpstream)
	}

	return models.Message{
		Role:    models.RoleAssistant,
		Content: resp.Choices[0].Message.Content,
	}, nil
}

func toAPIMessages(transcript []models.Message) []openai.ChatCompletionMessage {
	res := make([]openai.ChatCompletionMessage, 0, len(transcript))
	for _, m := range transcript {
		res = append(res, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}
	return res
}
