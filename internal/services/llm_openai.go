package services

import (
	"context"
	"errors"

	"ame_support_backend/internal/models"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const (
	replyTemperature      = 0.7
	replyMaxTokens        = 500
	replyPresencePenalty  = 0.1
	replyFrequencyPenalty = 0.1
)

// OpenAIClient calls the chat completions API.
type OpenAIClient struct {
	client openai.Client
	model  string
}

func NewOpenAIClient(apiKey, model string) *OpenAIClient {
	return &OpenAIClient{
		client: openai.NewClient(option.WithAPIKey(apiKey), option.WithMaxRetries(0)),
		model:  model,
	}
}

func (c *OpenAIClient) Complete(ctx context.Context, systemPrompt string, history []models.Turn, message string) (string, error) {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(history)+2)
	messages = append(messages, openai.SystemMessage(systemPrompt))
	for _, turn := range history {
		if turn.Role == models.RoleAssistant {
			messages = append(messages, openai.AssistantMessage(turn.Content))
		} else {
			messages = append(messages, openai.UserMessage(turn.Content))
		}
	}
	messages = append(messages, openai.UserMessage(message))

	completion, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:            openai.ChatModel(c.model),
		Messages:         messages,
		Temperature:      openai.Float(replyTemperature),
		MaxTokens:        openai.Int(replyMaxTokens),
		PresencePenalty:  openai.Float(replyPresencePenalty),
		FrequencyPenalty: openai.Float(replyFrequencyPenalty),
	})
	if err != nil {
		return "", err
	}
	if len(completion.Choices) == 0 {
		return "", errors.New("openai returned no choices")
	}
	return completion.Choices[0].Message.Content, nil
}
