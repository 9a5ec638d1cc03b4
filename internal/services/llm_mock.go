package services

import (
	"context"
	"fmt"

	"ame_support_backend/internal/models"
)

// MockLLMClient answers without calling a provider. Used for local runs without API keys.
type MockLLMClient struct{}

func NewMockLLMClient() *MockLLMClient {
	return &MockLLMClient{}
}

func (MockLLMClient) Complete(ctx context.Context, systemPrompt string, history []models.Turn, message string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return fmt.Sprintf("I hear you, and I'm here to help. You said: %q. If you are in danger, please call the women helpline at 181 or the police at 100.", message), nil
}
