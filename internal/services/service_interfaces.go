package services

import (
	"context"

	"ame_support_backend/internal/models"
)

// LLMClient produces a reply from a hosted language model.
type LLMClient interface {
	Complete(ctx context.Context, systemPrompt string, history []models.Turn, message string) (string, error)
}

// Generator turns a user message into an assistant reply with severity and resource tags.
type Generator interface {
	Generate(ctx context.Context, message string, history []models.Turn, language string) GeneratedResponse
}

// SessionLocker serialises work on a single chat session.
type SessionLocker interface {
	Lock(ctx context.Context, sessionID string) (unlock func(), err error)
}

// AlertPublisher fans emergency alerts out to interested listeners.
type AlertPublisher interface {
	Publish(topic string, msg interface{})
}
