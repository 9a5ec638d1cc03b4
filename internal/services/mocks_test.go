package services

import (
	"context"
	"sync"

	"ame_support_backend/internal/models"

	"github.com/stretchr/testify/mock"
)

type MockLLM struct {
	mock.Mock
}

func (m *MockLLM) Complete(ctx context.Context, systemPrompt string, history []models.Turn, message string) (string, error) {
	args := m.Called(ctx, systemPrompt, history, message)
	return args.String(0), args.Error(1)
}

type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) Generate(ctx context.Context, message string, history []models.Turn, language string) GeneratedResponse {
	args := m.Called(ctx, message, history, language)
	return args.Get(0).(GeneratedResponse)
}

type recordingPublisher struct {
	mu       sync.Mutex
	messages []interface{}
}

func (p *recordingPublisher) Publish(topic string, msg interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if topic == EmergencyAlertTopic {
		p.messages = append(p.messages, msg)
	}
}
