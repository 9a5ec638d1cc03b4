package services

import (
	"context"
	"strings"
	"time"

	"ame_support_backend/internal/models"
	"ame_support_backend/internal/utils/severity"

	"github.com/rs/zerolog"
)

const (
	FallbackMessage   = "I apologize, but I'm experiencing technical difficulties. Please contact emergency services at 100 (police) or 181 (women helpline) if you need immediate help."
	EmptyReplyMessage = "I apologize, but I cannot process your request at the moment. Please try again or contact emergency services if this is urgent."
)

// GeneratedResponse is the assistant reply plus its classification.
type GeneratedResponse struct {
	Text        string
	Severity    models.Severity
	Resources   []string
	IsEmergency bool
}

// FallbackResponse is returned whenever the model call fails.
func FallbackResponse() GeneratedResponse {
	return GeneratedResponse{
		Text:        FallbackMessage,
		Severity:    models.SeverityEmergency,
		Resources:   []string{string(models.CategoryEmergency)},
		IsEmergency: true,
	}
}

// resourceRules are checked in order against the lowercased reply.
var resourceRules = []struct {
	words    []string
	category models.ResourceCategory
}{
	{[]string{"helpline", "emergency"}, models.CategoryEmergency},
	{[]string{"legal", "lawyer"}, models.CategoryLegal},
	{[]string{"medical", "doctor", "hospital"}, models.CategoryMedical},
	{[]string{"shelter", "housing"}, models.CategoryShelter},
	{[]string{"counseling", "therapy"}, models.CategoryPsychological},
}

// ExtractResourceTags returns the resource categories mentioned in a reply.
func ExtractResourceTags(reply string) []string {
	text := strings.ToLower(reply)
	tags := []string{}
	for _, rule := range resourceRules {
		for _, w := range rule.words {
			if strings.Contains(text, w) {
				tags = append(tags, string(rule.category))
				break
			}
		}
	}
	return tags
}

type ResponseGenerator struct {
	llm     LLMClient
	timeout time.Duration
}

func NewResponseGenerator(llm LLMClient, timeout time.Duration) *ResponseGenerator {
	return &ResponseGenerator{llm: llm, timeout: timeout}
}

// Generate asks the model for a reply. It never returns an error: any provider
// failure yields FallbackResponse. Severity comes from the user's message.
func (g *ResponseGenerator) Generate(ctx context.Context, message string, history []models.Turn, language string) GeneratedResponse {
	logger := zerolog.Ctx(ctx)

	callCtx := ctx
	if g.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	reply, err := g.llm.Complete(callCtx, BuildSystemPrompt(language), history, message)
	if err != nil {
		logger.Error().Err(err).Msg("Language model call failed, using fallback reply")
		return FallbackResponse()
	}

	if strings.TrimSpace(reply) == "" {
		reply = EmptyReplyMessage
	}

	level := severity.Classify(message)
	return GeneratedResponse{
		Text:        reply,
		Severity:    level,
		Resources:   ExtractResourceTags(reply),
		IsEmergency: level == models.SeverityEmergency,
	}
}
