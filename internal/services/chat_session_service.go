package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"ame_support_backend/internal/models"
	"ame_support_backend/internal/utils/severity"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// EmergencyAlertTopic is the broker topic emergency alerts are published on.
const EmergencyAlertTopic = "emergency_alerts"

var ErrEmptyMessage = errors.New("message is required")

type ChatRequest struct {
	Message          string `json:"message"`
	SessionID        string `json:"sessionId"`
	ContextRetention *bool  `json:"contextRetention"`
	Language         string `json:"language"`
}

type ChatReply struct {
	Response    string          `json:"response"`
	Severity    models.Severity `json:"severity"`
	Resources   []string        `json:"resources"`
	SessionID   string          `json:"sessionId"`
	IsEmergency bool            `json:"isEmergency"`
}

type ChatSessionService struct {
	chatService   ChatServiceDB
	generator     Generator
	locker        SessionLocker
	alerts        AlertPublisher
	historyWindow int
	now           func() time.Time
}

func NewChatSessionService(
	chatService ChatServiceDB,
	generator Generator,
	locker SessionLocker,
	alerts AlertPublisher,
	historyWindow int,
) *ChatSessionService {
	return &ChatSessionService{
		chatService:   chatService,
		generator:     generator,
		locker:        locker,
		alerts:        alerts,
		historyWindow: historyWindow,
		now:           time.Now,
	}
}

// RecentTurns returns the last n turns of session, or none when the session
// was created without context retention.
func RecentTurns(session *models.ChatSession, n int) []models.Turn {
	if !session.ContextRetention || n <= 0 || len(session.Turns) == 0 {
		return []models.Turn{}
	}
	turns := session.Turns
	if len(turns) > n {
		turns = turns[len(turns)-n:]
	}
	out := make([]models.Turn, len(turns))
	copy(out, turns)
	return out
}

// SendMessage handles one chat turn. The session lock is held from read to
// append so concurrent requests for the same session are applied one at a time.
func (css *ChatSessionService) SendMessage(ctx context.Context, req ChatRequest) (*ChatReply, error) {
	if strings.TrimSpace(req.Message) == "" {
		return nil, ErrEmptyMessage
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	logger := zerolog.Ctx(ctx).With().Str("session_id", sessionID).Logger()
	ctx = logger.WithContext(ctx)

	unlock, err := css.locker.Lock(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	retention := true
	if req.ContextRetention != nil {
		retention = *req.ContextRetention
	}
	session, created, err := css.chatService.GetOrCreateSession(ctx, sessionID, SessionOptions{
		ContextRetention: retention,
		Language:         req.Language,
	})
	if err != nil {
		return nil, err
	}

	language := req.Language
	if language == "" {
		language = session.Language
	}

	userSeverity := severity.Classify(req.Message)
	history := RecentTurns(session, css.historyWindow)
	receivedAt := css.now()

	generated := css.generator.Generate(ctx, req.Message, history, language)

	err = css.chatService.AppendTurns(ctx, session,
		models.Turn{
			Role:      models.RoleUser,
			Content:   req.Message,
			Timestamp: receivedAt,
			Severity:  userSeverity,
		},
		models.Turn{
			Role:      models.RoleAssistant,
			Content:   generated.Text,
			Timestamp: css.now(),
			Severity:  generated.Severity,
			Resources: generated.Resources,
		},
	)
	if err != nil {
		return nil, err
	}

	logger.Info().
		Bool("created", created).
		Str("severity", string(generated.Severity)).
		Bool("emergency", generated.IsEmergency).
		Int("history", len(history)).
		Msg("Chat turn processed")

	if generated.IsEmergency && css.alerts != nil {
		css.alerts.Publish(EmergencyAlertTopic, models.Alert{
			SessionID: sessionID,
			Severity:  generated.Severity,
			Language:  language,
			Timestamp: receivedAt,
		})
	}

	resources := generated.Resources
	if resources == nil {
		resources = []string{}
	}
	return &ChatReply{
		Response:    generated.Text,
		Severity:    generated.Severity,
		Resources:   resources,
		SessionID:   sessionID,
		IsEmergency: generated.IsEmergency,
	}, nil
}

// GetTranscript returns the stored session with all turns.
func (css *ChatSessionService) GetTranscript(ctx context.Context, sessionID string) (*models.ChatSession, error) {
	return css.chatService.GetSession(ctx, sessionID)
}
