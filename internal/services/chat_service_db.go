package services

import (
	"context"
	"errors"
	"time"

	"ame_support_backend/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrVersionConflict = errors.New("session version conflict")
)

const defaultLanguage = "en"

// SessionOptions are applied only when a session is created.
type SessionOptions struct {
	ContextRetention bool
	Language         string
}

// SessionFilter narrows the admin session listing.
type SessionFilter struct {
	Severity models.Severity
	From     time.Time
	To       time.Time
	Limit    int
	Skip     int
}

// ChatServiceDB persists chat sessions and their turns.
type ChatServiceDB interface {
	GetOrCreateSession(ctx context.Context, sessionID string, opts SessionOptions) (*models.ChatSession, bool, error)
	GetSession(ctx context.Context, sessionID string) (*models.ChatSession, error)
	AppendTurns(ctx context.Context, session *models.ChatSession, turns ...models.Turn) error
	ListSessions(ctx context.Context, filter SessionFilter) ([]models.ChatSession, int64, error)
	DeleteSession(ctx context.Context, sessionID string) error
}

// DefaultChatService implements ChatServiceDB on gorm.
type DefaultChatService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewChatServiceDB creates a new DefaultChatService
func NewChatServiceDB(db *gorm.DB) ChatServiceDB {
	return &DefaultChatService{db: db, now: time.Now}
}

func orderTurns(db *gorm.DB) *gorm.DB {
	return db.Order("position asc")
}

// GetOrCreateSession returns the session for sessionID, creating it when it does
// not exist yet. A blank id gets a fresh uuid. The bool reports creation.
// An existing session is returned unchanged; opts only apply to new sessions.
func (s *DefaultChatService) GetOrCreateSession(ctx context.Context, sessionID string, opts SessionOptions) (*models.ChatSession, bool, error) {
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	session, err := s.GetSession(ctx, sessionID)
	if err == nil {
		return session, false, nil
	}
	if !errors.Is(err, ErrSessionNotFound) {
		return nil, false, err
	}

	language := opts.Language
	if language == "" {
		language = defaultLanguage
	}
	session = &models.ChatSession{
		SessionID:        sessionID,
		ContextRetention: opts.ContextRetention,
		Language:         language,
		Turns:            []models.Turn{},
	}

	result := s.db.WithContext(ctx).
		Omit("Turns").
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "session_id"}}, DoNothing: true}).
		Create(session)
	if result.Error != nil {
		return nil, false, result.Error
	}
	if result.RowsAffected == 0 {
		// Another request created it between our read and insert.
		existing, err := s.GetSession(ctx, sessionID)
		return existing, false, err
	}

	zerolog.Ctx(ctx).Debug().Str("session_id", sessionID).Msg("Created chat session")
	return session, true, nil
}

// GetSession loads a session with its turns in insertion order.
func (s *DefaultChatService) GetSession(ctx context.Context, sessionID string) (*models.ChatSession, error) {
	var session models.ChatSession
	err := s.db.WithContext(ctx).
		Preload("Turns", orderTurns).
		Where("session_id = ?", sessionID).
		First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// AppendTurns appends turns after the existing ones in a single transaction.
// The session version is compared and bumped first, so a writer holding a stale
// copy gets ErrVersionConflict instead of silently interleaving turns.
func (s *DefaultChatService) AppendTurns(ctx context.Context, session *models.ChatSession, turns ...models.Turn) error {
	if len(turns) == 0 {
		return nil
	}

	now := s.now()
	appended := make([]models.Turn, len(turns))
	copy(appended, turns)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.ChatSession{}).
			Where("id = ? AND version = ?", session.ID, session.Version).
			Updates(map[string]interface{}{
				"version":    gorm.Expr("version + 1"),
				"updated_at": now,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrVersionConflict
		}

		var count int64
		if err := tx.Model(&models.Turn{}).Where("chat_session_id = ?", session.ID).Count(&count).Error; err != nil {
			return err
		}

		for i := range appended {
			appended[i].ID = 0
			appended[i].ChatSessionID = session.ID
			appended[i].Position = int(count) + i
			if appended[i].Timestamp.IsZero() {
				appended[i].Timestamp = now
			}
		}
		return tx.Create(&appended).Error
	})
	if err != nil {
		return err
	}

	session.Version++
	session.UpdatedAt = now
	session.Turns = append(session.Turns, appended...)
	return nil
}

// ListSessions returns sessions newest first along with the total matching count.
// Turns are preloaded so the dashboard can show transcripts inline.
func (s *DefaultChatService) ListSessions(ctx context.Context, filter SessionFilter) ([]models.ChatSession, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.ChatSession{})
	if filter.Severity != "" {
		query = query.Where("EXISTS (SELECT 1 FROM turns WHERE turns.chat_session_id = chat_sessions.id AND turns.severity = ?)", filter.Severity)
	}
	if !filter.From.IsZero() {
		query = query.Where("chat_sessions.created_at >= ?", filter.From)
	}
	if !filter.To.IsZero() {
		query = query.Where("chat_sessions.created_at <= ?", filter.To)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}

	var sessions []models.ChatSession
	err := query.
		Preload("Turns", orderTurns).
		Order("chat_sessions.created_at desc").
		Limit(limit).
		Offset(filter.Skip).
		Find(&sessions).Error
	if err != nil {
		return nil, 0, err
	}
	return sessions, total, nil
}

// DeleteSession deletes a session and its turns
func (s *DefaultChatService) DeleteSession(ctx context.Context, sessionID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var session models.ChatSession
		err := tx.Where("session_id = ?", sessionID).First(&session).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSessionNotFound
		}
		if err != nil {
			return err
		}
		if err := tx.Where("chat_session_id = ?", session.ID).Delete(&models.Turn{}).Error; err != nil {
			return err
		}
		return tx.Delete(&session).Error
	})
}
