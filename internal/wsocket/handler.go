package wsocket

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"ame_support_backend/internal/models"
	"ame_support_backend/internal/services"
	"ame_support_backend/internal/utils/broker"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const writeWait = 10 * time.Second

type Handler struct {
	broker       *broker.Broker
	upgrader     websocket.Upgrader
	pingInterval time.Duration
}

// Message is the frame exchanged with dashboard clients.
type Message struct {
	Type    string        `json:"type"`
	Content string        `json:"content,omitempty"`
	Alert   *models.Alert `json:"alert,omitempty"`
}

func NewHandler(messageBroker *broker.Broker, upgrader websocket.Upgrader, pingInterval time.Duration) *Handler {
	return &Handler{
		broker:       messageBroker,
		upgrader:     upgrader,
		pingInterval: pingInterval,
	}
}

// HandleAlerts streams emergency alerts to a connected dashboard user until
// either side closes the connection.
func (h *Handler) HandleAlerts(w http.ResponseWriter, r *http.Request, user *models.User) {
	logger := zerolog.Ctx(r.Context()).With().Str("user_id", user.ID.String()).Logger()

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warn().Err(err).Msg("Websocket upgrade failed")
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	alerts := h.broker.Subscribe(services.EmergencyAlertTopic)
	defer h.broker.Unsubscribe(services.EmergencyAlertTopic, alerts)

	logger.Info().
		Int("subscribers", h.broker.Subscribers(services.EmergencyAlertTopic)).
		Msg("Alert feed connected")

	// gorilla allows one concurrent writer.
	var writeMu sync.Mutex
	write := func(msg Message) error {
		writeMu.Lock()
		defer writeMu.Unlock()
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		return conn.WriteJSON(msg)
	}

	if err := write(Message{Type: "connected", Content: "Listening for emergency alerts"}); err != nil {
		return
	}

	go func() {
		ticker := time.NewTicker(h.pingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-alerts:
				if !ok {
					return
				}
				alert, ok := msg.(models.Alert)
				if !ok {
					continue
				}
				if err := write(Message{Type: "alert", Alert: &alert}); err != nil {
					logger.Debug().Err(err).Msg("Error sending alert")
					cancel()
					return
				}
			case <-ticker.C:
				writeMu.Lock()
				err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
				writeMu.Unlock()
				if err != nil {
					cancel()
					return
				}
			}
		}
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			logger.Debug().Err(err).Msg("Alert feed closed")
			return
		}
		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			continue
		}
		switch msg.Type {
		case "ping":
			if err := write(Message{Type: "pong"}); err != nil {
				return
			}
		default:
			logger.Debug().Str("type", msg.Type).Msg("Ignoring unknown message type")
		}
	}
}
