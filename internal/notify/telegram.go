package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"mobilestore/internal/util"

	"go.uber.org/zap"
)

// TelegramNotifier posts admin-facing messages to a Telegram chat via the
// Bot API. Best-effort: a missing token disables it silently.
type TelegramNotifier struct {
	token  string
	chatID string
	client *http.Client
	logger *zap.Logger
}

// NewTelegramNotifier creates a notifier; token or chatID may be empty.
func NewTelegramNotifier(token, chatID string) *TelegramNotifier {
	return &TelegramNotifier{
		token:  token,
		chatID: chatID,
		client: &http.Client{Timeout: 10 * time.Second},
		logger: util.GetLogger(),
	}
}

// Send posts a message to the configured chat.
func (t *TelegramNotifier) Send(ctx context.Context, message string) error {
	if t.token == "" || t.chatID == "" {
		t.logger.Debug("Telegram config missing, skipping message")
		return nil
	}

	payload, err := json.Marshal(map[string]string{
		"chat_id": t.chatID,
		"text":    message,
	})
	if err != nil {
		return err
	}

	url := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", t.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		util.NotificationsFailedTotal.WithLabelValues("telegram").Inc()
		t.logger.Warn("Failed to send Telegram message", zap.Error(err))
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		util.NotificationsFailedTotal.WithLabelValues("telegram").Inc()
		return fmt.Errorf("telegram sendMessage returned status %d", resp.StatusCode)
	}

	util.NotificationsSentTotal.WithLabelValues("telegram").Inc()
	return nil
}
