package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/novinresanehco/lifeos-backend/internal/pkg/envutil"
	"github.com/novinresanehco/lifeos-backend/internal/pkg/logger"
)

// Client delivers notification text to a Telegram chat through the Bot API.
// Delivery is best-effort: the notification row is already persisted before
// this side channel is attempted, and a failure here never fails the send.
type Client interface {
	SendMessage(ctx context.Context, chatID, text string) error
	Enabled() bool
}

type Config struct {
	BotToken string
	BaseURL  string
	Timeout  time.Duration
}

func ConfigFromEnv() Config {
	return Config{
		BotToken: strings.TrimSpace(os.Getenv("TELEGRAM_BOT_TOKEN")),
		BaseURL:  envutil.Str("TELEGRAM_BASE_URL", "https://api.telegram.org"),
		Timeout:  time.Duration(envutil.Int("TELEGRAM_TIMEOUT_SECONDS", 10)) * time.Second,
	}
}

type client struct {
	httpClient *http.Client
	log        *logger.Logger
	cfg        Config
}

func NewFromEnv(log *logger.Logger) Client {
	return New(log, ConfigFromEnv())
}

func New(log *logger.Logger, cfg Config) Client {
	return &client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        log.With("client", "TelegramClient"),
		cfg:        cfg,
	}
}

func (c *client) Enabled() bool {
	return c.cfg.BotToken != ""
}

func (c *client) SendMessage(ctx context.Context, chatID, text string) error {
	if !c.Enabled() {
		c.log.Debug("Telegram disabled, dropping message", "chat_id", chatID)
		return nil
	}
	body, err := json.Marshal(map[string]any{
		"chat_id": chatID,
		"text":    text,
	})
	if err != nil {
		return err
	}
	url := fmt.Sprintf("%s/bot%s/sendMessage", strings.TrimRight(c.cfg.BaseURL, "/"), c.cfg.BotToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("telegram sendMessage: %s", resp.Status)
	}
	return nil
}
