package telegram

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

const defaultPollTimeout = 60

// Options - параметры подключения к Bot API
type Options struct {
	Token       string
	Debug       bool
	PollTimeout int
	// Endpoint в формате tgbotapi.APIEndpoint, пустой - api.telegram.org
	Endpoint string
}

type Client struct {
	Bot          *tgbotapi.BotAPI
	UpdateConfig tgbotapi.UpdateConfig
	logger       *logrus.Logger
}

func NewClient(opts Options, logger *logrus.Logger) (*Client, error) {
	endpoint := opts.Endpoint
	if endpoint == "" {
		endpoint = tgbotapi.APIEndpoint
	}

	bot, err := tgbotapi.NewBotAPIWithClient(opts.Token, endpoint, &http.Client{})
	if err != nil {
		return nil, err
	}

	bot.Debug = opts.Debug

	timeout := opts.PollTimeout
	if timeout <= 0 {
		timeout = defaultPollTimeout
	}

	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = timeout
	updateConfig.AllowedUpdates = []string{"message", "callback_query"}

	logger.WithField("username", bot.Self.UserName).Info("Authorized on Telegram")

	return &Client{
		Bot:          bot,
		UpdateConfig: updateConfig,
		logger:       logger,
	}, nil
}

// Updates запускает long polling; с отменой ctx прием прекращается и канал закрывается
func (c *Client) Updates(ctx context.Context) tgbotapi.UpdatesChannel {
	updates := c.Bot.GetUpdatesChan(c.UpdateConfig)
	go func() {
		<-ctx.Done()
		c.Bot.StopReceivingUpdates()
	}()
	return updates
}

// Notify отправляет текст в каждый чат один раз. Ошибка одного чата не прерывает рассылку.
func (c *Client) Notify(text string, chatIDs ...int64) error {
	var errs []error
	seen := make(map[int64]bool, len(chatIDs))

	for _, chatID := range chatIDs {
		if chatID == 0 || seen[chatID] {
			continue
		}
		seen[chatID] = true

		if _, err := c.Bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
			c.logger.WithError(err).WithField("chat_id", chatID).Warn("Failed to send notification")
			errs = append(errs, fmt.Errorf("chat %d: %w", chatID, err))
		}
	}

	return errors.Join(errs...)
}
