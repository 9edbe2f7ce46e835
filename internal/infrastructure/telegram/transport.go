package telegram

import (
	"context"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"assistant-platform/services/function-gateway/internal/utils/platformerrors"
)

// Transport delivers one-shot notifications through the Telegram Bot API.
// Channels carry their own bot tokens, so a BotAPI instance is created per
// send rather than held for polling.
type Transport struct {
	log zerolog.Logger
}

// NewTransport constructs the transport.
func NewTransport(log zerolog.Logger) *Transport {
	return &Transport{log: log.With().Str("component", "telegram").Logger()}
}

// SendMessage sends text to the chat. One attempt, no retry.
func (t *Transport) SendMessage(ctx context.Context, botToken, chatID, text string) error {
	parsedChatID, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeValidation,
			"chat_id is not a valid telegram chat identifier", err, "telegram-chatid-001")
	}

	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		t.log.Warn().Err(err).Msg("Telegram bot authorization failed")
		return platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeExternal,
			"failed to authorize telegram bot", err, "telegram-auth-001")
	}

	msg := tgbotapi.NewMessage(parsedChatID, text)
	if _, err := bot.Send(msg); err != nil {
		t.log.Warn().Err(err).Str("diagnostic", diagnose(err)).Msg("Telegram send failed")
		return platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeExternal,
			"failed to send telegram message", err, "telegram-send-001")
	}
	return nil
}

// diagnose maps common Bot API failures to a short operator-facing hint.
func diagnose(err error) string {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "chat not found"):
		return "chat not found: check chat_id and that the bot was started in the chat"
	case strings.Contains(msg, "bot was blocked"):
		return "bot was blocked by the user"
	case strings.Contains(msg, "unauthorized"):
		return "unauthorized: check bot_token"
	default:
		return "telegram api error"
	}
}
