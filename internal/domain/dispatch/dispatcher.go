// Package dispatch formats a resolved function call's arguments and delivers
// them through the link's notification channel, best effort, exactly one
// attempt per invocation.
package dispatch

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"assistant-platform/services/function-gateway/internal/domain/activity"
	"assistant-platform/services/function-gateway/internal/domain/channel"
	"assistant-platform/services/function-gateway/internal/domain/function"
	"assistant-platform/services/function-gateway/internal/infrastructure/metrics"
	"assistant-platform/services/function-gateway/internal/infrastructure/observability"
	"assistant-platform/services/function-gateway/internal/utils/platformerrors"
)

// Outcome reports the delivery result for the caller's envelope.
type Outcome struct {
	Success     bool
	ChannelType channel.Type
	Detail      string
}

// Dispatcher delivers resolved call payloads.
type Dispatcher interface {
	Dispatch(ctx context.Context, link *function.Link, def *function.Definition, args map[string]any) (*Outcome, error)
}

// DefaultDispatcher implements Dispatcher over the channel store and the
// configured transports.
type DefaultDispatcher struct {
	channels channel.Repository
	bot      BotTransport
	mail     MailTransport
	recorder *activity.Recorder
	log      zerolog.Logger
}

// NewDispatcher constructs the dispatcher.
func NewDispatcher(
	channels channel.Repository,
	bot BotTransport,
	mail MailTransport,
	recorder *activity.Recorder,
	log zerolog.Logger,
) *DefaultDispatcher {
	return &DefaultDispatcher{
		channels: channels,
		bot:      bot,
		mail:     mail,
		recorder: recorder,
		log:      log.With().Str("component", "dispatcher").Logger(),
	}
}

// Dispatch sends the formatted arguments through the effective channel. An
// activity event is recorded for the attempt and its outcome on every path.
func (d *DefaultDispatcher) Dispatch(ctx context.Context, link *function.Link, def *function.Definition, args map[string]any) (*Outcome, error) {
	start := time.Now()
	outcome, err := d.deliver(ctx, link, def, args)
	if err != nil {
		metrics.RecordDispatch(channelTypeLabel(outcome), "error", time.Since(start))
		d.recorder.Record(ctx, activity.ActionFunctionError, link.AssistantID, map[string]any{
			"function_id": def.ID,
			"link_id":     link.ID,
			"error":       err.Error(),
		})
		return nil, err
	}
	metrics.RecordDispatch(channelTypeLabel(outcome), "success", time.Since(start))

	d.recorder.Record(ctx, activity.ActionFunctionDataSent, link.AssistantID, map[string]any{
		"function_id":  def.ID,
		"link_id":      link.ID,
		"channel_type": string(outcome.ChannelType),
	})
	return outcome, nil
}

func (d *DefaultDispatcher) deliver(ctx context.Context, link *function.Link, def *function.Definition, args map[string]any) (*Outcome, error) {
	channelID := link.NotificationChannelID
	if channelID == nil || *channelID == "" {
		channelID = def.DefaultChannelID
	}
	if channelID == nil || *channelID == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"no notification channel configured for function", nil, "dispatch-nochannel-001")
	}

	ch, err := d.channels.GetByID(ctx, *channelID)
	if err != nil {
		return nil, err
	}
	if ch.Status == channel.StatusDisabled {
		return nil, platformerrors.NewErrorWithContext(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"notification channel is disabled", nil, "dispatch-disabled-001",
			map[string]any{"channel_id": ch.ID})
	}

	text := FormatArguments(args)

	switch ch.Type {
	case channel.TypeTelegram:
		return d.sendTelegram(ctx, ch, text)
	case channel.TypeEmail:
		return d.sendEmail(ctx, ch, def, text)
	default:
		return nil, platformerrors.NewErrorWithContext(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"unsupported channel type", nil, "dispatch-type-001",
			map[string]any{"channel_type": string(ch.Type)})
	}
}

func (d *DefaultDispatcher) sendTelegram(ctx context.Context, ch *channel.Channel, text string) (*Outcome, error) {
	botToken := ch.Setting("bot_token")
	chatID := ch.Setting("chat_id")
	if botToken == "" || chatID == "" {
		return nil, platformerrors.NewErrorWithContext(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"telegram channel requires bot_token and chat_id", nil, "dispatch-telegram-settings-001",
			map[string]any{"channel_id": ch.ID})
	}

	ctx, span := observability.StartDispatchSpan(ctx, string(channel.TypeTelegram))
	defer span.End()

	if err := d.bot.SendMessage(ctx, botToken, chatID, text); err != nil {
		span.RecordError(err)
		d.log.Warn().Err(err).Str("channel_id", ch.ID).Msg("telegram send failed")
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeExternal,
			"telegram send failed", err, "dispatch-telegram-send-001")
	}

	return &Outcome{Success: true, ChannelType: channel.TypeTelegram, Detail: "message sent"}, nil
}

func (d *DefaultDispatcher) sendEmail(ctx context.Context, ch *channel.Channel, def *function.Definition, text string) (*Outcome, error) {
	recipient := ch.Setting("recipient")
	if !strings.Contains(recipient, "@") {
		return nil, platformerrors.NewErrorWithContext(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"email channel requires a valid recipient address", nil, "dispatch-email-recipient-001",
			map[string]any{"channel_id": ch.ID})
	}

	subject := ch.Setting("subject_template")
	if subject == "" {
		subject = "New data from " + def.Name
	}

	from := ch.Setting("from")
	if from == "" {
		from = ch.Setting("smtp_username")
	}

	msg := MailMessage{
		From:    from,
		To:      recipient,
		Subject: subject,
		HTML:    "<pre>" + text + "</pre>",
	}
	settings := MailSettings{
		Host:     ch.Setting("smtp_host"),
		Port:     ch.Setting("smtp_port"),
		Username: ch.Setting("smtp_username"),
		Password: ch.Setting("smtp_password"),
	}

	ctx, span := observability.StartDispatchSpan(ctx, string(channel.TypeEmail))
	defer span.End()

	if err := d.mail.SendMail(ctx, settings, msg); err != nil {
		span.RecordError(err)
		d.log.Warn().Err(err).Str("channel_id", ch.ID).Msg("email send failed")
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeExternal,
			"email send failed", err, "dispatch-email-send-001")
	}

	return &Outcome{Success: true, ChannelType: channel.TypeEmail, Detail: "email sent to " + recipient}, nil
}

func channelTypeLabel(outcome *Outcome) string {
	if outcome == nil || outcome.ChannelType == "" {
		return "unknown"
	}
	return string(outcome.ChannelType)
}
