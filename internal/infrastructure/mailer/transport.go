package mailer

import (
	"context"
	"fmt"
	"net"
	"net/smtp"

	"github.com/rs/zerolog"

	"assistant-platform/services/function-gateway/internal/domain/dispatch"
	"assistant-platform/services/function-gateway/internal/utils/platformerrors"
)

// Transport sends notification mail over SMTP with PLAIN auth. The stdlib
// client is enough here: one-shot HTML messages, no inbox side.
type Transport struct {
	log zerolog.Logger
}

// NewTransport constructs the transport.
func NewTransport(log zerolog.Logger) *Transport {
	return &Transport{log: log.With().Str("component", "mailer").Logger()}
}

// SendMail sends one message. One attempt, no retry.
func (t *Transport) SendMail(ctx context.Context, settings dispatch.MailSettings, msg dispatch.MailMessage) error {
	if settings.Host == "" || settings.Port == "" {
		return platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeValidation,
			"smtp host or port not configured on channel", nil, "mailer-config-001")
	}

	body := fmt.Sprintf("To: %s\r\nFrom: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=utf-8\r\n\r\n%s",
		msg.To, msg.From, msg.Subject, msg.HTML)

	addr := net.JoinHostPort(settings.Host, settings.Port)
	var auth smtp.Auth
	if settings.Username != "" {
		auth = smtp.PlainAuth("", settings.Username, settings.Password, settings.Host)
	}

	if err := smtp.SendMail(addr, auth, msg.From, []string{msg.To}, []byte(body)); err != nil {
		t.log.Warn().Err(err).Str("smtp_host", settings.Host).Msg("SMTP send failed")
		return platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeExternal,
			"failed to send mail", err, "mailer-send-001")
	}
	return nil
}
