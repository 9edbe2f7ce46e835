package dispatch

import "context"

// BotTransport sends one message through a bot-messaging API. Implementations
// perform a single attempt; redelivery policy lives with the caller.
type BotTransport interface {
	SendMessage(ctx context.Context, botToken, chatID, text string) error
}

// MailMessage is one outgoing email.
type MailMessage struct {
	From    string
	To      string
	Subject string
	HTML    string
}

// MailSettings carries SMTP connectivity taken from channel settings.
type MailSettings struct {
	Host     string
	Port     string
	Username string
	Password string
}

// MailTransport sends one message through an SMTP-like transport.
type MailTransport interface {
	SendMail(ctx context.Context, settings MailSettings, msg MailMessage) error
}
