package dispatch_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"assistant-platform/services/function-gateway/internal/domain/activity"
	"assistant-platform/services/function-gateway/internal/domain/channel"
	"assistant-platform/services/function-gateway/internal/domain/dispatch"
	"assistant-platform/services/function-gateway/internal/domain/function"
	"assistant-platform/services/function-gateway/internal/utils/platformerrors"
)

type MockChannelRepo struct {
	GetByIDFunc func(ctx context.Context, id string) (*channel.Channel, error)
}

func (m *MockChannelRepo) Create(ctx context.Context, ch *channel.Channel) error { return nil }
func (m *MockChannelRepo) List(ctx context.Context) ([]*channel.Channel, error)  { return nil, nil }
func (m *MockChannelRepo) Update(ctx context.Context, ch *channel.Channel) error { return nil }

func (m *MockChannelRepo) GetByID(ctx context.Context, id string) (*channel.Channel, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound, "not found", nil, "")
}

type MockBotTransport struct {
	SendMessageFunc func(ctx context.Context, botToken, chatID, text string) error

	calls []string
}

func (m *MockBotTransport) SendMessage(ctx context.Context, botToken, chatID, text string) error {
	m.calls = append(m.calls, text)
	if m.SendMessageFunc != nil {
		return m.SendMessageFunc(ctx, botToken, chatID, text)
	}
	return nil
}

type MockMailTransport struct {
	SendMailFunc func(ctx context.Context, settings dispatch.MailSettings, msg dispatch.MailMessage) error

	sent []dispatch.MailMessage
}

func (m *MockMailTransport) SendMail(ctx context.Context, settings dispatch.MailSettings, msg dispatch.MailMessage) error {
	m.sent = append(m.sent, msg)
	if m.SendMailFunc != nil {
		return m.SendMailFunc(ctx, settings, msg)
	}
	return nil
}

type MockActivityRepo struct {
	entries []*activity.Entry
}

func (m *MockActivityRepo) Append(ctx context.Context, entry *activity.Entry) error {
	m.entries = append(m.entries, entry)
	return nil
}

func (m *MockActivityRepo) ListByAssistant(ctx context.Context, assistantID string, limit int) ([]*activity.Entry, error) {
	return m.entries, nil
}

func channelID(id string) *string { return &id }

func telegramChannel(settings map[string]any) *channel.Channel {
	return &channel.Channel{
		ID:       "ch1",
		Name:     "ops",
		Type:     channel.TypeTelegram,
		Settings: settings,
		Status:   channel.StatusActive,
	}
}

func newDispatcher(channels *MockChannelRepo, bot *MockBotTransport, mail *MockMailTransport) (*dispatch.DefaultDispatcher, *MockActivityRepo) {
	activityRepo := &MockActivityRepo{}
	recorder := activity.NewRecorder(activityRepo, nil, zerolog.Nop())
	return dispatch.NewDispatcher(channels, bot, mail, recorder, zerolog.Nop()), activityRepo
}

func testLink() *function.Link {
	return &function.Link{
		ID:                    "l1",
		FunctionID:            "f1",
		AssistantID:           "a1",
		Enabled:               true,
		ChannelEnabled:        true,
		NotificationChannelID: channelID("ch1"),
	}
}

func testDef() *function.Definition {
	return &function.Definition{ID: "f1", Name: "Звонок клиента"}
}

func TestDispatch_TelegramSuccess(t *testing.T) {
	channels := &MockChannelRepo{
		GetByIDFunc: func(ctx context.Context, id string) (*channel.Channel, error) {
			return telegramChannel(map[string]any{"bot_token": "tok", "chat_id": "42"}), nil
		},
	}
	bot := &MockBotTransport{}
	d, activityRepo := newDispatcher(channels, bot, &MockMailTransport{})

	outcome, err := d.Dispatch(context.Background(), testLink(), testDef(), map[string]any{
		"name":  "Ivan",
		"phone": "+7 999 123-45-67",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !outcome.Success || outcome.ChannelType != channel.TypeTelegram {
		t.Errorf("unexpected outcome: %+v", outcome)
	}

	if len(bot.calls) != 1 {
		t.Fatalf("expected one send, got %d", len(bot.calls))
	}
	if bot.calls[0] != "name: Ivan\nphone: +7 999 123-45-67" {
		t.Errorf("unexpected message body: %q", bot.calls[0])
	}

	found := false
	for _, entry := range activityRepo.entries {
		if entry.Action == activity.ActionFunctionDataSent {
			found = true
		}
	}
	if !found {
		t.Errorf("expected function_data_sent activity entry")
	}
}

func TestDispatch_MissingChatIDFailsBeforeTransport(t *testing.T) {
	channels := &MockChannelRepo{
		GetByIDFunc: func(ctx context.Context, id string) (*channel.Channel, error) {
			return telegramChannel(map[string]any{"bot_token": "tok"}), nil
		},
	}
	bot := &MockBotTransport{}
	d, activityRepo := newDispatcher(channels, bot, &MockMailTransport{})

	_, err := d.Dispatch(context.Background(), testLink(), testDef(), map[string]any{"name": "Ivan"})
	if !platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(bot.calls) != 0 {
		t.Errorf("transport must not be touched on settings validation failure")
	}

	found := false
	for _, entry := range activityRepo.entries {
		if entry.Action == activity.ActionFunctionError {
			found = true
		}
	}
	if !found {
		t.Errorf("expected function_error activity entry")
	}
}

func TestDispatch_DisabledChannel(t *testing.T) {
	channels := &MockChannelRepo{
		GetByIDFunc: func(ctx context.Context, id string) (*channel.Channel, error) {
			ch := telegramChannel(map[string]any{"bot_token": "tok", "chat_id": "42"})
			ch.Status = channel.StatusDisabled
			return ch, nil
		},
	}
	bot := &MockBotTransport{}
	d, _ := newDispatcher(channels, bot, &MockMailTransport{})

	_, err := d.Dispatch(context.Background(), testLink(), testDef(), map[string]any{"name": "Ivan"})
	if !platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(bot.calls) != 0 {
		t.Errorf("disabled channel must not reach the transport")
	}
}

func TestDispatch_NoChannelConfigured(t *testing.T) {
	d, _ := newDispatcher(&MockChannelRepo{}, &MockBotTransport{}, &MockMailTransport{})

	link := testLink()
	link.NotificationChannelID = nil

	_, err := d.Dispatch(context.Background(), link, testDef(), map[string]any{"name": "Ivan"})
	if !platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestDispatch_DefinitionDefaultChannelFallback(t *testing.T) {
	var requested string
	channels := &MockChannelRepo{
		GetByIDFunc: func(ctx context.Context, id string) (*channel.Channel, error) {
			requested = id
			return telegramChannel(map[string]any{"bot_token": "tok", "chat_id": "42"}), nil
		},
	}
	d, _ := newDispatcher(channels, &MockBotTransport{}, &MockMailTransport{})

	link := testLink()
	link.NotificationChannelID = nil
	def := testDef()
	def.DefaultChannelID = channelID("ch-default")

	if _, err := d.Dispatch(context.Background(), link, def, map[string]any{"name": "Ivan"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if requested != "ch-default" {
		t.Errorf("expected fallback to definition default channel, got %q", requested)
	}
}

func TestDispatch_EmailSuccess(t *testing.T) {
	channels := &MockChannelRepo{
		GetByIDFunc: func(ctx context.Context, id string) (*channel.Channel, error) {
			return &channel.Channel{
				ID:   "ch1",
				Type: channel.TypeEmail,
				Settings: map[string]any{
					"recipient":     "ops@example.com",
					"smtp_host":     "smtp.example.com",
					"smtp_port":     "587",
					"smtp_username": "gateway@example.com",
					"smtp_password": "secret",
				},
				Status: channel.StatusActive,
			}, nil
		},
	}
	mail := &MockMailTransport{}
	d, _ := newDispatcher(channels, &MockBotTransport{}, mail)

	outcome, err := d.Dispatch(context.Background(), testLink(), testDef(), map[string]any{"name": "Ivan"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.ChannelType != channel.TypeEmail {
		t.Errorf("expected email outcome, got %s", outcome.ChannelType)
	}

	if len(mail.sent) != 1 {
		t.Fatalf("expected one email, got %d", len(mail.sent))
	}
	msg := mail.sent[0]
	if msg.To != "ops@example.com" {
		t.Errorf("unexpected recipient %q", msg.To)
	}
	if !strings.Contains(msg.Subject, "Звонок клиента") {
		t.Errorf("default subject must carry the function name, got %q", msg.Subject)
	}
	if !strings.Contains(msg.HTML, "name: Ivan") {
		t.Errorf("body must carry the rendered payload, got %q", msg.HTML)
	}
}

func TestDispatch_EmailInvalidRecipient(t *testing.T) {
	channels := &MockChannelRepo{
		GetByIDFunc: func(ctx context.Context, id string) (*channel.Channel, error) {
			return &channel.Channel{
				ID:       "ch1",
				Type:     channel.TypeEmail,
				Settings: map[string]any{"recipient": "not-an-address"},
				Status:   channel.StatusActive,
			}, nil
		},
	}
	mail := &MockMailTransport{}
	d, _ := newDispatcher(channels, &MockBotTransport{}, mail)

	_, err := d.Dispatch(context.Background(), testLink(), testDef(), map[string]any{"name": "Ivan"})
	if !platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(mail.sent) != 0 {
		t.Errorf("invalid recipient must not reach the transport")
	}
}

func TestDispatch_UnsupportedChannelType(t *testing.T) {
	channels := &MockChannelRepo{
		GetByIDFunc: func(ctx context.Context, id string) (*channel.Channel, error) {
			return &channel.Channel{ID: "ch1", Type: channel.Type("pager"), Status: channel.StatusActive}, nil
		},
	}
	d, _ := newDispatcher(channels, &MockBotTransport{}, &MockMailTransport{})

	_, err := d.Dispatch(context.Background(), testLink(), testDef(), map[string]any{"name": "Ivan"})
	if !platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestDispatch_TransportFailureIsExternal(t *testing.T) {
	channels := &MockChannelRepo{
		GetByIDFunc: func(ctx context.Context, id string) (*channel.Channel, error) {
			return telegramChannel(map[string]any{"bot_token": "tok", "chat_id": "42"}), nil
		},
	}
	bot := &MockBotTransport{
		SendMessageFunc: func(ctx context.Context, botToken, chatID, text string) error {
			return errors.New("chat not found")
		},
	}
	d, _ := newDispatcher(channels, bot, &MockMailTransport{})

	_, err := d.Dispatch(context.Background(), testLink(), testDef(), map[string]any{"name": "Ivan"})
	if !platformerrors.IsErrorType(err, platformerrors.ErrorTypeExternal) {
		t.Errorf("expected external error, got %v", err)
	}
	if len(bot.calls) != 1 {
		t.Errorf("exactly one attempt expected, got %d", len(bot.calls))
	}
}

func TestDispatch_EmitsDeliverySpan(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(provider)
	defer otel.SetTracerProvider(previous)

	channels := &MockChannelRepo{
		GetByIDFunc: func(ctx context.Context, id string) (*channel.Channel, error) {
			return telegramChannel(map[string]any{"bot_token": "tok", "chat_id": "42"}), nil
		},
	}
	d, _ := newDispatcher(channels, &MockBotTransport{}, &MockMailTransport{})

	if _, err := d.Dispatch(context.Background(), testLink(), testDef(), map[string]any{"name": "Ivan"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected one ended span, got %d", len(spans))
	}
	if spans[0].Name() != "notification.dispatch.telegram" {
		t.Errorf("unexpected span name: %q", spans[0].Name())
	}
}
