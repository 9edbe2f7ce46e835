package activity

import (
	"context"

	"github.com/rs/zerolog"
)

// Recorder appends activity entries fire-and-forget: a failure to log must
// never abort the dispatch or sync operation that produced the entry.
type Recorder struct {
	repo      Repository
	forwarder Forwarder
	log       zerolog.Logger
}

// NewRecorder constructs a recorder. The forwarder may be nil.
func NewRecorder(repo Repository, forwarder Forwarder, log zerolog.Logger) *Recorder {
	return &Recorder{
		repo:      repo,
		forwarder: forwarder,
		log:       log.With().Str("component", "activity").Logger(),
	}
}

// Record appends the entry. Errors are logged and swallowed.
func (r *Recorder) Record(ctx context.Context, action Action, assistantID string, details map[string]any) {
	entry := &Entry{
		Action:      action,
		AssistantID: assistantID,
		Details:     details,
	}

	if err := r.repo.Append(ctx, entry); err != nil {
		r.log.Warn().Err(err).Str("action", string(action)).Str("assistant_id", assistantID).Msg("failed to append activity entry")
		return
	}

	if r.forwarder != nil {
		if err := r.forwarder.Forward(ctx, entry); err != nil {
			r.log.Warn().Err(err).Str("action", string(action)).Msg("failed to forward activity entry")
		}
	}
}
