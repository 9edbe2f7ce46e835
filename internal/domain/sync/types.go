package sync

import "context"

// Mode selects the single direction a reconciliation applies. Push and pull
// are never combined in one pass.
type Mode string

const (
	// ModeObserve computes the diff without mutating anything.
	ModeObserve Mode = "observe"
	// ModePush appends locally enabled functions missing from the remote list.
	ModePush Mode = "push"
	// ModePull removes remote entries no local enabled link accounts for.
	ModePull Mode = "pull"
)

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	switch m {
	case ModeObserve, ModePush, ModePull:
		return true
	}
	return false
}

// ToolEntry is the transient view of one remote function tool. It is never
// cached beyond a single reconciliation pass because the remote list can
// change out-of-band.
type ToolEntry struct {
	Name        string
	Description string
	Parameters  map[string]any
}

// RemoteToolAPI is the assistant-hosting API at its interface boundary. The
// remote exposes no partial update: ReplaceTools always swaps the entire
// function tool list.
type RemoteToolAPI interface {
	ListTools(ctx context.Context, remoteRef string) ([]ToolEntry, error)
	ReplaceTools(ctx context.Context, remoteRef string, tools []ToolEntry) error
}

// Result reports the canonical names a reconciliation added and removed. In
// observe mode the arrays carry the computed diff without any mutation
// having occurred.
type Result struct {
	Added   []string `json:"added"`
	Removed []string `json:"removed"`
}

// AssistantResult is one assistant's outcome within a bulk run.
type AssistantResult struct {
	AssistantID string   `json:"assistant_id"`
	Added       []string `json:"added"`
	Removed     []string `json:"removed"`
	Error       string   `json:"error,omitempty"`
}
