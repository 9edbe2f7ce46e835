// Package resolve maps an inbound tool-call name, already mangled by the
// remote API's naming rules, back to the local function link it belongs to.
package resolve

import (
	"context"
	"sort"

	"github.com/rs/zerolog"

	"assistant-platform/services/function-gateway/internal/domain/function"
	"assistant-platform/services/function-gateway/internal/domain/naming"
	"assistant-platform/services/function-gateway/internal/infrastructure/metrics"
	"assistant-platform/services/function-gateway/internal/utils/platformerrors"
)

// Match is a successful resolution: the link, its definition, and the
// precedence tier that produced the hit.
type Match struct {
	Link       *function.Link
	Definition *function.Definition
	Tier       Tier
}

// Resolver finds the local function behind an invocation name.
type Resolver interface {
	Resolve(ctx context.Context, assistantID, invocationName string) (*Match, error)
}

// DefaultResolver implements Resolver over the registry repositories.
type DefaultResolver struct {
	definitions function.Repository
	links       function.LinkRepository
	log         zerolog.Logger
}

// NewResolver constructs the resolver.
func NewResolver(definitions function.Repository, links function.LinkRepository, log zerolog.Logger) *DefaultResolver {
	return &DefaultResolver{
		definitions: definitions,
		links:       links,
		log:         log.With().Str("component", "resolver").Logger(),
	}
}

type scoredCandidate struct {
	link       *function.Link
	definition *function.Definition
	candidate  candidate
}

// Resolve scans the assistant's enabled links tier by tier. Candidates are
// sorted by link id so ties inside a tier break the same way on every run.
func (r *DefaultResolver) Resolve(ctx context.Context, assistantID, invocationName string) (*Match, error) {
	links, err := r.links.ListEnabled(ctx, assistantID)
	if err != nil {
		return nil, err
	}
	if len(links) == 0 {
		return nil, platformerrors.NewErrorWithContext(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound,
			"assistant has no enabled functions", nil, "resolve-empty-001",
			map[string]any{"assistant_id": assistantID, "invocation_name": invocationName})
	}

	candidates := make([]scoredCandidate, 0, len(links))
	for _, link := range links {
		def, err := r.definitions.GetByID(ctx, link.FunctionID)
		if err != nil {
			if platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound) {
				r.log.Warn().Str("link_id", link.ID).Str("function_id", link.FunctionID).Msg("link references missing definition, skipping")
				continue
			}
			return nil, err
		}
		candidates = append(candidates, scoredCandidate{
			link:       link,
			definition: def,
			candidate: candidate{
				raw:       def.Name,
				canonical: naming.Normalize(def.Name),
			},
		})
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].link.ID < candidates[j].link.ID
	})

	for _, tier := range tierOrder {
		match := matchers[tier]
		for _, sc := range candidates {
			if !match(sc.candidate, invocationName) {
				continue
			}
			r.log.Debug().
				Str("assistant_id", assistantID).
				Str("invocation_name", invocationName).
				Str("matched_function", sc.definition.ID).
				Str("canonical_name", sc.candidate.canonical).
				Str("tier", string(tier)).
				Msg("invocation resolved")
			metrics.RecordResolution(string(tier))
			return &Match{Link: sc.link, Definition: sc.definition, Tier: tier}, nil
		}
	}

	metrics.RecordResolution("none")
	return nil, platformerrors.NewErrorWithContext(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound,
		"no function matches the invocation name", nil, "resolve-notfound-001",
		map[string]any{"assistant_id": assistantID, "invocation_name": invocationName})
}
