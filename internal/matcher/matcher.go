// Package matcher selects the best stored context for an observed project
// fingerprint.
//
// Candidates are evaluated against a fixed sequence of rules in strict
// priority order; the first rule any candidate satisfies wins outright.
// There is no score accumulation across rules. Within one rule, candidates
// are tried in catalog listing order (lexical by context ID), which makes
// tie-breaks deterministic.
package matcher

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/crofthq/croft/internal/catalog"
	"github.com/crofthq/croft/internal/fingerprint"
	"github.com/crofthq/croft/internal/logging"
)

// markerThreshold is the fraction of a candidate's markers that must be
// present, rounded up.
const markerThreshold = 0.7

// directoryThreshold is the similarity a candidate's directory tree must
// exceed.
const directoryThreshold = 0.8

// rule is one matching tier. Rules inspect only the two fingerprints.
type rule struct {
	name  string
	match func(candidate, observed *fingerprint.Fingerprint) bool
}

// rules in strict priority order.
var rules = []rule{
	{name: "remote-url", match: matchRemoteURL},
	{name: "manifest-structure", match: matchManifest},
	{name: "marker-set", match: matchMarkers},
	{name: "directory-similarity", match: matchDirectories},
}

// Matcher matches fingerprints against a context catalog.
type Matcher struct {
	store catalog.Store
	log   *logging.Logger
}

// New creates a matcher over the given catalog store.
func New(store catalog.Store, log *logging.Logger) *Matcher {
	if log == nil {
		log = logging.NewNop()
	}
	return &Matcher{store: store, log: log}
}

// Match returns the best-matching context for the observed fingerprint, or
// (nil, nil) when nothing matches. On a match the context's usage metadata
// is updated and persisted before returning.
func (m *Matcher) Match(ctx context.Context, observed *fingerprint.Fingerprint) (*catalog.Context, error) {
	candidates, err := m.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list contexts: %w", err)
	}

	for _, r := range rules {
		for _, candidate := range candidates {
			if !r.match(&candidate.Fingerprint, observed) {
				continue
			}

			candidate.Touch()
			if err := m.store.Save(ctx, candidate); err != nil {
				return nil, fmt.Errorf("failed to update usage for context %s: %w", candidate.ID, err)
			}

			m.log.Info(ctx, "matched project context",
				zap.String("context_id", candidate.ID),
				zap.String("context_name", candidate.Name),
				zap.String("rule", r.name),
			)
			return candidate, nil
		}
	}

	m.log.Debug(ctx, "no context matched fingerprint")
	return nil, nil
}
