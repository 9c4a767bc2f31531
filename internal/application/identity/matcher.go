// Package identity decides whether a bound-variable reference denotes the
// same logical variable as a search target. A library variable and its
// local copy have different IDs but share a key.
package identity

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"tokentrace/internal/domain"
	"tokentrace/internal/metrics"
	"tokentrace/internal/ports"
)

// Matcher memoises identity decisions for one target during one search.
// Each distinct candidate ID is looked up at most once.
type Matcher struct {
	lookup    ports.VariableLookup
	metrics   *metrics.Metrics
	logger    zerolog.Logger
	targetKey string

	known map[string]struct{} // IDs known to denote the target
	keys  map[string]string   // candidate ID -> key, "" when not found
}

// NewMatcher creates a matcher for target
func NewMatcher(lookup ports.VariableLookup, target *domain.Variable, m *metrics.Metrics, logger zerolog.Logger) *Matcher {
	return &Matcher{
		lookup:    lookup,
		metrics:   m,
		logger:    logger,
		targetKey: target.Key,
		known:     map[string]struct{}{target.ID: {}},
		keys:      make(map[string]string),
	}
}

// IsMatch reports whether ref points at the target variable
func (m *Matcher) IsMatch(ctx context.Context, ref domain.VariableAlias) bool {
	if ref.ID == "" {
		return false
	}
	if _, ok := m.known[ref.ID]; ok {
		return true
	}

	key, cached := m.keys[ref.ID]
	if !cached {
		var settled bool
		key, settled = m.keyOf(ctx, ref.ID)
		if settled {
			m.keys[ref.ID] = key
		}
	}

	if key == "" || key != m.targetKey {
		return false
	}
	m.known[ref.ID] = struct{}{}
	return true
}

// Lookups returns how many distinct candidate IDs were resolved
func (m *Matcher) Lookups() int {
	return len(m.keys)
}

// keyOf resolves id to its key. settled is false when the lookup was cut
// short by the request context; such outcomes are not cached.
func (m *Matcher) keyOf(ctx context.Context, id string) (key string, settled bool) {
	if ctx.Err() != nil {
		return "", false
	}
	v, err := m.lookup.VariableByID(ctx, id)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return "", false
	}
	if err != nil || v == nil {
		m.metrics.ObserveLookup(false)
		m.logger.Debug().Err(err).Str("variable_id", id).Msg("bound variable not resolvable")
		return "", true
	}
	m.metrics.ObserveLookup(true)
	return v.Key, true
}
