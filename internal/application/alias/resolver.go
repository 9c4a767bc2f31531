// Package alias resolves stored variable values to concrete colors,
// following alias chains across variables and collections.
package alias

import (
	"context"

	"github.com/rs/zerolog"

	"tokentrace/internal/domain"
	"tokentrace/internal/ports"
)

// MaxDepth is the deepest alias hop followed before a chain is reported as
// circular
const MaxDepth = 10

// Resolver turns stored values into colors or descriptive fallbacks
type Resolver struct {
	lookup ports.VariableLookup
	logger zerolog.Logger
}

// NewResolver creates a resolver backed by lookup
func NewResolver(lookup ports.VariableLookup, logger zerolog.Logger) *Resolver {
	return &Resolver{lookup: lookup, logger: logger}
}

// Resolve returns the concrete color that value denotes for modeID, or one of
// domain.Unresolved, domain.CircularReference or "→ <name>". It never fails.
func (r *Resolver) Resolve(ctx context.Context, value domain.VariableValue, modeID string) domain.ResolvedValue {
	return r.resolve(ctx, value, modeID, 0)
}

// ResolveVariable resolves v's own value for modeID, falling back to its
// collection's default mode
func (r *Resolver) ResolveVariable(ctx context.Context, v *domain.Variable, modeID string) domain.ResolvedValue {
	if v == nil {
		return domain.TextResult(domain.Unresolved)
	}
	value, ok := r.valueForMode(ctx, v, modeID)
	if !ok {
		return domain.TextResult(domain.Unresolved)
	}
	return r.resolve(ctx, value, modeID, 0)
}

func (r *Resolver) resolve(ctx context.Context, value domain.VariableValue, modeID string, depth int) domain.ResolvedValue {
	if depth > MaxDepth {
		return domain.TextResult(domain.CircularReference)
	}

	switch value.Kind {
	case domain.ValueColor:
		return domain.ColorResult(value.Color)
	case domain.ValueAlias:
		// followed below
	default:
		return domain.TextResult(domain.Unresolved)
	}

	target, err := r.lookup.VariableByID(ctx, value.Alias.ID)
	if err != nil || target == nil {
		r.logger.Debug().Err(err).Str("variable_id", value.Alias.ID).Msg("alias target not found")
		return domain.TextResult(domain.Unresolved)
	}
	if !target.IsColor() {
		return domain.TextResult(domain.Unresolved)
	}

	next, ok := r.valueForMode(ctx, target, modeID)
	if !ok {
		return domain.TextResult(domain.Unresolved)
	}

	switch next.Kind {
	case domain.ValueColor:
		return domain.ColorResult(next.Color)
	case domain.ValueAlias:
		return r.resolve(ctx, next, modeID, depth+1)
	default:
		return domain.TextResult("→ " + target.Name)
	}
}

// valueForMode returns v's value for modeID, or for its collection's default
// mode when modeID has no value
func (r *Resolver) valueForMode(ctx context.Context, v *domain.Variable, modeID string) (domain.VariableValue, bool) {
	if value, ok := v.ValuesByMode[modeID]; ok {
		return value, true
	}

	collection, err := r.lookup.CollectionByID(ctx, v.CollectionID)
	if err != nil || collection == nil {
		r.logger.Debug().Err(err).Str("collection_id", v.CollectionID).Msg("collection not found for default mode")
		return domain.VariableValue{}, false
	}

	value, ok := v.ValuesByMode[collection.DefaultModeID]
	return value, ok
}
