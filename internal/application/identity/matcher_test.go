package identity

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"tokentrace/internal/adapters/document"
	"tokentrace/internal/domain"
)

// countingLookup records how often each variable ID is resolved
type countingLookup struct {
	*document.Document
	calls map[string]int
}

func (c *countingLookup) VariableByID(ctx context.Context, id string) (*domain.Variable, error) {
	c.calls[id]++
	return c.Document.VariableByID(ctx, id)
}

func newLookup() (*countingLookup, *domain.Variable) {
	target := domain.Variable{ID: "local:1", Key: "K1", Name: "brand", ResolvedType: domain.ResolvedTypeColor}
	doc := document.New(document.Contents{
		Variables: []domain.Variable{
			target,
			{ID: "lib:1", Key: "K1", Name: "brand", ResolvedType: domain.ResolvedTypeColor, Remote: true},
			{ID: "lib:2", Key: "K1", Name: "brand", ResolvedType: domain.ResolvedTypeColor, Remote: true},
			{ID: "other", Key: "K2", Name: "accent", ResolvedType: domain.ResolvedTypeColor},
			{ID: "keyless", Name: "legacy", ResolvedType: domain.ResolvedTypeColor},
		},
	})
	return &countingLookup{Document: doc, calls: make(map[string]int)}, &target
}

func TestIsMatch_Equivalence(t *testing.T) {
	lookup, target := newLookup()
	m := NewMatcher(lookup, target, nil, zerolog.Nop())
	ctx := context.Background()

	tests := []struct {
		id   string
		want bool
	}{
		{id: "local:1", want: true},
		{id: "lib:1", want: true},
		{id: "lib:2", want: true},
		{id: "other", want: false},
		{id: "missing", want: false},
		{id: "keyless", want: false},
		{id: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			assert.Equal(t, tt.want, m.IsMatch(ctx, domain.VariableAlias{ID: tt.id}))
		})
	}
}

func TestIsMatch_AtMostOneLookupPerID(t *testing.T) {
	lookup, target := newLookup()
	m := NewMatcher(lookup, target, nil, zerolog.Nop())
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		m.IsMatch(ctx, domain.VariableAlias{ID: "lib:1"})
		m.IsMatch(ctx, domain.VariableAlias{ID: "other"})
		m.IsMatch(ctx, domain.VariableAlias{ID: "missing"})
		m.IsMatch(ctx, domain.VariableAlias{ID: "local:1"})
	}

	assert.Equal(t, 1, lookup.calls["lib:1"])
	assert.Equal(t, 1, lookup.calls["other"])
	assert.Equal(t, 1, lookup.calls["missing"])
	assert.Zero(t, lookup.calls["local:1"], "the target's own ID never needs a lookup")
	assert.Equal(t, 3, m.Lookups())
}

func TestIsMatch_ScopedToMatcher(t *testing.T) {
	lookup, target := newLookup()
	ctx := context.Background()

	NewMatcher(lookup, target, nil, zerolog.Nop()).IsMatch(ctx, domain.VariableAlias{ID: "lib:1"})
	NewMatcher(lookup, target, nil, zerolog.Nop()).IsMatch(ctx, domain.VariableAlias{ID: "lib:1"})

	assert.Equal(t, 2, lookup.calls["lib:1"], "caches must not leak between searches")
}

func TestIsMatch_CancelledContextIsNotCached(t *testing.T) {
	lookup, target := newLookup()
	m := NewMatcher(lookup, target, nil, zerolog.Nop())

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	assert.False(t, m.IsMatch(cancelled, domain.VariableAlias{ID: "lib:1"}))
	assert.Zero(t, lookup.calls["lib:1"])
	assert.Zero(t, m.Lookups())

	assert.True(t, m.IsMatch(context.Background(), domain.VariableAlias{ID: "lib:1"}))
	assert.Equal(t, 1, m.Lookups())
}

// interruptedLookup fails its first lookup as if the request were cancelled
type interruptedLookup struct {
	*countingLookup
	interrupted bool
}

func (l *interruptedLookup) VariableByID(ctx context.Context, id string) (*domain.Variable, error) {
	if !l.interrupted {
		l.interrupted = true
		l.calls[id]++
		return nil, context.Canceled
	}
	return l.countingLookup.VariableByID(ctx, id)
}

func TestIsMatch_InterruptedLookupIsRetried(t *testing.T) {
	counting, target := newLookup()
	lookup := &interruptedLookup{countingLookup: counting}
	m := NewMatcher(lookup, target, nil, zerolog.Nop())
	ctx := context.Background()

	assert.False(t, m.IsMatch(ctx, domain.VariableAlias{ID: "lib:2"}))
	assert.True(t, m.IsMatch(ctx, domain.VariableAlias{ID: "lib:2"}))
	assert.Equal(t, 2, counting.calls["lib:2"])
	assert.Equal(t, 1, m.Lookups())
}
