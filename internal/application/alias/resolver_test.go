package alias

import (
	"context"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tokentrace/internal/adapters/document"
	"tokentrace/internal/domain"
)

var red = domain.RGBA{R: 1, A: 1}

func newResolver(c document.Contents) *Resolver {
	return NewResolver(document.New(c), zerolog.Nop())
}

// chain builds v0 -> v1 -> ... -> vN where vN holds red and every other
// variable holds an alias to the next one
func chain(nested int) document.Contents {
	c := document.Contents{
		Collections: []domain.VariableCollection{{ID: "c", DefaultModeID: "m"}},
	}
	for i := 0; i <= nested; i++ {
		value := domain.ColorValue(red)
		if i < nested {
			value = domain.AliasValue(fmt.Sprintf("v%d", i+1))
		}
		c.Variables = append(c.Variables, domain.Variable{
			ID:           fmt.Sprintf("v%d", i),
			Name:         fmt.Sprintf("chain/%d", i),
			ResolvedType: domain.ResolvedTypeColor,
			CollectionID: "c",
			ValuesByMode: map[string]domain.VariableValue{"m": value},
		})
	}
	return c
}

func TestResolve_Literal(t *testing.T) {
	r := newResolver(document.Contents{})

	got := r.Resolve(context.Background(), domain.ColorValue(red), "m")

	require.True(t, got.IsColor())
	assert.Equal(t, red, *got.Color)
}

func TestResolve_DepthBound(t *testing.T) {
	tests := []struct {
		name   string
		nested int
		want   string
	}{
		{name: "single hop", nested: 0, want: "#FF0000"},
		{name: "ten nested aliases", nested: 10, want: "#FF0000"},
		{name: "eleven nested aliases", nested: 11, want: domain.CircularReference},
		{name: "twenty nested aliases", nested: 20, want: domain.CircularReference},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newResolver(chain(tt.nested))
			got := r.Resolve(context.Background(), domain.AliasValue("v0"), "m")
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestResolve_Cycle(t *testing.T) {
	r := newResolver(document.Contents{
		Collections: []domain.VariableCollection{{ID: "c", DefaultModeID: "m"}},
		Variables: []domain.Variable{
			{ID: "a", ResolvedType: domain.ResolvedTypeColor, CollectionID: "c", ValuesByMode: map[string]domain.VariableValue{"m": domain.AliasValue("b")}},
			{ID: "b", ResolvedType: domain.ResolvedTypeColor, CollectionID: "c", ValuesByMode: map[string]domain.VariableValue{"m": domain.AliasValue("a")}},
		},
	})

	got := r.Resolve(context.Background(), domain.AliasValue("a"), "m")

	assert.Equal(t, domain.CircularReference, got.Text)
}

func TestResolve_DefaultModeFallback(t *testing.T) {
	r := newResolver(document.Contents{
		Collections: []domain.VariableCollection{{
			ID:            "c1",
			DefaultModeID: "m2",
			Modes:         []domain.Mode{{ModeID: "m1"}, {ModeID: "m2"}},
		}},
		Variables: []domain.Variable{{
			ID:           "target",
			Name:         "accent",
			ResolvedType: domain.ResolvedTypeColor,
			CollectionID: "c1",
			ValuesByMode: map[string]domain.VariableValue{"m2": domain.ColorValue(domain.RGBA{R: 1, G: 0, B: 0, A: 1})},
		}},
	})

	got := r.Resolve(context.Background(), domain.AliasValue("target"), "m1")

	require.True(t, got.IsColor())
	assert.Equal(t, domain.RGBA{R: 1, G: 0, B: 0, A: 1}, *got.Color)
}

func TestResolve_Fallbacks(t *testing.T) {
	c := document.Contents{
		Collections: []domain.VariableCollection{{ID: "c", DefaultModeID: "m"}},
		Variables: []domain.Variable{
			{ID: "float", Name: "spacing", ResolvedType: domain.ResolvedTypeFloat, CollectionID: "c",
				ValuesByMode: map[string]domain.VariableValue{"m": {}}},
			{ID: "odd", Name: "brand/odd", ResolvedType: domain.ResolvedTypeColor, CollectionID: "c",
				ValuesByMode: map[string]domain.VariableValue{"m": {}}},
			{ID: "orphan", Name: "orphan", ResolvedType: domain.ResolvedTypeColor, CollectionID: "gone",
				ValuesByMode: map[string]domain.VariableValue{"x": domain.ColorValue(red)}},
		},
	}
	r := newResolver(c)
	ctx := context.Background()

	tests := []struct {
		name  string
		value domain.VariableValue
		want  string
	}{
		{name: "missing target", value: domain.AliasValue("nope"), want: domain.Unresolved},
		{name: "non-color target", value: domain.AliasValue("float"), want: domain.Unresolved},
		{name: "unrecognised target value", value: domain.AliasValue("odd"), want: "→ brand/odd"},
		{name: "no value and no collection", value: domain.AliasValue("orphan"), want: domain.Unresolved},
		{name: "unknown top-level value", value: domain.VariableValue{}, want: domain.Unresolved},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Resolve(ctx, tt.value, "m").String())
		})
	}
}

func TestResolveVariable(t *testing.T) {
	c := chain(2)
	r := newResolver(c)

	got := r.ResolveVariable(context.Background(), &c.Variables[0], "unknown-mode")

	assert.Equal(t, "#FF0000", got.String())
	assert.Equal(t, domain.Unresolved, r.ResolveVariable(context.Background(), nil, "m").Text)
}
