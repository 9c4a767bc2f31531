package traversal

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"tokentrace/internal/domain"
)

func matchID(id string) MatchFunc {
	return func(a domain.VariableAlias) bool { return a.ID == id }
}

func TestBoundProperties_Order(t *testing.T) {
	node := &domain.InstanceNode{
		NodeHeader: domain.NodeHeader{ID: "1", Name: "Chip", Kind: domain.KindInstance},
		Styles: domain.Styles{
			Fills: []domain.Paint{
				{Type: domain.PaintGradientLinear, BoundVariables: colorBinding("V")},
				{Type: domain.PaintSolid, BoundVariables: colorBinding("V")},
			},
			Strokes: []domain.Paint{{Type: domain.PaintSolid, BoundVariables: colorBinding("V")}},
			Effects: []domain.Effect{
				{Type: domain.EffectDropShadow, BoundVariables: map[string]domain.VariableAlias{
					"spread": {ID: "V"}, "color": {ID: "V"}, "offsetX": {ID: "W"},
				}},
				{Type: domain.EffectLayerBlur, BoundVariables: map[string]domain.VariableAlias{
					"radius": {ID: "V"}, "color": {ID: "V"},
				}},
			},
			BoundVariables: map[string]domain.VariableAlias{
				"height":      {ID: "V"},
				"width":       {ID: "V"},
				"itemSpacing": {ID: "V"},
				"characters":  {ID: "V"},
			},
		},
		ComponentProperties: map[string]domain.ComponentProperty{
			"Tint":  {BoundVariables: map[string]domain.VariableAlias{"value": {ID: "V"}}},
			"Icon":  {BoundVariables: map[string]domain.VariableAlias{"value": {ID: "V"}}},
			"Label": {Value: "Buy"},
		},
	}

	got := BoundProperties(node, matchID("V"))

	assert.Equal(t, []string{
		"fills[1].color",
		"strokes[0].color",
		"width",
		"height",
		"itemSpacing",
		"effects[0].color",
		"effects[0].spread",
		"effects[1].radius",
		"componentProperties.Icon",
		"componentProperties.Tint",
	}, got, "characters only counts on text nodes")
}

func TestBoundProperties_TextCharacters(t *testing.T) {
	node := text("1", "Title", nil)
	node.BoundVariables = map[string]domain.VariableAlias{"characters": {ID: "V"}}

	assert.Equal(t, []string{"characters"}, BoundProperties(node, matchID("V")))
}

func TestBoundProperties_HiddenOrLocked(t *testing.T) {
	hidden := rect("1", "Hidden", solid("V"))
	hidden.Hidden = true
	locked := rect("2", "Locked", solid("V"))
	locked.Locked = true

	assert.Empty(t, BoundProperties(hidden, matchID("V")))
	assert.Empty(t, BoundProperties(locked, matchID("V")))
}

func TestBaseProperty(t *testing.T) {
	tests := map[string]string{
		"fills[0].color":            "fills",
		"effects[2].radius":         "effects",
		"componentProperties.Label": "componentProperties",
		"width":                     "width",
		"":                          "",
	}
	for in, want := range tests {
		assert.Equal(t, want, BaseProperty(in), in)
	}
}
