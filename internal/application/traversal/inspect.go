package traversal

import (
	"fmt"
	"maps"
	"slices"

	"tokentrace/internal/domain"
)

// MatchFunc reports whether a bound-variable reference denotes the target
type MatchFunc func(domain.VariableAlias) bool

// layoutFields are the generic node bindings checked, in report order
var layoutFields = []string{
	"width",
	"height",
	"paddingLeft",
	"paddingRight",
	"paddingTop",
	"paddingBottom",
	"itemSpacing",
	"counterAxisSpacing",
	"cornerRadius",
	"topLeftRadius",
	"topRightRadius",
	"bottomLeftRadius",
	"bottomRightRadius",
	"strokeWeight",
	"opacity",
}

var shadowFields = []string{"color", "offsetX", "offsetY", "radius", "spread"}

// BoundProperties returns the attribute paths on node bound to the target.
// Hidden and locked nodes report nothing.
func BoundProperties(node domain.SceneNode, match MatchFunc) []string {
	h := node.Header()
	if h.Hidden || h.Locked {
		return nil
	}

	styles := stylesOf(node)
	var props []string

	props = paintBindings(props, "fills", styles.Fills, match)
	props = paintBindings(props, "strokes", styles.Strokes, match)

	for _, field := range layoutFields {
		if alias, ok := styles.BoundVariables[field]; ok && match(alias) {
			props = append(props, field)
		}
	}

	if _, ok := node.(*domain.TextNode); ok {
		if alias, ok := styles.BoundVariables["characters"]; ok && match(alias) {
			props = append(props, "characters")
		}
	}

	props = effectBindings(props, styles.Effects, match)

	if inst, ok := node.(*domain.InstanceNode); ok {
		for _, name := range slices.Sorted(maps.Keys(inst.ComponentProperties)) {
			prop := inst.ComponentProperties[name]
			if alias, ok := prop.BoundVariables["value"]; ok && match(alias) {
				props = append(props, "componentProperties."+name)
			}
		}
	}

	return props
}

func stylesOf(node domain.SceneNode) *domain.Styles {
	switch n := node.(type) {
	case *domain.ContainerNode:
		return &n.Styles
	case *domain.ShapeNode:
		return &n.Styles
	case *domain.TextNode:
		return &n.Styles
	case *domain.InstanceNode:
		return &n.Styles
	default:
		panic(fmt.Sprintf("unknown scene node variant %T", node))
	}
}

func paintBindings(props []string, slot string, paints []domain.Paint, match MatchFunc) []string {
	for i, p := range paints {
		if p.Type != domain.PaintSolid {
			continue
		}
		if alias, ok := p.BoundVariables["color"]; ok && match(alias) {
			props = append(props, fmt.Sprintf("%s[%d].color", slot, i))
		}
	}
	return props
}

func effectBindings(props []string, effects []domain.Effect, match MatchFunc) []string {
	for i, e := range effects {
		switch {
		case e.Type.IsShadow():
			for _, field := range shadowFields {
				if alias, ok := e.BoundVariables[field]; ok && match(alias) {
					props = append(props, fmt.Sprintf("effects[%d].%s", i, field))
				}
			}
		case e.Type.IsBlur():
			if alias, ok := e.BoundVariables["radius"]; ok && match(alias) {
				props = append(props, fmt.Sprintf("effects[%d].radius", i))
			}
		}
	}
	return props
}

// BaseProperty strips indexes and sub-fields from an attribute path:
// "fills[0].color" -> "fills", "componentProperties.Label" -> "componentProperties"
func BaseProperty(path string) string {
	for i, r := range path {
		if r == '[' || r == '.' {
			return path[:i]
		}
	}
	return path
}
