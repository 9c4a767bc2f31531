package domain

// NodeKind is the host's node type tag
type NodeKind string

const (
	KindFrame            NodeKind = "FRAME"
	KindGroup            NodeKind = "GROUP"
	KindSection          NodeKind = "SECTION"
	KindComponent        NodeKind = "COMPONENT"
	KindComponentSet     NodeKind = "COMPONENT_SET"
	KindBooleanOperation NodeKind = "BOOLEAN_OPERATION"
	KindInstance         NodeKind = "INSTANCE"
	KindText             NodeKind = "TEXT"
	KindRectangle        NodeKind = "RECTANGLE"
	KindEllipse          NodeKind = "ELLIPSE"
	KindPolygon          NodeKind = "POLYGON"
	KindStar             NodeKind = "STAR"
	KindLine             NodeKind = "LINE"
	KindVector           NodeKind = "VECTOR"
)

// IsContainer reports whether nodes of this kind may own children
func (k NodeKind) IsContainer() bool {
	switch k {
	case KindFrame, KindGroup, KindSection, KindComponent, KindComponentSet, KindBooleanOperation, KindInstance:
		return true
	}
	return false
}

// PaintType tags a fill or stroke
type PaintType string

const (
	PaintSolid          PaintType = "SOLID"
	PaintGradientLinear PaintType = "GRADIENT_LINEAR"
	PaintGradientRadial PaintType = "GRADIENT_RADIAL"
	PaintImage          PaintType = "IMAGE"
)

// Paint is one entry of a fills or strokes list
type Paint struct {
	Type           PaintType
	Color          RGBA
	BoundVariables map[string]VariableAlias // "color"
}

// EffectType tags an effect
type EffectType string

const (
	EffectDropShadow     EffectType = "DROP_SHADOW"
	EffectInnerShadow    EffectType = "INNER_SHADOW"
	EffectLayerBlur      EffectType = "LAYER_BLUR"
	EffectBackgroundBlur EffectType = "BACKGROUND_BLUR"
)

// IsShadow reports whether the effect is a drop or inner shadow
func (t EffectType) IsShadow() bool {
	return t == EffectDropShadow || t == EffectInnerShadow
}

// IsBlur reports whether the effect is a layer or background blur
func (t EffectType) IsBlur() bool {
	return t == EffectLayerBlur || t == EffectBackgroundBlur
}

// Effect is one entry of an effects list
type Effect struct {
	Type           EffectType
	BoundVariables map[string]VariableAlias // color, offsetX, offsetY, radius, spread
}

// ComponentProperty is a named property exposed by an instance
type ComponentProperty struct {
	Type           string // BOOLEAN, TEXT, INSTANCE_SWAP, VARIANT
	Value          string
	BoundVariables map[string]VariableAlias // "value"
}

// NodeHeader carries the attributes every node has
type NodeHeader struct {
	ID     string
	Name   string
	Kind   NodeKind
	Hidden bool
	Locked bool
}

// Header returns the node's common attributes
func (h *NodeHeader) Header() *NodeHeader {
	return h
}

// Styles carries the paint, effect and generic binding slots
type Styles struct {
	Fills          []Paint
	Strokes        []Paint
	Effects        []Effect
	BoundVariables map[string]VariableAlias // width, height, paddingLeft, ...
}

// SceneNode is the closed set of node variants. Only the types in this
// package implement it.
type SceneNode interface {
	Header() *NodeHeader
	Children() []SceneNode
	sceneNode()
}

// ContainerNode is a frame, group, section, component or boolean operation
type ContainerNode struct {
	NodeHeader
	Styles
	Nodes []SceneNode
}

// ShapeNode is a leaf vector shape
type ShapeNode struct {
	NodeHeader
	Styles
}

// TextNode is a text layer
type TextNode struct {
	NodeHeader
	Styles
	Characters string
}

// InstanceNode is an occurrence of a reusable component
type InstanceNode struct {
	NodeHeader
	Styles
	ComponentProperties map[string]ComponentProperty
	Nodes               []SceneNode
}

func (n *ContainerNode) Children() []SceneNode { return n.Nodes }
func (n *ShapeNode) Children() []SceneNode     { return nil }
func (n *TextNode) Children() []SceneNode      { return nil }
func (n *InstanceNode) Children() []SceneNode  { return n.Nodes }

func (*ContainerNode) sceneNode() {}
func (*ShapeNode) sceneNode()     {}
func (*TextNode) sceneNode()      {}
func (*InstanceNode) sceneNode()  {}

// Page is a top-level canvas of the document
type Page struct {
	ID    string
	Name  string
	Nodes []SceneNode
}

// PageInfo is the listing entry for a page
type PageInfo struct {
	ID   string
	Name string
}

// Walk visits node and its descendants in pre-order. Returning false from
// fn skips the node's children.
func Walk(node SceneNode, fn func(SceneNode) bool) {
	if !fn(node) {
		return
	}
	for _, child := range node.Children() {
		Walk(child, fn)
	}
}
