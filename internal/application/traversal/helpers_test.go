package traversal

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"tokentrace/internal/adapters/document"
	"tokentrace/internal/domain"
)

var target = domain.Variable{
	ID:           "V",
	Key:          "K1",
	Name:         "color/brand/primary",
	ResolvedType: domain.ResolvedTypeColor,
}

func variables() []domain.Variable {
	return []domain.Variable{
		target,
		{ID: "V-lib", Key: "K1", Name: "color/brand/primary", ResolvedType: domain.ResolvedTypeColor, Remote: true},
		{ID: "W", Key: "K2", Name: "color/other", ResolvedType: domain.ResolvedTypeColor},
	}
}

func colorBinding(id string) map[string]domain.VariableAlias {
	return map[string]domain.VariableAlias{"color": {ID: id}}
}

func solid(id string) []domain.Paint {
	return []domain.Paint{{Type: domain.PaintSolid, BoundVariables: colorBinding(id)}}
}

func frame(id, name string, children ...domain.SceneNode) *domain.ContainerNode {
	return &domain.ContainerNode{
		NodeHeader: domain.NodeHeader{ID: id, Name: name, Kind: domain.KindFrame},
		Nodes:      children,
	}
}

func instance(id, name string, children ...domain.SceneNode) *domain.InstanceNode {
	return &domain.InstanceNode{
		NodeHeader: domain.NodeHeader{ID: id, Name: name, Kind: domain.KindInstance},
		Nodes:      children,
	}
}

func text(id, name string, fills []domain.Paint) *domain.TextNode {
	return &domain.TextNode{
		NodeHeader: domain.NodeHeader{ID: id, Name: name, Kind: domain.KindText},
		Styles:     domain.Styles{Fills: fills},
	}
}

func rect(id, name string, fills []domain.Paint) *domain.ShapeNode {
	return &domain.ShapeNode{
		NodeHeader: domain.NodeHeader{ID: id, Name: name, Kind: domain.KindRectangle},
		Styles:     domain.Styles{Fills: fills},
	}
}

func page(id, name string, nodes ...domain.SceneNode) *domain.Page {
	return &domain.Page{ID: id, Name: name, Nodes: nodes}
}

// flatPage returns a page with n rectangles, every one bound to the target
func flatPage(n int) *domain.Page {
	p := page("p", "Flat")
	for i := 0; i < n; i++ {
		p.Nodes = append(p.Nodes, rect(fmt.Sprintf("r%d", i), fmt.Sprintf("Rect %d", i), solid("V")))
	}
	return p
}

func newEngine(pages ...*domain.Page) *Engine {
	doc := document.New(document.Contents{Variables: variables(), Pages: pages})
	return NewEngine(doc, nil, zerolog.Nop(), WithYielder(func(context.Context) {}))
}

func ids(records []domain.BoundNodeInfo) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.Node.Header().ID)
	}
	return out
}
