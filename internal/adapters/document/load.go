package document

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"tokentrace/internal/application"
	"tokentrace/internal/domain"
)

// Format is the encoding of an exported document
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

// FormatFor picks the format from a file extension, defaulting to JSON
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Load reads and parses an exported document
func Load(path string) (*Document, error) {
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, &application.DocumentError{Path: path, Reason: err.Error()}
		}
		path = filepath.Join(home, path[1:])
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &application.DocumentError{Path: path, Reason: err.Error()}
	}

	doc, err := Parse(data, FormatFor(path))
	if err != nil {
		return nil, &application.DocumentError{Path: path, Reason: err.Error()}
	}
	doc.path = path
	return doc, nil
}

// Parse decodes an exported document
func Parse(data []byte, format Format) (*Document, error) {
	if format == FormatYAML {
		var generic any
		if err := yaml.Unmarshal(data, &generic); err != nil {
			return nil, fmt.Errorf("decoding yaml: %w", err)
		}
		converted, err := json.Marshal(generic)
		if err != nil {
			return nil, fmt.Errorf("converting yaml: %w", err)
		}
		data = converted
	}

	var f fileDocument
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decoding json: %w", err)
	}
	return New(f.contents()), nil
}

const aliasType = "VARIABLE_ALIAS"

type fileDocument struct {
	Name          string           `json:"name"`
	CurrentPageID string           `json:"currentPageId"`
	Fonts         []fileFont       `json:"fonts"`
	Collections   []fileCollection `json:"collections"`
	Variables     []fileVariable   `json:"variables"`
	Pages         []fileNode       `json:"pages"`
}

type fileFont struct {
	Family string `json:"family"`
	Style  string `json:"style"`
}

type fileMode struct {
	ModeID string `json:"modeId"`
	Name   string `json:"name"`
}

type fileCollection struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	DefaultModeID string     `json:"defaultModeId"`
	Modes         []fileMode `json:"modes"`
	Remote        bool       `json:"remote"`
}

type fileVariable struct {
	ID           string                     `json:"id"`
	Key          string                     `json:"key"`
	Name         string                     `json:"name"`
	Description  string                     `json:"description"`
	ResolvedType string                     `json:"resolvedType"`
	CollectionID string                     `json:"variableCollectionId"`
	Remote       bool                       `json:"remote"`
	ValuesByMode map[string]json.RawMessage `json:"valuesByMode"`
}

type fileAlias struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

type fileColor struct {
	R float64  `json:"r"`
	G float64  `json:"g"`
	B float64  `json:"b"`
	A *float64 `json:"a"`
}

type filePaint struct {
	Type           string               `json:"type"`
	Color          *fileColor           `json:"color"`
	BoundVariables map[string]fileAlias `json:"boundVariables"`
}

type fileEffect struct {
	Type           string               `json:"type"`
	BoundVariables map[string]fileAlias `json:"boundVariables"`
}

type fileComponentProperty struct {
	Type           string               `json:"type"`
	Value          any                  `json:"value"`
	BoundVariables map[string]fileAlias `json:"boundVariables"`
}

type fileNode struct {
	ID                  string                           `json:"id"`
	Name                string                           `json:"name"`
	Type                string                           `json:"type"`
	Visible             *bool                            `json:"visible"`
	Locked              bool                             `json:"locked"`
	Characters          string                           `json:"characters"`
	Fills               []filePaint                      `json:"fills"`
	Strokes             []filePaint                      `json:"strokes"`
	Effects             []fileEffect                     `json:"effects"`
	BoundVariables      map[string]json.RawMessage       `json:"boundVariables"`
	ComponentProperties map[string]fileComponentProperty `json:"componentProperties"`
	Children            []fileNode                       `json:"children"`
}

func (f *fileDocument) contents() Contents {
	c := Contents{
		Name:          f.Name,
		CurrentPageID: f.CurrentPageID,
	}

	if f.Fonts != nil {
		c.Fonts = make([]domain.FontName, 0, len(f.Fonts))
		for _, font := range f.Fonts {
			c.Fonts = append(c.Fonts, domain.FontName{Family: font.Family, Style: font.Style})
		}
	}

	for _, col := range f.Collections {
		modes := make([]domain.Mode, 0, len(col.Modes))
		for _, m := range col.Modes {
			modes = append(modes, domain.Mode{ModeID: m.ModeID, Name: m.Name})
		}
		c.Collections = append(c.Collections, domain.VariableCollection{
			ID:            col.ID,
			Name:          col.Name,
			DefaultModeID: col.DefaultModeID,
			Modes:         modes,
			Remote:        col.Remote,
		})
	}

	for _, v := range f.Variables {
		values := make(map[string]domain.VariableValue, len(v.ValuesByMode))
		for modeID, raw := range v.ValuesByMode {
			values[modeID] = parseValue(raw)
		}
		c.Variables = append(c.Variables, domain.Variable{
			ID:           v.ID,
			Key:          v.Key,
			Name:         v.Name,
			Description:  v.Description,
			ResolvedType: domain.ResolvedType(v.ResolvedType),
			CollectionID: v.CollectionID,
			ValuesByMode: values,
			Remote:       v.Remote,
		})
	}

	for _, p := range f.Pages {
		page := &domain.Page{ID: p.ID, Name: p.Name}
		for _, child := range p.Children {
			page.Nodes = append(page.Nodes, child.node())
		}
		c.Pages = append(c.Pages, page)
	}

	return c
}

// parseValue recognises aliases and literal colors; anything else is kept
// as an unknown value
func parseValue(raw json.RawMessage) domain.VariableValue {
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return domain.VariableValue{}
	}

	if t, _ := fields["type"].(string); t == aliasType {
		if id, ok := fields["id"].(string); ok {
			return domain.AliasValue(id)
		}
		return domain.VariableValue{}
	}

	r, okR := fields["r"].(float64)
	g, okG := fields["g"].(float64)
	b, okB := fields["b"].(float64)
	if !okR || !okG || !okB {
		return domain.VariableValue{}
	}
	a := 1.0
	if v, ok := fields["a"].(float64); ok {
		a = v
	}
	return domain.ColorValue(domain.RGBA{R: r, G: g, B: b, A: a})
}

func (n *fileNode) node() domain.SceneNode {
	header := domain.NodeHeader{
		ID:     n.ID,
		Name:   n.Name,
		Kind:   domain.NodeKind(n.Type),
		Hidden: n.Visible != nil && !*n.Visible,
		Locked: n.Locked,
	}
	styles := domain.Styles{
		Fills:          paints(n.Fills),
		Strokes:        paints(n.Strokes),
		Effects:        effects(n.Effects),
		BoundVariables: scalarBindings(n.BoundVariables),
	}

	var children []domain.SceneNode
	for i := range n.Children {
		children = append(children, n.Children[i].node())
	}

	switch {
	case header.Kind == domain.KindInstance:
		return &domain.InstanceNode{
			NodeHeader:          header,
			Styles:              styles,
			ComponentProperties: componentProperties(n.ComponentProperties),
			Nodes:               children,
		}
	case header.Kind == domain.KindText:
		return &domain.TextNode{NodeHeader: header, Styles: styles, Characters: n.Characters}
	case header.Kind.IsContainer() || len(children) > 0:
		return &domain.ContainerNode{NodeHeader: header, Styles: styles, Nodes: children}
	default:
		return &domain.ShapeNode{NodeHeader: header, Styles: styles}
	}
}

func paints(in []filePaint) []domain.Paint {
	if len(in) == 0 {
		return nil
	}
	out := make([]domain.Paint, 0, len(in))
	for _, p := range in {
		paint := domain.Paint{
			Type:           domain.PaintType(p.Type),
			BoundVariables: aliases(p.BoundVariables),
		}
		if p.Color != nil {
			a := 1.0
			if p.Color.A != nil {
				a = *p.Color.A
			}
			paint.Color = domain.RGBA{R: p.Color.R, G: p.Color.G, B: p.Color.B, A: a}
		}
		out = append(out, paint)
	}
	return out
}

func effects(in []fileEffect) []domain.Effect {
	if len(in) == 0 {
		return nil
	}
	out := make([]domain.Effect, 0, len(in))
	for _, e := range in {
		out = append(out, domain.Effect{
			Type:           domain.EffectType(e.Type),
			BoundVariables: aliases(e.BoundVariables),
		})
	}
	return out
}

func componentProperties(in map[string]fileComponentProperty) map[string]domain.ComponentProperty {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]domain.ComponentProperty, len(in))
	for name, p := range in {
		value := ""
		if p.Value != nil {
			value = fmt.Sprint(p.Value)
		}
		out[name] = domain.ComponentProperty{
			Type:           p.Type,
			Value:          value,
			BoundVariables: aliases(p.BoundVariables),
		}
	}
	return out
}

func aliases(in map[string]fileAlias) map[string]domain.VariableAlias {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]domain.VariableAlias, len(in))
	for field, a := range in {
		if a.ID == "" {
			continue
		}
		out[field] = domain.VariableAlias{ID: a.ID}
	}
	return out
}

// scalarBindings keeps node-level bindings that hold a single alias.
// List-valued entries (fills, strokes, effects) are read from the paints.
func scalarBindings(in map[string]json.RawMessage) map[string]domain.VariableAlias {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]domain.VariableAlias, len(in))
	for field, raw := range in {
		var a fileAlias
		if err := json.Unmarshal(raw, &a); err != nil || a.ID == "" {
			continue
		}
		out[field] = domain.VariableAlias{ID: a.ID}
	}
	return out
}
