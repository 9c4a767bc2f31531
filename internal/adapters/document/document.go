// Package document implements the host document ports over an exported
// design file (JSON or YAML) held in memory.
package document

import (
	"context"
	"fmt"

	"tokentrace/internal/application"
	"tokentrace/internal/domain"
	"tokentrace/internal/ports"
)

// Contents is everything a document holds, in document order
type Contents struct {
	Name          string
	Collections   []domain.VariableCollection
	Variables     []domain.Variable
	Pages         []*domain.Page
	CurrentPageID string
	Fonts         []domain.FontName // nil means every font is available
}

// Document implements ports.Document over Contents
type Document struct {
	name          string
	path          string
	collections   []*domain.VariableCollection
	collectionIdx map[string]*domain.VariableCollection
	variables     []*domain.Variable
	variableIdx   map[string]*domain.Variable
	pages         []*domain.Page
	currentPageID string
	fonts         map[domain.FontName]bool
}

// Ensure Document implements the host capability set
var _ ports.Document = (*Document)(nil)

// New indexes c into a Document
func New(c Contents) *Document {
	d := &Document{
		name:          c.Name,
		collectionIdx: make(map[string]*domain.VariableCollection, len(c.Collections)),
		variableIdx:   make(map[string]*domain.Variable, len(c.Variables)),
		pages:         c.Pages,
		currentPageID: c.CurrentPageID,
	}

	for i := range c.Collections {
		col := &c.Collections[i]
		d.collections = append(d.collections, col)
		d.collectionIdx[col.ID] = col
	}
	for i := range c.Variables {
		v := &c.Variables[i]
		d.variables = append(d.variables, v)
		d.variableIdx[v.ID] = v
	}

	if c.Fonts != nil {
		d.fonts = make(map[domain.FontName]bool, len(c.Fonts))
		for _, f := range c.Fonts {
			d.fonts[f] = true
		}
	}

	if d.currentPageID == "" && len(d.pages) > 0 {
		d.currentPageID = d.pages[0].ID
	}

	return d
}

// Name returns the document's display name
func (d *Document) Name() string {
	return d.name
}

// Path returns the file the document was loaded from, if any
func (d *Document) Path() string {
	return d.path
}

// VariableByID looks up a local or library variable
func (d *Document) VariableByID(ctx context.Context, id string) (*domain.Variable, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	v, ok := d.variableIdx[id]
	if !ok {
		return nil, &application.NotFoundError{Kind: "variable", ID: id}
	}
	return v, nil
}

// CollectionByID looks up a variable collection
func (d *Document) CollectionByID(ctx context.Context, id string) (*domain.VariableCollection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	col, ok := d.collectionIdx[id]
	if !ok {
		return nil, &application.NotFoundError{Kind: "collection", ID: id}
	}
	return col, nil
}

// Collections lists the local variable collections
func (d *Document) Collections(ctx context.Context) ([]domain.VariableCollection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out []domain.VariableCollection
	for _, col := range d.collections {
		if col.Remote {
			continue
		}
		out = append(out, *col)
	}
	return out, nil
}

// ColorVariables lists local COLOR variables, optionally for one collection
func (d *Document) ColorVariables(ctx context.Context, collectionID string) ([]domain.Variable, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if collectionID != "" {
		if _, ok := d.collectionIdx[collectionID]; !ok {
			return nil, &application.NotFoundError{Kind: "collection", ID: collectionID}
		}
	}

	var out []domain.Variable
	for _, v := range d.variables {
		if v.Remote || !v.IsColor() {
			continue
		}
		if collectionID != "" && v.CollectionID != collectionID {
			continue
		}
		out = append(out, *v)
	}
	return out, nil
}

// Pages returns the document's pages in order
func (d *Document) Pages(ctx context.Context) ([]*domain.Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return d.pages, nil
}

// CurrentPageID returns the page the document was exported with open
func (d *Document) CurrentPageID(_ context.Context) string {
	return d.currentPageID
}

// LoadFont succeeds when the document declares the font available
func (d *Document) LoadFont(ctx context.Context, font domain.FontName) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if d.fonts == nil || d.fonts[font] {
		return nil
	}
	return fmt.Errorf("font %s %s: %w", font.Family, font.Style, application.ErrNotFound)
}
