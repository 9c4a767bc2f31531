package commands

import (
	"context"

	"github.com/rs/zerolog"

	"tokentrace/internal/application/alias"
	"tokentrace/internal/domain"
	"tokentrace/internal/ports"
)

// ListCollectionsCommand lists the document's local variable collections
type ListCollectionsCommand struct {
	catalog ports.VariableCatalog
}

// NewListCollectionsCommand creates a new ListCollectionsCommand
func NewListCollectionsCommand(catalog ports.VariableCatalog) *ListCollectionsCommand {
	return &ListCollectionsCommand{catalog: catalog}
}

// Execute runs the list collections command
func (c *ListCollectionsCommand) Execute(ctx context.Context) ([]domain.VariableCollection, error) {
	return c.catalog.Collections(ctx)
}

// PagesResult contains the document's pages and the page the user is on
type PagesResult struct {
	Pages         []domain.PageInfo
	CurrentPageID string
}

// ListPagesCommand lists the document's pages
type ListPagesCommand struct {
	scene ports.SceneGraph
}

// NewListPagesCommand creates a new ListPagesCommand
func NewListPagesCommand(scene ports.SceneGraph) *ListPagesCommand {
	return &ListPagesCommand{scene: scene}
}

// Execute runs the list pages command
func (c *ListPagesCommand) Execute(ctx context.Context) (*PagesResult, error) {
	pages, err := c.scene.Pages(ctx)
	if err != nil {
		return nil, err
	}

	infos := make([]domain.PageInfo, 0, len(pages))
	for _, p := range pages {
		infos = append(infos, domain.PageInfo{ID: p.ID, Name: p.Name})
	}

	return &PagesResult{
		Pages:         infos,
		CurrentPageID: c.scene.CurrentPageID(ctx),
	}, nil
}

// VariableSource is what listing color variables needs from the document
type VariableSource interface {
	ports.VariableCatalog
	ports.VariableLookup
}

// ListColorVariablesCommand lists local color variables with every mode
// resolved through aliases
type ListColorVariablesCommand struct {
	doc          VariableSource
	resolver     *alias.Resolver
	CollectionID string // empty lists every collection
}

// NewListColorVariablesCommand creates a new ListColorVariablesCommand
func NewListColorVariablesCommand(doc VariableSource, logger zerolog.Logger, collectionID string) *ListColorVariablesCommand {
	return &ListColorVariablesCommand{
		doc:          doc,
		resolver:     alias.NewResolver(doc, logger),
		CollectionID: collectionID,
	}
}

// Execute runs the list color variables command. A variable whose
// collection cannot be found is listed without modes.
func (c *ListColorVariablesCommand) Execute(ctx context.Context) ([]domain.ColorVariable, error) {
	vars, err := c.doc.ColorVariables(ctx, c.CollectionID)
	if err != nil {
		return nil, err
	}

	out := make([]domain.ColorVariable, 0, len(vars))
	for i := range vars {
		v := &vars[i]
		entry := domain.ColorVariable{
			ID:           v.ID,
			Name:         v.Name,
			Description:  v.Description,
			CollectionID: v.CollectionID,
			Values:       make(map[string]domain.ResolvedValue),
			Local:        !v.Remote,
		}

		if col, err := c.doc.CollectionByID(ctx, v.CollectionID); err == nil {
			entry.DefaultModeID = col.DefaultModeID
			entry.Modes = col.Modes
			for _, mode := range col.Modes {
				entry.Values[mode.ModeID] = c.resolver.ResolveVariable(ctx, v, mode.ModeID)
			}
		}

		out = append(out, entry)
	}

	return out, nil
}
