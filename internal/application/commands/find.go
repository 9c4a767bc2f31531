package commands

import (
	"context"
	"fmt"
	"strings"

	"tokentrace/internal/application"
	"tokentrace/internal/application/search"
	"tokentrace/internal/domain"
	"tokentrace/internal/ports"
)

// FindBoundNodesCommand runs a search for the nodes bound to a set of
// variables
type FindBoundNodesCommand struct {
	svc         *search.Service
	observer    ports.SearchObserver
	VariableIDs []string
	PageID      string
	AllNodes    bool
}

// NewFindBoundNodesCommand creates a new FindBoundNodesCommand
func NewFindBoundNodesCommand(svc *search.Service, observer ports.SearchObserver, variableIDs []string, pageID string, allNodes bool) *FindBoundNodesCommand {
	return &FindBoundNodesCommand{
		svc:         svc,
		observer:    observer,
		VariableIDs: variableIDs,
		PageID:      pageID,
		AllNodes:    allNodes,
	}
}

// Validate checks the request before it is run
func (c *FindBoundNodesCommand) Validate() error {
	return application.ValidateVariableIDs(c.VariableIDs)
}

// Execute runs the search. The observer's OnComplete fires even when
// validation fails.
func (c *FindBoundNodesCommand) Execute(ctx context.Context) ([]domain.SearchResult, error) {
	return c.svc.Run(ctx, search.Request{
		VariableIDs: c.VariableIDs,
		PageID:      c.PageID,
		AllNodes:    c.AllNodes,
	}, c.observer)
}

// CancelSearchCommand stops the running search
type CancelSearchCommand struct {
	svc *search.Service
}

// NewCancelSearchCommand creates a new CancelSearchCommand
func NewCancelSearchCommand(svc *search.Service) *CancelSearchCommand {
	return &CancelSearchCommand{svc: svc}
}

// Execute signals the cancel and reports whether a search was running
func (c *CancelSearchCommand) Execute(ctx context.Context) (bool, error) {
	running := c.svc.Running()
	c.svc.Cancel()
	return running, nil
}

// ResolveVariableRefsCommand turns variable IDs or names into IDs. IDs of
// known variables pass through; anything else is matched against the names
// of local color variables.
type ResolveVariableRefsCommand struct {
	doc  VariableSource
	Refs []string
}

// NewResolveVariableRefsCommand creates a new ResolveVariableRefsCommand
func NewResolveVariableRefsCommand(doc VariableSource, refs []string) *ResolveVariableRefsCommand {
	return &ResolveVariableRefsCommand{doc: doc, Refs: refs}
}

// Execute runs the resolve command
func (c *ResolveVariableRefsCommand) Execute(ctx context.Context) ([]string, error) {
	if err := application.ValidateVariableIDs(c.Refs); err != nil {
		return nil, err
	}

	var byName map[string]string
	ids := make([]string, 0, len(c.Refs))
	for _, ref := range c.Refs {
		ref = strings.TrimSpace(ref)
		if _, err := c.doc.VariableByID(ctx, ref); err == nil {
			ids = append(ids, ref)
			continue
		}

		if byName == nil {
			vars, err := c.doc.ColorVariables(ctx, "")
			if err != nil {
				return nil, err
			}
			byName = make(map[string]string, len(vars))
			for _, v := range vars {
				if _, dup := byName[v.Name]; !dup {
					byName[v.Name] = v.ID
				}
			}
		}

		id, ok := byName[ref]
		if !ok {
			return nil, fmt.Errorf("variable %q: %w", ref, application.ErrNotFound)
		}
		ids = append(ids, id)
	}

	return ids, nil
}
