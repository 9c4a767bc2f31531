package ports

import (
	"context"

	"tokentrace/internal/domain"
)

// VariableLookup resolves variables and collections by ID.
// Lookups for unknown IDs return an error matching application.ErrNotFound.
type VariableLookup interface {
	VariableByID(ctx context.Context, id string) (*domain.Variable, error)
	CollectionByID(ctx context.Context, id string) (*domain.VariableCollection, error)
}

// VariableCatalog enumerates the document's variables
type VariableCatalog interface {
	Collections(ctx context.Context) ([]domain.VariableCollection, error)

	// ColorVariables lists local COLOR variables, optionally restricted to
	// one collection when collectionID is non-empty.
	ColorVariables(ctx context.Context, collectionID string) ([]domain.Variable, error)
}

// SceneGraph exposes the document's pages and node trees
type SceneGraph interface {
	Pages(ctx context.Context) ([]*domain.Page, error)
	CurrentPageID(ctx context.Context) string
}

// FontLoader prepares fonts for the visual report
type FontLoader interface {
	LoadFont(ctx context.Context, font domain.FontName) error
}

// Document is the full host capability set consumed by the application
type Document interface {
	VariableLookup
	VariableCatalog
	SceneGraph
	FontLoader
}
