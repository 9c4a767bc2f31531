package application

import "tokentrace/internal/domain"

// Re-export domain types for use by adapters
type (
	SearchResult    = domain.SearchResult
	BoundNodeInfo   = domain.BoundNodeInfo
	Progress        = domain.Progress
	StreamingResult = domain.StreamingResult
	ColorVariable   = domain.ColorVariable
	PageInfo        = domain.PageInfo
	SearchRun       = domain.SearchRun
)

// NodeKindOf returns the kind tag of a scene node
func NodeKindOf(node domain.SceneNode) domain.NodeKind {
	if node == nil {
		return ""
	}
	return node.Header().Kind
}
