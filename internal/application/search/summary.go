package search

import (
	"tokentrace/internal/application/traversal"
	"tokentrace/internal/domain"
)

// Summarize aggregates match records by node kind and by base property
func Summarize(records []domain.BoundNodeInfo) domain.Summary {
	s := domain.Summary{
		TotalNodes:    len(records),
		NodesByType:   make(map[domain.NodeKind]int),
		PropertyUsage: make(map[string]int),
	}
	for _, r := range records {
		s.NodesByType[r.Node.Header().Kind]++
		for _, p := range r.BoundProperties {
			s.PropertyUsage[traversal.BaseProperty(p)]++
		}
	}
	return s
}
