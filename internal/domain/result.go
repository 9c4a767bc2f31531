package domain

import "time"

// BoundNodeInfo is a match record: a node (or enclosing instance) with at
// least one binding to the searched variable.
type BoundNodeInfo struct {
	Node            SceneNode
	BoundProperties []string // e.g., "fills[0].color", "componentProperties.Label"
	PropertyPath    string   // ancestor chain, e.g., "Page 1 > Card > Button/Primary"
	PageName        string
}

// Summary aggregates a variable's match records
type Summary struct {
	TotalNodes    int
	NodesByType   map[NodeKind]int
	PropertyUsage map[string]int // by base property name, e.g., "fills"
}

// SearchResult is the outcome of searching one variable
type SearchResult struct {
	Variable      *Variable
	BoundNodes    []BoundNodeInfo
	Summary       Summary
	InstancesOnly bool
}

// Progress is emitted while a variable is being searched
type Progress struct {
	Current              int
	Total                int
	Percentage           int
	NodesFound           int
	CurrentVariableName  string
	CurrentVariableIndex int
	TotalVariables       int
}

// InstanceRef is the minimal descriptor sent with a streaming result
type InstanceRef struct {
	ID       string
	Name     string
	Type     NodeKind
	PageName string
}

// StreamingResult announces a newly found instance before the search ends
type StreamingResult struct {
	VariableID   string
	VariableName string
	InstanceNode InstanceRef
}

// SearchRun is a recorded search request
type SearchRun struct {
	ID            string
	StartedAt     time.Time
	Duration      time.Duration
	PageID        string
	InstancesOnly bool
	Cancelled     bool
	Variables     []RunVariable
}

// RunVariable is one variable's outcome within a recorded run
type RunVariable struct {
	VariableID   string
	VariableName string
	Matches      int
}

// TotalMatches returns the sum of matches across the run's variables
func (r SearchRun) TotalMatches() int {
	total := 0
	for _, v := range r.Variables {
		total += v.Matches
	}
	return total
}
