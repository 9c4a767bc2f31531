package search

import "sync/atomic"

// Cancellation is the cancel flag of one search request. It may be set from
// any goroutine and is observed by the traversal at its next node check.
type Cancellation struct {
	flag atomic.Bool
}

// Cancel asks the request to stop
func (c *Cancellation) Cancel() {
	c.flag.Store(true)
}

// Cancelled reports whether Cancel has been called
func (c *Cancellation) Cancelled() bool {
	return c.flag.Load()
}
