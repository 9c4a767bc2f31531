package ports

import "tokentrace/internal/domain"

// SearchObserver receives fire-and-forget notifications from a running
// search. Notifications for one variable arrive in traversal order and
// OnComplete is always the last call of a request.
type SearchObserver interface {
	OnProgress(p domain.Progress)
	OnStreamingResult(r domain.StreamingResult)
	OnComplete()
}
