// Package traversal walks a document's scene-node forest looking for nodes
// bound to a target variable.
package traversal

import (
	"context"
	"runtime"
	"strings"

	"github.com/rs/zerolog"

	"tokentrace/internal/application/identity"
	"tokentrace/internal/domain"
	"tokentrace/internal/metrics"
	"tokentrace/internal/ports"
)

// DefaultProgressInterval is how many inspected nodes pass between progress
// reports
const DefaultProgressInterval = 10

// Source is the part of the host document a traversal reads
type Source interface {
	ports.SceneGraph
	ports.VariableLookup
}

// Callbacks connect a traversal to its observer. Every field is optional.
type Callbacks struct {
	OnProgress        func(current, total, found int)
	OnStreamingResult func(domain.StreamingResult)
	ShouldCancel      func() bool
}

// Options select what a traversal visits
type Options struct {
	InstancesOnly    bool
	PageID           string // empty means every page
	ProgressInterval int    // defaults to DefaultProgressInterval
}

// Outcome is what a traversal found and how far it got
type Outcome struct {
	Records   []domain.BoundNodeInfo
	Inspected int
	Total     int
	Cancelled bool
}

// Yielder hands control back to the scheduler for one tick after a
// progress report
type Yielder func(ctx context.Context)

// Engine runs traversals against one document
type Engine struct {
	src     Source
	metrics *metrics.Metrics
	logger  zerolog.Logger
	yield   Yielder
}

// EngineOption configures an Engine
type EngineOption func(*Engine)

// WithYielder replaces the default runtime.Gosched yield
func WithYielder(y Yielder) EngineOption {
	return func(e *Engine) {
		e.yield = y
	}
}

// NewEngine creates a traversal engine over src
func NewEngine(src Source, m *metrics.Metrics, logger zerolog.Logger, opts ...EngineOption) *Engine {
	e := &Engine{
		src:     src,
		metrics: m,
		logger:  logger,
		yield:   func(context.Context) { runtime.Gosched() },
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Traverse finds every node bound to target. In instances-only mode matches
// collapse onto their enclosing instance and at most one record is kept per
// instance name. Cancellation stops the walk between nodes and keeps what
// was found so far.
func (e *Engine) Traverse(ctx context.Context, target *domain.Variable, opts Options, cb Callbacks) (Outcome, error) {
	pages, err := e.src.Pages(ctx)
	if err != nil {
		return Outcome{}, err
	}

	if opts.PageID != "" {
		pages = selectPage(pages, opts.PageID)
		if len(pages) == 0 {
			e.logger.Warn().Str("page_id", opts.PageID).Msg("page not found, nothing to search")
			return Outcome{}, nil
		}
	}

	if opts.ProgressInterval <= 0 {
		opts.ProgressInterval = DefaultProgressInterval
	}

	matcher := identity.NewMatcher(e.src, target, e.metrics, e.logger)
	w := &walker{
		ctx:    ctx,
		engine: e,
		target: target,
		opts:   opts,
		cb:     cb,
		match: func(alias domain.VariableAlias) bool {
			return matcher.IsMatch(ctx, alias)
		},
		seen:  make(map[string]struct{}),
		total: countNodes(pages, opts.InstancesOnly),
	}

	e.logger.Debug().
		Str("variable_id", target.ID).
		Bool("instances_only", opts.InstancesOnly).
		Int("pages", len(pages)).
		Int("total", w.total).
		Msg("traversal started")

	for _, page := range pages {
		w.page = page
		if !w.walkPage(page) {
			break
		}
	}

	return Outcome{
		Records:   w.records,
		Inspected: w.processed,
		Total:     w.total,
		Cancelled: w.cancelled,
	}, nil
}

func selectPage(pages []*domain.Page, id string) []*domain.Page {
	for _, p := range pages {
		if p.ID == id {
			return []*domain.Page{p}
		}
	}
	return nil
}

// countNodes counts the nodes a traversal in the given mode will inspect
func countNodes(pages []*domain.Page, instancesOnly bool) int {
	total := 0
	for _, page := range pages {
		for _, top := range page.Nodes {
			domain.Walk(top, func(n domain.SceneNode) bool {
				if !instancesOnly {
					total++
					return true
				}
				if n.Header().Kind == domain.KindInstance {
					total += subtreeSize(n)
					return false
				}
				return true
			})
		}
	}
	return total
}

func subtreeSize(node domain.SceneNode) int {
	size := 0
	domain.Walk(node, func(domain.SceneNode) bool {
		size++
		return true
	})
	return size
}

// walker holds the state of one traversal. Its methods return false once
// the walk has been cancelled so every caller unwinds.
type walker struct {
	ctx    context.Context
	engine *Engine
	target *domain.Variable
	opts   Options
	cb     Callbacks
	match  MatchFunc

	page      *domain.Page
	total     int
	processed int
	records   []domain.BoundNodeInfo
	seen      map[string]struct{} // instance names already recorded
	cancelled bool
}

func (w *walker) walkPage(page *domain.Page) bool {
	for _, top := range page.Nodes {
		var ok bool
		if w.opts.InstancesOnly {
			ok = w.findInstances(top, nil)
		} else {
			ok = w.visit(top, nil)
		}
		if !ok {
			return false
		}
	}
	return true
}

// visit inspects node and its descendants, one record per matching node
func (w *walker) visit(node domain.SceneNode, ancestors []string) bool {
	if w.stopped() {
		return false
	}
	w.tick()

	if props := w.inspect(node); len(props) > 0 {
		w.records = append(w.records, domain.BoundNodeInfo{
			Node:            node,
			BoundProperties: props,
			PropertyPath:    joinPath(ancestors, node),
			PageName:        w.page.Name,
		})
	}

	ancestors = append(ancestors, node.Header().Name)
	for _, child := range node.Children() {
		if !w.visit(child, ancestors) {
			return false
		}
	}
	return true
}

// findInstances descends until it reaches instance roots, which are then
// inspected as a whole
func (w *walker) findInstances(node domain.SceneNode, ancestors []string) bool {
	if node.Header().Kind == domain.KindInstance {
		return w.visitInstance(node, node, joinPath(ancestors, node))
	}
	if w.stopped() {
		return false
	}

	ancestors = append(ancestors, node.Header().Name)
	for _, child := range node.Children() {
		if !w.findInstances(child, ancestors) {
			return false
		}
	}
	return true
}

// visitInstance inspects node, a descendant of root (or root itself), and
// collapses any match onto root
func (w *walker) visitInstance(root, node domain.SceneNode, rootPath string) bool {
	if w.stopped() {
		return false
	}
	w.tick()

	name := root.Header().Name
	if _, recorded := w.seen[name]; !recorded {
		if props := w.inspect(node); len(props) > 0 {
			w.seen[name] = struct{}{}
			w.records = append(w.records, domain.BoundNodeInfo{
				Node:            root,
				BoundProperties: props,
				PropertyPath:    rootPath,
				PageName:        w.page.Name,
			})
			w.stream(root)
		}
	}

	for _, child := range node.Children() {
		if !w.visitInstance(root, child, rootPath) {
			return false
		}
	}
	return true
}

func (w *walker) stopped() bool {
	if w.cancelled {
		return true
	}
	if w.ctx.Err() != nil || (w.cb.ShouldCancel != nil && w.cb.ShouldCancel()) {
		w.cancelled = true
	}
	return w.cancelled
}

// tick counts one node and reports progress at the first node, every
// ProgressInterval nodes and the last node
func (w *walker) tick() {
	w.processed++
	if w.total == 0 || w.cb.OnProgress == nil {
		return
	}
	if w.processed == 1 || w.processed%w.opts.ProgressInterval == 0 || w.processed == w.total {
		w.cb.OnProgress(w.processed, w.total, len(w.records))
		w.engine.yield(w.ctx)
	}
}

// inspect returns node's matching attribute paths. A fault on one node is
// logged and treated as no match.
func (w *walker) inspect(node domain.SceneNode) (props []string) {
	defer func() {
		if r := recover(); r != nil {
			w.engine.logger.Error().
				Str("node_id", node.Header().ID).
				Str("variable_id", w.target.ID).
				Interface("panic", r).
				Msg("node inspection failed")
			props = nil
		}
	}()
	return BoundProperties(node, w.match)
}

func (w *walker) stream(root domain.SceneNode) {
	if w.cb.OnStreamingResult == nil {
		return
	}
	h := root.Header()
	w.cb.OnStreamingResult(domain.StreamingResult{
		VariableID:   w.target.ID,
		VariableName: w.target.Name,
		InstanceNode: domain.InstanceRef{
			ID:       h.ID,
			Name:     h.Name,
			Type:     h.Kind,
			PageName: w.page.Name,
		},
	})
}

func joinPath(ancestors []string, node domain.SceneNode) string {
	parts := make([]string, 0, len(ancestors)+1)
	parts = append(parts, ancestors...)
	parts = append(parts, node.Header().Name)
	return strings.Join(parts, " > ")
}
