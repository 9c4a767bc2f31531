// Package report renders search results as swatch cards: one card per
// variable with its resolved color, match count, usage summary and one line
// per match.
package report

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"tokentrace/internal/application/alias"
	"tokentrace/internal/domain"
	"tokentrace/internal/ports"
)

// DefaultWidth is the card width when none is configured
const DefaultWidth = 72

// Renderer implements ports.ReportRenderer
type Renderer struct {
	out      io.Writer
	lookup   ports.VariableLookup
	resolver *alias.Resolver
	logger   zerolog.Logger
	width    int
	plain    bool
	lg       *lipgloss.Renderer
}

// Ensure Renderer implements ReportRenderer
var _ ports.ReportRenderer = (*Renderer)(nil)

// Option configures a Renderer
type Option func(*Renderer)

// WithWidth sets the card width
func WithWidth(n int) Option {
	return func(r *Renderer) {
		if n > 0 {
			r.width = n
		}
	}
}

// Plain renders the text listing only, without cards
func Plain() Option {
	return func(r *Renderer) { r.plain = true }
}

// New creates a renderer writing to out. lookup resolves each variable's
// default-mode color for its swatch.
func New(out io.Writer, lookup ports.VariableLookup, logger zerolog.Logger, opts ...Option) *Renderer {
	r := &Renderer{
		out:      out,
		lookup:   lookup,
		resolver: alias.NewResolver(lookup, logger),
		logger:   logger,
		width:    DefaultWidth,
		lg:       lipgloss.NewRenderer(out),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render writes the report. When the cards cannot be built a plain listing
// is written instead.
func (r *Renderer) Render(ctx context.Context, results []domain.SearchResult) error {
	entries := make([]entry, 0, len(results))
	for _, res := range results {
		entries = append(entries, r.entryFor(ctx, res))
	}

	var out string
	if r.plain {
		out = listing(entries)
	} else {
		cards, err := r.cards(entries)
		if err != nil {
			r.logger.Warn().Err(err).Msg("swatch cards failed, writing plain listing")
			cards = listing(entries)
		}
		out = cards
	}

	if _, err := io.WriteString(r.out, out); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// entry is one result with its swatch value resolved
type entry struct {
	result domain.SearchResult
	swatch domain.ResolvedValue
}

func (r *Renderer) entryFor(ctx context.Context, res domain.SearchResult) entry {
	e := entry{result: res, swatch: domain.TextResult(domain.Unresolved)}
	if res.Variable == nil {
		return e
	}
	modeID := ""
	if col, err := r.lookup.CollectionByID(ctx, res.Variable.CollectionID); err == nil {
		modeID = col.DefaultModeID
	}
	e.swatch = r.resolver.ResolveVariable(ctx, res.Variable, modeID)
	return e
}

func (r *Renderer) cards(entries []entry) (out string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("card layout: %v", rec)
		}
	}()

	var b strings.Builder
	for _, e := range entries {
		b.WriteString(r.card(e))
		b.WriteString("\n")
	}
	return b.String(), nil
}

func (r *Renderer) card(e entry) string {
	title := r.lg.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	muted := r.lg.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	border := r.lg.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#7C3AED")).
		Padding(0, 1).
		Width(r.width)

	swatch := muted.Render("[" + e.swatch.String() + "]")
	if e.swatch.IsColor() {
		opaque := *e.swatch.Color
		opaque.A = 1
		block := r.lg.NewStyle().Background(lipgloss.Color(opaque.Hex())).Render("      ")
		swatch = block + " " + e.swatch.String()
	}

	var lines []string
	lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, swatch, "  ", title.Render(variableName(e.result))))
	lines = append(lines, muted.Render(headline(e.result)))
	if usage := usageLine(e.result.Summary); usage != "" {
		lines = append(lines, muted.Render(usage))
	}
	if len(e.result.BoundNodes) > 0 {
		lines = append(lines, "")
	}
	for _, n := range e.result.BoundNodes {
		lines = append(lines, nodeLine(n))
	}

	return border.Render(strings.Join(lines, "\n"))
}

// listing is the plain-text form of the report
func listing(entries []entry) string {
	var b bytes.Buffer
	for _, e := range entries {
		fmt.Fprintf(&b, "%s (%s)\n", variableName(e.result), e.swatch)
		fmt.Fprintf(&b, "  %s\n", headline(e.result))
		if usage := usageLine(e.result.Summary); usage != "" {
			fmt.Fprintf(&b, "  %s\n", usage)
		}
		for _, n := range e.result.BoundNodes {
			fmt.Fprintf(&b, "  - %s\n", nodeLine(n))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func variableName(res domain.SearchResult) string {
	if res.Variable == nil {
		return "(unknown variable)"
	}
	return res.Variable.Name
}

func headline(res domain.SearchResult) string {
	unit := "nodes"
	if res.InstancesOnly {
		unit = "instances"
	}
	if res.Summary.TotalNodes == 1 {
		unit = strings.TrimSuffix(unit, "s")
	}
	return fmt.Sprintf("%d %s", res.Summary.TotalNodes, unit)
}

// usageLine lists property usage, most used first
func usageLine(s domain.Summary) string {
	if len(s.PropertyUsage) == 0 {
		return ""
	}
	props := make([]string, 0, len(s.PropertyUsage))
	for p := range s.PropertyUsage {
		props = append(props, p)
	}
	sort.Slice(props, func(i, j int) bool {
		if s.PropertyUsage[props[i]] != s.PropertyUsage[props[j]] {
			return s.PropertyUsage[props[i]] > s.PropertyUsage[props[j]]
		}
		return props[i] < props[j]
	})

	parts := make([]string, 0, len(props))
	for _, p := range props {
		parts = append(parts, fmt.Sprintf("%s %d", p, s.PropertyUsage[p]))
	}
	return strings.Join(parts, " · ")
}

func nodeLine(n domain.BoundNodeInfo) string {
	h := n.Node.Header()
	return fmt.Sprintf("[%s] %s (%s %s): %s", n.PageName, n.PropertyPath, h.Kind, h.ID, strings.Join(n.BoundProperties, ", "))
}
