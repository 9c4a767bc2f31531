package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"tokentrace/internal/adapters/editor"
	"tokentrace/internal/adapters/report"
	"tokentrace/internal/adapters/sqlite"
	"tokentrace/internal/application/commands"
	"tokentrace/internal/application/search"
	"tokentrace/internal/domain"
	"tokentrace/internal/logger"
	"tokentrace/internal/metrics"
	"tokentrace/internal/ports"
)

var (
	findPage     string
	findAllNodes bool
	findReport   string
	findOpen     bool
	findQuiet    bool
)

var findCmd = &cobra.Command{
	Use:   "find <variable>...",
	Short: "Find nodes bound to color variables",
	Long: `Find the nodes bound to one or more color variables. Variables may be
given by ID or by name.

By default matches are collapsed onto their outermost component instance.
Use --all-nodes to list every bound node instead. Ctrl-C cancels the search
and prints what was found so far.

Examples:
  tokentrace-cli find VariableID:1:2
  tokentrace-cli find surface/primary text/muted --page 0:1
  tokentrace-cli find surface/primary --all-nodes --report report.txt --open`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if findOpen && findReport == "" {
			return fmt.Errorf("--open needs --report")
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		doc := GetDocument()
		ids, err := commands.NewResolveVariableRefsCommand(doc, args).Execute(ctx)
		if err != nil {
			return err
		}

		out := os.Stdout
		if findReport != "" {
			f, err := os.Create(findReport)
			if err != nil {
				return fmt.Errorf("failed to create report: %w", err)
			}
			defer f.Close()
			out = f
		}

		var history ports.SearchHistory
		if h, err := openHistory(); err != nil {
			log.Warn().Err(err).Msg("search history disabled")
		} else {
			defer h.Close()
			history = h
		}
		svc := searchService(doc, out, findReport != "", history)

		// a second interrupt falls through to the default handler
		go func() {
			<-ctx.Done()
			stop()
			commands.NewCancelSearchCommand(svc).Execute(context.Background())
		}()

		var observer ports.SearchObserver
		if !findQuiet {
			observer = progressPrinter{}
		}
		findCmd := commands.NewFindBoundNodesCommand(svc, observer, ids, findPage, findAllNodes)
		if _, err := findCmd.Execute(context.Background()); err != nil {
			return err
		}

		if findOpen {
			return editor.NewOpener().OpenFile(findReport)
		}
		return nil
	},
}

// searchService builds the service for one find invocation. The report is
// written to out when the search finishes; a failed write is only logged.
func searchService(doc ports.Document, out io.Writer, plain bool, history ports.SearchHistory) *search.Service {
	renderOpts := []report.Option{report.WithWidth(cfg.Report.Width)}
	if plain {
		renderOpts = append(renderOpts, report.Plain())
	}
	var renderer ports.ReportRenderer = report.New(out, doc, logger.Component(log, "report"), renderOpts...)
	if !findQuiet {
		renderer = statusClearing{renderer}
	}

	opts := []search.Option{
		search.WithRenderer(renderer),
		search.WithMetrics(metrics.New(nil)),
		search.WithFonts(cfg.Fonts.Primary, cfg.Fonts.Fallback),
		search.WithProgressInterval(cfg.ProgressInterval),
	}
	if history != nil {
		opts = append(opts, search.WithHistory(history))
	}
	return search.NewService(doc, logger.Component(log, "search"), opts...)
}

// statusClearing wipes the progress line before the report is written
type statusClearing struct {
	ports.ReportRenderer
}

func (r statusClearing) Render(ctx context.Context, results []domain.SearchResult) error {
	fmt.Fprint(os.Stderr, "\r\033[K")
	return r.ReportRenderer.Render(ctx, results)
}

func openHistory() (*sqlite.History, error) {
	path := cfg.HistoryPath
	if path == "" {
		path = sqlite.DefaultPath()
	}
	return sqlite.Open(path, logger.Component(log, "history"))
}

// progressPrinter writes one status line per progress event to stderr
type progressPrinter struct{}

func (progressPrinter) OnProgress(pr domain.Progress) {
	fmt.Fprintf(os.Stderr, "\r[%d/%d] %-32s %3d%%  %d/%d nodes, %d found",
		pr.CurrentVariableIndex+1, pr.TotalVariables,
		truncate(pr.CurrentVariableName, 32),
		pr.Percentage, pr.Current, pr.Total, pr.NodesFound)
}

func (progressPrinter) OnStreamingResult(r domain.StreamingResult) {
	fmt.Fprintf(os.Stderr, "\r\033[K  %s: %s (%s)\n", r.VariableName, r.InstanceNode.Name, r.InstanceNode.ID)
}

func (progressPrinter) OnComplete() {
	fmt.Fprint(os.Stderr, "\r\033[K")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func init() {
	findCmd.Flags().StringVarP(&findPage, "page", "p", "", "only search this page")
	findCmd.Flags().BoolVarP(&findAllNodes, "all-nodes", "a", false, "list every bound node instead of collapsing onto instances")
	findCmd.Flags().StringVarP(&findReport, "report", "r", "", "write a plain report to this file instead of stdout")
	findCmd.Flags().BoolVar(&findOpen, "open", false, "open the report file in $EDITOR")
	findCmd.Flags().BoolVarP(&findQuiet, "quiet", "q", false, "do not print progress")

	rootCmd.AddCommand(findCmd)
}
