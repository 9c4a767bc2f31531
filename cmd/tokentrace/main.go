package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"tokentrace/internal/adapters/document"
	"tokentrace/internal/adapters/editor"
	"tokentrace/internal/adapters/sqlite"
	"tokentrace/internal/adapters/tui"
	"tokentrace/internal/application/search"
	"tokentrace/internal/config"
	"tokentrace/internal/logger"
	"tokentrace/internal/metrics"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	docFlag := flag.String("document", cfg.Document, "path to the exported document")
	logFlag := flag.String("log-file", "", "write logs to this file instead of discarding them")
	flag.Parse()

	// The alt screen owns the terminal, so logs only go to a file.
	logCfg := logger.Config{Level: cfg.LogLevel}
	if *logFlag != "" {
		f, err := os.OpenFile(*logFlag, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer f.Close()
		logCfg.Output = f
	} else {
		logCfg.Level = "disabled"
	}
	log := logger.New(logCfg)

	doc, err := document.Load(*docFlag)
	if err != nil {
		return err
	}

	historyPath := cfg.HistoryPath
	if historyPath == "" {
		historyPath = sqlite.DefaultPath()
	}
	history, err := sqlite.Open(historyPath, logger.Component(log, "history"))
	if err != nil {
		return err
	}
	defer history.Close()

	svc := search.NewService(doc, logger.Component(log, "search"),
		search.WithHistory(history),
		search.WithMetrics(metrics.New(nil)),
		search.WithFonts(cfg.Fonts.Primary, cfg.Fonts.Fallback),
		search.WithProgressInterval(cfg.ProgressInterval),
	)

	app := tui.NewApp(doc, svc, editor.NewOpener(), logger.Component(log, "tui"), cfg.Report.Width)

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}
