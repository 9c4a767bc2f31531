package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"tokentrace/internal/adapters/document"
	"tokentrace/internal/config"
	"tokentrace/internal/logger"
)

var (
	documentPath string
	logLevel     string
	cfg          *config.Config
	doc          *document.Document
	log          zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "tokentrace-cli",
	Short: "Find the nodes bound to color variables in a design document",
	Long: `tokentrace-cli searches an exported design document for nodes whose
fills, strokes, effects, text segments or component properties are bound
to color variables.

It provides commands to list collections, pages and color variables, run
searches and show recent search history.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip initialization for help commands
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		log = logger.New(logger.Config{Level: logLevel, Pretty: cfg.LogPretty, Output: os.Stderr})
		if cmd.Annotations["document"] == "none" {
			return nil
		}
		if documentPath == "" {
			return fmt.Errorf("no document: pass --document or set %s", config.EnvDocument)
		}
		d, err := document.Load(documentPath)
		if err != nil {
			return err
		}
		doc = d
		return nil
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	c, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		c = config.Default()
	}
	cfg = c

	rootCmd.PersistentFlags().StringVarP(&documentPath, "document", "d", cfg.Document, "path to the exported document")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
}

// GetDocument returns the loaded document
func GetDocument() *document.Document {
	return doc
}
