package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"tokentrace/internal/application/commands"
	"tokentrace/internal/logger"
)

var collectionsCmd = &cobra.Command{
	Use:   "collections",
	Short: "List variable collections",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		listCmd := commands.NewListCollectionsCommand(GetDocument())
		collections, err := listCmd.Execute(ctx)
		if err != nil {
			return err
		}

		for _, c := range collections {
			origin := "local"
			if c.Remote {
				origin = "remote"
			}
			fmt.Printf("%s %s (%d modes, %s)\n", c.ID, c.Name, len(c.Modes), origin)
		}
		return nil
	},
}

var pagesCmd = &cobra.Command{
	Use:   "pages",
	Short: "List pages",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		listCmd := commands.NewListPagesCommand(GetDocument())
		result, err := listCmd.Execute(ctx)
		if err != nil {
			return err
		}

		for _, p := range result.Pages {
			marker := " "
			if p.ID == result.CurrentPageID {
				marker = "*"
			}
			fmt.Printf("%s %s %s\n", marker, p.ID, p.Name)
		}
		return nil
	},
}

var collectionID string

var variablesCmd = &cobra.Command{
	Use:   "variables",
	Short: "List color variables",
	Long: `List color variables with their value in every mode.

Examples:
  tokentrace-cli variables
  tokentrace-cli variables --collection VariableCollectionId:1:0`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		listCmd := commands.NewListColorVariablesCommand(GetDocument(), logger.Component(log, "commands"), collectionID)
		vars, err := listCmd.Execute(ctx)
		if err != nil {
			return err
		}

		for _, v := range vars {
			fmt.Printf("%s %s\n", v.ID, v.Name)
			for _, m := range v.Modes {
				fmt.Printf("    %s: %s\n", m.Name, v.Values[m.ModeID])
			}
		}
		return nil
	},
}

func init() {
	variablesCmd.Flags().StringVarP(&collectionID, "collection", "c", "", "only list variables of this collection")

	rootCmd.AddCommand(collectionsCmd)
	rootCmd.AddCommand(pagesCmd)
	rootCmd.AddCommand(variablesCmd)
}
