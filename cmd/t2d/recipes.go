package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/t2dkit/t2d/internal/discovery"
)

var recipesDir string

var recipesCmd = &cobra.Command{
	Use:   "recipes",
	Short: "Discover pipeline documents",
}

var recipesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List intent and execution-plan documents",
	RunE:  runRecipesList,
}

func init() {
	recipesCmd.PersistentFlags().StringVar(&recipesDir, "dir", "./recipes", "directory to scan")
	recipesCmd.AddCommand(recipesListCmd)
}

func runRecipesList(cmd *cobra.Command, args []string) error {
	intents, err := discovery.Intents(recipesDir)
	if err != nil {
		return fmt.Errorf("scan intents: %w", err)
	}
	plans, err := discovery.Plans(recipesDir)
	if err != nil {
		return fmt.Errorf("scan plans: %w", err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tKIND\tVALID\tERRORS\tMODIFIED")
	for _, s := range intents {
		fmt.Fprintf(w, "%s\tintent\t%t\t%d\t%s\n", s.Name, s.Valid, s.ErrorCount, s.Modified.Format("2006-01-02 15:04"))
	}
	for _, s := range plans {
		fmt.Fprintf(w, "%s\tplan\t%t\t%d\t%s\n", s.Name, s.Valid, s.ErrorCount, s.Modified.Format("2006-01-02 15:04"))
	}
	return w.Flush()
}
