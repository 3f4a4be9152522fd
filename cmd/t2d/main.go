package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:   "t2d",
	Short: "t2d - diagram pipeline document tools",
	Long:  `t2d validates intent documents, expands them into execution plans, and inspects the shared worker state directory.`,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("t2d %s\n", version)
	},
}

var stateDir string

func init() {
	rootCmd.PersistentFlags().StringVar(&stateDir, "state-dir", ".t2d-state", "state directory shared with workers")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(expandCmd)
	rootCmd.AddCommand(recipesCmd)
	rootCmd.AddCommand(stateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
