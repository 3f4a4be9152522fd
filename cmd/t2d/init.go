package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/t2dkit/t2d/internal/setup"
)

var initName string

var initCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Scaffold a project with a starter recipe",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := "."
		if len(args) == 1 {
			dir = args[0]
		}
		recipePath, err := setup.Run(dir, initName)
		if err != nil {
			return err
		}
		fmt.Printf("created %s\n", recipePath)
		return nil
	},
}

func init() {
	initCmd.Flags().StringVar(&initName, "name", "", "project name (defaults to the directory basename)")
}
