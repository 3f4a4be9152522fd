package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/t2dkit/t2d/internal/state"
)

var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Inspect the shared worker state directory",
}

var stateListCmd = &cobra.Command{
	Use:   "list",
	Short: "List state keys",
	RunE:  runStateList,
}

var stateGetRecover bool

var stateGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Print a state entry",
	Args:  cobra.ExactArgs(1),
	RunE:  runStateGet,
}

var stateDeleteCmd = &cobra.Command{
	Use:   "delete [key]",
	Short: "Delete a state entry",
	Args:  cobra.ExactArgs(1),
	RunE:  runStateDelete,
}

var stateCleanDays int

var stateCleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove state entries older than a cutoff",
	RunE:  runStateClean,
}

var stateWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Stream state-key changes until interrupted",
	RunE:  runStateWatch,
}

func init() {
	stateGetCmd.Flags().BoolVar(&stateGetRecover, "recover", false, "fall back to backup/truncation recovery on parse failure")
	stateCleanCmd.Flags().IntVar(&stateCleanDays, "days", 30, "remove entries older than this many days")

	stateCmd.AddCommand(stateListCmd)
	stateCmd.AddCommand(stateGetCmd)
	stateCmd.AddCommand(stateDeleteCmd)
	stateCmd.AddCommand(stateCleanCmd)
	stateCmd.AddCommand(stateWatchCmd)
}

func openStore() (*state.Store, error) {
	return state.NewStore(stateDir)
}

func runStateList(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	keys, err := store.ListKeys()
	if err != nil {
		return err
	}
	for _, key := range keys {
		fmt.Println(key)
	}
	return nil
}

func runStateGet(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}

	var value any
	if stateGetRecover {
		if !store.Recover(args[0], &value) {
			return fmt.Errorf("state key %q not recoverable", args[0])
		}
	} else {
		ok, err := store.Read(args[0], &value)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("state key %q not found", args[0])
		}
	}

	out, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func runStateDelete(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	existed, err := store.Delete(args[0])
	if err != nil {
		return err
	}
	if !existed {
		return fmt.Errorf("state key %q not found", args[0])
	}
	fmt.Printf("deleted %s\n", args[0])
	return nil
}

func runStateClean(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	removed, err := store.CleanupOlderThan(stateCleanDays)
	if err != nil {
		return err
	}
	fmt.Printf("removed %d state entries older than %d days\n", removed, stateCleanDays)
	return nil
}

func runStateWatch(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}

	done := make(chan struct{})
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sig
		close(done)
	}()

	events, err := store.Watch(done)
	if err != nil {
		return err
	}
	for ev := range events {
		fmt.Printf("%s\t%s\n", ev.Op, ev.Key)
	}
	return nil
}
