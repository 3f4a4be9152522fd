package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/t2dkit/t2d/internal/discovery"
	"github.com/t2dkit/t2d/internal/model"
	"github.com/t2dkit/t2d/internal/state"
	"github.com/t2dkit/t2d/internal/transform"
)

var expandOut string

var expandCmd = &cobra.Command{
	Use:   "expand [intent-file]",
	Short: "Expand an intent document into an execution plan",
	Args:  cobra.ExactArgs(1),
	RunE:  runExpand,
}

func init() {
	expandCmd.Flags().StringVarP(&expandOut, "output", "o", "", "output path (default: <name>"+discovery.PlanSuffix+")")
}

func runExpand(cmd *cobra.Command, args []string) error {
	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	intent, errs := model.ParseIntent(data)
	if len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintln(os.Stderr, e.Error())
		}
		return fmt.Errorf("%s: %d validation error(s)", path, len(errs))
	}

	plan, err := transform.Expand(intent, path)
	if err != nil {
		return err
	}

	out := expandOut
	if out == "" {
		out = strings.TrimSuffix(path, ".yaml") + discovery.PlanSuffix
	}
	serialized, err := model.SerializePlan(plan)
	if err != nil {
		return fmt.Errorf("serialize plan: %w", err)
	}
	if err := os.WriteFile(out, serialized, 0644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}

	if err := recordExpansion(plan); err != nil {
		return err
	}

	fmt.Printf("expanded %s → %s (%d diagram jobs, %d content files)\n",
		path, out, len(plan.DiagramJobs), len(plan.ContentFiles))
	return nil
}

// recordExpansion seeds the shared state directory: a processing record for
// the run and a coordination record wiring content files to wait on the
// diagrams they embed.
func recordExpansion(plan *model.ExecutionPlanDocument) error {
	store, err := state.NewStore(stateDir)
	if err != nil {
		return err
	}

	proc := state.NewProcessingState(plan.Name)
	proc.Phase = state.PhaseGenerating
	for _, job := range plan.DiagramJobs {
		proc.SetDiagram(job.ID, string(model.StatusPending), "")
	}
	if err := store.WriteWithBackup(state.ProcessingKey(plan.Name), proc); err != nil {
		return fmt.Errorf("record processing state: %w", err)
	}

	coord := state.NewCoordination(plan.Name)
	for _, job := range plan.DiagramJobs {
		coord.Register(job.ID)
	}
	for _, cf := range plan.ContentFiles {
		coord.Register(cf.ID)
		coord.SetDependencies(cf.ID, cf.DiagramRefs)
	}
	if err := store.WriteWithBackup(plan.Name+".coordination", coord); err != nil {
		return fmt.Errorf("record coordination state: %w", err)
	}

	return nil
}
