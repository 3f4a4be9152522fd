package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/t2dkit/t2d/internal/compat"
	"github.com/t2dkit/t2d/internal/consistency"
	"github.com/t2dkit/t2d/internal/discovery"
	"github.com/t2dkit/t2d/internal/model"
)

var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Validate an intent or execution-plan document",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	var errs model.ErrorList
	if strings.HasSuffix(path, discovery.PlanSuffix) {
		plan, parseErrs := model.ParsePlan(data)
		errs = parseErrs
		if plan != nil {
			errs.Merge(compat.ResolvePlan(plan))
			errs.Merge(consistency.Check(plan))
		}
	} else {
		_, errs = model.ParseIntent(data)
	}

	if len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintln(os.Stderr, e.Error())
		}
		return fmt.Errorf("%s: %d validation error(s)", path, len(errs))
	}

	fmt.Printf("%s is valid\n", path)
	return nil
}
