package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"clipforge/internal/services"
)

func newGenerateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "generate <project-id>",
		Short: "Source and rank visual candidates for a project's scenes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			rt, err := buildRuntime(cfg)
			if err != nil {
				return err
			}
			defer rt.Close()

			projectID := args[0]
			out := cmd.OutOrStdout()
			outcome, err := rt.orchestrator.Generate(cmd.Context(), projectID)
			if err != nil {
				if outcome != nil && outcome.ScenesProcessed > 0 {
					fmt.Fprintf(out, "Run stopped after %d scene(s): %v\n", outcome.ScenesProcessed, err)
				}
				if errors.Is(err, services.ErrQuotaExceeded) {
					return fmt.Errorf("provider quota exhausted; already-sourced scenes keep their suggestions: %w", err)
				}
				return err
			}

			fmt.Fprintf(out, "Scenes processed:      %d\n", outcome.ScenesProcessed)
			fmt.Fprintf(out, "Suggestions generated: %d\n", outcome.SuggestionsGenerated)
			if outcome.Provider != "" {
				fmt.Fprintf(out, "Provider:              %s\n", outcome.Provider)
			}
			if outcome.TargetDuration > 0 {
				fmt.Fprintf(out, "Covered duration:      %.1fs of %.1fs\n", outcome.TotalDuration, outcome.TargetDuration)
			}
			for _, sceneErr := range outcome.Errors {
				fmt.Fprintf(out, "Failed: %s\n", sceneErr.String())
			}
			return nil
		},
	}
}
