package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status <project-id>",
		Short: "Show sourcing status for a project",
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
			runCtx := cmd.Context()
			project, err := rt.store.Project(runCtx, projectID)
			if err != nil {
				return err
			}
			if project == nil {
				return fmt.Errorf("project %s not found", projectID)
			}

			scenes, err := rt.store.ScenesByProject(runCtx, projectID)
			if err != nil {
				return err
			}
			counts, err := rt.store.SuggestionCounts(runCtx, projectID)
			if err != nil {
				return err
			}
			attempted, err := rt.store.SceneIDsWithSuggestions(runCtx, projectID)
			if err != nil {
				return err
			}
			attemptedSet := make(map[string]struct{}, len(attempted))
			for _, id := range attempted {
				attemptedSet[id] = struct{}{}
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Project: %s (%s)\n", project.Title, project.ID)
			fmt.Fprintf(out, "Status: %s  Visuals generated: %s\n", project.Status, yesNo(project.VisualsGenerated))
			if project.TargetDuration > 0 {
				fmt.Fprintf(out, "Covered duration: %.1fs of %.1fs\n", project.TotalDuration, project.TargetDuration)
			}

			rows := make([][]string, 0, len(scenes))
			for _, scene := range scenes {
				duration := "-"
				if scene.HasDuration() {
					duration = fmt.Sprintf("%.1fs", scene.Duration)
				}
				state := "pending"
				if _, ok := attemptedSet[scene.ID]; ok {
					if counts[scene.ID] > 0 {
						state = "sourced"
					} else {
						state = "no match"
					}
				}
				rows = append(rows, []string{
					strconv.Itoa(scene.SceneNumber),
					duration,
					strconv.Itoa(counts[scene.ID]),
					state,
				})
			}
			fmt.Fprintln(out, renderTable([]string{"Scene", "Duration", "Suggestions", "State"}, rows, 1, 2, 3))
			return nil
		},
	}
}
