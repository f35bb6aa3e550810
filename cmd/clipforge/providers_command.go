package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"clipforge/internal/providers"
)

func newProvidersCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "providers",
		Short: "List configured content providers",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			catalog, err := providers.LoadCatalog(cfg.Paths.ProviderCatalog)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			rows := make([][]string, 0, len(catalog)+1)
			if cfg.YouTube.APIKey != "" {
				rows = append(rows, []string{"youtube", "YouTube", "standard", "-", "yes"})
			}
			for _, entry := range catalog {
				rows = append(rows, []string{
					entry.ID,
					entry.Name,
					"pipeline",
					strconv.Itoa(entry.Priority),
					yesNo(entry.Enabled),
				})
			}
			if len(rows) == 0 {
				fmt.Fprintln(out, "No providers configured. Set youtube.api_key or add a provider catalog.")
				return nil
			}

			fmt.Fprintln(out, renderTable([]string{"ID", "Name", "Mode", "Priority", "Enabled"}, rows, 4))
			return nil
		},
	}
}
