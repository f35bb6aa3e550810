package main

import (
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"clipforge/internal/api"
	"clipforge/internal/logging"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the sourcing API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			// One serving instance per data directory.
			lock := flock.New(filepath.Join(cfg.Paths.DataDir, "clipforge.lock"))
			locked, err := lock.TryLock()
			if err != nil {
				return fmt.Errorf("acquire instance lock: %w", err)
			}
			if !locked {
				return fmt.Errorf("another clipforge instance is already serving from %s", cfg.Paths.DataDir)
			}
			defer func() {
				_ = lock.Unlock()
			}()

			rt, err := buildRuntime(cfg)
			if err != nil {
				return err
			}
			defer rt.Close()

			runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			server := api.NewServer(cfg, rt.store, rt.orchestrator, rt.registry, rt.logger)
			if server == nil {
				return fmt.Errorf("no api bind address configured")
			}
			if err := server.Start(runCtx); err != nil {
				return err
			}
			defer server.Stop()

			fmt.Fprintf(cmd.OutOrStdout(), "clipforge serving on %s\n", server.Addr())
			<-runCtx.Done()
			rt.logger.Info("shutting down", logging.String("reason", runCtx.Err().Error()))
			return nil
		},
	}
}
