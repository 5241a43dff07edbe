// Package commands holds the seckillctl operator commands. Every command
// builds only the part of the fx graph it needs from the service's own
// bootstrap modules, so configuration comes from the same environment.
package commands

import (
	"context"
	"os"
	"time"

	"seckill-service/cmd/bootstrap"

	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

var (
	timeout time.Duration

	// RootCmd is the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:          "seckillctl",
		Short:        "Operator tooling for the seckill service",
		SilenceUsage: true,
	}
)

func init() {
	RootCmd.AddCommand(warmupCmd)
	RootCmd.AddCommand(voucherCmd)
	RootCmd.AddCommand(tokenCmd)
	RootCmd.AddCommand(queueCmd)

	RootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "overall deadline for the command")
}

// Execute is called by main.main.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// withGraph starts the infra graph, fills targets and runs fn.
func withGraph(cmd *cobra.Command, fn func(ctx context.Context) error, targets ...any) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	app := fx.New(
		bootstrap.InfraModule,
		fx.NopLogger,
		fx.Populate(targets...),
	)
	if err := app.Start(ctx); err != nil {
		return err
	}
	defer func() {
		stopCtx, stopCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer stopCancel()
		_ = app.Stop(stopCtx)
	}()

	return fn(ctx)
}
