package commands

import (
	"context"
	"fmt"
	"time"

	"seckill-service/internal/usecase/commands"

	"github.com/spf13/cobra"
)

var (
	warmupIDs []int64
	warmupTTL time.Duration

	warmupCmd = &cobra.Command{
		Use:   "warmup",
		Short: "Preheat logical-expiry cache entries",
	}

	warmupShopsCmd = &cobra.Command{
		Use:   "shops",
		Short: "Load shops into the cache with a logical expiry",
		RunE:  runWarmupShops,
	}
)

func init() {
	warmupCmd.AddCommand(warmupShopsCmd)

	warmupShopsCmd.Flags().Int64SliceVar(&warmupIDs, "ids", nil, "comma separated shop IDs")
	warmupShopsCmd.Flags().DurationVar(&warmupTTL, "ttl", 0, "logical TTL (defaults to CACHE_SHOP_TTL)")
	_ = warmupShopsCmd.MarkFlagRequired("ids")
}

func runWarmupShops(cmd *cobra.Command, _ []string) error {
	var shops commands.ShopCommands
	return withGraph(cmd, func(ctx context.Context) error {
		n, err := shops.WarmUp(ctx, warmupIDs, warmupTTL)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "warmed %d of %d shops\n", n, len(warmupIDs))
		return nil
	}, &shops)
}
