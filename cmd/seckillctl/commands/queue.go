package commands

import (
	"context"
	"fmt"
	"sort"

	"seckill-service/internal/pkg/config"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

var (
	queueCmd = &cobra.Command{
		Use:   "queue",
		Short: "Inspect the order stream",
	}

	queuePendingCmd = &cobra.Command{
		Use:   "pending",
		Short: "Summarize delivered but unacknowledged order intents",
		RunE:  runQueuePending,
	}
)

func init() {
	queueCmd.AddCommand(queuePendingCmd)
}

func runQueuePending(cmd *cobra.Command, _ []string) error {
	var (
		rdb redis.Cmdable
		cfg config.Config
	)
	return withGraph(cmd, func(ctx context.Context) error {
		p, err := rdb.XPending(ctx, cfg.Seckill.Stream, cfg.Seckill.Group).Result()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "stream %s group %s pending %d\n", cfg.Seckill.Stream, cfg.Seckill.Group, p.Count)
		if p.Count == 0 {
			return nil
		}
		fmt.Fprintf(out, "oldest %s newest %s\n", p.Lower, p.Higher)

		names := make([]string, 0, len(p.Consumers))
		for name := range p.Consumers {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(out, "  %s\t%d\n", name, p.Consumers[name])
		}
		return nil
	}, &rdb, &cfg)
}
