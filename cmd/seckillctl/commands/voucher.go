package commands

import (
	"context"
	"fmt"

	"seckill-service/internal/infra/seckill"
	"seckill-service/internal/usecase/commands"

	"github.com/spf13/cobra"
)

var (
	voucherID int64

	voucherCmd = &cobra.Command{
		Use:   "voucher",
		Short: "Seckill voucher operations",
	}

	voucherPreloadCmd = &cobra.Command{
		Use:   "preload",
		Short: "Copy the stored sale state of a voucher into Redis",
		Long: `Copy stock, sale window and the users already holding an order
from PostgreSQL into Redis. Use it after Redis lost its data.`,
		RunE: runVoucherPreload,
	}

	voucherStockCmd = &cobra.Command{
		Use:   "stock",
		Short: "Print the remaining admission stock held in Redis",
		RunE:  runVoucherStock,
	}
)

func init() {
	voucherCmd.AddCommand(voucherPreloadCmd)
	voucherCmd.AddCommand(voucherStockCmd)

	voucherCmd.PersistentFlags().Int64Var(&voucherID, "id", 0, "voucher ID")
	_ = voucherCmd.MarkPersistentFlagRequired("id")
}

func runVoucherPreload(cmd *cobra.Command, _ []string) error {
	var vouchers commands.VoucherCommands
	return withGraph(cmd, func(ctx context.Context) error {
		if err := vouchers.Preload(ctx, voucherID); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "voucher %d preloaded\n", voucherID)
		return nil
	}, &vouchers)
}

func runVoucherStock(cmd *cobra.Command, _ []string) error {
	var gate *seckill.Gate
	return withGraph(cmd, func(ctx context.Context) error {
		n, err := gate.Stock(ctx, voucherID)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "voucher %d stock %d\n", voucherID, n)
		return nil
	}, &gate)
}
