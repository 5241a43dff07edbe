package commands

import (
	"fmt"

	"seckill-service/internal/domain/user"
	"seckill-service/internal/pkg/config"
	"seckill-service/internal/pkg/errs"
	"seckill-service/internal/pkg/jwt"

	"github.com/spf13/cobra"
)

var (
	tokenUser int64
	tokenRole string

	tokenCmd = &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token signed with JWT_SECRET",
		RunE:  runToken,
	}
)

func init() {
	tokenCmd.Flags().Int64Var(&tokenUser, "user", 0, "user ID")
	tokenCmd.Flags().StringVar(&tokenRole, "role", string(user.RoleCustomer), "customer, operator or admin")
	_ = tokenCmd.MarkFlagRequired("user")
}

// runToken only needs the JWT settings, so it skips the fx graph and its
// database requirements.
func runToken(cmd *cobra.Command, _ []string) error {
	role, err := user.NewRole(tokenRole)
	if err != nil {
		return err
	}
	if tokenUser <= 0 {
		return errs.New("--user must be positive")
	}
	var cfg config.JWTConfig
	if err := config.LoadJWT(&cfg); err != nil {
		return err
	}
	token, err := jwt.NewService(cfg.Secret, cfg.Duration).GenerateToken(tokenUser, role)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), token)
	return nil
}
