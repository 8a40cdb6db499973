package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/ponto/pkg/jwt"
	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/spf13/cobra"
)

// newTokenCmd mints bearer tokens signed with the configured secret. It is
// meant for local setups where no external identity provider is running.
func newTokenCmd(app *App) *cobra.Command {
	var (
		claims jwt.Claims
		ttl    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token SUBJECT",
		Short: "Issue an API token for an officer or reviewer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Config == nil || app.Config.JWT.Secret == "" {
				return errors.New("PONTO_JWT_SECRET is required to issue tokens")
			}
			if ttl <= 0 {
				return errors.New("--ttl must be positive")
			}
			tokens, err := jwt.NewTokenService(app.Config.JWT.Secret, app.Config.JWT.Issuer)
			if err != nil {
				return err
			}

			claims.RegisteredClaims = jwtlib.RegisteredClaims{Subject: args[0]}
			signed, err := tokens.Issue(claims, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), signed)
			return nil
		},
	}

	cmd.Flags().StringVar(&claims.Name, "name", "", "Display name")
	cmd.Flags().StringVar(&claims.Rank, "rank", "", "Rank")
	cmd.Flags().StringVar(&claims.Role, "role", "", "Role")
	cmd.Flags().StringSliceVar(&claims.Roles, "roles", nil, "Granted roles: reviewer, admin")
	cmd.Flags().DurationVar(&ttl, "ttl", 12*time.Hour, "Token lifetime")

	return cmd
}
