package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jengzang/casemap-backend-go/internal/auth"
)

// NewTokenCommand creates the token command
func NewTokenCommand() *cobra.Command {
	var subject string

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint an admin token for the reload endpoint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			if err := cfg.Auth.Validate(); err != nil {
				return err
			}

			signer := auth.NewSigner(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.TokenTTL)
			token, err := signer.Issue(subject, auth.RoleAdmin)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "admin", "token subject")
	return cmd
}
