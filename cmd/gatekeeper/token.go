package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/gatekeeper/pkg/jwt"
)

func tokenCmd() *cobra.Command {
	var tenantID, role string
	cmd := &cobra.Command{
		Use:   "token <user-id>",
		Short: "Mint a development token signed with JWT_SECRET",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			gk := cfg.Gatekeeper
			tokens, err := jwt.NewFromString(gk.JWTSecret, jwt.WithIssuer(gk.JWTIssuer), jwt.WithTTL(gk.JWTTTL))
			if err != nil {
				return err
			}
			token, err := tokens.Issue(args[0], tenantID, role)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}
	cmd.Flags().StringVar(&tenantID, "tenant", "", "tenant_id claim")
	cmd.Flags().StringVar(&role, "role", "", "role claim")
	return cmd
}
