// Command gatekeeper runs the request identity pipeline in front of demo
// pages and provides maintenance commands for its directory.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:           "gatekeeper",
		Short:         "Tenant, locale and access resolution for multi-tenant web apps",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringSliceVar(&envFiles, "env-file", nil, "load variables from these .env files (default ./.env when present)")

	root.AddCommand(serveCmd(), migrateCmd(), tenantCmd(), tokenCmd())

	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
