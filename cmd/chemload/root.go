package main

import (
	perr "chemload/internal/platform/errors"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

const (
	appName   = "chemload"
	envPrefix = "CHEMLOAD_"
)

// Version is stamped at build time
var Version = "dev"

// NewRootCmd builds the command tree
func NewRootCmd() *cobra.Command {
	var envFiles []string

	root := &cobra.Command{
		Use:   appName,
		Short: "Bulk load compressed compound files into a SQL table",
		Long: `chemload streams a compressed text file of "<structure> <identifier>" lines
into a freshly recreated two-column table, inside a single transaction.

Connection and load settings come from CHEMLOAD_DB_* and CHEMLOAD_LOAD_*
environment variables (optionally via .env files); flags override them.`,
		Version: Version,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			if len(envFiles) == 0 {
				return nil
			}
			if err := godotenv.Load(envFiles...); err != nil {
				return perr.Wrap(err, perr.ErrorCodeIO, "load env file")
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringSliceVar(&envFiles, "env-file", nil, "extra .env files to read before resolving config")

	root.AddCommand(newLoadCmd())
	root.AddCommand(newCheckCmd())
	root.AddCommand(newPingCmd())
	return root
}
