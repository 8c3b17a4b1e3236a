// Package cli holds the console's command line entry points.
package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCommand assembles the console command tree.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "medicare-console",
		Short: "MediCare Pro admin console",
		Long: `medicare-console is the operator console for the MediCare Pro hospital backend.

It keeps the operator's session token, renders the protected admin views and
gates each of them on the signed-in role.

Configuration comes from the environment (and an optional .env file), e.g.
BACKEND_BASE_URL, STORAGE_DRIVER, APP_PORT.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newServeCommand(),
		newLoginCommand(),
		newLogoutCommand(),
		newWhoamiCommand(),
	)
	return root
}
