// Package cli wires the portal's commands: the HTTP server plus a few
// offline tools for operators.
package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCommand creates the root command for the portal binary.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "restaurantportal",
		Short: "Restaurant portal backend",
		Long:  "Owner API, public menu and order endpoints for embeddable restaurant widgets.",
	}

	cmd.AddCommand(NewServeCommand())
	cmd.AddCommand(NewIndexesCommand())
	cmd.AddCommand(NewPriceCommand())
	cmd.AddCommand(NewSlotsCommand())

	return cmd
}
