package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/l7mp/linq/internal/buildinfo"
)

// NewVersionCommand returns the command to get the linq version.
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Return the linq version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "linq %s\n", buildinfo.Get())
			return err
		},
	}
}
