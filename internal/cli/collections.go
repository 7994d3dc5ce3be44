package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newCollectionsCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "collections",
		Short: "List the collections of a data source",
		Args:  cobra.NoArgs,
		PreRun: func(cmd *cobra.Command, _ []string) {
			MustBindPFlag(sourceFlag, cmd.Flags().Lookup(sourceFlag))
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			conn, err := a.registry.Connect(viper.GetString(sourceFlag))
			if err != nil {
				return err
			}
			defer conn.Close()

			for _, name := range conn.Collections() {
				seq, err := conn.Collection(name)
				if err != nil {
					return err
				}
				n, err := seq.Count()
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d\n", name, n)
			}
			return nil
		},
	}

	addSourceFlag(cmd)

	return cmd
}
