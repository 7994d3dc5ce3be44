package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/l7mp/linq/pkg/visualize"
)

func newExplainCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "explain",
		Short: "Print the operator chain of a query as a diagram",
		Long:  "Compile a query without evaluating it and render its operator chain as a Graphviz DOT or Mermaid diagram.",
		Args:  cobra.NoArgs,
		PreRun: func(cmd *cobra.Command, _ []string) {
			flags := cmd.Flags()
			MustBindPFlag(sourceFlag, flags.Lookup(sourceFlag))
			MustBindPFlag(queryFlag, flags.Lookup(queryFlag))
			MustBindPFlag(formatFlag, flags.Lookup(formatFlag))
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			gen, err := visualize.NewGenerator(viper.GetString(formatFlag))
			if err != nil {
				return err
			}

			p, conn, err := a.open()
			if err != nil {
				return err
			}
			defer conn.Close()

			seq, err := p.Compile(conn)
			if err != nil {
				return err
			}

			g := visualize.BuildGraph(p.Query().From, seq.Lineage())
			_, err = fmt.Fprint(cmd.OutOrStdout(), gen.Generate(g))
			return err
		},
	}

	addSourceFlag(cmd)
	cmd.Flags().String(queryFlag, "", "(required) path of the query file")
	cmd.Flags().String(formatFlag, "dot", "diagram format: dot or mermaid")

	return cmd
}
