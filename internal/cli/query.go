package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/l7mp/linq/pkg/pipeline"
	"github.com/l7mp/linq/pkg/provider"
	"github.com/l7mp/linq/pkg/util"
)

func newQueryCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Run a query and print the result",
		Long:  "Run a query against a data source and print the resulting documents or aggregate value.",
		Args:  cobra.NoArgs,
		PreRun: func(cmd *cobra.Command, _ []string) {
			flags := cmd.Flags()
			MustBindPFlag(sourceFlag, flags.Lookup(sourceFlag))
			MustBindPFlag(queryFlag, flags.Lookup(queryFlag))
			MustBindPFlag(outputFlag, flags.Lookup(outputFlag))
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, conn, err := a.open()
			if err != nil {
				return err
			}
			defer conn.Close()

			res, err := p.Run(conn)
			if err != nil {
				return err
			}

			var out any = res.Documents
			if p.Query().Aggregate != nil {
				out = res.Value
			} else if res.Documents == nil {
				out = []provider.Document{}
			}
			b, err := util.Render(out, viper.GetString(outputFlag))
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(b)
			return err
		},
	}

	addSourceFlag(cmd)
	cmd.Flags().String(queryFlag, "", "(required) path of the query file")
	cmd.Flags().String(outputFlag, "json", "output format: json or yaml")

	// NOTE: if you add a new flag here, add the binding in PreRun

	return cmd
}

// open loads the query and connects to the source.
func (a *app) open() (*pipeline.Pipeline, provider.Connection, error) {
	path := viper.GetString(queryFlag)
	if path == "" {
		return nil, nil, fmt.Errorf("no query given, use --%s", queryFlag)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	q, err := pipeline.Parse(data)
	if err != nil {
		return nil, nil, err
	}

	source := viper.GetString(sourceFlag)
	conn, err := a.registry.Connect(source)
	if err != nil {
		return nil, nil, err
	}
	a.log.V(2).Info("query loaded", "source", source, "from", q.From, "stages", len(q.Pipeline))

	return pipeline.NewPipeline(q, a.log.WithName("pipeline")), conn, nil
}
