// Package cli contains the commands of the linq binary.
package cli

import (
	"flag"
	"os"
	"strings"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
	"sigs.k8s.io/controller-runtime/pkg/log/zap"

	"github.com/l7mp/linq/pkg/provider"
)

const (
	sourceFlag = "source"
	sourceConf = "data.source"
	queryFlag  = "query"
	outputFlag = "output"
	formatFlag = "format"
)

// app is the state shared by the commands.
type app struct {
	opts     zap.Options
	log      logr.Logger
	registry *provider.Registry
}

// NewRootCommand enables all children commands to read flags from CLI flags, environment
// variables prefixed with LINQ, or config.yaml (in that order).
func NewRootCommand() *cobra.Command {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetEnvPrefix("LINQ")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	configPaths := []string{"/etc/linq", "$HOME/.linq", "."}
	for _, path := range configPaths {
		viper.AddConfigPath(path)
	}

	viper.SetDefault(sourceFlag, "")
	if err := viper.ReadInConfig(); err == nil {
		viper.SetDefault(sourceFlag, viper.Get(sourceConf))
	}

	a := &app{
		opts: zap.Options{
			Development:     true,
			DestWriter:      os.Stderr,
			StacktraceLevel: zapcore.Level(3),
			TimeEncoder:     zapcore.RFC3339NanoTimeEncoder,
		},
		log:      logr.Discard(),
		registry: provider.DefaultRegistry,
	}

	cmd := &cobra.Command{
		Use:   "linq",
		Short: "Run declarative queries over document collections",
		Long: `Run declarative queries over document collections.

Queries are YAML or JSON documents naming a source collection, a pipeline of stages and an
optional aggregate. Collections are served by providers selected with a connection string
such as yaml:data.yaml or json:data.json.zst.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			a.log = zap.New(zap.UseFlagOptions(&a.opts)).WithName("linq")
			a.registry.WithLogger(a.log.WithName("provider"))
		},
	}

	fs := flag.NewFlagSet("zap", flag.ContinueOnError)
	a.opts.BindFlags(fs)
	cmd.PersistentFlags().AddGoFlagSet(fs)

	cmd.AddCommand(
		newQueryCommand(a),
		newExplainCommand(a),
		newCollectionsCommand(a),
		NewVersionCommand(),
	)

	return cmd
}

// MustBindPFlag attempts to bind a specific key to a pflag (as used by cobra) and panics if the
// binding fails with a non-nil error.
func MustBindPFlag(key string, flag *pflag.Flag) {
	if err := viper.BindPFlag(key, flag); err != nil {
		panic("failed to bind pflag: " + err.Error())
	}
}

func addSourceFlag(cmd *cobra.Command) {
	cmd.Flags().String(sourceFlag, "", "connection string of the data source (e.g. 'yaml:data.yaml')")
}
