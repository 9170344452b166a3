package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/viant/litesql-ha/ha"
)

// mainify wraps an entry point returning an error so that deferred cleanup
// runs before the process exits.
func mainify(entry func(*cobra.Command, []string) error) func(*cobra.Command, []string) {
	return func(command *cobra.Command, arguments []string) {
		if err := entry(command, arguments); err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			os.Exit(1)
		}
	}
}

// normalizeFlagName accepts underscores in place of dashes.
func normalizeFlagName(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
}

func rootMain(command *cobra.Command, _ []string) error {
	return command.Help()
}

var rootCommand = &cobra.Command{
	Use:          "litesql-ha",
	Version:      ha.Version,
	Short:        "Query a litesql-ha database service and manage local replicas",
	RunE:         rootMain,
	SilenceUsage: true,
}

// rootConfiguration stores the global flags.
var rootConfiguration struct {
	help     bool
	url      string
	token    string
	tls      bool
	timeout  time.Duration
	config   string
	envFile  string
	logLevel string
}

func init() {
	cobra.EnableCommandSorting = false

	flags := rootCommand.PersistentFlags()
	flags.SortFlags = false
	flags.StringVar(&rootConfiguration.url, "url", "", "Connection URL (jdbc:litesql:ha:<server-url> or litesql://<host>:<port>/<replication-id>)")
	flags.StringVar(&rootConfiguration.token, "token", "", "Bearer token")
	flags.BoolVar(&rootConfiguration.tls, "tls", false, "Use TLS")
	flags.DurationVar(&rootConfiguration.timeout, "timeout", 0, "Statement timeout")
	flags.StringVarP(&rootConfiguration.config, "config", "c", "", "YAML configuration file")
	flags.StringVar(&rootConfiguration.envFile, "env-file", "", "Environment file loaded before LITESQL_HA_* variables are read")
	flags.StringVar(&rootConfiguration.logLevel, "log-level", "", "Log level (disabled, error, warn, info, debug, trace)")
	rootCommand.Flags().BoolVarP(&rootConfiguration.help, "help", "h", false, "Show help information")

	rootCommand.CompletionOptions.HiddenDefaultCmd = true
	rootCommand.SetGlobalNormalizationFunc(normalizeFlagName)

	rootCommand.AddCommand(
		queryCommand,
		execCommand,
		idsCommand,
		downloadCommand,
		replicasCommand,
		versionCommand,
	)
}

func main() {
	if err := rootCommand.Execute(); err != nil {
		os.Exit(1)
	}
}
