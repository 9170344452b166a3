package main

import (
	"context"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/viant/litesql-ha/client"
)

func queryMain(_ *cobra.Command, arguments []string) error {
	params, err := parseParams(arguments[1:], queryConfiguration.named)
	if err != nil {
		return err
	}
	return withClient(func(ctx context.Context, c *client.Client) error {
		if queryConfiguration.replicationID != "" {
			c.SetReplicationID(queryConfiguration.replicationID)
		}
		result, err := c.ExecuteQuery(ctx, arguments[0], params, 0)
		if err != nil {
			return err
		}
		return printResult(os.Stdout, result)
	})
}

func execMain(_ *cobra.Command, arguments []string) error {
	params, err := parseParams(arguments[1:], execConfiguration.named)
	if err != nil {
		return err
	}
	return withClient(func(ctx context.Context, c *client.Client) error {
		if execConfiguration.replicationID != "" {
			c.SetReplicationID(execConfiguration.replicationID)
		}
		result, err := c.Execute(ctx, arguments[0], params, 0)
		if err != nil {
			return err
		}
		return printResult(os.Stdout, result)
	})
}

// parseParams turns command line arguments into statement parameters:
// positional values, or name=value pairs when named is set.
func parseParams(arguments []string, named bool) (client.Params, error) {
	if !named {
		values := make([]interface{}, len(arguments))
		for i, argument := range arguments {
			values[i] = argument
		}
		return client.Args(values...), nil
	}
	var params client.Params
	for _, argument := range arguments {
		name, value, ok := strings.Cut(argument, "=")
		if !ok || name == "" {
			return nil, errors.Errorf("invalid named parameter %q, expected name=value", argument)
		}
		params = append(params, client.Named(name, value))
	}
	return params, nil
}

var queryCommand = &cobra.Command{
	Use:          "query <sql> [<param>...]",
	Short:        "Run a query and print its rows",
	Args:         cobra.MinimumNArgs(1),
	Run:          mainify(queryMain),
	SilenceUsage: true,
}

var queryConfiguration struct {
	named         bool
	replicationID string
}

var execCommand = &cobra.Command{
	Use:          "exec <sql> [<param>...]",
	Short:        "Run any statement and print its rows or the affected row count",
	Args:         cobra.MinimumNArgs(1),
	Run:          mainify(execMain),
	SilenceUsage: true,
}

var execConfiguration struct {
	named         bool
	replicationID string
}

func init() {
	flags := queryCommand.Flags()
	flags.BoolVarP(&queryConfiguration.named, "named", "n", false, "Treat parameters as name=value pairs")
	flags.StringVarP(&queryConfiguration.replicationID, "replication-id", "r", "", "Replication id overriding the URL path")

	flags = execCommand.Flags()
	flags.BoolVarP(&execConfiguration.named, "named", "n", false, "Treat parameters as name=value pairs")
	flags.StringVarP(&execConfiguration.replicationID, "replication-id", "r", "", "Replication id overriding the URL path")
}
