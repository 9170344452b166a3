package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/viant/litesql-ha/client"
)

func idsMain(_ *cobra.Command, _ []string) error {
	return withClient(func(ctx context.Context, c *client.Client) error {
		result, err := c.Catalog.ReplicationIDsResult(ctx)
		if err != nil {
			return err
		}
		return printResult(os.Stdout, result)
	})
}

var idsCommand = &cobra.Command{
	Use:          "ids",
	Short:        "List the replication ids served by the database service",
	Args:         cobra.NoArgs,
	Run:          mainify(idsMain),
	SilenceUsage: true,
}
