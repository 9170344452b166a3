package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/viant/litesql-ha/ha"
)

func versionMain(_ *cobra.Command, _ []string) error {
	fmt.Println(ha.Version)
	return nil
}

var versionCommand = &cobra.Command{
	Use:          "version",
	Short:        "Show version information",
	Args:         cobra.NoArgs,
	Run:          mainify(versionMain),
	SilenceUsage: true,
}
