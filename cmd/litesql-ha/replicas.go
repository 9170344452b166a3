package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/viant/litesql-ha/ha"
	"github.com/viant/litesql-ha/replica"
)

func replicasMain(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfiguration()
	if err != nil {
		return err
	}
	if replicasConfiguration.dir != "" {
		cfg.EmbeddedReplicasDir = replicasConfiguration.dir
	}
	if cfg.EmbeddedReplicasDir == "" {
		return errors.New("replicas directory required (--dir or embeddedReplicasDir)")
	}
	ctx, cancel := signalContext()
	defer cancel()

	registry := ha.New(cfg)
	defer registry.Shutdown(context.Background())
	if err := registry.Init(ctx); err != nil {
		return err
	}
	return printReplicas(os.Stdout, registry.Manager().Replicas())
}

func printReplicas(w io.Writer, replicas []*replica.Replica) error {
	table := tablewriter.NewWriter(w)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"name", "txseq", "size", "modified"})
	for _, r := range replicas {
		size, modified := "?", "?"
		if info, err := os.Stat(r.DSN()); err == nil {
			size = humanize.Bytes(uint64(info.Size()))
			modified = humanize.Time(info.ModTime())
		}
		table.Append([]string{r.Name(), strconv.FormatInt(r.TxSeq(), 10), size, modified})
	}
	table.Render()
	fmt.Fprintf(w, "(%d replica%s)\n", len(replicas), plural(int64(len(replicas))))
	return nil
}

var replicasCommand = &cobra.Command{
	Use:          "replicas",
	Short:        "Load local replicas and show their replication sequence",
	Args:         cobra.NoArgs,
	Run:          mainify(replicasMain),
	SilenceUsage: true,
}

var replicasConfiguration struct {
	dir string
}

func init() {
	replicasCommand.Flags().StringVarP(&replicasConfiguration.dir, "dir", "d", "", "Replicas directory")
}
