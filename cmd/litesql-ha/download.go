package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/viant/litesql-ha/client"
)

func downloadMain(_ *cobra.Command, arguments []string) error {
	dir := downloadConfiguration.dir
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(err, "unable to create download directory")
	}
	return withClient(func(ctx context.Context, c *client.Client) error {
		ids := arguments
		if len(ids) == 0 {
			var err error
			if ids, err = c.Catalog.ReplicationIDs(ctx); err != nil {
				return err
			}
		}
		download := c.Catalog.DownloadReplica
		if downloadConfiguration.snapshot {
			download = c.Catalog.DownloadLatestSnapshot
		}
		for _, id := range ids {
			written, err := download(ctx, dir, id, downloadConfiguration.overwrite)
			if err != nil {
				return err
			}
			path := filepath.Join(dir, id)
			if !written {
				fmt.Printf("%s: exists, skipped\n", path)
				continue
			}
			info, err := os.Stat(path)
			if err != nil {
				return err
			}
			fmt.Printf("%s: %s\n", path, humanize.Bytes(uint64(info.Size())))
		}
		return nil
	})
}

var downloadCommand = &cobra.Command{
	Use:          "download [<replication-id>...]",
	Short:        "Download replicas, all replication ids when none are given",
	Run:          mainify(downloadMain),
	SilenceUsage: true,
}

var downloadConfiguration struct {
	dir       string
	overwrite bool
	snapshot  bool
}

func init() {
	flags := downloadCommand.Flags()
	flags.StringVarP(&downloadConfiguration.dir, "dir", "d", ".", "Destination directory")
	flags.BoolVar(&downloadConfiguration.overwrite, "overwrite", false, "Replace existing files")
	flags.BoolVar(&downloadConfiguration.snapshot, "snapshot", false, "Download the latest snapshot instead of the full replica")
}
