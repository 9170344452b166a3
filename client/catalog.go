package client

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"

	"github.com/viant/litesql-ha/logging"
	"github.com/viant/litesql-ha/sqlpb"
)

// CatalogColumn is the column name of ReplicationIDsResult.
const CatalogColumn = "TABLE_CAT"

// Catalog lists replication ids and downloads database files. Its calls do
// not go through a Session and are not serialized with statements.
type Catalog struct {
	rpc    sqlpb.DatabaseServiceClient
	logger *logging.Logger
}

// NewCatalog creates a catalog client on rpc.
func NewCatalog(rpc sqlpb.DatabaseServiceClient, logger *logging.Logger) *Catalog {
	return &Catalog{rpc: rpc, logger: logger.Sublogger("catalog")}
}

// ReplicationIDs lists the replication ids hosted by the server, in server
// order.
func (c *Catalog) ReplicationIDs(ctx context.Context) ([]string, error) {
	resp, err := c.rpc.ReplicationIDs(ctx, &sqlpb.Empty{})
	if err != nil {
		return nil, &TransportError{Err: errors.Wrap(err, "unable to list replication ids")}
	}
	return resp.ReplicationIDs, nil
}

// ReplicationIDsResult returns the replication ids as a one-column table.
func (c *Catalog) ReplicationIDsResult(ctx context.Context) (*Result, error) {
	ids, err := c.ReplicationIDs(ctx)
	if err != nil {
		return nil, err
	}
	result := &Result{Columns: []string{CatalogColumn}, Rows: make([][]interface{}, len(ids))}
	for i, id := range ids {
		result.Rows[i] = []interface{}{id}
	}
	return result, nil
}

// DownloadReplica writes the current database file of id to dir/id. It
// returns false without contacting the server when the file exists and
// overwrite is false.
func (c *Catalog) DownloadReplica(ctx context.Context, dir, id string, overwrite bool) (bool, error) {
	return c.download(ctx, dir, id, overwrite, func(ctx context.Context) (chunkFunc, error) {
		stream, err := c.rpc.Download(ctx, &sqlpb.DownloadRequest{ReplicationID: id})
		if err != nil {
			return nil, err
		}
		return func() ([]byte, error) {
			resp, err := stream.Recv()
			if err != nil {
				return nil, err
			}
			return resp.Data, nil
		}, nil
	})
}

// DownloadLatestSnapshot writes the latest snapshot of id to dir/id, with
// the same skip rule as DownloadReplica.
func (c *Catalog) DownloadLatestSnapshot(ctx context.Context, dir, id string, overwrite bool) (bool, error) {
	return c.download(ctx, dir, id, overwrite, func(ctx context.Context) (chunkFunc, error) {
		stream, err := c.rpc.LatestSnapshot(ctx, &sqlpb.LatestSnapshotRequest{ReplicationID: id})
		if err != nil {
			return nil, err
		}
		return func() ([]byte, error) {
			resp, err := stream.Recv()
			if err != nil {
				return nil, err
			}
			return resp.Data, nil
		}, nil
	})
}

// DownloadAllReplicas downloads every hosted replication id and returns the
// ids actually written.
func (c *Catalog) DownloadAllReplicas(ctx context.Context, dir string, overwrite bool) ([]string, error) {
	return c.downloadAll(ctx, dir, overwrite, c.DownloadReplica)
}

// DownloadAllLatestSnapshots downloads the latest snapshot of every hosted
// replication id and returns the ids actually written.
func (c *Catalog) DownloadAllLatestSnapshots(ctx context.Context, dir string, overwrite bool) ([]string, error) {
	return c.downloadAll(ctx, dir, overwrite, c.DownloadLatestSnapshot)
}

func (c *Catalog) downloadAll(ctx context.Context, dir string, overwrite bool, fn func(context.Context, string, string, bool) (bool, error)) ([]string, error) {
	ids, err := c.ReplicationIDs(ctx)
	if err != nil {
		return nil, err
	}
	var written []string
	for _, id := range ids {
		ok, err := fn(ctx, dir, id, overwrite)
		if err != nil {
			return written, err
		}
		if ok {
			written = append(written, id)
		}
	}
	return written, nil
}

// chunkFunc returns the next chunk, or io.EOF once the stream completes.
type chunkFunc func() ([]byte, error)

func (c *Catalog) download(ctx context.Context, dir, id string, overwrite bool, open func(context.Context) (chunkFunc, error)) (bool, error) {
	if id == "" || id != filepath.Base(id) || strings.HasPrefix(id, ".") {
		return false, errors.Errorf("invalid replication id %q", id)
	}
	target := filepath.Join(dir, id)
	if !overwrite {
		if _, err := os.Stat(target); err == nil {
			c.logger.Debugf("%s exists, skipping download", target)
			return false, nil
		} else if !os.IsNotExist(err) {
			return false, errors.Wrapf(err, "unable to stat %s", target)
		}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return false, errors.Wrapf(err, "unable to create %s", dir)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	next, err := open(ctx)
	if err != nil {
		return false, &TransportError{Err: errors.Wrapf(err, "unable to start download of %s", id)}
	}

	file, err := os.CreateTemp(dir, "."+id+".*.part")
	if err != nil {
		return false, errors.Wrap(err, "unable to create temporary file")
	}
	w := &chunkWriter{file: file}
	committed := false
	defer func() {
		if !committed {
			_ = file.Close()
			_ = os.Remove(file.Name())
		}
	}()

	for {
		data, err := next()
		if err == io.EOF {
			break
		} else if err != nil {
			return false, &TransportError{Err: errors.Wrapf(err, "download of %s interrupted at %d bytes", id, w.offset)}
		}
		if err := w.write(data); err != nil {
			return false, errors.Wrapf(err, "unable to write %s", id)
		}
	}
	if err := file.Sync(); err != nil {
		return false, errors.Wrapf(err, "unable to sync %s", id)
	}
	if err := file.Close(); err != nil {
		return false, errors.Wrapf(err, "unable to close %s", id)
	}
	if err := os.Rename(file.Name(), target); err != nil {
		_ = os.Remove(file.Name())
		committed = true
		return false, errors.Wrapf(err, "unable to move download into %s", target)
	}
	committed = true
	c.logger.Infof("downloaded %s (%s)", id, humanize.Bytes(uint64(w.offset)))
	return true, nil
}

// chunkWriter appends chunks in arrival order and fails if the file position
// ever disagrees with the expected offset.
type chunkWriter struct {
	file   *os.File
	offset int64
}

func (w *chunkWriter) write(data []byte) error {
	if len(data) == 0 {
		return nil
	}
	position, err := w.file.Seek(0, io.SeekCurrent)
	if err != nil {
		return err
	}
	if position != w.offset {
		return errors.Errorf("offset mismatch: file at %d, expected %d", position, w.offset)
	}
	n, err := w.file.Write(data)
	w.offset += int64(n)
	return err
}
