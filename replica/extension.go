package replica

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"time"

	"github.com/pkg/errors"
)

// ExtensionName is the base name of the native sync extension.
const ExtensionName = "ha-sync"

// Subscription describes the change stream a replica follows.
type Subscription struct {
	// URL is the server list of the change stream, e.g. nats://host:4222.
	URL string
	// Subject is the per-replica subject, see Subject.
	Subject string
	// Durable is the consumer name used to resume after disconnection.
	Durable string
}

// Extension is the capability that keeps a replica synchronized. Attach
// subscribes the handle to its change stream; Status reports the latest
// sequence received.
type Extension interface {
	Attach(ctx context.Context, db *sql.DB, sub Subscription) error
	Status(ctx context.Context, db *sql.DB) (int64, error)
}

// SQLExtension drives the native ha-sync extension through SQL. The handle
// must come from a driver that allows load_extension.
type SQLExtension struct {
	// Path is the extension library, see ResolveExtension.
	Path string
	// Timeout is passed to the extension's virtual table.
	Timeout time.Duration
}

func (e *SQLExtension) Attach(ctx context.Context, db *sql.DB, sub Subscription) error {
	timeout := e.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if _, err := db.ExecContext(ctx, `SELECT load_extension(?)`, e.Path); err != nil {
		return errors.Wrapf(err, "unable to load extension %s", e.Path)
	}
	create := fmt.Sprintf(`CREATE VIRTUAL TABLE %s USING HA(servers=%s, timeout=%d)`, SyncTable, quote(sub.URL), timeout.Milliseconds())
	if _, err := db.ExecContext(ctx, create); err != nil {
		return errors.Wrap(err, "unable to create sync table")
	}
	if _, err := db.ExecContext(ctx, `INSERT INTO `+SyncTable+`(subject, durable) VALUES(?, ?)`, sub.Subject, sub.Durable); err != nil {
		return errors.Wrapf(err, "unable to subscribe %s", sub.Subject)
	}
	return nil
}

func (e *SQLExtension) Status(ctx context.Context, db *sql.DB) (int64, error) {
	return readStatus(ctx, db)
}

// TableExtension reads sync status from an ha_stats table kept inside the
// replica by an external agent. Attach creates the table when missing and
// registers the subscription row.
type TableExtension struct{}

func (TableExtension) Attach(ctx context.Context, db *sql.DB, sub Subscription) error {
	if _, err := db.ExecContext(ctx, StatsTableDDL()); err != nil {
		return errors.Wrap(err, "unable to create stats table")
	}
	if _, err := db.ExecContext(ctx, `INSERT OR IGNORE INTO `+StatsTable+`(subject, durable) VALUES(?, ?)`, sub.Subject, sub.Durable); err != nil {
		return errors.Wrapf(err, "unable to register %s", sub.Subject)
	}
	return nil
}

func (TableExtension) Status(ctx context.Context, db *sql.DB) (int64, error) {
	return readStatus(ctx, db)
}

// readStatus returns the latest received sequence, 0 when nothing was
// received yet.
func readStatus(ctx context.Context, db *sql.DB) (int64, error) {
	var seq sql.NullInt64
	err := db.QueryRowContext(ctx, statusQuery).Scan(&seq)
	if err == sql.ErrNoRows {
		return 0, nil
	} else if err != nil {
		return 0, errors.Wrap(err, "unable to read sync status")
	}
	return seq.Int64, nil
}

// ExtensionPath returns the location of the extension library under prefix
// for the given platform: {prefix}/{os}/{arch}/ha-sync{suffix}.
func ExtensionPath(prefix, goos, goarch string) (string, error) {
	var dir, suffix string
	switch goos {
	case "linux":
		dir, suffix = "linux", ".so"
	case "windows":
		dir, suffix = "windows", ".dll"
	case "darwin":
		dir, suffix = "darwin", ".dylib"
	default:
		return "", errors.Errorf("replica: unsupported os %s", goos)
	}
	var arch string
	switch goarch {
	case "arm64":
		arch = "arm64"
	case "amd64":
		arch = "x86_64"
	default:
		return "", errors.Errorf("replica: unsupported architecture %s", goarch)
	}
	return path.Join(prefix, dir, arch, ExtensionName+suffix), nil
}

// ResolveExtension copies the platform's extension library out of fsys into
// tmpDir and returns the copy's path.
func ResolveExtension(fsys fs.FS, prefix, goos, goarch, tmpDir string) (string, error) {
	name, err := ExtensionPath(prefix, goos, goarch)
	if err != nil {
		return "", err
	}
	src, err := fsys.Open(name)
	if err != nil {
		return "", errors.Wrapf(err, "unable to open extension %s", name)
	}
	defer src.Close()

	dst, err := os.CreateTemp(tmpDir, ExtensionName+"-*"+path.Ext(name))
	if err != nil {
		return "", errors.Wrap(err, "unable to create extension copy")
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(dst.Name())
		return "", errors.Wrap(err, "unable to copy extension")
	}
	if err := dst.Close(); err != nil {
		os.Remove(dst.Name())
		return "", errors.Wrap(err, "unable to copy extension")
	}
	return dst.Name(), nil
}
