package replica

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/viant/litesql-ha/engine"
	"github.com/viant/litesql-ha/logging"
)

const (
	// DefaultPollInterval is the txseq refresh period.
	DefaultPollInterval = 5 * time.Second
	// DefaultShutdownGrace bounds how long Shutdown waits for the poller.
	DefaultShutdownGrace = 10 * time.Second
	// DefaultPollConcurrency bounds concurrent status reads per tick.
	DefaultPollConcurrency = 4
)

// Options tunes a Manager.
type Options struct {
	// PollInterval is the period of the txseq poller.
	PollInterval time.Duration
	// PollTimeout bounds the status read of one replica. It defaults to
	// PollInterval.
	PollTimeout time.Duration
	// PollConcurrency bounds how many replicas are polled at once.
	PollConcurrency int
	// ShutdownGrace bounds how long Shutdown waits for the poller to stop.
	ShutdownGrace time.Duration
	// DriverName and BusyTimeout are passed to engine.OpenReplica.
	DriverName  string
	BusyTimeout time.Duration
	// Logger receives manager diagnostics. Nil disables logging.
	Logger *logging.Logger
}

func (o Options) withDefaults() Options {
	if o.PollInterval <= 0 {
		o.PollInterval = DefaultPollInterval
	}
	if o.PollTimeout <= 0 {
		o.PollTimeout = o.PollInterval
	}
	if o.PollConcurrency <= 0 {
		o.PollConcurrency = DefaultPollConcurrency
	}
	if o.ShutdownGrace <= 0 {
		o.ShutdownGrace = DefaultShutdownGrace
	}
	return o
}

// Target names the change stream replicas loaded together follow.
type Target struct {
	URL     string
	Stream  string
	Durable string
}

// Replica is a local replica handle. The handle is owned by the Manager;
// callers must not close DB.
type Replica struct {
	name  string
	path  string
	db    *sql.DB
	txseq atomic.Int64
}

// Name returns the replica name, its file name.
func (r *Replica) Name() string { return r.name }

// DSN returns the absolute path of the replica file.
func (r *Replica) DSN() string { return r.path }

// DB returns the synchronized handle.
func (r *Replica) DB() *sql.DB { return r.db }

// TxSeq returns the last observed replication sequence.
func (r *Replica) TxSeq() int64 { return r.txseq.Load() }

// observe records seq unless an equal or newer sequence was already seen.
func (r *Replica) observe(seq int64) {
	for {
		current := r.txseq.Load()
		if seq <= current || r.txseq.CompareAndSwap(current, seq) {
			return
		}
	}
}

// Open opens an additional connection pool on the replica file with the
// same settings as the synchronized handle. The caller owns it.
func (r *Replica) Open(ctx context.Context, opts engine.ReplicaOptions) (*sql.DB, error) {
	return engine.OpenReplica(ctx, r.path, opts)
}

// Manager tracks local replicas, keeps their txseq fresh and closes them on
// shutdown.
type Manager struct {
	ext    Extension
	opts   Options
	logger *logging.Logger

	mu       sync.RWMutex
	replicas map[string]*Replica
	closed   bool
	cancel   context.CancelFunc
	done     chan struct{}

	shutdownOnce sync.Once
	shutdownErr  error
}

// NewManager creates a manager that attaches replicas with ext.
func NewManager(ext Extension, opts Options) *Manager {
	opts = opts.withDefaults()
	return &Manager{
		ext:      ext,
		opts:     opts,
		logger:   opts.Logger.Sublogger("replica"),
		replicas: make(map[string]*Replica),
	}
}

// Load registers every valid database file in dir that is not registered
// yet and returns the names it added. A file that fails validation or
// attachment is skipped; its error is collected into the returned error and
// does not stop the others.
func (m *Manager) Load(ctx context.Context, dir string, target Target) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, &InvalidDirectoryError{Dir: dir, Err: err}
	}
	if !info.IsDir() {
		return nil, &InvalidDirectoryError{Dir: dir}
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, &InvalidDirectoryError{Dir: dir, Err: err}
	}
	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, &InvalidDirectoryError{Dir: dir, Err: err}
	}

	var loaded []string
	var errs error
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !isCandidate(name) {
			continue
		}
		m.mu.RLock()
		_, registered := m.replicas[name]
		closed := m.closed
		m.mu.RUnlock()
		if closed {
			return loaded, multierr.Append(errs, ErrShutdown)
		}
		if registered {
			continue
		}
		replica, err := m.open(ctx, filepath.Join(abs, name), name, target)
		if err != nil {
			m.logger.Warn(err)
			errs = multierr.Append(errs, err)
			continue
		}
		if !m.register(replica) {
			_ = replica.db.Close()
			continue
		}
		m.logger.Infof("loaded %s at txseq %d", name, replica.TxSeq())
		loaded = append(loaded, name)
	}
	return loaded, errs
}

func (m *Manager) open(ctx context.Context, path, name string, target Target) (*Replica, error) {
	if err := validate(path); err != nil {
		return nil, err
	}
	db, err := engine.OpenReplica(ctx, path, engine.ReplicaOptions{
		DriverName:  m.opts.DriverName,
		BusyTimeout: m.opts.BusyTimeout,
	})
	if err != nil {
		return nil, err
	}
	sub := Subscription{URL: target.URL, Subject: Subject(target.Stream, name), Durable: target.Durable}
	if err := m.ext.Attach(ctx, db, sub); err != nil {
		_ = db.Close()
		return nil, errors.Wrapf(err, "unable to attach %s", name)
	}
	seq, err := m.ext.Status(ctx, db)
	if err != nil {
		_ = db.Close()
		return nil, errors.Wrapf(err, "unable to read txseq of %s", name)
	}
	replica := &Replica{name: name, path: path, db: db}
	replica.observe(seq)
	return replica, nil
}

func (m *Manager) register(replica *Replica) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return false
	}
	if _, ok := m.replicas[replica.name]; ok {
		return false
	}
	m.replicas[replica.name] = replica
	return true
}

// Replica returns the replica called name. An empty name selects the sole
// replica when exactly one is registered.
func (m *Manager) Replica(name string) (*Replica, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if name == "" && len(m.replicas) == 1 {
		for _, replica := range m.replicas {
			return replica, true
		}
	}
	replica, ok := m.replicas[name]
	return replica, ok
}

// Replicas returns a snapshot of the registered replicas sorted by name.
func (m *Manager) Replicas() []*Replica {
	m.mu.RLock()
	result := make([]*Replica, 0, len(m.replicas))
	for _, replica := range m.replicas {
		result = append(result, replica)
	}
	m.mu.RUnlock()
	sort.Slice(result, func(i, j int) bool { return result[i].name < result[j].name })
	return result
}

// Downloader fetches replica files, see client.Catalog.
type Downloader interface {
	DownloadAllReplicas(ctx context.Context, dir string, overwrite bool) ([]string, error)
	DownloadAllLatestSnapshots(ctx context.Context, dir string, overwrite bool) ([]string, error)
}

// Bootstrap downloads every replication id into dir, from the latest
// snapshot when snapshot is set, and loads the directory.
func (m *Manager) Bootstrap(ctx context.Context, downloader Downloader, dir string, target Target, overwrite, snapshot bool) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, &InvalidDirectoryError{Dir: dir, Err: err}
	}
	download := downloader.DownloadAllReplicas
	if snapshot {
		download = downloader.DownloadAllLatestSnapshots
	}
	written, err := download(ctx, dir, overwrite)
	if err != nil {
		return nil, err
	}
	m.logger.Debugf("downloaded %d replica files into %s", len(written), dir)
	return m.Load(ctx, dir, target)
}

// Start launches the txseq poller. It returns immediately; the poller runs
// until Shutdown or until ctx is done.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrShutdown
	}
	if m.cancel != nil {
		return nil
	}
	ctx, m.cancel = context.WithCancel(ctx)
	m.done = make(chan struct{})
	go m.run(ctx, m.done)
	return nil
}

func (m *Manager) run(ctx context.Context, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(m.opts.PollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Poll(ctx)
		}
	}
}

// Poll refreshes the txseq of every registered replica once. A failing
// replica is logged and does not affect the others.
func (m *Manager) Poll(ctx context.Context) {
	var g errgroup.Group
	g.SetLimit(m.opts.PollConcurrency)
	for _, replica := range m.Replicas() {
		g.Go(func() error {
			pollCtx, cancel := context.WithTimeout(ctx, m.opts.PollTimeout)
			defer cancel()
			seq, err := m.ext.Status(pollCtx, replica.db)
			if err != nil {
				m.logger.Warnf("unable to update txseq of %s: %v", replica.name, err)
				return nil
			}
			replica.observe(seq)
			m.logger.Tracef("%s txseq %d", replica.name, replica.TxSeq())
			return nil
		})
	}
	_ = g.Wait()
}

// Shutdown stops the poller, waiting up to the grace period or until ctx is
// done, and closes every replica handle. It runs once; later calls return
// the first result. Close failures are logged and aggregated.
func (m *Manager) Shutdown(ctx context.Context) error {
	m.shutdownOnce.Do(func() {
		m.mu.Lock()
		m.closed = true
		cancel, done := m.cancel, m.done
		m.mu.Unlock()

		if cancel != nil {
			cancel()
			timer := time.NewTimer(m.opts.ShutdownGrace)
			select {
			case <-done:
			case <-timer.C:
				m.logger.Warnf("poller did not stop within %s", m.opts.ShutdownGrace)
			case <-ctx.Done():
				m.logger.Warnf("shutdown interrupted: %v", ctx.Err())
			}
			timer.Stop()
		}

		m.mu.Lock()
		replicas := m.replicas
		m.replicas = make(map[string]*Replica)
		m.mu.Unlock()

		var errs error
		for name, replica := range replicas {
			if err := replica.db.Close(); err != nil {
				m.logger.Warnf("unable to close %s: %v", name, err)
				errs = multierr.Append(errs, err)
			}
		}
		m.shutdownErr = errs
	})
	return m.shutdownErr
}
