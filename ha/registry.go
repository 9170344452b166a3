package ha

import (
	"context"
	"io/fs"
	"os"
	"runtime"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"google.golang.org/grpc"

	"github.com/viant/litesql-ha/client"
	"github.com/viant/litesql-ha/config"
	"github.com/viant/litesql-ha/logging"
	"github.com/viant/litesql-ha/replica"
)

// ErrShutdown is returned by Registry operations after Shutdown.
var ErrShutdown = errors.New("ha: registry shut down")

// Option customizes a Registry.
type Option func(*Registry)

// WithLogger sets the logger. Without it the registry logs at the level
// named by the configuration.
func WithLogger(logger *logging.Logger) Option {
	return func(r *Registry) { r.logger = logger }
}

// WithExtension sets the replica sync extension, bypassing resolution.
func WithExtension(ext replica.Extension) Option {
	return func(r *Registry) { r.ext = ext }
}

// WithExtensionFS resolves the native extension from fsys under prefix,
// e.g. an embed.FS bundled with the application.
func WithExtensionFS(fsys fs.FS, prefix string) Option {
	return func(r *Registry) {
		r.extFS = fsys
		r.extPrefix = prefix
	}
}

// WithReplicaOptions sets the replica manager options. Unset PollInterval,
// DriverName and Logger are taken from the configuration and the registry.
func WithReplicaOptions(opts replica.Options) Option {
	return func(r *Registry) { r.replicaOpts = opts }
}

// WithDialOptions appends gRPC dial options to every Connect.
func WithDialOptions(opts ...grpc.DialOption) Option {
	return func(r *Registry) { r.dialOptions = append(r.dialOptions, opts...) }
}

// Registry owns the replica manager and the clients of one application. It
// replaces process-wide driver state: construct it, Init it, and Shutdown
// it when done.
type Registry struct {
	cfg         config.Config
	logger      *logging.Logger
	ext         replica.Extension
	extFS       fs.FS
	extPrefix   string
	dialOptions []grpc.DialOption
	replicaOpts replica.Options

	mu          sync.Mutex
	manager     *replica.Manager
	clients     []*client.Client
	initialized bool
	closed      bool

	shutdownOnce sync.Once
	shutdownErr  error
}

// New creates a registry for cfg.
func New(cfg config.Config, opts ...Option) *Registry {
	r := &Registry{cfg: cfg}
	if level, ok := logging.NameToLevel(cfg.LogLevel); ok {
		r.logger = logging.New(level)
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.Sublogger("ha")
	return r
}

// Config returns the registry configuration.
func (r *Registry) Config() config.Config { return r.cfg }

// Init resolves the sync extension, creates the replica manager, loads the
// embedded replicas directory when configured and starts the poller. Files
// that fail to load are logged; only an unusable directory fails Init.
// Later calls are no-ops.
func (r *Registry) Init(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrShutdown
	}
	if r.initialized {
		return nil
	}
	ext, err := r.extension()
	if err != nil {
		return err
	}
	manager := replica.NewManager(ext, r.replicaOptions())
	if dir := r.cfg.EmbeddedReplicasDir; dir != "" {
		loaded, err := manager.Load(ctx, dir, r.replicaTarget())
		var dirErr *replica.InvalidDirectoryError
		if errors.As(err, &dirErr) {
			_ = manager.Shutdown(ctx)
			return err
		} else if err != nil {
			r.logger.Warn(err)
		}
		r.logger.Infof("loaded %d replicas from %s", len(loaded), dir)
	}
	if err := manager.Start(context.WithoutCancel(ctx)); err != nil {
		return err
	}
	r.manager = manager
	r.initialized = true
	return nil
}

func (r *Registry) extension() (replica.Extension, error) {
	if r.ext != nil {
		return r.ext, nil
	}
	fsys, prefix := r.extFS, r.extPrefix
	if fsys == nil && r.cfg.ExtensionDir != "" {
		fsys, prefix = os.DirFS(r.cfg.ExtensionDir), "."
	}
	if fsys == nil {
		return replica.TableExtension{}, nil
	}
	path, err := replica.ResolveExtension(fsys, prefix, runtime.GOOS, runtime.GOARCH, os.TempDir())
	if err != nil {
		return nil, errors.Wrap(err, "unable to resolve sync extension")
	}
	r.logger.Debugf("using sync extension %s", path)
	return &replica.SQLExtension{Path: path, Timeout: r.cfg.SyncTimeout}, nil
}

func (r *Registry) replicaOptions() replica.Options {
	opts := r.replicaOpts
	if opts.PollInterval <= 0 {
		opts.PollInterval = r.cfg.PollInterval
	}
	if opts.DriverName == "" {
		opts.DriverName = r.cfg.DriverName
	}
	if opts.Logger == nil {
		opts.Logger = r.logger
	}
	return opts
}

func (r *Registry) replicaTarget() replica.Target {
	return replica.Target{
		URL:     r.cfg.ReplicationURL,
		Stream:  r.cfg.ReplicationStream,
		Durable: r.cfg.ReplicationDurable,
	}
}

// Connect dials url, or the configured URL when url is empty, with the
// registry's token, TLS and timeout settings. The registry closes the
// client on Shutdown; closing it earlier is allowed.
func (r *Registry) Connect(ctx context.Context, url string) (*client.Client, error) {
	r.mu.Lock()
	closed := r.closed
	r.mu.Unlock()
	if closed {
		return nil, ErrShutdown
	}
	cfg := r.cfg
	if url != "" {
		cfg.URL = url
	}
	target, err := cfg.Target()
	if err != nil {
		return nil, err
	}
	opts := cfg.ClientOptions()
	opts.Logger = r.logger
	opts.DialOptions = r.dialOptions
	c, err := client.Dial(ctx, target, opts)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		c.Close()
		return nil, ErrShutdown
	}
	r.clients = append(r.clients, c)
	return c, nil
}

// Manager returns the replica manager, nil before Init.
func (r *Registry) Manager() *replica.Manager {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.manager
}

// Replica returns the loaded replica called name, see replica.Manager.
func (r *Registry) Replica(name string) (*replica.Replica, bool) {
	manager := r.Manager()
	if manager == nil {
		return nil, false
	}
	return manager.Replica(name)
}

// Bootstrap downloads every replication id through downloader into the
// embedded replicas directory and loads them.
func (r *Registry) Bootstrap(ctx context.Context, downloader replica.Downloader, overwrite, snapshot bool) ([]string, error) {
	manager := r.Manager()
	if manager == nil {
		return nil, errors.New("ha: registry not initialized")
	}
	if r.cfg.EmbeddedReplicasDir == "" {
		return nil, errors.New("ha: embedded replicas directory not configured")
	}
	return manager.Bootstrap(ctx, downloader, r.cfg.EmbeddedReplicasDir, r.replicaTarget(), overwrite, snapshot)
}

// Shutdown closes every client opened through Connect and shuts the replica
// manager down. It runs once; later calls return the first result.
func (r *Registry) Shutdown(ctx context.Context) error {
	r.shutdownOnce.Do(func() {
		r.mu.Lock()
		r.closed = true
		clients, manager := r.clients, r.manager
		r.clients = nil
		r.mu.Unlock()

		var errs error
		for _, c := range clients {
			if err := c.Close(); err != nil {
				r.logger.Warnf("unable to close client of %s: %v", c.Target().Address(), err)
				errs = multierr.Append(errs, err)
			}
		}
		if manager != nil {
			errs = multierr.Append(errs, manager.Shutdown(ctx))
		}
		r.shutdownErr = errs
	})
	return r.shutdownErr
}
