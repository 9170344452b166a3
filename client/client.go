package client

import (
	"context"
	"crypto/tls"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/viant/litesql-ha/logging"
	"github.com/viant/litesql-ha/sqlpb"
)

// MaximumMessageSize bounds gRPC messages in both directions. Result sets
// and download chunks can be large.
const MaximumMessageSize = 64 * 1024 * 1024

// Target identifies one remote logical database.
type Target struct {
	Host          string
	Port          int
	ReplicationID string
	TLS           bool
	Token         string
}

// Address returns the host:port dial address.
func (t Target) Address() string {
	return net.JoinHostPort(t.Host, strconv.Itoa(t.Port))
}

// Options tunes Dial.
type Options struct {
	// Timeout is the default statement timeout of the session.
	Timeout time.Duration
	// LoginTimeout bounds connection establishment when positive.
	LoginTimeout time.Duration
	// Logger receives client diagnostics. Nil disables logging.
	Logger *logging.Logger
	// DialOptions are appended to the defaults, e.g. a custom dialer.
	DialOptions []grpc.DialOption
}

// Client is one connection to the database service: a statement Session
// and a Catalog sharing a gRPC connection.
type Client struct {
	*Session
	Catalog *Catalog
	target  Target
	conn    *grpc.ClientConn

	closeOnce sync.Once
	closeErr  error
}

// Dial connects to target and opens its query session.
func Dial(ctx context.Context, target Target, opts Options) (*Client, error) {
	transport := insecure.NewCredentials()
	if target.TLS {
		transport = credentials.NewTLS(&tls.Config{ServerName: target.Host, MinVersion: tls.VersionTLS12})
	}
	dialOptions := []grpc.DialOption{
		grpc.WithTransportCredentials(transport),
		grpc.WithPerRPCCredentials(tokenCredentials{token: target.Token, secure: target.TLS}),
		grpc.WithDefaultCallOptions(grpc.MaxCallSendMsgSize(MaximumMessageSize)),
		grpc.WithDefaultCallOptions(grpc.MaxCallRecvMsgSize(MaximumMessageSize)),
	}
	dialCtx := ctx
	if opts.LoginTimeout > 0 {
		var cancel context.CancelFunc
		dialCtx, cancel = context.WithTimeout(ctx, opts.LoginTimeout)
		defer cancel()
		dialOptions = append(dialOptions, grpc.WithBlock())
	}
	dialOptions = append(dialOptions, opts.DialOptions...)

	conn, err := grpc.DialContext(dialCtx, target.Address(), dialOptions...)
	if err != nil {
		return nil, &TransportError{Err: errors.Wrapf(err, "unable to connect to %s", target.Address())}
	}
	c, err := newClient(ctx, conn, target, opts)
	if err != nil {
		conn.Close()
		return nil, err
	}
	return c, nil
}

func newClient(ctx context.Context, conn *grpc.ClientConn, target Target, opts Options) (*Client, error) {
	rpc := sqlpb.NewDatabaseServiceClient(conn)
	session, err := NewSession(context.WithoutCancel(ctx), rpc, target.ReplicationID, SessionOptions{
		Timeout: opts.Timeout,
		Logger:  opts.Logger,
	})
	if err != nil {
		return nil, err
	}
	return &Client{
		Session: session,
		Catalog: NewCatalog(rpc, opts.Logger),
		target:  target,
		conn:    conn,
	}, nil
}

// Target returns the target the client was dialed with.
func (c *Client) Target() Target { return c.target }

// Close closes the session and the connection. It is idempotent.
func (c *Client) Close() error {
	c.closeOnce.Do(func() {
		c.closeErr = multierr.Append(c.Session.Close(), c.conn.Close())
	})
	return c.closeErr
}
