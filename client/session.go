package client

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/viant/litesql-ha/logging"
	"github.com/viant/litesql-ha/sqlpb"
)

// DefaultTimeout is used by calls that pass a non-positive timeout.
const DefaultTimeout = 60 * time.Second

// MaxUnanswered bounds the responses a session may owe to timed out calls
// before it gives up on the stream.
const MaxUnanswered = 3

// SessionOptions tunes a Session.
type SessionOptions struct {
	// Timeout is the default per-call timeout.
	Timeout time.Duration
	// Logger receives session diagnostics. Nil disables logging.
	Logger *logging.Logger
}

// reply is what the receiver hands to the waiting call.
type reply struct {
	resp *sqlpb.QueryResponse
	err  error
}

// Session executes statements for one replication target over a single
// long-lived Query stream. Calls are strictly serialized: a call's response
// is fully consumed before the next request is sent.
type Session struct {
	id      string
	timeout time.Duration
	logger  *logging.Logger
	stream  sqlpb.DatabaseService_QueryClient
	cancel  context.CancelFunc
	done    chan struct{}

	// call spans build, send and wait of one statement.
	call     sync.Mutex
	readOnly bool

	// state guards the fields shared with the receiver.
	state  sync.Mutex
	waiter chan reply
	// skip counts responses still owed to calls that timed out.
	skip   int
	broken error

	replicationID atomic.Value
	txseq         atomic.Uint64
	closeOnce     sync.Once
	closeErr      error
}

// NewSession opens the Query stream on rpc and starts receiving. ctx bounds
// the lifetime of the stream.
func NewSession(ctx context.Context, rpc sqlpb.DatabaseServiceClient, replicationID string, opts SessionOptions) (*Session, error) {
	streamCtx, cancel := context.WithCancel(ctx)
	stream, err := rpc.Query(streamCtx)
	if err != nil {
		cancel()
		return nil, &TransportError{Err: errors.Wrap(err, "unable to open query stream")}
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	id := uuid.New().String()
	s := &Session{
		id:      id,
		timeout: timeout,
		logger:  opts.Logger.Sublogger("session").Sublogger(id[:8]),
		stream:  stream,
		cancel:  cancel,
		done:    make(chan struct{}),
	}
	s.replicationID.Store(replicationID)
	go s.receive()
	s.logger.Debugf("opened query stream for %q", replicationID)
	return s, nil
}

// ID returns the session identifier used in log prefixes.
func (s *Session) ID() string { return s.id }

// ReplicationID returns the target replication id.
func (s *Session) ReplicationID() string { return s.replicationID.Load().(string) }

// SetReplicationID retargets subsequent calls.
func (s *Session) SetReplicationID(id string) { s.replicationID.Store(id) }

// TxSeq returns the highest replication sequence reported by the server.
func (s *Session) TxSeq() uint64 { return s.txseq.Load() }

func (s *Session) advance(seq uint64) {
	for {
		current := s.txseq.Load()
		if seq <= current || s.txseq.CompareAndSwap(current, seq) {
			return
		}
	}
}

// receive is the stream's dispatch loop. It hands each response to the
// waiting call, or drops it when it answers a call that already timed out.
func (s *Session) receive() {
	defer close(s.done)
	for {
		resp, err := s.stream.Recv()
		if err != nil {
			s.fail(err)
			return
		}
		if resp.Txseq > 0 {
			s.advance(resp.Txseq)
		}
		s.state.Lock()
		if s.skip > 0 {
			s.skip--
			s.state.Unlock()
			s.logger.Debugf("discarded late response")
			continue
		}
		waiter := s.waiter
		s.waiter = nil
		s.state.Unlock()
		if waiter == nil {
			s.logger.Warnf("unsolicited response dropped")
			continue
		}
		waiter <- reply{resp: resp}
	}
}

// fail marks the session broken and releases the waiting call with a
// synthesized error response.
func (s *Session) fail(err error) {
	s.state.Lock()
	if s.broken == nil {
		s.broken = &TransportError{Err: err}
	}
	broken := s.broken
	waiter := s.waiter
	s.waiter = nil
	s.state.Unlock()
	if waiter != nil {
		waiter <- reply{resp: &sqlpb.QueryResponse{Error: err.Error()}, err: broken}
	}
	if !errors.Is(broken, ErrClosed) {
		s.logger.Error(broken)
	}
}

// ExecuteQuery runs a row-returning statement. A response without columns
// yields an empty result.
func (s *Session) ExecuteQuery(ctx context.Context, sql string, params Params, timeout time.Duration) (*Result, error) {
	resp, err := s.send(ctx, sql, params, sqlpb.QueryTypeExecQuery, timeout)
	if err != nil {
		return nil, err
	}
	return newResult(resp)
}

// ExecuteUpdate runs a mutation and returns the number of affected rows.
func (s *Session) ExecuteUpdate(ctx context.Context, sql string, params Params, timeout time.Duration) (int64, error) {
	resp, err := s.send(ctx, sql, params, sqlpb.QueryTypeExecUpdate, timeout)
	if err != nil {
		return 0, err
	}
	return resp.RowsAffected, nil
}

// Execute runs a statement without forcing a mode. The result is tabular
// when the response carries columns, a row count otherwise.
func (s *Session) Execute(ctx context.Context, sql string, params Params, timeout time.Duration) (*Result, error) {
	resp, err := s.send(ctx, sql, params, sqlpb.QueryTypeUnspecified, timeout)
	if err != nil {
		return nil, err
	}
	return newResult(resp)
}

func (s *Session) send(ctx context.Context, sql string, params Params, typ sqlpb.QueryType, timeout time.Duration) (*sqlpb.QueryResponse, error) {
	if timeout <= 0 {
		timeout = s.timeout
	}
	encoded, err := params.encode()
	if err != nil {
		return nil, err
	}

	s.call.Lock()
	defer s.call.Unlock()

	req := &sqlpb.QueryRequest{
		ReplicationID: s.ReplicationID(),
		SQL:           sql,
		Type:          typ,
		Params:        encoded,
	}
	ch := make(chan reply, 1)
	s.state.Lock()
	if s.broken != nil {
		broken := s.broken
		s.state.Unlock()
		return nil, broken
	}
	s.waiter = ch
	s.state.Unlock()

	s.logger.Tracef("%s %q (%d params)", typ, sql, len(encoded))
	if err := s.stream.Send(req); err != nil {
		s.state.Lock()
		if s.waiter == ch {
			s.waiter = nil
		}
		s.state.Unlock()
		return nil, &TransportError{Err: err}
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case r := <-ch:
		return s.complete(r)
	case <-timer.C:
		return s.abandon(ch, &TimeoutError{SQL: sql, After: timeout})
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return s.abandon(ch, &TimeoutError{SQL: sql, After: timeout})
		}
		return s.abandon(ch, errors.Wrap(ctx.Err(), "litesql: call canceled (statement outcome unknown)"))
	}
}

func (s *Session) complete(r reply) (*sqlpb.QueryResponse, error) {
	if r.err != nil {
		return nil, r.err
	}
	if r.resp.Error != "" {
		return nil, &StatementError{Message: r.resp.Error}
	}
	return r.resp, nil
}

// abandon gives up on the in-flight call. If the receiver already claimed
// the call's channel the reply is on its way and is returned instead;
// otherwise the response is owed and will be discarded on arrival. Owing
// more than MaxUnanswered responses breaks the session.
func (s *Session) abandon(ch chan reply, err error) (*sqlpb.QueryResponse, error) {
	s.state.Lock()
	if s.waiter == ch {
		s.waiter = nil
		s.skip++
		unresponsive := s.skip > MaxUnanswered && s.broken == nil
		if unresponsive {
			s.broken = &TransportError{Err: errors.Wrapf(ErrUnresponsive, "%d calls unanswered", s.skip)}
		}
		s.state.Unlock()
		s.logger.Warn(err)
		if unresponsive {
			s.cancel()
		}
		return nil, err
	}
	s.state.Unlock()
	return s.complete(<-ch)
}

// Ping checks the session with a trivial query.
func (s *Session) Ping(ctx context.Context) error {
	_, err := s.ExecuteQuery(ctx, "SELECT 1", nil, 0)
	return err
}

// Begin starts a transaction on the server side of the stream.
func (s *Session) Begin(ctx context.Context) error {
	_, err := s.Execute(ctx, "BEGIN", nil, 0)
	return err
}

// Commit commits the current transaction.
func (s *Session) Commit(ctx context.Context) error {
	_, err := s.Execute(ctx, "COMMIT", nil, 0)
	return err
}

// Rollback aborts the current transaction.
func (s *Session) Rollback(ctx context.Context) error {
	_, err := s.Execute(ctx, "ROLLBACK", nil, 0)
	return err
}

// SetReadOnly toggles PRAGMA query_only for the session.
func (s *Session) SetReadOnly(ctx context.Context, readOnly bool) error {
	stmt := "PRAGMA query_only = 0"
	if readOnly {
		stmt = "PRAGMA query_only = 1"
	}
	if _, err := s.Execute(ctx, stmt, nil, 0); err != nil {
		return err
	}
	s.call.Lock()
	s.readOnly = readOnly
	s.call.Unlock()
	return nil
}

// ReadOnly reports the last mode set with SetReadOnly.
func (s *Session) ReadOnly() bool {
	s.call.Lock()
	defer s.call.Unlock()
	return s.readOnly
}

// Close half-closes the stream and releases it. Calls issued after Close
// fail with ErrClosed; a call already in flight is allowed to finish first.
// Close is idempotent.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		s.state.Lock()
		if s.broken == nil {
			s.broken = &TransportError{Err: ErrClosed}
		}
		s.state.Unlock()
		s.call.Lock()
		s.closeErr = s.stream.CloseSend()
		s.call.Unlock()
		s.cancel()
		<-s.done
		s.logger.Debugf("closed")
	})
	return s.closeErr
}
