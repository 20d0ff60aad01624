// Package conn implements the asynchronous connection engine: one TCP
// socket, the login handshake, frame I/O, handle multiplexing, and
// backpressure (§4.3). It is grounded on the teacher's readLoop /
// writeLoop goroutine-plus-channel pair (packets.go): one goroutine
// owns net.Conn.Read and also dispatches decoded responses, and one
// owns net.Conn.Write. The handle counter and handle→continuation map
// are shared between Call, the reader and Close, guarded by Engine.mu.
package conn

import (
	"context"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/semaphore"

	"github.com/voltgo/voltgo/config"
	"github.com/voltgo/voltgo/procedure"
	"github.com/voltgo/voltgo/voltlog"
	"github.com/voltgo/voltgo/voltmetrics"
	"github.com/voltgo/voltgo/wire"
)

// callResult is what a registered continuation eventually receives:
// either a decoded response or a terminal error (ConnectionClosed on
// session failure).
type callResult struct {
	resp *wire.Response
	err  error
}

// Engine owns one authenticated session: the socket, the write queue,
// the handle→continuation map, and the outstanding-call bound (§3
// Ownership, §4.3).
type Engine struct {
	netConn net.Conn
	fr      *frameReader
	writeCh chan []byte

	sem *semaphore.Weighted

	mu         sync.Mutex
	nextHandle int64
	pending    map[int64]chan callResult

	// done is closed exactly once, by Close()/fail(), and is the only
	// channel ever closed. writeCh itself is never closed — mirroring
	// the teacher's mc.closech/mc.writeReq split (packets.go:117-121)
	// — so a Call() racing a Close() selects against done instead of
	// risking a send on a closed channel.
	done chan struct{}

	state sessionState

	closeOnce sync.Once

	log   voltlog.Logger
	stats *voltmetrics.Stats
}

// Option configures optional Engine dependencies.
type Option func(*Engine)

// WithLogger overrides the engine's logger (default voltlog.Nop).
func WithLogger(l voltlog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithStats overrides the engine's metrics sink (default voltmetrics.Nop()).
func WithStats(s *voltmetrics.Stats) Option {
	return func(e *Engine) { e.stats = s }
}

// Dial opens a TCP connection, runs the login handshake, and — on
// success — starts the reader and writer goroutines, returning a
// ready-to-use Engine (§4.3).
func Dial(ctx context.Context, cfg config.Config, opts ...Option) (*Engine, error) {
	cfg = cfg.WithDefaults()
	addr := net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))

	e := &Engine{
		pending: make(map[int64]chan callResult),
		sem:     semaphore.NewWeighted(int64(cfg.MaxOutstanding)),
		log:     voltlog.Nop,
		stats:   voltmetrics.Nop(),
		writeCh: make(chan []byte, cfg.MaxOutstanding),
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.state.set(StateConnecting)

	dialer := net.Dialer{Timeout: cfg.DialTimeout}
	dialStart := time.Now()
	netConn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, &ConnectError{Addr: addr, Err: err}
	}
	e.netConn = netConn
	e.fr = newFrameReader(netConn)
	if cfg.DialTimeout > 0 {
		_ = netConn.SetDeadline(dialStart.Add(cfg.DialTimeout))
	}

	e.state.set(StateAuthenticating)
	start := time.Now()
	if err := sendLogin(netConn, cfg.Username, cfg.Password); err != nil {
		netConn.Close()
		return nil, &ConnectError{Addr: addr, Err: err}
	}
	result, err := recvLoginResult(e.fr)
	if err != nil {
		netConn.Close()
		return nil, &AuthError{Msg: "malformed handshake response", Err: err}
	}
	e.stats.HandshakeSeconds.Observe(time.Since(start).Seconds())

	if result.Status != 0 {
		netConn.Close()
		e.state.set(StateClosed)
		return nil, &AuthError{Msg: "status " + strconv.Itoa(int(result.Status))}
	}

	_ = netConn.SetDeadline(time.Time{})
	e.state.set(StateReady)
	go e.readLoop()
	go e.writeLoop()

	e.log.Infow("session established", "addr", addr)
	return e, nil
}

// Call submits one procedure invocation and blocks until the engine
// dispatches its response, ctx is done, or the session closes (§4.3,
// §4.4). A context cancellation never rescinds the handle (§5): the
// continuation still fires, into a channel Call has stopped reading.
func (e *Engine) Call(ctx context.Context, desc procedure.Descriptor, args []procedure.Argument) (*wire.Response, error) {
	if e.state.get() != StateReady {
		return nil, ErrConnectionClosed
	}

	if !e.sem.TryAcquire(1) {
		e.stats.BackpressureDrops.Inc()
		return nil, ErrBackpressure
	}

	e.mu.Lock()
	handle := e.nextHandle
	e.nextHandle++
	resultCh := make(chan callResult, 1)
	e.pending[handle] = resultCh
	e.mu.Unlock()
	e.stats.InFlight.Inc()

	payload, err := desc.Serialize(handle, args)
	if err != nil {
		e.forget(handle)
		e.sem.Release(1)
		e.stats.InFlight.Dec()
		return nil, err
	}

	select {
	case e.writeCh <- payload:
	case <-e.done:
		e.forget(handle)
		e.sem.Release(1)
		e.stats.InFlight.Dec()
		return nil, ErrConnectionClosed
	case <-ctx.Done():
		e.forget(handle)
		e.sem.Release(1)
		e.stats.InFlight.Dec()
		return nil, ctx.Err()
	}

	select {
	case res := <-resultCh:
		e.sem.Release(1)
		e.stats.InFlight.Dec()
		return res.resp, res.err
	case <-ctx.Done():
		// The handle is not rescinded (§5): the continuation still
		// fires eventually. Release its resources in the background
		// so a cancelled caller doesn't leak an outstanding-call slot.
		go func() {
			<-resultCh
			e.sem.Release(1)
			e.stats.InFlight.Dec()
		}()
		return nil, ctx.Err()
	}
}

// forget removes handle from the pending map without completing it —
// used only when a call never reached the wire.
func (e *Engine) forget(handle int64) {
	e.mu.Lock()
	delete(e.pending, handle)
	e.mu.Unlock()
}

// Close transitions the session to draining then closed, stops I/O,
// and completes every outstanding continuation with ErrConnectionClosed
// (§4.3 Close, §8 property 7).
func (e *Engine) Close() error {
	e.closeOnce.Do(func() {
		e.state.set(StateDraining)
		e.netConn.Close()
		close(e.done)
		e.failAll(ErrConnectionClosed)
		e.state.set(StateClosed)
	})
	return nil
}

// fail is the internal path for an unrecoverable I/O or decode error:
// it has the same terminal effect as Close but is triggered by the
// reader or writer goroutine instead of the caller.
func (e *Engine) fail(cause error) {
	e.log.Errorw("session failing", "err", cause)
	e.closeOnce.Do(func() {
		e.netConn.Close()
		close(e.done)
		e.failAll(ErrConnectionClosed)
		e.state.set(StateClosed)
	})
}

func (e *Engine) failAll(cause error) {
	e.mu.Lock()
	pending := e.pending
	e.pending = make(map[int64]chan callResult)
	e.mu.Unlock()

	for _, ch := range pending {
		ch <- callResult{err: cause}
	}
}

// State reports the session's current lifecycle stage.
func (e *Engine) State() State { return e.state.get() }

// writeLoop is the sole goroutine that calls net.Conn.Write, draining
// e.writeCh in FIFO order (§4.3 Write queue; grounded on the
// teacher's writeLoop in packets.go). e.writeCh is never closed — only
// e.done is — so Call() can always safely send to it; this loop exits
// by selecting on e.done instead.
func (e *Engine) writeLoop() {
	for {
		select {
		case payload := <-e.writeCh:
			if err := writeFrame(e.netConn, payload); err != nil {
				e.fail(errors.Wrap(err, "voltgo: write frame"))
				return
			}
		case <-e.done:
			return
		}
	}
}

// readLoop is the sole goroutine that calls net.Conn.Read: it pulls
// complete frames off the socket, decodes each as a Response, and
// dispatches it by handle (§4.3 Framing/Multiplexing; grounded on the
// teacher's readLoop in packets.go).
func (e *Engine) readLoop() {
	for {
		frame, err := e.fr.readFrame()
		if err != nil {
			e.fail(errors.Wrap(err, "voltgo: read frame"))
			return
		}

		resp, err := wire.DecodeResponse(frame)
		if err != nil {
			// A decode error taints the connection: the byte stream is
			// no longer aligned with frame boundaries (§7).
			e.fail(errors.Wrap(err, "voltgo: decode response"))
			return
		}

		e.dispatch(resp)
	}
}

func (e *Engine) dispatch(resp *wire.Response) {
	e.mu.Lock()
	ch, ok := e.pending[resp.ClientHandle]
	if ok {
		delete(e.pending, resp.ClientHandle)
	}
	e.mu.Unlock()

	if !ok {
		// Fatal for this frame, recoverable at session level (§4.3):
		// log and drop rather than kill a session whose other calls
		// are still healthy.
		orphan := &wire.DecodeError{Kind: wire.OrphanResponse, Msg: "no pending call for handle"}
		e.log.Warnw("orphan response", "handle", resp.ClientHandle, "err", orphan)
		e.stats.CallsDispatched.WithLabelValues("orphan").Inc()
		return
	}

	e.stats.CallsDispatched.WithLabelValues("ok").Inc()
	ch <- callResult{resp: resp}
}
