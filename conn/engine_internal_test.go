package conn

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/sync/semaphore"

	"github.com/voltgo/voltgo/procedure"
	"github.com/voltgo/voltgo/voltlog"
	"github.com/voltgo/voltgo/voltmetrics"
	"github.com/voltgo/voltgo/wire"
)

// newPipeEngine builds a ready-state Engine directly atop a net.Pipe,
// skipping Dial's handshake — a pure unit-test rig for the handle map
// and close semantics (§8 properties 5 and 7): an in-memory net.Pipe
// stands in for the TCP loopback peer that fake_server_test.go uses.
func newPipeEngine(t *testing.T, maxOutstanding int) (*Engine, net.Conn) {
	t.Helper()
	client, server := net.Pipe()

	e := &Engine{
		netConn: client,
		fr:      newFrameReader(client),
		writeCh: make(chan []byte, maxOutstanding),
		sem:     semaphore.NewWeighted(int64(maxOutstanding)),
		pending: make(map[int64]chan callResult),
		done:    make(chan struct{}),
		log:     voltlog.Nop,
		stats:   voltmetrics.Nop(),
	}
	e.state.set(StateReady)
	go e.readLoop()
	go e.writeLoop()

	t.Cleanup(func() { e.Close(); server.Close() })
	return e, server
}

// readRawFrame and writeRawFrame play the server side of the pipe in
// these tests.
func readRawFrame(c net.Conn) ([]byte, error) {
	fr := newFrameReader(c)
	return fr.readFrame()
}

func writeRawFrame(c net.Conn, b []byte) error {
	return writeFrame(c, b)
}

func TestHandleDemultiplexing(t *testing.T) {
	const n = 16
	e, server := newPipeEngine(t, n)

	results := make(chan int64, n)
	for i := 0; i < n; i++ {
		go func() {
			resp, err := e.Call(context.Background(), procedure.New("Noop"), nil)
			require.NoError(t, err)
			results <- resp.ClientHandle
		}()
	}

	seen := make(map[int64]bool)
	for i := 0; i < n; i++ {
		frame, err := readRawFrame(server)
		require.NoError(t, err)
		r := wire.NewReader(frame)
		_, _ = r.ReadByte()
		_, _ = r.ReadString()
		handle, err := r.ReadBigInt()
		require.NoError(t, err)
		require.False(t, seen[handle], "handle %d dispatched twice", handle)
		seen[handle] = true

		resp := &wire.Response{ClientHandle: handle, Status: 0}
		require.NoError(t, writeRawFrame(server, resp.Encode()))
	}

	for i := 0; i < n; i++ {
		select {
		case h := <-results:
			require.True(t, seen[h])
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for dispatched call")
		}
	}

	e.mu.Lock()
	remaining := len(e.pending)
	e.mu.Unlock()
	require.Zero(t, remaining, "handle map must be empty after every dispatch")
}

func TestOutOfOrderResponses(t *testing.T) {
	e, server := newPipeEngine(t, 10)

	type result struct {
		label string
		err   error
	}
	done := make(chan result, 3)
	call := func(label string) {
		_, err := e.Call(context.Background(), procedure.New("Noop"), nil)
		done <- result{label, err}
	}
	go call("A")
	go call("B")
	go call("C")

	handles := make([]int64, 3)
	for i := range handles {
		frame, err := readRawFrame(server)
		require.NoError(t, err)
		r := wire.NewReader(frame)
		_, _ = r.ReadByte()
		_, _ = r.ReadString()
		h, err := r.ReadBigInt()
		require.NoError(t, err)
		handles[i] = h
	}

	// Reply out of arrival order: the second frame read, then the
	// first, then the third. The three calls run concurrently, so which
	// label owns which handle is not fixed; each call is only checked
	// to complete without error.
	for _, idx := range []int{1, 0, 2} {
		resp := &wire.Response{ClientHandle: handles[idx], Status: 0}
		require.NoError(t, writeRawFrame(server, resp.Encode()))
	}

	for i := 0; i < 3; i++ {
		select {
		case r := <-done:
			require.NoError(t, r.err)
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for completion")
		}
	}
}

func TestCloseCompletesAllPendingCalls(t *testing.T) {
	e, _ := newPipeEngine(t, 10)

	const k = 5
	errs := make(chan error, k)
	for i := 0; i < k; i++ {
		go func() {
			_, err := e.Call(context.Background(), procedure.New("Noop"), nil)
			errs <- err
		}()
	}

	require.Eventually(t, func() bool {
		e.mu.Lock()
		defer e.mu.Unlock()
		return len(e.pending) == k
	}, time.Second, 10*time.Millisecond)

	require.NoError(t, e.Close())

	for i := 0; i < k; i++ {
		select {
		case err := <-errs:
			require.ErrorIs(t, err, ErrConnectionClosed)
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for a pending call to complete")
		}
	}
}
