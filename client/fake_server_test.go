package client_test

import (
	"net"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/voltgo/voltgo/wire"
)

// callHandler and fakeServer mirror conn/fake_server_test.go's scripted
// peer: client_test and conn_test are separate compiled packages, so
// the helpers aren't importable directly, but the pattern — a real TCP
// loopback listener speaking this protocol's handshake and call/
// response framing by hand — is reused verbatim here to exercise
// Client.Dial/Invoke/Close end-to-end.
type callHandler func(name string, handle int64, params []wire.Cell) *wire.Response

type fakeServer struct {
	ln         net.Listener
	authStatus byte
	handlers   map[string]callHandler
}

func newFakeServer(t *testing.T) *fakeServer {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })
	return &fakeServer{ln: ln, handlers: map[string]callHandler{}}
}

func (f *fakeServer) addr() (string, int) {
	tcpAddr := f.ln.Addr().(*net.TCPAddr)
	return tcpAddr.IP.String(), tcpAddr.Port
}

func (f *fakeServer) on(name string, h callHandler) {
	f.handlers[name] = h
}

func (f *fakeServer) serveOne(t *testing.T) {
	c, err := f.ln.Accept()
	if err != nil {
		return
	}
	go f.handleConn(t, c)
}

func (f *fakeServer) handleConn(t *testing.T, c net.Conn) {
	defer c.Close()

	if _, err := readFrame(c); err != nil {
		return
	}

	resp := wire.NewWriter(32)
	resp.WriteByte(0) // version
	resp.WriteByte(f.authStatus)
	resp.WriteInteger(0)
	resp.WriteBigInt(0)
	resp.WriteBigInt(0)
	resp.WriteInteger(0)
	resp.WriteInteger(0) // metadata list count
	if err := writeFrameTo(c, resp.Bytes()); err != nil {
		return
	}
	if f.authStatus != 0 {
		return
	}

	for {
		frame, err := readFrame(c)
		if err != nil {
			return
		}
		r := wire.NewReader(frame)
		if _, err := r.ReadByte(); err != nil { // version
			return
		}
		nameP, err := r.ReadString()
		if err != nil || nameP == nil {
			return
		}
		handle, err := r.ReadBigInt()
		if err != nil {
			return
		}
		paramCount, err := r.ReadSmallInt()
		if err != nil {
			return
		}
		params := make([]wire.Cell, paramCount)
		for i := range params {
			tag, err := r.ReadTag()
			if err != nil {
				return
			}
			cell, err := r.DecodeCell(tag)
			if err != nil {
				return
			}
			params[i] = cell
		}

		h, ok := f.handlers[*nameP]
		if !ok {
			continue
		}
		out := h(*nameP, handle, params)
		if out == nil {
			continue
		}
		out.ClientHandle = handle
		if err := writeFrameTo(c, out.Encode()); err != nil {
			return
		}
	}
}

func readFrame(c net.Conn) ([]byte, error) {
	var header [4]byte
	if _, err := readFull(c, header[:]); err != nil {
		return nil, err
	}
	n := int(header[0])<<24 | int(header[1])<<16 | int(header[2])<<8 | int(header[3])
	body := make([]byte, n)
	if _, err := readFull(c, body); err != nil {
		return nil, err
	}
	return body, nil
}

func readFull(c net.Conn, buf []byte) (int, error) {
	total := 0
	for total < len(buf) {
		n, err := c.Read(buf[total:])
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

func writeFrameTo(c net.Conn, payload []byte) error {
	var header [4]byte
	l := len(payload)
	header[0] = byte(l >> 24)
	header[1] = byte(l >> 16)
	header[2] = byte(l >> 8)
	header[3] = byte(l)
	if _, err := c.Write(header[:]); err != nil {
		return err
	}
	_, err := c.Write(payload)
	return err
}
