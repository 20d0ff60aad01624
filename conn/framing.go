package conn

import (
	"encoding/binary"
	"io"
)

// frameReader reads length-prefixed frames off r: a 4-byte big-endian
// length header followed by that many body bytes (§3, §6). It is the
// idiomatic-Go rendering of the two-state accumulator the protocol
// describes — a goroutine blocked in io.ReadFull plays the same role
// as an explicit "have I got the header yet / have I got the body
// yet" state machine would under a non-blocking event loop, grounded
// on the teacher's readPacket (packets.go) minus MySQL's sequence-byte
// multiplexing, which this protocol doesn't have.
type frameReader struct {
	r      io.Reader
	header [4]byte
}

func newFrameReader(r io.Reader) *frameReader {
	return &frameReader{r: r}
}

// readFrame blocks until one full frame body has been read, or
// returns the underlying I/O error (typically io.EOF on orderly close,
// or a net.Error on the wire going away).
func (f *frameReader) readFrame() ([]byte, error) {
	if _, err := io.ReadFull(f.r, f.header[:]); err != nil {
		return nil, err
	}
	n := int32(binary.BigEndian.Uint32(f.header[:]))
	if n < 0 {
		return nil, io.ErrUnexpectedEOF
	}
	body := make([]byte, n)
	if _, err := io.ReadFull(f.r, body); err != nil {
		return nil, err
	}
	return body, nil
}

// writeFrame writes payload as one length-prefixed frame. Called only
// from the single writer goroutine (or synchronously during the
// handshake, before that goroutine starts), matching the teacher's
// writeSync discipline of never touching net.Conn.Write from two
// goroutines at once.
func writeFrame(w io.Writer, payload []byte) error {
	var header [4]byte
	binary.BigEndian.PutUint32(header[:], uint32(len(payload)))
	if _, err := w.Write(header[:]); err != nil {
		return err
	}
	_, err := w.Write(payload)
	return err
}
