package wire

import (
	"encoding/binary"
	"math"
	"unicode/utf8"
)

// Writer accumulates an encoded value stream. All multi-byte scalars
// are written big-endian, per §4.1 — the writer has no byte-order
// hook; only Reader does, since the server never asks a client to
// produce anything but big-endian bytes.
type Writer struct {
	buf []byte
}

// NewWriter returns a Writer with a pre-sized backing array.
func NewWriter(sizeHint int) *Writer {
	return &Writer{buf: make([]byte, 0, sizeHint)}
}

// Bytes returns the accumulated buffer. The returned slice aliases the
// Writer's storage and must not be retained across further writes.
func (w *Writer) Bytes() []byte { return w.buf }

// Len reports the number of bytes written so far.
func (w *Writer) Len() int { return len(w.buf) }

func (w *Writer) WriteByte(b byte) { w.buf = append(w.buf, b) }

func (w *Writer) WriteBytes(b []byte) { w.buf = append(w.buf, b...) }

func (w *Writer) WriteTag(t Tag) { w.WriteByte(byte(int8(t))) }

func (w *Writer) WriteTinyInt(v int8) { w.WriteByte(byte(v)) }

func (w *Writer) WriteSmallInt(v int16) {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], uint16(v))
	w.buf = append(w.buf, b[:]...)
}

func (w *Writer) WriteInteger(v int32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], uint32(v))
	w.buf = append(w.buf, b[:]...)
}

func (w *Writer) WriteBigInt(v int64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(v))
	w.buf = append(w.buf, b[:]...)
}

func (w *Writer) WriteFloat(v float64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], math.Float64bits(v))
	w.buf = append(w.buf, b[:]...)
}

func (w *Writer) WriteTimestamp(microsSinceEpoch int64) { w.WriteBigInt(microsSinceEpoch) }

// WriteString writes a null-aware UTF-8 string: int32 length prefix
// (-1 for nil) followed by the raw bytes. Validity is the caller's
// responsibility on encode (servers reject bad UTF-8 themselves); read
// side validates per §4.1.
func (w *Writer) WriteString(s *string) {
	if s == nil {
		w.WriteInteger(nullStringLen)
		return
	}
	w.WriteInteger(int32(len(*s)))
	w.buf = append(w.buf, *s...)
}

// WriteVarbinary writes the same length-prefixed shape as WriteString
// but for raw, non-UTF8-validated bytes. A nil slice is distinct from
// an empty (non-nil, zero length) one: nil encodes the null sentinel.
func (w *Writer) WriteVarbinary(b []byte) {
	if b == nil {
		w.WriteInteger(nullStringLen)
		return
	}
	w.WriteInteger(int32(len(b)))
	w.buf = append(w.buf, b...)
}

// Reader consumes an encoded value stream. Order is exposed purely
// as a test hook (§4.1: "a configuration hook may switch the reader...
// to little-endian for bespoke test buffers"); production code never
// sets it to anything but the default.
type Reader struct {
	buf   []byte
	pos   int
	Order binary.ByteOrder
}

// NewReader wraps buf for big-endian reads.
func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf, Order: binary.BigEndian}
}

// Remaining reports how many unconsumed bytes are left.
func (r *Reader) Remaining() int { return len(r.buf) - r.pos }

func (r *Reader) need(n int) error {
	if r.Remaining() < n {
		return newDecodeError(Frame, "need %d bytes, have %d", n, r.Remaining())
	}
	return nil
}

// ReadBytes consumes and returns the next n raw bytes.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if err := r.need(n); err != nil {
		return nil, err
	}
	b := r.buf[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

func (r *Reader) ReadByte() (byte, error) {
	b, err := r.ReadBytes(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *Reader) ReadTag() (Tag, error) {
	b, err := r.ReadByte()
	if err != nil {
		return 0, err
	}
	return Tag(int8(b)), nil
}

func (r *Reader) ReadTinyInt() (int8, error) {
	b, err := r.ReadByte()
	if err != nil {
		return 0, err
	}
	return int8(b), nil
}

func (r *Reader) ReadSmallInt() (int16, error) {
	b, err := r.ReadBytes(2)
	if err != nil {
		return 0, err
	}
	return int16(r.Order.Uint16(b)), nil
}

func (r *Reader) ReadInteger() (int32, error) {
	b, err := r.ReadBytes(4)
	if err != nil {
		return 0, err
	}
	return int32(r.Order.Uint32(b)), nil
}

func (r *Reader) ReadBigInt() (int64, error) {
	b, err := r.ReadBytes(8)
	if err != nil {
		return 0, err
	}
	return int64(r.Order.Uint64(b)), nil
}

func (r *Reader) ReadFloat() (float64, error) {
	b, err := r.ReadBytes(8)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(r.Order.Uint64(b)), nil
}

func (r *Reader) ReadTimestamp() (int64, error) { return r.ReadBigInt() }

// ReadString consumes a length-prefixed string. A nil *string result
// signals the null sentinel (length == -1). Invalid UTF-8 is a
// DecodeError of kind BadUTF8.
func (r *Reader) ReadString() (*string, error) {
	n, err := r.ReadInteger()
	if err != nil {
		return nil, err
	}
	if n == nullStringLen {
		return nil, nil
	}
	if n < 0 {
		return nil, newDecodeError(Frame, "negative string length %d", n)
	}
	b, err := r.ReadBytes(int(n))
	if err != nil {
		return nil, err
	}
	if !utf8.Valid(b) {
		return nil, newDecodeError(BadUTF8, "invalid UTF-8 in string of length %d", n)
	}
	s := string(b)
	return &s, nil
}

// ReadVarbinary consumes a length-prefixed byte string. nil signals
// the null sentinel; a present-but-empty value decodes to a non-nil,
// zero-length slice.
func (r *Reader) ReadVarbinary() ([]byte, error) {
	n, err := r.ReadInteger()
	if err != nil {
		return nil, err
	}
	if n == nullStringLen {
		return nil, nil
	}
	if n < 0 {
		return nil, newDecodeError(Frame, "negative varbinary length %d", n)
	}
	b, err := r.ReadBytes(int(n))
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out, nil
}
