package wire

// Present-fields bitmask bits, per §3/§6.
const (
	presentStatusString    byte = 1 << 5
	presentAppStatusString byte = 1 << 7
	presentException       byte = 1 << 6
)

// Response is one decoded call response (§3, §6). Status and AppStatus
// are exposed as raw bytes and are never interpreted by this package —
// §9's open question on which status value means success is left to
// the caller.
type Response struct {
	Version         byte
	ClientHandle    int64
	Status          byte
	StatusString    *string
	AppStatus       byte
	AppStatusString *string
	RoundTripMillis int32
	Exception       *Exception
	Tables          []*Table
}

// DecodeResponse reads one complete call response frame body (the
// length prefix itself is stripped by the framer before this is
// called; see package conn).
func DecodeResponse(frame []byte) (*Response, error) {
	r := NewReader(frame)
	resp := &Response{}

	var err error
	resp.Version, err = r.ReadByte()
	if err != nil {
		return nil, err
	}
	resp.ClientHandle, err = r.ReadBigInt()
	if err != nil {
		return nil, err
	}
	present, err := r.ReadByte()
	if err != nil {
		return nil, err
	}
	resp.Status, err = r.ReadByte()
	if err != nil {
		return nil, err
	}
	if present&presentStatusString != 0 {
		resp.StatusString, err = r.ReadString()
		if err != nil {
			return nil, err
		}
	}
	resp.AppStatus, err = r.ReadByte()
	if err != nil {
		return nil, err
	}
	if present&presentAppStatusString != 0 {
		resp.AppStatusString, err = r.ReadString()
		if err != nil {
			return nil, err
		}
	}
	resp.RoundTripMillis, err = r.ReadInteger()
	if err != nil {
		return nil, err
	}
	if present&presentException != 0 {
		resp.Exception, err = r.DecodeException()
		if err != nil {
			return nil, err
		}
	}

	tableCount, err := r.ReadSmallInt()
	if err != nil {
		return nil, err
	}
	if tableCount < 0 {
		return nil, newDecodeError(Frame, "negative table count %d", tableCount)
	}
	resp.Tables = make([]*Table, tableCount)
	for i := range resp.Tables {
		resp.Tables[i], err = r.DecodeTable()
		if err != nil {
			return nil, err
		}
	}
	if r.Remaining() != 0 {
		return nil, newDecodeError(Frame, "%d trailing bytes after response body", r.Remaining())
	}
	return resp, nil
}

// Encode serializes resp as a full response frame body (no outer
// length prefix — the caller, typically a test fake server, adds
// that when writing the frame).
func (resp *Response) Encode() []byte {
	w := NewWriter(64)
	w.WriteByte(resp.Version)
	w.WriteBigInt(resp.ClientHandle)

	var present byte
	if resp.StatusString != nil {
		present |= presentStatusString
	}
	if resp.AppStatusString != nil {
		present |= presentAppStatusString
	}
	if resp.Exception != nil && resp.Exception.Kind != ExceptionNone {
		present |= presentException
	}
	w.WriteByte(present)
	w.WriteByte(resp.Status)
	if present&presentStatusString != 0 {
		w.WriteString(resp.StatusString)
	}
	w.WriteByte(resp.AppStatus)
	if present&presentAppStatusString != 0 {
		w.WriteString(resp.AppStatusString)
	}
	w.WriteInteger(resp.RoundTripMillis)
	if present&presentException != 0 {
		w.WriteBytes(resp.Exception.Encode())
	}

	w.WriteSmallInt(int16(len(resp.Tables)))
	for _, t := range resp.Tables {
		enc, err := t.Encode()
		if err != nil {
			// Table.Encode only fails on caller-malformed row shapes;
			// Response.Encode is used by tests building well-formed
			// fixtures, so this should never trip in practice.
			panic(err)
		}
		w.WriteBytes(enc)
	}
	return w.Bytes()
}
