package conn

import (
	"crypto/sha1"
	"io"

	"github.com/voltgo/voltgo/wire"
)

const serviceName = "database"

// sendLogin writes the single login handshake frame: protocol version,
// service name, username, and the 20-byte SHA-1 digest of the
// password — always 20 bytes, even for an empty password (§4.3, §6).
func sendLogin(w io.Writer, username, password string) error {
	digest := sha1.Sum([]byte(password))

	body := wire.NewWriter(32 + len(serviceName) + len(username))
	body.WriteByte(0) // protocol_version

	svc := serviceName
	body.WriteString(&svc)

	user := username
	body.WriteString(&user)

	body.WriteBytes(digest[:])

	return writeFrame(w, body.Bytes())
}

// loginResult is the part of the server's handshake response the
// client keeps. Only Status is interpreted; the rest of the response
// is server metadata the client doesn't use, consumed by
// recvLoginResult only so the stream stays aligned for the steady
// state that follows (§4.3).
type loginResult struct {
	Version byte
	Status  byte
}

// recvLoginResult reads and decodes the handshake response frame. The
// status byte is returned as-is in the result; Dial turns any nonzero
// status into a fatal AuthError and does not start the steady-state
// read/write loops.
func recvLoginResult(fr *frameReader) (*loginResult, error) {
	frame, err := fr.readFrame()
	if err != nil {
		return nil, err
	}

	r := wire.NewReader(frame)
	version, err := r.ReadByte()
	if err != nil {
		return nil, err
	}
	status, err := r.ReadByte()
	if err != nil {
		return nil, err
	}

	// Server metadata the client doesn't use: int32, int64, int64,
	// int32, then an int32-prefixed list of int32 values. All consumed
	// and discarded so the frame is fully drained (§4.3).
	if _, err := r.ReadInteger(); err != nil {
		return nil, err
	}
	if _, err := r.ReadBigInt(); err != nil {
		return nil, err
	}
	if _, err := r.ReadBigInt(); err != nil {
		return nil, err
	}
	if _, err := r.ReadInteger(); err != nil {
		return nil, err
	}
	count, err := r.ReadInteger()
	if err != nil {
		return nil, err
	}
	for i := int32(0); i < count; i++ {
		if _, err := r.ReadInteger(); err != nil {
			return nil, err
		}
	}

	return &loginResult{Version: version, Status: status}, nil
}
