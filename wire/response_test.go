package wire_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/voltgo/voltgo/wire"
)

func TestResponseRoundTrip(t *testing.T) {
	statusStr := "ok"
	resp := &wire.Response{
		Version:         0,
		ClientHandle:    12345,
		Status:          0,
		StatusString:    &statusStr,
		AppStatus:       0,
		RoundTripMillis: 7,
		Tables:          []*wire.Table{sampleTable()},
	}

	enc := resp.Encode()
	got, err := wire.DecodeResponse(enc)
	require.NoError(t, err)
	require.Equal(t, resp.ClientHandle, got.ClientHandle)
	require.Equal(t, resp.Status, got.Status)
	require.NotNil(t, got.StatusString)
	require.Equal(t, *resp.StatusString, *got.StatusString)
	require.Len(t, got.Tables, 1)
	require.Equal(t, resp.Tables[0].Rows, got.Tables[0].Rows)
}

func TestResponseWithExceptionRoundTrip(t *testing.T) {
	resp := &wire.Response{
		ClientHandle: 9,
		Status:       1,
		Exception:    &wire.Exception{Kind: wire.ExceptionGeneric, Message: "boom"},
	}
	enc := resp.Encode()
	got, err := wire.DecodeResponse(enc)
	require.NoError(t, err)
	require.NotNil(t, got.Exception)
	require.Equal(t, wire.ExceptionGeneric, got.Exception.Kind)
	require.Equal(t, "boom", got.Exception.Message)
}

func TestResponseTrailingBytesIsFrameError(t *testing.T) {
	resp := &wire.Response{ClientHandle: 1}
	enc := append(resp.Encode(), 0xFF)
	_, err := wire.DecodeResponse(enc)
	require.Error(t, err)
	var decErr *wire.DecodeError
	require.ErrorAs(t, err, &decErr)
	require.Equal(t, wire.Frame, decErr.Kind)
}
