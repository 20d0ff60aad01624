package procedure_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/voltgo/voltgo/procedure"
	"github.com/voltgo/voltgo/wire"
)

func TestSerializeScalarArgs(t *testing.T) {
	desc := procedure.New("Insert", wire.TagString, wire.TagString, wire.TagString)
	payload, err := desc.Serialize(7, []procedure.Argument{
		procedure.Scalar(wire.TagString, "English"),
		procedure.Scalar(wire.TagString, "Hello"),
		procedure.Scalar(wire.TagString, "World"),
	})
	require.NoError(t, err)

	r := wire.NewReader(payload)
	version, err := r.ReadByte()
	require.NoError(t, err)
	require.Equal(t, byte(0), version)

	name, err := r.ReadString()
	require.NoError(t, err)
	require.Equal(t, "Insert", *name)

	handle, err := r.ReadBigInt()
	require.NoError(t, err)
	require.Equal(t, int64(7), handle)

	paramCount, err := r.ReadSmallInt()
	require.NoError(t, err)
	require.Equal(t, int16(3), paramCount)

	for _, want := range []string{"English", "Hello", "World"} {
		tag, err := r.ReadTag()
		require.NoError(t, err)
		require.Equal(t, wire.TagString, tag)
		cell, err := r.DecodeCell(wire.TagString)
		require.NoError(t, err)
		require.Equal(t, want, cell)
	}
}

func TestSerializeArrayArg(t *testing.T) {
	desc := procedure.Descriptor{
		Name: "BatchInsert",
		Params: []procedure.ParamSpec{
			{Tag: wire.TagInteger, Array: true},
		},
	}
	payload, err := desc.Serialize(1, []procedure.Argument{
		procedure.ArrayOf(wire.TagInteger, []wire.Cell{int32(1), int32(2)}),
	})
	require.NoError(t, err)
	require.NotEmpty(t, payload)
}

func TestSerializeArgCountMismatch(t *testing.T) {
	desc := procedure.New("Select", wire.TagString)
	_, err := desc.Serialize(1, nil)
	require.Error(t, err)
	var encErr *wire.EncodeError
	require.ErrorAs(t, err, &encErr)
	require.Equal(t, wire.EncodeTypeMismatch, encErr.Kind)
}

func TestSerializeTagMismatch(t *testing.T) {
	desc := procedure.New("Select", wire.TagString)
	_, err := desc.Serialize(1, []procedure.Argument{
		procedure.Scalar(wire.TagInteger, int32(5)),
	})
	require.Error(t, err)
	var encErr *wire.EncodeError
	require.ErrorAs(t, err, &encErr)
	require.Equal(t, wire.EncodeTypeMismatch, encErr.Kind)
}

func TestSerializeArrayShapeMismatch(t *testing.T) {
	desc := procedure.New("Select", wire.TagString)
	_, err := desc.Serialize(1, []procedure.Argument{
		procedure.ArrayOf(wire.TagString, []wire.Cell{"a"}),
	})
	require.Error(t, err)
	var encErr *wire.EncodeError
	require.ErrorAs(t, err, &encErr)
	require.Equal(t, wire.EncodeTypeMismatch, encErr.Kind)
}
