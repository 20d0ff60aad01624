package procedure

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/voltgo/voltgo/wire"
)

// ParamSpec declares one parameter slot of a procedure: its wire type
// and whether the slot expects an array argument.
type ParamSpec struct {
	Tag   wire.Tag
	Array bool
}

// Descriptor names a procedure and declares its ordered parameter
// list (§4.2).
type Descriptor struct {
	Name   string
	Params []ParamSpec
}

// New builds a Descriptor from scalar parameter tags — the common
// case where no parameter is an array.
func New(name string, paramTags ...wire.Tag) Descriptor {
	params := make([]ParamSpec, len(paramTags))
	for i, t := range paramTags {
		params[i] = ParamSpec{Tag: t}
	}
	return Descriptor{Name: name, Params: params}
}

// Serialize writes the call payload for this procedure against args:
// version byte (0), procedure name, client handle, parameter count,
// then each parameter either as a self-describing array envelope or a
// tag-prefixed scalar (§4.2).
func (d Descriptor) Serialize(handle int64, args []Argument) ([]byte, error) {
	if len(args) != len(d.Params) {
		return nil, wireTypeMismatchf("procedure %s expects %d parameters, got %d", d.Name, len(d.Params), len(args))
	}

	w := wire.NewWriter(64 + 8*len(args))
	w.WriteByte(0) // version
	name := d.Name
	w.WriteString(&name)
	w.WriteBigInt(handle)
	w.WriteSmallInt(int16(len(args)))

	for i, arg := range args {
		spec := d.Params[i]
		if arg.isArray != spec.Array {
			return nil, wireTypeMismatchf("procedure %s parameter %d: expected array=%v, got array=%v", d.Name, i, spec.Array, arg.isArray)
		}
		if arg.tag != spec.Tag {
			return nil, wireTypeMismatchf("procedure %s parameter %d: expected tag %s, got %s", d.Name, i, spec.Tag, arg.tag)
		}

		if spec.Array {
			if err := w.WriteArgumentArray(spec.Tag, arg.elements); err != nil {
				return nil, err
			}
			continue
		}

		w.WriteTag(spec.Tag)
		if err := w.EncodeCell(spec.Tag, arg.value); err != nil {
			return nil, err
		}
	}

	return w.Bytes(), nil
}

func wireTypeMismatchf(format string, args ...any) error {
	return &wire.EncodeError{Kind: wire.EncodeTypeMismatch, Msg: fmt.Sprintf(format, args...)}
}

// ParamTypesFrom infers each scalar parameter's wire tag from a sample
// Go value, for the common case where a procedure's parameters are all
// non-array scalars and the caller already has one representative
// value per slot (e.g. the same values it's about to pass to Scalar).
// It dispatches on Cell's known concrete types with a type switch, not
// the reflect package, matching this codec's avoidance of reflection
// elsewhere (wire/value.go's generic asPtr/derefCell helpers).
func ParamTypesFrom(samples ...wire.Cell) ([]wire.Tag, error) {
	tags := make([]wire.Tag, len(samples))
	for i, v := range samples {
		tag, err := tagForSample(v)
		if err != nil {
			return nil, fmt.Errorf("procedure: parameter %d: %w", i, err)
		}
		tags[i] = tag
	}
	return tags, nil
}

func tagForSample(v wire.Cell) (wire.Tag, error) {
	switch v.(type) {
	case int8:
		return wire.TagTinyInt, nil
	case int16:
		return wire.TagSmallInt, nil
	case int32:
		return wire.TagInteger, nil
	case int64:
		return wire.TagBigInt, nil
	case float64:
		return wire.TagFloat, nil
	case string:
		return wire.TagString, nil
	case []byte:
		return wire.TagVarbinary, nil
	case wire.Timestamp:
		return wire.TagTimestamp, nil
	case *decimal.Decimal:
		return wire.TagDecimal, nil
	default:
		return 0, wireTypeMismatchf("cannot infer a wire tag from sample of type %T", v)
	}
}
