package wire

import (
	"time"

	"github.com/shopspring/decimal"
)

// Timestamp is microseconds since the Unix epoch — the codec's
// canonical representation (§4.1). Time/TimestampFromTime are a
// presentation convenience only; nothing in this package converts
// through them internally.
type Timestamp int64

func (t Timestamp) Time() time.Time {
	return time.UnixMicro(int64(t)).UTC()
}

func TimestampFromTime(t time.Time) Timestamp {
	return Timestamp(t.UnixMicro())
}

// Cell holds one decoded table cell or scalar argument value. A nil
// Cell means SQL NULL. The concrete dynamic types DecodeCell produces
// and EncodeCell accepts are:
//
//	int8, int16, int32, int64, float64, string, []byte,
//	wire.Timestamp, *decimal.Decimal
//
// Nested VOLTTABLE and ARRAY values have no Cell form.
type Cell any

// DecodeCell reads one value of the given scalar tag, returning a nil
// Cell for SQL NULL. ARRAY and VOLTTABLE tags are not scalar tags and
// yield a DecodeError of kind UnknownTag here; arrays are read with
// ReadArgumentArray/ReadTypedArray (array.go) and tables with
// DecodeTable (table.go). DecodeTable decodes every column through
// DecodeCell, so a table column of ARRAY or VOLTTABLE type is not
// decoded.
func (r *Reader) DecodeCell(tag Tag) (Cell, error) {
	switch tag {
	case TagNull:
		return nil, nil
	case TagTinyInt:
		v, err := r.ReadNullableTinyInt()
		return derefCell(v), err
	case TagSmallInt:
		v, err := r.ReadNullableSmallInt()
		return derefCell(v), err
	case TagInteger:
		v, err := r.ReadNullableInteger()
		return derefCell(v), err
	case TagBigInt:
		v, err := r.ReadNullableBigInt()
		return derefCell(v), err
	case TagFloat:
		v, err := r.ReadNullableFloat()
		return derefCell(v), err
	case TagString:
		v, err := r.ReadString()
		if err != nil || v == nil {
			return nil, err
		}
		return *v, nil
	case TagVarbinary, TagGeography, TagGeographyPoint:
		v, err := r.ReadVarbinary()
		if err != nil || v == nil {
			return nil, err
		}
		return v, nil
	case TagTimestamp:
		v, err := r.ReadNullableTimestamp()
		if err != nil || v == nil {
			return nil, err
		}
		return Timestamp(*v), nil
	case TagDecimal:
		v, err := r.ReadDecimal()
		if err != nil || v == nil {
			return nil, err
		}
		return v, nil
	case TagDecimalString:
		v, err := r.ReadDecimalString()
		if err != nil || v == nil {
			return nil, err
		}
		return v, nil
	default:
		return nil, newDecodeError(UnknownTag, "unexpected scalar tag %d", tag)
	}
}

// EncodeCell writes one value of the given scalar tag. v must either
// be nil (NULL) or hold the Go type DecodeCell would have produced for
// that tag; a mismatch is an EncodeError of kind TypeMismatch.
func (w *Writer) EncodeCell(tag Tag, v Cell) error {
	switch tag {
	case TagNull:
		if v != nil {
			return newEncodeError(EncodeTypeMismatch, "tag %s expects nil, got %T", tag, v)
		}
	case TagTinyInt:
		p, err := asPtr[int8](v, tag)
		if err != nil {
			return err
		}
		w.WriteNullableTinyInt(p)
	case TagSmallInt:
		p, err := asPtr[int16](v, tag)
		if err != nil {
			return err
		}
		w.WriteNullableSmallInt(p)
	case TagInteger:
		p, err := asPtr[int32](v, tag)
		if err != nil {
			return err
		}
		w.WriteNullableInteger(p)
	case TagBigInt:
		p, err := asPtr[int64](v, tag)
		if err != nil {
			return err
		}
		w.WriteNullableBigInt(p)
	case TagFloat:
		p, err := asPtr[float64](v, tag)
		if err != nil {
			return err
		}
		w.WriteNullableFloat(p)
	case TagTimestamp:
		if v == nil {
			w.WriteNullableTimestamp(nil)
			return nil
		}
		ts, ok := v.(Timestamp)
		if !ok {
			return newEncodeError(EncodeTypeMismatch, "tag %s expects wire.Timestamp, got %T", tag, v)
		}
		i := int64(ts)
		w.WriteNullableTimestamp(&i)
	case TagString:
		if v == nil {
			w.WriteString(nil)
			return nil
		}
		s, ok := v.(string)
		if !ok {
			return newEncodeError(EncodeTypeMismatch, "tag %s expects string, got %T", tag, v)
		}
		w.WriteString(&s)
	case TagVarbinary, TagGeography, TagGeographyPoint:
		if v == nil {
			w.WriteVarbinary(nil)
			return nil
		}
		b, ok := v.([]byte)
		if !ok {
			return newEncodeError(EncodeTypeMismatch, "tag %s expects []byte, got %T", tag, v)
		}
		w.WriteVarbinary(b)
	case TagDecimal:
		d, err := asDecimal(v, tag)
		if err != nil {
			return err
		}
		return w.WriteDecimal(d)
	case TagDecimalString:
		d, err := asDecimal(v, tag)
		if err != nil {
			return err
		}
		return w.WriteDecimalString(d)
	default:
		return newEncodeError(EncodeTypeMismatch, "unsupported scalar tag %d", tag)
	}
	return nil
}

func derefCell[T any](v *T) Cell {
	if v == nil {
		return nil
	}
	return *v
}

func asPtr[T any](v Cell, tag Tag) (*T, error) {
	if v == nil {
		return nil, nil
	}
	t, ok := v.(T)
	if !ok {
		return nil, newEncodeError(EncodeTypeMismatch, "tag %s expects %T, got %T", tag, t, v)
	}
	return &t, nil
}

func asDecimal(v Cell, tag Tag) (*decimal.Decimal, error) {
	if v == nil {
		return nil, nil
	}
	d, ok := v.(*decimal.Decimal)
	if !ok {
		return nil, newEncodeError(EncodeTypeMismatch, "tag %s expects *decimal.Decimal, got %T", tag, v)
	}
	return d, nil
}
