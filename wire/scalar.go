package wire

import "math"

// Nullable scalar helpers. The wire format has no separate null bit
// for fixed-width scalars: the minimum representable value of the
// width *is* null (§3, §4.1). These wrappers are the boundary where
// that sentinel convention turns into Go's nil-pointer-means-null
// idiom, which is what every other value domain in this package (and
// the teacher's driver.Value) already uses.

func (w *Writer) WriteNullableTinyInt(v *int8) {
	if v == nil {
		w.WriteTinyInt(nullTinyInt)
		return
	}
	w.WriteTinyInt(*v)
}

func (r *Reader) ReadNullableTinyInt() (*int8, error) {
	v, err := r.ReadTinyInt()
	if err != nil {
		return nil, err
	}
	if v == nullTinyInt {
		return nil, nil
	}
	return &v, nil
}

func (w *Writer) WriteNullableSmallInt(v *int16) {
	if v == nil {
		w.WriteSmallInt(nullSmallInt)
		return
	}
	w.WriteSmallInt(*v)
}

func (r *Reader) ReadNullableSmallInt() (*int16, error) {
	v, err := r.ReadSmallInt()
	if err != nil {
		return nil, err
	}
	if v == nullSmallInt {
		return nil, nil
	}
	return &v, nil
}

func (w *Writer) WriteNullableInteger(v *int32) {
	if v == nil {
		w.WriteInteger(nullInteger)
		return
	}
	w.WriteInteger(*v)
}

func (r *Reader) ReadNullableInteger() (*int32, error) {
	v, err := r.ReadInteger()
	if err != nil {
		return nil, err
	}
	if v == nullInteger {
		return nil, nil
	}
	return &v, nil
}

func (w *Writer) WriteNullableBigInt(v *int64) {
	if v == nil {
		w.WriteBigInt(nullBigInt)
		return
	}
	w.WriteBigInt(*v)
}

func (r *Reader) ReadNullableBigInt() (*int64, error) {
	v, err := r.ReadBigInt()
	if err != nil {
		return nil, err
	}
	if v == nullBigInt {
		return nil, nil
	}
	return &v, nil
}

func (w *Writer) WriteNullableTimestamp(v *int64) { w.WriteNullableBigInt(v) }

func (r *Reader) ReadNullableTimestamp() (*int64, error) { return r.ReadNullableBigInt() }

// WriteNullableFloat writes the exact null sentinel for a nil value;
// WriteFloat is used directly for non-null values since there is no
// separate encoding concern.
func (w *Writer) WriteNullableFloat(v *float64) {
	if v == nil {
		w.WriteFloat(nullFloat)
		return
	}
	w.WriteFloat(*v)
}

// ReadNullableFloat treats any value within floatNullTolerance of the
// exact sentinel as null, per §4.1's documented server-rounding
// tolerance.
func (r *Reader) ReadNullableFloat() (*float64, error) {
	v, err := r.ReadFloat()
	if err != nil {
		return nil, err
	}
	if math.Abs(v-nullFloat) < floatNullTolerance {
		return nil, nil
	}
	return &v, nil
}
