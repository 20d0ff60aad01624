package wire

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// Decimal is the fixed-point domain described in §4.1: a 128-bit
// signed two's-complement integer equal to the represented value
// times 10^DecimalScale. We lean on shopspring/decimal for parsing,
// formatting and arithmetic on the public-facing value (it carries an
// arbitrary-precision *big.Int coefficient, never a float), but the
// wire encoding below never touches decimal.DivisionPrecision or any
// other shopspring package-level state (§5) — scale/precision bounds
// are enforced against a local big.Int derived from the value itself.

var (
	pow10Scale = new(big.Int).Exp(big.NewInt(10), big.NewInt(DecimalScale), nil)
	int128Mod  = new(big.Int).Lsh(big.NewInt(1), 128)
	int128Min  = new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 127))
	maxDigits  = DecimalIntegerDigits + DecimalScale
	digitBound = new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(maxDigits)), nil) // exclusive upper bound on |scaled value|
)

// scaledInt returns d's value multiplied by 10^DecimalScale as an
// exact integer, or an *EncodeError of kind Scale if d carries more
// than DecimalScale fractional digits.
func scaledInt(d decimal.Decimal) (*big.Int, error) {
	coeff := d.Coefficient()
	exp := int64(d.Exponent())
	shift := exp + DecimalScale // coeff * 10^shift == scaled value, when shift >= 0
	if shift >= 0 {
		factor := new(big.Int).Exp(big.NewInt(10), big.NewInt(shift), nil)
		return new(big.Int).Mul(coeff, factor), nil
	}
	// d is more precise than scale 12: only acceptable if the excess
	// digits are all zero (i.e. division is exact).
	divisor := new(big.Int).Exp(big.NewInt(10), big.NewInt(-shift), nil)
	q, rem := new(big.Int).QuoRem(coeff, divisor, new(big.Int))
	if rem.Sign() != 0 {
		return nil, newEncodeError(EncodeScale, "decimal %s carries more than %d fractional digits", d.String(), DecimalScale)
	}
	return q, nil
}

func encodeInt128(v *big.Int) [16]byte {
	var buf [16]byte
	var b []byte
	if v.Sign() >= 0 {
		b = v.Bytes()
	} else {
		tc := new(big.Int).Add(int128Mod, v)
		b = tc.Bytes()
	}
	copy(buf[16-len(b):], b)
	return buf
}

func decodeInt128(b []byte) *big.Int {
	v := new(big.Int).SetBytes(b)
	if b[0]&0x80 != 0 {
		v.Sub(v, int128Mod)
	}
	return v
}

// nullDecimalCoded is the bit pattern for -2^127, the DECIMAL null
// sentinel.
var nullDecimalCoded = encodeInt128(int128Min)

// WriteDecimal writes the 16-byte fixed-point encoding of d, or the
// null sentinel if d is nil. Returns EncodeError of kind Scale or
// Precision if d does not fit the wire's scale/precision bounds.
func (w *Writer) WriteDecimal(d *decimal.Decimal) error {
	if d == nil {
		w.WriteBytes(nullDecimalCoded[:])
		return nil
	}
	scaled, err := scaledInt(*d)
	if err != nil {
		return err
	}
	abs := new(big.Int).Abs(scaled)
	if abs.Cmp(digitBound) >= 0 {
		return newEncodeError(EncodePrecision, "decimal %s exceeds %d integer digits", d.String(), DecimalIntegerDigits)
	}
	buf := encodeInt128(scaled)
	w.WriteBytes(buf[:])
	return nil
}

// ReadDecimal reads a 16-byte fixed-point value. A nil result signals
// the null sentinel.
func (r *Reader) ReadDecimal() (*decimal.Decimal, error) {
	b, err := r.ReadBytes(16)
	if err != nil {
		return nil, err
	}
	scaled := decodeInt128(b)
	if scaled.Cmp(int128Min) == 0 {
		return nil, nil
	}
	abs := new(big.Int).Abs(scaled)
	if abs.Cmp(digitBound) >= 0 {
		return nil, newDecodeError(Precision, "decoded decimal exceeds %d integer digits", DecimalIntegerDigits)
	}
	d := decimal.NewFromBigInt(scaled, -DecimalScale)
	return &d, nil
}

// WriteDecimalString writes the same numeric domain as WriteDecimal,
// serialized as an ASCII string via the STRING codec (tag
// DECIMAL_STRING, §3/§4.1), with the same EncodeError kinds Scale and
// Precision.
func (w *Writer) WriteDecimalString(d *decimal.Decimal) error {
	if d == nil {
		w.WriteString(nil)
		return nil
	}
	scaled, err := scaledInt(*d)
	if err != nil {
		return err
	}
	if new(big.Int).Abs(scaled).Cmp(digitBound) >= 0 {
		return newEncodeError(EncodePrecision, "decimal %s exceeds %d integer digits", d.String(), DecimalIntegerDigits)
	}
	s := d.StringFixed(DecimalScale)
	w.WriteString(&s)
	return nil
}

// ReadDecimalString reads the ASCII-string-encoded decimal variant.
func (r *Reader) ReadDecimalString() (*decimal.Decimal, error) {
	s, err := r.ReadString()
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, nil
	}
	d, parseErr := decimal.NewFromString(*s)
	if parseErr != nil {
		return nil, newDecodeError(Frame, "malformed decimal string %q: %v", *s, parseErr)
	}
	if _, err := scaledInt(d); err != nil {
		if ee, ok := err.(*EncodeError); ok {
			return nil, newDecodeError(Scale, "%s", ee.Msg)
		}
		return nil, err
	}
	return &d, nil
}
