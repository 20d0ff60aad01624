package wire

// Tag identifies a value's wire domain. Tags are a single signed byte
// on the wire; ARRAY (-99) is the one tag outside the 0-127 range.
type Tag int8

const (
	TagNull          Tag = 1
	TagTinyInt       Tag = 3
	TagSmallInt      Tag = 4
	TagInteger       Tag = 5
	TagBigInt        Tag = 6
	TagFloat         Tag = 8
	TagString        Tag = 9
	TagTimestamp     Tag = 11
	TagTable         Tag = 21
	TagDecimal       Tag = 22
	TagDecimalString Tag = 23
	TagVarbinary     Tag = 25
	TagGeography     Tag = 26
	TagGeographyPoint Tag = 27
	TagArray         Tag = -99
)

func (t Tag) String() string {
	switch t {
	case TagNull:
		return "NULL"
	case TagTinyInt:
		return "TINYINT"
	case TagSmallInt:
		return "SMALLINT"
	case TagInteger:
		return "INTEGER"
	case TagBigInt:
		return "BIGINT"
	case TagFloat:
		return "FLOAT"
	case TagString:
		return "STRING"
	case TagTimestamp:
		return "TIMESTAMP"
	case TagTable:
		return "VOLTTABLE"
	case TagDecimal:
		return "DECIMAL"
	case TagDecimalString:
		return "DECIMAL_STRING"
	case TagVarbinary:
		return "VARBINARY"
	case TagGeography:
		return "GEOGRAPHY"
	case TagGeographyPoint:
		return "GEOGRAPHY_POINT"
	case TagArray:
		return "ARRAY"
	default:
		return "UNKNOWN"
	}
}

// FixedWidth reports the on-wire byte width of a fixed-size scalar tag,
// or 0 if the tag is variable-length or not a scalar at all.
func (t Tag) FixedWidth() int {
	switch t {
	case TagTinyInt:
		return 1
	case TagSmallInt:
		return 2
	case TagInteger:
		return 4
	case TagBigInt, TagFloat, TagTimestamp:
		return 8
	case TagDecimal:
		return 16
	default:
		return 0
	}
}

// Null sentinels, per the minimum representable value of each width.
const (
	nullTinyInt   int8   = -128
	nullSmallInt  int16  = -32768
	nullInteger   int32  = -2147483648
	nullBigInt    int64  = -9223372036854775808
	nullStringLen int32  = -1
)

// nullFloat is the protocol's exact float null sentinel. Senders have
// been observed to round it, so decoding treats any value within
// floatNullTolerance of this as null (see ReadNullableFloat).
const nullFloat = -1.7e308
const floatNullTolerance = 1e307

// DecimalScale is the fixed number of digits to the right of the point
// in the 16-byte DECIMAL wire format.
const DecimalScale = 12

// DecimalIntegerDigits is the maximum number of digits to the left of
// the point a DECIMAL value may carry.
const DecimalIntegerDigits = 26
