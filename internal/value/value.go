package value

import (
	"fmt"
	"strconv"
	"time"
)

// Value is a sealed interface representing the scalar types that can appear
// in a warehouse column or a measure result.
// Only Null, Int, Float, and Text implement it.
//
// Dates are carried as Text in ISO-8601 form (YYYY-MM-DD); ISO dates compare
// correctly under lexicographic ordering, which is all the date probes need.
type Value interface {
	scalar() // Sealed - only these types implement it
}

// Null represents an absent value (SQL NULL).
// Using an explicit type ensures every column cell satisfies the sealed interface.
type Null struct{}

func (Null) scalar() {}

// MarshalJSON implements json.Marshaler for Null.
func (Null) MarshalJSON() ([]byte, error) {
	return []byte("null"), nil
}

// Int represents an integer value. Always int64.
type Int int64

func (Int) scalar() {}

// Float represents a floating-point value.
type Float float64

func (Float) scalar() {}

// Text represents a string value.
type Text string

func (Text) scalar() {}

// IsNull reports whether v is Null or a nil interface.
func IsNull(v Value) bool {
	if v == nil {
		return true
	}
	_, ok := v.(Null)
	return ok
}

// AsFloat returns the numeric content of v widened to float64.
// Int and Float are numeric; everything else (including Null) is not.
func AsFloat(v Value) (float64, bool) {
	switch val := v.(type) {
	case Int:
		return float64(val), true
	case Float:
		return float64(val), true
	default:
		return 0, false
	}
}

// Key returns a type-tagged identity string for set membership.
// Distinct-count accumulators key on this, so Int(1) and Text("1") stay
// distinct while two equal values of the same type collapse.
// Null has no key - callers must exclude nulls before calling.
func Key(v Value) string {
	switch val := v.(type) {
	case Int:
		return "i:" + strconv.FormatInt(int64(val), 10)
	case Float:
		return "f:" + strconv.FormatFloat(float64(val), 'g', -1, 64)
	case Text:
		return "s:" + string(val)
	default:
		return "null"
	}
}

// String renders v for diagnostics and plain-text tables.
func String(v Value) string {
	switch val := v.(type) {
	case nil, Null:
		return "NULL"
	case Int:
		return strconv.FormatInt(int64(val), 10)
	case Float:
		return strconv.FormatFloat(float64(val), 'g', -1, 64)
	case Text:
		return string(val)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// FromSQL converts a database/sql scan target (any) into a Value.
// The driver hands back nil, int64, float64, string, []byte, or time.Time
// (for DATE/DATETIME declared types); anything else is a shape violation
// the caller should surface as a schema mismatch.
func FromSQL(raw any) (Value, error) {
	switch val := raw.(type) {
	case nil:
		return Null{}, nil
	case int64:
		return Int(val), nil
	case float64:
		return Float(val), nil
	case string:
		return Text(val), nil
	case []byte:
		return Text(string(val)), nil
	case time.Time:
		// DATE columns decode to time.Time; dates are carried as ISO text.
		return Text(val.Format("2006-01-02")), nil
	case bool:
		// SQLite has no bool affinity but drivers may decode 0/1.
		if val {
			return Int(1), nil
		}
		return Int(0), nil
	default:
		return nil, fmt.Errorf("unsupported scan type: %T", raw)
	}
}
