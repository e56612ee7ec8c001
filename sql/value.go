package sql

import (
	"regexp"
	"time"

	"github.com/spf13/cast"
)

// ValueKind tags the origin of a Value so the store executor can decide
// pushdown eligibility: a timestamp is pushed down as a native timestamp,
// a list as a native array.
type ValueKind int

const (
	KindNull ValueKind = iota
	KindBool
	KindNumber
	KindString
	KindTimestamp
	KindList
	// KindMap carries a sub-mapping literal. The text grammar has no
	// object-literal production; this kind exists for the
	// `INSERT INTO t (*) VALUES (<mapping>)` form, which a library caller
	// builds directly on the ast rather than through the parser.
	KindMap
)

// Value is the tagged literal union: bool, number (integer or floating),
// string, null, timestamp, list-of-Value, or (for the insert mapping
// special case) a sub-mapping.
type Value struct {
	Kind ValueKind
	Bool bool
	Num  float64
	Str  string
	Time time.Time
	List []Value
	Map  map[string]Value
}

func Null() Value                       { return Value{Kind: KindNull} }
func BoolValue(b bool) Value             { return Value{Kind: KindBool, Bool: b} }
func NumberValue(n float64) Value        { return Value{Kind: KindNumber, Num: n} }
func StringValue(s string) Value         { return Value{Kind: KindString, Str: s} }
func TimeValue(t time.Time) Value        { return Value{Kind: KindTimestamp, Time: t} }
func ListValue(vs []Value) Value         { return Value{Kind: KindList, List: vs} }
func MapValue(m map[string]Value) Value  { return Value{Kind: KindMap, Map: m} }

// isoTimestamp matches YYYY-MM-DDThh:mm:ss[.fff][Z|±hh:mm], the strict
// ISO-8601 gate literals are tested against.
var isoTimestamp = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(\.\d+)?(Z|[+-]\d{2}:\d{2})?$`)

// timestampLayouts are tried in order against strings already accepted by
// isoTimestamp; they cover the optional fractional-seconds and offset forms.
var timestampLayouts = []string{
	"2006-01-02T15:04:05.999999999Z07:00",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
}

// StringLiteral builds a Value from quoted text, promoting it to a
// timestamp on ingress into predicates and inserts when it matches the
// ISO-8601 form. Non-matching strings stay strings.
func StringLiteral(s string) Value {
	if isoTimestamp.MatchString(s) {
		for _, layout := range timestampLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return TimeValue(t)
			}
		}
	}
	return StringValue(s)
}

// IsISO8601 reports whether s matches the strict timestamp form, without
// attempting to parse it.
func IsISO8601(s string) bool { return isoTimestamp.MatchString(s) }

// RenderTimestamp formats a timestamp as YYYY-MM-DDThh:mm:ss for an
// outer text renderer; the engine itself returns native time.Time values.
func RenderTimestamp(t time.Time) string { return t.Format("2006-01-02T15:04:05") }

// Native converts a Value to the plain Go type the store client and
// projection output use: bool, float64, string, time.Time, []interface{},
// map[string]interface{}, or nil.
func (v Value) Native() interface{} {
	switch v.Kind {
	case KindNull:
		return nil
	case KindBool:
		return v.Bool
	case KindNumber:
		return v.Num
	case KindString:
		return v.Str
	case KindTimestamp:
		return v.Time
	case KindList:
		out := make([]interface{}, len(v.List))
		for i, e := range v.List {
			out[i] = e.Native()
		}
		return out
	case KindMap:
		out := make(map[string]interface{}, len(v.Map))
		for k, e := range v.Map {
			out[k] = e.Native()
		}
		return out
	default:
		return nil
	}
}

// FromNative wraps a plain Go value (as read back from a document) into a
// Value, so residual filtering and join comparisons share one representation
// with WHERE-clause literals.
func FromNative(x interface{}) Value {
	switch t := x.(type) {
	case nil:
		return Null()
	case bool:
		return BoolValue(t)
	case time.Time:
		return TimeValue(t)
	case string:
		return StringLiteral(t)
	case []interface{}:
		out := make([]Value, len(t))
		for i, e := range t {
			out[i] = FromNative(e)
		}
		return ListValue(out)
	case []Value:
		return ListValue(t)
	case map[string]interface{}:
		out := make(map[string]Value, len(t))
		for k, e := range t {
			out[k] = FromNative(e)
		}
		return MapValue(out)
	default:
		if n, err := cast.ToFloat64E(t); err == nil {
			return NumberValue(n)
		}
		return StringValue(cast.ToString(t))
	}
}

// Equal is structural equality, scalar-compare with lists compared
// element-wise and timestamps compared as a point in time.
func (v Value) Equal(o Value) bool {
	if v.Kind == KindTimestamp || o.Kind == KindTimestamp {
		vt, ok1 := asTime(v)
		ot, ok2 := asTime(o)
		return ok1 && ok2 && vt.Equal(ot)
	}
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case KindNull:
		return true
	case KindBool:
		return v.Bool == o.Bool
	case KindNumber:
		return v.Num == o.Num
	case KindString:
		return v.Str == o.Str
	case KindList:
		if len(v.List) != len(o.List) {
			return false
		}
		for i := range v.List {
			if !v.List[i].Equal(o.List[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func asTime(v Value) (time.Time, bool) {
	if v.Kind == KindTimestamp {
		return v.Time, true
	}
	if v.Kind == KindString {
		sv := StringLiteral(v.Str)
		if sv.Kind == KindTimestamp {
			return sv.Time, true
		}
	}
	return time.Time{}, false
}

// NumberOf coerces v to a float64 for aggregation; non-numeric values are
// skipped. ok is false when v carries no numeric interpretation.
func NumberOf(v Value) (float64, bool) {
	switch v.Kind {
	case KindNumber:
		return v.Num, true
	case KindBool:
		return 0, false
	case KindString:
		n, err := cast.ToFloat64E(v.Str)
		return n, err == nil
	default:
		return 0, false
	}
}
