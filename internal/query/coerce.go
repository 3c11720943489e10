package query

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Accepted time layouts, tried in order. Parsed values are normalized to UTC.
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// parseValue coerces a raw string into the canonical Go value for the
// field's kind. A false result means the value did not parse and the clause
// it belongs to is dropped per the degrade-by-omission policy.
func parseValue[T any](f Field[T], raw string) (any, bool) {
	if f.Kind != KindString {
		raw = strings.TrimSpace(raw)
	}

	switch f.Kind {
	case KindString:
		return raw, true
	case KindInt32:
		v, err := strconv.ParseInt(raw, 10, 32)
		if err != nil {
			return nil, false
		}
		return int32(v), true
	case KindInt64:
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, false
		}
		return v, true
	case KindFloat:
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, false
		}
		return v, true
	case KindDecimal:
		v, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, false
		}
		return v, true
	case KindBool:
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, false
		}
		return v, true
	case KindTime:
		for _, layout := range timeLayouts {
			if t, err := time.Parse(layout, raw); err == nil {
				return t.UTC(), true
			}
		}
		return nil, false
	case KindEnum:
		for _, name := range f.Enum {
			if strings.EqualFold(name, raw) {
				return name, true
			}
		}
		return nil, false
	case KindUUID:
		v, err := uuid.Parse(raw)
		if err != nil {
			return nil, false
		}
		return v, true
	}

	// Unknown kinds degrade to their textual form.
	return raw, true
}

// canonicalString renders a field value in its canonical textual form, used
// when a substring operator targets a non-textual field.
func canonicalString(k Kind, v any) string {
	switch k {
	case KindTime:
		if t, ok := v.(time.Time); ok {
			return t.UTC().Format(time.RFC3339)
		}
	case KindDecimal:
		if d, ok := v.(decimal.Decimal); ok {
			return d.String()
		}
	case KindString, KindEnum:
		if s, ok := v.(string); ok {
			return s
		}
	case KindUUID:
		if u, ok := v.(uuid.UUID); ok {
			return u.String()
		}
	}
	return fmt.Sprint(v)
}

// compareValues orders two canonical values of the same kind. Returns a
// negative, zero or positive result like strings.Compare. Values that do not
// match the kind's canonical type fall back to textual comparison.
func compareValues(k Kind, a, b any) int {
	switch k {
	case KindInt32:
		av, aok := a.(int32)
		bv, bok := b.(int32)
		if aok && bok {
			return cmpOrdered(av, bv)
		}
	case KindInt64:
		av, aok := a.(int64)
		bv, bok := b.(int64)
		if aok && bok {
			return cmpOrdered(av, bv)
		}
	case KindFloat:
		av, aok := a.(float64)
		bv, bok := b.(float64)
		if aok && bok {
			return cmpOrdered(av, bv)
		}
	case KindDecimal:
		av, aok := a.(decimal.Decimal)
		bv, bok := b.(decimal.Decimal)
		if aok && bok {
			return av.Cmp(bv)
		}
	case KindBool:
		av, aok := a.(bool)
		bv, bok := b.(bool)
		if aok && bok {
			switch {
			case av == bv:
				return 0
			case bv:
				return -1
			default:
				return 1
			}
		}
	case KindTime:
		av, aok := a.(time.Time)
		bv, bok := b.(time.Time)
		if aok && bok {
			return av.Compare(bv)
		}
	}
	return strings.Compare(canonicalString(k, a), canonicalString(k, b))
}

func cmpOrdered[V int32 | int64 | float64](a, b V) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
