package planner

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cast"

	qerrors "github.com/nonibytes/querywrap/querywrap/errors"
	"github.com/nonibytes/querywrap/querywrap/query"
	"github.com/nonibytes/querywrap/querywrap/storage"
)

// CoerceArg converts a row or filter value to the driver type of a column.
func CoerceArg(col string, spec storage.ColumnSpec, v any) (any, error) {
	return coerce(col, spec, v)
}

func coerceValue(col string, spec storage.ColumnSpec, v query.Value) (any, error) {
	return coerce(col, spec, v.Interface())
}

// coerce converts a filter operand to the Go type the column expects.
func coerce(col string, spec storage.ColumnSpec, v any) (any, error) {
	if v == nil {
		return nil, qerrors.TypeMismatch(col, "null is only allowed as an equality")
	}

	switch spec.Type {
	case storage.ColumnInt:
		if s, ok := v.(string); ok {
			i, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
			if err != nil {
				return nil, qerrors.TypeMismatch(col, fmt.Sprintf("%q is not an integer", s))
			}
			return i, nil
		}
		switch f := v.(type) {
		case float64:
			if f != math.Trunc(f) {
				return nil, qerrors.TypeMismatch(col, fmt.Sprintf("%v is not an integer", v))
			}
		case float32:
			if float64(f) != math.Trunc(float64(f)) {
				return nil, qerrors.TypeMismatch(col, fmt.Sprintf("%v is not an integer", v))
			}
		}
		i, err := cast.ToInt64E(v)
		if err != nil {
			return nil, qerrors.TypeMismatch(col, fmt.Sprintf("%v is not an integer", v))
		}
		return i, nil

	case storage.ColumnFloat:
		f, err := cast.ToFloat64E(v)
		if err != nil {
			return nil, qerrors.TypeMismatch(col, fmt.Sprintf("%v is not a number", v))
		}
		return f, nil

	case storage.ColumnBool:
		b, err := cast.ToBoolE(v)
		if err != nil {
			return nil, qerrors.TypeMismatch(col, fmt.Sprintf("%v is not a boolean", v))
		}
		return b, nil

	case storage.ColumnTimestamp:
		if _, err := cast.ToTimeE(v); err != nil {
			return nil, qerrors.TypeMismatch(col, fmt.Sprintf("%v is not a timestamp", v))
		}
		// Stored and compared in the caller's textual form.
		return cast.ToString(v), nil

	default:
		s, err := cast.ToStringE(v)
		if err != nil {
			return nil, qerrors.TypeMismatch(col, fmt.Sprintf("%v is not text", v))
		}
		return s, nil
	}
}
