package pgxadapt

import (
	"fmt"
	"reflect"
	"strings"
)

// RowMaker builds one row object from the decoded values of a row.
type RowMaker func(values []any) (any, error)

// RowFactory is invoked by a Cursor each time a result is bound, including when the query produced no result, and
// returns the RowMaker used for every row of that result. Factories that need column names read them from
// cur.Description().
type RowFactory func(cur *Cursor) RowMaker

// TupleRow returns rows as the decoded []any. A Cursor recognizes TupleRow and skips the RowMaker call.
func TupleRow(cur *Cursor) RowMaker {
	if cur.Description() == nil {
		return NoResult
	}
	return tupleRow
}

func tupleRow(values []any) (any, error) {
	return values, nil
}

// MapRow returns rows as a map[string]any keyed by column name. When names repeat, the last column wins.
func MapRow(cur *Cursor) RowMaker {
	desc := cur.Description()
	if desc == nil {
		return NoResult
	}

	names := make([]string, len(desc))
	for i := range desc {
		names[i] = desc[i].Name
	}

	return func(values []any) (any, error) {
		n := len(names)
		if len(values) < n {
			n = len(values)
		}
		m := make(map[string]any, n)
		for i := 0; i < n; i++ {
			m[names[i]] = values[i]
		}
		return m, nil
	}
}

// NamedTupleRow returns rows as a *Record. Field names are the sanitized column names (see SanitizeFieldName). Results
// with the same sanitized column names share one *RecordDesc.
func NamedTupleRow(cur *Cursor) RowMaker {
	desc := cur.Description()
	if desc == nil {
		return NoResult
	}

	names := make([]string, len(desc))
	for i := range desc {
		names[i] = desc[i].Name
	}
	rd := recordDescFor(names)

	return func(values []any) (any, error) {
		return rd.New(values)
	}
}

// ScalarRow returns the value of the first column of each row.
func ScalarRow(cur *Cursor) RowMaker {
	desc := cur.Description()
	if desc == nil {
		return NoResult
	}
	if len(desc) == 0 {
		return func([]any) (any, error) {
			return nil, ErrNoColumns
		}
	}

	return func(values []any) (any, error) {
		if len(values) == 0 {
			return nil, ErrNoColumns
		}
		return values[0], nil
	}
}

// NoResult is the RowMaker for operations without a result. Creating it never fails; calling it always returns an
// *InterfaceError.
func NoResult(values []any) (any, error) {
	return nil, errNoResult
}

const structTagKey = "db"

// StructRow returns rows as a T. T must be a struct. Columns are matched to the exported fields of T by name. The match
// is case-insensitive. The column name can be overridden with a "db" struct tag. If the "db" struct tag is "-" then the
// field is ignored. Every column must have a matching field; fields without a column keep their zero value.
//
// Decoded values are assigned directly when assignable and converted when convertible. NULL leaves the field zero.
func StructRow[T any](cur *Cursor) RowMaker {
	desc := cur.Description()
	if desc == nil {
		return NoResult
	}

	structType := reflect.TypeOf((*T)(nil)).Elem()
	if structType.Kind() != reflect.Struct {
		err := fmt.Errorf("%v is not a struct", structType)
		return func([]any) (any, error) { return nil, err }
	}

	fieldPaths := make([][]int, len(desc))
	appendFieldPaths(structType, nil, desc, fieldPaths)
	for i, path := range fieldPaths {
		if path == nil {
			err := fmt.Errorf("struct doesn't have corresponding row field %s", desc[i].Name)
			return func([]any) (any, error) { return nil, err }
		}
	}

	return func(values []any) (any, error) {
		var value T
		dst := reflect.ValueOf(&value).Elem()
		for i, v := range values {
			if i >= len(fieldPaths) {
				break
			}
			if v == nil {
				continue
			}
			field := dst.FieldByIndex(fieldPaths[i])
			src := reflect.ValueOf(v)
			switch {
			case src.Type().AssignableTo(field.Type()):
				field.Set(src)
			case src.Type().ConvertibleTo(field.Type()) && convertibleKinds(src.Kind(), field.Kind()):
				field.Set(src.Convert(field.Type()))
			default:
				return nil, fmt.Errorf("cannot assign %T to field %s of type %v", v, desc[i].Name, field.Type())
			}
		}
		return value, nil
	}
}

func fieldPosByName(desc []FieldDescription, field string) int {
	for i := range desc {
		if strings.EqualFold(desc[i].Name, field) {
			return i
		}
	}
	return -1
}

func appendFieldPaths(structType reflect.Type, prefix []int, desc []FieldDescription, fieldPaths [][]int) {
	for i := 0; i < structType.NumField(); i++ {
		sf := structType.Field(i)
		if sf.PkgPath != "" && !sf.Anonymous {
			// Field is unexported, skip it.
			continue
		}

		path := make([]int, len(prefix)+1)
		copy(path, prefix)
		path[len(prefix)] = i

		// Handle anonymous struct embedding, but do not try to handle embedded pointers.
		if sf.Anonymous && sf.Type.Kind() == reflect.Struct {
			appendFieldPaths(sf.Type, path, desc, fieldPaths)
			continue
		}

		dbTag, dbTagPresent := sf.Tag.Lookup(structTagKey)
		if dbTagPresent {
			dbTag, _, _ = strings.Cut(dbTag, ",")
		}
		if dbTag == "-" {
			// Field is ignored, skip it.
			continue
		}
		colName := dbTag
		if !dbTagPresent {
			colName = sf.Name
		}

		if fpos := fieldPosByName(desc, colName); fpos != -1 && fieldPaths[fpos] == nil {
			fieldPaths[fpos] = path
		}
	}
}

// convertibleKinds limits conversions to numeric and string kinds so an int64 never becomes a string.
func convertibleKinds(src, dst reflect.Kind) bool {
	isNumber := func(k reflect.Kind) bool {
		return k >= reflect.Int && k <= reflect.Float64
	}
	switch {
	case isNumber(src) && isNumber(dst):
		return true
	case src == reflect.String && dst == reflect.String:
		return true
	default:
		return false
	}
}
