package pgxadapt

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/jackc/pgxadapt/internal/lru"
)

// RecordDesc describes the fields of a Record. RecordDescs are shared between every result with the same sanitized
// column names and must not be modified.
type RecordDesc struct {
	fields []string
	index  map[string]int
}

func newRecordDesc(fields []string) *RecordDesc {
	index := make(map[string]int, len(fields))
	for i, f := range fields {
		// The first field wins when sanitized names collide.
		if _, present := index[f]; !present {
			index[f] = i
		}
	}
	return &RecordDesc{fields: fields, index: index}
}

// Fields returns the field names.
func (rd *RecordDesc) Fields() []string {
	fields := make([]string, len(rd.fields))
	copy(fields, rd.fields)
	return fields
}

// NumField returns the number of fields.
func (rd *RecordDesc) NumField() int {
	return len(rd.fields)
}

// FieldIndex returns the position of the field named name, or -1.
func (rd *RecordDesc) FieldIndex(name string) int {
	if i, ok := rd.index[name]; ok {
		return i
	}
	return -1
}

// New returns a Record of rd holding values. values must have one element per field and is not copied.
func (rd *RecordDesc) New(values []any) (*Record, error) {
	if len(values) != len(rd.fields) {
		return nil, fmt.Errorf("record has %d fields but got %d values", len(rd.fields), len(values))
	}
	return &Record{desc: rd, values: values}, nil
}

// Record is a row with named fields built by NamedTupleRow.
type Record struct {
	desc   *RecordDesc
	values []any
}

// Desc returns the record's field description.
func (r *Record) Desc() *RecordDesc {
	return r.desc
}

// Len returns the number of fields.
func (r *Record) Len() int {
	return len(r.values)
}

// Index returns the value of the i-th field.
func (r *Record) Index(i int) any {
	return r.values[i]
}

// Get returns the value of the field named name.
func (r *Record) Get(name string) (any, bool) {
	i, ok := r.desc.index[name]
	if !ok {
		return nil, false
	}
	return r.values[i], true
}

// Values returns a copy of the field values in order.
func (r *Record) Values() []any {
	values := make([]any, len(r.values))
	copy(values, r.values)
	return values
}

// Map returns the record as a map from field name to value.
func (r *Record) Map() map[string]any {
	m := make(map[string]any, len(r.values))
	for i := len(r.values) - 1; i >= 0; i-- {
		m[r.desc.fields[i]] = r.values[i]
	}
	return m
}

func (r *Record) String() string {
	var sb strings.Builder
	sb.WriteString("Row(")
	for i, v := range r.values {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%s=%#v", r.desc.fields[i], v)
	}
	sb.WriteByte(')')
	return sb.String()
}

// MarshalJSON encodes the record as a JSON object with fields in order.
func (r *Record) MarshalJSON() ([]byte, error) {
	buf := []byte{'{'}
	for i, v := range r.values {
		if i > 0 {
			buf = append(buf, ',')
		}
		name, err := json.Marshal(r.desc.fields[i])
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		buf = append(buf, name...)
		buf = append(buf, ':')
		buf = append(buf, value...)
	}
	buf = append(buf, '}')
	return buf, nil
}

// SanitizeFieldName turns a column name into a record field name. Each ASCII punctuation character and space becomes
// an underscore. Names that are empty or start with an underscore or a digit get an "f" prefix. Non-ASCII characters
// are kept.
func SanitizeFieldName(name string) string {
	b := []byte(name)
	for i, c := range b {
		if c < 0x80 && strings.IndexByte(" !\"#$%&'()*+,-./:;<=>?@[\\]^`{|}~", c) >= 0 {
			b[i] = '_'
		}
	}
	if len(b) == 0 || b[0] == '_' || (b[0] >= '0' && b[0] <= '9') {
		return "f" + string(b)
	}
	return string(b)
}

const recordDescCacheCapacity = 512

var recordDescCache = struct {
	sync.Mutex
	descs *lru.Cache[string, *RecordDesc]
}{
	descs: lru.New[string, *RecordDesc](recordDescCacheCapacity),
}

// recordDescKey length-prefixes every name so distinct tuples never share a key.
func recordDescKey(fields []string) string {
	var sb strings.Builder
	for _, f := range fields {
		sb.WriteString(strconv.Itoa(len(f)))
		sb.WriteByte(':')
		sb.WriteString(f)
	}
	return sb.String()
}

// recordDescFor returns the shared RecordDesc for the sanitized form of names.
func recordDescFor(names []string) *RecordDesc {
	fields := make([]string, len(names))
	for i, name := range names {
		fields[i] = SanitizeFieldName(name)
	}
	key := recordDescKey(fields)

	recordDescCache.Lock()
	defer recordDescCache.Unlock()
	if rd, ok := recordDescCache.descs.Get(key); ok {
		return rd
	}
	return recordDescCache.descs.PutIfAbsent(key, newRecordDesc(fields))
}
