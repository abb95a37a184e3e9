package query

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strings"

	qerrors "github.com/nonibytes/querywrap/querywrap/errors"
)

// Field is one key/value pair of a Record.
type Field struct {
	Key   string
	Value Value
}

// Record is an ordered flat mapping of parameter name to scalar value.
// Setting an existing key replaces its value in place.
type Record struct {
	fields []Field
	index  map[string]int
}

func NewRecord() *Record {
	return &Record{index: make(map[string]int)}
}

// RecordOf builds a record from alternating key, value arguments.
// Values are classified with ValueOf; unsupported values become null.
func RecordOf(kv ...any) *Record {
	r := NewRecord()
	for i := 0; i+1 < len(kv); i += 2 {
		key := fmt.Sprint(kv[i])
		v, _ := ValueOf(kv[i+1])
		r.Set(key, v)
	}
	return r
}

func (r *Record) Set(key string, v Value) {
	if r.index == nil {
		r.index = make(map[string]int)
	}
	if i, ok := r.index[key]; ok {
		r.fields[i].Value = v
		return
	}
	r.index[key] = len(r.fields)
	r.fields = append(r.fields, Field{Key: key, Value: v})
}

func (r *Record) SetString(key, s string) { r.Set(key, String(s)) }

func (r *Record) Get(key string) (Value, bool) {
	if r == nil {
		return Value{}, false
	}
	i, ok := r.index[key]
	if !ok {
		return Value{}, false
	}
	return r.fields[i].Value, true
}

func (r *Record) Has(key string) bool {
	_, ok := r.Get(key)
	return ok
}

func (r *Record) Len() int {
	if r == nil {
		return 0
	}
	return len(r.fields)
}

// Fields returns a copy of the record's fields in order.
func (r *Record) Fields() []Field {
	if r == nil {
		return nil
	}
	out := make([]Field, len(r.fields))
	copy(out, r.fields)
	return out
}

// FromURLValues converts decoded form values. url.Values carries no order, so
// keys are taken in sorted order; only the first value of each key is used.
func FromURLValues(vals url.Values) *Record {
	keys := make([]string, 0, len(vals))
	for k := range vals {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	r := NewRecord()
	for _, k := range keys {
		if len(vals[k]) == 0 {
			continue
		}
		r.SetString(k, vals[k][0])
	}
	return r
}

// ParseQuery decodes a raw query string keeping parameter order.
func ParseQuery(raw string) (*Record, error) {
	r := NewRecord()
	raw = strings.TrimPrefix(raw, "?")
	for _, part := range strings.Split(raw, "&") {
		if part == "" {
			continue
		}
		key, val, _ := strings.Cut(part, "=")
		k, err := url.QueryUnescape(key)
		if err != nil {
			return nil, qerrors.Wrap(qerrors.ErrDecode, fmt.Sprintf("invalid query key %q", key), err)
		}
		v, err := url.QueryUnescape(val)
		if err != nil {
			return nil, qerrors.Wrap(qerrors.ErrDecode, fmt.Sprintf("invalid query value for %q", k), err)
		}
		r.SetString(k, v)
	}
	return r, nil
}

// FromJSON decodes a flat JSON object keeping document order.
// Nested objects and arrays are rejected.
func FromJSON(data []byte) (*Record, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, qerrors.Wrap(qerrors.ErrDecode, "read JSON", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, qerrors.New(qerrors.ErrDecode, "expected JSON object")
	}

	r := NewRecord()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, qerrors.Wrap(qerrors.ErrDecode, "read JSON key", err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, qerrors.New(qerrors.ErrDecode, "expected JSON object key")
		}

		tok, err = dec.Token()
		if err != nil {
			return nil, qerrors.Wrap(qerrors.ErrDecode, fmt.Sprintf("read JSON value for %q", key), err)
		}
		if _, isDelim := tok.(json.Delim); isDelim {
			return nil, &qerrors.Error{Kind: qerrors.ErrDecode, Message: "value must be a scalar", Field: key}
		}
		v, ok := ValueOf(tok)
		if !ok {
			return nil, &qerrors.Error{Kind: qerrors.ErrDecode, Message: "unsupported value", Field: key}
		}
		r.Set(key, v)
	}
	if _, err := dec.Token(); err != nil {
		return nil, qerrors.Wrap(qerrors.ErrDecode, "read JSON", err)
	}
	return r, nil
}
