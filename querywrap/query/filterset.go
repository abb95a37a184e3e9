package query

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Entry is one compiled filter.
type Entry struct {
	Key       string
	Predicate Predicate
}

// FilterSet is the ordered result of compiling a Record.
type FilterSet struct {
	entries []Entry
	index   map[string]int
}

func newFilterSet(capacity int) *FilterSet {
	return &FilterSet{
		entries: make([]Entry, 0, capacity),
		index:   make(map[string]int, capacity),
	}
}

func (fs *FilterSet) add(key string, p Predicate) {
	if i, ok := fs.index[key]; ok {
		fs.entries[i].Predicate = p
		return
	}
	fs.index[key] = len(fs.entries)
	fs.entries = append(fs.entries, Entry{Key: key, Predicate: p})
}

func (fs *FilterSet) Len() int {
	if fs == nil {
		return 0
	}
	return len(fs.entries)
}

func (fs *FilterSet) Get(key string) (Predicate, bool) {
	if fs == nil {
		return nil, false
	}
	i, ok := fs.index[key]
	if !ok {
		return nil, false
	}
	return fs.entries[i].Predicate, true
}

func (fs *FilterSet) Keys() []string {
	if fs == nil {
		return nil
	}
	keys := make([]string, len(fs.entries))
	for i, e := range fs.entries {
		keys[i] = e.Key
	}
	return keys
}

// Entries returns a copy of the filters in compile order.
func (fs *FilterSet) Entries() []Entry {
	if fs == nil {
		return nil
	}
	out := make([]Entry, len(fs.entries))
	copy(out, fs.entries)
	return out
}

// MarshalJSON encodes the set as an object keyed by field, in compile order.
func (fs *FilterSet) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range fs.Entries() {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(e.Key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(predicateJSON(e.Predicate))
		if err != nil {
			return nil, fmt.Errorf("encode filter %s: %w", e.Key, err)
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

type wirePredicate struct {
	Op     PredicateKind `json:"op"`
	Cmp    string        `json:"cmp,omitempty"`
	Value  any           `json:"value,omitempty"`
	Values []string      `json:"values,omitempty"`
	Lower  *Value        `json:"lower,omitempty"`
	Upper  *Value        `json:"upper,omitempty"`
}

func predicateJSON(p Predicate) wirePredicate {
	switch t := p.(type) {
	case Equals:
		return wirePredicate{Op: t.Kind(), Value: t.Value}
	case Pattern:
		return wirePredicate{Op: t.Kind(), Value: t.Like}
	case NotEquals:
		return wirePredicate{Op: t.Kind(), Value: t.Value}
	case In:
		return wirePredicate{Op: t.Kind(), Values: t.Values}
	case Range:
		lo, hi := t.Lower, t.Upper
		return wirePredicate{Op: t.Kind(), Lower: &lo, Upper: &hi}
	case Compare:
		return wirePredicate{Op: t.Kind(), Cmp: t.Op.Code(), Value: t.Value}
	default:
		return wirePredicate{}
	}
}
