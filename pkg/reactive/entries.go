package reactive

import (
	"fmt"
	"sort"
)

// Entry is one declared data key and its initial value.
type Entry struct {
	Key   string
	Value any
}

// Entries is an ordered list of declared data keys.
// The order is the order in which keys are observed and linked.
type Entries []Entry

// Fields builds Entries from alternating keys and values.
//
//	reactive.Fields("name", "Ann", "age", 30)
//
// It panics if kv has an odd length or a key is not a string.
func Fields(kv ...any) Entries {
	if len(kv)%2 != 0 {
		panic("reactive: Fields requires key/value pairs")
	}
	out := make(Entries, 0, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			panic(fmt.Sprintf("reactive: Fields key at %d is %T, not string", i, kv[i]))
		}
		out = append(out, Entry{Key: key, Value: kv[i+1]})
	}
	return out
}

// FromMap builds Entries from a map, with keys sorted.
func FromMap(m map[string]any) Entries {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make(Entries, 0, len(keys))
	for _, k := range keys {
		out = append(out, Entry{Key: k, Value: m[k]})
	}
	return out
}

// Keys returns the keys in order.
func (e Entries) Keys() []string {
	keys := make([]string, 0, len(e))
	for _, entry := range e {
		keys = append(keys, entry.Key)
	}
	return keys
}

// Lookup returns the value for key and whether it is present.
// When a key appears more than once, the last value wins.
func (e Entries) Lookup(key string) (any, bool) {
	for i := len(e) - 1; i >= 0; i-- {
		if e[i].Key == key {
			return e[i].Value, true
		}
	}
	return nil, false
}

// Map returns the entries as a map.
func (e Entries) Map() map[string]any {
	m := make(map[string]any, len(e))
	for _, entry := range e {
		m[entry.Key] = entry.Value
	}
	return m
}
