package pyrt

import (
	"sort"
	"strconv"
	"strings"
)

// Tuple is an immutable sequence of objects. It is the positional argument
// container of the calling convention.
type Tuple []*Object

// NewTuple builds a tuple from items.
func NewTuple(items ...*Object) Tuple {
	t := make(Tuple, len(items))
	copy(t, items)
	return t
}

// Len returns the number of items.
func (t Tuple) Len() int {
	return len(t)
}

// Get returns the item at i.
func (t Tuple) Get(i int) *Object {
	return t[i]
}

// Slice returns items [from, to) as a new tuple.
func (t Tuple) Slice(from, to int) Tuple {
	if from >= to {
		return Tuple{}
	}
	return NewTuple(t[from:to]...)
}

// ToObject upcasts t.
func (t Tuple) ToObject() *Object {
	return &Object{typ: TupleType, value: t}
}

// Dict is a string-keyed mapping that remembers insertion order. It is the
// keyword argument container of the calling convention.
type Dict struct {
	keys   []string
	values map[string]*Object
}

// NewDict returns an empty dict.
func NewDict() *Dict {
	return &Dict{values: make(map[string]*Object)}
}

// Len returns the number of entries. A nil dict is empty.
func (d *Dict) Len() int {
	if d == nil {
		return 0
	}
	return len(d.keys)
}

// Get looks up key.
func (d *Dict) Get(key string) (*Object, bool) {
	if d == nil {
		return nil, false
	}
	v, ok := d.values[key]
	return v, ok
}

// Set stores value under key.
func (d *Dict) Set(key string, value *Object) {
	if _, exists := d.values[key]; !exists {
		d.keys = append(d.keys, key)
	}
	d.values[key] = value
}

// Delete removes key if present.
func (d *Dict) Delete(key string) {
	if _, exists := d.values[key]; !exists {
		return
	}
	delete(d.values, key)
	for i, k := range d.keys {
		if k == key {
			d.keys = append(d.keys[:i], d.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the keys in insertion order.
func (d *Dict) Keys() []string {
	if d == nil {
		return nil
	}
	keys := make([]string, len(d.keys))
	copy(keys, d.keys)
	return keys
}

// Copy returns a shallow copy of d.
func (d *Dict) Copy() *Dict {
	out := NewDict()
	if d == nil {
		return out
	}
	for _, k := range d.keys {
		out.Set(k, d.values[k])
	}
	return out
}

// ToObject upcasts d.
func (d *Dict) ToObject() *Object {
	return &Object{typ: DictType, value: d}
}

func (d *Dict) String() string {
	if d == nil {
		return "{}"
	}
	parts := make([]string, 0, len(d.keys))
	for _, k := range d.keys {
		parts = append(parts, strconv.Quote(k)+": "+d.values[k].String())
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// sortedKeys is used where a stable, order-independent listing is needed.
func (d *Dict) sortedKeys() []string {
	keys := d.Keys()
	sort.Strings(keys)
	return keys
}
