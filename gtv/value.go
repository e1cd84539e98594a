// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package gtv

import (
	"encoding/hex"
	"math/big"
	"sort"

	"github.com/bitmark-inc/gtxclient/fault"
)

// Type - the GTV case
//
// the numeric value is also the choice number on the wire
type Type int

// enumerate the GTV cases in wire order
const (
	NullType       = Type(iota)
	ByteArrayType  = Type(iota)
	StringType     = Type(iota)
	IntegerType    = Type(iota)
	DictType       = Type(iota)
	ArrayType      = Type(iota)
	BigIntegerType = Type(iota)
)

// String - name of the type
func (t Type) String() string {
	switch t {
	case NullType:
		return "null"
	case ByteArrayType:
		return "byteArray"
	case StringType:
		return "string"
	case IntegerType:
		return "integer"
	case DictType:
		return "dict"
	case ArrayType:
		return "array"
	case BigIntegerType:
		return "bigInteger"
	default:
		return "*unknown*"
	}
}

// Value - a generic tagged value
type Value interface {
	Type() Type
}

// Null - the absent value
type Null struct{}

// ByteArray - raw bytes
type ByteArray []byte

// String - utf-8 text
type String string

// Integer - 64 bit signed value
type Integer int64

// BigInteger - arbitrary precision value
type BigInteger struct {
	value *big.Int
}

// Array - ordered values
type Array []Value

// DictEntry - one key and its value
type DictEntry struct {
	Key   string
	Value Value
}

// Dict - string keyed values, kept in the order they were given
type Dict struct {
	entries []DictEntry
	index   map[string]int
}

// NullValue - the single null
var NullValue = Null{}

// Type - GTV case of each value
func (Null) Type() Type       { return NullType }
func (ByteArray) Type() Type  { return ByteArrayType }
func (String) Type() Type     { return StringType }
func (Integer) Type() Type    { return IntegerType }
func (BigInteger) Type() Type { return BigIntegerType }
func (Array) Type() Type      { return ArrayType }
func (Dict) Type() Type       { return DictType }

// String - hex form of the bytes for use by the fmt package (for %s)
func (b ByteArray) String() string {
	return hex.EncodeToString(b)
}

// GoString - hex form of the bytes for use by the fmt package (for %#v)
func (b ByteArray) GoString() string {
	return "<byteArray:" + hex.EncodeToString(b) + ">"
}

// MarshalText - convert bytes to hex text
func (b ByteArray) MarshalText() ([]byte, error) {
	buffer := make([]byte, hex.EncodedLen(len(b)))
	hex.Encode(buffer, b)
	return buffer, nil
}

// NewBigInteger - create a big integer holding a copy of value
func NewBigInteger(value *big.Int) BigInteger {
	if nil == value {
		return BigInteger{value: new(big.Int)}
	}
	return BigInteger{value: new(big.Int).Set(value)}
}

// Int - a copy of the value
func (b BigInteger) Int() *big.Int {
	if nil == b.value {
		return new(big.Int)
	}
	return new(big.Int).Set(b.value)
}

// String - decimal form of the value
func (b BigInteger) String() string {
	return b.Int().String()
}

// NewDict - create a dictionary from entries in the given order
//
// duplicate keys are rejected
func NewDict(entries ...DictEntry) (Dict, error) {
	d := Dict{
		entries: make([]DictEntry, 0, len(entries)),
		index:   make(map[string]int, len(entries)),
	}
	for _, e := range entries {
		if _, ok := d.index[e.Key]; ok {
			return Dict{}, fault.ErrDuplicateDictKey
		}
		if nil == e.Value {
			e.Value = NullValue
		}
		d.index[e.Key] = len(d.entries)
		d.entries = append(d.entries, e)
	}
	return d, nil
}

// Len - number of entries
func (d Dict) Len() int {
	return len(d.entries)
}

// Get - value for a key
func (d Dict) Get(key string) (Value, bool) {
	i, ok := d.index[key]
	if !ok {
		return nil, false
	}
	return d.entries[i].Value, true
}

// Keys - keys in insertion order
func (d Dict) Keys() []string {
	keys := make([]string, len(d.entries))
	for i, e := range d.entries {
		keys[i] = e.Key
	}
	return keys
}

// Entries - a copy of the entries in insertion order
func (d Dict) Entries() []DictEntry {
	entries := make([]DictEntry, len(d.entries))
	copy(entries, d.entries)
	return entries
}

// SortedEntries - a copy of the entries sorted lexicographically by key
//
// this is the order used for hashing, independent of wire order
func (d Dict) SortedEntries() []DictEntry {
	entries := d.Entries()
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Key < entries[j].Key
	})
	return entries
}

// BytesKey - dictionary key for a byte buffer
func BytesKey(b []byte) string {
	return hex.EncodeToString(b)
}

// Equal - structural equality of two values
//
// dictionaries compare as maps, ignoring entry order
func Equal(a Value, b Value) bool {
	if nil == a || nil == b {
		return a == b
	}
	if a.Type() != b.Type() {
		return false
	}
	switch av := a.(type) {
	case Null:
		return true

	case ByteArray:
		bv := b.(ByteArray)
		if len(av) != len(bv) {
			return false
		}
		for i := range av {
			if av[i] != bv[i] {
				return false
			}
		}
		return true

	case String:
		return av == b.(String)

	case Integer:
		return av == b.(Integer)

	case BigInteger:
		return 0 == av.Int().Cmp(b.(BigInteger).Int())

	case Array:
		bv := b.(Array)
		if len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true

	case Dict:
		bv := b.(Dict)
		if av.Len() != bv.Len() {
			return false
		}
		for _, e := range av.entries {
			other, ok := bv.Get(e.Key)
			if !ok || !Equal(e.Value, other) {
				return false
			}
		}
		return true

	default:
		return false
	}
}
