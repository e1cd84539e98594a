// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package gtv

import (
	"math"
	"math/big"
	"sort"

	"github.com/bitmark-inc/gtxclient/fault"
)

// Field - one named field of a structured host value
type Field struct {
	Name  string
	Value interface{}
}

// OrderedFielder - implemented by host types that can be represented
// as a dictionary; fields are encoded in the returned order
type OrderedFielder interface {
	OrderedFields() []Field
}

// FromNative - convert a host value to a GTV value
//
// accepted:
//
//	nil                           → Null
//	Value                         → itself
//	[]byte                        → ByteArray
//	string                        → String
//	bool                          → Integer 0 or 1
//	int, int8..int64, uint8..uint32 → Integer
//	uint, uint64                  → Integer, or BigInteger above MaxInt64
//	*big.Int, big.Int             → BigInteger
//	[]interface{}, []Value        → Array
//	[][]byte, []string            → Array
//	[]int, []int64, []uint64      → Array
//	[]*big.Int                    → Array
//	map[string]interface{}        → Dict with keys sorted
//	map[string]string             → Dict with keys sorted
//	map[string]int64              → Dict with keys sorted
//	map[string][]byte             → Dict with keys sorted
//	OrderedFielder                → Dict in field order
//
// anything else is an unsupported type error
func FromNative(x interface{}) (Value, error) {
	return fromNative(x, 0)
}

// IsOfValidType - true if FromNative would accept the host value's type
//
// container elements are checked as well
func IsOfValidType(x interface{}) bool {
	_, err := fromNative(x, 0)
	return nil == err || !fault.IsErrUnsupportedType(err)
}

// MustFromNative - FromNative for fixed literals; panics on error
func MustFromNative(x interface{}) Value {
	v, err := FromNative(x)
	if nil != err {
		panic(err)
	}
	return v
}

func fromNative(x interface{}, depth int) (Value, error) {
	if depth > MaximumDepth {
		return nil, fault.ErrDepthExceeded
	}

	switch v := x.(type) {
	case nil:
		return NullValue, nil
	case Value:
		return v, nil
	case []byte:
		b := make(ByteArray, len(v))
		copy(b, v)
		return b, nil
	case string:
		return String(v), nil
	case bool:
		if v {
			return Integer(1), nil
		}
		return Integer(0), nil
	case int:
		return Integer(v), nil
	case int8:
		return Integer(v), nil
	case int16:
		return Integer(v), nil
	case int32:
		return Integer(v), nil
	case int64:
		return Integer(v), nil
	case uint8:
		return Integer(v), nil
	case uint16:
		return Integer(v), nil
	case uint32:
		return Integer(v), nil
	case uint:
		return fromUint64(uint64(v)), nil
	case uint64:
		return fromUint64(v), nil
	case *big.Int:
		if nil == v {
			return NullValue, nil
		}
		return NewBigInteger(v), nil
	case big.Int:
		return NewBigInteger(&v), nil

	case []interface{}:
		array := make(Array, len(v))
		for i, element := range v {
			e, err := fromNative(element, depth+1)
			if nil != err {
				return nil, err
			}
			array[i] = e
		}
		return array, nil

	case []Value:
		array := make(Array, len(v))
		for i, element := range v {
			if nil == element {
				element = NullValue
			}
			array[i] = element
		}
		return array, nil

	case [][]byte:
		array := make(Array, len(v))
		for i, element := range v {
			b, _ := fromNative(element, depth+1)
			array[i] = b
		}
		return array, nil

	case []string:
		array := make(Array, len(v))
		for i, element := range v {
			array[i] = String(element)
		}
		return array, nil

	case []int:
		array := make(Array, len(v))
		for i, element := range v {
			array[i] = Integer(element)
		}
		return array, nil

	case []int64:
		array := make(Array, len(v))
		for i, element := range v {
			array[i] = Integer(element)
		}
		return array, nil

	case []uint64:
		array := make(Array, len(v))
		for i, element := range v {
			array[i] = fromUint64(element)
		}
		return array, nil

	case []*big.Int:
		array := make(Array, len(v))
		for i, element := range v {
			if nil == element {
				array[i] = NullValue
			} else {
				array[i] = NewBigInteger(element)
			}
		}
		return array, nil

	case map[string]interface{}:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		return sortedDict(keys, func(k string) (Value, error) {
			return fromNative(v[k], depth+1)
		})

	case map[string]string:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		return sortedDict(keys, func(k string) (Value, error) {
			return String(v[k]), nil
		})

	case map[string]int64:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		return sortedDict(keys, func(k string) (Value, error) {
			return Integer(v[k]), nil
		})

	case map[string][]byte:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		return sortedDict(keys, func(k string) (Value, error) {
			return fromNative(v[k], depth+1)
		})

	case OrderedFielder:
		fields := v.OrderedFields()
		entries := make([]DictEntry, len(fields))
		for i, f := range fields {
			e, err := fromNative(f.Value, depth+1)
			if nil != err {
				return nil, err
			}
			entries[i] = DictEntry{Key: f.Name, Value: e}
		}
		return NewDict(entries...)

	default:
		return nil, fault.Unsupported(x)
	}
}

// build a dictionary with its keys in ascending order
func sortedDict(keys []string, valueOf func(string) (Value, error)) (Value, error) {
	sort.Strings(keys)
	entries := make([]DictEntry, len(keys))
	for i, k := range keys {
		e, err := valueOf(k)
		if nil != err {
			return nil, err
		}
		entries[i] = DictEntry{Key: k, Value: e}
	}
	return NewDict(entries...)
}

func fromUint64(v uint64) Value {
	if v <= math.MaxInt64 {
		return Integer(v)
	}
	return NewBigInteger(new(big.Int).SetUint64(v))
}

// ToNative - convert a GTV value to plain host values
//
//	Null       → nil
//	ByteArray  → []byte
//	String     → string
//	Integer    → int64
//	BigInteger → *big.Int
//	Array      → []interface{}
//	Dict       → map[string]interface{}
func ToNative(value Value) interface{} {
	switch v := value.(type) {
	case nil, Null:
		return nil
	case ByteArray:
		b := make([]byte, len(v))
		copy(b, v)
		return b
	case String:
		return string(v)
	case Integer:
		return int64(v)
	case BigInteger:
		return v.Int()
	case Array:
		result := make([]interface{}, len(v))
		for i, element := range v {
			result[i] = ToNative(element)
		}
		return result
	case Dict:
		result := make(map[string]interface{}, v.Len())
		for _, e := range v.entries {
			result[e.Key] = ToNative(e.Value)
		}
		return result
	default:
		return nil
	}
}
