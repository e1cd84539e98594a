// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package gtv

import (
	"github.com/bitmark-inc/gtxclient/codec"
	"github.com/bitmark-inc/gtxclient/fault"
)

// Decode - decode exactly one value from a byte slice
//
// both wire generations are accepted; see Read
func Decode(data []byte) (Value, error) {
	r := codec.NewReader(data)
	value, err := read(r, 0)
	if nil != err {
		return nil, err
	}
	if !r.Empty() {
		return nil, fault.ErrTrailingData
	}
	return value, nil
}

// Read - read the next value from a reader
//
// the outer tag is peeked to select the generation:
//
//	choice tags 0xa0..0xa6 - wrapped value, decoded by its choice
//	universal tags         - legacy value, decoded to its natural case:
//	                         SEQUENCE → Array, INTEGER → Integer or
//	                         BigInteger if wider than 64 bits
//
// the legacy form carries no dictionary marker so a legacy dictionary
// is returned as an array of [key, value] arrays
func Read(r *codec.Reader) (Value, error) {
	return read(r, 0)
}

func read(r *codec.Reader, depth int) (Value, error) {
	if depth > MaximumDepth {
		return nil, fault.ErrDepthExceeded
	}

	tag, err := r.PeekTag()
	if nil != err {
		return nil, err
	}

	if codec.IsChoiceTag(tag) {
		inner, err := r.ReadTagged(tag)
		if nil != err {
			return nil, err
		}
		value, err := readChoice(inner, Type(tag-codec.ChoiceNull), depth)
		if nil != err {
			return nil, err
		}
		if !inner.Empty() {
			return nil, fault.ErrTrailingData
		}
		return value, nil
	}

	if codec.IsUniversalTag(tag) {
		return readLegacy(r, tag, depth)
	}
	return nil, fault.UnexpectedTag(tag)
}

// decode the universal value inside a choice
func readChoice(r *codec.Reader, t Type, depth int) (Value, error) {
	switch t {
	case NullType:
		if err := r.ReadNull(); nil != err {
			return nil, err
		}
		return NullValue, nil

	case ByteArrayType:
		b, err := r.ReadOctetString()
		if nil != err {
			return nil, err
		}
		return ByteArray(b), nil

	case StringType:
		s, err := r.ReadUTF8String()
		if nil != err {
			return nil, err
		}
		return String(s), nil

	case IntegerType:
		i, err := r.ReadInteger()
		if nil != err {
			return nil, err
		}
		return Integer(i), nil

	case BigIntegerType:
		i, err := r.ReadBigInteger()
		if nil != err {
			return nil, err
		}
		return BigInteger{value: i}, nil

	case ArrayType:
		return readArray(r, depth)

	case DictType:
		return readDict(r, depth)

	default:
		return nil, fault.UnexpectedTag(codec.ChoiceNull + byte(t))
	}
}

func readArray(r *codec.Reader, depth int) (Value, error) {
	seq, err := r.ReadSequence()
	if nil != err {
		return nil, err
	}
	array := Array{}
	for !seq.Empty() {
		element, err := read(seq, depth+1)
		if nil != err {
			return nil, err
		}
		array = append(array, element)
	}
	return array, nil
}

func readDict(r *codec.Reader, depth int) (Value, error) {
	seq, err := r.ReadSequence()
	if nil != err {
		return nil, err
	}
	entries := []DictEntry{}
	for !seq.Empty() {
		pair, err := seq.ReadSequence()
		if nil != err {
			return nil, err
		}
		key, err := pair.ReadUTF8String()
		if nil != err {
			return nil, err
		}
		value, err := read(pair, depth+1)
		if nil != err {
			return nil, err
		}
		if !pair.Empty() {
			return nil, fault.ErrTrailingData
		}
		entries = append(entries, DictEntry{Key: key, Value: value})
	}
	d, err := NewDict(entries...)
	if nil != err {
		return nil, fault.DecodeError(err.Error())
	}
	return d, nil
}

// decode a value that has no choice wrapper
func readLegacy(r *codec.Reader, tag byte, depth int) (Value, error) {
	switch tag {
	case codec.NullTag:
		if err := r.ReadNull(); nil != err {
			return nil, err
		}
		return NullValue, nil

	case codec.OctetStringTag:
		b, err := r.ReadOctetString()
		if nil != err {
			return nil, err
		}
		return ByteArray(b), nil

	case codec.UTF8StringTag:
		s, err := r.ReadUTF8String()
		if nil != err {
			return nil, err
		}
		return String(s), nil

	case codec.IntegerTag:
		fits, err := r.IntegerFits64()
		if nil != err {
			return nil, err
		}
		if fits {
			i, err := r.ReadInteger()
			if nil != err {
				return nil, err
			}
			return Integer(i), nil
		}
		i, err := r.ReadBigInteger()
		if nil != err {
			return nil, err
		}
		return BigInteger{value: i}, nil

	case codec.SequenceTag:
		return readArray(r, depth)

	default:
		return nil, fault.UnexpectedTag(tag)
	}
}
