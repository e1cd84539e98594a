// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package gtv

import (
	"github.com/bitmark-inc/gtxclient/codec"
	"github.com/bitmark-inc/gtxclient/fault"
)

// MaximumDepth - deepest nesting of arrays and dictionaries accepted by
// encode, decode and conversion
const MaximumDepth = 128

// Encode - encode a value in the current (wrapped) wire format
func Encode(value Value) ([]byte, error) {
	return EncodeWithFormat(value, codec.Wrapped)
}

// EncodeWithFormat - encode a value in the selected wire format
//
// arrays and dictionaries keep the order given by the caller
func EncodeWithFormat(value Value, format codec.WireFormat) ([]byte, error) {
	w := codec.NewWriter()
	if err := write(w, value, format, 0); nil != err {
		return nil, err
	}
	return w.Bytes()
}

// Write - append a value to an existing writer
//
// for use by callers that frame values inside their own structures
func Write(w *codec.Writer, value Value, format codec.WireFormat) error {
	return write(w, value, format, 0)
}

func write(w *codec.Writer, value Value, format codec.WireFormat, depth int) error {
	if depth > MaximumDepth {
		return fault.ErrDepthExceeded
	}
	if nil == value {
		value = NullValue
	}

	wrapped := codec.Wrapped == format
	if wrapped {
		w.Push()
	}

	switch v := value.(type) {
	case Null:
		w.WriteNull()

	case ByteArray:
		w.WriteOctetString(v)

	case String:
		if err := w.WriteUTF8String(string(v)); nil != err {
			return err
		}

	case Integer:
		w.WriteInteger(int64(v))

	case BigInteger:
		if err := w.WriteBigInteger(v.Int()); nil != err {
			return err
		}

	case Array:
		w.PushSequence()
		for _, element := range v {
			if err := write(w, element, format, depth+1); nil != err {
				return err
			}
		}
		if err := w.PopSequence(); nil != err {
			return err
		}

	case Dict:
		// each entry is an unlabelled (key, value) sub-sequence
		w.PushSequence()
		for _, e := range v.entries {
			w.PushSequence()
			if err := w.WriteUTF8String(e.Key); nil != err {
				return err
			}
			if err := write(w, e.Value, format, depth+1); nil != err {
				return err
			}
			if err := w.PopSequence(); nil != err {
				return err
			}
		}
		if err := w.PopSequence(); nil != err {
			return err
		}

	default:
		return fault.Unsupported(value)
	}

	if wrapped {
		return w.Pop(codec.ChoiceNull + byte(value.Type()))
	}
	return nil
}
