// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package codec

import (
	"math/big"
	"unicode/utf8"

	"golang.org/x/crypto/cryptobyte"
	cryptobyte_asn1 "golang.org/x/crypto/cryptobyte/asn1"

	"github.com/bitmark-inc/gtxclient/fault"
)

// Writer - builds tag/length/value output
//
// constructed values are built with Push/Pop: Push opens a separate
// builder for the content and Pop closes it, adding the content to
// the enclosing builder under the given tag
type Writer struct {
	stack []*cryptobyte.Builder
}

// NewWriter - create an empty writer
func NewWriter() *Writer {
	return &Writer{
		stack: []*cryptobyte.Builder{cryptobyte.NewBuilder(make([]byte, 0, 64))},
	}
}

// the innermost open builder
func (w *Writer) top() *cryptobyte.Builder {
	return w.stack[len(w.stack)-1]
}

// WriteNull - append a NULL
func (w *Writer) WriteNull() {
	w.top().AddASN1NULL()
}

// WriteOctetString - append an OCTET STRING
func (w *Writer) WriteOctetString(data []byte) {
	w.top().AddASN1OctetString(data)
}

// WriteUTF8String - append a UTF8String
func (w *Writer) WriteUTF8String(s string) error {
	if !utf8.ValidString(s) {
		return fault.ErrInvalidUTF8
	}
	w.top().AddASN1(cryptobyte_asn1.UTF8String, func(b *cryptobyte.Builder) {
		b.AddBytes([]byte(s))
	})
	return nil
}

// WriteInteger - append a 64 bit signed INTEGER
func (w *Writer) WriteInteger(value int64) {
	w.top().AddASN1Int64(value)
}

// WriteBigInteger - append an arbitrary precision INTEGER
func (w *Writer) WriteBigInteger(value *big.Int) error {
	if nil == value {
		return fault.ErrNilValue
	}
	w.top().AddASN1BigInt(value)
	return nil
}

// Push - open a constructed value
func (w *Writer) Push() {
	w.stack = append(w.stack, cryptobyte.NewBuilder(make([]byte, 0, 64)))
}

// Pop - close the most recently pushed value using the given tag
func (w *Writer) Pop(tag byte) error {
	n := len(w.stack)
	if n <= 1 {
		return fault.ErrUnbalancedSequence
	}
	content, err := w.stack[n-1].Bytes()
	if nil != err {
		return err
	}
	w.stack = w.stack[:n-1]
	w.top().AddASN1(cryptobyte_asn1.Tag(tag), func(b *cryptobyte.Builder) {
		b.AddBytes(content)
	})
	return nil
}

// PushSequence - open a SEQUENCE
func (w *Writer) PushSequence() {
	w.Push()
}

// PopSequence - close a SEQUENCE
func (w *Writer) PopSequence() error {
	return w.Pop(SequenceTag)
}

// Bytes - the completed output
//
// fails if any pushed value was not popped
func (w *Writer) Bytes() ([]byte, error) {
	if 1 != len(w.stack) {
		return nil, fault.ErrUnbalancedSequence
	}
	encoded, err := w.stack[0].Bytes()
	if nil != err {
		return nil, err
	}
	result := make([]byte, len(encoded))
	copy(result, encoded)
	return result, nil
}
