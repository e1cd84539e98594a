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

// Reader - consumes tag/length/value input
//
// a constructed value is read into a sub-reader that covers exactly
// its content bytes
type Reader struct {
	input cryptobyte.String
}

// NewReader - create a reader over a byte slice
func NewReader(data []byte) *Reader {
	return &Reader{
		input: cryptobyte.String(data),
	}
}

// Empty - true if all input has been consumed
func (r *Reader) Empty() bool {
	return r.input.Empty()
}

// Remaining - count of unread bytes
func (r *Reader) Remaining() int {
	return len(r.input)
}

// PeekTag - return the next tag without consuming anything
func (r *Reader) PeekTag() (byte, error) {
	if r.input.Empty() {
		return 0, fault.ErrTruncated
	}
	return r.input[0], nil
}

// ReadTagged - read an element with the given tag and return a reader
// over its content
func (r *Reader) ReadTagged(tag byte) (*Reader, error) {
	content, err := r.readContent(tag)
	if nil != err {
		return nil, err
	}
	return &Reader{input: content}, nil
}

// ReadSequence - read a SEQUENCE and return a reader over its elements
func (r *Reader) ReadSequence() (*Reader, error) {
	return r.ReadTagged(SequenceTag)
}

// ReadNull - read a NULL
func (r *Reader) ReadNull() error {
	content, err := r.readContent(NullTag)
	if nil != err {
		return err
	}
	if 0 != len(content) {
		return fault.ErrInvalidNullPayload
	}
	return nil
}

// ReadOctetString - read an OCTET STRING
func (r *Reader) ReadOctetString() ([]byte, error) {
	content, err := r.readContent(OctetStringTag)
	if nil != err {
		return nil, err
	}
	result := make([]byte, len(content))
	copy(result, content)
	return result, nil
}

// ReadUTF8String - read a UTF8String
func (r *Reader) ReadUTF8String() (string, error) {
	content, err := r.readContent(UTF8StringTag)
	if nil != err {
		return "", err
	}
	if !utf8.Valid(content) {
		return "", fault.ErrInvalidUTF8
	}
	return string(content), nil
}

// ReadInteger - read an INTEGER that must fit in 64 bits
func (r *Reader) ReadInteger() (int64, error) {
	peek := r.input
	var value int64
	if !peek.ReadASN1Integer(&value) {
		return 0, r.integerFailure(int64ContentLength)
	}
	r.input = peek
	return value, nil
}

// ReadBigInteger - read an INTEGER of any size
func (r *Reader) ReadBigInteger() (*big.Int, error) {
	peek := r.input
	value := new(big.Int)
	if !peek.ReadASN1Integer(value) {
		return nil, r.integerFailure(0)
	}
	r.input = peek
	return value, nil
}

// IntegerFits64 - peek at the next INTEGER and report whether its
// content fits in 64 bits
func (r *Reader) IntegerFits64() (bool, error) {
	peek := r.input
	var content cryptobyte.String
	if !peek.ReadASN1(&content, cryptobyte_asn1.Tag(IntegerTag)) {
		return false, r.failure(IntegerTag)
	}
	return len(content) <= int64ContentLength, nil
}

// read one element, checking its tag first so a mismatch can be
// reported separately from a truncation
func (r *Reader) readContent(tag byte) (cryptobyte.String, error) {
	actual, err := r.PeekTag()
	if nil != err {
		return nil, err
	}
	if actual != tag {
		return nil, fault.TagMismatch(tag, actual)
	}
	var content cryptobyte.String
	if !r.input.ReadASN1(&content, cryptobyte_asn1.Tag(tag)) {
		return nil, r.failure(tag)
	}
	return content, nil
}

// classify a failed read
func (r *Reader) failure(tag byte) error {
	if len(r.input) < 2 {
		return fault.ErrTruncated
	}
	if r.input[0] != tag {
		return fault.TagMismatch(tag, r.input[0])
	}
	return fault.ErrMalformedLength
}
