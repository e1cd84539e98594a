// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package codec

// universal tags used inside each value
const (
	IntegerTag     = byte(0x02)
	OctetStringTag = byte(0x04)
	NullTag        = byte(0x05)
	UTF8StringTag  = byte(0x0c)
	SequenceTag    = byte(0x30)
)

// choice tags wrapping the universal value in the current wire format
//
// the low bits are the choice number: context specific, constructed
const (
	ChoiceNull       = byte(0xa0)
	ChoiceByteArray  = byte(0xa1)
	ChoiceString     = byte(0xa2)
	ChoiceInteger    = byte(0xa3)
	ChoiceDict       = byte(0xa4)
	ChoiceArray      = byte(0xa5)
	ChoiceBigInteger = byte(0xa6)

	choiceFirst = ChoiceNull
	choiceLast  = ChoiceBigInteger
)

// IsChoiceTag - true if the tag is one of the wrapping choice tags
func IsChoiceTag(tag byte) bool {
	return tag >= choiceFirst && tag <= choiceLast
}

// IsUniversalTag - true if the tag is one of the inner tags
func IsUniversalTag(tag byte) bool {
	switch tag {
	case IntegerTag, OctetStringTag, NullTag, UTF8StringTag, SequenceTag:
		return true
	default:
		return false
	}
}

// WireFormat - selects between the two wire generations
type WireFormat int

// the supported wire generations
const (
	// Wrapped - [choice-tag][len][inner-tag][len][payload]
	Wrapped WireFormat = iota
	// Legacy - [inner-tag][len][payload] without the choice tag
	Legacy
)

// String - name of the format
func (f WireFormat) String() string {
	switch f {
	case Wrapped:
		return "wrapped"
	case Legacy:
		return "legacy"
	default:
		return "*unknown*"
	}
}
