// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package codec

import (
	"github.com/bitmark-inc/gtxclient/fault"
)

// maximum content bytes of an INTEGER read into an int64
const int64ContentLength = 8

// content must be non-empty and in minimal two's complement form: a
// leading 0x00 or 0xff is only allowed when it carries the sign
func checkIntegerContent(content []byte) error {
	if 0 == len(content) {
		return fault.ErrZeroLengthIntegerEncoding
	}
	if len(content) > 1 {
		if 0x00 == content[0] && 0 == content[1]&0x80 {
			return fault.ErrNonMinimalInteger
		}
		if 0xff == content[0] && 0 != content[1]&0x80 {
			return fault.ErrNonMinimalInteger
		}
	}
	return nil
}

// classify an INTEGER the library refused, without consuming input
//
// maximumLength of zero means no size limit
func (r *Reader) integerFailure(maximumLength int) error {
	peek := &Reader{input: r.input}
	content, err := peek.readContent(IntegerTag)
	if nil != err {
		return err
	}
	if err := checkIntegerContent(content); nil != err {
		return err
	}
	if maximumLength > 0 && len(content) > maximumLength {
		return fault.ErrIntegerOverflow
	}
	return fault.ErrMalformedLength
}
