// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package account

import (
	"encoding/hex"
	"fmt"

	"github.com/bitmark-inc/gtxclient/fault"
)

// Signature - the type for a 64 byte compact signature
type Signature []byte

// SignatureFromBytes - copy and check the length of a signature
func SignatureFromBytes(buffer []byte) (Signature, error) {
	if SignatureLength != len(buffer) {
		return nil, fault.ErrInvalidSignatureLength
	}
	signature := make(Signature, SignatureLength)
	copy(signature, buffer)
	return signature, nil
}

// String - convert a binary signature to hex string for use by the fmt package (for %s)
func (signature Signature) String() string {
	return hex.EncodeToString(signature)
}

// GoString - convert a binary signature to hex string for use by the fmt package (for %#v)
func (signature Signature) GoString() string {
	return "<signature:" + hex.EncodeToString(signature) + ">"
}

// Scan - convert a text representation to a signature for use by the format package scan routines
func (signature *Signature) Scan(state fmt.ScanState, verb rune) error {
	token, err := state.Token(true, isHexRune)
	if nil != err {
		return err
	}
	return signature.UnmarshalText(token)
}

// MarshalText - convert signature to text
func (signature Signature) MarshalText() ([]byte, error) {
	size := hex.EncodedLen(len(signature))
	b := make([]byte, size)
	hex.Encode(b, signature)
	return b, nil
}

// UnmarshalText - convert text into a signature
func (signature *Signature) UnmarshalText(s []byte) error {
	sig := make([]byte, hex.DecodedLen(len(s)))
	byteCount, err := hex.Decode(sig, s)
	if nil != err {
		return err
	}
	if SignatureLength != byteCount {
		return fault.ErrInvalidSignatureLength
	}
	*signature = sig[:byteCount]
	return nil
}
