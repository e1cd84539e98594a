// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package merkle

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/bitmark-inc/gtxclient/fault"
)

// DigestLength - number of bytes in the digest
const DigestLength = 32

// Digest - type for a digest
// stored and printed in natural (big endian) byte order
// to convert to bytes just use d[:]
type Digest [DigestLength]byte

// HashFunc - the digest function used for all tree hashing
type HashFunc func(data []byte) Digest

// NewDigest - create a SHA-256 digest from a byte slice
func NewDigest(record []byte) Digest {
	return sha256.Sum256(record)
}

// IsZero - true for the all zero digest used for empty leaves
func (digest Digest) IsZero() bool {
	return Digest{} == digest
}

// String - convert a binary digest to hex string for use by the fmt package (for %s)
func (digest Digest) String() string {
	return hex.EncodeToString(digest[:])
}

// GoString - convert a binary digest to hex string for use by the fmt package (for %#v)
func (digest Digest) GoString() string {
	return "<SHA-256:" + hex.EncodeToString(digest[:]) + ">"
}

// Scan - convert a hex representation to a digest for use by the format package scan routines
func (digest *Digest) Scan(state fmt.ScanState, verb rune) error {
	token, err := state.Token(true, func(c rune) bool {
		if c >= '0' && c <= '9' {
			return true
		}
		if c >= 'A' && c <= 'F' {
			return true
		}
		if c >= 'a' && c <= 'f' {
			return true
		}
		return false
	})
	if nil != err {
		return err
	}
	return digest.UnmarshalText(token)
}

// MarshalText - convert digest to hex text
func (digest Digest) MarshalText() ([]byte, error) {
	size := hex.EncodedLen(len(digest))
	buffer := make([]byte, size)
	hex.Encode(buffer, digest[:])
	return buffer, nil
}

// UnmarshalText - convert hex text into a digest
func (digest *Digest) UnmarshalText(s []byte) error {
	if DigestLength != hex.DecodedLen(len(s)) {
		return fault.ErrInvalidDigestLength
	}
	buffer := make([]byte, DigestLength)
	if _, err := hex.Decode(buffer, s); nil != err {
		return err
	}
	copy(digest[:], buffer)
	return nil
}

// DigestFromBytes - convert and validate a binary byte slice to a digest
func DigestFromBytes(digest *Digest, buffer []byte) error {
	if DigestLength != len(buffer) {
		return fault.ErrInvalidDigestLength
	}
	copy(digest[:], buffer)
	return nil
}
