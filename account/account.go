// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package account

import (
	"encoding/hex"
	"fmt"
	"math/big"

	"github.com/btcsuite/btcd/btcec"

	"github.com/bitmark-inc/gtxclient/fault"
)

// key, message and signature sizes
const (
	PrivateKeyLength = 32
	PublicKeyLength  = 33
	SignatureLength  = 64
	MessageLength    = 32
)

// PublicKey - compressed secp256k1 public key
//
// comparable so it can index signer sets
type PublicKey [PublicKeyLength]byte

// PublicKeyFromBytes - validate and convert a compressed public key
func PublicKeyFromBytes(buffer []byte) (PublicKey, error) {
	var k PublicKey
	if PublicKeyLength != len(buffer) {
		return k, fault.ErrInvalidPublicKey
	}
	if _, err := btcec.ParsePubKey(buffer, btcec.S256()); nil != err {
		return k, fault.ErrInvalidPublicKey
	}
	copy(k[:], buffer)
	return k, nil
}

// PublicKeyFromHex - validate and convert a hex encoded public key
func PublicKeyFromHex(s string) (PublicKey, error) {
	buffer, err := hex.DecodeString(s)
	if nil != err {
		return PublicKey{}, fault.ErrInvalidPublicKey
	}
	return PublicKeyFromBytes(buffer)
}

// Bytes - the 33 compressed key bytes
func (k PublicKey) Bytes() []byte {
	buffer := make([]byte, PublicKeyLength)
	copy(buffer, k[:])
	return buffer
}

// CheckSignature - verify a signature over a 32 byte message
func (k PublicKey) CheckSignature(message []byte, signature Signature) error {
	if MessageLength != len(message) {
		return fault.ErrInvalidDigestLength
	}
	if SignatureLength != len(signature) {
		return fault.ErrInvalidSignatureLength
	}

	pub, err := btcec.ParsePubKey(k[:], btcec.S256())
	if nil != err {
		return fault.ErrInvalidPublicKey
	}

	// r and s must both lie in [1, N)
	n := btcec.S256().N
	r := new(big.Int).SetBytes(signature[:32])
	s := new(big.Int).SetBytes(signature[32:])
	if 0 == r.Sign() || 0 == s.Sign() || r.Cmp(n) >= 0 || s.Cmp(n) >= 0 {
		return fault.ErrSignatureDoesNotMatch
	}

	sig := btcec.Signature{R: r, S: s}
	if !sig.Verify(message, pub) {
		return fault.ErrSignatureDoesNotMatch
	}
	return nil
}

// String - hex form for use by the fmt package (for %s)
func (k PublicKey) String() string {
	return hex.EncodeToString(k[:])
}

// GoString - hex form for use by the fmt package (for %#v)
func (k PublicKey) GoString() string {
	return "<secp256k1:" + hex.EncodeToString(k[:]) + ">"
}

// Scan - convert a hex representation for use by the format package scan routines
func (k *PublicKey) Scan(state fmt.ScanState, verb rune) error {
	token, err := state.Token(true, isHexRune)
	if nil != err {
		return err
	}
	return k.UnmarshalText(token)
}

// MarshalText - convert public key to hex text
func (k PublicKey) MarshalText() ([]byte, error) {
	buffer := make([]byte, hex.EncodedLen(len(k)))
	hex.Encode(buffer, k[:])
	return buffer, nil
}

// UnmarshalText - convert hex text into a validated public key
func (k *PublicKey) UnmarshalText(s []byte) error {
	key, err := PublicKeyFromHex(string(s))
	if nil != err {
		return err
	}
	*k = key
	return nil
}

func isHexRune(c rune) bool {
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
}
