// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package account

import (
	"encoding/hex"
	"math/big"

	"github.com/btcsuite/btcd/btcec"

	"github.com/bitmark-inc/gtxclient/fault"
)

// PrivateKey - secp256k1 signing key
type PrivateKey struct {
	key *btcec.PrivateKey
}

// KeyPair - a private key and its compressed public key
type KeyPair struct {
	PrivateKey *PrivateKey
	PublicKey  PublicKey
}

// NewKeyPair - generate a random key pair
func NewKeyPair() (*KeyPair, error) {
	key, err := btcec.NewPrivateKey(btcec.S256())
	if nil != err {
		return nil, err
	}
	return newKeyPair(key), nil
}

// KeyPairFromPrivateKey - derive the key pair for 32 private key bytes
func KeyPairFromPrivateKey(buffer []byte) (*KeyPair, error) {
	privateKey, err := PrivateKeyFromBytes(buffer)
	if nil != err {
		return nil, err
	}
	return newKeyPair(privateKey.key), nil
}

// KeyPairFromHex - derive the key pair for a hex encoded private key
func KeyPairFromHex(s string) (*KeyPair, error) {
	buffer, err := hex.DecodeString(s)
	if nil != err {
		return nil, fault.ErrInvalidPrivateKey
	}
	return KeyPairFromPrivateKey(buffer)
}

func newKeyPair(key *btcec.PrivateKey) *KeyPair {
	privateKey := &PrivateKey{key: key}
	return &KeyPair{
		PrivateKey: privateKey,
		PublicKey:  privateKey.PublicKey(),
	}
}

// PrivateKeyFromBytes - validate and convert 32 private key bytes,
// the scalar must be non-zero and below the curve order
func PrivateKeyFromBytes(buffer []byte) (*PrivateKey, error) {
	if PrivateKeyLength != len(buffer) {
		return nil, fault.ErrInvalidPrivateKey
	}

	d := new(big.Int).SetBytes(buffer)
	if 0 == d.Sign() || d.Cmp(btcec.S256().N) >= 0 {
		return nil, fault.ErrInvalidPrivateKey
	}

	key, _ := btcec.PrivKeyFromBytes(btcec.S256(), buffer)
	return &PrivateKey{key: key}, nil
}

// PublicKey - the compressed public key
func (p *PrivateKey) PublicKey() PublicKey {
	var k PublicKey
	copy(k[:], p.key.PubKey().SerializeCompressed())
	return k
}

// Bytes - the 32 private key bytes
func (p *PrivateKey) Bytes() []byte {
	return p.key.Serialize()
}

// String - hex form
func (p *PrivateKey) String() string {
	return hex.EncodeToString(p.Bytes())
}

// MarshalText - convert private key to hex text
func (p *PrivateKey) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// Sign - deterministic (RFC 6979) compact signature r‖s over a 32 byte
// message
func (p *PrivateKey) Sign(message []byte) (Signature, error) {
	if MessageLength != len(message) {
		return nil, fault.ErrInvalidDigestLength
	}

	compact, err := btcec.SignCompact(btcec.S256(), p.key, message, true)
	if nil != err {
		return nil, err
	}

	// drop the leading recovery code
	return Signature(compact[1:]), nil
}
