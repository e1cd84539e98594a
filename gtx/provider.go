// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package gtx

import (
	"github.com/bitmark-inc/gtxclient/account"
	"github.com/bitmark-inc/gtxclient/merkle"
)

//go:generate mockgen -destination mocks/provider.go -package mocks github.com/bitmark-inc/gtxclient/gtx SignatureProvider

// SignatureProvider - something that can sign a transaction RID for
// one public key, e.g. a local key pair or a remote wallet
type SignatureProvider interface {
	PublicKey() account.PublicKey
	Sign(digest merkle.Digest) (account.Signature, error)
}

// KeyPairProvider - signs with a local key pair
type KeyPairProvider struct {
	keyPair *account.KeyPair
}

// NewKeyPairProvider - wrap a key pair
func NewKeyPairProvider(keyPair *account.KeyPair) *KeyPairProvider {
	return &KeyPairProvider{keyPair: keyPair}
}

// PublicKey - the signer's public key
func (p *KeyPairProvider) PublicKey() account.PublicKey {
	return p.keyPair.PublicKey
}

// Sign - sign the digest
func (p *KeyPairProvider) Sign(digest merkle.Digest) (account.Signature, error) {
	return p.keyPair.PrivateKey.Sign(digest[:])
}
