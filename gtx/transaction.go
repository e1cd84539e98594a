// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package gtx

import (
	"github.com/bitmark-inc/gtxclient/account"
	"github.com/bitmark-inc/gtxclient/fault"
	"github.com/bitmark-inc/gtxclient/gtv"
	"github.com/bitmark-inc/gtxclient/merkle"
)

// BlockchainRIDLength - bytes in a blockchain RID
const BlockchainRIDLength = 32

// Transaction - builder for a transaction
//
// signers keep their registration order, the signature for each
// signer comes either from a provider or from an external signature
// that is checked when signing
type Transaction struct {
	blockchainRID []byte
	operations    []Operation
	signers       []account.PublicKey
	registered    map[account.PublicKey]struct{}
	providers     map[account.PublicKey]SignatureProvider
	signatures    map[account.PublicKey]account.Signature
}

// NewTransaction - create a builder, the blockchain RID may be nil
// and set later
func NewTransaction(blockchainRID []byte) (*Transaction, error) {
	t := &Transaction{
		registered: make(map[account.PublicKey]struct{}),
		providers:  make(map[account.PublicKey]SignatureProvider),
		signatures: make(map[account.PublicKey]account.Signature),
	}
	if nil != blockchainRID {
		if err := t.SetBlockchainRID(blockchainRID); nil != err {
			return nil, err
		}
	}
	return t, nil
}

// SetBlockchainRID - set the 32 byte chain identifier
func (t *Transaction) SetBlockchainRID(blockchainRID []byte) error {
	if BlockchainRIDLength != len(blockchainRID) {
		return fault.ErrInvalidBlockchainRID
	}
	t.blockchainRID = make([]byte, BlockchainRIDLength)
	copy(t.blockchainRID, blockchainRID)
	return nil
}

// BlockchainRID - the chain identifier, nil if not set
func (t *Transaction) BlockchainRID() []byte {
	return t.blockchainRID
}

// AddOperation - append a call, native arguments are converted to values
func (t *Transaction) AddOperation(name string, args ...interface{}) error {
	op, err := NewOperation(name, args...)
	if nil != err {
		return err
	}
	t.operations = append(t.operations, op)
	return nil
}

// AddNop - append a no-operation
func (t *Transaction) AddNop() error {
	op, err := Nop()
	if nil != err {
		return err
	}
	t.operations = append(t.operations, op)
	return nil
}

// Operations - the calls in order
func (t *Transaction) Operations() []Operation {
	return t.operations
}

// AddSigner - register a public key whose signature is required
func (t *Transaction) AddSigner(publicKey account.PublicKey) error {
	if _, ok := t.registered[publicKey]; ok {
		return fault.DuplicateSigner(publicKey)
	}
	t.registered[publicKey] = struct{}{}
	t.signers = append(t.signers, publicKey)
	return nil
}

// Signers - the required public keys in registration order
func (t *Transaction) Signers() []account.PublicKey {
	return t.signers
}

// AddSignatureProvider - register a provider, its public key becomes a
// signer if it is not one already
func (t *Transaction) AddSignatureProvider(provider SignatureProvider) error {
	publicKey := provider.PublicKey()
	if _, ok := t.registered[publicKey]; !ok {
		if err := t.AddSigner(publicKey); nil != err {
			return err
		}
	} else if t.hasSignatureSource(publicKey) {
		return fault.AlreadySigned(publicKey)
	}
	t.providers[publicKey] = provider
	return nil
}

// AddSignature - attach an externally produced signature for a signer,
// it is verified against the RID when the transaction is signed
func (t *Transaction) AddSignature(publicKey account.PublicKey, signature account.Signature) error {
	if _, ok := t.registered[publicKey]; !ok {
		return fault.UnknownSigner(publicKey)
	}
	if t.hasSignatureSource(publicKey) {
		return fault.AlreadySigned(publicKey)
	}
	s, err := account.SignatureFromBytes(signature)
	if nil != err {
		return err
	}
	t.signatures[publicKey] = s
	return nil
}

func (t *Transaction) hasSignatureSource(publicKey account.PublicKey) bool {
	if _, ok := t.providers[publicKey]; ok {
		return true
	}
	_, ok := t.signatures[publicKey]
	return ok
}

// Body - the canonical body [blockchainRID, [[name, [args…]]…], [signers…]]
func (t *Transaction) Body() (gtv.Value, error) {
	if nil == t.blockchainRID {
		return nil, fault.ErrBlockchainRIDNotSet
	}
	return makeBody(t.blockchainRID, t.operations, t.signers), nil
}

// RID - the transaction RID: the tree hash of the body
func (t *Transaction) RID(version merkle.HashVersion) (merkle.Digest, error) {
	body, err := t.Body()
	if nil != err {
		return merkle.Digest{}, err
	}
	return merkle.Hash(body, version)
}

// Sign - collect a signature for each signer that has a provider or
// an external signature
//
// the result is partially signed if some signers have neither
func (t *Transaction) Sign(version merkle.HashVersion) (*SignedTransaction, error) {
	body, err := t.Body()
	if nil != err {
		return nil, err
	}
	rid, err := merkle.Hash(body, version)
	if nil != err {
		return nil, err
	}

	signatures := make(map[account.PublicKey]account.Signature)
	for _, publicKey := range t.signers {
		if provider, ok := t.providers[publicKey]; ok {
			s, err := provider.Sign(rid)
			if nil != err {
				return nil, err
			}
			if err := publicKey.CheckSignature(rid[:], s); nil != err {
				return nil, fault.InvalidSignatureFor(publicKey)
			}
			signatures[publicKey] = s
			continue
		}
		if s, ok := t.signatures[publicKey]; ok {
			if err := publicKey.CheckSignature(rid[:], s); nil != err {
				return nil, fault.InvalidSignatureFor(publicKey)
			}
			signatures[publicKey] = s
		}
	}

	return &SignedTransaction{
		blockchainRID: t.blockchainRID,
		rid:           rid,
		version:       version,
		body:          body,
		operations:    t.operations,
		signers:       t.signers,
		signatures:    signatures,
	}, nil
}

func makeBody(blockchainRID []byte, operations []Operation, signers []account.PublicKey) gtv.Value {
	ops := make(gtv.Array, len(operations))
	for i, op := range operations {
		ops[i] = op.ToGtv()
	}
	keys := make(gtv.Array, len(signers))
	for i, k := range signers {
		keys[i] = gtv.ByteArray(k.Bytes())
	}
	return gtv.Array{gtv.ByteArray(blockchainRID), ops, keys}
}
