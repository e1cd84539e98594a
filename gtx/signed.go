// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package gtx

import (
	"github.com/bitmark-inc/gtxclient/account"
	"github.com/bitmark-inc/gtxclient/codec"
	"github.com/bitmark-inc/gtxclient/fault"
	"github.com/bitmark-inc/gtxclient/gtv"
	"github.com/bitmark-inc/gtxclient/merkle"
)

// SignedTransaction - a transaction body with the signatures collected
// for it, each signature correlated to its signer by key
type SignedTransaction struct {
	blockchainRID []byte
	rid           merkle.Digest
	version       merkle.HashVersion
	body          gtv.Value
	operations    []Operation
	signers       []account.PublicKey
	signatures    map[account.PublicKey]account.Signature
}

// BlockchainRID - the chain identifier
func (s *SignedTransaction) BlockchainRID() []byte {
	return s.blockchainRID
}

// RID - the transaction RID
func (s *SignedTransaction) RID() merkle.Digest {
	return s.rid
}

// HashVersion - the version the RID was computed with
func (s *SignedTransaction) HashVersion() merkle.HashVersion {
	return s.version
}

// Body - the canonical body
func (s *SignedTransaction) Body() gtv.Value {
	return s.body
}

// Operations - the calls in order
func (s *SignedTransaction) Operations() []Operation {
	return s.operations
}

// Signers - the required public keys in registration order
func (s *SignedTransaction) Signers() []account.PublicKey {
	return s.signers
}

// SignatureFor - the signature correlated to a signer
func (s *SignedTransaction) SignatureFor(publicKey account.PublicKey) (account.Signature, bool) {
	signature, ok := s.signatures[publicKey]
	return signature, ok
}

// Signatures - the collected signatures in signer order
func (s *SignedTransaction) Signatures() []account.Signature {
	result := make([]account.Signature, 0, len(s.signatures))
	for _, publicKey := range s.signers {
		if signature, ok := s.signatures[publicKey]; ok {
			result = append(result, signature)
		}
	}
	return result
}

// Verify - check every collected signature against the RID
func (s *SignedTransaction) Verify() error {
	for _, publicKey := range s.signers {
		signature, ok := s.signatures[publicKey]
		if !ok {
			continue
		}
		if err := publicKey.CheckSignature(s.rid[:], signature); nil != err {
			return fault.InvalidSignatureFor(publicKey)
		}
	}
	return nil
}

// IsFullySigned - every signer has a signature and all of them verify
func (s *SignedTransaction) IsFullySigned() bool {
	return len(s.signers) == len(s.signatures) && nil == s.Verify()
}

// ToGtv - the signed form [body, [signatures…]]
func (s *SignedTransaction) ToGtv() gtv.Value {
	signatures := s.Signatures()
	list := make(gtv.Array, len(signatures))
	for i, signature := range signatures {
		list[i] = gtv.ByteArray(signature)
	}
	return gtv.Array{s.body, list}
}

// Encode - the wire bytes
func (s *SignedTransaction) Encode() ([]byte, error) {
	return gtv.Encode(s.ToGtv())
}

// AddSignature - a copy with one more signature from a provider for a
// registered signer
func (s *SignedTransaction) AddSignature(provider SignatureProvider) (*SignedTransaction, error) {
	t, err := s.rebuild()
	if nil != err {
		return nil, err
	}
	publicKey := provider.PublicKey()
	if _, ok := t.registered[publicKey]; !ok {
		return nil, fault.UnknownSigner(publicKey)
	}
	if err := t.AddSignatureProvider(provider); nil != err {
		return nil, err
	}
	return s.resign(t)
}

// AddExternalSignature - a copy with one more signature produced
// elsewhere, verified before it is accepted
func (s *SignedTransaction) AddExternalSignature(publicKey account.PublicKey, signature account.Signature) (*SignedTransaction, error) {
	t, err := s.rebuild()
	if nil != err {
		return nil, err
	}
	if err := t.AddSignature(publicKey, signature); nil != err {
		return nil, err
	}
	return s.resign(t)
}

// a fresh builder holding the current state
func (s *SignedTransaction) rebuild() (*Transaction, error) {
	t, err := NewTransaction(s.blockchainRID)
	if nil != err {
		return nil, err
	}
	t.operations = append(t.operations, s.operations...)
	for _, publicKey := range s.signers {
		if err := t.AddSigner(publicKey); nil != err {
			return nil, err
		}
		if signature, ok := s.signatures[publicKey]; ok {
			if err := t.AddSignature(publicKey, signature); nil != err {
				return nil, err
			}
		}
	}
	return t, nil
}

func (s *SignedTransaction) resign(t *Transaction) (*SignedTransaction, error) {
	signed, err := t.Sign(s.version)
	if nil != err {
		return nil, err
	}
	if signed.rid != s.rid {
		return nil, fault.ErrTransactionRIDChanged
	}
	return signed, nil
}

// DecodeSignedTransaction - decode wire bytes in either the value form
// or the legacy sequence form, recompute the RID and correlate each
// signature to the signer whose key verifies it
func DecodeSignedTransaction(data []byte, version merkle.HashVersion) (*SignedTransaction, error) {
	if 0 == len(data) {
		return nil, fault.ErrTruncated
	}

	switch data[0] {
	case codec.ChoiceArray:
		value, err := gtv.Decode(data)
		if nil != err {
			return nil, err
		}
		return TransactionFromGtv(value, version)

	case codec.SequenceTag:
		blockchainRID, operations, signers, signatures, err := decodeLegacy(data)
		if nil != err {
			return nil, err
		}
		return assemble(blockchainRID, operations, signers, signatures, version)

	default:
		return nil, fault.ErrNotATransaction
	}
}

// TransactionFromGtv - rebuild a signed transaction from its value form
func TransactionFromGtv(value gtv.Value, version merkle.HashVersion) (*SignedTransaction, error) {
	blockchainRID, operations, signers, signatures, err := signedFromGtv(value)
	if nil != err {
		return nil, err
	}
	return assemble(blockchainRID, operations, signers, signatures, version)
}

func assemble(blockchainRID []byte, operations []Operation, signers []account.PublicKey, signatures []account.Signature, version merkle.HashVersion) (*SignedTransaction, error) {
	if BlockchainRIDLength != len(blockchainRID) {
		return nil, fault.ErrInvalidBlockchainRID
	}
	t, err := NewTransaction(blockchainRID)
	if nil != err {
		return nil, err
	}
	t.operations = operations
	for _, publicKey := range signers {
		if err := t.AddSigner(publicKey); nil != err {
			return nil, err
		}
	}

	rid, err := t.RID(version)
	if nil != err {
		return nil, err
	}

	// each signature claims the first unclaimed signer it verifies for
	used := make(map[account.PublicKey]struct{})
correlate:
	for _, signature := range signatures {
		for _, publicKey := range signers {
			if _, ok := used[publicKey]; ok {
				continue
			}
			if nil == publicKey.CheckSignature(rid[:], signature) {
				used[publicKey] = struct{}{}
				t.signatures[publicKey] = signature
				continue correlate
			}
		}
		return nil, fault.ErrSignatureDoesNotMatch
	}

	return t.Sign(version)
}

func signedFromGtv(value gtv.Value) ([]byte, []Operation, []account.PublicKey, []account.Signature, error) {
	outer, ok := value.(gtv.Array)
	if !ok || 2 != len(outer) {
		return nil, nil, nil, nil, fault.ErrNotATransaction
	}
	body, ok := outer[0].(gtv.Array)
	if !ok || 3 != len(body) {
		return nil, nil, nil, nil, fault.ErrNotATransaction
	}

	blockchainRID, ok := body[0].(gtv.ByteArray)
	if !ok {
		return nil, nil, nil, nil, fault.ErrNotATransaction
	}

	ops, ok := body[1].(gtv.Array)
	if !ok {
		return nil, nil, nil, nil, fault.ErrNotATransaction
	}
	operations := make([]Operation, len(ops))
	for i, item := range ops {
		op, err := operationFromGtv(item)
		if nil != err {
			return nil, nil, nil, nil, err
		}
		operations[i] = op
	}

	keys, ok := body[2].(gtv.Array)
	if !ok {
		return nil, nil, nil, nil, fault.ErrNotATransaction
	}
	signers := make([]account.PublicKey, len(keys))
	for i, item := range keys {
		b, ok := item.(gtv.ByteArray)
		if !ok {
			return nil, nil, nil, nil, fault.ErrNotATransaction
		}
		k, err := account.PublicKeyFromBytes(b)
		if nil != err {
			return nil, nil, nil, nil, err
		}
		signers[i] = k
	}

	list, ok := outer[1].(gtv.Array)
	if !ok {
		return nil, nil, nil, nil, fault.ErrNotATransaction
	}
	signatures := make([]account.Signature, len(list))
	for i, item := range list {
		b, ok := item.(gtv.ByteArray)
		if !ok {
			return nil, nil, nil, nil, fault.ErrNotATransaction
		}
		s, err := account.SignatureFromBytes(b)
		if nil != err {
			return nil, nil, nil, nil, err
		}
		signatures[i] = s
	}

	return []byte(blockchainRID), operations, signers, signatures, nil
}
