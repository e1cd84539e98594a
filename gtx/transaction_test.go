// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package gtx_test

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitmark-inc/gtxclient/account"
	"github.com/bitmark-inc/gtxclient/fault"
	"github.com/bitmark-inc/gtxclient/gtv"
	"github.com/bitmark-inc/gtxclient/gtx"
	"github.com/bitmark-inc/gtxclient/merkle"
	"github.com/bitmark-inc/gtxclient/util"
)

func testBlockchainRID() []byte {
	b := make([]byte, gtx.BlockchainRIDLength)
	for i := range b {
		b[i] = byte(i)
	}
	return b
}

func makeKeyPair(t *testing.T, privateKey string) *account.KeyPair {
	keyPair, err := account.KeyPairFromHex(privateKey)
	require.NoError(t, err, "key pair")
	return keyPair
}

var (
	alicePrivateKey = "0000000000000000000000000000000000000000000000000000000000000001"
	bobPrivateKey   = "0000000000000000000000000000000000000000000000000000000000000002"
	carolPrivateKey = "0000000000000000000000000000000000000000000000000000000000000003"
)

func TestTransactionVector(t *testing.T) {
	alice := makeKeyPair(t, alicePrivateKey)

	tx, err := gtx.NewTransaction(testBlockchainRID())
	require.NoError(t, err, "new transaction")
	require.NoError(t, tx.AddOperation("transfer", 1, "a"), "add operation")
	require.NoError(t, tx.AddSigner(alice.PublicKey), "add signer")

	expectedRID := map[merkle.HashVersion]string{
		merkle.HashVersion1: "032a598799d99dc92baffbd6b1db5b630e1436f5974f8cacb854afd4e9eb32db",
		merkle.HashVersion2: "9125225576626ad8524f1544d355075f1059f350c12d452b95a71b6effdc6f63",
	}
	for version, expected := range expectedRID {
		rid, err := tx.RID(version)
		require.NoError(t, err, "rid: version %s", version)
		assert.Equal(t, expected, rid.String(), "rid: version %s", version)
	}

	signed, err := tx.Sign(merkle.HashVersion2)
	require.NoError(t, err, "sign")
	assert.False(t, signed.IsFullySigned(), "no provider so not signed")

	expected := []byte{
		0xa5, 0x79, 0x30, 0x77, 0xa5, 0x71, 0x30, 0x6f,
		0xa1, 0x22, 0x04, 0x20, 0x00, 0x01, 0x02, 0x03,
		0x04, 0x05, 0x06, 0x07, 0x08, 0x09, 0x0a, 0x0b,
		0x0c, 0x0d, 0x0e, 0x0f, 0x10, 0x11, 0x12, 0x13,
		0x14, 0x15, 0x16, 0x17, 0x18, 0x19, 0x1a, 0x1b,
		0x1c, 0x1d, 0x1e, 0x1f, 0xa5, 0x20, 0x30, 0x1e,
		0xa5, 0x1c, 0x30, 0x1a, 0xa2, 0x0a, 0x0c, 0x08,
		0x74, 0x72, 0x61, 0x6e, 0x73, 0x66, 0x65, 0x72,
		0xa5, 0x0c, 0x30, 0x0a, 0xa3, 0x03, 0x02, 0x01,
		0x01, 0xa2, 0x03, 0x0c, 0x01, 0x61, 0xa5, 0x27,
		0x30, 0x25, 0xa1, 0x23, 0x04, 0x21, 0x02, 0x79,
		0xbe, 0x66, 0x7e, 0xf9, 0xdc, 0xbb, 0xac, 0x55,
		0xa0, 0x62, 0x95, 0xce, 0x87, 0x0b, 0x07, 0x02,
		0x9b, 0xfc, 0xdb, 0x2d, 0xce, 0x28, 0xd9, 0x59,
		0xf2, 0x81, 0x5b, 0x16, 0xf8, 0x17, 0x98, 0xa5,
		0x02, 0x30, 0x00,
	}

	encoded, err := signed.Encode()
	require.NoError(t, err, "encode")
	if !bytes.Equal(expected, encoded) {
		t.Errorf("encoded: %x  expected: %x", encoded, expected)
		t.Errorf("*** GENERATED:\n%s", util.FormatBytes("expected", encoded))
	}
}

func TestMultiSigner(t *testing.T) {
	alice := makeKeyPair(t, alicePrivateKey)
	bob := makeKeyPair(t, bobPrivateKey)

	tx, err := gtx.NewTransaction(testBlockchainRID())
	require.NoError(t, err, "new transaction")
	require.NoError(t, tx.AddOperation("swap", alice.PublicKey.Bytes(), bob.PublicKey.Bytes(), 10), "add operation")
	require.NoError(t, tx.AddSignatureProvider(gtx.NewKeyPairProvider(alice)), "alice provider")
	require.NoError(t, tx.AddSignatureProvider(gtx.NewKeyPairProvider(bob)), "bob provider")

	signed, err := tx.Sign(merkle.HashVersion2)
	require.NoError(t, err, "sign")
	assert.True(t, signed.IsFullySigned(), "both signed")
	assert.NoError(t, signed.Verify(), "verify")
	assert.Equal(t, 2, len(signed.Signatures()), "signature count")

	rid, err := tx.RID(merkle.HashVersion2)
	require.NoError(t, err, "rid")
	assert.Equal(t, rid, signed.RID(), "rid")

	body, err := tx.Body()
	require.NoError(t, err, "body")
	hash, err := merkle.Hash(body, merkle.HashVersion2)
	require.NoError(t, err, "hash")
	assert.Equal(t, hash, signed.RID(), "rid is the tree hash of the body")
}

func TestIncrementalSigning(t *testing.T) {
	alice := makeKeyPair(t, alicePrivateKey)
	bob := makeKeyPair(t, bobPrivateKey)
	carol := makeKeyPair(t, carolPrivateKey)

	tx, err := gtx.NewTransaction(testBlockchainRID())
	require.NoError(t, err, "new transaction")
	require.NoError(t, tx.AddOperation("register", "name"), "add operation")
	require.NoError(t, tx.AddSignatureProvider(gtx.NewKeyPairProvider(alice)), "alice provider")
	require.NoError(t, tx.AddSigner(bob.PublicKey), "bob signer")
	require.NoError(t, tx.AddSigner(carol.PublicKey), "carol signer")

	partial, err := tx.Sign(merkle.HashVersion1)
	require.NoError(t, err, "sign")
	assert.False(t, partial.IsFullySigned(), "only alice signed")
	assert.Equal(t, 1, len(partial.Signatures()), "one signature")

	// bob signs somewhere else
	rid := partial.RID()
	bobSignature, err := bob.PrivateKey.Sign(rid[:])
	require.NoError(t, err, "bob signs")

	twice, err := partial.AddExternalSignature(bob.PublicKey, bobSignature)
	require.NoError(t, err, "add bob")
	assert.Equal(t, rid, twice.RID(), "rid unchanged")
	assert.Equal(t, 2, len(twice.Signatures()), "one more signature")
	assert.False(t, twice.IsFullySigned(), "carol still missing")
	assert.Equal(t, 1, len(partial.Signatures()), "original is unchanged")

	full, err := twice.AddSignature(gtx.NewKeyPairProvider(carol))
	require.NoError(t, err, "add carol")
	assert.Equal(t, rid, full.RID(), "rid unchanged")
	assert.Equal(t, 3, len(full.Signatures()), "all signatures")
	assert.True(t, full.IsFullySigned(), "fully signed")

	_, err = full.AddSignature(gtx.NewKeyPairProvider(carol))
	assert.True(t, fault.IsErrArgument(err), "already used key: %v", err)

	stranger, err := account.NewKeyPair()
	require.NoError(t, err, "stranger")
	_, err = partial.AddSignature(gtx.NewKeyPairProvider(stranger))
	assert.True(t, fault.IsErrArgument(err), "unknown key: %v", err)

	_, err = partial.AddExternalSignature(carol.PublicKey, bobSignature)
	assert.True(t, fault.IsErrValidation(err), "wrong signature: %v", err)
	assert.Contains(t, err.Error(), carol.PublicKey.String(), "error names the key")
}

func TestExternalSignatureChecks(t *testing.T) {
	alice := makeKeyPair(t, alicePrivateKey)
	bob := makeKeyPair(t, bobPrivateKey)

	tx, err := gtx.NewTransaction(testBlockchainRID())
	require.NoError(t, err, "new transaction")
	require.NoError(t, tx.AddNop(), "nop")
	require.NoError(t, tx.AddSigner(alice.PublicKey), "alice signer")

	assert.True(t, fault.IsErrArgument(tx.AddSigner(alice.PublicKey)), "duplicate signer")
	assert.True(t, fault.IsErrArgument(tx.AddSignature(bob.PublicKey, make([]byte, account.SignatureLength))), "unknown signer")
	assert.Equal(t, fault.ErrInvalidSignatureLength, tx.AddSignature(alice.PublicKey, []byte{1}), "short signature")

	require.NoError(t, tx.AddSignature(alice.PublicKey, make([]byte, account.SignatureLength)), "bogus signature accepted until signing")
	assert.True(t, fault.IsErrArgument(tx.AddSignature(alice.PublicKey, make([]byte, account.SignatureLength))), "second signature")

	_, err = tx.Sign(merkle.HashVersion2)
	assert.True(t, fault.IsErrValidation(err), "bogus signature: %v", err)
}

func TestBlockchainRIDRequired(t *testing.T) {
	tx, err := gtx.NewTransaction(nil)
	require.NoError(t, err, "new transaction")
	require.NoError(t, tx.AddOperation("op"), "add operation")

	_, err = tx.RID(merkle.HashVersion2)
	assert.True(t, fault.IsErrInvalidState(err), "rid: %v", err)
	_, err = tx.Sign(merkle.HashVersion2)
	assert.True(t, fault.IsErrInvalidState(err), "sign: %v", err)

	assert.Equal(t, fault.ErrInvalidBlockchainRID, tx.SetBlockchainRID([]byte{1, 2}), "short RID")
	_, err = gtx.NewTransaction([]byte{1})
	assert.Equal(t, fault.ErrInvalidBlockchainRID, err, "new with short RID")

	require.NoError(t, tx.SetBlockchainRID(testBlockchainRID()), "set RID")
	_, err = tx.RID(merkle.HashVersion2)
	assert.NoError(t, err, "rid after set")
}

func TestOperations(t *testing.T) {
	tx, err := gtx.NewTransaction(testBlockchainRID())
	require.NoError(t, err, "new transaction")

	assert.Equal(t, fault.ErrMissingOperationName, tx.AddOperation(""), "missing name")
	assert.True(t, fault.IsErrUnsupportedType(tx.AddOperation("bad", 1.5)), "unsupported argument")

	first, err := gtx.Nop()
	require.NoError(t, err, "nop")
	second, err := gtx.Nop()
	require.NoError(t, err, "nop")
	assert.True(t, first.IsNop(), "is nop")
	assert.True(t, first.Equal(second), "nops are equal")

	op, err := gtx.NewOperation("transfer", 1, "a")
	require.NoError(t, err, "operation")
	same, err := gtx.NewOperation("transfer", int64(1), gtv.String("a"))
	require.NoError(t, err, "operation")
	assert.True(t, op.Equal(same), "same operation")
	assert.False(t, op.Equal(first), "different operation")

	typed, err := gtx.NewOperation("batch", []int64{1, 2}, map[string]string{"k": "v"})
	require.NoError(t, err, "typed arguments")
	untyped, err := gtx.NewOperation("batch", []interface{}{1, 2}, map[string]interface{}{"k": "v"})
	require.NoError(t, err, "untyped arguments")
	assert.True(t, typed.Equal(untyped), "typed and untyped arguments agree")
	assert.NoError(t, tx.AddOperation("batch", []int64{1, 2}), "add typed arguments")

	a, err := gtx.NewTransaction(testBlockchainRID())
	require.NoError(t, err, "a")
	require.NoError(t, a.AddNop(), "a nop")
	b, err := gtx.NewTransaction(testBlockchainRID())
	require.NoError(t, err, "b")
	require.NoError(t, b.AddNop(), "b nop")

	ridA, err := a.RID(merkle.HashVersion2)
	require.NoError(t, err, "rid a")
	ridB, err := b.RID(merkle.HashVersion2)
	require.NoError(t, err, "rid b")
	// a random 32 bit collision is possible but vanishingly rare
	assert.NotEqual(t, ridA, ridB, "nop makes transactions distinct")
}

func TestRoundTrip(t *testing.T) {
	alice := makeKeyPair(t, alicePrivateKey)
	bob := makeKeyPair(t, bobPrivateKey)

	tx, err := gtx.NewTransaction(testBlockchainRID())
	require.NoError(t, err, "new transaction")
	require.NoError(t, tx.AddOperation("set", "key", []byte{1, 2, 3}, map[string]interface{}{"x": 1}), "add operation")
	require.NoError(t, tx.AddNop(), "nop")
	require.NoError(t, tx.AddSignatureProvider(gtx.NewKeyPairProvider(alice)), "alice")
	require.NoError(t, tx.AddSignatureProvider(gtx.NewKeyPairProvider(bob)), "bob")

	for _, version := range []merkle.HashVersion{merkle.HashVersion1, merkle.HashVersion2} {
		signed, err := tx.Sign(version)
		require.NoError(t, err, "sign: version %s", version)

		encoded, err := signed.Encode()
		require.NoError(t, err, "encode: version %s", version)
		decoded, err := gtx.DecodeSignedTransaction(encoded, version)
		require.NoError(t, err, "decode: version %s", version)
		assert.Equal(t, signed.RID(), decoded.RID(), "rid: version %s", version)
		assert.True(t, decoded.IsFullySigned(), "signed: version %s", version)
		assert.Equal(t, signed.Signers(), decoded.Signers(), "signers: version %s", version)
		require.Equal(t, 2, len(decoded.Operations()), "operations: version %s", version)
		assert.True(t, signed.Operations()[0].Equal(decoded.Operations()[0]), "operation: version %s", version)

		rebuilt, err := gtx.TransactionFromGtv(signed.ToGtv(), version)
		require.NoError(t, err, "from value: version %s", version)
		assert.Equal(t, signed.RID(), rebuilt.RID(), "value rid: version %s", version)
		assert.True(t, rebuilt.IsFullySigned(), "value signed: version %s", version)

		legacy, err := signed.EncodeLegacy()
		require.NoError(t, err, "encode legacy: version %s", version)
		assert.Equal(t, byte(0x30), legacy[0], "legacy starts with a sequence")
		decoded, err = gtx.DecodeSignedTransaction(legacy, version)
		require.NoError(t, err, "decode legacy: version %s", version)
		assert.Equal(t, signed.RID(), decoded.RID(), "legacy rid: version %s", version)
		assert.True(t, decoded.IsFullySigned(), "legacy signed: version %s", version)
	}
}

func TestSignaturesCorrelatedByKey(t *testing.T) {
	alice := makeKeyPair(t, alicePrivateKey)
	bob := makeKeyPair(t, bobPrivateKey)

	tx, err := gtx.NewTransaction(testBlockchainRID())
	require.NoError(t, err, "new transaction")
	require.NoError(t, tx.AddOperation("op", 1), "add operation")
	require.NoError(t, tx.AddSignatureProvider(gtx.NewKeyPairProvider(alice)), "alice")
	require.NoError(t, tx.AddSignatureProvider(gtx.NewKeyPairProvider(bob)), "bob")

	signed, err := tx.Sign(merkle.HashVersion2)
	require.NoError(t, err, "sign")

	// swap the signature order on the wire
	signatures := signed.Signatures()
	swapped := gtv.Array{
		signed.Body(),
		gtv.Array{gtv.ByteArray(signatures[1]), gtv.ByteArray(signatures[0])},
	}
	encoded, err := gtv.Encode(swapped)
	require.NoError(t, err, "encode")

	decoded, err := gtx.DecodeSignedTransaction(encoded, merkle.HashVersion2)
	require.NoError(t, err, "decode")
	assert.True(t, decoded.IsFullySigned(), "fully signed")

	s, ok := decoded.SignatureFor(alice.PublicKey)
	require.True(t, ok, "alice signature")
	assert.Equal(t, signatures[0], s, "alice")
	s, ok = decoded.SignatureFor(bob.PublicKey)
	require.True(t, ok, "bob signature")
	assert.Equal(t, signatures[1], s, "bob")

	// a signature from neither signer
	carol := makeKeyPair(t, carolPrivateKey)
	rid := signed.RID()
	forged, err := carol.PrivateKey.Sign(rid[:])
	require.NoError(t, err, "carol signs")
	bad := gtv.Array{signed.Body(), gtv.Array{gtv.ByteArray(signatures[0]), gtv.ByteArray(forged)}}
	encoded, err = gtv.Encode(bad)
	require.NoError(t, err, "encode bad")
	_, err = gtx.DecodeSignedTransaction(encoded, merkle.HashVersion2)
	assert.Equal(t, fault.ErrSignatureDoesNotMatch, err, "foreign signature")

	// decoded under the wrong version the RID differs so nothing verifies
	good, err := signed.Encode()
	require.NoError(t, err, "encode good")
	_, err = gtx.DecodeSignedTransaction(good, merkle.HashVersion1)
	assert.True(t, fault.IsErrValidation(err), "wrong version: %v", err)
}

func TestDecodeErrors(t *testing.T) {
	items := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"null", "a0020500"},
		{"empty array", "a5023000"},
		{"array of one", "a5063004a0020500"},
		{"truncated", "a579"},
		{"legacy truncated", "3005"},
	}
	for _, item := range items {
		data, err := hex.DecodeString(item.input)
		require.NoError(t, err, "%s: hex", item.name)
		_, err = gtx.DecodeSignedTransaction(data, merkle.HashVersion2)
		assert.True(t, fault.IsErrDecode(err), "%s: %v", item.name, err)
	}
}
