// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package session_test

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitmark-inc/gtxclient/fault"
	"github.com/bitmark-inc/gtxclient/fixtures"
	"github.com/bitmark-inc/gtxclient/gtv"
	"github.com/bitmark-inc/gtxclient/gtx"
	"github.com/bitmark-inc/gtxclient/merkle"
	"github.com/bitmark-inc/gtxclient/session"
	"github.com/bitmark-inc/gtxclient/session/mocks"
	"github.com/bitmark-inc/gtxclient/storage"
)

const (
	featuresURI = "/config/" + fixtures.BlockchainRIDHex + "/features"
	submitURI   = "/tx/" + fixtures.BlockchainRIDHex
	queryURI    = "/query_gtv/" + fixtures.BlockchainRIDHex
)

func newTestSession(t *testing.T, version merkle.HashVersion, transport session.Transport, journal session.Journal) *session.Session {
	s, err := session.New(
		logger.New(fixtures.LogCategory),
		session.Options{
			BlockchainRID: fixtures.BlockchainRID,
			HashVersion:   version,
		},
		transport,
		journal,
	)
	require.NoError(t, err, "new session")
	return s
}

func signedTransfer(t *testing.T, s *session.Session) *gtx.SignedTransaction {
	tx, err := s.NewTransaction()
	require.NoError(t, err, "new transaction")
	require.NoError(t, tx.AddOperation("transfer", "alice", "bob", 100), "add operation")
	require.NoError(t, tx.AddSignatureProvider(gtx.NewKeyPairProvider(fixtures.KeyPair1)), "add provider")

	signed, err := s.Sign(context.Background(), tx)
	require.NoError(t, err, "sign")
	require.True(t, signed.IsFullySigned(), "fully signed")
	return signed
}

func TestNewOptions(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	ctl := gomock.NewController(t)
	defer ctl.Finish()

	transport := mocks.NewMockTransport(ctl)
	log := logger.New(fixtures.LogCategory)

	_, err := session.New(log, session.Options{}, transport, nil)
	assert.Equal(t, fault.ErrRequiredBlockchainRID, err, "missing blockchain RID")

	_, err = session.New(log, session.Options{BlockchainRID: []byte{1, 2, 3}}, transport, nil)
	assert.Equal(t, fault.ErrInvalidBlockchainRID, err, "short blockchain RID")

	_, err = session.New(log, session.Options{BlockchainRID: fixtures.BlockchainRID, HashVersion: 3}, transport, nil)
	assert.Equal(t, fault.ErrInvalidHashVersion, err, "bad hash version")

	s, err := session.New(log, session.Options{BlockchainRID: fixtures.BlockchainRID}, transport, nil)
	require.NoError(t, err, "valid options")
	assert.Equal(t, fixtures.BlockchainRID, s.BlockchainRID(), "blockchain RID")
}

func TestHashVersionAskedOnce(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	ctl := gomock.NewController(t)
	defer ctl.Finish()

	transport := mocks.NewMockTransport(ctl)
	transport.EXPECT().
		Get(gomock.Any(), featuresURI).
		Return([]byte(`{"merkle_hash_version":2}`), nil).
		Times(1)

	s := newTestSession(t, 0, transport, nil)

	for i := 0; i < 3; i += 1 {
		version, err := s.HashVersion(context.Background())
		require.NoError(t, err, "hash version")
		assert.Equal(t, merkle.HashVersion2, version, "hash version")
	}
}

func TestHashVersionDefaultsToOne(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	ctl := gomock.NewController(t)
	defer ctl.Finish()

	transport := mocks.NewMockTransport(ctl)
	transport.EXPECT().
		Get(gomock.Any(), featuresURI).
		Return([]byte(`{}`), nil).
		Times(1)

	s := newTestSession(t, 0, transport, nil)

	version, err := s.HashVersion(context.Background())
	require.NoError(t, err, "hash version")
	assert.Equal(t, merkle.HashVersion1, version, "missing capability")
}

func TestHashVersionErrors(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	ctl := gomock.NewController(t)
	defer ctl.Finish()

	unreachable := errors.New("connection refused")

	transport := mocks.NewMockTransport(ctl)
	gomock.InOrder(
		transport.EXPECT().Get(gomock.Any(), featuresURI).Return(nil, unreachable),
		transport.EXPECT().Get(gomock.Any(), featuresURI).Return([]byte(`{"merkle_hash_version":7}`), nil),
		transport.EXPECT().Get(gomock.Any(), featuresURI).Return([]byte(`not json`), nil),
	)

	s := newTestSession(t, 0, transport, nil)

	_, err := s.HashVersion(context.Background())
	assert.Error(t, err, "transport failure")
	assert.Contains(t, err.Error(), unreachable.Error(), "wrapped transport error")

	_, err = s.HashVersion(context.Background())
	assert.Equal(t, fault.ErrInvalidHashVersion, err, "unknown hash version")

	_, err = s.HashVersion(context.Background())
	assert.Error(t, err, "malformed reply")
}

func TestConfiguredHashVersion(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	ctl := gomock.NewController(t)
	defer ctl.Finish()

	// no calls are expected
	transport := mocks.NewMockTransport(ctl)

	s := newTestSession(t, merkle.HashVersion1, transport, nil)

	value := gtv.Array{gtv.Integer(1), gtv.Integer(2), gtv.Integer(3)}
	actual, err := s.Hash(context.Background(), value)
	require.NoError(t, err, "hash")

	expected, err := merkle.Hash(value, merkle.HashVersion1)
	require.NoError(t, err, "reference hash")
	assert.Equal(t, expected, actual, "session hash")
}

func TestSubmit(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	ctl := gomock.NewController(t)
	defer ctl.Finish()

	journal, err := storage.OpenMemory()
	require.NoError(t, err, "journal")
	defer journal.Close()

	transport := mocks.NewMockTransport(ctl)
	s := newTestSession(t, merkle.HashVersion2, transport, journal)

	signed := signedTransfer(t, s)
	encoded, err := signed.Encode()
	require.NoError(t, err, "encode")

	request, err := json.Marshal(map[string]string{"tx": hex.EncodeToString(encoded)})
	require.NoError(t, err, "request")

	transport.EXPECT().Delay(gomock.Any(), time.Duration(0)).Return(nil).Times(1)
	transport.EXPECT().Post(gomock.Any(), submitURI, request).Return([]byte(`{}`), nil).Times(1)

	require.NoError(t, s.Submit(context.Background(), signed), "submit")

	recorded, err := journal.Get(signed.RID())
	require.NoError(t, err, "journal entry")
	assert.Equal(t, encoded, recorded, "journal holds wire bytes")

	err = s.Submit(context.Background(), signed)
	assert.Equal(t, fault.ErrDuplicateTransaction, err, "second submit")
	assert.True(t, fault.IsErrExists(err), "duplicate is an exists error")
}

func TestSubmitIncomplete(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	ctl := gomock.NewController(t)
	defer ctl.Finish()

	transport := mocks.NewMockTransport(ctl)
	s := newTestSession(t, merkle.HashVersion2, transport, nil)

	tx, err := s.NewTransaction()
	require.NoError(t, err, "new transaction")
	require.NoError(t, tx.AddNop(), "nop")
	require.NoError(t, tx.AddSignatureProvider(gtx.NewKeyPairProvider(fixtures.KeyPair1)), "provider")
	require.NoError(t, tx.AddSigner(fixtures.KeyPair2.PublicKey), "second signer")

	signed, err := s.Sign(context.Background(), tx)
	require.NoError(t, err, "sign")

	err = s.Submit(context.Background(), signed)
	assert.Equal(t, fault.ErrIncompleteSignatures, err, "one of two signatures")
	assert.True(t, fault.IsErrArgument(err), "argument error")
}

func TestSubmitTransportFailure(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	ctl := gomock.NewController(t)
	defer ctl.Finish()

	journal, err := storage.OpenMemory()
	require.NoError(t, err, "journal")
	defer journal.Close()

	transport := mocks.NewMockTransport(ctl)
	s := newTestSession(t, merkle.HashVersion1, transport, journal)

	signed := signedTransfer(t, s)

	rejected := errors.New("503 service unavailable")
	transport.EXPECT().Delay(gomock.Any(), gomock.Any()).Return(nil).Times(1)
	transport.EXPECT().Post(gomock.Any(), submitURI, gomock.Any()).Return(nil, rejected).Times(1)

	err = s.Submit(context.Background(), signed)
	require.Error(t, err, "submit")
	assert.Contains(t, err.Error(), rejected.Error(), "wrapped transport error")

	has, err := journal.Has(signed.RID())
	require.NoError(t, err, "journal")
	assert.False(t, has, "failed submit is not journalled")
}

func TestSubmitConcurrentDuplicate(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	ctl := gomock.NewController(t)
	defer ctl.Finish()

	journal, err := storage.OpenMemory()
	require.NoError(t, err, "journal")
	defer journal.Close()

	transport := mocks.NewMockTransport(ctl)
	s := newTestSession(t, merkle.HashVersion2, transport, journal)

	signed := signedTransfer(t, s)

	posting := make(chan struct{})
	proceed := make(chan struct{})
	transport.EXPECT().Delay(gomock.Any(), gomock.Any()).Return(nil).Times(1)
	transport.EXPECT().Post(gomock.Any(), submitURI, gomock.Any()).DoAndReturn(
		func(ctx context.Context, uri string, body []byte) ([]byte, error) {
			close(posting)
			<-proceed
			return []byte(`{}`), nil
		},
	).Times(1)

	first := make(chan error, 1)
	go func() {
		first <- s.Submit(context.Background(), signed)
	}()

	<-posting
	err = s.Submit(context.Background(), signed)
	assert.Equal(t, fault.ErrDuplicateTransaction, err, "submit while the first is in flight")

	close(proceed)
	require.NoError(t, <-first, "first submit")

	err = s.Submit(context.Background(), signed)
	assert.Equal(t, fault.ErrDuplicateTransaction, err, "submit after the first is journalled")
}

type unwritableJournal struct{}

func (unwritableJournal) Has(merkle.Digest) (bool, error) { return false, nil }
func (unwritableJournal) Put(merkle.Digest, []byte) error { return errors.New("disk full") }

func TestSubmitJournalWriteFailure(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	ctl := gomock.NewController(t)
	defer ctl.Finish()

	transport := mocks.NewMockTransport(ctl)
	s := newTestSession(t, merkle.HashVersion2, transport, unwritableJournal{})

	signed := signedTransfer(t, s)

	transport.EXPECT().Delay(gomock.Any(), gomock.Any()).Return(nil).Times(1)
	transport.EXPECT().Post(gomock.Any(), submitURI, gomock.Any()).Return([]byte(`{}`), nil).Times(1)

	assert.NoError(t, s.Submit(context.Background(), signed), "sent transaction is reported as sent")
}

func TestSubmitCancelled(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	ctl := gomock.NewController(t)
	defer ctl.Finish()

	transport := mocks.NewMockTransport(ctl)
	s := newTestSession(t, merkle.HashVersion2, transport, nil)

	signed := signedTransfer(t, s)

	transport.EXPECT().Delay(gomock.Any(), gomock.Any()).Return(context.Canceled).Times(1)

	err := s.Submit(context.Background(), signed)
	require.Error(t, err, "cancelled")
	assert.Contains(t, err.Error(), context.Canceled.Error(), "cancel reason")
}

func TestStatus(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	ctl := gomock.NewController(t)
	defer ctl.Finish()

	rid := merkle.NewDigest([]byte("some transaction"))
	uri := "/tx/" + fixtures.BlockchainRIDHex + "/" + rid.String() + "/status"

	transport := mocks.NewMockTransport(ctl)
	gomock.InOrder(
		transport.EXPECT().Get(gomock.Any(), uri).Return([]byte(`{"status":"confirmed"}`), nil),
		transport.EXPECT().Get(gomock.Any(), uri).Return([]byte(`{"status":"rejected","rejectReason":"no funds"}`), nil),
		transport.EXPECT().Get(gomock.Any(), uri).Return([]byte(`{"status":"exploded"}`), nil),
	)

	s := newTestSession(t, merkle.HashVersion2, transport, nil)

	status, err := s.Status(context.Background(), rid)
	require.NoError(t, err, "confirmed")
	assert.Equal(t, session.StatusConfirmed, status.Status, "confirmed")
	assert.Equal(t, "", status.RejectReason, "no reason")

	status, err = s.Status(context.Background(), rid)
	require.NoError(t, err, "rejected")
	assert.Equal(t, session.StatusRejected, status.Status, "rejected")
	assert.Equal(t, "no funds", status.RejectReason, "reason")

	_, err = s.Status(context.Background(), rid)
	assert.Equal(t, fault.ErrUnexpectedStatus, err, "unknown status text")
}

func TestQuery(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	ctl := gomock.NewController(t)
	defer ctl.Finish()

	arguments := map[string]interface{}{
		"account": "alice",
		"limit":   10,
	}
	args, err := gtv.FromNative(arguments)
	require.NoError(t, err, "arguments")
	request, err := gtv.Encode(gtv.Array{gtv.String("get_balance"), args})
	require.NoError(t, err, "request")

	answer := gtv.Array{gtv.String("alice"), gtv.Integer(1234)}
	reply, err := gtv.Encode(answer)
	require.NoError(t, err, "reply")

	empty, err := gtv.Encode(gtv.Array{gtv.String("get_height"), gtv.Dict{}})
	require.NoError(t, err, "empty request")

	transport := mocks.NewMockTransport(ctl)
	transport.EXPECT().Post(gomock.Any(), queryURI, request).Return(reply, nil).Times(1)
	transport.EXPECT().Post(gomock.Any(), queryURI, empty).Return([]byte{0xa3, 0x03, 0x02, 0x01, 0x07}, nil).Times(1)

	s := newTestSession(t, merkle.HashVersion2, transport, nil)

	result, err := s.Query(context.Background(), "get_balance", arguments)
	require.NoError(t, err, "query")
	assert.True(t, gtv.Equal(answer, result), "decoded reply: %v", result)

	result, err = s.Query(context.Background(), "get_height", nil)
	require.NoError(t, err, "query without arguments")
	assert.Equal(t, gtv.Integer(7), result, "height")
}

func TestQueryArguments(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	ctl := gomock.NewController(t)
	defer ctl.Finish()

	transport := mocks.NewMockTransport(ctl)
	s := newTestSession(t, merkle.HashVersion2, transport, nil)

	_, err := s.Query(context.Background(), "", nil)
	assert.Equal(t, fault.ErrMissingOperationName, err, "missing name")

	_, err = s.Query(context.Background(), "get_balance", []string{"alice"})
	assert.Equal(t, fault.ErrQueryArgumentsNotDict, err, "array arguments")

	_, err = s.Query(context.Background(), "get_balance", struct{}{})
	assert.True(t, fault.IsErrUnsupportedType(err), "unsupported arguments: %v", err)
}
