// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package session

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"sync"

	"github.com/bitmark-inc/logger"
	"github.com/pkg/errors"
	"golang.org/x/time/rate"

	"github.com/bitmark-inc/gtxclient/fault"
	"github.com/bitmark-inc/gtxclient/gtv"
	"github.com/bitmark-inc/gtxclient/gtx"
	"github.com/bitmark-inc/gtxclient/merkle"
)

// default submit limits
const (
	DefaultSubmitRate  = 10
	DefaultSubmitBurst = 5
)

// Journal - record of submitted transactions
type Journal interface {
	Has(rid merkle.Digest) (bool, error)
	Put(rid merkle.Digest, transaction []byte) error
}

// Options - session parameters
type Options struct {
	BlockchainRID []byte
	HashVersion   merkle.HashVersion // zero to ask the node
	SubmitRate    float64
	SubmitBurst   int
}

// Session - one blockchain reached through one transport
type Session struct {
	sync.Mutex
	log           *logger.L
	blockchainRID []byte
	version       merkle.HashVersion
	transport     Transport
	limiter       *rate.Limiter
	journal       Journal

	// RIDs between the duplicate check and the journal write
	submitting sync.Mutex
	inFlight   map[merkle.Digest]struct{}
}

type featuresReply struct {
	MerkleHashVersion int64 `json:"merkle_hash_version"`
}

type submitRequest struct {
	Tx string `json:"tx"`
}

// transaction states reported by the node
const (
	StatusUnknown   = "unknown"
	StatusWaiting   = "waiting"
	StatusConfirmed = "confirmed"
	StatusRejected  = "rejected"
)

// TransactionStatus - the node's view of a submitted transaction
type TransactionStatus struct {
	Status       string `json:"status"`
	RejectReason string `json:"rejectReason,omitempty"`
}

// New - create a session
func New(log *logger.L, options Options, transport Transport, journal Journal) (*Session, error) {
	if 0 == len(options.BlockchainRID) {
		return nil, fault.ErrRequiredBlockchainRID
	}
	if gtx.BlockchainRIDLength != len(options.BlockchainRID) {
		return nil, fault.ErrInvalidBlockchainRID
	}
	if 0 != options.HashVersion && !options.HashVersion.Valid() {
		return nil, fault.ErrInvalidHashVersion
	}

	submitRate := rate.Limit(options.SubmitRate)
	if options.SubmitRate <= 0 {
		submitRate = DefaultSubmitRate
	}
	submitBurst := options.SubmitBurst
	if submitBurst <= 0 {
		submitBurst = DefaultSubmitBurst
	}

	blockchainRID := make([]byte, gtx.BlockchainRIDLength)
	copy(blockchainRID, options.BlockchainRID)

	return &Session{
		log:           log,
		blockchainRID: blockchainRID,
		version:       options.HashVersion,
		transport:     transport,
		limiter:       rate.NewLimiter(submitRate, submitBurst),
		journal:       journal,
		inFlight:      make(map[merkle.Digest]struct{}),
	}, nil
}

// BlockchainRID - the chain this session talks to
func (s *Session) BlockchainRID() []byte {
	return s.blockchainRID
}

// HashVersion - the chain's hash version, asked of the node once and
// then remembered
func (s *Session) HashVersion(ctx context.Context) (merkle.HashVersion, error) {
	s.Lock()
	defer s.Unlock()

	if 0 != s.version {
		return s.version, nil
	}

	buffer, err := s.transport.Get(ctx, featuresURI(s.blockchainRID))
	if nil != err {
		return 0, errors.Wrap(err, "features")
	}

	var reply featuresReply
	if err := json.Unmarshal(buffer, &reply); nil != err {
		return 0, errors.Wrap(err, "features")
	}

	version, err := merkle.HashVersionFromCapability(reply.MerkleHashVersion)
	if nil != err {
		s.log.Errorf("node announced %s: %d", merkle.CapabilityName, reply.MerkleHashVersion)
		return 0, err
	}

	s.log.Infof("hash version: %s", version)
	s.version = version
	return version, nil
}

// NewTransaction - a builder for this chain
func (s *Session) NewTransaction() (*gtx.Transaction, error) {
	return gtx.NewTransaction(s.blockchainRID)
}

// Hash - the tree hash of a value under the chain's hash version
func (s *Session) Hash(ctx context.Context, value gtv.Value) (merkle.Digest, error) {
	version, err := s.HashVersion(ctx)
	if nil != err {
		return merkle.Digest{}, err
	}
	return merkle.Hash(value, version)
}

// Sign - sign a transaction under the chain's hash version
func (s *Session) Sign(ctx context.Context, transaction *gtx.Transaction) (*gtx.SignedTransaction, error) {
	version, err := s.HashVersion(ctx)
	if nil != err {
		return nil, err
	}
	signed, err := transaction.Sign(version)
	if nil != err {
		return nil, err
	}
	s.log.Debugf("signed: %s  signatures: %d of %d", signed.RID(), len(signed.Signatures()), len(signed.Signers()))
	return signed, nil
}

// Submit - send a fully signed transaction to the node
//
// a transaction already in the journal or currently being submitted
// is refused, nothing is retried
func (s *Session) Submit(ctx context.Context, signed *gtx.SignedTransaction) error {
	if len(signed.Signers()) != len(signed.Signatures()) {
		return fault.ErrIncompleteSignatures
	}
	if err := signed.Verify(); nil != err {
		return err
	}

	rid := signed.RID()
	if err := s.claim(rid); nil != err {
		return err
	}
	defer s.release(rid)

	if err := s.rateLimit(ctx); nil != err {
		return err
	}

	encoded, err := signed.Encode()
	if nil != err {
		return err
	}

	request, err := json.Marshal(submitRequest{Tx: hex.EncodeToString(encoded)})
	if nil != err {
		return err
	}

	if _, err := s.transport.Post(ctx, submitURI(s.blockchainRID), request); nil != err {
		s.log.Warnf("submit: %s  error: %s", rid, err)
		return errors.Wrapf(err, "submit: %s", rid)
	}

	s.log.Infof("submitted: %s", rid)

	// the node has the transaction, so a journal failure only loses
	// the local duplicate check
	if nil != s.journal {
		if err := s.journal.Put(rid, encoded); nil != err {
			s.log.Warnf("submitted: %s  not journalled: %s", rid, err)
		}
	}
	return nil
}

// reserve a RID for submission, refusing one that is already in
// flight or already journalled
func (s *Session) claim(rid merkle.Digest) error {
	s.submitting.Lock()
	defer s.submitting.Unlock()

	if _, ok := s.inFlight[rid]; ok {
		return fault.ErrDuplicateTransaction
	}
	if nil != s.journal {
		submitted, err := s.journal.Has(rid)
		if nil != err {
			return errors.Wrap(err, "journal")
		}
		if submitted {
			return fault.ErrDuplicateTransaction
		}
	}
	s.inFlight[rid] = struct{}{}
	return nil
}

func (s *Session) release(rid merkle.Digest) {
	s.submitting.Lock()
	delete(s.inFlight, rid)
	s.submitting.Unlock()
}

// Status - ask the node what became of a transaction
func (s *Session) Status(ctx context.Context, rid merkle.Digest) (*TransactionStatus, error) {
	buffer, err := s.transport.Get(ctx, statusURI(s.blockchainRID, rid))
	if nil != err {
		return nil, errors.Wrapf(err, "status: %s", rid)
	}

	var status TransactionStatus
	if err := json.Unmarshal(buffer, &status); nil != err {
		return nil, errors.Wrapf(err, "status: %s", rid)
	}

	switch status.Status {
	case StatusUnknown, StatusWaiting, StatusConfirmed:
	case StatusRejected:
		s.log.Warnf("rejected: %s  reason: %q", rid, status.RejectReason)
	default:
		s.log.Errorf("status: %s  unexpected: %q", rid, status.Status)
		return nil, fault.ErrUnexpectedStatus
	}
	return &status, nil
}

// limiting for a single submission, the wait goes through the transport
func (s *Session) rateLimit(ctx context.Context) error {
	r := s.limiter.Reserve()
	if !r.OK() {
		return fault.ErrRateLimiting
	}
	if err := s.transport.Delay(ctx, r.Delay()); nil != err {
		r.Cancel()
		return errors.Wrap(err, "delay")
	}
	return nil
}

// Query - call a read only query on the node
//
// the arguments must convert to a dictionary, nil means no arguments
func (s *Session) Query(ctx context.Context, name string, arguments interface{}) (gtv.Value, error) {
	if "" == name {
		return nil, fault.ErrMissingOperationName
	}

	var args gtv.Value = gtv.Dict{}
	if nil != arguments {
		v, err := gtv.FromNative(arguments)
		if nil != err {
			return nil, err
		}
		args = v
	}
	if _, ok := args.(gtv.Dict); !ok {
		return nil, fault.ErrQueryArgumentsNotDict
	}

	request, err := gtv.Encode(gtv.Array{gtv.String(name), args})
	if nil != err {
		return nil, err
	}

	reply, err := s.transport.Post(ctx, queryURI(s.blockchainRID), request)
	if nil != err {
		return nil, errors.Wrapf(err, "query: %s", name)
	}

	s.log.Debugf("query: %s  reply: %d bytes", name, len(reply))
	return gtv.Decode(reply)
}
