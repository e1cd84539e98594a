// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package merkle

import (
	"github.com/bitmark-inc/gtxclient/fault"
	"github.com/bitmark-inc/gtxclient/gtv"
)

// proof element codes used when a proof is carried as a value
const (
	hashedLeafCode = gtv.Integer(100)
	valueLeafCode  = gtv.Integer(101)
	nodeCode       = gtv.Integer(102)
	arrayHeadCode  = gtv.Integer(103)
	dictHeadCode   = gtv.Integer(104)
)

// ToGtv - represent the proof as nested arrays
//
//	[100, hash]  [101, value]  [102, left, right]
//	[103, size, left, right]  [104, size, left, right]
func (p *ProofTree) ToGtv() gtv.Value {
	return proofToGtv(p.Root)
}

func proofToGtv(element ProofElement) gtv.Value {
	switch e := element.(type) {
	case ProofHashedLeaf:
		return gtv.Array{hashedLeafCode, gtv.ByteArray(e.Hash[:])}
	case ProofValueLeaf:
		return gtv.Array{valueLeafCode, e.Value}
	case ProofNode:
		l := proofToGtv(e.Left)
		r := proofToGtv(e.Right)
		switch e.Prefix {
		case ArrayHeadPrefix:
			return gtv.Array{arrayHeadCode, gtv.Integer(e.Size), l, r}
		case DictHeadPrefix:
			return gtv.Array{dictHeadCode, gtv.Integer(e.Size), l, r}
		default:
			return gtv.Array{nodeCode, l, r}
		}
	}
	return gtv.NullValue
}

// ProofFromGtv - rebuild a proof from its value form
func ProofFromGtv(value gtv.Value) (*ProofTree, error) {
	root, err := proofFromGtv(value, 0)
	if nil != err {
		return nil, err
	}
	return &ProofTree{Root: root}, nil
}

func proofFromGtv(value gtv.Value, depth int) (ProofElement, error) {
	if depth > gtv.MaximumDepth {
		return nil, fault.ErrDepthExceeded
	}

	a, ok := value.(gtv.Array)
	if !ok || 0 == len(a) {
		return nil, fault.ErrNotAProof
	}
	code, ok := a[0].(gtv.Integer)
	if !ok {
		return nil, fault.ErrNotAProof
	}

	switch {
	case hashedLeafCode == code && 2 == len(a):
		b, ok := a[1].(gtv.ByteArray)
		if !ok {
			return nil, fault.ErrNotAProof
		}
		var h Digest
		if err := DigestFromBytes(&h, b); nil != err {
			return nil, fault.ErrNotAProof
		}
		return ProofHashedLeaf{Hash: h}, nil

	case valueLeafCode == code && 2 == len(a):
		return ProofValueLeaf{Value: a[1]}, nil

	case nodeCode == code && 3 == len(a):
		return proofNodeFromGtv(NodePrefix, 0, a[1], a[2], depth)

	case (arrayHeadCode == code || dictHeadCode == code) && 4 == len(a):
		size, ok := a[1].(gtv.Integer)
		if !ok || size < 0 {
			return nil, fault.ErrNotAProof
		}
		prefix := ArrayHeadPrefix
		if dictHeadCode == code {
			prefix = DictHeadPrefix
		}
		return proofNodeFromGtv(prefix, int(size), a[2], a[3], depth)
	}
	return nil, fault.ErrNotAProof
}

func proofNodeFromGtv(prefix byte, size int, left gtv.Value, right gtv.Value, depth int) (ProofElement, error) {
	l, err := proofFromGtv(left, depth+1)
	if nil != err {
		return nil, err
	}
	r, err := proofFromGtv(right, depth+1)
	if nil != err {
		return nil, err
	}
	return ProofNode{Prefix: prefix, Size: size, Left: l, Right: r}, nil
}
