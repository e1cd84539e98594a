// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package merkle

import (
	"github.com/bitmark-inc/gtxclient/fault"
	"github.com/bitmark-inc/gtxclient/gtv"
)

// ProofElement - a vertex of a proof tree
type ProofElement interface {
	proofElement()
}

// ProofHashedLeaf - an undisclosed subtree, reduced to its hash
type ProofHashedLeaf struct {
	Hash Digest
}

// ProofValueLeaf - a disclosed value, hashed as a full tree when
// the root is computed
type ProofValueLeaf struct {
	Value gtv.Value
}

// ProofNode - a vertex with at least one disclosed descendant
type ProofNode struct {
	Prefix byte
	Size   int
	Left   ProofElement
	Right  ProofElement
}

func (ProofHashedLeaf) proofElement() {}
func (ProofValueLeaf) proofElement()  {}
func (ProofNode) proofElement()       {}

// ProofTree - a partially disclosed value whose root hash equals the
// tree hash of the full value
type ProofTree struct {
	Root ProofElement
}

// GenerateProof - build a proof disclosing the elements reached by the
// path set, an empty set gives a single hashed leaf
func GenerateProof(value gtv.Value, paths PathSet, calculator *Calculator) (*ProofTree, error) {
	if 0 == len(paths) {
		h, err := calculator.Hash(value)
		if nil != err {
			return nil, err
		}
		return &ProofTree{Root: ProofHashedLeaf{Hash: h}}, nil
	}

	root, err := calculator.factory.Build(value, paths)
	if nil != err {
		return nil, err
	}
	p, err := calculator.proof(root)
	if nil != err {
		return nil, err
	}
	return &ProofTree{Root: p}, nil
}

func (c *Calculator) proof(element Element) (ProofElement, error) {
	switch e := element.(type) {
	case EmptyLeaf:
		return ProofHashedLeaf{}, nil

	case Leaf:
		if e.Disclosed() {
			return ProofValueLeaf{Value: e.Value}, nil
		}
		h, err := c.hashLeaf(e.Value)
		if nil != err {
			return nil, err
		}
		return ProofHashedLeaf{Hash: h}, nil

	case ArrayHeadNode:
		if e.Disclosed() {
			return ProofValueLeaf{Value: e.Value}, nil
		}
	case DictHeadNode:
		if e.Disclosed() {
			return ProofValueLeaf{Value: e.Value}, nil
		}
	}

	b, ok := element.(branch)
	if !ok {
		return nil, fault.Unsupported(element)
	}

	left, right := b.Children()
	l, err := c.proof(left)
	if nil != err {
		return nil, err
	}
	r, err := c.proof(right)
	if nil != err {
		return nil, err
	}

	lh, lHashed := l.(ProofHashedLeaf)
	rh, rHashed := r.(ProofHashedLeaf)
	if lHashed && rHashed {
		return ProofHashedLeaf{Hash: c.hashNode(b.Prefix(), lh.Hash, rh.Hash)}, nil
	}
	return ProofNode{
		Prefix: b.Prefix(),
		Size:   b.Size(),
		Left:   l,
		Right:  r,
	}, nil
}

// RootHash - compute the root hash of the proof
func (p *ProofTree) RootHash(calculator *Calculator) (Digest, error) {
	return calculator.proofHash(p.Root)
}

func (c *Calculator) proofHash(element ProofElement) (Digest, error) {
	switch e := element.(type) {
	case ProofHashedLeaf:
		return e.Hash, nil

	case ProofValueLeaf:
		return c.Hash(e.Value)

	case ProofNode:
		l, err := c.proofHash(e.Left)
		if nil != err {
			return Digest{}, err
		}
		r, err := c.proofHash(e.Right)
		if nil != err {
			return Digest{}, err
		}
		return c.hashNode(e.Prefix, l, r), nil

	default:
		return Digest{}, fault.ErrNotAProof
	}
}

// ValidateProof - check that the proof's root hash is the expected hash
func ValidateProof(proof *ProofTree, expected Digest, calculator *Calculator) error {
	if nil == proof {
		return fault.ErrNotAProof
	}
	actual, err := proof.RootHash(calculator)
	if nil != err {
		return err
	}
	if actual != expected {
		return fault.ErrProofRootMismatch
	}
	return nil
}
