// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package merkle

import (
	"github.com/bitmark-inc/gtxclient/fault"
	"github.com/bitmark-inc/gtxclient/gtv"
)

// Calculator - computes tree hashes for one hash version
type Calculator struct {
	hash    HashFunc
	factory *TreeFactory
}

// NewCalculator - create a calculator, a nil hash function selects SHA-256
func NewCalculator(version HashVersion, hash HashFunc) (*Calculator, error) {
	factory, err := NewTreeFactory(version)
	if nil != err {
		return nil, err
	}
	if nil == hash {
		hash = NewDigest
	}
	return &Calculator{
		hash:    hash,
		factory: factory,
	}, nil
}

// Hash - the tree hash of a value using the default hash function
func Hash(value gtv.Value, version HashVersion) (Digest, error) {
	c, err := NewCalculator(version, nil)
	if nil != err {
		return Digest{}, err
	}
	return c.Hash(value)
}

// Version - the calculator's hash version
func (c *Calculator) Version() HashVersion {
	return c.factory.Version()
}

// Hash - the tree hash of a value
func (c *Calculator) Hash(value gtv.Value) (Digest, error) {
	root, err := c.factory.Build(value, nil)
	if nil != err {
		return Digest{}, err
	}
	return c.HashElement(root)
}

// HashElement - the hash of a built tree element
func (c *Calculator) HashElement(element Element) (Digest, error) {
	switch e := element.(type) {
	case EmptyLeaf:
		return Digest{}, nil

	case Leaf:
		return c.hashLeaf(e.Value)

	case branch:
		left, right := e.Children()
		l, err := c.HashElement(left)
		if nil != err {
			return Digest{}, err
		}
		r, err := c.HashElement(right)
		if nil != err {
			return Digest{}, err
		}
		return c.hashNode(e.Prefix(), l, r), nil

	default:
		return Digest{}, fault.Unsupported(element)
	}
}

func (c *Calculator) hashLeaf(value gtv.Value) (Digest, error) {
	encoded, err := gtv.Encode(value)
	if nil != err {
		return Digest{}, err
	}
	buffer := make([]byte, 0, 1+len(encoded))
	buffer = append(buffer, LeafPrefix)
	buffer = append(buffer, encoded...)
	return c.hash(buffer), nil
}

func (c *Calculator) hashNode(prefix byte, left Digest, right Digest) Digest {
	buffer := make([]byte, 0, 1+2*DigestLength)
	buffer = append(buffer, prefix)
	buffer = append(buffer, left[:]...)
	buffer = append(buffer, right[:]...)
	return c.hash(buffer)
}
