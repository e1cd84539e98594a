// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package merkle

import (
	"github.com/bitmark-inc/gtxclient/fault"
	"github.com/bitmark-inc/gtxclient/gtv"
)

// node prefixes, hashed in front of the child digests
const (
	NodePrefix      = byte(0)
	LeafPrefix      = byte(1)
	ArrayHeadPrefix = byte(7)
	DictHeadPrefix  = byte(8)
)

// Element - a vertex of the binary tree built over a value
type Element interface {
	// Disclosed - true if a proof should reveal this element's value
	Disclosed() bool
}

// branch - an element with two children
type branch interface {
	Element
	Children() (Element, Element)
	Prefix() byte
	Size() int
}

// EmptyLeaf - padding for an empty container or an unpaired child,
// hashes to all zeros
type EmptyLeaf struct{}

// Leaf - a scalar value, or a dictionary key
type Leaf struct {
	Value  gtv.Value
	reveal bool
}

// Node - an inner vertex pairing two subtrees of the same container
type Node struct {
	Left  Element
	Right Element
}

// ArrayHeadNode - the root of an array's subtree
type ArrayHeadNode struct {
	Left   Element
	Right  Element
	Value  gtv.Array
	reveal bool
}

// DictHeadNode - the root of a dictionary's subtree
type DictHeadNode struct {
	Left   Element
	Right  Element
	Value  gtv.Dict
	reveal bool
}

// Disclosed - never
func (EmptyLeaf) Disclosed() bool { return false }

// Disclosed - true if a path ends here
func (l Leaf) Disclosed() bool { return l.reveal }

// Disclosed - never, inner nodes carry no value
func (n Node) Disclosed() bool { return false }

// Disclosed - true if a path ends here
func (n ArrayHeadNode) Disclosed() bool { return n.reveal }

// Disclosed - true if a path ends here
func (n DictHeadNode) Disclosed() bool { return n.reveal }

// Children - the two subtrees
func (n Node) Children() (Element, Element)          { return n.Left, n.Right }
func (n ArrayHeadNode) Children() (Element, Element) { return n.Left, n.Right }
func (n DictHeadNode) Children() (Element, Element)  { return n.Left, n.Right }

// Prefix - hash prefix byte
func (Node) Prefix() byte          { return NodePrefix }
func (ArrayHeadNode) Prefix() byte { return ArrayHeadPrefix }
func (DictHeadNode) Prefix() byte  { return DictHeadPrefix }

// Size - number of elements in the container, zero for inner nodes
func (Node) Size() int            { return 0 }
func (n ArrayHeadNode) Size() int { return len(n.Value) }
func (n DictHeadNode) Size() int  { return n.Value.Len() }

// TreeFactory - builds the binary tree for one hash version
type TreeFactory struct {
	version HashVersion
}

// NewTreeFactory - create a factory for a known version
func NewTreeFactory(version HashVersion) (*TreeFactory, error) {
	if !version.Valid() {
		return nil, fault.ErrInvalidHashVersion
	}
	return &TreeFactory{version: version}, nil
}

// Version - the factory's hash version
func (f *TreeFactory) Version() HashVersion {
	return f.version
}

// Build - construct the tree for a value, marking the elements reached
// by the path set as disclosed
//
// a step that does not match the value's shape is a structural error
func (f *TreeFactory) Build(value gtv.Value, paths PathSet) (Element, error) {
	return f.build(value, paths, 0)
}

func (f *TreeFactory) build(value gtv.Value, paths PathSet, depth int) (Element, error) {
	if depth > gtv.MaximumDepth {
		return nil, fault.ErrDepthExceeded
	}

	switch v := value.(type) {
	case gtv.Array:
		return f.buildArray(v, paths, depth)
	case gtv.Dict:
		return f.buildDict(v, paths, depth)
	default:
		if err := paths.checkScalar(); nil != err {
			return nil, err
		}
		if nil == value {
			value = gtv.NullValue
		}
		return Leaf{Value: value, reveal: paths.discloses()}, nil
	}
}

func (f *TreeFactory) buildArray(array gtv.Array, paths PathSet, depth int) (Element, error) {
	reveal := paths.discloses()
	if reveal {
		paths = nil
	} else if err := paths.checkArray(len(array)); nil != err {
		return nil, err
	}

	if 0 == len(array) {
		return ArrayHeadNode{Left: EmptyLeaf{}, Right: EmptyLeaf{}, Value: array, reveal: reveal}, nil
	}

	children := make([]Element, len(array))
	for i, item := range array {
		e, err := f.build(item, paths.forIndex(i), depth+1)
		if nil != err {
			return nil, err
		}
		children[i] = e
	}

	top := pairUp(children)
	head := ArrayHeadNode{Value: array, reveal: reveal}

	b, isBranch := top.(branch)
	switch {
	case !isBranch:
		head.Left, head.Right = top, EmptyLeaf{}
	case 1 == len(children) && HashVersion1 == f.version:
		head.Left, head.Right = b.Children()
		head.reveal = reveal || top.Disclosed()
	case 1 == len(children):
		head.Left, head.Right = top, EmptyLeaf{}
	default:
		head.Left, head.Right = b.Children()
	}
	return head, nil
}

func (f *TreeFactory) buildDict(dict gtv.Dict, paths PathSet, depth int) (Element, error) {
	reveal := paths.discloses()
	if reveal {
		paths = nil
	} else if err := paths.checkDict(dict); nil != err {
		return nil, err
	}

	if 0 == dict.Len() {
		return DictHeadNode{Left: EmptyLeaf{}, Right: EmptyLeaf{}, Value: dict, reveal: reveal}, nil
	}

	entries := dict.SortedEntries()
	children := make([]Element, 0, 2*len(entries))
	for _, entry := range entries {
		e, err := f.build(entry.Value, paths.forKey(entry.Key), depth+1)
		if nil != err {
			return nil, err
		}
		children = append(children, Leaf{Value: gtv.String(entry.Key)}, e)
	}

	left, right := pairUp(children).(branch).Children()
	return DictHeadNode{Left: left, Right: right, Value: dict, reveal: reveal}, nil
}

// combine adjacent pairs, one layer at a time, carrying an odd
// trailing element up unchanged until a single root remains
func pairUp(layer []Element) Element {
	for workLength := len(layer); workLength > 1; workLength = len(layer) {
		next := make([]Element, 0, (workLength+1)/2)
		for i := 0; i < workLength; i += 2 {
			if i+1 == workLength {
				next = append(next, layer[i])
				break
			}
			next = append(next, Node{Left: layer[i], Right: layer[i+1]})
		}
		layer = next
	}
	return layer[0]
}
