// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package merkle

import (
	"strconv"
	"strings"

	"github.com/bitmark-inc/gtxclient/fault"
	"github.com/bitmark-inc/gtxclient/gtv"
)

// PathElement - one step of a disclosure path: an array index or a
// dictionary key
type PathElement struct {
	index int
	key   string
	isKey bool
}

// Path - steps from the root to a disclosed element; a zero length
// path discloses the element it is applied to
type Path []PathElement

// PathSet - every path that should be disclosed
type PathSet []Path

// Index - path step into an array
func Index(i int) PathElement {
	return PathElement{index: i}
}

// Key - path step into a dictionary
func Key(k string) PathElement {
	return PathElement{key: k, isKey: true}
}

// NewPath - build a path from steps
func NewPath(elements ...PathElement) Path {
	return Path(elements)
}

// String - printable step
func (e PathElement) String() string {
	if e.isKey {
		return strconv.Quote(e.key)
	}
	return strconv.Itoa(e.index)
}

// String - printable path
func (p Path) String() string {
	s := make([]string, len(p))
	for i, e := range p {
		s[i] = e.String()
	}
	return "[" + strings.Join(s, ",") + "]"
}

// true if any path ends at this element
func (s PathSet) discloses() bool {
	for _, p := range s {
		if 0 == len(p) {
			return true
		}
	}
	return false
}

// tails of the paths whose first step is the given array index
func (s PathSet) forIndex(i int) PathSet {
	var result PathSet
	for _, p := range s {
		if len(p) > 0 && !p[0].isKey && p[0].index == i {
			result = append(result, p[1:])
		}
	}
	return result
}

// tails of the paths whose first step is the given dictionary key
func (s PathSet) forKey(k string) PathSet {
	var result PathSet
	for _, p := range s {
		if len(p) > 0 && p[0].isKey && p[0].key == k {
			result = append(result, p[1:])
		}
	}
	return result
}

// every remaining step must be an index inside the array
func (s PathSet) checkArray(length int) error {
	for _, p := range s {
		if 0 == len(p) {
			continue
		}
		if p[0].isKey {
			return fault.PathMismatch("key: %s applied to an array", p[0])
		}
		if p[0].index < 0 || p[0].index >= length {
			return fault.PathMismatch("index: %d outside array of length: %d", p[0].index, length)
		}
	}
	return nil
}

// every remaining step must be a key present in the dictionary
func (s PathSet) checkDict(d gtv.Dict) error {
	for _, p := range s {
		if 0 == len(p) {
			continue
		}
		if !p[0].isKey {
			return fault.PathMismatch("index: %d applied to a dictionary", p[0].index)
		}
		if _, ok := d.Get(p[0].key); !ok {
			return fault.PathMismatch("key: %s not in dictionary", p[0])
		}
	}
	return nil
}

// no step may continue below a scalar
func (s PathSet) checkScalar() error {
	for _, p := range s {
		if 0 != len(p) {
			return fault.PathMismatch("path: %s continues below a scalar", p)
		}
	}
	return nil
}
