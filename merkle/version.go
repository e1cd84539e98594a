// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package merkle

import (
	"strconv"

	"github.com/bitmark-inc/gtxclient/fault"
)

// HashVersion - numbered variant of the tree building algorithm
//
// a blockchain uses exactly one version and every client must match it
type HashVersion int

// the known versions
const (
	// HashVersion1 - legacy: a single element array adopts the children
	// of a nested array or dictionary
	HashVersion1 = HashVersion(1)

	// HashVersion2 - current: a single element array always pairs its
	// element with an empty leaf
	HashVersion2 = HashVersion(2)

	// CapabilityName - node capability announcing the version
	CapabilityName = "merkle_hash_version"
)

// HashVersionFromCapability - map a node's capability value to a version
//
// an absent (zero) value means the legacy version
func HashVersionFromCapability(value int64) (HashVersion, error) {
	if 0 == value {
		return HashVersion1, nil
	}
	v := HashVersion(value)
	if !v.Valid() {
		return 0, fault.ErrInvalidHashVersion
	}
	return v, nil
}

// Valid - true for a known version
func (v HashVersion) Valid() bool {
	return HashVersion1 == v || HashVersion2 == v
}

// String - decimal form
func (v HashVersion) String() string {
	return strconv.Itoa(int(v))
}
