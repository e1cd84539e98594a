// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package util

import (
	"encoding/hex"
	"fmt"
)

// DecodeHex - decode a hex string that must hold exactly length bytes
func DecodeHex(s string, length int) ([]byte, error) {
	if hex.EncodedLen(length) != len(s) {
		return nil, fmt.Errorf("hex length: %d  expected: %d", len(s), hex.EncodedLen(length))
	}
	return hex.DecodeString(s)
}
