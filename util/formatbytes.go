// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package util

import (
	"fmt"
	"strings"
)

const bytesPerLine = 8

// FormatBytes - dump bytes as a Go literal so a test vector can be
// pasted back into the test
func FormatBytes(name string, data []byte) string {
	var b strings.Builder
	b.WriteString(name)
	b.WriteString(" := []byte{")
	for i, c := range data {
		if 0 == i%bytesPerLine {
			b.WriteString("\n\t")
		} else {
			b.WriteString(" ")
		}
		fmt.Fprintf(&b, "%#02x,", c)
	}
	b.WriteString("\n}")
	return b.String()
}
