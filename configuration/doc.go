// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package configuration - parse a Lua configuration file
//
// most of base Lua is available such as reading files to set key data
// and getenv to extract environment supplied items.  The file must
// return a table, e.g.
//
//	local M = {}
//	M.blockchain_rid = os.getenv("BLOCKCHAIN_RID")
//	M.merkle_hash_version = 2
//	M.submit = { rate = 5, burst = 2 }
//	M.logging = { size = 1048576, count = 10, levels = { session = "info" } }
//	return M
package configuration
