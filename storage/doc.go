// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package storage - the on-disk journal of submitted transactions
//
// a LevelDB database split into pools, each defined by a single
// prefix byte in front of every key
//
// Notes:
// 1. ++  = concatenation of byte data
// 2. rid = transaction RID, 32 byte tree hash of the body
//
// Transactions:
//
//	T ++ rid  - signed transaction wire bytes as submitted
//
// reads go through an in-memory cache that also remembers deletions
package storage
