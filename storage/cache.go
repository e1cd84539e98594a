// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"time"

	cache "github.com/patrickmn/go-cache"
)

// Cache - recently written or read journal records keyed by hex RID
type Cache interface {
	Get(string) ([]byte, bool)
	Set(cacheOp, string, []byte)
	Clear()
}

type cacheOp int

// cached operations
const (
	dbPut cacheOp = iota
	dbDelete
)

const (
	cacheCleanupInterval = 1 * time.Minute
	cacheExpiration      = 2 * time.Minute
)

type journalCache struct {
	records *cache.Cache
}

type cacheEntry struct {
	op    cacheOp
	value []byte
}

func newCache() Cache {
	return &journalCache{
		records: cache.New(cacheExpiration, cacheCleanupInterval),
	}
}

// Get - a cached record, a cached deletion reads as not found so the
// caller does not fall back to a stale database read
func (c *journalCache) Get(key string) ([]byte, bool) {
	item, found := c.records.Get(key)
	if !found {
		return nil, false
	}

	entry := item.(cacheEntry)
	if dbDelete == entry.op {
		return nil, false
	}
	return entry.value, true
}

// Set - remember a put or a delete, a put keeps its own copy
func (c *journalCache) Set(op cacheOp, key string, value []byte) {
	entry := cacheEntry{op: op}
	if dbPut == op {
		entry.value = append([]byte{}, value...)
	}
	c.records.Set(key, entry, cache.DefaultExpiration)
}

// Clear - forget everything
func (c *journalCache) Clear() {
	c.records.Flush()
}
