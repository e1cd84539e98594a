// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"github.com/syndtr/goleveldb/leveldb"
	ldb_util "github.com/syndtr/goleveldb/leveldb/util"
)

// PoolHandle - one prefixed key range of the database
type PoolHandle struct {
	prefix   byte
	limit    []byte
	database *leveldb.DB
}

// Element - a binary data item
type Element struct {
	Key   []byte
	Value []byte
}

func newPoolHandle(prefix byte, database *leveldb.DB) *PoolHandle {
	return &PoolHandle{
		prefix:   prefix,
		limit:    []byte{prefix + 1},
		database: database,
	}
}

// prepend the prefix onto the key
func (p *PoolHandle) prefixKey(key []byte) []byte {
	prefixedKey := make([]byte, 1, len(key)+1)
	prefixedKey[0] = p.prefix
	return append(prefixedKey, key...)
}

// Put - store a key/value bytes pair to the database
func (p *PoolHandle) Put(key []byte, value []byte) error {
	return p.database.Put(p.prefixKey(key), value, nil)
}

// Delete - remove a key from the database
func (p *PoolHandle) Delete(key []byte) error {
	return p.database.Delete(p.prefixKey(key), nil)
}

// Get - read a value for a given key, nil if it is not present
func (p *PoolHandle) Get(key []byte) ([]byte, error) {
	value, err := p.database.Get(p.prefixKey(key), nil)
	if leveldb.ErrNotFound == err {
		return nil, nil
	}
	return value, err
}

// Has - check if a key exists
func (p *PoolHandle) Has(key []byte) (bool, error) {
	return p.database.Has(p.prefixKey(key), nil)
}

// Elements - every element of the pool in key order
func (p *PoolHandle) Elements() ([]Element, error) {
	maxRange := ldb_util.Range{
		Start: []byte{p.prefix}, // Start of key range, included in the range
		Limit: p.limit,          // Limit of key range, excluded from the range
	}

	iter := p.database.NewIterator(&maxRange, nil)

	result := []Element{}
	for iter.Next() {

		// contents of the returned slice must not be modified, and are
		// only valid until the next call to Next
		key := iter.Key()
		value := iter.Value()

		dataKey := make([]byte, len(key)-1) // strip the prefix
		copy(dataKey, key[1:])              // ...

		dataValue := make([]byte, len(value))
		copy(dataValue, value)

		result = append(result, Element{Key: dataKey, Value: dataValue})
	}
	iter.Release()
	return result, iter.Error()
}
