// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/syndtr/goleveldb/leveldb"
	ldb_opt "github.com/syndtr/goleveldb/leveldb/opt"
	ldb_storage "github.com/syndtr/goleveldb/leveldb/storage"

	"github.com/bitmark-inc/gtxclient/fault"
	"github.com/bitmark-inc/gtxclient/merkle"
)

// for database version
var versionKey = []byte{0x00, 'V', 'E', 'R', 'S', 'I', 'O', 'N'}

const (
	currentJournalVersion = 0x100
	transactionPrefix     = 'T'
)

// Journal - submitted transactions keyed by RID
type Journal struct {
	sync.RWMutex
	db           *leveldb.DB
	transactions *PoolHandle
	cache        Cache
}

// Open - open or create the journal database in a directory
func Open(directory string) (*Journal, error) {
	opt := &ldb_opt.Options{
		ErrorIfExist:   false,
		ErrorIfMissing: false,
	}
	db, err := leveldb.OpenFile(directory, opt)
	if nil != err {
		return nil, err
	}
	return setup(db)
}

// OpenMemory - a journal that is lost on close
func OpenMemory() (*Journal, error) {
	db, err := leveldb.Open(ldb_storage.NewMemStorage(), nil)
	if nil != err {
		return nil, err
	}
	return setup(db)
}

func setup(db *leveldb.DB) (*Journal, error) {
	version, err := getVersion(db)
	if nil != err {
		db.Close()
		return nil, err
	}

	switch {
	case 0 == version:
		// database was empty so tag as current version
		if err := putVersion(db, currentJournalVersion); nil != err {
			db.Close()
			return nil, err
		}
	case version != currentJournalVersion:
		db.Close()
		return nil, fmt.Errorf("journal database version: %d  expected: %d", version, currentJournalVersion)
	}

	return &Journal{
		db:           db,
		transactions: newPoolHandle(transactionPrefix, db),
		cache:        newCache(),
	}, nil
}

// Close - close the database
func (j *Journal) Close() error {
	j.Lock()
	defer j.Unlock()
	if nil == j.db {
		return nil
	}
	j.cache.Clear()
	err := j.db.Close()
	j.db = nil
	return err
}

// Put - record the wire bytes of a submitted transaction
func (j *Journal) Put(rid merkle.Digest, transaction []byte) error {
	j.RLock()
	defer j.RUnlock()
	if nil == j.db {
		return fault.ErrJournalClosed
	}
	if err := j.transactions.Put(rid[:], transaction); nil != err {
		return err
	}
	j.cache.Set(dbPut, rid.String(), transaction)
	return nil
}

// Get - the wire bytes recorded for a RID
func (j *Journal) Get(rid merkle.Digest) ([]byte, error) {
	j.RLock()
	defer j.RUnlock()
	if nil == j.db {
		return nil, fault.ErrJournalClosed
	}

	if value, found := j.cache.Get(rid.String()); found {
		return value, nil
	}

	value, err := j.transactions.Get(rid[:])
	if nil != err {
		return nil, err
	}
	if nil == value {
		return nil, fault.ErrNoSuchTransaction
	}
	j.cache.Set(dbPut, rid.String(), value)
	return value, nil
}

// Has - true if the RID was recorded
func (j *Journal) Has(rid merkle.Digest) (bool, error) {
	j.RLock()
	defer j.RUnlock()
	if nil == j.db {
		return false, fault.ErrJournalClosed
	}
	if _, found := j.cache.Get(rid.String()); found {
		return true, nil
	}
	return j.transactions.Has(rid[:])
}

// Delete - forget a RID
func (j *Journal) Delete(rid merkle.Digest) error {
	j.RLock()
	defer j.RUnlock()
	if nil == j.db {
		return fault.ErrJournalClosed
	}
	if err := j.transactions.Delete(rid[:]); nil != err {
		return err
	}
	j.cache.Set(dbDelete, rid.String(), nil)
	return nil
}

// RIDs - every recorded RID in key order
func (j *Journal) RIDs() ([]merkle.Digest, error) {
	j.RLock()
	defer j.RUnlock()
	if nil == j.db {
		return nil, fault.ErrJournalClosed
	}

	elements, err := j.transactions.Elements()
	if nil != err {
		return nil, err
	}
	result := make([]merkle.Digest, 0, len(elements))
	for _, e := range elements {
		var rid merkle.Digest
		if err := merkle.DigestFromBytes(&rid, e.Key); nil != err {
			return nil, err
		}
		result = append(result, rid)
	}
	return result, nil
}

// return the version number, zero for an empty database
func getVersion(db *leveldb.DB) (int, error) {
	versionValue, err := db.Get(versionKey, nil)
	if leveldb.ErrNotFound == err {
		return 0, nil
	} else if nil != err {
		return 0, err
	}

	if 4 != len(versionValue) {
		return 0, fmt.Errorf("incompatible database version length: expected: %d  actual: %d", 4, len(versionValue))
	}

	return int(binary.BigEndian.Uint32(versionValue)), nil
}

func putVersion(db *leveldb.DB, version int) error {
	currentVersion := make([]byte, 4)
	binary.BigEndian.PutUint32(currentVersion, uint32(version))

	return db.Put(versionKey, currentVersion, nil)
}
