// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Meridian Chain Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"reflect"
	"sync"

	"github.com/syndtr/goleveldb/leveldb"
	ldb_storage "github.com/syndtr/goleveldb/leveldb/storage"

	"github.com/bitmark-inc/logger"

	"github.com/meridian-chain/meridiand/fault"
)

// exported storage pools
//
// note all must be exported (i.e. initial capital) or setup will panic
type pools struct {
	Accounts         *PoolHandle `prefix:"A"`
	Balances         *PoolHandle `prefix:"B"`
	Groups           *PoolHandle `prefix:"G"`
	GroupNames       *PoolHandle `prefix:"N"`
	Heights          *PoolHandle `prefix:"H"`
	OnlineSignatures *PoolHandle `prefix:"S"`
	RewardShares     *PoolHandle `prefix:"R"`
	Sequences        *PoolHandle `prefix:"Q"`
	Transactions     *PoolHandle `prefix:"T"`
}

// Store - a single database with its pools and at most one active
// write transaction
type Store struct {
	sync.RWMutex
	db  *leveldb.DB
	log *logger.L

	// buffered writes, nil outside a transaction
	overlay *overlay

	// Pool - the set of exported pools
	Pool pools
}

// Open - open up a database connection to a directory
func Open(directory string) (*Store, error) {
	db, err := leveldb.OpenFile(directory, nil)
	if nil != err {
		return nil, fault.WrapStorage(err)
	}
	return newStore(db), nil
}

// OpenMemory - an in-memory database for testing
func OpenMemory() (*Store, error) {
	db, err := leveldb.Open(ldb_storage.NewMemStorage(), nil)
	if nil != err {
		return nil, fault.WrapStorage(err)
	}
	return newStore(db), nil
}

func newStore(db *leveldb.DB) *Store {
	store := &Store{
		db:  db,
		log: logger.New("storage"),
	}

	// this will be a struct type
	poolType := reflect.TypeOf(store.Pool)

	// get write access by using pointer + Elem()
	poolValue := reflect.ValueOf(&store.Pool).Elem()

	// assign prefix handles to each pool from its struct tag
	for i := 0; i < poolType.NumField(); i += 1 {
		fieldInfo := poolType.Field(i)
		prefixTag := fieldInfo.Tag.Get("prefix")
		if 1 != len(prefixTag) {
			fault.Panicf("pool: %v has invalid prefix: %q", fieldInfo, prefixTag)
		}

		handle := &PoolHandle{
			store:  store,
			prefix: prefixTag[0],
		}
		newValue := reflect.ValueOf(handle)
		poolValue.Field(i).Set(newValue)
	}

	return store
}

// Close - shut down the database connection
func (store *Store) Close() error {
	store.Lock()
	defer store.Unlock()
	store.overlay = nil
	return fault.WrapStorage(store.db.Close())
}

// Begin - start buffering writes
//
// only one transaction may be active at a time, this is the
// single-writer guarantee the engine relies on
func (store *Store) Begin() error {
	store.Lock()
	defer store.Unlock()

	if nil != store.overlay {
		return fault.ErrTransactionAlreadyInUse
	}
	store.overlay = newOverlay()
	return nil
}

// InUse - is a transaction currently active
func (store *Store) InUse() bool {
	store.RLock()
	defer store.RUnlock()
	return nil != store.overlay
}

// Commit - apply all buffered writes as one atomic batch
func (store *Store) Commit() error {
	store.Lock()
	defer store.Unlock()

	if nil == store.overlay {
		return fault.ErrNoTransactionInProgress
	}

	batch := new(leveldb.Batch)
	for key := range store.overlay.deletes {
		batch.Delete([]byte(key))
	}
	for key, value := range store.overlay.puts {
		batch.Put([]byte(key), value)
	}

	err := store.db.Write(batch, nil)
	if nil != err {
		// batch not applied, keep the overlay so the caller can
		// decide to retry the commit or discard
		return fault.WrapStorage(err)
	}

	store.overlay = nil
	return nil
}

// Discard - drop all buffered writes
//
// safe to call when no transaction is active
func (store *Store) Discard() {
	store.Lock()
	defer store.Unlock()
	store.overlay = nil
}
