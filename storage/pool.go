// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Meridian Chain Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"github.com/syndtr/goleveldb/leveldb"
	ldb_util "github.com/syndtr/goleveldb/leveldb/util"

	"github.com/meridian-chain/meridiand/fault"
)

// PoolHandle - one single byte prefix over the shared database
type PoolHandle struct {
	store  *Store
	prefix byte
}

// add the pool prefix to a key
func (pool *PoolHandle) prefixKey(key []byte) []byte {
	prefixed := make([]byte, 1, 1+len(key))
	prefixed[0] = pool.prefix
	return append(prefixed, key...)
}

// Get - fetch a value, nil if the key is absent
//
// sees writes buffered by the active transaction
func (pool *PoolHandle) Get(key []byte) ([]byte, error) {
	prefixed := pool.prefixKey(key)

	pool.store.RLock()
	if nil != pool.store.overlay {
		if value, hit := pool.store.overlay.get(string(prefixed)); hit {
			pool.store.RUnlock()
			return value, nil
		}
	}
	pool.store.RUnlock()

	value, err := pool.store.db.Get(prefixed, nil)
	if leveldb.ErrNotFound == err {
		return nil, nil
	}
	if nil != err {
		return nil, fault.WrapStorage(err)
	}
	return value, nil
}

// Has - check key presence
func (pool *PoolHandle) Has(key []byte) (bool, error) {
	value, err := pool.Get(key)
	if nil != err {
		return false, err
	}
	return nil != value, nil
}

// Put - buffer a write, requires an active transaction
func (pool *PoolHandle) Put(key []byte, value []byte) error {
	pool.store.Lock()
	defer pool.store.Unlock()

	if nil == pool.store.overlay {
		return fault.ErrNoTransactionInProgress
	}

	v := make([]byte, len(value))
	copy(v, value)
	pool.store.overlay.put(string(pool.prefixKey(key)), v)
	return nil
}

// Delete - buffer a delete, requires an active transaction
func (pool *PoolHandle) Delete(key []byte) error {
	pool.store.Lock()
	defer pool.store.Unlock()

	if nil == pool.store.overlay {
		return fault.ErrNoTransactionInProgress
	}

	pool.store.overlay.remove(string(pool.prefixKey(key)))
	return nil
}

// Range - iterate committed keys in [first, last) in key order
//
// keys are passed to the callback without the pool prefix, iteration
// stops early when the callback returns false
//
// Note: buffered writes of an active transaction are not visible,
//       range scans are for maintenance jobs operating on committed
//       state
func (pool *PoolHandle) Range(first []byte, last []byte, f func(key []byte, value []byte) bool) error {
	r := &ldb_util.Range{
		Start: pool.prefixKey(first),
		Limit: pool.prefixKey(last),
	}

	it := pool.store.db.NewIterator(r, nil)
	defer it.Release()

	for it.Next() {
		key := make([]byte, len(it.Key())-1)
		copy(key, it.Key()[1:])
		value := make([]byte, len(it.Value()))
		copy(value, it.Value())
		if !f(key, value) {
			break
		}
	}
	return fault.WrapStorage(it.Error())
}

// LastBefore - greatest committed key not greater than the given key
//
// returns nil key when the pool holds nothing at or below the bound
func (pool *PoolHandle) LastBefore(bound []byte) ([]byte, []byte, error) {
	limit := pool.prefixKey(bound)
	limit = append(limit, 0x00) // make the bound inclusive

	r := &ldb_util.Range{
		Start: []byte{pool.prefix},
		Limit: limit,
	}

	it := pool.store.db.NewIterator(r, nil)
	defer it.Release()

	if !it.Last() {
		return nil, nil, fault.WrapStorage(it.Error())
	}

	key := make([]byte, len(it.Key())-1)
	copy(key, it.Key()[1:])
	value := make([]byte, len(it.Value()))
	copy(value, it.Value())
	return key, value, nil
}
