// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Meridian Chain Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

import (
	"golang.org/x/crypto/sha3"

	"github.com/bitmark-inc/logger"

	"github.com/meridian-chain/meridiand/account"
	"github.com/meridian-chain/meridiand/amount"
	"github.com/meridian-chain/meridiand/fault"
	"github.com/meridian-chain/meridiand/storage"
	"github.com/meridian-chain/meridiand/transactionrecord"
)

// sequence keys in the Sequences pool
var (
	groupIDKey    = []byte("group-id")
	trimHeightKey = []byte("trim-height")
	chainTipKey   = []byte("chain-tip")
)

// leveldb backed implementation of Store
type ledgerStore struct {
	store *storage.Store
	log   *logger.L
}

// NewStore - wrap a storage instance as a ledger store
func NewStore(store *storage.Store) Store {
	return &ledgerStore{
		store: store,
		log:   logger.New("ledger"),
	}
}

// transactional scope

func (l *ledgerStore) Begin() error {
	return l.store.Begin()
}

func (l *ledgerStore) Commit() error {
	return l.store.Commit()
}

func (l *ledgerStore) Discard() {
	l.store.Discard()
}

// accounts

func (l *ledgerStore) GetAccount(address string) (*AccountState, error) {
	buffer, err := l.store.Pool.Accounts.Get([]byte(address))
	if nil != err {
		return nil, err
	}
	if nil == buffer {
		return nil, nil
	}
	return unpackAccountState(address, buffer)
}

// fetch-or-create for mutation paths
func (l *ledgerStore) getOrNewAccount(address string) (*AccountState, error) {
	state, err := l.GetAccount(address)
	if nil != err {
		return nil, err
	}
	if nil == state {
		state = &AccountState{Address: address}
	}
	return state, nil
}

func (l *ledgerStore) SetPublicKey(address string, publicKey account.PublicKey) error {
	state, err := l.getOrNewAccount(address)
	if nil != err {
		return err
	}
	state.PublicKey = publicKey
	return l.store.Pool.Accounts.Put([]byte(address), packAccountState(state))
}

func (l *ledgerStore) SetLastReference(address string, reference account.Signature) error {
	state, err := l.getOrNewAccount(address)
	if nil != err {
		return err
	}
	state.LastReference = reference
	return l.store.Pool.Accounts.Put([]byte(address), packAccountState(state))
}

func balanceKey(address string, assetID uint64) []byte {
	key := append([]byte(address), 0x00)
	return append(key, uint64Key(assetID)...)
}

func (l *ledgerStore) Balance(address string, assetID uint64) (amount.Amount, error) {
	buffer, err := l.store.Pool.Balances.Get(balanceKey(address, assetID))
	if nil != err {
		return 0, err
	}
	if 8 != len(buffer) {
		return 0, nil
	}
	return amount.Amount(int64(bigEndianUint64(buffer))), nil
}

func (l *ledgerStore) SetBalance(address string, assetID uint64, balance amount.Amount) error {
	// a negative committed balance is a consensus bug, validation
	// excludes it before process is ever called
	if balance.IsNegative() {
		return fault.ErrBalanceUnderflow
	}
	return l.store.Pool.Balances.Put(balanceKey(address, assetID), uint64Key(balance.Uint64()))
}

// transaction records

func (l *ledgerStore) SaveTransaction(tx transactionrecord.Transaction) error {
	buffer, err := packStoredTransaction(tx)
	if nil != err {
		return err
	}
	txID := tx.TxID()
	if 0 == len(txID) {
		return fault.ErrInvalidSignatureLength
	}
	return l.store.Pool.Transactions.Put(txID, buffer)
}

func (l *ledgerStore) GetTransaction(txID account.Signature) (transactionrecord.Transaction, error) {
	buffer, err := l.store.Pool.Transactions.Get(txID)
	if nil != err {
		return nil, err
	}
	if nil == buffer {
		return nil, fault.ErrTransactionNotFound
	}
	return unpackStoredTransaction(buffer)
}

func (l *ledgerStore) DeleteTransaction(txID account.Signature) error {
	return l.store.Pool.Transactions.Delete(txID)
}

// groups

func (l *ledgerStore) SaveGroup(group *GroupRecord) error {
	err := l.store.Pool.Groups.Put(uint64Key(group.ID), packGroup(group))
	if nil != err {
		return err
	}
	return l.store.Pool.GroupNames.Put([]byte(group.Name), uint64Key(group.ID))
}

func (l *ledgerStore) DeleteGroup(groupID uint64) error {
	buffer, err := l.store.Pool.Groups.Get(uint64Key(groupID))
	if nil != err {
		return err
	}
	if nil == buffer {
		return fault.ErrGroupNotFound
	}
	group, err := unpackGroup(groupID, buffer)
	if nil != err {
		return err
	}
	err = l.store.Pool.GroupNames.Delete([]byte(group.Name))
	if nil != err {
		return err
	}
	return l.store.Pool.Groups.Delete(uint64Key(groupID))
}

func (l *ledgerStore) GroupByName(name string) (*GroupRecord, error) {
	idBuffer, err := l.store.Pool.GroupNames.Get([]byte(name))
	if nil != err {
		return nil, err
	}
	if 8 != len(idBuffer) {
		return nil, nil
	}
	groupID := bigEndianUint64(idBuffer)

	buffer, err := l.store.Pool.Groups.Get(idBuffer)
	if nil != err {
		return nil, err
	}
	if nil == buffer {
		return nil, fault.ErrGroupNotFound
	}
	return unpackGroup(groupID, buffer)
}

func (l *ledgerStore) GroupExists(name string) (bool, error) {
	return l.store.Pool.GroupNames.Has([]byte(name))
}

func (l *ledgerStore) NextGroupID() (uint64, error) {
	buffer, err := l.store.Pool.Sequences.Get(groupIDKey)
	if nil != err {
		return 0, err
	}
	next := uint64(1)
	if 8 == len(buffer) {
		next = bigEndianUint64(buffer)
	}
	err = l.store.Pool.Sequences.Put(groupIDKey, uint64Key(next+1))
	if nil != err {
		return 0, err
	}
	return next, nil
}

func (l *ledgerStore) ReleaseGroupID(groupID uint64) error {
	buffer, err := l.store.Pool.Sequences.Get(groupIDKey)
	if nil != err {
		return err
	}
	if 8 != len(buffer) {
		return fault.ErrGroupSequenceBroken
	}
	next := bigEndianUint64(buffer)

	// orphaning happens in strict reverse order so the released id
	// is always the most recently allocated one
	if next != groupID+1 {
		return fault.ErrGroupSequenceBroken
	}
	return l.store.Pool.Sequences.Put(groupIDKey, uint64Key(groupID))
}

// reward shares

func rewardShareKey(minter account.PublicKey, recipient string) []byte {
	key := append([]byte{}, minter...)
	return append(key, recipient...)
}

func (l *ledgerStore) GetRewardShare(minter account.PublicKey, recipient string) (*RewardShareRecord, error) {
	buffer, err := l.store.Pool.RewardShares.Get(rewardShareKey(minter, recipient))
	if nil != err {
		return nil, err
	}
	if nil == buffer {
		return nil, nil
	}
	return unpackRewardShare(minter, recipient, buffer)
}

func (l *ledgerStore) SaveRewardShare(record *RewardShareRecord) error {
	key := rewardShareKey(record.MinterPublicKey, record.Recipient)
	return l.store.Pool.RewardShares.Put(key, packRewardShare(record))
}

func (l *ledgerStore) DeleteRewardShare(minter account.PublicKey, recipient string) error {
	return l.store.Pool.RewardShares.Delete(rewardShareKey(minter, recipient))
}

// chain bookkeeping

func (l *ledgerStore) RegisterBlock(height uint64, timestamp int64) error {
	err := l.store.Pool.Heights.Put(uint64Key(uint64(timestamp)), uint64Key(height))
	if nil != err {
		return err
	}
	return l.store.Pool.Sequences.Put(chainTipKey, uint64Key(height))
}

func (l *ledgerStore) ChainTip() (uint64, error) {
	buffer, err := l.store.Pool.Sequences.Get(chainTipKey)
	if nil != err {
		return 0, err
	}
	if 8 != len(buffer) {
		return 0, nil
	}
	return bigEndianUint64(buffer), nil
}

func (l *ledgerStore) HeightFromTimestamp(timestamp int64) (uint64, error) {
	key, value, err := l.store.Pool.Heights.LastBefore(uint64Key(uint64(timestamp)))
	if nil != err {
		return 0, err
	}
	if nil == key || 8 != len(value) {
		return 0, nil
	}
	return bigEndianUint64(value), nil
}

func (l *ledgerStore) AddOnlineSignature(height uint64, signature []byte) error {
	digest := sha3.Sum256(signature)
	key := append(uint64Key(height), digest[:16]...)
	return l.store.Pool.OnlineSignatures.Put(key, signature)
}

func (l *ledgerStore) TrimOnlineSignatures(fromHeight uint64, toHeight uint64) (int, error) {
	trimmed := 0
	var deleteErr error

	err := l.store.Pool.OnlineSignatures.Range(uint64Key(fromHeight), uint64Key(toHeight),
		func(key []byte, value []byte) bool {
			deleteErr = l.store.Pool.OnlineSignatures.Delete(key)
			if nil != deleteErr {
				return false
			}
			trimmed += 1
			return true
		})
	if nil != err {
		return trimmed, err
	}
	return trimmed, deleteErr
}

func (l *ledgerStore) TrimHeight() (uint64, error) {
	buffer, err := l.store.Pool.Sequences.Get(trimHeightKey)
	if nil != err {
		return 0, err
	}
	if 8 != len(buffer) {
		return 0, nil
	}
	return bigEndianUint64(buffer), nil
}

func (l *ledgerStore) SetTrimHeight(height uint64) error {
	return l.store.Pool.Sequences.Put(trimHeightKey, uint64Key(height))
}

func bigEndianUint64(buffer []byte) uint64 {
	value := uint64(0)
	for _, b := range buffer {
		value = value<<8 | uint64(b)
	}
	return value
}
