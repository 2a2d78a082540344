// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Meridian Chain Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package ledger - the ledger store consumed by the transaction engine
//
// all mutating calls buffer into the storage transaction started by
// Begin, Commit applies them atomically, Discard drops them; the
// engine wraps one block of work in one such transaction
package ledger

import (
	"github.com/meridian-chain/meridiand/account"
	"github.com/meridian-chain/meridiand/amount"
	"github.com/meridian-chain/meridiand/transactionrecord"
)

// AccountState - identity part of an account
//
// balances are held separately per asset, absent account means the
// address has never appeared in any processed transaction
type AccountState struct {
	Address       string            `json:"address"`
	PublicKey     account.PublicKey `json:"publicKey"`     // empty until first authored transaction
	LastReference account.Signature `json:"lastReference"` // empty until first authored transaction
}

// GroupRecord - a registered group
type GroupRecord struct {
	ID                uint64                              `json:"id"`
	Owner             string                              `json:"owner"`
	Name              string                              `json:"name"` // lowercase, unique
	Description       string                              `json:"description"`
	ApprovalThreshold transactionrecord.ApprovalThreshold `json:"approvalThreshold"`
	MinimumBlockDelay int32                               `json:"minimumBlockDelay"`
	MaximumBlockDelay int32                               `json:"maximumBlockDelay"`
}

// RewardShareRecord - a proxy forging assignment
//
// keyed by (minter public key, recipient address)
type RewardShareRecord struct {
	MinterPublicKey account.PublicKey `json:"minterPublicKey"`
	Recipient       string            `json:"recipient"`
	ProxyPublicKey  account.PublicKey `json:"proxyPublicKey"`
	SharePercent    int64             `json:"sharePercent"` // 2 implied decimals
}

// Store - everything the transaction engine and the trimmer need
//
// mutations require an active transaction; reads see buffered writes
// so that transactions within one block observe each other in order
type Store interface {

	// transactional scope, one block of work per scope
	Begin() error
	Commit() error
	Discard()

	// accounts
	GetAccount(address string) (*AccountState, error) // nil when absent
	SetPublicKey(address string, publicKey account.PublicKey) error
	SetLastReference(address string, reference account.Signature) error
	Balance(address string, assetID uint64) (amount.Amount, error) // zero when absent
	SetBalance(address string, assetID uint64, balance amount.Amount) error

	// transaction records, keyed by tx id (signature)
	SaveTransaction(tx transactionrecord.Transaction) error
	GetTransaction(txID account.Signature) (transactionrecord.Transaction, error)
	DeleteTransaction(txID account.Signature) error

	// groups
	SaveGroup(group *GroupRecord) error
	DeleteGroup(groupID uint64) error
	GroupByName(name string) (*GroupRecord, error) // nil when absent
	GroupExists(name string) (bool, error)
	NextGroupID() (uint64, error)
	ReleaseGroupID(groupID uint64) error

	// reward shares
	GetRewardShare(minter account.PublicKey, recipient string) (*RewardShareRecord, error) // nil when absent
	SaveRewardShare(record *RewardShareRecord) error
	DeleteRewardShare(minter account.PublicKey, recipient string) error

	// chain bookkeeping for the trimming job
	RegisterBlock(height uint64, timestamp int64) error
	ChainTip() (uint64, error)                           // zero when no block registered
	HeightFromTimestamp(timestamp int64) (uint64, error) // highest height at or before timestamp
	AddOnlineSignature(height uint64, signature []byte) error
	TrimOnlineSignatures(fromHeight uint64, toHeight uint64) (int, error)
	TrimHeight() (uint64, error)
	SetTrimHeight(height uint64) error
}
