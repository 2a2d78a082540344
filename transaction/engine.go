// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Meridian Chain Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package transaction

import (
	"sync"

	"github.com/bitmark-inc/logger"

	"github.com/meridian-chain/meridiand/fault"
	"github.com/meridian-chain/meridiand/ledger"
	"github.com/meridian-chain/meridiand/transactionrecord"
)

// the engine's logger channel, resolved on first use as the package
// has no initialise step
var (
	onceLog   sync.Once
	engineLog *logger.L
)

func engineLogger() *logger.L {
	onceLog.Do(func() {
		engineLog = logger.New("transaction")
	})
	return engineLog
}

// BaseAssetID - the asset all fees are paid in
const BaseAssetID = uint64(0)

// Context - one block's worth of work against the ledger
//
// passed explicitly to every engine call, committed or discarded as
// a unit; never shared between concurrent writers
type Context struct {
	Ledger  ledger.Store
	Height  uint64
	Testnet bool
}

// the per-variant handler function set
type handlers struct {
	validate      func(*Context, transactionrecord.Transaction) (Result, error)
	isProcessable func(*Context, transactionrecord.Transaction) (Result, error) // nil: always OK
	process       func(*Context, transactionrecord.Transaction) error
	orphan        func(*Context, transactionrecord.Transaction) error
}

// closed dispatch table: record type tag → handler set
//
// a new variant is one new entry here, the engine itself never changes
var dispatch = map[transactionrecord.TagType]*handlers{
	transactionrecord.GenesisTag: {
		validate: validateGenesis,
		process:  processGenesis,
		orphan:   orphanGenesis,
	},
	transactionrecord.PaymentTag: {
		validate: validatePayment,
		process:  processPayment,
		orphan:   orphanPayment,
	},
	transactionrecord.RewardShareTag: {
		validate: validateRewardShare,
		process:  processRewardShare,
		orphan:   orphanRewardShare,
	},
	transactionrecord.CreateGroupTag: {
		validate:      validateCreateGroup,
		isProcessable: isProcessableCreateGroup,
		process:       processCreateGroup,
		orphan:        orphanCreateGroup,
	},
}

// map a record to its type tag
func tagOf(tx transactionrecord.Transaction) transactionrecord.TagType {
	switch tx.(type) {
	case *transactionrecord.Genesis:
		return transactionrecord.GenesisTag
	case *transactionrecord.Payment:
		return transactionrecord.PaymentTag
	case *transactionrecord.RewardShare:
		return transactionrecord.RewardShareTag
	case *transactionrecord.CreateGroup:
		return transactionrecord.CreateGroupTag
	default:
		return transactionrecord.InvalidTag
	}
}

// Validate - read-only validation of a single record
//
// safe to run concurrently against a consistent snapshot for
// candidate transactions; the error return carries storage failures
// only, consensus rejections are Results
func Validate(ctx *Context, tx transactionrecord.Transaction) (Result, error) {
	h, ok := dispatch[tagOf(tx)]
	if !ok {
		return InvalidTransactionType, nil
	}
	return h.validate(ctx, tx)
}

// IsProcessable - second-phase check at actual inclusion time
//
// must be called per transaction in block order, never batched
func IsProcessable(ctx *Context, tx transactionrecord.Transaction) (Result, error) {
	h, ok := dispatch[tagOf(tx)]
	if !ok {
		return InvalidTransactionType, nil
	}
	if nil == h.isProcessable {
		return OK, nil
	}
	return h.isProcessable(ctx, tx)
}

// Process - apply one validated record to the ledger
//
// called exactly once per confirmed transaction, in block order,
// inside an active ledger transaction
func Process(ctx *Context, tx transactionrecord.Transaction) error {
	h, ok := dispatch[tagOf(tx)]
	if !ok {
		return fault.ErrNotTransactionPack
	}
	return h.process(ctx, tx)
}

// Orphan - exactly reverse one processed record
//
// called in strict reverse order of the Process calls being undone,
// inside an active ledger transaction
func Orphan(ctx *Context, tx transactionrecord.Transaction) error {
	h, ok := dispatch[tagOf(tx)]
	if !ok {
		return fault.ErrNotTransactionPack
	}
	return h.orphan(ctx, tx)
}

// Apply - validate and process one block's records as a unit
//
// the first rejection or error discards every buffered mutation, so
// a block is applied all-or-nothing; the returned Result identifies
// the rejection, the error carries storage/invariant failures; every
// return path leaves the ledger with no transaction in progress
func Apply(ctx *Context, txs []transactionrecord.Transaction) (Result, error) {
	log := engineLogger()

	err := ctx.Ledger.Begin()
	if nil != err {
		return OK, err
	}

	for i, tx := range txs {
		result, err := Validate(ctx, tx)
		if nil != err {
			ctx.Ledger.Discard()
			return OK, err
		}
		if OK != result {
			name, _ := transactionrecord.RecordName(tx)
			log.Warnf("block %d: %s[%d] rejected: %s", ctx.Height, name, i, result)
			ctx.Ledger.Discard()
			return result, nil
		}

		result, err = IsProcessable(ctx, tx)
		if nil != err {
			ctx.Ledger.Discard()
			return OK, err
		}
		if OK != result {
			name, _ := transactionrecord.RecordName(tx)
			log.Warnf("block %d: %s[%d] not processable: %s", ctx.Height, name, i, result)
			ctx.Ledger.Discard()
			return result, nil
		}

		err = Process(ctx, tx)
		if nil != err {
			// partial mutations must never become visible
			ctx.Ledger.Discard()
			return OK, err
		}
	}

	err = ctx.Ledger.Commit()
	if nil != err {
		// the batch was not applied, drop it so the next block can
		// start a fresh ledger transaction
		ctx.Ledger.Discard()
		return OK, err
	}
	return OK, nil
}

// Rollback - orphan one block's records in strict reverse order
func Rollback(ctx *Context, txs []transactionrecord.Transaction) error {
	err := ctx.Ledger.Begin()
	if nil != err {
		return err
	}

	for i := len(txs) - 1; i >= 0; i -= 1 {
		err = Orphan(ctx, txs[i])
		if nil != err {
			ctx.Ledger.Discard()
			return err
		}
	}

	err = ctx.Ledger.Commit()
	if nil != err {
		ctx.Ledger.Discard()
		return err
	}
	return nil
}
