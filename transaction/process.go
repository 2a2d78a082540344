// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Meridian Chain Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package transaction

import (
	"bytes"

	"github.com/meridian-chain/meridiand/account"
	"github.com/meridian-chain/meridiand/amount"
	"github.com/meridian-chain/meridiand/fault"
	"github.com/meridian-chain/meridiand/ledger"
	"github.com/meridian-chain/meridiand/transactionrecord"
)

// balance arithmetic
//
// debit can only fail with fault.ErrBalanceUnderflow when validation
// was skipped or the ledger is corrupt: an invariant violation, the
// enclosing ledger transaction must be discarded

func credit(ctx *Context, address string, assetID uint64, delta amount.Amount) error {
	balance, err := ctx.Ledger.Balance(address, assetID)
	if nil != err {
		return err
	}
	return ctx.Ledger.SetBalance(address, assetID, balance+delta)
}

func debit(ctx *Context, address string, assetID uint64, delta amount.Amount) error {
	return credit(ctx, address, assetID, -delta)
}

// true for the all-zero reference marking an account's first
// authored transaction
func isFirstReference(reference account.Signature) bool {
	return bytes.Equal(reference, make(account.Signature, account.SignatureSize))
}

// advance the creator's reference chain and record its public key,
// the counterpart of rollbackCreator
func advanceCreator(ctx *Context, address string, publicKey account.PublicKey, signature account.Signature) error {
	err := ctx.Ledger.SetPublicKey(address, publicKey)
	if nil != err {
		return err
	}
	return ctx.Ledger.SetLastReference(address, signature)
}

// reset the creator's reference chain to the orphaned record's own
// reference; undoing an account's first transaction also forgets its
// public key, restoring the unknown-key verdicts of the prior state
func rollbackCreator(ctx *Context, address string, reference account.Signature) error {
	if isFirstReference(reference) {
		err := ctx.Ledger.SetLastReference(address, nil)
		if nil != err {
			return err
		}
		return ctx.Ledger.SetPublicKey(address, nil)
	}
	return ctx.Ledger.SetLastReference(address, reference)
}

// fetch the stored record being orphaned; an absent record means the
// caller is reversing a transaction that was never processed
func storedRecord(ctx *Context, txID account.Signature) (transactionrecord.Transaction, error) {
	stored, err := ctx.Ledger.GetTransaction(txID)
	if fault.ErrTransactionNotFound == err {
		return nil, fault.ErrMissingPreviousTransaction
	}
	return stored, err
}

// genesis

func processGenesis(ctx *Context, tx transactionrecord.Transaction) error {
	genesis := tx.(*transactionrecord.Genesis)

	err := credit(ctx, genesis.Recipient, genesis.AssetID, genesis.Amount)
	if nil != err {
		return err
	}
	return ctx.Ledger.SaveTransaction(genesis)
}

func orphanGenesis(ctx *Context, tx transactionrecord.Transaction) error {
	genesis := tx.(*transactionrecord.Genesis)

	_, err := storedRecord(ctx, genesis.TxID())
	if nil != err {
		return err
	}

	err = debit(ctx, genesis.Recipient, genesis.AssetID, genesis.Amount)
	if nil != err {
		return err
	}
	return ctx.Ledger.DeleteTransaction(genesis.TxID())
}

// payment

func processPayment(ctx *Context, tx transactionrecord.Transaction) error {
	payment := tx.(*transactionrecord.Payment)

	sender, err := account.AddressFromPublicKey(payment.Creator, ctx.Testnet)
	if nil != err {
		return err
	}

	err = debit(ctx, sender, payment.AssetID, payment.Amount)
	if nil != err {
		return err
	}
	err = debit(ctx, sender, BaseAssetID, payment.Fee)
	if nil != err {
		return err
	}
	err = credit(ctx, payment.Recipient, payment.AssetID, payment.Amount)
	if nil != err {
		return err
	}

	err = advanceCreator(ctx, sender, payment.Creator, payment.Signature)
	if nil != err {
		return err
	}
	return ctx.Ledger.SaveTransaction(payment)
}

func orphanPayment(ctx *Context, tx transactionrecord.Transaction) error {
	payment := tx.(*transactionrecord.Payment)

	_, err := storedRecord(ctx, payment.TxID())
	if nil != err {
		return err
	}

	sender, err := account.AddressFromPublicKey(payment.Creator, ctx.Testnet)
	if nil != err {
		return err
	}

	err = debit(ctx, payment.Recipient, payment.AssetID, payment.Amount)
	if nil != err {
		return err
	}
	err = credit(ctx, sender, BaseAssetID, payment.Fee)
	if nil != err {
		return err
	}
	err = credit(ctx, sender, payment.AssetID, payment.Amount)
	if nil != err {
		return err
	}

	err = rollbackCreator(ctx, sender, payment.Reference)
	if nil != err {
		return err
	}
	return ctx.Ledger.DeleteTransaction(payment.TxID())
}

// reward share

func processRewardShare(ctx *Context, tx transactionrecord.Transaction) error {
	share := tx.(*transactionrecord.RewardShare)

	minter, err := account.AddressFromPublicKey(share.Minter, ctx.Testnet)
	if nil != err {
		return err
	}

	// capture the overwritten share so orphan needs no lookups
	existing, err := ctx.Ledger.GetRewardShare(share.Minter, share.Recipient)
	if nil != err {
		return err
	}
	share.PreviousShare = nil
	if nil != existing {
		previous := existing.SharePercent
		share.PreviousShare = &previous
	}

	err = ctx.Ledger.SaveRewardShare(&ledger.RewardShareRecord{
		MinterPublicKey: share.Minter,
		Recipient:       share.Recipient,
		ProxyPublicKey:  share.ProxyPublicKey,
		SharePercent:    share.SharePercent,
	})
	if nil != err {
		return err
	}

	err = debit(ctx, minter, BaseAssetID, share.Fee)
	if nil != err {
		return err
	}

	err = advanceCreator(ctx, minter, share.Minter, share.Signature)
	if nil != err {
		return err
	}
	return ctx.Ledger.SaveTransaction(share)
}

func orphanRewardShare(ctx *Context, tx transactionrecord.Transaction) error {
	share := tx.(*transactionrecord.RewardShare)

	stored, err := storedRecord(ctx, share.TxID())
	if nil != err {
		return err
	}
	record, ok := stored.(*transactionrecord.RewardShare)
	if !ok {
		return fault.ErrMissingPreviousTransaction
	}

	minter, err := account.AddressFromPublicKey(share.Minter, ctx.Testnet)
	if nil != err {
		return err
	}

	// restore the captured assignment, or remove it when this
	// transaction created the entry
	if nil != record.PreviousShare {
		err = ctx.Ledger.SaveRewardShare(&ledger.RewardShareRecord{
			MinterPublicKey: share.Minter,
			Recipient:       share.Recipient,
			ProxyPublicKey:  share.ProxyPublicKey,
			SharePercent:    *record.PreviousShare,
		})
	} else {
		err = ctx.Ledger.DeleteRewardShare(share.Minter, share.Recipient)
	}
	if nil != err {
		return err
	}

	err = credit(ctx, minter, BaseAssetID, share.Fee)
	if nil != err {
		return err
	}

	err = rollbackCreator(ctx, minter, share.Reference)
	if nil != err {
		return err
	}

	share.PreviousShare = nil
	return ctx.Ledger.DeleteTransaction(share.TxID())
}

// create group

func processCreateGroup(ctx *Context, tx transactionrecord.Transaction) error {
	group := tx.(*transactionrecord.CreateGroup)

	owner, err := account.AddressFromPublicKey(group.Creator, ctx.Testnet)
	if nil != err {
		return err
	}

	groupID, err := ctx.Ledger.NextGroupID()
	if nil != err {
		return err
	}
	group.GroupID = &groupID

	err = ctx.Ledger.SaveGroup(&ledger.GroupRecord{
		ID:                groupID,
		Owner:             owner,
		Name:              group.Name,
		Description:       group.Description,
		ApprovalThreshold: group.ApprovalThreshold,
		MinimumBlockDelay: group.MinimumBlockDelay,
		MaximumBlockDelay: group.MaximumBlockDelay,
	})
	if nil != err {
		return err
	}

	err = debit(ctx, owner, BaseAssetID, group.Fee)
	if nil != err {
		return err
	}

	err = advanceCreator(ctx, owner, group.Creator, group.Signature)
	if nil != err {
		return err
	}
	return ctx.Ledger.SaveTransaction(group)
}

func orphanCreateGroup(ctx *Context, tx transactionrecord.Transaction) error {
	group := tx.(*transactionrecord.CreateGroup)

	stored, err := storedRecord(ctx, group.TxID())
	if nil != err {
		return err
	}
	record, ok := stored.(*transactionrecord.CreateGroup)
	if !ok {
		return fault.ErrMissingPreviousTransaction
	}
	if nil == record.GroupID {
		return fault.ErrMissingGroupAssignment
	}

	owner, err := account.AddressFromPublicKey(group.Creator, ctx.Testnet)
	if nil != err {
		return err
	}

	err = ctx.Ledger.DeleteGroup(*record.GroupID)
	if nil != err {
		return err
	}

	// orphaning runs in strict reverse order so the released id is
	// always the most recently allocated one
	err = ctx.Ledger.ReleaseGroupID(*record.GroupID)
	if nil != err {
		return err
	}

	err = credit(ctx, owner, BaseAssetID, group.Fee)
	if nil != err {
		return err
	}

	err = rollbackCreator(ctx, owner, group.Reference)
	if nil != err {
		return err
	}

	group.GroupID = nil
	return ctx.Ledger.DeleteTransaction(group.TxID())
}
