// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Meridian Chain Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package transaction

import (
	"bytes"
	"strings"

	"github.com/meridian-chain/meridiand/account"
	"github.com/meridian-chain/meridiand/amount"
	"github.com/meridian-chain/meridiand/transactionrecord"
)

// minimum asset 0 balance an account must hold before it may create
// reward share assignments
const minimumForgingBalance = amount.Amount(1000 * amount.Scale)

// a never-used account stores no reference, the corresponding wire
// encoding is an all-zero reference field
func referenceMatches(stored account.Signature, wire account.Signature) bool {
	if 0 == len(stored) {
		return bytes.Equal(wire, make(account.Signature, account.SignatureSize))
	}
	return bytes.Equal(stored, wire)
}

// common validation tail shared by every fee-bearing variant: fee
// positivity, reference chain match, creator balance covering the fee
// plus any transferred amount
//
// the check order is fixed: every node must report the same outcome
// for the same ledger state
func validateTail(
	ctx *Context,
	creator account.PublicKey,
	reference account.Signature,
	fee amount.Amount,
	transferred amount.Amount,
) (Result, error) {

	if len(creator) != account.PublicKeySize {
		return InvalidPublicKey, nil
	}

	if fee <= 0 {
		return NegativeFee, nil
	}

	address, err := account.AddressFromPublicKey(creator, ctx.Testnet)
	if nil != err {
		return InvalidPublicKey, nil
	}

	state, err := ctx.Ledger.GetAccount(address)
	if nil != err {
		return OK, err
	}
	var stored account.Signature
	if nil != state {
		stored = state.LastReference
	}
	if !referenceMatches(stored, reference) {
		return InvalidReference, nil
	}

	balance, err := ctx.Ledger.Balance(address, BaseAssetID)
	if nil != err {
		return OK, err
	}
	if balance < fee+transferred {
		return NoBalance, nil
	}

	return OK, nil
}

// genesis records are implicitly valid, but only while bootstrapping
// an empty chain
func validateGenesis(ctx *Context, tx transactionrecord.Transaction) (Result, error) {
	_ = tx.(*transactionrecord.Genesis)
	if 0 != ctx.Height {
		return NotGenesisContext, nil
	}
	return OK, nil
}

func validatePayment(ctx *Context, tx transactionrecord.Transaction) (Result, error) {
	payment := tx.(*transactionrecord.Payment)

	if payment.Amount <= 0 {
		return InvalidAmount, nil
	}

	if !account.IsValidAddress(payment.Recipient) {
		return InvalidAddress, nil
	}

	// payment transfers the base asset, so the fee check must cover
	// amount and fee together; other assets debit the asset balance
	// separately and only the fee comes from asset 0
	transferred := amount.Amount(0)
	if BaseAssetID == payment.AssetID {
		transferred = payment.Amount
	} else {
		address, err := account.AddressFromPublicKey(payment.Creator, ctx.Testnet)
		if nil != err {
			return InvalidPublicKey, nil
		}
		balance, err := ctx.Ledger.Balance(address, payment.AssetID)
		if nil != err {
			return OK, err
		}
		if balance < payment.Amount {
			return NoBalance, nil
		}
	}

	return validateTail(ctx, payment.Creator, payment.Reference, payment.Fee, transferred)
}

func validateRewardShare(ctx *Context, tx transactionrecord.Transaction) (Result, error) {
	share := tx.(*transactionrecord.RewardShare)

	if share.SharePercent <= 0 || share.SharePercent >= transactionrecord.MaxSharePercent {
		return InvalidShare, nil
	}

	if len(share.Minter) != account.PublicKeySize {
		return InvalidPublicKey, nil
	}

	// forging eligibility: a minimum confirmed balance on the base
	// asset
	minterAddress, err := account.AddressFromPublicKey(share.Minter, ctx.Testnet)
	if nil != err {
		return InvalidPublicKey, nil
	}
	balance, err := ctx.Ledger.Balance(minterAddress, BaseAssetID)
	if nil != err {
		return OK, err
	}
	if balance < minimumForgingBalance {
		return NoForgingPermission, nil
	}

	if len(share.ProxyPublicKey) != account.PublicKeySize {
		return InvalidPublicKey, nil
	}

	if !account.IsValidAddress(share.Recipient) {
		return InvalidAddress, nil
	}

	// the recipient must have transacted before so its public key is
	// on record
	recipient, err := ctx.Ledger.GetAccount(share.Recipient)
	if nil != err {
		return OK, err
	}
	if nil == recipient || 0 == len(recipient.PublicKey) {
		return PublicKeyUnknown, nil
	}

	return validateTail(ctx, share.Minter, share.Reference, share.Fee, 0)
}

func validateCreateGroup(ctx *Context, tx transactionrecord.Transaction) (Result, error) {
	group := tx.(*transactionrecord.CreateGroup)

	if len(group.Creator) != account.PublicKeySize {
		return InvalidPublicKey, nil
	}

	if !group.ApprovalThreshold.Valid() {
		return InvalidGroupApprovalThreshold, nil
	}

	if group.MinimumBlockDelay < 0 {
		return InvalidGroupBlockDelay, nil
	}
	if group.MaximumBlockDelay < 1 || group.MaximumBlockDelay < group.MinimumBlockDelay {
		return InvalidGroupBlockDelay, nil
	}

	if 0 == len(group.Name) || len(group.Name) > transactionrecord.MaxNameLength {
		return InvalidNameLength, nil
	}
	if 0 == len(group.Description) || len(group.Description) > transactionrecord.MaxDescriptionLength {
		return InvalidDescriptionLength, nil
	}

	// case sensitivity is a consensus rule, names are never silently
	// normalised
	if group.Name != strings.ToLower(group.Name) {
		return NameNotLowercase, nil
	}

	return validateTail(ctx, group.Creator, group.Reference, group.Fee, 0)
}

// re-checked at inclusion time: an earlier transaction in the same
// block may have taken the name since validation ran
func isProcessableCreateGroup(ctx *Context, tx transactionrecord.Transaction) (Result, error) {
	group := tx.(*transactionrecord.CreateGroup)

	exists, err := ctx.Ledger.GroupExists(group.Name)
	if nil != err {
		return OK, err
	}
	if exists {
		return GroupAlreadyExists, nil
	}
	return OK, nil
}
