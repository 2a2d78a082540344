// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Meridian Chain Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package transactionrecord

import (
	"encoding/binary"

	"github.com/meridian-chain/meridiand/account"
	"github.com/meridian-chain/meridiand/fault"
)

// Pack - Genesis
//
// four byte tag followed by fields in order as struct above; genesis
// records are unsigned so the result is complete
func (genesis *Genesis) Pack() (Packed, error) {
	if 0 == len(genesis.Recipient) || len(genesis.Recipient) > maxAddressLength {
		return nil, fault.ErrAddressTooLong
	}

	// concatenate bytes
	message := appendUint32(nil, uint32(GenesisTag))
	message = appendUint64(message, uint64(genesis.Timestamp))
	message = appendString(message, genesis.Recipient)
	message = appendUint64(message, genesis.Amount.Uint64())
	message = appendUint64(message, genesis.AssetID)

	return message, nil
}

// Pack - Payment
//
// four byte tag followed by fields in order as struct above with
// signature last
//
// NOTE: returns the "unsigned" message on signature failure - for
//       signing and debugging/testing
func (payment *Payment) Pack() (Packed, error) {
	if len(payment.Creator) != account.PublicKeySize {
		return nil, fault.ErrInvalidPublicKeyLength
	}
	if len(payment.Reference) != account.SignatureSize {
		return nil, fault.ErrInvalidSignatureLength
	}
	if 0 == len(payment.Recipient) || len(payment.Recipient) > maxAddressLength {
		return nil, fault.ErrAddressTooLong
	}

	// concatenate bytes
	message := appendUint32(nil, uint32(PaymentTag))
	message = appendUint64(message, uint64(payment.Timestamp))
	message = append(message, payment.Creator...)
	message = append(message, payment.Reference...)
	message = appendString(message, payment.Recipient)
	message = appendUint64(message, payment.Amount.Uint64())
	message = appendUint64(message, payment.AssetID)
	message = appendUint64(message, payment.Fee.Uint64())

	// signature
	err := account.CheckSignature(payment.Creator, message, payment.Signature)
	if nil != err {
		return message, err
	}

	// signature last
	return append(message, payment.Signature...), nil
}

// Pack - RewardShare
//
// four byte tag followed by fields in order as struct above with
// signature last; the captured previous share is never packed
//
// NOTE: returns the "unsigned" message on signature failure - for
//       signing and debugging/testing
func (share *RewardShare) Pack() (Packed, error) {
	if len(share.Minter) != account.PublicKeySize {
		return nil, fault.ErrInvalidPublicKeyLength
	}
	if len(share.Reference) != account.SignatureSize {
		return nil, fault.ErrInvalidSignatureLength
	}
	if 0 == len(share.Recipient) || len(share.Recipient) > maxAddressLength {
		return nil, fault.ErrAddressTooLong
	}
	if len(share.ProxyPublicKey) != account.PublicKeySize {
		return nil, fault.ErrInvalidPublicKeyLength
	}

	// concatenate bytes
	message := appendUint32(nil, uint32(RewardShareTag))
	message = appendUint64(message, uint64(share.Timestamp))
	message = append(message, share.Minter...)
	message = append(message, share.Reference...)
	message = appendString(message, share.Recipient)
	message = append(message, share.ProxyPublicKey...)
	message = appendUint64(message, uint64(share.SharePercent))
	message = appendUint64(message, share.Fee.Uint64())

	// signature
	err := account.CheckSignature(share.Minter, message, share.Signature)
	if nil != err {
		return message, err
	}

	// signature last
	return append(message, share.Signature...), nil
}

// Pack - CreateGroup
//
// four byte tag followed by fields in order as struct above with
// signature last; the assigned group id is never packed
//
// NOTE: returns the "unsigned" message on signature failure - for
//       signing and debugging/testing
func (group *CreateGroup) Pack() (Packed, error) {
	if len(group.Creator) != account.PublicKeySize {
		return nil, fault.ErrInvalidPublicKeyLength
	}
	if len(group.Reference) != account.SignatureSize {
		return nil, fault.ErrInvalidSignatureLength
	}
	if len(group.Name) > maxPackNameLength {
		return nil, fault.ErrNameTooLong
	}
	if len(group.Description) > maxPackDescriptionLength {
		return nil, fault.ErrDescriptionTooLong
	}

	// concatenate bytes
	message := appendUint32(nil, uint32(CreateGroupTag))
	message = appendUint64(message, uint64(group.Timestamp))
	message = append(message, group.Creator...)
	message = append(message, group.Reference...)
	message = appendString(message, group.Name)
	message = appendString(message, group.Description)
	message = appendUint32(message, uint32(group.ApprovalThreshold))
	message = appendUint32(message, uint32(group.MinimumBlockDelay))
	message = appendUint32(message, uint32(group.MaximumBlockDelay))
	message = appendUint64(message, group.Fee.Uint64())

	// signature
	err := account.CheckSignature(group.Creator, message, group.Signature)
	if nil != err {
		return message, err
	}

	// signature last
	return append(message, group.Signature...), nil
}

// append a big-endian uint32 to a buffer
func appendUint32(buffer Packed, value uint32) Packed {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], value)
	return append(buffer, b[:]...)
}

// append a big-endian uint64 to a buffer
func appendUint64(buffer Packed, value uint64) Packed {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], value)
	return append(buffer, b[:]...)
}

// append a string field to a buffer
//
// the field is prefixed by a two byte big-endian length
func appendString(buffer Packed, s string) Packed {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], uint16(len(s)))
	buffer = append(buffer, b[:]...)
	return append(buffer, s...)
}
