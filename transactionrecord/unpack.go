// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Meridian Chain Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package transactionrecord

import (
	"encoding/binary"

	"github.com/meridian-chain/meridiand/account"
	"github.com/meridian-chain/meridiand/amount"
	"github.com/meridian-chain/meridiand/fault"
)

// cursor over a packed record, sticky error on truncation
type unpacker struct {
	buffer Packed
	n      int
	err    error
}

func (u *unpacker) uint32() uint32 {
	if nil != u.err {
		return 0
	}
	if u.n+4 > len(u.buffer) {
		u.err = fault.ErrTransactionTruncated
		return 0
	}
	value := binary.BigEndian.Uint32(u.buffer[u.n:])
	u.n += 4
	return value
}

func (u *unpacker) uint64() uint64 {
	if nil != u.err {
		return 0
	}
	if u.n+8 > len(u.buffer) {
		u.err = fault.ErrTransactionTruncated
		return 0
	}
	value := binary.BigEndian.Uint64(u.buffer[u.n:])
	u.n += 8
	return value
}

func (u *unpacker) bytes(size int) []byte {
	if nil != u.err {
		return nil
	}
	if u.n+size > len(u.buffer) {
		u.err = fault.ErrTransactionTruncated
		return nil
	}
	b := make([]byte, size)
	copy(b, u.buffer[u.n:])
	u.n += size
	return b
}

// two byte big-endian length followed by that many bytes
func (u *unpacker) string() string {
	if nil != u.err {
		return ""
	}
	if u.n+2 > len(u.buffer) {
		u.err = fault.ErrTransactionTruncated
		return ""
	}
	size := int(binary.BigEndian.Uint16(u.buffer[u.n:]))
	u.n += 2
	if u.n+size > len(u.buffer) {
		u.err = fault.ErrTransactionTruncated
		return ""
	}
	s := string(u.buffer[u.n : u.n+size])
	u.n += size
	return s
}

// Unpack - turn a byte slice into a record
//
// must cast result to correct type, e.g.
//   payment, ok := result.(*transactionrecord.Payment)
// or:
//   switch tx := result.(type) {
//   case *transactionrecord.Payment:
func (record Packed) Unpack() (Transaction, int, error) {

	u := &unpacker{buffer: record}

	switch TagType(u.uint32()) {

	case GenesisTag:
		genesis := &Genesis{
			Timestamp: int64(u.uint64()),
			Recipient: u.string(),
			Amount:    amount.Amount(u.uint64()),
			AssetID:   u.uint64(),
		}
		if nil != u.err {
			return nil, 0, u.err
		}
		return genesis, u.n, nil

	case PaymentTag:
		payment := &Payment{
			Timestamp: int64(u.uint64()),
			Creator:   account.PublicKey(u.bytes(account.PublicKeySize)),
			Reference: account.Signature(u.bytes(account.SignatureSize)),
			Recipient: u.string(),
			Amount:    amount.Amount(u.uint64()),
			AssetID:   u.uint64(),
			Fee:       amount.Amount(u.uint64()),
		}
		payment.Signature = account.Signature(u.bytes(account.SignatureSize))
		if nil != u.err {
			return nil, 0, u.err
		}
		return payment, u.n, nil

	case RewardShareTag:
		share := &RewardShare{
			Timestamp:      int64(u.uint64()),
			Minter:         account.PublicKey(u.bytes(account.PublicKeySize)),
			Reference:      account.Signature(u.bytes(account.SignatureSize)),
			Recipient:      u.string(),
			ProxyPublicKey: account.PublicKey(u.bytes(account.PublicKeySize)),
			SharePercent:   int64(u.uint64()),
			Fee:            amount.Amount(u.uint64()),
		}
		share.Signature = account.Signature(u.bytes(account.SignatureSize))
		if nil != u.err {
			return nil, 0, u.err
		}
		return share, u.n, nil

	case CreateGroupTag:
		group := &CreateGroup{
			Timestamp:         int64(u.uint64()),
			Creator:           account.PublicKey(u.bytes(account.PublicKeySize)),
			Reference:         account.Signature(u.bytes(account.SignatureSize)),
			Name:              u.string(),
			Description:       u.string(),
			ApprovalThreshold: ApprovalThreshold(u.uint32()),
			MinimumBlockDelay: int32(u.uint32()),
			MaximumBlockDelay: int32(u.uint32()),
			Fee:               amount.Amount(u.uint64()),
		}
		group.Signature = account.Signature(u.bytes(account.SignatureSize))
		if nil != u.err {
			return nil, 0, u.err
		}
		return group, u.n, nil

	default:
		return nil, 0, fault.ErrNotTransactionPack
	}
}

// Decode - unpack a complete buffer
//
// rejects truncated buffers and buffers with trailing bytes, this is
// the entry point for records arriving from wire or storage
func Decode(buffer []byte) (Transaction, error) {
	t, n, err := Packed(buffer).Unpack()
	if nil != err {
		return nil, err
	}
	if n != len(buffer) {
		return nil, fault.ErrTrailingBytes
	}
	return t, nil
}
