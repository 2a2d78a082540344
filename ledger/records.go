// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Meridian Chain Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

import (
	"encoding/binary"

	"github.com/meridian-chain/meridiand/account"
	"github.com/meridian-chain/meridiand/fault"
	"github.com/meridian-chain/meridiand/transactionrecord"
)

// row encodings for the leveldb pools, big-endian like the wire
// format so that stored bytes are deterministic too

// stored transaction envelope: one flags byte, captured previous
// state fields, then the packed wire bytes
const (
	flagPreviousShare byte = 0x01
	flagGroupID       byte = 0x02
)

func packStoredTransaction(tx transactionrecord.Transaction) ([]byte, error) {
	packed, err := tx.Pack()
	if nil != err {
		return nil, err
	}

	flags := byte(0)
	annotations := []byte{}

	switch tx := tx.(type) {
	case *transactionrecord.RewardShare:
		if nil != tx.PreviousShare {
			flags |= flagPreviousShare
			annotations = appendUint64(annotations, uint64(*tx.PreviousShare))
		}
	case *transactionrecord.CreateGroup:
		if nil != tx.GroupID {
			flags |= flagGroupID
			annotations = appendUint64(annotations, *tx.GroupID)
		}
	}

	buffer := make([]byte, 0, 1+len(annotations)+len(packed))
	buffer = append(buffer, flags)
	buffer = append(buffer, annotations...)
	return append(buffer, packed...), nil
}

func unpackStoredTransaction(buffer []byte) (transactionrecord.Transaction, error) {
	if 0 == len(buffer) {
		return nil, fault.ErrTransactionTruncated
	}

	flags := buffer[0]
	n := 1

	var previousShare *int64
	var groupID *uint64

	if 0 != flags&flagPreviousShare {
		if n+8 > len(buffer) {
			return nil, fault.ErrTransactionTruncated
		}
		share := int64(binary.BigEndian.Uint64(buffer[n:]))
		previousShare = &share
		n += 8
	}
	if 0 != flags&flagGroupID {
		if n+8 > len(buffer) {
			return nil, fault.ErrTransactionTruncated
		}
		id := binary.BigEndian.Uint64(buffer[n:])
		groupID = &id
		n += 8
	}

	tx, err := transactionrecord.Decode(buffer[n:])
	if nil != err {
		return nil, err
	}

	switch tx := tx.(type) {
	case *transactionrecord.RewardShare:
		tx.PreviousShare = previousShare
	case *transactionrecord.CreateGroup:
		tx.GroupID = groupID
	}

	return tx, nil
}

// account row: public key and last reference, both length prefixed
func packAccountState(state *AccountState) []byte {
	buffer := []byte{byte(len(state.PublicKey))}
	buffer = append(buffer, state.PublicKey...)
	buffer = append(buffer, byte(len(state.LastReference)))
	return append(buffer, state.LastReference...)
}

func unpackAccountState(address string, buffer []byte) (*AccountState, error) {
	state := &AccountState{Address: address}

	if 0 == len(buffer) {
		return nil, fault.ErrTransactionTruncated
	}
	n := 1
	keyLength := int(buffer[0])
	if n+keyLength+1 > len(buffer) {
		return nil, fault.ErrTransactionTruncated
	}
	if keyLength > 0 {
		state.PublicKey = account.PublicKey(buffer[n : n+keyLength])
	}
	n += keyLength

	refLength := int(buffer[n])
	n += 1
	if n+refLength != len(buffer) {
		return nil, fault.ErrTransactionTruncated
	}
	if refLength > 0 {
		state.LastReference = account.Signature(buffer[n : n+refLength])
	}

	return state, nil
}

// group row: owner, name, description, threshold, delays
func packGroup(group *GroupRecord) []byte {
	buffer := appendString2(nil, group.Owner)
	buffer = appendString2(buffer, group.Name)
	buffer = appendString2(buffer, group.Description)
	buffer = appendUint32(buffer, uint32(group.ApprovalThreshold))
	buffer = appendUint32(buffer, uint32(group.MinimumBlockDelay))
	return appendUint32(buffer, uint32(group.MaximumBlockDelay))
}

func unpackGroup(groupID uint64, buffer []byte) (*GroupRecord, error) {
	group := &GroupRecord{ID: groupID}
	n := 0
	var err error

	group.Owner, n, err = readString2(buffer, n)
	if nil != err {
		return nil, err
	}
	group.Name, n, err = readString2(buffer, n)
	if nil != err {
		return nil, err
	}
	group.Description, n, err = readString2(buffer, n)
	if nil != err {
		return nil, err
	}
	if n+12 != len(buffer) {
		return nil, fault.ErrTransactionTruncated
	}
	group.ApprovalThreshold = transactionrecord.ApprovalThreshold(binary.BigEndian.Uint32(buffer[n:]))
	group.MinimumBlockDelay = int32(binary.BigEndian.Uint32(buffer[n+4:]))
	group.MaximumBlockDelay = int32(binary.BigEndian.Uint32(buffer[n+8:]))

	return group, nil
}

// reward share row: proxy public key and share percent
func packRewardShare(record *RewardShareRecord) []byte {
	buffer := append([]byte{}, record.ProxyPublicKey...)
	return appendUint64(buffer, uint64(record.SharePercent))
}

func unpackRewardShare(minter account.PublicKey, recipient string, buffer []byte) (*RewardShareRecord, error) {
	if account.PublicKeySize+8 != len(buffer) {
		return nil, fault.ErrTransactionTruncated
	}
	return &RewardShareRecord{
		MinterPublicKey: append(account.PublicKey{}, minter...),
		Recipient:       recipient,
		ProxyPublicKey:  account.PublicKey(buffer[:account.PublicKeySize]),
		SharePercent:    int64(binary.BigEndian.Uint64(buffer[account.PublicKeySize:])),
	}, nil
}

// little append/read helpers

func appendUint32(buffer []byte, value uint32) []byte {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], value)
	return append(buffer, b[:]...)
}

func appendUint64(buffer []byte, value uint64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], value)
	return append(buffer, b[:]...)
}

func appendString2(buffer []byte, s string) []byte {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], uint16(len(s)))
	buffer = append(buffer, b[:]...)
	return append(buffer, s...)
}

func readString2(buffer []byte, n int) (string, int, error) {
	if n+2 > len(buffer) {
		return "", 0, fault.ErrTransactionTruncated
	}
	size := int(binary.BigEndian.Uint16(buffer[n:]))
	n += 2
	if n+size > len(buffer) {
		return "", 0, fault.ErrTransactionTruncated
	}
	return string(buffer[n : n+size]), n + size, nil
}

func uint64Key(value uint64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], value)
	return b[:]
}
