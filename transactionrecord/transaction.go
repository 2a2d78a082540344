// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Meridian Chain Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package transactionrecord - deterministic binary transaction encoding
//
// every variant has a fixed big-endian layout: a four byte type tag,
// an eight byte timestamp, fixed width key/reference fields, length
// prefixed strings and the signature last, so that two independent
// implementations produce byte-identical encodings and therefore
// identical signatures
package transactionrecord

import (
	"encoding/binary"
	"encoding/hex"

	"golang.org/x/crypto/sha3"

	"github.com/meridian-chain/meridiand/account"
	"github.com/meridian-chain/meridiand/amount"
)

// TagType - type code for transactions
type TagType uint32

// enumerate the possible transaction record types
// this is encoded big-endian in the first four bytes of "Packed"
const (
	// null marks beginning of list - not used as a record type
	NullTag = TagType(iota)

	// valid record types
	GenesisTag     = TagType(iota) // bootstrap credit, first block only
	PaymentTag     = TagType(iota) // transfer an amount between accounts
	RewardShareTag = TagType(iota) // proxy forging assignment
	CreateGroupTag = TagType(iota) // register a named group

	// this item must be last
	InvalidTag = TagType(iota)
)

// byte sizes for various fields
const (
	TagLength       = 4
	TimestampLength = 8
	AmountLength    = 8
	AssetIDLength   = 8

	// structural packing limits, consensus bounds are narrower and
	// enforced by validation
	maxAddressLength         = 128
	maxPackNameLength        = 255
	maxPackDescriptionLength = 1024
)

// consensus bounds checked by validation
const (
	MaxNameLength        = 32
	MaxDescriptionLength = 128
)

// share percent carries two implied decimal places: 1234 = 12.34%
const (
	SharePercentScale = 100
	MaxSharePercent   = 100 * SharePercentScale
)

// ApprovalThreshold - how many group admins must approve a pending
// transaction, closed enumeration
type ApprovalThreshold uint32

// all possible approval thresholds
const (
	ApprovalNone     = ApprovalThreshold(iota) // no approval required
	ApprovalOne      = ApprovalThreshold(iota) // any single admin
	ApprovalPct20    = ApprovalThreshold(iota)
	ApprovalPct40    = ApprovalThreshold(iota)
	ApprovalMajority = ApprovalThreshold(iota)
	ApprovalPct60    = ApprovalThreshold(iota)
	ApprovalPct80    = ApprovalThreshold(iota)
	ApprovalAll      = ApprovalThreshold(iota)

	approvalLimit = ApprovalThreshold(iota)
)

// Valid - true for a member of the closed enumeration
func (threshold ApprovalThreshold) Valid() bool {
	return threshold < approvalLimit
}

// Packed - packed records are just a byte slice
type Packed []byte

// Transaction - generic transaction interface
type Transaction interface {

	// Pack returns the canonical byte encoding, verifying any
	// embedded signature; on signature failure the unsigned message
	// bytes are returned together with the error so callers can sign
	Pack() (Packed, error)

	// TxID is the unique content-derived identifier: the signature
	// for signed variants, a digest of the packed bytes for genesis
	TxID() account.Signature
}

// Genesis - bootstrap credit for one recipient
//
// structurally distinct: no creator, fee, reference or signature;
// authorised by the null account sentinel
type Genesis struct {
	Timestamp int64         `json:"timestamp"`
	Recipient string        `json:"recipient"` // base58
	Amount    amount.Amount `json:"amount"`
	AssetID   uint64        `json:"assetId"`
}

// Payment - transfer an amount of one asset between two accounts
type Payment struct {
	Timestamp int64             `json:"timestamp"`
	Creator   account.PublicKey `json:"creator"`   // hex
	Reference account.Signature `json:"reference"` // hex: creator's previous tx signature
	Recipient string            `json:"recipient"` // base58
	Amount    amount.Amount     `json:"amount"`
	AssetID   uint64            `json:"assetId"`
	Fee       amount.Amount     `json:"fee"`
	Signature account.Signature `json:"signature"` // hex
}

// RewardShare - delegate block forging to a proxy key for a
// percentage split of rewards
//
// PreviousShare is not part of the wire encoding: it is captured
// during process so that orphan can restore the prior assignment
// without further lookups
type RewardShare struct {
	Timestamp      int64             `json:"timestamp"`
	Minter         account.PublicKey `json:"minter"`    // hex
	Reference      account.Signature `json:"reference"` // hex
	Recipient      string            `json:"recipient"` // base58
	ProxyPublicKey account.PublicKey `json:"proxyPublicKey"` // hex
	SharePercent   int64             `json:"sharePercent"`   // 2 implied decimals
	Fee            amount.Amount     `json:"fee"`
	Signature      account.Signature `json:"signature"` // hex

	PreviousShare *int64 `json:"previousShare,omitempty"` // annotation only
}

// CreateGroup - register a new named group owned by the creator
//
// GroupID is not part of the wire encoding: it is assigned during
// process and cleared again by orphan
type CreateGroup struct {
	Timestamp         int64             `json:"timestamp"`
	Creator           account.PublicKey `json:"creator"`   // hex
	Reference         account.Signature `json:"reference"` // hex
	Name              string            `json:"name"`        // utf-8, must be lowercase
	Description       string            `json:"description"` // utf-8
	ApprovalThreshold ApprovalThreshold `json:"approvalThreshold"`
	MinimumBlockDelay int32             `json:"minimumBlockDelay"`
	MaximumBlockDelay int32             `json:"maximumBlockDelay"`
	Fee               amount.Amount     `json:"fee"`
	Signature         account.Signature `json:"signature"` // hex

	GroupID *uint64 `json:"groupId,omitempty"` // annotation only
}

// Type - returns the record type code
func (record Packed) Type() TagType {
	if len(record) < TagLength {
		return NullTag
	}
	return TagType(binary.BigEndian.Uint32(record))
}

// RecordName - returns the name of a transaction record as a string
func RecordName(record interface{}) (string, bool) {
	switch record.(type) {
	case *Genesis, Genesis:
		return "Genesis", true

	case *Payment, Payment:
		return "Payment", true

	case *RewardShare, RewardShare:
		return "RewardShare", true

	case *CreateGroup, CreateGroup:
		return "CreateGroup", true

	default:
		return "*unknown*", false
	}
}

// TxID - signature of a signed record
func (payment *Payment) TxID() account.Signature {
	return payment.Signature
}

// TxID - signature of a signed record
func (share *RewardShare) TxID() account.Signature {
	return share.Signature
}

// TxID - signature of a signed record
func (group *CreateGroup) TxID() account.Signature {
	return group.Signature
}

// TxID - genesis records carry no signature so the identifier is a
// SHA3-512 digest of the packed bytes, same width as a signature
func (genesis *Genesis) TxID() account.Signature {
	packed, err := genesis.Pack()
	if nil != err {
		return nil
	}
	digest := sha3.Sum512(packed)
	return digest[:]
}

// MarshalText - convert a packed to its hex JSON form
func (record Packed) MarshalText() ([]byte, error) {
	size := hex.EncodedLen(len(record))
	b := make([]byte, size)
	hex.Encode(b, record)
	return b, nil
}

// UnmarshalText - convert a packed from its hex JSON form
func (record *Packed) UnmarshalText(s []byte) error {
	size := hex.DecodedLen(len(s))
	*record = make([]byte, size)
	_, err := hex.Decode(*record, s)
	return err
}
