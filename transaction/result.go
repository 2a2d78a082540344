// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Meridian Chain Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package transaction

// Result - validation outcome
//
// a closed enumeration: callers such as mempool admission and block
// assembly branch on the specific code, never on a plain boolean
type Result int

// all possible validation outcomes
const (
	OK = Result(iota)
	InvalidTransactionType
	InvalidAddress
	InvalidPublicKey
	PublicKeyUnknown
	InvalidReference
	NoBalance
	NegativeFee
	InvalidAmount
	InvalidNameLength
	InvalidDescriptionLength
	NameNotLowercase
	GroupAlreadyExists
	InvalidGroupApprovalThreshold
	InvalidGroupBlockDelay
	InvalidShare
	NoForgingPermission
	NotGenesisContext
)

// String - outcome represented as a string
func (result Result) String() string {
	switch result {
	case OK:
		return "OK"
	case InvalidTransactionType:
		return "InvalidTransactionType"
	case InvalidAddress:
		return "InvalidAddress"
	case InvalidPublicKey:
		return "InvalidPublicKey"
	case PublicKeyUnknown:
		return "PublicKeyUnknown"
	case InvalidReference:
		return "InvalidReference"
	case NoBalance:
		return "NoBalance"
	case NegativeFee:
		return "NegativeFee"
	case InvalidAmount:
		return "InvalidAmount"
	case InvalidNameLength:
		return "InvalidNameLength"
	case InvalidDescriptionLength:
		return "InvalidDescriptionLength"
	case NameNotLowercase:
		return "NameNotLowercase"
	case GroupAlreadyExists:
		return "GroupAlreadyExists"
	case InvalidGroupApprovalThreshold:
		return "InvalidGroupApprovalThreshold"
	case InvalidGroupBlockDelay:
		return "InvalidGroupBlockDelay"
	case InvalidShare:
		return "InvalidShare"
	case NoForgingPermission:
		return "NoForgingPermission"
	case NotGenesisContext:
		return "NotGenesisContext"
	default:
		return "*unknown*"
	}
}
