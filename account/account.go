// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Meridian Chain Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package account - account identity handling
//
// an account is identified by its ed25519 public key, the address is
// a base58 string derived from the key: a one byte network flag, a
// truncated SHA3 digest of the key and a four byte SHA3 checksum
package account

import (
	"bytes"

	"github.com/mr-tron/base58"
	"golang.org/x/crypto/ed25519"
	"golang.org/x/crypto/sha3"

	"github.com/meridian-chain/meridiand/fault"
)

// sizes of various fields
const (
	PublicKeySize = ed25519.PublicKeySize // 32
	SignatureSize = ed25519.SignatureSize // 64

	digestLength   = 20
	checksumLength = 4
	addressLength  = 1 + digestLength + checksumLength
)

// network flag - first byte of the decoded address
const (
	livenetFlag byte = 0x37
	testnetFlag byte = 0x68
)

// PublicKey - raw ed25519 public key bytes
type PublicKey []byte

// NullPublicKey - all-zero sentinel used as the authoriser of
// genesis transactions, which carry no signature
var NullPublicKey = PublicKey(make([]byte, PublicKeySize))

// IsNull - true for the genesis sentinel key
func (publicKey PublicKey) IsNull() bool {
	return bytes.Equal(publicKey, NullPublicKey)
}

// AddressFromPublicKey - derive the base58 address for a public key
func AddressFromPublicKey(publicKey PublicKey, testnet bool) (string, error) {
	if len(publicKey) != PublicKeySize {
		return "", fault.ErrInvalidPublicKeyLength
	}

	flag := livenetFlag
	if testnet {
		flag = testnetFlag
	}

	digest := sha3.Sum256(publicKey)

	payload := make([]byte, 0, addressLength)
	payload = append(payload, flag)
	payload = append(payload, digest[:digestLength]...)

	checkDigest := sha3.Sum256(payload)
	payload = append(payload, checkDigest[:checksumLength]...)

	return base58.Encode(payload), nil
}

// ValidateAddress - structural check of a base58 address
//
// verifies decodability, length, network flag and checksum but says
// nothing about whether the account exists in the ledger
func ValidateAddress(address string) error {
	payload, err := base58.Decode(address)
	if nil != err {
		return fault.ErrCannotDecodeAddress
	}
	if len(payload) != addressLength {
		return fault.ErrCannotDecodeAddress
	}

	switch payload[0] {
	case livenetFlag, testnetFlag:
	default:
		return fault.ErrWrongNetworkForAddress
	}

	checkDigest := sha3.Sum256(payload[:1+digestLength])
	if !bytes.Equal(payload[1+digestLength:], checkDigest[:checksumLength]) {
		return fault.ErrChecksumMismatch
	}

	return nil
}

// IsValidAddress - boolean wrapper for ValidateAddress
func IsValidAddress(address string) bool {
	return nil == ValidateAddress(address)
}

// CheckSignature - verify an ed25519 signature over a message
func CheckSignature(publicKey PublicKey, message []byte, signature Signature) error {
	if len(publicKey) != PublicKeySize {
		return fault.ErrInvalidPublicKeyLength
	}
	if len(signature) != SignatureSize {
		return fault.ErrInvalidSignatureLength
	}
	if !ed25519.Verify(ed25519.PublicKey(publicKey), message, []byte(signature)) {
		return fault.ErrInvalidSignature
	}
	return nil
}
