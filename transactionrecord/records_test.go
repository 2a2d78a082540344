// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Meridian Chain Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package transactionrecord_test

import (
	"crypto/rand"
	"testing"

	"golang.org/x/crypto/ed25519"

	"github.com/meridian-chain/meridiand/account"
	"github.com/meridian-chain/meridiand/fault"
	"github.com/meridian-chain/meridiand/transactionrecord"
)

// a key pair for signing test records
type keyPair struct {
	publicKey  account.PublicKey
	privateKey ed25519.PrivateKey
	address    string
}

func makeKeyPair(t *testing.T) keyPair {
	t.Helper()
	publicKey, privateKey, err := ed25519.GenerateKey(rand.Reader)
	if nil != err {
		t.Fatalf("key generation error: %s", err)
	}
	address, err := account.AddressFromPublicKey(account.PublicKey(publicKey), true)
	if nil != err {
		t.Fatalf("address derivation error: %s", err)
	}
	return keyPair{
		publicKey:  account.PublicKey(publicKey),
		privateKey: privateKey,
		address:    address,
	}
}

// zero-filled reference for a first transaction
func nullReference() account.Signature {
	return make(account.Signature, account.SignatureSize)
}

// sign an unsigned message produced by a failed Pack
func sign(t *testing.T, message []byte, err error, key keyPair) account.Signature {
	t.Helper()
	if fault.ErrInvalidSignatureLength != err {
		t.Fatalf("unsigned pack: unexpected error: %v", err)
	}
	return account.Signature(ed25519.Sign(key.privateKey, message))
}

// every truncated prefix of a packed record must fail to decode
func rejectTruncations(t *testing.T, packed transactionrecord.Packed) {
	t.Helper()
	for i := 0; i < len(packed); i += 1 {
		tx, err := transactionrecord.Decode(packed[:i])
		if nil == err {
			t.Fatalf("truncated buffer of %d bytes decoded: %v", i, tx)
		}
	}
}
