// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Meridian Chain Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package account_test

import (
	"crypto/rand"
	"testing"

	"golang.org/x/crypto/ed25519"

	"github.com/meridian-chain/meridiand/account"
	"github.com/meridian-chain/meridiand/fault"
)

// derive an address and check that it validates
func TestAddressRoundTrip(t *testing.T) {

	publicKey, _, err := ed25519.GenerateKey(rand.Reader)
	if nil != err {
		t.Fatalf("key generation error: %s", err)
	}

	address, err := account.AddressFromPublicKey(account.PublicKey(publicKey), true)
	if nil != err {
		t.Fatalf("address derivation error: %s", err)
	}

	if !account.IsValidAddress(address) {
		t.Fatalf("derived address does not validate: %q", address)
	}

	// derivation is deterministic
	again, _ := account.AddressFromPublicKey(account.PublicKey(publicKey), true)
	if address != again {
		t.Fatalf("address derivation not deterministic: %q != %q", address, again)
	}

	// livenet and testnet differ
	livenet, _ := account.AddressFromPublicKey(account.PublicKey(publicKey), false)
	if address == livenet {
		t.Fatalf("testnet and livenet addresses must differ")
	}
}

// corrupted and malformed addresses must be rejected
func TestInvalidAddress(t *testing.T) {

	publicKey, _, _ := ed25519.GenerateKey(rand.Reader)
	address, _ := account.AddressFromPublicKey(account.PublicKey(publicKey), true)

	// flip last character to damage the checksum
	last := address[len(address)-1]
	repl := byte('2')
	if last == repl {
		repl = '3'
	}
	damaged := address[:len(address)-1] + string(repl)

	if account.IsValidAddress(damaged) {
		t.Errorf("damaged address still validates: %q", damaged)
	}

	if account.IsValidAddress("") {
		t.Errorf("empty address validates")
	}
	if account.IsValidAddress("0OIl") { // illegal base58 characters
		t.Errorf("non-base58 address validates")
	}
}

// short keys cannot derive an address
func TestShortPublicKey(t *testing.T) {

	_, err := account.AddressFromPublicKey(account.PublicKey{0x01, 0x02}, true)
	if fault.ErrInvalidPublicKeyLength != err {
		t.Fatalf("unexpected error: %v", err)
	}
}

// signature verification
func TestCheckSignature(t *testing.T) {

	publicKey, privateKey, _ := ed25519.GenerateKey(rand.Reader)
	message := []byte("some message to sign")
	signature := account.Signature(ed25519.Sign(privateKey, message))

	err := account.CheckSignature(account.PublicKey(publicKey), message, signature)
	if nil != err {
		t.Fatalf("valid signature rejected: %s", err)
	}

	err = account.CheckSignature(account.PublicKey(publicKey), []byte("different message"), signature)
	if fault.ErrInvalidSignature != err {
		t.Fatalf("tampered message: unexpected error: %v", err)
	}

	err = account.CheckSignature(account.PublicKey(publicKey), message, signature[:10])
	if fault.ErrInvalidSignatureLength != err {
		t.Fatalf("short signature: unexpected error: %v", err)
	}
}

// the null key is only the all-zero key
func TestNullPublicKey(t *testing.T) {

	if !account.NullPublicKey.IsNull() {
		t.Fatalf("null key is not null")
	}

	publicKey, _, _ := ed25519.GenerateKey(rand.Reader)
	if account.PublicKey(publicKey).IsNull() {
		t.Fatalf("random key is null")
	}
}
