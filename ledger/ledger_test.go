// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Meridian Chain Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

import (
	"crypto/rand"
	"io/ioutil"
	"os"
	"testing"

	"github.com/bitmark-inc/logger"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/ed25519"

	"github.com/meridian-chain/meridiand/account"
	"github.com/meridian-chain/meridiand/amount"
	"github.com/meridian-chain/meridiand/fault"
	"github.com/meridian-chain/meridiand/storage"
	"github.com/meridian-chain/meridiand/transactionrecord"
)

func TestMain(m *testing.M) {
	dir, err := ioutil.TempDir("", "ledger-test")
	if nil != err {
		panic(err)
	}
	logging := logger.Configuration{
		Directory: dir,
		File:      "test.log",
		Size:      1048576,
		Count:     10,
		Console:   false,
		Levels: map[string]string{
			logger.DefaultTag: "error",
		},
	}
	if err := logger.Initialise(logging); nil != err {
		panic(err)
	}
	code := m.Run()
	logger.Finalise()
	os.RemoveAll(dir)
	os.Exit(code)
}

func newTestLedger(t *testing.T) Store {
	t.Helper()
	store, err := storage.OpenMemory()
	if nil != err {
		t.Fatalf("open memory store error: %s", err)
	}
	return NewStore(store)
}

func testKey(t *testing.T) (account.PublicKey, string) {
	t.Helper()
	publicKey, _, err := ed25519.GenerateKey(rand.Reader)
	if nil != err {
		t.Fatalf("key generation error: %s", err)
	}
	address, err := account.AddressFromPublicKey(account.PublicKey(publicKey), true)
	if nil != err {
		t.Fatalf("address error: %s", err)
	}
	return account.PublicKey(publicKey), address
}

// account rows: absent → created → updated
func TestAccountState(t *testing.T) {
	l := newTestLedger(t)

	publicKey, address := testKey(t)

	state, err := l.GetAccount(address)
	assert.NoError(t, err, "get absent account")
	assert.Nil(t, state, "absent account must be nil")

	assert.NoError(t, l.Begin(), "begin")
	assert.NoError(t, l.SetPublicKey(address, publicKey), "set public key")

	reference := make(account.Signature, account.SignatureSize)
	reference[0] = 0x55
	assert.NoError(t, l.SetLastReference(address, reference), "set last reference")
	assert.NoError(t, l.Commit(), "commit")

	state, err = l.GetAccount(address)
	assert.NoError(t, err, "get account")
	assert.NotNil(t, state, "account missing")
	assert.Equal(t, publicKey, state.PublicKey, "public key")
	assert.Equal(t, reference, state.LastReference, "last reference")
}

// balances per asset, negative committed balance refused
func TestBalances(t *testing.T) {
	l := newTestLedger(t)
	_, address := testKey(t)

	balance, err := l.Balance(address, 0)
	assert.NoError(t, err, "balance of absent account")
	assert.Equal(t, amount.Amount(0), balance, "absent balance must be zero")

	assert.NoError(t, l.Begin(), "begin")
	assert.NoError(t, l.SetBalance(address, 0, amount.FromString("10")), "set asset 0")
	assert.NoError(t, l.SetBalance(address, 7, amount.FromString("3")), "set asset 7")

	err = l.SetBalance(address, 0, amount.Amount(-1))
	assert.Equal(t, fault.ErrBalanceUnderflow, err, "negative balance accepted")

	assert.NoError(t, l.Commit(), "commit")

	balance, _ = l.Balance(address, 0)
	assert.Equal(t, amount.FromString("10"), balance, "asset 0 balance")
	balance, _ = l.Balance(address, 7)
	assert.Equal(t, amount.FromString("3"), balance, "asset 7 balance")
}

// stored reward share records keep their captured previous share
func TestStoredTransactionAnnotations(t *testing.T) {
	l := newTestLedger(t)

	minterPublic, minterPrivate, _ := ed25519.GenerateKey(rand.Reader)
	_, recipient := testKey(t)
	proxyPublic, _ := testKey(t)

	share := &transactionrecord.RewardShare{
		Timestamp:      1575460812000,
		Minter:         account.PublicKey(minterPublic),
		Reference:      make(account.Signature, account.SignatureSize),
		Recipient:      recipient,
		ProxyPublicKey: proxyPublic,
		SharePercent:   5000,
		Fee:            amount.FromString("0.1"),
	}
	message, _ := share.Pack()
	share.Signature = account.Signature(ed25519.Sign(minterPrivate, message))

	previous := int64(2500)
	share.PreviousShare = &previous

	assert.NoError(t, l.Begin(), "begin")
	assert.NoError(t, l.SaveTransaction(share), "save")
	assert.NoError(t, l.Commit(), "commit")

	stored, err := l.GetTransaction(share.TxID())
	assert.NoError(t, err, "get")
	restored, ok := stored.(*transactionrecord.RewardShare)
	assert.True(t, ok, "wrong type: %T", stored)
	assert.NotNil(t, restored.PreviousShare, "previous share lost")
	assert.Equal(t, previous, *restored.PreviousShare, "previous share value")

	// absent transactions report not found
	_, err = l.GetTransaction(make(account.Signature, account.SignatureSize))
	assert.Equal(t, fault.ErrTransactionNotFound, err, "absent transaction")
}

// group ids are monotonic and only the latest can be released
func TestGroupSequence(t *testing.T) {
	l := newTestLedger(t)
	_, owner := testKey(t)

	assert.NoError(t, l.Begin(), "begin")

	first, err := l.NextGroupID()
	assert.NoError(t, err, "first id")
	assert.Equal(t, uint64(1), first, "first id")

	second, err := l.NextGroupID()
	assert.NoError(t, err, "second id")
	assert.Equal(t, uint64(2), second, "second id")

	assert.NoError(t, l.SaveGroup(&GroupRecord{
		ID:                second,
		Owner:             owner,
		Name:              "team",
		Description:       "d",
		ApprovalThreshold: transactionrecord.ApprovalOne,
		MinimumBlockDelay: 0,
		MaximumBlockDelay: 10,
	}), "save group")

	exists, err := l.GroupExists("team")
	assert.NoError(t, err, "exists")
	assert.True(t, exists, "saved group not found by name")

	group, err := l.GroupByName("team")
	assert.NoError(t, err, "by name")
	assert.Equal(t, second, group.ID, "group id")
	assert.Equal(t, owner, group.Owner, "group owner")

	// releasing out of order breaks the sequence invariant
	assert.Equal(t, fault.ErrGroupSequenceBroken, l.ReleaseGroupID(first), "out of order release")

	assert.NoError(t, l.ReleaseGroupID(second), "release latest")
	again, err := l.NextGroupID()
	assert.NoError(t, err, "re-allocate")
	assert.Equal(t, second, again, "released id must be re-allocated")

	assert.NoError(t, l.DeleteGroup(second), "delete group")
	exists, _ = l.GroupExists("team")
	assert.False(t, exists, "deleted group still present")
}

// height index answers "highest block at or before timestamp"
func TestHeightFromTimestamp(t *testing.T) {
	l := newTestLedger(t)

	assert.NoError(t, l.Begin(), "begin")
	assert.NoError(t, l.RegisterBlock(1, 1000), "block 1")
	assert.NoError(t, l.RegisterBlock(2, 2000), "block 2")
	assert.NoError(t, l.RegisterBlock(3, 3000), "block 3")
	assert.NoError(t, l.Commit(), "commit")

	tip, err := l.ChainTip()
	assert.NoError(t, err, "chain tip")
	assert.Equal(t, uint64(3), tip, "chain tip")

	height, err := l.HeightFromTimestamp(2500)
	assert.NoError(t, err, "height from timestamp")
	assert.Equal(t, uint64(2), height, "height at 2500")

	height, _ = l.HeightFromTimestamp(3000)
	assert.Equal(t, uint64(3), height, "height at exact timestamp")

	height, _ = l.HeightFromTimestamp(500)
	assert.Equal(t, uint64(0), height, "height before first block")
}

// online signatures trim exactly the requested window
func TestTrimOnlineSignatures(t *testing.T) {
	l := newTestLedger(t)

	assert.NoError(t, l.Begin(), "begin")
	for height := uint64(10); height < 20; height += 1 {
		assert.NoError(t, l.AddOnlineSignature(height, []byte{byte(height), 0x01}), "add")
		assert.NoError(t, l.AddOnlineSignature(height, []byte{byte(height), 0x02}), "add")
	}
	assert.NoError(t, l.Commit(), "commit")

	assert.NoError(t, l.Begin(), "begin trim")
	trimmed, err := l.TrimOnlineSignatures(10, 15)
	assert.NoError(t, err, "trim")
	assert.Equal(t, 10, trimmed, "trimmed row count")
	assert.NoError(t, l.Commit(), "commit trim")

	assert.NoError(t, l.Begin(), "begin second trim")
	trimmed, err = l.TrimOnlineSignatures(10, 15)
	assert.NoError(t, err, "second trim")
	assert.Equal(t, 0, trimmed, "window already empty")
	l.Discard()

	// watermark round trip
	assert.NoError(t, l.Begin(), "begin watermark")
	assert.NoError(t, l.SetTrimHeight(15), "set trim height")
	assert.NoError(t, l.Commit(), "commit watermark")
	height, err := l.TrimHeight()
	assert.NoError(t, err, "trim height")
	assert.Equal(t, uint64(15), height, "trim height")
}
