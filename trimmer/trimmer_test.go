// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Meridian Chain Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package trimmer

import (
	"io/ioutil"
	"os"
	"testing"
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/stretchr/testify/assert"

	"github.com/meridian-chain/meridiand/chain"
	"github.com/meridian-chain/meridiand/ledger"
	"github.com/meridian-chain/meridiand/mode"
	"github.com/meridian-chain/meridiand/storage"
)

func TestMain(m *testing.M) {
	dir, err := ioutil.TempDir("", "trimmer-test")
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
	if err := mode.Initialise(chain.Testing); nil != err {
		panic(err)
	}
	mode.Set(mode.Normal)
	code := m.Run()
	mode.Finalise()
	logger.Finalise()
	os.RemoveAll(dir)
	os.Exit(code)
}

// one second of chain time per block height, timestamps in
// milliseconds
func blockTimestamp(height uint64) int64 {
	return int64(height) * 1000
}

// a trimmer with a frozen clock set so that blocks at or below
// upperTrimmable are old enough to prune
func newTestTrimmer(t *testing.T, batchSize uint64, upperTrimmable uint64) (*trimmer, ledger.Store) {
	t.Helper()
	store, err := storage.OpenMemory()
	if nil != err {
		t.Fatalf("open memory store error: %s", err)
	}
	l := ledger.NewStore(store)

	lifetime := time.Hour
	now := time.Unix(0, blockTimestamp(upperTrimmable)*int64(time.Millisecond)).Add(lifetime)

	return &trimmer{
		log:         logger.New("trimmer"),
		ledger:      l,
		batchSize:   batchSize,
		maxLifetime: lifetime,
		interval:    time.Minute,
		now:         func() time.Time { return now },
	}, l
}

func seedChain(t *testing.T, l ledger.Store, trimStart uint64, tip uint64, signedFrom uint64, signedTo uint64) {
	t.Helper()
	assert.NoError(t, l.Begin(), "begin")
	for height := uint64(1); height <= tip; height += 1 {
		assert.NoError(t, l.RegisterBlock(height, blockTimestamp(height)), "register block")
	}
	for height := signedFrom; height < signedTo; height += 1 {
		assert.NoError(t, l.AddOnlineSignature(height, []byte{byte(height >> 8), byte(height)}), "add signature")
	}
	assert.NoError(t, l.SetTrimHeight(trimStart), "set trim height")
	assert.NoError(t, l.Commit(), "commit")
}

// count without mutating: deletes inside a discarded transaction
func countSignatures(t *testing.T, l ledger.Store, from uint64, to uint64) int {
	t.Helper()
	assert.NoError(t, l.Begin(), "begin count")
	n, err := l.TrimOnlineSignatures(from, to)
	assert.NoError(t, err, "count")
	l.Discard()
	return n
}

// one batch trims only up to the trimmable boundary, not the full
// batch window, and the watermark stays put while rows were removed
func TestTrimBoundedByLifetime(t *testing.T) {
	trim, l := newTestTrimmer(t, 50, 120)
	seedChain(t, l, 100, 160, 100, 130)

	assert.NoError(t, trim.trimOnce(), "trim")

	assert.Equal(t, 0, countSignatures(t, l, 100, 120), "trimmable window not emptied")
	assert.Equal(t, 10, countSignatures(t, l, 120, 130), "rows beyond the lifetime boundary were trimmed")

	height, err := l.TrimHeight()
	assert.NoError(t, err, "trim height")
	assert.Equal(t, uint64(100), height, "watermark must not move while rows were trimmed")
}

// an empty batch with eligible data beyond it advances the watermark
// over the scanned window
func TestWatermarkAdvance(t *testing.T) {
	trim, l := newTestTrimmer(t, 50, 160)
	seedChain(t, l, 100, 200, 155, 158)

	assert.NoError(t, trim.trimOnce(), "trim")

	height, err := l.TrimHeight()
	assert.NoError(t, err, "trim height")
	assert.Equal(t, uint64(150), height, "watermark must skip the empty window")

	assert.Equal(t, 3, countSignatures(t, l, 155, 158), "not yet scanned rows must survive")

	// the next cycle reaches the surviving rows
	assert.NoError(t, trim.trimOnce(), "second trim")
	assert.Equal(t, 0, countSignatures(t, l, 155, 158), "second batch must trim them")
}

// nothing is eligible when the chain is younger than the lifetime
func TestNothingEligible(t *testing.T) {
	trim, l := newTestTrimmer(t, 50, 90)
	seedChain(t, l, 100, 160, 100, 130)

	assert.NoError(t, trim.trimOnce(), "trim")

	assert.Equal(t, 30, countSignatures(t, l, 100, 130), "rows must be untouched")
	height, _ := l.TrimHeight()
	assert.Equal(t, uint64(100), height, "watermark unchanged")
}

// the job yields completely while the node is resynchronising
func TestSkipWhileResynchronising(t *testing.T) {
	trim, l := newTestTrimmer(t, 50, 120)
	seedChain(t, l, 100, 160, 100, 130)

	mode.Set(mode.Resynchronise)
	defer mode.Set(mode.Normal)

	assert.NoError(t, trim.trimOnce(), "trim")
	assert.Equal(t, 30, countSignatures(t, l, 100, 130), "rows must be untouched")
}
