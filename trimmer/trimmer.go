// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Meridian Chain Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package trimmer - prune aged online account signatures
//
// a long-lived background job independent of block processing: each
// cycle trims one bounded batch of signature rows older than the
// configured lifetime, tracked by a persisted trim-height watermark
package trimmer

import (
	"sync"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/meridian-chain/meridiand/background"
	"github.com/meridian-chain/meridiand/fault"
	"github.com/meridian-chain/meridiand/ledger"
	"github.com/meridian-chain/meridiand/mode"
)

// timing defaults
const (
	initialDelay         = 2 * time.Minute
	defaultCycleInterval = 10 * time.Minute
	defaultBatchSize     = 100
	defaultMaxLifetime   = 24 * time.Hour
)

// the job state
type trimmer struct {
	log         *logger.L
	ledger      ledger.Store
	batchSize   uint64
	maxLifetime time.Duration
	interval    time.Duration
	now         func() time.Time // replaceable clock
}

// globals for background process
type trimmerData struct {
	sync.RWMutex

	trim trimmer
	proc *background.T

	// set once during initialise
	initialised bool
}

// global data
var globalData trimmerData

// Initialise - configure and start the trimming job
//
// zero values select the defaults
func Initialise(store ledger.Store, batchSize uint64, maxLifetime time.Duration, interval time.Duration) error {
	globalData.Lock()
	defer globalData.Unlock()

	// no need to start if already started
	if globalData.initialised {
		return fault.ErrAlreadyInitialised
	}

	if 0 == batchSize {
		batchSize = defaultBatchSize
	}
	if 0 == maxLifetime {
		maxLifetime = defaultMaxLifetime
	}
	if 0 == interval {
		interval = defaultCycleInterval
	}

	globalData.trim = trimmer{
		log:         logger.New("trimmer"),
		ledger:      store,
		batchSize:   batchSize,
		maxLifetime: maxLifetime,
		interval:    interval,
		now:         time.Now,
	}
	globalData.trim.log.Info("starting…")

	globalData.initialised = true

	globalData.proc = background.Start(background.Processes{
		globalData.trim.run,
	}, nil)

	return nil
}

// Finalise - stop the trimming job
func Finalise() error {
	globalData.Lock()
	defer globalData.Unlock()

	if !globalData.initialised {
		return fault.ErrNotInitialised
	}

	background.Stop(globalData.proc)
	globalData.proc = nil
	globalData.initialised = false
	globalData.trim.log.Info("finished")
	globalData.trim.log.Flush()

	return nil
}

// the background cycle
func (t *trimmer) run(args interface{}, shutdown <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	log := t.log

	delay := initialDelay
loop:
	for {
		select {
		case <-shutdown:
			break loop
		case <-time.After(delay):
			delay = t.interval
			err := t.trimOnce()
			if nil != err {
				log.Errorf("trim error: %s", err)
			}
		}
	}
	log.Info("shutting down…")
}

// one bounded trim batch, atomic relative to block application
//
// the watermark only advances past a window once that window is
// known to hold no trimmable rows, never past data that is not yet
// old enough
func (t *trimmer) trimOnce() error {

	// never touch consensus data while resynchronising
	if mode.IsNot(mode.Normal) {
		return nil
	}

	log := t.log

	err := t.ledger.Begin()
	if nil != err {
		return err
	}

	trimStart, err := t.ledger.TrimHeight()
	if nil != err {
		t.ledger.Discard()
		return err
	}

	// highest block old enough for its signatures to be pruned
	cutoff := t.now().Add(-t.maxLifetime).UnixNano() / int64(time.Millisecond)
	upperTrimmable, err := t.ledger.HeightFromTimestamp(cutoff)
	if nil != err {
		t.ledger.Discard()
		return err
	}

	upperBatch := trimStart + t.batchSize
	upperTrim := upperBatch
	if upperTrimmable < upperTrim {
		upperTrim = upperTrimmable
	}

	// nothing eligible in this window yet
	if trimStart >= upperTrim {
		t.ledger.Discard()
		return nil
	}

	trimmed, err := t.ledger.TrimOnlineSignatures(trimStart, upperTrim)
	if nil != err {
		t.ledger.Discard()
		return err
	}

	if trimmed > 0 {
		log.Infof("trimmed %d online signatures in heights [%d, %d)", trimmed, trimStart, upperTrim)
		return t.ledger.Commit()
	}

	// an empty batch with more eligible data beyond it: skip the
	// watermark over the scanned window instead of re-scanning
	if upperTrimmable > upperBatch {
		err = t.ledger.SetTrimHeight(upperBatch)
		if nil != err {
			t.ledger.Discard()
			return err
		}
		log.Debugf("watermark advanced to %d", upperBatch)
		return t.ledger.Commit()
	}

	t.ledger.Discard()
	return nil
}
