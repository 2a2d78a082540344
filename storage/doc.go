// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Meridian Chain Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package storage - prefixed key-value pools over leveldb
//
// each pool is a single byte prefix over one shared database, writes
// only happen inside a transaction which buffers them in an overlay
// until Commit applies everything as one atomic leveldb batch, reads
// inside the transaction see the buffered writes
//
// this gives the all-or-nothing per block semantics the ledger
// engine requires: Discard throws the overlay away without any
// partial state reaching the database
package storage
