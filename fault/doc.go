// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Meridian Chain Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package fault - error instances
//
// Provides a single instance of errors to allow easy comparison
// without having to resort to partial string matches
//
// The error classes separate consensus-rule rejections (Invalid…)
// from infrastructure failures (Storage…) which may be retried, and
// from invariant violations (Invariant…) which indicate a consensus
// bug or corrupted ledger and must never be retried or swallowed.
package fault
