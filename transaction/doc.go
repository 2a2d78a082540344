// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Meridian Chain Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package transaction - the ledger state-transition engine
//
// every transaction variant implements the same ordered contract:
//
//   validate       read-only check against current ledger state,
//                  returns a specific outcome code
//   isProcessable  re-checked at inclusion time in block order, for
//                  races invisible to validate (e.g. name uniqueness
//                  against other transactions in the same block)
//   process        applies the mutation exactly once, capturing any
//                  prior state needed for reversal into the stored
//                  record
//   orphan         the exact inverse of process, called in strict
//                  reverse order during chain reorganisation
//
// process and orphan are exact inverses: orphan needs no lookups
// beyond the stored record itself, so for any ledger state S and
// valid transaction T, orphan(process(S, T)) == S
//
// dispatch is a closed table from record type tag to the handler
// function set, adding a variant is one table entry
package transaction
