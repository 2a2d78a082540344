// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Meridian Chain Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fault

// error base
type GenericError string

// to allow for different classes of errors
type ExistsError GenericError
type InvalidError GenericError
type NotFoundError GenericError
type ProcessError GenericError
type StorageError GenericError
type InvariantError GenericError

// common errors - keep in alphabetic order
var (
	ErrAddressTooLong          = InvalidError("address too long")
	ErrAlreadyInitialised      = ProcessError("already initialised")
	ErrCannotDecodeAddress     = InvalidError("cannot decode address")
	ErrChecksumMismatch        = InvalidError("checksum mismatch")
	ErrDescriptionTooLong      = InvalidError("description too long")
	ErrGroupNotFound           = NotFoundError("group not found")
	ErrInvalidChain            = InvalidError("invalid chain")
	ErrInvalidCount            = InvalidError("invalid count")
	ErrInvalidKeyLength        = InvalidError("invalid key length")
	ErrInvalidLoggerChannel    = InvalidError("invalid logger channel")
	ErrInvalidPublicKeyLength  = InvalidError("invalid public key length")
	ErrInvalidSignature        = InvalidError("invalid signature")
	ErrInvalidSignatureLength  = InvalidError("invalid signature length")
	ErrInvalidStructPointer    = InvalidError("invalid struct pointer")
	ErrNameTooLong             = InvalidError("name too long")
	ErrNoTransactionInProgress = ProcessError("no transaction in progress")
	ErrNotInitialised          = ProcessError("not initialised")
	ErrNotTransactionPack      = InvalidError("not transaction pack")
	ErrTrailingBytes           = InvalidError("trailing bytes after record")
	ErrTransactionAlreadyInUse = ProcessError("transaction already in use")
	ErrTransactionNotFound     = NotFoundError("transaction not found")
	ErrTransactionTruncated    = InvalidError("transaction truncated")
	ErrWrongNetworkForAddress  = InvalidError("wrong network for address")

	// invariant violations - a consensus bug or corrupted ledger,
	// must abort the enclosing ledger transaction and propagate
	ErrBalanceUnderflow           = InvariantError("balance would become negative")
	ErrGroupSequenceBroken        = InvariantError("group id sequence broken")
	ErrMissingGroupAssignment     = InvariantError("create group record has no assigned group id")
	ErrMissingPreviousTransaction = InvariantError("orphan of unrecorded transaction")
)

// the error interface base method
func (e GenericError) Error() string { return string(e) }

// the error interface methods
func (e ExistsError) Error() string    { return string(e) }
func (e InvalidError) Error() string   { return string(e) }
func (e NotFoundError) Error() string  { return string(e) }
func (e ProcessError) Error() string   { return string(e) }
func (e StorageError) Error() string   { return string(e) }
func (e InvariantError) Error() string { return string(e) }

// determine the class of an error
func IsErrExists(e error) bool    { _, ok := e.(ExistsError); return ok }
func IsErrInvalid(e error) bool   { _, ok := e.(InvalidError); return ok }
func IsErrNotFound(e error) bool  { _, ok := e.(NotFoundError); return ok }
func IsErrProcess(e error) bool   { _, ok := e.(ProcessError); return ok }
func IsErrStorage(e error) bool   { _, ok := e.(StorageError); return ok }
func IsErrInvariant(e error) bool { _, ok := e.(InvariantError); return ok }

// WrapStorage - convert a backing store I/O error to the storage
// class so callers can distinguish "retry later" from consensus
// failures; nil passes through
func WrapStorage(e error) error {
	if nil == e {
		return nil
	}
	return StorageError(e.Error())
}
