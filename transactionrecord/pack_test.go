// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Meridian Chain Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package transactionrecord_test

import (
	"encoding/binary"
	"reflect"
	"testing"

	"github.com/meridian-chain/meridiand/amount"
	"github.com/meridian-chain/meridiand/fault"
	"github.com/meridian-chain/meridiand/transactionrecord"
)

// genesis layout: tag, timestamp, recipient, amount, asset id
// check byte-exact layout and round trip
func TestPackGenesis(t *testing.T) {

	recipient := makeKeyPair(t).address

	r := &transactionrecord.Genesis{
		Timestamp: 1575460810000,
		Recipient: recipient,
		Amount:    amount.FromString("1000"),
		AssetID:   0,
	}

	packed, err := r.Pack()
	if nil != err {
		t.Fatalf("pack error: %s", err)
	}

	// expected layout assembled field by field
	expected := make([]byte, 0, len(packed))
	expected = append(expected, 0x00, 0x00, 0x00, 0x01) // tag
	var b8 [8]byte
	binary.BigEndian.PutUint64(b8[:], 1575460810000)
	expected = append(expected, b8[:]...)
	var b2 [2]byte
	binary.BigEndian.PutUint16(b2[:], uint16(len(recipient)))
	expected = append(expected, b2[:]...)
	expected = append(expected, recipient...)
	binary.BigEndian.PutUint64(b8[:], uint64(amount.FromString("1000")))
	expected = append(expected, b8[:]...)
	binary.BigEndian.PutUint64(b8[:], 0)
	expected = append(expected, b8[:]...)

	if !reflect.DeepEqual([]byte(packed), expected) {
		t.Fatalf("pack mismatch:\nactual:   %x\nexpected: %x", packed, expected)
	}

	if transactionrecord.GenesisTag != packed.Type() {
		t.Fatalf("wrong tag: %d", packed.Type())
	}

	unpacked, err := transactionrecord.Decode(packed)
	if nil != err {
		t.Fatalf("decode error: %s", err)
	}
	if !reflect.DeepEqual(r, unpacked) {
		t.Fatalf("round trip mismatch:\nactual:   %+v\nexpected: %+v", unpacked, r)
	}

	// the genesis tx id is deterministic
	if 0 == len(r.TxID()) {
		t.Fatalf("missing genesis tx id")
	}
	if !reflect.DeepEqual(r.TxID(), r.TxID()) {
		t.Fatalf("genesis tx id not deterministic")
	}

	rejectTruncations(t, packed)
}

// payment round trip with a real signature
func TestPackPayment(t *testing.T) {

	sender := makeKeyPair(t)
	recipient := makeKeyPair(t)

	r := &transactionrecord.Payment{
		Timestamp: 1575460811000,
		Creator:   sender.publicKey,
		Reference: nullReference(),
		Recipient: recipient.address,
		Amount:    amount.FromString("12.5"),
		AssetID:   0,
		Fee:       amount.FromString("0.1"),
	}

	// pack without signature to obtain the signable message
	message, err := r.Pack()
	r.Signature = sign(t, message, err, sender)

	packed, err := r.Pack()
	if nil != err {
		t.Fatalf("pack error: %s", err)
	}

	unpacked, err := transactionrecord.Decode(packed)
	if nil != err {
		t.Fatalf("decode error: %s", err)
	}
	if !reflect.DeepEqual(r, unpacked) {
		t.Fatalf("round trip mismatch:\nactual:   %+v\nexpected: %+v", unpacked, r)
	}

	// trailing garbage must be rejected
	_, err = transactionrecord.Decode(append(append([]byte{}, packed...), 0x00))
	if fault.ErrTrailingBytes != err {
		t.Fatalf("over-length buffer: unexpected error: %v", err)
	}

	rejectTruncations(t, packed)
}

// a tampered signature must fail the pack self-check
func TestPackPaymentTampered(t *testing.T) {

	sender := makeKeyPair(t)
	recipient := makeKeyPair(t)

	r := &transactionrecord.Payment{
		Timestamp: 1575460811000,
		Creator:   sender.publicKey,
		Reference: nullReference(),
		Recipient: recipient.address,
		Amount:    amount.FromString("1"),
		AssetID:   0,
		Fee:       amount.FromString("0.1"),
	}

	message, err := r.Pack()
	r.Signature = sign(t, message, err, sender)

	// damage one amount byte after signing
	r.Amount += 1

	_, err = r.Pack()
	if fault.ErrInvalidSignature != err {
		t.Fatalf("tampered record: unexpected error: %v", err)
	}
}

// reward share round trip, the captured previous share never packs
func TestPackRewardShare(t *testing.T) {

	minter := makeKeyPair(t)
	recipient := makeKeyPair(t)
	proxy := makeKeyPair(t)

	r := &transactionrecord.RewardShare{
		Timestamp:      1575460812000,
		Minter:         minter.publicKey,
		Reference:      nullReference(),
		Recipient:      recipient.address,
		ProxyPublicKey: proxy.publicKey,
		SharePercent:   5000, // 50.00%
		Fee:            amount.FromString("0.1"),
	}

	message, err := r.Pack()
	r.Signature = sign(t, message, err, minter)

	packed, err := r.Pack()
	if nil != err {
		t.Fatalf("pack error: %s", err)
	}

	// annotate after packing: encoding must be unchanged
	previous := int64(2500)
	r.PreviousShare = &previous
	annotated, err := r.Pack()
	if nil != err {
		t.Fatalf("pack error: %s", err)
	}
	if !reflect.DeepEqual(packed, annotated) {
		t.Fatalf("annotation leaked into wire encoding")
	}

	unpacked, err := transactionrecord.Decode(packed)
	if nil != err {
		t.Fatalf("decode error: %s", err)
	}
	share, ok := unpacked.(*transactionrecord.RewardShare)
	if !ok {
		t.Fatalf("unexpected type: %T", unpacked)
	}
	if nil != share.PreviousShare {
		t.Fatalf("previous share must not survive the wire")
	}
	r.PreviousShare = nil
	if !reflect.DeepEqual(r, share) {
		t.Fatalf("round trip mismatch:\nactual:   %+v\nexpected: %+v", share, r)
	}

	rejectTruncations(t, packed)
}

// create group round trip, the assigned group id never packs
func TestPackCreateGroup(t *testing.T) {

	creator := makeKeyPair(t)

	r := &transactionrecord.CreateGroup{
		Timestamp:         1575460813000,
		Creator:           creator.publicKey,
		Reference:         nullReference(),
		Name:              "mygroup",
		Description:       "a test group",
		ApprovalThreshold: transactionrecord.ApprovalOne,
		MinimumBlockDelay: 0,
		MaximumBlockDelay: 10,
		Fee:               amount.FromString("0.1"),
	}

	message, err := r.Pack()
	r.Signature = sign(t, message, err, creator)

	packed, err := r.Pack()
	if nil != err {
		t.Fatalf("pack error: %s", err)
	}

	groupID := uint64(7)
	r.GroupID = &groupID
	annotated, err := r.Pack()
	if nil != err {
		t.Fatalf("pack error: %s", err)
	}
	if !reflect.DeepEqual(packed, annotated) {
		t.Fatalf("annotation leaked into wire encoding")
	}

	unpacked, err := transactionrecord.Decode(packed)
	if nil != err {
		t.Fatalf("decode error: %s", err)
	}
	group, ok := unpacked.(*transactionrecord.CreateGroup)
	if !ok {
		t.Fatalf("unexpected type: %T", unpacked)
	}
	if nil != group.GroupID {
		t.Fatalf("group id must not survive the wire")
	}
	r.GroupID = nil
	if !reflect.DeepEqual(r, group) {
		t.Fatalf("round trip mismatch:\nactual:   %+v\nexpected: %+v", group, r)
	}

	rejectTruncations(t, packed)
}

// unknown tags are not transaction packs
func TestDecodeUnknownTag(t *testing.T) {

	buffer := []byte{0x00, 0x00, 0x00, 0xff, 0x00, 0x00, 0x00, 0x00}
	_, err := transactionrecord.Decode(buffer)
	if fault.ErrNotTransactionPack != err {
		t.Fatalf("unknown tag: unexpected error: %v", err)
	}

	_, err = transactionrecord.Decode([]byte{})
	if fault.ErrTransactionTruncated != err {
		t.Fatalf("empty buffer: unexpected error: %v", err)
	}
}
