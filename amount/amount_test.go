// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Meridian Chain Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package amount_test

import (
	"testing"

	"github.com/meridian-chain/meridiand/amount"
)

// test conversion from decimal strings to scaled values
func TestFromString(t *testing.T) {

	tests := []struct {
		in       string
		expected amount.Amount
	}{
		{"0", 0},
		{"0.00000001", 1},
		{"1", 100000000},
		{"1000", 100000000000},
		{"0.1", 10000000},
		{"21.00000001", 2100000001},
		{"0.123456789", 12345678}, // truncated after 8 places
		{"", 0},
	}

	for i, item := range tests {
		actual := amount.FromString(item.in)
		if actual != item.expected {
			t.Errorf("%d: convert: %q  actual: %d  expected: %d", i, item.in, actual, item.expected)
		}
	}
}

// test canonical string form
func TestString(t *testing.T) {

	tests := []struct {
		in       amount.Amount
		expected string
	}{
		{0, "0.00000000"},
		{1, "0.00000001"},
		{100000000, "1.00000000"},
		{2100000001, "21.00000001"},
		{-50000000, "-0.50000000"},
	}

	for i, item := range tests {
		actual := item.in.String()
		if actual != item.expected {
			t.Errorf("%d: string: %d  actual: %q  expected: %q", i, item.in, actual, item.expected)
		}
	}
}

// round trip through text marshalling
func TestMarshalText(t *testing.T) {

	a := amount.FromString("123.45600000")
	text, err := a.MarshalText()
	if nil != err {
		t.Fatalf("marshal error: %s", err)
	}

	var b amount.Amount
	err = b.UnmarshalText(text)
	if nil != err {
		t.Fatalf("unmarshal error: %s", err)
	}
	if a != b {
		t.Fatalf("round trip mismatch: %d != %d", a, b)
	}
}
