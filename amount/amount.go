// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Meridian Chain Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package amount - fixed-point ledger amounts
//
// all consensus amounts are held as integers scaled by 10^8 so that
// every node computes identical results, floating point is never used
package amount

import (
	"fmt"
)

// Amount - a ledger value in the smallest unit
//
// negative values only ever occur transiently as deltas, a committed
// balance is never negative
type Amount int64

// number of implied decimal places
const (
	Decimals = 8
	Scale    = 100000000 // 10^Decimals
)

// FromByteString - convert a decimal string to an Amount
//
// i.e. "0.00000001" will convert to Amount(1)
//
// Note: invalid characters are simply ignored and the conversion
//       stops after 8 decimal places have been processed, extra
//       decimal points are also ignored
func FromByteString(s []byte) Amount {

	a := int64(0)
	point := false
	decimals := 0

get_digits:
	for _, b := range s {
		if b >= '0' && b <= '9' {
			a *= 10
			a += int64(b - '0')
			if point {
				decimals += 1
				if decimals >= Decimals {
					break get_digits
				}
			}
		} else if '.' == b {
			point = true
		}
	}
	for decimals < Decimals {
		a *= 10
		decimals += 1
	}

	return Amount(a)
}

// FromString - string wrapper for FromByteString
func FromString(s string) Amount {
	return FromByteString([]byte(s))
}

// Uint64 - the raw scaled value for packing
func (a Amount) Uint64() uint64 {
	return uint64(a)
}

// IsNegative - true if the amount is below zero
func (a Amount) IsNegative() bool {
	return a < 0
}

// String - canonical decimal representation with all 8 places
func (a Amount) String() string {
	sign := ""
	v := int64(a)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%08d", sign, v/Scale, v%Scale)
}

// MarshalText - for JSON string form
func (a Amount) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText - from JSON string form
func (a *Amount) UnmarshalText(s []byte) error {
	*a = FromByteString(s)
	return nil
}
