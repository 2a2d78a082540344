// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Meridian Chain Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

// buffered writes of one transaction
//
// a key is in at most one of the two maps
type overlay struct {
	puts    map[string][]byte
	deletes map[string]struct{}
}

func newOverlay() *overlay {
	return &overlay{
		puts:    make(map[string][]byte),
		deletes: make(map[string]struct{}),
	}
}

func (o *overlay) put(key string, value []byte) {
	delete(o.deletes, key)
	o.puts[key] = value
}

func (o *overlay) remove(key string) {
	delete(o.puts, key)
	o.deletes[key] = struct{}{}
}

// lookup a buffered write
//
// returns (value, true) for a buffered put, (nil, true) for a
// buffered delete and (nil, false) when the key is untouched
func (o *overlay) get(key string) ([]byte, bool) {
	if value, ok := o.puts[key]; ok {
		return value, true
	}
	if _, ok := o.deletes[key]; ok {
		return nil, true
	}
	return nil, false
}
