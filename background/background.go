// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Meridian Chain Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package background - run long-lived maintenance goroutines with an
// orderly shutdown
package background

// the shutdown and completed channels for one background process
type shutdown struct {
	shutdown chan struct{}
	finished chan struct{}
}

// T - handle for a running set of processes
type T struct {
	s []shutdown
}

// Process - type signature for a background process
//
// the process must exit and close done when shutdown is closed
type Process func(args interface{}, shutdown <-chan struct{}, done chan<- struct{})

// Processes - list of processes to start
type Processes []Process

// Start - start up a set of background processes
func Start(processes Processes, args interface{}) *T {

	register := new(T)
	register.s = make([]shutdown, len(processes))

	// start each background
	for i, p := range processes {
		stop := make(chan struct{})
		finished := make(chan struct{})
		register.s[i].shutdown = stop
		register.s[i].finished = finished
		go p(args, stop, finished)
	}
	return register
}

// Stop - stop a set of background processes
func Stop(t *T) {
	if nil == t {
		return
	}

	// shutdown all background tasks
	for _, shutdown := range t.s {
		close(shutdown.shutdown)
	}

	// wait for finished
	for _, shutdown := range t.s {
		<-shutdown.finished
	}
}
