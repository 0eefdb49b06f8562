// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bench

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"rsc.io/fxbench/core"
)

// A Device is a clocked arithmetic core.
// Inputs set by Drive are sampled at the next Edge;
// Sample returns the outputs registered at the last Edge.
type Device interface {
	Drive(in core.Inputs)
	Edge()
	Sample() core.Outputs
}

var (
	ErrClockStopped    = errors.New("clock stopped")
	ErrClockNotRunning = errors.New("clock not started")
)

// A Clock is the timing reference for one Device.
//
// The clock runs in its own goroutine and delivers one rising edge to the
// device each time a caller waits in RisingEdge. Callers drive inputs and
// sample outputs only between edges, so the device is never touched
// concurrently.
type Clock struct {
	dev  Device
	tick chan bool
	tock chan bool
	stop chan bool

	mu      sync.Mutex
	running bool
	stopped bool
	cycles  int64
}

// NewClock returns a clock for dev. It does not run until Start.
func NewClock(dev Device) *Clock {
	return &Clock{
		dev:  dev,
		tick: make(chan bool),
		tock: make(chan bool),
		stop: make(chan bool),
	}
}

// Start starts the clock. Starting a running clock is a no-op.
func (c *Clock) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running || c.stopped {
		return
	}
	c.running = true
	go c.run()
}

func (c *Clock) run() {
	for {
		select {
		case <-c.stop:
			return
		case <-c.tick:
		}
		c.dev.Edge()
		c.tock <- true
	}
}

// Running reports whether the clock has been started and not stopped.
func (c *Clock) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// RisingEdge waits for the next rising edge of the clock.
// It returns ErrClockNotRunning if the clock has not been started.
func (c *Clock) RisingEdge(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	running, stopped := c.running, c.stopped
	c.mu.Unlock()
	switch {
	case stopped:
		return ErrClockStopped
	case !running:
		return ErrClockNotRunning
	}
	select {
	case c.tick <- true:
	case <-c.stop:
		return ErrClockStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	<-c.tock
	c.mu.Lock()
	c.cycles++
	c.mu.Unlock()
	return nil
}

// Cycles returns the number of edges delivered so far.
func (c *Clock) Cycles() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cycles
}

// Stop stops the clock. A stopped clock cannot be restarted.
func (c *Clock) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopped {
		return
	}
	c.stopped = true
	c.running = false
	close(c.stop)
}
