// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bench

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"rsc.io/fxbench/core"
)

// A Phase is a state of the start/busy/done handshake.
type Phase int

const (
	Idle      Phase = iota // nothing driven
	Loaded                 // operands and start driven together
	Running                // start released, polling done
	DonePulse              // done seen, checking it falls after one cycle
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Loaded:
		return "loaded"
	case Running:
		return "running"
	case DonePulse:
		return "done-pulse"
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

// Protocol faults. A protocol fault leaves the device in an unknown state;
// no further vectors can be run on it.
var (
	ErrHang      = errors.New("done never asserted")
	ErrDoneWidth = errors.New("done held for more than one cycle")
	ErrBusyDone  = errors.New("busy asserted with done")
)

// IsProtocol reports whether err is a protocol fault.
func IsProtocol(err error) bool {
	return errors.Is(err, ErrHang) || errors.Is(err, ErrDoneWidth) || errors.Is(err, ErrBusyDone)
}

// DefaultMaxCycles bounds the wait for done when Session.MaxCycles is zero.
const DefaultMaxCycles = 256

// A Session runs the handshake against one device for one or more
// back-to-back vectors.
type Session struct {
	Dev       Device
	Clock     *Clock
	Phase     Phase
	MaxCycles int // bound on edges spent waiting for done

	in core.Inputs
}

// NewSession returns a session on dev, starting clk if it is not running.
// The device keeps whatever state it had until Reset.
func NewSession(dev Device, clk *Clock) *Session {
	clk.Start()
	return &Session{Dev: dev, Clock: clk}
}

func (s *Session) drive(in core.Inputs) {
	s.in = in
	s.Dev.Drive(in)
}

// Reset puts the device through one full reset pulse bounded by
// quiescent edges: edge, rst=0, edge, rst=1, edge, rst=0, edge.
func (s *Session) Reset(ctx context.Context) error {
	for _, rst := range []bool{false, true, false} {
		if err := s.Clock.RisingEdge(ctx); err != nil {
			return err
		}
		in := s.in
		in.Rst = rst
		s.drive(in)
	}
	if err := s.Clock.RisingEdge(ctx); err != nil {
		return err
	}
	s.Phase = Idle
	return nil
}

// Exec runs one computation: it drives operands a and b with a one-cycle
// start pulse, waits for done, and returns the outputs sampled on the
// edge where done was first seen, along with the number of edges spent
// waiting for it.
//
// Exec also enforces the handshake timing: done must appear within
// MaxCycles edges, must not be accompanied by busy, and must fall on the
// following edge. Violations are returned as protocol faults.
func (s *Session) Exec(ctx context.Context, a, b uint64) (core.Outputs, int, error) {
	limit := s.MaxCycles
	if limit <= 0 {
		limit = DefaultMaxCycles
	}

	if err := s.Clock.RisingEdge(ctx); err != nil {
		return core.Outputs{}, 0, err
	}
	s.drive(core.Inputs{A: a, B: b, Start: true})
	s.Phase = Loaded

	if err := s.Clock.RisingEdge(ctx); err != nil {
		return core.Outputs{}, 0, err
	}
	s.drive(core.Inputs{A: a, B: b})
	s.Phase = Running

	n := 0
	for !s.Dev.Sample().Done() {
		if n >= limit {
			return s.Dev.Sample(), n, errors.Wrapf(ErrHang, "after %d cycles", n)
		}
		if err := s.Clock.RisingEdge(ctx); err != nil {
			return core.Outputs{}, n, err
		}
		n++
	}

	s.Phase = DonePulse
	out := s.Dev.Sample()
	if out.Busy() {
		return out, n, errors.Wrapf(ErrBusyDone, "after %d cycles", n)
	}
	if err := s.Clock.RisingEdge(ctx); err != nil {
		return out, n, err
	}
	if s.Dev.Sample().Done() {
		return out, n, errors.Wrapf(ErrDoneWidth, "after %d cycles", n)
	}
	s.Phase = Idle
	return out, n, nil
}
