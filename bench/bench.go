// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package bench drives clocked arithmetic cores through the start/busy/done
// handshake and checks their results against the reference model.
//
// A Bench owns one device and one clock. Run applies the vectors of a
// suite in order, resetting the device before each vector that is not
// chained to its predecessor, and returns one Verdict per vector.
// Independent benches, each with its own device, can run concurrently
// with RunAll.
package bench

import (
	"context"
	"log"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"rsc.io/fxbench/core"
	"rsc.io/fxbench/fixed"
	"rsc.io/fxbench/golden"
	"rsc.io/fxbench/vectors"
)

// A Bench runs one suite against one device.
type Bench struct {
	Suite     *vectors.Suite
	Model     *golden.Model
	Dev       Device
	MaxCycles int         // bound on the wait for done; 0 means DefaultMaxCycles
	Log       *log.Logger // if non-nil, receives a trace line per vector
}

// Run applies the suite's vectors to the device in corpus order.
//
// It returns the verdicts for the vectors run so far. A protocol fault
// ends the run: the faulting vector's verdict has Status Fault, and the
// fault is also returned as the error. Context cancellation likewise ends
// the run with the context's error.
func (b *Bench) Run(ctx context.Context) ([]*Verdict, error) {
	clk := NewClock(b.Dev)
	defer clk.Stop()
	s := NewSession(b.Dev, clk)
	s.MaxCycles = b.MaxCycles

	op := b.Suite.Op
	f := b.Suite.Format
	var list []*Verdict
	for _, v := range b.Suite.Vectors {
		if !v.Chained {
			if err := s.Reset(ctx); err != nil {
				return list, err
			}
		}
		want, err := b.Model.Eval(op, v.A, v.B)
		if err != nil {
			return list, errors.Wrapf(err, "%s/%s", op, v.Name)
		}
		wa, err := fixed.Encode(v.A, f)
		if err != nil {
			return list, errors.Wrapf(err, "%s/%s", op, v.Name)
		}
		wb, err := fixed.Encode(v.B, f)
		if err != nil {
			return list, errors.Wrapf(err, "%s/%s", op, v.Name)
		}

		out, n, err := s.Exec(ctx, wa, wb)
		if err != nil && !IsProtocol(err) {
			return list, err
		}
		vd := Check(b.Suite, v, want, out)
		vd.Cycles = n
		if err != nil {
			vd.Status = Fault
			vd.Kind = Protocol
			vd.Problems = nil
			vd.Err = err
		}
		b.trace(vd, wa, wb)
		list = append(list, vd)
		if err != nil {
			return list, errors.Wrapf(err, "%s/%s in phase %v", op, v.Name, s.Phase)
		}
	}
	return list, nil
}

// trace logs the wire values of one vector in binary,
// along with the decoded result and the model's expectation.
func (b *Bench) trace(vd *Verdict, wa, wb uint64) {
	if b.Log == nil {
		return
	}
	f := b.Suite.Format
	out := vd.Out
	want := vd.Want
	if f.Rem {
		b.Log.Printf("%s/%s a: %s b: %s val: %s rem: %s flags: %v | %s rem %s, want %v %s rem %s",
			b.Suite.Op, vd.Vector.Name, f.Bin(wa), f.Bin(wb), f.Bin(out.Val), f.Bin(out.Rem), out.Flags,
			f.Text(vd.Val), f.Text(vd.Rem), want.Category, f.Text(want.Val), f.Text(want.Rem))
		return
	}
	b.Log.Printf("%s/%s a: %s b: %s val: %s flags: %v | %s, want %v %s",
		b.Suite.Op, vd.Vector.Name, f.Bin(wa), f.Bin(wb), f.Bin(out.Val), out.Flags,
		f.Text(vd.Val), want.Category, f.Text(want.Val))
}

// A Report is the outcome of one Bench run by RunAll.
type Report struct {
	Suite    *vectors.Suite
	Verdicts []*Verdict
	Err      error // protocol fault or other error that ended the run early
}

// Summary returns the counts of the report's verdicts.
func (r *Report) Summary() Summary {
	return Summarize(r.Verdicts)
}

// RunAll runs the benches concurrently, at most limit at a time
// (no limit if limit <= 0), and returns their reports in order.
//
// A protocol fault ends only the bench that hit it and is recorded in its
// report. Any other error, such as cancellation of ctx, cancels the
// remaining benches and is returned.
func RunAll(ctx context.Context, benches []*Bench, limit int) ([]*Report, error) {
	reports := make([]*Report, len(benches))
	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, b := range benches {
		i, b := i, b
		g.Go(func() error {
			list, err := b.Run(ctx)
			reports[i] = &Report{Suite: b.Suite, Verdicts: list, Err: err}
			if err != nil && !IsProtocol(err) {
				return err
			}
			return nil
		})
	}
	err := g.Wait()
	return reports, err
}

// NewCore returns a behavioural core implementing suite s,
// rounding ties to even if halfEven is set.
func NewCore(s *vectors.Suite, halfEven bool) Device {
	f := s.Format
	switch s.Op {
	case golden.Mul:
		c := core.NewMul(f.Bits, f.Frac)
		c.HalfEven = halfEven
		return c
	case golden.DivU:
		return core.NewDivU(f.Bits)
	}
	c := core.NewDiv(f.Bits, f.Frac)
	c.HalfEven = halfEven
	return c
}
