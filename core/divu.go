// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package core

// A DivU is an unsigned integer divider producing quotient and remainder.
// It has no overflow output; FOvf is never set.
type DivU struct {
	Bits int

	in   Inputs
	out  Outputs
	busy bool
	i    int
	a, b uint64
	acc  uint64
	quo  uint64
}

// NewDivU returns an unsigned divider for bits-wide operands.
func NewDivU(bits int) *DivU {
	return &DivU{Bits: bits}
}

func (c *DivU) Drive(in Inputs) { c.in = in }
func (c *DivU) Sample() Outputs { return c.out }

func (c *DivU) Edge() {
	in := c.in
	c.out.set(false, FDone)
	if in.Rst {
		*c = DivU{Bits: c.Bits, in: in}
		return
	}

	if !c.busy {
		if !in.Start {
			return
		}
		c.a, c.b = in.A&mask(c.Bits), in.B&mask(c.Bits)
		c.out.Flags = FBusy
		c.busy = true
		c.acc, c.quo = 0, 0
		c.i = c.Bits
		return
	}

	if c.b == 0 {
		c.busy = false
		c.out = Outputs{Flags: FDone | FDBZ}
		return
	}
	if c.i > 0 {
		c.i--
		c.acc = c.acc<<1 | (c.a>>c.i)&1
		if c.acc >= c.b {
			c.acc -= c.b
			c.quo |= 1 << c.i
		}
		return
	}
	c.busy = false
	c.out = Outputs{Flags: FDone | FValid, Val: c.quo, Rem: c.acc}
}
