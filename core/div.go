// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package core

type divState uint8

const (
	divIdle divState = iota
	divInit
	divCalc
	divRound
)

// A Div is a signed fixed-point divider.
//
// It divides magnitudes one quotient bit per clock, then rounds and
// restores the sign. Divide by zero and operands equal to the most
// negative value are reported one clock after start.
type Div struct {
	Bits     int  // operand and result width
	Frac     int  // fractional bits
	HalfEven bool // round ties to even instead of away from zero

	in    Inputs
	out   Outputs
	state divState
	a, b  uint64 // operands captured at start
	neg   bool   // result is negative
	i     int    // next quotient bit
	n     uint64 // dividend magnitude, scaled by 2^Frac
	d     uint64 // divisor magnitude
	acc   uint64 // partial remainder
	quo   uint64
}

// NewDiv returns a divider for bits-wide operands with frac fractional bits.
func NewDiv(bits, frac int) *Div {
	return &Div{Bits: bits, Frac: frac}
}

func (c *Div) Drive(in Inputs) { c.in = in }
func (c *Div) Sample() Outputs { return c.out }

func (c *Div) Edge() {
	in := c.in
	c.out.set(false, FDone)
	if in.Rst {
		*c = Div{Bits: c.Bits, Frac: c.Frac, HalfEven: c.HalfEven, in: in}
		return
	}

	switch c.state {
	case divIdle:
		if in.Start {
			c.a, c.b = in.A, in.B
			c.out.Flags = FBusy
			c.state = divInit
		}

	case divInit:
		a, b := sext(c.a, c.Bits), sext(c.b, c.Bits)
		smallest := int64(-1) << (c.Bits - 1)
		switch {
		case b == 0:
			c.finish(FDBZ, 0)
			return
		case a == smallest || b == smallest:
			c.finish(FOvf, 0)
			return
		}
		c.neg = (a < 0) != (b < 0)
		c.n = uint64(abs(a)) << c.Frac
		c.d = uint64(abs(b))
		c.acc, c.quo = 0, 0
		c.i = c.Bits - 1 + c.Frac - 1
		c.state = divCalc

	case divCalc:
		c.acc = c.acc<<1 | (c.n>>c.i)&1
		if c.acc >= c.d {
			c.acc -= c.d
			c.quo |= 1 << c.i
		}
		c.i--
		if c.i < 0 {
			c.state = divRound
		}

	case divRound:
		// Overflow is judged on the exact quotient quo + acc/d.
		limit := uint64(1)<<(c.Bits-1) - 1
		if c.neg {
			limit++
		}
		if c.quo > limit || c.quo == limit && c.acc != 0 {
			c.finish(FOvf, 0)
			return
		}
		q := c.quo
		if roundUp(cmp(2*c.acc, c.d), q&1 != 0, c.HalfEven) {
			q++
		}
		v := int64(q)
		if c.neg {
			v = -v
		}
		c.finish(FValid, uint64(v)&mask(c.Bits))
	}
}

func (c *Div) finish(f Flags, val uint64) {
	c.out = Outputs{Flags: FDone | f, Val: val}
	c.state = divIdle
}

func abs(x int64) int64 {
	if x < 0 {
		return -x
	}
	return x
}

func cmp(x, y uint64) int {
	switch {
	case x < y:
		return -1
	case x > y:
		return +1
	}
	return 0
}
