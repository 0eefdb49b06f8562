// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package core

type mulState uint8

const (
	mulIdle mulState = iota
	mulCalc
	mulRound
)

// A Mul is a signed fixed-point multiplier.
// It forms the full-width product in one clock and rounds it in the next.
type Mul struct {
	Bits     int
	Frac     int
	HalfEven bool

	in    Inputs
	out   Outputs
	state mulState
	a, b  uint64
	prod  int64 // full product, 2*Frac fractional bits
}

// NewMul returns a multiplier for bits-wide operands with frac fractional bits.
func NewMul(bits, frac int) *Mul {
	return &Mul{Bits: bits, Frac: frac}
}

func (c *Mul) Drive(in Inputs) { c.in = in }
func (c *Mul) Sample() Outputs { return c.out }

func (c *Mul) Edge() {
	in := c.in
	c.out.set(false, FDone)
	if in.Rst {
		*c = Mul{Bits: c.Bits, Frac: c.Frac, HalfEven: c.HalfEven, in: in}
		return
	}

	switch c.state {
	case mulIdle:
		if in.Start {
			c.a, c.b = in.A, in.B
			c.out.Flags = FBusy
			c.state = mulCalc
		}

	case mulCalc:
		c.prod = sext(c.a, c.Bits) * sext(c.b, c.Bits)
		c.state = mulRound

	case mulRound:
		neg := c.prod < 0
		m := uint64(abs(c.prod))
		q := m >> c.Frac
		if c.Frac > 0 {
			low := m & mask(c.Frac)
			half := uint64(1) << (c.Frac - 1)
			if roundUp(cmp(low, half), q&1 != 0, c.HalfEven) {
				q++
			}
		}
		limit := uint64(1)<<(c.Bits-1) - 1
		if neg {
			limit++
		}
		if q > limit {
			c.out = Outputs{Flags: FDone | FOvf}
			c.state = mulIdle
			return
		}
		v := int64(q)
		if neg {
			v = -v
		}
		c.out = Outputs{Flags: FDone | FValid, Val: uint64(v) & mask(c.Bits)}
		c.state = mulIdle
	}
}
