// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package core

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type device interface {
	Drive(Inputs)
	Edge()
	Sample() Outputs
}

// run pulses start with operands a and b and clocks c until done,
// returning the outputs on the done edge and the number of edges after start.
func run(t *testing.T, c device, a, b uint64) (Outputs, int) {
	t.Helper()
	c.Drive(Inputs{Rst: true})
	c.Edge()
	c.Drive(Inputs{A: a, B: b, Start: true})
	c.Edge()
	require.True(t, c.Sample().Busy(), "busy after start")
	c.Drive(Inputs{A: a, B: b})
	for n := 0; n < 100; n++ {
		out := c.Sample()
		if out.Done() {
			require.False(t, out.Busy(), "busy with done")
			c.Edge()
			require.False(t, c.Sample().Done(), "done held for two cycles")
			return out, n
		}
		c.Edge()
	}
	t.Fatalf("done never asserted")
	return Outputs{}, 0
}

// q94 encodes x as a 9-bit signed value with 4 fractional bits.
func q94(x float64) uint64 { return uint64(int64(x*16)) & 0x1ff }

var divTests = []struct {
	a, b  float64
	flags Flags
	away  float64
	even  float64
	lat   int // edges from start release to done
}{
	{6, 2, FValid, 3, 3, 14},
	{-3, -2, FValid, 1.5, 1.5, 14},
	{3, -2, FValid, -1.5, -1.5, 14},
	{5.0625, 2, FValid, 2.5625, 2.5, 14},
	{-5.0625, 2, FValid, -2.5625, -2.5, 14},
	{11, 7, FValid, 1.5625, 1.5625, 14},
	{0.0625, 2, FValid, 0.0625, 0, 14},
	{15.9375, 1, FValid, 15.9375, 15.9375, 14},
	{-7.9375, 0.5, FValid, -15.875, -15.875, 14},
	{8, 0.25, FOvf, 0, 0, 14},
	{-16, 1, FOvf, 0, 0, 1},
	{1, -16, FOvf, 0, 0, 1},
	{2, 0, FDBZ, 0, 0, 1},
}

func TestDiv(t *testing.T) {
	for _, even := range []bool{false, true} {
		c := NewDiv(9, 4)
		c.HalfEven = even
		for _, tt := range divTests {
			out, n := run(t, c, q94(tt.a), q94(tt.b))
			require.Equal(t, FDone|tt.flags, out.Flags, "%v/%v flags", tt.a, tt.b)
			require.Equal(t, tt.lat, n, "%v/%v latency", tt.a, tt.b)
			if tt.flags != FValid {
				continue
			}
			want := tt.away
			if even {
				want = tt.even
			}
			require.Equal(t, q94(want), out.Val, "%v/%v (even=%v)", tt.a, tt.b, even)
		}
	}
}

var mulTests = []struct {
	a, b  float64
	flags Flags
	away  float64
	even  float64
}{
	{1, 1, FValid, 1, 1},
	{-1, 1, FValid, -1, -1},
	{3, 0, FValid, 0, 0},
	{2.5, 2.0625, FValid, 5.1875, 5.125},
	{-2.5, 2.0625, FValid, -5.1875, -5.125},
	{3.5, 2.0625, FValid, 7.25, 7.25},
	{3.4375, 4.5, FValid, 15.5, 15.5},
	{-4, 4, FValid, -16, -16},
	{4, 4, FOvf, 0, 0},
	{8, 8, FOvf, 0, 0},
	{-7, 3, FOvf, 0, 0},
}

func TestMul(t *testing.T) {
	for _, even := range []bool{false, true} {
		c := NewMul(9, 4)
		c.HalfEven = even
		for _, tt := range mulTests {
			out, n := run(t, c, q94(tt.a), q94(tt.b))
			require.Equal(t, FDone|tt.flags, out.Flags, "%v*%v flags", tt.a, tt.b)
			require.Equal(t, 2, n, "%v*%v latency", tt.a, tt.b)
			if tt.flags != FValid {
				continue
			}
			want := tt.away
			if even {
				want = tt.even
			}
			require.Equal(t, q94(want), out.Val, "%v*%v (even=%v)", tt.a, tt.b, even)
		}
	}
}

func TestDivU(t *testing.T) {
	c := NewDivU(8)
	for _, tt := range []struct{ a, b, q, r uint64 }{
		{1, 1, 1, 0},
		{0, 2, 0, 0},
		{7, 2, 3, 1},
		{97, 13, 7, 6},
		{251, 13, 19, 4},
		{255, 16, 15, 15},
		{255, 255, 1, 0},
		{254, 255, 0, 254},
	} {
		out, n := run(t, c, tt.a, tt.b)
		require.Equal(t, FDone|FValid, out.Flags, "%d/%d flags", tt.a, tt.b)
		require.Equal(t, tt.q, out.Val, "%d/%d quotient", tt.a, tt.b)
		require.Equal(t, tt.r, out.Rem, "%d/%d remainder", tt.a, tt.b)
		require.Equal(t, 8+1, n, "%d/%d latency", tt.a, tt.b)
	}

	out, _ := run(t, c, 2, 0)
	require.Equal(t, FDone|FDBZ, out.Flags)
}

func TestStartWhileBusy(t *testing.T) {
	c := NewDivU(8)
	c.Drive(Inputs{A: 97, B: 13, Start: true})
	c.Edge()
	// A second start pulse mid-computation must not restart the divider.
	c.Edge()
	c.Drive(Inputs{A: 6, B: 2, Start: true})
	c.Edge()
	c.Drive(Inputs{})
	for !c.Sample().Done() {
		c.Edge()
	}
	require.Equal(t, uint64(7), c.Sample().Val)
	require.Equal(t, uint64(6), c.Sample().Rem)
}

func TestReset(t *testing.T) {
	for _, c := range []device{NewDiv(9, 4), NewMul(9, 4), NewDivU(8)} {
		c.Drive(Inputs{A: 2, B: 0, Start: true})
		c.Edge()
		c.Drive(Inputs{Rst: true})
		c.Edge()
		require.Equal(t, Outputs{}, c.Sample(), "%T after reset", c)
		c.Drive(Inputs{})
		for i := 0; i < 20; i++ {
			c.Edge()
			require.Equal(t, Outputs{}, c.Sample(), "%T idle after reset", c)
		}
	}
}

func TestFlagsString(t *testing.T) {
	require.Equal(t, "-", Flags(0).String())
	require.Equal(t, "done,valid", (FDone | FValid).String())
	require.Equal(t, "busy,done,valid,dbz,ovf", (FBusy | FDone | FValid | FDBZ | FOvf).String())
}
