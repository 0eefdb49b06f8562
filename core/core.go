// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package core defines the signal contract shared by the arithmetic cores
// and provides cycle-level behavioural models of a signed fixed-point
// divider, a signed fixed-point multiplier and an unsigned integer divider.
//
// Every core is a synchronous circuit: inputs set with Drive are sampled
// at the next call to Edge, and Sample returns the registered outputs as
// they stand after the most recent edge.
package core

// Inputs are the signals driven into a core.
type Inputs struct {
	Rst   bool   // synchronous reset, active high
	Start bool   // one-cycle pulse requesting a computation
	A     uint64 // operand a, wire encoded
	B     uint64 // operand b, wire encoded
}

// Outputs are the signals driven by a core.
type Outputs struct {
	Flags
	Val uint64 // quotient or product, wire encoded
	Rem uint64 // remainder (integer divider only)
}

// Flags are the single-bit status outputs of a core.
type Flags uint8

const (
	FBusy  Flags = 1 << iota // computing
	FDone                    // computation complete (one cycle)
	FValid                   // result usable
	FDBZ                     // divisor was zero
	FOvf                     // result out of range
)

var ftab = []string{
	"busy,",
	"done,",
	"valid,",
	"dbz,",
	"ovf,",
}

func (f Flags) String() string {
	text := ""
	for i := range ftab {
		if f&(1<<i) != 0 {
			text += ftab[i]
		}
	}
	if text == "" {
		return "-"
	}
	return text[:len(text)-1]
}

// Busy reports whether the busy output is asserted.
func (f Flags) Busy() bool { return f&FBusy != 0 }

// Done reports whether the done output is asserted.
func (f Flags) Done() bool { return f&FDone != 0 }

// Valid reports whether the valid output is asserted.
func (f Flags) Valid() bool { return f&FValid != 0 }

// DBZ reports whether the divide-by-zero output is asserted.
func (f Flags) DBZ() bool { return f&FDBZ != 0 }

// Ovf reports whether the overflow output is asserted.
func (f Flags) Ovf() bool { return f&FOvf != 0 }

// set sets the given bit to the bool value b.
func (f *Flags) set(b bool, bit Flags) {
	if b {
		*f |= bit
	} else {
		*f &^= bit
	}
}

func mask(bits int) uint64 { return 1<<bits - 1 }

// sext sign-extends the bits-wide value w.
func sext(w uint64, bits int) int64 {
	w &= mask(bits)
	if w>>(bits-1) != 0 {
		return int64(w) - 1<<bits
	}
	return int64(w)
}

// roundUp reports whether a truncated magnitude should be incremented.
// cmp compares the discarded part against one half (-1, 0, +1),
// and odd reports whether the truncated magnitude is odd.
func roundUp(cmp int, odd, halfEven bool) bool {
	return cmp > 0 || cmp == 0 && (!halfEven || odd)
}
