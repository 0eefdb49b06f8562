// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package fixed implements the fixed-width numeric formats spoken by the
// arithmetic cores: signed two's-complement fixed point and unsigned integers.
//
// Values are held as exact rationals ([math/big.Rat]); a wire value is the
// raw Bits-wide integer driven onto or read from a core's data signals.
package fixed

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"
)

// A Format describes the numeric contract of one core variant.
type Format struct {
	Bits   int  // wire width of operands and result
	Frac   int  // bits below the binary point
	Signed bool // two's complement
	Rem    bool // core also produces a remainder
}

const maxBits = 32

// Validate reports whether f describes a format the bench can drive.
func (f Format) Validate() error {
	switch {
	case f.Bits < 1 || f.Bits > maxBits:
		return fmt.Errorf("fixed: width %d out of range [1, %d]", f.Bits, maxBits)
	case f.Signed && f.Bits < 2:
		return fmt.Errorf("fixed: signed width %d too small", f.Bits)
	case f.Frac < 0 || f.Frac >= f.Bits:
		return fmt.Errorf("fixed: %d fractional bits invalid for width %d", f.Frac, f.Bits)
	case !f.Signed && f.Frac != 0:
		return fmt.Errorf("fixed: unsigned format cannot have fractional bits")
	case f.Rem && f.Signed:
		return fmt.Errorf("fixed: remainder only supported for unsigned integers")
	}
	return nil
}

// String returns the format in the form accepted by ParseFormat:
// s9.4 for signed fixed point, u8 for unsigned, with +rem appended
// for remainder-producing cores.
func (f Format) String() string {
	var s string
	if f.Signed {
		s = fmt.Sprintf("s%d.%d", f.Bits, f.Frac)
	} else {
		s = fmt.Sprintf("u%d", f.Bits)
	}
	if f.Rem {
		s += "+rem"
	}
	return s
}

// ParseFormat parses a format written as by Format.String.
func ParseFormat(s string) (Format, error) {
	var f Format
	text, rem := strings.CutSuffix(s, "+rem")
	f.Rem = rem
	if text == "" {
		return Format{}, fmt.Errorf("fixed: invalid format %q", s)
	}
	switch text[0] {
	case 's':
		f.Signed = true
	case 'u':
	default:
		return Format{}, fmt.Errorf("fixed: invalid format %q", s)
	}
	bits, frac, hasFrac := strings.Cut(text[1:], ".")
	n, err := strconv.Atoi(bits)
	if err != nil {
		return Format{}, fmt.Errorf("fixed: invalid format %q", s)
	}
	f.Bits = n
	if hasFrac {
		n, err := strconv.Atoi(frac)
		if err != nil {
			return Format{}, fmt.Errorf("fixed: invalid format %q", s)
		}
		f.Frac = n
	}
	if err := f.Validate(); err != nil {
		return Format{}, err
	}
	return f, nil
}

// Mask returns the mask selecting the Bits low bits of a wire value.
func (f Format) Mask() uint64 {
	return 1<<f.Bits - 1
}

// MinUnits returns the smallest representable value in units of 2^-Frac.
func (f Format) MinUnits() int64 {
	if f.Signed {
		return -1 << (f.Bits - 1)
	}
	return 0
}

// MaxUnits returns the largest representable value in units of 2^-Frac.
func (f Format) MaxUnits() int64 {
	if f.Signed {
		return 1<<(f.Bits-1) - 1
	}
	return 1<<f.Bits - 1
}

// Min returns the smallest representable value.
func (f Format) Min() *big.Rat {
	return f.rat(f.MinUnits())
}

// Max returns the largest representable value.
func (f Format) Max() *big.Rat {
	return f.rat(f.MaxUnits())
}

// Contains reports whether x lies inside the representable range of f.
// It does not require x to be a multiple of the format's resolution.
func (f Format) Contains(x *big.Rat) bool {
	return x.Cmp(f.Min()) >= 0 && x.Cmp(f.Max()) <= 0
}

// Scale returns 2^Frac.
func (f Format) Scale() *big.Int {
	return new(big.Int).Lsh(big.NewInt(1), uint(f.Frac))
}

// rat returns units * 2^-Frac.
func (f Format) rat(units int64) *big.Rat {
	return new(big.Rat).SetFrac(big.NewInt(units), f.Scale())
}

// Units interprets the wire value w as a count of 2^-Frac units,
// sign-extending when the format is signed.
func (f Format) Units(w uint64) int64 {
	w &= f.Mask()
	if f.Signed && w>>(f.Bits-1) != 0 {
		return int64(w) - 1<<f.Bits
	}
	return int64(w)
}

// Wire returns the wire representation of units, which must be in range.
func (f Format) Wire(units int64) uint64 {
	return uint64(units) & f.Mask()
}

// Bin returns w as a Bits-wide binary string, most significant bit first.
func (f Format) Bin(w uint64) string {
	return fmt.Sprintf("%0*b", f.Bits, w&f.Mask())
}

// Text formats x in decimal with Frac digits after the point.
// The result is exact for multiples of 2^-Frac.
func (f Format) Text(x *big.Rat) string {
	if x == nil {
		return "-"
	}
	return x.FloatString(f.Frac)
}
