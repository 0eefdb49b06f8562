// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fixed

import (
	"fmt"
	"math/big"
)

// A RangeError reports a value that cannot be represented in a format.
type RangeError struct {
	Value  *big.Rat
	Format Format
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("fixed: %s out of range for %v [%s, %s]",
		e.Value.FloatString(e.Format.Frac+2), e.Format, e.Format.Text(e.Format.Min()), e.Format.Text(e.Format.Max()))
}

// Encode returns the wire integer for x in format f.
// x must lie within the format's range; it is then scaled by 2^Frac and
// truncated toward zero, the same conversion a test bench applies before
// driving the core.
func Encode(x *big.Rat, f Format) (uint64, error) {
	if !f.Contains(x) {
		return 0, &RangeError{Value: new(big.Rat).Set(x), Format: f}
	}
	n := new(big.Int).Mul(x.Num(), f.Scale())
	n.Quo(n, x.Denom())
	return f.Wire(n.Int64()), nil
}

// Decode returns the value carried by the wire integer w in format f.
// Bits above the format width are ignored.
func Decode(w uint64, f Format) *big.Rat {
	return f.rat(f.Units(w))
}

// ParseValue parses a decimal or rational literal such as 3.6, -0.0625 or 1/3
// into an exact rational.
func ParseValue(s string) (*big.Rat, error) {
	x, ok := new(big.Rat).SetString(s)
	if !ok {
		return nil, fmt.Errorf("fixed: invalid value %q", s)
	}
	return x, nil
}

// Exact reports whether x is a multiple of 2^-Frac, that is, whether
// Encode followed by Decode returns x unchanged (when x is in range).
func Exact(x *big.Rat, f Format) bool {
	n := new(big.Int).Mul(x.Num(), f.Scale())
	return new(big.Int).Rem(n, x.Denom()).Sign() == 0
}
