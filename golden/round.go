// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package golden

import (
	"fmt"
	"math/big"
)

// A Rounding selects how ties between two representable values are broken.
type Rounding int

const (
	HalfAway Rounding = iota // ties round away from zero
	HalfEven                 // ties round to the even neighbour (Gaussian)
)

func (r Rounding) String() string {
	switch r {
	case HalfAway:
		return "away"
	case HalfEven:
		return "even"
	}
	return fmt.Sprintf("Rounding(%d)", int(r))
}

// ParseRounding returns the Rounding named s ("away" or "even").
func ParseRounding(s string) (Rounding, error) {
	switch s {
	case "away":
		return HalfAway, nil
	case "even":
		return HalfEven, nil
	}
	return 0, fmt.Errorf("unknown rounding %q", s)
}

// Round returns x rounded to the nearest integer.
func Round(x *big.Rat, mode Rounding) *big.Int {
	q, r := new(big.Int).QuoRem(x.Num(), x.Denom(), new(big.Int))
	if r.Sign() == 0 {
		return q
	}
	// q is truncated toward zero; |r| < denom.
	r.Abs(r).Lsh(r, 1)
	c := r.Cmp(x.Denom())
	if c > 0 || c == 0 && (mode == HalfAway || q.Bit(0) != 0) {
		q.Add(q, big.NewInt(int64(x.Sign())))
	}
	return q
}

// RoundFrac returns x rounded to the nearest multiple of 2^-frac.
func RoundFrac(x *big.Rat, frac int, mode Rounding) *big.Rat {
	scale := new(big.Int).Lsh(big.NewInt(1), uint(frac))
	n := Round(new(big.Rat).Mul(x, new(big.Rat).SetInt(scale)), mode)
	return new(big.Rat).SetFrac(n, scale)
}
