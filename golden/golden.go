// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package golden computes the results an arithmetic core is required to
// produce, using exact rational arithmetic independent of any hardware
// algorithm.
package golden

import (
	"fmt"
	"math/big"

	"rsc.io/fxbench/fixed"
)

// An Op is an arithmetic operation implemented by a core.
type Op int

const (
	Div  Op = iota // signed fixed-point divide
	Mul            // signed fixed-point multiply
	DivU           // unsigned integer divide with remainder
)

var opNames = []string{
	Div:  "div",
	Mul:  "mul",
	DivU: "divu",
}

func (op Op) String() string {
	if 0 <= op && int(op) < len(opNames) {
		return opNames[op]
	}
	return fmt.Sprintf("Op(%d)", int(op))
}

// Symbol returns the infix operator for op, for messages like 6/2.
func (op Op) Symbol() string {
	if op == Mul {
		return "*"
	}
	return "/"
}

// ParseOp returns the Op named s.
func ParseOp(s string) (Op, error) {
	for i, name := range opNames {
		if s == name {
			return Op(i), nil
		}
	}
	return 0, fmt.Errorf("unknown op %q", s)
}

// A Category classifies the outcome of one computation.
type Category int

const (
	Normal Category = iota
	DivideByZero
	Overflow
)

var categoryNames = []string{
	Normal:       "normal",
	DivideByZero: "dbz",
	Overflow:     "ovf",
}

func (c Category) String() string {
	if 0 <= c && int(c) < len(categoryNames) {
		return categoryNames[c]
	}
	return fmt.Sprintf("Category(%d)", int(c))
}

// ParseCategory returns the Category named s.
func ParseCategory(s string) (Category, error) {
	for i, name := range categoryNames {
		if s == name {
			return Category(i), nil
		}
	}
	return 0, fmt.Errorf("unknown category %q", s)
}

// A Result is the expected outcome of one computation.
// Val and Rem are nil unless Category is Normal; Rem is also nil
// for formats without a remainder.
type Result struct {
	Category Category
	Val      *big.Rat
	Rem      *big.Rat
}

// A Model is the golden reference for one core variant.
type Model struct {
	Format   fixed.Format
	Rounding Rounding

	// MinOperandOverflow makes an operand equal to the most negative
	// representable value an overflow. Cores that divide magnitudes
	// cannot negate that value.
	MinOperandOverflow bool
}

// Eval returns the expected result of a op b.
// The operands are the test values, not yet encoded for the wire.
//
// The category is decided on the operands as the core sees them,
// truncated by the wire encoding. The value of a normal result is
// computed on the operands rounded to nearest.
func (m *Model) Eval(op Op, a, b *big.Rat) (Result, error) {
	if err := m.Format.Validate(); err != nil {
		return Result{}, err
	}
	switch op {
	case Div:
		return m.div(a, b)
	case Mul:
		return m.mul(a, b)
	case DivU:
		return m.divu(a, b)
	}
	return Result{}, fmt.Errorf("golden: unknown op %v", op)
}

// operand returns x as the core sees it: encoded for the wire and decoded.
func (m *Model) operand(x *big.Rat) (*big.Rat, error) {
	w, err := fixed.Encode(x, m.Format)
	if err != nil {
		return nil, err
	}
	return fixed.Decode(w, m.Format), nil
}

// quantize rounds x to the nearest multiple of 2^-Frac.
// For x within the format's range the result is also within it.
func (m *Model) quantize(x *big.Rat) *big.Rat {
	return RoundFrac(x, m.Format.Frac, m.Rounding)
}

// value returns the expected value of a op b once the category is known to
// be normal. It is computed on the operands rounded to nearest, which can
// differ from the wire result when an operand is not a multiple of 2^-Frac.
// If that result is not representable, the rounded wire result onWire is
// used instead.
func (m *Model) value(op func(z, x, y *big.Rat) *big.Rat, a, b, onWire *big.Rat) *big.Rat {
	f := m.Format
	v := RoundFrac(op(new(big.Rat), m.quantize(a), m.quantize(b)), f.Frac, m.Rounding)
	if !f.Contains(v) {
		return onWire
	}
	return v
}

func (m *Model) div(a, b *big.Rat) (Result, error) {
	f := m.Format
	wa, err := m.operand(a)
	if err != nil {
		return Result{}, err
	}
	wb, err := m.operand(b)
	if err != nil {
		return Result{}, err
	}
	if wb.Sign() == 0 {
		return Result{Category: DivideByZero}, nil
	}
	if m.MinOperandOverflow && (wa.Cmp(f.Min()) == 0 || wb.Cmp(f.Min()) == 0) {
		return Result{Category: Overflow}, nil
	}
	q := new(big.Rat).Quo(wa, wb)
	if !f.Contains(q) {
		return Result{Category: Overflow}, nil
	}
	// The rounded divisor is nonzero: a divisor with a nonzero wire
	// value is at least one unit in magnitude.
	val := m.value((*big.Rat).Quo, a, b, RoundFrac(q, f.Frac, m.Rounding))
	return Result{Category: Normal, Val: val}, nil
}

func (m *Model) mul(a, b *big.Rat) (Result, error) {
	f := m.Format
	wa, err := m.operand(a)
	if err != nil {
		return Result{}, err
	}
	wb, err := m.operand(b)
	if err != nil {
		return Result{}, err
	}
	p := RoundFrac(new(big.Rat).Mul(wa, wb), f.Frac, m.Rounding)
	if !f.Contains(p) {
		return Result{Category: Overflow}, nil
	}
	return Result{Category: Normal, Val: m.value((*big.Rat).Mul, a, b, p)}, nil
}

func (m *Model) divu(a, b *big.Rat) (Result, error) {
	f := m.Format
	if f.Signed || f.Frac != 0 {
		return Result{}, fmt.Errorf("golden: divu needs an unsigned integer format, have %v", f)
	}
	if !a.IsInt() || !b.IsInt() {
		return Result{}, fmt.Errorf("golden: divu operands must be integers: %s, %s", a.RatString(), b.RatString())
	}
	if _, err := m.operand(a); err != nil {
		return Result{}, err
	}
	if _, err := m.operand(b); err != nil {
		return Result{}, err
	}
	if b.Sign() == 0 {
		return Result{Category: DivideByZero}, nil
	}
	// Operands are non-negative, so truncated and floored division agree.
	q, r := new(big.Int).QuoRem(a.Num(), b.Num(), new(big.Int))
	res := Result{Category: Normal, Val: new(big.Rat).SetInt(q)}
	if f.Rem {
		res.Rem = new(big.Rat).SetInt(r)
	}
	return res, nil
}
