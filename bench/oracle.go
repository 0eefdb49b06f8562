// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bench

import (
	"fmt"
	"math/big"
	"strings"

	"rsc.io/fxbench/core"
	"rsc.io/fxbench/fixed"
	"rsc.io/fxbench/golden"
	"rsc.io/fxbench/vectors"
)

// A Status is the outcome of one vector.
type Status int

const (
	Pass  Status = iota
	Fail         // numeric or flag mismatch
	XFail        // numeric mismatch on a rounding-ambiguous vector
	Fault        // protocol fault; the session was abandoned
)

func (s Status) String() string {
	switch s {
	case Pass:
		return "PASS"
	case Fail:
		return "FAIL"
	case XFail:
		return "XFAIL"
	case Fault:
		return "FAULT"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// A Kind classifies why a vector did not pass.
type Kind int

const (
	NoMismatch Kind = iota
	Numeric         // value or remainder differs from the model
	FlagMismatch    // a status output differs from the expected category
	Protocol        // handshake timing violated
	Corpus          // the vector's declared category disagrees with the model
)

func (k Kind) String() string {
	switch k {
	case NoMismatch:
		return "ok"
	case Numeric:
		return "numeric"
	case FlagMismatch:
		return "flags"
	case Protocol:
		return "protocol"
	case Corpus:
		return "corpus"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// A Verdict is the result of checking one vector.
type Verdict struct {
	Suite    *vectors.Suite
	Vector   *vectors.Vector
	Status   Status
	Kind     Kind
	Want     golden.Result
	Out      core.Outputs
	Val, Rem *big.Rat // decoded core outputs
	Cycles   int      // edges from start release to done
	Problems []string
	Err      error
}

func (vd *Verdict) String() string {
	var b strings.Builder
	f := vd.Suite.Format
	fmt.Fprintf(&b, "%-5s %s/%s %s", vd.Status, vd.Suite.Op, vd.Vector.Name, vd.Suite.Expr(vd.Vector))
	switch {
	case vd.Err != nil:
		fmt.Fprintf(&b, ": %v", vd.Err)
	case len(vd.Problems) > 0:
		fmt.Fprintf(&b, ": %s", strings.Join(vd.Problems, "; "))
	case vd.Want.Category != golden.Normal:
		fmt.Fprintf(&b, " = %v", vd.Want.Category)
	default:
		fmt.Fprintf(&b, " = %s", f.Text(vd.Val))
		if f.Rem {
			fmt.Fprintf(&b, " rem %s", f.Text(vd.Rem))
		}
	}
	if vd.Status == XFail {
		b.WriteString(" (rounding-ambiguous)")
	}
	if vd.Status != Fault {
		fmt.Fprintf(&b, " [%d cycles]", vd.Cycles)
	}
	return b.String()
}

// expectFlags returns the status outputs required for category c.
func expectFlags(c golden.Category) core.Flags {
	switch c {
	case golden.DivideByZero:
		return core.FDone | core.FDBZ
	case golden.Overflow:
		return core.FDone | core.FOvf
	}
	return core.FDone | core.FValid
}

var flagNames = []struct {
	bit  core.Flags
	name string
}{
	{core.FBusy, "busy"},
	{core.FDone, "done"},
	{core.FValid, "valid"},
	{core.FDBZ, "dbz"},
	{core.FOvf, "ovf"},
}

func bit(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Check compares the outputs of a core, sampled on the done edge for
// vector v of suite s, against the model's expected result.
//
// Status flags must always match the expected category exactly.
// For normal results the decoded value (and remainder) must equal the
// model's; a mismatch on a vector marked Tolerate is an expected failure.
// On error categories the value outputs are not checked.
func Check(s *vectors.Suite, v *vectors.Vector, want golden.Result, out core.Outputs) *Verdict {
	f := s.Format
	vd := &Verdict{
		Suite:  s,
		Vector: v,
		Want:   want,
		Out:    out,
		Val:    fixed.Decode(out.Val, f),
	}
	if f.Rem {
		vd.Rem = fixed.Decode(out.Rem, f)
	}

	if v.Want != want.Category {
		vd.fail(Corpus, "corpus says %v, model says %v", v.Want, want.Category)
		return vd
	}

	exp := expectFlags(want.Category)
	for _, fl := range flagNames {
		if have, want := out.Flags&fl.bit != 0, exp&fl.bit != 0; have != want {
			vd.fail(FlagMismatch, "%s=%d, want %d", fl.name, bit(have), bit(want))
		}
	}
	if vd.Status != Pass || want.Category != golden.Normal {
		return vd
	}

	if vd.Val.Cmp(want.Val) != 0 {
		vd.mismatch(v.Tolerate, "val=%s, want %s", f.Text(vd.Val), f.Text(want.Val))
	}
	if f.Rem && want.Rem != nil && vd.Rem.Cmp(want.Rem) != 0 {
		vd.mismatch(v.Tolerate, "rem=%s, want %s", f.Text(vd.Rem), f.Text(want.Rem))
	}
	return vd
}

func (vd *Verdict) fail(k Kind, format string, args ...any) {
	vd.Status = Fail
	if vd.Kind == NoMismatch {
		vd.Kind = k
	}
	vd.Problems = append(vd.Problems, fmt.Sprintf(format, args...))
}

func (vd *Verdict) mismatch(tolerate bool, format string, args ...any) {
	vd.fail(Numeric, format, args...)
	if tolerate {
		vd.Status = XFail
	}
}

// A Summary counts verdicts by status.
type Summary struct {
	Pass, Fail, XFail, Fault int
}

// Summarize counts the verdicts in list.
func Summarize(list []*Verdict) Summary {
	var s Summary
	for _, v := range list {
		switch v.Status {
		case Pass:
			s.Pass++
		case Fail:
			s.Fail++
		case XFail:
			s.XFail++
		case Fault:
			s.Fault++
		}
	}
	return s
}

// OK reports whether the summary has no failures or faults.
func (s Summary) OK() bool {
	return s.Fail == 0 && s.Fault == 0
}

func (s Summary) String() string {
	return fmt.Sprintf("%d passed, %d failed, %d expected failures, %d faults", s.Pass, s.Fail, s.XFail, s.Fault)
}
