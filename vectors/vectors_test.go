// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vectors

import (
	"bytes"
	"strings"
	"testing"

	"golang.org/x/tools/txtar"
	"rsc.io/fxbench/fixed"
	"rsc.io/fxbench/golden"
)

func TestDefault(t *testing.T) {
	suites, err := Default()
	if err != nil {
		t.Fatal(err)
	}
	want := []struct {
		op     golden.Op
		format string
		n      int
	}{
		{golden.Div, "s9.4", 36},
		{golden.Mul, "s9.4", 31},
		{golden.DivU, "u8+rem", 14},
	}
	if len(suites) != len(want) {
		t.Fatalf("Default() = %d suites, want %d", len(suites), len(want))
	}
	for i, w := range want {
		s := suites[i]
		if s.Op != w.op || s.Format.String() != w.format || len(s.Vectors) != w.n {
			t.Errorf("suite %d = %v %v with %d vectors, want %v %v with %d", i, s.Op, s.Format, len(s.Vectors), w.op, w.format, w.n)
		}
	}
	if !suites[0].MinOverflow || suites[1].MinOverflow {
		t.Errorf("MinOverflow = %v, %v, want true, false", suites[0].MinOverflow, suites[1].MinOverflow)
	}
}

// TestCorpusCategories checks that every vector's declared category agrees
// with the reference model under both tie-breaking rules, and that every
// operand fits the suite's format.
func TestCorpusCategories(t *testing.T) {
	suites, err := Default()
	if err != nil {
		t.Fatal(err)
	}
	for _, s := range suites {
		for _, r := range []golden.Rounding{golden.HalfAway, golden.HalfEven} {
			m := s.Model(r)
			for _, v := range s.Vectors {
				if _, err := fixed.Encode(v.A, s.Format); err != nil {
					t.Errorf("%s/%s: %v", s.Op, v.Name, err)
				}
				if _, err := fixed.Encode(v.B, s.Format); err != nil {
					t.Errorf("%s/%s: %v", s.Op, v.Name, err)
				}
				res, err := m.Eval(s.Op, v.A, v.B)
				if err != nil {
					t.Errorf("%s/%s: %v", s.Op, v.Name, err)
					continue
				}
				if res.Category != v.Want {
					t.Errorf("%s/%s %s: model says %v, corpus says %v", s.Op, v.Name, s.Expr(v), res.Category, v.Want)
				}
			}
		}
	}
}

// TestTolerated checks that exactly the vectors whose operands are not
// binary fractions, and would be truncated differently from how they
// round, are marked tolerate.
func TestTolerated(t *testing.T) {
	suites, err := Default()
	if err != nil {
		t.Fatal(err)
	}
	for _, s := range suites {
		m := s.Model(golden.HalfAway)
		for _, v := range s.Vectors {
			ambiguous := false
			for _, x := range []string{v.Src[0], v.Src[1]} {
				q, _ := fixed.ParseValue(x)
				w, err := fixed.Encode(q, s.Format)
				if err != nil {
					t.Fatal(err)
				}
				r := golden.RoundFrac(q, s.Format.Frac, m.Rounding)
				if fixed.Decode(w, s.Format).Cmp(r) != 0 {
					ambiguous = true
				}
			}
			if ambiguous != v.Tolerate {
				t.Errorf("%s/%s %s: tolerate = %v, want %v", s.Op, v.Name, s.Expr(v), v.Tolerate, ambiguous)
			}
		}
	}
}

func TestFormatRoundTrip(t *testing.T) {
	suites, err := Default()
	if err != nil {
		t.Fatal(err)
	}
	data := Format("round trip\n", suites)
	again, err := Parse("formatted", data)
	if err != nil {
		t.Fatal(err)
	}
	if len(again) != len(suites) {
		t.Fatalf("reparsed %d suites, want %d", len(again), len(suites))
	}
	for i, s := range suites {
		s2 := again[i]
		if s2.Op != s.Op || s2.Format != s.Format || s2.MinOverflow != s.MinOverflow || len(s2.Vectors) != len(s.Vectors) {
			t.Fatalf("suite %d: reparsed %v %v, want %v %v", i, s2.Op, s2.Format, s.Op, s.Format)
		}
		for j, v := range s.Vectors {
			v2 := s2.Vectors[j]
			if v2.Name != v.Name || v2.A.Cmp(v.A) != 0 || v2.B.Cmp(v.B) != 0 || v2.Want != v.Want || v2.Tolerate != v.Tolerate || v2.Chained != v.Chained {
				t.Errorf("%s/%s: reparsed %+v, want %+v", s.Op, v.Name, v2, v)
			}
		}
	}
	if again := Format("round trip\n", again); !bytes.Equal(again, data) {
		t.Errorf("Format not stable:\n%s\nvs\n%s", again, data)
	}
}

var badCorpora = []struct {
	text string
	err  string
}{
	{"no files\n", "no suites"},
	{"-- add s9.4 --\n", "unknown op"},
	{"-- div s9.9 --\n", "fractional bits"},
	{"-- div s9.4 fast --\n", "unknown suite flag"},
	{"-- divu s9.4 --\n", "does not fit"},
	{"-- mul u8+rem --\n", "does not fit"},
	{"-- div s9.4 --\na 1 2\n", "want \"name a b category\""},
	{"-- div s9.4 --\na x 2 normal\n", "invalid value"},
	{"-- div s9.4 --\na 1 2 weird\n", "unknown category"},
	{"-- div s9.4 --\na 1 2 normal maybe\n", "unknown vector flag"},
	{"-- div s9.4 --\na 15.97 1 normal\n", "out of range"},
	{"-- divu u8+rem --\na 255.5 1 normal\n", "out of range"},
	{"-- div s9.4 --\na 1 2 normal\na 1 2 normal\n", "duplicate vector"},
	{"-- div s9.4 --\na 1 2 normal chained\n", "cannot be chained"},
}

func TestParseErrors(t *testing.T) {
	for _, tt := range badCorpora {
		_, err := Parse("bad.txtar", []byte(tt.text))
		if err == nil || !strings.Contains(err.Error(), tt.err) {
			t.Errorf("Parse(%q) = %v, want error containing %q", tt.text, err, tt.err)
		}
	}
}

func TestParseLines(t *testing.T) {
	ar := &txtar.Archive{Files: []txtar.File{{
		Name: "divu u8+rem",
		Data: []byte("# comment\n\nx 7 2 normal\n  y 2 0 dbz\nz 3 1 normal chained\n"),
	}}}
	suites, err := Parse("lines.txtar", txtar.Format(ar))
	if err != nil {
		t.Fatal(err)
	}
	vs := suites[0].Vectors
	if len(vs) != 3 || vs[0].Line != 3 || vs[1].Line != 4 || vs[1].Want != golden.DivideByZero || !vs[2].Chained {
		t.Errorf("Parse: bad vectors %+v %+v %+v", vs[0], vs[1], vs[2])
	}
	if s := Lookup(suites, golden.DivU); s != suites[0] {
		t.Errorf("Lookup(divu) = %v", s)
	}
	if s := Lookup(suites, golden.Mul); s != nil {
		t.Errorf("Lookup(mul) = %v, want nil", s)
	}
}
