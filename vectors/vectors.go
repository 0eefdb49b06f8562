// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package vectors holds the conformance test vectors for the arithmetic
// cores and the txtar format they are written in.
//
// A corpus is a txtar archive with one file per suite. The file name
// gives the operation, the numeric format and optional suite flags:
//
//	-- div s9.4 minovf --
//
// Each non-blank line of a file that does not start with # is one vector:
//
//	name a b category [tolerate] [chained]
//
// where a and b are decimal (or p/q rational) operands and category is
// normal, dbz or ovf. The tolerate flag marks operands that are not exact
// binary fractions at the format's resolution, for which the reference model
// and the core may round to different sides of the true result. The chained
// flag runs the vector immediately after the previous one without a reset.
package vectors

import (
	_ "embed"
	"fmt"
	"math/big"
	"strings"

	"golang.org/x/tools/txtar"
	"rsc.io/fxbench/fixed"
	"rsc.io/fxbench/golden"
)

//go:embed corpus.txtar
var Corpus []byte

// A Vector is one stimulus case.
type Vector struct {
	Name     string
	A, B     *big.Rat
	Src      [2]string // operands as written
	Want     golden.Category
	Tolerate bool // rounding-ambiguous; a value mismatch is not a failure
	Chained  bool // no reset before this vector
	Line     int
}

// A Suite is an ordered list of vectors for one core variant.
type Suite struct {
	Name    string // file name within the corpus
	Op      golden.Op
	Format  fixed.Format
	Vectors []*Vector

	// MinOverflow reports that the core flags an overflow
	// for any operand equal to the most negative value.
	MinOverflow bool
}

// Model returns the reference model for s using the given rounding.
func (s *Suite) Model(r golden.Rounding) *golden.Model {
	return &golden.Model{Format: s.Format, Rounding: r, MinOperandOverflow: s.MinOverflow}
}

// Expr returns "a op b" for v, using the suite's operator.
func (s *Suite) Expr(v *Vector) string {
	return v.Src[0] + s.Op.Symbol() + v.Src[1]
}

// Default returns the suites in the embedded corpus.
func Default() ([]*Suite, error) {
	return Parse("corpus.txtar", Corpus)
}

// Parse parses the corpus data, naming errors after file.
func Parse(file string, data []byte) ([]*Suite, error) {
	ar := txtar.Parse(data)
	if len(ar.Files) == 0 {
		return nil, fmt.Errorf("%s: no suites", file)
	}
	var suites []*Suite
	for _, f := range ar.Files {
		s, err := parseSuite(file, f)
		if err != nil {
			return nil, err
		}
		suites = append(suites, s)
	}
	return suites, nil
}

func parseSuite(file string, f txtar.File) (*Suite, error) {
	hdr := strings.Fields(f.Name)
	if len(hdr) < 2 {
		return nil, fmt.Errorf("%s: %s: want \"op format\"", file, f.Name)
	}
	op, err := golden.ParseOp(hdr[0])
	if err != nil {
		return nil, fmt.Errorf("%s: %s: %v", file, f.Name, err)
	}
	format, err := fixed.ParseFormat(hdr[1])
	if err != nil {
		return nil, fmt.Errorf("%s: %s: %v", file, f.Name, err)
	}
	s := &Suite{Name: f.Name, Op: op, Format: format}
	for _, flag := range hdr[2:] {
		switch flag {
		case "minovf":
			s.MinOverflow = true
		default:
			return nil, fmt.Errorf("%s: %s: unknown suite flag %q", file, f.Name, flag)
		}
	}
	if (op == golden.DivU) == format.Signed || op != golden.DivU && format.Rem {
		return nil, fmt.Errorf("%s: %s: format %v does not fit %v", file, f.Name, format, op)
	}

	seen := make(map[string]bool)
	for i, line := range strings.Split(string(f.Data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		v, err := parseVector(line)
		if err != nil {
			return nil, fmt.Errorf("%s: %s:%d: %v", file, f.Name, i+1, err)
		}
		for _, x := range []*big.Rat{v.A, v.B} {
			if !format.Contains(x) {
				return nil, fmt.Errorf("%s: %s:%d: %s out of range for %v", file, f.Name, i+1, x.RatString(), format)
			}
		}
		if seen[v.Name] {
			return nil, fmt.Errorf("%s: %s:%d: duplicate vector %s", file, f.Name, i+1, v.Name)
		}
		seen[v.Name] = true
		if v.Chained && len(s.Vectors) == 0 {
			return nil, fmt.Errorf("%s: %s:%d: first vector cannot be chained", file, f.Name, i+1)
		}
		v.Line = i + 1
		s.Vectors = append(s.Vectors, v)
	}
	return s, nil
}

func parseVector(line string) (*Vector, error) {
	f := strings.Fields(line)
	if len(f) < 4 {
		return nil, fmt.Errorf("want \"name a b category\": %s", line)
	}
	v := &Vector{Name: f[0], Src: [2]string{f[1], f[2]}}
	var err error
	if v.A, err = fixed.ParseValue(f[1]); err != nil {
		return nil, err
	}
	if v.B, err = fixed.ParseValue(f[2]); err != nil {
		return nil, err
	}
	if v.Want, err = golden.ParseCategory(f[3]); err != nil {
		return nil, err
	}
	for _, flag := range f[4:] {
		switch flag {
		case "tolerate":
			v.Tolerate = true
		case "chained":
			v.Chained = true
		default:
			return nil, fmt.Errorf("unknown vector flag %q", flag)
		}
	}
	return v, nil
}

// Format returns the txtar form of suites, with comment as the archive
// comment. Parse(Format(suites)) returns suites equivalent to the input.
func Format(comment string, suites []*Suite) []byte {
	ar := &txtar.Archive{Comment: []byte(comment)}
	for _, s := range suites {
		name := s.Op.String() + " " + s.Format.String()
		if s.MinOverflow {
			name += " minovf"
		}
		var b strings.Builder
		for _, v := range s.Vectors {
			fmt.Fprintf(&b, "%s %s %s %v", v.Name, v.Src[0], v.Src[1], v.Want)
			if v.Tolerate {
				b.WriteString(" tolerate")
			}
			if v.Chained {
				b.WriteString(" chained")
			}
			b.WriteString("\n")
		}
		ar.Files = append(ar.Files, txtar.File{Name: name, Data: []byte(b.String())})
	}
	return txtar.Format(ar)
}

// Lookup returns the suite in suites for op, or nil.
func Lookup(suites []*Suite, op golden.Op) *Suite {
	for _, s := range suites {
		if s.Op == op {
			return s
		}
	}
	return nil
}
