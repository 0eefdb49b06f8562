// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Fxvec prints the reference results for a conformance corpus.
//
// Usage:
//
//	fxvec [-round mode] [-o out.txtar] [corpus.txtar]
//
// With no corpus file, fxvec reads the built-in corpus.
// For every vector it prints the wire encoding of both operands and the
// category, value and remainder computed by the reference model, in
// binary and in decimal.
//
// The -round flag sets the model's tie-breaking rule: away (the default)
// or even.
//
// The -o flag writes the corpus back out in canonical form to file
// instead of printing the table.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"math/big"
	"os"
	"text/tabwriter"

	"golang.org/x/tools/txtar"
	"rsc.io/fxbench/fixed"
	"rsc.io/fxbench/golden"
	"rsc.io/fxbench/vectors"
)

var (
	outfile = flag.String("o", "", "write canonical corpus to `file`")
	round   = flag.String("round", "away", "tie-breaking `mode` (away, even)")
)

func usage() {
	fmt.Fprintf(os.Stderr, "usage: fxvec [-round mode] [-o out.txtar] [corpus.txtar]\n")
	os.Exit(2)
}

func main() {
	log.SetPrefix("fxvec: ")
	log.SetFlags(0)
	flag.Usage = usage
	flag.Parse()
	args := flag.Args()
	if len(args) > 1 {
		usage()
	}

	file, data := "corpus.txtar", vectors.Corpus
	if len(args) == 1 {
		file = args[0]
		var err error
		data, err = os.ReadFile(file)
		if err != nil {
			log.Fatal(err)
		}
	}
	suites, err := vectors.Parse(file, data)
	if err != nil {
		log.Fatal(err)
	}

	if *outfile != "" {
		comment := string(txtar.Parse(data).Comment)
		if err := os.WriteFile(*outfile, vectors.Format(comment, suites), 0666); err != nil {
			log.Fatal(err)
		}
		return
	}

	mode, err := golden.ParseRounding(*round)
	if err != nil {
		log.Fatal(err)
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 8, 1, ' ', 0)
	for i, s := range suites {
		if i > 0 {
			fmt.Fprintln(w)
		}
		if err := table(w, s, s.Model(mode)); err != nil {
			log.Fatal(err)
		}
	}
	if err := w.Flush(); err != nil {
		log.Fatal(err)
	}
}

// table prints one line per vector of s.
func table(w io.Writer, s *vectors.Suite, m *golden.Model) error {
	f := s.Format
	fmt.Fprintf(w, "-- %s --\n", s.Name)
	fmt.Fprintf(w, "name\texpr\ta\tb\tcategory\tval\t\n")
	for _, v := range s.Vectors {
		res, err := m.Eval(s.Op, v.A, v.B)
		if err != nil {
			return fmt.Errorf("%s:%d: %v", s.Name, v.Line, err)
		}
		wa, err := fixed.Encode(v.A, f)
		if err != nil {
			return fmt.Errorf("%s:%d: %v", s.Name, v.Line, err)
		}
		wb, err := fixed.Encode(v.B, f)
		if err != nil {
			return fmt.Errorf("%s:%d: %v", s.Name, v.Line, err)
		}
		cat := res.Category.String()
		if res.Category != v.Want {
			cat += " (corpus: " + v.Want.String() + ")"
		}
		if v.Tolerate {
			cat += " tolerate"
		}
		val := "-"
		if res.Category == golden.Normal {
			val, err = result(res.Val, f)
			if err != nil {
				return fmt.Errorf("%s:%d: %v", s.Name, v.Line, err)
			}
			if f.Rem {
				rem, err := result(res.Rem, f)
				if err != nil {
					return fmt.Errorf("%s:%d: %v", s.Name, v.Line, err)
				}
				val += " rem " + rem
			}
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t\n", v.Name, s.Expr(v), f.Bin(wa), f.Bin(wb), cat, val)
	}
	return nil
}

// result formats a model result in binary and decimal.
func result(x *big.Rat, f fixed.Format) (string, error) {
	w, err := fixed.Encode(x, f)
	if err != nil {
		return "", err
	}
	return f.Bin(w) + " " + f.Text(x), nil
}
