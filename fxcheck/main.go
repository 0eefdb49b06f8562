// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Fxcheck runs the conformance corpus against the behavioural arithmetic
// cores and reports a verdict for every vector.
//
// Usage:
//
//	fxcheck [-f corpus.txtar] [-suite ops] [-round mode] [-core-round mode] [-max n] [-j n] [-v]
//
// The -f flag reads the corpus from file instead of using the built-in one.
//
// The -suite flag limits the run to a comma-separated list of operations
// (div, mul, divu).
//
// The -round and -core-round flags set the tie-breaking rule of the
// reference model and of the cores: away (the default) or even.
//
// The -max flag bounds the number of cycles to wait for done.
//
// The -j flag sets how many cores run at once (default all).
//
// The -v flag traces the signal values of every vector to standard error.
//
// Fxcheck exits with status 1 if any vector fails or any core violates the
// handshake protocol.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime/pprof"
	"strings"

	"golang.org/x/term"
	"rsc.io/fxbench/bench"
	"rsc.io/fxbench/golden"
	"rsc.io/fxbench/vectors"
)

var (
	corpus     = flag.String("f", "", "read vectors from `file` (default built-in corpus)")
	suiteList  = flag.String("suite", "", "run only the comma-separated `ops`")
	round      = flag.String("round", "away", "reference model tie-breaking `mode` (away, even)")
	coreRound  = flag.String("core-round", "away", "core tie-breaking `mode` (away, even)")
	maxCycles  = flag.Int("max", bench.DefaultMaxCycles, "wait at most `n` cycles for done")
	jobs       = flag.Int("j", 0, "run at most `n` cores at once (0 means no limit)")
	verbose    = flag.Bool("v", false, "trace signal values of every vector")
	cpuprofile = flag.String("cpuprofile", "", "write cpuprofile to `file`")
)

func usage() {
	fmt.Fprintf(os.Stderr, "usage: fxcheck [flags]\n")
	flag.PrintDefaults()
	os.Exit(2)
}

func main() {
	log.SetPrefix("fxcheck: ")
	log.SetFlags(0)
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() != 0 {
		usage()
	}

	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			log.Fatal(err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal(err)
		}
		defer pprof.StopCPUProfile()
	}

	model, err := golden.ParseRounding(*round)
	if err != nil {
		log.Fatal(err)
	}
	cores, err := golden.ParseRounding(*coreRound)
	if err != nil {
		log.Fatal(err)
	}

	suites, err := load()
	if err != nil {
		log.Fatal(err)
	}

	var tracer *log.Logger
	if *verbose {
		tracer = log.New(os.Stderr, "", 0)
	}
	var benches []*bench.Bench
	for _, s := range suites {
		benches = append(benches, &bench.Bench{
			Suite:     s,
			Model:     s.Model(model),
			Dev:       bench.NewCore(s, cores == golden.HalfEven),
			MaxCycles: *maxCycles,
			Log:       tracer,
		})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	reports, err := bench.RunAll(ctx, benches, *jobs)
	if err != nil {
		log.Fatal(err)
	}

	color := term.IsTerminal(int(os.Stdout.Fd()))
	var total bench.Summary
	for _, r := range reports {
		fmt.Printf("== %s\n", r.Suite.Name)
		for _, vd := range r.Verdicts {
			fmt.Println(paint(color, vd.Status, vd.String()))
		}
		if r.Err != nil && !bench.IsProtocol(r.Err) {
			fmt.Printf("error: %v\n", r.Err)
		}
		sum := r.Summary()
		fmt.Printf("%s: %v\n", r.Suite.Name, sum)
		total.Pass += sum.Pass
		total.Fail += sum.Fail
		total.XFail += sum.XFail
		total.Fault += sum.Fault
	}
	if len(reports) > 1 {
		fmt.Printf("total: %v\n", total)
	}
	if !total.OK() {
		pprof.StopCPUProfile()
		os.Exit(1)
	}
}

// load returns the suites selected by the -f and -suite flags.
func load() ([]*vectors.Suite, error) {
	var suites []*vectors.Suite
	var err error
	if *corpus != "" {
		var data []byte
		data, err = os.ReadFile(*corpus)
		if err != nil {
			return nil, err
		}
		suites, err = vectors.Parse(*corpus, data)
	} else {
		suites, err = vectors.Default()
	}
	if err != nil {
		return nil, err
	}
	if *suiteList == "" {
		return suites, nil
	}

	var list []*vectors.Suite
	for _, name := range strings.Split(*suiteList, ",") {
		op, err := golden.ParseOp(name)
		if err != nil {
			return nil, err
		}
		n := len(list)
		for _, s := range suites {
			if s.Op == op {
				list = append(list, s)
			}
		}
		if len(list) == n {
			return nil, fmt.Errorf("no %v suite in corpus", op)
		}
	}
	return list, nil
}

const (
	red    = "\x1b[31m"
	green  = "\x1b[32m"
	yellow = "\x1b[33m"
	reset  = "\x1b[0m"
)

func paint(color bool, st bench.Status, line string) string {
	if !color {
		return line
	}
	switch st {
	case bench.Pass:
		return green + line + reset
	case bench.XFail:
		return yellow + line + reset
	}
	return red + line + reset
}
