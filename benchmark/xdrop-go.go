// Copyright © 2024 Wei Shen <shenwei356@gmail.com>
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package main

import (
	"bufio"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"

	"github.com/pkg/profile"
	"github.com/shenwei356/xdrop"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

var version = "0.1.0"

// ScoringConfig is the YAML form of scoring parameters.
type ScoringConfig struct {
	GapOpen    int    `yaml:"gap-open"`
	GapExtend  int    `yaml:"gap-extend"`
	XDropoff   int    `yaml:"x-dropoff"`
	Reward     int    `yaml:"reward"`
	Penalty    int    `yaml:"penalty"`
	FrameShift int    `yaml:"frame-shift"`
	Matrix     string `yaml:"matrix"` // "blosum62", or empty for reward/penalty
}

func defaultScoringConfig() ScoringConfig {
	p := xdrop.DefaultScoring
	return ScoringConfig{
		GapOpen:    p.GapOpen,
		GapExtend:  p.GapExtend,
		XDropoff:   p.XDropoff,
		Reward:     p.Reward,
		Penalty:    p.Penalty,
		FrameShift: p.FrameShift,
	}
}

func (c ScoringConfig) Scoring() (*xdrop.Scoring, error) {
	p := &xdrop.Scoring{
		GapOpen:    c.GapOpen,
		GapExtend:  c.GapExtend,
		XDropoff:   c.XDropoff,
		Reward:     c.Reward,
		Penalty:    c.Penalty,
		FrameShift: c.FrameShift,
	}
	switch c.Matrix {
	case "":
		p.Matrix = xdrop.NewMatchMismatchMatrix(c.Reward, c.Penalty)
	case "blosum62", "BLOSUM62":
		p.Matrix = xdrop.BLOSUM62()
	default:
		return nil, fmt.Errorf("unsupported matrix: %s", c.Matrix)
	}
	return p, nil
}

func readScoringConfig(file string) (ScoringConfig, error) {
	c := defaultScoringConfig()
	data, err := os.ReadFile(file)
	if err != nil {
		return c, err
	}
	if err = yaml.Unmarshal(data, &c); err != nil {
		return c, fmt.Errorf("failed to parse scoring file %s: %w", file, err)
	}
	return c, nil
}

type pair struct {
	q, s []byte
}

type result struct {
	seeded bool
	qOff   int
	sOff   int
	r      *xdrop.AlignmentResult
}

func main() {
	app := filepath.Base(os.Args[0])
	usage := fmt.Sprintf(`
Seed-and-extend alignment with X-drop extension in Golang

 Author: Wei Shen <shenwei356@gmail.com>
   Code: https://github.com/shenwei356/xdrop
Version: v%s

Input file format:
  Pairs of lines, the query starts with '>' and the subject starts with '<'.
  Example:
  >ATTGGAAAATAGGATTGGGGTTTGTTTATATTTGGGTTGAGGGATGTCCCACCTTCGTCGTCCTTACGTTTCCGGAAGGGAGTGGTTAGCTCGAAGCCCA
  <GATTGGAAAATAGGATGGGGTTTGTTTATATTTGGGTTGAGGGATGTCCCACCTTGTCGTCCTTACGTTTCCGGAAGGGAGTGGTTGCTCGAAGCCCA

Scoring file (YAML), all optional:
  gap-open: 11
  gap-extend: 1
  x-dropoff: 20
  reward: 5
  penalty: -4
  frame-shift: 15
  matrix: ""   # or blosum62

Usage: 
  1. Align two sequences from the positional arguments.

        %s [options] <query seq> <subject seq>

  2. Align sequence pairs from the input file (described above).

        %s [options] -i input.txt

Options/Flags:
`, version, app, app)

	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flag.PrintDefaults()
	}

	help := flag.Bool("h", false, "print help message")
	infile := flag.String("i", "", "input file. ")
	scoringFile := flag.String("c", "", "scoring file in YAML format")
	strategy := flag.String("s", "dp", "extension strategy: dp or greedy")
	k := flag.Int("k", 11, "k-mer size of seeds")
	threads := flag.Int("j", runtime.NumCPU(), "number of threads")
	noTraceback := flag.Bool("n", false, "only compute scores and extents")
	noOutput := flag.Bool("N", false, "do not output alignment (for benchmark)")
	verbose := flag.Bool("v", false, "print debug messages")

	pprofCPU := flag.Bool("p", false, "cpu pprof. go tool pprof -http=:8080 cpu.pprof")
	pprofMem := flag.Bool("m", false, "mem pprof. go tool pprof -http=:8080 mem.pprof")

	flag.Parse()

	if *help {
		flag.Usage()
		return
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	// go tool pprof -http=:8080 cpu.pprof
	if *pprofCPU {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	} else if *pprofMem {
		defer profile.Start(profile.MemProfile, profile.ProfilePath(".")).Stop()
	}

	// ----------------------------------------------------------------
	// parameters

	cfg := defaultScoringConfig()
	if *scoringFile != "" {
		var err error
		cfg, err = readScoringConfig(*scoringFile)
		checkError(err)
	}
	p, err := cfg.Scoring()
	checkError(err)

	var _strategy xdrop.Strategy
	switch *strategy {
	case "dp":
		_strategy = xdrop.StrategyDP
	case "greedy":
		_strategy = xdrop.StrategyGreedy
	default:
		checkError(fmt.Errorf("unsupported strategy: %s", *strategy))
	}
	if *k < 1 {
		checkError(fmt.Errorf("the value of -k should be positive"))
	}
	if *threads < 1 {
		*threads = 1
	}
	slog.Debug("parameters", "strategy", _strategy, "k", *k, "threads", *threads,
		"gap-open", p.GapOpen, "gap-extend", p.GapExtend, "x-dropoff", p.XDropoff)

	// ----------------------------------------------------------------
	// input

	var pairs []pair
	if *infile == "" {
		if flag.NArg() != 2 {
			checkError(fmt.Errorf("if flag -i not given, please give me two sequences"))
		}
		pairs = append(pairs, pair{q: []byte(flag.Arg(0)), s: []byte(flag.Arg(1))})
	} else {
		pairs, err = readPairs(*infile)
		checkError(err)
	}
	slog.Debug("pairs loaded", "n", len(pairs))

	// ----------------------------------------------------------------
	// alignment, one extender for each worker

	traceback := !*noTraceback
	results := make([]result, len(pairs))
	tokens := make(chan *xdrop.Extender, *threads)
	for i := 0; i < *threads; i++ {
		tokens <- xdrop.New(p)
	}

	var g errgroup.Group
	g.SetLimit(*threads)
	for i := range pairs {
		i := i
		g.Go(func() error {
			e := <-tokens
			defer func() { tokens <- e }()

			pr := &pairs[i]
			qOff, sOff, ok := findSeed(pr.q, pr.s, *k)
			if !ok {
				slog.Debug("no seed found", "pair", i+1)
				return nil
			}
			r, err := e.Align(pr.q, pr.s, qOff, sOff, _strategy, traceback)
			if err != nil {
				return fmt.Errorf("pair %d: %w", i+1, err)
			}
			results[i] = result{seeded: true, qOff: qOff, sOff: sOff, r: r}
			return nil
		})
	}
	err = g.Wait()
	close(tokens)
	for e := range tokens {
		xdrop.RecycleExtender(e)
	}
	checkError(err)

	// ----------------------------------------------------------------
	// output

	outfh := bufio.NewWriter(os.Stdout)
	defer outfh.Flush()

	for i := range results {
		res := &results[i]
		if !res.seeded {
			continue
		}
		if !*noOutput {
			writeResult(outfh, &pairs[i], res)
		}
		xdrop.RecycleAlignmentResult(res.r)
	}
}

func writeResult(outfh *bufio.Writer, pr *pair, res *result) {
	r := res.r
	fmt.Fprintf(outfh, "seed    q:%d s:%d\n", res.qOff, res.sOff)
	fmt.Fprintf(outfh, "score   %d\n", r.Score)
	fmt.Fprintf(outfh, "query   [%d, %d)\n", r.QueryStart, r.QueryStop)
	fmt.Fprintf(outfh, "subject [%d, %d)\n", r.SubjectStart, r.SubjectStop)

	if r.Script != nil {
		cigar, err := r.Script.CIGAR()
		checkError(err)

		Q, A, S := r.Script.AlignmentText(pr.q, pr.s, r.QueryStart, r.SubjectStart)
		fmt.Fprintf(outfh, "query   %s\n", *Q)
		fmt.Fprintf(outfh, "        %s\n", *A)
		fmt.Fprintf(outfh, "subject %s\n", *S)
		fmt.Fprintf(outfh, "cigar   %s\n", cigar)

		c := r.Script.Counts()
		fmt.Fprintf(outfh, "length: %d, substitutions: %d, gaps: %d, gap regions: %d\n",
			c.AlignLen, c.Subs, c.Gaps, c.GapRegions)
		xdrop.RecycleAlignmentText(Q, A, S)
	}
	fmt.Fprintln(outfh)
}

// readPairs reads sequence pairs from a file.
func readPairs(file string) ([]pair, error) {
	fh, err := os.Open(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %s", file)
	}
	defer fh.Close()

	pairs := make([]pair, 0, 1024)
	scanner := bufio.NewScanner(fh)
	scanner.Buffer(make([]byte, 0, 1<<20), 1<<30)
	var q, s string
	for scanner.Scan() {
		q = scanner.Text()
		if !scanner.Scan() {
			break
		}
		s = scanner.Text()
		if len(q) < 2 || len(s) < 2 {
			continue
		}

		pairs = append(pairs, pair{q: []byte(q[1:]), s: []byte(s[1:])})
	}
	if err = scanner.Err(); err != nil {
		return nil, fmt.Errorf("something wrong in reading file: %s", file)
	}
	return pairs, nil
}

// findSeed returns the first k-mer of q that also occurs in s.
// The seed offsets point to the middle of the k-mer.
func findSeed(q, s []byte, k int) (int, int, bool) {
	if len(q) < k || len(s) < k {
		return 0, 0, false
	}
	index := make(map[string]int, len(s)-k+1)
	for j := len(s) - k; j >= 0; j-- { // keep the leftmost
		index[string(s[j:j+k])] = j
	}
	for i := 0; i+k <= len(q); i++ {
		if j, ok := index[string(q[i:i+k])]; ok {
			return i + k>>1, j + k>>1, true
		}
	}
	return 0, 0, false
}

func checkError(err error) {
	if err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}
