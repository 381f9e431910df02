/*******************************************************************************
 * Copyright (c) 2025 Genome Research Ltd.
 *
 * Authors:
 *	- Sendu Bala <sb10@sanger.ac.uk>
 *
 * Permission is hereby granted, free of charge, to any person obtaining
 * a copy of this software and associated documentation files (the
 * "Software"), to deal in the Software without restriction, including
 * without limitation the rights to use, copy, modify, merge, publish,
 * distribute, sublicense, and/or sell copies of the Software, and to
 * permit persons to whom the Software is furnished to do so, subject to
 * the following conditions:
 *
 * The above copyright notice and this permission notice shall be included
 * in all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND,
 * EXPRESS OR IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF
 * MERCHANTABILITY, FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT.
 * IN NO EVENT SHALL THE AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY
 * CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER IN AN ACTION OF CONTRACT,
 * TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN CONNECTION WITH THE
 * SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.
 ******************************************************************************/

// package report summarises the assemblies of a run: contig counts, lengths
// and N50 per sample, written as a CSV table and an HTML chart.

package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/io/seqio"
	"github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/seq/linear"
	"github.com/shenwei356/xopen"
	"github.com/wtsi-hgi/porecycler/layout"
	"github.com/wtsi-hgi/porecycler/types"
	"gonum.org/v1/gonum/stat"
)

type Error string

func (e Error) Error() string { return string(e) }

const (
	ErrNoAssemblies = Error("no assemblies to report on")

	fastaExt       = ".fasta"
	circularMarker = "circular=true"
)

// Target is an assembly FASTA to report on, and the sample it belongs to.
type Target struct {
	Name  string
	Fasta string
}

// Targets returns the collected FASTA of each of the given samples.
func Targets(samples []*types.Sample, cfg types.RunConfig) []Target {
	targets := make([]Target, len(samples))

	for i, sample := range samples {
		p := layout.Plan(sample, cfg)
		targets[i] = Target{Name: p.Name, Fasta: p.FinalFasta}
	}

	return targets
}

// TargetsInDir returns a Target for every FASTA file in the given directory,
// named after the file.
func TargetsInDir(dir string) ([]Target, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*"+fastaExt))
	if err != nil {
		return nil, err
	}

	targets := make([]Target, len(paths))

	for i, path := range paths {
		targets[i] = Target{Name: strings.TrimSuffix(filepath.Base(path), fastaExt), Fasta: path}
	}

	return targets, nil
}

// Metrics describe one assembly. Lengths are in bp.
type Metrics struct {
	Sample      string
	Contigs     int
	TotalLength int
	MinLength   int
	MaxLength   int
	MeanLength  float64
	N50         int
	Circular    int
}

// Measure returns the Metrics of every Target, in order. Targets that can't be
// read get zero Metrics, and an error for each of them is returned as a
// warning.
func Measure(targets []Target) ([]Metrics, []error) {
	metrics := make([]Metrics, len(targets))

	var warnings []error

	for i, target := range targets {
		m, err := measureFile(target)
		if err != nil {
			warnings = append(warnings, fmt.Errorf("no metrics for %s: %w", target.Name, err))
			m = Metrics{Sample: target.Name}
		}

		metrics[i] = m
	}

	return metrics, warnings
}

func measureFile(target Target) (Metrics, error) {
	if _, err := os.Stat(target.Fasta); err != nil {
		return Metrics{}, err
	}

	r, err := xopen.Ropen(target.Fasta)
	if err != nil {
		return Metrics{}, err
	}

	defer r.Close()

	return MeasureFasta(target.Name, r)
}

// MeasureFasta calculates the Metrics of the FASTA sequences in r. Contigs
// with "circular=true" in their description, as written by unicycler, are
// counted as circular.
func MeasureFasta(name string, r io.Reader) (Metrics, error) {
	m := Metrics{Sample: name}
	sc := seqio.NewScanner(fasta.NewReader(r, linear.NewSeq("", nil, alphabet.DNA)))

	var lengths []float64

	for sc.Next() {
		s, ok := sc.Seq().(*linear.Seq)
		if !ok {
			continue
		}

		lengths = append(lengths, float64(s.Len()))

		if strings.Contains(s.Desc, circularMarker) {
			m.Circular++
		}
	}

	if err := sc.Error(); err != nil {
		return m, err
	}

	if len(lengths) == 0 {
		return m, nil
	}

	sort.Sort(sort.Reverse(sort.Float64Slice(lengths)))

	m.Contigs = len(lengths)
	m.MaxLength = int(lengths[0])
	m.MinLength = int(lengths[len(lengths)-1])
	m.MeanLength = stat.Mean(lengths, nil)
	m.TotalLength, m.N50 = totalAndN50(lengths)

	return m, nil
}

// totalAndN50 takes lengths sorted longest first.
func totalAndN50(lengths []float64) (int, int) {
	total := 0

	for _, l := range lengths {
		total += int(l)
	}

	sum := 0

	for _, l := range lengths {
		sum += int(l)

		if 2*sum >= total {
			return total, int(l)
		}
	}

	return total, 0
}
