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

package types

import (
	"path/filepath"
	"strings"
)

// Mode is the unicycler assembly mode.
type Mode string

const (
	ModeNormal       Mode = "normal"
	ModeConservative Mode = "conservative"
	ModeBold         Mode = "bold"
)

// Policy determines what happens to the rest of a run when a stage fails for
// one sample.
type Policy string

const (
	// PolicyFailFast stops the whole run at the first failure.
	PolicyFailFast Policy = "fail-fast"

	// PolicyBestEffort drops the failed sample from later stages, carries on
	// with the others, and reports every failure at the end.
	PolicyBestEffort Policy = "best-effort"

	DefaultTrimmer   = "porechop"
	DefaultAssembler = "unicycler"
)

// ConflictError is returned by NewRunConfig when the requested options can't
// be used together.
type ConflictError struct {
	Flags  []string
	Reason string
}

func (e *ConflictError) Error() string {
	return "conflicting options " + strings.Join(e.Flags, ", ") + ": " + e.Reason
}

// Options are the user's choices, as supplied on the command line.
type Options struct {
	Hybrid              bool
	TrimOnly            bool
	AssembleOnly        bool
	MergeUnclassified   bool
	IncludeUnclassified bool
	Conservative        bool
	Bold                bool
	Cleanup             bool
	KeepGoing           bool
	ReadsRoot           string
	ShortReadsRoot      string
	OutputRoot          string
	Trimmer             string
	Assembler           string
	Threads             int
}

// RunConfig is the resolved, validated configuration of a run. Create one
// with NewRunConfig() and pass it around by value; nothing should alter it
// once a run has started.
type RunConfig struct {
	Hybrid              bool
	TrimOnly            bool
	AssembleOnly        bool
	MergeUnclassified   bool
	IncludeUnclassified bool
	Mode                Mode
	Cleanup             bool
	Policy              Policy
	ReadsRoot           string
	ShortReadsRoot      string
	OutputRoot          string
	Trimmer             string
	Assembler           string
	Threads             int
}

// NewRunConfig checks the given Options for conflicts and returns the
// corresponding RunConfig. Root directories are made absolute, and blank
// executables get their defaults.
func NewRunConfig(opts Options) (RunConfig, error) {
	if err := checkConflicts(opts); err != nil {
		return RunConfig{}, err
	}

	cfg := RunConfig{
		Hybrid:              opts.Hybrid,
		TrimOnly:            opts.TrimOnly,
		AssembleOnly:        opts.AssembleOnly,
		MergeUnclassified:   opts.MergeUnclassified,
		IncludeUnclassified: opts.IncludeUnclassified,
		Mode:                modeFromOptions(opts),
		Cleanup:             opts.Cleanup,
		Policy:              PolicyFailFast,
		Trimmer:             defaultString(opts.Trimmer, DefaultTrimmer),
		Assembler:           defaultString(opts.Assembler, DefaultAssembler),
		Threads:             opts.Threads,
	}

	if opts.KeepGoing {
		cfg.Policy = PolicyBestEffort
	}

	var err error

	if cfg.ReadsRoot, err = filepath.Abs(opts.ReadsRoot); err != nil {
		return RunConfig{}, err
	}

	if cfg.OutputRoot, err = filepath.Abs(opts.OutputRoot); err != nil {
		return RunConfig{}, err
	}

	if opts.Hybrid {
		if cfg.ShortReadsRoot, err = filepath.Abs(opts.ShortReadsRoot); err != nil {
			return RunConfig{}, err
		}
	}

	return cfg, nil
}

func checkConflicts(opts Options) error {
	switch {
	case opts.Conservative && opts.Bold:
		return &ConflictError{
			Flags:  []string{"--conservative", "--bold"},
			Reason: "choose only one assembly mode",
		}
	case opts.Hybrid && opts.ShortReadsRoot == "":
		return &ConflictError{
			Flags:  []string{"--hybrid", "--sbs"},
			Reason: "a hybrid assembly needs the directory of your Illumina reads",
		}
	case opts.TrimOnly && opts.AssembleOnly:
		return &ConflictError{
			Flags:  []string{"--porechop", "--unicycler"},
			Reason: "trim-only and assemble-only runs exclude each other",
		}
	case opts.Threads < 0:
		return &ConflictError{
			Flags:  []string{"--threads"},
			Reason: "thread count can't be negative",
		}
	case opts.ReadsRoot == "":
		return &ConflictError{
			Flags:  []string{"--fastq"},
			Reason: "the directory of your reads is required",
		}
	case opts.OutputRoot == "":
		return &ConflictError{
			Flags:  []string{"--output"},
			Reason: "an output directory is required",
		}
	}

	return nil
}

func modeFromOptions(opts Options) Mode {
	switch {
	case opts.Conservative:
		return ModeConservative
	case opts.Bold:
		return ModeBold
	default:
		return ModeNormal
	}
}

func defaultString(s, def string) string {
	if s == "" {
		return def
	}

	return s
}

// Merging reports if unclassified reads will be trimmed and merged with each
// sample's classified reads.
func (c RunConfig) Merging() bool {
	return c.MergeUnclassified && c.IncludeUnclassified
}
