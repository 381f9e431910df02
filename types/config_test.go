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
	"errors"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestRunConfig(t *testing.T) {
	Convey("Given valid options", t, func() {
		dir := t.TempDir()
		opts := Options{
			ReadsRoot:  filepath.Join(dir, "fastq"),
			OutputRoot: filepath.Join(dir, "out"),
		}

		Convey("You get a fail-fast, normal mode RunConfig with default executables", func() {
			cfg, err := NewRunConfig(opts)
			So(err, ShouldBeNil)
			So(cfg.Mode, ShouldEqual, ModeNormal)
			So(cfg.Policy, ShouldEqual, PolicyFailFast)
			So(cfg.Trimmer, ShouldEqual, DefaultTrimmer)
			So(cfg.Assembler, ShouldEqual, DefaultAssembler)
			So(cfg.ReadsRoot, ShouldEqual, opts.ReadsRoot)
			So(cfg.OutputRoot, ShouldEqual, opts.OutputRoot)
			So(cfg.ShortReadsRoot, ShouldBeBlank)
			So(cfg.Merging(), ShouldBeFalse)
		})

		Convey("Relative roots are made absolute", func() {
			t.Chdir(dir)

			opts.ReadsRoot = "fastq"
			cfg, err := NewRunConfig(opts)
			So(err, ShouldBeNil)
			So(filepath.IsAbs(cfg.ReadsRoot), ShouldBeTrue)
			So(filepath.Base(cfg.ReadsRoot), ShouldEqual, "fastq")
		})

		Convey("Mode, policy and executables follow the options", func() {
			opts.Bold = true
			opts.KeepGoing = true
			opts.Trimmer = "/opt/porechop"
			opts.Threads = 8
			opts.MergeUnclassified = true
			opts.IncludeUnclassified = true

			cfg, err := NewRunConfig(opts)
			So(err, ShouldBeNil)
			So(cfg.Mode, ShouldEqual, ModeBold)
			So(cfg.Policy, ShouldEqual, PolicyBestEffort)
			So(cfg.Trimmer, ShouldEqual, "/opt/porechop")
			So(cfg.Threads, ShouldEqual, 8)
			So(cfg.Merging(), ShouldBeTrue)

			opts.Bold = false
			opts.Conservative = true
			cfg, err = NewRunConfig(opts)
			So(err, ShouldBeNil)
			So(cfg.Mode, ShouldEqual, ModeConservative)
		})

		Convey("Conflicting options are rejected", func() {
			var cerr *ConflictError

			opts.Conservative = true
			opts.Bold = true
			_, err := NewRunConfig(opts)
			So(errors.As(err, &cerr), ShouldBeTrue)
			So(cerr.Flags, ShouldResemble, []string{"--conservative", "--bold"})
			So(err.Error(), ShouldContainSubstring, "choose only one")

			opts.Bold = false
			opts.Hybrid = true
			_, err = NewRunConfig(opts)
			So(errors.As(err, &cerr), ShouldBeTrue)
			So(cerr.Flags, ShouldResemble, []string{"--hybrid", "--sbs"})

			opts.ShortReadsRoot = filepath.Join(dir, "sbs")
			cfg, err := NewRunConfig(opts)
			So(err, ShouldBeNil)
			So(cfg.ShortReadsRoot, ShouldEqual, opts.ShortReadsRoot)

			opts.TrimOnly = true
			opts.AssembleOnly = true
			_, err = NewRunConfig(opts)
			So(errors.As(err, &cerr), ShouldBeTrue)

			opts.AssembleOnly = false
			opts.Threads = -1
			_, err = NewRunConfig(opts)
			So(errors.As(err, &cerr), ShouldBeTrue)
		})

		Convey("Roots are required", func() {
			opts.OutputRoot = ""
			_, err := NewRunConfig(opts)
			So(err, ShouldNotBeNil)

			opts.ReadsRoot = ""
			_, err = NewRunConfig(opts)
			So(err, ShouldNotBeNil)
		})
	})
}
