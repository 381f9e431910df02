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

package executor

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

const (
	readA = "@a\nACGT\n+\nIIII\n"
	readB = "@b\nGGCC\n+\nIIII\n"
)

type spyRunner struct {
	calls [][]string
	err   error
}

func (s *spyRunner) Run(_ context.Context, program string, args []string) error {
	s.calls = append(s.calls, append([]string{program}, args...))

	return s.err
}

func TestInvocation(t *testing.T) {
	Convey("Invocations describe themselves like shell commands", t, func() {
		So(Process("porechop", "-i", "in.fastq", "-b", "out").String(), ShouldEqual,
			"porechop -i in.fastq -b out")
		So(Concatenate("out.fastq", "a/*", "b.fastq").String(), ShouldEqual, "cat a/* b.fastq > out.fastq")
		So(Copy("a", "b").String(), ShouldEqual, "cp a b")
		So(Move("a", "b").String(), ShouldEqual, "mv a b")
		So(RemoveAll("dir").String(), ShouldEqual, "rm -r dir")
		So(ConcatenateFiles("out.fastq", "a.fastq", "b.fastq").String(), ShouldEqual,
			"cat a.fastq b.fastq > out.fastq")
	})

	Convey("QuoteGlob makes paths match only themselves", t, func() {
		So(QuoteGlob("/data/run[1]/a*b?"), ShouldEqual, `/data/run\[1]/a\*b\?`)
		So(QuoteGlob("/data/plain"), ShouldEqual, "/data/plain")

		matched, err := filepath.Match(QuoteGlob("/data/run[1]"), "/data/run[1]")
		So(err, ShouldBeNil)
		So(matched, ShouldBeTrue)
	})
}

func TestExecutor(t *testing.T) {
	ctx := context.Background()

	Convey("Given an Executor with a spy runner", t, func() {
		spy := &spyRunner{}
		e := New(spy)
		dir := t.TempDir()

		Convey("Processes are passed to the runner", func() {
			err := e.Execute(ctx, Process("unicycler", "-l", "reads.fastq", "-o", "out"))
			So(err, ShouldBeNil)
			So(spy.calls, ShouldResemble, [][]string{{"unicycler", "-l", "reads.fastq", "-o", "out"}})

			spy.err = &ProcessError{Program: "unicycler", ExitCode: 1}
			err = e.Execute(ctx, Process("unicycler"))

			var perr *ProcessError
			So(errors.As(err, &perr), ShouldBeTrue)
			So(perr.ExitCode, ShouldEqual, 1)
		})

		Convey("Nothing is done once the context is cancelled", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()

			err := e.Execute(cctx, Process("unicycler"))
			So(err, ShouldEqual, context.Canceled)
			So(spy.calls, ShouldBeEmpty)
		})

		Convey("You can concatenate plain and gzipped files", func() {
			in := filepath.Join(dir, "barcode01")
			So(os.MkdirAll(filepath.Join(in, "subdir"), dirPerm), ShouldBeNil)
			So(os.WriteFile(filepath.Join(in, "a.fastq"), []byte(readA), 0600), ShouldBeNil)
			So(writeGzip(filepath.Join(in, "b.fastq.gz"), readB), ShouldBeNil)
			So(os.WriteFile(filepath.Join(in, "c.fastq"), nil, 0600), ShouldBeNil)

			out := filepath.Join(dir, "raw", "NB01_A.fastq")
			err := e.Execute(ctx, Concatenate(out, filepath.Join(in, "*")))
			So(err, ShouldBeNil)
			So(fileContents(out), ShouldEqual, readA+readB)

			Convey("in the order of the given patterns", func() {
				err = e.Execute(ctx, Concatenate(out, filepath.Join(in, "b.fastq.gz"), filepath.Join(in, "a.fastq")))
				So(err, ShouldBeNil)
				So(fileContents(out), ShouldEqual, readB+readA)
			})

			Convey("but a pattern matching no files is an ArtifactError", func() {
				missing := filepath.Join(dir, "barcode02", "*")
				err = e.Execute(ctx, Concatenate(out, filepath.Join(in, "*"), missing))

				var aerr *ArtifactError
				So(errors.As(err, &aerr), ShouldBeTrue)
				So(aerr.Path, ShouldEqual, missing)
			})
		})

		Convey("You can concatenate files whose paths contain glob characters", func() {
			in := filepath.Join(dir, "run[1]")
			So(os.MkdirAll(in, dirPerm), ShouldBeNil)
			a := filepath.Join(in, "a.fastq")
			b := filepath.Join(in, "b.fastq")
			So(os.WriteFile(a, []byte(readA), 0600), ShouldBeNil)
			So(os.WriteFile(b, []byte(readB), 0600), ShouldBeNil)

			out := filepath.Join(in, "out", "NB01_A.fastq")
			So(e.Execute(ctx, ConcatenateFiles(out, b, a)), ShouldBeNil)
			So(fileContents(out), ShouldEqual, readB+readA)

			So(e.Execute(ctx, Concatenate(out, filepath.Join(QuoteGlob(in), "*.fastq"))), ShouldBeNil)
			So(fileContents(out), ShouldEqual, readA+readB)

			Convey("but missing files are an ArtifactError", func() {
				missing := filepath.Join(in, "c.fastq")
				err := e.Execute(ctx, ConcatenateFiles(out, a, missing))

				var aerr *ArtifactError
				So(errors.As(err, &aerr), ShouldBeTrue)
				So(aerr.Path, ShouldEqual, missing)

				err = e.Execute(ctx, ConcatenateFiles(out, in))
				So(errors.As(err, &aerr), ShouldBeTrue)
				So(aerr.Path, ShouldEqual, in)
			})
		})

		Convey("You can copy files", func() {
			src := filepath.Join(dir, "assembly.fasta")
			dst := filepath.Join(dir, "assembly_fasta", "NB01_A.fasta")
			So(os.WriteFile(src, []byte(">1\nACGT\n"), 0600), ShouldBeNil)

			So(e.Execute(ctx, Copy(src, dst)), ShouldBeNil)
			So(fileContents(dst), ShouldEqual, ">1\nACGT\n")
			So(fileContents(src), ShouldEqual, ">1\nACGT\n")

			Convey("but not missing ones", func() {
				err := e.Execute(ctx, Copy(filepath.Join(dir, "missing"), dst))

				var aerr *ArtifactError
				So(errors.As(err, &aerr), ShouldBeTrue)
				So(aerr.Path, ShouldEqual, filepath.Join(dir, "missing"))
				So(err.Error(), ShouldContainSubstring, "expected file not found")
			})
		})

		Convey("You can move files", func() {
			src := filepath.Join(dir, "BC01.fastq")
			dst := filepath.Join(dir, "UC01.fastq")
			So(os.WriteFile(src, []byte(readA), 0600), ShouldBeNil)

			So(e.Execute(ctx, Move(src, dst)), ShouldBeNil)
			So(fileContents(dst), ShouldEqual, readA)

			_, err := os.Stat(src)
			So(os.IsNotExist(err), ShouldBeTrue)

			Convey("but not missing ones", func() {
				err = e.Execute(ctx, Move(src, dst))

				var aerr *ArtifactError
				So(errors.As(err, &aerr), ShouldBeTrue)
			})

			Convey("or over a different file", func() {
				So(os.WriteFile(src, []byte(readA+readB), 0600), ShouldBeNil)
				So(e.Execute(ctx, Move(src, dst)), ShouldEqual, ErrDestDiffers)
			})
		})

		Convey("You can remove directories", func() {
			raw := filepath.Join(dir, "raw_fastqs")
			So(os.MkdirAll(filepath.Join(raw, "01_porechopped"), dirPerm), ShouldBeNil)

			So(e.Execute(ctx, RemoveAll(raw)), ShouldBeNil)

			_, err := os.Stat(raw)
			So(os.IsNotExist(err), ShouldBeTrue)
		})

		Convey("Bad invocations are rejected", func() {
			So(errors.Is(e.Execute(ctx, Invocation{Op: "foo"}), ErrUnknownOp), ShouldBeTrue)
			So(errors.Is(e.Execute(ctx, Invocation{Op: OpCopy, Output: "b"}), ErrBadInputs), ShouldBeTrue)
			So(e.Execute(ctx, Invocation{Op: OpMove, Inputs: []string{"a"}}), ShouldEqual, ErrNoOutput)
			So(e.Execute(ctx, Invocation{Op: OpRemoveAll}), ShouldEqual, ErrNoOutput)
			So(spy.calls, ShouldBeEmpty)
		})
	})
}

func TestExecRunner(t *testing.T) {
	ctx := context.Background()

	Convey("Given an ExecRunner", t, func() {
		var stdout, stderr bytes.Buffer

		r := &ExecRunner{Stdout: &stdout, Stderr: &stderr}

		Convey("Successful programs return no error, and their output is passed on", func() {
			err := r.Run(ctx, "sh", []string{"-c", "echo out; echo err >&2"})
			So(err, ShouldBeNil)
			So(stdout.String(), ShouldEqual, "out\n")
			So(stderr.String(), ShouldEqual, "err\n")
		})

		Convey("Non-zero exits are ProcessErrors with the exit code and stderr", func() {
			args := []string{"-c", "echo starting >&2; echo bad reads >&2; exit 3"}
			err := r.Run(ctx, "sh", args)

			var perr *ProcessError
			So(errors.As(err, &perr), ShouldBeTrue)
			So(perr.Program, ShouldEqual, "sh")
			So(perr.Args, ShouldResemble, args)
			So(perr.ExitCode, ShouldEqual, 3)
			So(perr.Stderr, ShouldEqual, "starting\nbad reads\n")
			So(err.Error(), ShouldEqual, "sh exited with status 3: bad reads")
			So(stderr.String(), ShouldEqual, "starting\nbad reads\n")
		})

		Convey("Programs that can't be started are ProcessErrors with exit code -1", func() {
			err := r.Run(ctx, "/no/such/porechop", nil)

			var perr *ProcessError
			So(errors.As(err, &perr), ShouldBeTrue)
			So(perr.ExitCode, ShouldEqual, -1)
			So(err.Error(), ShouldStartWith, "could not run /no/such/porechop")
		})

		Convey("Nil writers are fine", func() {
			r = &ExecRunner{}
			So(r.Run(ctx, "sh", []string{"-c", "echo out; echo err >&2"}), ShouldBeNil)
		})
	})

	Convey("tailBuffer only keeps the end of what is written", t, func() {
		tail := &tailBuffer{max: 5}
		_, err := tail.Write([]byte("abc"))
		So(err, ShouldBeNil)
		_, err = tail.Write([]byte("defg"))
		So(err, ShouldBeNil)
		So(tail.String(), ShouldEqual, "cdefg")
	})

	Convey("Preflight finds programs on the PATH", t, func() {
		So(Preflight("sh"), ShouldBeNil)

		err := Preflight("sh", "porecycler-no-such-program")

		var perr *ProcessError
		So(errors.As(err, &perr), ShouldBeTrue)
		So(perr.Program, ShouldEqual, "porecycler-no-such-program")
		So(perr.ExitCode, ShouldEqual, -1)
	})
}

func writeGzip(path, content string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	gw := gzip.NewWriter(f)

	if _, err = gw.Write([]byte(content)); err != nil {
		return err
	}

	if err = gw.Close(); err != nil {
		return err
	}

	return f.Close()
}

func fileContents(path string) string {
	b, err := os.ReadFile(path)
	if err != nil {
		return ""
	}

	return string(b)
}
