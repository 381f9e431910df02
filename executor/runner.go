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
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

const stderrTailSize = 4096

// ProcessError is returned when an external program exits non-zero or could
// not be started at all, in which case ExitCode is -1.
type ProcessError struct {
	Program  string
	Args     []string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *ProcessError) Error() string {
	if e.ExitCode < 0 {
		return fmt.Sprintf("could not run %s: %s", e.Program, e.Err)
	}

	msg := fmt.Sprintf("%s exited with status %d", e.Program, e.ExitCode)

	if last := lastLine(e.Stderr); last != "" {
		msg += ": " + last
	}

	return msg
}

func (e *ProcessError) Unwrap() error { return e.Err }

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")

	return strings.TrimSpace(lines[len(lines)-1])
}

// ExecRunner is a Runner that runs real programs, writing their stdout and
// stderr to the given writers (which may be nil).
type ExecRunner struct {
	Stdout io.Writer
	Stderr io.Writer
}

// Run runs the program with the given args, blocking until it exits. Failures
// are returned as a *ProcessError that includes the end of the program's
// stderr.
func (r *ExecRunner) Run(ctx context.Context, program string, args []string) error {
	cmd := exec.CommandContext(ctx, program, args...)
	tail := &tailBuffer{max: stderrTailSize}

	cmd.Stdout = r.Stdout
	cmd.Stderr = tail

	if r.Stderr != nil {
		cmd.Stderr = io.MultiWriter(r.Stderr, tail)
	}

	err := cmd.Run()
	if err == nil {
		return nil
	}

	perr := &ProcessError{
		Program:  program,
		Args:     args,
		ExitCode: -1,
		Stderr:   tail.String(),
		Err:      err,
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		perr.ExitCode = exitErr.ExitCode()
	}

	return perr
}

// tailBuffer keeps only the last max bytes written to it.
type tailBuffer struct {
	max int
	buf []byte
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	t.buf = append(t.buf, p...)

	if over := len(t.buf) - t.max; over > 0 {
		t.buf = t.buf[over:]
	}

	return len(p), nil
}

func (t *tailBuffer) String() string { return string(t.buf) }

// Preflight checks that all the given programs can be found, returning a
// *ProcessError for the first that can't.
func Preflight(programs ...string) error {
	for _, program := range programs {
		if _, err := exec.LookPath(program); err != nil {
			return &ProcessError{Program: program, ExitCode: -1, Err: err}
		}
	}

	return nil
}
