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

// package executor carries out the Invocations of a pipeline: external
// processes and the filesystem operations between them.

package executor

import (
	"context"
	"fmt"
	"os"
)

type Error string

func (e Error) Error() string { return string(e) }

const (
	ErrUnknownOp   = Error("unknown invocation op")
	ErrBadInputs   = Error("wrong number of inputs for invocation")
	ErrNoOutput    = Error("invocation has no output path")
	ErrDestDiffers = Error("destination file already exists with a different size")

	dirPerm = 0755
)

// ArtifactError is returned when a file an Invocation expects to read does
// not exist.
type ArtifactError struct {
	Path string
}

func (e *ArtifactError) Error() string {
	return fmt.Sprintf("expected file not found: %s", e.Path)
}

// Runner runs external programs, blocking until they exit.
type Runner interface {
	Run(ctx context.Context, program string, args []string) error
}

// Executor executes Invocations, using a Runner for OpProcess and doing
// everything else itself.
type Executor struct {
	runner Runner
}

// New returns an Executor that runs processes with the given Runner.
func New(runner Runner) *Executor {
	return &Executor{runner: runner}
}

// Execute carries out the given Invocation. Missing input files result in an
// *ArtifactError, and failed processes in whatever error the Runner returned
// (a *ProcessError for an ExecRunner). Nothing is retried.
func (e *Executor) Execute(ctx context.Context, inv Invocation) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	switch inv.Op {
	case OpProcess:
		return e.runner.Run(ctx, inv.Program, inv.Args)
	case OpConcatenate:
		if inv.Output == "" {
			return ErrNoOutput
		}

		return concatenate(inv)
	case OpCopy, OpMove:
		return transfer(inv)
	case OpRemoveAll:
		if inv.Output == "" {
			return ErrNoOutput
		}

		return os.RemoveAll(inv.Output)
	}

	return fmt.Errorf("%w: %s", ErrUnknownOp, inv.Op)
}

func transfer(inv Invocation) error {
	if len(inv.Inputs) != 1 {
		return fmt.Errorf("%w: %s needs 1, got %d", ErrBadInputs, inv.Op, len(inv.Inputs))
	}

	if inv.Output == "" {
		return ErrNoOutput
	}

	if inv.Op == OpMove {
		return moveFile(inv.Inputs[0], inv.Output)
	}

	return copyFile(inv.Inputs[0], inv.Output)
}
