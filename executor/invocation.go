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
	"fmt"
	"strings"
)

// Op is the kind of work an Invocation does.
type Op string

const (
	OpProcess     Op = "process"
	OpConcatenate Op = "concatenate"
	OpCopy        Op = "copy"
	OpMove        Op = "move"
	OpRemoveAll   Op = "remove-all"
)

// Invocation describes a single external process run or filesystem operation.
// Inputs of an OpConcatenate are glob patterns when Glob is true, and plain
// file paths otherwise; for OpCopy and OpMove there is exactly one input.
// OpRemoveAll removes Output.
type Invocation struct {
	Op      Op       `yaml:"op"`
	Program string   `yaml:"program,omitempty"`
	Args    []string `yaml:"args,omitempty"`
	Inputs  []string `yaml:"inputs,omitempty"`
	Glob    bool     `yaml:"glob,omitempty"`
	Output  string   `yaml:"output,omitempty"`
}

// Process returns an Invocation that runs the given program.
func Process(program string, args ...string) Invocation {
	return Invocation{Op: OpProcess, Program: program, Args: args}
}

// Concatenate returns an Invocation that writes the content of every file
// matching the given glob patterns, in order, to output. Literal parts of a
// pattern that might contain glob characters should be escaped with
// QuoteGlob().
func Concatenate(output string, patterns ...string) Invocation {
	return Invocation{Op: OpConcatenate, Inputs: patterns, Glob: true, Output: output}
}

// ConcatenateFiles is like Concatenate, but takes file paths that are used
// as they are.
func ConcatenateFiles(output string, files ...string) Invocation {
	return Invocation{Op: OpConcatenate, Inputs: files, Output: output}
}

// QuoteGlob escapes the characters in path that filepath.Match would treat
// specially.
func QuoteGlob(path string) string {
	return globQuoter.Replace(path)
}

var globQuoter = strings.NewReplacer(`\`, `\\`, "*", `\*`, "?", `\?`, "[", `\[`)

func Copy(src, dst string) Invocation {
	return Invocation{Op: OpCopy, Inputs: []string{src}, Output: dst}
}

func Move(src, dst string) Invocation {
	return Invocation{Op: OpMove, Inputs: []string{src}, Output: dst}
}

func RemoveAll(path string) Invocation {
	return Invocation{Op: OpRemoveAll, Output: path}
}

// String returns something resembling the shell command that would do the
// same thing as this Invocation.
func (i Invocation) String() string {
	switch i.Op {
	case OpProcess:
		return strings.Join(append([]string{i.Program}, i.Args...), " ")
	case OpConcatenate:
		return fmt.Sprintf("cat %s > %s", strings.Join(i.Inputs, " "), i.Output)
	case OpCopy:
		return fmt.Sprintf("cp %s %s", strings.Join(i.Inputs, " "), i.Output)
	case OpMove:
		return fmt.Sprintf("mv %s %s", strings.Join(i.Inputs, " "), i.Output)
	case OpRemoveAll:
		return "rm -r " + i.Output
	}

	return string(i.Op)
}
