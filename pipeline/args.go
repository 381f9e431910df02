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

package pipeline

import (
	"strconv"

	"github.com/wtsi-hgi/porecycler/layout"
	"github.com/wtsi-hgi/porecycler/types"
)

// AssemblerArgs returns the unicycler arguments for assembling the sample with
// the given paths.
func AssemblerArgs(cfg types.RunConfig, p layout.Paths) []string {
	var args []string

	if cfg.Mode == types.ModeConservative || cfg.Mode == types.ModeBold {
		args = append(args, "--mode", string(cfg.Mode))
	}

	if cfg.Hybrid {
		args = append(args, "-1", p.ShortReadsR1, "-2", p.ShortReadsR2)
	}

	args = append(args, "-l", p.LongReads, "-o", p.AssemblyDir)

	return withThreads(args, cfg.Threads)
}

// TrimmerArgs returns the porechop arguments for trimming and binning the
// reads in input to outDir.
func TrimmerArgs(cfg types.RunConfig, input, outDir string) []string {
	return withThreads([]string{"-i", input, "-b", outDir}, cfg.Threads)
}

func withThreads(args []string, threads int) []string {
	if threads <= 0 {
		return args
	}

	return append(args, "-t", strconv.Itoa(threads))
}
