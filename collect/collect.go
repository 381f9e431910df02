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

// package collect gathers the results of each assembly into the canonical
// output tree, and clears away the intermediate files afterwards.

package collect

import (
	"github.com/wtsi-hgi/porecycler/executor"
	"github.com/wtsi-hgi/porecycler/layout"
	"github.com/wtsi-hgi/porecycler/types"
)

// Invocations returns the copies of a sample's assembly graph, FASTA and log
// to their final names.
func Invocations(p layout.Paths) []executor.Invocation {
	return []executor.Invocation{
		executor.Copy(p.AssemblyGraph, p.FinalGraph),
		executor.Copy(p.AssemblyFasta, p.FinalFasta),
		executor.Copy(p.AssemblyLog, p.FinalLog),
	}
}

// Cleanup returns the removal of a run's intermediate reads. It should only
// be carried out once every sample has been collected.
func Cleanup(cfg types.RunConfig) executor.Invocation {
	return executor.RemoveAll(layout.Root(cfg).RawDir)
}
