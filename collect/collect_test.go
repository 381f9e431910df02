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

package collect

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/wtsi-hgi/porecycler/executor"
	"github.com/wtsi-hgi/porecycler/layout"
	"github.com/wtsi-hgi/porecycler/types"
)

func TestCollect(t *testing.T) {
	Convey("Given a run and its samples", t, func() {
		root := t.TempDir()
		cfg := types.RunConfig{ReadsRoot: "/reads", OutputRoot: root}
		samples := []*types.Sample{
			{Index: 0, Barcode: "NB01", ID: "SampleA"},
			{Index: 1, Barcode: "NB02", ID: "SampleB"},
		}

		Convey("Invocations() copies the assembly files to their final names", func() {
			p := layout.Plan(samples[0], cfg)

			So(Invocations(p), ShouldResemble, []executor.Invocation{
				executor.Copy(filepath.Join(root, "unicycler", "NB01_SampleA", "assembly.gfa"),
					filepath.Join(root, "assembly_graphs", "NB01_SampleA_graph.gfa")),
				executor.Copy(filepath.Join(root, "unicycler", "NB01_SampleA", "assembly.fasta"),
					filepath.Join(root, "assembly_fasta", "NB01_SampleA.fasta")),
				executor.Copy(filepath.Join(root, "unicycler", "NB01_SampleA", "unicycler.log"),
					filepath.Join(root, "assembly_logs", "NB01_SampleA_unicycler.log")),
			})

			Convey("which work when executed", func() {
				So(os.MkdirAll(p.AssemblyDir, 0755), ShouldBeNil)

				for _, path := range []string{p.AssemblyGraph, p.AssemblyFasta, p.AssemblyLog} {
					So(os.WriteFile(path, []byte(filepath.Base(path)), 0600), ShouldBeNil)
				}

				e := executor.New(nil)

				for _, inv := range Invocations(p) {
					So(e.Execute(context.Background(), inv), ShouldBeNil)
				}

				content, err := os.ReadFile(p.FinalFasta)
				So(err, ShouldBeNil)
				So(string(content), ShouldEqual, "assembly.fasta")

				Convey("after which Cleanup() can remove the intermediate reads", func() {
					So(os.MkdirAll(filepath.Join(root, "raw_fastqs", "01_porechopped"), 0755), ShouldBeNil)

					So(e.Execute(context.Background(), Cleanup(cfg)), ShouldBeNil)

					_, err = os.Stat(filepath.Join(root, "raw_fastqs"))
					So(os.IsNotExist(err), ShouldBeTrue)

					_, err = os.Stat(p.FinalFasta)
					So(err, ShouldBeNil)
				})
			})
		})
	})
}
