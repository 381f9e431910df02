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

package cmd

import (
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/wtsi-hgi/porecycler/layout"
	"github.com/wtsi-hgi/porecycler/report"
)

// options for this cmd.
var reportOutput string

// reportCmd represents the report command.
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Summarise the assemblies of an earlier run.",
	Long: `Summarise the assemblies of an earlier run.

Measures every FASTA file in <output>/assembly_fasta (contig count, total,
minimum, maximum and mean contig length, N50, and the number of contigs
unicycler marked as circular), and writes the results to
<output>/assembly_summary.csv along with charts of them in
<output>/assembly_summary.html.

"porecycler run" does this for you at the end of a run unless you use
--no-report.
`,
	Run: func(_ *cobra.Command, _ []string) {
		targets, err := report.TargetsInDir(filepath.Join(reportOutput, layout.FastaDirName))
		if err != nil {
			die("%s", err)
		}

		if len(targets) == 0 {
			die("%s", report.ErrNoAssemblies)
		}

		writeReport(reportOutput, targets)
	},
}

func init() {
	RootCmd.AddCommand(reportCmd)

	reportCmd.Flags().StringVarP(&reportOutput, outputFlag, "o", "",
		"output directory of an earlier run")
	markFlagRequired(reportCmd, outputFlag)
}
