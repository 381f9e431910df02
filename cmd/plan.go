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
	"context"

	"github.com/spf13/cobra"
	"github.com/wtsi-hgi/porecycler/config"
	"github.com/wtsi-hgi/porecycler/pipeline"
	"gopkg.in/yaml.v3"
)

// planCmd represents the plan command.
var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show what a run would do, without doing it.",
	Long: `Show what a run would do, without doing it.

Takes the same options as "porecycler run", reads your manifest, and prints as
YAML the directories that would be created followed by every stage of the run
and the commands each stage would carry out for each sample.

Nothing is created, trimmed or assembled, and porechop and unicycler needn't be
installed.
`,
	Run: func(_ *cobra.Command, _ []string) {
		out, err := planPorecycler(context.Background())
		if err != nil {
			dieWithGuidance(err)
		}

		cliPrintRaw(out)
	},
}

func init() {
	RootCmd.AddCommand(planCmd)

	addRunFlags(planCmd)
}

func planPorecycler(ctx context.Context) (string, error) {
	c, err := config.FromEnv()
	if err != nil {
		return "", err
	}

	cfg, load, err := prepareRun(ctx, c)
	if err != nil {
		return "", err
	}

	samples, err := load()
	if err != nil {
		return "", err
	}

	return planYAML(pipeline.NewPlan(cfg, samples))
}

func planYAML(plan pipeline.Plan) (string, error) {
	b, err := yaml.Marshal(plan)
	if err != nil {
		return "", err
	}

	return string(b), nil
}
