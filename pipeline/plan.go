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
	"github.com/wtsi-hgi/porecycler/collect"
	"github.com/wtsi-hgi/porecycler/executor"
	"github.com/wtsi-hgi/porecycler/layout"
	"github.com/wtsi-hgi/porecycler/types"
)

// SharedStep is the SampleIndex of Steps that don't belong to one sample.
const SharedStep = -1

// Step is the work of one stage for one sample, or for the run as a whole.
// The Invocations are carried out in order. If the first one fails because
// its input was missing and there is a Fallback, the Fallback is done
// instead; once any Invocation has succeeded, failures are never softened.
type Step struct {
	SampleIndex int                   `yaml:"-"`
	Sample      string                `yaml:"sample,omitempty"`
	Invocations []executor.Invocation `yaml:"invocations"`
	Fallback    *executor.Invocation  `yaml:"fallback,omitempty"`
}

// StagePlan is a Stage and its Steps, one per sample for per-sample stages.
type StagePlan struct {
	Stage Stage  `yaml:"stage"`
	Steps []Step `yaml:"steps,omitempty"`
}

// Plan is everything a run will do, in order.
type Plan struct {
	Dirs   []string    `yaml:"dirs"`
	Stages []StagePlan `yaml:"stages"`
}

// NewPlan expands the Stages() of the given config into the concrete Steps
// needed for the given samples. It does no IO.
func NewPlan(cfg types.RunConfig, samples []*types.Sample) Plan {
	paths := make([]layout.Paths, len(samples))

	for i, sample := range samples {
		paths[i] = layout.Plan(sample, cfg)
	}

	pb := &planBuilder{cfg: cfg, shared: layout.Root(cfg), paths: paths}

	plan := Plan{Dirs: layout.Dirs(cfg)}

	for _, stage := range Stages(cfg) {
		plan.Stages = append(plan.Stages, StagePlan{Stage: stage, Steps: pb.steps(stage)})
	}

	return plan
}

type planBuilder struct {
	cfg    types.RunConfig
	shared layout.Shared
	paths  []layout.Paths
}

func (pb *planBuilder) steps(stage Stage) []Step {
	switch stage {
	case StageConcatenateUnclassified:
		return pb.sharedStep(executor.Concatenate(pb.shared.UnclassifiedReads, pb.shared.UnclassifiedGlob))
	case StageTrimUnclassified:
		return pb.sharedStep(pb.trim(pb.shared.UnclassifiedReads, pb.shared.UnclassifiedTrimmedDir))
	case StageCleanup:
		return pb.sharedStep(collect.Cleanup(pb.cfg))
	case StageTerminate:
		return nil
	}

	steps := make([]Step, len(pb.paths))

	for i, p := range pb.paths {
		steps[i] = pb.sampleStep(stage, i, p)
	}

	return steps
}

func (pb *planBuilder) sharedStep(inv executor.Invocation) []Step {
	return []Step{{SampleIndex: SharedStep, Invocations: []executor.Invocation{inv}}}
}

func (pb *planBuilder) trim(input, outDir string) executor.Invocation {
	return executor.Process(pb.cfg.Trimmer, TrimmerArgs(pb.cfg, input, outDir)...)
}

func (pb *planBuilder) sampleStep(stage Stage, i int, p layout.Paths) Step {
	step := Step{SampleIndex: i, Sample: p.Name}

	switch stage {
	case StageConcatenate:
		step.Invocations = []executor.Invocation{executor.Concatenate(p.RawReads, p.BarcodeReadsGlob)}
	case StageTrim:
		step.Invocations = []executor.Invocation{pb.trim(p.RawReads, p.TrimmedDir)}
	case StageMergeUnclassified:
		step.Invocations = []executor.Invocation{
			executor.Move(p.UnclassifiedTrimmed, p.UnclassifiedRenamed),
			executor.ConcatenateFiles(p.FinalReads, p.UnclassifiedRenamed, p.TrimmedReads),
		}

		fallback := executor.Copy(p.TrimmedReads, p.FinalReads)
		step.Fallback = &fallback
	case StageRenameTrimmed:
		step.Invocations = []executor.Invocation{executor.Copy(p.TrimmedReads, p.FinalReads)}
	case StageAssemble:
		step.Invocations = []executor.Invocation{
			executor.Process(pb.cfg.Assembler, AssemblerArgs(pb.cfg, p)...),
		}
	case StageCollect:
		step.Invocations = collect.Invocations(p)
	}

	return step
}
