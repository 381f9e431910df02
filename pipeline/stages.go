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

// package pipeline decides which stages a run goes through, expands them into
// concrete invocations for every sample, and drives a StageExecutor through
// them.

package pipeline

import "github.com/wtsi-hgi/porecycler/types"

// Stage is one step of the fixed porecycler workflow.
type Stage int

const (
	StageConcatenate Stage = iota
	StageConcatenateUnclassified
	StageTrim
	StageTrimUnclassified
	StageMergeUnclassified
	StageRenameTrimmed
	StageTerminate
	StageAssemble
	StageCollect
	StageCleanup
)

var stageNames = [...]string{
	StageConcatenate:             "concatenate",
	StageConcatenateUnclassified: "concatenate-unclassified",
	StageTrim:                    "trim",
	StageTrimUnclassified:        "trim-unclassified",
	StageMergeUnclassified:       "merge-unclassified",
	StageRenameTrimmed:           "rename-trimmed",
	StageTerminate:               "terminate",
	StageAssemble:                "assemble",
	StageCollect:                 "collect",
	StageCleanup:                 "cleanup",
}

func (s Stage) String() string {
	if s < 0 || int(s) >= len(stageNames) {
		return "unknown"
	}

	return stageNames[s]
}

// MarshalYAML makes Stages appear by name in YAML.
func (s Stage) MarshalYAML() (any, error) {
	return s.String(), nil
}

// Stages returns the ordered list of stages a run with the given config goes
// through.
func Stages(cfg types.RunConfig) []Stage {
	var stages []Stage

	if !cfg.AssembleOnly {
		stages = append(stages, trimmingStages(cfg)...)
	}

	if cfg.TrimOnly {
		return append(stages, StageTerminate)
	}

	stages = append(stages, StageAssemble, StageCollect)

	if cfg.Cleanup {
		stages = append(stages, StageCleanup)
	}

	return stages
}

func trimmingStages(cfg types.RunConfig) []Stage {
	if !cfg.MergeUnclassified {
		return []Stage{StageConcatenate, StageTrim, StageRenameTrimmed}
	}

	stages := []Stage{
		StageConcatenate, StageConcatenateUnclassified,
		StageTrim, StageTrimUnclassified,
	}

	if cfg.Merging() {
		return append(stages, StageMergeUnclassified)
	}

	return append(stages, StageRenameTrimmed)
}

// Programs returns the external programs a run with the given config will
// need.
func Programs(cfg types.RunConfig) []string {
	var programs []string

	if !cfg.AssembleOnly {
		programs = append(programs, cfg.Trimmer)
	}

	if !cfg.TrimOnly {
		programs = append(programs, cfg.Assembler)
	}

	return programs
}
