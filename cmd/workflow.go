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
	"errors"
	"fmt"
	"strings"

	"github.com/wtsi-hgi/porecycler/manifest"
	"github.com/wtsi-hgi/porecycler/pipeline"
	"github.com/wtsi-hgi/porecycler/report"
	"github.com/wtsi-hgi/porecycler/types"
)

// sampleLoader gets the samples of a run from a manifest file or sheet.
type sampleLoader func() ([]*types.Sample, error)

// workflow is a run of the pipeline, from loading the manifest to reporting on
// the assemblies.
type workflow struct {
	cfg       types.RunConfig
	load      sampleLoader
	preflight func() error
	exec      pipeline.StageExecutor
	observers []pipeline.Observer
	report    bool
}

// run loads the samples, does any preflight check, then plans and carries out
// the run. Nothing is executed if the samples can't be loaded or the check
// fails.
func (w *workflow) run(ctx context.Context) (pipeline.Result, error) {
	samples, err := w.load()
	if err != nil {
		return pipeline.Result{}, err
	}

	info("loaded %d samples", len(samples))

	if w.preflight != nil {
		if err = w.preflight(); err != nil {
			return pipeline.Result{}, err
		}
	}

	plan := pipeline.NewPlan(w.cfg, samples)

	result, err := pipeline.NewOrchestrator(w.exec, w.cfg.Policy, w.observers...).Run(ctx, plan)

	for _, dir := range result.Created {
		info("created directory %s", dir)
	}

	if w.report && !result.TrimOnly {
		w.writeReport(succeeded(samples, result.Failed))
	}

	return result, err
}

func succeeded(samples []*types.Sample, failed []string) []*types.Sample {
	skip := make(map[string]bool, len(failed))

	for _, name := range failed {
		skip[name] = true
	}

	var ok []*types.Sample

	for _, sample := range samples {
		if !skip[sample.Name()] {
			ok = append(ok, sample)
		}
	}

	return ok
}

// writeReport only warns about problems, since the run itself is done by
// now.
func (w *workflow) writeReport(samples []*types.Sample) {
	if len(samples) == 0 {
		return
	}

	writeReport(w.cfg.OutputRoot, report.Targets(samples, w.cfg))
}

func writeReport(dir string, targets []report.Target) {
	metrics, warnings := report.Measure(targets)

	for _, err := range warnings {
		warn("%s", err)
	}

	csvPath, htmlPath, err := report.Write(dir, metrics)
	if err != nil {
		warn("could not write assembly report: %s", err)

		return
	}

	info("assembly report written to %s and %s", csvPath, htmlPath)
}

// logEvent is a pipeline.Observer that logs Events with appLogger.
func logEvent(e pipeline.Event) {
	l := appLogger.New("stage", e.Stage.String())
	if e.Sample != "" {
		l = l.New("sample", e.Sample)
	}

	switch e.Status {
	case pipeline.StatusStarted:
		l.Info("stage started")
	case pipeline.StatusRunning:
		l.Info("running", "cmd", e.Invocation)
	case pipeline.StatusWarning:
		l.Warn("expected file missing, carrying on without it", "err", e.Err)
	case pipeline.StatusFailed:
		l.Error("failed", "err", e.Err)
	case pipeline.StatusSkipped:
		l.Warn("skipped due to earlier failures")
	case pipeline.StatusDone:
		l.Info(doneMessage(e.Stage))
	}
}

func doneMessage(stage pipeline.Stage) string {
	if stage == pipeline.StageTerminate {
		return "trimming complete; not assembling as requested"
	}

	return "stage complete"
}

// guidance returns advice on how to fix the given error, if it is the user's
// fault, or blank otherwise.
func guidance(err error) string {
	var ferr *manifest.FormatError
	if errors.As(err, &ferr) {
		return ferr.Schema.Guidance()
	}

	var cerr *types.ConflictError
	if errors.As(err, &cerr) {
		return fmt.Sprintf("%s can't be used like that; see 'porecycler run --help'",
			strings.Join(cerr.Flags, " and "))
	}

	return ""
}
