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
	"context"
	"errors"
	"fmt"

	"github.com/wtsi-hgi/porecycler/executor"
	"github.com/wtsi-hgi/porecycler/layout"
	"github.com/wtsi-hgi/porecycler/types"
)

// StageExecutor carries out a single Invocation.
type StageExecutor interface {
	Execute(ctx context.Context, inv executor.Invocation) error
}

// Status says what an Event is about.
type Status string

const (
	StatusStarted Status = "started"
	StatusRunning Status = "running"
	StatusWarning Status = "warning"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
	StatusDone    Status = "done"
)

// Event describes a transition during a run. Sample is blank for events about
// a whole stage or a shared step; Invocation is only set for StatusRunning.
type Event struct {
	Stage      Stage
	Sample     string
	Status     Status
	Invocation string
	Err        error
}

// Observer is told about every Event of a run, in order.
type Observer interface {
	Observe(Event)
}

// ObserverFunc lets an ordinary function be an Observer.
type ObserverFunc func(Event)

func (f ObserverFunc) Observe(e Event) { f(e) }

// StageError is returned when a Step fails.
type StageError struct {
	Stage  Stage
	Sample string
	Err    error
}

func (e *StageError) Error() string {
	if e.Sample == "" {
		return fmt.Sprintf("stage %s failed: %s", e.Stage, e.Err)
	}

	return fmt.Sprintf("stage %s failed for sample %s: %s", e.Stage, e.Sample, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// Result summarises a run.
type Result struct {
	// TrimOnly is true if the run stopped after trimming, as requested.
	TrimOnly bool

	// Created are the output directories that didn't exist before the run.
	Created []string

	// Failed are the samples that failed in a best-effort run.
	Failed []string
}

// Orchestrator drives a StageExecutor through a Plan.
type Orchestrator struct {
	exec      StageExecutor
	policy    types.Policy
	observers []Observer
}

// NewOrchestrator returns an Orchestrator that uses the given executor,
// handles failures according to the given policy, and tells the given
// observers what it is doing.
func NewOrchestrator(exec StageExecutor, policy types.Policy, observers ...Observer) *Orchestrator {
	return &Orchestrator{exec: exec, policy: policy, observers: observers}
}

// Run creates the Plan's directories and then carries out its stages in
// order, each for every sample before the next stage starts.
//
// With PolicyFailFast, the first failure ends the run and is returned as a
// *StageError. With PolicyBestEffort, a sample that fails is left out of
// later stages while the others carry on, and all the failures are returned
// together at the end; failures of shared steps still end the run, and
// cleanup is skipped if anything failed.
//
// A missing input to the first Invocation of a Step with a Fallback only
// results in a StatusWarning Event before the Fallback is done.
func (o *Orchestrator) Run(ctx context.Context, plan Plan) (Result, error) {
	var result Result

	created, err := layout.EnsureDirs(plan.Dirs)
	result.Created = created

	if err != nil {
		return result, err
	}

	r := &run{Orchestrator: o, ctx: ctx, failed: make(map[int]bool)}

	for _, sp := range plan.Stages {
		if sp.Stage == StageTerminate {
			o.emit(Event{Stage: sp.Stage, Status: StatusDone})

			result.TrimOnly = true

			break
		}

		if err = r.stage(sp); err != nil {
			result.Failed = r.failedSamples

			if len(r.errs) == 0 {
				return result, err
			}

			return result, errors.Join(append(r.errs, err)...)
		}
	}

	result.Failed = r.failedSamples

	return result, errors.Join(r.errs...)
}

type run struct {
	*Orchestrator
	ctx           context.Context
	failed        map[int]bool
	failedSamples []string
	errs          []error
}

// stage runs all the steps of a stage, returning an error only if the run
// must stop.
func (r *run) stage(sp StagePlan) error {
	if sp.Stage == StageCleanup && len(r.errs) > 0 {
		r.emit(Event{Stage: sp.Stage, Status: StatusSkipped})

		return nil
	}

	r.emit(Event{Stage: sp.Stage, Status: StatusStarted})

	for _, step := range sp.Steps {
		if r.failed[step.SampleIndex] {
			r.emit(Event{Stage: sp.Stage, Sample: step.Sample, Status: StatusSkipped})

			continue
		}

		err := r.step(sp.Stage, step)
		if err == nil {
			continue
		}

		serr := &StageError{Stage: sp.Stage, Sample: step.Sample, Err: err}
		r.emit(Event{Stage: sp.Stage, Sample: step.Sample, Status: StatusFailed, Err: serr})

		if r.policy != types.PolicyBestEffort || step.SampleIndex == SharedStep || r.ctx.Err() != nil {
			return serr
		}

		r.failed[step.SampleIndex] = true
		r.failedSamples = append(r.failedSamples, step.Sample)
		r.errs = append(r.errs, serr)
	}

	r.emit(Event{Stage: sp.Stage, Status: StatusDone})

	return nil
}

func (r *run) step(stage Stage, step Step) error {
	done, err := r.invoke(stage, step.Sample, step.Invocations)
	if err == nil || step.Fallback == nil || done > 0 {
		return err
	}

	var aerr *executor.ArtifactError
	if !errors.As(err, &aerr) {
		return err
	}

	r.emit(Event{Stage: stage, Sample: step.Sample, Status: StatusWarning, Err: err})

	_, err = r.invoke(stage, step.Sample, []executor.Invocation{*step.Fallback})

	return err
}

// invoke returns how many of the invocations succeeded before any error.
func (r *run) invoke(stage Stage, sample string, invs []executor.Invocation) (int, error) {
	for i, inv := range invs {
		r.emit(Event{Stage: stage, Sample: sample, Status: StatusRunning, Invocation: inv.String()})

		if err := r.exec.Execute(r.ctx, inv); err != nil {
			return i, err
		}
	}

	return len(invs), nil
}

func (o *Orchestrator) emit(e Event) {
	for _, obs := range o.observers {
		obs.Observe(e)
	}
}
