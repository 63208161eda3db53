/*
Package stage runs a sequence of narrated stages, paced in time. It is the
headless driver behind the corridor demo: each stage announces what it is
about to do, performs its work on a shared scene and pauses, so that a
viewer may follow along.

Pacing is scaled by a speed factor and every pause honours context
cancellation.

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package stage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'stage'
func tracer() tracing.Trace {
	return tracing.Select("stage")
}

// Cue is handed to a running stage for narration and pacing.
type Cue interface {
	// Narrate announces a message to the viewer.
	Narrate(text string)
	// Wait pauses for d, scaled by the driver's speed. It returns early with
	// the context's error on cancellation.
	Wait(ctx context.Context, d time.Duration) error
}

// Stage is a step of a narrated sequence.
type Stage struct {
	Name      string
	Narration string        // announced before the stage runs
	Pause     time.Duration // pause after the narration
	Run       func(ctx context.Context, cue Cue) error
}

// Driver plays stages in order.
type Driver struct {
	Stages   []Stage
	Speed    float64                                          // pacing factor, values ≤ 0 are treated as 1
	Narrator func(text string)                                // defaults to tracing at info level
	Sleeper  func(ctx context.Context, d time.Duration) error // defaults to a timer
}

// Play runs all stages in order. It stops at the first failing stage,
// returning its error wrapped with the stage name, or on cancellation of ctx.
func (d *Driver) Play(ctx context.Context) error {
	for i, st := range d.Stages {
		if err := ctx.Err(); err != nil {
			return err
		}
		tracer().Debugf("stage %d: %s", i+1, st.Name)
		if st.Narration != "" {
			d.Narrate(st.Narration)
		}
		if err := d.Wait(ctx, st.Pause); err != nil {
			return err
		}
		if st.Run == nil {
			continue
		}
		if err := st.Run(ctx, d); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			return fmt.Errorf("stage %q: %w", st.Name, err)
		}
	}
	return nil
}

// Narrate is part of interface Cue.
func (d *Driver) Narrate(text string) {
	if d.Narrator != nil {
		d.Narrator(text)
		return
	}
	tracer().Infof("%s", text)
}

// Wait is part of interface Cue.
func (d *Driver) Wait(ctx context.Context, dur time.Duration) error {
	if d.Speed > 0 {
		dur = time.Duration(float64(dur) / d.Speed)
	}
	if dur <= 0 {
		return ctx.Err()
	}
	if d.Sleeper != nil {
		return d.Sleeper(ctx, dur)
	}
	return sleep(ctx, dur)
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
