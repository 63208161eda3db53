package stage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/tubular/config"
	"github.com/npillmayer/tubular/rmf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	narrations []string
	waits      []time.Duration
}

func (r *recorder) narrate(text string) {
	r.narrations = append(r.narrations, text)
}

func (r *recorder) sleep(ctx context.Context, d time.Duration) error {
	r.waits = append(r.waits, d)
	return ctx.Err()
}

func (r *recorder) driver(stages []Stage, speed float64) *Driver {
	return &Driver{Stages: stages, Speed: speed, Narrator: r.narrate, Sleeper: r.sleep}
}

func TestPlayRunsStagesInOrder(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	var order []string
	stages := []Stage{
		{Name: "one", Narration: "first", Pause: time.Second, Run: func(ctx context.Context, cue Cue) error {
			order = append(order, "one")
			cue.Narrate("inside")
			return cue.Wait(ctx, 100*time.Millisecond)
		}},
		{Name: "two", Narration: "second"},
		{Name: "three", Run: func(ctx context.Context, cue Cue) error {
			order = append(order, "three")
			return nil
		}},
	}
	r := &recorder{}
	require.NoError(t, r.driver(stages, 2).Play(context.Background()))
	assert.Equal(t, []string{"one", "three"}, order)
	assert.Equal(t, []string{"first", "inside", "second"}, r.narrations)
	assert.Equal(t, []time.Duration{500 * time.Millisecond, 50 * time.Millisecond}, r.waits)
}

func TestPlayWrapsStageErrors(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	boom := errors.New("boom")
	ran := false
	stages := []Stage{
		{Name: "failing", Run: func(context.Context, Cue) error { return boom }},
		{Name: "never", Run: func(context.Context, Cue) error { ran = true; return nil }},
	}
	err := (&recorder{}).driver(stages, 1).Play(context.Background())
	assert.True(t, errors.Is(err, boom))
	assert.Contains(t, err.Error(), `stage "failing"`)
	assert.False(t, ran)
}

func TestPlayHonoursCancellation(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	ctx, cancel := context.WithCancel(context.Background())
	stages := []Stage{
		{Name: "cancel", Run: func(context.Context, Cue) error { cancel(); return nil }},
		{Name: "waiting", Pause: time.Hour},
	}
	d := &Driver{Stages: stages}
	err := d.Play(ctx)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestWaitUsesTimer(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	d := &Driver{Speed: 1000}
	start := time.Now()
	require.NoError(t, d.Wait(context.Background(), time.Second))
	assert.GreaterOrEqual(t, time.Since(start), time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.True(t, errors.Is(d.Wait(ctx, time.Hour), context.Canceled))
	assert.NoError(t, d.Wait(context.Background(), 0))
}

func TestDemo(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	conf := config.Default()
	conf.Route.Seed = 42
	conf.Curve.Samples = 120
	scene := NewScene(conf)
	r := &recorder{}
	stages := DemoStages(scene)
	require.Len(t, stages, 7)
	require.NoError(t, r.driver(stages, 1).Play(context.Background()))

	assert.Len(t, scene.Dots, 10)
	assert.Equal(t, 10, scene.DotsShown)
	assert.Equal(t, scene.Dots[scene.First], scene.Route[0])
	assert.Len(t, scene.Samples, 121)
	require.NotNil(t, scene.Frenet)
	require.NotNil(t, scene.Frames)
	assert.Equal(t, 121, scene.Frames.N())
	assert.Equal(t, 121, scene.AxesShown)
	require.NotNil(t, scene.Naive)
	require.NotNil(t, scene.Corridor)
	assert.Equal(t, 120, scene.Corridor.Segments())
	assert.Equal(t, 120, scene.SectorsOut)
	assert.Equal(t, "Creating 10 dots at random places in space", r.narrations[0])
	assert.Equal(t, "Done", r.narrations[len(r.narrations)-1])
	twistRMF, _ := rmf.MaxTwist(scene.Frames)
	twistFrenet, _ := rmf.MaxTwist(scene.Frenet)
	assert.LessOrEqual(t, twistRMF, twistFrenet)
}

func TestDemoCancelled(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	conf := config.Default()
	conf.Route.Seed = 1
	scene := NewScene(conf)
	ctx, cancel := context.WithCancel(context.Background())
	waits := 0
	d := &Driver{
		Stages:   DemoStages(scene),
		Narrator: func(string) {},
		Sleeper: func(ctx context.Context, _ time.Duration) error {
			if waits++; waits == 3 {
				cancel()
			}
			return ctx.Err()
		},
	}
	err := d.Play(ctx)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Nil(t, scene.Corridor)
}
