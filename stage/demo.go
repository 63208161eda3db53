package stage

import (
	"context"
	"fmt"
	"time"

	"github.com/npillmayer/tubular"
	"github.com/npillmayer/tubular/config"
	"github.com/npillmayer/tubular/corridor"
	"github.com/npillmayer/tubular/curve"
	"github.com/npillmayer/tubular/rmf"
	"github.com/npillmayer/tubular/route"
)

// Scene is the state the demo stages work on. Counters reflect how much of
// each element has been revealed to the viewer so far.
type Scene struct {
	Config *config.Config

	Dots       []tubular.Vec // dots in order of creation
	First      int           // index of the first dot
	Route      []tubular.Vec // dots in order of visit
	Curve      *curve.CatmullRom
	Samples    []tubular.Vec
	Naive      *corridor.Mesh // corridor along Frenet frames
	Frenet     *rmf.Sequence
	Frames     *rmf.Sequence // rotation-minimizing frames
	Corridor   *corridor.Mesh
	DotsShown  int
	AxesShown  int
	SectorsOut int // corridor sectors revealed
}

// NewScene creates an empty scene for a configuration.
func NewScene(conf *config.Config) *Scene {
	return &Scene{Config: conf}
}

const (
	perDot    = 500 * time.Millisecond
	perAxis   = 10 * time.Millisecond
	perSector = 30 * time.Millisecond
)

// DemoStages returns the stages of the corridor demo, operating on scene:
// scatter dots, pick a first dot, connect the dots by a curve, extrude a
// corridor naively, show Frenet frames, show rotation-minimizing frames and
// finally build the corridor along the rotation-minimizing frames.
func DemoStages(scene *Scene) []Stage {
	conf := scene.Config
	return []Stage{
		{
			Name:      "create dots",
			Narration: fmt.Sprintf("Creating %d dots at random places in space", conf.Route.Dots),
			Run:       scene.createDots,
		}, {
			Name:      "choose first dot",
			Narration: "Choosing the first dot at random",
			Run:       scene.chooseFirstDot,
		}, {
			Name:      "make curve",
			Narration: "Building a curve from the first dot to the nearest one, from there to the next nearest, and so on",
			Run:       scene.makeCurve,
		}, {
			Name: "naive corridor",
			Narration: fmt.Sprintf("Extruding a %g×%g rectangle along the curve",
				conf.Corridor.Profile.Width, conf.Corridor.Profile.Height),
			Run: scene.naiveCorridor,
		}, {
			Name:      "frenet frames",
			Narration: "Probably not quite what was expected",
			Pause:     5 * time.Second,
			Run:       scene.frenetFrames,
		}, {
			Name:      "rotation-minimizing frames",
			Narration: "Let's look at rotation-minimizing frames",
			Pause:     4 * time.Second,
			Run:       scene.rotationMinimizingFrames,
		}, {
			Name:      "corridor",
			Narration: "Building the corridor",
			Pause:     2 * time.Second,
			Run:       scene.buildCorridor,
		},
	}
}

func (s *Scene) createDots(ctx context.Context, cue Cue) error {
	r, err := route.Generate(route.Spec{
		Dots:     s.Config.Route.Dots,
		WorkArea: s.Config.Route.WorkArea.Vec(),
		Seed:     s.Config.Route.Seed,
	})
	if err != nil {
		return err
	}
	s.Dots = r.Dots
	s.First = r.First
	s.Route = r.Ordered
	for range s.Dots {
		s.DotsShown++
		if err := cue.Wait(ctx, perDot); err != nil {
			return err
		}
	}
	return nil
}

func (s *Scene) chooseFirstDot(ctx context.Context, cue Cue) error {
	tracer().Debugf("first dot is #%d at %v", s.First, s.Dots[s.First])
	return cue.Wait(ctx, 2*time.Second)
}

func (s *Scene) makeCurve(ctx context.Context, cue Cue) error {
	c, err := curve.NewCatmullRom(curve.FromKnots(s.Route),
		curve.WithKind(s.Config.CurveKind()), curve.WithTension(s.Config.Curve.Tension))
	if err != nil {
		return err
	}
	s.Curve = c
	if s.Config.Curve.Spaced {
		s.Samples = c.SpacedPoints(s.Config.Curve.Samples)
	} else {
		s.Samples = c.Points(s.Config.Curve.Samples)
	}
	tracer().Infof("curve of length %.1f, %d samples", c.Length(), len(s.Samples))
	return cue.Wait(ctx, 5*time.Second)
}

func (s *Scene) naiveCorridor(ctx context.Context, cue Cue) error {
	frenet, err := rmf.FrenetFrames(s.Samples)
	if err != nil {
		return err
	}
	s.Frenet = frenet
	if s.Naive, err = s.sweep(frenet); err != nil {
		return err
	}
	return cue.Wait(ctx, 5*time.Second)
}

func (s *Scene) frenetFrames(ctx context.Context, cue Cue) error {
	cue.Narrate("Extracting Frenet frames from the curve: tangent, normal and binormal")
	if err := cue.Wait(ctx, 5*time.Second); err != nil {
		return err
	}
	if err := s.revealAxes(ctx, cue, s.Frenet.N()); err != nil {
		return err
	}
	twist, at := rmf.MaxTwist(s.Frenet)
	cue.Narrate(fmt.Sprintf("This method is unsuitable, the frame often flips (up to %.1f° at sample %d)",
		twist/tubular.Deg2Rad, at))
	if err := cue.Wait(ctx, 5*time.Second); err != nil {
		return err
	}
	for s.AxesShown > 0 {
		s.AxesShown--
		if err := cue.Wait(ctx, perAxis); err != nil {
			return err
		}
	}
	return nil
}

func (s *Scene) rotationMinimizingFrames(ctx context.Context, cue Cue) error {
	seq, err := rmf.Solve(s.Samples)
	if err != nil {
		return err
	}
	if seq.Warning != nil {
		tracer().Errorf("warning: %v", seq.Warning)
	}
	s.Frames = seq
	if err := s.revealAxes(ctx, cue, seq.N()); err != nil {
		return err
	}
	twist, _ := rmf.MaxTwist(seq)
	cue.Narrate(fmt.Sprintf("Looks perfect, the normals do not flip (largest twist %.2g°)",
		twist/tubular.Deg2Rad))
	return cue.Wait(ctx, 8*time.Second)
}

func (s *Scene) buildCorridor(ctx context.Context, cue Cue) error {
	mesh, err := s.sweep(s.Frames)
	if err != nil {
		return err
	}
	s.Corridor = mesh
	for s.SectorsOut < mesh.Segments() {
		s.SectorsOut++
		if err := cue.Wait(ctx, perSector); err != nil {
			return err
		}
	}
	cue.Narrate("Done")
	return cue.Wait(ctx, 4*time.Second)
}

func (s *Scene) revealAxes(ctx context.Context, cue Cue, n int) error {
	for s.AxesShown < n {
		s.AxesShown++
		if err := cue.Wait(ctx, perAxis); err != nil {
			return err
		}
	}
	return nil
}

func (s *Scene) sweep(seq *rmf.Sequence) (*corridor.Mesh, error) {
	pal, err := s.Config.Palette()
	if err != nil {
		return nil, err
	}
	return corridor.BuildSequence(s.Samples, seq, s.Config.Corridor.Profile, pal)
}
