package main

import (
	"fmt"
	"io"

	"github.com/npillmayer/tubular"
	"github.com/npillmayer/tubular/config"
	"github.com/npillmayer/tubular/corridor"
	"github.com/npillmayer/tubular/curve"
	"github.com/npillmayer/tubular/rmf"
	"github.com/npillmayer/tubular/route"
	"github.com/npillmayer/tubular/stl"
	"github.com/spf13/cobra"
)

var buildOpts struct {
	output  string
	binary  bool
	frenet  bool
	seed    uint64
	samples int
}

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build a corridor along a random route and write it as STL",
	Long: `Scatter dots in space, connect them greedily by nearest neighbours with a
Catmull-Rom spline, compute rotation-minimizing frames along the sampled
spline and sweep the corridor profile along them.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("seed") {
			conf.Route.Seed = buildOpts.seed
		}
		if cmd.Flags().Changed("samples") {
			conf.Curve.Samples = buildOpts.samples
		}
		if err := conf.Validate(); err != nil {
			return err
		}
		return runBuild(cmd.OutOrStdout(), conf)
	},
}

func init() {
	buildCmd.Flags().StringVarP(&buildOpts.output, "output", "o", "corridor.stl", "STL output file")
	buildCmd.Flags().BoolVar(&buildOpts.binary, "binary", false, "write binary STL, including face colours")
	buildCmd.Flags().BoolVar(&buildOpts.frenet, "frenet", false, "sweep along Frenet frames instead")
	buildCmd.Flags().Uint64Var(&buildOpts.seed, "seed", 0, "random seed (overrides configuration)")
	buildCmd.Flags().IntVar(&buildOpts.samples, "samples", 300, "number of curve segments (overrides configuration)")
	rootCmd.AddCommand(buildCmd)
}

// corridorBuild is the outcome of the build pipeline.
type corridorBuild struct {
	Route   *route.Route
	Samples []tubular.Vec
	Frames  *rmf.Sequence
	Mesh    *corridor.Mesh
}

// buildCorridor runs the pipeline route → curve → samples → frames → mesh.
func buildCorridor(conf *config.Config, frenet bool) (*corridorBuild, error) {
	r, err := route.Generate(route.Spec{
		Dots:     conf.Route.Dots,
		WorkArea: conf.Route.WorkArea.Vec(),
		Seed:     conf.Route.Seed,
	})
	if err != nil {
		return nil, err
	}
	spline, err := curve.NewCatmullRom(curve.FromKnots(r.Ordered),
		curve.WithKind(conf.CurveKind()), curve.WithTension(conf.Curve.Tension))
	if err != nil {
		return nil, err
	}
	b := &corridorBuild{Route: r}
	if conf.Curve.Spaced {
		b.Samples = spline.SpacedPoints(conf.Curve.Samples)
	} else {
		b.Samples = spline.Points(conf.Curve.Samples)
	}
	if frenet {
		b.Frames, err = rmf.FrenetFrames(b.Samples)
	} else {
		b.Frames, err = rmf.Solve(b.Samples)
	}
	if err != nil {
		return nil, err
	}
	pal, err := conf.Palette()
	if err != nil {
		return nil, err
	}
	if b.Mesh, err = corridor.BuildSequence(b.Samples, b.Frames, conf.Corridor.Profile, pal); err != nil {
		return nil, err
	}
	return b, nil
}

func runBuild(out io.Writer, conf *config.Config) error {
	b, err := buildCorridor(conf, buildOpts.frenet)
	if err != nil {
		return err
	}
	if b.Frames.Warning != nil {
		fmt.Fprintf(out, "warning: %v\n", b.Frames.Warning)
	}
	model := b.Mesh.Model("corridor")
	if err := stl.WriteFile(buildOpts.output, model, buildOpts.binary); err != nil {
		return err
	}
	twist, _ := rmf.MaxTwist(b.Frames)
	turn, _ := rmf.MaxTurn(b.Frames)
	fmt.Fprintf(out, "Corridor written to %s\n", buildOpts.output)
	fmt.Fprintf(out, "  Dots:       %d (route length %.2f)\n", len(b.Route.Ordered), route.Length(b.Route.Ordered))
	fmt.Fprintf(out, "  Samples:    %d\n", len(b.Samples))
	fmt.Fprintf(out, "  Triangles:  %d\n", model.TriangleCount())
	fmt.Fprintf(out, "  Surface:    %.2f square units\n", model.SurfaceArea())
	fmt.Fprintf(out, "  Footprint:  %.2f square units\n", b.Mesh.Footprint().Area())
	fmt.Fprintf(out, "  Max twist:  %.4f°\n", twist/tubular.Deg2Rad)
	fmt.Fprintf(out, "  Max turn:   %.4f°\n", turn/tubular.Deg2Rad)
	return nil
}
