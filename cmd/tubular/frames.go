package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/npillmayer/tubular"
	"github.com/npillmayer/tubular/rmf"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var framesOpts struct {
	strictSeed bool
	format     string
	frenet     bool
}

var framesCmd = &cobra.Command{
	Use:   "frames <file>...",
	Short: "Compute frames for sample files",
	Long: `Compute a frame per sample point for each sample file. Sample files
contain one point per line, as "x y z". Files are processed in parallel.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFrames(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), args)
	},
}

func init() {
	framesCmd.Flags().BoolVar(&framesOpts.strictSeed, "strict-seed", false, "fail on paths starting straight")
	framesCmd.Flags().StringVarP(&framesOpts.format, "format", "f", "table", "output format: table or yaml")
	framesCmd.Flags().BoolVar(&framesOpts.frenet, "frenet", false, "compute Frenet frames instead")
	rootCmd.AddCommand(framesCmd)
}

// frameRecord is the YAML representation of a frame.
type frameRecord struct {
	Index int        `yaml:"i"`
	Point [3]float64 `yaml:"p,flow"`
	T     [3]float64 `yaml:"t,flow"`
	R     [3]float64 `yaml:"r,flow"`
	S     [3]float64 `yaml:"s,flow"`
}

type pathRecord struct {
	File     string        `yaml:"file"`
	Warning  string        `yaml:"warning,omitempty"`
	MaxTwist float64       `yaml:"max_twist"`
	Frames   []frameRecord `yaml:"frames"`
}

func runFrames(ctx context.Context, out, errout io.Writer, files []string) error {
	if framesOpts.format != "table" && framesOpts.format != "yaml" {
		return fmt.Errorf("unknown output format %q", framesOpts.format)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	paths := make([][]tubular.Vec, len(files))
	for i, name := range files {
		pts, err := readPointsFile(name)
		if err != nil {
			return err
		}
		paths[i] = pts
	}
	var seqs []*rmf.Sequence
	var err error
	if framesOpts.frenet {
		seqs, err = frenetAll(paths)
	} else {
		var opts []rmf.Option
		if framesOpts.strictSeed {
			opts = append(opts, rmf.WithStrictSeed())
		}
		seqs, err = rmf.SolveAll(ctx, paths, opts...)
	}
	if err != nil {
		return err
	}
	records := make([]pathRecord, len(files))
	for i, seq := range seqs {
		if seq.Warning != nil {
			fmt.Fprintf(errout, "warning: %s: %v\n", files[i], seq.Warning)
		}
		records[i] = makePathRecord(files[i], paths[i], seq)
	}
	if framesOpts.format == "yaml" {
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(records); err != nil {
			return err
		}
		return enc.Close()
	}
	return writeTable(out, records)
}

func frenetAll(paths [][]tubular.Vec) ([]*rmf.Sequence, error) {
	seqs := make([]*rmf.Sequence, len(paths))
	for i, p := range paths {
		seq, err := rmf.FrenetFrames(p)
		if err != nil {
			return nil, fmt.Errorf("path %d: %w", i, err)
		}
		seqs[i] = seq
	}
	return seqs, nil
}

func makePathRecord(file string, samples []tubular.Vec, seq *rmf.Sequence) pathRecord {
	twist, _ := rmf.MaxTwist(seq)
	rec := pathRecord{File: file, MaxTwist: twist, Frames: make([]frameRecord, seq.N())}
	if seq.Warning != nil {
		rec.Warning = seq.Warning.Error()
	}
	for i, f := range seq.Frames {
		rec.Frames[i] = frameRecord{
			Index: i,
			Point: triple(samples[i]),
			T:     triple(f.T.Zap()),
			R:     triple(f.R.Zap()),
			S:     triple(f.S.Zap()),
		}
	}
	return rec
}

func triple(v tubular.Vec) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

func writeTable(out io.Writer, records []pathRecord) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', tabwriter.AlignRight)
	for _, rec := range records {
		fmt.Fprintf(tw, "# %s: %d frames, max twist %.3g°\n", rec.File, len(rec.Frames), rec.MaxTwist/tubular.Deg2Rad)
		fmt.Fprintln(tw, "i\tpoint\t\t\ttangent\t\t\tnormal\t\t\tside\t\t\t")
		for _, f := range rec.Frames {
			fmt.Fprintf(tw, "%d\t", f.Index)
			for _, v := range [][3]float64{f.Point, f.T, f.R, f.S} {
				fmt.Fprintf(tw, "%.4f\t%.4f\t%.4f\t", v[0], v[1], v[2])
			}
			fmt.Fprintln(tw)
		}
	}
	return tw.Flush()
}
