package main

import (
	"fmt"
	"io"
	"sort"

	"github.com/npillmayer/tubular/stl"
	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file.stl>",
	Short: "Display information about an STL file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInspect(cmd.OutOrStdout(), args[0])
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(out io.Writer, filename string) error {
	model, err := stl.ParseFile(filename)
	if err != nil {
		return fmt.Errorf("error parsing STL file: %w", err)
	}
	bbox := model.BoundingBox()
	fmt.Fprintln(out, "STL File Information")
	fmt.Fprintln(out, "====================")
	if model.Name != "" {
		fmt.Fprintf(out, "Name: %s\n", model.Name)
	}
	fmt.Fprintf(out, "File: %s\n\n", filename)
	fmt.Fprintln(out, "Model Statistics:")
	fmt.Fprintf(out, "  Triangles: %d\n", model.TriangleCount())
	fmt.Fprintf(out, "  Surface Area: %.6f square units\n\n", model.SurfaceArea())
	fmt.Fprintln(out, "Bounding Box:")
	fmt.Fprintf(out, "  Min: %v\n", bbox.Min)
	fmt.Fprintf(out, "  Max: %v\n", bbox.Max)
	size := bbox.Size()
	fmt.Fprintf(out, "  Size: %.6f × %.6f × %.6f units\n", size.X, size.Y, size.Z)

	colours := map[stl.RGB]int{}
	for _, t := range model.Triangles {
		if c, ok := stl.AttrColour(t.Attr); ok {
			colours[c]++
		}
	}
	if len(colours) > 0 {
		keys := make([]stl.RGB, 0, len(colours))
		for c := range colours {
			keys = append(keys, c)
		}
		sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
		fmt.Fprintln(out, "\nFace Colours:")
		for _, c := range keys {
			fmt.Fprintf(out, "  %s: %d triangles\n", c, colours[c])
		}
	}
	return nil
}
