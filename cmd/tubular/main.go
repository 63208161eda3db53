// Command tubular computes rotation-minimizing frames along space curves and
// sweeps corridors along them.
//
//	tubular frames path.txt           # frames for a sample file
//	tubular build -o corridor.stl     # random route → curve → corridor mesh
//	tubular demo --speed 4            # narrated demo
//	tubular inspect corridor.stl      # STL statistics
package main

import (
	"fmt"
	"os"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/tubular/config"
	"github.com/spf13/cobra"
)

// Set via ldflags during build.
var (
	version   = "dev"
	gitCommit = "unknown"
)

// trace keys of the packages in this module
var traceKeys = []string{"tubular", "rmf", "curve", "route", "corridor", "polygon", "stage"}

var (
	configFile string
	verbose    bool
	conf       *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "tubular",
	Short: "Rotation-minimizing frames and corridor meshes along space curves",
	Long: `tubular computes orthonormal frames along sampled space curves with the
double reflection method, which keeps frames from twisting needlessly. It
sweeps a rectangular profile along these frames to build corridor meshes,
which may be exported as STL files.`,
	Version:           fmt.Sprintf("%s (%s)", version, gitCommit),
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "YAML configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "trace at info level")
}

// setup loads the configuration and installs tracing.
func setup(cmd *cobra.Command, args []string) error {
	var err error
	if configFile == "" {
		conf = config.Default()
	} else if conf, err = config.Load(configFile); err != nil {
		return err
	}
	level, err := conf.Level()
	if err != nil {
		return err
	}
	if verbose && level < tracing.LevelInfo {
		level = tracing.LevelInfo
	}
	installTracing(level)
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
