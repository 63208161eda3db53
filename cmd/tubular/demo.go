package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/npillmayer/tubular/stage"
	"github.com/spf13/cobra"
)

var demoSpeed float64

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run the narrated corridor demo",
	Long: `Play the corridor demo stage by stage: scatter dots, connect them by a
curve, compare a naive corridor along Frenet frames with one along
rotation-minimizing frames. Interrupt with Ctrl-C.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("speed") {
			conf.Demo.Speed = demoSpeed
		}
		if err := conf.Validate(); err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		scene := stage.NewScene(conf)
		driver := &stage.Driver{
			Stages: stage.DemoStages(scene),
			Speed:  conf.Demo.Speed,
			Narrator: func(text string) {
				fmt.Fprintln(cmd.OutOrStdout(), text)
			},
		}
		if err := driver.Play(ctx); err != nil {
			if ctx.Err() == context.Canceled {
				fmt.Fprintln(cmd.ErrOrStderr(), "interrupted")
				return nil
			}
			return err
		}
		return nil
	},
}

func init() {
	demoCmd.Flags().Float64Var(&demoSpeed, "speed", 1, "pacing factor, 2 is twice as fast")
	rootCmd.AddCommand(demoCmd)
}
