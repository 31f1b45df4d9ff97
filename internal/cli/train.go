package cli

import (
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	lda "github.com/archanas28/trungng-sub002"
)

func (c *CLI) newTrainCommand() *cobra.Command {
	var f runFlags

	cmd := &cobra.Command{
		Use:   "train",
		Short: "Fit LDA, optionally re-estimating a graph-smoothed prior",
		Args:  cobra.NoArgs,
		Example: `  ldagibbs train --data-folder data -o out
  ldagibbs train -k 50 --iters 2000 --burn-in 1000 --seed 7
  ldagibbs train --opt-interval 0 --beta 0.01
  ldagibbs train --profile cpu -v`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := f.config(cmd)
			if err != nil {
				return err
			}
			prof, err := f.startProfile()
			if err != nil {
				return err
			}
			defer prof.Stop()

			slog.Info("Training", "data-folder", f.dataFolder, "output", f.output)
			start := time.Now()
			res, err := lda.Train(cmd.Context(), f.dataFolder, cfg)
			if err != nil {
				return err
			}
			slog.Debug("Training completed", "duration", time.Since(start))
			if _, err := res.Save(f.output, f.name, f.topWords, f.topTopics); err != nil {
				return err
			}
			return nil
		},
	}

	f.register(cmd, true)
	return cmd
}
