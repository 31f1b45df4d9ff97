package cli

import (
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	lda "github.com/archanas28/trungng-sub002"
)

func (c *CLI) newEntityCommand() *cobra.Command {
	var f runFlags

	cmd := &cobra.Command{
		Use:   "entity",
		Short: "Fit entity-aware LDA using the document-entity file",
		Args:  cobra.NoArgs,
		Example: `  ldagibbs entity --data-folder data -o out
  ldagibbs entity -k 30 --gamma 0.5 --seed 7 -v`,
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

			slog.Info("Training with entities", "data-folder", f.dataFolder, "output", f.output)
			start := time.Now()
			res, err := lda.TrainEntity(cmd.Context(), f.dataFolder, cfg)
			if err != nil {
				return err
			}
			slog.Debug("Training completed", "duration", time.Since(start))
			_, err = res.Save(f.output, f.name, f.topWords, f.topTopics)
			return err
		},
	}

	f.register(cmd, false)
	return cmd
}
