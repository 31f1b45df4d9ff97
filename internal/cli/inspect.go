package cli

import (
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	lda "github.com/archanas28/trungng-sub002"
)

func (c *CLI) newInspectCommand() *cobra.Command {
	var dataFolder string

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Load a data folder and print its size without sampling",
		Args:  cobra.NoArgs,
		Example: `  ldagibbs inspect --data-folder data`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := lda.LoadTrainConfig(dataFolder)
			if err != nil {
				return err
			}
			info, err := lda.Inspect(dataFolder, cfg)
			if err != nil {
				return err
			}

			p := message.NewPrinter(language.English)
			w := cmd.OutOrStdout()
			p.Fprintf(w, "documents:     %d (%d empty)\n", info.Documents, info.EmptyDocuments)
			p.Fprintf(w, "tokens:        %d\n", info.Tokens)
			p.Fprintf(w, "vocabulary:    %d\n", info.Vocabulary)
			if info.GraphEdges >= 0 {
				p.Fprintf(w, "graph edges:   %d\n", info.GraphEdges)
			} else {
				p.Fprintf(w, "graph edges:   none\n")
			}
			p.Fprintf(w, "entities:      %d (%d mentions in %d documents)\n", info.Entities, info.EntityTokens, info.EntityDocs)
			p.Fprintf(w, "topics:        %d\n", cfg.Sampler.NumTopics)
			return nil
		},
	}

	cmd.Flags().StringVar(&dataFolder, "data-folder", "data", "Path to the data folder")
	return cmd
}
