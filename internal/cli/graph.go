package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/giftring/pkg/assign"
	"github.com/matzehuels/giftring/pkg/constraint"
	"github.com/matzehuels/giftring/pkg/io"
	"github.com/matzehuels/giftring/pkg/roster"
)

const (
	formatDOT = "dot"
	formatSVG = "svg"
)

// graphOpts holds the command-line flags for the graph command.
type graphOpts struct {
	format    string
	output    string
	highlight string // report whose pairs are drawn bold
}

func (c *CLI) graphCommand() *cobra.Command {
	opts := graphOpts{format: formatSVG}

	cmd := &cobra.Command{
		Use:   "graph [roster]",
		Short: "Draw who may give to whom",
		Long: `Graph renders the allowed giver → receiver relation of a roster. Participants
that cannot give or cannot receive are filled red. With --highlight, the pairs
of a saved draw are drawn on top.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.format != formatDOT && opts.format != formatSVG {
				return fmt.Errorf("invalid format: %s (must be 'dot' or 'svg')", opts.format)
			}
			prog := newProgress(c.Logger)

			file, err := io.ImportRoster(args[0])
			if err != nil {
				return err
			}
			r, err := roster.Normalize(file.Participants)
			if err != nil {
				return err
			}
			g := constraint.Build(r)

			var highlight func(giver, receiver int) bool
			if opts.highlight != "" {
				pairs, err := io.ImportAssignment(opts.highlight)
				if err != nil {
					return err
				}
				highlight = pairHighlighter(g, pairs)
			}

			var data []byte
			if opts.format == formatDOT {
				data = []byte(g.ToDOT(highlight))
			} else {
				data, err = g.RenderSVG(cmd.Context(), highlight)
				if err != nil {
					return err
				}
			}

			if opts.output == "" {
				_, err = stdout.Write(data)
				return err
			}
			if err := os.WriteFile(opts.output, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", opts.output, err)
			}
			prog.done(fmt.Sprintf("Rendered %d participants, %d allowed pairs", g.Len(), g.EdgeCount()))
			printFile(opts.output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: svg (default), dot")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVar(&opts.highlight, "highlight", "", "report or assignment file to draw on top")

	return cmd
}

// pairHighlighter marks the given pairs. Pairs naming unknown participants
// are skipped.
func pairHighlighter(g *constraint.Graph, pairs []assign.Pair) func(giver, receiver int) bool {
	marked := make(map[[2]int]bool, len(pairs))
	for _, p := range pairs {
		i, ok1 := g.Index(p.Giver)
		j, ok2 := g.Index(p.Receiver)
		if ok1 && ok2 {
			marked[[2]int{i, j}] = true
		}
	}
	return func(giver, receiver int) bool {
		return marked[[2]int{giver, receiver}]
	}
}
