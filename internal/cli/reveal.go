package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/giftring/pkg/assign"
	"github.com/matzehuels/giftring/pkg/errors"
	"github.com/matzehuels/giftring/pkg/io"
	"github.com/matzehuels/giftring/pkg/roster"
)

func (c *CLI) revealCommand() *cobra.Command {
	var (
		all   bool
		giver string
	)

	cmd := &cobra.Command{
		Use:   "reveal [report]",
		Short: "Reveal a saved draw one giver at a time",
		Long: `Reveal opens a saved draw report in an interactive viewer that shows one
giver's receiver at a time. Use --giver to print a single receiver, or --all
to print the whole list.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rep, err := io.ImportReport(args[0])
			if err != nil {
				return err
			}
			if rep.Status != assign.StatusSuccess {
				printReport(rep, false)
				return ErrInfeasible
			}
			switch {
			case giver != "":
				return revealOne(rep, roster.ID(giver))
			case all:
				printReport(rep, true)
				return nil
			}
			return c.runReveal(cmd.Context(), rep)
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "print every pair")
	cmd.Flags().StringVar(&giver, "giver", "", "print only this giver's receiver")

	return cmd
}

func revealOne(rep assign.Report, giver roster.ID) error {
	for _, p := range rep.Pairs {
		if p.Giver.ID == giver {
			fmt.Fprintln(stdout, p.Receiver.Name)
			return nil
		}
	}
	return errors.New(errors.ErrCodeNotFound, "%q is not a giver in this draw", giver)
}

func (c *CLI) runReveal(ctx context.Context, rep assign.Report) error {
	pairs := rep.Pairs
	if len(rep.Ring) > 0 {
		pairs = ringOrder(rep)
	}
	_, err := tea.NewProgram(NewRevealModel(pairs), tea.WithContext(ctx), tea.WithAltScreen()).Run()
	return err
}

// ringOrder lists the pairs of a single-ring report in ring order, so that
// gifts can be handed out along the circle.
func ringOrder(rep assign.Report) []assign.ReportPair {
	byGiver := make(map[roster.ID]assign.ReportPair, len(rep.Pairs))
	for _, p := range rep.Pairs {
		byGiver[p.Giver.ID] = p
	}
	out := make([]assign.ReportPair, 0, len(rep.Ring))
	for _, r := range rep.Ring {
		if p, ok := byGiver[r.ID]; ok {
			out = append(out, p)
		}
	}
	if len(out) != len(rep.Pairs) {
		return rep.Pairs
	}
	return out
}
