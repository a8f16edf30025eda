package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/giftring/pkg/io"
	"github.com/matzehuels/giftring/pkg/pipeline"
)

func (c *CLI) checkCommand() *cobra.Command {
	var policy string

	cmd := &cobra.Command{
		Use:   "check [roster] [assignment]",
		Short: "Check a saved assignment against a roster",
		Long: `Check validates an assignment, such as a report written by "giftring draw -o",
against the current roster. Use it after adding a rule to find out whether an
earlier draw still holds.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := io.ImportRoster(args[0])
			if err != nil {
				return err
			}
			pairs, err := io.ImportAssignment(args[1])
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("policy") {
				policy = file.Settings.Policy
			}

			runner := pipeline.NewRunner(nil, nil, c.Logger)
			res, err := runner.Check(cmd.Context(), pipeline.CheckRequest{
				Participants: file.Participants,
				Policy:       policy,
				Pairs:        pairs,
			})
			if err != nil {
				return err
			}
			if !res.Valid {
				printWarning("Assignment breaks the rules")
				printDetail("%s: %s", res.Failure.Kind, res.Failure.Detail)
				return ErrInvalidAssignment
			}
			printSuccess("Assignment is valid (%d pairs)", len(pairs))
			return nil
		},
	}

	cmd.Flags().StringVarP(&policy, "policy", "p", "", "policy to check against (default from roster)")

	return cmd
}
