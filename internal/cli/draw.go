package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/matzehuels/giftring/pkg/io"
	"github.com/matzehuels/giftring/pkg/pipeline"
)

// drawOpts holds the command-line flags for the draw command. Flags that
// are not set on the command line leave the roster file's settings alone.
type drawOpts struct {
	policy      string
	seed        uint64
	retryBudget int
	timeout     time.Duration
	maxNodes    int
	output      string // report file
	json        bool   // print the report as JSON instead of a summary
	show        bool   // list the pairs in the summary
	noCache     bool
	refresh     bool
}

func (c *CLI) drawCommand() *cobra.Command {
	var opts drawOpts

	cmd := &cobra.Command{
		Use:   "draw [roster]",
		Short: "Draw an assignment for a roster file",
		Long: `Draw reads a roster (TOML or JSON), computes an assignment that honors every
exclusion and prints a summary. Pairs stay hidden unless --show is given, so
the organizer can save the draw with -o and hand it to "giftring reveal".

A --seed makes the draw reproducible; seeded results are cached.`,
		Example: `  giftring draw family.toml -o draw.json
  giftring draw family.toml --seed 2024 --show
  giftring draw family.json --policy prefer-cycle --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runDraw(cmd.Context(), args[0], cmd.Flags(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.policy, "policy", "p", "", "single-cycle (default), prefer-cycle or any")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 0, "seed for a reproducible draw")
	cmd.Flags().IntVar(&opts.retryBudget, "retry-budget", 0, "random rings to try before exact search")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 0, "search deadline (default 2s)")
	cmd.Flags().IntVar(&opts.maxNodes, "max-nodes", 0, "exact search node limit")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write the report to this file")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print the report as JSON")
	cmd.Flags().BoolVar(&opts.show, "show", false, "list the pairs")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the result cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached results")

	return cmd
}

// applyFlags overrides roster file settings with explicitly set flags.
func (o drawOpts) applyFlags(flags *pflag.FlagSet, p *pipeline.Options) {
	if flags.Changed("policy") {
		p.Policy = o.policy
	}
	if flags.Changed("seed") {
		seed := o.seed
		p.Seed = &seed
	}
	if flags.Changed("retry-budget") {
		p.RetryBudget = o.retryBudget
	}
	if flags.Changed("timeout") {
		p.SearchTimeoutMS = pipeline.TimeoutMS(o.timeout)
	}
	if flags.Changed("max-nodes") {
		p.MaxSearchNodes = o.maxNodes
	}
	p.Refresh = o.refresh
}

func (c *CLI) runDraw(ctx context.Context, path string, flags *pflag.FlagSet, opts drawOpts) error {
	file, err := io.ImportRoster(path)
	if err != nil {
		return err
	}
	popts := file.Options()
	opts.applyFlags(flags, &popts)

	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	spinner := newSpinner(ctx, "Drawing...")
	spinner.Start()
	result, err := runner.Execute(ctx, popts)
	spinner.Stop()
	if err != nil {
		return err
	}
	rep := result.Report

	if opts.json {
		if err := io.WriteReport(rep, stdout); err != nil {
			return err
		}
	} else {
		printReport(rep, opts.show)
		printStats(result.Stats.Participants, result.Stats.Rules, rep.Stats.Phase, result.CacheInfo.Hit)
	}

	if opts.output != "" {
		if err := io.ExportReport(rep, opts.output); err != nil {
			return err
		}
		if !opts.json {
			printFile(opts.output)
			if result.Outcome.Feasible() && !opts.show {
				printNextStep("Reveal one giver at a time", appName+" reveal "+opts.output)
			}
		}
	}

	if !result.Outcome.Feasible() {
		return ErrInfeasible
	}
	return nil
}
