package cmd

import (
	"github.com/urfave/cli/v2"

	"github.com/masmgr/logospots/internal/output"
	"github.com/masmgr/logospots/internal/pairs"
)

// PairsCmd returns the pairs command.
func PairsCmd() *cli.Command {
	flags := append(commonFlags(), reportFlags()...)
	flags = append(flags,
		&cli.IntFlag{
			Name:  "min-shared",
			Usage: "Minimum number of images two logos must share",
		},
		&cli.Float64Flag{
			Name:  "min-jaccard",
			Usage: "Minimum Jaccard coefficient",
		},
	)

	return &cli.Command{
		Name:    "pairs",
		Aliases: []string{"p"},
		Usage:   "Find logos that tend to appear in the same image",
		Flags:   flags,
		Action:  pairsAction,
	}
}

func pairsAction(c *cli.Context) error {
	ctx, err := NewCommandContext(c)
	if err != nil {
		return err
	}
	if !ctx.HasObservations() {
		ctx.PrintNoLogosMessage()
		return nil
	}

	cfg := ctx.Config
	if c.IsSet("min-shared") {
		cfg.Pairs.MinSharedImages = c.Int("min-shared")
	}
	if c.IsSet("min-jaccard") {
		cfg.Pairs.MinJaccard = c.Float64("min-jaccard")
	}

	opts, err := OutputOptions(c, cfg)
	if err != nil {
		return err
	}
	if !c.IsSet("top") {
		opts.Top = 0
	}

	result := pairs.NewAnalyzer(cfg.Pairs).Analyze(ctx.Collector.LabelSets())
	report := output.NewPairReport(ctx.Source, result)
	return output.NewPairReportWriter(opts.Format).Write(report, opts)
}
