package cmd

import (
	"github.com/urfave/cli/v2"

	"github.com/masmgr/logospots/internal/output"
	"github.com/masmgr/logospots/internal/scoring"
)

// reportAction collects observations and writes them ranked by mode.
func reportAction(mode scoring.RankMode) cli.ActionFunc {
	return func(c *cli.Context) error {
		ctx, err := NewCommandContext(c)
		if err != nil {
			return err
		}
		if !ctx.HasObservations() {
			ctx.PrintNoLogosMessage()
			return nil
		}

		opts, err := OutputOptions(c, ctx.Config)
		if err != nil {
			return err
		}

		items, err := scoring.Score(
			ctx.Collector.Observations(),
			ctx.Collector.Maxima(),
			ctx.Config.Rating,
			mode,
			opts.Explain,
		)
		if err != nil {
			return err
		}

		report := output.NewLogoReport(ctx.Source, mode, ctx.Collector.Images(), ctx.Collector.Maxima(), items)
		return writeLogoReport(report, opts)
	}
}

func writeLogoReport(report *output.LogoReport, opts output.OutputOptions) error {
	writer := output.NewReportWriter(opts.Format)
	return writer.Write(report, opts)
}
