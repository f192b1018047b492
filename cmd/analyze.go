package cmd

import (
	"github.com/urfave/cli/v2"

	"github.com/masmgr/logospots/internal/scoring"
)

// AnalyzeCmd returns the analyze command.
func AnalyzeCmd() *cli.Command {
	flags := append(commonFlags(), reportFlags()...)

	return &cli.Command{
		Name:    "analyze",
		Aliases: []string{"a"},
		Usage:   "Rank logos by weighted rating of frequency, area, clarity and placement",
		Flags:   flags,
		Action:  reportAction(scoring.ModeRating),
	}
}
