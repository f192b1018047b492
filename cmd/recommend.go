package cmd

import (
	"github.com/urfave/cli/v2"

	"github.com/masmgr/logospots/internal/scoring"
)

// RecommendCmd returns the recommend command.
func RecommendCmd() *cli.Command {
	flags := append(commonFlags(), reportFlags()...)

	return &cli.Command{
		Name:    "recommend",
		Aliases: []string{"r"},
		Usage:   "Order logos by count, then centrality mean, area mean, clarity mean, centrality std, co-occurrence mean, clarity std and area std",
		Flags:   flags,
		Action:  reportAction(scoring.ModeRecommend),
	}
}
