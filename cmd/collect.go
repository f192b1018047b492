package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"
)

// CollectCmd returns the collect command.
func CollectCmd() *cli.Command {
	return &cli.Command{
		Name:    "collect",
		Aliases: []string{"c"},
		Usage:   "Fetch recognition results for uncached images and store them in the cache",
		Flags:   commonFlags(),
		Action:  collectAction,
	}
}

func collectAction(c *cli.Context) error {
	ctx, err := NewCommandContext(c)
	if err != nil {
		return err
	}

	s := ctx.Summary
	fmt.Println(color.GreenString("=== Collection Summary ==="))
	fmt.Printf("Cached responses:   %d\n", s.Cached)
	fmt.Printf("Fetched responses:  %d\n", s.Fetched)
	if s.Skipped > 0 {
		fmt.Printf("Skipped responses:  %s\n", color.YellowString("%d", s.Skipped))
	} else {
		fmt.Printf("Skipped responses:  %d\n", s.Skipped)
	}
	fmt.Printf("Pending URLs:       %d\n", s.Pending)
	fmt.Printf("Images ingested:    %d\n", s.Images)
	fmt.Printf("Logos observed:     %d\n", ctx.Collector.Observations().Len())
	return nil
}
