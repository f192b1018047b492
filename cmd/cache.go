package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/masmgr/logospots/internal/output"
	"github.com/masmgr/logospots/internal/response"
)

// CacheCmd returns the cache command.
func CacheCmd() *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Inspect or export the response cache",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "cache-backend",
				Usage: "Response cache backend (file, sqlite, redis)",
			},
			&cli.BoolFlag{
				Name:  "keys",
				Usage: "List cached image URLs",
			},
			&cli.StringFlag{
				Name:  "export",
				Usage: "Write every cached response as JSON lines to this path (- for stdout)",
			},
		},
		Action: cacheAction,
	}
}

// cacheEntry is one exported JSON line.
type cacheEntry struct {
	URL      string            `json:"url"`
	Response response.Response `json:"response"`
}

func cacheAction(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	rc, err := openCache(c, cfg)
	if err != nil {
		return err
	}
	defer rc.Close()

	keys := rc.Keys()

	if path := c.String("export"); path != "" {
		if path == "-" {
			path = ""
		}
		out, file, err := output.OpenOutputWriter(path)
		if err != nil {
			return err
		}
		if file != nil {
			defer file.Close()
		}
		enc := json.NewEncoder(out)
		for _, key := range keys {
			r, _ := rc.Load(key)
			if err := enc.Encode(cacheEntry{URL: key, Response: r}); err != nil {
				return err
			}
		}
		return nil
	}

	if c.Bool("keys") {
		for _, key := range keys {
			fmt.Println(key)
		}
		return nil
	}

	fmt.Printf("Cache backend: %s\n", cfg.Cache.Backend)
	fmt.Printf("Cached responses: %d\n", len(keys))
	return nil
}
