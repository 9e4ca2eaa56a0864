// Command mkfsbwfs formats a directory of block images as a fresh BWFS
// filesystem.
package main

import (
	"fmt"
	"os"

	"github.com/ajrojasfuentes/Black-and-White-Filesystem/block"
	"github.com/ajrojasfuentes/Black-and-White-Filesystem/internal/bwfslog"
	"github.com/ajrojasfuentes/Black-and-White-Filesystem/mkfs"
	"github.com/ajrojasfuentes/Black-and-White-Filesystem/presets"
	"github.com/urfave/cli/v2"
)

func main() {
	app := cli.App{
		Name:      "mkfsbwfs",
		Usage:     "Format a directory of block images as a BWFS filesystem",
		ArgsUsage: "DIR",
		Flags: []cli.Flag{
			&cli.UintFlag{
				Name:  "blocks",
				Aliases: []string{"b"},
				Usage: "total number of blocks in the new filesystem",
				Value: mkfs.DefaultTotalBlocks,
			},
			&cli.StringFlag{
				Name:  "preset",
				Usage: fmt.Sprintf("named size preset instead of -b (%v)", presets.Slugs()),
			},
		},
		Action: format,
	}

	// App.Run already calls os.Exit via its default ExitErrHandler when an
	// Action returns a cli.ExitCoder (every path below does); a plain error
	// only reaches here for flag-parsing failures before Action runs.
	if err := app.Run(os.Args); err != nil {
		bwfslog.Errorf("%s", err)
		os.Exit(8)
	}
}

func format(c *cli.Context) error {
	dir := c.Args().First()
	if dir == "" {
		return cli.Exit("missing DIR argument", 8)
	}

	totalBlocks := uint32(c.Uint("blocks"))
	if slug := c.String("preset"); slug != "" {
		p, ok := presets.Lookup(slug)
		if !ok {
			return cli.Exit(fmt.Sprintf("no such preset %q", slug), 8)
		}
		totalBlocks = p.TotalBlocks
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return cli.Exit(err.Error(), 8)
	}

	store := block.NewDirStore(dir)
	if err := mkfs.Format(store, totalBlocks); err != nil {
		return cli.Exit(err.Error(), 8)
	}

	bwfslog.Infof("formatted %s with %d blocks", dir, totalBlocks)
	return nil
}
