// Command fsckbwfs runs the offline consistency checker against a
// directory of block images, per spec.md's exit-code contract: 0 clean,
// 1 errors found and all repaired, 4 errors found and not all repaired,
// 8 operational failure.
package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/ajrojasfuentes/Black-and-White-Filesystem/block"
	"github.com/ajrojasfuentes/Black-and-White-Filesystem/fsck"
	"github.com/ajrojasfuentes/Black-and-White-Filesystem/internal/bwfslog"
	"github.com/urfave/cli/v2"
)

func main() {
	app := cli.App{
		Name:      "fsckbwfs",
		Usage:     "Check (and optionally repair) a BWFS filesystem",
		ArgsUsage: "DIR",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "force",
				Aliases: []string{"f"},
				Usage:   "check even if the filesystem appears clean (BWFS keeps no on-disk clean marker, so this is currently a no-op)",
			},
			&cli.BoolFlag{
				Name:    "yes",
				Aliases: []string{"y"},
				Usage:   "automatically repair every finding without asking",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "print every finding, not just the summary",
			},
		},
		Action: runFsck,
	}

	// App.Run already calls os.Exit via its default ExitErrHandler when an
	// Action returns a cli.ExitCoder (every path below does); a plain error
	// only reaches here for flag-parsing failures before Action runs.
	if err := app.Run(os.Args); err != nil {
		bwfslog.Errorf("%s", err)
		os.Exit(8)
	}
}

func runFsck(c *cli.Context) error {
	dir := c.Args().First()
	if dir == "" {
		return cli.Exit("missing DIR argument", 8)
	}

	if c.Bool("verbose") {
		bwfslog.EnableDebug()
	}

	store := block.NewDirStore(dir)
	checker := &fsck.Checker{
		Store:      store,
		AutoRepair: c.Bool("yes"),
	}
	if !checker.AutoRepair {
		checker.Ask = askStdin
	}

	report, err := fsck.Run(checker)
	if err != nil {
		return cli.Exit(err.Error(), 8)
	}

	for _, f := range report.Findings {
		bwfslog.Debugf("%s: %s (repaired=%v)", f.Severity, f.Message, f.Repaired)
	}
	bwfslog.Infof("errors_found=%d errors_fixed=%d warnings=%d", report.ErrorsFound, report.ErrorsFixed, report.Warnings)

	return cli.Exit("", report.ExitCode())
}

func askStdin(message string) bool {
	fmt.Printf("%s [y/N] ", message)
	reader := bufio.NewReader(os.Stdin)
	line, _ := reader.ReadString('\n')
	return line == "y\n" || line == "Y\n"
}
