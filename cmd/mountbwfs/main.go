// Command mountbwfs binds a BWFS image directory to a mount point and
// serves file-system requests by delegating to the fileops suite. The
// kernel-level bridge (FUSE or otherwise) is an external adapter
// (spec.md §1); this command provides its own line-oriented interactive
// adapter instead, so the binding can be exercised without one.
package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ajrojasfuentes/Black-and-White-Filesystem/block"
	"github.com/ajrojasfuentes/Black-and-White-Filesystem/fileops"
	"github.com/ajrojasfuentes/Black-and-White-Filesystem/internal/bwfslog"
	"github.com/urfave/cli/v2"
)

func main() {
	app := cli.App{
		Name:      "mountbwfs",
		Usage:     "Bind a BWFS image directory to a mount point",
		ArgsUsage: "DIR MOUNTPOINT",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "options",
				Aliases: []string{"o"},
				Usage: "comma-separated mount options (currently advisory only)",
			},
		},
		Action: mount,
	}

	if err := app.Run(os.Args); err != nil {
		bwfslog.Errorf("%s", err)
		os.Exit(8)
	}
}

func mount(c *cli.Context) error {
	dir := c.Args().Get(0)
	mountpoint := c.Args().Get(1)
	if dir == "" || mountpoint == "" {
		return cli.Exit("usage: mountbwfs DIR MOUNTPOINT", 8)
	}

	dir, err := filepath.Abs(dir)
	if err != nil {
		return cli.Exit(err.Error(), 8)
	}

	opts := strings.Split(c.String("options"), ",")
	bwfslog.Infof("mounting %s at %s (options=%v)", dir, mountpoint, opts)

	store := block.NewDirStore(dir)
	ctx, err := fileops.Mount(store)
	if err != nil {
		return cli.Exit(err.Error(), 8)
	}

	repl(ctx, mountpoint)
	return nil
}

// repl is the line-oriented stand-in for the kernel bridge: it parses one
// command per line and delegates directly to the mounted Context.
func repl(ctx *fileops.Context, mountpoint string) {
	scanner := bufio.NewScanner(os.Stdin)
	fmt.Printf("bwfs %s> ", mountpoint)
	for scanner.Scan() {
		dispatch(ctx, strings.Fields(scanner.Text()))
		fmt.Printf("bwfs %s> ", mountpoint)
	}
}

func dispatch(ctx *fileops.Context, args []string) {
	if len(args) == 0 {
		return
	}

	var err error
	switch args[0] {
	case "ls":
		err = cmdLs(ctx, args)
	case "mkdir":
		err = cmdMkdir(ctx, args)
	case "create":
		err = cmdCreate(ctx, args)
	case "write":
		err = cmdWrite(ctx, args)
	case "cat":
		err = cmdCat(ctx, args)
	case "rm":
		err = cmdUnlink(ctx, args)
	case "rmdir":
		err = cmdRmdir(ctx, args)
	case "stat":
		err = cmdStat(ctx, args)
	case "statfs":
		err = cmdStatfs(ctx)
	case "mv":
		err = cmdRename(ctx, args)
	case "quit", "exit":
		os.Exit(0)
	default:
		err = fmt.Errorf("unknown command %q", args[0])
	}

	if err != nil {
		bwfslog.Errorf("%s", err)
	}
}

func cmdLs(ctx *fileops.Context, args []string) error {
	path := "/"
	if len(args) > 1 {
		path = args[1]
	}
	names, err := ctx.ReadDir(path)
	if err != nil {
		return err
	}
	fmt.Println(strings.Join(names, "  "))
	return nil
}

func cmdMkdir(ctx *fileops.Context, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: mkdir PATH")
	}
	return ctx.Mkdir(args[1])
}

func cmdCreate(ctx *fileops.Context, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: create PATH")
	}
	return ctx.Create(args[1])
}

func cmdWrite(ctx *fileops.Context, args []string) error {
	if len(args) < 3 {
		return fmt.Errorf("usage: write PATH TEXT")
	}
	text := strings.Join(args[2:], " ")
	_, err := ctx.Write(args[1], 0, []byte(text))
	return err
}

func cmdCat(ctx *fileops.Context, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: cat PATH")
	}
	attr, err := ctx.GetAttr(args[1])
	if err != nil {
		return err
	}
	data, err := ctx.Read(args[1], 0, attr.Size)
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func cmdUnlink(ctx *fileops.Context, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: rm PATH")
	}
	return ctx.Unlink(args[1])
}

func cmdRmdir(ctx *fileops.Context, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: rmdir PATH")
	}
	return ctx.Rmdir(args[1])
}

func cmdStat(ctx *fileops.Context, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: stat PATH")
	}
	attr, err := ctx.GetAttr(args[1])
	if err != nil {
		return err
	}
	fmt.Printf("mode=%s size=%d blocks=%d nlink=%d\n", attr.Mode, attr.Size, attr.Blocks, attr.Nlink)
	return nil
}

func cmdStatfs(ctx *fileops.Context) error {
	stat := ctx.Statfs()
	fmt.Printf("bsize=%d blocks=%d bfree=%d bavail=%d namemax=%d\n", stat.Bsize, stat.Blocks, stat.Bfree, stat.Bavail, stat.NameMax)
	return nil
}

func cmdRename(ctx *fileops.Context, args []string) error {
	if len(args) < 3 {
		return fmt.Errorf("usage: mv FROM TO")
	}
	return ctx.Rename(args[1], args[2], 0)
}
