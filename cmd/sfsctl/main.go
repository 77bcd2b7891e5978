// Command sfsctl manages and inspects sfscore disk images from the command
// line. It does not mount anything: the FUSE (or other user-space) host that
// translates kernel/VFS calls into FileSystem method calls is an external
// collaborator per spec.md §1, out of scope for this repo.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/blockfs-dev/sfscore"
)

func main() {
	app := cli.App{
		Name:  "sfsctl",
		Usage: "Create, inspect, and verify sfscore disk images",
		Commands: []*cli.Command{
			formatCommand,
			statCommand,
			lsCommand,
			catCommand,
			fsckCommand,
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatalf("fatal error: %s", err.Error())
	}
}

func openImage(context *cli.Context) (*sfscore.FileSystem, error) {
	path := context.Args().First()
	if path == "" {
		return nil, fmt.Errorf("missing disk image path")
	}
	return sfscore.Open(path)
}
