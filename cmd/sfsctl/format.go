package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/blockfs-dev/sfscore"
)

var formatCommand = &cli.Command{
	Name:      "format",
	Usage:     "Create or wipe a disk image to the empty state",
	ArgsUsage: "IMAGE_PATH",
	Action: func(context *cli.Context) error {
		path := context.Args().First()
		if path == "" {
			return fmt.Errorf("missing disk image path")
		}

		fs, err := sfscore.Init(path)
		if err != nil {
			return err
		}
		return fs.Destroy()
	},
}
