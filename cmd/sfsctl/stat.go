package main

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

var statCommand = &cli.Command{
	Name:      "stat",
	Usage:     "Print the attributes of a file or the root directory",
	ArgsUsage: "IMAGE_PATH PATH",
	Action: func(context *cli.Context) error {
		fs, err := openImage(context)
		if err != nil {
			return err
		}
		defer fs.Close()

		path := context.Args().Get(1)
		if path == "" {
			path = "/"
		}

		stat, err := fs.GetAttr(path)
		if err != nil {
			return err
		}

		fmt.Printf("inode=%d mode=%s size=%d nlink=%d\n",
			stat.InodeNumber, stat.ModeFlags, stat.Size, stat.Nlinks)
		return nil
	},
}
