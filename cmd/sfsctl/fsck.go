package main

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

var fsckCommand = &cli.Command{
	Name:      "fsck",
	Usage:     "Check bitmap, allocation, and directory consistency",
	ArgsUsage: "IMAGE_PATH",
	Action: func(context *cli.Context) error {
		fs, err := openImage(context)
		if err != nil {
			return err
		}
		defer fs.Close()

		if err := fs.Check(); err != nil {
			fmt.Println(err)
			return cli.Exit("", 1)
		}
		fmt.Println("ok")
		return nil
	},
}
