package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

var catCommand = &cli.Command{
	Name:      "cat",
	Usage:     "Print the full contents of a file",
	ArgsUsage: "IMAGE_PATH PATH",
	Action: func(context *cli.Context) error {
		fs, err := openImage(context)
		if err != nil {
			return err
		}
		defer fs.Close()

		path := context.Args().Get(1)
		if path == "" {
			return fmt.Errorf("missing file path")
		}

		stat, err := fs.GetAttr(path)
		if err != nil {
			return err
		}

		buf := make([]byte, stat.Size)
		n, err := fs.Read(path, 0, buf)
		if err != nil {
			return err
		}

		_, err = os.Stdout.Write(buf[:n])
		return err
	},
}
