package main

import (
	"os"

	"github.com/babarot/trashcan/internal/cli"
)

const appName = "trashcan"

var (
	version   = "unset"
	revision  = "unset"
	buildDate = "unset"
)

func main() {
	err := cli.Run(cli.Version{
		AppName:   appName,
		Version:   version,
		Revision:  revision,
		BuildDate: buildDate,
	}, os.Args[1:])
	if err != nil {
		cli.PrintError(os.Stderr, appName, err)
		os.Exit(1)
	}
}
