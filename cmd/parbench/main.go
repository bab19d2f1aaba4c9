package main

import (
	"fmt"
	"os"

	"github.com/aryankumar/parbench/internal/cli"
	"github.com/aryankumar/parbench/internal/util"
)

func main() {
	// Cancel in-flight tasks on SIGINT/SIGTERM
	ctx := util.SetupSignalHandler()

	if err := cli.Execute(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", util.FriendlyError(err))
		os.Exit(1)
	}
}
