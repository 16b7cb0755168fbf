package main

import (
	"fmt"
	"os"

	"github.com/AlexScherba16/itask/cli"
)

func main() {
	if err := cli.App.Run(os.Args); err != nil {
		fmt.Println("Error running CLI app:", err)
		os.Exit(1)
	}
}
