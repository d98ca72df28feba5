package main

import (
	"fmt"
	"os"

	"songfetch/cmd/songfetch/commands"
)

const toolVersion = "1.0.0"

func main() {
	if err := commands.NewRootCommand(toolVersion).Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
