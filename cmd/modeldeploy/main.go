package main

import (
	"os"

	"modeldeploy/internal/cli"
)

func main() {
	os.Exit(cli.Main(os.Args[1:]))
}
