package main

import (
	"os"

	"github.com/askiada/go-pipeline-config/internal/cli"
)

func main() {
	os.Exit(cli.Execute(os.Args[1:]))
}
